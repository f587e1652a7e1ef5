package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	cfgpkg "github.com/local/resumeai/internal/config"
	"github.com/local/resumeai/internal/extract"
	"github.com/local/resumeai/internal/filetype"
	logpkg "github.com/local/resumeai/internal/logger"
	"github.com/local/resumeai/internal/metrics"
	"github.com/local/resumeai/internal/pipeline"
	"github.com/local/resumeai/internal/render"
	"github.com/local/resumeai/internal/upstream"
	"github.com/local/resumeai/internal/web"
)

func main() {
	_ = godotenv.Load()
	cfg := cfgpkg.FromEnv()

	// Init logging
	_ = logpkg.Init(logpkg.Options{
		Level:        cfg.Logging.Level,
		Pretty:       cfg.Logging.Pretty,
		File:         cfg.Logging.File,
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		MaxAgeDays:   cfg.Logging.MaxAgeDays,
		Compress:     cfg.Logging.Compress,
		SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
		AxiomAPIKey:  cfg.Axiom.APIKey,
		AxiomOrgID:   cfg.Axiom.OrgID,
		AxiomDataset: cfg.Axiom.Dataset,
		AxiomFlush:   cfg.Axiom.FlushInterval,
	})
	defer logpkg.Close()

	metrics.Init()

	// Pipeline wiring: every component gets its config explicitly.
	pipe := pipeline.New(
		extract.New(),
		upstream.NewClient(cfg.Upstream),
		render.NewRenderer(cfg.Render),
		cfg.MaxUploadBytes(),
	)

	srvWeb := web.New(pipe, filetype.New(), cfg.MaxUploadBytes(), cfg.Server.CORSOrigins)
	mux := http.NewServeMux()
	srvWeb.RegisterRoutes(mux)

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: srvWeb.CORS(mux)}

	go func() {
		log.Info().Msgf("HTTP server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("shutdown complete")
}
