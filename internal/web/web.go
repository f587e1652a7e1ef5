package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/local/resumeai/internal/extract"
	"github.com/local/resumeai/internal/filetype"
	"github.com/local/resumeai/internal/metrics"
	"github.com/local/resumeai/internal/pipeline"
	"github.com/local/resumeai/internal/upstream"
)

// Web exposes the pipeline over HTTP. Thin plumbing: parse the upload,
// call Process, translate error kinds to status codes.
type Web struct {
	pipe     *pipeline.Pipeline
	detector *filetype.Detector
	maxBytes int64
	origins  []string
}

// New creates the HTTP surface.
func New(pipe *pipeline.Pipeline, detector *filetype.Detector, maxBytes int64, corsOrigins []string) *Web {
	return &Web{pipe: pipe, detector: detector, maxBytes: maxBytes, origins: corsOrigins}
}

func (s *Web) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/resume/analyze", s.handleAnalyze)
}

type analysisResp struct {
	Analysis    string `json:"analysis"`
	Suggestions string `json:"suggestions"`
	Score       *int   `json:"score"`
}

type errorResp struct {
	Detail string `json:"detail"`
}

// handleAnalyze accepts a multipart upload (file + adjust flag) and returns
// either the analysis JSON or the re-typeset resume as a PDF attachment.
func (s *Web) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	reqID := uuid.NewString()
	l := log.With().Str("request_id", reqID).Logger()

	// Allow some slack over the document limit for multipart framing; the
	// pipeline's own gate produces the canonical 413.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes+1<<20)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			metrics.IncRejected("too_large")
			writeError(w, http.StatusRequestEntityTooLarge, "file exceeds the upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	adjust := parseFlag(r.FormValue("adjust"))
	contentType := hdr.Header.Get("Content-Type")

	kind, err := s.detector.Resolve(data, contentType, hdr.Filename)
	if err != nil {
		l.Warn().Err(err).Str("file", hdr.Filename).Msg("upload rejected")
		metrics.IncRejected("unsupported")
		metrics.IncRequest(mode(adjust), "rejected")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	l.Info().Str("file", hdr.Filename).Str("kind", string(kind)).Bool("adjust", adjust).Int("size", len(data)).Msg("processing resume upload")

	out, err := s.pipe.Process(r.Context(), pipeline.Document{Data: data, Kind: kind}, adjust)
	if err != nil {
		status := statusFor(err)
		if status >= 500 {
			l.Error().Err(err).Msg("pipeline failed")
		} else {
			l.Warn().Err(err).Msg("request rejected")
		}
		metrics.IncRequest(mode(adjust), "error")
		writeError(w, status, err.Error())
		return
	}

	metrics.IncRequest(mode(adjust), "ok")

	if out.PDF != nil {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="curriculo_ajustado.pdf"`)
		_, _ = w.Write(out.PDF)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(analysisResp{
		Analysis:    out.Analysis.Analysis,
		Suggestions: out.Analysis.Suggestions,
		Score:       out.Analysis.Score,
	})
}

// statusFor maps pipeline error kinds to transport statuses: bad input is
// the client's fault (400/413), a broken upstream is ours (500).
func statusFor(err error) int {
	var tooLarge *pipeline.PayloadTooLargeError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	var unsupported *extract.UnsupportedFormatError
	var decode *extract.DecodeError
	if errors.As(err, &unsupported) || errors.As(err, &decode) || extract.IsEmptyContent(err) {
		return http.StatusBadRequest
	}
	if upstream.IsUnavailable(err) ||
		errors.Is(err, upstream.ErrMalformedResponse) ||
		errors.Is(err, upstream.ErrEmptyResponse) ||
		errors.Is(err, pipeline.ErrMissingRewrite) {
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// CORS wraps a handler with the configured allowed origins.
func (s *Web) CORS(next http.Handler) http.Handler {
	allowAll := len(s.origins) == 0
	allowed := map[string]bool{}
	for _, o := range s.origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResp{Detail: detail})
}

func parseFlag(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func mode(adjust bool) string {
	if adjust {
		return "adjust"
	}
	return "analysis"
}
