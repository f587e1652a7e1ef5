package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom logging configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// UpstreamConfig defines connectivity to the analysis webhook.
type UpstreamConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// UploadConfig defines upload acceptance limits.
type UploadConfig struct {
	MaxSizeMB int
}

// RenderConfig defines layout policy for the PDF renderer.
type RenderConfig struct {
	SkillsKeywords     []string
	SkillsTwoColumnMin int
}

// ServerConfig defines the HTTP surface.
type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

// Config is the top-level configuration. Loaded once at startup and
// immutable afterwards; components receive the pieces they need.
type Config struct {
	Logging  LoggingConfig
	Axiom    AxiomConfig
	Upstream UpstreamConfig
	Upload   UploadConfig
	Render   RenderConfig
	Server   ServerConfig
}

// MaxUploadBytes returns the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) * 1024 * 1024
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	// Logging defaults
	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
		File:       getEnv("LOG_FILE", "logs/resumeai.log"),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	// Axiom defaults
	baseDataset := getEnv("AXIOM_DATASET", "dev")
	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		APIKey:        getEnv("AXIOM_API_KEY", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       baseDataset + "_resumeai",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	// Upstream webhook defaults
	cfg.Upstream = UpstreamConfig{
		WebhookURL: getEnv("WEBHOOK_URL", "http://localhost:5678/webhook/resume"),
		Timeout:    parseDuration(getEnv("WEBHOOK_TIMEOUT", "120s"), 120*time.Second),
	}

	// Upload defaults
	cfg.Upload = UploadConfig{
		MaxSizeMB: parseInt(getEnv("MAX_FILE_SIZE_MB", "5"), 5),
	}

	// Render defaults
	cfg.Render = RenderConfig{
		SkillsKeywords:     parseList(getEnv("SKILLS_KEYWORDS", "habilidades,skills,competências,competencias")),
		SkillsTwoColumnMin: parseInt(getEnv("SKILLS_TWO_COLUMN_MIN", "6"), 6),
	}

	// Server defaults
	cfg.Server = ServerConfig{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: parseList(getEnv("CORS_ORIGINS", "*")),
	}

	return cfg
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func devDefaultPretty() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "dev" || env == "development" || env == "local" {
		return "true"
	}
	return "false"
}
