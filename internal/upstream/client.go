package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/resumeai/internal/config"
)

// Result is the canonical in-process representation of the analysis
// service's output, whatever wire shape was received. Score is nil when
// no score could be found (never zero-by-default).
type Result struct {
	Analysis    string
	Suggestions string
	Score       *int
	Rewritten   string
}

// Client calls the external analysis webhook. One attempt per call; the
// webhook fronts an LLM, so silent retries would duplicate costly work.
type Client struct {
	http *http.Client
	url  string
}

// NewClient builds a client from the upstream configuration.
func NewClient(cfg config.UpstreamConfig) *Client {
	return &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		url:  cfg.WebhookURL,
	}
}

type analyzeReq struct {
	ResumeText string `json:"resume_text"`
	Adjust     bool   `json:"adjust"`
}

// Analyze sends the resume text to the webhook and normalizes whichever
// response shape comes back.
func (c *Client) Analyze(ctx context.Context, text string, adjust bool) (Result, error) {
	body, _ := json.Marshal(analyzeReq{ResumeText: text, Adjust: adjust})

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, &UpstreamError{URL: c.url, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	log.Info().Bool("adjust", adjust).Str("url", c.url).Int("chars", len(text)).Msg("sending resume to analysis service")
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Str("url", c.url).Msg("analysis service call failed")
		return Result{}, &UpstreamError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Int("status", resp.StatusCode).Msg("analysis service returned error status")
		return Result{}, &UpstreamError{URL: c.url, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &UpstreamError{URL: c.url, Err: err}
	}

	res, err := normalize(raw, adjust)
	if err != nil {
		return Result{}, err
	}

	log.Info().Dur("took", time.Since(start)).Bool("has_rewrite", res.Rewritten != "").Msg("analysis response received")
	return res, nil
}
