package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/resumeai/internal/filetype"
	"github.com/local/resumeai/internal/metrics"
	"github.com/local/resumeai/internal/upstream"
)

// Document is a validated upload ready for processing. It lives for one
// request and is discarded after text extraction.
type Document struct {
	Data []byte
	Kind filetype.Kind
}

// Outcome carries the pipeline's result: the canonical analysis record in
// analysis mode, or PDF bytes in adjust mode. Exactly one is set.
type Outcome struct {
	Analysis *upstream.Result
	PDF      []byte
}

// PayloadTooLargeError reports an upload rejected by the size gate before
// any extraction or network work.
type PayloadTooLargeError struct {
	Size, Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("file is %.2f MB, limit is %d MB", float64(e.Size)/(1024*1024), e.Limit/(1024*1024))
}

// ErrMissingRewrite signals an adjust request the analysis service answered
// without a rewritten resume.
var ErrMissingRewrite = errors.New("analysis service returned no rewritten resume")

// Extractor flattens an upload into plain text.
type Extractor interface {
	Extract(data []byte, kind filetype.Kind) (string, error)
}

// Analyzer calls the external analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, text string, adjust bool) (upstream.Result, error)
}

// Renderer typesets a rewritten resume as a PDF.
type Renderer interface {
	Render(rewritten string) ([]byte, error)
}

// Pipeline composes extraction, the analysis call and rendering. Stateless;
// safe for concurrent use, one independent flow per call.
type Pipeline struct {
	extractor Extractor
	analyzer  Analyzer
	renderer  Renderer
	maxBytes  int64
}

// New builds a pipeline. maxBytes bounds accepted upload sizes.
func New(extractor Extractor, analyzer Analyzer, renderer Renderer, maxBytes int64) *Pipeline {
	return &Pipeline{extractor: extractor, analyzer: analyzer, renderer: renderer, maxBytes: maxBytes}
}

// Process runs the full flow. Every failure is single-shot and surfaces
// immediately; the caller decides whether a retry is worth another LLM call.
func (p *Pipeline) Process(ctx context.Context, doc Document, adjust bool) (Outcome, error) {
	if size := int64(len(doc.Data)); p.maxBytes > 0 && size > p.maxBytes {
		log.Warn().Int64("size", size).Int64("limit", p.maxBytes).Msg("upload rejected by size gate")
		metrics.IncRejected("too_large")
		return Outcome{}, &PayloadTooLargeError{Size: size, Limit: p.maxBytes}
	}
	metrics.ObserveUploadSize(int64(len(doc.Data)))

	text, err := p.extractor.Extract(doc.Data, doc.Kind)
	if err != nil {
		return Outcome{}, err
	}

	start := time.Now()
	res, err := p.analyzer.Analyze(ctx, text, adjust)
	if err != nil {
		metrics.ObserveUpstream("error", time.Since(start))
		return Outcome{}, err
	}
	metrics.ObserveUpstream("ok", time.Since(start))

	if !adjust {
		return Outcome{Analysis: &res}, nil
	}

	if res.Rewritten == "" {
		return Outcome{}, ErrMissingRewrite
	}

	renderStart := time.Now()
	pdf, err := p.renderer.Render(res.Rewritten)
	if err != nil {
		return Outcome{}, fmt.Errorf("render resume: %w", err)
	}
	metrics.ObserveRender(time.Since(renderStart))

	return Outcome{PDF: pdf}, nil
}
