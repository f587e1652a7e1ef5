package extract

import (
	"bytes"
	"strings"
	"unicode/utf8"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"

	"github.com/local/resumeai/internal/filetype"
)

// Extractor flattens an uploaded document into plain text. It only reads
// the input buffer; nothing is written to disk.
type Extractor struct{}

// New creates a text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract converts the upload to a single trimmed string. PDF pages are
// concatenated in page order with one newline per page boundary.
func (e *Extractor) Extract(data []byte, kind filetype.Kind) (string, error) {
	switch kind {
	case filetype.KindText:
		return e.extractText(data)
	case filetype.KindPDF:
		return e.extractPDF(data)
	default:
		return "", &UnsupportedFormatError{Reason: "unknown kind " + string(kind)}
	}
}

func (e *Extractor) extractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &DecodeError{Reason: "file is not valid UTF-8"}
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", ErrEmptyContent
	}
	log.Debug().Int("chars", len(text)).Msg("plain text read")
	return text, nil
}

func (e *Extractor) extractPDF(data []byte) (string, error) {
	// Structural gate first: pdfcpu rejects encrypted/corrupted files with
	// a clearer error than a mid-extraction failure.
	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return "", &UnsupportedFormatError{Reason: "PDF cannot be parsed", Err: err}
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", &UnsupportedFormatError{Reason: "PDF cannot be opened", Err: err}
	}
	defer doc.Close()

	var sb strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			log.Warn().Err(err).Int("page", i+1).Msg("failed to extract text from page")
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(pageText)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &UnsupportedFormatError{Reason: "no extractable text layer (image-only PDF?)"}
	}

	log.Info().Int("pages", pages).Int("chars", len(text)).Msg("extracted text from PDF")
	return text, nil
}
