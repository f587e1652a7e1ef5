package filetype

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// Kind identifies one of the two supported extraction strategies.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindText Kind = "text"
)

// UnsupportedTypeError reports an upload whose content matches neither
// supported kind.
type UnsupportedTypeError struct {
	MIME string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s (send a PDF or a plain-text file)", e.MIME)
}

// Detector resolves an upload to a supported kind using the declared
// content type, the filename and, as a fallback, magic bytes.
type Detector struct{}

// New creates a new file type detector.
func New() *Detector {
	return &Detector{}
}

// Resolve determines the extraction kind for an upload. The declared
// content type and filename are checked first (what the original client
// claims), then the actual bytes via magic-byte sniffing.
func (d *Detector) Resolve(data []byte, contentType, filename string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case contentType == "application/pdf" || ext == ".pdf":
		return KindPDF, nil
	case strings.HasPrefix(contentType, "text/") || ext == ".txt":
		return KindText, nil
	}

	// Declared type is inconclusive; sniff the content.
	mtype := mimetype.Detect(data)
	log.Debug().Str("mime", mtype.String()).Str("declared", contentType).Str("file", filename).Msg("detected file type")

	switch {
	case mtype.Is("application/pdf"):
		return KindPDF, nil
	case strings.HasPrefix(mtype.String(), "text/"):
		return KindText, nil
	}

	return "", &UnsupportedTypeError{MIME: mtype.String()}
}
