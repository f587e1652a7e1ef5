package extract

import (
	"errors"
	"fmt"
)

// DecodeError reports a text upload with invalid byte sequences.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %s", e.Reason)
}

// UnsupportedFormatError reports a document whose structure cannot be
// parsed (encrypted, corrupted, or without an extractable text layer).
type UnsupportedFormatError struct {
	Reason string
	Err    error
}

func (e *UnsupportedFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported format: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unsupported format: %s", e.Reason)
}

func (e *UnsupportedFormatError) Unwrap() error { return e.Err }

// ErrEmptyContent signals a document that produced no text after trimming.
var ErrEmptyContent = errors.New("document contains no text")

func IsEmptyContent(err error) bool { return errors.Is(err, ErrEmptyContent) }
