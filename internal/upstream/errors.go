package upstream

import (
	"errors"
	"fmt"
)

// UpstreamError reports that the analysis webhook was unreachable, timed
// out, or answered with a non-success status. Kept distinct from the
// malformed-content errors so callers can map them to different statuses.
type UpstreamError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("analysis service returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("analysis service unreachable at %s: %v", e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err is a transport-level upstream failure.
func IsUnavailable(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

var (
	// ErrEmptyResponse signals a top-level array with no elements.
	ErrEmptyResponse = errors.New("empty response from analysis service")
	// ErrMalformedResponse signals a payload matching none of the known shapes.
	ErrMalformedResponse = errors.New("unrecognized analysis response shape")
)
