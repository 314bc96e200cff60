package infomedia

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned when a call is rejected before any request is made.
var ErrInvalidArgument = errors.New("infomedia: invalid argument")

// TransportError reports a request that never produced a response, after the
// transport exhausted its retries.
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("infomedia POST %s: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnexpectedStatusError reports a response whose status is not 200.
type UnexpectedStatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("infomedia service returned with unexpected status code %d for %s: %s", e.StatusCode, e.Path, e.Body)
}

// EmptyEntityError reports a 200 response whose body could not be read as Entity.
type EmptyEntityError struct {
	Path   string
	Entity string
	Err    error
}

func (e *EmptyEntityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("infomedia service returned with null-valued %s entity for %s: %v", e.Entity, e.Path, e.Err)
	}
	return fmt.Sprintf("infomedia service returned with null-valued %s entity for %s", e.Entity, e.Path)
}

func (e *EmptyEntityError) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status from an UnexpectedStatusError anywhere in err's chain.
func StatusCode(err error) (int, bool) {
	var se *UnexpectedStatusError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
