package downloader

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError is a network or HTTP failure talking to one source.
type TransportError struct {
	Source string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BlockedError means the source answered with an anti-bot page instead of content.
type BlockedError struct {
	Source string
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s: blocked (%s)", e.Source, e.Reason)
}

// NotFoundError means the source answered properly but has no such gallery.
type NotFoundError struct {
	Source    string
	GalleryID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: gallery %d not found", e.Source, e.GalleryID)
}

// NoResultsError means the source answered properly but the query matched nothing.
type NoResultsError struct {
	Source string
	Query  string
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("%s: no results for %q", e.Source, e.Query)
}

// ExhaustedError is returned once every source has failed. Err holds the last
// failure; Attempts holds one error per source tried, in order.
type ExhaustedError struct {
	Err      error
	Attempts []error
}

func (e *ExhaustedError) Error() string {
	if e.Err == nil {
		return "no sources available"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Error())
	}
	return fmt.Sprintf("all sources exhausted: %v [%s]", e.Err, strings.Join(parts, "; "))
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// IsBlocked reports whether err is, or wraps, a BlockedError.
func IsBlocked(err error) bool {
	var be *BlockedError
	return errors.As(err, &be)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsNoResults reports whether err is, or wraps, a NoResultsError.
func IsNoResults(err error) bool {
	var nr *NoResultsError
	return errors.As(err, &nr)
}

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
