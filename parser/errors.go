package parser

import "fmt"

// ParseError means a page that passed validation is missing structure the
// parser relies on. It is not retried against another source.
type ParseError struct {
	Page  string // "gallery" or "search"
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s page: %s: %v", e.Page, e.Field, e.Err)
	}
	return fmt.Sprintf("parse %s page: missing %s", e.Page, e.Field)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
