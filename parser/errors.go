package parser

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseError reports a fatal syntax error at a token offset. The parser
// never recovers from one: the first structural violation aborts the
// parse, per spec.
type ParseError struct {
	Offset int
	cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at token %d: %s", e.Offset, e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }

func newParseError(offset int, format string, args ...interface{}) *ParseError {
	return &ParseError{Offset: offset, cause: errors.Errorf(format, args...)}
}
