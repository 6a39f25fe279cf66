package emitter

import "github.com/pkg/errors"

// SemanticError reports a scope or declaration-shape violation: duplicate
// names, bad template-argument shapes, conflicting keywords.
type SemanticError struct {
	cause error
}

func (e *SemanticError) Error() string { return "semantic error: " + e.cause.Error() }
func (e *SemanticError) Unwrap() error { return e.cause }

func newSemanticError(format string, args ...interface{}) *SemanticError {
	return &SemanticError{cause: errors.Errorf(format, args...)}
}

// TargetError reports a request the chosen CompileTarget cannot satisfy:
// an unsupported target, an unsupported type, or a nodetype with no
// emission support.
type TargetError struct {
	cause error
}

func (e *TargetError) Error() string { return "target error: " + e.cause.Error() }
func (e *TargetError) Unwrap() error { return e.cause }

func newTargetError(format string, args ...interface{}) *TargetError {
	return &TargetError{cause: errors.Errorf(format, args...)}
}
