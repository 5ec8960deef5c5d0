// Package errors classifies the failures a deterministic executor can
// surface from instruction validation, so every native module reports them
// the same way instead of each inventing its own shape.
package errors

import "fmt"

// Kind classifies why an instruction was rejected. Every handler in this
// codebase that can deny or abort an instruction reports one of these kinds
// rather than a bare string, so the host can decide how to react (e.g.
// whether the failure is retryable) without parsing messages.
type Kind string

const (
	// KindPermissionDenied marks a visit-phase authorization failure.
	KindPermissionDenied Kind = "permission_denied"
	// KindDuplicate marks an attempt to create a record that already exists.
	KindDuplicate Kind = "duplicate"
	// KindNotFound marks a read of a record that does not exist.
	KindNotFound Kind = "not_found"
	// KindBaseInstructionFailed marks a failure propagated verbatim from a
	// nested base-instruction visit.
	KindBaseInstructionFailed Kind = "base_instruction_failed"
)

// ValidationFail is the error type returned by every visit/execute phase in
// this codebase's native modules. The executor is expected to abort the
// enclosing top-level instruction on any ValidationFail, rolling back
// whatever partial state the execute phase had already written.
type ValidationFail struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ValidationFail) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *ValidationFail) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New constructs a ValidationFail with no wrapped cause.
func New(kind Kind, message string) *ValidationFail {
	return &ValidationFail{Kind: kind, Message: message}
}

// Newf constructs a ValidationFail with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *ValidationFail {
	return &ValidationFail{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs a ValidationFail that propagates cause verbatim, used when
// a nested base-instruction visit fails and the failure must surface to the
// caller unchanged (spec kind: BaseInstructionFailure).
func Wrap(kind Kind, message string, cause error) *ValidationFail {
	return &ValidationFail{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is a ValidationFail of the given kind.
func Is(err error, kind Kind) bool {
	vf, ok := err.(*ValidationFail)
	if !ok {
		return false
	}
	return vf.Kind == kind
}
