package domain

import (
	"errors"
	"fmt"

	"pdf-assistant/internal/domain/model"
)

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrRateLimited     = errors.New("too many requests for session")
)

// The pipeline error taxonomy. Every stage failure is one of these; all
// of them are recovered into a composed chat message at the request
// boundary and none crosses the API surface as a transport fault.

// ExtractionError means the command shell around the parameters was
// missing or malformed (no operation marker, no parameter block).
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return "command extraction failed: " + e.Reason
}

// MalformedParametersError means the parameter block stayed unparseable
// after repair. Raw keeps the unrepaired text for observability.
type MalformedParametersError struct {
	Cause error
	Raw   string
}

func (e *MalformedParametersError) Error() string {
	return fmt.Sprintf("invalid JSON in parameters: %v", e.Cause)
}

func (e *MalformedParametersError) Unwrap() error { return e.Cause }

// UnsupportedOperationError reports an operation name outside the
// closed set.
type UnsupportedOperationError struct {
	Op model.Operation
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: %s", e.Op)
}

// ValidationError reports a parameter schema violation for a known
// operation.
type ValidationError struct {
	Op     model.Operation
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("command validation failed for %s: %s", e.Op, e.Reason)
}

// PreconditionError means the plan required input files the session
// does not have. Raised before dispatch, never after.
type PreconditionError struct {
	Op     model.Operation
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot run %s: %s", e.Op, e.Reason)
}

// OperationError wraps a failure inside the document-operations
// collaborator. The only taxonomy member worth a resubmission retry.
type OperationError struct {
	Op     model.Operation
	Params map[string]any
	Cause  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %s failed: %v", e.Op, e.Cause)
}

func (e *OperationError) Unwrap() error { return e.Cause }

// Retryable reports whether resubmitting the same request could
// plausibly succeed. Dispatch failures are; everything else needs a
// different request from the user.
func Retryable(err error) bool {
	var oe *OperationError
	return errors.As(err, &oe)
}
