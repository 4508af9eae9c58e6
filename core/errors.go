package core

import "fmt"

// Error taxonomy for the agent runtime.
//
// ValidationError, UnknownToolError and ExecutorError are recovered locally:
// the dispatcher converts them to error-flagged tool result messages and the
// turn continues. ExternalServiceError aborts the current turn and is
// surfaced to the caller. DuplicateToolError is a startup-time configuration
// fault.

// ValidationError reports tool arguments that failed schema validation.
type ValidationError struct {
	Tool   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %s", e.Tool, e.Reason)
}

// UnknownToolError reports a model-requested tool name that is not in the
// registry.
type UnknownToolError struct {
	Tool string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Tool)
}

// ExecutorError reports a failure inside a bound tool function.
type ExecutorError struct {
	Tool string
	Err  error
}

func (e *ExecutorError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ExecutorError) Unwrap() error { return e.Err }

// ExternalServiceError reports a failed call to an external collaborator:
// the model API, the embedding service, or a storage backend. There is no
// meaningful transcript state to continue from, so the turn is aborted.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// DuplicateToolError reports a second registration under an existing name.
type DuplicateToolError struct {
	Tool string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Tool)
}
