package core

import "fmt"

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError reports a uniqueness violation. Field names the colliding
// column when it is known ("username", "email", "subscription").
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// AuthError reports failed authentication. The message is identical for
// unknown usernames and wrong passwords so account existence never leaks.
type AuthError struct{}

func (e *AuthError) Error() string { return "invalid username or password" }

// AnalysisFailedError wraps an inference adapter failure.
type AnalysisFailedError struct {
	Err error
}

func (e *AnalysisFailedError) Error() string {
	return fmt.Sprintf("analysis failed: %v", e.Err)
}

func (e *AnalysisFailedError) Unwrap() error { return e.Err }
