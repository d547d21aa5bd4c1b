// Package errors provides standardized error handling for the research
// pipeline. Only the Knowledge Agent boundary produces propagated errors;
// everything else in the pipeline is total and resolves its failures inline.
package errors

import (
	goerrors "errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeAgentExecutionFailed ErrorCode = "AGENT_EXECUTION_FAILED"
	ErrCodeAgentTimeout         ErrorCode = "AGENT_TIMEOUT"
	ErrCodeAgentResponseInvalid ErrorCode = "AGENT_RESPONSE_INVALID"

	ErrCodeSessionUnavailable ErrorCode = "SESSION_UNAVAILABLE"
	ErrCodeContextStoreFailed ErrorCode = "CONTEXT_STORE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewAgentExecutionFailedError creates a retryable agent execution error.
func NewAgentExecutionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentExecutionFailed,
		Message:   "Knowledge agent execution failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAgentTimeoutError creates a retryable agent timeout error.
func NewAgentTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentTimeout,
		Message:   "Knowledge agent call timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAgentResponseInvalidError creates a non-retryable envelope error. A
// response missing required fields is rejected at the boundary rather than
// letting partial data flow downstream.
func NewAgentResponseInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentResponseInvalid,
		Message:   "Knowledge agent returned an invalid response envelope",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionUnavailableError creates a non-retryable session error.
func NewSessionUnavailableError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionUnavailable,
		Message:   "Session not found or expired",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewContextStoreFailedError creates a retryable store error.
func NewContextStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeContextStoreFailed,
		Message:   "Failed to persist analysis context",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Helpers
// ==========================

// IsRetryable reports whether err carries a retryable StandardError.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if goerrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// CodeOf extracts the ErrorCode from err, or empty when err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if goerrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}
