// Package errors provides typed errors for the application
package errors

import "errors"

// baseError is the base implementation for all error types
type baseError struct {
	msg   string
	cause error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ValidationError represents invalid caller input
type ValidationError struct {
	baseError
}

// NewValidationError creates a new ValidationError
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{baseError{msg: msg}}
}

// FetchError represents a single failed HTTP call (timeout, non-200,
// malformed payload). Always treated as recoverable by fallback chains.
type FetchError struct {
	baseError
}

// NewFetchError creates a new FetchError wrapping the cause
func NewFetchError(msg string, cause error) *FetchError {
	return &FetchError{baseError{msg: msg, cause: cause}}
}

// ResolutionError means every strategy in a platform's fallback chain failed
type ResolutionError struct {
	baseError
	Platform string
}

// NewResolutionError creates a new ResolutionError for the given platform
func NewResolutionError(platform string, cause error) *ResolutionError {
	return &ResolutionError{
		baseError: baseError{msg: "resolution failed for " + platform, cause: cause},
		Platform:  platform,
	}
}

// TranslationError represents a failed translation call. Callers degrade to
// the untranslated text instead of surfacing it.
type TranslationError struct {
	baseError
}

// NewTranslationError creates a new TranslationError wrapping the cause
func NewTranslationError(msg string, cause error) *TranslationError {
	return &TranslationError{baseError{msg: msg, cause: cause}}
}

// TranscodeError represents a failed external transcoder invocation
type TranscodeError struct {
	baseError
}

// NewTranscodeError creates a new TranscodeError wrapping the cause
func NewTranscodeError(msg string, cause error) *TranscodeError {
	return &TranscodeError{baseError{msg: msg, cause: cause}}
}

// SessionExpiredError represents an interactive action against a session
// entry that no longer exists
type SessionExpiredError struct {
	baseError
}

// NewSessionExpiredError creates a new SessionExpiredError
func NewSessionExpiredError(msg string) *SessionExpiredError {
	return &SessionExpiredError{baseError{msg: msg}}
}

// InternalError represents an unexpected internal failure
type InternalError struct {
	baseError
}

// NewInternalError creates a new InternalError
func NewInternalError(msg string) *InternalError {
	return &InternalError{baseError{msg: msg}}
}

// IsValidationError checks if error is a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsFetchError checks if error is a FetchError
func IsFetchError(err error) bool {
	var target *FetchError
	return errors.As(err, &target)
}

// IsResolutionError checks if error is a ResolutionError
func IsResolutionError(err error) bool {
	var target *ResolutionError
	return errors.As(err, &target)
}

// IsTranslationError checks if error is a TranslationError
func IsTranslationError(err error) bool {
	var target *TranslationError
	return errors.As(err, &target)
}

// IsTranscodeError checks if error is a TranscodeError
func IsTranscodeError(err error) bool {
	var target *TranscodeError
	return errors.As(err, &target)
}

// IsSessionExpiredError checks if error is a SessionExpiredError
func IsSessionExpiredError(err error) bool {
	var target *SessionExpiredError
	return errors.As(err, &target)
}

// IsInternalError checks if error is an InternalError
func IsInternalError(err error) bool {
	var target *InternalError
	return errors.As(err, &target)
}
