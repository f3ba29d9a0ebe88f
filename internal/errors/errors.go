package errors

import (
	stderrors "errors"
	"fmt"
)

// SearchError is the structured error type for objsearch.
// It carries a stable code so callers can match with errors.Is regardless of
// the message or the wrapped cause.
type SearchError struct {
	// Code is the unique error code (e.g., "ERR_404_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Sentinels for errors.Is. Only the code is compared.
var (
	ErrInvalidArgument     = &SearchError{Code: ErrCodeInvalidArgument}
	ErrNotFound            = &SearchError{Code: ErrCodeNotFound}
	ErrInvalidState        = &SearchError{Code: ErrCodeInvalidState}
	ErrInternalConsistency = &SearchError{Code: ErrCodeInternalConsistency}
	ErrInvalidQuery        = &SearchError{Code: ErrCodeInvalidQuery}
	ErrIndexFailed         = &SearchError{Code: ErrCodeIndexFailed}
	ErrConfigInvalid       = &SearchError{Code: ErrCodeConfigInvalid}
)

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SearchError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// An invalid query is also an invalid argument.
func (e *SearchError) Is(target error) bool {
	t, ok := target.(*SearchError)
	if !ok {
		return false
	}
	if e.Code == t.Code {
		return true
	}
	return e.Code == ErrCodeInvalidQuery && t.Code == ErrCodeInvalidArgument
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *SearchError) WithDetail(key, value string) *SearchError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *SearchError) WithSuggestion(suggestion string) *SearchError {
	e.Suggestion = suggestion
	return e
}

// New creates a new SearchError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *SearchError {
	return &SearchError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Newf creates a SearchError with a formatted message and no cause.
func Newf(code string, format string, args ...any) *SearchError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates a SearchError from an existing error.
// The error's message becomes the SearchError message.
func Wrap(code string, err error) *SearchError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// InvalidArgument creates an error for a caller mistake that can be fixed
// by changing the call.
func InvalidArgument(format string, args ...any) *SearchError {
	return Newf(ErrCodeInvalidArgument, format, args...)
}

// NotFound creates an error for an id or object this engine never registered.
func NotFound(format string, args ...any) *SearchError {
	return Newf(ErrCodeNotFound, format, args...)
}

// InvalidState creates an error for an operation issued at the wrong time.
func InvalidState(format string, args ...any) *SearchError {
	return Newf(ErrCodeInvalidState, format, args...)
}

// InternalConsistency creates a fatal error for a broken registry/index invariant.
func InternalConsistency(format string, args ...any) *SearchError {
	return Newf(ErrCodeInternalConsistency, format, args...)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *SearchError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *SearchError {
	return New(ErrCodeFileNotFound, message, cause)
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	var se *SearchError
	if stderrors.As(err, &se) {
		return se.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a SearchError anywhere in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var se *SearchError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// GetCategory extracts the category from a SearchError.
// Returns empty string if there is none.
func GetCategory(err error) Category {
	var se *SearchError
	if stderrors.As(err, &se) {
		return se.Category
	}
	return ""
}
