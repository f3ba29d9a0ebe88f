// Package errors provides structured error handling for objsearch.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, disk)
//   - 4XX: Caller errors (invalid argument, unknown object, wrong state)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates errors the caller can fix.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates a broken invariant; the operation must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeFileNotFound = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFileCorrupt  = "ERR_206_FILE_CORRUPT"

	// Caller errors (400-499)
	ErrCodeInvalidArgument = "ERR_401_INVALID_ARGUMENT"
	ErrCodeInvalidQuery    = "ERR_403_INVALID_QUERY"
	ErrCodeNotFound        = "ERR_404_NOT_FOUND"
	ErrCodeInvalidState    = "ERR_409_INVALID_STATE"

	// Internal errors (500-599)
	ErrCodeInternalConsistency = "ERR_501_INTERNAL_CONSISTENCY"
	ErrCodeSearchFailed        = "ERR_503_SEARCH_FAILED"
	ErrCodeIndexFailed         = "ERR_505_INDEX_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "401" from "ERR_401_INVALID_ARGUMENT")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeInternalConsistency, ErrCodeFileCorrupt:
		return SeverityFatal
	}
	return SeverityError
}
