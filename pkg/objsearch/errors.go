package objsearch

import "github.com/Aman-CERP/objsearch/internal/errors"

// Sentinel errors. Match with errors.Is; the concrete error carries a code,
// a message and, where useful, the underlying cause.
var (
	// ErrInvalidArgument reports a caller mistake: nil or unusable objects,
	// duplicates, reserved field names, bad query syntax, or a result set
	// used where an object or target type is expected.
	ErrInvalidArgument = errors.ErrInvalidArgument

	// ErrInvalidQuery reports query syntax errors. It also matches
	// ErrInvalidArgument.
	ErrInvalidQuery = errors.ErrInvalidQuery

	// ErrNotFound reports an id or object that was never indexed.
	ErrNotFound = errors.ErrNotFound

	// ErrInvalidState reports a search before anything was indexed, or any
	// call on a closed engine.
	ErrInvalidState = errors.ErrInvalidState

	// ErrInternalConsistency reports that the published view and the object
	// registry disagree. It is never expected and is not retried.
	ErrInternalConsistency = errors.ErrInternalConsistency

	// ErrIndexFailed reports a failure inside the text index.
	ErrIndexFailed = errors.ErrIndexFailed
)
