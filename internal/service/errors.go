package service

import "errors"

// Sentinel errors of the reconciliation pipeline. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrAccountDisabled is returned when a cycle is requested for a
	// disabled account.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrCycleFailed wraps whatever aborted a cycle. The checkpoint is left
	// untouched, so the next cycle re-detects from the same point.
	ErrCycleFailed = errors.New("sync cycle failed")

	// ErrDeletePending is returned when an edit targets a record already
	// marked delete-pending. The mark is terminal: no further field change
	// is accepted.
	ErrDeletePending = errors.New("record is marked for deletion")

	// ErrUnknownKind is returned when an entity reference names a kind the
	// pipeline does not manage.
	ErrUnknownKind = errors.New("unknown entity kind")
)
