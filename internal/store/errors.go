package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrAccountNotFound is returned when a lookup by login matches no
	// account row.
	ErrAccountNotFound = errors.New("account was not found")

	// ErrEntityNotFound is returned when a query targets a replica record
	// that does not exist.
	ErrEntityNotFound = errors.New("replica record was not found")

	// ErrRemapTargetExists is returned when a placeholder remap would collide
	// with an already-stored remote id. It aborts the cycle: proceeding would
	// merge two distinct entities.
	ErrRemapTargetExists = errors.New("remap target id already exists")

	// ErrTransientStorage wraps database failures that the classifier deems
	// retryable (connection loss, deadlock rollback). The engine treats it
	// like a transient platform failure: abort the cycle, keep the
	// checkpoint, retry next tick.
	ErrTransientStorage = errors.New("transient storage failure")
)

// Low-level database operation errors, wrapped around driver errors so the
// failing stage is visible in logs.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a read query fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a result
	// row fails.
	ErrScanningRow = errors.New("failed to scan row")
)
