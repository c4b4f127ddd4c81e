package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrOperationNotFound is returned when a query or removal targets a
	// queued operation id that does not exist in the queue.
	ErrOperationNotFound = errors.New("queued operation was not found")

	// ErrInvalidOperation is returned when an operation is enqueued without
	// the fields required for durable correlation (id, document id, or a
	// known operation type).
	ErrInvalidOperation = errors.New("invalid queued operation")

	// ErrOperationNotSaved is returned when an INSERT completes without
	// error but the number of affected rows is zero, indicating that the
	// operation was not actually persisted.
	ErrOperationNotSaved = errors.New("queued operation was not saved")

	// ErrDocumentNotFound is returned when a lookup or state change targets
	// a document sync id with no local metadata row.
	ErrDocumentNotFound = errors.New("document was not found")

	// ErrInvalidDocument is returned when a document is saved without its
	// stable sync id.
	ErrInvalidDocument = errors.New("invalid document")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied. They indicate the durability guarantee of the queue may be
// broken and must be surfaced distinctly from per-operation failures.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the queue database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) against the queue database fails.
	ErrExecutingStatement = errors.New("error executing sql statement")

	// ErrCorruptQueueRecord is returned when a persisted queue row cannot
	// be decoded back into a queued operation.
	ErrCorruptQueueRecord = errors.New("corrupt queue record")

	// ErrCorruptDocumentRecord is returned when a persisted document row
	// cannot be decoded back into a document.
	ErrCorruptDocumentRecord = errors.New("corrupt document record")
)
