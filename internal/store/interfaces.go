package store

import (
	"context"

	"github.com/docvault/docvault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// QueueRepository is the durable store for queued sync operations.
//
// Every mutating call persists synchronously before returning, so a crash
// immediately after a successful Enqueue cannot lose the operation. The
// repository holds no business logic: consolidation and retry decisions are
// made by the service layer and written back through Update/Remove.
type QueueRepository interface {
	// Enqueue persists op and returns its id. The operation must carry a
	// non-empty id, a normalized document id and a valid type.
	Enqueue(ctx context.Context, op models.QueuedOperation) (string, error)

	// List returns the queued operations for one document, ordered by
	// priority descending then queuedAt ascending. An empty documentID
	// lists the whole queue in the same stable order.
	List(ctx context.Context, documentID string) ([]models.QueuedOperation, error)

	// Update rewrites the mutable fields of an existing operation
	// (type, payload, priority, retry count) in place.
	Update(ctx context.Context, op models.QueuedOperation) error

	// IncrementRetry bumps the retry counter of one operation.
	IncrementRetry(ctx context.Context, opID string) error

	// Remove deletes one operation by id.
	Remove(ctx context.Context, opID string) error

	// RemoveAllForDocument deletes every operation queued for a document.
	RemoveAllForDocument(ctx context.Context, documentID string) error

	// Clear empties the queue.
	Clear(ctx context.Context) error

	// LoadAll restores the full operation set at process start, in the
	// same stable order as List("").
	LoadAll(ctx context.Context) ([]models.QueuedOperation, error)
}

// DocumentRepository holds the local metadata rows for vault documents. The
// sync layer reads snapshots from it and writes back confirmed state and
// sync-state transitions.
type DocumentRepository interface {
	// Get returns the document with the given sync id.
	Get(ctx context.Context, syncID string) (models.Document, error)

	// Save inserts the document or, when a row with the same sync id
	// already exists, overwrites it.
	Save(ctx context.Context, doc models.Document) error

	// SetSyncState updates only the sync lifecycle state of a document.
	SetSyncState(ctx context.Context, syncID string, state models.SyncState) error
}
