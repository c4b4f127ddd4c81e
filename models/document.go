package models

import "time"

// SyncState describes where a document currently sits in the synchronization
// lifecycle. The zero value is treated as SyncStateNotSynced.
type SyncState string

const (
	SyncStateNotSynced     SyncState = "notSynced"
	SyncStatePendingUpload SyncState = "pendingUpload"
	SyncStatePending       SyncState = "pending"
	SyncStateSyncing       SyncState = "syncing"
	SyncStateSynced        SyncState = "synced"
	SyncStateConflict      SyncState = "conflict"
	SyncStateError         SyncState = "error"
)

// Document is a snapshot of a vault document as embedded into queued
// operations and exchanged with the remote store.
//
// SyncID is the stable identity of the document across devices: a lowercase
// canonical UUID assigned once at creation and never reassigned. Local row
// ids, file names and remote storage paths all derive from it.
//
// Version increases strictly on every committed local mutation; the remote
// store uses it for optimistic locking, so a stale Version on an update or
// delete produces a version conflict rather than a lost update.
type Document struct {
	// SyncID is the stable sync identifier (lowercase canonical UUID).
	SyncID string `json:"syncId"`

	// UserID is the owner of the document.
	UserID string `json:"userId"`

	// Title is the human-readable display name of the document.
	Title string `json:"title"`

	// Category is the user-assigned grouping label.
	Category string `json:"category"`

	// FilePaths lists the attachment files that belong to the document.
	FilePaths []string `json:"filePaths,omitempty"`

	// Notes contains optional free-form user notes.
	Notes string `json:"notes,omitempty"`

	// RenewalDate is an optional reminder date attached to the document.
	RenewalDate *time.Time `json:"renewalDate,omitempty"`

	// CreatedAt is the timestamp when the document was created.
	CreatedAt time.Time `json:"createdAt"`

	// LastModified is the timestamp of the last committed local mutation.
	// Conflict resolution uses it to break ties between divergent edits.
	LastModified time.Time `json:"lastModified"`

	// Version is the monotonically increasing per-document counter.
	Version int64 `json:"version"`

	// SyncState reflects the document's position in the sync lifecycle.
	SyncState SyncState `json:"syncState,omitempty"`

	// ConflictID references an unresolved conflict record, when present.
	ConflictID *string `json:"conflictId,omitempty"`

	// Deleted marks the document as soft-deleted.
	Deleted bool `json:"deleted,omitempty"`

	// DeletedAt is the soft-delete timestamp.
	DeletedAt *time.Time `json:"deletedAt,omitempty"`

	// ContentHash is a keyed digest over the document content, used to
	// detect divergence without comparing full payloads.
	ContentHash string `json:"contentHash,omitempty"`
}
