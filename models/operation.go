package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// OperationType identifies the kind of mutation a queued operation applies
// against the remote store. The constants serialize as the literal strings
// used on the wire and in the persisted queue.
type OperationType string

const (
	OperationUpload     OperationType = "upload"
	OperationUpdate     OperationType = "update"
	OperationDelete     OperationType = "delete"
	OperationFileUpload OperationType = "fileUpload"
	OperationFileDelete OperationType = "fileDelete"
)

// IsDocumentLevel reports whether the operation targets the document record
// itself rather than one of its attachment files.
func (t OperationType) IsDocumentLevel() bool {
	switch t {
	case OperationUpload, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// Valid reports whether t is one of the known operation types.
func (t OperationType) Valid() bool {
	switch t {
	case OperationUpload, OperationUpdate, OperationDelete,
		OperationFileUpload, OperationFileDelete:
		return true
	}
	return false
}

// QueuedOperation is one pending local mutation recorded while the device is
// offline or a sync attempt is deferred.
//
// Instances are created at enqueue time and are mutated only by the
// consolidation engine (payload/priority merge) and the retry tracking path
// (RetryCount increment). An operation leaves the queue on successful
// dispatch, on supersession by consolidation, or on exceeding the retry
// budget, in which case it is converted to a terminal [DocumentError] record.
type QueuedOperation struct {
	// ID is an opaque identifier generated at enqueue time.
	ID string `json:"id"`

	// DocumentID is the sync identifier of the target document.
	DocumentID string `json:"documentId"`

	// SyncID optionally duplicates the sync identifier for outcome
	// correlation; nil round-trips as JSON null.
	SyncID *string `json:"syncId"`

	// Type is the mutation kind.
	Type OperationType `json:"type"`

	// QueuedAt is the enqueue timestamp (ISO-8601 on the wire).
	QueuedAt time.Time `json:"queuedAt"`

	// RetryCount is the number of failed dispatch attempts so far.
	RetryCount int `json:"retryCount"`

	// OperationData is the opaque serialized payload: a document snapshot
	// and/or a file reference, depending on Type.
	OperationData json.RawMessage `json:"operationData"`

	// Priority orders dispatch; higher values are drained first.
	Priority int `json:"priority"`
}

// OperationPayload is the decoded form of QueuedOperation.OperationData.
// Document-level operations carry a Document snapshot; file-level operations
// carry the local path (fileUpload) or the remote reference (fileDelete).
type OperationPayload struct {
	Document *Document `json:"document,omitempty"`
	FilePath string    `json:"filePath,omitempty"`
	FileRef  string    `json:"fileRef,omitempty"`
}

// DecodePayload parses the operation's opaque payload.
func (op QueuedOperation) DecodePayload() (OperationPayload, error) {
	var p OperationPayload
	if len(op.OperationData) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(op.OperationData, &p); err != nil {
		return OperationPayload{}, fmt.Errorf("decode operation payload for %s: %w", op.ID, err)
	}
	return p, nil
}

// EncodeOperationPayload serializes a payload into the opaque form stored in
// QueuedOperation.OperationData.
func EncodeOperationPayload(p OperationPayload) (json.RawMessage, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode operation payload: %w", err)
	}
	return raw, nil
}

// SyncOperation is the executor-facing view of a queued operation: the queue
// record correlated 1:1 with the document snapshot it was based on at
// dispatch time.
type SyncOperation struct {
	QueuedOperation

	// Document is the snapshot the operation was built from; nil for
	// file-level operations without an embedded snapshot.
	Document *Document `json:"document,omitempty"`
}
