package models

import "time"

// SyncEventType labels a lifecycle event emitted by the sync coordinator.
type SyncEventType string

const (
	EventSyncStarted        SyncEventType = "syncStarted"
	EventOperationSucceeded SyncEventType = "operationSucceeded"
	EventOperationFailed    SyncEventType = "operationFailed"
	EventConflictDetected   SyncEventType = "conflictDetected"
	EventSyncCompleted      SyncEventType = "syncCompleted"
)

// SyncEvent is one entry on the broadcast lifecycle stream. Delivery is
// fire-and-forget: slow subscribers drop events, late subscribers miss past
// ones.
type SyncEvent struct {
	Type       SyncEventType `json:"type"`
	DocumentID string        `json:"documentId,omitempty"`
	Message    string        `json:"message,omitempty"`
	At         time.Time     `json:"at"`
}

// SyncStatus is the point-in-time summary exposed to collaborators.
type SyncStatus struct {
	IsSyncing      bool       `json:"isSyncing"`
	PendingChanges int        `json:"pendingChanges"`
	LastSyncTime   *time.Time `json:"lastSyncTime,omitempty"`
	Error          string     `json:"error,omitempty"`
}
