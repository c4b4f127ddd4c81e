// SPDX-License-Identifier: Apache-2.0

// Package service contains the offline synchronization core: the queue
// manager, consolidation engine, priority scheduler, sync executor, conflict
// resolver, error tracker, migration service and the coordinator that ties
// them together.
//
// Auth, connectivity probing, entitlement and the local document metadata
// store are external concerns supplied through the collaborator interfaces
// below. The remote store is reached through [adapter.SyncGateway].
package service

import (
	"context"
	"time"

	"github.com/docvault/docvault/models"
)

//go:generate mockgen -destination=../mock/service_mock.go -package=mock github.com/docvault/docvault/internal/service AuthProvider,ConnectivityMonitor,EntitlementGate,DocumentStore

// AuthProvider reports the authentication state of the current user. The
// executor refuses to start a drain cycle without an authenticated user and
// a usable token.
type AuthProvider interface {
	// IsAuthenticated reports whether a user session is active.
	IsAuthenticated() bool

	// UserID returns the active user's identifier, or false when no session
	// is active.
	UserID() (string, bool)

	// AuthToken returns the bearer token for gateway calls. Returns an error
	// wrapping [ErrNoAuthToken] when the session has no usable token.
	AuthToken() (models.Token, error)
}

// ConnectivityMonitor reports device network reachability.
type ConnectivityMonitor interface {
	// IsOnline reports whether the device currently has connectivity.
	IsOnline() bool

	// Changes returns a stream of connectivity transitions: true when
	// connectivity is restored, false when it is lost. The channel is owned
	// by the monitor and closed when the monitor shuts down.
	Changes() <-chan bool
}

// EntitlementGate reports whether the active subscription allows
// synchronization. An expired subscription inside its grace period keeps
// local functionality but does not entitle the device to sync.
type EntitlementGate interface {
	IsSyncAllowed() bool
}

// DocumentStore is the local metadata store the executor reads document
// snapshots from and writes sync-state transitions back to. It lives outside
// this module; only the contract is defined here.
type DocumentStore interface {
	// Get loads the document identified by documentID. Returns an error
	// wrapping [ErrDocumentNotFound] when no such document exists locally.
	Get(ctx context.Context, documentID string) (models.Document, error)

	// Save persists the document, replacing any previous row.
	Save(ctx context.Context, doc models.Document) error

	// SetSyncState transitions the document's sync lifecycle state.
	SetSyncState(ctx context.Context, documentID string, state models.SyncState) error
}

// QueueManager is the service-level face of the durable operation queue. It
// assigns ids, stamps enqueue time and persists synchronously, then nudges
// the coordinator so a debounced drain can follow.
type QueueManager interface {
	// QueueOperation validates and persists a new pending operation. The
	// operation's ID and QueuedAt are assigned here; the caller provides
	// everything else. Returns the assigned operation id.
	QueueOperation(ctx context.Context, op models.QueuedOperation) (string, error)

	// GetOperationsForDocument returns the pending operations for one
	// document in stable dispatch order.
	GetOperationsForDocument(ctx context.Context, documentID string) ([]models.QueuedOperation, error)

	// GetAllOperations returns every pending operation in stable dispatch
	// order.
	GetAllOperations(ctx context.Context) ([]models.QueuedOperation, error)

	// RemoveOperationsForDocument drops all pending operations for a
	// document, typically after the document is deleted locally.
	RemoveOperationsForDocument(ctx context.Context, documentID string) error

	// ClearQueue drops every pending operation.
	ClearQueue(ctx context.Context) error

	// PendingCount returns the number of operations currently queued.
	PendingCount(ctx context.Context) (int, error)
}

// ConsolidationService collapses redundant queued operations per document
// before dispatch.
type ConsolidationService interface {
	// Consolidate returns the reduced operation list together with a
	// reduction report. The input is not mutated; the pass is idempotent.
	Consolidate(ops []models.QueuedOperation) ([]models.QueuedOperation, models.ConsolidationResult)
}

// SyncExecutor drains the operation queue against the remote store.
type SyncExecutor interface {
	// ProcessQueue runs one full drain cycle: preconditions, consolidation,
	// scheduling, dispatch. Returns [ErrSyncInProgress] when a cycle is
	// already running, or a precondition error ([ErrNotAuthenticated],
	// [ErrOffline], [ErrSyncNotAllowed]) when the cycle cannot start.
	ProcessQueue(ctx context.Context) error

	// IsSyncing reports whether a drain cycle is currently running.
	IsSyncing() bool

	// ResolveConflict applies a resolution mode to a previously detected
	// version conflict for documentID and re-queues the winning write.
	// Returns [ErrNoConflictPending] when no conflict is recorded for the
	// document.
	ResolveConflict(ctx context.Context, documentID string, mode ResolutionMode) error
}

// ErrorTracker keeps per-document failure state for the UI and the recovery
// scheduler.
type ErrorTracker interface {
	// RecordError classifies err and stores a [models.DocumentError] for
	// documentID, preserving FirstOccurredAt across repeated failures.
	RecordError(documentID string, op models.OperationType, retryCount int, err error)

	// ClearError removes the failure record for documentID after a
	// successful sync or an explicit dismissal.
	ClearError(documentID string)

	// IncrementRetryCount bumps the stored retry count and stamps a new
	// last-attempt time for documentID. A no-op when no error is tracked.
	IncrementRetryCount(documentID string)

	// HasExceededMaxRetries reports whether the tracked retry count for
	// documentID has reached maxRetries.
	HasExceededMaxRetries(documentID string, maxRetries int) bool

	// GetError returns the failure record for documentID, if any.
	GetError(documentID string) (models.DocumentError, bool)

	// GetAllErrors returns all current failure records.
	GetAllErrors() []models.DocumentError

	// CanAttemptRecovery reports whether documentID is eligible for another
	// automatic attempt: the error must be recoverable, under the retry
	// budget, and outside its backoff window.
	CanAttemptRecovery(documentID string) bool

	// GetErrorStats summarizes the tracked error population.
	GetErrorStats() models.ErrorStats

	// CreateRecoveryPlan partitions all tracked errors into immediate,
	// delayed, manual and unrecoverable buckets.
	CreateRecoveryPlan() models.RecoveryPlan
}

// MigrationService performs the one-time upload of pre-existing local
// documents to the remote store.
type MigrationService interface {
	// Migrate uploads each document through the gateway, tracking progress.
	// Cancellation via ctx stops between documents and leaves the progress
	// in the cancelled status. The returned progress is a snapshot of the
	// terminal state.
	Migrate(ctx context.Context, docs []models.Document) (models.MigrationProgress, error)

	// Progress returns a point-in-time snapshot of the migration state.
	Progress() models.MigrationProgress
}

// SyncCoordinator owns sync triggering policy: app launch, debounced
// document changes, connectivity restoration and subscription activation all
// funnel into the executor through it. It also fans sync lifecycle events
// out to subscribers.
type SyncCoordinator interface {
	QueueManager

	// Start begins reacting to triggers: it kicks off the launch sync and
	// starts watching connectivity transitions. Blocks until ctx is done or
	// Stop is called.
	Start(ctx context.Context)

	// Stop terminates trigger processing and waits for the in-flight drain,
	// if any, to finish.
	Stop()

	// NotifyDocumentChanged schedules a debounced sync: rapid successive
	// calls collapse into one drain that runs after the quiet period.
	NotifyDocumentChanged(documentID string)

	// NotifySubscriptionActivated triggers an immediate drain attempt.
	NotifySubscriptionActivated()

	// SyncNow triggers an immediate drain attempt, bypassing the debounce.
	SyncNow(ctx context.Context) error

	// GetSyncStatus reports the current sync summary.
	GetSyncStatus(ctx context.Context) models.SyncStatus

	// Subscribe registers a new event listener. Events are delivered
	// fire-and-forget: a subscriber that falls behind misses events.
	Subscribe() <-chan models.SyncEvent

	// Unsubscribe removes a listener previously returned by Subscribe and
	// closes its channel.
	Unsubscribe(ch <-chan models.SyncEvent)
}

// SyncJob is a background worker that periodically triggers a drain.
type SyncJob interface {
	// Start launches the periodic goroutine. It drains every interval,
	// defaulting to 5 minutes if interval is zero or negative. Any
	// previously running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}
