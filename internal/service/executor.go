// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/docvault/docvault/internal/adapter"
	"github.com/docvault/docvault/internal/config"
	"github.com/docvault/docvault/internal/logger"
	"github.com/docvault/docvault/internal/store"
	"github.com/docvault/docvault/internal/utils"
	"github.com/docvault/docvault/models"
)

// pendingConflict is a detected version conflict awaiting an explicit
// resolution mode from the caller.
type pendingConflict struct {
	local  models.Document
	remote models.Document
	op     models.QueuedOperation
}

type syncExecutor struct {
	queue        store.QueueRepository
	gateway      adapter.SyncGateway
	docs         DocumentStore
	auth         AuthProvider
	connectivity ConnectivityMonitor
	entitlement  EntitlementGate
	consolidator ConsolidationService
	resolver     *conflictResolver
	tracker      ErrorTracker
	events       *eventBus
	ids          *utils.UUIDGenerator
	cfg          config.ClientSync
	logger       *logger.Logger

	running  atomic.Bool
	degraded atomic.Bool

	// mu guards lastAttempt and conflicts. lastAttempt carries per-document
	// backoff state across drain cycles; it is process-local on purpose,
	// since after a restart retrying immediately is acceptable.
	mu          sync.Mutex
	lastAttempt map[string]time.Time
	conflicts   map[string]pendingConflict
}

// NewSyncExecutor wires the drain-cycle executor. The tracker and events bus
// are shared with the coordinator so both observe the same failure state and
// lifecycle stream.
func NewSyncExecutor(
	queue store.QueueRepository,
	gateway adapter.SyncGateway,
	docs DocumentStore,
	auth AuthProvider,
	connectivity ConnectivityMonitor,
	entitlement EntitlementGate,
	tracker ErrorTracker,
	events *eventBus,
	cfg config.ClientSync,
	log *logger.Logger,
) SyncExecutor {
	return &syncExecutor{
		queue:        queue,
		gateway:      gateway,
		docs:         docs,
		auth:         auth,
		connectivity: connectivity,
		entitlement:  entitlement,
		consolidator: NewConsolidationService(),
		resolver:     NewConflictResolver(),
		tracker:      tracker,
		events:       events,
		ids:          utils.NewUUIDGenerator(),
		cfg:          cfg,
		logger:       log,
		lastAttempt:  make(map[string]time.Time),
		conflicts:    make(map[string]pendingConflict),
	}
}

func (e *syncExecutor) IsSyncing() bool {
	return e.running.Load()
}

// ProcessQueue implements [SyncExecutor]. One logical drain cycle runs at a
// time; a second call while one is in flight returns [ErrSyncInProgress]
// without touching the queue.
func (e *syncExecutor) ProcessQueue(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer e.running.Store(false)

	if err := e.checkPreconditions(); err != nil {
		return err
	}

	ops, err := e.queue.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load queue: %w", err)
	}
	if len(ops) == 0 {
		return nil
	}

	e.degraded.Store(false)
	e.events.Publish(models.EventSyncStarted, "", fmt.Sprintf("%d operations pending", len(ops)))

	consolidated, result := e.consolidator.Consolidate(ops)
	if result.Reduced() > 0 {
		if err = e.persistConsolidation(ctx, ops, consolidated, result); err != nil {
			return fmt.Errorf("persist consolidation: %w", err)
		}
		e.logger.Info().
			Str("func", "syncExecutor.ProcessQueue").
			Int("original", result.OriginalCount).
			Int("final", result.FinalCount).
			Msg("queue consolidated")
	}

	scheduled := ScheduleOperations(consolidated)
	e.dispatch(ctx, scheduled)

	e.events.Publish(models.EventSyncCompleted, "", "")
	return nil
}

// checkPreconditions fails the whole cycle fast when auth, connectivity or
// entitlement is missing, leaving the queue untouched.
func (e *syncExecutor) checkPreconditions() error {
	if !e.auth.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	token, err := e.auth.AuthToken()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	if !e.connectivity.IsOnline() {
		return ErrOffline
	}
	if !e.entitlement.IsSyncAllowed() {
		return ErrSyncNotAllowed
	}

	e.gateway.SetToken(token.SignedString)
	return nil
}

// persistConsolidation brings the durable queue in line with the pass
// output: superseded operations are removed and merged survivors rewritten,
// so a crash between consolidation and dispatch cannot resurrect them.
func (e *syncExecutor) persistConsolidation(ctx context.Context, original, consolidated []models.QueuedOperation, result models.ConsolidationResult) error {
	survived := make(map[string]models.QueuedOperation, len(consolidated))
	for _, op := range consolidated {
		survived[op.ID] = op
	}

	for _, op := range original {
		if _, ok := survived[op.ID]; ok {
			continue
		}
		if err := e.queue.Remove(ctx, op.ID); err != nil && !errors.Is(err, store.ErrOperationNotFound) {
			return err
		}
	}

	for _, op := range consolidated {
		if op.Type.IsDocumentLevel() && result.PerDocumentReduction[op.DocumentID] > 0 {
			if err := e.queue.Update(ctx, op); err != nil {
				return err
			}
		}
	}
	return nil
}

// dispatch fans the scheduled operations out over a bounded worker pool.
// Operations for the same document always land on the same lane and so are
// applied serially in queuedAt order; operations for different documents may
// proceed concurrently.
func (e *syncExecutor) dispatch(ctx context.Context, ops []models.QueuedOperation) {
	workers := e.cfg.DispatchWorkers
	if workers <= 0 {
		workers = 1
	}

	lanes := make([]chan models.QueuedOperation, workers)
	var wg sync.WaitGroup
	var consecutiveFailures atomic.Int64

	for i := range lanes {
		lanes[i] = make(chan models.QueuedOperation, len(ops))
		wg.Add(1)
		go func(lane <-chan models.QueuedOperation) {
			defer wg.Done()
			for op := range lane {
				if ctx.Err() != nil {
					continue
				}
				if e.breakerTripped(&consecutiveFailures) {
					continue
				}
				if e.dispatchOne(ctx, op) {
					consecutiveFailures.Store(0)
				} else {
					consecutiveFailures.Add(1)
				}
			}
		}(lanes[i])
	}

	for _, op := range ops {
		lanes[laneFor(op.DocumentID, workers)] <- op
	}
	for _, lane := range lanes {
		close(lane)
	}
	wg.Wait()
}

func (e *syncExecutor) breakerTripped(consecutiveFailures *atomic.Int64) bool {
	if e.cfg.BreakerThreshold > 0 && consecutiveFailures.Load() >= int64(e.cfg.BreakerThreshold) {
		if e.degraded.CompareAndSwap(false, true) {
			e.logger.Warn().
				Str("func", "syncExecutor.dispatch").
				Int("threshold", e.cfg.BreakerThreshold).
				Msg("circuit breaker tripped, sync degraded until next trigger")
		}
		return true
	}
	return false
}

func laneFor(documentID string, workers int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(documentID))
	return int(h.Sum32() % uint32(workers))
}

// dispatchOne executes a single operation against the gateway and settles
// its queue record. The return value feeds the circuit breaker: true counts
// as a non-failure (success, skip, or conflict routed to the resolver).
func (e *syncExecutor) dispatchOne(ctx context.Context, op models.QueuedOperation) bool {
	log := e.logger.With().
		Str("operation_id", op.ID).
		Str("document_id", op.DocumentID).
		Str("type", string(op.Type)).
		Logger()

	if op.RetryCount > 0 && !e.backoffElapsed(op) {
		log.Debug().Msg("operation inside backoff window, skipped this cycle")
		return true
	}
	if e.hasPendingConflict(op.DocumentID) {
		log.Debug().Msg("document awaiting conflict resolution, operation held")
		return true
	}

	payload, err := op.DecodePayload()
	if err != nil {
		e.failTerminal(ctx, op, err)
		return false
	}

	_ = e.docs.SetSyncState(ctx, op.DocumentID, models.SyncStateSyncing)

	switch op.Type {
	case models.OperationUpload:
		err = e.dispatchUpload(ctx, op, payload)
	case models.OperationUpdate:
		err = e.dispatchUpdate(ctx, op, payload)
	case models.OperationDelete:
		err = e.dispatchDelete(ctx, op, payload)
	case models.OperationFileUpload:
		err = e.dispatchFileUpload(ctx, op, payload)
	case models.OperationFileDelete:
		err = e.dispatchFileDelete(ctx, op, payload)
	default:
		err = fmt.Errorf("%w: %q", store.ErrInvalidOperation, op.Type)
	}

	if err == nil {
		e.succeed(ctx, op)
		return true
	}

	var conflict *adapter.VersionConflictError
	if errors.As(err, &conflict) {
		e.detectConflict(ctx, op, payload, conflict)
		return true
	}

	e.fail(ctx, op, err)
	return false
}

func (e *syncExecutor) hasPendingConflict(documentID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.conflicts[documentID]
	return ok
}

func (e *syncExecutor) backoffElapsed(op models.QueuedOperation) bool {
	e.mu.Lock()
	last, ok := e.lastAttempt[op.DocumentID]
	e.mu.Unlock()
	if !ok {
		return true
	}
	return time.Since(last) >= BackoffDelay(e.cfg.BackoffBase, e.cfg.BackoffMax, op.RetryCount)
}

func (e *syncExecutor) dispatchUpload(ctx context.Context, op models.QueuedOperation, payload models.OperationPayload) error {
	if payload.Document == nil {
		return fmt.Errorf("%w: upload without document snapshot", store.ErrInvalidOperation)
	}
	doc := *payload.Document

	stored, err := e.gateway.Upload(ctx, doc)
	if errors.Is(err, adapter.ErrDuplicateSyncID) {
		// Another device claimed the id first. Mint a fresh one and retry
		// once; a second collision is practically impossible and treated as
		// a real failure.
		doc.SyncID = e.ids.Generate()
		e.logger.Warn().
			Str("func", "syncExecutor.dispatchUpload").
			Str("document_id", op.DocumentID).
			Str("new_sync_id", doc.SyncID).
			Msg("duplicate sync id, regenerated")
		stored, err = e.gateway.Upload(ctx, doc)
	}
	if err != nil {
		return err
	}

	stored.SyncState = models.SyncStateSynced
	if saveErr := e.docs.Save(ctx, stored); saveErr != nil {
		e.logger.Err(saveErr).
			Str("func", "syncExecutor.dispatchUpload").
			Str("document_id", op.DocumentID).
			Msg("upload confirmed but local save failed")
	}
	return nil
}

func (e *syncExecutor) dispatchUpdate(ctx context.Context, op models.QueuedOperation, payload models.OperationPayload) error {
	if payload.Document == nil {
		return fmt.Errorf("%w: update without document snapshot", store.ErrInvalidOperation)
	}

	stored, err := e.gateway.Update(ctx, *payload.Document)
	if err != nil {
		return err
	}

	stored.SyncState = models.SyncStateSynced
	if saveErr := e.docs.Save(ctx, stored); saveErr != nil {
		e.logger.Err(saveErr).
			Str("func", "syncExecutor.dispatchUpdate").
			Str("document_id", op.DocumentID).
			Msg("update confirmed but local save failed")
	}
	return nil
}

func (e *syncExecutor) dispatchDelete(ctx context.Context, op models.QueuedOperation, payload models.OperationPayload) error {
	syncID := op.DocumentID
	if op.SyncID != nil {
		syncID = *op.SyncID
	}
	var version int64
	if payload.Document != nil {
		version = payload.Document.Version
	}

	err := e.gateway.Delete(ctx, syncID, version)
	if errors.Is(err, adapter.ErrNotFound) {
		// Already gone remotely; the delete's intent is satisfied.
		return nil
	}
	return err
}

func (e *syncExecutor) dispatchFileUpload(ctx context.Context, op models.QueuedOperation, payload models.OperationPayload) error {
	if payload.FilePath == "" {
		return fmt.Errorf("%w: file upload without file path", store.ErrInvalidOperation)
	}
	syncID := op.DocumentID
	if op.SyncID != nil {
		syncID = *op.SyncID
	}

	_, err := e.gateway.UploadFile(ctx, syncID, payload.FilePath)
	return err
}

func (e *syncExecutor) dispatchFileDelete(ctx context.Context, op models.QueuedOperation, payload models.OperationPayload) error {
	if payload.FileRef == "" {
		return fmt.Errorf("%w: file delete without file reference", store.ErrInvalidOperation)
	}
	syncID := op.DocumentID
	if op.SyncID != nil {
		syncID = *op.SyncID
	}

	return e.gateway.DeleteFile(ctx, syncID, payload.FileRef)
}

func (e *syncExecutor) succeed(ctx context.Context, op models.QueuedOperation) {
	if err := e.queue.Remove(ctx, op.ID); err != nil && !errors.Is(err, store.ErrOperationNotFound) {
		e.logger.Err(err).
			Str("func", "syncExecutor.succeed").
			Str("operation_id", op.ID).
			Msg("failed to remove confirmed operation")
		return
	}

	e.tracker.ClearError(op.DocumentID)
	e.mu.Lock()
	delete(e.lastAttempt, op.DocumentID)
	e.mu.Unlock()

	if op.Type.IsDocumentLevel() && op.Type != models.OperationDelete {
		_ = e.docs.SetSyncState(ctx, op.DocumentID, models.SyncStateSynced)
	}
	e.events.Publish(models.EventOperationSucceeded, op.DocumentID, string(op.Type))
}

// fail settles a failed dispatch: retryable failures under budget stay
// queued with an incremented retry count, everything else becomes a terminal
// DocumentError.
func (e *syncExecutor) fail(ctx context.Context, op models.QueuedOperation, dispatchErr error) {
	retryable := adapter.IsRetryable(dispatchErr)

	if retryable && op.RetryCount+1 <= e.cfg.MaxRetries {
		if err := e.queue.IncrementRetry(ctx, op.ID); err != nil {
			e.logger.Err(err).
				Str("func", "syncExecutor.fail").
				Str("operation_id", op.ID).
				Msg("failed to increment retry count")
		}
		e.mu.Lock()
		e.lastAttempt[op.DocumentID] = time.Now()
		e.mu.Unlock()

		e.tracker.RecordError(op.DocumentID, op.Type, op.RetryCount+1, dispatchErr)
		e.events.Publish(models.EventOperationFailed, op.DocumentID, dispatchErr.Error())
		return
	}

	e.failTerminal(ctx, op, dispatchErr)
}

func (e *syncExecutor) failTerminal(ctx context.Context, op models.QueuedOperation, dispatchErr error) {
	if err := e.queue.Remove(ctx, op.ID); err != nil && !errors.Is(err, store.ErrOperationNotFound) {
		e.logger.Err(err).
			Str("func", "syncExecutor.failTerminal").
			Str("operation_id", op.ID).
			Msg("failed to remove terminally failed operation")
	}

	e.tracker.RecordError(op.DocumentID, op.Type, op.RetryCount, dispatchErr)
	_ = e.docs.SetSyncState(ctx, op.DocumentID, models.SyncStateError)

	e.logger.Err(dispatchErr).
		Str("func", "syncExecutor.failTerminal").
		Str("operation_id", op.ID).
		Str("document_id", op.DocumentID).
		Int("retry_count", op.RetryCount).
		Msg("operation failed terminally")
	e.events.Publish(models.EventOperationFailed, op.DocumentID, dispatchErr.Error())
}

// detectConflict parks a version conflict for manual resolution: the
// operation stays durably queued but is held out of dispatch, the document
// is flagged, and the local/remote pair is kept so ResolveConflict can
// settle it later. After a restart the held pair rebuilds itself: the still
// queued operation hits the remote version check again and lands back here.
func (e *syncExecutor) detectConflict(ctx context.Context, op models.QueuedOperation, payload models.OperationPayload, conflict *adapter.VersionConflictError) {
	var local models.Document
	if payload.Document != nil {
		local = *payload.Document
	}

	e.mu.Lock()
	e.conflicts[op.DocumentID] = pendingConflict{local: local, remote: conflict.Remote, op: op}
	e.mu.Unlock()

	e.tracker.RecordError(op.DocumentID, op.Type, op.RetryCount, conflict)
	_ = e.docs.SetSyncState(ctx, op.DocumentID, models.SyncStateConflict)

	e.events.Publish(models.EventConflictDetected, op.DocumentID, conflict.Error())
}

// ResolveConflict implements [SyncExecutor]. keepRemote adopts the remote
// snapshot locally and settles the queued operation; keepLocal and merge
// adopt the winner locally and rewrite the queued operation into an update
// carrying it, to be drained on the next cycle.
func (e *syncExecutor) ResolveConflict(ctx context.Context, documentID string, mode ResolutionMode) error {
	e.mu.Lock()
	conflict, ok := e.conflicts[documentID]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoConflictPending, documentID)
	}

	resolution, err := e.resolver.Resolve(conflict.local, conflict.remote, mode)
	if err != nil {
		return fmt.Errorf("resolve conflict for %s: %w", documentID, err)
	}

	if resolution.AdoptLocally {
		if err = e.docs.Save(ctx, resolution.Document); err != nil {
			return fmt.Errorf("adopt resolution for %s: %w", documentID, err)
		}
	}

	if resolution.SubmitToRemote {
		if err = e.rewriteQueuedOp(ctx, conflict.op, resolution.Document); err != nil {
			return err
		}
	} else {
		if err = e.queue.Remove(ctx, conflict.op.ID); err != nil && !errors.Is(err, store.ErrOperationNotFound) {
			return fmt.Errorf("settle conflicted operation for %s: %w", documentID, err)
		}
		_ = e.docs.SetSyncState(ctx, documentID, models.SyncStateSynced)
	}

	e.mu.Lock()
	delete(e.conflicts, documentID)
	e.mu.Unlock()
	e.tracker.ClearError(documentID)

	return nil
}

// rewriteQueuedOp turns the conflicted queue record into an update carrying
// the winning snapshot. The record keeps its identity and queue position, so
// the resolution write drains under the usual ordering guarantees, and its
// retry budget starts over.
func (e *syncExecutor) rewriteQueuedOp(ctx context.Context, prev models.QueuedOperation, winner models.Document) error {
	data, err := models.EncodeOperationPayload(models.OperationPayload{Document: &winner})
	if err != nil {
		return fmt.Errorf("encode resolution payload: %w", err)
	}

	prev.Type = models.OperationUpdate
	prev.OperationData = data
	prev.RetryCount = 0

	if err = e.queue.Update(ctx, prev); err != nil {
		return fmt.Errorf("rewrite conflicted operation for %s: %w", prev.DocumentID, err)
	}
	return nil
}
