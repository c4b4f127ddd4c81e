// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/docvault/docvault/internal/logger"
	"github.com/docvault/docvault/models"
)

type syncCoordinator struct {
	QueueManager

	executor     SyncExecutor
	connectivity ConnectivityMonitor
	events       *eventBus
	debounce     time.Duration
	logger       *logger.Logger

	mu            sync.Mutex
	debounceTimer *time.Timer
	lastSyncTime  *time.Time
	lastError     string

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewSyncCoordinator wires the trigger policy around the executor. queue is
// embedded so queue management calls pass straight through, except that
// QueueOperation also schedules a debounced drain.
func NewSyncCoordinator(
	queue QueueManager,
	executor SyncExecutor,
	connectivity ConnectivityMonitor,
	events *eventBus,
	debounce time.Duration,
	log *logger.Logger,
) SyncCoordinator {
	return &syncCoordinator{
		QueueManager: queue,
		executor:     executor,
		connectivity: connectivity,
		events:       events,
		debounce:     debounce,
		logger:       log,
		stopCh:       make(chan struct{}),
	}
}

// Start implements [SyncCoordinator]: it fires the launch sync and then
// reacts to connectivity transitions until ctx is done or Stop is called.
func (c *syncCoordinator) Start(ctx context.Context) {
	c.logger.Info().Str("func", "syncCoordinator.Start").Msg("sync coordinator started")
	c.drainAsync(ctx)

	changes := c.connectivity.Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case online, ok := <-changes:
			if !ok {
				return
			}
			if online {
				c.logger.Info().
					Str("func", "syncCoordinator.Start").
					Msg("connectivity restored, triggering sync")
				c.drainAsync(ctx)
			}
		}
	}
}

func (c *syncCoordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})

	c.mu.Lock()
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
		c.debounceTimer = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
	c.events.Close()
}

// QueueOperation persists the operation and schedules a debounced drain so
// a burst of local edits results in one sync pass.
func (c *syncCoordinator) QueueOperation(ctx context.Context, op models.QueuedOperation) (string, error) {
	id, err := c.QueueManager.QueueOperation(ctx, op)
	if err != nil {
		return "", err
	}
	c.NotifyDocumentChanged(op.DocumentID)
	return id, nil
}

// NotifyDocumentChanged implements the trailing-edge debounce: every call
// resets the timer, and only the quiet period after the last call triggers
// the drain.
func (c *syncCoordinator) NotifyDocumentChanged(documentID string) {
	select {
	case <-c.stopCh:
		return
	default:
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
	}
	c.debounceTimer = time.AfterFunc(c.debounce, func() {
		c.drainAsync(context.Background())
	})
}

func (c *syncCoordinator) NotifySubscriptionActivated() {
	c.logger.Info().
		Str("func", "syncCoordinator.NotifySubscriptionActivated").
		Msg("subscription activated, triggering sync")
	c.drainAsync(context.Background())
}

// SyncNow implements [SyncCoordinator]: a synchronous drain attempt that
// bypasses the debounce. An already-running cycle is not an error for the
// caller; the running cycle covers the request.
func (c *syncCoordinator) SyncNow(ctx context.Context) error {
	err := c.drain(ctx)
	if errors.Is(err, ErrSyncInProgress) {
		return nil
	}
	return err
}

func (c *syncCoordinator) GetSyncStatus(ctx context.Context) models.SyncStatus {
	pending, err := c.PendingCount(ctx)
	if err != nil {
		c.logger.Err(err).
			Str("func", "syncCoordinator.GetSyncStatus").
			Msg("failed to count pending operations")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return models.SyncStatus{
		IsSyncing:      c.executor.IsSyncing(),
		PendingChanges: pending,
		LastSyncTime:   c.lastSyncTime,
		Error:          c.lastError,
	}
}

func (c *syncCoordinator) Subscribe() <-chan models.SyncEvent {
	return c.events.Subscribe()
}

func (c *syncCoordinator) Unsubscribe(ch <-chan models.SyncEvent) {
	c.events.Unsubscribe(ch)
}

func (c *syncCoordinator) drainAsync(ctx context.Context) {
	select {
	case <-c.stopCh:
		return
	default:
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.drain(ctx)
	}()
}

func (c *syncCoordinator) drain(ctx context.Context) error {
	err := c.executor.ProcessQueue(ctx)

	switch {
	case err == nil:
		now := time.Now()
		c.mu.Lock()
		c.lastSyncTime = &now
		c.lastError = ""
		c.mu.Unlock()

	case errors.Is(err, ErrSyncInProgress):
		// Another trigger already started a cycle; nothing to record.

	default:
		c.mu.Lock()
		c.lastError = err.Error()
		c.mu.Unlock()
		c.logger.Warn().
			Str("func", "syncCoordinator.drain").
			Err(err).
			Msg("sync attempt did not run")
	}

	return err
}
