// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/docvault/docvault/internal/logger"
	"github.com/docvault/docvault/internal/store"
	"github.com/docvault/docvault/internal/utils"
	"github.com/docvault/docvault/models"
)

type queueManager struct {
	queue  store.QueueRepository
	ids    *utils.UUIDGenerator
	logger *logger.Logger
}

// NewQueueManager constructs the service-level face of the durable queue.
func NewQueueManager(queue store.QueueRepository, log *logger.Logger) QueueManager {
	return &queueManager{
		queue:  queue,
		ids:    utils.NewUUIDGenerator(),
		logger: log,
	}
}

// QueueOperation implements [QueueManager]. The operation id and enqueue
// time are assigned here; documentID and syncId are normalized to their
// canonical lowercase UUID form before persistence.
func (q *queueManager) QueueOperation(ctx context.Context, op models.QueuedOperation) (string, error) {
	documentID, err := utils.NormalizeSyncID(op.DocumentID)
	if err != nil {
		return "", fmt.Errorf("queue operation document id: %w", err)
	}
	op.DocumentID = documentID

	if op.SyncID != nil {
		syncID, err := utils.NormalizeSyncID(*op.SyncID)
		if err != nil {
			return "", fmt.Errorf("queue operation sync id: %w", err)
		}
		op.SyncID = &syncID
	}

	op.ID = q.ids.Generate()
	op.QueuedAt = time.Now().UTC()
	op.RetryCount = 0

	id, err := q.queue.Enqueue(ctx, op)
	if err != nil {
		return "", fmt.Errorf("enqueue operation: %w", err)
	}

	q.logger.Debug().
		Str("func", "queueManager.QueueOperation").
		Str("operation_id", id).
		Str("document_id", op.DocumentID).
		Str("type", string(op.Type)).
		Int("priority", op.Priority).
		Msg("operation queued")

	return id, nil
}

func (q *queueManager) GetOperationsForDocument(ctx context.Context, documentID string) ([]models.QueuedOperation, error) {
	ops, err := q.queue.List(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list operations for document %s: %w", documentID, err)
	}
	return ops, nil
}

func (q *queueManager) GetAllOperations(ctx context.Context) ([]models.QueuedOperation, error) {
	ops, err := q.queue.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load all operations: %w", err)
	}
	return ops, nil
}

func (q *queueManager) RemoveOperationsForDocument(ctx context.Context, documentID string) error {
	if err := q.queue.RemoveAllForDocument(ctx, documentID); err != nil {
		return fmt.Errorf("remove operations for document %s: %w", documentID, err)
	}
	return nil
}

func (q *queueManager) ClearQueue(ctx context.Context) error {
	if err := q.queue.Clear(ctx); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	return nil
}

func (q *queueManager) PendingCount(ctx context.Context) (int, error) {
	ops, err := q.queue.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("count pending operations: %w", err)
	}
	return len(ops), nil
}
