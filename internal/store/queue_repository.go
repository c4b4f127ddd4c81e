package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docvault/docvault/internal/logger"
	"github.com/docvault/docvault/models"
)

// queuedAtLayout is the textual form queued_at is persisted in. RFC 3339
// with nanoseconds keeps lexicographic order equal to chronological order,
// which the stable-order index relies on.
const queuedAtLayout = time.RFC3339Nano

type queueRepository struct {
	*DB
	logger *logger.Logger
}

func NewQueueRepository(db *DB, logger *logger.Logger) QueueRepository {
	return &queueRepository{
		DB:     db,
		logger: logger,
	}
}

func (q *queueRepository) Enqueue(ctx context.Context, op models.QueuedOperation) (string, error) {
	log := logger.FromContext(ctx)

	if op.ID == "" || op.DocumentID == "" || !op.Type.Valid() {
		return "", fmt.Errorf("%w: id=%q document_id=%q type=%q", ErrInvalidOperation, op.ID, op.DocumentID, op.Type)
	}

	res, err := q.DB.ExecContext(ctx, enqueueOperation,
		op.ID,
		op.DocumentID,
		nullableString(op.SyncID),
		string(op.Type),
		op.QueuedAt.UTC().Format(queuedAtLayout),
		op.RetryCount,
		nullableRaw(op.OperationData),
		op.Priority,
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Enqueue").
			Str("operation_id", op.ID).
			Str("document_id", op.DocumentID).
			Msg("failed to execute insert for queued operation")
		return "", fmt.Errorf("%w: enqueue operation %s: %v", ErrExecutingStatement, op.ID, err)
	}

	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		return "", fmt.Errorf("%w: %s", ErrOperationNotSaved, op.ID)
	}

	return op.ID, nil
}

func (q *queueRepository) List(ctx context.Context, documentID string) ([]models.QueuedOperation, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListQuery(documentID)
	if err != nil {
		return nil, fmt.Errorf("%w: list queued operations: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.List").
			Str("document_id", documentID).
			Msg("failed to execute query for listing queued operations")
		return nil, fmt.Errorf("%w: list queued operations: %v", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var ops []models.QueuedOperation
	for rows.Next() {
		op, scanErr := scanQueuedOperation(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "queueRepository.List").
				Msg("failed to scan queued operation row")
			return nil, scanErr
		}
		ops = append(ops, op)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate queued operations: %v", ErrExecutingQuery, err)
	}

	return ops, nil
}

func (q *queueRepository) Update(ctx context.Context, op models.QueuedOperation) error {
	log := logger.FromContext(ctx)

	if op.ID == "" || !op.Type.Valid() {
		return fmt.Errorf("%w: id=%q type=%q", ErrInvalidOperation, op.ID, op.Type)
	}

	res, err := q.DB.ExecContext(ctx, updateOperation,
		string(op.Type),
		nullableRaw(op.OperationData),
		op.Priority,
		op.RetryCount,
		op.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Update").
			Str("operation_id", op.ID).
			Msg("failed to execute update for queued operation")
		return fmt.Errorf("%w: update operation %s: %v", ErrExecutingStatement, op.ID, err)
	}

	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrOperationNotFound, op.ID)
	}

	return nil
}

func (q *queueRepository) IncrementRetry(ctx context.Context, opID string) error {
	res, err := q.DB.ExecContext(ctx, incrementRetryCount, opID)
	if err != nil {
		return fmt.Errorf("%w: increment retry for %s: %v", ErrExecutingStatement, opID, err)
	}

	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrOperationNotFound, opID)
	}

	return nil
}

func (q *queueRepository) Remove(ctx context.Context, opID string) error {
	res, err := q.DB.ExecContext(ctx, removeOperation, opID)
	if err != nil {
		return fmt.Errorf("%w: remove operation %s: %v", ErrExecutingStatement, opID, err)
	}

	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrOperationNotFound, opID)
	}

	return nil
}

func (q *queueRepository) RemoveAllForDocument(ctx context.Context, documentID string) error {
	if _, err := q.DB.ExecContext(ctx, removeOperationsForDocument, documentID); err != nil {
		return fmt.Errorf("%w: remove operations for document %s: %v", ErrExecutingStatement, documentID, err)
	}
	return nil
}

func (q *queueRepository) Clear(ctx context.Context) error {
	if _, err := q.DB.ExecContext(ctx, clearQueue); err != nil {
		return fmt.Errorf("%w: clear queue: %v", ErrExecutingStatement, err)
	}
	return nil
}

func (q *queueRepository) LoadAll(ctx context.Context) ([]models.QueuedOperation, error) {
	return q.List(ctx, "")
}

// scanQueuedOperation decodes one persisted queue row. A row that cannot be
// decoded is reported as ErrCorruptQueueRecord so callers can distinguish
// durability damage from plain query failures.
func scanQueuedOperation(rows *sql.Rows) (models.QueuedOperation, error) {
	var (
		op       models.QueuedOperation
		syncID   sql.NullString
		opType   string
		queuedAt string
		payload  sql.NullString
	)

	if err := rows.Scan(
		&op.ID,
		&op.DocumentID,
		&syncID,
		&opType,
		&queuedAt,
		&op.RetryCount,
		&payload,
		&op.Priority,
	); err != nil {
		return models.QueuedOperation{}, fmt.Errorf("%w: scan queue row: %v", ErrCorruptQueueRecord, err)
	}

	op.Type = models.OperationType(opType)
	if !op.Type.Valid() {
		return models.QueuedOperation{}, fmt.Errorf("%w: unknown operation type %q for %s", ErrCorruptQueueRecord, opType, op.ID)
	}

	ts, err := time.Parse(queuedAtLayout, queuedAt)
	if err != nil {
		return models.QueuedOperation{}, fmt.Errorf("%w: bad queued_at %q for %s", ErrCorruptQueueRecord, queuedAt, op.ID)
	}
	op.QueuedAt = ts

	if syncID.Valid {
		v := syncID.String
		op.SyncID = &v
	}
	if payload.Valid && payload.String != "" {
		op.OperationData = json.RawMessage(payload.String)
	}

	return op, nil
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableRaw(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
