// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"sync"

	"github.com/docvault/docvault/internal/adapter"
	"github.com/docvault/docvault/internal/logger"
	"github.com/docvault/docvault/models"
)

// migrationUploadAttempts is the in-line retry budget per document during
// migration. Transient gateway failures are retried immediately rather than
// through the sync queue, since migration runs before the queue takes over.
const migrationUploadAttempts = 3

type migrationService struct {
	gateway adapter.SyncGateway
	docs    DocumentStore
	logger  *logger.Logger

	mu       sync.Mutex
	running  bool
	progress models.MigrationProgress
}

// NewMigrationService constructs the one-time local-to-remote migration.
func NewMigrationService(gateway adapter.SyncGateway, docs DocumentStore, log *logger.Logger) MigrationService {
	return &migrationService{
		gateway:  gateway,
		docs:     docs,
		logger:   log,
		progress: models.MigrationProgress{Status: models.MigrationNotStarted},
	}
}

// Migrate implements [MigrationService]. Documents are uploaded one at a
// time; the progress counters are updated under the mutex after every
// document, so migrated+failed never exceeds total at any observable point.
// Cancellation is honored between documents and leaves the progress in the
// cancelled status with the remaining documents unaccounted.
func (m *migrationService) Migrate(ctx context.Context, docs []models.Document) (models.MigrationProgress, error) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return models.MigrationProgress{}, ErrMigrationRunning
	}
	m.running = true
	m.progress = models.MigrationProgress{
		TotalDocuments: len(docs),
		Status:         models.MigrationInProgress,
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	for _, doc := range docs {
		if ctx.Err() != nil {
			return m.finish(models.MigrationCancelled), ctx.Err()
		}

		if attempts, err := m.migrateOne(ctx, doc); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return m.finish(models.MigrationCancelled), err
			}
			m.recordFailure(doc, attempts, err)
			continue
		}
		m.recordMigrated()
	}

	m.mu.Lock()
	failed := m.progress.FailedDocuments
	m.mu.Unlock()

	status := models.MigrationCompleted
	if failed > 0 {
		status = models.MigrationFailed
	}
	return m.finish(status), nil
}

func (m *migrationService) Progress() models.MigrationProgress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress
}

func (m *migrationService) migrateOne(ctx context.Context, doc models.Document) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= migrationUploadAttempts; attempt++ {
		if ctx.Err() != nil {
			return attempt, ctx.Err()
		}

		stored, err := m.gateway.Upload(ctx, doc)
		if err == nil {
			stored.SyncState = models.SyncStateSynced
			if saveErr := m.docs.Save(ctx, stored); saveErr != nil {
				m.logger.Err(saveErr).
					Str("func", "migrationService.migrateOne").
					Str("document_id", doc.SyncID).
					Msg("migrated document could not be saved locally")
			}
			return attempt, nil
		}

		lastErr = err
		if !adapter.IsRetryable(err) {
			return attempt, err
		}
	}
	return migrationUploadAttempts, lastErr
}

func (m *migrationService) recordMigrated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress.MigratedDocuments++
}

func (m *migrationService) recordFailure(doc models.Document, attempts int, err error) {
	m.logger.Err(err).
		Str("func", "migrationService.Migrate").
		Str("document_id", doc.SyncID).
		Msg("document migration failed")

	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress.FailedDocuments++
	m.progress.Failures = append(m.progress.Failures, models.MigrationFailure{
		DocumentID:    doc.SyncID,
		DocumentTitle: doc.Title,
		Error:         err.Error(),
		RetryCount:    attempts - 1,
	})
}

func (m *migrationService) finish(status models.MigrationStatus) models.MigrationProgress {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress.Status = status
	return m.progress
}
