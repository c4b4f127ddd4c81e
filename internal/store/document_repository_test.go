package store

import (
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/docvault/docvault/internal/logger"
	"github.com/docvault/docvault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectDocumentSQL = `SELECT sync_id, user_id, title, category, file_paths, notes, renewal_date, created_at, last_modified, version, sync_state, conflict_id, deleted, deleted_at, content_hash FROM documents WHERE sync_id = ?`

func newTestDocRepo(t *testing.T, db *sql.DB) DocumentRepository {
	t.Helper()
	return NewDocumentRepository(newDBFromSQL(db), logger.Nop())
}

func documentRowFor(doc models.Document) *sqlmock.Rows {
	var filePaths driver.Value
	if len(doc.FilePaths) > 0 {
		encoded, _ := encodeFilePaths(doc.FilePaths)
		filePaths = encoded
	}
	return sqlmock.NewRows(documentColumns).AddRow(
		doc.SyncID,
		doc.UserID,
		doc.Title,
		doc.Category,
		filePaths,
		doc.Notes,
		nullableTime(doc.RenewalDate),
		doc.CreatedAt.UTC().Format(queuedAtLayout),
		doc.LastModified.UTC().Format(queuedAtLayout),
		doc.Version,
		string(doc.SyncState),
		nullableString(doc.ConflictID),
		doc.Deleted,
		nullableTime(doc.DeletedAt),
		doc.ContentHash,
	)
}

// ── Get ─────────────────────────────────────────────────────────────────────

func TestDocumentGet(t *testing.T) {
	createdAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2026, 1, 15, 10, 30, 0, 500000000, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocRepo(t, db)

		want := models.Document{
			SyncID:       "doc-1",
			UserID:       "user-1",
			Title:        "passport",
			Category:     "identity",
			FilePaths:    []string{"passport.pdf", "visa.pdf"},
			Notes:        "expires 2031",
			CreatedAt:    createdAt,
			LastModified: modifiedAt,
			Version:      3,
			SyncState:    models.SyncStateSynced,
			ContentHash:  "abc123",
		}

		mock.ExpectQuery(regexp.QuoteMeta(selectDocumentSQL)).
			WithArgs("doc-1").
			WillReturnRows(documentRowFor(want))

		got, err := repo.Get(testContext(), "doc-1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta(selectDocumentSQL)).
			WithArgs("doc-ghost").
			WillReturnRows(sqlmock.NewRows(documentColumns))

		_, err := repo.Get(testContext(), "doc-ghost")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("corrupt timestamp", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocRepo(t, db)

		rows := sqlmock.NewRows(documentColumns).AddRow(
			"doc-1", "user-1", "passport", "identity", nil, "",
			nil, "not-a-timestamp", modifiedAt.Format(queuedAtLayout),
			3, "synced", nil, false, nil, "",
		)
		mock.ExpectQuery(regexp.QuoteMeta(selectDocumentSQL)).
			WithArgs("doc-1").
			WillReturnRows(rows)

		_, err := repo.Get(testContext(), "doc-1")
		assert.ErrorIs(t, err, ErrCorruptDocumentRecord)
	})

	t.Run("corrupt file paths", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocRepo(t, db)

		rows := sqlmock.NewRows(documentColumns).AddRow(
			"doc-1", "user-1", "passport", "identity", "{not json", "",
			nil, createdAt.Format(queuedAtLayout), modifiedAt.Format(queuedAtLayout),
			3, "synced", nil, false, nil, "",
		)
		mock.ExpectQuery(regexp.QuoteMeta(selectDocumentSQL)).
			WithArgs("doc-1").
			WillReturnRows(rows)

		_, err := repo.Get(testContext(), "doc-1")
		assert.ErrorIs(t, err, ErrCorruptDocumentRecord)
	})
}

// ── Save ────────────────────────────────────────────────────────────────────

func TestDocumentSave(t *testing.T) {
	createdAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	renewal := time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("upsert with all fields", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocRepo(t, db)

		conflictID := "conflict-1"
		doc := models.Document{
			SyncID:       "doc-1",
			UserID:       "user-1",
			Title:        "passport",
			Category:     "identity",
			FilePaths:    []string{"passport.pdf"},
			Notes:        "expires 2031",
			RenewalDate:  &renewal,
			CreatedAt:    createdAt,
			LastModified: modifiedAt,
			Version:      4,
			SyncState:    models.SyncStatePending,
			ConflictID:   &conflictID,
			ContentHash:  "abc123",
		}

		mock.ExpectExec(regexp.QuoteMeta(upsertDocument)).
			WithArgs(
				"doc-1", "user-1", "passport", "identity",
				`["passport.pdf"]`, "expires 2031",
				renewal.Format(queuedAtLayout),
				createdAt.Format(queuedAtLayout),
				modifiedAt.Format(queuedAtLayout),
				int64(4), "pending", "conflict-1", false, nil, "abc123",
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Save(testContext(), doc))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing sync id", func(t *testing.T) {
		db, _ := newTestDB(t)
		repo := newTestDocRepo(t, db)

		err := repo.Save(testContext(), models.Document{Title: "orphan"})
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("exec error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocRepo(t, db)

		mock.ExpectExec(regexp.QuoteMeta(upsertDocument)).
			WillReturnError(sql.ErrConnDone)

		err := repo.Save(testContext(), models.Document{
			SyncID:       "doc-1",
			CreatedAt:    createdAt,
			LastModified: modifiedAt,
		})
		assert.ErrorIs(t, err, ErrExecutingStatement)
	})
}

// ── SetSyncState ────────────────────────────────────────────────────────────

func TestDocumentSetSyncState(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocRepo(t, db)

		mock.ExpectExec(regexp.QuoteMeta(setDocumentSyncState)).
			WithArgs("syncing", "doc-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetSyncState(testContext(), "doc-1", models.SyncStateSyncing))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown document", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocRepo(t, db)

		mock.ExpectExec(regexp.QuoteMeta(setDocumentSyncState)).
			WithArgs("synced", "doc-ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetSyncState(testContext(), "doc-ghost", models.SyncStateSynced)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})
}
