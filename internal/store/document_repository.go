package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/docvault/docvault/internal/logger"
	"github.com/docvault/docvault/models"
)

type documentRepository struct {
	*DB
	logger *logger.Logger
}

func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	return &documentRepository{
		DB:     db,
		logger: logger,
	}
}

func (d *documentRepository) Get(ctx context.Context, syncID string) (models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetDocumentQuery(syncID)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: get document: %v", ErrBuildingSQLQuery, err)
	}

	row := d.DB.QueryRowContext(ctx, query, args...)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, syncID)
	}
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Get").
			Str("sync_id", syncID).
			Msg("failed to read document row")
		return models.Document{}, err
	}

	return doc, nil
}

func (d *documentRepository) Save(ctx context.Context, doc models.Document) error {
	log := logger.FromContext(ctx)

	if doc.SyncID == "" {
		return fmt.Errorf("%w: missing sync id", ErrInvalidDocument)
	}

	filePaths, err := encodeFilePaths(doc.FilePaths)
	if err != nil {
		return fmt.Errorf("%w: encode file paths for %s: %v", ErrInvalidDocument, doc.SyncID, err)
	}

	if _, err = d.DB.ExecContext(ctx, upsertDocument,
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
	); err != nil {
		log.Err(err).
			Str("func", "documentRepository.Save").
			Str("sync_id", doc.SyncID).
			Msg("failed to upsert document row")
		return fmt.Errorf("%w: save document %s: %v", ErrExecutingStatement, doc.SyncID, err)
	}

	return nil
}

func (d *documentRepository) SetSyncState(ctx context.Context, syncID string, state models.SyncState) error {
	res, err := d.DB.ExecContext(ctx, setDocumentSyncState, string(state), syncID)
	if err != nil {
		return fmt.Errorf("%w: set sync state for %s: %v", ErrExecutingStatement, syncID, err)
	}

	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, syncID)
	}

	return nil
}

func scanDocument(row *sql.Row) (models.Document, error) {
	var (
		doc          models.Document
		filePaths    sql.NullString
		renewalDate  sql.NullString
		createdAt    string
		lastModified string
		syncState    string
		conflictID   sql.NullString
		deletedAt    sql.NullString
	)

	if err := row.Scan(
		&doc.SyncID,
		&doc.UserID,
		&doc.Title,
		&doc.Category,
		&filePaths,
		&doc.Notes,
		&renewalDate,
		&createdAt,
		&lastModified,
		&doc.Version,
		&syncState,
		&conflictID,
		&doc.Deleted,
		&deletedAt,
		&doc.ContentHash,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Document{}, err
		}
		return models.Document{}, fmt.Errorf("%w: scan document row: %v", ErrCorruptDocumentRecord, err)
	}

	doc.SyncState = models.SyncState(syncState)

	var err error
	if doc.CreatedAt, err = time.Parse(queuedAtLayout, createdAt); err != nil {
		return models.Document{}, fmt.Errorf("%w: bad created_at %q for %s", ErrCorruptDocumentRecord, createdAt, doc.SyncID)
	}
	if doc.LastModified, err = time.Parse(queuedAtLayout, lastModified); err != nil {
		return models.Document{}, fmt.Errorf("%w: bad last_modified %q for %s", ErrCorruptDocumentRecord, lastModified, doc.SyncID)
	}

	if filePaths.Valid && filePaths.String != "" {
		if err = json.Unmarshal([]byte(filePaths.String), &doc.FilePaths); err != nil {
			return models.Document{}, fmt.Errorf("%w: bad file_paths for %s", ErrCorruptDocumentRecord, doc.SyncID)
		}
	}
	if renewalDate.Valid {
		ts, parseErr := time.Parse(queuedAtLayout, renewalDate.String)
		if parseErr != nil {
			return models.Document{}, fmt.Errorf("%w: bad renewal_date %q for %s", ErrCorruptDocumentRecord, renewalDate.String, doc.SyncID)
		}
		doc.RenewalDate = &ts
	}
	if conflictID.Valid {
		v := conflictID.String
		doc.ConflictID = &v
	}
	if deletedAt.Valid {
		ts, parseErr := time.Parse(queuedAtLayout, deletedAt.String)
		if parseErr != nil {
			return models.Document{}, fmt.Errorf("%w: bad deleted_at %q for %s", ErrCorruptDocumentRecord, deletedAt.String, doc.SyncID)
		}
		doc.DeletedAt = &ts
	}

	return doc, nil
}

func encodeFilePaths(paths []string) (any, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(paths)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(queuedAtLayout)
}
