// SPDX-License-Identifier: Apache-2.0

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	enqueueOperation = `
		INSERT INTO sync_queue (
			id,
			document_id,
			sync_id,
			type,
			queued_at,
			retry_count,
			operation_data,
			priority
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	updateOperation = `
		UPDATE sync_queue SET
			type           = $1,
			operation_data = $2,
			priority       = $3,
			retry_count    = $4
		WHERE id = $5;`

	incrementRetryCount = `
		UPDATE sync_queue
		SET retry_count = retry_count + 1
		WHERE id = $1;`

	removeOperation = `
		DELETE FROM sync_queue
		WHERE id = $1;`

	removeOperationsForDocument = `
		DELETE FROM sync_queue
		WHERE document_id = $1;`

	clearQueue = `DELETE FROM sync_queue;`

	upsertDocument = `
		INSERT INTO documents (
			sync_id,
			user_id,
			title,
			category,
			file_paths,
			notes,
			renewal_date,
			created_at,
			last_modified,
			version,
			sync_state,
			conflict_id,
			deleted,
			deleted_at,
			content_hash
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (sync_id) DO UPDATE SET
			user_id       = excluded.user_id,
			title         = excluded.title,
			category      = excluded.category,
			file_paths    = excluded.file_paths,
			notes         = excluded.notes,
			renewal_date  = excluded.renewal_date,
			created_at    = excluded.created_at,
			last_modified = excluded.last_modified,
			version       = excluded.version,
			sync_state    = excluded.sync_state,
			conflict_id   = excluded.conflict_id,
			deleted       = excluded.deleted,
			deleted_at    = excluded.deleted_at,
			content_hash  = excluded.content_hash;`

	setDocumentSyncState = `
		UPDATE documents
		SET sync_state = $1
		WHERE sync_id = $2;`
)

var queueColumns = []string{
	"id",
	"document_id",
	"sync_id",
	"type",
	"queued_at",
	"retry_count",
	"operation_data",
	"priority",
}

var documentColumns = []string{
	"sync_id",
	"user_id",
	"title",
	"category",
	"file_paths",
	"notes",
	"renewal_date",
	"created_at",
	"last_modified",
	"version",
	"sync_state",
	"conflict_id",
	"deleted",
	"deleted_at",
	"content_hash",
}

// buildListQuery builds the SELECT over the queue in its stable dispatch
// order. A non-empty documentID narrows the result to one document.
func buildListQuery(documentID string) (string, []any, error) {
	builder := sq.Select(queueColumns...).
		From("sync_queue").
		OrderBy("priority DESC", "queued_at ASC")

	if documentID != "" {
		builder = builder.Where(sq.Eq{"document_id": documentID})
	}

	return builder.ToSql()
}

func buildGetDocumentQuery(syncID string) (string, []any, error) {
	return sq.Select(documentColumns...).
		From("documents").
		Where(sq.Eq{"sync_id": syncID}).
		ToSql()
}
