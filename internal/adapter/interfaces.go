// SPDX-License-Identifier: Apache-2.0

// Package adapter provides transport-layer abstractions for communicating with
// the DocVault server.
//
// The primary abstraction is [SyncGateway], which decouples the sync executor
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPSyncGateway]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrUnauthorized] for 401, [ErrServerUnavailable] for 5xx).
// An optimistic-locking failure on update surfaces as [*VersionConflictError]
// carrying the remote document snapshot.
package adapter

import (
	"context"

	"github.com/docvault/docvault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/sync_gateway_mock.go -package=mock

// SyncGateway defines transport-agnostic communication with the DocVault
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel values
// defined in this package.
type SyncGateway interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// authenticated requests. It should be called before a sync pass starts.
	SetToken(token string)

	// Token returns the bearer token currently stored in the gateway, or an
	// empty string if no token has been set yet.
	Token() string

	// Upload sends a brand-new document to the server. On success it returns
	// the server-side record, including the authoritative version number.
	// Returns [ErrDuplicateSyncID] (wrapped) if the server already holds a
	// document with the same sync id.
	Upload(ctx context.Context, doc models.Document) (models.Document, error)

	// Update pushes changed fields of an existing document to the server
	// under optimistic locking: the server accepts the write only if
	// doc.Version matches its current version. On a mismatch it returns
	// [*VersionConflictError] carrying the remote snapshot. On success it
	// returns the stored record with the incremented version.
	Update(ctx context.Context, doc models.Document) (models.Document, error)

	// Delete soft-deletes the document identified by syncID on the server,
	// guarded by the same optimistic lock as Update. Returns
	// [*VersionConflictError] on a version mismatch and [ErrNotFound]
	// (wrapped) if the server has no such document.
	Delete(ctx context.Context, syncID string, version int64) error

	// UploadFile streams the attachment at path to the server under the
	// owning document's syncID. It returns the server-assigned file
	// reference used for later deletion.
	UploadFile(ctx context.Context, syncID string, path string) (string, error)

	// DeleteFile removes the attachment identified by fileRef from the
	// document identified by syncID on the server.
	DeleteFile(ctx context.Context, syncID string, fileRef string) error
}
