// SPDX-License-Identifier: Apache-2.0

package service

import (
	"errors"
	"net"

	"github.com/docvault/docvault/internal/adapter"
)

// All Msg* constants are human-readable message strings surfaced to the user
// through DocumentError. Keeping them in one place ensures consistent wording
// throughout the sync core; the raw technical error stays in the logs.
const (
	// MsgSessionExpired is shown when the stored credentials are no longer
	// accepted by the server and the user has to sign in again.
	MsgSessionExpired = "session expired, sign in again"

	// MsgAccessDenied is shown when the account is not allowed to sync the
	// document (e.g. the subscription lapsed).
	MsgAccessDenied = "access denied for this account"

	// MsgDocumentMissing is shown when the document no longer exists on the
	// server.
	MsgDocumentMissing = "document no longer exists on the server"

	// MsgDocumentRejected is shown when the server refused the document
	// payload as invalid.
	MsgDocumentRejected = "document was rejected by the server"

	// MsgDuplicateID is shown when the document identifier is already in use
	// on the server and could not be regenerated.
	MsgDuplicateID = "document identifier already in use"

	// MsgServerUnavailable is shown on server-side overload or outage; the
	// operation stays queued and retries automatically.
	MsgServerUnavailable = "sync service unavailable, will retry automatically"

	// MsgConnectionFailed is shown on network-level failures between the
	// device and the server.
	MsgConnectionFailed = "connection problem, will retry automatically"

	// MsgTemporaryFailure is shown for transient failures that do not map to
	// a more specific condition.
	MsgTemporaryFailure = "temporary network problem, will retry automatically"

	// MsgVersionConflict is shown when the document changed on another device
	// and the user has to choose which version to keep.
	MsgVersionConflict = "version conflict, the document was changed on another device"

	// MsgSyncFailed is the fallback for failures that cannot be attributed to
	// a known condition.
	MsgSyncFailed = "sync failed, contact support if the problem persists"
)

// humanErrorMessage maps a sync failure to the user-facing Msg* wording.
// Typed and sentinel errors are matched first; anything else falls back on
// the classification table so transient failures keep a retryable phrasing.
func humanErrorMessage(err error) string {
	var conflict *adapter.VersionConflictError
	var netErr net.Error

	switch {
	case errors.As(err, &conflict), isConflictMessage(err.Error()):
		return MsgVersionConflict
	case errors.Is(err, adapter.ErrUnauthorized):
		return MsgSessionExpired
	case errors.Is(err, adapter.ErrForbidden):
		return MsgAccessDenied
	case errors.Is(err, adapter.ErrNotFound):
		return MsgDocumentMissing
	case errors.Is(err, adapter.ErrInvalidPayload):
		return MsgDocumentRejected
	case errors.Is(err, adapter.ErrDuplicateSyncID):
		return MsgDuplicateID
	case errors.Is(err, adapter.ErrServerUnavailable):
		return MsgServerUnavailable
	case errors.As(err, &netErr):
		return MsgConnectionFailed
	case ClassifyErrorMessage(err.Error()):
		return MsgTemporaryFailure
	default:
		return MsgSyncFailed
	}
}
