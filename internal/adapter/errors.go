package adapter

import (
	"errors"
	"fmt"
	"net"

	"github.com/docvault/docvault/models"
)

var (
	ErrUnauthorized      = errors.New("client unauthorized")
	ErrForbidden         = errors.New("access denied")
	ErrNotFound          = errors.New("document not found")
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrServerUnavailable = errors.New("service unavailable")
	ErrDuplicateSyncID   = errors.New("duplicate sync id")
)

// VersionConflictError reports an optimistic-locking failure: the server's
// version of the document no longer matches the version the client wrote
// against. Remote holds the server-side snapshot returned with the 409 so the
// conflict can be resolved without another round trip.
type VersionConflictError struct {
	SyncID string
	Remote models.Document
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict for %s: remote version %d", e.SyncID, e.Remote.Version)
}

// IsRetryable reports whether err represents a transient transport condition
// that a later sync pass may succeed on: server overload/unavailability or a
// network-level failure. Version conflicts, auth failures and validation
// errors are not retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrServerUnavailable) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
