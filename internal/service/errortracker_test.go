// SPDX-License-Identifier: Apache-2.0

package service

import (
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/docvault/docvault/internal/adapter"
	"github.com/docvault/docvault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) (*errorTracker, *time.Time) {
	t.Helper()
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	tracker := NewErrorTracker(2*time.Second, 5*time.Minute).(*errorTracker)
	tracker.now = func() time.Time { return now }
	return tracker, &now
}

// ── Classification ──────────────────────────────────────────────────────────

func TestClassifyErrorMessage(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		recoverable bool
	}{
		{name: "network timeout", message: "request network timeout", recoverable: true},
		{name: "timed out", message: "context deadline: operation timed out", recoverable: true},
		{name: "connection refused", message: "dial tcp: connection refused", recoverable: true},
		{name: "throttled", message: "request throttled by server", recoverable: true},
		{name: "rate limited", message: "rate limit exceeded", recoverable: true},
		{name: "service unavailable", message: "service unavailable: upstream down", recoverable: true},
		{name: "internal server error", message: "http 500: internal server error", recoverable: true},

		{name: "not found", message: "document not found", recoverable: false},
		{name: "deleted remotely", message: "document was deleted", recoverable: false},
		{name: "access denied", message: "access denied for user", recoverable: false},
		{name: "forbidden", message: "forbidden: subscription lapsed", recoverable: false},
		{name: "invalid format", message: "invalid payload: missing title", recoverable: false},
		{name: "malformed", message: "malformed document snapshot", recoverable: false},
		{name: "version conflict", message: "version conflict: remote version 7", recoverable: false},
		{name: "unknown message", message: "something inexplicable happened", recoverable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.recoverable, ClassifyErrorMessage(tt.message))
		})
	}
}

// ── User-facing messages ────────────────────────────────────────────────────

func TestHumanErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "unauthorized", err: fmt.Errorf("upload document: %w", adapter.ErrUnauthorized), want: MsgSessionExpired},
		{name: "forbidden", err: adapter.ErrForbidden, want: MsgAccessDenied},
		{name: "not found", err: adapter.ErrNotFound, want: MsgDocumentMissing},
		{name: "invalid payload", err: adapter.ErrInvalidPayload, want: MsgDocumentRejected},
		{name: "duplicate sync id", err: adapter.ErrDuplicateSyncID, want: MsgDuplicateID},
		{name: "server unavailable", err: adapter.ErrServerUnavailable, want: MsgServerUnavailable},
		{
			name: "version conflict",
			err:  &adapter.VersionConflictError{SyncID: "doc-1", Remote: models.Document{Version: 7}},
			want: MsgVersionConflict,
		},
		{name: "transient by wording", err: errors.New("request timed out"), want: MsgTemporaryFailure},
		{name: "unknown", err: errors.New("something inexplicable happened"), want: MsgSyncFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, humanErrorMessage(tt.err))
		})
	}
}

func TestRecordError_MessageNeverCarriesTechnicalDetail(t *testing.T) {
	tracker, _ := newTestTracker(t)

	transportErr := fmt.Errorf("sync document: %w", &url.Error{
		Op:  "Post",
		URL: "https://vault.example.com/api/documents",
		Err: errors.New("dial tcp 10.0.0.5:443: connect: connection refused"),
	})
	tracker.RecordError("doc-1", models.OperationUpdate, 1, transportErr)

	docErr, ok := tracker.GetError("doc-1")
	require.True(t, ok)
	assert.Equal(t, MsgConnectionFailed, docErr.Message)
	assert.NotContains(t, docErr.Message, "dial tcp")
	assert.True(t, docErr.IsRecoverable)
}

// ── Record / Get / Clear ────────────────────────────────────────────────────

func TestRecordError_PreservesFirstOccurredAt(t *testing.T) {
	tracker, now := newTestTracker(t)
	first := *now

	tracker.RecordError("doc-1", models.OperationUpdate, 0, errors.New("network timeout"))
	*now = now.Add(10 * time.Minute)
	tracker.RecordError("doc-1", models.OperationUpdate, 1, errors.New("network timeout"))

	docErr, ok := tracker.GetError("doc-1")
	require.True(t, ok)
	assert.Equal(t, first, docErr.FirstOccurredAt)
	assert.Equal(t, *now, docErr.LastAttemptAt)
	assert.Equal(t, 1, docErr.RetryCount)
	assert.True(t, docErr.IsRecoverable)
}

func TestClearError(t *testing.T) {
	tracker, _ := newTestTracker(t)

	tracker.RecordError("doc-1", models.OperationUpload, 0, errors.New("network timeout"))
	tracker.ClearError("doc-1")

	_, ok := tracker.GetError("doc-1")
	assert.False(t, ok)
}

func TestRecordError_NilErrorIgnored(t *testing.T) {
	tracker, _ := newTestTracker(t)

	tracker.RecordError("doc-1", models.OperationUpload, 0, nil)

	_, ok := tracker.GetError("doc-1")
	assert.False(t, ok)
}

// ── Retry accounting ────────────────────────────────────────────────────────

func TestIncrementRetryCountAndMaxRetries(t *testing.T) {
	tracker, _ := newTestTracker(t)

	tracker.RecordError("doc-1", models.OperationUpdate, 0, errors.New("network timeout"))
	assert.False(t, tracker.HasExceededMaxRetries("doc-1", 3))

	tracker.IncrementRetryCount("doc-1")
	tracker.IncrementRetryCount("doc-1")
	tracker.IncrementRetryCount("doc-1")

	assert.True(t, tracker.HasExceededMaxRetries("doc-1", 3))
	assert.False(t, tracker.HasExceededMaxRetries("doc-untracked", 3))
}

func TestIncrementRetryCount_UntrackedIsNoop(t *testing.T) {
	tracker, _ := newTestTracker(t)

	tracker.IncrementRetryCount("doc-ghost")

	_, ok := tracker.GetError("doc-ghost")
	assert.False(t, ok)
}

// ── Backoff eligibility ─────────────────────────────────────────────────────

func TestCanAttemptRecovery(t *testing.T) {
	tracker, now := newTestTracker(t)

	tracker.RecordError("doc-1", models.OperationUpdate, 2, errors.New("network timeout"))
	// retryCount=2 with base 2s: backoff is 8s.
	assert.False(t, tracker.CanAttemptRecovery("doc-1"), "still inside the backoff window")

	*now = now.Add(8 * time.Second)
	assert.True(t, tracker.CanAttemptRecovery("doc-1"), "backoff elapsed")
}

func TestCanAttemptRecovery_NonRecoverable(t *testing.T) {
	tracker, now := newTestTracker(t)

	tracker.RecordError("doc-1", models.OperationUpdate, 0, errors.New("access denied"))
	*now = now.Add(time.Hour)

	assert.False(t, tracker.CanAttemptRecovery("doc-1"))
	assert.False(t, tracker.CanAttemptRecovery("doc-untracked"))
}

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		name       string
		retryCount int
		want       time.Duration
	}{
		{name: "first retry", retryCount: 0, want: 2 * time.Second},
		{name: "second retry", retryCount: 1, want: 4 * time.Second},
		{name: "third retry", retryCount: 2, want: 8 * time.Second},
		{name: "capped", retryCount: 20, want: 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BackoffDelay(2*time.Second, 5*time.Minute, tt.retryCount))
		})
	}
}

// ── Stats and recovery plan ─────────────────────────────────────────────────

func TestGetErrorStats(t *testing.T) {
	tracker, _ := newTestTracker(t)

	tracker.RecordError("doc-1", models.OperationUpdate, 0, errors.New("network timeout"))
	tracker.RecordError("doc-2", models.OperationUpload, 1, errors.New("service unavailable"))
	tracker.RecordError("doc-3", models.OperationDelete, 0, errors.New("access denied"))

	stats := tracker.GetErrorStats()
	assert.Equal(t, models.ErrorStats{Total: 3, Recoverable: 2, Unrecoverable: 1}, stats)
}

func TestCreateRecoveryPlan(t *testing.T) {
	tracker, _ := newTestTracker(t)

	tracker.RecordError("doc-fresh", models.OperationUpdate, 0, errors.New("network timeout"))
	tracker.RecordError("doc-retried", models.OperationUpdate, 2, errors.New("service unavailable"))
	tracker.RecordError("doc-conflict", models.OperationUpdate, 0, errors.New("version conflict: remote version 7"))
	tracker.RecordError("doc-denied", models.OperationDelete, 0, errors.New("access denied"))

	plan := tracker.CreateRecoveryPlan()

	require.Len(t, plan.Immediate, 1)
	assert.Equal(t, "doc-fresh", plan.Immediate[0].DocumentID)
	require.Len(t, plan.Delayed, 1)
	assert.Equal(t, "doc-retried", plan.Delayed[0].DocumentID)
	require.Len(t, plan.Manual, 1)
	assert.Equal(t, "doc-conflict", plan.Manual[0].DocumentID)
	require.Len(t, plan.Unrecoverable, 1)
	assert.Equal(t, "doc-denied", plan.Unrecoverable[0].DocumentID)
}

// ── Suggested actions ───────────────────────────────────────────────────────

func TestSuggestedRecoveryAction(t *testing.T) {
	tests := []struct {
		name   string
		docErr models.DocumentError
		want   models.RecoveryAction
	}{
		{
			name:   "conflict goes manual",
			docErr: models.DocumentError{Message: "version conflict: remote version 7", IsRecoverable: false},
			want:   models.RecoveryResolveManually,
		},
		{
			name:   "unrecoverable goes to support",
			docErr: models.DocumentError{Message: "access denied", IsRecoverable: false},
			want:   models.RecoveryContactSupport,
		},
		{
			name:   "fresh recoverable retries now",
			docErr: models.DocumentError{Message: "network timeout", IsRecoverable: true, RetryCount: 0},
			want:   models.RecoveryRetryNow,
		},
		{
			name:   "retried recoverable waits",
			docErr: models.DocumentError{Message: "network timeout", IsRecoverable: true, RetryCount: 2},
			want:   models.RecoveryWaitAndRetry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestedRecoveryAction(tt.docErr))
		})
	}
}
