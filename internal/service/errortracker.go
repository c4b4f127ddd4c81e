// SPDX-License-Identifier: Apache-2.0

package service

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/docvault/docvault/models"
)

// messageClass is one row of the classification table: any error message
// containing the substring is assigned the row's recoverability.
type messageClass struct {
	substring   string
	recoverable bool
}

// classificationTable drives isRecoverable derivation. Rows are checked in
// order; transient transport conditions come first so that a message like
// "service unavailable" is not shadowed by a broader non-recoverable match.
// Unmatched messages classify as non-recoverable: an unknown failure should
// not be retried blindly.
var classificationTable = []messageClass{
	{substring: "timeout", recoverable: true},
	{substring: "timed out", recoverable: true},
	{substring: "network", recoverable: true},
	{substring: "connection", recoverable: true},
	{substring: "throttl", recoverable: true},
	{substring: "rate limit", recoverable: true},
	{substring: "too many requests", recoverable: true},
	{substring: "service unavailable", recoverable: true},
	{substring: "internal server error", recoverable: true},
	{substring: "bad gateway", recoverable: true},

	{substring: "version conflict", recoverable: false},
	{substring: "not found", recoverable: false},
	{substring: "deleted", recoverable: false},
	{substring: "access denied", recoverable: false},
	{substring: "forbidden", recoverable: false},
	{substring: "unauthorized", recoverable: false},
	{substring: "permission denied", recoverable: false},
	{substring: "invalid", recoverable: false},
	{substring: "malformed", recoverable: false},
	{substring: "unsupported", recoverable: false},
}

// ClassifyErrorMessage derives recoverability from the failure message using
// the package classification table.
func ClassifyErrorMessage(message string) bool {
	lower := strings.ToLower(message)
	for _, class := range classificationTable {
		if strings.Contains(lower, class.substring) {
			return class.recoverable
		}
	}
	return false
}

// SuggestedRecoveryAction maps a document error to the user-facing next step.
func SuggestedRecoveryAction(docErr models.DocumentError) models.RecoveryAction {
	switch {
	case isConflictMessage(docErr.Message):
		return models.RecoveryResolveManually
	case !docErr.IsRecoverable:
		return models.RecoveryContactSupport
	case docErr.RetryCount == 0:
		return models.RecoveryRetryNow
	default:
		return models.RecoveryWaitAndRetry
	}
}

func isConflictMessage(message string) bool {
	return strings.Contains(strings.ToLower(message), "version conflict")
}

type errorTracker struct {
	backoffBase time.Duration
	backoffMax  time.Duration
	now         func() time.Time

	mu     sync.RWMutex
	errors map[string]models.DocumentError
}

// NewErrorTracker constructs the per-document error tracker. backoffBase and
// backoffMax bound the exponential recovery delay (base × 2^retryCount,
// capped at max).
func NewErrorTracker(backoffBase, backoffMax time.Duration) ErrorTracker {
	return &errorTracker{
		backoffBase: backoffBase,
		backoffMax:  backoffMax,
		now:         time.Now,
		errors:      make(map[string]models.DocumentError),
	}
}

// RecordError implements [ErrorTracker]. The stored message is the
// user-facing wording derived by humanErrorMessage, never the raw technical
// error; callers log the raw error themselves. Repeated failures for the
// same document keep the original FirstOccurredAt.
func (t *errorTracker) RecordError(documentID string, op models.OperationType, retryCount int, err error) {
	if err == nil {
		return
	}
	message := humanErrorMessage(err)
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	firstOccurred := now
	if prev, ok := t.errors[documentID]; ok {
		firstOccurred = prev.FirstOccurredAt
	}

	t.errors[documentID] = models.DocumentError{
		DocumentID:      documentID,
		Message:         message,
		RetryCount:      retryCount,
		LastOperation:   op,
		IsRecoverable:   ClassifyErrorMessage(message),
		FirstOccurredAt: firstOccurred,
		LastAttemptAt:   now,
	}
}

func (t *errorTracker) ClearError(documentID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.errors, documentID)
}

func (t *errorTracker) IncrementRetryCount(documentID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	docErr, ok := t.errors[documentID]
	if !ok {
		return
	}
	docErr.RetryCount++
	docErr.LastAttemptAt = t.now()
	t.errors[documentID] = docErr
}

func (t *errorTracker) HasExceededMaxRetries(documentID string, maxRetries int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	docErr, ok := t.errors[documentID]
	return ok && docErr.RetryCount >= maxRetries
}

func (t *errorTracker) GetError(documentID string) (models.DocumentError, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	docErr, ok := t.errors[documentID]
	return docErr, ok
}

func (t *errorTracker) GetAllErrors() []models.DocumentError {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.DocumentError, 0, len(t.errors))
	for _, docErr := range t.errors {
		out = append(out, docErr)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DocumentID < out[j].DocumentID
	})
	return out
}

// CanAttemptRecovery implements [ErrorTracker]: the document must carry a
// recoverable error whose backoff window (base × 2^retryCount, capped) has
// elapsed since the last attempt.
func (t *errorTracker) CanAttemptRecovery(documentID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	docErr, ok := t.errors[documentID]
	if !ok || !docErr.IsRecoverable {
		return false
	}

	return t.now().Sub(docErr.LastAttemptAt) >= BackoffDelay(t.backoffBase, t.backoffMax, docErr.RetryCount)
}

func (t *errorTracker) GetErrorStats() models.ErrorStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := models.ErrorStats{Total: len(t.errors)}
	for _, docErr := range t.errors {
		if docErr.IsRecoverable {
			stats.Recoverable++
		} else {
			stats.Unrecoverable++
		}
	}
	return stats
}

// CreateRecoveryPlan implements [ErrorTracker]. Version conflicts always
// land in the manual bucket regardless of their recoverability class.
func (t *errorTracker) CreateRecoveryPlan() models.RecoveryPlan {
	var plan models.RecoveryPlan
	for _, docErr := range t.GetAllErrors() {
		switch {
		case isConflictMessage(docErr.Message):
			plan.Manual = append(plan.Manual, docErr)
		case !docErr.IsRecoverable:
			plan.Unrecoverable = append(plan.Unrecoverable, docErr)
		case docErr.RetryCount == 0:
			plan.Immediate = append(plan.Immediate, docErr)
		default:
			plan.Delayed = append(plan.Delayed, docErr)
		}
	}
	return plan
}

// BackoffDelay computes the capped exponential delay before retry attempt
// retryCount+1: base × 2^retryCount, never exceeding max.
func BackoffDelay(base, max time.Duration, retryCount int) time.Duration {
	if base <= 0 {
		return 0
	}
	delay := base
	for i := 0; i < retryCount; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if max > 0 && delay > max {
		return max
	}
	return delay
}
