package models

import "time"

// RecoveryAction is the user-facing suggestion attached to a document error.
type RecoveryAction string

const (
	RecoveryRetryNow        RecoveryAction = "retry now"
	RecoveryWaitAndRetry    RecoveryAction = "wait and retry"
	RecoveryResolveManually RecoveryAction = "resolve conflict manually"
	RecoveryContactSupport  RecoveryAction = "contact support"
)

// DocumentError is the per-document failure record kept by the error tracker.
// It is created when an operation fails non-retryably or exhausts its retry
// budget, and cleared on the next successful sync or explicit dismissal.
type DocumentError struct {
	// DocumentID is the sync identifier of the affected document.
	DocumentID string `json:"documentId"`

	// Message is the human-readable failure description. It never carries
	// the raw technical error.
	Message string `json:"message"`

	// RetryCount is the number of attempts made before the error became
	// terminal.
	RetryCount int `json:"retryCount"`

	// LastOperation is the operation type that produced the failure.
	LastOperation OperationType `json:"lastOperation"`

	// IsRecoverable is derived from message classification; recoverable
	// errors are eligible for automatic recovery once backoff elapses.
	IsRecoverable bool `json:"isRecoverable"`

	// FirstOccurredAt is when the error was first recorded.
	FirstOccurredAt time.Time `json:"firstOccurredAt"`

	// LastAttemptAt is when the most recent attempt was made; backoff
	// eligibility is computed from it.
	LastAttemptAt time.Time `json:"lastAttemptAt"`
}

// ErrorStats summarizes the tracker's current error population.
type ErrorStats struct {
	Total         int `json:"total"`
	Recoverable   int `json:"recoverable"`
	Unrecoverable int `json:"unrecoverable"`
}

// RecoveryPlan partitions all errored documents by what should happen next.
type RecoveryPlan struct {
	// Immediate holds recoverable errors that have not been retried yet.
	Immediate []DocumentError `json:"immediate,omitempty"`

	// Delayed holds recoverable errors still inside their backoff window.
	Delayed []DocumentError `json:"delayed,omitempty"`

	// Manual holds version conflicts awaiting an explicit resolution.
	Manual []DocumentError `json:"manual,omitempty"`

	// Unrecoverable holds everything that automatic recovery cannot fix.
	Unrecoverable []DocumentError `json:"unrecoverable,omitempty"`
}
