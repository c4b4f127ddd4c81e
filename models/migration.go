package models

// MigrationStatus is the lifecycle state of the one-time local-to-remote
// document migration.
type MigrationStatus string

const (
	MigrationNotStarted MigrationStatus = "notStarted"
	MigrationInProgress MigrationStatus = "inProgress"
	MigrationCompleted  MigrationStatus = "completed"
	MigrationFailed     MigrationStatus = "failed"
	MigrationCancelled  MigrationStatus = "cancelled"
)

// IsTerminal reports whether the status is an end state.
func (s MigrationStatus) IsTerminal() bool {
	switch s {
	case MigrationCompleted, MigrationFailed, MigrationCancelled:
		return true
	}
	return false
}

// MigrationFailure records one document that could not be migrated.
type MigrationFailure struct {
	DocumentID    string `json:"documentId"`
	DocumentTitle string `json:"documentTitle"`
	Error         string `json:"error"`
	RetryCount    int    `json:"retryCount"`
}

// MigrationProgress tracks the one-time migration of pre-existing local
// documents to the remote store.
//
// Invariant: MigratedDocuments + FailedDocuments never exceeds
// TotalDocuments, and at a completed or failed terminal status every
// document is accounted for exactly once (equality holds).
type MigrationProgress struct {
	TotalDocuments    int                `json:"totalDocuments"`
	MigratedDocuments int                `json:"migratedDocuments"`
	FailedDocuments   int                `json:"failedDocuments"`
	Status            MigrationStatus    `json:"status"`
	Failures          []MigrationFailure `json:"failures,omitempty"`
}

// ProgressPercentage returns the accounted share of documents in [0,1].
// A migration over zero documents reports 0.0.
func (p MigrationProgress) ProgressPercentage() float64 {
	if p.TotalDocuments == 0 {
		return 0.0
	}
	return float64(p.MigratedDocuments+p.FailedDocuments) / float64(p.TotalDocuments)
}
