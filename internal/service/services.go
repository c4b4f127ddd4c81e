package service

import (
	"github.com/docvault/docvault/internal/adapter"
	"github.com/docvault/docvault/internal/config"
	"github.com/docvault/docvault/internal/logger"
	"github.com/docvault/docvault/internal/store"
)

// Collaborators bundles the externally supplied predicates and stores the
// sync core depends on.
type Collaborators struct {
	Auth         AuthProvider
	Connectivity ConnectivityMonitor
	Entitlement  EntitlementGate
	Documents    DocumentStore
}

// Services groups the sync core's service layer.
type Services struct {
	Queue        QueueManager
	Consolidator ConsolidationService
	Executor     SyncExecutor
	Tracker      ErrorTracker
	Migration    MigrationService
	Coordinator  SyncCoordinator
	SyncJob      SyncJob
}

// NewServices wires the full service layer: a shared error tracker and event
// bus connect the executor and the coordinator, and the periodic sync job
// drives the coordinator. Each service logs through its own child logger so
// entries carry the originating component.
func NewServices(
	storages *store.ClientStorages,
	gateway adapter.SyncGateway,
	collab Collaborators,
	cfg *config.ClientConfig,
	log *logger.Logger,
) *Services {
	tracker := NewErrorTracker(cfg.Sync.BackoffBase, cfg.Sync.BackoffMax)
	events := newEventBus()

	queue := NewQueueManager(storages.Queue, log.GetChildLogger("queue"))
	executor := NewSyncExecutor(
		storages.Queue,
		gateway,
		collab.Documents,
		collab.Auth,
		collab.Connectivity,
		collab.Entitlement,
		tracker,
		events,
		cfg.Sync,
		log.GetChildLogger("executor"),
	)
	coordinator := NewSyncCoordinator(queue, executor, collab.Connectivity, events, cfg.Sync.DebounceDelay, log.GetChildLogger("coordinator"))

	return &Services{
		Queue:        queue,
		Consolidator: NewConsolidationService(),
		Executor:     executor,
		Tracker:      tracker,
		Migration:    NewMigrationService(gateway, collab.Documents, log.GetChildLogger("migration")),
		Coordinator:  coordinator,
		SyncJob:      NewSyncJob(coordinator),
	}
}
