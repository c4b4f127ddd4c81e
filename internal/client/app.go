// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docvault/docvault/internal/adapter"
	"github.com/docvault/docvault/internal/config"
	"github.com/docvault/docvault/internal/logger"
	"github.com/docvault/docvault/internal/service"
	"github.com/docvault/docvault/internal/store"
	"github.com/docvault/docvault/internal/workers"
)

// authTokenEnv names the environment variable the session token is read
// from at startup. The host's login flow replaces it at runtime through
// [TokenAuthProvider.SetToken].
const authTokenEnv = "DOCVAULT_AUTH_TOKEN"

// App is the runnable client: storage, gateway, sync services and the
// background workers bound into one process lifecycle.
type App struct {
	cfg      *config.ClientConfig
	logger   *logger.Logger
	services *service.Services

	auth         *TokenAuthProvider
	connectivity *PollingConnectivityMonitor
	entitlement  *SubscriptionGate
}

func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	gateway, err := adapter.NewHTTPSyncGateway(cfg.Adapter, cfg.App, log)
	if err != nil {
		return nil, fmt.Errorf("create sync gateway: %w", err)
	}

	auth := NewTokenAuthProvider()
	if token := os.Getenv(authTokenEnv); token != "" {
		if err = auth.SetToken(token); err != nil {
			return nil, fmt.Errorf("restore session token: %w", err)
		}
	}

	connectivity := NewPollingConnectivityMonitor(
		cfg.Adapter.HTTPAddress,
		cfg.Adapter.RequestTimeout,
		defaultProbeInterval,
		log,
	)
	entitlement := NewSubscriptionGate(true)

	services := service.NewServices(storages, gateway, service.Collaborators{
		Auth:         auth,
		Connectivity: connectivity,
		Entitlement:  entitlement,
		Documents:    storages.Documents,
	}, cfg, log)

	return &App{
		cfg:          cfg,
		logger:       log,
		services:     services,
		auth:         auth,
		connectivity: connectivity,
		entitlement:  entitlement,
	}, nil
}

// Run implements [Client]. It starts the connectivity probe and the sync
// workers, then blocks until the process receives SIGINT or SIGTERM and
// shuts the background work down in order.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.connectivity.Start(ctx)

	workers.NewWorkers(
		workers.NewCoordinatorWorker(ctx, a.services.Coordinator),
		workers.NewPeriodicSyncWorker(ctx, a.services.SyncJob, a.cfg.Workers.SyncInterval),
	).Run()

	a.logger.Info().Str("func", "App.Run").Msg("client started")
	<-ctx.Done()
	a.logger.Info().Str("func", "App.Run").Msg("shutting down")

	a.services.SyncJob.Stop()
	a.services.Coordinator.Stop()
	a.connectivity.Stop()

	return nil
}
