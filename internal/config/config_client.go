// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"time"
)

// Defaults applied by GetClientConfig when the merged configuration leaves a
// sync tuning knob unset.
const (
	DefaultMaxRetries       = 3
	DefaultBackoffBase      = 2 * time.Second
	DefaultBackoffMax       = 5 * time.Minute
	DefaultBreakerThreshold = 5
	DefaultDispatchWorkers  = 4
	DefaultDebounceDelay    = 2 * time.Second
)

// ClientApp contains application-level client settings.
type ClientApp struct {
	// HashKey is the HMAC key used for content hashing.
	HashKey string
}

// ClientAdapter contains client transport addresses and timeouts.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the remote document store API.
	HTTPAddress string
	// RequestTimeout bounds a single gateway call.
	RequestTimeout time.Duration
}

// ClientDB contains the local queue database settings.
type ClientDB struct {
	// DSN is the SQLite file path backing the durable operation queue.
	DSN string
}

// ClientStorage contains client storage settings.
type ClientStorage struct {
	// DB holds the queue database settings.
	DB ClientDB
}

// ClientSync contains the executor/coordinator tuning knobs with defaults
// already applied.
type ClientSync struct {
	MaxRetries       int
	BackoffBase      time.Duration
	BackoffMax       time.Duration
	BreakerThreshold int
	DispatchWorkers  int
	DebounceDelay    time.Duration
}

// ClientWorkers contains background job settings.
type ClientWorkers struct {
	// SyncInterval is the period of the background full-sync job.
	SyncInterval time.Duration
}

// ClientConfig is the client-runtime view over the merged structured
// configuration, consumed by the sync services.
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains client transport addresses and timeouts.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Sync contains executor/coordinator tuning.
	Sync ClientSync
	// Workers contains background job settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, fills unset sync knobs with defaults, and
// validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			HashKey: cfg.App.HashKey,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Sync: ClientSync{
			MaxRetries:       cfg.Sync.MaxRetries,
			BackoffBase:      cfg.Sync.BackoffBase,
			BackoffMax:       cfg.Sync.BackoffMax,
			BreakerThreshold: cfg.Sync.BreakerThreshold,
			DispatchWorkers:  cfg.Sync.DispatchWorkers,
			DebounceDelay:    cfg.Sync.DebounceDelay,
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
	}
	clientCfg.Sync.applyDefaults()

	return clientCfg, clientCfg.validate()
}

// applyDefaults replaces unset sync knobs with the package defaults.
func (s *ClientSync) applyDefaults() {
	if s.MaxRetries <= 0 {
		s.MaxRetries = DefaultMaxRetries
	}
	if s.BackoffBase <= 0 {
		s.BackoffBase = DefaultBackoffBase
	}
	if s.BackoffMax <= 0 {
		s.BackoffMax = DefaultBackoffMax
	}
	if s.BreakerThreshold <= 0 {
		s.BreakerThreshold = DefaultBreakerThreshold
	}
	if s.DispatchWorkers <= 0 {
		s.DispatchWorkers = DefaultDispatchWorkers
	}
	if s.DebounceDelay <= 0 {
		s.DebounceDelay = DefaultDebounceDelay
	}
}
