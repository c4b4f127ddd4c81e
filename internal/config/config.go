// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the docvault
// sync core. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the content hash key
	// and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the durable operation queue store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds transport settings for the remote sync gateway.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds retry, backoff and drain-cycle tuning for the executor
	// and coordinator.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// HashKey is the HMAC key used for content hashing and request
	// integrity checking.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for local persistence.
type Storage struct {
	// DB holds the SQLite queue store settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local queue database.
type DB struct {
	// DSN is the SQLite file path backing the durable operation queue
	// (e.g. "~/.docvault/queue.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds transport settings for the remote sync gateway.
type Adapter struct {
	// HTTPAddress is the base URL of the remote document store API
	// (e.g. "https://sync.docvault.example").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single gateway
	// call before it is cancelled (e.g. "30s", "1m").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds the retry and drain-cycle tuning knobs for the sync executor
// and coordinator. Zero values are replaced with defaults by
// [GetClientConfig].
type Sync struct {
	// MaxRetries is the retry budget per operation before the failure
	// becomes terminal.
	// Env: SYNC_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// BackoffBase is the base delay of the exponential retry backoff.
	// Env: SYNC_BACKOFF_BASE
	BackoffBase time.Duration `env:"BACKOFF_BASE"`

	// BackoffMax caps the exponential retry backoff.
	// Env: SYNC_BACKOFF_MAX
	BackoffMax time.Duration `env:"BACKOFF_MAX"`

	// BreakerThreshold is the number of consecutive retryable failures
	// after which the drain cycle stops dispatching (degraded channel).
	// Env: SYNC_BREAKER_THRESHOLD
	BreakerThreshold int `env:"BREAKER_THRESHOLD"`

	// DispatchWorkers is the number of parallel in-flight gateway calls
	// during a drain cycle.
	// Env: SYNC_DISPATCH_WORKERS
	DispatchWorkers int `env:"DISPATCH_WORKERS"`

	// DebounceDelay is the trailing-edge debounce window applied to
	// document-change sync triggers.
	// Env: SYNC_DEBOUNCE_DELAY
	DebounceDelay time.Duration `env:"DEBOUNCE_DELAY"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval is the period of the background full-sync job.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
