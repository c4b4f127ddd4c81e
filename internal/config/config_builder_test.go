package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that building with no configs returns a
// zero-value StructuredConfig.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_MergesMultipleConfigs verifies that fields from multiple configs
// are merged into a single result.
func TestBuild_MergesMultipleConfigs(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{Version: "1.0.0"}},
		&StructuredConfig{App: App{HashKey: "content-key"}},
		&StructuredConfig{Sync: Sync{MaxRetries: 5}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, "content-key", cfg.App.HashKey)
	assert.Equal(t, 5, cfg.Sync.MaxRetries)
}

// TestBuild_FirstSourceWins verifies mergo semantics: an earlier non-zero
// field is not overwritten by a later source.
func TestBuild_FirstSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Adapter: Adapter{HTTPAddress: "https://first.example"}},
		&StructuredConfig{Adapter: Adapter{HTTPAddress: "https://second.example", RequestTimeout: 30 * time.Second}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "https://first.example", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
}

// ── ClientSync defaults ───────────────────────────────────────────────────────

func TestClientSync_ApplyDefaults(t *testing.T) {
	s := &ClientSync{}
	s.applyDefaults()

	assert.Equal(t, DefaultMaxRetries, s.MaxRetries)
	assert.Equal(t, DefaultBackoffBase, s.BackoffBase)
	assert.Equal(t, DefaultBackoffMax, s.BackoffMax)
	assert.Equal(t, DefaultBreakerThreshold, s.BreakerThreshold)
	assert.Equal(t, DefaultDispatchWorkers, s.DispatchWorkers)
	assert.Equal(t, DefaultDebounceDelay, s.DebounceDelay)
}

func TestClientSync_ApplyDefaults_KeepsExplicitValues(t *testing.T) {
	s := &ClientSync{MaxRetries: 7, BackoffBase: time.Second, DispatchWorkers: 1}
	s.applyDefaults()

	assert.Equal(t, 7, s.MaxRetries)
	assert.Equal(t, time.Second, s.BackoffBase)
	assert.Equal(t, 1, s.DispatchWorkers)
	assert.Equal(t, DefaultBreakerThreshold, s.BreakerThreshold)
}

// ── ClientConfig validation ───────────────────────────────────────────────────

func TestClientConfig_Validate(t *testing.T) {
	valid := func() *ClientConfig {
		return &ClientConfig{
			App:     ClientApp{HashKey: "key"},
			Adapter: ClientAdapter{HTTPAddress: "https://sync.example", RequestTimeout: 15 * time.Second},
			Storage: ClientStorage{DB: ClientDB{DSN: "/tmp/queue.db"}},
			Workers: ClientWorkers{SyncInterval: time.Minute},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr error
	}{
		{"Valid", func(c *ClientConfig) {}, nil},
		{"EmptyDSN", func(c *ClientConfig) { c.Storage.DB.DSN = "" }, ErrInvalidStorageConfigs},
		{"InMemoryDSN", func(c *ClientConfig) { c.Storage.DB.DSN = ":memory:" }, ErrInvalidStorageConfigs},
		{"NoAdapterAddress", func(c *ClientConfig) { c.Adapter.HTTPAddress = "" }, ErrInvalidAdapterConfigs},
		{"NoRequestTimeout", func(c *ClientConfig) { c.Adapter.RequestTimeout = 0 }, ErrInvalidAdapterConfigs},
		{"NoSyncInterval", func(c *ClientConfig) { c.Workers.SyncInterval = 0 }, ErrInvalidWorkerConfigs},
		{"NoHashKey", func(c *ClientConfig) { c.App.HashKey = "" }, ErrInvalidAppConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
