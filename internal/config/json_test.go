package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	// Durations in JSON are strings understood by time.ParseDuration.
	jsonBody := `{
		"app": {
			"hash_key": "content_hash_key",
			"version": "1.2.3"
		},
		"adapter": {
			"http_address": "https://sync.docvault.example",
			"request_timeout": "30s"
		},
		"storage": {
			"db": { "dsn": "/var/lib/docvault/queue.db" }
		},
		"sync": {
			"max_retries": 5,
			"backoff_base": "1s",
			"backoff_max": "2m",
			"breaker_threshold": 8,
			"dispatch_workers": 2,
			"debounce_delay": "500ms"
		},
		"workers": {
			"sync_interval": "5m"
		}
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "content_hash_key", cfg.App.HashKey)
	assert.Equal(t, "1.2.3", cfg.App.Version)

	assert.Equal(t, "https://sync.docvault.example", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)

	assert.Equal(t, "/var/lib/docvault/queue.db", cfg.Storage.DB.DSN)

	assert.Equal(t, 5, cfg.Sync.MaxRetries)
	assert.Equal(t, time.Second, cfg.Sync.BackoffBase)
	assert.Equal(t, 2*time.Minute, cfg.Sync.BackoffMax)
	assert.Equal(t, 8, cfg.Sync.BreakerThreshold)
	assert.Equal(t, 2, cfg.Sync.DispatchWorkers)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.DebounceDelay)

	assert.Equal(t, 5*time.Minute, cfg.Workers.SyncInterval)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	cfg, err := parseJSON("definitely-does-not-exist.json")

	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestParseJSON_MalformedBody(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"sync": `), 0o600))

	cfg, err := parseJSON(p)
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"String", `"90s"`, 90 * time.Second, false},
		{"Number", `1000000000`, time.Second, false},
		{"Garbage", `"ninety seconds"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}
