// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docvault/docvault/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestPollingConnectivityMonitor_DetectsTransitions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewPollingConnectivityMonitor(srv.URL, time.Second, 10*time.Millisecond, logger.Nop())
	defer m.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	// Reachable server keeps the monitor online.
	assert.True(t, m.IsOnline())

	// Killing the server flips the state and publishes the transition.
	srv.Close()
	select {
	case online := <-m.Changes():
		assert.False(t, online)
	case <-time.After(2 * time.Second):
		t.Fatal("offline transition was never published")
	}
	assert.False(t, m.IsOnline())
}

func TestPollingConnectivityMonitor_NoDuplicateTransitions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewPollingConnectivityMonitor(srv.URL, time.Second, 5*time.Millisecond, logger.Nop())
	defer m.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	// Steady online state publishes nothing.
	time.Sleep(50 * time.Millisecond)
	select {
	case online := <-m.Changes():
		t.Fatalf("unexpected transition published: %v", online)
	default:
	}
}

func TestPollingConnectivityMonitor_StopIsIdempotent(t *testing.T) {
	m := NewPollingConnectivityMonitor("http://localhost:0", time.Second, 10*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	m.Stop()
	m.Stop()
}
