// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/docvault/docvault/internal/logger"
	"github.com/go-resty/resty/v2"
)

const defaultProbeInterval = 15 * time.Second

// PollingConnectivityMonitor implements service.ConnectivityMonitor by
// probing the remote store's base URL on an interval. Transitions between
// online and offline are published to the Changes channel; the channel is
// buffered and a stalled reader only loses intermediate transitions, never
// the latest state (IsOnline is always current).
type PollingConnectivityMonitor struct {
	client   *resty.Client
	interval time.Duration
	logger   *logger.Logger

	online  atomic.Bool
	changes chan bool

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewPollingConnectivityMonitor(baseURL string, timeout, interval time.Duration, log *logger.Logger) *PollingConnectivityMonitor {
	if interval <= 0 {
		interval = defaultProbeInterval
	}

	m := &PollingConnectivityMonitor{
		client:   resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		interval: interval,
		logger:   log,
		changes:  make(chan bool, 8),
		stopCh:   make(chan struct{}),
	}
	// Optimistic until the first probe settles; the sync executor verifies
	// reachability with its own gateway calls anyway.
	m.online.Store(true)
	return m
}

func (m *PollingConnectivityMonitor) IsOnline() bool {
	return m.online.Load()
}

func (m *PollingConnectivityMonitor) Changes() <-chan bool {
	return m.changes
}

// Start launches the probe loop. It returns immediately; Stop ends the loop.
func (m *PollingConnectivityMonitor) Start(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		t := time.NewTicker(m.interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stopCh:
				return
			case <-t.C:
				m.probe(ctx)
			}
		}
	}()
}

func (m *PollingConnectivityMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
	m.wg.Wait()
}

func (m *PollingConnectivityMonitor) probe(ctx context.Context) {
	_, err := m.client.R().SetContext(ctx).Head("/")
	online := err == nil

	if m.online.Swap(online) == online {
		return
	}

	m.logger.Info().
		Str("func", "PollingConnectivityMonitor.probe").
		Bool("online", online).
		Msg("connectivity changed")

	select {
	case m.changes <- online:
	default:
	}
}
