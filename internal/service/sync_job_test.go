package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCoordinator records SyncNow calls; the embedded interface covers the
// methods the job never touches.
type stubCoordinator struct {
	SyncCoordinator

	mu    sync.Mutex
	calls int
}

func (s *stubCoordinator) SyncNow(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return nil
}

func (s *stubCoordinator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestSyncJob_TriggersOnInterval(t *testing.T) {
	coordinator := &stubCoordinator{}
	job := NewSyncJob(coordinator)
	defer job.Stop()

	job.Start(context.Background(), 10*time.Millisecond)

	require.Eventually(t, func() bool { return coordinator.callCount() >= 3 },
		time.Second, 5*time.Millisecond)
}

func TestSyncJob_StopHaltsTicker(t *testing.T) {
	coordinator := &stubCoordinator{}
	job := NewSyncJob(coordinator)

	job.Start(context.Background(), 10*time.Millisecond)
	require.Eventually(t, func() bool { return coordinator.callCount() >= 1 },
		time.Second, 5*time.Millisecond)

	job.Stop()
	settled := coordinator.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, coordinator.callCount())
}

func TestSyncJob_StopWithoutStartIsNoop(t *testing.T) {
	job := NewSyncJob(&stubCoordinator{})
	job.Stop()
	job.Stop()
}

func TestSyncJob_RestartReplacesPreviousRun(t *testing.T) {
	coordinator := &stubCoordinator{}
	job := NewSyncJob(coordinator)
	defer job.Stop()

	job.Start(context.Background(), time.Hour)
	job.Start(context.Background(), 10*time.Millisecond)

	require.Eventually(t, func() bool { return coordinator.callCount() >= 2 },
		time.Second, 5*time.Millisecond)
}

func TestSyncJob_ContextCancellationStopsRun(t *testing.T) {
	coordinator := &stubCoordinator{}
	job := NewSyncJob(coordinator)
	defer job.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx, 10*time.Millisecond)

	require.Eventually(t, func() bool { return coordinator.callCount() >= 1 },
		time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := coordinator.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, coordinator.callCount())
}
