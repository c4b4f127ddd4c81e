// SPDX-License-Identifier: Apache-2.0

package service

import (
	"sync"
	"time"

	"github.com/docvault/docvault/models"
)

// eventBusBuffer is the per-subscriber channel depth. A subscriber that
// falls further behind than this drops events rather than blocking the
// drain loop.
const eventBusBuffer = 16

// eventBus fans sync lifecycle events out to subscribers. Publication is
// fire-and-forget and never blocks; there is no replay for late subscribers.
type eventBus struct {
	mu          sync.RWMutex
	subscribers map[<-chan models.SyncEvent]chan models.SyncEvent
	closed      bool
}

func newEventBus() *eventBus {
	return &eventBus{
		subscribers: make(map[<-chan models.SyncEvent]chan models.SyncEvent),
	}
}

func (b *eventBus) Subscribe() <-chan models.SyncEvent {
	ch := make(chan models.SyncEvent, eventBusBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers[ch] = ch
	return ch
}

func (b *eventBus) Unsubscribe(ch <-chan models.SyncEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sender, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(sender)
	}
}

func (b *eventBus) Publish(eventType models.SyncEventType, documentID, message string) {
	event := models.SyncEvent{
		Type:       eventType,
		DocumentID: documentID,
		Message:    message,
		At:         time.Now(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, sender := range b.subscribers {
		select {
		case sender <- event:
		default:
		}
	}
}

func (b *eventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	for key, sender := range b.subscribers {
		delete(b.subscribers, key)
		close(sender)
	}
}
