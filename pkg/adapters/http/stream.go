package http

import (
	"log/slog"
	"sync"
)

// StreamManager fans simulation results out to the SSE subscribers of each sandbox.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // sandboxID -> channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a buffered channel for the sandbox. The returned func removes and
// closes it.
func (sm *StreamManager) Subscribe(sandboxID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sandboxID]; !ok {
		sm.subscribers[sandboxID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sandboxID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sandboxID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sandboxID)
			}
		}
	}
}

// Subscribers returns the number of open streams for the sandbox.
func (sm *StreamManager) Subscribers(sandboxID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sandboxID])
}

// Broadcast delivers msg to every subscriber of the sandbox without blocking.
func (sm *StreamManager) Broadcast(sandboxID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	slog.Debug("StreamManager: Broadcasting", "sandbox_id", sandboxID, "payload_size", len(msg))

	for ch := range sm.subscribers[sandboxID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			slog.Warn("SSE: Client buffer full, dropping message", "sandbox_id", sandboxID)
		}
	}
}
