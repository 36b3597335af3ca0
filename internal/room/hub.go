package room

import "sync"

// subscriber is one connected push channel, identified by pointer identity
// so a late-arriving teardown of a stale connection can never evict a
// reconnected one.
type subscriber struct {
	ch chan Snapshot
}

// Chan exposes the subscriber's receive side to callers outside the
// package (the api package's SSE handler selects on this).
func (s *subscriber) Chan() <-chan Snapshot { return s.ch }

// Hub is the per-room set of connected clients: code -> pid -> subscriber.
// It never blocks a publisher on a slow reader — sends are best-effort via
// a buffered channel.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[string]*subscriber
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[string]*subscriber)}
}

// Register opens a subscriber for (code, pid), replacing any prior one
// under the same key.
func (h *Hub) Register(code, pid string) *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[code] == nil {
		h.rooms[code] = make(map[string]*subscriber)
	}
	sub := &subscriber{ch: make(chan Snapshot, 8)}
	h.rooms[code][pid] = sub
	return sub
}

// Unregister removes sub from (code, pid) only if it is still the
// identity-equal subscriber stored there — the reconnect rule.
func (h *Hub) Unregister(code, pid string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	byPid, ok := h.rooms[code]
	if !ok {
		return
	}
	if byPid[pid] != sub {
		return
	}
	delete(byPid, pid)
	if len(byPid) == 0 {
		delete(h.rooms, code)
	}
}

// Send delivers snap to (code, pid)'s current subscriber, if any. A full
// buffer drops the send — the next mutation's snapshot supersedes it, and
// a fresh connect always gets a full snapshot regardless.
func (h *Hub) Send(code, pid string, snap Snapshot) {
	h.mu.Lock()
	sub, ok := h.rooms[code][pid]
	h.mu.Unlock()
	if !ok {
		return
	}
	select {
	case sub.ch <- snap:
	default:
	}
}
