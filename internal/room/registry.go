package room

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/marianogappa/yaniv-backend/internal/rng"
	"github.com/marianogappa/yaniv-backend/internal/store"
)

const codeAlphabet = "abcdefghijklmnopqrstuvwxyz"
const codeLength = 5

// defaultStalePlayingAfter/defaultStaleWaitingAfter are the stale-cleanup
// thresholds Recover uses unless SetStaleCleanup overrides them.
const (
	defaultStalePlayingAfter = 7 * 24 * time.Hour
	defaultStaleWaitingAfter = 12 * time.Hour
)

// Registry is the single owner of the room map. Its lock only ever guards
// insert, remove and lookup — never a mutation in progress, so a room under
// contention never blocks another room's registry lookup.
type Registry struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	store   store.Store
	hub     *Hub
	codeRNG rng.Source

	stalePlayingAfter time.Duration
	staleWaitingAfter time.Duration
}

// NewRegistry wires a Registry to its persistence store and subscriber hub.
func NewRegistry(st store.Store) *Registry {
	return &Registry{
		rooms:             make(map[string]*Room),
		store:             st,
		hub:               NewHub(),
		codeRNG:           rng.New(time.Now().UnixNano()),
		stalePlayingAfter: defaultStalePlayingAfter,
		staleWaitingAfter: defaultStaleWaitingAfter,
	}
}

// SetStaleCleanup overrides the stale-room thresholds Recover uses; zero
// values leave the corresponding default in place. Call before Recover.
func (reg *Registry) SetStaleCleanup(playingAfter, waitingAfter time.Duration) {
	if playingAfter > 0 {
		reg.stalePlayingAfter = playingAfter
	}
	if waitingAfter > 0 {
		reg.staleWaitingAfter = waitingAfter
	}
}

// RoomCount returns the number of rooms currently held in memory.
func (reg *Registry) RoomCount() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

// Get returns the room for code, if any.
func (reg *Registry) Get(code string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[code]
	return r, ok
}

// allocateRoom allocates a fresh code (regenerating on collision) and
// registers an empty waiting room under it. The public CreateRoom (in
// actions.go) builds on this to also seat the requesting members.
func (reg *Registry) allocateRoom() *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code := reg.newCodeLocked()
	r := newRoom(code, reg.store, reg.hub, rng.New(time.Now().UnixNano()+int64(len(reg.rooms))))
	reg.rooms[code] = r
	return r
}

func (reg *Registry) newCodeLocked() string {
	for {
		buf := make([]byte, codeLength)
		for i := range buf {
			buf[i] = codeAlphabet[reg.codeRNG.Intn(0, len(codeAlphabet)-1)]
		}
		code := string(buf)
		if _, exists := reg.rooms[code]; !exists {
			return code
		}
	}
}

// removeRoom drops code from the registry (not exported — reached only via
// internal bookkeeping, e.g. a future stale-room sweep).
func (reg *Registry) removeRoom(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, code)
}

// insertRoom registers an already-built room, used by boot recovery.
func (reg *Registry) insertRoom(r *Room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.rooms[r.Code] = r
}

// Recover runs the boot sequence: transition stale playing rooms, delete
// stale waiting rooms, load the remainder into memory, and kick the AI
// worker for any loaded playing room whose current player is AI.
func (reg *Registry) Recover() {
	if reg.store == nil {
		return
	}
	now := time.Now()
	if err := reg.store.TransitionStalePlaying(now.Add(-reg.stalePlayingAfter)); err != nil {
		logrus.WithError(err).Warn("room: failed to transition stale playing rooms")
	}
	if err := reg.store.DeleteStaleWaiting(now.Add(-reg.staleWaitingAfter)); err != nil {
		logrus.WithError(err).Warn("room: failed to delete stale waiting rooms")
	}

	persisted, err := reg.store.LoadRooms()
	if err != nil {
		logrus.WithError(err).Warn("room: failed to load persisted rooms")
		return
	}
	for _, p := range persisted {
		r, err := rehydrate(p, reg.store, reg.hub)
		if err != nil {
			logrus.WithError(err).WithField("code", p.Room.Code).Warn("room: failed to rehydrate, skipping")
			continue
		}
		reg.insertRoom(r)
		if r.Status == StatusPlaying && r.Game != nil && r.Game.CurrentPlayer().IsAI {
			reg.runWorker(r)
		}
	}
	logrus.WithField("count", len(persisted)).Info("room: recovery complete")
}

func (reg *Registry) runWorker(r *Room) {
	go r.runAIWorker(reg)
}

// Subscribe opens a push-channel subscriber for (code, pid), sending an
// immediate snapshot as the first value so a fresh connect never waits on
// the next mutation. The returned subscriber's Chan() is the read side;
// callers must Unsubscribe with the same *subscriber on exit.
func (reg *Registry) Subscribe(code, pid string) (*Room, *subscriber, bool) {
	r, ok := reg.Get(code)
	if !ok {
		return nil, nil, false
	}
	sub := reg.hub.Register(code, pid)
	r.mu.Lock()
	initial := r.snapshotLocked(pid)
	r.mu.Unlock()
	select {
	case sub.ch <- initial:
	default:
	}
	return r, sub, true
}

// Unsubscribe tears down sub, a no-op if sub was already replaced by a
// newer connection for the same (code, pid).
func (reg *Registry) Unsubscribe(code, pid string, sub *subscriber) {
	reg.hub.Unregister(code, pid, sub)
}
