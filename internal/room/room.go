// Package room implements the per-room state machine: membership, the
// authoritative Game, turn/round bookkeeping, the cooperative AI worker,
// subscriber fan-out, and write-through persistence. It is the only
// package that wires together yaniv, ai and store.
package room

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/marianogappa/yaniv-backend/internal/ai"
	"github.com/marianogappa/yaniv-backend/internal/rng"
	"github.com/marianogappa/yaniv-backend/internal/store"
	"github.com/marianogappa/yaniv-backend/internal/yaniv"
)

// Room lifecycle statuses.
const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// Member is one seat's public identity: a client-minted pid, a display
// name, and whether the seat is an AI.
type Member struct {
	Pid  string
	Name string
	IsAI bool
}

// Options are the room's configurable rules, currently just slamdownsAllowed.
type Options struct {
	SlamdownsAllowed bool `json:"slamdownsAllowed"`
}

// Room is the authoritative state for one table: membership, game, turn and
// round logs, and the bookkeeping needed to run the AI worker and push
// snapshots. All mutation goes through mutate, which serializes access,
// persists, and fans out exactly once per public change.
type Room struct {
	mu sync.Mutex

	Code       string
	Status     string
	CreatorPid string
	Members    []Member
	Game       *yaniv.Game
	Winner     string

	LastTurn             *TurnLog
	LastRound            *RoundLog
	RoundBannerTurnsLeft int

	Options Options
	NextRoom string

	aiWorkerActive bool
	createdAt      time.Time

	store store.Store
	hub   *Hub
	rng   rng.Source
}

// newRoom constructs an empty, waiting room. Not exported: callers go
// through Registry.CreateRoom so code allocation stays centralized.
func newRoom(code string, st store.Store, hub *Hub, r rng.Source) *Room {
	return &Room{
		Code:      code,
		Status:    StatusWaiting,
		store:     st,
		hub:       hub,
		rng:       r,
		createdAt: time.Now(),
	}
}

// Snapshot builds the current per-recipient view for pid, for one-shot
// reads (e.g. GET /api/room/:code) outside the SSE push path.
func (r *Room) Snapshot(pid string) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(pid)
}

// memberIndex returns the index of pid in Members, or -1.
func (r *Room) memberIndex(pid string) int {
	for i, m := range r.Members {
		if m.Pid == pid {
			return i
		}
	}
	return -1
}

// playerIndexForPid maps a member pid to its seat index in r.Game.Players.
// Valid only once the game has started: seat order is fixed at StartGame
// and mirrors r.Members at that moment.
func (r *Room) playerIndexForPid(pid string) int {
	return r.memberIndex(pid)
}

// attachAIObservers wires a fresh ai.Player into every AI seat. Must run
// after r.Game exists (construction or deserialize), since ai.New captures
// the *yaniv.Game pointer.
func (r *Room) attachAIObservers() {
	for i, p := range r.Game.Players {
		if p.IsAI {
			p.Observer = ai.New(r.Game, i, r.rng)
		}
	}
}

// mutate runs fn under the room lock, then persists and broadcasts exactly
// once. fn's return error is propagated without persisting/broadcasting —
// validation failures must not mutate visible state.
func (r *Room) mutate(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := fn(); err != nil {
		return err
	}
	r.persistLocked()
	r.broadcastLocked()
	return nil
}

func (r *Room) persistLocked() {
	if r.store == nil {
		return
	}
	rec, members, state := r.toPersistedLocked()
	if err := r.store.SaveRoom(rec, members, state); err != nil {
		logrus.WithError(err).WithField("code", r.Code).Warn("room: persist failed, continuing in memory")
	}
}

func (r *Room) broadcastLocked() {
	if r.hub == nil {
		return
	}
	for _, m := range r.Members {
		r.hub.Send(r.Code, m.Pid, r.snapshotLocked(m.Pid))
	}
}
