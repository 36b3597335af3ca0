package room

import (
	"encoding/json"
	"time"

	"github.com/marianogappa/yaniv-backend/internal/rng"
	"github.com/marianogappa/yaniv-backend/internal/store"
	"github.com/marianogappa/yaniv-backend/internal/yaniv"
)

// rehydrate rebuilds a Room from its persisted record: the Game's deck is
// reconstructed deterministically from hands and discard pile, AI observers
// are reattached fresh (observer state is scratch, never persisted), and
// turn/round logs come back from their JSON blobs.
func rehydrate(p store.PersistedRoom, st store.Store, hub *Hub) (*Room, error) {
	r := newRoom(p.Room.Code, st, hub, rng.New(time.Now().UnixNano()))
	r.Status = p.Room.Status
	r.Winner = p.Room.Winner
	r.createdAt = p.Room.CreatedAt

	for _, m := range p.Members {
		r.Members = append(r.Members, Member{Pid: m.Pid, Name: m.Name, IsAI: m.IsAI})
	}
	if len(r.Members) > 0 {
		r.CreatorPid = r.Members[0].Pid
	}

	if len(p.State.OptionsJSON) > 0 {
		_ = json.Unmarshal(p.State.OptionsJSON, &r.Options)
	}
	r.RoundBannerTurnsLeft = p.State.RoundBannerTurnsLeft

	if len(p.State.GameJSON) > 0 {
		var snap yaniv.Snapshot
		if err := json.Unmarshal(p.State.GameJSON, &snap); err != nil {
			return nil, err
		}
		r.Game = yaniv.Deserialize(snap, rng.New(time.Now().UnixNano()))
		r.attachAIObservers()
	}
	if len(p.State.LastTurnJSON) > 0 {
		var tl TurnLog
		if err := json.Unmarshal(p.State.LastTurnJSON, &tl); err == nil {
			r.LastTurn = &tl
		}
	}
	if len(p.State.LastRoundJSON) > 0 {
		var rl RoundLog
		if err := json.Unmarshal(p.State.LastRoundJSON, &rl); err == nil {
			r.LastRound = &rl
		}
	}

	return r, nil
}
