package room

import (
	"encoding/json"
	"time"

	"github.com/marianogappa/yaniv-backend/internal/cards"
	"github.com/marianogappa/yaniv-backend/internal/store"
)

// WireCard is the client-facing card representation: the raw id plus every
// derived attribute, so the front end never needs the encoding formula.
type WireCard struct {
	ID    int     `json:"id"`
	Rank  string  `json:"rank"`
	Suit  *string `json:"suit"`
	Value int     `json:"value"`
}

func toWireCard(c cards.Card) WireCard {
	wc := WireCard{ID: c.ID, Rank: c.Rank(), Value: c.Value()}
	if !c.IsJoker() {
		s := string(c.Suit())
		wc.Suit = &s
	}
	return wc
}

func toWireCards(cs []cards.Card) []WireCard {
	out := make([]WireCard, len(cs))
	for i, c := range cs {
		out[i] = toWireCard(c)
	}
	return out
}

// MemberView is a room member as seen by any client.
type MemberView struct {
	Pid  string `json:"pid"`
	Name string `json:"name"`
	IsAI bool   `json:"isAi"`
}

// PlayerView is one seat in the game view. Hand, IsSelf, CanYaniv are
// populated only for the requesting pid.
type PlayerView struct {
	Name      string     `json:"name"`
	Score     int        `json:"score"`
	HandCount int        `json:"handCount"`
	IsAI      bool       `json:"isAi"`
	IsCurrent bool       `json:"isCurrent"`
	Pid       string     `json:"pid,omitempty"`
	Hand      []WireCard `json:"hand,omitempty"`
	IsSelf    bool       `json:"isSelf,omitempty"`
	CanYaniv  bool       `json:"canYaniv,omitempty"`
}

// GameView is the in-progress game as seen by one recipient.
type GameView struct {
	Players           []PlayerView `json:"players"`
	DiscardTop        []WireCard   `json:"discardTop"`
	DrawOptions       []WireCard   `json:"drawOptions,omitempty"`
	CurrentPlayerName string       `json:"currentPlayerName"`
	IsMyTurn          bool         `json:"isMyTurn"`
	DeckSize          int          `json:"deckSize"`
	CanSlamdown       bool         `json:"canSlamdown"`
	SlamdownCard      *WireCard    `json:"slamdownCard,omitempty"`
	SlamdownsAllowed  bool         `json:"slamdownsAllowed"`
}

// OptionsView mirrors Options.
type OptionsView struct {
	SlamdownsAllowed bool `json:"slamdownsAllowed"`
}

// TurnLogView is the wire form of TurnLog.
type TurnLogView struct {
	ActorName string     `json:"actorName"`
	Discarded []WireCard `json:"discarded"`
	DrawSource string    `json:"drawSource"`
	DrawnCard  *WireCard `json:"drawnCard,omitempty"`
}

// RoundLogPlayerView is the wire form of one RoundPlayerLog.
type RoundLogPlayerView struct {
	Name        string     `json:"name"`
	ScoreChange int        `json:"scoreChange"`
	FinalHand   []WireCard `json:"finalHand"`
	HandValue   int        `json:"handValue"`
	Reset       bool       `json:"reset"`
	Eliminated  bool       `json:"eliminated"`
}

// RoundLogView is the wire form of RoundLog.
type RoundLogView struct {
	DeclarerName      string               `json:"declarerName"`
	DeclarerHandValue int                  `json:"declarerHandValue"`
	Assaf             bool                 `json:"assaf"`
	AssafByName       string               `json:"assafByName,omitempty"`
	Players           []RoundLogPlayerView `json:"players"`
}

// Snapshot is the full per-recipient room view pushed over the wire.
type Snapshot struct {
	Code      string        `json:"code"`
	Status    string        `json:"status"`
	Members   []MemberView  `json:"members"`
	Game      *GameView     `json:"game,omitempty"`
	Winner    string        `json:"winner,omitempty"`
	LastTurn  *TurnLogView  `json:"lastTurn,omitempty"`
	LastRound *RoundLogView `json:"lastRound,omitempty"`
	NextRoom  string        `json:"nextRoom,omitempty"`
	Options   OptionsView   `json:"options"`
}

// snapshotLocked builds the Snapshot for recipientPid. Caller must hold r.mu.
func (r *Room) snapshotLocked(recipientPid string) Snapshot {
	snap := Snapshot{
		Code:     r.Code,
		Status:   r.Status,
		Winner:   r.Winner,
		NextRoom: r.NextRoom,
		Options:  OptionsView{SlamdownsAllowed: r.Options.SlamdownsAllowed},
	}
	for _, m := range r.Members {
		snap.Members = append(snap.Members, MemberView{Pid: m.Pid, Name: m.Name, IsAI: m.IsAI})
	}
	if r.LastTurn != nil {
		snap.LastTurn = &TurnLogView{
			ActorName:  r.LastTurn.ActorName,
			Discarded:  toWireCards(r.LastTurn.Discarded),
			DrawSource: r.LastTurn.DrawSource,
		}
		if r.LastTurn.DrawnCard != nil {
			wc := toWireCard(*r.LastTurn.DrawnCard)
			snap.LastTurn.DrawnCard = &wc
		}
	}
	if r.LastRound != nil {
		rl := &RoundLogView{
			DeclarerName:      r.LastRound.DeclarerName,
			DeclarerHandValue: r.LastRound.DeclarerHandValue,
			Assaf:             r.LastRound.Assaf,
			AssafByName:       r.LastRound.AssafByName,
		}
		for _, pl := range r.LastRound.Players {
			rl.Players = append(rl.Players, RoundLogPlayerView{
				Name:        pl.Name,
				ScoreChange: pl.ScoreChange,
				FinalHand:   toWireCards(pl.FinalHand),
				HandValue:   pl.HandValue,
				Reset:       pl.Reset,
				Eliminated:  pl.Eliminated,
			})
		}
		snap.LastRound = rl
	}

	if r.Game == nil {
		return snap
	}

	g := r.Game
	selfIdx := r.playerIndexForPid(recipientPid)
	gv := &GameView{
		DiscardTop:       toWireCards(g.LastDiscard),
		DeckSize:         len(g.Deck),
		SlamdownsAllowed: r.Options.SlamdownsAllowed,
	}
	if cp := g.CurrentPlayer(); cp != nil {
		gv.CurrentPlayerName = cp.Name
	}
	gv.IsMyTurn = selfIdx >= 0 && selfIdx < len(g.Players) && selfIdx == g.CurrentPlayerIndex

	for i, p := range g.Players {
		pv := PlayerView{
			Name:      p.Name,
			Score:     p.Score,
			HandCount: len(p.Hand),
			IsAI:      p.IsAI,
			IsCurrent: i == g.CurrentPlayerIndex,
		}
		if i < len(r.Members) {
			pv.Pid = r.Members[i].Pid
		}
		if i == selfIdx {
			pv.IsSelf = true
			pv.Hand = toWireCards(p.Hand)
			pv.CanYaniv = g.CanDeclareYaniv(i)
			gv.DrawOptions = toWireCards(g.DrawOptions())
			if g.SlamdownPlayerIndex == i && g.SlamdownCard != nil {
				gv.CanSlamdown = true
				wc := toWireCard(*g.SlamdownCard)
				gv.SlamdownCard = &wc
			}
		}
		gv.Players = append(gv.Players, pv)
	}
	snap.Game = gv
	return snap
}

// toPersistedLocked builds the store records for this room. Caller must
// hold r.mu.
func (r *Room) toPersistedLocked() (store.RoomRecord, []store.MemberRecord, store.GameStateRecord) {
	rec := store.RoomRecord{Code: r.Code, Status: r.Status, Winner: r.Winner, CreatedAt: r.createdAt}

	members := make([]store.MemberRecord, len(r.Members))
	for i, m := range r.Members {
		members[i] = store.MemberRecord{Code: r.Code, Pid: m.Pid, Name: m.Name, IsAI: m.IsAI}
	}

	var gameJSON, lastRoundJSON, lastTurnJSON []byte
	if r.Game != nil {
		gameJSON, _ = json.Marshal(r.Game.Serialize())
	}
	if r.LastRound != nil {
		lastRoundJSON, _ = json.Marshal(r.LastRound)
	}
	if r.LastTurn != nil {
		lastTurnJSON, _ = json.Marshal(r.LastTurn)
	}
	optionsJSON, _ := json.Marshal(r.Options)

	state := store.GameStateRecord{
		Code:                 r.Code,
		GameJSON:             gameJSON,
		LastRoundJSON:        lastRoundJSON,
		LastTurnJSON:         lastTurnJSON,
		RoundBannerTurnsLeft: r.RoundBannerTurnsLeft,
		OptionsJSON:          optionsJSON,
		UpdatedAt:            time.Now(),
	}
	return rec, members, state
}
