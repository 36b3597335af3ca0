package room

import (
	"github.com/google/uuid"

	"github.com/marianogappa/yaniv-backend/internal/cards"
	"github.com/marianogappa/yaniv-backend/internal/yaniv"
)

const maxNameLength = 20
const maxAICount = 3

func validateName(name string) error {
	if len(name) == 0 || len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// CreateRoom allocates a new room, seats the requesting human (minting a
// pid if one wasn't supplied) and aiCount AI seats, and persists it.
func (reg *Registry) CreateRoom(name, pid string, aiCount int) (*Room, string, error) {
	if err := validateName(name); err != nil {
		return nil, "", err
	}
	if aiCount < 0 || aiCount > maxAICount {
		return nil, "", ErrTooManyAI
	}
	if pid == "" {
		pid = uuid.NewString()
	}

	r := reg.allocateRoom()
	err := r.mutate(func() error {
		r.Members = append(r.Members, Member{Pid: pid, Name: name})
		r.CreatorPid = pid
		for i := 0; i < aiCount; i++ {
			r.Members = append(r.Members, Member{
				Pid:  uuid.NewString(),
				Name: aiName(i),
				IsAI: true,
			})
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return r, pid, nil
}

func aiName(i int) string {
	names := [maxAICount]string{"Botilda", "Botrick", "Botrus"}
	return names[i%maxAICount]
}

// JoinRoom adds a new human member to a waiting room, or reconnects an
// existing member idempotently.
func (reg *Registry) JoinRoom(code, name, pid string) (*Room, string, error) {
	if err := validateName(name); err != nil {
		return nil, "", err
	}
	r, ok := reg.Get(code)
	if !ok {
		return nil, "", ErrRoomNotFound
	}

	r.mu.Lock()
	existing := r.memberIndex(pid) >= 0
	r.mu.Unlock()
	if existing {
		return r, pid, nil
	}
	if pid == "" {
		pid = uuid.NewString()
	}

	err := r.mutate(func() error {
		if r.Status != StatusWaiting {
			return ErrAlreadyStarted
		}
		if r.memberIndex(pid) >= 0 {
			return nil
		}
		r.Members = append(r.Members, Member{Pid: pid, Name: name})
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return r, pid, nil
}

// LeaveRoom removes pid from a waiting room.
func (reg *Registry) LeaveRoom(code, pid string) error {
	r, ok := reg.Get(code)
	if !ok {
		return ErrRoomNotFound
	}
	return r.mutate(func() error {
		if r.Status != StatusWaiting {
			return ErrAlreadyStarted
		}
		idx := r.memberIndex(pid)
		if idx < 0 {
			return ErrPidNotFound
		}
		r.Members = append(r.Members[:idx], r.Members[idx+1:]...)
		if r.CreatorPid == pid && len(r.Members) > 0 {
			r.CreatorPid = r.Members[0].Pid
		}
		return nil
	})
}

// SetOptions updates the room's rules. Only the creator may call this,
// and only while waiting.
func (r *Room) SetOptions(pid string, slamdownsAllowed bool) error {
	return r.mutate(func() error {
		if r.Status != StatusWaiting {
			return ErrAlreadyStarted
		}
		if pid != r.CreatorPid {
			return ErrNotCreator
		}
		r.Options.SlamdownsAllowed = slamdownsAllowed
		return nil
	})
}

// effectiveSlamdownsAllowed collapses the option to false whenever any
// member is AI.
func (r *Room) effectiveSlamdownsAllowed() bool {
	if !r.Options.SlamdownsAllowed {
		return false
	}
	for _, m := range r.Members {
		if m.IsAI {
			return false
		}
	}
	return true
}

// Start deals the game and transitions the room to playing. If the first
// seat to act is AI, it kicks off reg's worker for this room.
func (reg *Registry) Start(r *Room, pid string, slamdownsAllowed *bool) error {
	err := r.mutate(func() error {
		if r.Status != StatusWaiting {
			return ErrAlreadyStarted
		}
		if pid != r.CreatorPid {
			return ErrNotCreator
		}
		if len(r.Members) < 2 {
			return ErrNotEnoughMembers
		}
		if slamdownsAllowed != nil {
			r.Options.SlamdownsAllowed = *slamdownsAllowed
		}

		players := make([]*yaniv.Player, len(r.Members))
		for i, m := range r.Members {
			players[i] = &yaniv.Player{Name: m.Name, IsAI: m.IsAI}
		}
		r.Game = yaniv.New(players, r.rng)
		r.attachAIObservers()
		r.Game.StartGame()
		r.Status = StatusPlaying
		return nil
	})
	if err != nil {
		return err
	}
	r.kickWorkerIfNeeded(reg)
	return nil
}

func (r *Room) kickWorkerIfNeeded(reg *Registry) {
	r.mu.Lock()
	shouldRun := r.Status == StatusPlaying && !r.Game.IsFinished &&
		r.Game.CurrentPlayer().IsAI && !r.aiWorkerActive
	r.mu.Unlock()
	if shouldRun {
		reg.runWorker(r)
	}
}

// PlayTurn executes a human turn action: the discard (by card id) and the
// draw choice (deck, or a draw-option index).
func (reg *Registry) PlayTurn(r *Room, pid string, discardIDs []int, drawFromDeck bool, drawPileIndex int) error {
	err := r.mutate(func() error {
		idx := r.requireCurrentPlayerLocked(pid)
		if idx < 0 {
			return yaniv.ErrNotYourTurn
		}
		discard := make([]cards.Card, len(discardIDs))
		for i, id := range discardIDs {
			discard[i] = cards.New(id)
		}
		action := yaniv.TurnAction{Discard: discard, DrawFromDeck: drawFromDeck, DrawPileIndex: drawPileIndex}

		drawSource := DrawSourcePile
		if drawFromDeck {
			drawSource = DrawSourceDeck
		}
		actorName := r.Game.Players[idx].Name

		if err := r.Game.PlayTurn(idx, action, r.effectiveSlamdownsAllowed()); err != nil {
			return err
		}
		r.LastTurn = &TurnLog{ActorName: actorName, Discarded: discard, DrawSource: drawSource}
		r.tickRoundBannerLocked()
		return nil
	})
	if err != nil {
		return err
	}
	r.kickWorkerIfNeeded(reg)
	return nil
}

// PerformSlamdown executes pid's available slamdown bonus discard.
func (reg *Registry) PerformSlamdown(r *Room, pid string) error {
	err := r.mutate(func() error {
		idx := r.memberIndex(pid)
		if idx < 0 {
			return ErrPidNotFound
		}
		drawn := r.Game.SlamdownCard
		if err := r.Game.PerformSlamdown(idx); err != nil {
			return err
		}
		if drawn != nil && r.LastTurn != nil {
			r.LastTurn.DrawSource = DrawSourceSlamdown
			r.LastTurn.DrawnCard = drawn
			r.LastTurn.Discarded = append(r.LastTurn.Discarded, *drawn)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.kickWorkerIfNeeded(reg)
	return nil
}

// DeclareYaniv runs end-of-round scoring for pid.
func (reg *Registry) DeclareYaniv(r *Room, pid string) error {
	err := r.mutate(func() error {
		idx := r.memberIndex(pid)
		if idx < 0 {
			return ErrPidNotFound
		}
		result, err := r.Game.DeclareYaniv(idx)
		if err != nil {
			return err
		}
		r.applyRoundResultLocked(result)
		return nil
	})
	if err != nil {
		return err
	}
	r.kickWorkerIfNeeded(reg)
	return nil
}

func (r *Room) applyRoundResultLocked(result *yaniv.RoundResult) {
	// lastTurn is cleared on a Yaniv/assaf transition since the round
	// banner supersedes it as the thing clients display next.
	r.LastTurn = nil

	rl := &RoundLog{
		DeclarerName:      result.Players[result.DeclarerIndex].Name,
		DeclarerHandValue: result.DeclarerHandValue,
		Assaf:             result.Assaf,
	}
	if result.Assaf && result.AssafPlayerIndex >= 0 {
		rl.AssafByName = result.Players[result.AssafPlayerIndex].Name
	}
	for _, pr := range result.Players {
		rl.Players = append(rl.Players, RoundPlayerLog{
			Name:        pr.Name,
			ScoreChange: pr.ScoreChange,
			FinalHand:   pr.FinalHand,
			HandValue:   pr.HandValue,
			Reset:       pr.Reset,
			Eliminated:  pr.Eliminated,
		})
	}
	r.LastRound = rl
	r.RoundBannerTurnsLeft = len(r.Game.Players)

	if result.GameFinished {
		r.Status = StatusFinished
		r.Winner = r.Game.Players[result.WinnerIndex].Name
	}
}


func (r *Room) tickRoundBannerLocked() {
	if r.RoundBannerTurnsLeft <= 0 {
		return
	}
	r.RoundBannerTurnsLeft--
	if r.RoundBannerTurnsLeft == 0 {
		r.LastRound = nil
	}
}

// requireCurrentPlayerLocked returns pid's seat index iff it is currently
// their turn and the game is live; -1 otherwise. Caller must hold r.mu via
// the surrounding mutate call (this itself does not lock).
func (r *Room) requireCurrentPlayerLocked(pid string) int {
	if r.Game == nil || r.Game.IsFinished {
		return -1
	}
	idx := r.memberIndex(pid)
	if idx < 0 || idx != r.Game.CurrentPlayerIndex {
		return -1
	}
	return idx
}

// PlayAgain is idempotent: it returns the existing rematch code if one was
// already minted, otherwise it creates a fresh room seeded with the same
// membership and links it as r.NextRoom.
func (reg *Registry) PlayAgain(r *Room) (string, error) {
	var nextCode string
	err := r.mutate(func() error {
		if r.Status != StatusFinished {
			return ErrNotFinished
		}
		if r.NextRoom != "" {
			nextCode = r.NextRoom
			return nil
		}
		next := reg.allocateRoom()
		next.Members = append(next.Members, r.Members...)
		if len(next.Members) > 0 {
			next.CreatorPid = next.Members[0].Pid
		}
		reg.persistNewLocked(next)
		r.NextRoom = next.Code
		nextCode = next.Code
		return nil
	})
	return nextCode, err
}

func (reg *Registry) persistNewLocked(r *Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persistLocked()
}
