package room

import (
	"github.com/sirupsen/logrus"

	"github.com/marianogappa/yaniv-backend/internal/ai"
	"github.com/marianogappa/yaniv-backend/internal/yaniv"
)

// runAIWorker drains AI turns for r until the current seat is human, the
// game finishes, or the room disappears from reg. At most one worker runs
// per room at a time, guarded by aiWorkerActive.
func (r *Room) runAIWorker(reg *Registry) {
	r.mu.Lock()
	if r.aiWorkerActive {
		r.mu.Unlock()
		return
	}
	r.aiWorkerActive = true
	r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			logrus.WithField("code", r.Code).WithField("panic", p).Error("room: AI worker recovered from panic")
		}
		r.mu.Lock()
		r.aiWorkerActive = false
		r.mu.Unlock()
	}()

	for {
		if _, stillPresent := reg.Get(r.Code); !stillPresent {
			return
		}

		done := false
		err := r.mutate(func() error {
			if r.Status != StatusPlaying || r.Game.IsFinished {
				done = true
				return nil
			}
			current := r.Game.CurrentPlayer()
			if !current.IsAI {
				done = true
				return nil
			}
			return r.playOneAITurnLocked(current)
		})
		if err != nil {
			logrus.WithError(err).WithField("code", r.Code).Error("room: AI worker step failed")
			return
		}
		if done {
			return
		}
	}
}

// playOneAITurnLocked runs one AI decision to completion: a Yaniv call, or
// a draw+discard turn. Caller must hold r.mu (invoked from within mutate).
func (r *Room) playOneAITurnLocked(current *yaniv.Player) error {
	idx := r.Game.CurrentPlayerIndex
	policy, ok := current.Observer.(*ai.Player)
	if !ok || policy == nil {
		return yaniv.ErrIllegalAction
	}

	if r.Game.CanDeclareYaniv(idx) && policy.ShouldDeclareYaniv(current.Hand) {
		result, err := r.Game.DeclareYaniv(idx)
		if err != nil {
			return err
		}
		r.applyRoundResultLocked(result)
		return nil
	}

	_, drawOptions := r.Game.StartTurn()
	action := policy.DecideAction(current.Hand, drawOptions)

	drawSource := DrawSourcePile
	if action.DrawFromDeck {
		drawSource = DrawSourceDeck
	}
	if err := r.Game.PlayTurn(idx, action, false); err != nil {
		return err
	}
	r.LastTurn = &TurnLog{ActorName: current.Name, Discarded: action.Discard, DrawSource: drawSource}
	r.tickRoundBannerLocked()
	return nil
}
