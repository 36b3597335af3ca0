package yaniv

import "github.com/marianogappa/yaniv-backend/internal/cards"

// PlayerRoundResult is one player's outcome from a Yaniv/assaf round, used
// to build the room's lastRound summary.
type PlayerRoundResult struct {
	PlayerIndex int
	Name        string
	ScoreChange int
	FinalHand   []cards.Card
	HandValue   int
	Reset       bool
	Eliminated  bool
}

// RoundResult is the outcome of a DeclareYaniv call.
type RoundResult struct {
	DeclarerIndex     int
	DeclarerHandValue int
	Assaf             bool
	AssafPlayerIndex  int // -1 if not an assaf
	Players           []PlayerRoundResult
	GameFinished      bool
	WinnerIndex       int // -1 unless GameFinished
}

// DeclareYaniv runs scoring for declarerIndex, prunes eliminated players,
// and either deals the next round or ends the game with a winner. Fails
// with ErrIllegalAction if the declarer's hand value exceeds 5.
func (g *Game) DeclareYaniv(declarerIndex int) (*RoundResult, error) {
	if g.IsFinished {
		return nil, ErrGameFinished
	}
	if !g.CanDeclareYaniv(declarerIndex) {
		return nil, ErrIllegalAction
	}
	g.ExpireSlamdown()

	// Open Question #1 (see DESIGN.md): declarerHandValue is computed from
	// a snapshot taken here, before any scoring mutation.
	g.PreviousScores = make([]int, len(g.Players))
	for i, p := range g.Players {
		g.PreviousScores[i] = p.Score
	}

	declarer := g.Players[declarerIndex]
	declarerHandValue := cards.HandValue(declarer.Hand)

	handValues := make([]int, len(g.Players))
	minOther, minOtherIdx := -1, -1
	for i, p := range g.Players {
		hv := cards.HandValue(p.Hand)
		handValues[i] = hv
		if i == declarerIndex {
			continue
		}
		if minOtherIdx == -1 || hv < minOther {
			minOther, minOtherIdx = hv, i
		}
	}

	assaf := declarerHandValue >= minOther
	scoreChange := make([]int, len(g.Players))
	if assaf {
		scoreChange[declarerIndex] = 30
	} else {
		for i, p := range g.Players {
			_ = p
			if i == declarerIndex {
				continue
			}
			scoreChange[i] = handValues[i]
		}
	}

	result := &RoundResult{
		DeclarerIndex:     declarerIndex,
		DeclarerHandValue: declarerHandValue,
		Assaf:             assaf,
		AssafPlayerIndex:  -1,
		WinnerIndex:       -1,
	}
	if assaf {
		result.AssafPlayerIndex = minOtherIdx
	}

	for i, p := range g.Players {
		p.Score += scoreChange[i]
	}

	resetIdx := map[int]bool{}
	for i, p := range g.Players {
		if (p.Score == 50 || p.Score == 100) && g.PreviousScores[i] < p.Score {
			p.Score -= 50
			resetIdx[i] = true
		}
	}

	eliminatedIdx := map[int]bool{}
	for i, p := range g.Players {
		if p.Score > 100 {
			eliminatedIdx[i] = true
		}
	}

	for i, p := range g.Players {
		result.Players = append(result.Players, PlayerRoundResult{
			PlayerIndex: i,
			Name:        p.Name,
			ScoreChange: scoreChange[i],
			FinalHand:   append([]cards.Card(nil), p.Hand...),
			HandValue:   handValues[i],
			Reset:       resetIdx[i],
			Eliminated:  eliminatedIdx[i],
		})
	}

	g.pruneEliminated(eliminatedIdx)

	if len(g.Players) == 1 {
		g.IsFinished = true
		g.WinnerIndex = 0
		result.GameFinished = true
		result.WinnerIndex = 0
		return result, nil
	}

	g.dealNewRound()
	return result, nil
}

// pruneEliminated removes players whose original index is in eliminatedIdx.
// CurrentPlayerIndex is simply reduced mod the new player count rather than
// re-mapped to a specific survivor's identity.
func (g *Game) pruneEliminated(eliminatedIdx map[int]bool) {
	if len(eliminatedIdx) == 0 {
		return
	}
	survivors := make([]*Player, 0, len(g.Players))
	for i, p := range g.Players {
		if !eliminatedIdx[i] {
			survivors = append(survivors, p)
		}
	}
	g.Players = survivors
	if len(survivors) == 0 {
		g.CurrentPlayerIndex = 0
		return
	}
	g.CurrentPlayerIndex = g.CurrentPlayerIndex % len(survivors)
}
