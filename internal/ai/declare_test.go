package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianogappa/yaniv-backend/internal/cards"
	"github.com/marianogappa/yaniv-backend/internal/yaniv"
)

func TestAssafRiskRisesAsOwnHandValueRises(t *testing.T) {
	p, _ := newTestPlayer(t, 0,
		[]cards.Card{ac(2, cards.SuitHearts)},
		[]cards.Card{ac(5, cards.SuitClubs), ac(6, cards.SuitClubs)},
	)
	p.ObserveRound()
	require.Len(t, p.opponents, 1)

	lowRisk := p.assafRisk([]cards.Card{ac(1, cards.SuitHearts)})
	highRisk := p.assafRisk([]cards.Card{ac(5, cards.SuitHearts), ac(5, cards.SuitSpades)})
	assert.Less(t, lowRisk, highRisk)
}

func TestAssafRiskCombinesMultipleOpponentsAboveSingle(t *testing.T) {
	p, g := newTestPlayer(t, 0,
		[]cards.Card{ac(2, cards.SuitHearts)},
		[]cards.Card{ac(5, cards.SuitClubs)},
	)
	// Add a third tracked opponent directly: with two independent risks,
	// the combined risk must be >= either alone.
	g.Players = append(g.Players, &yaniv.Player{Name: "third", Hand: []cards.Card{ac(6, cards.SuitDiamonds)}})
	p.ObserveRound()
	require.Len(t, p.opponents, 2)

	hand := []cards.Card{ac(3, cards.SuitHearts)}
	combined := p.assafRisk(hand)

	onlyOne := &Player{game: p.game, selfIndex: p.selfIndex, opponents: map[int]*opponentModel{}, rng: p.rng}
	for idx, m := range p.opponents {
		onlyOne.opponents[idx] = m
		break
	}
	single := onlyOne.assafRisk(hand)
	assert.GreaterOrEqual(t, combined, single-1e-9)
}

func TestResetImpactZeroWithNoOpponentsNearBoundary(t *testing.T) {
	p, _ := newTestPlayer(t, 0,
		[]cards.Card{ac(2, cards.SuitHearts)},
		[]cards.Card{ac(5, cards.SuitClubs)},
	)
	p.ObserveRound()
	p.opponents[1].currentScore = 10
	assert.Equal(t, 0.0, p.resetImpact())
}

func TestResetImpactPositiveNearBoundary(t *testing.T) {
	p, _ := newTestPlayer(t, 0,
		[]cards.Card{ac(2, cards.SuitHearts)},
		[]cards.Card{ac(5, cards.SuitClubs)},
	)
	p.ObserveRound()
	p.opponents[1].currentScore = 45 // 5 away from the 50 boundary
	assert.Greater(t, p.resetImpact(), 0.0)
}

func TestObserveTurnTracksDiscardAndPickup(t *testing.T) {
	p, _ := newTestPlayer(t, 0,
		[]cards.Card{ac(2, cards.SuitHearts)},
		[]cards.Card{ac(5, cards.SuitClubs)},
	)
	p.ObserveRound()
	drawn := ac(9, cards.SuitDiamonds)
	p.ObserveTurn(yaniv.TurnRecord{
		ActingPlayer:   1,
		DiscardedCards: []cards.Card{ac(3, cards.SuitHearts)},
		DrawnCard:      &drawn,
		HandCountAfter: 4,
	})
	m := p.opponents[1]
	require.NotNil(t, m)
	assert.Equal(t, 4, m.handCount)
	assert.Equal(t, 1, m.knownCards[drawn.ID])
	assert.Contains(t, m.discardHistory, ac(3, cards.SuitHearts))
	assert.Equal(t, 1, m.collectedRanks[drawn.RankIndex()])
}

func TestObserveTurnIgnoresSelf(t *testing.T) {
	p, _ := newTestPlayer(t, 0,
		[]cards.Card{ac(2, cards.SuitHearts)},
		[]cards.Card{ac(5, cards.SuitClubs)},
	)
	p.ObserveRound()
	before := len(p.opponents)
	p.ObserveTurn(yaniv.TurnRecord{ActingPlayer: 0, HandCountAfter: 4})
	assert.Len(t, p.opponents, before)
}

func TestThreatScoreHigherForLowScoreSmallHandOpponent(t *testing.T) {
	p, _ := newTestPlayer(t, 0,
		[]cards.Card{ac(2, cards.SuitHearts)},
		[]cards.Card{ac(5, cards.SuitClubs)},
	)
	p.ObserveRound()
	p.opponents[1].estimatedScore = 2
	p.opponents[1].handCount = 1
	highThreat := p.threatScore()

	p.opponents[1].estimatedScore = 40
	p.opponents[1].handCount = 7
	lowThreat := p.threatScore()

	assert.Greater(t, highThreat, lowThreat)
}
