package yaniv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianogappa/yaniv-backend/internal/cards"
)

func TestDeclareYanivRejectsOverFive(t *testing.T) {
	g := newManualGame(
		[]cards.Card{cc(9, cards.SuitHearts), cc(9, cards.SuitClubs)},
		[]cards.Card{cc(2, cards.SuitHearts)},
	)
	_, err := g.DeclareYaniv(0)
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestDeclareYanivCleanWinAwardsZeroAndAssesesOthers(t *testing.T) {
	g := newManualGame(
		[]cards.Card{cc(1, cards.SuitHearts)},           // value 1
		[]cards.Card{cc(9, cards.SuitClubs), cc(8, cards.SuitSpades)}, // value 17
	)
	result, err := g.DeclareYaniv(0)
	require.NoError(t, err)
	assert.False(t, result.Assaf)
	assert.Equal(t, 0, result.Players[0].ScoreChange)
	assert.Equal(t, 17, result.Players[1].ScoreChange)
}

func TestDeclareYanivAssafWhenOpponentTiesOrBeats(t *testing.T) {
	g := newManualGame(
		[]cards.Card{cc(4, cards.SuitHearts)},           // value 4
		[]cards.Card{cc(3, cards.SuitHearts)},           // value 3, beats declarer
	)
	result, err := g.DeclareYaniv(0)
	require.NoError(t, err)
	assert.True(t, result.Assaf)
	assert.Equal(t, 1, result.AssafPlayerIndex)
	assert.Equal(t, 30, result.Players[0].ScoreChange)
	assert.Equal(t, 0, result.Players[1].ScoreChange)
}

func TestDeclareYanivScoreResetAt50Or100(t *testing.T) {
	g := newManualGame(
		[]cards.Card{cc(1, cards.SuitHearts)},
		[]cards.Card{cc(9, cards.SuitClubs), cc(9, cards.SuitSpades), cc(10, cards.SuitHearts)},
	)
	g.Players[1].Score = 22 // 22 + 28 = 50 -> reset to 0
	result, err := g.DeclareYaniv(0)
	require.NoError(t, err)
	assert.Equal(t, 28, result.Players[1].ScoreChange)
	assert.True(t, result.Players[1].Reset)
	assert.Equal(t, 0, g.Players[1].Score)
}

func TestDeclareYanivEliminatesOverHundredAndEndsGameAtOneSurvivor(t *testing.T) {
	g := newManualGame(
		[]cards.Card{cc(1, cards.SuitHearts)},
		[]cards.Card{cc(9, cards.SuitClubs), cc(10, cards.SuitSpades), cc(9, cards.SuitHearts)},
	)
	g.Players[1].Score = 95 // 95 + 28 = 123, over 100: eliminated
	result, err := g.DeclareYaniv(0)
	require.NoError(t, err)
	assert.True(t, result.Players[1].Eliminated)
	assert.True(t, result.GameFinished)
	assert.True(t, g.IsFinished)
	assert.Equal(t, 0, g.WinnerIndex)
	assert.Len(t, g.Players, 1)
}

func TestDeclareYanivOnFinishedGameFails(t *testing.T) {
	g := newManualGame([]cards.Card{cc(1, cards.SuitHearts)}, []cards.Card{cc(2, cards.SuitHearts)})
	g.IsFinished = true
	_, err := g.DeclareYaniv(0)
	assert.ErrorIs(t, err, ErrGameFinished)
}

func TestDeclareYanivDealsNextRoundWhenMultipleSurvivorsRemain(t *testing.T) {
	g := newManualGame(
		[]cards.Card{cc(1, cards.SuitHearts)},
		[]cards.Card{cc(9, cards.SuitClubs), cc(8, cards.SuitSpades)},
		[]cards.Card{cc(2, cards.SuitDiamonds)},
	)
	_, err := g.DeclareYaniv(0)
	require.NoError(t, err)
	assert.False(t, g.IsFinished)
	assert.Len(t, g.Players, 3)
	for _, p := range g.Players {
		assert.Len(t, p.Hand, 5)
	}
}
