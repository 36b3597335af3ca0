package yaniv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianogappa/yaniv-backend/internal/cards"
	"github.com/marianogappa/yaniv-backend/internal/rng"
)

func newTestGame(t *testing.T, n int) *Game {
	t.Helper()
	players := make([]*Player, n)
	for i := range players {
		players[i] = &Player{Name: string(rune('A' + i))}
	}
	g := New(players, rng.New(42))
	g.StartGame()
	return g
}

func allCardsInPlay(g *Game) []cards.Card {
	var all []cards.Card
	all = append(all, g.Deck...)
	all = append(all, g.DiscardPile...)
	for _, p := range g.Players {
		all = append(all, p.Hand...)
	}
	return all
}

func TestStartGameDealsFiveEach(t *testing.T) {
	g := newTestGame(t, 3)
	for _, p := range g.Players {
		assert.Len(t, p.Hand, 5)
	}
	assert.Len(t, g.LastDiscard, 1)
}

func TestCardConservationAcrossDealAndTurn(t *testing.T) {
	g := newTestGame(t, 2)
	all := allCardsInPlay(g)
	seen := make(map[int]bool)
	for _, c := range all {
		assert.False(t, seen[c.ID], "card %d appears twice", c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, cards.NumCards)

	cur, _ := g.StartTurn()
	discard := []cards.Card{cur.Hand[0]}
	err := g.PlayTurn(g.CurrentPlayerIndex, TurnAction{Discard: discard, DrawFromDeck: true}, false)
	require.NoError(t, err)

	all = allCardsInPlay(g)
	seen = make(map[int]bool)
	for _, c := range all {
		assert.False(t, seen[c.ID], "card %d appears twice after a turn", c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, cards.NumCards)
}

func TestPlayTurnAdvancesCursorAndEnforcesTurnOrder(t *testing.T) {
	g := newTestGame(t, 3)
	start := g.CurrentPlayerIndex
	cur, _ := g.StartTurn()

	wrong := (start + 1) % 3
	err := g.PlayTurn(wrong, TurnAction{Discard: []cards.Card{cur.Hand[0]}, DrawFromDeck: true}, false)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	err = g.PlayTurn(start, TurnAction{Discard: []cards.Card{cur.Hand[0]}, DrawFromDeck: true}, false)
	require.NoError(t, err)
	assert.Equal(t, (start+1)%3, g.CurrentPlayerIndex)
}

func TestPlayTurnRejectsDiscardingCardNotInHand(t *testing.T) {
	g := newTestGame(t, 2)
	idx := g.CurrentPlayerIndex
	inHand := make(map[int]bool)
	for _, c := range g.Players[idx].Hand {
		inHand[c.ID] = true
	}
	var foreign cards.Card
	for id := 0; id < cards.NumCards; id++ {
		if !inHand[id] {
			foreign = cards.New(id)
			break
		}
	}
	err := g.PlayTurn(idx, TurnAction{Discard: []cards.Card{foreign}, DrawFromDeck: true}, false)
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestPlayTurnRejectsIllegalDrawPileIndex(t *testing.T) {
	g := newTestGame(t, 2)
	idx := g.CurrentPlayerIndex
	hand := g.Players[idx].Hand
	err := g.PlayTurn(idx, TurnAction{Discard: []cards.Card{hand[0]}, DrawPileIndex: 99}, false)
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestPlayTurnRejectedDiscardLeavesStateUntouched(t *testing.T) {
	g := newTestGame(t, 2)
	idx := g.CurrentPlayerIndex
	deckLenBefore := len(g.Deck)
	pileBefore := append([]cards.Card(nil), g.DiscardPile...)
	handBefore := append([]cards.Card(nil), g.Players[idx].Hand...)
	turnBefore := g.CurrentPlayerIndex

	// A legal pile draw paired with an illegal discard shape (two cards
	// sharing neither rank nor suit, so no pair/run validates): the pile
	// draw must not be committed just because the discard it was paired
	// with gets rejected.
	hand := g.Players[idx].Hand
	var mismatched []cards.Card
	for i := 0; i < len(hand) && mismatched == nil; i++ {
		for j := i + 1; j < len(hand); j++ {
			a, b := hand[i], hand[j]
			if a.IsJoker() || b.IsJoker() {
				continue
			}
			if a.RankIndex() != b.RankIndex() && a.Suit() != b.Suit() {
				mismatched = []cards.Card{a, b}
				break
			}
		}
	}
	require.NotNil(t, mismatched, "test fixture needs a hand with a genuinely mismatched pair")
	legal, _, _ := cards.ValidateDiscard(mismatched)
	require.False(t, legal, "test fixture must pick a genuinely illegal discard shape")

	err := g.PlayTurn(idx, TurnAction{Discard: mismatched, DrawPileIndex: 0}, false)
	assert.ErrorIs(t, err, ErrIllegalAction)

	assert.Equal(t, deckLenBefore, len(g.Deck), "deck must be untouched")
	assert.Equal(t, pileBefore, g.DiscardPile, "discard pile must be untouched")
	assert.Equal(t, handBefore, g.Players[idx].Hand, "hand must be untouched")
	assert.Equal(t, turnBefore, g.CurrentPlayerIndex, "turn cursor must not advance")
}

func TestPlayTurnRejectsDiscardNotInHandLeavesDeckUntouched(t *testing.T) {
	g := newTestGame(t, 2)
	idx := g.CurrentPlayerIndex
	deckLenBefore := len(g.Deck)

	inHand := make(map[int]bool)
	for _, c := range g.Players[idx].Hand {
		inHand[c.ID] = true
	}
	var foreign cards.Card
	for id := 0; id < cards.NumCards; id++ {
		if !inHand[id] {
			foreign = cards.New(id)
			break
		}
	}
	err := g.PlayTurn(idx, TurnAction{Discard: []cards.Card{foreign}, DrawFromDeck: true}, false)
	assert.ErrorIs(t, err, ErrIllegalAction)
	assert.Equal(t, deckLenBefore, len(g.Deck), "a rejected deck draw must not shrink the deck")
}

func TestDrawFromEmptyDeckReshufflesFromDiscard(t *testing.T) {
	g := newTestGame(t, 2)
	// Drain the deck directly to force a reshuffle on the next draw.
	g.DiscardPile = append(g.DiscardPile, g.Deck...)
	g.Deck = nil

	before := len(allUnique(t, g))
	c := g.draw()
	assert.True(t, c.Valid())
	// The drawn card is handed to the caller: it is no longer in the deck,
	// the discard pile or any hand, and every other card still is.
	after := len(allUnique(t, g))
	assert.Equal(t, before-1, after)
}

func allUnique(t *testing.T, g *Game) map[int]bool {
	t.Helper()
	seen := make(map[int]bool)
	for _, c := range allCardsInPlay(g) {
		seen[c.ID] = true
	}
	return seen
}

func TestCanDeclareYanivThreshold(t *testing.T) {
	g := newTestGame(t, 2)
	p := g.Players[0]
	p.Hand = []cards.Card{cards.New(cards.JokerLow), cards.New(cards.JokerHigh)}
	assert.True(t, g.CanDeclareYaniv(0))

	ace, _ := cards.NewFromRankSuit(1, cards.SuitHearts)
	six, _ := cards.NewFromRankSuit(6, cards.SuitHearts)
	p.Hand = []cards.Card{ace, six}
	assert.False(t, g.CanDeclareYaniv(0))
}
