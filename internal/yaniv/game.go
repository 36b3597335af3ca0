// Package yaniv implements the Yaniv game engine: deck, hands, turn cursor,
// draw/discard, reshuffle, scoring (Yaniv/assaf/reset/elimination), and the
// slamdown rule. It is the sole authority on game state; everything above
// it (the room/AI/API layers) only reads snapshots or calls its methods.
package yaniv

import (
	"github.com/marianogappa/yaniv-backend/internal/cards"
	"github.com/marianogappa/yaniv-backend/internal/rng"
)

const handsDealt = 5

// Observer receives round/turn notifications for AI players. Game calls
// through this interface; it never depends on the AI package's concrete
// type.
type Observer interface {
	ObserveRound()
	ObserveTurn(rec TurnRecord)
}

// Player is a seat at the table: either Human or AI. The AI variant's
// observer state lives behind Observer, never inspected by Game directly.
type Player struct {
	Name     string
	Score    int
	Hand     []cards.Card
	IsAI     bool
	Observer Observer // nil for Human players
}

// TurnRecord is what other players' AI observers learn about a turn.
// DrawnCard is non-nil only when drawn from the discard pile (deck draws
// are only revealed to the drawer).
type TurnRecord struct {
	ActingPlayer    int
	HandCountAfter  int
	DiscardedCards  []cards.Card
	DrawnCard       *cards.Card
	DrawnFromPile   bool
}

// Game is the authoritative Yaniv game state for one room.
type Game struct {
	Players             []*Player
	Deck                []cards.Card // remaining draw pile; top = end of slice
	DiscardPile         []cards.Card // full discard history
	LastDiscard         []cards.Card // cards placed by the most recent turn, in play order
	CurrentPlayerIndex  int
	PreviousScores      []int // snapshot taken at Yaniv declaration
	SlamdownPlayerIndex int   // -1 if none
	SlamdownCard        *cards.Card
	IsFinished          bool
	WinnerIndex         int // -1 until IsFinished

	rng rng.Source
}

// New seats players and picks a random starting player. rng is injectable
// for determinism in tests/benchmarks.
func New(players []*Player, r rng.Source) *Game {
	g := &Game{
		Players:             players,
		CurrentPlayerIndex:  r.Intn(0, len(players)-1),
		SlamdownPlayerIndex: -1,
		WinnerIndex:         -1,
		rng:                 r,
	}
	return g
}

// StartGame deals 5 cards to each player, flips the top of the deck onto
// LastDiscard, and notifies AI observers of the new round.
func (g *Game) StartGame() {
	g.dealNewRound()
}

func (g *Game) dealNewRound() {
	deck := cards.FullDeck()
	g.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	g.Deck = deck

	for _, p := range g.Players {
		p.Hand = nil
	}
	for i := 0; i < handsDealt; i++ {
		for _, p := range g.Players {
			p.Hand = append(p.Hand, g.draw())
		}
	}

	g.DiscardPile = []cards.Card{g.draw()}
	g.LastDiscard = append([]cards.Card(nil), g.DiscardPile...)

	g.SlamdownPlayerIndex = -1
	g.SlamdownCard = nil

	for _, p := range g.Players {
		if p.IsAI && p.Observer != nil {
			p.Observer.ObserveRound()
		}
	}
}

// draw removes and returns the top card of the deck, reshuffling from the
// discard pile (minus LastDiscard) first if the deck is empty.
func (g *Game) draw() cards.Card {
	if len(g.Deck) == 0 {
		g.reshuffle()
	}
	top := g.Deck[len(g.Deck)-1]
	g.Deck = g.Deck[:len(g.Deck)-1]
	return top
}

func (g *Game) reshuffle() {
	lastSet := make(map[int]int) // id -> count still reserved as LastDiscard
	for _, c := range g.LastDiscard {
		lastSet[c.ID]++
	}
	var rebuilt []cards.Card
	for _, c := range g.DiscardPile {
		if lastSet[c.ID] > 0 {
			lastSet[c.ID]--
			continue
		}
		rebuilt = append(rebuilt, c)
	}
	g.rng.Shuffle(len(rebuilt), func(i, j int) { rebuilt[i], rebuilt[j] = rebuilt[j], rebuilt[i] })
	g.Deck = rebuilt
	g.DiscardPile = append([]cards.Card(nil), g.LastDiscard...)
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player { return g.Players[g.CurrentPlayerIndex] }

// StartTurn sorts the current player's hand by id for stable client
// rendering and returns the current player plus the legal pickup options.
// Idempotent and side-effect free other than the hand sort.
func (g *Game) StartTurn() (*Player, []cards.Card) {
	p := g.CurrentPlayer()
	cards.SortByID(p.Hand)
	return p, g.DrawOptions()
}

// DrawOptions returns the legal pickup targets from the current LastDiscard.
func (g *Game) DrawOptions() []cards.Card {
	return cards.PickupOptions(g.LastDiscard)
}

// TurnAction is the client-submitted turn: the discard and the draw choice.
// DrawFromDeck and DrawPileIndex are mutually exclusive; DrawFromDeck takes
// precedence when both are set.
type TurnAction struct {
	Discard       []cards.Card
	DrawFromDeck  bool
	DrawPileIndex int
}

// PlayTurn executes a turn for playerIndex:
//  1. validate the draw choice and the discard (membership and shape)
//     without mutating anything;
//  2. execute the draw, then the discard;
//  3. run slamdown detection;
//  4. notify other AI observers;
//  5. advance the turn cursor.
func (g *Game) PlayTurn(playerIndex int, action TurnAction, slamdownsAllowed bool) error {
	if g.IsFinished {
		return ErrGameFinished
	}
	if playerIndex != g.CurrentPlayerIndex {
		return ErrNotYourTurn
	}
	player := g.Players[playerIndex]

	drawOptions := g.DrawOptions()
	drawnFromPile := !action.DrawFromDeck
	var pileCard cards.Card
	if drawnFromPile {
		if action.DrawPileIndex < 0 || action.DrawPileIndex >= len(drawOptions) {
			return ErrIllegalAction
		}
		pileCard = drawOptions[action.DrawPileIndex]
	}

	// Validate the discard shape and hand membership against the hand as it
	// will look after the draw, without mutating the deck, discard pile or
	// hand yet: a rejected action must leave every pile exactly as it was.
	// A deck draw's identity isn't known until it's popped, so for that path
	// membership is checked against the pre-draw hand only — which is also
	// all a client composing the action ahead of time could possibly know.
	candidateHand := player.Hand
	if drawnFromPile {
		candidateHand = append(append([]cards.Card(nil), player.Hand...), pileCard)
	}
	for _, dc := range action.Discard {
		if !cards.ContainsID(candidateHand, dc.ID) {
			return ErrIllegalAction
		}
	}
	legal, _, _ := cards.ValidateDiscard(action.Discard)
	if !legal {
		return ErrIllegalAction
	}

	var drawnCard cards.Card
	if drawnFromPile {
		remaining, removed := cards.RemoveByID(g.DiscardPile, pileCard.ID)
		if !removed {
			return ErrIllegalAction
		}
		g.DiscardPile = remaining
		drawnCard = pileCard
	} else {
		drawnCard = g.draw()
	}
	player.Hand = append(player.Hand, drawnCard)

	for _, dc := range action.Discard {
		hand, removed := cards.RemoveByID(player.Hand, dc.ID)
		if !removed {
			return ErrIllegalAction
		}
		player.Hand = hand
	}
	g.DiscardPile = append(g.DiscardPile, action.Discard...)
	g.LastDiscard = append([]cards.Card(nil), action.Discard...)

	g.detectSlamdown(playerIndex, action.Discard, drawnCard, drawnFromPile, slamdownsAllowed)

	var revealed *cards.Card
	if drawnFromPile {
		c := drawnCard
		revealed = &c
	}
	rec := TurnRecord{
		ActingPlayer:   playerIndex,
		HandCountAfter: len(player.Hand),
		DiscardedCards: append([]cards.Card(nil), action.Discard...),
		DrawnCard:      revealed,
		DrawnFromPile:  drawnFromPile,
	}
	for i, p := range g.Players {
		if i == playerIndex || !p.IsAI || p.Observer == nil {
			continue
		}
		p.Observer.ObserveTurn(rec)
	}

	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
	return nil
}

// CanDeclareYaniv reports whether player's hand value is <= 5.
func (g *Game) CanDeclareYaniv(playerIndex int) bool {
	return cards.HandValue(g.Players[playerIndex].Hand) <= 5
}
