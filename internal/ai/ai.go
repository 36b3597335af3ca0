// Package ai implements the computer opponent: a per-player observer that
// tracks what it has learned about the other seats, and a policy that turns
// that knowledge plus the current hand into a turn decision. It depends on
// yaniv but yaniv never depends on it — Game talks to AI players only
// through the yaniv.Observer interface.
package ai

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/marianogappa/yaniv-backend/internal/cards"
	"github.com/marianogappa/yaniv-backend/internal/rng"
	"github.com/marianogappa/yaniv-backend/internal/yaniv"
)

const memoCacheSize = 50000

// opponentModel is what a Player observer has learned about one other seat.
type opponentModel struct {
	currentScore       int
	handCount          int
	knownCards         map[int]int // card id -> count still believed held
	estimatedScore     float64
	pickupHistory      []cards.Card
	discardHistory     []cards.Card
	collectedRanks     map[int]int            // rank index -> count seen picked up
	collectedSuitRanks map[cards.Suit]map[int]bool
}

func newOpponentModel(score int, handCount int) *opponentModel {
	return &opponentModel{
		currentScore:       score,
		handCount:          handCount,
		knownCards:         map[int]int{},
		collectedRanks:     map[int]int{},
		collectedSuitRanks: map[cards.Suit]map[int]bool{},
	}
}

// Player is the AI's per-seat observer and decision engine. One instance is
// created per AI seat in a room and lives for the room's lifetime; it is
// never serialized — observer state is scratch.
type Player struct {
	game      *yaniv.Game
	selfIndex int
	opponents map[int]*opponentModel
	rng       rng.Source

	discardOptionsCache *lru.Cache[string, [][]cards.Card]
	bestDiscardCache    *lru.Cache[string, bestDiscardEntry]
	bestResidualCache   *lru.Cache[string, float64]
	simulateCache       *lru.Cache[string, float64]
}

type bestDiscardEntry struct {
	discard  []cards.Card
	residual int
}

// New builds an AI observer for seat selfIndex in g. r is kept on the
// Player; the Monte-Carlo rollout does not draw from it, since
// sampleUnseen seeds its own source from the observable turn state.
func New(g *yaniv.Game, selfIndex int, r rng.Source) *Player {
	p := &Player{
		game:      g,
		selfIndex: selfIndex,
		opponents: map[int]*opponentModel{},
		rng:       r,
	}
	p.resetCaches()
	return p
}

func (p *Player) resetCaches() {
	p.discardOptionsCache, _ = lru.New[string, [][]cards.Card](memoCacheSize)
	p.bestDiscardCache, _ = lru.New[string, bestDiscardEntry](memoCacheSize)
	p.bestResidualCache, _ = lru.New[string, float64](memoCacheSize)
	p.simulateCache, _ = lru.New[string, float64](memoCacheSize)
}

// ObserveRound resets every opponent model and memo cache for the new deal.
func (p *Player) ObserveRound() {
	p.opponents = map[int]*opponentModel{}
	for i, pl := range p.game.Players {
		if i == p.selfIndex {
			continue
		}
		p.opponents[i] = newOpponentModel(pl.Score, len(pl.Hand))
	}
	p.resetCaches()
}

// ObserveTurn updates the acting opponent's model with what this turn
// revealed.
func (p *Player) ObserveTurn(rec yaniv.TurnRecord) {
	if rec.ActingPlayer == p.selfIndex {
		return
	}
	m, ok := p.opponents[rec.ActingPlayer]
	if !ok {
		m = newOpponentModel(0, 0)
		p.opponents[rec.ActingPlayer] = m
	}
	m.handCount = rec.HandCountAfter

	for _, dc := range rec.DiscardedCards {
		delete(m.knownCards, dc.ID)
		m.discardHistory = append(m.discardHistory, dc)
	}
	if rec.DrawnCard != nil {
		c := *rec.DrawnCard
		m.knownCards[c.ID]++
		m.pickupHistory = append(m.pickupHistory, c)
		if !c.IsJoker() {
			m.collectedRanks[c.RankIndex()]++
			if m.collectedSuitRanks[c.Suit()] == nil {
				m.collectedSuitRanks[c.Suit()] = map[int]bool{}
			}
			m.collectedSuitRanks[c.Suit()][c.RankIndex()] = true
		}
	}

	m.estimatedScore = p.estimateHandValue(rec.ActingPlayer)
}

// unseenCards is the full deck minus: the AI's own hand, the public discard
// pile, and every card any opponent model currently believes is known.
func (p *Player) unseenCards() []cards.Card {
	excluded := map[int]bool{}
	for _, c := range p.game.Players[p.selfIndex].Hand {
		excluded[c.ID] = true
	}
	for _, c := range p.game.DiscardPile {
		excluded[c.ID] = true
	}
	for _, m := range p.opponents {
		for id, n := range m.knownCards {
			if n > 0 {
				excluded[id] = true
			}
		}
	}
	var unseen []cards.Card
	for _, c := range cards.FullDeck() {
		if !excluded[c.ID] {
			unseen = append(unseen, c)
		}
	}
	return unseen
}

// unseenStats returns the mean and variance of per-card Yaniv value across
// the unseen pool, used for both opponent hand-value estimation and the
// declare-Yaniv assaf-risk model.
func unseenStats(unseen []cards.Card) (mean, variance float64) {
	if len(unseen) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, c := range unseen {
		sum += float64(c.Value())
	}
	mean = sum / float64(len(unseen))
	sq := 0.0
	for _, c := range unseen {
		d := float64(c.Value()) - mean
		sq += d * d
	}
	variance = sq / float64(len(unseen))
	return mean, variance
}

// estimateHandValue re-estimates an opponent's total hand value: the sum of
// cards known to be in their hand, plus the unknown remainder valued at the
// mean of the unseen pool.
func (p *Player) estimateHandValue(opponentIndex int) float64 {
	m := p.opponents[opponentIndex]
	if m == nil {
		return 0
	}
	knownSum := 0
	knownCount := 0
	for id, n := range m.knownCards {
		if n <= 0 {
			continue
		}
		c := cards.New(id)
		knownSum += c.Value() * n
		knownCount += n
	}
	unknownCount := m.handCount - knownCount
	if unknownCount < 0 {
		unknownCount = 0
	}
	mean, _ := unseenStats(p.unseenCards())
	return float64(knownSum) + float64(unknownCount)*mean
}

// threatScore is the decision rule's opponent-pressure term, in [0, 1.5]:
// it rises as an opponent's estimated hand value shrinks and their hand
// count falls. Returns the max across all tracked opponents.
func (p *Player) threatScore() float64 {
	max := 0.0
	for _, m := range p.opponents {
		scoreFactor := 1 - clamp01(m.estimatedScore/30)
		sizeFactor := 1 - clamp01(float64(m.handCount-1)/6)
		t := 1.5 * scoreFactor * sizeFactor
		if t > max {
			max = t
		}
	}
	return max
}

// yanivNextTurnProb estimates, per tracked opponent, the probability they
// will be able to call Yaniv on their next turn, then combines across
// opponents assuming independence.
func (p *Player) yanivNextTurnProb() float64 {
	complement := 1.0
	for _, m := range p.opponents {
		complement *= 1 - singleOpponentYanivProb(m)
	}
	return 1 - complement
}

func singleOpponentYanivProb(m *opponentModel) float64 {
	var base float64
	switch {
	case m.estimatedScore <= 5:
		base = 0.55
	case m.estimatedScore <= 10:
		base = 0.25
	case m.estimatedScore <= 15:
		base = 0.10
	default:
		base = 0.02
	}
	if m.handCount > 5 {
		base *= 0.4
	} else if m.handCount > 3 {
		base *= 0.75
	}
	return clamp01(base)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalCDF is the standard normal cumulative distribution function.
func normalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}
