package ai

import (
	"hash/fnv"
	"math"
	"strconv"

	"github.com/marianogappa/yaniv-backend/internal/cards"
	"github.com/marianogappa/yaniv-backend/internal/rng"
	"github.com/marianogappa/yaniv-backend/internal/yaniv"
)

// candidate is one (draw choice, discard choice) pair under evaluation.
type candidate struct {
	action yaniv.TurnAction
	score  float64
	dumped int // value discarded, used as the tie-break
}

// DecideAction picks the turn this seat will play: which card (or cards) to
// discard and whether to draw from the deck or the pile. hand and
// drawOptions reflect the current, pre-draw state of the table.
func (p *Player) DecideAction(hand []cards.Card, drawOptions []cards.Card) yaniv.TurnAction {
	threat := p.threatScore()
	yanivProb := p.yanivNextTurnProb()
	unseen := p.unseenCards()
	_, unseenVar := unseenStats(unseen)

	var best *candidate

	consider := func(c candidate) {
		if best == nil || c.score < best.score || (c.score == best.score && c.dumped > best.dumped) {
			cc := c
			best = &cc
		}
	}

	// Pile draws: the drawn card is known, no sampling needed.
	for idx, drawn := range drawOptions {
		handAfterDraw := append(append([]cards.Card(nil), hand...), drawn)
		for _, discard := range p.discardOptions(handAfterDraw) {
			postDiscard, ok := removeAll(handAfterDraw, discard)
			if !ok {
				continue
			}
			immediate := float64(cards.HandValue(postDiscard) + drawn.Value())
			score := p.simulateAction(postDiscard, discard, immediate, threat, yanivProb, 0, false)
			consider(candidate{
				action: yaniv.TurnAction{Discard: discard, DrawFromDeck: false, DrawPileIndex: idx},
				score:  score,
				dumped: cards.HandValue(discard),
			})
		}
	}

	// Deck draw: average over a Monte-Carlo sample of the unseen pool,
	// seeded from the observable turn state (see sampleUnseen). The deck
	// draw's actual card is unknown until yaniv.Game.PlayTurn physically
	// draws it, so candidate discards are enumerated from the pre-draw hand
	// only — a discard naming the sampled card's id would be rejected as
	// illegal whenever the real draw turns out to be a different card.
	samples := p.sampleUnseen(unseen, defaultRolloutSamples)
	for _, discard := range p.discardOptions(hand) {
		postHand, ok := removeAll(hand, discard)
		if !ok {
			continue
		}
		sumScore := 0.0
		for _, sampled := range samples {
			postDiscard := append(append([]cards.Card(nil), postHand...), sampled)
			immediate := float64(cards.HandValue(postDiscard))
			sumScore += p.simulateAction(postDiscard, discard, immediate, threat, yanivProb, unseenVar, true)
		}
		consider(candidate{
			action: yaniv.TurnAction{Discard: discard, DrawFromDeck: true},
			score:  sumScore / float64(len(samples)),
			dumped: cards.HandValue(discard),
		})
	}

	if best == nil {
		// Degenerate fallback: discard the single highest card, draw from deck.
		worst := hand[0]
		for _, c := range hand {
			if c.Value() > worst.Value() {
				worst = c
			}
		}
		return yaniv.TurnAction{Discard: []cards.Card{worst}, DrawFromDeck: true}
	}
	return best.action
}

// scoreCandidate combines the decision rule's terms into one comparable score.
func (p *Player) scoreCandidate(postDiscard, discard []cards.Card, immediate, threat, yanivProb, unseenVar float64, fromDeck bool) float64 {
	future := p.bestResidualPoints(postDiscard)
	heuristicCost := weightThreatImmediate*threat*immediate +
		weightFeedPenalty*feedPenalty(p, discard) +
		weightJokerDiscard*jokerDiscardPenalty(discard)

	reset := p.resetBonus(immediate, yanivProb, len(postDiscard))
	composition := weightComposition * handCompositionBonus(postDiscard)

	uncertainty := 0.0
	if fromDeck {
		uncertainty = weightUncertainty * math.Sqrt(unseenVar) * (1 + threat)
	}

	return future + heuristicCost + uncertainty - reset - composition
}

// feedPenalty scores how much discard hands an opponent useful information
// or material.
func feedPenalty(p *Player, discard []cards.Card) float64 {
	total := 0.0
	for _, c := range discard {
		if c.IsJoker() {
			total += feedBaseJoker
			continue
		}
		switch {
		case c.Value() <= 3:
			total += feedBaseLowValue
		case c.Value() <= 5:
			total += feedBaseMidValue
		default:
			total += feedBaseHighValue
		}

		for _, m := range p.opponents {
			if rankKnown(m, c.RankIndex()) {
				total += feedKnownRank
			}
			if suitRankKnown(m, c.Suit(), c.RankIndex()-1) || suitRankKnown(m, c.Suit(), c.RankIndex()+1) {
				total += feedAdjacentKnown
			}
			if n := m.collectedRanks[c.RankIndex()]; n > 0 {
				total += feedCollectedRank * float64(n)
			}
			lowAdj := m.collectedSuitRanks[c.Suit()][c.RankIndex()-1]
			highAdj := m.collectedSuitRanks[c.Suit()][c.RankIndex()+1]
			if lowAdj && highAdj {
				total += feedBridge
			} else if lowAdj || highAdj {
				total += feedAdjacentCollec
			}
			if recentlyDiscardedRank(m, c.RankIndex()) {
				total += feedRecentDiscard
			}
		}
	}
	return total
}

func rankKnown(m *opponentModel, rank int) bool {
	for id, n := range m.knownCards {
		if n > 0 && cards.New(id).RankIndex() == rank {
			return true
		}
	}
	return false
}

func suitRankKnown(m *opponentModel, suit cards.Suit, rank int) bool {
	if rank < 1 || rank > 13 {
		return false
	}
	for id, n := range m.knownCards {
		if n <= 0 {
			continue
		}
		c := cards.New(id)
		if c.Suit() == suit && c.RankIndex() == rank {
			return true
		}
	}
	return false
}

func recentlyDiscardedRank(m *opponentModel, rank int) bool {
	n := len(m.discardHistory)
	start := n - recentDiscardWindow
	if start < 0 {
		start = 0
	}
	for _, c := range m.discardHistory[start:] {
		if !c.IsJoker() && c.RankIndex() == rank {
			return true
		}
	}
	return false
}

func jokerDiscardPenalty(discard []cards.Card) float64 {
	n := 0.0
	for _, c := range discard {
		if c.IsJoker() {
			n++
		}
	}
	return n
}

// handCompositionBonus rewards hands that still hold meld potential: pairs
// sharing a rank and suit-adjacent cards.
func handCompositionBonus(hand []cards.Card) float64 {
	bonus := 0.0
	for i := 0; i < len(hand); i++ {
		for j := i + 1; j < len(hand); j++ {
			a, b := hand[i], hand[j]
			if a.IsJoker() || b.IsJoker() {
				bonus += 0.5
				continue
			}
			if a.RankIndex() == b.RankIndex() {
				bonus += 1.0
			} else if a.Suit() == b.Suit() && absInt(a.RankIndex()-b.RankIndex()) == 1 {
				bonus += 0.7
			}
		}
	}
	return bonus
}

// resetBonus rewards lines that would land this seat's score exactly on 50
// or 100 should an opponent call Yaniv soon, since that triggers a 50-point
// reset instead of a straight addition.
func (p *Player) resetBonus(immediate, yanivProb float64, handSize int) float64 {
	self := p.game.Players[p.selfIndex]
	projected := self.Score + int(math.Round(immediate))
	if projected != 50 && projected != 100 {
		return 0
	}
	successFactor := clamp01(1 - float64(handSize)/10)
	return baseResetBonus * yanivProb * successFactor
}

// bestDiscard finds the discard from hand leaving the smallest residual hand
// value, memoized by hand signature. Separate from bestResidualPoints (which
// only needs the number) so both the discard shape and its residual are
// computed once and shared.
func (p *Player) bestDiscard(hand []cards.Card) bestDiscardEntry {
	sig := cards.Signature(hand)
	if v, ok := p.bestDiscardCache.Get(sig); ok {
		return v
	}
	best := bestDiscardEntry{residual: cards.HandValue(hand)}
	for _, discard := range p.discardOptions(hand) {
		residual := cards.HandValue(hand) - cards.HandValue(discard)
		if residual < best.residual {
			best = bestDiscardEntry{discard: discard, residual: residual}
		}
	}
	p.bestDiscardCache.Add(sig, best)
	return best
}

// bestResidualPoints approximates the best hand value reachable after one
// more optimal discard from hand, memoized by hand signature.
func (p *Player) bestResidualPoints(hand []cards.Card) float64 {
	sig := cards.Signature(hand)
	if v, ok := p.bestResidualCache.Get(sig); ok {
		return v
	}
	v := float64(p.bestDiscard(hand).residual)
	p.bestResidualCache.Add(sig, v)
	return v
}

// simulateAction memoizes scoreCandidate's result for a post-discard hand,
// keyed by that hand's signature plus whether this candidate came from the
// deck-draw path (pruned to the pre-draw hand, per DecideAction) or the
// pile-draw path (which never prunes).
func (p *Player) simulateAction(postDiscard, discard []cards.Card, immediate, threat, yanivProb, unseenVar float64, pruned bool) float64 {
	key := cards.Signature(postDiscard)
	if pruned {
		key += "|pruned"
	}
	if v, ok := p.simulateCache.Get(key); ok {
		return v
	}
	v := p.scoreCandidate(postDiscard, discard, immediate, threat, yanivProb, unseenVar, pruned)
	p.simulateCache.Add(key, v)
	return v
}

// sampleUnseen draws up to n cards without replacement from unseen for the
// deck-draw Monte-Carlo rollout. It seeds a private rng.Source from this
// turn's observable state rather than drawing from the shared p.rng, which
// advances on every call: two evaluations of the same observable turn must
// sample identically, which a shared, advancing source can't guarantee.
func (p *Player) sampleUnseen(unseen []cards.Card, n int) []cards.Card {
	if len(unseen) == 0 {
		return nil
	}
	if n > len(unseen) {
		n = len(unseen)
	}
	pool := append([]cards.Card(nil), unseen...)
	src := rng.New(p.observableSeed())
	src.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:n]
}

// observableSeed hashes this seat's own hand, the public discard pile, and
// every opponent's hand count — in a fixed order — into a reproducible
// int64 seed: the same observable turn state always yields the same seed,
// so sampleUnseen's rollout is identical across repeated evaluations of
// that turn.
func (p *Player) observableSeed() int64 {
	h := fnv.New64a()
	h.Write([]byte(cards.Signature(p.game.Players[p.selfIndex].Hand)))
	h.Write([]byte{'|'})
	h.Write([]byte(cards.Signature(p.game.DiscardPile)))
	for i, pl := range p.game.Players {
		if i == p.selfIndex {
			continue
		}
		h.Write([]byte{'|'})
		h.Write([]byte(strconv.Itoa(i)))
		h.Write([]byte{':'})
		h.Write([]byte(strconv.Itoa(len(pl.Hand))))
	}
	return int64(h.Sum64())
}

func removeAll(hand, toRemove []cards.Card) ([]cards.Card, bool) {
	result := append([]cards.Card(nil), hand...)
	for _, c := range toRemove {
		var removed bool
		result, removed = cards.RemoveByID(result, c.ID)
		if !removed {
			return nil, false
		}
	}
	return result, true
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

