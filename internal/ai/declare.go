package ai

import (
	"math"

	"github.com/marianogappa/yaniv-backend/internal/cards"
)

// ShouldDeclareYaniv decides whether this seat should call Yaniv on its
// current hand:
//   - hand value above 5 can never declare;
//   - with no opponents tracked yet (ObserveRound has not run), only
//     declare on a hand worth 2 or less;
//   - otherwise, estimate the probability each opponent's hand is at or
//     below this one (assaf risk), combine assuming independence, and
//     declare only if the combined risk is within the hand-value threshold.
func (p *Player) ShouldDeclareYaniv(hand []cards.Card) bool {
	handValue := cards.HandValue(hand)
	if handValue > 5 {
		return false
	}
	if len(p.opponents) == 0 {
		return handValue <= 2
	}

	risk := p.assafRisk(hand)
	threshold := yanivThreshold[handValue]
	threshold *= 1 - 0.35*clamp01(float64(p.game.Players[p.selfIndex].Score)/100)
	if threshold < 0.03 {
		threshold = 0.03
	}
	threshold -= 0.04 * clamp01(p.resetImpact())
	return risk <= threshold
}

// assafRisk is the probability at least one opponent's hand value is <=
// handValue, combined across opponents assuming independence.
func (p *Player) assafRisk(hand []cards.Card) float64 {
	ownSum := cards.HandValue(hand)
	unseen := p.unseenCards()
	mean, variance := unseenStats(unseen)

	complement := 1.0
	for _, m := range p.opponents {
		complement *= 1 - p.singleOpponentBelowOrEqual(m, ownSum, mean, variance)
	}
	return 1 - complement
}

// singleOpponentBelowOrEqual estimates P(opponent hand value <= ownSum) via
// a normal approximation to the sum of the opponent's unknown cards' values,
// with a continuity correction since the true sum is discrete.
func (p *Player) singleOpponentBelowOrEqual(m *opponentModel, ownSum int, unseenMean, unseenVar float64) float64 {
	knownSum := 0
	knownCount := 0
	for id, n := range m.knownCards {
		if n <= 0 {
			continue
		}
		knownSum += cards.New(id).Value() * n
		knownCount += n
	}
	unknownCount := m.handCount - knownCount
	if unknownCount < 0 {
		unknownCount = 0
	}
	mean := float64(knownSum) + float64(unknownCount)*unseenMean
	variance := float64(unknownCount)*unseenVar + 0.5
	if variance <= 0 {
		if mean <= float64(ownSum) {
			return 1
		}
		return 0
	}
	z := (float64(ownSum) + 0.5 - mean) / math.Sqrt(variance)
	return clamp01(normalCDF(z))
}

// resetImpact measures how close the nearest tracked opponent's score sits
// below a reset boundary (50 or 100): 0 unless some opponent is 1 to 9
// points under one, rising to 0.9 as the gap shrinks to 1.
// ShouldDeclareYaniv subtracts 0.04 times this from its threshold, so a
// call that could hand an opponent a reset needs a lower assaf risk.
func (p *Player) resetImpact() float64 {
	max := 0.0
	for _, m := range p.opponents {
		for _, boundary := range [2]int{50, 100} {
			dist := boundary - m.currentScore
			if dist > 0 && dist <= 10 {
				v := 1 - float64(dist)/10
				if v > max {
					max = v
				}
			}
		}
	}
	return max
}
