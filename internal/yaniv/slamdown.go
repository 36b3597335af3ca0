package yaniv

import "github.com/marianogappa/yaniv-backend/internal/cards"

// detectSlamdown runs the slamdown check after a turn's draw and discard
// have already been applied to player state. It only ever makes a slamdown
// available to a human acting player who drew from the deck — AI players
// never trigger slamdown availability.
func (g *Game) detectSlamdown(playerIndex int, discarded []cards.Card, drawn cards.Card, drawnFromPile, slamdownsAllowed bool) {
	g.SlamdownPlayerIndex = -1
	g.SlamdownCard = nil

	if !slamdownsAllowed || drawnFromPile || drawn.IsJoker() {
		return
	}
	player := g.Players[playerIndex]
	if player.IsAI || len(player.Hand) < 2 || len(discarded) < 2 {
		return
	}

	legal, isRun, ordered := cards.ValidateDiscard(discarded)
	if !legal {
		return
	}

	if !isRun {
		rank := -1
		for _, c := range discarded {
			if !c.IsJoker() {
				rank = c.RankIndex()
				break
			}
		}
		if rank != -1 && drawn.RankIndex() == rank {
			g.setSlamdownAvailable(playerIndex, drawn)
		}
		return
	}

	low, high, suit, ok := cards.RunEndRanks(ordered)
	if !ok || drawn.Suit() != suit {
		return
	}
	if drawn.RankIndex() == low-1 || drawn.RankIndex() == high+1 {
		g.setSlamdownAvailable(playerIndex, drawn)
	}
}

func (g *Game) setSlamdownAvailable(playerIndex int, card cards.Card) {
	g.SlamdownPlayerIndex = playerIndex
	c := card
	g.SlamdownCard = &c
}

// PerformSlamdown executes the available slamdown for playerIndex: removes
// the just-drawn card from the hand, appends it to the discard pile and
// LastDiscard, and clears the slamdown fields. Fails if no slamdown is
// available for this player, or if it would be the player's last card.
func (g *Game) PerformSlamdown(playerIndex int) error {
	if g.IsFinished {
		return ErrGameFinished
	}
	if g.SlamdownPlayerIndex != playerIndex || g.SlamdownCard == nil {
		return ErrSlamdownUnavailable
	}
	player := g.Players[playerIndex]
	if len(player.Hand) <= 1 {
		return ErrIllegalAction
	}

	card := *g.SlamdownCard
	hand, removed := cards.RemoveByID(player.Hand, card.ID)
	if !removed {
		return ErrSlamdownUnavailable
	}
	player.Hand = hand
	g.DiscardPile = append(g.DiscardPile, card)
	g.LastDiscard = append(g.LastDiscard, card)

	g.SlamdownPlayerIndex = -1
	g.SlamdownCard = nil
	return nil
}

// ExpireSlamdown clears any pending slamdown without performing it. Called
// on a Yaniv call; the next discard (detectSlamdown) and a new deal clear
// the same fields directly.
func (g *Game) ExpireSlamdown() {
	g.SlamdownPlayerIndex = -1
	g.SlamdownCard = nil
}
