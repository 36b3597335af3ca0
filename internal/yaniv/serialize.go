package yaniv

import (
	"github.com/marianogappa/yaniv-backend/internal/cards"
	"github.com/marianogappa/yaniv-backend/internal/rng"
)

// PlayerSnapshot is the serializable form of a Player (no Observer — AI
// observer state is per-instance scratch, never persisted).
type PlayerSnapshot struct {
	Name  string       `json:"name"`
	Score int          `json:"score"`
	Hand  []cards.Card `json:"hand"`
	IsAI  bool         `json:"isAi"`
}

// Snapshot is the serializable form of a Game. The deck is deliberately
// omitted: Deserialize reconstructs it on load from the full canonical deck
// minus whatever is in hands and the discard pile, then reshuffles.
// LastDiscardSize records how many trailing cards of DiscardPile make up
// LastDiscard, since that can't be recovered from DiscardPile alone.
type Snapshot struct {
	Players             []PlayerSnapshot `json:"players"`
	DiscardPile         []cards.Card     `json:"discardPile"`
	LastDiscardSize     int              `json:"lastDiscardSize"`
	CurrentPlayerIndex  int              `json:"currentPlayerIndex"`
	PreviousScores      []int            `json:"previousScores"`
	SlamdownPlayerIndex int              `json:"slamdownPlayerIndex"`
	SlamdownCard        *cards.Card      `json:"slamdownCard"`
	IsFinished          bool             `json:"isFinished"`
	WinnerIndex         int              `json:"winnerIndex"`
}

// Serialize produces the persistable snapshot of g.
func (g *Game) Serialize() Snapshot {
	players := make([]PlayerSnapshot, len(g.Players))
	for i, p := range g.Players {
		players[i] = PlayerSnapshot{
			Name:  p.Name,
			Score: p.Score,
			Hand:  append([]cards.Card(nil), p.Hand...),
			IsAI:  p.IsAI,
		}
	}
	var slamCard *cards.Card
	if g.SlamdownCard != nil {
		c := *g.SlamdownCard
		slamCard = &c
	}
	return Snapshot{
		Players:             players,
		DiscardPile:         append([]cards.Card(nil), g.DiscardPile...),
		LastDiscardSize:     len(g.LastDiscard),
		CurrentPlayerIndex:  g.CurrentPlayerIndex,
		PreviousScores:      append([]int(nil), g.PreviousScores...),
		SlamdownPlayerIndex: g.SlamdownPlayerIndex,
		SlamdownCard:        slamCard,
		IsFinished:          g.IsFinished,
		WinnerIndex:         g.WinnerIndex,
	}
}

// Deserialize rebuilds a Game from a persisted Snapshot. AI players come
// back with a nil Observer — the caller attaches one per seat afterwards
// (via Game.Players[i].Observer = ...), since building an Observer requires
// the very *Game Deserialize is still constructing. r is the RNG used to
// reshuffle the reconstructed deck.
func Deserialize(s Snapshot, r rng.Source) *Game {
	used := make(map[int]bool, cards.NumCards)
	players := make([]*Player, len(s.Players))
	for i, ps := range s.Players {
		for _, c := range ps.Hand {
			used[c.ID] = true
		}
		players[i] = &Player{
			Name:  ps.Name,
			Score: ps.Score,
			Hand:  append([]cards.Card(nil), ps.Hand...),
			IsAI:  ps.IsAI,
		}
	}
	for _, c := range s.DiscardPile {
		used[c.ID] = true
	}

	var deck []cards.Card
	for _, c := range cards.FullDeck() {
		if !used[c.ID] {
			deck = append(deck, c)
		}
	}
	r.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	lastDiscard := append([]cards.Card(nil), s.DiscardPile[len(s.DiscardPile)-s.LastDiscardSize:]...)

	var slamCard *cards.Card
	if s.SlamdownCard != nil {
		c := *s.SlamdownCard
		slamCard = &c
	}

	return &Game{
		Players:             players,
		Deck:                deck,
		DiscardPile:         append([]cards.Card(nil), s.DiscardPile...),
		LastDiscard:         lastDiscard,
		CurrentPlayerIndex:  s.CurrentPlayerIndex,
		PreviousScores:      append([]int(nil), s.PreviousScores...),
		SlamdownPlayerIndex: s.SlamdownPlayerIndex,
		SlamdownCard:        slamCard,
		IsFinished:          s.IsFinished,
		WinnerIndex:         s.WinnerIndex,
		rng:                 r,
	}
}
