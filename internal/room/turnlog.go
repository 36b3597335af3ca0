package room

import "github.com/marianogappa/yaniv-backend/internal/cards"

// TurnLog is the room's lastTurn bookkeeping: who acted, what they
// discarded, and where their card came from.
type TurnLog struct {
	ActorName   string
	Discarded   []cards.Card
	DrawSource  string // "deck" | "pile" | "slamdown"
	DrawnCard   *cards.Card
}

const (
	DrawSourceDeck     = "deck"
	DrawSourcePile     = "pile"
	DrawSourceSlamdown = "slamdown"
)

// RoundPlayerLog is one player's line in a RoundLog.
type RoundPlayerLog struct {
	Name        string
	ScoreChange int
	FinalHand   []cards.Card
	HandValue   int
	Reset       bool
	Eliminated  bool
}

// RoundLog is the room's lastRound bookkeeping: the outcome of the most
// recent Yaniv/assaf call.
type RoundLog struct {
	DeclarerName      string
	DeclarerHandValue int
	Assaf             bool
	AssafByName       string
	Players           []RoundPlayerLog
}
