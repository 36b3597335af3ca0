// Package cards implements card and deck identity for Yaniv: the 54-card
// numbering scheme, rank/suit/value derivation, and the full canonical deck.
package cards

import "fmt"

// Suit is one of the four standard suits. The zero value is used for jokers,
// which have no suit.
type Suit string

const (
	SuitNone     Suit = ""
	SuitClubs    Suit = "clubs"
	SuitDiamonds Suit = "diamonds"
	SuitHearts   Suit = "hearts"
	SuitSpades   Suit = "spades"
)

// suitOrder fixes the suit-index used by the id formula. Must never change:
// the encoding is the wire format for hands and draw options.
var suitOrder = [4]Suit{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}

// rankNames indexes by rankIndex (1..13); rankNames[0] is unused.
var rankNames = [14]string{
	"", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K",
}

// JokerLow and JokerHigh are the two joker ids.
const (
	JokerLow  = 0
	JokerHigh = 1
)

// NumCards is the size of a full Yaniv deck (2 jokers + 52 standard cards).
const NumCards = 54

// Card is a single playing card, identified solely by its integer id in
// [0, 53]. All other attributes are derived deterministically from the id.
type Card struct {
	ID int `json:"id"`
}

// New constructs a Card from a raw id. It does not validate the id is in
// range; callers that accept ids from the wire should use Valid first.
func New(id int) Card { return Card{ID: id} }

// NewFromRankSuit constructs the unique non-joker card with the given rank
// index (1..13) and suit.
func NewFromRankSuit(rankIndex int, suit Suit) (Card, error) {
	suitIdx, ok := suitIndex(suit)
	if !ok || rankIndex < 1 || rankIndex > 13 {
		return Card{}, fmt.Errorf("invalid rank/suit: %d/%s", rankIndex, suit)
	}
	return Card{ID: (rankIndex-1)*4 + suitIdx + 2}, nil
}

func suitIndex(s Suit) (int, bool) {
	for i, candidate := range suitOrder {
		if candidate == s {
			return i, true
		}
	}
	return 0, false
}

// Valid reports whether the id is in the legal range [0, 53].
func (c Card) Valid() bool { return c.ID >= 0 && c.ID < NumCards }

// IsJoker reports whether this card is one of the two jokers.
func (c Card) IsJoker() bool { return c.ID == JokerLow || c.ID == JokerHigh }

// RankIndex returns A=1..K=13, or 0 for jokers.
func (c Card) RankIndex() int {
	if c.IsJoker() {
		return 0
	}
	return (c.ID-2)/4 + 1
}

// Rank returns the human-readable rank name ("A".."K"), or "" for jokers.
func (c Card) Rank() string {
	if c.IsJoker() {
		return ""
	}
	return rankNames[c.RankIndex()]
}

// Suit returns the card's suit, or SuitNone for jokers.
func (c Card) Suit() Suit {
	if c.IsJoker() {
		return SuitNone
	}
	return suitOrder[(c.ID-2)%4]
}

// Value is the card's Yaniv point value: min(rankIndex, 10), 0 for jokers.
func (c Card) Value() int {
	if c.IsJoker() {
		return 0
	}
	r := c.RankIndex()
	if r > 10 {
		return 10
	}
	return r
}

// Equal reports whether two cards are the same card (same id).
func (c Card) Equal(other Card) bool { return c.ID == other.ID }

func (c Card) String() string {
	if c.IsJoker() {
		return "Joker"
	}
	return fmt.Sprintf("%s%s", c.Rank(), suitSymbol(c.Suit()))
}

func suitSymbol(s Suit) string {
	switch s {
	case SuitClubs:
		return "C"
	case SuitDiamonds:
		return "D"
	case SuitHearts:
		return "H"
	case SuitSpades:
		return "S"
	default:
		return ""
	}
}

// FullDeck returns the 54 canonical cards in id order. Callers must not
// mutate the returned slice's backing array across calls; it is freshly
// allocated each time.
func FullDeck() []Card {
	deck := make([]Card, NumCards)
	for i := 0; i < NumCards; i++ {
		deck[i] = Card{ID: i}
	}
	return deck
}

// SortByID sorts cards in place, ascending by id — the stable client-render
// order used after StartTurn.
func SortByID(cs []Card) {
	// insertion sort: hands are small (<= ~7 cards typically), and this
	// keeps the dependency surface to stdlib for a pure value operation.
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && cs[j-1].ID > cs[j].ID; j-- {
			cs[j-1], cs[j] = cs[j], cs[j-1]
		}
	}
}

// SortByRank sorts cards in place, ascending by rank index. Used by the AI's
// run-enumeration to put a same-suit subset into gap-computation order.
func SortByRank(cs []Card) {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && cs[j-1].RankIndex() > cs[j].RankIndex(); j-- {
			cs[j-1], cs[j] = cs[j], cs[j-1]
		}
	}
}

// HandValue sums the Yaniv point value of every card in the hand.
func HandValue(hand []Card) int {
	sum := 0
	for _, c := range hand {
		sum += c.Value()
	}
	return sum
}

// ContainsID reports whether id is present in cs.
func ContainsID(cs []Card, id int) bool {
	for _, c := range cs {
		if c.ID == id {
			return true
		}
	}
	return false
}

// RemoveByID returns a new slice with the first card matching id removed.
// The bool reports whether a card was actually removed.
func RemoveByID(cs []Card, id int) ([]Card, bool) {
	out := make([]Card, 0, len(cs))
	removed := false
	for _, c := range cs {
		if !removed && c.ID == id {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out, removed
}

// Signature returns a stable, order-independent-by-construction key for a
// hand: the sorted card ids joined by comma. Used as the AI's memo-cache key.
func Signature(hand []Card) string {
	sorted := make([]Card, len(hand))
	copy(sorted, hand)
	SortByID(sorted)
	buf := make([]byte, 0, len(sorted)*3)
	for i, c := range sorted {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendInt(buf, c.ID)
	}
	return string(buf)
}

func appendInt(buf []byte, n int) []byte {
	if n == 0 {
		return append(buf, '0')
	}
	start := len(buf)
	for n > 0 {
		buf = append(buf, byte('0'+n%10))
		n /= 10
	}
	// reverse the digits just appended
	for i, j := start, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}
