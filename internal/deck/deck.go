package deck

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Suit identifies one of the four card suits. The string values double as the
// wire representation sent to clients.
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits lists all suits in deck construction order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Rank identifies a card rank from "2" through "A".
type Rank string

// Ranks lists all ranks in ascending order of value.
var Ranks = []Rank{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// rankValues maps each rank to its numeric value, 2-14 with Ace high.
var rankValues = func() map[Rank]int {
	values := make(map[Rank]int, len(Ranks))
	for i, r := range Ranks {
		values[r] = i + 2
	}
	return values
}()

// Card is an immutable playing card.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// Value returns the numeric value of the card, 2-14 with Ace high. Evaluators
// apply their own low-Ace exceptions where a variant calls for them.
func (c Card) Value() int {
	return rankValues[c.Rank]
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, strings.ToUpper(string(c.Suit[0])))
}

// New returns a standard 52-card deck containing every suit/rank combination
// exactly once, in construction order.
func New() []Card {
	cards := make([]Card, 0, len(Suits)*len(Ranks))
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}
	return cards
}

// NewDouble returns two standard decks combined, used by Rummy.
func NewDouble() []Card {
	return append(New(), New()...)
}

// Shuffle returns a uniformly shuffled copy of cards. The input slice is left
// unmodified.
func Shuffle(cards []Card) []Card {
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
