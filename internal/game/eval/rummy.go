package eval

import (
	"sort"

	"github.com/free11/cardgame-server-go/internal/deck"
)

// IsValidSet reports whether cards form a valid Rummy set: 3 or 4 cards of
// the same rank with no repeated suit.
func IsValidSet(cards []deck.Card) bool {
	if len(cards) < 3 || len(cards) > 4 {
		return false
	}

	suits := make(map[deck.Suit]bool, len(cards))
	for _, c := range cards {
		if c.Rank != cards[0].Rank {
			return false
		}
		if suits[c.Suit] {
			return false
		}
		suits[c.Suit] = true
	}
	return true
}

// IsValidSequence reports whether cards form a valid Rummy sequence: at least
// 3 cards of the same suit with strictly consecutive values. Ace is always
// high here; there is no wraparound.
func IsValidSequence(cards []deck.Card) bool {
	if len(cards) < 3 {
		return false
	}

	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			return false
		}
	}

	values := cardValues(cards)
	sort.Ints(values)
	for i := 1; i < len(values); i++ {
		if values[i]-values[i-1] != 1 {
			return false
		}
	}
	return true
}

// DeadwoodPoints scores the unmelded cards in a hand: face cards count 10,
// Aces 1, and numerals their face value. Melded cards are removed from the
// hand as a multiset before scoring.
func DeadwoodPoints(hand []deck.Card, melds [][]deck.Card) int {
	melded := make(map[deck.Card]int)
	for _, meld := range melds {
		for _, c := range meld {
			melded[c]++
		}
	}

	points := 0
	for _, c := range hand {
		if melded[c] > 0 {
			melded[c]--
			continue
		}
		switch c.Rank {
		case "J", "Q", "K":
			points += 10
		case "A":
			points++
		default:
			points += c.Value()
		}
	}
	return points
}
