package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/free11/cardgame-server-go/internal/deck"
)

func TestEvaluatePoker(t *testing.T) {
	tests := []struct {
		name       string
		cards      []deck.Card
		wantRank   PokerRank
		wantValues []int
	}{
		{
			name: "royal flush",
			cards: []deck.Card{
				card(deck.Hearts, "A"),
				card(deck.Hearts, "K"),
				card(deck.Hearts, "Q"),
				card(deck.Hearts, "J"),
				card(deck.Hearts, "10"),
			},
			wantRank:   PokerRoyalFlush,
			wantValues: []int{14, 13, 12, 11, 10},
		},
		{
			name: "straight flush",
			cards: []deck.Card{
				card(deck.Clubs, "9"),
				card(deck.Clubs, "8"),
				card(deck.Clubs, "7"),
				card(deck.Clubs, "6"),
				card(deck.Clubs, "5"),
			},
			wantRank:   PokerStraightFlush,
			wantValues: []int{9, 8, 7, 6, 5},
		},
		{
			name: "four of a kind with kicker",
			cards: []deck.Card{
				card(deck.Hearts, "2"),
				card(deck.Spades, "2"),
				card(deck.Clubs, "2"),
				card(deck.Diamonds, "2"),
				card(deck.Hearts, "K"),
			},
			wantRank:   PokerFourOfAKind,
			wantValues: []int{2, 2, 2, 2, 13},
		},
		{
			name: "full house orders trips before pair",
			cards: []deck.Card{
				card(deck.Hearts, "3"),
				card(deck.Spades, "3"),
				card(deck.Clubs, "3"),
				card(deck.Hearts, "A"),
				card(deck.Spades, "A"),
			},
			wantRank:   PokerFullHouse,
			wantValues: []int{3, 3, 3, 14, 14},
		},
		{
			name: "flush",
			cards: []deck.Card{
				card(deck.Diamonds, "2"),
				card(deck.Diamonds, "6"),
				card(deck.Diamonds, "9"),
				card(deck.Diamonds, "J"),
				card(deck.Diamonds, "K"),
			},
			wantRank:   PokerFlush,
			wantValues: []int{13, 11, 9, 6, 2},
		},
		{
			name: "wheel plays as lowest straight",
			cards: []deck.Card{
				card(deck.Hearts, "A"),
				card(deck.Spades, "2"),
				card(deck.Clubs, "3"),
				card(deck.Diamonds, "4"),
				card(deck.Hearts, "5"),
			},
			wantRank:   PokerStraight,
			wantValues: []int{5, 4, 3, 2, 1},
		},
		{
			name: "three of a kind",
			cards: []deck.Card{
				card(deck.Hearts, "8"),
				card(deck.Spades, "8"),
				card(deck.Clubs, "8"),
				card(deck.Hearts, "K"),
				card(deck.Spades, "4"),
			},
			wantRank:   PokerThreeOfAKind,
			wantValues: []int{8, 8, 8, 13, 4},
		},
		{
			name: "two pair orders high pair first",
			cards: []deck.Card{
				card(deck.Hearts, "4"),
				card(deck.Spades, "4"),
				card(deck.Clubs, "J"),
				card(deck.Diamonds, "J"),
				card(deck.Hearts, "9"),
			},
			wantRank:   PokerTwoPair,
			wantValues: []int{11, 11, 4, 4, 9},
		},
		{
			name: "one pair",
			cards: []deck.Card{
				card(deck.Hearts, "6"),
				card(deck.Spades, "6"),
				card(deck.Clubs, "A"),
				card(deck.Diamonds, "10"),
				card(deck.Hearts, "3"),
			},
			wantRank:   PokerOnePair,
			wantValues: []int{6, 6, 14, 10, 3},
		},
		{
			name: "high card",
			cards: []deck.Card{
				card(deck.Hearts, "2"),
				card(deck.Spades, "5"),
				card(deck.Clubs, "8"),
				card(deck.Diamonds, "J"),
				card(deck.Hearts, "A"),
			},
			wantRank:   PokerHighCard,
			wantValues: []int{14, 11, 8, 5, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, values, err := EvaluatePoker(tt.cards)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRank, rank)
			assert.Equal(t, tt.wantValues, values)
		})
	}

	t.Run("rejects wrong hand size", func(t *testing.T) {
		_, _, err := EvaluatePoker([]deck.Card{card(deck.Hearts, "A")})
		assert.Error(t, err)
	})
}

func TestBestPokerHand(t *testing.T) {
	t.Run("finds royal flush across hole and community", func(t *testing.T) {
		hole := []deck.Card{
			card(deck.Hearts, "A"),
			card(deck.Hearts, "K"),
		}
		community := []deck.Card{
			card(deck.Hearts, "Q"),
			card(deck.Hearts, "J"),
			card(deck.Hearts, "10"),
			card(deck.Clubs, "2"),
			card(deck.Diamonds, "3"),
		}

		hand, rank, values, err := BestPokerHand(hole, community)
		require.NoError(t, err)
		assert.Equal(t, PokerRoyalFlush, rank)
		assert.Equal(t, []int{14, 13, 12, 11, 10}, values)
		assert.Len(t, hand, 5)
	})

	t.Run("finds quads from pocket pair", func(t *testing.T) {
		hole := []deck.Card{
			card(deck.Clubs, "2"),
			card(deck.Diamonds, "2"),
		}
		community := []deck.Card{
			card(deck.Hearts, "2"),
			card(deck.Spades, "2"),
			card(deck.Clubs, "5"),
			card(deck.Diamonds, "9"),
			card(deck.Hearts, "K"),
		}

		_, rank, values, err := BestPokerHand(hole, community)
		require.NoError(t, err)
		assert.Equal(t, PokerFourOfAKind, rank)
		assert.Equal(t, []int{2, 2, 2, 2, 13}, values)
	})

	t.Run("works with a partial board", func(t *testing.T) {
		hole := []deck.Card{
			card(deck.Clubs, "A"),
			card(deck.Diamonds, "A"),
		}
		community := []deck.Card{
			card(deck.Hearts, "A"),
			card(deck.Spades, "7"),
			card(deck.Clubs, "9"),
		}

		_, rank, _, err := BestPokerHand(hole, community)
		require.NoError(t, err)
		assert.Equal(t, PokerThreeOfAKind, rank)
	})

	t.Run("rejects fewer than 5 total cards", func(t *testing.T) {
		_, _, _, err := BestPokerHand(
			[]deck.Card{card(deck.Hearts, "A"), card(deck.Hearts, "K")},
			[]deck.Card{card(deck.Hearts, "Q")},
		)
		assert.Error(t, err)
	})
}

func TestPokerHandName(t *testing.T) {
	name, err := PokerHandName(
		[]deck.Card{card(deck.Hearts, "A"), card(deck.Spades, "A")},
		[]deck.Card{
			card(deck.Clubs, "A"),
			card(deck.Diamonds, "K"),
			card(deck.Hearts, "K"),
			card(deck.Spades, "4"),
			card(deck.Clubs, "9"),
		},
	)
	require.NoError(t, err)
	assert.Equal(t, "Full House", name)
}
