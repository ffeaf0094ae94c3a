package eval

import (
	"fmt"
	"sort"

	"github.com/free11/cardgame-server-go/internal/deck"
)

// PokerRank orders poker hand categories from weakest to strongest.
type PokerRank int

const (
	PokerHighCard PokerRank = iota + 1
	PokerOnePair
	PokerTwoPair
	PokerThreeOfAKind
	PokerStraight
	PokerFlush
	PokerFullHouse
	PokerFourOfAKind
	PokerStraightFlush
	PokerRoyalFlush
)

var pokerRankNames = map[PokerRank]string{
	PokerHighCard:      "High Card",
	PokerOnePair:       "One Pair",
	PokerTwoPair:       "Two Pair",
	PokerThreeOfAKind:  "Three of a Kind",
	PokerStraight:      "Straight",
	PokerFlush:         "Flush",
	PokerFullHouse:     "Full House",
	PokerFourOfAKind:   "Four of a Kind",
	PokerStraightFlush: "Straight Flush",
	PokerRoyalFlush:    "Royal Flush",
}

func (r PokerRank) String() string {
	if name, ok := pokerRankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("POKER_RANK_%d", int(r))
}

// EvaluatePoker classifies a 5-card poker hand and returns its rank with the
// category-specific tie-break vector. Winner determination depends on the
// exact vector layout: quads are [q,q,q,q,kicker], a full house is
// [trip,trip,trip,pair,pair], two pair is [hi,hi,lo,lo,kicker], and so on.
func EvaluatePoker(cards []deck.Card) (PokerRank, []int, error) {
	if len(cards) != 5 {
		return 0, nil, fmt.Errorf("poker hand requires exactly 5 cards, got %d", len(cards))
	}

	values := cardValues(cards)
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	isFlush := true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			isFlush = false
			break
		}
	}

	counts := make(map[int]int, 5)
	for _, v := range values {
		counts[v]++
	}

	distinct := make([]int, 0, len(counts))
	for v := range counts {
		distinct = append(distinct, v)
	}
	sort.Ints(distinct)

	isStraight := len(distinct) == 5 && distinct[4]-distinct[0] == 4

	// A-2-3-4-5 (the wheel) plays as the lowest straight.
	if len(distinct) == 5 && distinct[0] == 2 && distinct[3] == 5 && distinct[4] == 14 {
		isStraight = true
		values = []int{5, 4, 3, 2, 1}
	}

	countShape := make([]int, 0, len(counts))
	for _, c := range counts {
		countShape = append(countShape, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(countShape)))

	switch {
	case isFlush && isStraight && values[0] == 14 && values[4] == 10:
		return PokerRoyalFlush, values, nil
	case isFlush && isStraight:
		return PokerStraightFlush, values, nil
	case countShape[0] == 4:
		quad := rankWithCount(counts, 4)
		kicker := rankWithCount(counts, 1)
		return PokerFourOfAKind, []int{quad, quad, quad, quad, kicker}, nil
	case countShape[0] == 3 && countShape[1] == 2:
		trip := rankWithCount(counts, 3)
		pair := rankWithCount(counts, 2)
		return PokerFullHouse, []int{trip, trip, trip, pair, pair}, nil
	case isFlush:
		return PokerFlush, values, nil
	case isStraight:
		return PokerStraight, values, nil
	case countShape[0] == 3:
		trip := rankWithCount(counts, 3)
		kickers := ranksWithCount(counts, 1)
		return PokerThreeOfAKind, append([]int{trip, trip, trip}, kickers...), nil
	case countShape[0] == 2 && countShape[1] == 2:
		pairs := ranksWithCount(counts, 2)
		kicker := rankWithCount(counts, 1)
		return PokerTwoPair, []int{pairs[0], pairs[0], pairs[1], pairs[1], kicker}, nil
	case countShape[0] == 2:
		pair := rankWithCount(counts, 2)
		kickers := ranksWithCount(counts, 1)
		return PokerOnePair, append([]int{pair, pair}, kickers...), nil
	default:
		return PokerHighCard, values, nil
	}
}

// BestPokerHand finds the strongest 5-card hand among all C(n,5) combinations
// of hole plus community cards. Brute-force enumeration is intentional; n
// never exceeds 7 in Texas Hold'em.
func BestPokerHand(hole, community []deck.Card) ([]deck.Card, PokerRank, []int, error) {
	all := make([]deck.Card, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)

	if len(all) < 5 {
		return nil, 0, nil, fmt.Errorf("best hand requires at least 5 cards, got %d", len(all))
	}

	var (
		bestHand   []deck.Card
		bestRank   PokerRank
		bestValues []int
	)

	combo := make([]deck.Card, 5)
	var walk func(start, depth int) error
	walk = func(start, depth int) error {
		if depth == 5 {
			hand := make([]deck.Card, 5)
			copy(hand, combo)
			rank, values, err := EvaluatePoker(hand)
			if err != nil {
				return err
			}
			if bestRank == 0 || rank > bestRank ||
				(rank == bestRank && compareVectors(values, bestValues) > 0) {
				bestHand = hand
				bestRank = rank
				bestValues = values
			}
			return nil
		}
		for i := start; i <= len(all)-(5-depth); i++ {
			combo[depth] = all[i]
			if err := walk(i+1, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(0, 0); err != nil {
		return nil, 0, nil, err
	}
	return bestHand, bestRank, bestValues, nil
}

// PokerHandName returns the display name of the best hand a player can make.
func PokerHandName(hole, community []deck.Card) (string, error) {
	_, rank, _, err := BestPokerHand(hole, community)
	if err != nil {
		return "", err
	}
	return rank.String(), nil
}

// rankWithCount returns the highest card value appearing exactly count times.
func rankWithCount(counts map[int]int, count int) int {
	best := 0
	for v, c := range counts {
		if c == count && v > best {
			best = v
		}
	}
	return best
}

// ranksWithCount returns all card values appearing exactly count times, in
// descending order.
func ranksWithCount(counts map[int]int, count int) []int {
	ranks := make([]int, 0, len(counts))
	for v, c := range counts {
		if c == count {
			ranks = append(ranks, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))
	return ranks
}
