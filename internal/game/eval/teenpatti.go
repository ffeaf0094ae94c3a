package eval

import (
	"fmt"
	"sort"

	"github.com/free11/cardgame-server-go/internal/deck"
)

// TeenPattiRank orders Teen Patti hand categories from weakest to strongest.
type TeenPattiRank int

const (
	TeenPattiHighCard TeenPattiRank = iota + 1
	TeenPattiPair
	TeenPattiColor
	TeenPattiSequence
	TeenPattiPureSequence
	TeenPattiTrail
)

var teenPattiRankNames = map[TeenPattiRank]string{
	TeenPattiHighCard:     "High Card",
	TeenPattiPair:         "Pair",
	TeenPattiColor:        "Color (Flush)",
	TeenPattiSequence:     "Sequence",
	TeenPattiPureSequence: "Pure Sequence",
	TeenPattiTrail:        "Trail (Three of a Kind)",
}

func (r TeenPattiRank) String() string {
	if name, ok := teenPattiRankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("TEEN_PATTI_RANK_%d", int(r))
}

// EvaluateTeenPatti classifies a 3-card Teen Patti hand and returns its rank
// together with the tie-break vector compared element-wise between hands of
// equal rank. A hand of any other size is a wiring error in the caller.
func EvaluateTeenPatti(cards []deck.Card) (TeenPattiRank, []int, error) {
	if len(cards) != 3 {
		return 0, nil, fmt.Errorf("teen patti hand requires exactly 3 cards, got %d", len(cards))
	}

	values := cardValues(cards)
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	ascending := cardValues(cards)
	sort.Ints(ascending)

	isFlush := cards[0].Suit == cards[1].Suit && cards[1].Suit == cards[2].Suit
	isSequence := ascending[2]-ascending[0] == 2 && ascending[1]-ascending[0] == 1

	// A-2-3 plays as the lowest sequence.
	if ascending[0] == 2 && ascending[1] == 3 && ascending[2] == 14 {
		isSequence = true
		values = []int{3, 2, 1}
	}

	switch {
	case values[0] == values[1] && values[1] == values[2]:
		return TeenPattiTrail, values, nil
	case isFlush && isSequence:
		return TeenPattiPureSequence, values, nil
	case isSequence:
		return TeenPattiSequence, values, nil
	case isFlush:
		return TeenPattiColor, values, nil
	case values[0] == values[1] || values[1] == values[2]:
		pair, kicker := values[1], values[0]
		if values[0] == values[1] {
			kicker = values[2]
		}
		return TeenPattiPair, []int{pair, pair, kicker}, nil
	default:
		return TeenPattiHighCard, values, nil
	}
}

// CompareTeenPatti compares two Teen Patti hands. It returns 1 if a wins,
// -1 if b wins, and 0 for an exact tie.
func CompareTeenPatti(a, b []deck.Card) (int, error) {
	rankA, valuesA, err := EvaluateTeenPatti(a)
	if err != nil {
		return 0, err
	}
	rankB, valuesB, err := EvaluateTeenPatti(b)
	if err != nil {
		return 0, err
	}

	if rankA != rankB {
		if rankA > rankB {
			return 1, nil
		}
		return -1, nil
	}
	return compareVectors(valuesA, valuesB), nil
}

// TeenPattiHandName returns the display name of a hand for completion
// announcements.
func TeenPattiHandName(cards []deck.Card) (string, error) {
	rank, _, err := EvaluateTeenPatti(cards)
	if err != nil {
		return "", err
	}
	return rank.String(), nil
}

func cardValues(cards []deck.Card) []int {
	values := make([]int, len(cards))
	for i, c := range cards {
		values[i] = c.Value()
	}
	return values
}

// compareVectors compares tie-break vectors lexicographically.
func compareVectors(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] > b[i] {
			return 1
		}
		if a[i] < b[i] {
			return -1
		}
	}
	return 0
}
