package game

import "github.com/free11/cardgame-server-go/internal/deck"

// CardView is a card as serialized to a client. A hidden card carries only
// the hidden marker so non-owners learn nothing but the count.
type CardView struct {
	Suit   deck.Suit `json:"suit,omitempty"`
	Rank   deck.Rank `json:"rank,omitempty"`
	Hidden bool      `json:"hidden,omitempty"`
}

// visibleCards renders a hand face up.
func visibleCards(cards []deck.Card) []CardView {
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = CardView{Suit: c.Suit, Rank: c.Rank}
	}
	return views
}

// hiddenCards renders n face-down placeholders.
func hiddenCards(n int) []CardView {
	views := make([]CardView, n)
	for i := range views {
		views[i] = CardView{Hidden: true}
	}
	return views
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
