package game

import (
	"github.com/free11/cardgame-server-go/internal/deck"
	"github.com/free11/cardgame-server-go/internal/game/eval"
)

// rummyHandSize is the number of cards dealt to each player.
const rummyHandSize = 13

// RummyState runs an Indian Rummy game: a continuous draw-then-discard loop
// ending when a player declares a fully melded hand.
type RummyState struct {
	deck        []deck.Card
	discardPile []deck.Card
	hands       map[string][]deck.Card
	currentIdx  int
	playerOrder []string
	hasDrawn    map[string]bool
	started     bool
	complete    bool
	winnerID    string
	points      map[string]int
}

// NewRummyState returns an undealt rummy state.
func NewRummyState() *RummyState {
	return &RummyState{
		hands:    make(map[string][]deck.Card),
		hasDrawn: make(map[string]bool),
		points:   make(map[string]int),
	}
}

// DealCards shuffles a double deck, deals 13 cards to each player, and flips
// one card to seed the discard pile. Two decks are always used regardless of
// player count.
func (s *RummyState) DealCards(playerIDs []string) {
	s.deck = deck.Shuffle(deck.NewDouble())
	s.playerOrder = append([]string(nil), playerIDs...)
	s.hands = make(map[string][]deck.Card, len(playerIDs))
	s.hasDrawn = make(map[string]bool, len(playerIDs))

	for _, id := range playerIDs {
		s.hands[id] = s.draw(rummyHandSize)
		s.hasDrawn[id] = false
	}

	s.discardPile = s.draw(1)
	s.started = true
}

func (s *RummyState) draw(n int) []deck.Card {
	cards := make([]deck.Card, 0, n)
	for i := 0; i < n; i++ {
		card := s.deck[len(s.deck)-1]
		s.deck = s.deck[:len(s.deck)-1]
		cards = append(cards, card)
	}
	return cards
}

// CurrentPlayer returns the player whose turn it is. Rummy has no folding, so
// rotation is a simple round-robin over the join order.
func (s *RummyState) CurrentPlayer() string {
	if s.complete || len(s.playerOrder) == 0 {
		return ""
	}
	return s.playerOrder[s.currentIdx]
}

// IsComplete reports whether a declaration ended the game.
func (s *RummyState) IsComplete() bool { return s.complete }

// WinnerID returns the declaring player once complete.
func (s *RummyState) WinnerID() string { return s.winnerID }

// Hand returns a player's current cards.
func (s *RummyState) Hand(playerID string) []deck.Card { return s.hands[playerID] }

// DeckSize returns the number of cards left in the stock.
func (s *RummyState) DeckSize() int { return len(s.deck) }

// DiscardSize returns the number of cards in the discard pile.
func (s *RummyState) DiscardSize() int { return len(s.discardPile) }

// HasDrawn reports whether the player already drew this turn.
func (s *RummyState) HasDrawn(playerID string) bool { return s.hasDrawn[playerID] }

// Points returns the deadwood scores assigned to non-winners on completion.
func (s *RummyState) Points() map[string]int { return s.points }

// DrawFromDeck draws the top card of the stock into the player's hand. An
// exhausted stock is recovered by reshuffling the discard pile, keeping its
// top card aside as the new seed.
func (s *RummyState) DrawFromDeck(playerID string) (deck.Card, error) {
	if s.complete {
		return deck.Card{}, ErrGameComplete
	}
	if s.hasDrawn[playerID] {
		return deck.Card{}, invalidActionf("already drew this turn")
	}

	if len(s.deck) == 0 {
		top := s.discardPile[len(s.discardPile)-1]
		s.deck = deck.Shuffle(s.discardPile[:len(s.discardPile)-1])
		s.discardPile = []deck.Card{top}
	}

	card := s.draw(1)[0]
	s.hands[playerID] = append(s.hands[playerID], card)
	s.hasDrawn[playerID] = true
	return card, nil
}

// DrawFromDiscard draws the top card of the discard pile.
func (s *RummyState) DrawFromDiscard(playerID string) (deck.Card, error) {
	if s.complete {
		return deck.Card{}, ErrGameComplete
	}
	if s.hasDrawn[playerID] {
		return deck.Card{}, invalidActionf("already drew this turn")
	}
	if len(s.discardPile) == 0 {
		return deck.Card{}, invalidActionf("discard pile is empty")
	}

	card := s.discardPile[len(s.discardPile)-1]
	s.discardPile = s.discardPile[:len(s.discardPile)-1]
	s.hands[playerID] = append(s.hands[playerID], card)
	s.hasDrawn[playerID] = true
	return card, nil
}

// DiscardCard moves the card at cardIdx from the player's hand to the discard
// pile, clears the drawn flag, and passes the turn. Discarding requires
// having drawn first.
func (s *RummyState) DiscardCard(playerID string, cardIdx int) (deck.Card, error) {
	if s.complete {
		return deck.Card{}, ErrGameComplete
	}
	if !s.hasDrawn[playerID] {
		return deck.Card{}, invalidActionf("must draw before discarding")
	}

	hand := s.hands[playerID]
	if cardIdx < 0 || cardIdx >= len(hand) {
		return deck.Card{}, invalidActionf("invalid card index %d", cardIdx)
	}

	card := hand[cardIdx]
	s.hands[playerID] = append(hand[:cardIdx:cardIdx], hand[cardIdx+1:]...)
	s.discardPile = append(s.discardPile, card)
	s.hasDrawn[playerID] = false
	s.advanceTurn()
	return card, nil
}

// Declare validates the supplied melds (index groups into the player's hand)
// and ends the game when every card is melded. A valid declaration requires
// zero deadwood: every meld must be a valid set or sequence and the melded
// indices must cover all 14 positions of the post-draw hand exactly once.
// Non-winners are scored on their full hands for external reward use.
func (s *RummyState) Declare(playerID string, melds [][]int) error {
	if s.complete {
		return ErrGameComplete
	}

	hand := s.hands[playerID]
	used := make(map[int]bool)

	for _, meld := range melds {
		cards := make([]deck.Card, 0, len(meld))
		for _, idx := range meld {
			if idx < 0 || idx >= len(hand) {
				return invalidActionf("meld index %d out of range", idx)
			}
			cards = append(cards, hand[idx])
			used[idx] = true
		}
		if !eval.IsValidSet(cards) && !eval.IsValidSequence(cards) {
			return invalidActionf("invalid meld")
		}
	}

	if len(used) != rummyHandSize+1 || len(hand) != rummyHandSize+1 {
		return invalidActionf("declaration must meld all %d cards", rummyHandSize+1)
	}

	s.winnerID = playerID
	s.complete = true

	for id, cards := range s.hands {
		if id != playerID {
			s.points[id] = eval.DeadwoodPoints(cards, nil)
		}
	}
	return nil
}

func (s *RummyState) advanceTurn() {
	s.currentIdx = (s.currentIdx + 1) % len(s.playerOrder)
}

// RummyView is the per-viewer serialization of a rummy game.
type RummyView struct {
	CurrentPlayer string                `json:"current_player"`
	PlayerOrder   []string              `json:"player_order"`
	Hands         map[string][]CardView `json:"hands"`
	HandSizes     map[string]int        `json:"hand_sizes"`
	DiscardTop    *CardView             `json:"discard_top"`
	DeckSize      int                   `json:"deck_size"`
	IsComplete    bool                  `json:"is_complete"`
	WinnerID      string                `json:"winner_id,omitempty"`
	PlayerPoints  map[string]int        `json:"player_points"`
	HasDrawn      map[string]bool       `json:"has_drawn"`
}

// View renders the game for one viewer. Opponents' hands show only card
// counts until the game completes; the discard top and deck size are public.
func (s *RummyState) View(viewerID string) any {
	hands := make(map[string][]CardView, len(s.hands))
	sizes := make(map[string]int, len(s.hands))
	for id, cards := range s.hands {
		sizes[id] = len(cards)
		if viewerID == id || s.complete {
			hands[id] = visibleCards(cards)
		} else {
			hands[id] = hiddenCards(len(cards))
		}
	}

	var discardTop *CardView
	if len(s.discardPile) > 0 {
		top := s.discardPile[len(s.discardPile)-1]
		discardTop = &CardView{Suit: top.Suit, Rank: top.Rank}
	}

	points := make(map[string]int, len(s.points))
	for id, p := range s.points {
		points[id] = p
	}
	drawn := make(map[string]bool, len(s.hasDrawn))
	for id, d := range s.hasDrawn {
		drawn[id] = d
	}

	return RummyView{
		CurrentPlayer: s.CurrentPlayer(),
		PlayerOrder:   append([]string(nil), s.playerOrder...),
		Hands:         hands,
		HandSizes:     sizes,
		DiscardTop:    discardTop,
		DeckSize:      len(s.deck),
		IsComplete:    s.complete,
		WinnerID:      s.winnerID,
		PlayerPoints:  points,
		HasDrawn:      drawn,
	}
}
