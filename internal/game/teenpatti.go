package game

import (
	"github.com/free11/cardgame-server-go/internal/deck"
	"github.com/free11/cardgame-server-go/internal/game/eval"
)

// teenPattiAnte is the opening stake every hand starts at.
const teenPattiAnte = 10

// TeenPattiState runs a Teen Patti hand: deal, betting rounds, and showdown.
type TeenPattiState struct {
	deck        []deck.Card
	hands       map[string][]deck.Card
	pot         int
	currentBet  int
	currentIdx  int
	playerOrder []string
	folded      []string
	seen        []string
	started     bool
	complete    bool
	winnerID    string
}

// NewTeenPattiState returns an undealt Teen Patti state.
func NewTeenPattiState() *TeenPattiState {
	return &TeenPattiState{
		hands:      make(map[string][]deck.Card),
		currentBet: teenPattiAnte,
	}
}

// DealCards shuffles a fresh deck and deals 3 cards to each player in join
// order, entering the betting round.
func (s *TeenPattiState) DealCards(playerIDs []string) {
	s.deck = deck.Shuffle(deck.New())
	s.playerOrder = append([]string(nil), playerIDs...)
	s.hands = make(map[string][]deck.Card, len(playerIDs))
	s.pot = 0
	s.currentBet = teenPattiAnte

	for _, id := range playerIDs {
		s.hands[id] = s.draw(3)
	}
	s.started = true
}

func (s *TeenPattiState) draw(n int) []deck.Card {
	cards := make([]deck.Card, 0, n)
	for i := 0; i < n; i++ {
		card := s.deck[len(s.deck)-1]
		s.deck = s.deck[:len(s.deck)-1]
		cards = append(cards, card)
	}
	return cards
}

// ActivePlayers returns players who have not folded, in join order.
func (s *TeenPattiState) ActivePlayers() []string {
	active := make([]string, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		if !contains(s.folded, id) {
			active = append(active, id)
		}
	}
	return active
}

// CurrentPlayer returns the player expected to act. The active set is
// recomputed on every call since folding mutates it.
func (s *TeenPattiState) CurrentPlayer() string {
	if s.complete {
		return ""
	}
	active := s.ActivePlayers()
	if len(active) == 0 {
		return ""
	}
	return active[s.currentIdx%len(active)]
}

// IsComplete reports whether the hand is over.
func (s *TeenPattiState) IsComplete() bool { return s.complete }

// WinnerID returns the winner once the hand is complete.
func (s *TeenPattiState) WinnerID() string { return s.winnerID }

// Hand returns a player's dealt cards.
func (s *TeenPattiState) Hand(playerID string) []deck.Card { return s.hands[playerID] }

// CurrentBet returns the stake a seen player must match.
func (s *TeenPattiState) CurrentBet() int { return s.currentBet }

// HasSeen reports whether a player has viewed their cards.
func (s *TeenPattiState) HasSeen(playerID string) bool { return contains(s.seen, playerID) }

// See marks the player as having viewed their cards. Seen players pay full
// stakes; blind players pay half.
func (s *TeenPattiState) See(playerID string) error {
	if s.complete {
		return ErrGameComplete
	}
	if !contains(s.seen, playerID) {
		s.seen = append(s.seen, playerID)
	}
	return nil
}

// Fold removes the player from the active set and advances the turn. With one
// active player left the hand completes and the survivor wins.
func (s *TeenPattiState) Fold(playerID string) error {
	if s.complete {
		return ErrGameComplete
	}
	if !contains(s.folded, playerID) {
		s.folded = append(s.folded, playerID)
	}
	s.advanceTurn()
	return nil
}

// Call pays the current bet (half for blind players) into the pot and
// advances the turn. It returns the amount paid.
func (s *TeenPattiState) Call(playerID string) (int, error) {
	if s.complete {
		return 0, ErrGameComplete
	}
	amount := s.currentBet
	if !contains(s.seen, playerID) {
		amount = s.currentBet / 2
	}
	s.pot += amount
	s.advanceTurn()
	return amount, nil
}

// Raise sets a new current bet of at least the variant minimum (double for
// seen players) and advances the turn. It returns the amount actually staked.
func (s *TeenPattiState) Raise(playerID string, amount int) (int, error) {
	if s.complete {
		return 0, ErrGameComplete
	}
	minRaise := s.currentBet
	if contains(s.seen, playerID) {
		minRaise = s.currentBet * 2
	}
	if amount < minRaise {
		amount = minRaise
	}
	s.currentBet = amount
	s.pot += amount
	s.advanceTurn()
	return amount, nil
}

// Show forces a showdown when exactly two players remain active. With any
// other active count it is a no-op.
func (s *TeenPattiState) Show(playerID string) error {
	if s.complete {
		return ErrGameComplete
	}
	if len(s.ActivePlayers()) == 2 {
		s.completeGame()
	}
	return nil
}

func (s *TeenPattiState) advanceTurn() {
	active := s.ActivePlayers()
	if len(active) <= 1 {
		s.completeGame()
		return
	}
	s.currentIdx = (s.currentIdx + 1) % len(active)
}

func (s *TeenPattiState) completeGame() {
	s.complete = true
	active := s.ActivePlayers()

	if len(active) == 1 {
		s.winnerID = active[0]
		return
	}

	var bestPlayer string
	var bestHand []deck.Card
	for _, id := range active {
		hand := s.hands[id]
		if bestPlayer == "" {
			bestPlayer, bestHand = id, hand
			continue
		}
		cmp, err := eval.CompareTeenPatti(hand, bestHand)
		if err != nil {
			// Hands are dealt with exactly three cards; an error here means
			// the state machine itself is miswired.
			panic(err)
		}
		if cmp > 0 {
			bestPlayer, bestHand = id, hand
		}
	}
	s.winnerID = bestPlayer
}

// TeenPattiView is the per-viewer serialization of a Teen Patti hand.
type TeenPattiView struct {
	Pot           int                   `json:"pot"`
	CurrentBet    int                   `json:"current_bet"`
	CurrentPlayer string                `json:"current_player"`
	PlayerOrder   []string              `json:"player_order"`
	FoldedPlayers []string              `json:"folded_players"`
	SeenPlayers   []string              `json:"seen_players"`
	Hands         map[string][]CardView `json:"hands"`
	IsComplete    bool                  `json:"is_complete"`
	WinnerID      string                `json:"winner_id,omitempty"`
	ActivePlayers []string              `json:"active_players"`
}

// View renders the hand for one viewer. A viewer sees their own cards only
// after choosing to see them; everyone's cards are revealed on completion.
func (s *TeenPattiState) View(viewerID string) any {
	hands := make(map[string][]CardView, len(s.hands))
	for id, cards := range s.hands {
		switch {
		case viewerID == id && contains(s.seen, id):
			hands[id] = visibleCards(cards)
		case s.complete:
			hands[id] = visibleCards(cards)
		default:
			hands[id] = hiddenCards(3)
		}
	}

	return TeenPattiView{
		Pot:           s.pot,
		CurrentBet:    s.currentBet,
		CurrentPlayer: s.CurrentPlayer(),
		PlayerOrder:   append([]string(nil), s.playerOrder...),
		FoldedPlayers: emptyIfNil(s.folded),
		SeenPlayers:   emptyIfNil(s.seen),
		Hands:         hands,
		IsComplete:    s.complete,
		WinnerID:      s.winnerID,
		ActivePlayers: s.ActivePlayers(),
	}
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return append([]string(nil), list...)
}
