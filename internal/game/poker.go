package game

import (
	"github.com/free11/cardgame-server-go/internal/deck"
	"github.com/free11/cardgame-server-go/internal/game/eval"
)

// Phase names for a Texas Hold'em hand.
const (
	PhasePreflop  = "preflop"
	PhaseFlop     = "flop"
	PhaseTurn     = "turn"
	PhaseRiver    = "river"
	PhaseShowdown = "showdown"
)

// pokerMinOpen is the minimum opening raise when nothing has been bet.
const pokerMinOpen = 20

// PokerState runs a Texas Hold'em hand through its betting phases.
type PokerState struct {
	deck        []deck.Card
	hands       map[string][]deck.Card
	community   []deck.Card
	pot         int
	currentBet  int
	playerBets  map[string]int
	currentIdx  int
	playerOrder []string
	folded      []string
	allIn       []string
	phase       string
	started     bool
	complete    bool
	winnerID    string
}

// NewPokerState returns an undealt poker state.
func NewPokerState() *PokerState {
	return &PokerState{
		hands:      make(map[string][]deck.Card),
		playerBets: make(map[string]int),
		phase:      PhasePreflop,
	}
}

// DealCards shuffles a fresh deck and deals 2 hole cards to each player.
func (s *PokerState) DealCards(playerIDs []string) {
	s.deck = deck.Shuffle(deck.New())
	s.playerOrder = append([]string(nil), playerIDs...)
	s.hands = make(map[string][]deck.Card, len(playerIDs))
	s.playerBets = make(map[string]int, len(playerIDs))
	s.community = nil
	s.phase = PhasePreflop

	for _, id := range playerIDs {
		s.hands[id] = s.draw(2)
		s.playerBets[id] = 0
	}
	s.started = true
}

func (s *PokerState) draw(n int) []deck.Card {
	cards := make([]deck.Card, 0, n)
	for i := 0; i < n; i++ {
		card := s.deck[len(s.deck)-1]
		s.deck = s.deck[:len(s.deck)-1]
		cards = append(cards, card)
	}
	return cards
}

// dealCommunity deals the next tranche of community cards: flop 3, then one
// each for turn and river.
func (s *PokerState) dealCommunity() {
	switch s.phase {
	case PhasePreflop:
		s.community = append(s.community, s.draw(3)...)
		s.phase = PhaseFlop
	case PhaseFlop:
		s.community = append(s.community, s.draw(1)...)
		s.phase = PhaseTurn
	case PhaseTurn:
		s.community = append(s.community, s.draw(1)...)
		s.phase = PhaseRiver
	}
}

// ActivePlayers returns players who have not folded, in join order.
func (s *PokerState) ActivePlayers() []string {
	active := make([]string, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		if !contains(s.folded, id) {
			active = append(active, id)
		}
	}
	return active
}

// bettingPlayers returns active players still eligible to act, excluding
// those all-in.
func (s *PokerState) bettingPlayers() []string {
	betting := make([]string, 0, len(s.playerOrder))
	for _, id := range s.ActivePlayers() {
		if !contains(s.allIn, id) {
			betting = append(betting, id)
		}
	}
	return betting
}

// CurrentPlayer returns the player expected to act, skipping folded and
// all-in players.
func (s *PokerState) CurrentPlayer() string {
	if s.complete {
		return ""
	}
	betting := s.bettingPlayers()
	if len(betting) == 0 {
		return ""
	}
	return betting[s.currentIdx%len(betting)]
}

// IsComplete reports whether the hand is over.
func (s *PokerState) IsComplete() bool { return s.complete }

// WinnerID returns the winner once the hand is complete.
func (s *PokerState) WinnerID() string { return s.winnerID }

// Hand returns a player's hole cards.
func (s *PokerState) Hand(playerID string) []deck.Card { return s.hands[playerID] }

// Community returns the community cards dealt so far.
func (s *PokerState) Community() []deck.Card { return s.community }

// Phase returns the current betting phase.
func (s *PokerState) Phase() string { return s.phase }

// Fold removes the player from the hand and advances the turn.
func (s *PokerState) Fold(playerID string) error {
	if s.complete {
		return ErrGameComplete
	}
	if !contains(s.folded, playerID) {
		s.folded = append(s.folded, playerID)
	}
	s.advanceTurn()
	return nil
}

// Check passes the action. It is only legal with no outstanding bet to call.
func (s *PokerState) Check(playerID string) error {
	if s.complete {
		return ErrGameComplete
	}
	if s.currentBet > s.playerBets[playerID] {
		return invalidActionf("cannot check, must call or fold")
	}
	s.advanceTurn()
	return nil
}

// Call pays the difference up to the current bet and advances the turn. It
// returns the amount paid.
func (s *PokerState) Call(playerID string) (int, error) {
	if s.complete {
		return 0, ErrGameComplete
	}
	amount := s.currentBet - s.playerBets[playerID]
	s.playerBets[playerID] = s.currentBet
	s.pot += amount
	s.advanceTurn()
	return amount, nil
}

// Raise increases the current bet by at least the table minimum (double the
// current bet, or the fixed floor when unopened) and advances the turn. It
// returns the player's total outlay for the action.
func (s *PokerState) Raise(playerID string, amount int) (int, error) {
	if s.complete {
		return 0, ErrGameComplete
	}
	minRaise := pokerMinOpen
	if s.currentBet > 0 {
		minRaise = s.currentBet * 2
	}
	if amount < minRaise {
		amount = minRaise
	}
	callAmount := s.currentBet - s.playerBets[playerID]
	total := callAmount + amount
	s.currentBet += amount
	s.playerBets[playerID] = s.currentBet
	s.pot += total
	s.advanceTurn()
	return total, nil
}

// AllIn commits the given amount and removes the player from further betting
// rotation. All-in players stay eligible to win at showdown.
func (s *PokerState) AllIn(playerID string, amount int) (int, error) {
	if s.complete {
		return 0, ErrGameComplete
	}
	s.playerBets[playerID] += amount
	s.pot += amount
	s.allIn = append(s.allIn, playerID)
	s.advanceTurn()
	return amount, nil
}

// advanceTurn rotates the action pointer and advances the phase once all
// outstanding bets match and the pointer has wrapped. When every remaining
// player is all-in it runs out the board and completes immediately.
func (s *PokerState) advanceTurn() {
	if len(s.ActivePlayers()) <= 1 {
		s.completeGame()
		return
	}

	betting := s.bettingPlayers()
	if len(betting) == 0 {
		for s.phase != PhaseRiver {
			s.dealCommunity()
		}
		s.completeGame()
		return
	}

	s.currentIdx = (s.currentIdx + 1) % len(betting)

	allEqual := true
	for _, id := range betting {
		if s.playerBets[id] != s.currentBet {
			allEqual = false
			break
		}
	}

	if allEqual && s.currentIdx == 0 {
		if s.phase == PhaseRiver {
			s.completeGame()
			return
		}
		s.dealCommunity()
		s.currentBet = 0
		for _, id := range s.playerOrder {
			s.playerBets[id] = 0
		}
	}
}

func (s *PokerState) completeGame() {
	s.complete = true
	s.phase = PhaseShowdown
	active := s.ActivePlayers()

	if len(active) == 1 {
		s.winnerID = active[0]
		return
	}

	var (
		bestPlayer string
		bestRank   eval.PokerRank
		bestValues []int
	)
	for _, id := range active {
		_, rank, values, err := eval.BestPokerHand(s.hands[id], s.community)
		if err != nil {
			// Multi-way showdowns only happen with a full board, so an error
			// here means the state machine itself is miswired.
			panic(err)
		}
		if bestRank == 0 || rank > bestRank ||
			(rank == bestRank && compareTieBreak(values, bestValues) > 0) {
			bestPlayer, bestRank, bestValues = id, rank, values
		}
	}
	s.winnerID = bestPlayer
}

func compareTieBreak(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// PokerView is the per-viewer serialization of a poker hand.
type PokerView struct {
	Pot            int                   `json:"pot"`
	CurrentBet     int                   `json:"current_bet"`
	CurrentPlayer  string                `json:"current_player"`
	PlayerOrder    []string              `json:"player_order"`
	FoldedPlayers  []string              `json:"folded_players"`
	AllInPlayers   []string              `json:"all_in_players"`
	Hands          map[string][]CardView `json:"hands"`
	CommunityCards []CardView            `json:"community_cards"`
	Phase          string                `json:"phase"`
	IsComplete     bool                  `json:"is_complete"`
	WinnerID       string                `json:"winner_id,omitempty"`
	PlayerBets     map[string]int        `json:"player_bets"`
	ActivePlayers  []string              `json:"active_players"`
}

// View renders the hand for one viewer. Hole cards are visible only to their
// owner until the hand completes; community cards are always public.
func (s *PokerState) View(viewerID string) any {
	hands := make(map[string][]CardView, len(s.hands))
	for id, cards := range s.hands {
		if viewerID == id || s.complete {
			hands[id] = visibleCards(cards)
		} else {
			hands[id] = hiddenCards(2)
		}
	}

	bets := make(map[string]int, len(s.playerBets))
	for id, bet := range s.playerBets {
		bets[id] = bet
	}

	return PokerView{
		Pot:            s.pot,
		CurrentBet:     s.currentBet,
		CurrentPlayer:  s.CurrentPlayer(),
		PlayerOrder:    append([]string(nil), s.playerOrder...),
		FoldedPlayers:  emptyIfNil(s.folded),
		AllInPlayers:   emptyIfNil(s.allIn),
		Hands:          hands,
		CommunityCards: visibleCards(s.community),
		Phase:          s.phase,
		IsComplete:     s.complete,
		WinnerID:       s.winnerID,
		PlayerBets:     bets,
		ActivePlayers:  s.ActivePlayers(),
	}
}
