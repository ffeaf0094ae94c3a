package game

import (
	"errors"
	"fmt"
)

// Type identifies one of the supported game variants.
type Type string

const (
	TypeTeenPatti Type = "teen_patti"
	TypePoker     Type = "poker"
	TypeRummy     Type = "rummy"
)

// Valid reports whether t names a supported variant.
func (t Type) Valid() bool {
	switch t {
	case TypeTeenPatti, TypePoker, TypeRummy:
		return true
	}
	return false
}

var (
	// ErrIllegalTurn is returned when a player submits a turn-gated action
	// out of turn. It is reported to the sender only and never mutates state.
	ErrIllegalTurn = errors.New("not your turn")

	// ErrInvalidAction is returned when an action payload fails a variant
	// precondition, such as discarding before drawing or checking with an
	// outstanding bet.
	ErrInvalidAction = errors.New("invalid action")

	// ErrGameComplete is returned when a mutating action arrives after the
	// game reached its terminal state. Completed games never revert.
	ErrGameComplete = errors.New("game already complete")
)

// invalidActionf wraps ErrInvalidAction with a reason shown to the sender.
func invalidActionf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidAction}, args...)...)
}

// State is the minimal contract shared by the three variant state machines.
// All mutation goes through variant-specific action methods; the session
// manager serializes access.
type State interface {
	// CurrentPlayer returns the player expected to act, or "" when the game
	// is complete or no player can act.
	CurrentPlayer() string

	// IsComplete reports whether the game reached its terminal state.
	IsComplete() bool

	// WinnerID returns the winning player once complete, "" before.
	WinnerID() string

	// View renders the state as seen by viewerID, hiding every hand the
	// viewer is not entitled to see. Views are built fresh per viewer and
	// never cached.
	View(viewerID string) any
}

// New constructs the state machine for the given variant and deals the
// opening hands to players in join order.
func New(gameType Type, playerIDs []string) (State, error) {
	switch gameType {
	case TypeTeenPatti:
		s := NewTeenPattiState()
		s.DealCards(playerIDs)
		return s, nil
	case TypePoker:
		s := NewPokerState()
		s.DealCards(playerIDs)
		return s, nil
	case TypeRummy:
		s := NewRummyState()
		s.DealCards(playerIDs)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown game type %q", gameType)
	}
}
