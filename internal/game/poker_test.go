package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPokerDeal(t *testing.T) {
	s := NewPokerState()
	s.DealCards([]string{"p1", "p2", "p3"})

	for _, id := range []string{"p1", "p2", "p3"} {
		assert.Len(t, s.Hand(id), 2, "player %s", id)
	}
	assert.Empty(t, s.Community())
	assert.Equal(t, PhasePreflop, s.Phase())
	assert.Equal(t, "p1", s.CurrentPlayer())
	assert.Equal(t, 0, s.pot)
}

func TestPokerCheckRequiresMatchedBet(t *testing.T) {
	s := NewPokerState()
	s.DealCards([]string{"p1", "p2"})

	_, err := s.Raise("p1", 20)
	require.NoError(t, err)

	err = s.Check("p2")
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, "p2", s.CurrentPlayer(), "rejected check must not advance the turn")
}

func TestPokerRaiseMinimums(t *testing.T) {
	t.Run("unopened raise is floored at the fixed minimum", func(t *testing.T) {
		s := NewPokerState()
		s.DealCards([]string{"p1", "p2"})

		total, err := s.Raise("p1", 5)
		require.NoError(t, err)
		assert.Equal(t, pokerMinOpen, total)
		assert.Equal(t, pokerMinOpen, s.currentBet)
		assert.Equal(t, pokerMinOpen, s.pot)
	})

	t.Run("re-raise is floored at double the current bet", func(t *testing.T) {
		s := NewPokerState()
		s.DealCards([]string{"p1", "p2"})

		_, err := s.Raise("p1", 20)
		require.NoError(t, err)

		// p2 has nothing in yet: calling 20 plus the floored raise of 40.
		total, err := s.Raise("p2", 10)
		require.NoError(t, err)
		assert.Equal(t, 60, total)
		assert.Equal(t, 60, s.currentBet)
	})
}

func TestPokerCallPaysDifference(t *testing.T) {
	s := NewPokerState()
	s.DealCards([]string{"p1", "p2"})

	_, err := s.Raise("p1", 20)
	require.NoError(t, err)

	paid, err := s.Call("p2")
	require.NoError(t, err)
	assert.Equal(t, 20, paid)
	assert.Equal(t, 40, s.pot)
}

func TestPokerPhaseAdvance(t *testing.T) {
	s := NewPokerState()
	s.DealCards([]string{"p1", "p2"})

	require.NoError(t, s.Check("p1"))
	assert.Equal(t, PhasePreflop, s.Phase())

	require.NoError(t, s.Check("p2"))
	assert.Equal(t, PhaseFlop, s.Phase())
	assert.Len(t, s.Community(), 3)

	require.NoError(t, s.Check("p1"))
	require.NoError(t, s.Check("p2"))
	assert.Equal(t, PhaseTurn, s.Phase())
	assert.Len(t, s.Community(), 4)

	require.NoError(t, s.Check("p1"))
	require.NoError(t, s.Check("p2"))
	assert.Equal(t, PhaseRiver, s.Phase())
	assert.Len(t, s.Community(), 5)

	require.NoError(t, s.Check("p1"))
	require.NoError(t, s.Check("p2"))
	assert.True(t, s.IsComplete())
	assert.Equal(t, PhaseShowdown, s.Phase())
	assert.NotEmpty(t, s.WinnerID())
}

func TestPokerAllInRunsOutBoard(t *testing.T) {
	s := NewPokerState()
	s.DealCards([]string{"p1", "p2"})

	_, err := s.AllIn("p1", 100)
	require.NoError(t, err)
	assert.False(t, s.IsComplete())
	assert.Equal(t, "p2", s.CurrentPlayer())

	_, err = s.AllIn("p2", 100)
	require.NoError(t, err)

	assert.True(t, s.IsComplete())
	assert.Equal(t, PhaseShowdown, s.Phase())
	assert.Len(t, s.Community(), 5)
	assert.Equal(t, 200, s.pot)
	assert.Contains(t, []string{"p1", "p2"}, s.WinnerID())
}

func TestPokerFoldToOneCompletes(t *testing.T) {
	s := NewPokerState()
	s.DealCards([]string{"p1", "p2"})

	require.NoError(t, s.Fold("p1"))
	assert.True(t, s.IsComplete())
	assert.Equal(t, "p2", s.WinnerID())

	assert.ErrorIs(t, s.Fold("p2"), ErrGameComplete)
	err := s.Check("p2")
	assert.ErrorIs(t, err, ErrGameComplete)
}

func TestPokerView(t *testing.T) {
	s := NewPokerState()
	s.DealCards([]string{"p1", "p2"})

	t.Run("own hole cards visible, opponent hidden", func(t *testing.T) {
		view := s.View("p1").(PokerView)
		for _, cv := range view.Hands["p1"] {
			assert.False(t, cv.Hidden)
		}
		for _, cv := range view.Hands["p2"] {
			assert.True(t, cv.Hidden)
			assert.Empty(t, cv.Rank)
		}
	})

	t.Run("community cards are public", func(t *testing.T) {
		require.NoError(t, s.Check("p1"))
		require.NoError(t, s.Check("p2"))

		view := s.View("p2").(PokerView)
		require.Len(t, view.CommunityCards, 3)
		for _, cv := range view.CommunityCards {
			assert.False(t, cv.Hidden)
		}
	})

	t.Run("all hands revealed at showdown", func(t *testing.T) {
		_, err := s.AllIn("p1", 50)
		require.NoError(t, err)
		_, err = s.AllIn("p2", 50)
		require.NoError(t, err)
		require.True(t, s.IsComplete())

		view := s.View("p1").(PokerView)
		for id, hand := range view.Hands {
			for _, cv := range hand {
				assert.False(t, cv.Hidden, "player %s", id)
			}
		}
	})
}
