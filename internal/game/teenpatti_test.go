package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeenPattiDeal(t *testing.T) {
	s := NewTeenPattiState()
	s.DealCards([]string{"p1", "p2", "p3"})

	for _, id := range []string{"p1", "p2", "p3"} {
		assert.Len(t, s.Hand(id), 3, "player %s", id)
	}
	assert.Equal(t, 0, s.pot)
	assert.Equal(t, teenPattiAnte, s.currentBet)
	assert.Equal(t, "p1", s.CurrentPlayer())
	assert.False(t, s.IsComplete())
	assert.Equal(t, []string{"p1", "p2", "p3"}, s.ActivePlayers())
}

func TestTeenPattiFoldToOneCompletes(t *testing.T) {
	s := NewTeenPattiState()
	s.DealCards([]string{"p1", "p2", "p3"})

	require.NoError(t, s.Fold("p1"))
	assert.False(t, s.IsComplete())
	assert.Equal(t, []string{"p2", "p3"}, s.ActivePlayers())

	require.NoError(t, s.Fold("p2"))
	assert.True(t, s.IsComplete())
	assert.Equal(t, "p3", s.WinnerID())
	assert.Equal(t, "", s.CurrentPlayer())
}

func TestTeenPattiBlindAndSeenStakes(t *testing.T) {
	t.Run("blind call pays half the current bet", func(t *testing.T) {
		s := NewTeenPattiState()
		s.DealCards([]string{"p1", "p2", "p3"})

		paid, err := s.Call("p1")
		require.NoError(t, err)
		assert.Equal(t, teenPattiAnte/2, paid)
		assert.Equal(t, teenPattiAnte/2, s.pot)
	})

	t.Run("seen call pays the full current bet", func(t *testing.T) {
		s := NewTeenPattiState()
		s.DealCards([]string{"p1", "p2", "p3"})

		require.NoError(t, s.See("p1"))
		paid, err := s.Call("p1")
		require.NoError(t, err)
		assert.Equal(t, teenPattiAnte, paid)
	})

	t.Run("seen raise is floored at double the current bet", func(t *testing.T) {
		s := NewTeenPattiState()
		s.DealCards([]string{"p1", "p2", "p3"})

		require.NoError(t, s.See("p1"))
		staked, err := s.Raise("p1", 5)
		require.NoError(t, err)
		assert.Equal(t, teenPattiAnte*2, staked)
		assert.Equal(t, teenPattiAnte*2, s.currentBet)
	})

	t.Run("blind raise is floored at the current bet", func(t *testing.T) {
		s := NewTeenPattiState()
		s.DealCards([]string{"p1", "p2", "p3"})

		staked, err := s.Raise("p1", 1)
		require.NoError(t, err)
		assert.Equal(t, teenPattiAnte, staked)
	})
}

func TestTeenPattiShow(t *testing.T) {
	t.Run("is a no-op with more than two active players", func(t *testing.T) {
		s := NewTeenPattiState()
		s.DealCards([]string{"p1", "p2", "p3"})

		require.NoError(t, s.Show("p1"))
		assert.False(t, s.IsComplete())
	})

	t.Run("forces showdown with exactly two active players", func(t *testing.T) {
		s := NewTeenPattiState()
		s.DealCards([]string{"p1", "p2", "p3"})

		require.NoError(t, s.Fold("p3"))
		require.NoError(t, s.Show("p1"))
		assert.True(t, s.IsComplete())
		assert.Contains(t, []string{"p1", "p2"}, s.WinnerID())
	})
}

func TestTeenPattiRejectsActionsAfterCompletion(t *testing.T) {
	s := NewTeenPattiState()
	s.DealCards([]string{"p1", "p2"})
	require.NoError(t, s.Fold("p1"))
	require.True(t, s.IsComplete())

	assert.ErrorIs(t, s.Fold("p2"), ErrGameComplete)
	assert.ErrorIs(t, s.See("p2"), ErrGameComplete)
	_, err := s.Call("p2")
	assert.ErrorIs(t, err, ErrGameComplete)
	_, err = s.Raise("p2", 50)
	assert.ErrorIs(t, err, ErrGameComplete)
	assert.ErrorIs(t, s.Show("p2"), ErrGameComplete)
	assert.Equal(t, "p2", s.WinnerID())
}

func TestTeenPattiView(t *testing.T) {
	s := NewTeenPattiState()
	s.DealCards([]string{"p1", "p2"})

	t.Run("own hand is hidden until seen", func(t *testing.T) {
		view := s.View("p1").(TeenPattiView)
		for _, cv := range view.Hands["p1"] {
			assert.True(t, cv.Hidden)
		}
	})

	t.Run("own hand is visible after seeing", func(t *testing.T) {
		require.NoError(t, s.See("p1"))
		view := s.View("p1").(TeenPattiView)
		for _, cv := range view.Hands["p1"] {
			assert.False(t, cv.Hidden)
			assert.NotEmpty(t, cv.Rank)
		}
	})

	t.Run("opponent hands stay hidden", func(t *testing.T) {
		view := s.View("p1").(TeenPattiView)
		for _, cv := range view.Hands["p2"] {
			assert.True(t, cv.Hidden)
			assert.Empty(t, cv.Rank)
			assert.Empty(t, cv.Suit)
		}
	})

	t.Run("repeated views are identical", func(t *testing.T) {
		first := s.View("p1").(TeenPattiView)
		second := s.View("p1").(TeenPattiView)
		assert.Equal(t, first, second)
	})

	t.Run("all hands revealed on completion", func(t *testing.T) {
		require.NoError(t, s.Fold("p2"))
		require.True(t, s.IsComplete())

		view := s.View("p2").(TeenPattiView)
		for id, hand := range view.Hands {
			for _, cv := range hand {
				assert.False(t, cv.Hidden, "player %s", id)
			}
		}
		assert.Equal(t, "p1", view.WinnerID)
	})
}
