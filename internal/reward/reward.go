// Package reward computes the deterministic coin reward table handed to the
// external ledger when a game completes. The engine's responsibility ends at
// producing the table; persistence, crediting, and idempotency against
// duplicate completion events belong to the Issuer implementation.
package reward

import (
	"context"
	"sort"

	"github.com/free11/cardgame-server-go/internal/game"
)

// Entry is one player's share of the reward table.
type Entry struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Rank   int    `json:"rank"`
	Coins  int    `json:"coins"`
}

// Issuer posts a reward table to the coin ledger. Implementations own
// persistence and must tolerate duplicate completion events.
type Issuer interface {
	Issue(ctx context.Context, roomID string, gameType game.Type, entries []Entry) error
}

type amounts struct {
	win         int
	second      int
	participate int
}

var rewardAmounts = map[game.Type]amounts{
	game.TypeRummy:     {win: 50, second: 20, participate: 5},
	game.TypeTeenPatti: {win: 40, second: 15, participate: 5},
	game.TypePoker:     {win: 60, second: 25, participate: 5},
}

// Table builds the reward table for a completed game. The winner takes the
// win amount at rank 1; the player at join-order index 1 takes the second
// amount at rank 2 (join order, not finishing position); everyone else takes
// the participation amount ranked by join position. Results are sorted by
// rank.
func Table(gameType game.Type, playerIDs []string, playerNames map[string]string, winnerID string) []Entry {
	config, ok := rewardAmounts[gameType]
	if !ok {
		config = rewardAmounts[game.TypePoker]
	}

	entries := make([]Entry, 0, len(playerIDs))
	for i, id := range playerIDs {
		var coins, rank int
		switch {
		case id == winnerID:
			coins, rank = config.win, 1
		case i == 1:
			coins, rank = config.second, 2
		default:
			coins, rank = config.participate, i+1
		}

		name := playerNames[id]
		if name == "" {
			name = "Player"
		}

		entries = append(entries, Entry{
			UserID: id,
			Name:   name,
			Rank:   rank,
			Coins:  coins,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Rank < entries[j].Rank
	})
	return entries
}
