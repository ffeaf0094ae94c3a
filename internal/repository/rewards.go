package repository

import (
	"context"
	"fmt"

	"github.com/free11/cardgame-server-go/internal/game"
	"github.com/free11/cardgame-server-go/internal/reward"
	"github.com/jackc/pgx/v5"
)

// RewardRepository posts completed-game reward tables to the coin ledger. It
// implements reward.Issuer. Inserts are keyed on (room_id, user_id) so a
// duplicate completion event cannot credit a player twice.
type RewardRepository struct {
	db *DB
}

// NewRewardRepository creates a reward repository.
func NewRewardRepository(db *DB) *RewardRepository {
	return &RewardRepository{db: db}
}

// Issue writes one ledger row per reward entry inside a single transaction.
func (r *RewardRepository) Issue(ctx context.Context, roomID string, gameType game.Type, entries []reward.Entry) error {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const insert = `
		INSERT INTO game_rewards (room_id, game_type, user_id, rank, coins_earned)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (room_id, user_id) DO NOTHING`

	for _, entry := range entries {
		if _, err := tx.Exec(ctx, insert, roomID, string(gameType), entry.UserID, entry.Rank, entry.Coins); err != nil {
			return fmt.Errorf("failed to insert reward for %s: %w", entry.UserID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rewards: %w", err)
	}
	return nil
}
