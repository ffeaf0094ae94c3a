package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrRoomNotFound is returned when the referenced room does not exist.
var ErrRoomNotFound = errors.New("room not found")

// Room is a pre-provisioned game room. Room CRUD lives in the platform
// backend; the engine only reads rooms to validate connections.
type Room struct {
	ID         string
	GameType   string
	HostID     string
	MaxPlayers int
	PlayerIDs  []string
	Status     string
}

// RoomRepository reads game rooms.
type RoomRepository struct {
	db *DB
}

// NewRoomRepository creates a room repository.
func NewRoomRepository(db *DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// GetRoom fetches a room by id.
func (r *RoomRepository) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	const query = `
		SELECT room_id, game_type, host_id, max_players, player_ids, status
		FROM game_rooms
		WHERE room_id = $1`

	var room Room
	err := r.db.Pool.QueryRow(ctx, query, roomID).Scan(
		&room.ID,
		&room.GameType,
		&room.HostID,
		&room.MaxPlayers,
		&room.PlayerIDs,
		&room.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}
