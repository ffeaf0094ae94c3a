package session

import (
	"github.com/free11/cardgame-server-go/internal/game"
	"github.com/free11/cardgame-server-go/internal/reward"
)

// Outbound message payloads. The WebSocket layer marshals these to JSON; the
// manager builds them so redaction and completion handling stay in one place.

// GameStateMessage carries one viewer's redacted snapshot of the active game.
type GameStateMessage struct {
	Type        string            `json:"type"`
	GameType    game.Type         `json:"game_type"`
	PlayerNames map[string]string `json:"player_names"`
	State       any               `json:"state"`
}

// PlayerInfo identifies a player in roster messages.
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameStartedMessage announces that the game has been dealt.
type GameStartedMessage struct {
	Type     string       `json:"type"`
	GameType game.Type    `json:"game_type"`
	Players  []PlayerInfo `json:"players"`
}

// PlayerActionMessage announces a successfully applied action to the room.
type PlayerActionMessage struct {
	Type       string `json:"type"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Action     string `json:"action"`
	Amount     *int   `json:"amount,omitempty"`
}

// GameCompleteMessage announces the terminal result, including the winner's
// hand name (Teen Patti and Poker), the reward table, and the fully revealed
// final state.
type GameCompleteMessage struct {
	Type       string         `json:"type"`
	WinnerID   string         `json:"winner_id"`
	WinnerName string         `json:"winner_name"`
	HandName   string         `json:"hand_name"`
	Rewards    []reward.Entry `json:"rewards"`
	FinalState any            `json:"final_state"`
}

// ChatMessage relays a chat line to the room. Chat is never turn-gated.
type ChatMessage struct {
	Type       string `json:"type"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Message    string `json:"message"`
}
