package server

// inboundMessage is the envelope for all client-to-server messages. Amount
// and CardIndex are pointers so an omitted field is distinguishable from an
// explicit zero: a missing card_index must be rejected, not treated as the
// first card.
type inboundMessage struct {
	Type      string  `json:"type"`
	Action    string  `json:"action,omitempty"`
	Amount    *int    `json:"amount,omitempty"`
	CardIndex *int    `json:"card_index,omitempty"`
	Melds     [][]int `json:"melds,omitempty"`
	Message   string  `json:"message,omitempty"`
}

// connectedMessage greets a freshly attached connection.
type connectedMessage struct {
	Type     string   `json:"type"`
	RoomID   string   `json:"room_id"`
	PlayerID string   `json:"player_id"`
	GameType string   `json:"game_type"`
	Players  []string `json:"players"`
	Status   string   `json:"status"`
}

// presenceMessage announces a player joining or leaving the room.
type presenceMessage struct {
	Type        string `json:"type"`
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name,omitempty"`
	PlayerCount int    `json:"player_count"`
}

// errorMessage reports an action-scoped failure to the sender only.
type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// pongMessage answers a ping. Pings bypass the session lock entirely.
type pongMessage struct {
	Type string `json:"type"`
}
