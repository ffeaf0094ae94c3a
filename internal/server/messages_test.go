package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/free11/cardgame-server-go/internal/config"
	"github.com/free11/cardgame-server-go/internal/game"
	"github.com/free11/cardgame-server-go/internal/session"
)

func TestInboundMessageDecoding(t *testing.T) {
	t.Run("omitted fields decode to nil, not zero", func(t *testing.T) {
		var msg inboundMessage
		require.NoError(t, json.Unmarshal([]byte(`{"type":"action","action":"discard"}`), &msg))
		assert.Nil(t, msg.CardIndex)
		assert.Nil(t, msg.Amount)
	})

	t.Run("explicit zero survives decoding", func(t *testing.T) {
		var msg inboundMessage
		require.NoError(t, json.Unmarshal([]byte(`{"type":"action","action":"discard","card_index":0}`), &msg))
		require.NotNil(t, msg.CardIndex)
		assert.Equal(t, 0, *msg.CardIndex)
	})
}

// drainMessages decodes everything queued on the client's send channel.
func drainMessages(c *client) []map[string]any {
	var out []map[string]any
	for {
		select {
		case data := <-c.send:
			var decoded map[string]any
			if err := json.Unmarshal(data, &decoded); err == nil {
				out = append(out, decoded)
			}
		default:
			return out
		}
	}
}

func TestHandleMessageDiscardWithoutIndex(t *testing.T) {
	mgr := session.NewManager(nil, zap.NewNop())
	srv := New(config.WebSocketConfig{}, mgr, nil, zap.NewNop())

	p1 := newClient(nil, "room-1", "p1", "Alice", 32, 0, zap.NewNop())
	p2 := newClient(nil, "room-1", "p2", "Bob", 32, 0, zap.NewNop())

	mgr.CreateSession("room-1", game.TypeRummy, "p1")
	_, err := mgr.JoinSession("room-1", "p1", "Alice", p1)
	require.NoError(t, err)
	_, err = mgr.JoinSession("room-1", "p2", "Bob", p2)
	require.NoError(t, err)
	require.NoError(t, mgr.StartGame("room-1"))

	srv.handleMessage(p1, inboundMessage{Type: "action", Action: "draw_deck"})
	drainMessages(p1)

	srv.handleMessage(p1, inboundMessage{Type: "action", Action: "discard"})

	msgs := drainMessages(p1)
	require.Len(t, msgs, 1, "only an error goes back to the sender")
	assert.Equal(t, "error", msgs[0]["type"])
	assert.Contains(t, msgs[0]["message"], "invalid card index")

	// The first card must still be in the hand and the turn unchanged.
	srv.handleMessage(p1, inboundMessage{Type: "action", Action: "discard", CardIndex: intPtr(0)})
	msgs = drainMessages(p1)
	found := false
	for _, msg := range msgs {
		if msg["type"] == "player_action" && msg["action"] == "discard" {
			found = true
		}
	}
	assert.True(t, found, "explicit index discards normally afterwards")
}

func intPtr(v int) *int { return &v }
