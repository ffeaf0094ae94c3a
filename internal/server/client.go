package server

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// errSendBufferFull is returned when a client's outbound queue is saturated.
// The session manager treats it as a dead connection and detaches the client.
var errSendBufferFull = errors.New("client send buffer full")

// errConnectionClosed is returned by Send after the client disconnected.
var errConnectionClosed = errors.New("connection closed")

// client is one player's WebSocket connection. It implements session.Conn.
// Writes go through a buffered channel drained by writePump so that slow
// peers never block the game loop.
type client struct {
	id         string
	roomID     string
	playerID   string
	playerName string

	conn         *websocket.Conn
	send         chan []byte
	done         chan struct{}
	closeOnce    sync.Once
	writeTimeout time.Duration
	logger       *zap.Logger
}

func newClient(conn *websocket.Conn, roomID, playerID, playerName string, bufferSize int, writeTimeout time.Duration, logger *zap.Logger) *client {
	return &client{
		id:           uuid.NewString(),
		roomID:       roomID,
		playerID:     playerID,
		playerName:   playerName,
		conn:         conn,
		send:         make(chan []byte, bufferSize),
		done:         make(chan struct{}),
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// close releases the write pump. Safe to call more than once and concurrently
// with Send.
func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Send marshals msg and enqueues it for delivery. It fails fast when the
// buffer is full rather than blocking the caller.
func (c *client) Send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return errConnectionClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

// readPump reads inbound messages and hands them to the server until the
// connection closes.
func (c *client) readPump(s *Server, readLimit int64) {
	defer func() {
		s.disconnect(c)
		c.conn.Close()
	}()

	if readLimit > 0 {
		c.conn.SetReadLimit(readLimit)
	}

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("unexpected close",
					zap.String("player_id", c.playerID),
					zap.Error(err),
				)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debug("malformed message",
				zap.String("player_id", c.playerID),
				zap.Error(err),
			)
			_ = c.Send(errorMessage{Type: "error", Message: "malformed message"})
			continue
		}

		s.handleMessage(c, msg)
	}
}

// writePump drains the send channel to the socket until close is called.
func (c *client) writePump() {
	defer c.conn.Close()

	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if c.writeTimeout > 0 {
				_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
