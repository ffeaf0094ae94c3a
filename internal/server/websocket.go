package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/free11/cardgame-server-go/internal/config"
	"github.com/free11/cardgame-server-go/internal/game"
	"github.com/free11/cardgame-server-go/internal/repository"
	"github.com/free11/cardgame-server-go/internal/session"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// RoomStore validates that a room was provisioned before a connection is
// accepted. The platform backend owns room CRUD.
type RoomStore interface {
	GetRoom(ctx context.Context, roomID string) (*repository.Room, error)
}

// Server is the WebSocket front of the game engine.
type Server struct {
	cfg      config.WebSocketConfig
	sessions *session.Manager
	rooms    RoomStore
	logger   *zap.Logger
	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// New creates the WebSocket server.
func New(cfg config.WebSocketConfig, sessions *session.Manager, rooms RoomStore, logger *zap.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		rooms:    rooms,
		logger:   logger,
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return cfg.AllowAllOrigins
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/game/", s.handleWS)
	s.httpSrv = &http.Server{
		Addr:    cfg.Address,
		Handler: mux,
	}
	return s
}

// ListenAndServe runs the server until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting WebSocket server", zap.String("address", s.cfg.Address))
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// handleWS upgrades a connection and attaches it to the room's session. The
// room must exist before anyone connects; the session is created on first
// join with the room's host as its sole seated player.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	roomID := query.Get("room_id")
	playerID := query.Get("player_id")
	playerName := query.Get("player_name")

	if roomID == "" || playerID == "" {
		http.Error(w, "room_id and player_id are required", http.StatusBadRequest)
		return
	}
	if playerName == "" {
		playerName = "Player"
	}

	room, err := s.rooms.GetRoom(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		s.logger.Error("room lookup failed",
			zap.String("room_id", roomID),
			zap.Error(err),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	gameType := game.Type(room.GameType)
	if !gameType.Valid() {
		http.Error(w, "unsupported game type", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed",
			zap.String("room_id", roomID),
			zap.Error(err),
		)
		return
	}

	c := newClient(conn, roomID, playerID, playerName, s.cfg.SendBufferSize, s.cfg.WriteTimeout, s.logger)

	if _, ok := s.sessions.GetSession(roomID); !ok {
		s.sessions.CreateSession(roomID, gameType, room.HostID)
	}

	sess, err := s.sessions.JoinSession(roomID, playerID, playerName, c)
	if err != nil {
		s.logger.Error("join session failed",
			zap.String("room_id", roomID),
			zap.String("player_id", playerID),
			zap.Error(err),
		)
		conn.Close()
		return
	}

	go c.writePump()

	_ = c.Send(connectedMessage{
		Type:     "connected",
		RoomID:   roomID,
		PlayerID: playerID,
		GameType: room.GameType,
		Players:  sess.Players(),
		Status:   string(sess.Status()),
	})

	s.sessions.Broadcast(roomID, presenceMessage{
		Type:        "player_joined",
		PlayerID:    playerID,
		PlayerName:  playerName,
		PlayerCount: sess.ConnCount(),
	}, playerID)

	c.readPump(s, s.cfg.ReadLimit)
}

// disconnect detaches a client whose socket closed. The seat is held; the
// game continues and the player may rejoin.
func (s *Server) disconnect(c *client) {
	s.sessions.LeaveSession(c.roomID, c.playerID)
	c.close()

	if sess, ok := s.sessions.GetSession(c.roomID); ok {
		s.sessions.Broadcast(c.roomID, presenceMessage{
			Type:        "player_left",
			PlayerID:    c.playerID,
			PlayerCount: sess.ConnCount(),
		}, "")
	}

	s.logger.Info("player disconnected",
		zap.String("room_id", c.roomID),
		zap.String("player_id", c.playerID),
	)
}

// handleMessage dispatches one inbound message. Pings bypass the session
// lock; start_game is host-only; action errors go back to the sender alone.
func (s *Server) handleMessage(c *client, msg inboundMessage) {
	switch msg.Type {
	case "ping":
		_ = c.Send(pongMessage{Type: "pong"})

	case "start_game":
		sess, ok := s.sessions.GetSession(c.roomID)
		if !ok {
			_ = c.Send(errorMessage{Type: "error", Message: session.ErrSessionNotFound.Error()})
			return
		}
		if sess.HostID != c.playerID {
			_ = c.Send(errorMessage{Type: "error", Message: "only the host can start the game"})
			return
		}
		if err := s.sessions.StartGame(c.roomID); err != nil {
			_ = c.Send(errorMessage{Type: "error", Message: err.Error()})
		}

	case "action":
		cardIndex := -1
		if msg.CardIndex != nil {
			cardIndex = *msg.CardIndex
		}
		action := session.Action{
			Name:      msg.Action,
			Amount:    msg.Amount,
			CardIndex: cardIndex,
			Melds:     msg.Melds,
		}
		if err := s.sessions.HandleAction(c.roomID, c.playerID, action); err != nil {
			_ = c.Send(errorMessage{Type: "error", Message: err.Error()})
		}

	case "chat":
		if err := s.sessions.Chat(c.roomID, c.playerID, msg.Message); err != nil {
			_ = c.Send(errorMessage{Type: "error", Message: err.Error()})
		}

	default:
		_ = c.Send(errorMessage{Type: "error", Message: "unknown message type"})
	}
}
