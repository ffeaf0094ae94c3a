package session

import (
	"errors"
	"sync"
	"time"

	"github.com/free11/cardgame-server-go/internal/game"
)

var (
	// ErrSessionNotFound is returned when no session exists for a room.
	ErrSessionNotFound = errors.New("session not found")

	// ErrGameNotStarted is returned when an action arrives before start_game.
	ErrGameNotStarted = errors.New("game not found or not started")

	// ErrGameAlreadyStarted is returned when start_game is called twice. A
	// session holds at most one game state, created exactly once.
	ErrGameAlreadyStarted = errors.New("game already started")
)

// Status tracks a session's lifecycle.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusComplete Status = "complete"
)

// Conn is a live connection to one player. The WebSocket layer implements it;
// tests substitute fakes. Send must be safe for concurrent use and should
// fail fast rather than block when the peer is gone.
type Conn interface {
	Send(msg any) error
}

// Session binds a room to its connected players and at most one active game
// state. All fields are guarded by mu; the manager serializes every
// read-validate-mutate sequence under it.
type Session struct {
	mu sync.Mutex

	RoomID   string
	GameType game.Type
	HostID   string

	playerIDs   []string // join order, seats are never removed
	playerNames map[string]string
	conns       map[string]Conn

	state  game.State
	status Status

	// rewardIssued guards exactly-once completion handling.
	rewardIssued bool

	createdAt time.Time
}

func newSession(roomID string, gameType game.Type, hostID string) *Session {
	return &Session{
		RoomID:      roomID,
		GameType:    gameType,
		HostID:      hostID,
		playerIDs:   []string{hostID},
		playerNames: make(map[string]string),
		conns:       make(map[string]Conn),
		status:      StatusWaiting,
		createdAt:   time.Now(),
	}
}

// addPlayer attaches a connection, registering the player on first join.
// Rejoining with the same player id replaces the connection handle only; a
// seat is never duplicated.
func (s *Session) addPlayer(playerID, playerName string, conn Conn) {
	if !containsID(s.playerIDs, playerID) {
		s.playerIDs = append(s.playerIDs, playerID)
	}
	s.playerNames[playerID] = playerName
	s.conns[playerID] = conn
}

// detachConn drops a player's live connection. The player keeps their seat;
// a disconnected player can rejoin and resume.
func (s *Session) detachConn(playerID string) {
	delete(s.conns, playerID)
}

// ConnCount returns the number of live connections.
func (s *Session) ConnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Players returns the players in join order.
func (s *Session) Players() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.playerIDs...)
}

// PlayerName returns a player's display name, or a placeholder.
func (s *Session) PlayerName(playerID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerNameLocked(playerID)
}

func (s *Session) playerNameLocked(playerID string) string {
	if name, ok := s.playerNames[playerID]; ok && name != "" {
		return name
	}
	return "Player"
}

// Status returns the session's lifecycle status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// connSnapshot returns the live connections as an id->conn copy. Callers use
// it to fan out outside the lock.
func (s *Session) connSnapshot() map[string]Conn {
	conns := make(map[string]Conn, len(s.conns))
	for id, c := range s.conns {
		conns[id] = c
	}
	return conns
}

func (s *Session) namesSnapshot() map[string]string {
	names := make(map[string]string, len(s.playerNames))
	for id, n := range s.playerNames {
		names[id] = n
	}
	return names
}

func containsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
