package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/free11/cardgame-server-go/internal/game"
	"github.com/free11/cardgame-server-go/internal/game/eval"
	"github.com/free11/cardgame-server-go/internal/reward"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// rewardIssueTimeout bounds the ledger call made after completion. The call
// runs outside the session lock so a slow ledger never stalls other turns.
const rewardIssueTimeout = 10 * time.Second

// Action is an inbound game action after transport decoding. A nil Amount
// means the field was omitted; variant handlers apply their own defaults. The
// transport maps an omitted card index to -1 so it fails the bounds check.
type Action struct {
	Name      string
	Amount    *int
	CardIndex int
	Melds     [][]int
}

// Manager is the process-scoped registry of game sessions. It is constructed
// once at startup and injected wherever lookups occur. Mutating access to any
// one session is serialized under that session's lock; actions apply in
// lock-acquisition order.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	issuer reward.Issuer
	logger *zap.Logger
}

// NewManager creates a session manager. The issuer receives reward tables
// after game completion and may be nil when no ledger is attached.
func NewManager(issuer reward.Issuer, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		issuer:   issuer,
		logger:   logger,
	}
}

// CreateSession registers a session for a pre-validated room with the host as
// its sole player. Connections attach through JoinSession.
func (m *Manager) CreateSession(roomID string, gameType game.Type, hostID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[roomID]; ok {
		return existing
	}

	s := newSession(roomID, gameType, hostID)
	m.sessions[roomID] = s

	m.logger.Info("session created",
		zap.String("room_id", roomID),
		zap.String("game_type", string(gameType)),
		zap.String("host_id", hostID),
	)
	return s
}

// GetSession retrieves a session by room id.
func (m *Manager) GetSession(roomID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[roomID]
	return s, ok
}

// JoinSession attaches a player's connection to a session. Rejoining with the
// same player id replaces the connection handle and never duplicates the
// seat.
func (m *Manager) JoinSession(roomID, playerID, playerName string, conn Conn) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[roomID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	s.addPlayer(playerID, playerName, conn)
	s.mu.Unlock()

	m.logger.Info("player joined session",
		zap.String("room_id", roomID),
		zap.String("player_id", playerID),
		zap.String("player_name", playerName),
	)
	return s, nil
}

// LeaveSession detaches a player's connection. The player keeps their seat in
// the game; when the last connection closes the session is deregistered.
func (m *Manager) LeaveSession(roomID, playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[roomID]
	if !ok {
		return
	}

	s.mu.Lock()
	s.detachConn(playerID)
	empty := len(s.conns) == 0
	s.mu.Unlock()

	if empty {
		delete(m.sessions, roomID)
		m.logger.Info("session removed (empty)", zap.String("room_id", roomID))
	}
}

// ActiveSessionCount returns the number of registered sessions.
func (m *Manager) ActiveSessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartGame constructs the session's game state, deals the opening hands to
// the connected players, and pushes one personalized snapshot per player
// followed by a game_started broadcast.
func (m *Manager) StartGame(roomID string) error {
	m.mu.RLock()
	s, ok := m.sessions[roomID]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	if s.state != nil {
		s.mu.Unlock()
		return ErrGameAlreadyStarted
	}

	players := make([]string, 0, len(s.playerIDs))
	for _, id := range s.playerIDs {
		if _, connected := s.conns[id]; connected {
			players = append(players, id)
		}
	}

	state, err := game.New(s.GameType, players)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = state
	s.status = StatusPlaying

	snapshots := m.buildSnapshots(s)
	conns := s.connSnapshot()

	roster := make([]PlayerInfo, 0, len(players))
	for _, id := range players {
		roster = append(roster, PlayerInfo{ID: id, Name: s.playerNameLocked(id)})
	}
	started := GameStartedMessage{Type: "game_started", GameType: s.GameType, Players: roster}
	s.mu.Unlock()

	m.logger.Info("game started",
		zap.String("room_id", roomID),
		zap.String("game_type", string(s.GameType)),
		zap.Int("players", len(players)),
	)

	m.deliver(s, conns, snapshots)
	m.deliverAll(s, conns, started, "")
	return nil
}

// HandleAction is the single mutation entry point for game actions. The
// read-validate-mutate sequence runs under the session lock; snapshot
// delivery fans out afterwards and completes before the call returns. Errors
// are scoped to the offending action and reported to the sender only.
func (m *Manager) HandleAction(roomID, playerID string, action Action) error {
	m.mu.RLock()
	s, ok := m.sessions[roomID]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return ErrGameNotStarted
	}

	// Teen Patti "see" is the one game action that is not turn-gated.
	if action.Name != "see" && s.state.CurrentPlayer() != playerID {
		s.mu.Unlock()
		return game.ErrIllegalTurn
	}

	broadcastName, amount, err := m.applyAction(s, playerID, action)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	actionMsg := PlayerActionMessage{
		Type:       "player_action",
		PlayerID:   playerID,
		PlayerName: s.playerNameLocked(playerID),
		Action:     broadcastName,
		Amount:     amount,
	}

	snapshots := m.buildSnapshots(s)
	conns := s.connSnapshot()

	var completeMsg *GameCompleteMessage
	var rewards []reward.Entry
	if s.state.IsComplete() && !s.rewardIssued {
		s.rewardIssued = true
		s.status = StatusComplete
		rewards = reward.Table(s.GameType, s.playerIDs, s.namesSnapshot(), s.state.WinnerID())
		completeMsg = &GameCompleteMessage{
			Type:       "game_complete",
			WinnerID:   s.state.WinnerID(),
			WinnerName: s.playerNameLocked(s.state.WinnerID()),
			HandName:   m.winnerHandName(s),
			Rewards:    rewards,
			FinalState: s.state.View(""),
		}
	}
	gameType := s.GameType
	s.mu.Unlock()

	m.deliverAll(s, conns, actionMsg, "")
	m.deliver(s, conns, snapshots)

	if completeMsg != nil {
		m.deliverAll(s, conns, *completeMsg, "")
		m.logger.Info("game complete",
			zap.String("room_id", roomID),
			zap.String("winner_id", completeMsg.WinnerID),
			zap.String("hand_name", completeMsg.HandName),
		)

		// Ledger posting happens off the action path so a slow collaborator
		// cannot stall other players' turns.
		if m.issuer != nil {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), rewardIssueTimeout)
				defer cancel()
				if issueErr := m.issuer.Issue(ctx, roomID, gameType, rewards); issueErr != nil {
					m.logger.Error("failed to post rewards",
						zap.String("room_id", roomID),
						zap.Error(issueErr),
					)
				}
			}()
		}
	}
	return nil
}

// applyAction dispatches to the variant handler. It returns the action name
// to broadcast and, for monetary actions, the amount involved. Caller holds
// the session lock.
func (m *Manager) applyAction(s *Session, playerID string, action Action) (string, *int, error) {
	switch s.GameType {
	case game.TypeTeenPatti:
		return applyTeenPatti(s.state.(*game.TeenPattiState), playerID, action)
	case game.TypePoker:
		return applyPoker(s.state.(*game.PokerState), playerID, action)
	case game.TypeRummy:
		return applyRummy(s.state.(*game.RummyState), playerID, action)
	default:
		return "", nil, fmt.Errorf("unknown game type %q", s.GameType)
	}
}

func applyTeenPatti(state *game.TeenPattiState, playerID string, action Action) (string, *int, error) {
	switch action.Name {
	case "see":
		return "seen", nil, state.See(playerID)
	case "fold":
		return "fold", nil, state.Fold(playerID)
	case "call":
		amount, err := state.Call(playerID)
		return "call", &amount, err
	case "raise":
		// An omitted amount raises to double the current bet.
		bid := state.CurrentBet() * 2
		if action.Amount != nil {
			bid = *action.Amount
		}
		amount, err := state.Raise(playerID, bid)
		return "raise", &amount, err
	case "show":
		return "show", nil, state.Show(playerID)
	default:
		return "", nil, fmt.Errorf("%w: unknown action %q", game.ErrInvalidAction, action.Name)
	}
}

func applyPoker(state *game.PokerState, playerID string, action Action) (string, *int, error) {
	switch action.Name {
	case "fold":
		return "fold", nil, state.Fold(playerID)
	case "check":
		return "check", nil, state.Check(playerID)
	case "call":
		amount, err := state.Call(playerID)
		return "call", &amount, err
	case "raise":
		amount, err := state.Raise(playerID, amountOrZero(action))
		return "raise", &amount, err
	case "all_in":
		amount, err := state.AllIn(playerID, amountOrZero(action))
		return "all_in", &amount, err
	default:
		return "", nil, fmt.Errorf("%w: unknown action %q", game.ErrInvalidAction, action.Name)
	}
}

// amountOrZero resolves an omitted amount for actions whose raise flooring
// already supplies the table minimum.
func amountOrZero(action Action) int {
	if action.Amount == nil {
		return 0
	}
	return *action.Amount
}

func applyRummy(state *game.RummyState, playerID string, action Action) (string, *int, error) {
	switch action.Name {
	case "draw_deck":
		_, err := state.DrawFromDeck(playerID)
		return "draw_deck", nil, err
	case "draw_discard":
		_, err := state.DrawFromDiscard(playerID)
		return "draw_discard", nil, err
	case "discard":
		_, err := state.DiscardCard(playerID, action.CardIndex)
		return "discard", nil, err
	case "declare":
		return "declare", nil, state.Declare(playerID, action.Melds)
	default:
		return "", nil, fmt.Errorf("%w: unknown action %q", game.ErrInvalidAction, action.Name)
	}
}

// winnerHandName resolves the winner's hand description for the completion
// announcement. Rummy wins have no hand name. Caller holds the session lock.
func (m *Manager) winnerHandName(s *Session) string {
	winnerID := s.state.WinnerID()
	if winnerID == "" {
		return ""
	}

	var name string
	var err error
	switch state := s.state.(type) {
	case *game.TeenPattiState:
		name, err = eval.TeenPattiHandName(state.Hand(winnerID))
	case *game.PokerState:
		name, err = eval.PokerHandName(state.Hand(winnerID), state.Community())
	default:
		return ""
	}
	if err != nil {
		m.logger.Warn("failed to resolve winner hand name",
			zap.String("room_id", s.RoomID),
			zap.Error(err),
		)
		return ""
	}
	return name
}

// buildSnapshots renders one redacted game_state message per connected
// player. Views are computed fresh per viewer and never shared. Caller holds
// the session lock.
func (m *Manager) buildSnapshots(s *Session) map[string]any {
	names := s.namesSnapshot()
	snapshots := make(map[string]any, len(s.conns))
	for playerID := range s.conns {
		snapshots[playerID] = GameStateMessage{
			Type:        "game_state",
			GameType:    s.GameType,
			PlayerNames: names,
			State:       s.state.View(playerID),
		}
	}
	return snapshots
}

// Chat relays a chat line to every connection in the room. Chat is not
// turn-gated and does not touch game state.
func (m *Manager) Chat(roomID, playerID, message string) error {
	m.mu.RLock()
	s, ok := m.sessions[roomID]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	msg := ChatMessage{
		Type:       "chat",
		PlayerID:   playerID,
		PlayerName: s.playerNameLocked(playerID),
		Message:    message,
	}
	conns := s.connSnapshot()
	s.mu.Unlock()

	m.deliverAll(s, conns, msg, "")
	return nil
}

// Broadcast sends a message to every connection in the room, optionally
// excluding one player.
func (m *Manager) Broadcast(roomID string, msg any, excludePlayerID string) {
	m.mu.RLock()
	s, ok := m.sessions[roomID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	s.mu.Lock()
	conns := s.connSnapshot()
	s.mu.Unlock()

	m.deliverAll(s, conns, msg, excludePlayerID)
}

// SendToPlayer sends a message to one player if connected.
func (m *Manager) SendToPlayer(roomID, playerID string, msg any) {
	m.mu.RLock()
	s, ok := m.sessions[roomID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	s.mu.Lock()
	conn, connected := s.conns[playerID]
	s.mu.Unlock()
	if !connected {
		return
	}

	if err := conn.Send(msg); err != nil {
		m.handleSendFailure(s, playerID, err)
	}
}

// deliverAll fans a single message out to every connection concurrently and
// waits for completion. Failed connections are detached rather than failing
// the action.
func (m *Manager) deliverAll(s *Session, conns map[string]Conn, msg any, excludePlayerID string) {
	msgs := make(map[string]any, len(conns))
	for playerID := range conns {
		if playerID == excludePlayerID {
			continue
		}
		msgs[playerID] = msg
	}
	m.deliver(s, conns, msgs)
}

// deliver sends per-player messages concurrently and waits for all sends to
// finish before returning.
func (m *Manager) deliver(s *Session, conns map[string]Conn, msgs map[string]any) {
	var g errgroup.Group
	var failedMu sync.Mutex
	var failed []string

	for playerID, msg := range msgs {
		conn, ok := conns[playerID]
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := conn.Send(msg); err != nil {
				m.logger.Warn("failed to send to player",
					zap.String("room_id", s.RoomID),
					zap.String("player_id", playerID),
					zap.Error(err),
				)
				failedMu.Lock()
				failed = append(failed, playerID)
				failedMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, playerID := range failed {
		m.handleSendFailure(s, playerID, nil)
	}
}

// handleSendFailure detaches a dead connection and garbage-collects the
// session once no live connections remain.
func (m *Manager) handleSendFailure(s *Session, playerID string, err error) {
	if err != nil {
		m.logger.Warn("failed to send to player",
			zap.String("room_id", s.RoomID),
			zap.String("player_id", playerID),
			zap.Error(err),
		)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s.mu.Lock()
	s.detachConn(playerID)
	empty := len(s.conns) == 0
	s.mu.Unlock()

	if empty {
		if registered, ok := m.sessions[s.RoomID]; ok && registered == s {
			delete(m.sessions, s.RoomID)
			m.logger.Info("session removed (empty)", zap.String("room_id", s.RoomID))
		}
	}
}
