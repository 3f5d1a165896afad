package server

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"tikitak-server/internal/tictactoe"
)

// RoomManager owns the room registry and enforces the session and turn
// rules for every inbound operation. The registry map is guarded by its
// own lock; each operation then serializes on the room it touches, builds
// any outbound frames under that lock, and delivers them only after the
// room is consistent again.
type RoomManager struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	matches *MatchStore // optional; nil disables match recording
}

// NewRoomManager creates an empty registry. matches may be nil.
func NewRoomManager(matches *MatchStore) *RoomManager {
	return &RoomManager{
		rooms:   make(map[string]*Room),
		matches: matches,
	}
}

// GetOrCreate returns the room keyed by roomID, creating it in waiting
// state on first use. opts are ignored when the room already exists.
func (m *RoomManager) GetOrCreate(roomID string, opts RoomOptions) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok := m.rooms[roomID]; ok {
		return room
	}
	room := NewRoom(roomID, opts)
	m.rooms[roomID] = room
	return room
}

// Get returns the live room for roomID, if any.
func (m *RoomManager) Get(roomID string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[roomID]
	return room, ok
}

// Delete removes roomID from the registry. Idempotent.
func (m *RoomManager) Delete(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, roomID)
}

// RoomCount reports the number of live rooms.
func (m *RoomManager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// ListPublic returns summaries of all public rooms. Ordering follows map
// iteration and is unspecified.
func (m *RoomManager) ListPublic() []RoomSummary {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		if room.IsPublic {
			rooms = append(rooms, room)
		}
	}
	m.mu.RUnlock()

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		room.mu.Lock()
		summaries = append(summaries, room.summary())
		room.mu.Unlock()
	}
	return summaries
}

// Join attaches a participant to a room, creating the room on demand.
// Players reuse their existing symbol on reconnect or take the first free
// one (X before O); spectators never occupy a seat. The stored connection
// is replaced last-writer-wins and a superseded connection is closed
// explicitly. Returns the assigned symbol, empty for spectators.
func (m *RoomManager) Join(roomID, playerID, nickname string, role Role, conn RoomConn, opts RoomOptions) (tictactoe.Symbol, error) {
	var room *Room
	for {
		room = m.GetOrCreate(roomID, opts)
		room.mu.Lock()
		m.mu.RLock()
		registered := m.rooms[roomID] == room
		m.mu.RUnlock()
		if registered {
			break
		}
		// Lost a race with the delete-on-empty path; start over.
		room.mu.Unlock()
	}

	symbol := tictactoe.Empty
	if role == RolePlayer {
		var seated bool
		symbol, seated = room.Assignments[playerID]
		if !seated {
			symbol = firstFreeSymbol(room.Assignments)
			if symbol == tictactoe.Empty {
				m.dropIfEmpty(room)
				room.mu.Unlock()
				return tictactoe.Empty, ErrRoomFull
			}
			room.Assignments[playerID] = symbol
		}
	}

	room.Participants[playerID] = Participant{Nickname: nickname, Role: role}

	superseded := room.Conns[playerID]
	room.Conns[playerID] = conn
	room.recomputeStatus()

	snap := room.snapshot()
	targets := room.connList()
	room.mu.Unlock()

	if superseded != nil && superseded != conn {
		superseded.Send(errorEvent("Connected from another device."))
		superseded.Close("connected elsewhere")
	}
	deliver(targets, roomUpdate(snap))
	return symbol, nil
}

// ApplyMove validates and applies one move for playerID. On a terminal
// move the room is finished and a game_over event follows the snapshot;
// otherwise the turn flips. cellIndex range is the gateway's problem and
// must be validated before this call.
func (m *RoomManager) ApplyMove(roomID, playerID string, cellIndex int) error {
	room, ok := m.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	symbol, seated := room.Assignments[playerID]
	if !seated {
		room.mu.Unlock()
		return ErrNotAPlayer
	}
	if room.Status != StatusActive {
		room.mu.Unlock()
		return ErrGameNotActive
	}
	if room.CurrentTurn != symbol {
		room.mu.Unlock()
		return ErrOutOfTurn
	}
	if room.Board[cellIndex] != tictactoe.Empty {
		room.mu.Unlock()
		return ErrCellOccupied
	}

	room.Board[cellIndex] = symbol

	var events []ServerMessage
	var result *MatchResult
	switch {
	case tictactoe.CheckWin(room.Board, symbol):
		room.Status = StatusFinished
		winner := symbol
		events = append(events, roomUpdate(room.snapshot()),
			ServerMessage{Type: EventGameOver, Data: GameOverPayload{Winner: &winner}})
		res := room.matchResult(&winner)
		result = &res
	case tictactoe.CheckDraw(room.Board):
		room.Status = StatusFinished
		events = append(events, roomUpdate(room.snapshot()),
			ServerMessage{Type: EventGameOver, Data: GameOverPayload{Winner: nil, Draw: true}})
		res := room.matchResult(nil)
		result = &res
	default:
		room.CurrentTurn = symbol.Other()
		events = append(events, roomUpdate(room.snapshot()))
	}

	targets := room.connList()
	room.mu.Unlock()

	deliver(targets, events...)
	if result != nil {
		m.recordMatch(*result)
	}
	return nil
}

// Chat broadcasts a sanitized chat line from any known participant. Chat
// is not gated by game phase and mutates no room state.
func (m *RoomManager) Chat(roomID, playerID, text string) error {
	room, ok := m.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	participant, known := room.Participants[playerID]
	if !known {
		room.mu.Unlock()
		return ErrUnknownParticipant
	}
	nickname := participant.Nickname
	if participant.Role == RoleSpectator {
		nickname += " (Spectator)"
	}
	targets := room.connList()
	room.mu.Unlock()

	deliver(targets, ServerMessage{
		Type: EventChat,
		Data: ChatPayload{Nickname: nickname, Text: sanitizeChat(text)},
	})
	return nil
}

// Leave handles a dropped connection for playerID. A departing seated
// player frees their symbol, demotes the room to waiting and wipes a
// non-empty board so nobody is left facing a stale position; a spectator
// just disappears from the roster. The room is deleted the moment its
// connection set empties.
func (m *RoomManager) Leave(roomID, playerID string) {
	m.leave(roomID, playerID, nil)
}

// LeaveConn is Leave scoped to one connection: when the stored connection
// was already superseded by a reconnect, the stale close is ignored so it
// cannot evict the live connection.
func (m *RoomManager) LeaveConn(roomID, playerID string, conn RoomConn) {
	m.leave(roomID, playerID, conn)
}

func (m *RoomManager) leave(roomID, playerID string, conn RoomConn) {
	room, ok := m.Get(roomID)
	if !ok {
		return
	}

	room.mu.Lock()
	if conn != nil {
		if current, live := room.Conns[playerID]; !live || current != conn {
			room.mu.Unlock()
			return
		}
	}
	delete(room.Conns, playerID)

	if _, seated := room.Assignments[playerID]; seated {
		delete(room.Assignments, playerID)
		delete(room.Participants, playerID)
		room.Status = StatusWaiting
		if !room.Board.IsEmpty() {
			room.Board = tictactoe.Board{}
			room.CurrentTurn = tictactoe.SymbolX
		}
	} else {
		delete(room.Participants, playerID)
	}

	if len(room.Conns) == 0 {
		m.dropIfEmpty(room)
		room.mu.Unlock()
		return
	}

	snap := room.snapshot()
	targets := room.connList()
	room.mu.Unlock()
	deliver(targets, roomUpdate(snap))
}

// dropIfEmpty unregisters room when it holds no connections. Caller must
// hold room.mu; the registry lock nests inside the room lock everywhere a
// room and the registry are held together.
func (m *RoomManager) dropIfEmpty(room *Room) {
	if len(room.Conns) != 0 {
		return
	}
	m.mu.Lock()
	if m.rooms[room.ID] == room {
		delete(m.rooms, room.ID)
	}
	m.mu.Unlock()
}

func (m *RoomManager) recordMatch(result MatchResult) {
	if m.matches == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.matches.Record(ctx, result); err != nil {
			log.Printf("failed to record match for room %s: %v", result.RoomID, err)
		}
	}()
}

// firstFreeSymbol picks the unassigned symbol, preferring X over O.
func firstFreeSymbol(assignments map[string]tictactoe.Symbol) tictactoe.Symbol {
	taken := make(map[tictactoe.Symbol]bool, len(assignments))
	for _, symbol := range assignments {
		taken[symbol] = true
	}
	for _, symbol := range []tictactoe.Symbol{tictactoe.SymbolX, tictactoe.SymbolO} {
		if !taken[symbol] {
			return symbol
		}
	}
	return tictactoe.Empty
}

// sanitizeChat strips angle brackets and caps the message at 200 runes.
// This is the only content policy in the system.
func sanitizeChat(text string) string {
	cleaned := strings.NewReplacer("<", "", ">", "").Replace(text)
	if runes := []rune(cleaned); len(runes) > 200 {
		return string(runes[:200])
	}
	return cleaned
}

func roomUpdate(snap RoomSnapshot) ServerMessage {
	return ServerMessage{Type: EventRoomUpdate, Data: RoomUpdatePayload{Room: snap}}
}

func errorEvent(message string) ServerMessage {
	return ServerMessage{Type: EventError, Data: ErrorPayload{Message: message}}
}
