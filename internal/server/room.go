package server

import (
	"errors"
	"strings"
	"sync"

	"tikitak-server/internal/tictactoe"
)

// RoomStatus is the lifecycle phase of a room.
type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusActive   RoomStatus = "active"
	StatusFinished RoomStatus = "finished"
)

// RoomOptions are fixed at creation and ignored when joining an existing
// room.
type RoomOptions struct {
	IsPublic     bool
	IsTournament bool
}

// Room is one game session keyed by an externally chosen id. Everything
// below mu is shared across all connections attached to the room and is
// only touched while holding mu; operations on different rooms never
// contend.
type Room struct {
	ID           string
	IsPublic     bool
	IsTournament bool

	mu           sync.Mutex
	Board        tictactoe.Board
	Status       RoomStatus
	CurrentTurn  tictactoe.Symbol
	Assignments  map[string]tictactoe.Symbol
	Participants map[string]Participant
	Conns        map[string]RoomConn
}

// NewRoom creates an empty room in waiting state with X to move.
func NewRoom(id string, opts RoomOptions) *Room {
	return &Room{
		ID:           id,
		IsPublic:     opts.IsPublic,
		IsTournament: opts.IsTournament,
		Status:       StatusWaiting,
		CurrentTurn:  tictactoe.SymbolX,
		Assignments:  make(map[string]tictactoe.Symbol),
		Participants: make(map[string]Participant),
		Conns:        make(map[string]RoomConn),
	}
}

// snapshot builds the connection-free projection sent to clients. The
// caller must hold r.mu; the maps are copied so the snapshot stays stable
// after the lock is released.
func (r *Room) snapshot() RoomSnapshot {
	assignments := make(map[string]tictactoe.Symbol, len(r.Assignments))
	for id, symbol := range r.Assignments {
		assignments[id] = symbol
	}
	players := make(map[string]Participant, len(r.Participants))
	for id, p := range r.Participants {
		players[id] = p
	}
	return RoomSnapshot{
		ID:           r.ID,
		Board:        r.Board,
		Status:       r.Status,
		CurrentTurn:  r.CurrentTurn,
		Assignments:  assignments,
		Players:      players,
		IsTournament: r.IsTournament,
	}
}

// summary builds the public-listing row. Caller must hold r.mu.
func (r *Room) summary() RoomSummary {
	spectators := 0
	for _, p := range r.Participants {
		if p.Role == RoleSpectator {
			spectators++
		}
	}
	return RoomSummary{
		ID:             r.ID,
		Status:         r.Status,
		IsTournament:   r.IsTournament,
		PlayerCount:    len(r.Assignments),
		SpectatorCount: spectators,
	}
}

// connList copies the current connection set for fanout after the room
// lock is released. Caller must hold r.mu.
func (r *Room) connList() []RoomConn {
	conns := make([]RoomConn, 0, len(r.Conns))
	for _, c := range r.Conns {
		conns = append(conns, c)
	}
	return conns
}

// recomputeStatus reconciles the status field with the assignments and
// board after a join: a terminal board stays finished, two seated players
// on a live board means active, anything else is waiting. Caller must
// hold r.mu.
func (r *Room) recomputeStatus() {
	if tictactoe.CheckWin(r.Board, tictactoe.SymbolX) ||
		tictactoe.CheckWin(r.Board, tictactoe.SymbolO) ||
		tictactoe.CheckDraw(r.Board) {
		r.Status = StatusFinished
		return
	}
	if len(r.Assignments) == 2 {
		r.Status = StatusActive
	} else {
		r.Status = StatusWaiting
	}
}

// ValidateRoomID rejects ids the registry will not key on. Ids are
// otherwise opaque and case-sensitive.
func ValidateRoomID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("ROOM_ID_INVALID: room id cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("ROOM_ID_INVALID: room id too long (max 64 characters)")
	}
	return nil
}
