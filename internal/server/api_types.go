package server

import "tikitak-server/internal/tictactoe"

// Role distinguishes seated players from watch-only participants.
type Role string

const (
	RolePlayer    Role = "player"
	RoleSpectator Role = "spectator"
)

// Participant is the public identity of anyone in a room.
type Participant struct {
	Nickname string `json:"nickname"`
	Role     Role   `json:"role"`
}

// RoomSnapshot is the serializable projection of a room sent to clients.
// It never carries connection handles.
type RoomSnapshot struct {
	ID           string                      `json:"id"`
	Board        tictactoe.Board             `json:"board"`
	Status       RoomStatus                  `json:"status"`
	CurrentTurn  tictactoe.Symbol            `json:"currentTurn"`
	Assignments  map[string]tictactoe.Symbol `json:"assignments"`
	Players      map[string]Participant      `json:"players"`
	IsTournament bool                        `json:"isTournament"`
}

// RoomUpdatePayload wraps a snapshot for the room_update event.
type RoomUpdatePayload struct {
	Room RoomSnapshot `json:"room"`
}

// GameOverPayload is broadcast once per finished game. Winner is nil on a
// draw.
type GameOverPayload struct {
	Winner *tictactoe.Symbol `json:"winner"`
	Draw   bool              `json:"draw"`
}

// ChatPayload carries a sanitized chat line tagged with the sender's
// display name.
type ChatPayload struct {
	Nickname string `json:"nickname"`
	Text     string `json:"text"`
}

// ErrorPayload is sent only to the connection whose operation failed.
type ErrorPayload struct {
	Message string `json:"message"`
}

// MoveRequest is the game:move payload. CellIndex is a pointer so a
// missing field is distinguishable from cell 0.
type MoveRequest struct {
	CellIndex *int `json:"cellIndex"`
}

// ChatRequest is the chat:message payload.
type ChatRequest struct {
	Text string `json:"text"`
}

// RoomSummary is one row of the public room listing.
type RoomSummary struct {
	ID             string     `json:"id"`
	Status         RoomStatus `json:"status"`
	IsTournament   bool       `json:"isTournament"`
	PlayerCount    int        `json:"playerCount"`
	SpectatorCount int        `json:"spectatorCount"`
}

// RoomListResponse is the body of GET /api/v1/rooms.
type RoomListResponse struct {
	Rooms []RoomSummary `json:"rooms"`
}

// GuestRequest is the body of POST /api/v1/auth/guest.
type GuestRequest struct {
	Nickname string `json:"nickname"`
}

// GuestResponse is the issued guest identity.
type GuestResponse struct {
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
	Token    string `json:"token"`
}
