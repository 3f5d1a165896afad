package server

import "errors"

// Room operation errors. All are user-facing and non-fatal: the gateway
// converts them into an error event for the originating connection and
// the room state is untouched because validation happens before any
// mutation.
var (
	ErrRoomNotFound       = errors.New("ROOM_NOT_FOUND: room not found")
	ErrRoomFull           = errors.New("ROOM_FULL: both player seats are taken")
	ErrNotAPlayer         = errors.New("NOT_A_PLAYER: you are not an active player in this room")
	ErrGameNotActive      = errors.New("GAME_NOT_ACTIVE: game is not active")
	ErrOutOfTurn          = errors.New("OUT_OF_TURN: not your turn")
	ErrCellOccupied       = errors.New("CELL_OCCUPIED: cell already occupied")
	ErrUnknownParticipant = errors.New("UNKNOWN_PARTICIPANT: unknown participant in this room")
	ErrUnauthorized       = errors.New("UNAUTHORIZED: invalid or missing token")
)
