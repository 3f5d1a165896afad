package server

import "encoding/json"

// ClientMessage is the inbound frame envelope. Data is left raw so each
// handler can decode its own payload shape.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage is the outbound event envelope.
type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Inbound message types understood by the websocket gateway.
const (
	MsgGameMove    = "game:move"
	MsgChatMessage = "chat:message"
)

// Outbound event types.
const (
	EventRoomUpdate = "room_update"
	EventGameOver   = "game_over"
	EventChat       = "chat"
	EventError      = "error"
)
