package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/coder/websocket"
)

// RoomConn is the send capability a room holds for one participant.
// Delivery is best-effort: a closed or stalled peer returns an error and
// the caller drops the frame instead of failing the mutation that
// produced it.
type RoomConn interface {
	Send(msg ServerMessage) error
	Close(reason string)
}

// wsConn adapts a coder/websocket connection to RoomConn. Writes get
// their own bounded context so a stalled recipient cannot hold up the
// goroutine fanning out a broadcast indefinitely.
type wsConn struct {
	sock         *websocket.Conn
	writeTimeout time.Duration
}

func newWSConn(sock *websocket.Conn) *wsConn {
	return &wsConn{sock: sock, writeTimeout: 5 * time.Second}
}

func (c *wsConn) Send(msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", msg.Type, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
	defer cancel()
	return c.sock.Write(ctx, websocket.MessageText, data)
}

func (c *wsConn) Close(reason string) {
	c.sock.Close(websocket.StatusNormalClosure, reason)
}

// deliver fans events out to every connection in order: all recipients
// see msg[0] before anyone is offered msg[1]. Failed sends are logged and
// skipped; a dead socket is cleaned up by its own read loop via Leave.
func deliver(conns []RoomConn, msgs ...ServerMessage) {
	for _, msg := range msgs {
		for _, conn := range conns {
			if err := conn.Send(msg); err != nil {
				log.Printf("dropped %s event: %v", msg.Type, err)
			}
		}
	}
}
