package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tikitak-server/internal/tictactoe"
)

func TestDeliverSkipsDeadConnections(t *testing.T) {
	alive := &fakeConn{}
	dead := &fakeConn{failSend: true}

	deliver([]RoomConn{dead, alive}, errorEvent("ping"), errorEvent("pong"))

	msgs := alive.messages()
	require.Len(t, msgs, 2, "healthy connection must receive every frame")
	assert.Equal(t, "ping", msgs[0].Data.(ErrorPayload).Message)
	assert.Equal(t, "pong", msgs[1].Data.(ErrorPayload).Message)
	assert.Empty(t, dead.messages())
}

func TestDeliverOrdersEventsAcrossConnections(t *testing.T) {
	a, b := &fakeConn{}, &fakeConn{}
	snap := NewRoom("r", RoomOptions{}).snapshot()

	deliver([]RoomConn{a, b},
		roomUpdate(snap),
		ServerMessage{Type: EventGameOver, Data: GameOverPayload{Draw: true}},
	)

	for _, conn := range []*fakeConn{a, b} {
		msgs := conn.messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, EventRoomUpdate, msgs[0].Type)
		assert.Equal(t, EventGameOver, msgs[1].Type)
	}
}

func TestGameOverFollowsFinalSnapshot(t *testing.T) {
	m := NewRoomManager(nil)
	c1, _ := seatTwoPlayers(t, m, "lobby")

	for _, mv := range []struct {
		player string
		cell   int
	}{
		{"p1", 0}, {"p2", 3}, {"p1", 1}, {"p2", 4}, {"p1", 2},
	} {
		require.NoError(t, m.ApplyMove("lobby", mv.player, mv.cell))
	}

	// The finished snapshot must arrive before the verdict, and the
	// snapshot already carries the winning board.
	msgs := c1.messages()
	var updateIdx, overIdx = -1, -1
	for i, msg := range msgs {
		switch msg.Type {
		case EventRoomUpdate:
			if msg.Data.(RoomUpdatePayload).Room.Status == StatusFinished {
				updateIdx = i
			}
		case EventGameOver:
			overIdx = i
		}
	}
	require.GreaterOrEqual(t, updateIdx, 0)
	require.GreaterOrEqual(t, overIdx, 0)
	assert.Less(t, updateIdx, overIdx)

	finalBoard := msgs[updateIdx].Data.(RoomUpdatePayload).Room.Board
	assert.Equal(t, tictactoe.SymbolX, finalBoard[0])
	assert.Equal(t, tictactoe.SymbolX, finalBoard[1])
	assert.Equal(t, tictactoe.SymbolX, finalBoard[2])
}

func TestBrokenConnectionDoesNotBlockMove(t *testing.T) {
	m := NewRoomManager(nil)
	c1, c2 := seatTwoPlayers(t, m, "lobby")

	c2.mu.Lock()
	c2.failSend = true
	c2.mu.Unlock()

	require.NoError(t, m.ApplyMove("lobby", "p1", 4))

	snap := lastSnapshot(t, c1)
	assert.Equal(t, tictactoe.SymbolX, snap.Board[4])
}
