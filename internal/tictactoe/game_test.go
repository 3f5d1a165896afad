package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGame_TurnsAlternate(t *testing.T) {
	g := NewGame()
	assert.Equal(t, SymbolX, g.CurrentTurn)

	res := g.MakeMove(0)
	assert.Equal(t, MoveContinue, res.Status)
	assert.Equal(t, SymbolO, g.CurrentTurn)

	res = g.MakeMove(4)
	assert.Equal(t, MoveContinue, res.Status)
	assert.Equal(t, SymbolX, g.CurrentTurn)
}

func TestGame_RejectsOccupiedCell(t *testing.T) {
	g := NewGame()
	g.MakeMove(0)

	before := g.Board
	res := g.MakeMove(0)
	assert.Equal(t, MoveInvalid, res.Status)
	assert.Equal(t, before, g.Board)
	assert.Equal(t, SymbolO, g.CurrentTurn)
}

func TestGame_RejectsOutOfRange(t *testing.T) {
	g := NewGame()
	assert.Equal(t, MoveInvalid, g.MakeMove(-1).Status)
	assert.Equal(t, MoveInvalid, g.MakeMove(9).Status)
}

func TestGame_WinTopRow(t *testing.T) {
	g := NewGame()
	// X: 0,1,2  O: 3,4
	for _, idx := range []int{0, 3, 1, 4} {
		assert.Equal(t, MoveContinue, g.MakeMove(idx).Status)
	}

	res := g.MakeMove(2)
	assert.Equal(t, MoveWin, res.Status)
	assert.Equal(t, SymbolX, res.Winner)
	assert.True(t, g.Over)

	// No moves accepted after the game ends.
	assert.Equal(t, MoveFinished, g.MakeMove(5).Status)
}

func TestGame_Draw(t *testing.T) {
	g := NewGame()
	// X O X / X O O / O X X with no three in a row.
	sequence := []int{0, 1, 2, 4, 3, 5, 7, 6, 8}
	for _, idx := range sequence[:8] {
		assert.Equal(t, MoveContinue, g.MakeMove(idx).Status)
	}

	res := g.MakeMove(sequence[8])
	assert.Equal(t, MoveDraw, res.Status)
	assert.Equal(t, Empty, res.Winner)
	assert.True(t, g.Over)
}

func TestGame_Reset(t *testing.T) {
	g := NewGame()
	g.MakeMove(0)
	g.MakeMove(1)

	g.Reset()
	assert.True(t, g.Board.IsEmpty())
	assert.Equal(t, SymbolX, g.CurrentTurn)
	assert.False(t, g.Over)
}
