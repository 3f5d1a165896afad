package tictactoe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func boardFrom(cells map[int]Symbol) Board {
	var b Board
	for i, s := range cells {
		b[i] = s
	}
	return b
}

func TestCheckWin_AllEightLines(t *testing.T) {
	lines := [][3]int{
		{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
		{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
		{0, 4, 8}, {2, 4, 6},
	}

	for _, line := range lines {
		var b Board
		for _, idx := range line {
			b[idx] = SymbolX
		}
		assert.True(t, CheckWin(b, SymbolX), "line %v should win for X", line)
		assert.False(t, CheckWin(b, SymbolO), "line %v should not win for O", line)
	}
}

func TestCheckWin_EmptyBoard(t *testing.T) {
	var b Board
	assert.False(t, CheckWin(b, SymbolX))
	assert.False(t, CheckWin(b, SymbolO))
}

func TestCheckWin_NoFalsePositives(t *testing.T) {
	// Full boards with no complete line for X.
	boards := []Board{
		// X O X / X O O / O X X
		{SymbolX, SymbolO, SymbolX, SymbolX, SymbolO, SymbolO, SymbolO, SymbolX, SymbolX},
		// O X O / X X O / X O X
		{SymbolO, SymbolX, SymbolO, SymbolX, SymbolX, SymbolO, SymbolX, SymbolO, SymbolX},
	}
	for i, b := range boards {
		assert.False(t, CheckWin(b, SymbolX), "board %d should not win for X", i)
	}

	// Two in a line is not a win.
	b := boardFrom(map[int]Symbol{0: SymbolX, 1: SymbolX})
	assert.False(t, CheckWin(b, SymbolX))
}

func TestCheckDraw(t *testing.T) {
	var empty Board
	assert.False(t, CheckDraw(empty))

	partial := boardFrom(map[int]Symbol{0: SymbolX, 4: SymbolO})
	assert.False(t, CheckDraw(partial))

	// X O X / X O O / O X X: full with no winner
	full := Board{SymbolX, SymbolO, SymbolX, SymbolX, SymbolO, SymbolO, SymbolO, SymbolX, SymbolX}
	assert.True(t, CheckDraw(full))
}

func TestCheckDraw_FullWinningBoardIsStillFull(t *testing.T) {
	// A full board holding a win satisfies both predicates; callers must
	// evaluate CheckWin first.
	full := Board{SymbolX, SymbolX, SymbolX, SymbolO, SymbolO, SymbolX, SymbolX, SymbolO, SymbolO}
	assert.True(t, CheckWin(full, SymbolX))
	assert.True(t, CheckDraw(full))
}

func TestSymbol_Other(t *testing.T) {
	assert.Equal(t, SymbolO, SymbolX.Other())
	assert.Equal(t, SymbolX, SymbolO.Other())
}

func TestBoard_AvailableMoves(t *testing.T) {
	var b Board
	assert.Len(t, b.AvailableMoves(), 9)

	b[0] = SymbolX
	b[8] = SymbolO
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, b.AvailableMoves())
}

func TestBoard_JSONNullCells(t *testing.T) {
	b := boardFrom(map[int]Symbol{0: SymbolX, 4: SymbolO})

	data, err := json.Marshal(b)
	assert.NoError(t, err)
	assert.JSONEq(t, `["X",null,null,null,"O",null,null,null,null]`, string(data))

	var decoded Board
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)
}
