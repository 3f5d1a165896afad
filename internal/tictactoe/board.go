package tictactoe

import "encoding/json"

// Symbol is one of the two turn tokens a player can hold.
type Symbol string

const (
	SymbolX Symbol = "X"
	SymbolO Symbol = "O"
	Empty   Symbol = ""
)

// Other returns the opposing symbol.
func (s Symbol) Other() Symbol {
	if s == SymbolX {
		return SymbolO
	}
	return SymbolX
}

// Board is the fixed 9-cell grid in row-major order. A cell once set is
// never cleared except by a full reset.
type Board [9]Symbol

// winLines are the 8 canonical triples: 3 rows, 3 columns, 2 diagonals.
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// CheckWin reports whether symbol occupies a complete line.
func CheckWin(b Board, symbol Symbol) bool {
	for _, line := range winLines {
		if b[line[0]] == symbol && b[line[1]] == symbol && b[line[2]] == symbol {
			return true
		}
	}
	return false
}

// CheckDraw reports whether every cell is occupied. Callers must check
// CheckWin first: a full board containing a winning line is a win, not a
// draw.
func CheckDraw(b Board) bool {
	for _, cell := range b {
		if cell == Empty {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no cell has been played yet.
func (b Board) IsEmpty() bool {
	for _, cell := range b {
		if cell != Empty {
			return false
		}
	}
	return true
}

// AvailableMoves returns the indices of all empty cells.
func (b Board) AvailableMoves() []int {
	moves := make([]int, 0, len(b))
	for i, cell := range b {
		if cell == Empty {
			moves = append(moves, i)
		}
	}
	return moves
}

// MarshalJSON encodes empty cells as null, matching the wire contract
// (board is a 9-length array of Symbol|null).
func (b Board) MarshalJSON() ([]byte, error) {
	cells := make([]*Symbol, len(b))
	for i := range b {
		if b[i] != Empty {
			s := b[i]
			cells[i] = &s
		}
	}
	return json.Marshal(cells)
}

// UnmarshalJSON accepts the null-for-empty encoding produced by MarshalJSON.
func (b *Board) UnmarshalJSON(data []byte) error {
	var cells [9]*Symbol
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	for i, cell := range cells {
		if cell != nil {
			b[i] = *cell
		} else {
			b[i] = Empty
		}
	}
	return nil
}
