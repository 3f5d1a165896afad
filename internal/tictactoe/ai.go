package tictactoe

import (
	"math/rand"
	"time"
)

// Difficulty selects how hard the computer opponent plays.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AI picks moves for one symbol. Easy plays randomly, medium takes an
// immediate win or blocks one, hard searches the full game tree.
type AI struct {
	Symbol Symbol
	rng    *rand.Rand
}

// NewAI creates an opponent playing the given symbol.
func NewAI(symbol Symbol) *AI {
	return &AI{
		Symbol: symbol,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Move returns the chosen cell index, or -1 when no cell is free.
func (a *AI) Move(b Board, difficulty Difficulty) int {
	moves := b.AvailableMoves()
	if len(moves) == 0 {
		return -1
	}

	switch difficulty {
	case DifficultyEasy:
		return moves[a.rng.Intn(len(moves))]
	case DifficultyMedium:
		return a.tacticalMove(b, moves)
	default:
		return a.minimaxMove(b, moves)
	}
}

// tacticalMove takes a winning cell if one exists, otherwise blocks the
// opponent's winning cell, otherwise plays randomly.
func (a *AI) tacticalMove(b Board, moves []int) int {
	opponent := a.Symbol.Other()

	for _, mv := range moves {
		next := b
		next[mv] = a.Symbol
		if CheckWin(next, a.Symbol) {
			return mv
		}
	}
	for _, mv := range moves {
		next := b
		next[mv] = opponent
		if CheckWin(next, opponent) {
			return mv
		}
	}
	return moves[a.rng.Intn(len(moves))]
}

func (a *AI) minimaxMove(b Board, moves []int) int {
	best := moves[0]
	bestScore := -100
	for _, mv := range moves {
		next := b
		next[mv] = a.Symbol
		if score := a.minimax(next, false); score > bestScore {
			best = mv
			bestScore = score
		}
	}
	return best
}

// minimax scores a position from the AI's perspective: +10 win, -10 loss,
// 0 draw. The 9-cell tree is small enough to search exhaustively.
func (a *AI) minimax(b Board, maximizing bool) int {
	opponent := a.Symbol.Other()
	switch {
	case CheckWin(b, a.Symbol):
		return 10
	case CheckWin(b, opponent):
		return -10
	case CheckDraw(b):
		return 0
	}

	if maximizing {
		best := -100
		for _, mv := range b.AvailableMoves() {
			next := b
			next[mv] = a.Symbol
			if score := a.minimax(next, false); score > best {
				best = score
			}
		}
		return best
	}

	best := 100
	for _, mv := range b.AvailableMoves() {
		next := b
		next[mv] = opponent
		if score := a.minimax(next, true); score < best {
			best = score
		}
	}
	return best
}
