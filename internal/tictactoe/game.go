package tictactoe

// MoveStatus classifies the outcome of a move in a local game.
type MoveStatus string

const (
	MoveContinue MoveStatus = "continue"
	MoveWin      MoveStatus = "win"
	MoveDraw     MoveStatus = "draw"
	MoveInvalid  MoveStatus = "invalid"
	MoveFinished MoveStatus = "finished"
)

// MoveResult reports how a move changed the game. Winner is set only when
// Status is MoveWin.
type MoveResult struct {
	Status MoveStatus
	Winner Symbol
}

// Game drives a single-process match between two seats. It has no
// networking or concurrency concerns; the room coordinator keeps its own
// state machine and shares only the win/draw predicates with this type.
type Game struct {
	Board       Board
	CurrentTurn Symbol
	Over        bool
}

// NewGame starts an empty game with X to move.
func NewGame() *Game {
	return &Game{CurrentTurn: SymbolX}
}

// Reset clears the board and returns the turn to X.
func (g *Game) Reset() {
	g.Board = Board{}
	g.CurrentTurn = SymbolX
	g.Over = false
}

// MakeMove plays the current symbol at index. On a non-terminal move the
// turn flips to the other symbol; on a terminal move the game is over and
// the turn is left untouched.
func (g *Game) MakeMove(index int) MoveResult {
	if g.Over {
		return MoveResult{Status: MoveFinished}
	}
	if index < 0 || index >= len(g.Board) || g.Board[index] != Empty {
		return MoveResult{Status: MoveInvalid}
	}

	g.Board[index] = g.CurrentTurn

	if CheckWin(g.Board, g.CurrentTurn) {
		g.Over = true
		return MoveResult{Status: MoveWin, Winner: g.CurrentTurn}
	}
	if CheckDraw(g.Board) {
		g.Over = true
		return MoveResult{Status: MoveDraw}
	}

	g.CurrentTurn = g.CurrentTurn.Other()
	return MoveResult{Status: MoveContinue}
}
