// Package board holds the mutable Gomoku position shared by every search
// technique of a session. Stones are only ever added with Place and removed
// with Unplace, in strict stack order.
package board

import (
	"github.com/rs/zerolog/log"

	"github.com/fivestone/gomoku/move"
	"github.com/fivestone/gomoku/zobrist"
)

const (
	Dim      = move.BoardSize
	NumCells = Dim * Dim
	// Center is the middle cell's coordinate on both axes.
	Center = Dim / 2
	// WinLength is the number of stones in a row that wins. Longer lines
	// win as well.
	WinLength = 5
)

// Direction is one of the four line axes.
type Direction struct {
	DX, DY int
}

// Directions lists the four axes: horizontal, vertical, diagonal and
// anti-diagonal.
var Directions = [4]Direction{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// GameBoard is a 15x15 grid with a move history stack and an incremental
// position fingerprint.
type GameBoard struct {
	cells   [NumCells]move.Player
	history []move.Move
	hash    uint64
	check   uint64
	winner  move.Player

	zobrist *zobrist.Zobrist
}

// NewBoard returns an empty board that shares the process-wide zobrist
// tables.
func NewBoard() *GameBoard {
	return &GameBoard{
		history: make([]move.Move, 0, NumCells),
		zobrist: zobrist.Global(),
	}
}

// Clear empties the board and its history.
func (g *GameBoard) Clear() {
	g.cells = [NumCells]move.Player{}
	g.history = g.history[:0]
	g.hash = 0
	g.check = 0
	g.winner = move.Empty
}

func index(x, y int) int {
	return x*Dim + y
}

// At returns the cell content. Coordinates must be on the board.
func (g *GameBoard) At(x, y int) move.Player {
	return g.cells[index(x, y)]
}

// Get is like At but treats off-board coordinates as out of bounds,
// reporting ok=false.
func (g *GameBoard) Get(x, y int) (move.Player, bool) {
	if !move.InBounds(x, y) {
		return move.Empty, false
	}
	return g.cells[index(x, y)], true
}

// IsEmpty is true for on-board empty cells.
func (g *GameBoard) IsEmpty(x, y int) bool {
	return move.InBounds(x, y) && g.cells[index(x, y)] == move.Empty
}

// Place puts a stone of player p on (x, y). It fails without mutating
// anything if the coordinates are off the board, the cell is occupied, p
// is not a stone colour or the game has already been won.
func (g *GameBoard) Place(x, y int, p move.Player) bool {
	if !move.InBounds(x, y) || !p.Stone() || g.winner != move.Empty {
		return false
	}
	idx := index(x, y)
	if g.cells[idx] != move.Empty {
		return false
	}
	g.cells[idx] = p
	g.history = append(g.history, move.Move{X: x, Y: y, Player: p})
	k, c := g.zobrist.Stone(idx, p)
	g.hash ^= k
	g.check ^= c
	return true
}

// Unplace pops the last move off the history and clears its cell. It also
// clears a recorded winner, since a win can only ever come from the most
// recent stone.
func (g *GameBoard) Unplace() (move.Move, bool) {
	if len(g.history) == 0 {
		log.Error().Msg("unplace-called-on-empty-history")
		return move.Move{}, false
	}
	m := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	idx := m.Index()
	g.cells[idx] = move.Empty
	k, c := g.zobrist.Stone(idx, m.Player)
	g.hash ^= k
	g.check ^= c
	g.winner = move.Empty
	return m, true
}

// Try places p on (x, y), runs fn, and takes the stone back again. The
// stone is removed even if fn panics. It returns false, without calling fn,
// if the placement is illegal.
func (g *GameBoard) Try(x, y int, p move.Player, fn func()) bool {
	if !g.Place(x, y, p) {
		return false
	}
	defer g.Unplace()
	fn()
	return true
}

// CheckWin returns true if a stone of p on (x, y) is part of at least
// WinLength contiguous p stones along some axis. The cell itself is
// counted as p whatever it currently holds.
func (g *GameBoard) CheckWin(x, y int, p move.Player) bool {
	for _, d := range Directions {
		if g.lineLength(x, y, d, p) >= WinLength {
			return true
		}
	}
	return false
}

func (g *GameBoard) lineLength(x, y int, d Direction, p move.Player) int {
	count := 1
	for i := 1; ; i++ {
		c, ok := g.Get(x+d.DX*i, y+d.DY*i)
		if !ok || c != p {
			break
		}
		count++
	}
	for i := 1; ; i++ {
		c, ok := g.Get(x-d.DX*i, y-d.DY*i)
		if !ok || c != p {
			break
		}
		count++
	}
	return count
}

// LastMove returns the top of the history stack.
func (g *GameBoard) LastMove() (move.Move, bool) {
	if len(g.history) == 0 {
		return move.Move{}, false
	}
	return g.history[len(g.history)-1], true
}

// LastMoveWins reports whether the most recent stone completed five,
// without rescanning the whole board.
func (g *GameBoard) LastMoveWins() bool {
	m, ok := g.LastMove()
	if !ok {
		return false
	}
	return g.CheckWin(m.X, m.Y, m.Player)
}

// WinningCells returns every empty cell on which p would complete five,
// in index order.
func (g *GameBoard) WinningCells(p move.Player) []move.Move {
	var cells []move.Move
	for idx := 0; idx < NumCells; idx++ {
		if g.cells[idx] != move.Empty {
			continue
		}
		x, y := idx/Dim, idx%Dim
		if !g.hasAdjacent(x, y, p) {
			continue
		}
		if g.CheckWin(x, y, p) {
			cells = append(cells, move.Move{X: x, Y: y, Player: p})
		}
	}
	return cells
}

func (g *GameBoard) hasAdjacent(x, y int, p move.Player) bool {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if c, ok := g.Get(x+dx, y+dy); ok && c == p {
				return true
			}
		}
	}
	return false
}

// MarkWinner records a completed game. Further placements are refused
// until the winning stone is taken back.
func (g *GameBoard) MarkWinner(p move.Player) {
	g.winner = p
}

func (g *GameBoard) Winner() move.Player {
	return g.winner
}

// Count is the number of stones on the board.
func (g *GameBoard) Count() int {
	return len(g.history)
}

// Full is true once every cell is occupied.
func (g *GameBoard) Full() bool {
	return len(g.history) == NumCells
}

// History returns a copy of the move stack, oldest first.
func (g *GameBoard) History() []move.Move {
	return append([]move.Move(nil), g.history...)
}

// Hash is the primary position fingerprint.
func (g *GameBoard) Hash() uint64 {
	return g.hash
}

// Check is the independent secondary fingerprint, used to verify cache hits.
func (g *GameBoard) Check() uint64 {
	return g.check
}

// Cells returns a copy of the grid in index order.
func (g *GameBoard) Cells() []move.Player {
	return append([]move.Player(nil), g.cells[:]...)
}

// Copy returns an independent board with the same stones and history.
func (g *GameBoard) Copy() *GameBoard {
	n := &GameBoard{
		cells:   g.cells,
		history: make([]move.Move, len(g.history), NumCells),
		hash:    g.hash,
		check:   g.check,
		winner:  g.winner,
		zobrist: g.zobrist,
	}
	copy(n.history, g.history)
	return n
}
