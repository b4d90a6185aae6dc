package equity

import (
	"github.com/fivestone/gomoku/board"
	"github.com/fivestone/gomoku/move"
	"github.com/fivestone/gomoku/pattern"
)

const (
	// MaxCentreBonus is awarded on the centre cell and falls by one per
	// step of Manhattan distance.
	MaxCentreBonus = 2 * board.Center

	adjacentWeight = 4
	nearWeight     = 2

	connectReach = 4
)

// Evaluate scores the empty cell (x, y) for p: the per-axis shape scores
// of a stone there, the composite bonuses for shapes it creates together,
// and small positional bonuses. It returns -1 if the cell cannot be
// played.
func Evaluate(b *board.GameBoard, x, y int, p move.Player) int {
	if !b.IsEmpty(x, y) {
		return -1
	}
	t, ok := Shapes(b, x, y, p)
	if !ok {
		return -1
	}
	return t.Total() + CentreBonus(x, y) + Connectivity(b, x, y, p)
}

// Shapes returns the tally of shapes a stone of p on (x, y) would form.
// Axes without any other p stone in reach are skipped.
func Shapes(b *board.GameBoard, x, y int, p move.Player) (pattern.Tally, bool) {
	var t pattern.Tally
	ok := b.Try(x, y, p, func() {
		for _, d := range board.Directions {
			if !connected(b, x, y, d, p) {
				continue
			}
			t.Add(pattern.AnalyzeShape(b, x, y, d, p))
		}
	})
	return t, ok
}

// connected reports whether a p stone lies within reach of (x, y) along d
// in either direction, before an opponent stone or the edge.
func connected(b *board.GameBoard, x, y int, d board.Direction, p move.Player) bool {
	for _, sign := range [2]int{1, -1} {
		for i := 1; i <= connectReach; i++ {
			c, ok := b.Get(x+sign*d.DX*i, y+sign*d.DY*i)
			if !ok {
				break
			}
			if c == p {
				return true
			}
			if c != move.Empty {
				break
			}
		}
	}
	return false
}

// CentreBonus falls linearly with Manhattan distance from the centre cell.
func CentreBonus(x, y int) int {
	return MaxCentreBonus - abs(x-board.Center) - abs(y-board.Center)
}

// Connectivity weights p stones at distance one and two along the four
// axes around (x, y).
func Connectivity(b *board.GameBoard, x, y int, p move.Player) int {
	bonus := 0
	for _, d := range board.Directions {
		for _, sign := range [2]int{1, -1} {
			if c, ok := b.Get(x+sign*d.DX, y+sign*d.DY); ok && c == p {
				bonus += adjacentWeight
			}
			if c, ok := b.Get(x+sign*2*d.DX, y+sign*2*d.DY); ok && c == p {
				bonus += nearWeight
			}
		}
	}
	return bonus
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
