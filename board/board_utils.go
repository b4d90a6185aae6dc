package board

import (
	"fmt"
	"strings"

	"github.com/fivestone/gomoku/move"
)

// ToDisplayText renders the board with column letters and 1-based row
// numbers. The most recent stone is bracketed.
func (g *GameBoard) ToDisplayText() string {
	var sb strings.Builder
	last, hasLast := g.LastMove()
	sb.WriteString("    ")
	for y := 0; y < Dim; y++ {
		sb.WriteString(fmt.Sprintf(" %c ", 'A'+y))
	}
	sb.WriteString("\n")
	for x := 0; x < Dim; x++ {
		sb.WriteString(fmt.Sprintf("%3d ", x+1))
		for y := 0; y < Dim; y++ {
			sym := g.At(x, y).Symbol()
			if hasLast && last.X == x && last.Y == y {
				sb.WriteString("[" + sym + "]")
			} else {
				sb.WriteString(" " + sym + " ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// SetFromPlaintext clears the board and places stones from rows of text,
// one row per line: 'X' is black, 'O' is white, anything else is empty.
// Blank lines are skipped, so raw string literals can be indented freely.
// Stones are pushed in row-major order.
func (g *GameBoard) SetFromPlaintext(text string) error {
	g.Clear()
	x := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if x >= Dim {
			return fmt.Errorf("too many rows in board text")
		}
		if len(line) != Dim {
			return fmt.Errorf("row %d has %d cells, want %d", x+1, len(line), Dim)
		}
		for y, ch := range line {
			var p move.Player
			switch ch {
			case 'X', 'x':
				p = move.Black
			case 'O', 'o':
				p = move.White
			default:
				continue
			}
			g.Place(x, y, p)
		}
		x++
	}
	return nil
}

// SetRow places stones for a single row, using the same characters as
// SetFromPlaintext. Columns beyond the string length are left alone.
func (g *GameBoard) SetRow(rowNum int, stones string) []move.Move {
	var placed []move.Move
	for y, ch := range stones {
		var p move.Player
		switch ch {
		case 'X', 'x':
			p = move.Black
		case 'O', 'o':
			p = move.White
		default:
			continue
		}
		if g.Place(rowNum, y, p) {
			placed = append(placed, move.NewMove(rowNum, y, p))
		}
	}
	return placed
}

// Equals compares cell contents and both fingerprints. History order is
// not compared.
func (g *GameBoard) Equals(g2 *GameBoard) bool {
	return g.cells == g2.cells && g.hash == g2.hash && g.check == g2.check
}
