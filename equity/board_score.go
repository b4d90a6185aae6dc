package equity

import (
	"github.com/fivestone/gomoku/board"
	"github.com/fivestone/gomoku/move"
	"github.com/fivestone/gomoku/pattern"
)

const (
	// ScoreForcedWin is what the static evaluation returns for a position
	// that is decided whatever the heuristics say: the side to move holds
	// a four, or the opponent holds one the side to move cannot stop. It
	// sits above every heuristic score and below a completed five.
	ScoreForcedWin = 800_000

	// ThreatLevelWeight scales the difference in threat levels between
	// the two players.
	ThreatLevelWeight = 20_000
)

// Threats is a board-wide tally of the existing lines of one player.
type Threats struct {
	pattern.Tally
}

// Level grades how close a player is to a forced win: 3 for an
// unstoppable shape, 2 for two threes or a single four, 1 for one live
// three, 0 otherwise.
func (t Threats) Level() int {
	fours := t.Fours()
	switch {
	case t.LiveFours > 0 || fours >= 2 || (fours >= 1 && t.LiveThrees >= 1):
		return 3
	case t.LiveThrees >= 2 || fours >= 1:
		return 2
	case t.LiveThrees >= 1:
		return 1
	}
	return 0
}

// BoardThreats tallies the shapes of p's lines. Cells are visited in index
// order, which reaches every stone before the ones after it on all four
// axes. A stone already reached by an earlier stone's forward scan along
// an axis is not analysed again along it.
func BoardThreats(b *board.GameBoard, p move.Player) Threats {
	var t Threats
	var covered [len(board.Directions)][board.NumCells]bool
	for idx := 0; idx < board.NumCells; idx++ {
		x, y := idx/board.Dim, idx%board.Dim
		if b.At(x, y) != p {
			continue
		}
		for di, d := range board.Directions {
			if covered[di][idx] {
				continue
			}
			markForward(b, x, y, d, p, &covered[di])
			s := pattern.AnalyzeShape(b, x, y, d, p)
			if s == pattern.LiveOne {
				// isolated stones are accounted for by the positional terms
				continue
			}
			t.Add(s)
		}
	}
	return t
}

// markForward marks the p stones that pattern.Analyze counts ahead of
// (x, y) along d: contiguous ones and, past a single gap, the next run.
func markForward(b *board.GameBoard, x, y int, d board.Direction, p move.Player, covered *[board.NumCells]bool) {
	gapUsed := false
	for i := 1; i <= 4; i++ {
		cx, cy := x+d.DX*i, y+d.DY*i
		c, ok := b.Get(cx, cy)
		if !ok {
			return
		}
		switch c {
		case p:
			covered[cx*board.Dim+cy] = true
		case move.Empty:
			if gapUsed || i == 4 {
				return
			}
			if n, ok := b.Get(cx+d.DX, cy+d.DY); !ok || n != p {
				return
			}
			gapUsed = true
		default:
			return
		}
	}
}

// BoardScore is the static evaluation of the position from the point of
// view of p, who is to move.
func BoardScore(b *board.GameBoard, p move.Player) int {
	mine := BoardThreats(b, p)
	theirs := BoardThreats(b, p.Opponent())

	if mine.Fives > 0 {
		return pattern.ScoreFive
	}
	if theirs.Fives > 0 {
		return -pattern.ScoreFive
	}
	// p completes five next move.
	if mine.Fours() > 0 {
		return ScoreForcedWin
	}
	// p can block at most one completion point.
	if theirs.LiveFours > 0 || theirs.Fours() >= 2 {
		return -ScoreForcedWin
	}
	diff := (mine.Level() - theirs.Level()) * ThreatLevelWeight
	return mine.Score - theirs.Score + diff
}

// Calculator is the static evaluation used at search leaves.
type Calculator interface {
	BoardScore(b *board.GameBoard, p move.Player) int
}

// ThreatCalculator is the default Calculator.
type ThreatCalculator struct{}

func (ThreatCalculator) BoardScore(b *board.GameBoard, p move.Player) int {
	return BoardScore(b, p)
}
