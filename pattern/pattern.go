// Package pattern classifies the line of stones through a single cell into
// the named Gomoku shapes (five, live four, rush four, live three, ...) that
// the evaluator and the searches score.
package pattern

import (
	"github.com/fivestone/gomoku/board"
	"github.com/fivestone/gomoku/move"
)

// scanReach is how far Analyze looks in each direction.
const scanReach = 4

// Result describes the run of stones through one cell along one axis.
type Result struct {
	// Count is the number of contiguous stones, the query cell included.
	Count int
	// Blocked is the number of closed ends (opponent stone or board edge)
	// beyond the counted stones.
	Blocked int
	// HasJump is set when a single empty cell was skipped because more of
	// the player's stones follow it.
	HasJump bool
	// JumpCount is the number of stones found beyond that gap.
	JumpCount int
}

// Effective is the stone count including stones past the gap.
func (r Result) Effective() int {
	return r.Count + r.JumpCount
}

// Analyze scans up to four cells forward and backward from (x, y) along
// (dx, dy), treating (x, y) itself as a stone of p. At most one gap is
// honoured per call; the forward half gets the first chance to use it.
func Analyze(b *board.GameBoard, x, y, dx, dy int, p move.Player) Result {
	r := Result{Count: 1}
	gapUsed := false
	r.scan(b, x, y, dx, dy, p, &gapUsed)
	r.scan(b, x, y, -dx, -dy, p, &gapUsed)
	return r
}

func (r *Result) scan(b *board.GameBoard, x, y, dx, dy int, p move.Player, gapUsed *bool) {
	jumped := false
	for i := 1; i <= scanReach; i++ {
		c, ok := b.Get(x+dx*i, y+dy*i)
		if !ok {
			r.Blocked++
			return
		}
		switch c {
		case p:
			if jumped {
				r.JumpCount++
			} else {
				r.Count++
			}
		case move.Empty:
			if !*gapUsed && i < scanReach {
				if n, ok := b.Get(x+dx*(i+1), y+dy*(i+1)); ok && n == p {
					*gapUsed = true
					jumped = true
					r.HasJump = true
					continue
				}
			}
			// open end
			return
		default:
			r.Blocked++
			return
		}
	}
}

// Classify maps a Result onto a Shape.
func Classify(r Result) Shape {
	if r.Count >= board.WinLength {
		return Five
	}
	eff := r.Effective()
	// A gapped line of four or more stones completes five by filling the
	// gap, whatever happens at its ends.
	if r.HasJump && eff >= 4 {
		return RushFour
	}
	if r.Blocked >= 2 {
		if eff >= 4 {
			return DeadFour
		}
		return None
	}
	open := r.Blocked == 0
	switch eff {
	case 4:
		if open {
			return LiveFour
		}
		return RushFour
	case 3:
		if !open {
			return SleepingThree
		}
		if r.HasJump {
			return JumpLiveThree
		}
		return LiveThree
	case 2:
		if !open {
			return SleepingTwo
		}
		if r.HasJump {
			return JumpLiveTwo
		}
		return LiveTwo
	case 1:
		if open {
			return LiveOne
		}
	}
	return None
}

// AnalyzeShape is Classify(Analyze(...)).
func AnalyzeShape(b *board.GameBoard, x, y int, d board.Direction, p move.Player) Shape {
	return Classify(Analyze(b, x, y, d.DX, d.DY, p))
}
