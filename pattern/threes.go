package pattern

import (
	"github.com/fivestone/gomoku/board"
	"github.com/fivestone/gomoku/move"
)

// Three is a live three that already exists on the board.
type Three struct {
	Stones [3]move.Move
	// Ends are the open cells directly outside the three.
	Ends []move.Move
	// Gap is the empty cell inside a jump three; only valid if HasGap.
	Gap    move.Move
	HasGap bool
	Dir    board.Direction
}

// Defences returns the cells that block the three: its ends and, for a
// jump three, its gap.
func (t Three) Defences() []move.Move {
	d := append([]move.Move(nil), t.Ends...)
	if t.HasGap {
		d = append(d, t.Gap)
	}
	return d
}

// Every live three fits in a six-cell window with both outer cells empty.
// These are all of the geometries: a contiguous three needs one extra
// empty cell on some side to become an open four, and a jump three has
// exactly one gap within a span of four. Anything else is not a live
// three.
const (
	winEmpty = '_'
	winStone = 'X'
)

type window struct {
	shape  string
	stones [3]int
	ends   [2]int
	gap    int // -1 for contiguous threes
}

var windows = []window{
	{shape: "_XXX__", stones: [3]int{1, 2, 3}, ends: [2]int{0, 4}, gap: -1},
	{shape: "__XXX_", stones: [3]int{2, 3, 4}, ends: [2]int{1, 5}, gap: -1},
	{shape: "_X_XX_", stones: [3]int{1, 3, 4}, ends: [2]int{0, 5}, gap: 2},
	{shape: "_XX_X_", stones: [3]int{1, 2, 4}, ends: [2]int{0, 5}, gap: 3},
}

const windowLen = 6

// FindLiveThrees scans the whole board for p's live threes. A contiguous
// three matched by both of its windows is reported once.
func FindLiveThrees(b *board.GameBoard, p move.Player) []Three {
	var threes []Three
	seen := make(map[[2]int]bool)
	var cells [windowLen]move.Player
	for di, d := range board.Directions {
		for x := 0; x < board.Dim; x++ {
			for y := 0; y < board.Dim; y++ {
				ex, ey := x+d.DX*(windowLen-1), y+d.DY*(windowLen-1)
				if !move.InBounds(ex, ey) {
					continue
				}
				for i := 0; i < windowLen; i++ {
					cells[i] = b.At(x+d.DX*i, y+d.DY*i)
				}
				for _, w := range windows {
					if !matches(cells, w.shape, p) {
						continue
					}
					first := w.stones[0]
					key := [2]int{di, (x+d.DX*first)*board.Dim + y + d.DY*first}
					if seen[key] {
						continue
					}
					seen[key] = true
					at := func(i int) move.Move {
						return move.NewMove(x+d.DX*i, y+d.DY*i, p)
					}
					t := Three{Dir: d}
					for i, s := range w.stones {
						t.Stones[i] = at(s)
					}
					t.Ends = []move.Move{at(w.ends[0]), at(w.ends[1])}
					if w.gap >= 0 {
						t.Gap = at(w.gap)
						t.HasGap = true
					}
					threes = append(threes, t)
				}
			}
		}
	}
	return threes
}

func matches(cells [windowLen]move.Player, shape string, p move.Player) bool {
	for i := 0; i < windowLen; i++ {
		switch shape[i] {
		case winEmpty:
			if cells[i] != move.Empty {
				return false
			}
		case winStone:
			if cells[i] != p {
				return false
			}
		}
	}
	return true
}

// HasLiveThree reports whether p has at least one live three on the board.
func HasLiveThree(b *board.GameBoard, p move.Player) bool {
	return len(FindLiveThrees(b, p)) > 0
}
