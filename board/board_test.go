package board

import (
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/fivestone/gomoku/move"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestPlaceRejectsInvalid(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.True(!b.Place(-1, 0, move.Black))
	is.True(!b.Place(0, Dim, move.Black))
	is.True(!b.Place(3, 3, move.Empty))
	is.True(b.Place(3, 3, move.Black))
	h := b.Hash()
	is.True(!b.Place(3, 3, move.White))
	is.Equal(b.Count(), 1)
	is.Equal(b.Hash(), h)
}

func TestWinDetectionRuns(t *testing.T) {
	is := is.New(t)
	for _, d := range Directions {
		for _, length := range []int{3, 4, 5, 6} {
			for _, blocked := range []bool{false, true} {
				b := NewBoard()
				// start far enough from every edge for the longest run
				sx, sy := 4, 4
				if d.DY < 0 {
					sy = 10
				}
				for i := 0; i < length; i++ {
					is.True(b.Place(sx+d.DX*i, sy+d.DY*i, move.Black))
				}
				if blocked {
					is.True(b.Place(sx-d.DX, sy-d.DY, move.White))
					is.True(b.Place(sx+d.DX*length, sy+d.DY*length, move.White))
				}
				for i := 0; i < length; i++ {
					got := b.CheckWin(sx+d.DX*i, sy+d.DY*i, move.Black)
					is.Equal(got, length >= WinLength)
				}
				is.True(!b.CheckWin(sx, sy, move.White) || length < WinLength)
			}
		}
	}
}

func TestFiveInARowScenario(t *testing.T) {
	is := is.New(t)
	for _, finish := range []int{7, 2} {
		b := NewBoard()
		for y := 3; y <= 6; y++ {
			is.True(b.Place(3, y, move.Black))
		}
		is.True(!b.CheckWin(3, 6, move.Black))
		is.True(b.CheckWin(3, finish, move.Black))
		is.True(b.Place(3, finish, move.Black))
		is.True(b.LastMoveWins())
		b.MarkWinner(move.Black)
		is.True(!b.Place(10, 10, move.White))
		is.Equal(b.Count(), 5)
	}
}

func TestPlaceUnplaceInverse(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	snapshots := []*GameBoard{b.Copy()}
	p := move.Black
	for len(snapshots) < 60 {
		x, y := frand.Intn(Dim), frand.Intn(Dim)
		if !b.Place(x, y, p) {
			continue
		}
		snapshots = append(snapshots, b.Copy())
		p = p.Opponent()
	}
	for i := len(snapshots) - 1; i > 0; i-- {
		is.True(b.Equals(snapshots[i]))
		_, ok := b.Unplace()
		is.True(ok)
		is.True(b.Equals(snapshots[i-1]))
		is.Equal(b.Hash(), snapshots[i-1].Hash())
		is.Equal(b.Check(), snapshots[i-1].Check())
	}
	is.Equal(b.Hash(), uint64(0))
	_, ok := b.Unplace()
	is.True(!ok)
}

func TestTryRestoresOnPanic(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	b.Place(7, 7, move.Black)
	before := b.Copy()
	func() {
		defer func() { recover() }()
		b.Try(7, 8, move.White, func() {
			is.Equal(b.At(7, 8), move.White)
			panic("boom")
		})
	}()
	is.True(b.Equals(before))
	is.Equal(b.Count(), 1)
	is.True(!b.Try(7, 7, move.White, func() { t.Fatal("should not run") }))
}

func TestWinningCells(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.NoErr(b.SetToGame(RushFourWhite))
	cells := b.WinningCells(move.White)
	is.Equal(len(cells), 1)
	is.Equal(cells[0].X, 4)
	is.Equal(cells[0].Y, 2)
	is.Equal(len(b.WinningCells(move.Black)), 0)

	is.NoErr(b.SetToGame(LiveFourBlack))
	cells = b.WinningCells(move.Black)
	is.Equal(len(cells), 2)
}

func TestUnplaceClearsWinner(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	b.SetRow(0, "XXXXX")
	b.MarkWinner(move.Black)
	is.Equal(b.Winner(), move.Black)
	_, ok := b.Unplace()
	is.True(ok)
	is.Equal(b.Winner(), move.Empty)
	is.True(b.Place(0, 4, move.White))
}

func TestDisplayText(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	b.Place(7, 7, move.Black)
	b.Place(7, 8, move.White)
	txt := b.ToDisplayText()
	is.True(strings.Contains(txt, " X [O]"))
	is.Equal(len(strings.Split(strings.TrimRight(txt, "\n"), "\n")), Dim+1)
}

func TestSetFromPlaintextErrors(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.True(b.SetFromPlaintext("XX") != nil)
	is.NoErr(b.SetToGame(OpenThreeWhite))
	is.Equal(b.At(5, 5), move.White)
	is.Equal(b.At(5, 7), move.White)
	is.Equal(b.Count(), 5)
}
