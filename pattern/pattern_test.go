package pattern

import (
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/fivestone/gomoku/board"
	"github.com/fivestone/gomoku/move"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestLiveThreeBoundary(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	b.SetRow(7, "......XXX")

	r := Analyze(b, 7, 7, 0, 1, move.Black)
	is.Equal(r.Count, 3)
	is.Equal(r.Blocked, 0)
	is.True(!r.HasJump)
	is.Equal(Classify(r), LiveThree)
	is.Equal(Classify(r).Score(), 8000)
}

func TestSleepingThreeAtEdge(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	b.SetRow(7, "XXX")

	r := Analyze(b, 7, 1, 0, 1, move.Black)
	is.Equal(r.Count, 3)
	is.Equal(r.Blocked, 1)
	is.Equal(Classify(r), SleepingThree)
	is.Equal(Classify(r).Score(), 800)
}

func TestDeadFour(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	b.SetRow(7, "...OXXXXO")

	r := Analyze(b, 7, 5, 0, 1, move.Black)
	is.Equal(r.Count, 4)
	is.Equal(r.Blocked, 2)
	s := Classify(r)
	is.Equal(s, DeadFour)
	is.True(s.Score() <= 10)

	var tally Tally
	tally.Add(s)
	is.Equal(tally.LiveFours, 0)
	is.Equal(tally.Fours(), 0)
	is.Equal(tally.Bonus(), 0)
}

func TestJumpShapes(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	b.SetRow(7, ".....X.XX")

	r := Analyze(b, 7, 7, 0, 1, move.Black)
	is.Equal(r.Count, 2)
	is.True(r.HasJump)
	is.Equal(r.JumpCount, 1)
	is.Equal(r.Effective(), 3)
	is.Equal(Classify(r), JumpLiveThree)

	// X_XXX completes five through the gap
	b.Clear()
	b.SetRow(7, ".....X.XXX")
	is.Equal(AnalyzeShape(b, 7, 8, board.Directions[0], move.Black), RushFour)

	// the scan honours only one gap
	b.Clear()
	b.SetRow(7, "...X.X.X")
	r = Analyze(b, 7, 5, 0, 1, move.Black)
	is.Equal(r.Effective(), 2)
	is.True(r.HasJump)
}

func TestClassifyFoursAndFive(t *testing.T) {
	cases := []struct {
		name string
		row  string
		y    int
		want Shape
	}{
		{"live-four", "....XXXX", 5, LiveFour},
		{"rush-four-blocked", "...OXXXX", 5, RushFour},
		{"rush-four-edge", "XXXX", 1, RushFour},
		{"five", "..XXXXX", 4, Five},
		{"overline", ".XXXXXX", 3, Five},
		{"live-two", "......XX", 6, LiveTwo},
		{"jump-live-two", "......X.X", 6, JumpLiveTwo},
		{"sleeping-two", "XX", 0, SleepingTwo},
		{"live-one", ".......X", 7, LiveOne},
		{"dead-two", ".OXXO", 2, None},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := board.NewBoard()
			b.SetRow(7, tc.row)
			assert.Equal(t, tc.want, AnalyzeShape(b, 7, tc.y, board.Directions[0], move.Black))
		})
	}
}

func TestDiagonalScan(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	for i := 0; i < 3; i++ {
		b.Place(4+i, 10-i, move.White)
	}
	is.Equal(AnalyzeShape(b, 5, 9, board.Direction{DX: 1, DY: -1}, move.White), LiveThree)
	is.Equal(AnalyzeShape(b, 5, 9, board.Direction{DX: 1, DY: 1}, move.White), LiveOne)
}

func TestCompositeBonuses(t *testing.T) {
	is := is.New(t)

	var dt Tally
	dt.Add(LiveThree)
	dt.Add(JumpLiveThree)
	is.Equal(dt.LiveThrees, 2)
	is.True(dt.Total()-dt.Score >= BonusDoubleThree)
	is.True(dt.Killer())

	var ft Tally
	ft.Add(RushFour)
	ft.Add(LiveThree)
	is.True(ft.Total()-ft.Score >= BonusFourThree)
	is.True(ft.Killer())

	var df Tally
	df.Add(RushFour)
	df.Add(RushFour)
	is.Equal(df.Bonus(), BonusDoubleFour)

	var tt Tally
	tt.Add(LiveTwo)
	tt.Add(LiveTwo)
	tt.Add(JumpLiveTwo)
	is.Equal(tt.Bonus(), BonusTripleTwo)
	is.True(!tt.Killer())

	var two Tally
	two.Add(LiveTwo)
	two.Add(SleepingTwo)
	is.Equal(two.Bonus(), 0)
}

func TestFindLiveThrees(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	is.NoErr(b.SetToGame(board.OpenThreeWhite))

	threes := FindLiveThrees(b, move.White)
	is.Equal(len(threes), 1)
	th := threes[0]
	is.True(!th.HasGap)
	is.Equal(th.Ends[0], move.NewMove(5, 4, move.White))
	is.Equal(th.Ends[1], move.NewMove(5, 8, move.White))
	is.True(!HasLiveThree(b, move.Black))
}

func TestFindJumpThree(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	b.SetRow(5, ".....O.OO")

	threes := FindLiveThrees(b, move.White)
	is.Equal(len(threes), 1)
	is.True(threes[0].HasGap)
	is.Equal(threes[0].Gap.X, 5)
	is.Equal(threes[0].Gap.Y, 6)
	is.Equal(len(threes[0].Defences()), 3)
}

func TestBlockedThreeIsNotLive(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	b.SetRow(5, "....XOOO")
	is.True(!HasLiveThree(b, move.White))

	b.Clear()
	b.SetRow(5, "OOO")
	is.True(!HasLiveThree(b, move.White))
}
