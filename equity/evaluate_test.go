package equity

import (
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/fivestone/gomoku/board"
	"github.com/fivestone/gomoku/move"
	"github.com/fivestone/gomoku/pattern"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestEvaluateOccupied(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	b.Place(7, 7, move.Black)
	is.Equal(Evaluate(b, 7, 7, move.White), -1)
	is.Equal(Evaluate(b, 7, 7, move.Black), -1)
	is.Equal(b.Count(), 1)
}

func TestEvaluateLeavesBoardUntouched(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	is.NoErr(b.SetToGame(board.DoubleFour))
	before := b.Copy()
	for x := 0; x < board.Dim; x++ {
		for y := 0; y < board.Dim; y++ {
			Evaluate(b, x, y, move.Black)
			Evaluate(b, x, y, move.White)
		}
	}
	is.True(b.Equals(before))
}

func TestCentreBonus(t *testing.T) {
	is := is.New(t)
	is.Equal(CentreBonus(7, 7), 14)
	is.Equal(CentreBonus(0, 0), 0)
	is.Equal(CentreBonus(6, 8), 12)
}

func TestDoubleThreeBonus(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	// two open twos crossing at (7,7)
	b.Place(7, 5, move.Black)
	b.Place(7, 6, move.Black)
	b.Place(5, 7, move.Black)
	b.Place(6, 7, move.Black)

	tally, ok := Shapes(b, 7, 7, move.Black)
	is.True(ok)
	is.Equal(tally.LiveThrees, 2)

	score := Evaluate(b, 7, 7, move.Black)
	is.True(score-tally.Score >= pattern.BonusDoubleThree)
}

func TestFourThreeBonus(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	b.SetRow(7, "...OXXX")
	b.Place(5, 7, move.Black)
	b.Place(6, 7, move.Black)

	tally, ok := Shapes(b, 7, 7, move.Black)
	is.True(ok)
	is.Equal(tally.RushFours, 1)
	is.Equal(tally.LiveThrees, 1)
	is.True(Evaluate(b, 7, 7, move.Black)-tally.Score >= pattern.BonusFourThree)
}

func TestUnconnectedAxesPruned(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	b.Place(7, 8, move.Black)
	tally, _ := Shapes(b, 7, 7, move.Black)
	// only the horizontal axis reaches another black stone
	is.Equal(tally.LiveTwos, 1)
	is.Equal(tally.Score, pattern.ScoreLiveTwo)
	is.Equal(Evaluate(b, 7, 7, move.Black), pattern.ScoreLiveTwo+14+4)
}

func TestBoardScore(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()

	is.NoErr(b.SetToGame(board.LiveFourBlack))
	is.Equal(BoardScore(b, move.Black), ScoreForcedWin)
	is.Equal(BoardScore(b, move.White), -ScoreForcedWin)

	is.NoErr(b.SetToGame(board.RushFourWhite))
	is.Equal(BoardScore(b, move.White), ScoreForcedWin)
	// a single rush four can still be blocked
	is.True(BoardScore(b, move.Black) > -ScoreForcedWin)

	is.NoErr(b.SetToGame(board.OpenThreeWhite))
	is.True(BoardScore(b, move.White) > 0)
	is.True(BoardScore(b, move.Black) < 0)
}

func TestBoardThreatsCountsRunsOnce(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	b.SetRow(7, "....X.XX")
	th := BoardThreats(b, move.Black)
	is.Equal(th.LiveThrees, 1)
	is.Equal(th.Level(), 1)

	b.Clear()
	b.SetRow(7, "....XXXX")
	th = BoardThreats(b, move.Black)
	is.Equal(th.LiveFours, 1)
	is.Equal(th.Level(), 3)
}

func TestBoardThreatsPastSecondGap(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	b.SetRow(7, ".....X.X.X")
	th := BoardThreats(b, move.Black)
	// X.X from the first stone, and X.X again from the last one
	is.Equal(th.LiveTwos, 2)
	is.Equal(th.LiveThrees, 0)
}
