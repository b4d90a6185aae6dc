package bot

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/fivestone/gomoku/board"
	"github.com/fivestone/gomoku/config"
	"github.com/fivestone/gomoku/move"
	"github.com/fivestone/gomoku/pattern"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.SearchDepth = 2
	opts.TimeLimit = 5 * time.Second
	opts.TTMaxSizeLog2 = 14
	opts.ForcedCacheSize = 1 << 12
	return opts
}

func newTestBot(t *testing.T, game board.VsWho) (*Bot, *board.GameBoard) {
	t.Helper()
	b := board.NewBoard()
	if game != "" {
		if err := b.SetToGame(game); err != nil {
			t.Fatal(err)
		}
	}
	return NewBot(b, testOptions()), b
}

func TestTakesFiveOverEverything(t *testing.T) {
	is := is.New(t)
	bot, b := newTestBot(t, board.LiveFourBlack)
	before := b.Copy()
	d, err := bot.BestMove(context.Background(), move.Black)
	is.NoErr(err)
	is.Equal(d.Stage, StageWin)
	is.Equal(d.Move.Player, move.Black)
	is.True(b.CheckWin(d.Move.X, d.Move.Y, move.Black))
	is.True(b.Equals(before))
	is.True(len(d.Candidates) > 0)
}

func TestBlocksFive(t *testing.T) {
	is := is.New(t)
	bot, _ := newTestBot(t, board.RushFourWhite)
	d, err := bot.BestMove(context.Background(), move.Black)
	is.NoErr(err)
	is.Equal(d.Stage, StageBlockFive)
	is.Equal(d.Move, move.NewMove(4, 2, move.Black))
}

func TestPlaysVCF(t *testing.T) {
	is := is.New(t)
	bot, b := newTestBot(t, board.DoubleFour)
	before := b.Copy()
	d, err := bot.BestMove(context.Background(), move.Black)
	is.NoErr(err)
	is.Equal(d.Stage, StageVCF)
	is.Equal(d.Move, move.NewMove(7, 9, move.Black))
	is.True(len(d.Sequence) > 0)
	is.True(b.Equals(before))
}

func TestOpeningMoves(t *testing.T) {
	is := is.New(t)
	bot, b := newTestBot(t, "")
	d, err := bot.BestMove(context.Background(), move.Black)
	is.NoErr(err)
	is.Equal(d.Stage, StageOpening)
	is.Equal(d.Move, move.NewMove(board.Center, board.Center, move.Black))

	is.True(b.Place(board.Center, board.Center, move.Black))
	diagonals := map[[2]int]bool{{6, 6}: true, {6, 8}: true, {8, 6}: true, {8, 8}: true}
	for i := 0; i < 20; i++ {
		d, err = bot.BestMove(context.Background(), move.White)
		is.NoErr(err)
		is.Equal(d.Stage, StageOpening)
		is.True(diagonals[[2]int{d.Move.X, d.Move.Y}])
		is.Equal(d.Move.Player, move.White)
	}
}

func TestLiveThreeDefence(t *testing.T) {
	is := is.New(t)
	bot, b := newTestBot(t, board.OpenThreeWhite)
	d, err := bot.BestMove(context.Background(), move.Black)
	is.NoErr(err)
	is.Equal(d.Stage, StageDefendThree)
	is.Equal(d.Move.X, 5)
	is.True(d.Move.Y == 4 || d.Move.Y == 8)

	m, ok := bot.defendLiveThree(move.Black, pattern.FindLiveThrees(b, move.White))
	is.True(ok)
	is.Equal(m.X, 5)
	is.True(m.Y == 4 || m.Y == 8)
}

func TestJumpThreeGapPreferred(t *testing.T) {
	is := is.New(t)
	bot, b := newTestBot(t, "")
	b.SetRow(5, ".....O.OO")
	b.Place(10, 10, move.Black)

	m, ok := bot.defendLiveThree(move.Black, pattern.FindLiveThrees(b, move.White))
	is.True(ok)
	is.Equal(m, move.NewMove(5, 6, move.Black))

	d, err := bot.BestMove(context.Background(), move.Black)
	is.NoErr(err)
	is.Equal(d.Stage, StageDefendThree)
	is.Equal(d.Move, move.NewMove(5, 6, move.Black))
}

func TestBlocksOpponentVCF(t *testing.T) {
	is := is.New(t)
	// black wins by force from here, but has no live three
	bot, b := newTestBot(t, board.DoubleFour)
	is.Equal(len(pattern.FindLiveThrees(b, move.Black)), 0)
	before := b.Copy()
	d, err := bot.BestMove(context.Background(), move.White)
	is.NoErr(err)
	is.Equal(d.Stage, StageBlockVCF)
	is.Equal(d.Move.Player, move.White)
	is.True(b.Equals(before))
}

func TestDecisionWithinTimeLimit(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.TimeLimit = 100 * time.Millisecond
	opts.TTMaxSizeLog2 = 14
	opts.ForcedCacheSize = 1 << 12
	b := board.NewBoard()
	bots := map[move.Player]*Bot{
		move.Black: NewBot(b, opts),
		move.White: NewBot(b, opts),
	}
	limit := 5 * opts.TimeLimit
	p := move.Black
	for ply := 0; ply < 30 && !b.LastMoveWins() && !b.Full(); ply++ {
		tstart := time.Now()
		d, err := bots[p].BestMove(context.Background(), p)
		elapsed := time.Since(tstart)
		is.NoErr(err)
		if elapsed > limit {
			t.Fatalf("ply %d: %s took %v, limit %v", ply, d.Stage, elapsed, limit)
		}
		is.True(b.Place(d.Move.X, d.Move.Y, p))
		p = p.Opponent()
	}
}

func doubleThreeBoard(b *board.GameBoard) {
	b.Place(7, 5, move.Black)
	b.Place(7, 6, move.Black)
	b.Place(5, 7, move.Black)
	b.Place(6, 7, move.Black)
	b.Place(0, 14, move.White)
	b.Place(14, 0, move.White)
	b.Place(14, 14, move.White)
	b.Place(0, 0, move.White)
}

func TestVCTWhenOpponentHasNoThree(t *testing.T) {
	is := is.New(t)
	bot, b := newTestBot(t, "")
	doubleThreeBoard(b)
	d, err := bot.BestMove(context.Background(), move.Black)
	is.NoErr(err)
	is.Equal(d.Stage, StageVCT)
	is.Equal(d.Move, move.NewMove(7, 7, move.Black))
}

func TestKillerShape(t *testing.T) {
	is := is.New(t)
	bot, b := newTestBot(t, "")
	doubleThreeBoard(b)

	m, ok := bot.killerShape(move.Black, bot.Candidates(move.Black))
	is.True(ok)
	is.Equal(m, move.NewMove(7, 7, move.Black))

	// white takes black's point
	m, ok = bot.killerShape(move.White, bot.Candidates(move.White))
	is.True(ok)
	is.Equal(m, move.NewMove(7, 7, move.White))
}

func TestAttackStage(t *testing.T) {
	is := is.New(t)
	bot, b := newTestBot(t, "")
	b.Place(7, 7, move.Black)
	b.Place(8, 8, move.White)
	d, err := bot.BestMove(context.Background(), move.Black)
	is.NoErr(err)
	is.Equal(d.Stage, StageAttack)
	is.True(b.IsEmpty(d.Move.X, d.Move.Y))
}

func TestSearchStage(t *testing.T) {
	is := is.New(t)
	bot, b := newTestBot(t, "")
	b.Place(3, 3, move.White)
	before := b.Copy()
	d, err := bot.BestMove(context.Background(), move.Black)
	is.NoErr(err)
	is.Equal(d.Stage, StageSearch)
	is.True(len(d.Sequence) > 0)
	is.True(b.IsEmpty(d.Move.X, d.Move.Y))
	is.True(b.Equals(before))
}

func TestNoMovesOnFullBoard(t *testing.T) {
	is := is.New(t)
	bot, b := newTestBot(t, "")
	p := move.Black
	for idx := 0; idx < board.NumCells; idx++ {
		b.Place(idx/board.Dim, idx%board.Dim, p)
		p = p.Opponent()
	}
	_, err := bot.BestMove(context.Background(), move.Black)
	is.True(errors.Is(err, ErrNoMoves))
}

func TestOptionsFromConfig(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigThinkingTimeMs, 1500)
	cfg.Set(config.ConfigCandidateBudget, 9)
	opts := OptionsFromConfig(cfg)
	is.Equal(opts.TimeLimit, 1500*time.Millisecond)
	is.Equal(opts.CandidateBudget, 9)
	is.Equal(opts.VCFDepth, 14)

	bot := NewBot(board.NewBoard(), opts)
	is.Equal(bot.movegen.Budget(), 9)
}
