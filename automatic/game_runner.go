// Package automatic plays the engine against itself. It is used to measure
// the engine and to shake out search bugs over many games.
package automatic

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/fivestone/gomoku/board"
	"github.com/fivestone/gomoku/bot"
	"github.com/fivestone/gomoku/gamerecord"
	"github.com/fivestone/gomoku/move"
)

// DefaultOpeningPlies random stones start every game, so that two
// identical engines do not replay the same game.
const DefaultOpeningPlies = 2

// openingRadius bounds the random opening stones around the centre.
const openingRadius = 2

// GameResult is one finished self-play game.
type GameResult struct {
	Winner move.Player
	Moves  []move.Move
	// Stages counts the engine's moves by the policy step that chose them.
	Stages    map[string]int
	ThinkTime []time.Duration
}

func (g GameResult) Plies() int {
	return len(g.Moves)
}

func (g GameResult) Record() *gamerecord.Record {
	return gamerecord.FromHistory(g.Moves, gamerecord.Engine, gamerecord.Engine, g.Winner)
}

// GameRunner plays engine-vs-engine games on its own board. Each colour
// gets its own bot, so the two sides never share caches.
type GameRunner struct {
	board        *board.GameBoard
	bots         [2]*bot.Bot
	openingPlies int
}

// NewGameRunner makes a runner where black plays with blackOpts and white
// with whiteOpts.
func NewGameRunner(blackOpts, whiteOpts bot.Options) *GameRunner {
	b := board.NewBoard()
	return &GameRunner{
		board:        b,
		bots:         [2]*bot.Bot{bot.NewBot(b, blackOpts), bot.NewBot(b, whiteOpts)},
		openingPlies: DefaultOpeningPlies,
	}
}

func (r *GameRunner) SetOpeningPlies(n int) {
	r.openingPlies = max(n, 0)
}

func (r *GameRunner) botFor(p move.Player) *bot.Bot {
	if p == move.Black {
		return r.bots[0]
	}
	return r.bots[1]
}

func (r *GameRunner) StartGame() {
	r.board.Clear()
	for _, b := range r.bots {
		b.Reset()
	}
}

// playRandomOpening scatters stones near the centre. Neither side can have
// a threat yet, as there are too few stones.
func (r *GameRunner) playRandomOpening() {
	p := move.Black
	for placed := 0; placed < r.openingPlies; {
		x := board.Center + frand.Intn(2*openingRadius+1) - openingRadius
		y := board.Center + frand.Intn(2*openingRadius+1) - openingRadius
		if r.board.Place(x, y, p) {
			placed++
			p = p.Opponent()
		}
	}
}

// PlayGame plays one game to the end. A cancelled context stops it between
// moves with ctx.Err().
func (r *GameRunner) PlayGame(ctx context.Context) (GameResult, error) {
	r.StartGame()
	r.playRandomOpening()
	res := GameResult{Stages: make(map[string]int)}

	p := move.Black
	if r.board.Count()%2 == 1 {
		p = move.White
	}
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if r.board.Full() {
			res.Winner = move.Empty
			break
		}
		tstart := time.Now()
		d, err := r.botFor(p).BestMove(ctx, p)
		if err != nil {
			return res, fmt.Errorf("move %d: %w", r.board.Count()+1, err)
		}
		res.ThinkTime = append(res.ThinkTime, time.Since(tstart))
		if !r.board.Place(d.Move.X, d.Move.Y, p) {
			return res, fmt.Errorf("engine chose illegal move %v", d.Move)
		}
		res.Stages[d.Stage.String()]++
		if r.board.LastMoveWins() {
			r.board.MarkWinner(p)
			res.Winner = p
			break
		}
		p = p.Opponent()
	}
	res.Moves = r.board.History()
	log.Debug().
		Str("winner", res.Winner.String()).
		Int("plies", res.Plies()).
		Msg("selfplay-game-over")
	return res, nil
}
