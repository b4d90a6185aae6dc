// Package bot is the engine's move-selection policy. It tries a fixed chain
// of techniques in priority order, from an immediate five down to a full
// minimax search, and plays the first move any of them produces.
package bot

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/fivestone/gomoku/board"
	"github.com/fivestone/gomoku/cache"
	"github.com/fivestone/gomoku/config"
	"github.com/fivestone/gomoku/equity"
	"github.com/fivestone/gomoku/move"
	"github.com/fivestone/gomoku/movegen"
	"github.com/fivestone/gomoku/negamax"
	"github.com/fivestone/gomoku/pattern"
	"github.com/fivestone/gomoku/vcf"
)

// Stage names the step of the policy that produced a move.
type Stage int

const (
	StageOpening Stage = iota
	StageWin
	StageBlockFive
	StageVCF
	StageBlockVCF
	StageVCT
	StageDefendThree
	StageKillerShape
	StageAttack
	StageSearch
	StageFallback
)

var stageNames = [...]string{
	StageOpening:     "opening",
	StageWin:         "win",
	StageBlockFive:   "block-five",
	StageVCF:         "vcf",
	StageBlockVCF:    "block-vcf",
	StageVCT:         "vct",
	StageDefendThree: "defend-three",
	StageKillerShape: "killer-shape",
	StageAttack:      "attack",
	StageSearch:      "search",
	StageFallback:    "fallback",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// GapDefenceBonus favours the middle gap of a jump three over its ends.
const GapDefenceBonus = 5_000

var ErrNoMoves = errors.New("no moves available")

// Decision is the policy's answer for one turn.
type Decision struct {
	Move  move.Move
	Stage Stage
	// Candidates is the ranked root candidate list.
	Candidates []movegen.Candidate
	// Sequence is the forcing line for StageVCF and StageVCT, and the
	// principal variation for StageSearch.
	Sequence []move.Move
	Value    int
}

// Options tune the bot's strength and resource use. None of them affect
// the legality of its moves.
type Options struct {
	SearchDepth     int
	TimeLimit       time.Duration
	CandidateBudget int
	VCFDepth        int
	VCTDepth        int
	VCFNodeBudget   int
	VCTNodeBudget   int
	ForcedCacheSize int
	TTFractionOfMem float64
	TTMaxSizeLog2   int
}

func DefaultOptions() Options {
	return Options{
		SearchDepth:     negamax.DefaultMaxDepth,
		TimeLimit:       negamax.DefaultTimeLimit,
		CandidateBudget: movegen.DefaultBudget,
		VCFDepth:        vcf.DefaultVCFDepth,
		VCTDepth:        vcf.DefaultVCTDepth,
		VCFNodeBudget:   vcf.DefaultVCFNodeBudget,
		VCTNodeBudget:   vcf.DefaultVCTNodeBudget,
		ForcedCacheSize: cache.DefaultCapacity,
		TTFractionOfMem: negamax.DefaultFractionOfMem,
		TTMaxSizeLog2:   negamax.DefaultMaxSizeLog2,
	}
}

// OptionsFromConfig reads the engine settings out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SearchDepth:     cfg.GetInt(config.ConfigSearchDepth),
		TimeLimit:       time.Duration(cfg.GetInt(config.ConfigThinkingTimeMs)) * time.Millisecond,
		CandidateBudget: cfg.GetInt(config.ConfigCandidateBudget),
		VCFDepth:        cfg.GetInt(config.ConfigVCFDepth),
		VCTDepth:        cfg.GetInt(config.ConfigVCTDepth),
		VCFNodeBudget:   cfg.GetInt(config.ConfigVCFNodeBudget),
		VCTNodeBudget:   cfg.GetInt(config.ConfigVCTNodeBudget),
		ForcedCacheSize: cfg.GetInt(config.ConfigForcedCacheSize),
		TTFractionOfMem: cfg.GetFloat64(config.ConfigTTableFractionOfMem),
		TTMaxSizeLog2:   cfg.GetInt(config.ConfigTTableMaxLog2),
	}
}

// Bot owns every search structure of one game: the candidate generator
// with its killer table, both forced-win searches with their memos, and
// the minimax solver with its transposition table. All of them work on
// the one board.
type Bot struct {
	board   *board.GameBoard
	movegen *movegen.Generator
	vcf     *vcf.Solver
	vct     *vcf.Solver
	ttable  *negamax.TranspositionTable
	solver  *negamax.Solver
	opts    Options
}

func NewBot(b *board.GameBoard, opts Options) *Bot {
	gen := movegen.NewGenerator(b)
	tt := &negamax.TranspositionTable{}
	tt.Reset(opts.TTFractionOfMem, opts.TTMaxSizeLog2)
	bot := &Bot{
		board:   b,
		movegen: gen,
		vcf:     vcf.NewSolver(b, vcf.VCF, opts.ForcedCacheSize),
		vct:     vcf.NewSolver(b, vcf.VCT, opts.ForcedCacheSize),
		ttable:  tt,
		solver:  negamax.NewSolver(gen, tt),
	}
	bot.Configure(opts)
	return bot
}

// Configure applies new options. The caches are kept.
func (bot *Bot) Configure(opts Options) {
	bot.opts = opts
	bot.movegen.SetBudget(opts.CandidateBudget)
	bot.vcf.SetMaxDepth(opts.VCFDepth)
	bot.vcf.SetNodeBudget(opts.VCFNodeBudget)
	bot.vct.SetMaxDepth(opts.VCTDepth)
	bot.vct.SetNodeBudget(opts.VCTNodeBudget)
	bot.solver.SetMaxDepth(opts.SearchDepth)
	bot.solver.SetTimeLimit(opts.TimeLimit)
}

func (bot *Bot) Options() Options {
	return bot.opts
}

// Reset clears everything remembered from earlier games.
func (bot *Bot) Reset() {
	bot.vcf.Reset()
	bot.vct.Reset()
	bot.ttable.Clear()
	bot.movegen.Killers().Clear()
}

// Candidates ranks the root moves for p without searching.
func (bot *Bot) Candidates(p move.Player) []movegen.Candidate {
	return bot.movegen.Generate(p, 0)
}

// BestMove runs the policy for p, who is on move. The whole decision,
// forced-win searches included, runs under the configured time limit.
func (bot *Bot) BestMove(ctx context.Context, p move.Player) (Decision, error) {
	b := bot.board
	if bot.opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, bot.opts.TimeLimit)
		defer cancel()
	}
	cands := bot.movegen.Generate(p, 0)
	if len(cands) == 0 {
		return Decision{}, ErrNoMoves
	}
	// killers are kept within one decision only
	defer bot.movegen.Killers().Clear()

	d, ok := bot.decide(ctx, p, cands)
	if !ok {
		d = Decision{Move: cands[0].Move(p), Stage: StageFallback}
	}
	d.Candidates = cands
	d.Move.Player = p
	log.Debug().
		Str("player", p.String()).
		Str("move", d.Move.ShortDescription()).
		Str("stage", d.Stage.String()).
		Int("stones", b.Count()).
		Msg("bot-decision")
	return d, nil
}

func (bot *Bot) decide(ctx context.Context, p move.Player, cands []movegen.Candidate) (Decision, bool) {
	b := bot.board
	opp := p.Opponent()

	if m, ok := bot.opening(p); ok {
		return Decision{Move: m, Stage: StageOpening}, true
	}
	if wins := b.WinningCells(p); len(wins) > 0 {
		return Decision{Move: wins[0], Stage: StageWin}, true
	}
	if blocks := b.WinningCells(opp); len(blocks) > 0 {
		return Decision{Move: blocks[0], Stage: StageBlockFive}, true
	}
	if res := bot.vcf.Solve(ctx, p); res.Win {
		return Decision{Move: res.Sequence[0], Stage: StageVCF, Sequence: res.Sequence}, true
	}
	threes := pattern.FindLiveThrees(b, opp)
	if m, ok := bot.blockVCF(ctx, p, cands, threes); ok {
		return Decision{Move: m, Stage: StageBlockVCF}, true
	}
	if len(threes) == 0 {
		if res := bot.vct.Solve(ctx, p); res.Win {
			return Decision{Move: res.Sequence[0], Stage: StageVCT, Sequence: res.Sequence}, true
		}
	} else if m, ok := bot.defendLiveThree(p, threes); ok {
		return Decision{Move: m, Stage: StageDefendThree}, true
	}
	if m, ok := bot.killerShape(p, cands); ok {
		return Decision{Move: m, Stage: StageKillerShape}, true
	}
	if m, ok := bot.attack(p, cands); ok {
		return Decision{Move: m, Stage: StageAttack}, true
	}
	v, seq, err := bot.solver.Solve(ctx, p)
	if err == nil && len(seq) > 0 {
		return Decision{Move: seq[0], Stage: StageSearch, Sequence: seq, Value: v}, true
	}
	log.Debug().Err(err).Msg("search-gave-no-move")
	return Decision{}, false
}

// opening plays the centre on an empty board, and a random diagonal
// neighbour when the opponent's only stone is the centre.
func (bot *Bot) opening(p move.Player) (move.Move, bool) {
	b := bot.board
	switch b.Count() {
	case 0:
		return move.NewMove(board.Center, board.Center, p), true
	case 1:
		if b.At(board.Center, board.Center) != p.Opponent() {
			return move.Move{}, false
		}
		diagonals := [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
		d := diagonals[frand.Intn(len(diagonals))]
		return move.NewMove(board.Center+d[0], board.Center+d[1], p), true
	}
	return move.Move{}, false
}

// blockVCF answers an opponent forced win: the first move of their line if
// that disarms it, otherwise any candidate that does, otherwise the first
// move of their line anyway. A line that opens by turning one of threes
// into a live four is left to defendLiveThree.
func (bot *Bot) blockVCF(ctx context.Context, p move.Player, cands []movegen.Candidate, threes []pattern.Three) (move.Move, bool) {
	opp := p.Opponent()
	res := bot.vcf.Solve(ctx, opp)
	if !res.Win {
		return move.Move{}, false
	}
	if bot.extendsThree(res.Sequence[0], threes) {
		return move.Move{}, false
	}
	first := move.NewMove(res.Sequence[0].X, res.Sequence[0].Y, p)
	if bot.disarms(ctx, first) {
		return first, true
	}
	for _, c := range cands {
		m := c.Move(p)
		if m.SameSquare(first) {
			continue
		}
		if bot.disarms(ctx, m) {
			return m, true
		}
	}
	log.Debug().Str("move", first.ShortDescription()).Msg("opponent-vcf-not-disarmed")
	return first, true
}

// extendsThree reports whether the opponent move m makes a live four out
// of one of the live threes already on the board.
func (bot *Bot) extendsThree(m move.Move, threes []pattern.Three) bool {
	for _, t := range threes {
		for _, d := range t.Defences() {
			if !d.SameSquare(m) {
				continue
			}
			shapes, ok := equity.Shapes(bot.board, m.X, m.Y, m.Player)
			if ok && shapes.LiveFours > 0 {
				return true
			}
		}
	}
	return false
}

// disarms reports whether playing m leaves the opponent without a forced
// four-win.
func (bot *Bot) disarms(ctx context.Context, m move.Move) bool {
	still := true
	bot.board.Try(m.X, m.Y, m.Player, func() {
		res := bot.vcf.Solve(ctx, m.Player.Opponent())
		still = res.Win || res.Aborted
	})
	return !still
}

// defendLiveThree picks the best blocking cell of the opponent's live
// threes: the one that is worth most to both sides, with a bonus for the
// gap of a jump three.
func (bot *Bot) defendLiveThree(p move.Player, threes []pattern.Three) (move.Move, bool) {
	b := bot.board
	opp := p.Opponent()
	best := move.Move{}
	bestScore := -1
	for _, t := range threes {
		for _, d := range t.Defences() {
			if !b.IsEmpty(d.X, d.Y) {
				continue
			}
			score := equity.Evaluate(b, d.X, d.Y, p) + equity.Evaluate(b, d.X, d.Y, opp)
			if t.HasGap && d.SameSquare(t.Gap) {
				score += GapDefenceBonus
			}
			if score > bestScore || (score == bestScore && d.Index() < best.Index()) {
				bestScore = score
				best = move.NewMove(d.X, d.Y, p)
			}
		}
	}
	return best, bestScore >= 0
}

// killerShape finds a move that makes a live four, two fours, two live
// threes or a four with a live three: first for p, then, to take it away,
// for the opponent.
func (bot *Bot) killerShape(p move.Player, cands []movegen.Candidate) (move.Move, bool) {
	for _, who := range [2]move.Player{p, p.Opponent()} {
		for _, c := range cands {
			t, ok := equity.Shapes(bot.board, c.X, c.Y, who)
			if ok && t.Killer() {
				return c.Move(p), true
			}
		}
	}
	return move.Move{}, false
}

// attack prefers a move making a live three, then the one making the most
// live twos.
func (bot *Bot) attack(p move.Player, cands []movegen.Candidate) (move.Move, bool) {
	bestTwos := 0
	var best move.Move
	for _, c := range cands {
		t, ok := equity.Shapes(bot.board, c.X, c.Y, p)
		if !ok {
			continue
		}
		if t.LiveThrees > 0 {
			return c.Move(p), true
		}
		if t.LiveTwos > bestTwos {
			bestTwos = t.LiveTwos
			best = c.Move(p)
		}
	}
	return best, bestTwos > 0
}
