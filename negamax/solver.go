// Package negamax is the general-purpose search: depth-limited negamax with
// alpha-beta pruning over the candidate generator's moves, a transposition
// table, killer moves and time-bounded iterative deepening.
package negamax

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fivestone/gomoku/board"
	"github.com/fivestone/gomoku/common"
	"github.com/fivestone/gomoku/equity"
	"github.com/fivestone/gomoku/move"
	"github.com/fivestone/gomoku/movegen"
	"github.com/fivestone/gomoku/pattern"
)

// thanks Wikipedia:
/*
function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    childNodes := orderMoves(childNodes)
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
**/

const (
	HugeNumber = 1 << 30
	// WinScore is the value of a completed five. Wins found with more
	// depth remaining score higher, so the shortest win is preferred.
	WinScore = pattern.ScoreFive

	DefaultMaxDepth  = 6
	DefaultTimeLimit = 3 * time.Second

	MaxVariantLength = movegen.MaxKillerDepth
)

var (
	// ErrTimeout means the deadline passed before even the first
	// iteration completed. It is not a score.
	ErrTimeout = errors.New("search timed out")
	// ErrNoCandidates is returned when there is nowhere left to play.
	ErrNoCandidates = errors.New("no candidate moves")
)

// Solver searches the shared board in place. Every stone it places is
// taken back before a call returns, timeouts included.
type Solver struct {
	board   *board.GameBoard
	movegen *movegen.Generator
	ttable  *TranspositionTable
	eval    equity.Calculator

	maxDepth  int
	timeLimit time.Duration

	transpositionTableOptim bool
	killerPlayOptim         bool
	iterativeDeepeningOptim bool

	nodes              atomic.Uint64
	principalVariation common.PVLine
	bestPVValue        int
	completedDepth     int
}

func NewSolver(gen *movegen.Generator, tt *TranspositionTable) *Solver {
	return &Solver{
		board:                   gen.Board(),
		movegen:                 gen,
		ttable:                  tt,
		eval:                    equity.ThreatCalculator{},
		maxDepth:                DefaultMaxDepth,
		timeLimit:               DefaultTimeLimit,
		transpositionTableOptim: tt != nil,
		killerPlayOptim:         true,
		iterativeDeepeningOptim: true,
	}
}

func (s *Solver) SetMaxDepth(d int) {
	if d > 0 {
		s.maxDepth = min(d, MaxVariantLength-1)
	}
}

func (s *Solver) MaxDepth() int {
	return s.maxDepth
}

func (s *Solver) SetTimeLimit(d time.Duration) {
	if d > 0 {
		s.timeLimit = d
	}
}

func (s *Solver) SetEvaluator(c equity.Calculator) {
	s.eval = c
}

func (s *Solver) SetIterativeDeepening(id bool) {
	s.iterativeDeepeningOptim = id
}

func (s *Solver) SetKillerPlayOptim(k bool) {
	s.killerPlayOptim = k
}

func (s *Solver) SetTranspositionTableOptim(tt bool) {
	s.transpositionTableOptim = tt && s.ttable != nil
}

func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// CompletedDepth is the depth of the last fully searched iteration.
func (s *Solver) CompletedDepth() int {
	return s.completedDepth
}

func (s *Solver) PrincipalVariation() common.PVLine {
	return s.principalVariation.Copy()
}

// Solve searches for p's best move. It returns the value of the deepest
// completed iteration and its principal variation. An iteration cut off by
// the deadline is thrown away.
func (s *Solver) Solve(ctx context.Context, p move.Player) (int, []move.Move, error) {
	tstart := time.Now()
	// A caller's earlier deadline wins over the solver's own limit.
	budget := s.timeLimit
	if dl, ok := ctx.Deadline(); ok {
		budget = min(budget, time.Until(dl))
	}
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	s.nodes.Store(0)
	s.principalVariation.Clear()
	s.bestPVValue = 0
	s.completedDepth = 0
	s.movegen.Killers().Clear()

	err := s.iterativelyDeepen(ctx, p, tstart, budget)

	var ttStats TTStats
	if s.ttable != nil {
		ttStats = s.ttable.Stats()
	}
	log.Debug().
		Uint64("nodes", s.nodes.Load()).
		Int("completed-depth", s.completedDepth).
		Uint64("ttable-created", ttStats.Created).
		Uint64("ttable-lookups", ttStats.Lookups).
		Uint64("ttable-hits", ttStats.Hits).
		Uint64("ttable-t1collisions", ttStats.T1Collisions).
		Uint64("ttable-t2collisions", ttStats.T2Collisions).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Str("pv", s.principalVariation.NLBString()).
		Msg("solve-returning")

	if err != nil {
		return 0, nil, err
	}
	return s.bestPVValue, s.PrincipalVariation().Moves, nil
}

func (s *Solver) iterativelyDeepen(ctx context.Context, p move.Player, tstart time.Time, budget time.Duration) error {
	start := 1
	if !s.iterativeDeepeningOptim {
		start = s.maxDepth
	}
	for d := start; d <= s.maxDepth; d++ {
		log.Debug().Int("plies", d).Msg("deepening-iteratively")
		var pv common.PVLine
		v, err := s.negamax(ctx, d, 0, -HugeNumber, HugeNumber, p, &pv)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				log.Debug().Int("plies", d).Msg("iteration-timed-out")
				break
			}
			return err
		}
		if len(pv.Moves) == 0 {
			return ErrNoCandidates
		}
		s.principalVariation = pv.Copy()
		s.bestPVValue = v
		s.completedDepth = d
		if v >= WinScore/2 || v <= -WinScore/2 {
			// decided; deeper search cannot change the outcome
			break
		}
		if time.Since(tstart) > budget/2 {
			break
		}
	}
	if s.completedDepth == 0 {
		return ErrTimeout
	}
	return nil
}

func (s *Solver) negamax(ctx context.Context, depth, ply, α, β int, p move.Player, pv *common.PVLine) (int, error) {
	if ctx.Err() != nil {
		return 0, ErrTimeout
	}
	s.nodes.Add(1)
	b := s.board

	// Terminal positions are never stored in the table, so they are
	// checked before probing it.
	if b.LastMoveWins() {
		// The opponent's last stone made five.
		return -(WinScore + depth), nil
	}
	if b.Full() {
		return 0, nil
	}

	alphaOrig := α
	ttMove := -1
	if s.transpositionTableOptim {
		ttEntry, ok := s.ttable.lookup(b.Hash(), b.Check())
		if ok {
			// The root always searches, so that it has a move to report.
			if ply > 0 && ttEntry.Depth() >= depth {
				score := ttEntry.Score()
				switch ttEntry.Flag() {
				case TTExact:
					return score, nil
				case TTLower:
					α = max(α, score)
				case TTUpper:
					β = min(β, score)
				}
				if α >= β {
					return score, nil
				}
			}
			// search hash move first.
			if idx, ok := ttEntry.Move(); ok {
				ttMove = idx
			}
		}
	}

	if depth == 0 {
		return s.eval.BoardScore(b, p), nil
	}

	children := s.movegen.Generate(p, ply)
	if len(children) == 0 {
		return 0, nil
	}
	if ttMove >= 0 {
		for i, c := range children {
			if c.Index() == ttMove {
				copy(children[1:i+1], children[:i])
				children[0] = c
				break
			}
		}
	}

	var childPV common.PVLine
	bestValue := -HugeNumber
	bestMove := -1
	for _, child := range children {
		if !b.Place(child.X, child.Y, p) {
			continue
		}
		value, err := s.negamax(ctx, depth-1, ply+1, -β, -α, p.Opponent(), &childPV)
		b.Unplace()
		if err != nil {
			return 0, err
		}
		value = -value
		if value > bestValue {
			bestValue = value
			bestMove = child.Index()
			pv.Update(child.Move(p), childPV, bestValue)
		}
		α = max(α, bestValue)
		if bestValue >= β {
			if s.killerPlayOptim {
				s.movegen.Killers().Record(ply, child.Move(p))
			}
			break // beta cut-off
		}
		childPV.Clear() // clear the child node's pv for the next child node
	}
	if bestMove < 0 {
		return 0, nil
	}

	if s.transpositionTableOptim {
		var flag uint8
		if bestValue <= alphaOrig {
			flag = TTUpper
		} else if bestValue >= β {
			flag = TTLower
		} else {
			flag = TTExact
		}
		s.ttable.store(b.Hash(), b.Check(), TableEntry{
			score: int32(bestValue),
			depth: uint8(depth),
			flag:  flag,
			play:  int16(bestMove + 1),
		})
	}
	return bestValue, nil
}
