// Package vcf implements the forced-win searches: VCF, where every attacking
// move makes a four, and VCT, where the attacker may also make open threes.
// Both only look at forcing moves and prove or refute a win independently of
// the general minimax search.
package vcf

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/fivestone/gomoku/board"
	"github.com/fivestone/gomoku/cache"
	"github.com/fivestone/gomoku/equity"
	"github.com/fivestone/gomoku/move"
	"github.com/fivestone/gomoku/movegen"
)

// Mode selects which attacking moves count as forcing.
type Mode int

const (
	// VCF allows only four-making attacks.
	VCF Mode = iota
	// VCT also allows attacks that make an open three.
	VCT
)

func (m Mode) String() string {
	if m == VCT {
		return "vct"
	}
	return "vcf"
}

const (
	DefaultVCFDepth      = 14
	DefaultVCTDepth      = 10
	DefaultVCFNodeBudget = 200_000
	DefaultVCTNodeBudget = 100_000

	// threatRadius covers every cell that can turn existing stones into a
	// four or an open three.
	threatRadius = movegen.SearchRadius
)

const (
	defenderRoleMask uint64 = 0x5A5A5A5A5A5A5A5A
	whiteAttackMask  uint64 = 0xA5A5A5A5A5A5A5A5
)

// Result is the outcome of a forced-win search.
type Result struct {
	Win bool
	// Sequence starts with the attacker's first move and alternates with
	// the defender's forced replies, ending with the five.
	Sequence []move.Move
	Nodes    int
	// Aborted is set when the deadline or node budget cut the search
	// short. An aborted search that found no win is inconclusive.
	Aborted bool
}

type memoEntry struct {
	check uint64
	win   bool
	depth int
	seq   []move.Move
}

// Solver runs one kind of forced-win search on a board it shares with the
// rest of the engine. Every stone it places is taken back before it
// returns.
type Solver struct {
	board      *board.GameBoard
	mode       Mode
	maxDepth   int
	nodeBudget int
	memo       *cache.Bounded[uint64, memoEntry]

	ctx     context.Context
	nodes   int
	aborted bool
}

func NewSolver(b *board.GameBoard, mode Mode, cacheSize int) *Solver {
	s := &Solver{
		board: b,
		mode:  mode,
		memo:  cache.New[uint64, memoEntry](cacheSize),
	}
	if mode == VCT {
		s.maxDepth = DefaultVCTDepth
		s.nodeBudget = DefaultVCTNodeBudget
	} else {
		s.maxDepth = DefaultVCFDepth
		s.nodeBudget = DefaultVCFNodeBudget
	}
	return s
}

func (s *Solver) SetMaxDepth(d int) {
	if d > 0 {
		s.maxDepth = d
	}
}

func (s *Solver) MaxDepth() int {
	return s.maxDepth
}

func (s *Solver) SetNodeBudget(n int) {
	if n > 0 {
		s.nodeBudget = n
	}
}

func (s *Solver) Mode() Mode {
	return s.mode
}

// Reset forgets all memoised results. It must be called whenever the board
// is reset for a new game.
func (s *Solver) Reset() {
	s.memo.Clear()
}

func (s *Solver) MemoSize() int {
	return s.memo.Len()
}

// Solve searches for a forced win for attacker, who is assumed to be on
// move, within the configured depth.
func (s *Solver) Solve(ctx context.Context, attacker move.Player) Result {
	s.ctx = ctx
	s.nodes = 0
	s.aborted = false
	win, seq := s.attack(attacker, s.maxDepth)
	res := Result{Win: win, Sequence: seq, Nodes: s.nodes, Aborted: s.aborted}
	log.Debug().
		Str("mode", s.mode.String()).
		Str("attacker", attacker.String()).
		Bool("win", win).
		Int("nodes", s.nodes).
		Bool("aborted", s.aborted).
		Msg("forced-search-done")
	return res
}

func (s *Solver) stop() bool {
	if s.aborted {
		return true
	}
	s.nodes++
	if s.nodes > s.nodeBudget || (s.ctx != nil && s.ctx.Err() != nil) {
		s.aborted = true
	}
	return s.aborted
}

func (s *Solver) key(attacker move.Player, defending bool) uint64 {
	k := s.board.Hash()
	if defending {
		k ^= defenderRoleMask
	}
	if attacker == move.White {
		k ^= whiteAttackMask
	}
	return k
}

func (s *Solver) lookup(k uint64, depth int) (memoEntry, bool) {
	e, ok := s.memo.Get(k)
	if !ok || e.check != s.board.Check() {
		return memoEntry{}, false
	}
	// A proof is good at any depth that fits it; a refutation only at
	// depths no deeper than the one it was made at.
	if e.win && len(e.seq) <= depth {
		return e, true
	}
	if !e.win && e.depth >= depth {
		return e, true
	}
	return memoEntry{}, false
}

func (s *Solver) store(k uint64, depth int, win bool, seq []move.Move) {
	if s.aborted {
		return
	}
	s.memo.Put(k, memoEntry{check: s.board.Check(), win: win, depth: depth, seq: seq})
}

// attack is an attacker node: attacker is on move. It reports whether the
// attacker can force a five within depth plies, and the line that does.
func (s *Solver) attack(attacker move.Player, depth int) (bool, []move.Move) {
	if depth <= 0 || s.stop() {
		return false, nil
	}
	b := s.board
	if wins := b.WinningCells(attacker); len(wins) > 0 {
		return true, []move.Move{wins[0]}
	}
	k := s.key(attacker, false)
	if e, ok := s.lookup(k, depth); ok {
		return e.win, e.seq
	}

	defender := attacker.Opponent()
	var moves []move.Move
	switch blocks := b.WinningCells(defender); len(blocks) {
	case 0:
		moves = s.attackMoves(attacker)
	case 1:
		// The defender threatens five; the block has to be forcing too.
		moves = []move.Move{move.NewMove(blocks[0].X, blocks[0].Y, attacker)}
	default:
		s.store(k, depth, false, nil)
		return false, nil
	}

	for _, m := range moves {
		var win bool
		var seq []move.Move
		b.Try(m.X, m.Y, attacker, func() {
			if !s.forcing(attacker) {
				return
			}
			win, seq = s.defend(attacker, depth-1)
		})
		if win {
			line := append([]move.Move{m}, seq...)
			s.store(k, depth, true, line)
			return true, line
		}
		if s.aborted {
			return false, nil
		}
	}
	s.store(k, depth, false, nil)
	return false, nil
}

// forcing reports whether the stone just played threatens something the
// defender has to answer.
func (s *Solver) forcing(attacker move.Player) bool {
	if len(s.board.WinningCells(attacker)) > 0 {
		return true
	}
	return s.mode == VCT && len(s.liveFourMoves(attacker)) > 0
}

// defend is a defender node: the attacker has just played. It reports
// whether the attacker still wins against every defence.
func (s *Solver) defend(attacker move.Player, depth int) (bool, []move.Move) {
	if depth <= 0 || s.stop() {
		return false, nil
	}
	b := s.board
	defender := attacker.Opponent()
	if len(b.WinningCells(defender)) > 0 {
		return false, nil
	}
	k := s.key(attacker, true)
	if e, ok := s.lookup(k, depth); ok {
		return e.win, e.seq
	}

	breaks := b.WinningCells(attacker)
	if len(breaks) >= 2 {
		// Only one of them can be covered.
		line := []move.Move{
			move.NewMove(breaks[0].X, breaks[0].Y, defender),
			breaks[1],
		}
		s.store(k, depth, true, line)
		return true, line
	}

	var defences []move.Move
	switch {
	case len(breaks) == 1:
		defences = []move.Move{move.NewMove(breaks[0].X, breaks[0].Y, defender)}
	case s.mode == VCT:
		defences = s.threeDefences(attacker)
	}
	if len(defences) == 0 {
		s.store(k, depth, false, nil)
		return false, nil
	}

	var principal []move.Move
	for _, d := range defences {
		var win bool
		var seq []move.Move
		b.Try(d.X, d.Y, defender, func() {
			win, seq = s.attack(attacker, depth-1)
		})
		if !win {
			if !s.aborted {
				s.store(k, depth, false, nil)
			}
			return false, nil
		}
		if principal == nil {
			principal = append([]move.Move{d}, seq...)
		}
	}
	s.store(k, depth, true, principal)
	return true, principal
}

type threat struct {
	m     move.Move
	score int
}

// attackMoves lists the attacker's forcing moves, most promising first.
func (s *Solver) attackMoves(attacker move.Player) []move.Move {
	b := s.board
	var threats []threat
	for _, idx := range movegen.Neighborhood(b, threatRadius) {
		x, y := idx/board.Dim, idx%board.Dim
		t, ok := equity.Shapes(b, x, y, attacker)
		if !ok {
			continue
		}
		if t.Fours() == 0 && (s.mode == VCF || t.LiveThrees == 0) {
			continue
		}
		threats = append(threats, threat{m: move.NewMove(x, y, attacker), score: t.Total()})
	}
	sort.SliceStable(threats, func(i, j int) bool {
		return threats[i].score > threats[j].score
	})
	moves := make([]move.Move, len(threats))
	for i, t := range threats {
		moves[i] = t.m
	}
	return moves
}

// liveFourMoves lists the cells where p would make a live four or two
// fours at once, either of which wins unless the opponent can force.
func (s *Solver) liveFourMoves(p move.Player) []move.Move {
	b := s.board
	var moves []move.Move
	for _, idx := range movegen.Neighborhood(b, threatRadius) {
		x, y := idx/board.Dim, idx%board.Dim
		t, ok := equity.Shapes(b, x, y, p)
		if ok && (t.LiveFours > 0 || t.Fours() >= 2) {
			moves = append(moves, move.NewMove(x, y, p))
		}
	}
	return moves
}

// threeDefences returns every defender move that could answer an open
// three: the cells where the attacker would make a live four, the cells
// that would then complete it, and the defender's own fours.
func (s *Solver) threeDefences(attacker move.Player) []move.Move {
	b := s.board
	defender := attacker.Opponent()
	var seen [board.NumCells]bool
	var out []move.Move
	add := func(x, y int) {
		idx := x*board.Dim + y
		if seen[idx] || !b.IsEmpty(x, y) {
			return
		}
		seen[idx] = true
		out = append(out, move.NewMove(x, y, defender))
	}
	for _, m := range s.liveFourMoves(attacker) {
		add(m.X, m.Y)
		b.Try(m.X, m.Y, attacker, func() {
			for _, c := range b.WinningCells(attacker) {
				add(c.X, c.Y)
			}
		})
	}
	if len(out) == 0 {
		return nil
	}
	for _, idx := range movegen.Neighborhood(b, threatRadius) {
		x, y := idx/board.Dim, idx%board.Dim
		if t, ok := equity.Shapes(b, x, y, defender); ok && t.Fours() > 0 {
			add(x, y)
		}
	}
	return out
}
