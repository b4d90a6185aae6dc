// Package movegen produces the ranked, pruned list of candidate moves that
// every search in the engine iterates over. Only empty cells near existing
// stones are considered; each one is scored for attack and defence with the
// position evaluator.
package movegen

import (
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/fivestone/gomoku/board"
	"github.com/fivestone/gomoku/equity"
	"github.com/fivestone/gomoku/move"
	"github.com/fivestone/gomoku/pattern"
)

const (
	DefaultBudget = 15

	// RootRadius and SearchRadius are the neighbourhood sizes around
	// existing stones, at the root of a search and below it.
	RootRadius   = 3
	SearchRadius = 2
)

// Tier offsets. A higher tier always outranks a lower one whatever the
// raw scores inside it.
const (
	tierWin          = 100_000_000
	tierBlockWin     = 50_000_000
	tierForcing      = 20_000_000
	tierBlockForcing = 10_000_000
	tierKillerShape  = 5_000_000
	tierBlockKiller  = 2_000_000
	attackBlendNum   = 11
	defenceBlendNum  = 9
	blendDenominator = 10
)

// Candidate is an empty cell with its composite ranking score and the
// evaluator's attack and defence scores for it.
type Candidate struct {
	X, Y    int
	Score   int
	Attack  int
	Defense int
}

func (c Candidate) Move(p move.Player) move.Move {
	return move.NewMove(c.X, c.Y, p)
}

func (c Candidate) Index() int {
	return c.X*board.Dim + c.Y
}

// Generator ranks candidate moves on a board it shares with the searches.
type Generator struct {
	board   *board.GameBoard
	budget  int
	killers KillerTable
}

func NewGenerator(b *board.GameBoard) *Generator {
	return &Generator{board: b, budget: DefaultBudget}
}

func (g *Generator) Board() *board.GameBoard {
	return g.board
}

// SetBudget sets the maximum number of candidates returned. Values below
// one restore the default.
func (g *Generator) SetBudget(n int) {
	if n < 1 {
		n = DefaultBudget
	}
	g.budget = n
}

func (g *Generator) Budget() int {
	return g.budget
}

func (g *Generator) Killers() *KillerTable {
	return &g.killers
}

// Generate returns at most Budget() candidates for p, best first. depth is
// the ply inside the current search; zero means the root. Killer moves
// recorded for that depth are moved to the front.
func (g *Generator) Generate(p move.Player, depth int) []Candidate {
	cands := g.All(p, depth)
	if len(cands) == 0 {
		return cands
	}
	killers := g.killers.Killers(depth)
	if len(killers) > 0 {
		isKiller := func(c Candidate, _ int) bool {
			return lo.Contains(killers, c.Index())
		}
		front := lo.Filter(cands, isKiller)
		if len(front) > 0 {
			// front keeps the score order of cands
			rest := lo.Reject(cands, isKiller)
			cands = append(front, rest...)
		}
	}
	if len(cands) > g.budget {
		cands = cands[:g.budget]
	}
	return cands
}

// All returns every candidate for p in the neighbourhood, sorted by
// score, without killer reordering or truncation.
func (g *Generator) All(p move.Player, depth int) []Candidate {
	b := g.board
	if b.Count() == 0 {
		return []Candidate{{
			X:     board.Center,
			Y:     board.Center,
			Score: equity.CentreBonus(board.Center, board.Center),
		}}
	}
	if b.Full() {
		log.Debug().Msg("no-candidates-board-full")
		return nil
	}
	radius := SearchRadius
	if depth == 0 {
		radius = RootRadius
	}
	opp := p.Opponent()
	cells := Neighborhood(b, radius)
	cands := make([]Candidate, 0, len(cells))
	for _, idx := range cells {
		x, y := idx/board.Dim, idx%board.Dim
		attack := equity.Evaluate(b, x, y, p)
		defense := equity.Evaluate(b, x, y, opp)
		if attack < 0 || defense < 0 {
			continue
		}
		cands = append(cands, Candidate{
			X:       x,
			Y:       y,
			Score:   CompositeScore(b, x, y, p, attack, defense),
			Attack:  attack,
			Defense: defense,
		})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].Index() < cands[j].Index()
	})
	return cands
}

// CompositeScore ranks a cell by the most urgent thing it does, before
// falling back to a weighted blend of attack and defence.
func CompositeScore(b *board.GameBoard, x, y int, p move.Player, attack, defense int) int {
	switch {
	case attack >= pattern.WinningThreshold:
		return tierWin + attack
	case defense >= pattern.WinningThreshold:
		return tierBlockWin + defense
	case attack >= pattern.ForcingThreshold:
		return tierForcing + attack
	case defense >= pattern.ForcingThreshold:
		return tierBlockForcing + defense
	case attack >= pattern.KillerThreshold:
		return tierKillerShape + attack
	case defense >= pattern.KillerThreshold:
		return tierBlockKiller + defense
	}
	return (attack*attackBlendNum+defense*defenceBlendNum)/blendDenominator +
		equity.CentreBonus(x, y) + equity.Connectivity(b, x, y, p)
}

// Neighborhood returns, in index order, the empty cells within radius
// (Chebyshev distance) of any stone.
func Neighborhood(b *board.GameBoard, radius int) []int {
	var near [board.NumCells]bool
	for _, m := range b.History() {
		for dx := -radius; dx <= radius; dx++ {
			for dy := -radius; dy <= radius; dy++ {
				x, y := m.X+dx, m.Y+dy
				if b.IsEmpty(x, y) {
					near[x*board.Dim+y] = true
				}
			}
		}
	}
	cells := make([]int, 0, 64)
	for idx, ok := range near {
		if ok {
			cells = append(cells, idx)
		}
	}
	return cells
}
