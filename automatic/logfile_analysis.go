package automatic

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/fivestone/gomoku/gamerecord"
	"github.com/fivestone/gomoku/move"
	"github.com/fivestone/gomoku/stats"
)

const (
	confidence    = 95.0
	histogramBins = 10
	histogramBar  = 40
)

// Summary aggregates self-play games.
type Summary struct {
	black     stats.WinRate
	lengths   []float64
	length    stats.Statistic
	thinkTime stats.Statistic
	stages    map[string]int
}

func NewSummary() *Summary {
	return &Summary{stages: make(map[string]int)}
}

func (s *Summary) Add(g GameResult) {
	switch g.Winner {
	case move.Black:
		s.black.Wins++
	case move.White:
		s.black.Losses++
	default:
		s.black.Draws++
	}
	s.lengths = append(s.lengths, float64(g.Plies()))
	s.length.Push(float64(g.Plies()))
	for _, d := range g.ThinkTime {
		s.thinkTime.Push(float64(d) / float64(time.Millisecond))
	}
	for k, v := range g.Stages {
		s.stages[k] += v
	}
}

func (s *Summary) Games() int {
	return s.black.Games()
}

// BlackScore is black's share of the points, a draw counting half.
func (s *Summary) BlackScore() float64 {
	return s.black.Score()
}

func (s *Summary) MeanLength() float64 {
	return s.length.Mean()
}

// StageCount is how many engine moves the named policy stage produced.
func (s *Summary) StageCount(stage string) int {
	return s.stages[stage]
}

func (s *Summary) String() string {
	var sb strings.Builder
	lo95, hi95 := s.black.Interval(confidence)
	fmt.Fprintf(&sb, "Games played: %d\n", s.Games())
	fmt.Fprintf(&sb, "Black wins: %d  White wins: %d  Draws: %d\n",
		s.black.Wins, s.black.Losses, s.black.Draws)
	fmt.Fprintf(&sb, "Black score: %.3f (%.0f%% interval %.3f - %.3f)\n",
		s.black.Score(), confidence, lo95, hi95)
	fmt.Fprintf(&sb, "Game length: mean %.2f  stdev %.2f  min %.0f  max %.0f\n",
		s.length.Mean(), s.length.Stdev(), s.length.Min(), s.length.Max())
	if s.thinkTime.Iterations() > 0 {
		fmt.Fprintf(&sb, "Think time (ms): mean %.1f  stdev %.1f  max %.1f\n",
			s.thinkTime.Mean(), s.thinkTime.Stdev(), s.thinkTime.Max())
	}
	if len(s.stages) > 0 {
		names := lo.Keys(s.stages)
		slices.Sort(names)
		total := lo.Sum(lo.Values(s.stages))
		sb.WriteString("Engine moves by stage:\n")
		for _, n := range names {
			fmt.Fprintf(&sb, "  %-14s %6d (%.1f%%)\n", n, s.stages[n],
				100*float64(s.stages[n])/float64(total))
		}
	}
	if len(s.lengths) > 1 {
		sb.WriteString("Game length histogram:\n")
		hist := histogram.Hist(histogramBins, s.lengths)
		if err := histogram.Fprint(&sb, hist, histogram.Linear(histogramBar)); err != nil {
			fmt.Fprintf(&sb, "(histogram unavailable: %v)\n", err)
		}
	}
	return sb.String()
}

// AnalyzeRecordFile summarizes a file of self-play records. Stage counts
// and think times are not kept in records, so only results and lengths
// are reported.
func AnalyzeRecordFile(filepath string) (string, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	recs, err := gamerecord.ParseRecordsFromReader(f)
	if err != nil {
		return "", err
	}
	s := NewSummary()
	for _, r := range recs {
		moves, err := r.PlayedMoves()
		if err != nil {
			return "", err
		}
		s.Add(GameResult{Winner: r.WinningPlayer(), Moves: moves})
	}
	return s.String(), nil
}
