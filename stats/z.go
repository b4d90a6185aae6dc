package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ZVal returns the two-tailed Z-value associated with a specific confidence interval.
// The interval is a number from 0 to 100 percent.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	area := (1 + (confidenceInterval / 100)) / 2
	return dist.Quantile(area)
}

// MeanInterval is the normal-approximation confidence interval around the
// mean.
func (s *Statistic) MeanInterval(confidenceInterval float64) (float64, float64) {
	half := ZVal(confidenceInterval) * s.StandardError()
	return s.Mean() - half, s.Mean() + half
}

// WinRate counts decisive and drawn games from one side's point of view.
// A draw counts as half a win.
type WinRate struct {
	Wins   int
	Losses int
	Draws  int
}

func (w *WinRate) Games() int {
	return w.Wins + w.Losses + w.Draws
}

func (w *WinRate) Score() float64 {
	if w.Games() == 0 {
		return 0
	}
	return (float64(w.Wins) + 0.5*float64(w.Draws)) / float64(w.Games())
}

// Interval returns the Wilson score interval of the win rate at the given
// confidence, in percent.
func (w *WinRate) Interval(confidenceInterval float64) (float64, float64) {
	n := float64(w.Games())
	if n == 0 {
		return 0, 1
	}
	z := ZVal(confidenceInterval)
	p := w.Score()
	z2 := z * z
	centre := (p + z2/(2*n)) / (1 + z2/n)
	half := z / (1 + z2/n) * math.Sqrt(p*(1-p)/n+z2/(4*n*n))
	return math.Max(0, centre-half), math.Min(1, centre+half)
}
