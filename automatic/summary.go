package automatic

import (
	"fmt"
	"math"
	"strings"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/stats"
)

// Summary aggregates finished games. Differentials are x discs minus o
// discs.
type Summary struct {
	Games        int
	Wins         [2]int
	Ties         int
	Differential *stats.Statistic
	Turns        *stats.Statistic

	diffs []float64
}

func NewSummary() *Summary {
	return &Summary{Differential: &stats.Statistic{}, Turns: &stats.Statistic{}}
}

// AddGame records a finished game by its final board.
func (s *Summary) AddGame(final board.Board, turns int) {
	s.addResult(final.Count(board.Player0), final.Count(board.Player1), turns)
}

func (s *Summary) addResult(discs0, discs1, turns int) {
	s.Games++
	switch {
	case discs0 > discs1:
		s.Wins[0]++
	case discs1 > discs0:
		s.Wins[1]++
	default:
		s.Ties++
	}
	d := float64(discs0 - discs1)
	s.Differential.Push(d)
	s.Turns.Push(float64(turns))
	s.diffs = append(s.diffs, d)
}

// WinRate returns the share of games won by p, counting ties as half.
func (s *Summary) WinRate(p board.Player) float64 {
	if s.Games == 0 {
		return 0
	}
	return (float64(s.Wins[p]) + float64(s.Ties)/2) / float64(s.Games)
}

// WinRateCI returns the half-width of the confidence interval around
// WinRate(p), using the normal approximation.
func (s *Summary) WinRateCI(p board.Player, confidence float64) float64 {
	if s.Games == 0 {
		return 0
	}
	r := s.WinRate(p)
	return stats.ZVal(confidence) * math.Sqrt(r*(1-r)/float64(s.Games))
}

// Histogram bins the per-game disc differentials.
func (s *Summary) Histogram(bins int) histogram.Histogram {
	return histogram.Hist(bins, s.diffs)
}

func (s *Summary) ToDisplayText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", s.Games)
	for _, p := range []board.Player{board.Player0, board.Player1} {
		fmt.Fprintf(&sb, "%v wins: %d (%.1f%% ± %.1f%%)\n", p, s.Wins[p],
			100*s.WinRate(p), 100*s.WinRateCI(p, 95))
	}
	fmt.Fprintf(&sb, "Ties: %d\n", s.Ties)
	if s.Games == 0 {
		return sb.String()
	}
	fmt.Fprintf(&sb, "Disc differential (x - o): %.2f ± %.2f (95%% CI), stdev %.2f, range [%.0f, %.0f]\n",
		s.Differential.Mean(), s.Differential.ConfidenceInterval(95), s.Differential.Stdev(),
		s.Differential.Min(), s.Differential.Max())
	fmt.Fprintf(&sb, "Turns per game: %.2f\n", s.Turns.Mean())
	sb.WriteString("\n")
	if err := histogram.Fprint(&sb, s.Histogram(15), histogram.Linear(40)); err != nil {
		fmt.Fprintf(&sb, "histogram: %v\n", err)
	}
	return sb.String()
}
