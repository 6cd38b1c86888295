package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjackbots/internal/game"
)

// GameResult represents how one seat finished a single game
type GameResult struct {
	Net     float64 // Net units won/lost
	Bet     int     // Final wager, after any double
	Outcome game.Outcome
	Doubled bool
	Seed    int64 // Simulation seed (for replay)
}

// Statistics tracks simulation results for one seat
type Statistics struct {
	Games   int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation

	Wagered  int
	Doubles  int
	Outcomes map[game.Outcome]int

	WonUnits  float64 // Units from games won (positive)
	LostUnits float64 // Units from games lost (negative)
	AllNet    float64 // Total for sanity check
}

// Mean returns the arithmetic mean of all results in units per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumNet / float64(s.Games)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	if s.Outcomes == nil {
		s.Outcomes = make(map[game.Outcome]int)
	}

	net := result.Net
	s.Games++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)

	s.Wagered += result.Bet
	if result.Doubled {
		s.Doubles++
	}
	s.Outcomes[result.Outcome]++

	switch {
	case net > 0:
		s.WonUnits += net
	case net < 0:
		s.LostUnits += net
	}
	s.AllNet += net
}

// Count returns how many games finished with outcome
func (s *Statistics) Count(outcome game.Outcome) int {
	return s.Outcomes[outcome]
}

// Wins counts every winning outcome, naturals and Charlies included
func (s *Statistics) Wins() int {
	return s.Count(game.Win) + s.Count(game.BlackjackWin) + s.Count(game.CharlieWin)
}

// Losses counts lost and busted games
func (s *Statistics) Losses() int {
	return s.Count(game.Lose) + s.Count(game.Bust)
}

// WinRate returns the fraction of games won
func (s *Statistics) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins()) / float64(s.Games)
}

// ReturnOnWager returns net units per unit wagered
func (s *Statistics) ReturnOnWager() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return s.SumNet / float64(s.Wagered)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllNet-s.WonUnits-s.LostUnits) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f, WonUnits=%.6f, LostUnits=%.6f",
			s.AllNet, s.WonUnits, s.LostUnits)
	}

	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}

	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}

	tallied := 0
	for _, n := range s.Outcomes {
		tallied += n
	}
	if tallied != s.Games {
		return fmt.Errorf("outcome tally (%d) does not match games count (%d)", tallied, s.Games)
	}

	if s.Doubles > s.Games {
		return fmt.Errorf("doubles (%d) exceed games (%d)", s.Doubles, s.Games)
	}

	return nil
}
