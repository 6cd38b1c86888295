package statistics

import (
	"math"
	"strings"
	"testing"

	"github.com/lox/blackjackbots/internal/game"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if stats.WinRate() != 0 {
		t.Errorf("Expected win rate of 0 for empty stats, got %f", stats.WinRate())
	}
	if stats.ReturnOnWager() != 0 {
		t.Errorf("Expected return of 0 for empty stats, got %f", stats.ReturnOnWager())
	}
}

func TestStatistics_SingleValue(t *testing.T) {
	stats := &Statistics{}
	stats.Add(GameResult{Net: 1.5, Bet: 1, Outcome: game.BlackjackWin, Seed: 12345})

	if stats.Games != 1 {
		t.Errorf("Expected 1 game, got %d", stats.Games)
	}
	if stats.Mean() != 1.5 {
		t.Errorf("Expected mean of 1.5, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for single value, got %f", stats.Variance())
	}
	if stats.Count(game.BlackjackWin) != 1 {
		t.Errorf("Expected 1 blackjack, got %d", stats.Count(game.BlackjackWin))
	}
	if stats.Wins() != 1 {
		t.Errorf("Expected 1 win, got %d", stats.Wins())
	}
	if !stats.IsLedgerBalanced() {
		t.Error("Expected ledger to be balanced")
	}
}

func TestStatistics_MultipleValues(t *testing.T) {
	stats := &Statistics{}

	results := []GameResult{
		{Net: 1, Bet: 1, Outcome: game.Win},
		{Net: -2, Bet: 2, Outcome: game.Bust, Doubled: true},
		{Net: 2, Bet: 2, Outcome: game.Win, Doubled: true},
		{Net: 0, Bet: 1, Outcome: game.Push},
		{Net: -1, Bet: 1, Outcome: game.Lose},
	}
	for _, result := range results {
		stats.Add(result)
	}

	if stats.Games != 5 {
		t.Errorf("Expected 5 games, got %d", stats.Games)
	}
	if math.Abs(stats.Mean()-0) > 1e-9 {
		t.Errorf("Expected mean of 0, got %f", stats.Mean())
	}
	// sorted values: -2, -1, 0, 1, 2
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0, got %f", stats.Median())
	}
	if stats.Wagered != 7 {
		t.Errorf("Expected 7 units wagered, got %d", stats.Wagered)
	}
	if stats.Doubles != 2 {
		t.Errorf("Expected 2 doubles, got %d", stats.Doubles)
	}
	if stats.Wins() != 2 || stats.Losses() != 2 || stats.Count(game.Push) != 1 {
		t.Errorf("Unexpected tallies: wins=%d losses=%d pushes=%d", stats.Wins(), stats.Losses(), stats.Count(game.Push))
	}
	if math.Abs(stats.WinRate()-0.4) > 1e-9 {
		t.Errorf("Expected win rate of 0.4, got %f", stats.WinRate())
	}
	if math.Abs(stats.WonUnits-3) > 1e-9 || math.Abs(stats.LostUnits+3) > 1e-9 {
		t.Errorf("Expected +3/-3 units, got %f/%f", stats.WonUnits, stats.LostUnits)
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Expected valid stats, got %v", err)
	}
}

func TestStatistics_Percentiles(t *testing.T) {
	stats := &Statistics{}
	for i := 1; i <= 5; i++ {
		stats.Add(GameResult{Net: float64(i), Bet: 1, Outcome: game.Win})
	}

	tests := []struct {
		percentile float64
		expected   float64
	}{
		{0.0, 1.0},
		{0.25, 2.0},
		{0.5, 3.0},
		{0.75, 4.0},
		{1.0, 5.0},
	}

	for _, test := range tests {
		result := stats.Percentile(test.percentile)
		if math.Abs(result-test.expected) > 1e-9 {
			t.Errorf("Percentile %.2f: expected %f, got %f", test.percentile, test.expected, result)
		}
	}
}

func TestStatistics_ConfidenceInterval(t *testing.T) {
	stats := &Statistics{}
	for _, v := range []float64{1, -1, 1, 1, -1} {
		stats.Add(GameResult{Net: v, Bet: 1, Outcome: game.Win})
	}

	low, high := stats.ConfidenceInterval95()
	mean := stats.Mean()

	if math.Abs((low+high)/2-mean) > 1e-9 {
		t.Errorf("Confidence interval not symmetric around mean. Low: %f, High: %f, Mean: %f", low, high, mean)
	}
	if high-low <= 0 {
		t.Errorf("Confidence interval should be positive width, got %f", high-low)
	}
}

func TestStatistics_Variance(t *testing.T) {
	stats := &Statistics{}

	// [1, 3, 5] has sample variance 4
	for _, v := range []float64{1, 3, 5} {
		stats.Add(GameResult{Net: v, Bet: 1, Outcome: game.Win})
	}

	if math.Abs(stats.Variance()-4.0) > 1e-9 {
		t.Errorf("Expected variance of 4, got %f", stats.Variance())
	}
	if math.Abs(stats.StdDev()-2.0) > 1e-9 {
		t.Errorf("Expected stddev of 2, got %f", stats.StdDev())
	}
}

func TestStatistics_ReturnOnWager(t *testing.T) {
	stats := &Statistics{}
	stats.Add(GameResult{Net: 2, Bet: 2, Outcome: game.Win})
	stats.Add(GameResult{Net: -1, Bet: 2, Outcome: game.Lose})

	if math.Abs(stats.ReturnOnWager()-0.25) > 1e-9 {
		t.Errorf("Expected return of 0.25, got %f", stats.ReturnOnWager())
	}
}

func TestStatistics_Validate_LedgerMismatch(t *testing.T) {
	stats := &Statistics{
		Games:     1,
		SumNet:    1,
		Values:    []float64{1},
		Outcomes:  map[game.Outcome]int{game.Win: 1},
		AllNet:    1,
		WonUnits:  0.5,
		LostUnits: 0.6,
	}

	err := stats.Validate()
	if err == nil || !strings.Contains(err.Error(), "ledger mismatch") {
		t.Errorf("Expected ledger mismatch error, got: %v", err)
	}
}

func TestStatistics_Validate_InvalidGamesCount(t *testing.T) {
	stats := &Statistics{}

	err := stats.Validate()
	if err == nil || !strings.Contains(err.Error(), "invalid games count") {
		t.Errorf("Expected invalid games count error, got: %v", err)
	}
}

func TestStatistics_Validate_ValuesMismatch(t *testing.T) {
	stats := &Statistics{Games: 2, Values: []float64{0}}

	err := stats.Validate()
	if err == nil || !strings.Contains(err.Error(), "values array length") {
		t.Errorf("Expected values array length error, got: %v", err)
	}
}

func TestStatistics_Validate_OutcomeTally(t *testing.T) {
	stats := &Statistics{
		Games:    2,
		Values:   []float64{0, 0},
		Outcomes: map[game.Outcome]int{game.Push: 1},
	}

	err := stats.Validate()
	if err == nil || !strings.Contains(err.Error(), "outcome tally") {
		t.Errorf("Expected outcome tally error, got: %v", err)
	}
}
