package simulator

import (
	"encoding/json"
	"fmt"

	"github.com/lox/blackjackbots/internal/fileutil"
)

// Report is the JSON form of a simulation's results
type Report struct {
	Games    int          `json:"games"`
	Seed     int64        `json:"seed"`
	Shuffles int          `json:"shuffles"`
	Seats    []SeatReport `json:"seats"`
}

// SeatReport is one bot's line in a Report
type SeatReport struct {
	Name          string         `json:"name"`
	Seat          int            `json:"seat"`
	Strategy      string         `json:"strategy"`
	UseCount      bool           `json:"use_count"`
	Games         int            `json:"games"`
	Net           float64        `json:"net"`
	Mean          float64        `json:"mean"`
	StdDev        float64        `json:"std_dev"`
	CI95          [2]float64     `json:"ci95"`
	Wagered       int            `json:"wagered"`
	Doubles       int            `json:"doubles"`
	Outcomes      map[string]int `json:"outcomes"`
	FinalBankroll float64        `json:"final_bankroll"`
}

// NewReport flattens results for serialization
func NewReport(results *Results) Report {
	report := Report{
		Games:    results.Games,
		Seed:     results.Seed,
		Shuffles: results.Shuffles,
		Seats:    make([]SeatReport, 0, len(results.Seats)),
	}
	for _, seat := range results.Seats {
		stats := seat.Stats
		low, high := stats.ConfidenceInterval95()
		outcomes := make(map[string]int, len(stats.Outcomes))
		for outcome, n := range stats.Outcomes {
			outcomes[outcome.String()] = n
		}
		report.Seats = append(report.Seats, SeatReport{
			Name:          seat.Name,
			Seat:          int(seat.Seat),
			Strategy:      seat.Strategy,
			UseCount:      seat.UseCount,
			Games:         stats.Games,
			Net:           stats.SumNet,
			Mean:          stats.Mean(),
			StdDev:        stats.StdDev(),
			CI95:          [2]float64{low, high},
			Wagered:       stats.Wagered,
			Doubles:       stats.Doubles,
			Outcomes:      outcomes,
			FinalBankroll: seat.FinalBankroll(),
		})
	}
	return report
}

// WriteReport saves results as indented JSON. Readers never see a partial
// report.
func WriteReport(filename string, results *Results) error {
	data, err := json.MarshalIndent(NewReport(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	if err := fileutil.WriteFileAtomic(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
