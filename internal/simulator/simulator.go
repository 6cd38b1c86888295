package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjackbots/internal/bot"
	"github.com/lox/blackjackbots/internal/config"
	"github.com/lox/blackjackbots/internal/counting"
	"github.com/lox/blackjackbots/internal/deck"
	"github.com/lox/blackjackbots/internal/game"
	"github.com/lox/blackjackbots/internal/randutil"
	"github.com/lox/blackjackbots/internal/statistics"
	"github.com/lox/blackjackbots/internal/strategy"
	"github.com/lox/blackjackbots/internal/table"
	"golang.org/x/sync/errgroup"
)

const defaultGameTimeout = 5 * time.Minute

// Config holds configuration for running simulations
type Config struct {
	Games       int
	Seed        int64 // 0 picks one from the clock; the chosen seed is reported
	Fast        bool  // no think delay
	GameTimeout time.Duration
	Settings    *config.Config
	Shoe        *deck.Shoe // replaces the seeded shoe, for replaying a fixed deal
	Clock       quartz.Clock
	Logger      *log.Logger
}

// SeatResult is one bot's record over a simulation
type SeatResult struct {
	Name     string
	Seat     game.Seat
	Strategy string
	UseCount bool
	Bankroll int // starting bankroll
	Commits  int64
	Stats    *statistics.Statistics
}

// FinalBankroll returns the starting bankroll plus net winnings
func (r SeatResult) FinalBankroll() float64 {
	return float64(r.Bankroll) + r.Stats.SumNet
}

// Results summarizes a simulation
type Results struct {
	Games    int
	Seed     int64
	Shuffles int
	Seats    []SeatResult
}

// Simulator plays blackjack games between bots and the house
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	return &Simulator{config: config}
}

type seated struct {
	cfg    config.BotConfig
	player *bot.AutoPlayer
	stats  *statistics.Statistics
}

// Run plays the configured number of games and returns per-seat statistics.
// Cancelling ctx abandons the game in progress.
func (s *Simulator) Run(ctx context.Context) (*Results, error) {
	settings := s.config.Settings
	if settings == nil {
		settings = config.DefaultConfig()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if s.config.Games < 1 {
		return nil, fmt.Errorf("invalid games count: %d", s.config.Games)
	}

	logger := s.config.Logger
	if logger == nil {
		logger = log.Default()
	}
	clock := s.config.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	timeout := s.config.GameTimeout
	if timeout <= 0 {
		timeout = defaultGameTimeout
	}
	seed := s.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// The shoe draws first so adding a bot never changes the deal order.
	root := randutil.New(seed)
	bus := game.NewEventBus()
	tbl := table.NewTable(table.Config{
		Seats:       settings.Seats(),
		Decks:       settings.Table.Decks,
		Penetration: settings.Table.Penetration,
		MinBet:      settings.Table.MinBet,
		Rand:        randutil.Derive(root),
		Shoe:        s.config.Shoe,
		Bus:         bus,
		Logger:      logger,
	})
	coord := table.NewCoordinator(tbl, logger)

	counter := counting.NewHiLo(logger)
	bus.Subscribe(counter)

	players := make([]*seated, 0, len(settings.Bots))
	for _, bc := range settings.Bots {
		thinkMin, thinkMax, err := bc.ThinkRange()
		if err != nil {
			return nil, fmt.Errorf("bot %s: %w", bc.Name, err)
		}
		if s.config.Fast {
			thinkMin, thinkMax = 0, 0
		}
		p := bot.NewAutoPlayer(bot.Config{
			Name:        bc.Name,
			Seat:        bc.SeatOf(),
			Strategy:    strategy.Resolve(bc.Strategy),
			Coordinator: coord,
			Clock:       clock,
			ThinkMin:    thinkMin,
			ThinkMax:    thinkMax,
			Rand:        randutil.Derive(root),
			Logger:      logger,
		})
		bus.Subscribe(p)
		players = append(players, &seated{cfg: bc, player: p, stats: &statistics.Statistics{}})
	}

	ended := make(chan []table.Result, 1)
	var shuffles atomic.Int64
	bus.Subscribe(game.SubscriberFunc(func(event game.GameEvent) {
		switch event.(type) {
		case game.EndGameEvent:
			// Runs on the coordinator goroutine, where reading the table is safe.
			select {
			case ended <- tbl.Results():
			default:
				logger.Warn("Dropped game results, driver not waiting")
			}
		case game.ShuffleEvent:
			shuffles.Add(1)
		}
	}))

	g, gctx := errgroup.WithContext(ctx)
	coordCtx, stopCoordinator := context.WithCancel(gctx)
	defer stopCoordinator()

	for _, p := range players {
		p.player.Start(gctx)
	}
	defer func() {
		for _, p := range players {
			p.player.Stop()
		}
	}()

	g.Go(func() error {
		return coord.Run(coordCtx)
	})
	g.Go(func() error {
		defer stopCoordinator()
		return s.drive(gctx, coord, counter, players, ended, settings.Table.MinBet, seed, clock, timeout, logger)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := &Results{
		Games:    s.config.Games,
		Seed:     seed,
		Shuffles: int(shuffles.Load()),
	}
	for _, p := range players {
		if err := p.stats.Validate(); err != nil {
			return nil, fmt.Errorf("statistics validation failed for %s: %w", p.cfg.Name, err)
		}
		results.Seats = append(results.Seats, SeatResult{
			Name:     p.cfg.Name,
			Seat:     p.cfg.SeatOf(),
			Strategy: p.cfg.Strategy,
			UseCount: p.cfg.UseCount,
			Bankroll: p.cfg.Bankroll,
			Commits:  p.player.Commits(),
			Stats:    p.stats,
		})
	}
	return results, nil
}

// drive deals each game and waits for it to be settled
func (s *Simulator) drive(ctx context.Context, coord *table.Coordinator, counter *counting.HiLo, players []*seated,
	ended <-chan []table.Result, minBet int, seed int64, clock quartz.Clock, timeout time.Duration, logger *log.Logger) error {
	bySeat := make(map[game.Seat]*seated, len(players))
	for _, p := range players {
		bySeat[p.cfg.SeatOf()] = p
	}

	for n := 1; n <= s.config.Games; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		bets := wagers(players, counter, minBet)
		logger.Debug("Dealing game", "game", n, "bets", bets, "trueCount", counter.TrueCount())

		if err := coord.StartGame(ctx, bets); err != nil {
			return fmt.Errorf("game %d: %w", n, err)
		}

		results, err := awaitEnd(ctx, clock, ended, timeout)
		if err != nil {
			return fmt.Errorf("game %d (seed: %d): %w", n, seed, err)
		}

		for _, r := range results {
			p, ok := bySeat[r.Seat]
			if !ok {
				continue
			}
			p.stats.Add(statistics.GameResult{
				Net:     float64(r.Net),
				Bet:     r.Bet,
				Outcome: r.Outcome,
				Doubled: r.Doubled,
				Seed:    seed,
			})
		}
	}
	return nil
}

// wagers returns each seat's bet: the counter's recommendation in table
// units for counting bots, the table minimum otherwise. The count belongs to
// the old shoe while a shuffle is pending, so counting bots bet the minimum.
func wagers(players []*seated, counter *counting.HiLo, minBet int) map[game.Seat]int {
	state := counter.State()
	bets := make(map[game.Seat]int, len(players))
	for _, p := range players {
		bet := minBet
		if p.cfg.UseCount && !state.ShufflePending {
			bet = state.Bet * minBet
		}
		bets[p.cfg.SeatOf()] = bet
	}
	return bets
}

var errGameTimeout = errors.New("game timed out")

func awaitEnd(ctx context.Context, clock quartz.Clock, ended <-chan []table.Result, timeout time.Duration) ([]table.Result, error) {
	timer := clock.NewTimer(timeout, "simulator", "game")
	defer timer.Stop()

	select {
	case results := <-ended:
		return results, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("%w after %v", errGameTimeout, timeout)
	}
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, settings *config.Config, games int, seed int64, logger *log.Logger) (*Results, error) {
	simulator := New(Config{
		Games:    games,
		Seed:     seed,
		Fast:     true,
		Settings: settings,
		Logger:   logger,
	})
	return simulator.Run(ctx)
}

// PrintSummary prints a detailed per-seat breakdown of simulation results
func PrintSummary(w io.Writer, results *Results) {
	fmt.Fprintf(w, "\n=== FINAL RESULTS ===\n")
	fmt.Fprintf(w, "Games played: %d\n", results.Games)
	fmt.Fprintf(w, "Seed: %d\n", results.Seed)
	fmt.Fprintf(w, "Shuffles: %d\n", results.Shuffles)

	for _, seat := range results.Seats {
		stats := seat.Stats
		low, high := stats.ConfidenceInterval95()

		fmt.Fprintf(w, "\n=== %s (%s, %s) ===\n", seat.Name, seat.Seat, seat.Strategy)
		fmt.Fprintf(w, "Counting: %t\n", seat.UseCount)
		fmt.Fprintf(w, "Mean: %.4f units/game\n", stats.Mean())
		fmt.Fprintf(w, "Median: %.4f units/game\n", stats.Median())
		fmt.Fprintf(w, "Std Dev: %.4f units\n", stats.StdDev())
		fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] units/game\n", low, high)
		fmt.Fprintf(w, "Return on wager: %.2f%% of %d units\n", stats.ReturnOnWager()*100, stats.Wagered)
		fmt.Fprintf(w, "Outcomes: %d won (%d blackjack, %d charlie), %d lost (%d bust), %d pushed\n",
			stats.Wins(), stats.Count(game.BlackjackWin), stats.Count(game.CharlieWin),
			stats.Losses(), stats.Count(game.Bust), stats.Count(game.Push))
		fmt.Fprintf(w, "Doubles: %d\n", stats.Doubles)
		fmt.Fprintf(w, "Bankroll: %d -> %.0f\n", seat.Bankroll, seat.FinalBankroll())
	}
}
