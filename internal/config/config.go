// Package config loads the HCL file describing a blackjack table and the bots
// seated at it.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjackbots/internal/bot"
	"github.com/lox/blackjackbots/internal/deck"
	"github.com/lox/blackjackbots/internal/game"
	"github.com/lox/blackjackbots/internal/strategy"
	"github.com/lox/blackjackbots/internal/table"
)

const (
	defaultLogLevel = "info"
	defaultStrategy = "basic"
	defaultBankroll = 1000
)

// Config represents the complete simulation configuration
type Config struct {
	LogLevel string      `hcl:"log_level,optional"`
	Table    TableConfig `hcl:"table,block"`
	Bots     []BotConfig `hcl:"bot,block"`
}

// TableConfig describes the shoe and wagering rules
type TableConfig struct {
	Decks       int     `hcl:"decks,optional"`
	Penetration float64 `hcl:"penetration,optional"`
	MinBet      int     `hcl:"min_bet,optional"`
	Seed        int64   `hcl:"seed,optional"`
}

// BotConfig defines one seated bot
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Seat     int    `hcl:"seat"`
	Strategy string `hcl:"strategy,optional"`
	ThinkMin string `hcl:"think_min,optional"`
	ThinkMax string `hcl:"think_max,optional"`
	Bankroll int    `hcl:"bankroll,optional"`
	UseCount bool   `hcl:"use_count,optional"`
}

// DefaultConfig returns a single table with three bots, right to left
func DefaultConfig() *Config {
	config := &Config{
		LogLevel: defaultLogLevel,
		Table: TableConfig{
			Decks:       table.DefaultDecks,
			Penetration: table.DefaultPenetration,
			MinBet:      table.DefaultMinBet,
		},
		Bots: []BotConfig{
			{Name: "right", Seat: 1, Strategy: "basic", UseCount: true},
			{Name: "middle", Seat: 2, Strategy: "basic"},
			{Name: "left", Seat: 3, Strategy: "simple"},
		},
	}
	config.applyDefaults()
	return config
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Table.Decks == 0 {
		c.Table.Decks = table.DefaultDecks
	}
	if c.Table.Penetration == 0 {
		c.Table.Penetration = table.DefaultPenetration
	}
	if c.Table.MinBet == 0 {
		c.Table.MinBet = table.DefaultMinBet
	}

	for i := range c.Bots {
		if c.Bots[i].Strategy == "" {
			c.Bots[i].Strategy = defaultStrategy
		}
		if c.Bots[i].ThinkMin == "" {
			c.Bots[i].ThinkMin = bot.DefaultThinkMin.String()
		}
		if c.Bots[i].ThinkMax == "" {
			c.Bots[i].ThinkMax = bot.DefaultThinkMax.String()
		}
		if c.Bots[i].Bankroll == 0 {
			c.Bots[i].Bankroll = defaultBankroll
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	if c.Table.Decks < 1 {
		return fmt.Errorf("table: decks must be positive, got %d", c.Table.Decks)
	}
	if c.Table.Penetration <= 0 || c.Table.Penetration > 1 {
		return fmt.Errorf("table: penetration must be in (0, 1], got %g", c.Table.Penetration)
	}
	if c.Table.MinBet < 1 {
		return fmt.Errorf("table: min bet must be positive, got %d", c.Table.MinBet)
	}

	if len(c.Bots) == 0 {
		return errors.New("at least one bot must be configured")
	}

	seats := make(map[int]string, len(c.Bots))
	for _, b := range c.Bots {
		if b.Seat < 1 {
			return fmt.Errorf("bot %s: seat must be positive, got %d", b.Name, b.Seat)
		}
		if other, taken := seats[b.Seat]; taken {
			return fmt.Errorf("bot %s: seat %d already taken by %s", b.Name, b.Seat, other)
		}
		seats[b.Seat] = b.Name

		if !strategy.Known(b.Strategy) {
			return fmt.Errorf("bot %s: invalid strategy %s", b.Name, b.Strategy)
		}
		lo, hi, err := b.ThinkRange()
		if err != nil {
			return fmt.Errorf("bot %s: %w", b.Name, err)
		}
		if lo > hi {
			return fmt.Errorf("bot %s: think_min %s exceeds think_max %s", b.Name, lo, hi)
		}
		if b.Bankroll <= 0 {
			return fmt.Errorf("bot %s: bankroll must be positive", b.Name)
		}
	}

	// Every seat up to the highest one must be occupied or the table waits on it.
	if c.Seats() != len(c.Bots) {
		return fmt.Errorf("seats must be numbered 1 to %d without gaps", len(c.Bots))
	}
	if need := table.CardsPerGame(c.Seats()); need > c.Table.Decks*deck.CardsPerDeck {
		return fmt.Errorf("table: %d decks cannot cover a game of %d seats, which may use %d cards",
			c.Table.Decks, c.Seats(), need)
	}

	return nil
}

// ThinkRange parses the bot's deliberation bounds
func (b BotConfig) ThinkRange() (time.Duration, time.Duration, error) {
	lo, err := time.ParseDuration(b.ThinkMin)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid think_min: %w", err)
	}
	hi, err := time.ParseDuration(b.ThinkMax)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid think_max: %w", err)
	}
	if lo < 0 || hi < 0 {
		return 0, 0, errors.New("think durations must not be negative")
	}
	return lo, hi, nil
}

// SeatOf returns the bot's seat as a game.Seat
func (b BotConfig) SeatOf() game.Seat {
	return game.Seat(b.Seat)
}

// Seats returns the number of seats needed to host every bot
func (c *Config) Seats() int {
	n := 0
	for _, b := range c.Bots {
		n = max(n, b.Seat)
	}
	return n
}
