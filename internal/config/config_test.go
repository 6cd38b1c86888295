package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/blackjackbots/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), config)
	assert.NoError(t, config.Validate())
	assert.Equal(t, 3, config.Seats())
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
table {
  decks = 6
}

bot "solo" {
  seat = 1
}
`)

	config, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 6, config.Table.Decks)
	assert.Equal(t, 0.75, config.Table.Penetration)
	assert.Equal(t, 1, config.Table.MinBet)

	require.Len(t, config.Bots, 1)
	b := config.Bots[0]
	assert.Equal(t, "solo", b.Name)
	assert.Equal(t, game.Seat(1), b.SeatOf())
	assert.Equal(t, "basic", b.Strategy)
	assert.Equal(t, 1000, b.Bankroll)
	assert.False(t, b.UseCount)

	lo, hi, err := b.ThinkRange()
	require.NoError(t, err)
	assert.Equal(t, time.Second, lo)
	assert.Equal(t, 3*time.Second, hi)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"

table {
  decks       = 8
  penetration = 0.5
  min_bet     = 5
  seed        = 42
}

bot "right" {
  seat      = 1
  strategy  = "basic"
  think_min = "250ms"
  think_max = "500ms"
  bankroll  = 200
  use_count = true
}

bot "left" {
  seat     = 2
  strategy = "simple"
}
`)

	config, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, TableConfig{Decks: 8, Penetration: 0.5, MinBet: 5, Seed: 42}, config.Table)
	require.Len(t, config.Bots, 2)

	right := config.Bots[0]
	assert.True(t, right.UseCount)
	assert.Equal(t, 200, right.Bankroll)
	lo, hi, err := right.ThinkRange()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, lo)
	assert.Equal(t, 500*time.Millisecond, hi)

	assert.Equal(t, "simple", config.Bots[1].Strategy)
}

func TestLoadRejectsBadHCL(t *testing.T) {
	_, err := Load(writeConfig(t, `table {`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")

	_, err = Load(writeConfig(t, `bot "nameless" { strategy = "basic" }`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level"},
		{"decks", func(c *Config) { c.Table.Decks = -1 }, "decks must be positive"},
		{"penetration", func(c *Config) { c.Table.Penetration = 1.5 }, "penetration"},
		{"min bet", func(c *Config) { c.Table.MinBet = -2 }, "min bet"},
		{"no bots", func(c *Config) { c.Bots = nil }, "at least one bot"},
		{"seat zero", func(c *Config) { c.Bots[0].Seat = 0 }, "seat must be positive"},
		{"seat taken", func(c *Config) { c.Bots[1].Seat = 1 }, "already taken"},
		{"seat gap", func(c *Config) { c.Bots[2].Seat = 5 }, "without gaps"},
		{"strategy", func(c *Config) { c.Bots[0].Strategy = "martingale" }, "invalid strategy"},
		{"think parse", func(c *Config) { c.Bots[0].ThinkMin = "soon" }, "invalid think_min"},
		{"think order", func(c *Config) { c.Bots[0].ThinkMin = "5s" }, "exceeds think_max"},
		{"bankroll", func(c *Config) { c.Bots[0].Bankroll = -10 }, "bankroll"},
		{"shoe too small", func(c *Config) {
			c.Table.Decks = 1
			for seat := 4; seat <= 9; seat++ {
				c.Bots = append(c.Bots, BotConfig{
					Name: fmt.Sprintf("seat%d", seat), Seat: seat, Strategy: "basic",
					ThinkMin: "1s", ThinkMax: "3s", Bankroll: 1000,
				})
			}
		}, "cannot cover a game of 9 seats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadSampleConfig(t *testing.T) {
	config, err := Load(filepath.Join("..", "..", "blackjack.hcl"))
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Len(t, config.Bots, 3)
	assert.True(t, config.Bots[0].UseCount)
}
