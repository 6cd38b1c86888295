package counting

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackbots/internal/deck"
	"github.com/lox/blackjackbots/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounter() *HiLo {
	return NewHiLo(log.New(io.Discard))
}

func dealt(cards string) []game.GameEvent {
	hid := game.NewHid(1)
	var events []game.GameEvent
	for _, card := range deck.MustParseCards(cards) {
		events = append(events, game.NewDealEvent(hid, card, 0))
	}
	return events
}

func feed(c *HiLo, events ...game.GameEvent) {
	for _, e := range events {
		c.OnEvent(e)
	}
}

func TestHiLoCountsFromGameStart(t *testing.T) {
	c := newCounter()
	feed(c, game.NewGameStartEvent(nil, 416))
	feed(c, dealt("2cKs7d")...)

	state := c.State()
	assert.Equal(t, 0, state.RunningCount)
	assert.Equal(t, 0.0, state.TrueCount)
	assert.Equal(t, 1, state.Bet)
	assert.Equal(t, 413, state.CardsInShoe)
	assert.Equal(t, 8, state.DecksInShoe)
}

func TestHiLoTrueCountAndBet(t *testing.T) {
	c := newCounter()
	c.GameStart(104)
	feed(c, dealt("2c3d4h5s6c")...)

	// 99 cards left rounds to 2 decks.
	assert.Equal(t, 5, c.RunningCount())
	assert.Equal(t, 2, c.DecksInShoe())
	assert.InDelta(t, 2.5, c.TrueCount(), 1e-9)
	assert.Equal(t, 4, c.Bet())
}

func TestHiLoNegativeCountKeepsMinimumBet(t *testing.T) {
	c := newCounter()
	c.GameStart(52)
	feed(c, dealt("KsQdAhTc")...)

	assert.Equal(t, -4, c.RunningCount())
	assert.Equal(t, 1, c.DecksInShoe())
	assert.Equal(t, MinBet, c.Bet())
}

func TestHiLoDecksNeverZero(t *testing.T) {
	c := newCounter()
	c.GameStart(10)
	assert.Equal(t, 1, c.DecksInShoe())

	feed(c, dealt("2c3c4c5c6c7c8c9cTcJc2d")...)
	assert.Equal(t, 1, c.DecksInShoe())
	assert.Equal(t, -1, c.State().CardsInShoe)
}

func TestHiLoIgnoresHoleCard(t *testing.T) {
	c := newCounter()
	c.GameStart(208)
	feed(c, game.NewHoleCardEvent(game.NewHid(game.Dealer), 0))

	state := c.State()
	assert.Equal(t, 208, state.CardsInShoe)
	assert.Equal(t, 0, state.RunningCount)
}

func TestHiLoShuffleResetIsDeferred(t *testing.T) {
	c := newCounter()
	c.GameStart(208)
	feed(c, dealt("2c3c")...)
	require.Equal(t, 2, c.RunningCount())

	feed(c, game.NewShuffleEvent())
	assert.True(t, c.State().ShufflePending)
	assert.Equal(t, 2, c.RunningCount(), "shuffle notice does not reset")

	// Cards from the old shoe still count.
	feed(c, dealt("4c")...)
	assert.Equal(t, 3, c.RunningCount())

	c.GameStart(208)
	state := c.State()
	assert.Equal(t, 0, state.RunningCount)
	assert.Equal(t, 0.0, state.TrueCount)
	assert.Equal(t, MinBet, state.Bet)
	assert.False(t, state.ShufflePending)

	// A second game start does not reset again.
	feed(c, dealt("5c")...)
	c.GameStart(207)
	assert.Equal(t, 1, c.RunningCount())
}

func TestHiLoIgnoresOtherEvents(t *testing.T) {
	c := newCounter()
	c.GameStart(208)
	before := c.State()

	hid := game.NewHid(1)
	feed(c,
		game.NewTurnEvent(hid),
		game.NewOutcomeEvent(hid, game.Win, 1),
		game.NewEndGameEvent(200))

	assert.Equal(t, before, c.State())
}

func TestTag(t *testing.T) {
	for cards, want := range map[string]int{
		"2c": 1, "6h": 1, "7d": 0, "9s": 0, "Tc": -1, "Kd": -1, "As": -1,
	} {
		assert.Equal(t, want, Tag(deck.MustParseCard(cards)), cards)
	}
}
