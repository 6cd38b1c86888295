// Package counting tracks the Hi-Lo card count from the table's event feed
// and turns it into a bet recommendation.
package counting

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackbots/internal/deck"
	"github.com/lox/blackjackbots/internal/game"
)

// MinBet is the smallest recommended bet, in units.
const MinBet = 1

// State is a snapshot of the counter.
type State struct {
	RunningCount   int
	CardsInShoe    int
	DecksInShoe    int
	TrueCount      float64
	Bet            int
	ShufflePending bool
}

// HiLo counts cards with the Hi-Lo system: 2 through 6 add one, tens and
// aces subtract one, 7 through 9 are neutral.
//
// A shuffle notice does not reset the count. Cards from the old shoe may
// still be dealt after it, so the reset waits for the next game start.
type HiLo struct {
	mu    sync.Mutex
	state State

	logger *log.Logger
}

// NewHiLo creates a counter with a zero count and minimum bet
func NewHiLo(logger *log.Logger) *HiLo {
	return &HiLo{
		state:  State{DecksInShoe: 1, Bet: MinBet},
		logger: logger.WithPrefix("hilo"),
	}
}

// OnEvent implements game.EventSubscriber
func (c *HiLo) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.GameStartEvent:
		c.GameStart(e.ShoeSize)
	case game.DealEvent:
		c.Deal(e.Card)
	case game.ShuffleEvent:
		c.Shuffle()
	}
}

// GameStart records the shoe size and applies a pending shuffle reset.
func (c *HiLo) GameStart(shoeSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.CardsInShoe = shoeSize
	c.state.DecksInShoe = decksIn(shoeSize)

	if c.state.ShufflePending {
		c.state.ShufflePending = false
		c.state.RunningCount = 0
		c.state.TrueCount = 0
		c.state.Bet = MinBet
		c.logger.Debug("Count reset after shuffle", "shoeSize", shoeSize)
	}
}

// Deal counts a dealt card. A nil card is a face-down card and is ignored
// until it is dealt again face up.
func (c *HiLo) Deal(card *deck.Card) {
	if card == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.CardsInShoe--
	c.state.DecksInShoe = decksIn(c.state.CardsInShoe)
	c.state.RunningCount += Tag(*card)
	c.state.TrueCount = float64(c.state.RunningCount) / float64(c.state.DecksInShoe)
	c.state.Bet = betFor(c.state.TrueCount)

	c.logger.Debug("Counted card",
		"card", card,
		"shoeSize", c.state.CardsInShoe,
		"running", c.state.RunningCount,
		"true", c.state.TrueCount,
		"bet", c.state.Bet)
}

// Shuffle flags a reset for the next game start.
func (c *HiLo) Shuffle() {
	c.mu.Lock()
	c.state.ShufflePending = true
	c.mu.Unlock()
}

// State returns a snapshot of the counter
func (c *HiLo) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RunningCount returns the sum of tags for every card seen since the last reset
func (c *HiLo) RunningCount() int { return c.State().RunningCount }

// TrueCount returns the running count per deck left in the shoe
func (c *HiLo) TrueCount() float64 { return c.State().TrueCount }

// DecksInShoe returns the estimated whole decks left, never less than one
func (c *HiLo) DecksInShoe() int { return c.State().DecksInShoe }

// Bet returns the recommended bet in units
func (c *HiLo) Bet() int { return c.State().Bet }

// Tag returns the Hi-Lo value of a card.
func Tag(card deck.Card) int {
	switch {
	case card.IsAce() || card.IsTenValue():
		return -1
	case card.Rank >= deck.Two && card.Rank <= deck.Six:
		return 1
	default:
		return 0
	}
}

// decksIn estimates whole decks left in the shoe, never less than one.
func decksIn(cards int) int {
	return max(1, int(math.Round(float64(cards)/deck.CardsPerDeck)))
}

func betFor(trueCount float64) int {
	return max(MinBet, int(math.Round(trueCount+1)))
}
