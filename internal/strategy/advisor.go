package strategy

import (
	"github.com/charmbracelet/log"
	"github.com/lox/blackjackbots/internal/deck"
	"github.com/lox/blackjackbots/internal/game"
)

// Advice is a recommendation together with the play to fall back on when
// splitting is not available.
type Advice struct {
	Play      game.Action
	NoSplit   game.Action
	Hand      game.Hand
	UpCard    deck.Card
	Strategy  string
	Corrected bool
}

// Advisor wraps a Strategy for callers holding an optional up-card, such as
// a player's table view before the dealer has shown a card.
type Advisor struct {
	strategy Strategy
	logger   *log.Logger
}

// NewAdvisor creates an advisor backed by s
func NewAdvisor(s Strategy, logger *log.Logger) *Advisor {
	return &Advisor{strategy: s, logger: logger.WithPrefix("advisor")}
}

// Advise checks the inputs and returns the recommendation. A nil up-card or
// a hand of fewer than two cards is rejected instead of looked up.
func (a *Advisor) Advise(hand game.Hand, up *deck.Card) (Advice, error) {
	if up == nil {
		return Advice{}, ErrNoUpCard
	}

	play, err := a.strategy.Recommend(hand, *up)
	if err != nil {
		a.logger.Warn("Cannot advise", "hand", hand, "upCard", up, "error", err)
		return Advice{}, err
	}

	noSplit := Correct(play, hand, *up)
	advice := Advice{
		Play:      play,
		NoSplit:   noSplit,
		Hand:      hand,
		UpCard:    *up,
		Strategy:  a.strategy.Name(),
		Corrected: noSplit != play,
	}

	a.logger.Debug("Advice",
		"strategy", advice.Strategy,
		"hand", hand,
		"upCard", up,
		"play", play,
		"noSplit", noSplit)

	return advice, nil
}
