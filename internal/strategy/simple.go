package strategy

import (
	"github.com/lox/blackjackbots/internal/deck"
	"github.com/lox/blackjackbots/internal/game"
)

const (
	simpleStandTotal  = 17
	simpleHitCeiling  = 10
	simpleDoubleTotal = 11
	// A dealer showing 7 through 10 is assumed to make at least 17. Aces count one.
	strongUpCard = 7
)

// Simple is a rule-of-thumb advisor: split aces and eights, stand on 17,
// hit 10 or less, double 11, and otherwise assume a ten under the dealer's
// up-card.
type Simple struct{}

// Name returns "simple"
func (Simple) Name() string { return "simple" }

// Recommend returns the heuristic play
func (Simple) Recommend(hand game.Hand, up deck.Card) (game.Action, error) {
	if err := validate(hand, up); err != nil {
		return 0, err
	}

	total := hand.Value()
	switch {
	case hand.IsPair() && (hand.Card(0).IsAce() || hand.Card(0).Rank == deck.Eight):
		return game.Split, nil
	case total >= simpleStandTotal:
		return game.Stay, nil
	case total <= simpleHitCeiling:
		return game.Hit, nil
	case total == simpleDoubleTotal:
		if hand.Size() == 2 {
			return game.DoubleDown, nil
		}
		return game.Hit, nil
	case up.Value() >= strongUpCard:
		return game.Hit, nil
	default:
		return game.Stay, nil
	}
}
