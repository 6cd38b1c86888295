package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/blackjackbots/internal/deck"
	"github.com/lox/blackjackbots/internal/game"
)

var (
	// ErrIncompleteHand is returned for hands with fewer than two cards;
	// no chart cell exists for them.
	ErrIncompleteHand = errors.New("hand needs at least two cards")
	// ErrNoUpCard is returned when the dealer up-card is missing or unknown.
	ErrNoUpCard = errors.New("no valid dealer up-card")
)

// Strategy recommends a play for a hand against the dealer's up-card.
// Implementations are pure.
type Strategy interface {
	Name() string
	Recommend(hand game.Hand, up deck.Card) (game.Action, error)
}

// Basic plays the four-section basic strategy chart.
type Basic struct{}

// Name returns "basic"
func (Basic) Name() string { return "basic" }

// Recommend returns the chart play for hand against up.
func (Basic) Recommend(hand game.Hand, up deck.Card) (game.Action, error) {
	return Recommend(hand, up)
}

// Recommend looks up the basic strategy play. Sections are tried in order:
// pairs, soft two-card hands, then hard totals below 12 and from 12 up.
func Recommend(hand game.Hand, up deck.Card) (game.Action, error) {
	if err := validate(hand, up); err != nil {
		return 0, err
	}

	if hand.Size() == 2 {
		first, second := hand.Card(0), hand.Card(1)
		if first.Rank == second.Rank {
			return PairPlay(first.Rank, up), nil
		}
		if first.IsAce() != second.IsAce() {
			kicker := second
			if second.IsAce() {
				kicker = first
			}
			return SoftPlay(kicker.Value(), up), nil
		}
	}

	return hardPlay(hand, up), nil
}

// Correct replaces a Split, which an agent barred from splitting cannot
// execute, with the hard-total play for the same hand. Other plays pass through.
func Correct(play game.Action, hand game.Hand, up deck.Card) game.Action {
	if play != game.Split {
		return play
	}
	return hardPlay(hand, up)
}

func hardPlay(hand game.Hand, up deck.Card) game.Action {
	total := hand.Value()
	if total < highTotalFloor {
		return LowHardPlay(total, hand.Size(), up)
	}
	return HighHardPlay(total, up)
}

func validate(hand game.Hand, up deck.Card) error {
	if hand.Size() < 2 {
		return fmt.Errorf("%w: got %d", ErrIncompleteHand, hand.Size())
	}
	if up.Rank < deck.Ace || up.Rank > deck.King {
		return fmt.Errorf("%w: rank %d", ErrNoUpCard, int(up.Rank))
	}
	return nil
}

// Resolve returns the strategy registered under name. Unknown names fall
// back to basic strategy.
func Resolve(name string) Strategy {
	switch strings.ToLower(name) {
	case "simple", "heuristic":
		return Simple{}
	default:
		return Basic{}
	}
}

// Known reports whether name selects a strategy other than the fallback.
func Known(name string) bool {
	switch strings.ToLower(name) {
	case "basic", "chart", "simple", "heuristic":
		return true
	}
	return false
}
