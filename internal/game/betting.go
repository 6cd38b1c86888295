package game

import "fmt"

// Action is a play a seat can make on its turn
type Action int

const (
	Hit Action = iota
	Stay
	DoubleDown
	Split
)

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stay:
		return "stay"
	case DoubleDown:
		return "double-down"
	case Split:
		return "split"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction converts "hit", "stay", "double" and friends into an Action
func ParseAction(s string) (Action, error) {
	switch s {
	case "hit", "h":
		return Hit, nil
	case "stay", "stand", "s":
		return Stay, nil
	case "double", "double-down", "doubledown", "d":
		return DoubleDown, nil
	case "split", "p":
		return Split, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// Outcome is the settled result of a hand
type Outcome int

const (
	Bust Outcome = iota
	Win
	Lose
	Push
	BlackjackWin
	CharlieWin
)

func (o Outcome) String() string {
	return [...]string{"bust", "win", "lose", "push", "blackjack", "charlie"}[o]
}

// Payout returns the net chips won (negative when lost) for a wager.
// Blackjack pays 3:2, rounded down.
func (o Outcome) Payout(wager int) int {
	switch o {
	case Win, CharlieWin:
		return wager
	case BlackjackWin:
		return wager * 3 / 2
	case Push:
		return 0
	default:
		return -wager
	}
}
