package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackbots/internal/deck"
	"github.com/lox/blackjackbots/internal/game"
	"github.com/lox/blackjackbots/internal/strategy"
)

// AdviseCmd prints the recommended play for one hand
type AdviseCmd struct {
	Hand     string `arg:"" help:"Player cards, e.g. 'AsKd' or '8h8c'"`
	Up       string `short:"u" required:"" help:"Dealer up-card, e.g. '7h'"`
	Strategy string `short:"s" default:"basic" enum:"basic,simple" help:"Strategy to consult (basic or simple)"`
}

func (c *AdviseCmd) Run() error {
	return c.advise(os.Stdout)
}

func (c *AdviseCmd) advise(w io.Writer) error {
	cards, err := deck.ParseCards(c.Hand)
	if err != nil {
		return fmt.Errorf("parsing hand: %w", err)
	}
	up, err := deck.ParseCard(c.Up)
	if err != nil {
		return fmt.Errorf("parsing up-card: %w", err)
	}

	advisor := strategy.NewAdvisor(strategy.Resolve(c.Strategy), log.New(io.Discard))
	advice, err := advisor.Advise(game.NewHandOf(game.Hid{}, cards...), &up)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s %s vs %s: %s\n",
		headerStyle.Render(advice.Strategy),
		handStyle.Render(advice.Hand.String()),
		handStyle.Render(advice.UpCard.String()),
		playStyle.Render(advice.Play.String()))
	if advice.Corrected {
		fmt.Fprintf(w, "without splitting: %s\n", playStyle.Render(advice.NoSplit.String()))
	}
	return nil
}
