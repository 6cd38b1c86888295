package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjackbots/internal/game"
	"github.com/lox/blackjackbots/internal/simulator"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	playStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	cellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

var summaryColumns = []string{"Bot", "Seat", "Strategy", "Count", "Games", "W/L/P", "BJ", "Bust", "Net", "Mean", "95% CI", "Bankroll"}

// renderSummary writes one row per seat, coloring net results by sign
func renderSummary(w io.Writer, results *simulator.Results) {
	rows := [][]string{summaryColumns}
	for _, seat := range results.Seats {
		stats := seat.Stats
		low, high := stats.ConfidenceInterval95()
		rows = append(rows, []string{
			seat.Name,
			seat.Seat.String(),
			seat.Strategy,
			fmt.Sprintf("%t", seat.UseCount),
			fmt.Sprintf("%d", stats.Games),
			fmt.Sprintf("%d/%d/%d", stats.Wins(), stats.Losses(), stats.Count(game.Push)),
			fmt.Sprintf("%d", stats.Count(game.BlackjackWin)),
			fmt.Sprintf("%d", stats.Count(game.Bust)),
			fmt.Sprintf("%+.0f", stats.SumNet),
			fmt.Sprintf("%+.4f", stats.Mean()),
			fmt.Sprintf("[%.3f, %.3f]", low, high),
			fmt.Sprintf("%.0f", seat.FinalBankroll()),
		})
	}

	widths := make([]int, len(summaryColumns))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d games, seed %d, %d shuffles", results.Games, results.Seed, results.Shuffles)))
	for r, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			style := cellStyle.Width(widths[i] + 2)
			switch {
			case r == 0:
				style = style.Inherit(headerStyle)
			case i == netColumn && strings.HasPrefix(cell, "+") && cell != "+0":
				style = style.Inherit(winStyle)
			case i == netColumn && strings.HasPrefix(cell, "-"):
				style = style.Inherit(lossStyle)
			}
			line.WriteString(style.Render(cell))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

const netColumn = 8
