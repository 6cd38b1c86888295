package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackbots/internal/simulator"
)

func TestAdviseSplitShowsFallback(t *testing.T) {
	var out bytes.Buffer
	cmd := &AdviseCmd{Hand: "8h8c", Up: "Th", Strategy: "basic"}
	if err := cmd.advise(&out); err != nil {
		t.Fatalf("advise failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "split") {
		t.Fatalf("expected split advice, got %q", got)
	}
	if !strings.Contains(got, "without splitting: hit") {
		t.Fatalf("expected hit fallback, got %q", got)
	}
}

func TestAdviseStay(t *testing.T) {
	var out bytes.Buffer
	cmd := &AdviseCmd{Hand: "Td9c", Up: "7h", Strategy: "simple"}
	if err := cmd.advise(&out); err != nil {
		t.Fatalf("advise failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "stay") || strings.Contains(got, "without splitting") {
		t.Fatalf("expected plain stay advice, got %q", got)
	}
}

func TestAdviseRejectsBadInput(t *testing.T) {
	tests := []AdviseCmd{
		{Hand: "8h8", Up: "Th", Strategy: "basic"},
		{Hand: "8h8c", Up: "1x", Strategy: "basic"},
		{Hand: "8h", Up: "Th", Strategy: "basic"},
	}
	for _, cmd := range tests {
		if err := cmd.advise(io.Discard); err == nil {
			t.Errorf("expected error for hand %q up %q", cmd.Hand, cmd.Up)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	results, err := simulator.RunSimulation(context.Background(), nil, 5, 42, log.New(io.Discard))
	if err != nil {
		t.Fatalf("simulation failed: %v", err)
	}

	var out bytes.Buffer
	renderSummary(&out, results)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	// Title, header and one row per bot.
	if len(lines) != 2+len(results.Seats) {
		t.Fatalf("expected %d lines, got %d:\n%s", 2+len(results.Seats), len(lines), out.String())
	}
	if !strings.Contains(lines[0], "5 games, seed 42") {
		t.Fatalf("unexpected title %q", lines[0])
	}
	for i, seat := range results.Seats {
		if !strings.HasPrefix(strings.TrimSpace(lines[2+i]), seat.Name) {
			t.Errorf("row %d should start with %s: %q", i, seat.Name, lines[2+i])
		}
	}
}
