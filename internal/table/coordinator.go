// Package table runs a blackjack table. The Coordinator serializes every
// state change through one goroutine; Table is the dealer applying them.
package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackbots/internal/game"
)

// ErrStopped is returned for requests made after the coordinator loop exits.
var ErrStopped = errors.New("coordinator stopped")

// Op is a table command kind
type Op int

const (
	OpStartGame Op = iota
	OpHit
	OpStay
	OpDoubleDown
	OpSplit
)

func (o Op) String() string {
	switch o {
	case OpStartGame:
		return "start-game"
	case OpHit:
		return "hit"
	case OpStay:
		return "stay"
	case OpDoubleDown:
		return "double-down"
	case OpSplit:
		return "split"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Command is one request against table state.
type Command struct {
	Op    Op
	Agent string
	Hid   game.Hid
	Bets  map[game.Seat]int // OpStartGame only
}

// Applier mutates table state. Apply is only ever called from the
// coordinator goroutine.
type Applier interface {
	Apply(cmd Command) error
}

type request struct {
	cmd   Command
	reply chan error
}

// Coordinator owns an Applier and applies commands one at a time, in the
// order they are received. Callers on any goroutine submit through it and
// wait for the result.
type Coordinator struct {
	applier  Applier
	requests chan request
	done     chan struct{}
	logger   *log.Logger
}

// NewCoordinator creates a coordinator for applier. Nothing is applied
// until Run is called.
func NewCoordinator(applier Applier, logger *log.Logger) *Coordinator {
	return &Coordinator{
		applier:  applier,
		requests: make(chan request),
		done:     make(chan struct{}),
		logger:   logger.WithPrefix("coordinator"),
	}
}

// Run applies commands until ctx is cancelled. It must be called once.
func (c *Coordinator) Run(ctx context.Context) error {
	defer close(c.done)

	c.logger.Debug("Coordinator started")
	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("Coordinator stopped")
			return nil
		case req := <-c.requests:
			err := c.applier.Apply(req.cmd)
			if err != nil {
				c.logger.Debug("Command rejected", "op", req.cmd.Op, "agent", req.cmd.Agent, "hid", req.cmd.Hid, "error", err)
			}
			req.reply <- err
		}
	}
}

// Done is closed once Run has returned
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// StartGame deals a new game with the given per-seat bets
func (c *Coordinator) StartGame(ctx context.Context, bets map[game.Seat]int) error {
	return c.submit(ctx, Command{Op: OpStartGame, Agent: "dealer", Bets: bets})
}

// Hit asks for one more card on hid
func (c *Coordinator) Hit(ctx context.Context, agent string, hid game.Hid) error {
	return c.submit(ctx, Command{Op: OpHit, Agent: agent, Hid: hid})
}

// Stay ends the turn for hid
func (c *Coordinator) Stay(ctx context.Context, agent string, hid game.Hid) error {
	return c.submit(ctx, Command{Op: OpStay, Agent: agent, Hid: hid})
}

// DoubleDown doubles the bet on hid and takes exactly one card
func (c *Coordinator) DoubleDown(ctx context.Context, agent string, hid game.Hid) error {
	return c.submit(ctx, Command{Op: OpDoubleDown, Agent: agent, Hid: hid})
}

// Split asks to split hid
func (c *Coordinator) Split(ctx context.Context, agent string, hid game.Hid) error {
	return c.submit(ctx, Command{Op: OpSplit, Agent: agent, Hid: hid})
}

// submit hands cmd to the owner goroutine. A command that has been accepted
// is applied in full even if ctx is cancelled while waiting for the reply.
func (c *Coordinator) submit(ctx context.Context, cmd Command) error {
	req := request{cmd: cmd, reply: make(chan error, 1)}

	select {
	case c.requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrStopped
	}

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		select {
		case err := <-req.reply:
			return err
		default:
			return ErrStopped
		}
	}
}
