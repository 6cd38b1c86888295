// Package bot implements AutoPlayer, a seated player that reacts to the
// table's event feed and plays its hand by strategy, taking its time like a
// person would.
package bot

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjackbots/internal/deck"
	"github.com/lox/blackjackbots/internal/game"
	"github.com/lox/blackjackbots/internal/randutil"
	"github.com/lox/blackjackbots/internal/strategy"
)

// Default bounds of the random delay before each play.
const (
	DefaultThinkMin = 1 * time.Second
	DefaultThinkMax = 3 * time.Second
)

// State is what an AutoPlayer is doing with its current decision.
type State int32

const (
	Idle State = iota
	Thinking
	Committing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Thinking:
		return "thinking"
	case Committing:
		return "committing"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Coordinator accepts plays for a hand. Implementations serialize them
// against table state.
type Coordinator interface {
	Hit(ctx context.Context, agent string, hid game.Hid) error
	Stay(ctx context.Context, agent string, hid game.Hid) error
	DoubleDown(ctx context.Context, agent string, hid game.Hid) error
}

// Config configures an AutoPlayer.
type Config struct {
	Name        string
	Seat        game.Seat
	Strategy    strategy.Strategy // basic strategy when nil
	Coordinator Coordinator
	Clock       quartz.Clock // real clock when nil
	ThinkMin    time.Duration
	ThinkMax    time.Duration
	Rand        *rand.Rand
	Logger      *log.Logger
}

// AutoPlayer plays one seat. OnEvent never blocks: each turn is decided on
// its own goroutine, which waits out a think delay, looks up the play and
// commits it through the Coordinator.
type AutoPlayer struct {
	name     string
	seat     game.Seat
	strategy strategy.Strategy
	coord    Coordinator
	clock    quartz.Clock
	thinkMin time.Duration
	thinkMax time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	rng     *rand.Rand
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
	hid     game.Hid
	hand    game.Hand
	upCard  *deck.Card
	myTurn  bool
	state   State
	task    uint64

	wg      sync.WaitGroup
	commits atomic.Int64
}

// NewAutoPlayer creates a bot for cfg.Seat
func NewAutoPlayer(cfg Config) *AutoPlayer {
	if cfg.Strategy == nil {
		cfg.Strategy = strategy.Basic{}
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Rand == nil {
		cfg.Rand = randutil.New(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Name == "" {
		cfg.Name = cfg.Seat.String()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &AutoPlayer{
		name:     cfg.Name,
		seat:     cfg.Seat,
		strategy: cfg.Strategy,
		coord:    cfg.Coordinator,
		clock:    cfg.Clock,
		thinkMin: cfg.ThinkMin,
		thinkMax: cfg.ThinkMax,
		rng:      cfg.Rand,
		logger:   cfg.Logger.WithPrefix("bot").With("name", cfg.Name, "seat", cfg.Seat),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start binds the bot's decisions to ctx. Cancelling ctx abandons any turn
// still being thought about.
func (b *AutoPlayer) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancel()
	b.ctx, b.cancel = context.WithCancel(ctx)
	b.stopped = false
}

// Stop abandons in-flight decisions and waits for them to finish. No more
// decisions are started afterwards.
func (b *AutoPlayer) Stop() {
	b.mu.Lock()
	b.stopped = true
	b.cancel()
	b.mu.Unlock()

	b.wg.Wait()
}

// Name returns the bot's name, used as its agent name at the table
func (b *AutoPlayer) Name() string { return b.name }

// Seat returns the seat the bot plays
func (b *AutoPlayer) Seat() game.Seat { return b.seat }

// Commits returns how many plays the bot has submitted
func (b *AutoPlayer) Commits() int64 { return b.commits.Load() }

// State returns what the bot is doing with its latest decision
func (b *AutoPlayer) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Hid returns the bot's hand id in the current game
func (b *AutoPlayer) Hid() game.Hid {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hid
}

// Hand returns a copy of the bot's current hand
func (b *AutoPlayer) Hand() game.Hand {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hand.Clone()
}

// UpCard returns the dealer's up-card, or nil before it is dealt
func (b *AutoPlayer) UpCard() *deck.Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.upCard == nil {
		return nil
	}
	up := *b.upCard
	return &up
}

// MyTurn reports whether the table is waiting on this bot
func (b *AutoPlayer) MyTurn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.myTurn
}

// OnEvent implements game.EventSubscriber
func (b *AutoPlayer) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.GameStartEvent:
		b.gameStart(e)
	case game.DealEvent:
		b.deal(e)
	case game.TurnEvent:
		b.turn(e.Hid)
	case game.OutcomeEvent:
		if e.Hid == b.Hid() {
			b.logger.Info("Hand finished", "outcome", e.Outcome, "net", e.Net, "hand", b.Hand())
		}
	case game.EndGameEvent:
		b.logger.Debug("Game over", "shoeSize", e.ShoeSize)
	case game.ShuffleEvent:
		b.logger.Debug("Shuffle announced")
	}
}

func (b *AutoPlayer) gameStart(e game.GameStartEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	hid, ok := e.HidFor(b.seat)
	if !ok {
		b.logger.Warn("No hand for seat this game")
	}
	b.hid = hid
	b.hand = game.NewHand(hid)
	b.upCard = nil
	b.myTurn = false

	b.logger.Debug("Game starting", "hid", hid, "shoeSize", e.ShoeSize)
}

// deal tracks the bot's own cards and the dealer's up-card. A card dealt
// while it is still the bot's turn is the answer to a hit, so it decides
// again unless the hand is finished.
func (b *AutoPlayer) deal(e game.DealEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if e.Card != nil && !b.hid.IsZero() && e.Hid == b.hid {
		b.hand.Hit(*e.Card)
	}

	if e.Hid.IsDealer() && b.upCard == nil {
		if e.Card != nil {
			up := *e.Card
			b.upCard = &up
		}
		return
	}

	if !b.myTurn || e.Hid != b.hid {
		return
	}
	if b.hand.IsFinished() {
		b.logger.Debug("Hand finished, turn over", "hand", b.hand)
		b.myTurn = false
		return
	}
	b.spawnLocked()
}

func (b *AutoPlayer) turn(hid game.Hid) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.myTurn = !b.hid.IsZero() && hid == b.hid
	if !b.myTurn {
		return
	}

	b.logger.Info("Starting turn", "hand", b.hand, "upCard", b.upCard)
	b.spawnLocked()
}

// spawnLocked starts a decision task on a snapshot of the hand. b.mu must
// be held.
func (b *AutoPlayer) spawnLocked() {
	if b.stopped {
		return
	}

	b.task++
	id := b.task
	hand := b.hand.Clone()
	var up *deck.Card
	if b.upCard != nil {
		c := *b.upCard
		up = &c
	}
	delay := randutil.Between(b.rng, b.thinkMin, b.thinkMax)

	b.wg.Add(1)
	go b.decide(b.ctx, id, hand, up, delay)
}

func (b *AutoPlayer) decide(ctx context.Context, id uint64, hand game.Hand, up *deck.Card, delay time.Duration) {
	defer b.wg.Done()

	// The timer exists before the bot reports Thinking.
	var timer *quartz.Timer
	if delay > 0 {
		timer = b.clock.NewTimer(delay, "bot", "think")
		defer timer.Stop()
	}
	b.setState(id, Thinking)

	if timer != nil {
		select {
		case <-ctx.Done():
			b.logger.Debug("Turn abandoned while thinking")
			b.setState(id, Idle)
			return
		case <-timer.C:
		}
	} else if ctx.Err() != nil {
		b.setState(id, Idle)
		return
	}

	if up == nil {
		b.logger.Warn("No dealer up-card, cannot play", "hand", hand)
		b.setState(id, Idle)
		return
	}

	play, err := b.strategy.Recommend(hand, *up)
	if err != nil {
		b.logger.Warn("No play for hand", "hand", hand, "upCard", up, "error", err)
		b.setState(id, Idle)
		return
	}
	if play == game.Split {
		corrected := strategy.Correct(play, hand, *up)
		b.logger.Debug("Split corrected", "hand", hand, "upCard", up, "play", corrected)
		play = corrected
	}

	b.commit(ctx, id, hand, up, play)
}

func (b *AutoPlayer) commit(ctx context.Context, id uint64, hand game.Hand, up *deck.Card, play game.Action) {
	b.mu.Lock()
	if id == b.task {
		b.state = Committing
	}
	// The turn is over once the table accepts either of these.
	if play == game.Stay || play == game.DoubleDown {
		b.myTurn = false
	}
	b.mu.Unlock()

	b.logger.Info("Playing", "play", play, "hand", hand, "upCard", up)

	var err error
	switch play {
	case game.Hit:
		err = b.coord.Hit(ctx, b.name, hand.Hid())
	case game.Stay:
		err = b.coord.Stay(ctx, b.name, hand.Hid())
	case game.DoubleDown:
		err = b.coord.DoubleDown(ctx, b.name, hand.Hid())
	default:
		err = fmt.Errorf("cannot play %s", play)
	}

	if err != nil {
		b.logger.Warn("Play rejected", "play", play, "error", err)
	} else {
		b.commits.Add(1)
	}
	b.setState(id, Idle)
}

// setState records s unless a newer decision task has started.
func (b *AutoPlayer) setState(id uint64, s State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id == b.task {
		b.state = s
	}
}
