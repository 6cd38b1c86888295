package table

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackbots/internal/deck"
	"github.com/lox/blackjackbots/internal/game"
)

var (
	ErrNoGame           = errors.New("no game in progress")
	ErrGameInProgress   = errors.New("game already in progress")
	ErrUnknownHand      = errors.New("unknown hand")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrSplitUnsupported = errors.New("split is not supported")
)

const (
	DefaultDecks       = 4
	DefaultPenetration = 0.75
	DefaultMinBet      = 1

	// Dealer draws below 17 and stands on every 17, soft or hard.
	dealerStandTotal = 17

	// maxDealerCards is the longest hand the dealer can draw: six aces, a
	// six, four more aces and one last card.
	maxDealerCards = 12
)

// Config configures a Table.
type Config struct {
	Seats       int
	Decks       int
	Penetration float64 // fraction of the shoe dealt before a reshuffle
	MinBet      int
	Rand        *rand.Rand // shuffles a fresh shoe; ignored when Shoe is set
	Shoe        *deck.Shoe
	Bus         game.EventBus
	Logger      *log.Logger
}

// Result is how one seat finished a game.
type Result struct {
	Seat    game.Seat
	Hid     game.Hid
	Hand    game.Hand
	Bet     int
	Doubled bool
	Outcome game.Outcome
	Net     int
}

type player struct {
	hand    game.Hand
	bet     int
	doubled bool
	settled bool
	outcome game.Outcome
	net     int
}

func (p *player) hid() game.Hid { return p.hand.Hid() }

// Table deals blackjack to a fixed number of seats against the house and
// announces everything it does on the event bus. Table is not safe for
// concurrent use; drive it through a Coordinator.
type Table struct {
	shoe        *deck.Shoe
	bus         game.EventBus
	seats       int
	penetration float64
	minBet      int
	logger      *log.Logger

	inGame         bool
	players        []*player
	dealer         game.Hand
	active         int
	shufflePending bool
	games          int
	results        []Result
}

// NewTable creates a table with a shuffled shoe
func NewTable(cfg Config) *Table {
	if cfg.Seats < 1 {
		cfg.Seats = 1
	}
	if cfg.Decks < 1 {
		cfg.Decks = DefaultDecks
	}
	if cfg.Penetration <= 0 || cfg.Penetration > 1 {
		cfg.Penetration = DefaultPenetration
	}
	if cfg.MinBet < 1 {
		cfg.MinBet = DefaultMinBet
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Bus == nil {
		cfg.Bus = game.NewEventBus()
	}
	if cfg.Shoe == nil {
		rng := cfg.Rand
		if rng == nil {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		cfg.Shoe = deck.NewShoe(cfg.Decks, rng)
	}

	return &Table{
		shoe:        cfg.Shoe,
		bus:         cfg.Bus,
		seats:       cfg.Seats,
		penetration: cfg.Penetration,
		minBet:      cfg.MinBet,
		logger:      cfg.Logger.WithPrefix("table"),
		active:      -1,
	}
}

// Bus returns the table's event bus
func (t *Table) Bus() game.EventBus { return t.bus }

// Seats returns the number of player seats
func (t *Table) Seats() int { return t.seats }

// Games returns the number of games dealt
func (t *Table) Games() int { return t.games }

// InGame reports whether a game is being played
func (t *Table) InGame() bool { return t.inGame }

// ShoeSize returns the number of undealt cards
func (t *Table) ShoeSize() int { return t.shoe.Remaining() }

// Results returns the per-seat results of the last completed game. It must
// not be called while Apply is running.
func (t *Table) Results() []Result {
	out := make([]Result, len(t.results))
	copy(out, t.results)
	return out
}

// Apply implements Applier.
func (t *Table) Apply(cmd Command) error {
	if cmd.Op == OpStartGame {
		return t.startGame(cmd.Bets)
	}

	p, err := t.turnFor(cmd.Hid)
	if err != nil {
		return err
	}

	t.logger.Debug("Player acts", "agent", cmd.Agent, "hid", cmd.Hid, "op", cmd.Op, "hand", p.hand)

	switch cmd.Op {
	case OpHit:
		return t.hit(p)
	case OpStay:
		return t.advance()
	case OpDoubleDown:
		return t.doubleDown(p)
	case OpSplit:
		return ErrSplitUnsupported
	default:
		return fmt.Errorf("unsupported op %s", cmd.Op)
	}
}

func (t *Table) turnFor(hid game.Hid) (*player, error) {
	if !t.inGame {
		return nil, ErrNoGame
	}

	var current *player
	if t.active >= 0 && t.active < len(t.players) {
		current = t.players[t.active]
	}
	if current != nil && current.hid() == hid {
		return current, nil
	}

	for _, p := range t.players {
		if p.hid() == hid {
			return nil, fmt.Errorf("%w: %s", ErrNotYourTurn, hid)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownHand, hid)
}

func (t *Table) startGame(bets map[game.Seat]int) error {
	if t.inGame {
		return ErrGameInProgress
	}

	if !t.shufflePending && t.shoe.Remaining() < CardsPerGame(t.seats) {
		// Short shoe without a prior notice; announce it so counters reset.
		t.shufflePending = true
		t.bus.Publish(game.NewShuffleEvent())
	}
	if t.shufflePending {
		t.shoe.Shuffle()
		t.shufflePending = false
		t.logger.Debug("Shoe shuffled", "size", t.shoe.Remaining())
	}

	t.games++
	t.inGame = true
	t.active = -1
	t.results = nil
	t.dealer = game.NewHand(game.NewHid(game.Dealer))
	t.players = make([]*player, 0, t.seats)

	hids := make([]game.Hid, 0, t.seats+1)
	for i := 1; i <= t.seats; i++ {
		seat := game.Seat(i)
		bet := bets[seat]
		if bet < t.minBet {
			bet = t.minBet
		}
		p := &player{hand: game.NewHand(game.NewHid(seat)), bet: bet}
		t.players = append(t.players, p)
		hids = append(hids, p.hid())
	}
	hids = append(hids, t.dealer.Hid())

	t.logger.Debug("Game starting", "game", t.games, "seats", t.seats, "shoeSize", t.shoe.Remaining())
	t.bus.Publish(game.NewGameStartEvent(hids, t.shoe.Remaining()))

	// Player, dealer hole, player, dealer up.
	for _, p := range t.players {
		if err := t.dealPlayer(p); err != nil {
			return err
		}
	}
	if err := t.dealDealer(false); err != nil {
		return err
	}
	for _, p := range t.players {
		if err := t.dealPlayer(p); err != nil {
			return err
		}
	}
	if err := t.dealDealer(true); err != nil {
		return err
	}

	if t.dealer.IsBlackjack() {
		t.revealHole()
		for _, p := range t.players {
			if p.hand.IsBlackjack() {
				t.settle(p, game.Push)
			} else {
				t.settle(p, game.Lose)
			}
		}
		t.finish()
		return nil
	}

	for _, p := range t.players {
		if p.hand.IsBlackjack() {
			t.settle(p, game.BlackjackWin)
		}
	}
	return t.advance()
}

// CardsPerGame is the most cards one game at a table of the given size can
// use. A player's hand ends at CharlieSize cards.
func CardsPerGame(seats int) int {
	return seats*game.CharlieSize + maxDealerCards
}

// draw deals the next card. A game never starts with fewer than
// CardsPerGame cards, so the shoe is never reshuffled under cards in play.
func (t *Table) draw() (deck.Card, error) {
	card, err := t.shoe.Deal()
	if err != nil {
		return deck.Card{}, fmt.Errorf("draw: %w", err)
	}
	return card, nil
}

func (t *Table) dealPlayer(p *player) error {
	card, err := t.draw()
	if err != nil {
		return err
	}
	p.hand.Hit(card)
	t.bus.Publish(game.NewDealEvent(p.hid(), card, p.hand.Value()))
	return nil
}

// dealDealer deals the dealer a card. The hole card is announced without
// its face until revealHole.
func (t *Table) dealDealer(faceUp bool) error {
	card, err := t.draw()
	if err != nil {
		return err
	}
	t.dealer.Hit(card)
	if !faceUp {
		t.bus.Publish(game.NewHoleCardEvent(t.dealer.Hid(), 0))
		return nil
	}
	t.bus.Publish(game.NewDealEvent(t.dealer.Hid(), card, t.upCardValue()))
	return nil
}

func (t *Table) upCardValue() int {
	return game.NewHandOf(t.dealer.Hid(), t.dealer.Card(1)).Value()
}

func (t *Table) revealHole() {
	t.bus.Publish(game.NewDealEvent(t.dealer.Hid(), t.dealer.Card(0), t.dealer.Value()))
}

func (t *Table) hit(p *player) error {
	if err := t.dealPlayer(p); err != nil {
		return err
	}

	switch {
	case p.hand.IsBroke():
		t.settle(p, game.Bust)
	case p.hand.IsCharlie():
		t.settle(p, game.CharlieWin)
	case p.hand.Value() < game.Blackjack:
		// Still this player's turn.
		return nil
	}
	return t.advance()
}

func (t *Table) doubleDown(p *player) error {
	p.bet *= 2
	p.doubled = true
	if err := t.dealPlayer(p); err != nil {
		return err
	}
	if p.hand.IsBroke() {
		t.settle(p, game.Bust)
	}
	return t.advance()
}

// advance moves the turn to the next seat that still has to act. After the
// last seat the dealer plays out the game.
func (t *Table) advance() error {
	for t.active+1 < len(t.players) {
		t.active++
		p := t.players[t.active]
		if p.settled || p.hand.IsFinished() {
			continue
		}
		t.bus.Publish(game.NewTurnEvent(p.hid()))
		return nil
	}

	t.active = len(t.players)
	return t.playDealer()
}

func (t *Table) playDealer() error {
	t.revealHole()

	live := false
	for _, p := range t.players {
		if !p.settled {
			live = true
			break
		}
	}

	for live && t.dealer.Value() < dealerStandTotal {
		card, err := t.draw()
		if err != nil {
			return err
		}
		t.dealer.Hit(card)
		t.bus.Publish(game.NewDealEvent(t.dealer.Hid(), card, t.dealer.Value()))
	}

	dealerTotal := t.dealer.Value()
	for _, p := range t.players {
		if p.settled {
			continue
		}
		total := p.hand.Value()
		switch {
		case t.dealer.IsBroke() || total > dealerTotal:
			t.settle(p, game.Win)
		case total < dealerTotal:
			t.settle(p, game.Lose)
		default:
			t.settle(p, game.Push)
		}
	}

	t.logger.Debug("Dealer finished", "hand", t.dealer)
	t.finish()
	return nil
}

func (t *Table) settle(p *player, outcome game.Outcome) {
	p.settled = true
	p.outcome = outcome
	p.net = outcome.Payout(p.bet)
	t.bus.Publish(game.NewOutcomeEvent(p.hid(), outcome, p.net))
}

func (t *Table) finish() {
	t.results = make([]Result, 0, len(t.players))
	for _, p := range t.players {
		t.results = append(t.results, Result{
			Seat:    p.hid().Seat,
			Hid:     p.hid(),
			Hand:    p.hand.Clone(),
			Bet:     p.bet,
			Doubled: p.doubled,
			Outcome: p.outcome,
			Net:     p.net,
		})
	}
	t.inGame = false
	t.active = -1

	// EndGame is the last event of a game, so anyone waiting on it already
	// knows whether the next game starts from a fresh shoe.
	if t.shoe.NeedsShuffle(t.penetration) || t.shoe.Remaining() < CardsPerGame(t.seats) {
		t.shufflePending = true
		t.bus.Publish(game.NewShuffleEvent())
	}

	t.bus.Publish(game.NewEndGameEvent(t.shoe.Remaining()))
}

// DealerHand returns a copy of the dealer's hand
func (t *Table) DealerHand() game.Hand {
	return t.dealer.Clone()
}
