package game

import (
	"strconv"
	"strings"

	"github.com/lox/blackjackbots/internal/deck"
)

const (
	// Blackjack is the best total and the bust threshold.
	Blackjack = 21
	// CharlieSize is the card count at which an unbusted hand wins outright.
	CharlieSize = 5

	aceBonus = 10
)

// Hand is an ordered, append-only sequence of cards owned by one Hid.
type Hand struct {
	hid   Hid
	cards []deck.Card
}

// NewHand creates an empty hand for hid
func NewHand(hid Hid) Hand {
	return Hand{hid: hid}
}

// NewHandOf creates a hand holding cards, in order
func NewHandOf(hid Hid, cards ...deck.Card) Hand {
	h := NewHand(hid)
	for _, c := range cards {
		h.Hit(c)
	}
	return h
}

// Hid returns the owning hand id
func (h Hand) Hid() Hid {
	return h.hid
}

// Hit appends a card to the hand
func (h *Hand) Hit(card deck.Card) {
	h.cards = append(h.cards, card)
}

// Size returns the number of cards held
func (h Hand) Size() int {
	return len(h.cards)
}

// Card returns the i-th card dealt
func (h Hand) Card(i int) deck.Card {
	return h.cards[i]
}

// Cards returns a copy of the cards in deal order
func (h Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Clone returns an independent copy of the hand
func (h Hand) Clone() Hand {
	return Hand{hid: h.hid, cards: h.Cards()}
}

// HardValue counts every Ace as 1
func (h Hand) HardValue() int {
	total := 0
	for _, c := range h.cards {
		total += c.Value()
	}
	return total
}

// Value returns the best total: one Ace counts as 11 unless that would bust.
func (h Hand) Value() int {
	hard := h.HardValue()
	if h.HasAce() && hard+aceBonus <= Blackjack {
		return hard + aceBonus
	}
	return hard
}

// IsSoft reports whether an Ace is currently counted as 11
func (h Hand) IsSoft() bool {
	return h.HasAce() && h.HardValue()+aceBonus <= Blackjack
}

// HasAce reports whether any card is an Ace
func (h Hand) HasAce() bool {
	return h.AceCount() > 0
}

// AceCount returns the number of Aces held
func (h Hand) AceCount() int {
	n := 0
	for _, c := range h.cards {
		if c.IsAce() {
			n++
		}
	}
	return n
}

// IsPair reports whether the hand is exactly two cards of equal rank
func (h Hand) IsPair() bool {
	return len(h.cards) == 2 && h.cards[0].Rank == h.cards[1].Rank
}

// IsBroke reports whether the hand has busted
func (h Hand) IsBroke() bool {
	return h.Value() > Blackjack
}

// IsBlackjack reports a two-card 21
func (h Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Value() == Blackjack
}

// IsCharlie reports a hand of CharlieSize or more cards that has not busted
func (h Hand) IsCharlie() bool {
	return len(h.cards) >= CharlieSize && !h.IsBroke()
}

// IsFinished reports whether the hand can take no further cards
func (h Hand) IsFinished() bool {
	return h.IsBroke() || h.Value() == Blackjack || h.IsCharlie()
}

// String returns e.g. "[A♠ 6♦] soft 17"
func (h Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	kind := "hard"
	if h.IsSoft() {
		kind = "soft"
	}
	return "[" + strings.Join(parts, " ") + "] " + kind + " " + strconv.Itoa(h.Value())
}
