package game

import (
	"fmt"

	"github.com/google/uuid"
)

// Seat identifies a position at the table. The dealer always sits at seat 0
// and players occupy seats 1..n.
type Seat int

// Dealer is the dealer's seat.
const Dealer Seat = 0

// String returns a readable seat name
func (s Seat) String() string {
	if s == Dealer {
		return "dealer"
	}
	return fmt.Sprintf("seat-%d", int(s))
}

// Hid identifies one hand. A seat gets a fresh Hid every game.
type Hid struct {
	Seat Seat
	ID   uuid.UUID
}

// NewHid returns a new hand id for the seat
func NewHid(seat Seat) Hid {
	return Hid{Seat: seat, ID: uuid.New()}
}

// IsDealer reports whether the hand is the dealer's
func (h Hid) IsDealer() bool {
	return h.Seat == Dealer
}

// IsZero reports whether the hid is unset
func (h Hid) IsZero() bool {
	return h.ID == uuid.Nil
}

// String returns "seat-1/1b4e28ba"
func (h Hid) String() string {
	return fmt.Sprintf("%s/%s", h.Seat, h.ID.String()[:8])
}
