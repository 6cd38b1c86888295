package deck

import (
	"errors"
	rand "math/rand/v2"
)

// CardsPerDeck is the size of a single standard deck.
const CardsPerDeck = 52

// ErrShoeEmpty is returned when dealing from an exhausted shoe.
var ErrShoeEmpty = errors.New("shoe is empty")

// Shoe holds one or more shuffled 52-card decks.
type Shoe struct {
	cards []Card
	decks int
	next  int
	rng   *rand.Rand
}

// NewShoe creates a shuffled shoe of the given number of decks.
func NewShoe(decks int, rng *rand.Rand) *Shoe {
	if decks < 1 {
		decks = 1
	}
	s := &Shoe{
		cards: make([]Card, 0, decks*CardsPerDeck),
		decks: decks,
		rng:   rng,
	}
	for range decks {
		for suit := Clubs; suit <= Spades; suit++ {
			for rank := Ace; rank <= King; rank++ {
				s.cards = append(s.cards, NewCard(rank, suit))
			}
		}
	}
	s.Shuffle()
	return s
}

// NewStackedShoe returns a shoe that deals the given cards in order.
// Useful for deterministic tests.
func NewStackedShoe(cards []Card) *Shoe {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Shoe{cards: stacked, decks: 1}
}

// Shuffle gathers every card back into the shoe and randomizes the order.
// A stacked shoe is only rewound.
func (s *Shoe) Shuffle() {
	s.next = 0
	if s.rng == nil {
		return
	}
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Deal removes and returns the top card from the shoe
func (s *Shoe) Deal() (Card, error) {
	if s.next >= len(s.cards) {
		return Card{}, ErrShoeEmpty
	}
	card := s.cards[s.next]
	s.next++
	return card, nil
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards) - s.next
}

// Size returns the number of cards in a full shoe
func (s *Shoe) Size() int {
	return len(s.cards)
}

// Decks returns the number of decks the shoe was built from
func (s *Shoe) Decks() int {
	return s.decks
}

// NeedsShuffle reports whether the dealt fraction has reached the penetration
// point (0 < penetration <= 1).
func (s *Shoe) NeedsShuffle(penetration float64) bool {
	if len(s.cards) == 0 {
		return true
	}
	return float64(s.next)/float64(len(s.cards)) >= penetration
}
