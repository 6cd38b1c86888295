// Package game holds the blackjack domain model shared by the dealer table,
// the bots and the card counter.
//
// # Hands
//
// A Hand belongs to exactly one Hid for its whole life and only ever grows:
//
//	h := game.NewHand(game.NewHid(1))
//	h.Hit(deck.MustParseCard("As"))
//	h.Hit(deck.MustParseCard("6d"))
//	h.Value()  // 17
//	h.IsSoft() // true
//
// # Events
//
// The table announces everything that happens through an EventBus. Events
// are delivered synchronously and in game order, so subscribers that only
// observe (the card counter) can keep plain fields without locking, while
// subscribers that must act (bots) hand the work to their own goroutine
// before returning.
//
//	bus := game.NewEventBus()
//	bus.Subscribe(counter)
//	bus.Publish(game.NewShuffleEvent())
package game
