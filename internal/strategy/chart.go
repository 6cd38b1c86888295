package strategy

import (
	"github.com/lox/blackjackbots/internal/deck"
	"github.com/lox/blackjackbots/internal/game"
)

// Basic strategy charts for four decks, dealer stands on soft 17.
// Columns are the dealer up-card: A, 2, 3, 4, 5, 6, 7, 8, 9, 10.

const (
	h = game.Hit
	s = game.Stay
	d = game.DoubleDown
	p = game.Split
)

// upCards is the number of chart columns.
const upCards = 10

// Row bands and the clipping rules that map a hand onto them.
const (
	// Pair rows run A-A through 10-10; any ten-value pair uses the 10-10 row.
	pairFoldRank = 10

	// Soft rows run A-2 through A-8; A-9 and A-10 stand like A-8.
	softKickerFloor   = 2
	softKickerCeiling = 8

	// Low hard rows run 8 through 11; 5, 6 and 7 play like 8.
	lowTotalFloor   = 8
	lowTotalCeiling = 11

	// High hard rows run 12 through 17; 18 to 21 stand like 17.
	highTotalFloor   = 12
	highTotalCeiling = 17
)

type row [upCards]game.Action

var pairChart = [pairFoldRank]row{
	/* A,A   */ {p, p, p, p, p, p, p, p, p, p},
	/* 2,2   */ {h, p, p, p, p, p, p, h, h, h},
	/* 3,3   */ {h, p, p, p, p, p, p, h, h, h},
	/* 4,4   */ {h, h, h, h, p, p, h, h, h, h},
	/* 5,5   */ {h, d, d, d, d, d, d, d, d, h},
	/* 6,6   */ {h, p, p, p, p, p, h, h, h, h},
	/* 7,7   */ {h, p, p, p, p, p, p, h, h, h},
	/* 8,8   */ {p, p, p, p, p, p, p, p, p, p},
	/* 9,9   */ {s, p, p, p, p, p, s, p, p, s},
	/* 10,10 */ {s, s, s, s, s, s, s, s, s, s},
}

var softChart = [softKickerCeiling - softKickerFloor + 1]row{
	/* A,2    */ {h, h, h, h, d, d, h, h, h, h},
	/* A,3    */ {h, h, h, h, d, d, h, h, h, h},
	/* A,4    */ {h, h, h, d, d, d, h, h, h, h},
	/* A,5    */ {h, h, h, d, d, d, h, h, h, h},
	/* A,6    */ {h, h, d, d, d, d, h, h, h, h},
	/* A,7    */ {h, s, d, d, d, d, s, s, h, h},
	/* A,8-10 */ {s, s, s, s, s, s, s, s, s, s},
}

var lowHardChart = [lowTotalCeiling - lowTotalFloor + 1]row{
	/* 5-8 */ {h, h, h, h, h, h, h, h, h, h},
	/* 9   */ {h, h, d, d, d, d, h, h, h, h},
	/* 10  */ {h, d, d, d, d, d, d, d, d, h},
	/* 11  */ {h, d, d, d, d, d, d, d, d, d},
}

var highHardChart = [highTotalCeiling - highTotalFloor + 1]row{
	/* 12  */ {h, h, h, s, s, s, h, h, h, h},
	/* 13  */ {h, s, s, s, s, s, h, h, h, h},
	/* 14  */ {h, s, s, s, s, s, h, h, h, h},
	/* 15  */ {h, s, s, s, s, s, h, h, h, h},
	/* 16  */ {h, s, s, s, s, s, h, h, h, h},
	/* 17+ */ {s, s, s, s, s, s, s, s, s, s},
}

// column maps the dealer up-card to a chart column, Ace first.
func column(up deck.Card) int {
	return up.Value() - 1
}

// foldPairRank maps a pair's rank to its row: A=0 … 10-value=9.
func foldPairRank(r deck.Rank) int {
	v := int(r)
	if v > pairFoldRank {
		v = pairFoldRank
	}
	return v - 1
}

// clipSoftKicker maps the non-Ace card value of a soft two-card hand to its row.
func clipSoftKicker(v int) int {
	v = min(max(v, softKickerFloor), softKickerCeiling)
	return v - softKickerFloor
}

// clampLowTotal maps a total under 12 to its row in the low hard chart.
func clampLowTotal(total int) int {
	total = min(max(total, lowTotalFloor), lowTotalCeiling)
	return total - lowTotalFloor
}

// clampHighTotal maps a total of 12 or more to its row in the high hard chart.
func clampHighTotal(total int) int {
	total = min(max(total, highTotalFloor), highTotalCeiling)
	return total - highTotalFloor
}

// PairPlay looks up the pair chart for a pair of rank r.
func PairPlay(r deck.Rank, up deck.Card) game.Action {
	return pairChart[foldPairRank(r)][column(up)]
}

// SoftPlay looks up the soft chart for an Ace plus a card worth kicker.
func SoftPlay(kicker int, up deck.Card) game.Action {
	return softChart[clipSoftKicker(kicker)][column(up)]
}

// LowHardPlay looks up the low hard chart (totals below 12). Once a third
// card has been drawn doubling is no longer allowed and the play is a hit.
func LowHardPlay(total, cards int, up deck.Card) game.Action {
	play := lowHardChart[clampLowTotal(total)][column(up)]
	if play == game.DoubleDown && cards > 2 {
		return game.Hit
	}
	return play
}

// HighHardPlay looks up the high hard chart (totals of 12 and up).
func HighHardPlay(total int, up deck.Card) game.Action {
	return highHardChart[clampHighTotal(total)][column(up)]
}
