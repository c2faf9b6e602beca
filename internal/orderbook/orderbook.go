// Package orderbook holds the merge-and-fanout pipeline's core data model:
// a single price level, a per-exchange snapshot of levels, and the
// sort/truncate helpers every adapter and the merger share.
package orderbook

import "sort"

// N is the maximum number of levels kept on each side of a book, and the
// maximum number of levels reported on each side of a Summary.
const N = 10

// Level is one price/amount pair tagged with the exchange it came from.
// Immutable after construction.
type Level struct {
	Exchange string
	Price    float64
	Amount   float64
}

// Book is a snapshot of one exchange's order book: bids sorted descending
// by price, asks sorted ascending, each truncated to N entries. A Book is
// produced once by an adapter and consumed once by the merger.
type Book struct {
	Exchange string
	Bids     []Level
	Asks     []Level
}

// Normalize sorts bids descending and asks ascending by price (stable, so
// ties keep upstream insertion order) and truncates both sides to N. It is
// idempotent, so adapters and the merger can both call it on the same data
// without changing the result.
func Normalize(exchange string, bids, asks []Level) Book {
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })
	sort.SliceStable(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })
	return Book{
		Exchange: exchange,
		Bids:     truncate(bids, N),
		Asks:     truncate(asks, N),
	}
}

func truncate(levels []Level, n int) []Level {
	if len(levels) <= n {
		return levels
	}
	return levels[:n]
}
