// Package merger owns the single mutable piece of shared state in the
// pipeline: the freshest known order book per exchange. It consumes
// normalized books from the ingress channel and publishes a merged
// top-N Summary to the broadcast bus after every accepted update.
package merger

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/obsrv/orderbook-aggregator/internal/orderbook"
)

// Publisher is the merger's only dependency: something that can accept a
// Summary for fan-out. A no-subscribers publish is never an error, which
// is why Publish itself does not return one.
type Publisher interface {
	Publish(orderbook.Summary)
}

// Merger holds the latest Book per exchange. It is owned exclusively by
// the goroutine that calls Run; no locking is needed because nothing
// else touches state concurrently.
type Merger struct {
	state map[string]orderbook.Book
	log   zerolog.Logger
}

// New returns an empty Merger; state is populated lazily as each
// exchange produces its first book.
func New(log zerolog.Logger) *Merger {
	return &Merger{state: make(map[string]orderbook.Book), log: log}
}

// Run drains ingress until it closes or ctx is canceled, merging and
// publishing on every accepted update. One input produces at most one
// output; the merger never coalesces consecutive updates.
func (m *Merger) Run(ctx context.Context, ingress <-chan orderbook.Book, bus Publisher) {
	for {
		select {
		case <-ctx.Done():
			return
		case ob, open := <-ingress:
			if !open {
				return
			}
			m.accept(ob, bus)
		}
	}
}

// accept is Run's single merge cycle, split out so tests can drive it
// synchronously without goroutines or channels.
func (m *Merger) accept(ob orderbook.Book, bus Publisher) {
	ob = orderbook.Normalize(ob.Exchange, ob.Bids, ob.Asks)
	m.state[ob.Exchange] = ob

	books := m.sortedBooks()
	summary, ok := orderbook.Merge(books)
	if !ok {
		m.log.Debug().Str("exchange", ob.Exchange).Msg("no publish: insufficient book state")
		return
	}

	bus.Publish(summary)
}

// sortedBooks returns the current state's books ordered lexicographically
// by exchange name, so concatenation (and therefore tie-breaking) is
// deterministic across runs.
func (m *Merger) sortedBooks() []orderbook.Book {
	names := make([]string, 0, len(m.state))
	for name := range m.state {
		names = append(names, name)
	}
	sort.Strings(names)

	books := make([]orderbook.Book, len(names))
	for i, name := range names {
		books[i] = m.state[name]
	}
	return books
}
