// Package broadcast implements the single-producer, multi-consumer
// fan-out between the merger and every gRPC subscriber session. Each
// subscriber gets its own bounded queue; a slow subscriber's oldest
// unread summary is dropped in favor of the newest one, since a Summary
// is a snapshot and freshness dominates completeness.
package broadcast

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/obsrv/orderbook-aggregator/internal/orderbook"
)

// Capacity is the number of summaries buffered per subscriber before the
// drop-oldest policy kicks in.
const Capacity = 100

// Receiver is what Subscribe hands back: a read-only view of the
// subscriber's queue. Detaching is done by calling the unsubscribe
// function returned alongside it; the Bus does not detect a Receiver
// that is simply abandoned, and keeps publishing into its queue.
type Receiver struct {
	ch <-chan orderbook.Summary
}

// C returns the channel to range/select over.
func (r Receiver) C() <-chan orderbook.Summary { return r.ch }

// Bus fans out summaries to every currently-attached subscriber.
// Attachment and publishing are synchronized by mu; Publish holds the
// lock for its whole fan-out loop. Sends are non-blocking except on a
// full queue, where one buffered summary is drained and the new one sent.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan orderbook.Summary
	next int
	log  zerolog.Logger
}

// New returns an empty Bus.
func New(log zerolog.Logger) *Bus {
	return &Bus{subs: make(map[int]chan orderbook.Summary), log: log}
}

// Subscribe returns a Receiver that observes every Summary published
// strictly after this call; summaries published before are not replayed.
func (b *Bus) Subscribe() (Receiver, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan orderbook.Summary, Capacity)
	b.subs[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return Receiver{ch: ch}, unsubscribe
}

// Publish delivers summary to every attached subscriber. A full
// subscriber queue has its oldest unread summary dropped to make room
// for the newest: drop-oldest-on-full, per the bus's freshness
// contract (contrast with the per-session hop, which drops the newest).
func (b *Bus) Publish(summary orderbook.Summary) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.subs) == 0 {
		return
	}

	for id, ch := range b.subs {
		select {
		case ch <- summary:
		default:
			// Queue full: drop the oldest buffered summary, then enqueue
			// the new one. mu is held for the whole publish, so nothing
			// else can refill ch between the drain and this send.
			<-ch
			ch <- summary
			b.log.Debug().Int("subscriber", id).Msg("dropped oldest summary, subscriber is slow")
		}
	}
}

// Subscribers reports the current number of attached subscribers.
// Intended for health/metrics reporting, not for control flow.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
