// Package session implements the per-gRPC-call delivery contract: attach
// to the broadcast bus, forward summaries into a small per-client queue,
// and unwind cleanly on client disconnect.
package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/obsrv/orderbook-aggregator/internal/broadcast"
	"github.com/obsrv/orderbook-aggregator/internal/orderbook"
)

// QueueDepth is the per-session delivery queue capacity. Deliberately
// much shallower than the bus's per-subscriber capacity: this hop's
// freshness is enforced by dropping the newest arrival when full (a
// fresher one is already in flight right behind it), the opposite policy
// from the bus's drop-oldest.
const QueueDepth = 10

// Session forwards one subscriber's summaries from the bus to its own
// delivery queue, for the lifetime of one gRPC call.
type Session struct {
	bus   *broadcast.Bus
	peer  string
	log   zerolog.Logger
	queue chan orderbook.Summary
}

// New creates a Session for bus and logs the connect event with the
// peer address. It does not subscribe: the bus subscription is made when
// Forward starts, so summaries published before then are not delivered.
func New(bus *broadcast.Bus, peer string, log zerolog.Logger) *Session {
	log = log.With().Str("peer", peer).Logger()
	log.Info().Msg("subscriber connected")
	return &Session{
		bus:   bus,
		peer:  peer,
		log:   log,
		queue: make(chan orderbook.Summary, QueueDepth),
	}
}

// Queue returns the delivery channel the gRPC handler should stream from.
func (s *Session) Queue() <-chan orderbook.Summary { return s.queue }

// Forward subscribes to the bus and copies summaries into the delivery
// queue until ctx is canceled (client disconnect) or the bus subscription
// is closed. It is meant to run in its own goroutine; Forward itself
// does the unsubscribing and the disconnect log on return.
func (s *Session) Forward(ctx context.Context) {
	recv, unsubscribe := s.bus.Subscribe()
	defer unsubscribe()
	defer close(s.queue)
	defer s.log.Info().Msg("subscriber disconnected")

	for {
		select {
		case <-ctx.Done():
			return
		case summary, open := <-recv.C():
			if !open {
				return
			}
			select {
			case s.queue <- summary:
			default:
				// Client is slow: drop this summary, a fresher one is
				// already queued behind it. No log, avoid spam.
			}
		}
	}
}
