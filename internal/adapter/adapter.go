// Package adapter connects to one exchange's streaming order-book feed,
// decodes its wire format, normalizes it to the shared orderbook.Book
// representation, and delivers it to a sink channel. It implements the
// capability-set polymorphism described in the design notes: a source
// knows how to connect and how to decode; the read loop itself, ping/
// pong handling, decode-failure recovery, and back-pressured delivery
// are shared by every exchange.
package adapter

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/obsrv/orderbook-aggregator/internal/orderbook"
)

// source is the capability set an exchange adapter must provide. connect
// opens the transport and performs any subscription handshake; decode
// turns one text frame into a normalized Book, or reports that the frame
// carried no book data (e.g. a subscription ack) via ok=false.
type source interface {
	name() string
	connect(ctx context.Context, symbol string) (*websocket.Conn, error)
	decode(frame []byte) (orderbook.Book, bool, error)
}

const readTimeout = 10 * time.Second

// run drives one exchange's read loop until the connection closes, the
// context is canceled, or connect/handshake fails. It delivers every
// successfully decoded Book to sink, suspending on a full sink rather
// than dropping data, per the adapter back-pressure contract.
func run(ctx context.Context, src source, symbol string, sink chan<- orderbook.Book, log zerolog.Logger) error {
	log = log.With().Str("exchange", src.name()).Logger()

	conn, err := src.connect(ctx, symbol)
	if err != nil {
		log.Error().Err(err).Msg("connect failed")
		return err
	}
	defer conn.Close()

	log.Info().Msg("connected")

	// gorilla/websocket answers pings automatically via the default
	// handler, echoing the ping's payload; install our own so the pong
	// carries an explicit empty payload, per the frame contract.
	conn.SetPingHandler(func(string) error {
		return conn.WriteControl(websocket.PongMessage, nil, time.Now().Add(time.Second))
	})

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		msgType, frame, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info().Msg("closed by peer")
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) {
				log.Error().Err(err).Msg("transport read error, continuing")
				continue
			}
			log.Error().Err(err).Msg("transport read error, terminating")
			return err
		}

		switch msgType {
		case websocket.TextMessage:
			book, ok, decErr := src.decode(frame)
			if decErr != nil {
				log.Error().Err(decErr).Msg("decode failed, discarding frame")
				continue
			}
			if !ok {
				continue
			}
			select {
			case sink <- book:
			case <-ctx.Done():
				return ctx.Err()
			}
		case websocket.BinaryMessage:
			// ignore
		}
	}
}

// Adapter wraps one exchange's source capability set into a runnable
// component: one goroutine per Adapter, feeding a shared ingress channel.
type Adapter struct {
	src source
}

// Name returns the adapter's fixed exchange identifier.
func (a Adapter) Name() string { return a.src.name() }

// Run blocks until the upstream connection closes, the context is
// canceled, or connect/handshake fails; the returned error is nil only
// on a clean peer-initiated close. On context cancellation it returns
// ctx.Err().
func (a Adapter) Run(ctx context.Context, symbol string, sink chan<- orderbook.Book, log zerolog.Logger) error {
	return run(ctx, a.src, symbol, sink, log)
}
