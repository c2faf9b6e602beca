package server

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	"github.com/obsrv/orderbook-aggregator/internal/broadcast"
	"github.com/obsrv/orderbook-aggregator/internal/orderbook"
	"github.com/obsrv/orderbook-aggregator/orderbookpb"
)

// fakeBookSummaryStream is a minimal grpc.ServerStream stand-in so
// Facade.BookSummary can be exercised without a real network transport.
type fakeBookSummaryStream struct {
	ctx context.Context
	out chan *orderbookpb.Summary
}

func (f *fakeBookSummaryStream) Send(s *orderbookpb.Summary) error {
	select {
	case f.out <- s:
		return nil
	case <-f.ctx.Done():
		return f.ctx.Err()
	}
}

func (f *fakeBookSummaryStream) SetHeader(metadata.MD) error  { return nil }
func (f *fakeBookSummaryStream) SendHeader(metadata.MD) error { return nil }
func (f *fakeBookSummaryStream) SetTrailer(metadata.MD)       {}
func (f *fakeBookSummaryStream) Context() context.Context     { return f.ctx }
func (f *fakeBookSummaryStream) SendMsg(m any) error           { return nil }
func (f *fakeBookSummaryStream) RecvMsg(m any) error           { return nil }

func TestBookSummaryStreamsPublishedSummaries(t *testing.T) {
	bus := broadcast.New(zerolog.Nop())
	facade := NewFacade(bus, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	stream := &fakeBookSummaryStream{ctx: ctx, out: make(chan *orderbookpb.Summary, 1)}

	done := make(chan error, 1)
	go func() {
		done <- facade.BookSummary(&orderbookpb.Empty{}, stream)
	}()

	// Give BookSummary a moment to subscribe before publishing.
	time.Sleep(10 * time.Millisecond)
	bus.Publish(orderbook.Summary{
		Spread: 1.0,
		Bids:   []orderbook.Level{{Exchange: "binance", Price: 100, Amount: 1}},
		Asks:   []orderbook.Level{{Exchange: "binance", Price: 101, Amount: 2}},
	})

	select {
	case got := <-stream.out:
		require.Equal(t, 1.0, got.Spread)
		require.Equal(t, "binance", got.Bids[0].Exchange)
	case <-time.After(time.Second):
		t.Fatal("expected a streamed summary")
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("BookSummary did not return after client disconnect")
	}
}
