// Package server wires the broadcast bus into the gRPC surface: one
// streaming RPC, BookSummary, backed by a per-call session.
package server

import (
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/reflection"

	"github.com/obsrv/orderbook-aggregator/internal/broadcast"
	"github.com/obsrv/orderbook-aggregator/internal/orderbook"
	"github.com/obsrv/orderbook-aggregator/internal/session"
	"github.com/obsrv/orderbook-aggregator/orderbookpb"
)

// Facade implements orderbookpb.OrderbookAggregatorServer over a
// broadcast.Bus.
type Facade struct {
	orderbookpb.UnimplementedOrderbookAggregatorServer
	bus *broadcast.Bus
	log zerolog.Logger
}

// NewFacade binds a gRPC service facade to bus.
func NewFacade(bus *broadcast.Bus, log zerolog.Logger) *Facade {
	return &Facade{bus: bus, log: log}
}

// BookSummary streams merged summaries to one client for the lifetime of
// the call: subscribe, forward, and clean up on disconnect.
func (f *Facade) BookSummary(_ *orderbookpb.Empty, stream orderbookpb.OrderbookAggregator_BookSummaryServer) error {
	ctx := stream.Context()
	peerAddr := "unknown"
	if p, ok := peer.FromContext(ctx); ok {
		peerAddr = p.Addr.String()
	}

	sess := session.New(f.bus, peerAddr, f.log)
	go sess.Forward(ctx)

	for summary := range sess.Queue() {
		if err := stream.Send(toProto(summary)); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func toProto(s orderbook.Summary) *orderbookpb.Summary {
	return &orderbookpb.Summary{
		Spread: s.Spread,
		Bids:   toProtoLevels(s.Bids),
		Asks:   toProtoLevels(s.Asks),
	}
}

func toProtoLevels(levels []orderbook.Level) []*orderbookpb.Level {
	out := make([]*orderbookpb.Level, len(levels))
	for i, l := range levels {
		out[i] = &orderbookpb.Level{Exchange: l.Exchange, Price: l.Price, Amount: l.Amount}
	}
	return out
}

// New builds a *grpc.Server with the facade, standard gRPC health
// checking, and server reflection registered, the ambient additions any
// internal gRPC service carries regardless of the core streaming
// contract.
func New(bus *broadcast.Bus, log zerolog.Logger) *grpc.Server {
	srv := grpc.NewServer()

	orderbookpb.RegisterOrderbookAggregatorServer(srv, NewFacade(bus, log))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("orderbook.OrderbookAggregator", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)

	reflection.Register(srv)

	return srv
}
