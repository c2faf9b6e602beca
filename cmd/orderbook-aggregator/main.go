// Command orderbook-aggregator connects to Binance and Bitstamp's
// streaming order-book feeds for one symbol, merges them into a unified
// top-N view, and streams the result to any number of gRPC subscribers.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/obsrv/orderbook-aggregator/internal/adapter"
	"github.com/obsrv/orderbook-aggregator/internal/broadcast"
	"github.com/obsrv/orderbook-aggregator/internal/config"
	"github.com/obsrv/orderbook-aggregator/internal/merger"
	"github.com/obsrv/orderbook-aggregator/internal/orderbook"
	"github.com/obsrv/orderbook-aggregator/internal/server"
)

// ingressCapacity is the bounded multi-producer/single-consumer queue
// capacity between the adapters and the merger.
const ingressCapacity = 100

func main() {
	app := &cli.App{
		Name:      "orderbook-aggregator",
		Usage:     "merge Binance and Bitstamp order-book depth into one streaming gRPC feed",
		ArgsUsage: "SYMBOL",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "127.0.0.1", Usage: "bind address"},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "bind port"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "trace|debug|info|warn|error"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "orderbook-aggregator:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one positional argument SYMBOL, got %d", c.NArg())
	}

	cfg, err := config.New(c.Args().Get(0), c.String("host"), c.Int("port"), c.String("log-level"))
	if err != nil {
		return err
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(cfg.LogLevel).
		With().Timestamp().Str("symbol", cfg.Symbol).Logger()

	lis, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("bind %s: %w", cfg.Addr(), err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ingress := make(chan orderbook.Book, ingressCapacity)
	bus := broadcast.New(log)
	m := merger.New(log)

	adapters := []adapter.Adapter{adapter.NewBinance(), adapter.NewBitstamp()}
	for _, a := range adapters {
		a := a
		go func() {
			if err := a.Run(ctx, cfg.Symbol, ingress, log); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Str("exchange", a.Name()).Msg("adapter terminated")
			}
		}()
	}

	go m.Run(ctx, ingress, bus)

	grpcServer := server.New(bus, log)
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("serving BookSummary")
		serveErr <- grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		grpcServer.GracefulStop()
		return nil
	case err := <-serveErr:
		return err
	}
}
