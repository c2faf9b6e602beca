package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/obsrv/orderbook-aggregator/internal/orderbook"
)

const binanceExchange = "binance"

// binanceSource implements source for Binance's partial-depth stream.
// No subscription handshake: the symbol is baked into the URL path and
// Binance pushes a top-10 snapshot every 100ms on its own.
type binanceSource struct{}

func (binanceSource) name() string { return binanceExchange }

func (binanceSource) connect(ctx context.Context, symbol string) (*websocket.Conn, error) {
	url := fmt.Sprintf("wss://stream.binance.com:9443/ws/%s@depth%d@100ms", strings.ToLower(symbol), orderbook.N)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	return conn, err
}

// binanceDepthFrame mirrors the partial-book-depth payload documented in
// spec.md §6: last update id plus top-N bid/ask levels as [price, qty]
// string pairs.
type binanceDepthFrame struct {
	LastUpdateID int64      `json:"lastUpdateId"`
	Bids         [][]string `json:"bids"`
	Asks         [][]string `json:"asks"`
}

func (binanceSource) decode(frame []byte) (orderbook.Book, bool, error) {
	var f binanceDepthFrame
	if err := json.Unmarshal(frame, &f); err != nil {
		return orderbook.Book{}, false, err
	}

	bids, err := parseLevels(binanceExchange, f.Bids)
	if err != nil {
		return orderbook.Book{}, false, err
	}
	asks, err := parseLevels(binanceExchange, f.Asks)
	if err != nil {
		return orderbook.Book{}, false, err
	}

	return orderbook.Normalize(binanceExchange, bids, asks), true, nil
}

// parseLevels parses an exchange's [["px","qty"], ...] wire shape into
// tagged Levels. Shared by both adapters since both exchanges use the
// same textual-pair convention.
func parseLevels(exchange string, raw [][]string) ([]orderbook.Level, error) {
	levels := make([]orderbook.Level, 0, len(raw))
	for _, pair := range raw {
		if len(pair) != 2 {
			return nil, fmt.Errorf("level with %d fields, want 2", len(pair))
		}
		price, err := strconv.ParseFloat(pair[0], 64)
		if err != nil {
			return nil, fmt.Errorf("parse price %q: %w", pair[0], err)
		}
		amount, err := strconv.ParseFloat(pair[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", pair[1], err)
		}
		if price <= 0 || amount <= 0 {
			continue
		}
		levels = append(levels, orderbook.Level{Exchange: exchange, Price: price, Amount: amount})
	}
	return levels, nil
}

// NewBinance returns an adapter Run-able for Binance's depth stream.
func NewBinance() Adapter {
	return Adapter{src: binanceSource{}}
}
