package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/obsrv/orderbook-aggregator/internal/orderbook"
)

const (
	bitstampExchange   = "bitstamp"
	bitstampEndpoint   = "wss://ws.bitstamp.net/"
	handshakeTimeout   = 5 * time.Second
	subscribeSucceeded = "bts:subscription_succeeded"
)

// bitstampSource implements source for Bitstamp's live order book channel.
// Unlike Binance, Bitstamp requires an explicit subscribe frame and an
// acknowledgement before any data frames arrive.
type bitstampSource struct{}

func (bitstampSource) name() string { return bitstampExchange }

type bitstampSubscribeFrame struct {
	Event string            `json:"event"`
	Data  map[string]string `json:"data"`
}

type bitstampAckFrame struct {
	Event   string          `json:"event"`
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

func (bitstampSource) connect(ctx context.Context, symbol string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, bitstampEndpoint, nil)
	if err != nil {
		return nil, err
	}

	channel := "order_book_" + strings.ToLower(symbol)
	sub := bitstampSubscribeFrame{Event: "bts:subscribe", Data: map[string]string{"channel": channel}}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send subscribe: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	for {
		var ack bitstampAckFrame
		if err := conn.ReadJSON(&ack); err != nil {
			conn.Close()
			return nil, fmt.Errorf("await subscription ack: %w", err)
		}
		if ack.Event == subscribeSucceeded {
			break
		}
		// Any other event before the ack (e.g. a stray heartbeat) is
		// ignored; the handshake deadline bounds how long we wait.
	}
	_ = conn.SetReadDeadline(time.Time{})

	return conn, nil
}

// bitstampDataFrame mirrors spec.md §6's nested data-event payload.
type bitstampDataFrame struct {
	Event   string `json:"event"`
	Channel string `json:"channel"`
	Data    struct {
		Timestamp string     `json:"timestamp"`
		Bids      [][]string `json:"bids"`
		Asks      [][]string `json:"asks"`
	} `json:"data"`
}

func (bitstampSource) decode(frame []byte) (orderbook.Book, bool, error) {
	var f bitstampDataFrame
	if err := json.Unmarshal(frame, &f); err != nil {
		return orderbook.Book{}, false, err
	}
	if f.Event != "data" {
		// Non-data events (heartbeats, reconnect requests) carry no book.
		return orderbook.Book{}, false, nil
	}

	bids, err := parseLevels(bitstampExchange, f.Data.Bids)
	if err != nil {
		return orderbook.Book{}, false, err
	}
	asks, err := parseLevels(bitstampExchange, f.Data.Asks)
	if err != nil {
		return orderbook.Book{}, false, err
	}

	// f.Data.Timestamp is parsed above but intentionally not carried
	// into the Book: the merger treats every feed as a self-contained
	// snapshot and has no use for per-exchange wall-clock time.
	return orderbook.Normalize(bitstampExchange, bids, asks), true, nil
}

// NewBitstamp returns an adapter Run-able for Bitstamp's live order book.
func NewBitstamp() Adapter {
	return Adapter{src: bitstampSource{}}
}
