// Package orderbookpb holds the Go bindings for proto/orderbook/orderbook.proto.
//
// These bindings are hand-authored rather than produced by protoc: no
// code generator is available in this build environment. They follow
// the shape classic protoc-gen-go (API v1) output takes: plain structs
// with `protobuf:` struct tags and the three-method Message interface
// (Reset/String/ProtoMessage), which google.golang.org/protobuf still
// recognizes and wraps via its legacy, reflection-over-struct-tags
// compatibility path, so these types work unmodified with
// google.golang.org/grpc's default codec. See DESIGN.md for the
// reasoning.
package orderbookpb

import "fmt"

// Empty is the BookSummary request message: all configuration (symbol,
// target exchanges) is fixed at process start, so the request carries
// nothing.
type Empty struct{}

func (m *Empty) Reset()         { *m = Empty{} }
func (m *Empty) String() string { return "{}" }
func (*Empty) ProtoMessage()    {}

// Level is one price/amount pair tagged with its originating exchange.
type Level struct {
	Exchange string  `protobuf:"bytes,1,opt,name=exchange,proto3" json:"exchange,omitempty"`
	Price    float64 `protobuf:"fixed64,2,opt,name=price,proto3" json:"price,omitempty"`
	Amount   float64 `protobuf:"fixed64,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *Level) Reset()         { *m = Level{} }
func (m *Level) String() string { return fmt.Sprintf("%+v", *m) }
func (*Level) ProtoMessage()    {}

func (m *Level) GetExchange() string {
	if m != nil {
		return m.Exchange
	}
	return ""
}

func (m *Level) GetPrice() float64 {
	if m != nil {
		return m.Price
	}
	return 0
}

func (m *Level) GetAmount() float64 {
	if m != nil {
		return m.Amount
	}
	return 0
}

// Summary is the merged top-N view: the best bids/asks across every
// known exchange and the spread between them.
type Summary struct {
	Spread float64  `protobuf:"fixed64,1,opt,name=spread,proto3" json:"spread,omitempty"`
	Bids   []*Level `protobuf:"bytes,2,rep,name=bids,proto3" json:"bids,omitempty"`
	Asks   []*Level `protobuf:"bytes,3,rep,name=asks,proto3" json:"asks,omitempty"`
}

func (m *Summary) Reset()         { *m = Summary{} }
func (m *Summary) String() string { return fmt.Sprintf("%+v", *m) }
func (*Summary) ProtoMessage()    {}

func (m *Summary) GetSpread() float64 {
	if m != nil {
		return m.Spread
	}
	return 0
}

func (m *Summary) GetBids() []*Level {
	if m != nil {
		return m.Bids
	}
	return nil
}

func (m *Summary) GetAsks() []*Level {
	if m != nil {
		return m.Asks
	}
	return nil
}
