package orderbook

import "testing"

func lvl(ex string, price, amount float64) Level {
	return Level{Exchange: ex, Price: price, Amount: amount}
}

func TestNormalizeSortsAndTruncates(t *testing.T) {
	bids := []Level{lvl("binance", 99, 1), lvl("binance", 100, 1), lvl("binance", 98, 1)}
	asks := []Level{lvl("binance", 102, 1), lvl("binance", 101, 1)}

	book := Normalize("binance", bids, asks)

	want := []float64{100, 99, 98}
	for i, l := range book.Bids {
		if l.Price != want[i] {
			t.Fatalf("bid %d: got %v want %v", i, l.Price, want[i])
		}
	}
	if book.Asks[0].Price != 101 || book.Asks[1].Price != 102 {
		t.Fatalf("asks not ascending: %+v", book.Asks)
	}
}

func TestNormalizeTruncatesToN(t *testing.T) {
	var bids []Level
	for i := 0; i < 12; i++ {
		bids = append(bids, lvl("binance", float64(100-i), 1))
	}
	book := Normalize("binance", bids, nil)
	if len(book.Bids) != N {
		t.Fatalf("expected %d bids, got %d", N, len(book.Bids))
	}
	if book.Bids[N-1].Price != float64(100-(N-1)) {
		t.Fatalf("lowest-priority bid not dropped correctly: %+v", book.Bids[N-1])
	}
}

func TestNormalizeStableTieBreak(t *testing.T) {
	bids := []Level{lvl("binance", 100, 1), lvl("bitstamp", 100, 2)}
	book := Normalize("", bids, nil)
	if book.Bids[0].Exchange != "binance" || book.Bids[1].Exchange != "bitstamp" {
		t.Fatalf("tie-break not stable: %+v", book.Bids)
	}
}

func TestMergeEmptySideSkipsPublish(t *testing.T) {
	books := []Book{{Exchange: "binance", Bids: nil, Asks: []Level{lvl("binance", 101, 1)}}}
	if _, ok := Merge(books); ok {
		t.Fatalf("expected no summary when every book has empty bids")
	}
}

func TestMergeSpreadExactSubtraction(t *testing.T) {
	books := []Book{
		{Exchange: "binance", Bids: []Level{lvl("binance", 105, 1)}, Asks: []Level{lvl("binance", 106, 1)}},
		{Exchange: "bitstamp", Bids: []Level{lvl("bitstamp", 103, 1)}, Asks: []Level{lvl("bitstamp", 104, 1)}},
	}
	s, ok := Merge(books)
	if !ok {
		t.Fatalf("expected a summary")
	}
	if s.Bids[0].Exchange != "binance" || s.Asks[0].Exchange != "bitstamp" {
		t.Fatalf("unexpected top levels: bids[0]=%+v asks[0]=%+v", s.Bids[0], s.Asks[0])
	}
	if s.Spread != -1.0 {
		t.Fatalf("expected negative spread -1.0, got %v", s.Spread)
	}
}
