package strategy

import (
	"context"
	"errors"
	"testing"

	"optionbuyer/internal/broker/brokertest"
	"optionbuyer/internal/market"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var testFetcherConfig = FetcherConfig{
	IndexExchange:  "NSE",
	IndexToken:     "26009",
	OptionExchange: "NFO",
	OptionSymbol:   "BANKNIFTY",
	ChainCount:     5,
	StrikeInterval: decimal.NewFromInt(100),
}

type staticPrices map[string]decimal.Decimal

func (s staticPrices) LatestPrice(exchange, token string) (decimal.Decimal, bool) {
	p, ok := s[brokertest.Key(exchange, token)]
	return p, ok
}

// go test -v --run TestFetchSuccess
func TestFetchSuccess(t *testing.T) {
	fake := &brokertest.Fake{
		Quotes: map[string]decimal.Decimal{"NSE|26009": decimal.RequireFromString("48050.35")},
		Chain: []market.OptionContract{
			brokertest.Contract(market.Call, "C48100", "1", 48100, 120),
			brokertest.Contract(market.Put, "P48000", "2", 48000, 110),
			{TradingSymbol: "ODD", OptionType: market.OptionType("XX")},
		},
	}

	snap, err := NewFetcher(fake, testFetcherConfig, nil, zap.NewNop()).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !snap.Price.Equal(decimal.RequireFromString("48050.35")) {
		t.Errorf("price = %s", snap.Price)
	}
	if len(snap.Chain.Calls) != 1 || len(snap.Chain.Puts) != 1 {
		t.Errorf("chain not partitioned: %+v", snap.Chain)
	}
	if snap.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
	// priced chain entries need no extra quotes
	if len(fake.QuoteCalls) != 1 {
		t.Errorf("quote calls = %v; want only the index quote", fake.QuoteCalls)
	}
}

// go test -v --run TestFetchQuoteFailure
func TestFetchQuoteFailure(t *testing.T) {
	fake := &brokertest.Fake{QuoteErr: brokertest.ErrFake}

	_, err := NewFetcher(fake, testFetcherConfig, nil, zap.NewNop()).Fetch(context.Background())
	if !errors.Is(err, ErrDataUnavailable) || !errors.Is(err, brokertest.ErrFake) {
		t.Fatalf("err = %v; want ErrDataUnavailable wrapping the cause", err)
	}
	if fake.ChainCalls != 0 {
		t.Errorf("chain fetched after failed quote")
	}
}

// go test -v --run TestFetchChainFailures
func TestFetchChainFailures(t *testing.T) {
	quotes := map[string]decimal.Decimal{"NSE|26009": decimal.NewFromInt(48050)}

	cases := []struct {
		name string
		fake *brokertest.Fake
	}{
		{"transport error", &brokertest.Fake{Quotes: quotes, ChainErr: brokertest.ErrFake}},
		{"empty values", &brokertest.Fake{Quotes: quotes}},
		{"only unknown types", &brokertest.Fake{Quotes: quotes, Chain: []market.OptionContract{{OptionType: "FUT"}}}},
		{"zero price", &brokertest.Fake{Quotes: map[string]decimal.Decimal{"NSE|26009": decimal.Zero}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewFetcher(c.fake, testFetcherConfig, nil, zap.NewNop()).Fetch(context.Background())
			if !errors.Is(err, ErrDataUnavailable) {
				t.Fatalf("err = %v; want ErrDataUnavailable", err)
			}
		})
	}
}

// go test -v --run TestFetchPricesCandidates
func TestFetchPricesCandidates(t *testing.T) {
	unpriced := func(t market.OptionType, sym, token string, strike int64) market.OptionContract {
		c := brokertest.Contract(t, sym, token, strike, 0)
		c.HasLastPrice = false
		return c
	}

	fake := &brokertest.Fake{
		Quotes: map[string]decimal.Decimal{
			"NSE|26009": decimal.NewFromInt(48030),
			"NFO|1":     decimal.NewFromInt(150),
			"NFO|2":     decimal.NewFromInt(90),
		},
		Chain: []market.OptionContract{
			unpriced(market.Call, "C48100", "1", 48100),
			unpriced(market.Put, "P48000", "2", 48000),
			unpriced(market.Call, "C48200", "3", 48200),
			unpriced(market.Put, "P47900", "4", 47900),
		},
	}

	snap, err := NewFetcher(fake, testFetcherConfig, nil, zap.NewNop()).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	// only the two candidate strikes are quoted
	if len(fake.QuoteCalls) != 3 {
		t.Errorf("quote calls = %v; want index + 2 candidates", fake.QuoteCalls)
	}

	got, err := SelectOption(snap.Price, snap.Chain)
	if err != nil {
		t.Fatalf("SelectOption: %v", err)
	}
	if got.TradingSymbol != "P48000" || !got.LastPrice.Equal(decimal.NewFromInt(90)) {
		t.Errorf("selected %+v; want P48000 at 90", got)
	}

	far, _ := snap.Chain.Find(market.Call, decimal.NewFromInt(48200))
	if far.HasLastPrice {
		t.Error("non-candidate contract should stay unpriced")
	}
}

// go test -v --run TestFetchCandidateQuoteFails
func TestFetchCandidateQuoteFails(t *testing.T) {
	c := brokertest.Contract(market.Call, "C48100", "1", 48100, 0)
	c.HasLastPrice = false

	fake := &brokertest.Fake{
		Quotes: map[string]decimal.Decimal{"NSE|26009": decimal.NewFromInt(48050)},
		Chain:  []market.OptionContract{c, brokertest.Contract(market.Put, "P48000", "2", 48000, 110)},
	}

	snap, err := NewFetcher(fake, testFetcherConfig, nil, zap.NewNop()).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := SelectOption(snap.Price, snap.Chain); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("err = %v; want ErrDataUnavailable for unpriced candidate", err)
	}
}

// go test -v --run TestFetchUsesStreamedPrice
func TestFetchUsesStreamedPrice(t *testing.T) {
	fake := &brokertest.Fake{
		Chain: []market.OptionContract{
			brokertest.Contract(market.Call, "C48100", "1", 48100, 120),
			brokertest.Contract(market.Put, "P48000", "2", 48000, 110),
		},
	}
	prices := staticPrices{"NSE|26009": decimal.NewFromInt(48050)}

	snap, err := NewFetcher(fake, testFetcherConfig, prices, zap.NewNop()).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !snap.Price.Equal(decimal.NewFromInt(48050)) {
		t.Errorf("price = %s; want streamed 48050", snap.Price)
	}
	if len(fake.QuoteCalls) != 0 {
		t.Errorf("REST quotes made despite streamed price: %v", fake.QuoteCalls)
	}
}

// go test -v --run TestFetchFallsBackToREST
func TestFetchFallsBackToREST(t *testing.T) {
	fake := &brokertest.Fake{
		Quotes: map[string]decimal.Decimal{"NSE|26009": decimal.NewFromInt(48050)},
		Chain: []market.OptionContract{
			brokertest.Contract(market.Call, "C48100", "1", 48100, 120),
			brokertest.Contract(market.Put, "P48000", "2", 48000, 110),
		},
	}

	snap, err := NewFetcher(fake, testFetcherConfig, staticPrices{}, zap.NewNop()).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !snap.Price.Equal(decimal.NewFromInt(48050)) || len(fake.QuoteCalls) != 1 {
		t.Errorf("price %s, quote calls %v; want REST fallback", snap.Price, fake.QuoteCalls)
	}
}
