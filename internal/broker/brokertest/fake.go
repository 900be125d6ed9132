// Package brokertest provides an in-memory Broker for tests.
package brokertest

import (
	"context"
	"errors"
	"sync"

	"optionbuyer/internal/broker"
	"optionbuyer/internal/market"

	"github.com/shopspring/decimal"
)

var ErrFake = errors.New("fake broker failure")

// Fake is a scriptable Broker. Zero-value fields mean "succeed with nothing".
type Fake struct {
	mu sync.Mutex

	LoginErr  error
	LogoutErr error

	// Quotes maps "exchange|token" to a last price.
	Quotes   map[string]decimal.Decimal
	QuoteErr error

	Chain    []market.OptionContract
	ChainErr error

	OrderNo  string
	OrderErr error

	LoginCalls  int
	LogoutCalls int
	QuoteCalls  []string
	ChainCalls  int
	Orders      []broker.OrderRequest
}

var _ broker.Broker = (*Fake)(nil)

func Key(exchange, token string) string {
	return exchange + "|" + token
}

func (f *Fake) Login(_ context.Context, _ broker.Credentials) (*broker.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return &broker.LoginResult{UserName: "TEST", AccountID: "ACC"}, nil
}

func (f *Fake) GetQuote(_ context.Context, exchange, token string) (*broker.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := Key(exchange, token)
	f.QuoteCalls = append(f.QuoteCalls, key)
	if f.QuoteErr != nil {
		return nil, f.QuoteErr
	}
	lp, ok := f.Quotes[key]
	if !ok {
		return nil, broker.ErrNoLastPrice
	}
	return &broker.Quote{Exchange: exchange, Token: token, LastPrice: lp}, nil
}

func (f *Fake) GetOptionChain(_ context.Context, _, _ string, _ decimal.Decimal, _ int) ([]market.OptionContract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ChainCalls++
	if f.ChainErr != nil {
		return nil, f.ChainErr
	}
	out := make([]market.OptionContract, len(f.Chain))
	copy(out, f.Chain)
	return out, nil
}

func (f *Fake) PlaceOrder(_ context.Context, req broker.OrderRequest) (*broker.OrderResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Orders = append(f.Orders, req)
	if f.OrderErr != nil {
		return nil, f.OrderErr
	}
	return &broker.OrderResponse{OrderNo: f.OrderNo}, nil
}

func (f *Fake) Logout(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	return f.LogoutErr
}

// OrderCount returns the number of PlaceOrder calls so far.
func (f *Fake) OrderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Orders)
}

// Contract builds a chain entry for tests.
func Contract(t market.OptionType, symbol, token string, strike, last int64) market.OptionContract {
	return market.OptionContract{
		Exchange:      "NFO",
		TradingSymbol: symbol,
		Token:         token,
		StrikePrice:   decimal.NewFromInt(strike),
		LastPrice:     decimal.NewFromInt(last),
		HasLastPrice:  true,
		OptionType:    t,
	}
}
