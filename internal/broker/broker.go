// Package broker defines the capabilities the trader needs from a brokerage
// and the Shoonya-backed implementation of them.
package broker

import (
	"context"
	"errors"

	"optionbuyer/internal/market"

	"github.com/shopspring/decimal"
)

// ErrNoLastPrice is returned when a quote arrives without a usable last price.
var ErrNoLastPrice = errors.New("quote has no last price")

// Credentials are the login fields of a broker account.
type Credentials struct {
	UserID     string
	Password   string
	Factor2    string
	VendorCode string
	APIKey     string
	IMEI       string
}

type LoginResult struct {
	UserName  string
	AccountID string
}

type Quote struct {
	Exchange  string
	Token     string
	LastPrice decimal.Decimal
}

type OrderRequest struct {
	Side              string // "B" or "S"
	Product           string
	Exchange          string
	TradingSymbol     string
	Quantity          int
	DisclosedQuantity int
	PriceType         string
	Price             decimal.Decimal
	Retention         string
	Remarks           string
}

type OrderResponse struct {
	OrderNo string
}

// Broker is the remote trading API as seen by the session manager,
// the snapshot fetcher and the order submitter.
type Broker interface {
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)
	GetQuote(ctx context.Context, exchange, token string) (*Quote, error)
	GetOptionChain(ctx context.Context, exchange, symbol string, strike decimal.Decimal, count int) ([]market.OptionContract, error)
	PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error)
	Logout(ctx context.Context) error
}
