package broker

import (
	"context"
	"fmt"
	"strconv"

	"optionbuyer/internal/market"
	"optionbuyer/pkg/shoonya"

	"github.com/shopspring/decimal"
)

var _ Broker = (*Shoonya)(nil)

// Shoonya adapts the NorenAPI REST client to the Broker interface.
type Shoonya struct {
	client *shoonya.RESTClient
}

func NewShoonya(client *shoonya.RESTClient) *Shoonya {
	return &Shoonya{client: client}
}

func (s *Shoonya) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	req := shoonya.NewLoginRequest(creds.UserID, creds.Password, creds.Factor2,
		creds.VendorCode, creds.APIKey, creds.IMEI)

	resp, err := s.client.QuickAuth(ctx, req)
	if err != nil {
		return nil, err
	}
	_, accountID, _ := s.client.Session()
	return &LoginResult{UserName: resp.UserName, AccountID: accountID}, nil
}

func (s *Shoonya) GetQuote(ctx context.Context, exchange, token string) (*Quote, error) {
	resp, err := s.client.GetQuotes(ctx, exchange, token)
	if err != nil {
		return nil, err
	}
	if resp.LastPrice == "" {
		return nil, fmt.Errorf("%s|%s: %w", exchange, token, ErrNoLastPrice)
	}
	lp, err := decimal.NewFromString(resp.LastPrice)
	if err != nil {
		return nil, fmt.Errorf("%s|%s: parse lp %q: %w", exchange, token, resp.LastPrice, ErrNoLastPrice)
	}
	return &Quote{Exchange: exchange, Token: token, LastPrice: lp}, nil
}

// GetOptionChain converts the raw chain window. Rows with an unknown type tag
// or an unparsable strike are skipped.
func (s *Shoonya) GetOptionChain(ctx context.Context, exchange, symbol string, strike decimal.Decimal,
	count int) ([]market.OptionContract, error) {
	resp, err := s.client.GetOptionChain(ctx, exchange, symbol, strike.String(), count)
	if err != nil {
		return nil, err
	}

	out := make([]market.OptionContract, 0, len(resp.Values))
	for _, v := range resp.Values {
		optType, ok := market.ParseOptionType(v.OptionType)
		if !ok {
			continue
		}
		strikePrice, err := decimal.NewFromString(v.StrikePrice)
		if err != nil {
			continue
		}

		contract := market.OptionContract{
			Exchange:      v.Exchange,
			TradingSymbol: v.TradingSymbol,
			Token:         v.Token,
			StrikePrice:   strikePrice,
			OptionType:    optType,
		}
		if v.LastPrice != "" {
			if lp, err := decimal.NewFromString(v.LastPrice); err == nil {
				contract.LastPrice = lp
				contract.HasLastPrice = true
			}
		}
		out = append(out, contract)
	}
	return out, nil
}

func (s *Shoonya) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	resp, err := s.client.PlaceOrder(ctx, shoonya.PlaceOrderRequest{
		TransactionType:   req.Side,
		Product:           req.Product,
		Exchange:          req.Exchange,
		TradingSymbol:     req.TradingSymbol,
		Quantity:          strconv.Itoa(req.Quantity),
		DisclosedQuantity: strconv.Itoa(req.DisclosedQuantity),
		PriceType:         req.PriceType,
		Price:             req.Price.String(),
		Retention:         req.Retention,
		Remarks:           req.Remarks,
	})
	if err != nil {
		return nil, err
	}
	return &OrderResponse{OrderNo: resp.OrderNo}, nil
}

func (s *Shoonya) Logout(ctx context.Context) error {
	_, err := s.client.Logout(ctx)
	return err
}
