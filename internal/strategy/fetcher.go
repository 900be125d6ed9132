package strategy

import (
	"context"
	"fmt"
	"time"

	"optionbuyer/internal/broker"
	"optionbuyer/internal/market"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceSource supplies streamed last prices. ok is false until a price has arrived.
type PriceSource interface {
	LatestPrice(exchange, token string) (price decimal.Decimal, ok bool)
}

type FetcherConfig struct {
	IndexExchange  string
	IndexToken     string
	OptionExchange string
	OptionSymbol   string
	ChainCount     int
	StrikeInterval decimal.Decimal
}

// Fetcher retrieves the underlying price and the option chain window around it.
// It never retries; every failure is reported as ErrDataUnavailable.
type Fetcher struct {
	broker broker.Broker
	cfg    FetcherConfig
	prices PriceSource
	logger *zap.Logger
	now    func() time.Time
}

// NewFetcher creates a Fetcher. prices may be nil, in which case every price is quoted over REST.
func NewFetcher(b broker.Broker, cfg FetcherConfig, prices PriceSource, logger *zap.Logger) *Fetcher {
	if !cfg.StrikeInterval.IsPositive() {
		cfg.StrikeInterval = StrikeInterval
	}
	return &Fetcher{
		broker: b,
		cfg:    cfg,
		prices: prices,
		logger: logger,
		now:    time.Now,
	}
}

func (f *Fetcher) Fetch(ctx context.Context) (*market.Snapshot, error) {
	price, err := f.underlyingPrice(ctx)
	if err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: non-positive underlying price %s", ErrDataUnavailable, price)
	}

	entries, err := f.broker.GetOptionChain(ctx, f.cfg.OptionExchange, f.cfg.OptionSymbol, price, f.cfg.ChainCount)
	if err != nil {
		return nil, fmt.Errorf("%w: option chain: %w", ErrDataUnavailable, err)
	}

	chain := market.Partition(entries)
	if chain.Len() == 0 {
		return nil, fmt.Errorf("%w: option chain is empty", ErrDataUnavailable)
	}

	f.priceCandidates(ctx, price, &chain)

	return &market.Snapshot{
		Price:     price,
		Chain:     chain,
		FetchedAt: f.now(),
	}, nil
}

func (f *Fetcher) underlyingPrice(ctx context.Context) (decimal.Decimal, error) {
	if f.prices != nil {
		if lp, ok := f.prices.LatestPrice(f.cfg.IndexExchange, f.cfg.IndexToken); ok {
			return lp, nil
		}
		f.logger.Debug("no streamed price yet, quoting over REST",
			zap.String("exchange", f.cfg.IndexExchange), zap.String("token", f.cfg.IndexToken))
	}

	quote, err := f.broker.GetQuote(ctx, f.cfg.IndexExchange, f.cfg.IndexToken)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: quote %s|%s: %w", ErrDataUnavailable,
			f.cfg.IndexExchange, f.cfg.IndexToken, err)
	}
	return quote.LastPrice, nil
}

// priceCandidates fills the last price of the two contracts the selector will
// compare when the chain response did not carry one. A failed quote leaves the
// contract unpriced.
func (f *Fetcher) priceCandidates(ctx context.Context, price decimal.Decimal, chain *market.Chain) {
	callStrike, putStrike := market.NearestStrikes(price, f.cfg.StrikeInterval)

	candidates := []struct {
		optType market.OptionType
		strike  decimal.Decimal
	}{
		{market.Call, callStrike},
		{market.Put, putStrike},
	}

	for _, c := range candidates {
		contract, ok := chain.Find(c.optType, c.strike)
		if !ok || contract.HasLastPrice {
			continue
		}

		lp, err := f.contractPrice(ctx, contract)
		if err != nil {
			f.logger.Warn("failed to quote option contract",
				zap.String("tsym", contract.TradingSymbol), zap.Error(err))
			continue
		}

		chain.Update(c.optType, c.strike, func(oc *market.OptionContract) {
			oc.LastPrice = lp
			oc.HasLastPrice = true
		})
	}
}

func (f *Fetcher) contractPrice(ctx context.Context, contract market.OptionContract) (decimal.Decimal, error) {
	exchange := contract.Exchange
	if exchange == "" {
		exchange = f.cfg.OptionExchange
	}

	if f.prices != nil {
		if lp, ok := f.prices.LatestPrice(exchange, contract.Token); ok {
			return lp, nil
		}
	}

	quote, err := f.broker.GetQuote(ctx, exchange, contract.Token)
	if err != nil {
		return decimal.Zero, err
	}
	return quote.LastPrice, nil
}
