// Package trader runs the fetch, select and submit polling loop.
package trader

import (
	"context"
	"errors"
	"time"

	"optionbuyer/internal/metrics"
	"optionbuyer/internal/session"
	"optionbuyer/internal/strategy"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const closeTimeout = 5 * time.Second

type Options struct {
	StrikeInterval decimal.Decimal
	PollInterval   time.Duration // 0 polls back to back

	// OnAuthenticated runs once after login, before the first iteration.
	OnAuthenticated func(ctx context.Context)
}

type Trader struct {
	session   *session.Manager
	fetcher   *strategy.Fetcher
	submitter *strategy.Submitter
	opts      Options
	logger    *zap.Logger
}

func New(sess *session.Manager, fetcher *strategy.Fetcher, submitter *strategy.Submitter,
	opts Options, logger *zap.Logger) *Trader {
	if !opts.StrikeInterval.IsPositive() {
		opts.StrikeInterval = strategy.StrikeInterval
	}
	return &Trader{
		session:   sess,
		fetcher:   fetcher,
		submitter: submitter,
		opts:      opts,
		logger:    logger,
	}
}

// Run logs in, polls until ctx is cancelled and logs out once.
// A failed login is returned before any iteration runs.
func (t *Trader) Run(ctx context.Context) error {
	if err := t.session.Open(ctx); err != nil {
		return err
	}
	defer t.close()

	if t.opts.OnAuthenticated != nil {
		t.opts.OnAuthenticated(ctx)
	}

	t.logger.Info("trading loop started", zap.Duration("poll_interval", t.opts.PollInterval))

	var iterations int
	for ctx.Err() == nil {
		t.iterate(ctx)
		iterations++

		if t.opts.PollInterval > 0 {
			timer := time.NewTimer(t.opts.PollInterval)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}

	t.logger.Info("trading loop stopped", zap.Int("iterations", iterations))
	return nil
}

// RunOnce performs a single fetch, select and submit step.
func (t *Trader) RunOnce(ctx context.Context) (*strategy.OrderResult, error) {
	snap, err := t.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	contract, err := strategy.SelectOptionWithInterval(snap.Price, snap.Chain, t.opts.StrikeInterval)
	if err != nil {
		return nil, err
	}

	t.logger.Info("option selected",
		zap.String("price", snap.Price.String()),
		zap.String("type", contract.OptionType.String()),
		zap.String("tsym", contract.TradingSymbol),
		zap.String("strike", contract.StrikePrice.String()),
		zap.String("lp", contract.LastPrice.String()))

	res, err := t.submitter.Submit(ctx, contract)
	if err != nil {
		metrics.Orders.WithLabelValues(contract.OptionType.String(), "rejected").Inc()
		return nil, err
	}
	metrics.Orders.WithLabelValues(contract.OptionType.String(), "placed").Inc()
	return res, nil
}

// iterate runs one step and logs its outcome. No error ends the loop.
func (t *Trader) iterate(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.Iterations.Inc()
		metrics.IterationLatency.Observe(time.Since(start).Seconds())
	}()

	res, err := t.RunOnce(ctx)
	if err == nil {
		t.logger.Info("order placed", zap.String("norenordno", res.OrderNo),
			zap.String("tsym", res.Contract.TradingSymbol))
		return
	}

	switch {
	case ctx.Err() != nil:
		// shutting down mid-iteration
	case errors.Is(err, strategy.ErrDataUnavailable), errors.Is(err, strategy.ErrInvalidPrice):
		metrics.FetchErrors.Inc()
		t.logger.Warn("market data unavailable, skipping iteration", zap.Error(err))
	case errors.Is(err, strategy.ErrStrikeNotFound):
		metrics.StrikeMisses.Inc()
		t.logger.Warn("strike missing from option chain, skipping iteration", zap.Error(err))
	case errors.Is(err, strategy.ErrOrderRejected):
		t.logger.Error("order rejected", zap.Error(err))
	default:
		t.logger.Error("iteration failed", zap.Error(err))
	}
}

func (t *Trader) close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := t.session.Close(ctx); err != nil {
		t.logger.Warn("session close failed", zap.Error(err))
	}
}

