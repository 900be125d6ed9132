package strategy

import (
	"context"
	"errors"
	"fmt"

	"optionbuyer/internal/broker"
	"optionbuyer/internal/journal"
	"optionbuyer/internal/market"
	"optionbuyer/pkg/shoonya"

	"go.uber.org/zap"
)

type SubmitterConfig struct {
	Exchange string
	Product  string
	Quantity int
	Remarks  string
}

type OrderResult struct {
	OrderNo  string
	Contract market.OptionContract
}

// Submitter sends one limit buy order per call. It does not retry, verify the fill or track the order.
type Submitter struct {
	broker  broker.Broker
	cfg     SubmitterConfig
	journal journal.Journal
	logger  *zap.Logger
}

// NewSubmitter creates a Submitter; j may be nil to skip journaling.
func NewSubmitter(b broker.Broker, cfg SubmitterConfig, j journal.Journal, logger *zap.Logger) *Submitter {
	if cfg.Quantity <= 0 {
		cfg.Quantity = 1
	}
	if cfg.Product == "" {
		cfg.Product = shoonya.ProductCNC
	}
	return &Submitter{
		broker:  b,
		cfg:     cfg,
		journal: j,
		logger:  logger,
	}
}

// Submit places a BUY LMT DAY order for the contract at its last price.
func (s *Submitter) Submit(ctx context.Context, contract market.OptionContract) (*OrderResult, error) {
	req := broker.OrderRequest{
		Side:              shoonya.TransactionBuy,
		Product:           s.cfg.Product,
		Exchange:          s.cfg.Exchange,
		TradingSymbol:     contract.TradingSymbol,
		Quantity:          s.cfg.Quantity,
		DisclosedQuantity: 0,
		PriceType:         shoonya.PriceTypeLimit,
		Price:             contract.LastPrice,
		Retention:         shoonya.RetentionDay,
		Remarks:           s.cfg.Remarks,
	}

	resp, err := s.broker.PlaceOrder(ctx, req)

	rec := &journal.OrderRecord{
		TradingSymbol: contract.TradingSymbol,
		OptionType:    contract.OptionType.String(),
		Strike:        contract.StrikePrice,
		Price:         contract.LastPrice,
		Quantity:      s.cfg.Quantity,
	}
	if err != nil {
		rec.Status = journal.StatusRejected
		rec.Message = rejectionMessage(err)
	} else {
		rec.Status = journal.StatusPlaced
		rec.BrokerOrderNo = resp.OrderNo
	}
	s.record(ctx, rec)

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOrderRejected, contract.TradingSymbol, err)
	}
	return &OrderResult{OrderNo: resp.OrderNo, Contract: contract}, nil
}

func (s *Submitter) record(ctx context.Context, rec *journal.OrderRecord) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, rec); err != nil {
		s.logger.Warn("failed to journal order", zap.String("tsym", rec.TradingSymbol), zap.Error(err))
	}
}

// rejectionMessage prefers the broker's own message over the wrapped error text.
func rejectionMessage(err error) string {
	var apiErr *shoonya.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
