package strategy

import (
	"context"
	"errors"
	"testing"

	"optionbuyer/internal/broker/brokertest"
	"optionbuyer/internal/journal"
	"optionbuyer/internal/market"
	"optionbuyer/pkg/shoonya"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var testSubmitterConfig = SubmitterConfig{
	Exchange: "NFO",
	Product:  "C",
	Quantity: 1,
	Remarks:  "Automated trade",
}

// go test -v --run TestSubmitPlacesLimitBuy
func TestSubmitPlacesLimitBuy(t *testing.T) {
	fake := &brokertest.Fake{OrderNo: "24112800012345"}
	j := journal.NewMemoryJournal()
	contract := brokertest.Contract(market.Put, "BANKNIFTY28NOV24P48000", "2", 48000, 110)

	res, err := NewSubmitter(fake, testSubmitterConfig, j, zap.NewNop()).Submit(context.Background(), contract)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.OrderNo != "24112800012345" {
		t.Errorf("order no = %q", res.OrderNo)
	}

	if len(fake.Orders) != 1 {
		t.Fatalf("orders = %d; want 1", len(fake.Orders))
	}
	req := fake.Orders[0]
	if req.Side != "B" || req.PriceType != "LMT" || req.Retention != "DAY" || req.Product != "C" {
		t.Errorf("unexpected order shape: %+v", req)
	}
	if req.Quantity != 1 || req.DisclosedQuantity != 0 || !req.Price.Equal(decimal.NewFromInt(110)) {
		t.Errorf("unexpected quantity/price: %+v", req)
	}
	if req.TradingSymbol != "BANKNIFTY28NOV24P48000" || req.Exchange != "NFO" || req.Remarks != "Automated trade" {
		t.Errorf("unexpected instrument fields: %+v", req)
	}

	records := j.Records()
	if len(records) != 1 || records[0].Status != journal.StatusPlaced || records[0].BrokerOrderNo != "24112800012345" {
		t.Errorf("unexpected journal: %+v", records)
	}
}

// go test -v --run TestSubmitRejected
func TestSubmitRejected(t *testing.T) {
	fake := &brokertest.Fake{OrderErr: &shoonya.APIError{Endpoint: "/PlaceOrder", Stat: "Not_Ok", Message: "RMS:Margin Exceeds"}}
	j := journal.NewMemoryJournal()
	contract := brokertest.Contract(market.Call, "BANKNIFTY28NOV24C48100", "1", 48100, 120)

	_, err := NewSubmitter(fake, testSubmitterConfig, j, zap.NewNop()).Submit(context.Background(), contract)
	if !errors.Is(err, ErrOrderRejected) {
		t.Fatalf("err = %v; want ErrOrderRejected", err)
	}

	var apiErr *shoonya.APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("broker error not wrapped: %v", err)
	}

	// no retry
	if len(fake.Orders) != 1 {
		t.Errorf("orders = %d; want exactly 1 attempt", len(fake.Orders))
	}

	records := j.Records()
	if len(records) != 1 || records[0].Status != journal.StatusRejected || records[0].Message != "RMS:Margin Exceeds" {
		t.Errorf("unexpected journal: %+v", records)
	}
}

type failingJournal struct{}

func (failingJournal) Record(context.Context, *journal.OrderRecord) error {
	return errors.New("disk full")
}

// go test -v --run TestSubmitJournalFailureIsNotFatal
func TestSubmitJournalFailureIsNotFatal(t *testing.T) {
	fake := &brokertest.Fake{OrderNo: "1"}
	contract := brokertest.Contract(market.Call, "C", "1", 48100, 120)

	if _, err := NewSubmitter(fake, testSubmitterConfig, failingJournal{}, zap.NewNop()).Submit(context.Background(), contract); err != nil {
		t.Fatalf("journal failure leaked into Submit: %v", err)
	}
	if _, err := NewSubmitter(fake, testSubmitterConfig, nil, zap.NewNop()).Submit(context.Background(), contract); err != nil {
		t.Fatalf("nil journal: %v", err)
	}
}
