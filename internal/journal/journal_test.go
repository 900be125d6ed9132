package journal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// go test -v --run TestMemoryJournalRecord
func TestMemoryJournalRecord(t *testing.T) {
	j := NewMemoryJournal()

	rec := &OrderRecord{
		TradingSymbol: "BANKNIFTY28NOV24P48000",
		OptionType:    "PUT",
		Strike:        decimal.NewFromInt(48000),
		Price:         decimal.NewFromInt(110),
		Quantity:      1,
		Status:        StatusPlaced,
		BrokerOrderNo: "24112800012345",
	}
	if err := j.Record(context.Background(), rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if rec.ID == uuid.Nil || rec.CreatedAt.IsZero() {
		t.Errorf("record not prepared: %+v", rec)
	}

	records := j.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].TradingSymbol != "BANKNIFTY28NOV24P48000" || records[0].Status != StatusPlaced {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

// go test -v --run TestPrepareKeepsExisting
func TestPrepareKeepsExisting(t *testing.T) {
	id := uuid.New()
	at := time.Date(2024, 11, 28, 9, 15, 0, 0, time.UTC)
	rec := &OrderRecord{ID: id, CreatedAt: at}

	Prepare(rec)
	if rec.ID != id || !rec.CreatedAt.Equal(at) {
		t.Errorf("Prepare overwrote fields: %+v", rec)
	}
}

// go test -v --run TestToDBRecord
func TestToDBRecord(t *testing.T) {
	rec := &OrderRecord{
		ID:            uuid.New(),
		TradingSymbol: "X",
		OptionType:    "CALL",
		Strike:        decimal.NewFromInt(48100),
		Price:         decimal.RequireFromString("120.05"),
		Quantity:      1,
		Status:        StatusRejected,
		Message:       "RMS:Margin Exceeds",
	}

	row := ToDBRecord(rec)
	if row.ID != rec.ID || row.Strike != 48100 || row.Price != 120.05 || row.Status != "rejected" {
		t.Errorf("unexpected row: %+v", row)
	}
}
