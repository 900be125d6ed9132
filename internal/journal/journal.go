// Package journal keeps an audit trail of submitted orders.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPlaced   Status = "placed"
	StatusRejected Status = "rejected"
)

// OrderRecord is one order submission attempt, successful or not.
type OrderRecord struct {
	ID            uuid.UUID
	TradingSymbol string
	OptionType    string
	Strike        decimal.Decimal
	Price         decimal.Decimal
	Quantity      int
	Status        Status
	BrokerOrderNo string
	Message       string
	CreatedAt     time.Time
}

// Journal stores order records.
type Journal interface {
	Record(ctx context.Context, rec *OrderRecord) error
}

// Prepare assigns an ID and timestamp to rec when they are missing.
func Prepare(rec *OrderRecord) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}
