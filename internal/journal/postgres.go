package journal

import (
	"context"
	"fmt"

	"optionbuyer/pkg/storage/postgres"
)

// PostgresJournal writes order records through the gorm client.
type PostgresJournal struct {
	client *postgres.PostgresClient
}

func NewPostgresJournal(client *postgres.PostgresClient) *PostgresJournal {
	return &PostgresJournal{client: client}
}

func (p *PostgresJournal) Record(ctx context.Context, rec *OrderRecord) error {
	Prepare(rec)
	if err := p.client.InsertOrder(ctx, ToDBRecord(rec)); err != nil {
		return fmt.Errorf("journal order %s: %w", rec.ID, err)
	}
	return nil
}

func (p *PostgresJournal) Close() error {
	return p.client.Close()
}

// ToDBRecord converts an OrderRecord into its table row.
func ToDBRecord(rec *OrderRecord) *postgres.OrderRecord {
	price, _ := rec.Price.Float64()
	strike, _ := rec.Strike.Float64()
	return &postgres.OrderRecord{
		ID:            rec.ID,
		TradingSymbol: rec.TradingSymbol,
		OptionType:    rec.OptionType,
		Strike:        strike,
		Price:         price,
		Quantity:      rec.Quantity,
		Status:        string(rec.Status),
		BrokerOrderNo: rec.BrokerOrderNo,
		Message:       rec.Message,
		CreatedAt:     rec.CreatedAt,
	}
}
