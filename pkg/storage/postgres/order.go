package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// InsertOrder stores an order record. Records are keyed by ID, so writing the same record twice is reported.
func (p *PostgresClient) InsertOrder(ctx context.Context, record *OrderRecord) error {
	tx := p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(record)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("duplicate order record skipped: id=%s symbol=%s", record.ID, record.TradingSymbol)
	}

	return nil
}

func (p *PostgresClient) GetOrder(ctx context.Context, id uuid.UUID) (*OrderRecord, error) {
	var order OrderRecord
	err := p.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error

	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the records created at or after since, newest first.
func (p *PostgresClient) ListOrders(ctx context.Context, since time.Time) ([]OrderRecord, error) {
	var orders []OrderRecord
	err := p.DB.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (p *PostgresClient) DeleteOrdersBefore(ctx context.Context, before time.Time) error {
	return p.DB.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&OrderRecord{}).Error
}
