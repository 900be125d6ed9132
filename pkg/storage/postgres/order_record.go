package postgres

import (
	"time"

	"github.com/google/uuid"
)

// OrderRecord represents one order submission attempt stored in the database.
type OrderRecord struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	TradingSymbol string `gorm:"type:text;not null;index:idx_order_symbol"`
	OptionType    string `gorm:"type:varchar(8);not null"`

	Strike   float64 `gorm:"type:numeric;not null"`
	Price    float64 `gorm:"type:numeric;not null"`
	Quantity int     `gorm:"not null"`

	Status        string `gorm:"type:varchar(16);not null;index:idx_order_status"`
	BrokerOrderNo string `gorm:"type:varchar(32)"`
	Message       string `gorm:"type:text"`

	CreatedAt  time.Time `gorm:"not null;index:idx_order_created_at"`
	RecordedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the default table name for GORM.
func (OrderRecord) TableName() string {
	return "order_record"
}
