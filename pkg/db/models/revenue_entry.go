package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RevenueEntry is recognised income for one order line.
type RevenueEntry struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
