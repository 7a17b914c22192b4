package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock only moves through the stock ledger.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	Description   *string         `gorm:"column:description" json:"description,omitempty"`
	PurchasePrice decimal.Decimal `gorm:"column:purchase_price;type:numeric(10,2);not null;default:0" json:"purchase_price"`
	SalePrice     decimal.Decimal `gorm:"column:sale_price;type:numeric(10,2);not null;default:0" json:"sale_price"`
	Stock         int             `gorm:"column:stock;not null;default:0" json:"stock"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
