package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oceannemj/site-web-JKM/pkg/enums"
)

// Order is a client purchase. Totals are derived from its lines at write time.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ClientID   uuid.UUID         `gorm:"column:client_id;type:uuid;not null;index"`
	Status     enums.OrderStatus `gorm:"column:status;type:varchar(16);not null;default:'en_attente'"`
	GrossTotal decimal.Decimal   `gorm:"column:gross_total;type:numeric(12,2);not null;default:0"`
	Discount   decimal.Decimal   `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	Total      decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	Address    *string           `gorm:"column:address"`
	Lines      []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
