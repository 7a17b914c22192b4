package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/oceannemj/site-web-JKM/pkg/enums"
)

// StockMovement records a signed stock delta applied to a product.
type StockMovement struct {
	ID        uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID                 `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	OrderID   *uuid.UUID                `gorm:"column:order_id;type:uuid" json:"order_id,omitempty"`
	Delta     int                       `gorm:"column:delta;not null" json:"delta"`
	Reason    enums.StockMovementReason `gorm:"column:reason;type:varchar(32);not null" json:"reason"`
	CreatedAt time.Time                 `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
