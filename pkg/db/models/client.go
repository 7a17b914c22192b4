package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a shop customer placing orders.
type Client struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	LastName  string    `gorm:"column:last_name;not null"`
	FirstName string    `gorm:"column:first_name;not null"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	Phone     *string   `gorm:"column:phone"`
	Address   *string   `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
