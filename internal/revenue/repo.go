package revenue

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceannemj/site-web-JKM/pkg/db/models"
)

// Repository manages persistence for revenue entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, entries []models.RevenueEntry) error
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) (int64, error)
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.RevenueEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a revenue repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBatch(ctx context.Context, entries []models.RevenueEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *repository) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.RevenueEntry{})
	return res.RowsAffected, res.Error
}

func (r *repository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.RevenueEntry, error) {
	var entries []models.RevenueEntry
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
