package revenue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceannemj/site-web-JKM/pkg/db/models"
	pkgerrors "github.com/oceannemj/site-web-JKM/pkg/errors"
)

// Recorder books and removes revenue entries for order lines.
type Recorder interface {
	RecordForLines(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, lines []models.OrderLine) ([]models.RevenueEntry, error)
	RemoveForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int64, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.RevenueEntry, error)
}

type service struct {
	repo Repository
}

// NewService wires a revenue recorder with the provided repository.
func NewService(repo Repository) (Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("revenue repository required")
	}
	return &service{repo: repo}, nil
}

// RecordForLines inserts one entry per line with amount = unit price * quantity.
func (s *service) RecordForLines(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, lines []models.OrderLine) ([]models.RevenueEntry, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	entries := make([]models.RevenueEntry, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		entries = append(entries, models.RevenueEntry{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			Amount:    LineAmount(line),
		})
	}

	if err := s.repo.WithTx(tx).CreateBatch(ctx, entries); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record revenue entries")
	}
	return entries, nil
}

func (s *service) RemoveForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int64, error) {
	if orderID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	removed, err := s.repo.WithTx(tx).DeleteByOrderID(ctx, orderID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove revenue entries")
	}
	return removed, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.RevenueEntry, error) {
	entries, err := s.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list revenue entries")
	}
	return entries, nil
}
