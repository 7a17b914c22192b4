package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceannemj/site-web-JKM/pkg/db/models"
	"github.com/oceannemj/site-web-JKM/pkg/enums"
	pkgerrors "github.com/oceannemj/site-web-JKM/pkg/errors"
	"github.com/oceannemj/site-web-JKM/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	DB() *gorm.DB
}

// Invalidator drops derived views after stock changes.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service exposes explicit stock edits and movement history.
type Service interface {
	SetStock(ctx context.Context, productID uuid.UUID, stock int) (*models.Product, error)
	Movements(ctx context.Context, productID uuid.UUID, limit int) ([]models.StockMovement, error)
}

type service struct {
	db          txRunner
	observer    AdjustmentObserver
	invalidator Invalidator
	logg        *logger.Logger
}

// NewService wires the explicit stock edit path.
func NewService(db txRunner, observer AdjustmentObserver, invalidator Invalidator, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{db: db, observer: observer, invalidator: invalidator, logg: logg}, nil
}

func (s *service) SetStock(ctx context.Context, productID uuid.UUID, stock int) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	var product models.Product
	var delta int
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrProductNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		delta = stock - product.Stock
		if delta == 0 {
			return nil
		}

		if err := tx.WithContext(ctx).Exec(`
			UPDATE products
			SET stock = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, stock, productID).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock")
		}
		product.Stock = stock

		return recordMovement(ctx, tx, productID, delta, Ref{Reason: enums.StockMovementManualEdit})
	})
	if err != nil {
		return nil, err
	}

	if delta != 0 {
		if s.observer != nil {
			direction := DirectionIncrement
			if delta < 0 {
				direction = DirectionDecrement
			}
			s.observer.ObserveStockAdjustment(direction)
		}
		s.invalidate(ctx)
	}
	return &product, nil
}

func (s *service) Movements(ctx context.Context, productID uuid.UUID, limit int) ([]models.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.StockMovement
	err := s.db.DB().WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock movements")
	}
	return rows, nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "dashboard cache invalidation failed")
	}
}
