package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceannemj/site-web-JKM/internal/stock"
	"github.com/oceannemj/site-web-JKM/pkg/db/models"
	"github.com/oceannemj/site-web-JKM/pkg/enums"
)

// snapshot is the status and line set whose side effects are live in the database.
type snapshot struct {
	status enums.OrderStatus
	lines  []models.OrderLine
}

// reconcile fully reverses the effects of from, runs replace, then applies the
// effects of to. A nil side means no effects on that side: creation has no from
// and deletion has no to. Must run on the caller's transaction.
func (s *service) reconcile(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, from, to *snapshot, replace func() error) error {
	if from != nil {
		if err := s.reverse(ctx, tx, orderID, *from); err != nil {
			return err
		}
	}
	if replace != nil {
		if err := replace(); err != nil {
			return err
		}
	}
	if to != nil {
		if err := s.apply(ctx, tx, orderID, *to); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) apply(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, snap snapshot) error {
	policy := snap.status.Policy()
	if policy.ImpactsStock {
		ref := stock.ForOrder(orderID, enums.StockMovementOrderApplied)
		for _, line := range snap.lines {
			if err := s.stock.Decrement(ctx, tx, line.ProductID, line.Quantity, ref); err != nil {
				return err
			}
		}
	}
	if policy.RecordsRevenue {
		if _, err := s.revenue.RecordForLines(ctx, tx, orderID, snap.lines); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) reverse(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, snap snapshot) error {
	policy := snap.status.Policy()
	if policy.ImpactsStock {
		ref := stock.ForOrder(orderID, enums.StockMovementOrderReversed)
		for _, line := range snap.lines {
			if err := s.stock.Increment(ctx, tx, line.ProductID, line.Quantity, ref); err != nil {
				return err
			}
		}
	}
	if policy.RecordsRevenue {
		if _, err := s.revenue.RemoveForOrder(ctx, tx, orderID); err != nil {
			return err
		}
	}
	return nil
}
