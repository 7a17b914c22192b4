package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceannemj/site-web-JKM/pkg/db/models"
	"github.com/oceannemj/site-web-JKM/pkg/enums"
	pkgerrors "github.com/oceannemj/site-web-JKM/pkg/errors"
)

var (
	// ErrProductNotFound is returned when an adjustment targets an unknown product.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned by guarded decrements.
	ErrInsufficientStock = errors.New("insufficient stock")
)

const (
	DirectionDecrement = "decrement"
	DirectionIncrement = "increment"
)

// Ref ties an adjustment to the event that caused it.
type Ref struct {
	OrderID *uuid.UUID
	Reason  enums.StockMovementReason
}

// ForOrder builds a Ref for an order driven adjustment.
func ForOrder(orderID uuid.UUID, reason enums.StockMovementReason) Ref {
	id := orderID
	return Ref{OrderID: &id, Reason: reason}
}

// Ledger moves product stock inside a caller owned transaction.
type Ledger interface {
	Decrement(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int, ref Ref) error
	Increment(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int, ref Ref) error
}

// AdjustmentObserver is notified after every successful adjustment.
type AdjustmentObserver interface {
	ObserveStockAdjustment(direction string)
}

// LedgerOptions tune ledger behaviour.
type LedgerOptions struct {
	// AllowNegative disables the availability guard on decrements.
	AllowNegative bool
	Observer      AdjustmentObserver
}

type ledger struct {
	allowNegative bool
	observer      AdjustmentObserver
}

// NewLedger returns the SQL backed stock ledger.
func NewLedger(opts LedgerOptions) Ledger {
	return &ledger{allowNegative: opts.AllowNegative, observer: opts.Observer}
}

func (l *ledger) Decrement(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int, ref Ref) error {
	if err := checkArgs(tx, productID, qty); err != nil {
		return err
	}

	var res *gorm.DB
	if l.allowNegative {
		res = tx.WithContext(ctx).Exec(`
			UPDATE products
			SET stock = stock - ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, qty, productID)
	} else {
		res = tx.WithContext(ctx).Exec(`
			UPDATE products
			SET stock = stock - ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND stock >= ?
		`, qty, productID, qty)
	}
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement stock")
	}
	if res.RowsAffected == 0 {
		return l.missOrShortage(ctx, tx, productID)
	}

	if err := recordMovement(ctx, tx, productID, -qty, ref); err != nil {
		return err
	}
	l.observe(DirectionDecrement)
	return nil
}

func (l *ledger) Increment(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int, ref Ref) error {
	if err := checkArgs(tx, productID, qty); err != nil {
		return err
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "increment stock")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrProductNotFound, "increment stock").
			WithDetails(map[string]any{"product_id": productID.String()})
	}

	if err := recordMovement(ctx, tx, productID, qty, ref); err != nil {
		return err
	}
	l.observe(DirectionIncrement)
	return nil
}

func (l *ledger) missOrShortage(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
	details := map[string]any{"product_id": productID.String()}

	var count int64
	if err := tx.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	if count == 0 {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrProductNotFound, "decrement stock").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrInsufficientStock, "insufficient stock").WithDetails(details)
}

func (l *ledger) observe(direction string) {
	if l.observer != nil {
		l.observer.ObserveStockAdjustment(direction)
	}
}

func checkArgs(tx *gorm.DB, productID uuid.UUID, qty int) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock adjustment")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return nil
}

func recordMovement(ctx context.Context, tx *gorm.DB, productID uuid.UUID, delta int, ref Ref) error {
	reason := ref.Reason
	if reason == "" {
		if delta < 0 {
			reason = enums.StockMovementOrderApplied
		} else {
			reason = enums.StockMovementOrderReversed
		}
	}
	movement := models.StockMovement{
		ID:        uuid.New(),
		ProductID: productID,
		OrderID:   ref.OrderID,
		Delta:     delta,
		Reason:    reason,
	}
	if err := tx.WithContext(ctx).Create(&movement).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
	}
	return nil
}
