package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oceannemj/site-web-JKM/pkg/db/models"
	"github.com/oceannemj/site-web-JKM/pkg/enums"
	"github.com/oceannemj/site-web-JKM/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *repository) CreateLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// LockOrder loads the order row with FOR UPDATE on Postgres. SQLite serialises
// writers at the database level and has no row locks.
func (r *repository) LockOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	qb := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		qb = qb.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := qb.Where("id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) DeleteLines(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OrderLine{}).Error
}

func (r *repository) DeleteOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", orderID).Delete(&models.Order{})
	return res.RowsAffected, res.Error
}

func (r *repository) ClientExists(ctx context.Context, clientID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", clientID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error) {
	if len(productIDs) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

type orderSummaryRow struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	Status     enums.OrderStatus
	GrossTotal decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
	TotalItems int
	CreatedAt  time.Time
}

func (r *repository) ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, fmt.Errorf("parse cursor: %w", err)
	}

	qb := r.db.WithContext(ctx).
		Table("orders o").
		Select(`o.id, o.client_id, o.status, o.gross_total, o.discount, o.total, o.created_at,
			COALESCE((SELECT SUM(l.quantity) FROM order_lines l WHERE l.order_id = o.id), 0) AS total_items`)

	if filters.Status != nil {
		qb = qb.Where("o.status = ?", *filters.Status)
	}
	if filters.ClientID != nil {
		qb = qb.Where("o.client_id = ?", *filters.ClientID)
	}
	if cursor != nil {
		qb = qb.Where("(o.created_at < ?) OR (o.created_at = ? AND o.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []orderSummaryRow
	if err := qb.
		Order("o.created_at DESC").
		Order("o.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	rows, next := pagination.Trim(rows, params.Limit, func(row orderSummaryRow) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})

	list := &OrderList{Orders: make([]OrderSummary, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		list.Orders = append(list.Orders, OrderSummary(row))
	}
	return list, nil
}

func (r *repository) ListByStatuses(ctx context.Context, statuses []enums.OrderStatus, limit int) ([]models.Order, error) {
	var orders []models.Order
	qb := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		qb = qb.Limit(limit)
	}
	if err := qb.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

type benefitLineRow struct {
	OrderID       uuid.UUID
	ProductID     uuid.UUID
	ProductName   *string
	Quantity      int
	UnitPrice     decimal.Decimal
	PurchasePrice decimal.NullDecimal
}

func (r *repository) FindBenefitLines(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]BenefitLine, error) {
	out := make(map[uuid.UUID][]BenefitLine, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}

	var rows []benefitLineRow
	err := r.db.WithContext(ctx).
		Table("order_lines l").
		Select("l.order_id, l.product_id, p.name AS product_name, l.quantity, l.unit_price, p.purchase_price").
		Joins("LEFT JOIN products p ON p.id = l.product_id").
		Where("l.order_id IN ?", orderIDs).
		Order("l.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		line := BenefitLine{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
		}
		if row.ProductName != nil {
			line.ProductName = *row.ProductName
		}
		if row.PurchasePrice.Valid {
			line.PurchasePrice = row.PurchasePrice.Decimal
		}
		out[row.OrderID] = append(out[row.OrderID], line)
	}
	return out, nil
}
