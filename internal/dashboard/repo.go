package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oceannemj/site-web-JKM/pkg/db/models"
	"github.com/oceannemj/site-web-JKM/pkg/enums"
)

// Repository runs the read-only aggregate queries behind the dashboard.
type Repository interface {
	Revenue(ctx context.Context, statuses []enums.OrderStatus) (decimal.Decimal, error)
	CountOrders(ctx context.Context) (int64, error)
	CountOrdersByStatus(ctx context.Context, status enums.OrderStatus) (int64, error)
	CountOrdersSince(ctx context.Context, since time.Time) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountClients(ctx context.Context) (int64, error)
	CountStockBelow(ctx context.Context, threshold int) (int64, error)
	RevenueOrdersSince(ctx context.Context, statuses []enums.OrderStatus, since time.Time) ([]models.Order, error)
	TopProduct(ctx context.Context, statuses []enums.OrderStatus) (*TopProduct, error)
	BestCustomers(ctx context.Context, statuses []enums.OrderStatus, limit int) ([]Customer, error)
	LowStock(ctx context.Context, threshold, limit int) ([]models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the aggregate queries to a gorm connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Revenue(ctx context.Context, statuses []enums.OrderStatus) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status IN ?", statusValues(statuses)).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}

func (r *repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *repository) CountOrdersByStatus(ctx context.Context, status enums.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", string(status)).
		Count(&count).Error
	return count, err
}

func (r *repository) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

func (r *repository) CountClients(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Client{}).Count(&count).Error
	return count, err
}

func (r *repository) CountStockBelow(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("stock < ?", threshold).
		Count(&count).Error
	return count, err
}

func (r *repository) RevenueOrdersSince(ctx context.Context, statuses []enums.OrderStatus, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Select("id", "total", "created_at").
		Where("status IN ? AND created_at >= ?", statusValues(statuses), since).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *repository) TopProduct(ctx context.Context, statuses []enums.OrderStatus) (*TopProduct, error) {
	var rows []TopProduct
	err := r.db.WithContext(ctx).
		Table("order_lines AS l").
		Select("p.id AS product_id, p.name AS name, COUNT(l.id) AS sales, SUM(l.quantity) AS quantity").
		Joins("JOIN orders o ON o.id = l.order_id").
		Joins("JOIN products p ON p.id = l.product_id").
		Where("o.status IN ?", statusValues(statuses)).
		Group("p.id, p.name").
		Order("quantity DESC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *repository) BestCustomers(ctx context.Context, statuses []enums.OrderStatus, limit int) ([]Customer, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	var rows []Customer
	err := r.db.WithContext(ctx).
		Table("clients AS c").
		Select("c.id AS client_id, c.first_name, c.last_name, c.email, COUNT(o.id) AS orders, COALESCE(SUM(o.total), 0) AS spent").
		Joins("JOIN orders o ON o.client_id = c.id").
		Where("o.status IN ?", statusValues(statuses)).
		Group("c.id, c.first_name, c.last_name, c.email").
		Order("spent DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) LowStock(ctx context.Context, threshold, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Select("id", "name", "stock").
		Where("stock < ?", threshold).
		Order("stock ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func statusValues(statuses []enums.OrderStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, status.String())
	}
	return out
}
