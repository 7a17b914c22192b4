package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceannemj/site-web-JKM/pkg/db/models"
	"github.com/oceannemj/site-web-JKM/pkg/enums"
	"github.com/oceannemj/site-web-JKM/pkg/pagination"
)

// Repository defines persistence operations for orders and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateLines(ctx context.Context, lines []models.OrderLine) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	LockOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	DeleteLines(ctx context.Context, orderID uuid.UUID) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	ClientExists(ctx context.Context, clientID uuid.UUID) (bool, error)
	FindProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error)
	ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	ListByStatuses(ctx context.Context, statuses []enums.OrderStatus, limit int) ([]models.Order, error)
	FindBenefitLines(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]BenefitLine, error)
}
