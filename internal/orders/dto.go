package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oceannemj/site-web-JKM/pkg/db/models"
	"github.com/oceannemj/site-web-JKM/pkg/enums"
)

// LineInput is one requested order line.
type LineInput struct {
	ProductID string `json:"product_id"`
	Quantity  Number `json:"quantity"`
	UnitPrice Number `json:"unit_price"`
}

// CreateInput carries an admin order creation.
type CreateInput struct {
	ClientID string       `json:"client_id"`
	Status   string       `json:"status"`
	Items    []LineInput  `json:"items"`
	Discount DiscountSpec `json:"remise"`
	Address  *string      `json:"adresse,omitempty"`
}

// UpdateInput carries an admin order update. Omitted fields keep their
// current value; a present items list replaces every line.
type UpdateInput struct {
	ClientID *string      `json:"client_id,omitempty"`
	Status   *string      `json:"status,omitempty"`
	Items    *[]LineInput `json:"items,omitempty"`
	Discount DiscountSpec `json:"remise"`
	Address  *string      `json:"adresse,omitempty"`
}

// CheckoutLine is a cart line submitted by a client.
type CheckoutLine struct {
	ProductID string `json:"product_id"`
	Quantity  Number `json:"quantity"`
}

// CheckoutInput creates a pending order priced from the catalog.
type CheckoutInput struct {
	ClientID uuid.UUID      `json:"-"`
	Items    []CheckoutLine `json:"items"`
	Address  *string        `json:"adresse,omitempty"`
}

// ListFilters narrows the admin order list.
type ListFilters struct {
	Status   *enums.OrderStatus
	ClientID *uuid.UUID
}

// OrderSummary is a list row.
type OrderSummary struct {
	ID         uuid.UUID         `json:"id"`
	ClientID   uuid.UUID         `json:"client_id"`
	Status     enums.OrderStatus `json:"status"`
	GrossTotal decimal.Decimal   `json:"gross_total"`
	Discount   decimal.Decimal   `json:"remise"`
	Total      decimal.Decimal   `json:"total"`
	TotalItems int               `json:"total_items"`
	CreatedAt  time.Time         `json:"created_at"`
}

// OrderList wraps a page of orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// OrderDetail is an order with its lines and revenue entries.
type OrderDetail struct {
	ID             uuid.UUID             `json:"id"`
	ClientID       uuid.UUID             `json:"client_id"`
	Status         enums.OrderStatus     `json:"status"`
	GrossTotal     decimal.Decimal       `json:"gross_total"`
	Discount       decimal.Decimal       `json:"remise"`
	Total          decimal.Decimal       `json:"total"`
	Address        *string               `json:"adresse,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Lines          []OrderLineDetail     `json:"lines"`
	RevenueEntries []models.RevenueEntry `json:"revenue_entries"`
}

// OrderLineDetail is a persisted line snapshot.
type OrderLineDetail struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Benefit is the margin report of one revenue bearing order.
type Benefit struct {
	OrderID       uuid.UUID         `json:"order_id"`
	ClientID      uuid.UUID         `json:"client_id"`
	Status        enums.OrderStatus `json:"status"`
	Total         decimal.Decimal   `json:"total"`
	Discount      decimal.Decimal   `json:"remise"`
	PurchaseTotal decimal.Decimal   `json:"purchase_total"`
	Benefit       decimal.Decimal   `json:"benefit"`
	CreatedAt     time.Time         `json:"created_at"`
	Lines         []BenefitLine     `json:"lines"`
}

// BenefitLine is a line of a benefit report joined with its product.
type BenefitLine struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

func toDetail(order *models.Order, lines []models.OrderLine, entries []models.RevenueEntry) *OrderDetail {
	detail := &OrderDetail{
		ID:             order.ID,
		ClientID:       order.ClientID,
		Status:         order.Status,
		GrossTotal:     order.GrossTotal,
		Discount:       order.Discount,
		Total:          order.Total,
		Address:        order.Address,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
		Lines:          make([]OrderLineDetail, 0, len(lines)),
		RevenueEntries: entries,
	}
	if detail.RevenueEntries == nil {
		detail.RevenueEntries = []models.RevenueEntry{}
	}
	for _, line := range lines {
		detail.Lines = append(detail.Lines, OrderLineDetail{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
		})
	}
	return detail
}
