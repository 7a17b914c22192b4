package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stats is the admin KPI snapshot.
type Stats struct {
	Revenue       decimal.Decimal `json:"revenue"`
	Orders        int64           `json:"orders"`
	Products      int64           `json:"products"`
	Clients       int64           `json:"clients"`
	PendingOrders int64           `json:"pending_orders"`
	CriticalStock int64           `json:"critical_stock"`
	DailyRevenue  []DailyRevenue  `json:"daily_revenue"`
	TopProduct    *TopProduct     `json:"top_product"`
	BestCustomers []Customer      `json:"best_customers"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Sales     int64     `json:"sales"`
	Quantity  int64     `json:"quantity"`
}

type Customer struct {
	ClientID  uuid.UUID       `json:"client_id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Orders    int64           `json:"orders"`
	Spent     decimal.Decimal `json:"spent"`
}

// NotificationType drives how the admin UI renders a notice.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
