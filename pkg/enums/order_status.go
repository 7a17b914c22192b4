package enums

import "fmt"

// OrderStatus tracks the lifecycle of a customer order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "en_attente"
	OrderStatusPaid      OrderStatus = "payee"
	OrderStatusShipped   OrderStatus = "expediee"
	OrderStatusDelivered OrderStatus = "livree"
	OrderStatusCanceled  OrderStatus = "annulee"
)

// StatusPolicy describes the side effects attached to an order sitting in a status.
type StatusPolicy struct {
	ImpactsStock   bool
	RecordsRevenue bool
}

var orderStatusPolicies = map[OrderStatus]StatusPolicy{
	OrderStatusPending:   {},
	OrderStatusCanceled:  {},
	OrderStatusDelivered: {ImpactsStock: true},
	OrderStatusShipped:   {ImpactsStock: true, RecordsRevenue: true},
	OrderStatusPaid:      {ImpactsStock: true, RecordsRevenue: true},
}

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// RevenueStatuses lists the statuses whose orders count as recognised revenue.
var RevenueStatuses = []OrderStatus{OrderStatusPaid, OrderStatusShipped}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusPolicies[s]
	return ok
}

// Policy returns the stock/revenue side effects of the status. Unknown values
// carry no side effects.
func (s OrderStatus) Policy() StatusPolicy {
	return orderStatusPolicies[s]
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderStatuses returns every known status in display order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validOrderStatuses))
	copy(out, validOrderStatuses)
	return out
}
