package enums

import "fmt"

// StockMovementReason explains why a product's stock counter moved.
type StockMovementReason string

const (
	StockMovementOrderApplied  StockMovementReason = "order_applied"
	StockMovementOrderReversed StockMovementReason = "order_reversed"
	StockMovementManualEdit    StockMovementReason = "manual_edit"
)

var validStockMovementReasons = []StockMovementReason{
	StockMovementOrderApplied,
	StockMovementOrderReversed,
	StockMovementManualEdit,
}

// IsValid reports whether the value is a known StockMovementReason.
func (r StockMovementReason) IsValid() bool {
	for _, candidate := range validStockMovementReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseStockMovementReason converts raw input into a StockMovementReason.
func ParseStockMovementReason(value string) (StockMovementReason, error) {
	for _, candidate := range validStockMovementReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock movement reason %q", value)
}
