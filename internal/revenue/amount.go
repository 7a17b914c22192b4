package revenue

import (
	"github.com/shopspring/decimal"

	"github.com/oceannemj/site-web-JKM/pkg/db/models"
)

// LineAmount is the revenue recognised for a single order line.
func LineAmount(line models.OrderLine) decimal.Decimal {
	return line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
}
