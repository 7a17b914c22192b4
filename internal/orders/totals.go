package orders

import (
	"math"

	"github.com/shopspring/decimal"
)

// LineAmount is the price and quantity of one requested line.
type LineAmount struct {
	UnitPrice Number
	Quantity  Number
}

// Totals is the derived money breakdown of an order.
type Totals struct {
	Gross    decimal.Decimal `json:"gross"`
	Discount decimal.Decimal `json:"discount"`
	Net      decimal.Decimal `json:"net"`
}

// Parse returns the validated price and quantity. A line is valid when both
// values are numeric and positive and the quantity is a whole number. The price
// is rounded to cents, the precision of the persisted snapshot.
func (l LineAmount) Parse() (decimal.Decimal, int, bool) {
	price, ok := l.UnitPrice.Decimal()
	if ok {
		price = price.Round(2)
	}
	if !ok || !price.IsPositive() {
		return decimal.Zero, 0, false
	}
	qty, ok := l.Quantity.Decimal()
	if !ok || !qty.IsPositive() || !qty.IsInteger() || qty.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return decimal.Zero, 0, false
	}
	return price, int(qty.IntPart()), true
}

// ComputeTotals derives gross, discount and net totals. Invalid lines are
// ignored. The discount is kept as requested; only net is floored at zero.
func ComputeTotals(lines []LineAmount, discount DiscountSpec) Totals {
	gross := decimal.Zero
	for _, line := range lines {
		price, qty, ok := line.Parse()
		if !ok {
			continue
		}
		gross = gross.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}
	gross = gross.Round(2)

	off := discount.Amount(gross)
	net := gross.Sub(off)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return Totals{Gross: gross, Discount: off, Net: net.Round(2)}
}

// CostLine pairs a line quantity with the product purchase price.
type CostLine struct {
	PurchasePrice decimal.Decimal
	Quantity      int
}

// ComputeBenefit returns the purchase cost of the lines and net minus that cost.
func ComputeBenefit(net decimal.Decimal, lines []CostLine) (decimal.Decimal, decimal.Decimal) {
	cost := decimal.Zero
	for _, line := range lines {
		cost = cost.Add(line.PurchasePrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	cost = cost.Round(2)
	return cost, net.Sub(cost).Round(2)
}
