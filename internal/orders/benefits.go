package orders

import (
	"context"

	"github.com/google/uuid"

	"github.com/oceannemj/site-web-JKM/pkg/enums"
)

// Benefits reports the margin of the most recent revenue bearing orders.
// It never fails: lookup errors degrade to an empty report with a warning.
func (s *service) Benefits(ctx context.Context) []Benefit {
	out := []Benefit{}

	orders, err := s.repo.ListByStatuses(ctx, enums.RevenueStatuses, s.opts.BenefitsLimit)
	if err != nil {
		s.warnDegraded(ctx, "benefit orders lookup failed", err)
		return out
	}
	if len(orders) == 0 {
		return out
	}

	ids := make([]uuid.UUID, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	linesByOrder, err := s.repo.FindBenefitLines(ctx, ids)
	if err != nil {
		s.warnDegraded(ctx, "benefit lines lookup failed", err)
		return out
	}

	for _, order := range orders {
		lines := linesByOrder[order.ID]
		if lines == nil {
			lines = []BenefitLine{}
		}
		costs := make([]CostLine, 0, len(lines))
		for _, line := range lines {
			costs = append(costs, CostLine{PurchasePrice: line.PurchasePrice, Quantity: line.Quantity})
		}
		purchaseTotal, benefit := ComputeBenefit(order.Total, costs)

		out = append(out, Benefit{
			OrderID:       order.ID,
			ClientID:      order.ClientID,
			Status:        order.Status,
			Total:         order.Total,
			Discount:      order.Discount,
			PurchaseTotal: purchaseTotal,
			Benefit:       benefit,
			CreatedAt:     order.CreatedAt,
			Lines:         lines,
		})
	}
	return out
}

func (s *service) warnDegraded(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
}
