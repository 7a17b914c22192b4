package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/oceannemj/site-web-JKM/pkg/enums"
	"github.com/oceannemj/site-web-JKM/pkg/logger"
)

const (
	defaultCacheTTL          = time.Minute
	defaultCriticalThreshold = 5
	defaultLowThreshold      = 10
	lowStockLimit            = 5
	bestCustomersLimit       = 10
	dailyRevenueWindow       = 7 * 24 * time.Hour
	recentOrdersWindow       = 24 * time.Hour
	dayLayout                = "2006-01-02"
)

// Daily revenue also counts delivered orders, unlike the headline figure.
var dailyRevenueStatuses = []enums.OrderStatus{
	enums.OrderStatusPaid,
	enums.OrderStatusDelivered,
	enums.OrderStatusShipped,
}

// Service builds the admin dashboard views. Reads never fail: broken
// aggregates degrade to zero values and are logged.
type Service interface {
	Stats(ctx context.Context) *Stats
	Notifications(ctx context.Context) []Notification
	Invalidate(ctx context.Context) error
}

type Options struct {
	CacheTTL               time.Duration
	CriticalStockThreshold int
	LowStockThreshold      int
	Now                    func() time.Time
}

type ServiceDeps struct {
	Repo    Repository
	Cache   Cache
	Metrics CacheObserver
	Logger  *logger.Logger
	Options Options
}

type service struct {
	repo    Repository
	cache   Cache
	metrics CacheObserver
	logg    *logger.Logger
	opts    Options
}

// NewService wires the dashboard. A nil cache disables caching.
func NewService(deps ServiceDeps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	opts := deps.Options
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.CriticalStockThreshold <= 0 {
		opts.CriticalStockThreshold = defaultCriticalThreshold
	}
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = defaultLowThreshold
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		repo:    deps.Repo,
		cache:   deps.Cache,
		metrics: deps.Metrics,
		logg:    deps.Logger,
		opts:    opts,
	}, nil
}

func (s *service) Stats(ctx context.Context) *Stats {
	stats := load(ctx, s, viewStats, s.computeStats)
	return &stats
}

func (s *service) Notifications(ctx context.Context) []Notification {
	return load(ctx, s, viewNotifications, s.computeNotifications)
}

func (s *service) computeStats(ctx context.Context) Stats {
	var errs error
	now := s.opts.Now()

	stats := Stats{
		Revenue:       decimal.Zero,
		DailyRevenue:  []DailyRevenue{},
		BestCustomers: []Customer{},
		GeneratedAt:   now.UTC(),
	}

	var err error
	if stats.Revenue, err = s.repo.Revenue(ctx, enums.RevenueStatuses); err != nil {
		stats.Revenue = decimal.Zero
		errs = multierr.Append(errs, fmt.Errorf("revenue: %w", err))
	}
	if stats.Orders, err = s.repo.CountOrders(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("orders: %w", err))
	}
	if stats.Products, err = s.repo.CountProducts(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("products: %w", err))
	}
	if stats.Clients, err = s.repo.CountClients(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("clients: %w", err))
	}
	if stats.PendingOrders, err = s.repo.CountOrdersByStatus(ctx, enums.OrderStatusPending); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("pending orders: %w", err))
	}
	if stats.CriticalStock, err = s.repo.CountStockBelow(ctx, s.opts.CriticalStockThreshold); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("critical stock: %w", err))
	}

	if orders, err := s.repo.RevenueOrdersSince(ctx, dailyRevenueStatuses, now.Add(-dailyRevenueWindow)); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("daily revenue: %w", err))
	} else {
		byDay := map[string]*DailyRevenue{}
		for _, order := range orders {
			day := order.CreatedAt.Format(dayLayout)
			entry, ok := byDay[day]
			if !ok {
				entry = &DailyRevenue{Date: day, Revenue: decimal.Zero}
				byDay[day] = entry
			}
			entry.Revenue = entry.Revenue.Add(order.Total)
			entry.Orders++
		}
		for _, entry := range byDay {
			stats.DailyRevenue = append(stats.DailyRevenue, *entry)
		}
		sort.Slice(stats.DailyRevenue, func(i, j int) bool {
			return stats.DailyRevenue[i].Date < stats.DailyRevenue[j].Date
		})
	}

	if stats.TopProduct, err = s.repo.TopProduct(ctx, enums.RevenueStatuses); err != nil {
		stats.TopProduct = nil
		errs = multierr.Append(errs, fmt.Errorf("top product: %w", err))
	}
	if customers, err := s.repo.BestCustomers(ctx, enums.RevenueStatuses, bestCustomersLimit); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("best customers: %w", err))
	} else if customers != nil {
		stats.BestCustomers = customers
	}

	if errs != nil {
		s.warn(ctx, viewStats, "dashboard stats degraded", errs)
	}
	return stats
}

func (s *service) computeNotifications(ctx context.Context) []Notification {
	var errs error
	now := s.opts.Now().UTC()
	out := []Notification{}

	if products, err := s.repo.LowStock(ctx, s.opts.LowStockThreshold, lowStockLimit); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("low stock: %w", err))
	} else {
		for _, product := range products {
			out = append(out, Notification{
				ID:        "stock-" + product.ID.String(),
				Type:      NotificationWarning,
				Message:   fmt.Sprintf("Stock faible: %s (%d restant)", product.Name, product.Stock),
				CreatedAt: now,
			})
		}
	}

	if pending, err := s.repo.CountOrdersByStatus(ctx, enums.OrderStatusPending); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("pending orders: %w", err))
	} else if pending > 0 {
		out = append(out, Notification{
			ID:        "orders-pending",
			Type:      NotificationInfo,
			Message:   fmt.Sprintf("%d commande(s) en attente", pending),
			CreatedAt: now,
		})
	}

	if recent, err := s.repo.CountOrdersSince(ctx, s.opts.Now().Add(-recentOrdersWindow)); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("recent orders: %w", err))
	} else if recent > 0 {
		out = append(out, Notification{
			ID:        "orders-recent",
			Type:      NotificationSuccess,
			Message:   fmt.Sprintf("%d nouvelle(s) commande(s) aujourd'hui", recent),
			CreatedAt: now,
		})
	}

	if outOfStock, err := s.repo.CountStockBelow(ctx, 1); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("out of stock: %w", err))
	} else if outOfStock > 0 {
		out = append(out, Notification{
			ID:        "stock-out",
			Type:      NotificationError,
			Message:   fmt.Sprintf("%d produit(s) en rupture de stock", outOfStock),
			CreatedAt: now,
		})
	}

	if errs != nil {
		s.warn(ctx, viewNotifications, "dashboard notifications degraded", errs)
	}
	return out
}

func (s *service) warn(ctx context.Context, view, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"view":  view,
		"error": err.Error(),
	})
	s.logg.Warn(ctx, msg)
}
