package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oceannemj/site-web-JKM/internal/revenue"
	"github.com/oceannemj/site-web-JKM/internal/stock"
	"github.com/oceannemj/site-web-JKM/pkg/db/models"
	"github.com/oceannemj/site-web-JKM/pkg/enums"
	pkgerrors "github.com/oceannemj/site-web-JKM/pkg/errors"
	"github.com/oceannemj/site-web-JKM/pkg/logger"
	"github.com/oceannemj/site-web-JKM/pkg/pagination"
)

const (
	opCreate   = "create"
	opUpdate   = "update"
	opDelete   = "delete"
	opCheckout = "checkout"

	statusNone = "none"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Observer receives order lifecycle measurements.
type Observer interface {
	ObserveTransition(from, to string)
	ObserveTxFailure(op string)
	ObserveTxDuration(op string, d time.Duration)
}

// Invalidator drops derived views after an order mutation.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Options carry the order policy switches.
type Options struct {
	// StrictLines rejects requests containing invalid lines instead of skipping them.
	StrictLines   bool
	BenefitsLimit int
}

// ServiceDeps groups the collaborators of the order service.
type ServiceDeps struct {
	Repo    Repository
	Tx      txRunner
	Stock   stock.Ledger
	Revenue revenue.Recorder
	Metrics Observer
	Cache   Invalidator
	Logger  *logger.Logger
	Options Options
}

// Service drives the order lifecycle and its stock and revenue side effects.
type Service interface {
	Create(ctx context.Context, input CreateInput) (uuid.UUID, error)
	Update(ctx context.Context, orderID uuid.UUID, input UpdateInput) error
	Delete(ctx context.Context, orderID uuid.UUID) error
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	ListForClient(ctx context.Context, clientID uuid.UUID, params pagination.Params) (*OrderList, error)
	Checkout(ctx context.Context, input CheckoutInput) (*OrderDetail, error)
	Benefits(ctx context.Context) []Benefit
}

type service struct {
	repo    Repository
	tx      txRunner
	stock   stock.Ledger
	revenue revenue.Recorder
	metrics Observer
	cache   Invalidator
	logg    *logger.Logger
	opts    Options
}

// NewService builds the order service with the required dependencies.
func NewService(deps ServiceDeps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deps.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if deps.Stock == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if deps.Revenue == nil {
		return nil, fmt.Errorf("revenue recorder required")
	}
	opts := deps.Options
	if opts.BenefitsLimit <= 0 {
		opts.BenefitsLimit = 50
	}
	return &service{
		repo:    deps.Repo,
		tx:      deps.Tx,
		stock:   deps.Stock,
		revenue: deps.Revenue,
		metrics: deps.Metrics,
		cache:   deps.Cache,
		logg:    deps.Logger,
		opts:    opts,
	}, nil
}

// draft is a validated order ready to be persisted.
type draft struct {
	clientID uuid.UUID
	status   enums.OrderStatus
	lines    []models.OrderLine
	totals   Totals
	address  *string
}

func (s *service) Create(ctx context.Context, input CreateInput) (uuid.UUID, error) {
	clientID, err := parseRequiredID(input.ClientID, "client_id")
	if err != nil {
		return uuid.Nil, err
	}
	status, err := parseRequiredStatus(input.Status)
	if err != nil {
		return uuid.Nil, err
	}
	lines, amounts, err := s.prepareLines(input.Items)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.ensureProducts(ctx, lines); err != nil {
		return uuid.Nil, err
	}
	if err := s.ensureClient(ctx, clientID); err != nil {
		return uuid.Nil, err
	}

	d := draft{
		clientID: clientID,
		status:   status,
		lines:    lines,
		totals:   ComputeTotals(amounts, input.Discount),
		address:  normalizeAddress(input.Address),
	}
	order, err := s.persist(ctx, opCreate, d)
	if err != nil {
		return uuid.Nil, err
	}
	return order.ID, nil
}

func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*OrderDetail, error) {
	if input.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "client identity missing")
	}

	requested := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		if id, err := uuid.Parse(strings.TrimSpace(item.ProductID)); err == nil {
			requested = append(requested, id)
		}
	}
	products, err := s.repo.FindProducts(ctx, requested)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	catalog := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	lines := make([]models.OrderLine, 0, len(input.Items))
	amounts := make([]LineAmount, 0, len(input.Items))
	for _, item := range input.Items {
		id, err := uuid.Parse(strings.TrimSpace(item.ProductID))
		if err != nil {
			continue
		}
		product, ok := catalog[id]
		if !ok {
			continue
		}
		amount := LineAmount{UnitPrice: NumberFromDecimal(product.SalePrice), Quantity: item.Quantity}
		price, qty, ok := amount.Parse()
		if !ok {
			continue
		}
		lines = append(lines, models.OrderLine{ProductID: id, Quantity: qty, UnitPrice: price})
		amounts = append(amounts, amount)
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no orderable items")
	}
	if err := s.ensureClient(ctx, input.ClientID); err != nil {
		return nil, err
	}

	order, err := s.persist(ctx, opCheckout, draft{
		clientID: input.ClientID,
		status:   enums.OrderStatusPending,
		lines:    lines,
		totals:   ComputeTotals(amounts, DiscountSpec{}),
		address:  normalizeAddress(input.Address),
	})
	if err != nil {
		return nil, err
	}
	return toDetail(order, order.Lines, nil), nil
}

func (s *service) persist(ctx context.Context, op string, d draft) (*models.Order, error) {
	order := &models.Order{
		ID:         uuid.New(),
		ClientID:   d.clientID,
		Status:     d.status,
		GrossTotal: d.totals.Gross,
		Discount:   d.totals.Discount,
		Total:      d.totals.Net,
		Address:    d.address,
	}
	for i := range d.lines {
		d.lines[i].ID = uuid.New()
		d.lines[i].OrderID = order.ID
	}

	err := s.runTx(ctx, op, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}
		if err := repo.CreateLines(ctx, d.lines); err != nil {
			return err
		}
		return s.reconcile(ctx, tx, order.ID, nil, &snapshot{status: d.status, lines: d.lines}, nil)
	})
	if err != nil {
		return nil, err
	}

	order.Lines = d.lines
	s.observeTransition(statusNone, string(d.status))
	s.afterMutation(ctx, op, order.ID)
	return order, nil
}

func (s *service) Update(ctx context.Context, orderID uuid.UUID, input UpdateInput) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var newStatus *enums.OrderStatus
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		status, err := parseRequiredStatus(*input.Status)
		if err != nil {
			return err
		}
		newStatus = &status
	}

	var newClient *uuid.UUID
	if input.ClientID != nil && strings.TrimSpace(*input.ClientID) != "" {
		id, err := parseRequiredID(*input.ClientID, "client_id")
		if err != nil {
			return err
		}
		if err := s.ensureClient(ctx, id); err != nil {
			return err
		}
		newClient = &id
	}

	var replacement []models.OrderLine
	if input.Items != nil {
		lines, _, err := s.prepareLines(*input.Items)
		if err != nil {
			return err
		}
		if err := s.ensureProducts(ctx, lines); err != nil {
			return err
		}
		replacement = lines
	}

	var from, to enums.OrderStatus
	err := s.runTx(ctx, opUpdate, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return orderNotFound()
			}
			return err
		}
		current, err := repo.FindLines(ctx, orderID)
		if err != nil {
			return err
		}

		from = order.Status
		to = order.Status
		if newStatus != nil {
			to = *newStatus
		}

		next := current
		var replace func() error
		if replacement != nil {
			for i := range replacement {
				replacement[i].ID = uuid.New()
				replacement[i].OrderID = orderID
			}
			next = replacement
			replace = func() error {
				if err := repo.DeleteLines(ctx, orderID); err != nil {
					return err
				}
				return repo.CreateLines(ctx, replacement)
			}
		}

		discount := input.Discount
		if !discount.IsSet() {
			discount = AbsoluteDiscount(order.Discount)
		}
		totals := ComputeTotals(amountsOf(next), discount)

		updates := map[string]any{
			"status":      to,
			"gross_total": totals.Gross,
			"discount":    totals.Discount,
			"total":       totals.Net,
		}
		if newClient != nil {
			updates["client_id"] = *newClient
		}
		if input.Address != nil {
			updates["address"] = normalizeAddress(input.Address)
		}

		if err := s.reconcile(ctx, tx, orderID,
			&snapshot{status: from, lines: current},
			&snapshot{status: to, lines: next},
			replace,
		); err != nil {
			return err
		}
		return repo.UpdateOrder(ctx, orderID, updates)
	})
	if err != nil {
		return err
	}

	s.observeTransition(string(from), string(to))
	s.afterMutation(ctx, opUpdate, orderID)
	return nil
}

func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var from enums.OrderStatus
	err := s.runTx(ctx, opDelete, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return orderNotFound()
			}
			return err
		}
		from = order.Status

		lines, err := repo.FindLines(ctx, orderID)
		if err != nil {
			return err
		}

		return s.reconcile(ctx, tx, orderID, &snapshot{status: from, lines: lines}, nil, func() error {
			if err := repo.DeleteLines(ctx, orderID); err != nil {
				return err
			}
			removed, err := repo.DeleteOrder(ctx, orderID)
			if err != nil {
				return err
			}
			if removed == 0 {
				return orderNotFound()
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	s.observeTransition(string(from), "deleted")
	s.afterMutation(ctx, opDelete, orderID)
	return nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	lines, err := s.repo.FindLines(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order lines")
	}
	entries, err := s.revenue.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toDetail(order, lines, entries), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	list, err := s.repo.ListOrders(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) ListForClient(ctx context.Context, clientID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "client identity missing")
	}
	return s.List(ctx, params, ListFilters{ClientID: &clientID})
}

// runTx executes fn in a transaction and maps failures onto the order error kinds.
func (s *service) runTx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	started := time.Now()
	err := s.tx.WithTx(ctx, fn)
	if s.metrics != nil {
		s.metrics.ObserveTxDuration(op, time.Since(started))
	}
	if err == nil {
		return nil
	}

	mapped := transactionFailed(err)
	if errors.Is(mapped, ErrOrderTransactionFailed) {
		if s.metrics != nil {
			s.metrics.ObserveTxFailure(op)
		}
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "op", op), "order transaction rolled back", err)
		}
	}
	return mapped
}

func (s *service) prepareLines(items []LineInput) ([]models.OrderLine, []LineAmount, error) {
	lines := make([]models.OrderLine, 0, len(items))
	amounts := make([]LineAmount, 0, len(items))
	for i, item := range items {
		productID, err := uuid.Parse(strings.TrimSpace(item.ProductID))
		if err != nil || productID == uuid.Nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product_id").
				WithDetails(map[string]any{"line": i})
		}
		amount := LineAmount{UnitPrice: item.UnitPrice, Quantity: item.Quantity}
		price, qty, ok := amount.Parse()
		if !ok {
			if s.opts.StrictLines {
				return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "line requires a positive unit_price and quantity").
					WithDetails(map[string]any{"line": i})
			}
			continue
		}
		lines = append(lines, models.OrderLine{ProductID: productID, Quantity: qty, UnitPrice: price})
		amounts = append(amounts, amount)
	}
	if len(lines) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one valid line is required")
	}
	return lines, amounts, nil
}

func (s *service) ensureClient(ctx context.Context, clientID uuid.UUID) error {
	exists, err := s.repo.ClientExists(ctx, clientID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup client")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeValidation, "client not found").
			WithDetails(map[string]any{"client_id": clientID.String()})
	}
	return nil
}

// ensureProducts rejects lines referencing products missing from the catalog
// before any transaction opens.
func (s *service) ensureProducts(ctx context.Context, lines []models.OrderLine) error {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}

	products, err := s.repo.FindProducts(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	for _, p := range products {
		delete(seen, p.ID)
	}
	if len(seen) == 0 {
		return nil
	}

	missing := make([]string, 0, len(seen))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			missing = append(missing, line.ProductID.String())
			delete(seen, line.ProductID)
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "product not found").
		WithDetails(map[string]any{"product_ids": missing})
}

func (s *service) observeTransition(from, to string) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(from, to)
	}
}

func (s *service) afterMutation(ctx context.Context, op string, orderID uuid.UUID) {
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(s.logg.WithOrderID(ctx, orderID.String()), "op", op), "order committed")
	}
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "dashboard cache invalidation failed")
	}
}

func amountsOf(lines []models.OrderLine) []LineAmount {
	out := make([]LineAmount, 0, len(lines))
	for _, line := range lines {
		out = append(out, LineAmount{
			UnitPrice: NumberFromDecimal(line.UnitPrice),
			Quantity:  NumberOf(line.Quantity),
		})
	}
	return out
}

func parseRequiredID(raw, field string) (uuid.UUID, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
	}
	id, err := uuid.Parse(value)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field)
	}
	return id, nil
}

func parseRequiredStatus(raw string) (enums.OrderStatus, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "status is required")
	}
	status, err := enums.ParseOrderStatus(value)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid status").
			WithDetails(map[string]any{"allowed": enums.OrderStatuses()})
	}
	return status, nil
}

func normalizeAddress(raw *string) *string {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	return &value
}
