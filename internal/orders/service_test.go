package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oceannemj/site-web-JKM/internal/revenue"
	"github.com/oceannemj/site-web-JKM/internal/stock"
	"github.com/oceannemj/site-web-JKM/pkg/db/dbtest"
	"github.com/oceannemj/site-web-JKM/pkg/db/models"
	"github.com/oceannemj/site-web-JKM/pkg/enums"
	pkgerrors "github.com/oceannemj/site-web-JKM/pkg/errors"
	"github.com/oceannemj/site-web-JKM/pkg/pagination"
)

type recordingObserver struct {
	transitions [][2]string
	failures    []string
	durations   []string
}

func (r *recordingObserver) ObserveTransition(from, to string) {
	r.transitions = append(r.transitions, [2]string{from, to})
}

func (r *recordingObserver) ObserveTxFailure(op string) {
	r.failures = append(r.failures, op)
}

func (r *recordingObserver) ObserveTxDuration(op string, _ time.Duration) {
	r.durations = append(r.durations, op)
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

type fixture struct {
	conn     *gorm.DB
	svc      Service
	observer *recordingObserver
	cache    *countingInvalidator
	client   models.Client
	deps     ServiceDeps
}

type fixtureOption func(*ServiceDeps)

func withNegativeStockGuard() fixtureOption {
	return func(d *ServiceDeps) {
		d.Stock = stock.NewLedger(stock.LedgerOptions{AllowNegative: false})
	}
}

var errLedgerDown = errors.New("ledger unavailable")

// failingLedger delegates to the real ledger but fails decrements of one product.
type failingLedger struct {
	stock.Ledger
	failOn uuid.UUID
}

func (l failingLedger) Decrement(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int, ref stock.Ref) error {
	if productID == l.failOn {
		return errLedgerDown
	}
	return l.Ledger.Decrement(ctx, tx, productID, qty, ref)
}

// withFailingDecrement rebuilds the fixture service with a ledger failing on productID.
func withFailingDecrement(f *fixture, productID uuid.UUID) {
	f.deps.Stock = failingLedger{Ledger: f.deps.Stock, failOn: productID}
	svc, err := NewService(f.deps)
	if err != nil {
		panic(err)
	}
	f.svc = svc
}

func withStrictLines() fixtureOption {
	return func(d *ServiceDeps) {
		d.Options.StrictLines = true
	}
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	client, conn := dbtest.Client(t)
	recorder, err := revenue.NewService(revenue.NewRepository(conn))
	require.NoError(t, err)

	f := &fixture{
		conn:     conn,
		observer: &recordingObserver{},
		cache:    &countingInvalidator{},
	}
	deps := ServiceDeps{
		Repo:    NewRepository(conn),
		Tx:      client,
		Stock:   stock.NewLedger(stock.LedgerOptions{AllowNegative: true}),
		Revenue: recorder,
		Metrics: f.observer,
		Cache:   f.cache,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	f.deps = deps
	f.svc, err = NewService(deps)
	require.NoError(t, err)
	f.client = dbtest.SeedClient(t, conn, "alice")
	return f
}

func item(productID uuid.UUID, qty int, price string) LineInput {
	return LineInput{ProductID: productID.String(), Quantity: NumberOf(qty), UnitPrice: NumberOf(price)}
}

func (f *fixture) create(t *testing.T, status enums.OrderStatus, discount string, items ...LineInput) uuid.UUID {
	t.Helper()
	input := CreateInput{ClientID: f.client.ID.String(), Status: string(status), Items: items}
	if discount != "" {
		input.Discount = ParseDiscount(discount)
	}
	id, err := f.svc.Create(context.Background(), input)
	require.NoError(t, err)
	return id
}

func (f *fixture) revenueCount(t *testing.T, orderID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.conn.Model(&models.RevenueEntry{}).Where("order_id = ?", orderID).Count(&count).Error)
	return count
}

func (f *fixture) lineCount(t *testing.T, orderID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.conn.Model(&models.OrderLine{}).Where("order_id = ?", orderID).Count(&count).Error)
	return count
}

func statusPtr(s enums.OrderStatus) *string {
	v := string(s)
	return &v
}

func TestCreateDeliveredThenDeleteRestoresStock(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "body", 10, "4.00", "9.00")
	b := dbtest.SeedProduct(t, f.conn, "bonnet", 6, "2.00", "5.00")

	orderID := f.create(t, enums.OrderStatusDelivered, "", item(a.ID, 2, "9.00"), item(b.ID, 3, "5.00"))

	assert.Equal(t, 8, dbtest.StockOf(t, f.conn, a.ID))
	assert.Equal(t, 3, dbtest.StockOf(t, f.conn, b.ID))
	assert.Zero(t, f.revenueCount(t, orderID))

	require.NoError(t, f.svc.Delete(context.Background(), orderID))

	assert.Equal(t, 10, dbtest.StockOf(t, f.conn, a.ID))
	assert.Equal(t, 6, dbtest.StockOf(t, f.conn, b.ID))
	assert.Zero(t, f.revenueCount(t, orderID))
	assert.Zero(t, f.lineCount(t, orderID))

	_, err := f.svc.Get(context.Background(), orderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, 2, f.cache.calls)
}

func TestShippedToPendingReversesStockAndRevenue(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "gigoteuse", 10, "400", "1000")

	orderID := f.create(t, enums.OrderStatusShipped, "", item(a.ID, 3, "1000"))

	assert.Equal(t, 7, dbtest.StockOf(t, f.conn, a.ID))
	detail, err := f.svc.Get(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, detail.RevenueEntries, 1)
	assert.True(t, detail.RevenueEntries[0].Amount.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, a.ID, detail.RevenueEntries[0].ProductID)

	require.NoError(t, f.svc.Update(context.Background(), orderID, UpdateInput{Status: statusPtr(enums.OrderStatusPending)}))

	assert.Equal(t, 10, dbtest.StockOf(t, f.conn, a.ID))
	assert.Zero(t, f.revenueCount(t, orderID))

	detail, err = f.svc.Get(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, detail.Status)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, 3, detail.Lines[0].Quantity)
	assert.Contains(t, f.observer.transitions, [2]string{"expediee", "en_attente"})
}

func TestUpdateToSameStatusLeavesStockUnchanged(t *testing.T) {
	for _, status := range enums.OrderStatuses() {
		status := status
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			a := dbtest.SeedProduct(t, f.conn, "chaussons", 20, "3.00", "8.00")
			b := dbtest.SeedProduct(t, f.conn, "pyjama", 20, "6.00", "14.00")

			orderID := f.create(t, status, "10%", item(a.ID, 2, "8.00"), item(b.ID, 1, "14.00"))
			stockA := dbtest.StockOf(t, f.conn, a.ID)
			stockB := dbtest.StockOf(t, f.conn, b.ID)
			revenueBefore := f.revenueCount(t, orderID)

			require.NoError(t, f.svc.Update(context.Background(), orderID, UpdateInput{Status: statusPtr(status)}))

			assert.Equal(t, stockA, dbtest.StockOf(t, f.conn, a.ID))
			assert.Equal(t, stockB, dbtest.StockOf(t, f.conn, b.ID))
			assert.Equal(t, revenueBefore, f.revenueCount(t, orderID))

			detail, err := f.svc.Get(context.Background(), orderID)
			require.NoError(t, err)
			assert.True(t, detail.Total.Equal(decimal.RequireFromString("27")), "total %s", detail.Total)
		})
	}
}

func TestCreateThenDeleteConservesStock(t *testing.T) {
	for _, status := range enums.OrderStatuses() {
		status := status
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			a := dbtest.SeedProduct(t, f.conn, "body", 5, "4.00", "9.00")
			b := dbtest.SeedProduct(t, f.conn, "bavoir", 1, "1.00", "3.00")

			orderID := f.create(t, status, "", item(a.ID, 2, "9.00"), item(b.ID, 4, "3.00"), item(a.ID, 1, "9.00"))
			require.NoError(t, f.svc.Delete(context.Background(), orderID))

			assert.Equal(t, 5, dbtest.StockOf(t, f.conn, a.ID))
			assert.Equal(t, 1, dbtest.StockOf(t, f.conn, b.ID))
			assert.Zero(t, f.revenueCount(t, orderID))
		})
	}
}

func TestPendingToPaidToCanceled(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "body", 10, "4.00", "9.00")
	b := dbtest.SeedProduct(t, f.conn, "bonnet", 10, "2.00", "5.00")
	ctx := context.Background()

	orderID := f.create(t, enums.OrderStatusPending, "", item(a.ID, 2, "9.00"), item(b.ID, 1, "5.00"))
	assert.Equal(t, 10, dbtest.StockOf(t, f.conn, a.ID))
	assert.Zero(t, f.revenueCount(t, orderID))

	require.NoError(t, f.svc.Update(ctx, orderID, UpdateInput{Status: statusPtr(enums.OrderStatusPaid)}))
	assert.Equal(t, 8, dbtest.StockOf(t, f.conn, a.ID))
	assert.Equal(t, 9, dbtest.StockOf(t, f.conn, b.ID))
	assert.EqualValues(t, 2, f.revenueCount(t, orderID))

	require.NoError(t, f.svc.Update(ctx, orderID, UpdateInput{Status: statusPtr(enums.OrderStatusCanceled)}))
	assert.Equal(t, 10, dbtest.StockOf(t, f.conn, a.ID))
	assert.Equal(t, 10, dbtest.StockOf(t, f.conn, b.ID))
	assert.Zero(t, f.revenueCount(t, orderID))

	var movements []models.StockMovement
	require.NoError(t, f.conn.Where("order_id = ?", orderID).Find(&movements).Error)
	assert.Len(t, movements, 4)
	sum := 0
	for _, m := range movements {
		sum += m.Delta
	}
	assert.Zero(t, sum)
}

func TestUpdateReplacesLinesAndKeepsDiscount(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "body", 10, "4.00", "9.00")
	b := dbtest.SeedProduct(t, f.conn, "bonnet", 10, "2.00", "5.00")
	ctx := context.Background()

	orderID := f.create(t, enums.OrderStatusPaid, "300", item(a.ID, 2, "1000"))
	assert.Equal(t, 8, dbtest.StockOf(t, f.conn, a.ID))

	items := []LineInput{item(b.ID, 3, "500")}
	require.NoError(t, f.svc.Update(ctx, orderID, UpdateInput{Items: &items}))

	assert.Equal(t, 10, dbtest.StockOf(t, f.conn, a.ID))
	assert.Equal(t, 7, dbtest.StockOf(t, f.conn, b.ID))

	detail, err := f.svc.Get(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, detail.Status)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, b.ID, detail.Lines[0].ProductID)
	assert.True(t, detail.GrossTotal.Equal(decimal.NewFromInt(1500)))
	assert.True(t, detail.Discount.Equal(decimal.NewFromInt(300)))
	assert.True(t, detail.Total.Equal(decimal.NewFromInt(1200)))
	require.Len(t, detail.RevenueEntries, 1)
	assert.True(t, detail.RevenueEntries[0].Amount.Equal(decimal.NewFromInt(1500)))

	require.NoError(t, f.svc.Update(ctx, orderID, UpdateInput{Discount: ParseDiscount("10%")}))
	detail, err = f.svc.Get(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, detail.Total.Equal(decimal.NewFromInt(1350)))
}

func TestUpdateChangesClientAndAddress(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "body", 10, "4.00", "9.00")
	other := dbtest.SeedClient(t, f.conn, "bob")
	orderID := f.create(t, enums.OrderStatusPending, "", item(a.ID, 1, "9.00"))

	clientID := other.ID.String()
	address := " 12 rue des Lilas "
	require.NoError(t, f.svc.Update(context.Background(), orderID, UpdateInput{ClientID: &clientID, Address: &address}))

	detail, err := f.svc.Get(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, detail.ClientID)
	require.NotNil(t, detail.Address)
	assert.Equal(t, "12 rue des Lilas", *detail.Address)

	unknown := uuid.NewString()
	err = f.svc.Update(context.Background(), orderID, UpdateInput{ClientID: &unknown})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestFailedStockAdjustmentRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "body", 10, "4.00", "9.00")
	b := dbtest.SeedProduct(t, f.conn, "bonnet", 5, "2.00", "5.00")
	withFailingDecrement(f, b.ID)

	_, err := f.svc.Create(context.Background(), CreateInput{
		ClientID: f.client.ID.String(),
		Status:   string(enums.OrderStatusPaid),
		Items:    []LineInput{item(a.ID, 2, "9.00"), item(b.ID, 1, "5.00")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOrderTransactionFailed)
	assert.ErrorIs(t, err, errLedgerDown)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInternal))

	assert.Equal(t, 10, dbtest.StockOf(t, f.conn, a.ID))
	assert.Equal(t, 5, dbtest.StockOf(t, f.conn, b.ID))
	var orders, lines, entries, movements int64
	require.NoError(t, f.conn.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, f.conn.Model(&models.OrderLine{}).Count(&lines).Error)
	require.NoError(t, f.conn.Model(&models.RevenueEntry{}).Count(&entries).Error)
	require.NoError(t, f.conn.Model(&models.StockMovement{}).Count(&movements).Error)
	assert.Zero(t, orders+lines+entries+movements)

	assert.Equal(t, []string{opCreate}, f.observer.failures)
	assert.Zero(t, f.cache.calls)
}

func TestFailedUpdateKeepsPreviousState(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "body", 10, "4.00", "9.00")
	b := dbtest.SeedProduct(t, f.conn, "bonnet", 5, "2.00", "5.00")
	orderID := f.create(t, enums.OrderStatusShipped, "", item(a.ID, 4, "9.00"))
	withFailingDecrement(f, b.ID)

	items := []LineInput{item(b.ID, 1, "9.00")}
	err := f.svc.Update(context.Background(), orderID, UpdateInput{Items: &items})
	assert.ErrorIs(t, err, ErrOrderTransactionFailed)

	assert.Equal(t, 6, dbtest.StockOf(t, f.conn, a.ID))
	assert.Equal(t, 5, dbtest.StockOf(t, f.conn, b.ID))
	assert.EqualValues(t, 1, f.revenueCount(t, orderID))
	detail, err := f.svc.Get(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, a.ID, detail.Lines[0].ProductID)
}

func TestUnknownProductRejectedBeforeTransaction(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "body", 10, "4.00", "9.00")
	ghost := uuid.New()

	_, err := f.svc.Create(context.Background(), CreateInput{
		ClientID: f.client.ID.String(),
		Status:   string(enums.OrderStatusPending),
		Items:    []LineInput{item(a.ID, 1, "9.00"), item(ghost, 1, "5.00")},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "got %v", err)
	assert.NotErrorIs(t, err, ErrOrderTransactionFailed)

	orderID := f.create(t, enums.OrderStatusDelivered, "", item(a.ID, 2, "9.00"))
	items := []LineInput{item(ghost, 1, "5.00")}
	err = f.svc.Update(context.Background(), orderID, UpdateInput{Items: &items})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "got %v", err)

	assert.Equal(t, 8, dbtest.StockOf(t, f.conn, a.ID))
	assert.EqualValues(t, 1, f.lineCount(t, orderID))
	assert.Empty(t, f.observer.failures)
}

func TestSameStatusUpdateKeepsTotalsForFractionalPrices(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "body", 10, "4.00", "9.00")
	orderID := f.create(t, enums.OrderStatusPaid, "", item(a.ID, 3, "9.999"))

	before, err := f.svc.Get(context.Background(), orderID)
	require.NoError(t, err)
	assert.True(t, before.GrossTotal.Equal(decimal.RequireFromString("30")), "gross %s", before.GrossTotal)

	require.NoError(t, f.svc.Update(context.Background(), orderID, UpdateInput{Status: statusPtr(enums.OrderStatusPaid)}))
	after, err := f.svc.Get(context.Background(), orderID)
	require.NoError(t, err)
	assert.True(t, after.GrossTotal.Equal(before.GrossTotal), "gross %s", after.GrossTotal)
	assert.True(t, after.Total.Equal(before.Total), "total %s", after.Total)
	require.Len(t, after.RevenueEntries, 1)
	assert.True(t, after.RevenueEntries[0].Amount.Equal(decimal.RequireFromString("30")))
}

func TestNegativeStockGuard(t *testing.T) {
	f := newFixture(t, withNegativeStockGuard())
	a := dbtest.SeedProduct(t, f.conn, "body", 2, "4.00", "9.00")

	_, err := f.svc.Create(context.Background(), CreateInput{
		ClientID: f.client.ID.String(),
		Status:   string(enums.OrderStatusDelivered),
		Items:    []LineInput{item(a.ID, 3, "9.00")},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
	assert.ErrorIs(t, err, stock.ErrInsufficientStock)
	assert.NotErrorIs(t, err, ErrOrderTransactionFailed)
	assert.Equal(t, 2, dbtest.StockOf(t, f.conn, a.ID))
}

func TestUnguardedStockMayGoNegative(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "body", 2, "4.00", "9.00")

	f.create(t, enums.OrderStatusDelivered, "", item(a.ID, 3, "9.00"))
	assert.Equal(t, -1, dbtest.StockOf(t, f.conn, a.ID))
}

func TestUpdateAndDeleteMissingOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.Update(ctx, uuid.New(), UpdateInput{Status: statusPtr(enums.OrderStatusPaid)})
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	err = f.svc.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
	assert.Empty(t, f.observer.failures)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "body", 2, "4.00", "9.00")
	valid := []LineInput{item(a.ID, 1, "9.00")}

	tests := []struct {
		name  string
		input CreateInput
	}{
		{name: "missing client", input: CreateInput{Status: "payee", Items: valid}},
		{name: "malformed client", input: CreateInput{ClientID: "nope", Status: "payee", Items: valid}},
		{name: "unknown client", input: CreateInput{ClientID: uuid.NewString(), Status: "payee", Items: valid}},
		{name: "missing status", input: CreateInput{ClientID: f.client.ID.String(), Items: valid}},
		{name: "invalid status", input: CreateInput{ClientID: f.client.ID.String(), Status: "rembourse", Items: valid}},
		{name: "no lines", input: CreateInput{ClientID: f.client.ID.String(), Status: "payee"}},
		{name: "only invalid lines", input: CreateInput{ClientID: f.client.ID.String(), Status: "payee", Items: []LineInput{item(a.ID, 0, "9.00")}}},
		{name: "malformed product", input: CreateInput{ClientID: f.client.ID.String(), Status: "payee", Items: []LineInput{{ProductID: "x", Quantity: NumberOf(1), UnitPrice: NumberOf(1)}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tc.input)
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
	assert.Equal(t, 2, dbtest.StockOf(t, f.conn, a.ID))
}

func TestInvalidLinesSkippedUnlessStrict(t *testing.T) {
	lenient := newFixture(t)
	a := dbtest.SeedProduct(t, lenient.conn, "body", 10, "4.00", "9.00")
	items := []LineInput{
		item(a.ID, 2, "1000"),
		{ProductID: a.ID.String(), Quantity: NumberOf("deux"), UnitPrice: NumberOf(10)},
	}

	orderID := lenient.create(t, enums.OrderStatusDelivered, "10%", items...)
	detail, err := lenient.svc.Get(context.Background(), orderID)
	require.NoError(t, err)
	assert.Len(t, detail.Lines, 1)
	assert.True(t, detail.Total.Equal(decimal.NewFromInt(1800)))
	assert.Equal(t, 8, dbtest.StockOf(t, lenient.conn, a.ID))

	strict := newFixture(t, withStrictLines())
	b := dbtest.SeedProduct(t, strict.conn, "body", 10, "4.00", "9.00")
	_, err = strict.svc.Create(context.Background(), CreateInput{
		ClientID: strict.client.ID.String(),
		Status:   string(enums.OrderStatusDelivered),
		Items: []LineInput{
			item(b.ID, 2, "1000"),
			{ProductID: b.ID.String(), Quantity: NumberOf("deux"), UnitPrice: NumberOf(10)},
		},
	})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, 10, dbtest.StockOf(t, strict.conn, b.ID))
}

func TestCheckoutSnapshotsCatalogPrices(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "body", 10, "4.00", "9.90")
	b := dbtest.SeedProduct(t, f.conn, "bonnet", 10, "2.00", "5.00")
	address := "5 avenue Foch"

	detail, err := f.svc.Checkout(context.Background(), CheckoutInput{
		ClientID: f.client.ID,
		Address:  &address,
		Items: []CheckoutLine{
			{ProductID: a.ID.String(), Quantity: NumberOf(2)},
			{ProductID: b.ID.String(), Quantity: NumberOf(1)},
			{ProductID: uuid.NewString(), Quantity: NumberOf(1)},
			{ProductID: "garbage", Quantity: NumberOf(1)},
			{ProductID: b.ID.String(), Quantity: NumberOf(-1)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, detail.Status)
	require.Len(t, detail.Lines, 2)
	assert.True(t, detail.Lines[0].UnitPrice.Equal(decimal.RequireFromString("9.90")))
	assert.True(t, detail.Total.Equal(decimal.RequireFromString("24.80")), "total %s", detail.Total)
	assert.Equal(t, 10, dbtest.StockOf(t, f.conn, a.ID))
	assert.Zero(t, f.revenueCount(t, detail.ID))

	mine, err := f.svc.ListForClient(context.Background(), f.client.ID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, mine.Orders, 1)
	assert.Equal(t, detail.ID, mine.Orders[0].ID)
	assert.Equal(t, 3, mine.Orders[0].TotalItems)

	_, err = f.svc.Checkout(context.Background(), CheckoutInput{ClientID: f.client.ID, Items: []CheckoutLine{{ProductID: uuid.NewString(), Quantity: NumberOf(1)}}})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestListFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "body", 50, "4.00", "9.00")
	f.create(t, enums.OrderStatusPending, "", item(a.ID, 1, "9.00"))
	paid := f.create(t, enums.OrderStatusPaid, "", item(a.ID, 1, "9.00"))

	status := enums.OrderStatusPaid
	list, err := f.svc.List(context.Background(), pagination.Params{Limit: 10}, ListFilters{Status: &status})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, paid, list.Orders[0].ID)
	assert.Empty(t, list.NextCursor)

	all, err := f.svc.List(context.Background(), pagination.Params{Limit: 1}, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all.Orders, 1)
	assert.NotEmpty(t, all.NextCursor)

	_, err = f.svc.List(context.Background(), pagination.Params{Cursor: "%%%"}, ListFilters{})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestBenefitsUseNetTotal(t *testing.T) {
	f := newFixture(t)
	a := dbtest.SeedProduct(t, f.conn, "gigoteuse", 10, "400", "1000")

	paid := f.create(t, enums.OrderStatusPaid, "10%", item(a.ID, 2, "1000"))
	f.create(t, enums.OrderStatusPending, "", item(a.ID, 1, "1000"))
	f.create(t, enums.OrderStatusDelivered, "", item(a.ID, 1, "1000"))

	benefits := f.svc.Benefits(context.Background())
	require.Len(t, benefits, 1)
	got := benefits[0]
	assert.Equal(t, paid, got.OrderID)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(1800)))
	assert.True(t, got.PurchaseTotal.Equal(decimal.NewFromInt(800)))
	assert.True(t, got.Benefit.Equal(decimal.NewFromInt(1000)))
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "gigoteuse", got.Lines[0].ProductName)
}

func TestBenefitsEmptyWhenNoRevenueOrders(t *testing.T) {
	f := newFixture(t)
	benefits := f.svc.Benefits(context.Background())
	assert.NotNil(t, benefits)
	assert.Empty(t, benefits)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceDeps{})
	require.Error(t, err)
}
