package dashboard

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oceannemj/site-web-JKM/pkg/db/dbtest"
	"github.com/oceannemj/site-web-JKM/pkg/db/models"
	"github.com/oceannemj/site-web-JKM/pkg/enums"
	"github.com/oceannemj/site-web-JKM/pkg/logger"
	pkgredis "github.com/oceannemj/site-web-JKM/pkg/redis"
)

type memoryCache struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	if m.failGet {
		return "", errors.New("connection refused")
	}
	v, ok := m.data[key]
	if !ok {
		return "", pkgredis.Nil
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.data[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *memoryCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryCache) Incr(_ context.Context, key string) (int64, error) {
	n, _ := strconv.ParseInt(m.data[key], 10, 64)
	n++
	m.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (m *memoryCache) DashboardKey(view string) string {
	return "test:dashboard:" + view
}

type cacheCounter map[string]int

func (c cacheCounter) ObserveCache(result string) { c[result]++ }

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "dashboard-test", Output: io.Discard})
}

func seedOrder(t *testing.T, conn *gorm.DB, client models.Client, status enums.OrderStatus, total string, createdAt time.Time, lines ...models.OrderLine) models.Order {
	t.Helper()
	order := models.Order{
		ID:         uuid.New(),
		ClientID:   client.ID,
		Status:     status,
		GrossTotal: decimal.RequireFromString(total),
		Discount:   decimal.Zero,
		Total:      decimal.RequireFromString(total),
		CreatedAt:  createdAt,
	}
	require.NoError(t, conn.Create(&order).Error)
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].OrderID = order.ID
		require.NoError(t, conn.Create(&lines[i]).Error)
	}
	return order
}

func line(product models.Product, qty int) models.OrderLine {
	return models.OrderLine{ProductID: product.ID, Quantity: qty, UnitPrice: product.SalePrice}
}

func TestStats_Aggregates(t *testing.T) {
	conn := dbtest.Open(t)
	now := time.Now()

	body := dbtest.SeedProduct(t, conn, "Body coton", 3, "4", "10")
	bonnet := dbtest.SeedProduct(t, conn, "Bonnet", 20, "2", "5")
	alice := dbtest.SeedClient(t, conn, "alice")
	bob := dbtest.SeedClient(t, conn, "bob")

	seedOrder(t, conn, alice, enums.OrderStatusPaid, "100.5", now, line(body, 5))
	seedOrder(t, conn, alice, enums.OrderStatusShipped, "200", now, line(bonnet, 2))
	seedOrder(t, conn, bob, enums.OrderStatusDelivered, "50", now, line(bonnet, 10))
	seedOrder(t, conn, bob, enums.OrderStatusPending, "75", now)
	seedOrder(t, conn, bob, enums.OrderStatusPaid, "30", now.Add(-10*24*time.Hour))

	svc, err := NewService(ServiceDeps{Repo: NewRepository(conn), Logger: quietLogger()})
	require.NoError(t, err)

	stats := svc.Stats(context.Background())
	require.NotNil(t, stats)

	assert.True(t, decimal.RequireFromString("330.5").Equal(stats.Revenue), "revenue %s", stats.Revenue)
	assert.EqualValues(t, 5, stats.Orders)
	assert.EqualValues(t, 2, stats.Products)
	assert.EqualValues(t, 2, stats.Clients)
	assert.EqualValues(t, 1, stats.PendingOrders)
	assert.EqualValues(t, 1, stats.CriticalStock)

	require.Len(t, stats.DailyRevenue, 1)
	assert.Equal(t, now.Format(dayLayout), stats.DailyRevenue[0].Date)
	assert.Equal(t, 3, stats.DailyRevenue[0].Orders)
	assert.True(t, decimal.RequireFromString("350.5").Equal(stats.DailyRevenue[0].Revenue))

	require.NotNil(t, stats.TopProduct)
	assert.Equal(t, body.ID, stats.TopProduct.ProductID)
	assert.EqualValues(t, 5, stats.TopProduct.Quantity)

	require.Len(t, stats.BestCustomers, 2)
	assert.Equal(t, alice.ID, stats.BestCustomers[0].ClientID)
	assert.EqualValues(t, 2, stats.BestCustomers[0].Orders)
	assert.True(t, decimal.RequireFromString("300.5").Equal(stats.BestCustomers[0].Spent))
}

func TestStats_EmptyStore(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(ServiceDeps{Repo: NewRepository(conn)})
	require.NoError(t, err)

	stats := svc.Stats(context.Background())
	assert.True(t, stats.Revenue.IsZero())
	assert.Nil(t, stats.TopProduct)
	assert.Empty(t, stats.DailyRevenue)
	assert.NotNil(t, stats.BestCustomers)
}

func TestNotifications(t *testing.T) {
	conn := dbtest.Open(t)
	dbtest.SeedProduct(t, conn, "Chaussons", 0, "3", "9")
	dbtest.SeedProduct(t, conn, "Gigoteuse", 4, "15", "35")
	dbtest.SeedProduct(t, conn, "Couverture", 40, "10", "25")
	client := dbtest.SeedClient(t, conn, "carla")
	seedOrder(t, conn, client, enums.OrderStatusPending, "20", time.Now())

	svc, err := NewService(ServiceDeps{Repo: NewRepository(conn), Logger: quietLogger()})
	require.NoError(t, err)

	notes := svc.Notifications(context.Background())
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID)
	}

	require.Len(t, notes, 5)
	assert.Equal(t, NotificationWarning, notes[0].Type)
	assert.Contains(t, notes[0].Message, "Chaussons")
	assert.Contains(t, notes[1].Message, "Gigoteuse")
	assert.Contains(t, ids, "orders-pending")
	assert.Contains(t, ids, "orders-recent")
	assert.Contains(t, ids, "stock-out")
}

func TestStats_CachedUntilInvalidated(t *testing.T) {
	conn := dbtest.Open(t)
	dbtest.SeedProduct(t, conn, "Body", 12, "4", "10")

	cache := newMemoryCache()
	counter := cacheCounter{}
	svc, err := NewService(ServiceDeps{
		Repo:    NewRepository(conn),
		Cache:   cache,
		Metrics: counter,
		Options: Options{CacheTTL: 30 * time.Second},
	})
	require.NoError(t, err)
	ctx := context.Background()

	first := svc.Stats(ctx)
	assert.EqualValues(t, 1, first.Products)
	assert.Equal(t, 30*time.Second, cache.ttls[cache.DashboardKey(viewStats+":0")])

	dbtest.SeedProduct(t, conn, "Bavoir", 12, "1", "4")
	cached := svc.Stats(ctx)
	assert.EqualValues(t, 1, cached.Products)
	assert.Equal(t, 1, counter[cacheMiss])
	assert.Equal(t, 1, counter[cacheHit])

	require.NoError(t, svc.Invalidate(ctx))
	fresh := svc.Stats(ctx)
	assert.EqualValues(t, 2, fresh.Products)
	assert.Equal(t, 2, counter[cacheMiss])
}

func TestInvalidateDuringComputeDropsStaleSnapshot(t *testing.T) {
	cache := newMemoryCache()
	svc, err := NewService(ServiceDeps{Repo: NewRepository(dbtest.Open(t)), Cache: cache})
	require.NoError(t, err)
	s := svc.(*service)
	ctx := context.Background()

	stale := load(ctx, s, viewStats, func(ctx context.Context) int {
		require.NoError(t, svc.Invalidate(ctx))
		return 1
	})
	assert.Equal(t, 1, stale)

	fresh := load(ctx, s, viewStats, func(context.Context) int { return 2 })
	assert.Equal(t, 2, fresh)
	cached := load(ctx, s, viewStats, func(context.Context) int { return 3 })
	assert.Equal(t, 2, cached)
	assert.Equal(t, "1", cache.data[cache.DashboardKey(generationView)])
}

func TestStats_CacheReadFailureFallsBack(t *testing.T) {
	conn := dbtest.Open(t)
	dbtest.SeedProduct(t, conn, "Body", 12, "4", "10")

	cache := newMemoryCache()
	cache.failGet = true
	counter := cacheCounter{}
	svc, err := NewService(ServiceDeps{Repo: NewRepository(conn), Cache: cache, Metrics: counter, Logger: quietLogger()})
	require.NoError(t, err)

	stats := svc.Stats(context.Background())
	assert.EqualValues(t, 1, stats.Products)
	assert.Equal(t, 1, counter[cacheError])
}

func TestInvalidate_WithoutCache(t *testing.T) {
	svc, err := NewService(ServiceDeps{Repo: NewRepository(dbtest.Open(t))})
	require.NoError(t, err)
	assert.NoError(t, svc.Invalidate(context.Background()))
}

type failingRepository struct{}

var errDown = errors.New("database unavailable")

func (failingRepository) Revenue(context.Context, []enums.OrderStatus) (decimal.Decimal, error) {
	return decimal.Decimal{}, errDown
}
func (failingRepository) CountOrders(context.Context) (int64, error) { return 0, errDown }
func (failingRepository) CountOrdersByStatus(context.Context, enums.OrderStatus) (int64, error) {
	return 0, errDown
}
func (failingRepository) CountOrdersSince(context.Context, time.Time) (int64, error) {
	return 0, errDown
}
func (failingRepository) CountProducts(context.Context) (int64, error)        { return 0, errDown }
func (failingRepository) CountClients(context.Context) (int64, error)         { return 0, errDown }
func (failingRepository) CountStockBelow(context.Context, int) (int64, error) { return 0, errDown }
func (failingRepository) RevenueOrdersSince(context.Context, []enums.OrderStatus, time.Time) ([]models.Order, error) {
	return nil, errDown
}
func (failingRepository) TopProduct(context.Context, []enums.OrderStatus) (*TopProduct, error) {
	return nil, errDown
}
func (failingRepository) BestCustomers(context.Context, []enums.OrderStatus, int) ([]Customer, error) {
	return nil, errDown
}
func (failingRepository) LowStock(context.Context, int, int) ([]models.Product, error) {
	return nil, errDown
}

func TestStats_DegradesToZeroValues(t *testing.T) {
	svc, err := NewService(ServiceDeps{Repo: failingRepository{}, Logger: quietLogger()})
	require.NoError(t, err)

	stats := svc.Stats(context.Background())
	assert.True(t, stats.Revenue.IsZero())
	assert.Zero(t, stats.Orders)
	assert.Empty(t, stats.DailyRevenue)
	assert.Empty(t, stats.BestCustomers)
	assert.Nil(t, stats.TopProduct)

	assert.Empty(t, svc.Notifications(context.Background()))
}

func TestNewService_RequiresRepository(t *testing.T) {
	_, err := NewService(ServiceDeps{})
	assert.Error(t, err)
}
