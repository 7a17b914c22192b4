// Package dbtest opens isolated in-memory SQLite databases carrying the full
// application schema for package tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oceannemj/site-web-JKM/pkg/db"
	"github.com/oceannemj/site-web-JKM/pkg/db/models"
)

// Open returns a fresh in-memory database with every model migrated.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:layette_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

// Client wraps Open in a db.Client.
func Client(t *testing.T) (*db.Client, *gorm.DB) {
	t.Helper()
	conn := Open(t)
	return db.NewFromConn(conn), conn
}

// SeedProduct inserts a product with the given stock and prices.
func SeedProduct(t *testing.T, conn *gorm.DB, name string, stock int, purchase, sale string) models.Product {
	t.Helper()
	product := models.Product{
		ID:            uuid.New(),
		Name:          name,
		PurchasePrice: decimal.RequireFromString(purchase),
		SalePrice:     decimal.RequireFromString(sale),
		Stock:         stock,
	}
	require.NoError(t, conn.Create(&product).Error)
	return product
}

// SeedClient inserts a client with a unique email.
func SeedClient(t *testing.T, conn *gorm.DB, firstName string) models.Client {
	t.Helper()
	client := models.Client{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  "Test",
		Email:     firstName + "-" + uuid.NewString() + "@example.com",
	}
	require.NoError(t, conn.Create(&client).Error)
	return client
}

// StockOf reads the current stock counter of a product.
func StockOf(t *testing.T, conn *gorm.DB, productID uuid.UUID) int {
	t.Helper()
	var product models.Product
	require.NoError(t, conn.First(&product, "id = ?", productID).Error)
	return product.Stock
}
