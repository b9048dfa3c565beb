package services

import (
	"testing"
	"time"

	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(n int) *int { return &n }

func createProduct(t *testing.T, db *gorm.DB, name, price string, sizes models.SizeInventory) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       dec(price),
		Image:       "https://img.example/" + name + ".jpg",
		Category:    "Dresses",
		Stock:       10,
		Sizes:       sizes,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func createCoupon(t *testing.T, db *gorm.DB, c models.Coupon) *models.Coupon {
	t.Helper()
	if c.ValidFrom.IsZero() {
		c.ValidFrom = time.Now().Add(-time.Hour)
	}
	require.NoError(t, db.Create(&c).Error)
	return &c
}

func testSession(userID string) utils.Session {
	return utils.Session{UserID: userID, Email: userID + "@example.com", Name: "Raven " + userID}
}

func addToCart(t *testing.T, db *gorm.DB, userID string, p *models.Product, qty int, size string) *models.CartItem {
	t.Helper()
	item, err := AddToCart(db, userID, p.ID, qty, size)
	require.NoError(t, err)
	return item
}

func outboxKinds(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var kinds []string
	require.NoError(t, db.Model(&models.OutboxMessage{}).Order("id").Pluck("kind", &kinds).Error)
	return kinds
}

func appErrCode(err error) int {
	if appErr := utils.GetAppError(err); appErr != nil {
		return appErr.Code
	}
	return 0
}
