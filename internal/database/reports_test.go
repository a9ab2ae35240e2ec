package database

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"boba-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

// useMemDB points the package-level DB at a fresh in-memory database for the
// duration of one test.
func useMemDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:reports_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	Migrate(db)

	prev := DB
	DB = db
	t.Cleanup(func() { DB = prev })
}

func seedOrder(t *testing.T, at time.Time, total, tax float64, method string) models.Order {
	t.Helper()
	order := models.Order{
		Subtotal:  total - tax,
		Tax:       tax,
		Total:     total,
		OrderTime: at,
		Status:    models.OrderStatusComplete,
	}
	require.NoError(t, DB.Create(&order).Error)
	require.NoError(t, DB.Create(&models.Payment{
		OrderID:       order.ID,
		AmountPaid:    total,
		PaymentMethod: method,
		PaymentTime:   at,
	}).Error)
	return order
}

func TestXReportBucketsByHour(t *testing.T) {
	useMemDB(t)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seedOrder(t, day.Add(9*time.Hour+5*time.Minute), 10.00, 0.76, "cash")
	seedOrder(t, day.Add(9*time.Hour+40*time.Minute), 20.00, 1.52, "card")
	seedOrder(t, day.Add(14*time.Hour), 5.00, 0.38, "other")

	buckets, err := GetXReport(time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, 9, buckets[0].Hour)
	assert.Equal(t, int64(2), buckets[0].Orders)
	assert.InDelta(t, 30.00, buckets[0].Sales, 0.001)
	assert.InDelta(t, 10.00, buckets[0].Cash, 0.001)
	assert.InDelta(t, 20.00, buckets[0].Card, 0.001)

	assert.Equal(t, 14, buckets[1].Hour)
	assert.InDelta(t, 5.00, buckets[1].Other, 0.001)
}

func TestXReportStartsAtLastClosure(t *testing.T) {
	useMemDB(t)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seedOrder(t, day.Add(8*time.Hour), 99.00, 7.54, "cash") // before the close
	require.NoError(t, DB.Create(&models.ZClosure{ClosedAt: day.Add(12 * time.Hour)}).Error)
	seedOrder(t, day.Add(13*time.Hour), 10.00, 0.76, "cash")

	buckets, err := GetXReport(time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, 13, buckets[0].Hour)
	assert.InDelta(t, 10.00, buckets[0].Sales, 0.001)
}

func TestZReportResetMovesBoundary(t *testing.T) {
	useMemDB(t)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	order := seedOrder(t, day.Add(10*time.Hour), 20.00, 1.52, "cash")

	// refund shows up in returns_total
	require.NoError(t, DB.Create(&models.Payment{
		OrderID:       order.ID,
		AmountPaid:    -4.00,
		PaymentMethod: "cash",
		PaymentTime:   day.Add(11 * time.Hour),
	}).Error)

	now := day.Add(15 * time.Hour)
	summary, err := RunZReport(true, now)
	require.NoError(t, err)
	assert.Nil(t, summary.PeriodStart)
	assert.InDelta(t, 20.00, summary.GrossSales, 0.001)
	assert.InDelta(t, 1.52, summary.TaxTotal, 0.001)
	assert.Equal(t, int64(1), summary.OrdersTotal)
	assert.InDelta(t, 4.00, summary.ReturnsTotal, 0.001)
	assert.InDelta(t, 20.00, summary.CashTotal, 0.001)

	// the closure row just written bounds the next period
	summary2, err := RunZReport(false, now.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, summary2.PeriodStart)
	assert.Zero(t, summary2.OrdersTotal)
	assert.InDelta(t, 0, summary2.GrossSales, 0.001)
}

func TestSummaryRange(t *testing.T) {
	useMemDB(t)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seedOrder(t, day.Add(10*time.Hour), 12.00, 0.91, "cash")
	seedOrder(t, day.AddDate(0, 0, 5), 30.00, 2.29, "card")

	gross, count, err := GetSummary(day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.InDelta(t, 12.00, gross, 0.001)
}

func TestWeeklyItemsAndDailyTop(t *testing.T) {
	useMemDB(t)

	require.NoError(t, DB.Create([]*models.Product{
		{ID: 1, Name: "Brown Sugar Milk Tea", Category: "Milk Tea", BasePrice: 5.50},
		{ID: 2, Name: "Strawberry Fruit Tea", Category: "Fruit Tea", BasePrice: 5.25},
	}).Error)

	now := time.Now().UTC()
	recent := seedOrder(t, now.Add(-24*time.Hour), 22.00, 1.68, "cash")
	require.NoError(t, DB.Create([]*models.OrderItem{
		{OrderID: recent.ID, ProductID: 1, Quantity: 3, LinePrice: 16.50},
		{OrderID: recent.ID, ProductID: 2, Quantity: 1, LinePrice: 5.25},
	}).Error)

	stale := seedOrder(t, now.AddDate(0, 0, -20), 5.25, 0.40, "cash")
	require.NoError(t, DB.Create(&models.OrderItem{
		OrderID: stale.ID, ProductID: 2, Quantity: 9, LinePrice: 47.25,
	}).Error)

	items, err := GetWeeklyItems(now)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Brown Sugar Milk Tea", items[0].Name)
	assert.Equal(t, int64(3), items[0].Value)

	top, err := GetDailyTop(7, now)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Brown Sugar Milk Tea", top[0].Item)
	assert.Equal(t, int64(3), top[0].Value)
}
