package database

import (
	"errors"
	"sort"
	"time"

	"boba-pos/internal/models"

	"gorm.io/gorm"
)

// HourlyBucket is one row of the X report: activity during a single hour of
// the current register period.
type HourlyBucket struct {
	Hour    int     `json:"hour"`
	Sales   float64 `json:"sales"`
	Orders  int64   `json:"orders"`
	Returns float64 `json:"returns"`
	Cash    float64 `json:"cash"`
	Card    float64 `json:"card"`
	Other   float64 `json:"other"`
}

// ZSummary totals a register period (since the previous Z closure).
type ZSummary struct {
	PeriodStart  *time.Time `json:"period_start"`
	PeriodEnd    time.Time  `json:"period_end"`
	GrossSales   float64    `json:"gross_sales"`
	TaxTotal     float64    `json:"tax_total"`
	OrdersTotal  int64      `json:"orders_total"`
	ReturnsTotal float64    `json:"returns_total"`
	CashTotal    float64    `json:"cash_total"`
	CardTotal    float64    `json:"card_total"`
	OtherTotal   float64    `json:"other_total"`
}

// ItemCount pairs a product name with a sold-quantity tally (pie chart rows).
type ItemCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// DailyTop is the best-selling item for one calendar day (bar chart rows).
type DailyTop struct {
	Day   string `json:"day"`
	Item  string `json:"item"`
	Value int64  `json:"value"`
}

// LastClosureTime returns the newest Z-closure timestamp, or ok=false when
// the register has never been closed.
func LastClosureTime() (time.Time, bool, error) {
	var z models.ZClosure
	err := DB.Order("closed_at desc").First(&z).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return z.ClosedAt, true, nil
}

// hourExpr extracts the hour from a datetime column in whatever dialect the
// connection speaks. SQLite has no HOUR().
func hourExpr(col string) string {
	if DB.Dialector.Name() == "sqlite" {
		return "CAST(strftime('%H', " + col + ") AS INTEGER)"
	}
	return "HOUR(" + col + ")"
}

// tenderSelect builds the per-method SUM(CASE ...) columns shared by the X
// report and the Z summary. Negative rows are refunds, counted separately.
const tenderSelect = `
	COALESCE(SUM(CASE WHEN amount_paid < 0 THEN -amount_paid ELSE 0 END), 0) AS returns,
	COALESCE(SUM(CASE WHEN payment_method = 'cash' AND amount_paid > 0 THEN amount_paid ELSE 0 END), 0) AS cash,
	COALESCE(SUM(CASE WHEN payment_method = 'card' AND amount_paid > 0 THEN amount_paid ELSE 0 END), 0) AS card,
	COALESCE(SUM(CASE WHEN payment_method NOT IN ('cash','card') AND amount_paid > 0 THEN amount_paid ELSE 0 END), 0) AS other`

// GetXReport aggregates orders and payments per hour since the last Z
// closure (or all time, before the first closure).
func GetXReport(now time.Time) ([]HourlyBucket, error) {
	since, hasClosure, err := LastClosureTime()
	if err != nil {
		return nil, err
	}

	buckets := map[int]*HourlyBucket{}
	get := func(h int) *HourlyBucket {
		if b, ok := buckets[h]; ok {
			return b
		}
		b := &HourlyBucket{Hour: h}
		buckets[h] = b
		return b
	}

	var orderRows []struct {
		Hour   int
		Sales  float64
		Orders int64
	}
	q := DB.Model(&models.Order{}).
		Select(hourExpr("order_time") + " AS hour, COALESCE(SUM(total), 0) AS sales, COUNT(*) AS orders").
		Group("hour")
	if hasClosure {
		q = q.Where("order_time > ?", since)
	}
	if err := q.Scan(&orderRows).Error; err != nil {
		return nil, err
	}
	for _, r := range orderRows {
		b := get(r.Hour)
		b.Sales = r.Sales
		b.Orders = r.Orders
	}

	var payRows []struct {
		Hour    int
		Returns float64
		Cash    float64
		Card    float64
		Other   float64
	}
	q = DB.Model(&models.Payment{}).
		Select(hourExpr("payment_time") + " AS hour, " + tenderSelect).
		Group("hour")
	if hasClosure {
		q = q.Where("payment_time > ?", since)
	}
	if err := q.Scan(&payRows).Error; err != nil {
		return nil, err
	}
	for _, r := range payRows {
		b := get(r.Hour)
		b.Returns = r.Returns
		b.Cash = r.Cash
		b.Card = r.Card
		b.Other = r.Other
	}

	out := make([]HourlyBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}

// RunZReport totals the period since the last closure. With reset=true a new
// ZClosure row is written, which becomes the start boundary of the next
// period.
func RunZReport(reset bool, now time.Time) (*ZSummary, error) {
	since, hasClosure, err := LastClosureTime()
	if err != nil {
		return nil, err
	}

	summary := &ZSummary{PeriodEnd: now}
	if hasClosure {
		t := since
		summary.PeriodStart = &t
	}

	oq := DB.Model(&models.Order{})
	pq := DB.Model(&models.Payment{})
	if hasClosure {
		oq = oq.Where("order_time > ?", since)
		pq = pq.Where("payment_time > ?", since)
	}

	var oRow struct {
		Gross  float64
		Tax    float64
		Orders int64
	}
	err = oq.Select("COALESCE(SUM(total), 0) AS gross, COALESCE(SUM(tax), 0) AS tax, COUNT(*) AS orders").
		Scan(&oRow).Error
	if err != nil {
		return nil, err
	}
	summary.GrossSales = oRow.Gross
	summary.TaxTotal = oRow.Tax
	summary.OrdersTotal = oRow.Orders

	var pRow struct {
		Returns float64
		Cash    float64
		Card    float64
		Other   float64
	}
	if err := pq.Select(tenderSelect).Scan(&pRow).Error; err != nil {
		return nil, err
	}
	summary.ReturnsTotal = pRow.Returns
	summary.CashTotal = pRow.Cash
	summary.CardTotal = pRow.Card
	summary.OtherTotal = pRow.Other

	if reset {
		if err := DB.Create(&models.ZClosure{ClosedAt: now}).Error; err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// GetSummary returns gross sales and order count for a date range.
func GetSummary(from, to time.Time) (float64, int64, error) {
	var row struct {
		Gross  float64
		Orders int64
	}
	err := DB.Model(&models.Order{}).
		Where("order_time BETWEEN ? AND ?", from, to).
		Select("COALESCE(SUM(total), 0) AS gross, COUNT(*) AS orders").
		Scan(&row).Error
	return row.Gross, row.Orders, err
}

// GetWeeklyItems returns the item mix sold over the last 7 days.
func GetWeeklyItems(now time.Time) ([]ItemCount, error) {
	var rows []ItemCount
	err := DB.Table("order_items").
		Select("products.name AS name, SUM(order_items.quantity) AS value").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.order_time > ?", now.AddDate(0, 0, -7)).
		Group("products.name").
		Order("value desc").
		Scan(&rows).Error
	return rows, err
}

// GetDailyTop returns the best-selling item per day for the last `days` days.
// The per-day winner is picked in Go; greatest-per-group SQL is not worth the
// dialect trouble.
func GetDailyTop(days int, now time.Time) ([]DailyTop, error) {
	var rows []struct {
		Day   string
		Name  string
		Value int64
	}
	err := DB.Table("order_items").
		Select("DATE(orders.order_time) AS day, products.name AS name, SUM(order_items.quantity) AS value").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.order_time > ?", now.AddDate(0, 0, -days)).
		Group("day, products.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	best := map[string]DailyTop{}
	for _, r := range rows {
		if cur, ok := best[r.Day]; !ok || r.Value > cur.Value {
			best[r.Day] = DailyTop{Day: r.Day, Item: r.Name, Value: r.Value}
		}
	}
	out := make([]DailyTop, 0, len(best))
	for _, v := range best {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}
