package handlers

import (
	"net/http"
	"time"

	"boba-pos/internal/database"

	"github.com/gin-gonic/gin"
)

// --- GET /api/reports ---
func ReportsIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"reports": []string{"x-report", "z-report", "summary", "weekly-items", "daily-top"},
	})
}

// --- GET /api/reports/x-report ---
// Hourly breakdown since the last Z closure.
func GetXReport(c *gin.Context) {
	buckets, err := database.GetXReport(time.Now().UTC())
	if err != nil {
		writeError(c, err)
		return
	}
	if buckets == nil {
		buckets = []database.HourlyBucket{}
	}
	c.JSON(http.StatusOK, buckets)
}

// --- POST /api/reports/z-report ---
// Period summary since the last closure. Body {"reset": bool}, default true:
// reset writes the closure row that starts the next period.
func RunZReport(c *gin.Context) {
	var body struct {
		Reset *bool `json:"reset"`
	}
	_ = c.ShouldBindJSON(&body)
	reset := true
	if body.Reset != nil {
		reset = *body.Reset
	}

	summary, err := database.RunZReport(reset, time.Now().UTC())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"period_start":    summary.PeriodStart,
		"period_end":      summary.PeriodEnd,
		"gross_sales":     summary.GrossSales,
		"tax_total":       summary.TaxTotal,
		"orders_total":    summary.OrdersTotal,
		"returns_total":   summary.ReturnsTotal,
		"cash_total":      summary.CashTotal,
		"card_total":      summary.CardTotal,
		"other_total":     summary.OtherTotal,
		"reset_performed": reset,
	})
}

// --- GET /api/reports/summary?from=YYYY-MM-DD&to=YYYY-MM-DD ---
func GetSummary(c *gin.Context) {
	const layout = "2006-01-02"
	now := time.Now().UTC()

	from := now.AddDate(0, 0, -30)
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "from must be YYYY-MM-DD"})
			return
		}
		from = t
	}
	to := now
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "to must be YYYY-MM-DD"})
			return
		}
		// inclusive end of day
		to = t.AddDate(0, 0, 1).Add(-time.Second)
	}

	gross, count, err := database.GetSummary(from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"from":        from.Format(layout),
		"to":          to.Format(layout),
		"gross_sales": gross,
		"orders":      count,
	})
}

// --- GET /api/reports/weekly-items ---
func GetWeeklyItems(c *gin.Context) {
	rows, err := database.GetWeeklyItems(time.Now().UTC())
	if err != nil {
		writeError(c, err)
		return
	}
	if rows == nil {
		rows = []database.ItemCount{}
	}
	c.JSON(http.StatusOK, rows)
}

// --- GET /api/reports/daily-top ---
func GetDailyTop(c *gin.Context) {
	rows, err := database.GetDailyTop(7, time.Now().UTC())
	if err != nil {
		writeError(c, err)
		return
	}
	if rows == nil {
		rows = []database.DailyTop{}
	}
	c.JSON(http.StatusOK, rows)
}
