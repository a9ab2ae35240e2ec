package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"boba-pos/internal/database"
	"boba-pos/internal/models"
	"boba-pos/internal/orders"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- POST /api/orders ---
func CreateOrder(c *gin.Context) {
	var req orders.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid request body"})
		return
	}

	svc := orders.NewService(database.DB)
	receipt, err := svc.Checkout(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// --- POST /api/orders/:id/refund ---
func RefundOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid order id"})
		return
	}

	// Body is optional; an absent body means "refund everything".
	var req orders.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "refund amount must be numeric"})
		return
	}

	svc := orders.NewService(database.DB)
	result, err := svc.Refund(uint(id), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// --- GET /api/orders/:id ---
// Full order detail including line items and the payment ledger.
func GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid order id"})
		return
	}

	var order models.Order
	err = database.DB.
		Preload("Items").
		Preload("Items.Product").
		Preload("Payments").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "order not found"})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// --- GET /api/orders ---
// Paginated list: ?page=1&page_size=50&status=Complete
func ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	q := database.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		writeError(c, err)
		return
	}

	var rows []models.Order
	err := q.Order("order_time desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":    rows,
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

// --- GET /api/orders/recent ---
// Short ticker for the dashboard: the last few orders with their first item.
func RecentOrders(c *gin.Context) {
	var recent []models.Order
	err := database.DB.
		Preload("Items").
		Preload("Items.Product").
		Order("order_time desc").
		Limit(10).
		Find(&recent).Error
	if err != nil {
		writeError(c, err)
		return
	}

	type entry struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
		Time        string `json:"time"`
		TotalMoney  string `json:"total_money"`
	}
	out := make([]entry, 0, len(recent))
	for _, o := range recent {
		e := entry{
			Status:     o.Status,
			Time:       o.OrderTime.Format("3:04 PM"),
			TotalMoney: "$" + strconv.FormatFloat(o.Total, 'f', 2, 64),
		}
		if len(o.Items) > 0 {
			e.Title = o.Items[0].Product.Name
			e.Description = o.Items[0].Customizations
		}
		out = append(out, e)
	}
	c.JSON(http.StatusOK, gin.H{"transactions": out})
}
