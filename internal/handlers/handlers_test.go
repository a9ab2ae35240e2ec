package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"boba-pos/internal/database"
	"boba-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

// setup points database.DB at a seeded in-memory database and returns a
// router with the API routes mounted, auth middleware left off.
func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.Migrate(db)

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	require.NoError(t, db.Create([]*models.Product{
		{ID: 1, Name: "Brown Sugar Milk Tea", Category: "Milk Tea", BasePrice: 5.50, IsPopular: true},
		{ID: 2, Name: "Popcorn Chicken", Category: "Snacks", BasePrice: 6.00},
	}).Error)
	require.NoError(t, db.Create([]*models.InventoryItem{
		{ItemName: "Plastic Cups", CurrentStock: 50, MinThreshold: 10, Unit: "pcs"},
		{ItemName: "Cup Lids", CurrentStock: 50, MinThreshold: 10, Unit: "pcs"},
		{ItemName: "Straws", CurrentStock: 50, MinThreshold: 10, Unit: "pcs"},
	}).Error)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/products", GetProducts)
	api.POST("/products", AddProduct)
	api.PUT("/products/:id", UpdateProduct)
	api.DELETE("/products/:id", DeleteProduct)
	api.POST("/orders", CreateOrder)
	api.GET("/orders", ListOrders)
	api.GET("/orders/recent", RecentOrders)
	api.GET("/orders/:id", GetOrder)
	api.POST("/orders/:id/refund", RefundOrder)
	api.GET("/inventory", ListInventory)
	api.POST("/inventory", AddInventoryItem)
	api.PUT("/inventory/:id/restock", RestockInventoryItem)
	api.GET("/employees", ListCashiers)
	api.POST("/employees", AddCashier)
	api.DELETE("/employees/:id", DeleteCashier)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrderEndpoint(t *testing.T) {
	r := setup(t)

	w := doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"items":   []gin.H{{"product_id": 1, "quantity": 2}},
		"payment": gin.H{"method": "cash", "amount": 11.89},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		OrderID  uint    `json:"order_id"`
		Subtotal float64 `json:"subtotal"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 11.00, resp.Subtotal)
	assert.Equal(t, 0.91, resp.Tax)
	assert.Equal(t, 11.91, resp.Total)

	// detail endpoint returns items and the payment ledger
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/orders/%d", resp.OrderID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Brown Sugar Milk Tea", order.Items[0].Product.Name)
	require.Len(t, order.Payments, 1)
}

func TestCreateOrderValidationErrors(t *testing.T) {
	r := setup(t)

	// empty cart
	w := doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"items":   []gin.H{},
		"payment": gin.H{"method": "cash", "amount": 5},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown product
	w = doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"items":   []gin.H{{"product_id": 777, "quantity": 1}},
		"payment": gin.H{"method": "cash", "amount": 5},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "777")

	// bad size
	w = doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"items":   []gin.H{{"product_id": 1, "quantity": 1, "size": "Grande"}},
		"payment": gin.H{"method": "cash", "amount": 5},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// nothing was persisted by any of the failures
	var n int64
	require.NoError(t, database.DB.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRefundEndpoint(t *testing.T) {
	r := setup(t)

	w := doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"items":   []gin.H{{"product_id": 1, "quantity": 1}},
		"payment": gin.H{"method": "card", "amount": 5.95},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		OrderID uint `json:"order_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/orders/%d/refund", created.OrderID), gin.H{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"Refunded"`)

	// second refund: nothing left
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/orders/%d/refund", created.OrderID), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown order is a 404, distinct from bad input
	w = doJSON(t, r, http.MethodPost, "/api/orders/9999/refund", gin.H{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefundRejectsNonNumericAmount(t *testing.T) {
	r := setup(t)

	w := doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"items":   []gin.H{{"product_id": 1, "quantity": 1}},
		"payment": gin.H{"method": "cash", "amount": 5.95},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/orders/1/refund", gin.H{"amount": "ten dollars"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "numeric")
}

func TestProductsGroupedByCategory(t *testing.T) {
	r := setup(t)

	w := doJSON(t, r, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var grouped map[string][]models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grouped))
	require.Len(t, grouped["Milk Tea"], 1)
	require.Len(t, grouped["Snacks"], 1)
	assert.Equal(t, "Brown Sugar Milk Tea", grouped["Milk Tea"][0].Name)
}

func TestProductCRUD(t *testing.T) {
	r := setup(t)

	w := doJSON(t, r, http.MethodPost, "/api/products", gin.H{
		"name": "Taro Milk Tea", "category": "Milk Tea", "base_price": 5.75,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/products/%d", created.ID), gin.H{
		"base_price": 6.25, "is_popular": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Product
	require.NoError(t, database.DB.First(&reloaded, created.ID).Error)
	assert.Equal(t, 6.25, reloaded.BasePrice)
	assert.True(t, reloaded.IsPopular)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/products/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Error(t, database.DB.First(&models.Product{}, created.ID).Error)

	// missing required fields
	w = doJSON(t, r, http.MethodPost, "/api/products", gin.H{"name": "No price"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestockEndpoint(t *testing.T) {
	r := setup(t)

	var cups models.InventoryItem
	require.NoError(t, database.DB.Where("item_name = ?", "Plastic Cups").First(&cups).Error)
	require.Nil(t, cups.LastRestockDate)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/inventory/%d/restock", cups.ID), gin.H{"quantity": 25})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, database.DB.First(&cups, cups.ID).Error)
	assert.Equal(t, 75.0, cups.CurrentStock)
	assert.NotNil(t, cups.LastRestockDate)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/inventory/%d/restock", cups.ID), gin.H{"quantity": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryLowStockFlag(t *testing.T) {
	r := setup(t)

	require.NoError(t, database.DB.Model(&models.InventoryItem{}).
		Where("item_name = ?", "Straws").
		Update("current_stock", 3).Error)

	w := doJSON(t, r, http.MethodGet, "/api/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []struct {
		models.InventoryItem
		LowStock bool `json:"low_stock"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	byName := map[string]bool{}
	for _, row := range rows {
		byName[row.ItemName] = row.LowStock
	}
	assert.True(t, byName["Straws"])
	assert.False(t, byName["Plastic Cups"])
}

func TestDeleteCashierDetachesOrders(t *testing.T) {
	r := setup(t)

	w := doJSON(t, r, http.MethodPost, "/api/employees", gin.H{
		"name": "Benjamin", "employee_code": "B-01", "role": "cashier",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"cashier_id": created.ID,
		"items":      []gin.H{{"product_id": 1, "quantity": 1}},
		"payment":    gin.H{"method": "cash", "amount": 5.95},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/employees/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	require.NoError(t, database.DB.First(&order).Error)
	assert.Nil(t, order.CashierID, "order should survive with cashier detached")
}

func TestRecentOrdersTicker(t *testing.T) {
	r := setup(t)

	w := doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"items":   []gin.H{{"product_id": 1, "quantity": 1, "size": "Large", "customizations": "XTRA boba"}},
		"payment": gin.H{"method": "cash", "amount": 7.50},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/orders/recent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Brown Sugar Milk Tea")
	assert.Contains(t, w.Body.String(), "Size: Large; XTRA boba")
}
