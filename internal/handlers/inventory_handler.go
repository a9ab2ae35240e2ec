package handlers

import (
	"net/http"
	"strconv"
	"time"

	"boba-pos/internal/database"
	"boba-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET /api/inventory ---
// The manager table wants a derived low-stock flag next to each row.
func ListInventory(c *gin.Context) {
	var items []models.InventoryItem
	if err := database.DB.Order("item_name").Find(&items).Error; err != nil {
		writeError(c, err)
		return
	}

	type row struct {
		models.InventoryItem
		LowStock bool `json:"low_stock"`
	}
	out := make([]row, 0, len(items))
	for _, it := range items {
		out = append(out, row{InventoryItem: it, LowStock: it.CurrentStock < it.MinThreshold})
	}
	c.JSON(http.StatusOK, out)
}

// --- POST /api/inventory ---
func AddInventoryItem(c *gin.Context) {
	var body struct {
		ItemName     string   `json:"item_name" binding:"required"`
		CurrentStock *float64 `json:"current_stock" binding:"required"`
		MinThreshold *float64 `json:"min_threshold" binding:"required"`
		Unit         string   `json:"unit" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "item_name, current_stock, min_threshold, and unit are required"})
		return
	}
	if *body.CurrentStock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "current_stock cannot be negative"})
		return
	}

	item := models.InventoryItem{
		ItemName:     body.ItemName,
		CurrentStock: *body.CurrentStock,
		MinThreshold: *body.MinThreshold,
		Unit:         body.Unit,
	}
	if err := database.DB.Create(&item).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// --- PUT /api/inventory/:id ---
func UpdateInventoryItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid inventory id"})
		return
	}

	var item models.InventoryItem
	if err := database.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "inventory item not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid request body"})
		return
	}
	allowed := map[string]bool{"item_name": true, "current_stock": true, "min_threshold": true, "unit": true}
	for k := range updateData {
		if !allowed[k] {
			delete(updateData, k)
		}
	}
	if v, ok := updateData["current_stock"].(float64); ok && v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "current_stock cannot be negative"})
		return
	}

	if err := database.DB.Model(&item).Updates(updateData).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// --- PUT /api/inventory/:id/restock ---
// Adds quantity on top of current stock and stamps the restock date.
func RestockInventoryItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid inventory id"})
		return
	}

	var body struct {
		Quantity *float64 `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || *body.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "quantity must be a positive number"})
		return
	}

	var item models.InventoryItem
	if err := database.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "inventory item not found"})
		return
	}

	now := time.Now().UTC()
	err = database.DB.Model(&item).Updates(map[string]interface{}{
		"current_stock":     item.CurrentStock + *body.Quantity,
		"last_restock_date": now,
	}).Error
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// --- DELETE /api/inventory/:id ---
func DeleteInventoryItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid inventory id"})
		return
	}

	res := database.DB.Delete(&models.InventoryItem{}, id)
	if res.Error != nil {
		writeError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "inventory item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted"})
}
