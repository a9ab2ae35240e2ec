package handlers

import (
	"net/http"
	"strconv"

	"boba-pos/internal/database"
	"boba-pos/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- GET /api/products ---
// The register screen wants the menu grouped by category tab.
func GetProducts(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Order("category, name").Find(&products).Error; err != nil {
		writeError(c, err)
		return
	}

	grouped := make(map[string][]models.Product)
	for _, p := range products {
		cat := p.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		grouped[cat] = append(grouped[cat], p)
	}
	c.JSON(http.StatusOK, grouped)
}

// --- POST /api/products ---
func AddProduct(c *gin.Context) {
	var body struct {
		Name        string   `json:"name" binding:"required"`
		Category    string   `json:"category" binding:"required"`
		BasePrice   *float64 `json:"base_price" binding:"required"`
		IsPopular   bool     `json:"is_popular"`
		Description string   `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "name, category, and base_price are required"})
		return
	}

	product := models.Product{
		Name:        body.Name,
		Category:    body.Category,
		BasePrice:   *body.BasePrice,
		IsPopular:   body.IsPopular,
		Description: body.Description,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// --- PUT /api/products/:id ---
// Partial update: only the fields present in the body change.
func UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid product id"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "product not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid request body"})
		return
	}

	allowed := map[string]bool{"name": true, "category": true, "base_price": true, "is_popular": true, "description": true}
	for k := range updateData {
		if !allowed[k] {
			delete(updateData, k)
		}
	}

	if err := database.DB.Model(&product).Updates(updateData).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// --- DELETE /api/products/:id ---
// Ingredient links go with the product; historical order items keep their
// product id for reporting.
func DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid product id"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "product not found"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductIngredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// --- GET /api/products/:id/ingredients ---
func ListProductIngredients(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid product id"})
		return
	}

	type linkRow struct {
		InventoryID  uint    `json:"inventory_id"`
		ItemName     string  `json:"item_name"`
		QuantityUsed float64 `json:"quantity_used"`
		Unit         string  `json:"unit"`
	}
	var rows []linkRow
	err = database.DB.Table("product_ingredients").
		Select("product_ingredients.inventory_id, inventory_items.item_name, product_ingredients.quantity_used, product_ingredients.unit").
		Joins("JOIN inventory_items ON inventory_items.id = product_ingredients.inventory_id").
		Where("product_ingredients.product_id = ?", id).
		Scan(&rows).Error
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// --- POST /api/products/:id/ingredients ---
func AddProductIngredient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid product id"})
		return
	}

	var body struct {
		InventoryID  uint     `json:"inventory_id" binding:"required"`
		QuantityUsed *float64 `json:"quantity_used" binding:"required"`
		Unit         string   `json:"unit" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "inventory_id, quantity_used, and unit are required"})
		return
	}

	if err := database.DB.First(&models.Product{}, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "product not found"})
		return
	}
	if err := database.DB.First(&models.InventoryItem{}, body.InventoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "inventory item not found"})
		return
	}

	link := models.ProductIngredient{
		ProductID:    uint(id),
		InventoryID:  body.InventoryID,
		QuantityUsed: *body.QuantityUsed,
		Unit:         body.Unit,
	}
	if err := database.DB.Create(&link).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

// --- DELETE /api/products/:id/ingredients/:inventoryId ---
func RemoveProductIngredient(c *gin.Context) {
	id, err1 := strconv.Atoi(c.Param("id"))
	invID, err2 := strconv.Atoi(c.Param("inventoryId"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid id"})
		return
	}

	res := database.DB.
		Where("product_id = ? AND inventory_id = ?", id, invID).
		Delete(&models.ProductIngredient{})
	if res.Error != nil {
		writeError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "ingredient link not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ingredient link removed"})
}
