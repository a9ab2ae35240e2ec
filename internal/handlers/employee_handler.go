package handlers

import (
	"net/http"
	"strconv"
	"time"

	"boba-pos/internal/database"
	"boba-pos/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- GET /api/employees ---
func ListCashiers(c *gin.Context) {
	var people []models.Cashier
	if err := database.DB.Order("name").Find(&people).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, people)
}

// --- POST /api/employees ---
func AddCashier(c *gin.Context) {
	var body struct {
		Name         string `json:"name" binding:"required"`
		EmployeeCode string `json:"employee_code" binding:"required"`
		Role         string `json:"role" binding:"required"`
		IsActive     *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "name, employee_code, and role are required"})
		return
	}

	now := time.Now().UTC()
	cashier := models.Cashier{
		Name:         body.Name,
		EmployeeCode: body.EmployeeCode,
		Role:         body.Role,
		IsActive:     true,
		HireDate:     &now,
	}
	if body.IsActive != nil {
		cashier.IsActive = *body.IsActive
	}
	if err := database.DB.Create(&cashier).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": cashier.ID})
}

// --- PUT /api/employees/:id/active ---
func SetCashierActive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid cashier id"})
		return
	}

	var body struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "active is required"})
		return
	}

	var cashier models.Cashier
	if err := database.DB.First(&cashier, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "cashier not found"})
		return
	}

	if err := database.DB.Model(&cashier).Update("is_active", *body.Active).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cashier)
}

// --- DELETE /api/employees/:id ---
// Orders keep existing but lose the cashier reference, so history survives
// staff turnover.
func DeleteCashier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid cashier id"})
		return
	}

	var cashier models.Cashier
	if err := database.DB.First(&cashier, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "cashier not found"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Order{}).
			Where("cashier_id = ?", id).
			Update("cashier_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&cashier).Error
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cashier deleted"})
}
