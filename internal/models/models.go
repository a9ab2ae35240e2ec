package models

import (
	"time"
)

// User - Staff or customer account (local login or Google OAuth)
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string     `json:"-"` // Never return this in JSON
	Email        string     `gorm:"index;size:120" json:"email"`
	Name         string     `json:"name"`
	GoogleID     string     `gorm:"index;size:64" json:"-"`
	Picture      string     `json:"picture"`
	Role         string     `json:"role"` // 'admin', 'manager', 'cashier', 'customer'
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

// Product - The menu catalog
type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	BasePrice   float64 `json:"base_price"`
	IsPopular   bool    `gorm:"default:false" json:"is_popular"`
	Description string  `json:"description"`
}

// InventoryItem - Ingredients and disposables tracked by the shop
type InventoryItem struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ItemName        string     `gorm:"uniqueIndex;size:100" json:"item_name"`
	CurrentStock    float64    `json:"current_stock"`
	MinThreshold    float64    `json:"min_threshold"`
	Unit            string     `json:"unit"`
	LastRestockDate *time.Time `json:"last_restock_date"`
}

// ProductIngredient - Recipe link: how much of an inventory item one unit of a
// product consumes. Modeled for the manager UI; checkout does not read it yet.
type ProductIngredient struct {
	ProductID    uint    `gorm:"primaryKey" json:"product_id"`
	InventoryID  uint    `gorm:"primaryKey" json:"inventory_id"`
	QuantityUsed float64 `json:"quantity_used"`
	Unit         string  `json:"unit"`
}

// Cashier - Staff roster entry (separate from login accounts)
type Cashier struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `json:"name"`
	EmployeeCode string     `gorm:"size:20" json:"employee_code"`
	Role         string     `json:"role"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	HireDate     *time.Time `json:"hire_date"`
}

// Order statuses
const (
	OrderStatusComplete = "Complete"
	OrderStatusRefunded = "Refunded"
	OrderStatusVoided   = "Voided"
)

// Order - The Transaction Header
type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	CustomerID *uint       `json:"customer_id"`
	CashierID  *uint       `json:"cashier_id"`
	Subtotal   float64     `json:"subtotal"`
	Tax        float64     `json:"tax"`
	Total      float64     `json:"total"`
	OrderTime  time.Time   `json:"order_time"`
	Status     string      `gorm:"default:'Complete'" json:"status"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Payments   []Payment   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payments"`
}

// OrderItem - One line of a cart
type OrderItem struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	OrderID        uint    `json:"order_id"`
	ProductID      uint    `json:"product_id"`
	Product        Product `json:"product"` // Preload product details
	Quantity       int     `json:"quantity"`
	Customizations string  `json:"customizations"` // "Size: Large; 50% ice, oat milk"
	LinePrice      float64 `json:"line_price"`     // Snapshot of unit price * qty at sale time
}

// Payment methods
const (
	PaymentMethodCash  = "cash"
	PaymentMethodCard  = "card"
	PaymentMethodOther = "other"
)

// Payment - Money in (or, for refunds, money out as a negative row).
// Refunds never edit prior payments; they append offsetting rows.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `json:"order_id"`
	AmountPaid    float64   `json:"amount_paid"`
	PaymentMethod string    `json:"payment_method"`
	PaymentTime   time.Time `json:"payment_time"`
	TipAmount     float64   `json:"tip_amount"`
}

// ZClosure - Closing checkpoint dividing reporting periods. The X report
// aggregates activity since the newest row.
type ZClosure struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ClosedAt time.Time `json:"closed_at"`
}
