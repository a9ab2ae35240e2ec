// Package orders holds the checkout and refund transactions. Everything here
// runs inside a single database transaction: inventory decrements, the order
// header, its line items, and the payment commit or roll back together.
package orders

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"boba-pos/internal/apierr"
	"boba-pos/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaxRate is the fixed sales-tax rate applied to every order.
const TaxRate = 0.0825

// Net-paid amounts at or below this are treated as zero (float cents).
const epsilon = 0.005

// SizeDeltas are per-unit price adjustments for drink sizes.
var SizeDeltas = map[string]float64{
	"Small":  0.00,
	"Medium": 0.50,
	"Large":  2.00,
}

// DisposableItems are consumed once per drink sold, independent of the
// recipe-link table. Lookup is case-insensitive.
var DisposableItems = []string{"Plastic Cups", "Cup Lids", "Straws"}

type ItemRequest struct {
	ProductID      uint   `json:"product_id"`
	Quantity       int    `json:"quantity"`
	Customizations string `json:"customizations"`
	Size           string `json:"size"`
}

type PaymentRequest struct {
	Method    string  `json:"method"`
	Amount    float64 `json:"amount"`
	TipAmount float64 `json:"tip_amount"`
}

type CheckoutRequest struct {
	CashierID *uint           `json:"cashier_id"`
	Items     []ItemRequest   `json:"items"`
	Payment   *PaymentRequest `json:"payment"`
}

// Receipt is the checkout response body.
type Receipt struct {
	OrderID  uint    `json:"order_id"`
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

type RefundRequest struct {
	Amount *float64 `json:"amount"`
	Method string   `json:"method"`
}

type RefundResult struct {
	OK                  bool    `json:"ok"`
	Refunded            float64 `json:"refunded"`
	RemainingRefundable float64 `json:"remaining_refundable"`
	Status              string  `json:"status"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// isDrinkCategory treats anything not explicitly snack/food/dessert as a
// drink. Determines disposable consumption, not pricing.
func isDrinkCategory(category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	for _, tok := range []string{"snack", "food", "dessert"} {
		if strings.Contains(c, tok) {
			return false
		}
	}
	return true
}

type computedLine struct {
	productID      uint
	quantity       int
	customizations string
	lineTotal      float64
}

// Checkout validates the cart, prices it, decrements disposable inventory for
// each drink, and persists Order + OrderItems + Payment atomically.
func (s *Service) Checkout(req CheckoutRequest) (*Receipt, error) {
	if len(req.Items) == 0 {
		return nil, apierr.BadRequest("order must include at least one item")
	}
	if req.Payment == nil {
		return nil, apierr.BadRequest("payment is required")
	}
	switch req.Payment.Method {
	case models.PaymentMethodCash, models.PaymentMethodCard, models.PaymentMethodOther:
	default:
		return nil, apierr.BadRequest("payment method must be one of cash, card, other")
	}
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return nil, apierr.BadRequest("item quantity must be at least 1")
		}
	}

	// Batch product lookup: one query for the whole cart.
	ids := make([]uint, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.ProductID)
	}
	var products []models.Product
	if err := s.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	priceMap := make(map[uint]float64, len(products))
	categoryMap := make(map[uint]string, len(products))
	for _, p := range products {
		priceMap[p.ID] = p.BasePrice
		categoryMap[p.ID] = p.Category
	}

	missingSet := map[uint]bool{}
	for _, it := range req.Items {
		if _, ok := priceMap[it.ProductID]; !ok {
			missingSet[it.ProductID] = true
		}
	}
	if len(missingSet) > 0 {
		missing := make([]uint, 0, len(missingSet))
		for id := range missingSet {
			missing = append(missing, id)
		}
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		parts := make([]string, len(missing))
		for i, id := range missing {
			parts[i] = fmt.Sprint(id)
		}
		return nil, apierr.BadRequest("product(s) not found: %s", strings.Join(parts, ", "))
	}

	// Price every line up front so size errors reject before any mutation.
	lines := make([]computedLine, 0, len(req.Items))
	subtotal := 0.0
	drinkCount := 0
	for _, it := range req.Items {
		sizeDelta := 0.0
		if it.Size != "" {
			delta, ok := SizeDeltas[it.Size]
			if !ok {
				return nil, apierr.BadRequest("size must be one of Small, Medium, Large")
			}
			sizeDelta = delta
		}

		unitPrice := priceMap[it.ProductID] + sizeDelta
		lineTotal := round2(unitPrice * float64(it.Quantity))
		subtotal += lineTotal

		customizations := strings.TrimSpace(it.Customizations)
		if it.Size != "" {
			if customizations != "" {
				customizations = "Size: " + it.Size + "; " + customizations
			} else {
				customizations = "Size: " + it.Size
			}
		}

		if isDrinkCategory(categoryMap[it.ProductID]) {
			drinkCount += it.Quantity
		}

		lines = append(lines, computedLine{
			productID:      it.ProductID,
			quantity:       it.Quantity,
			customizations: customizations,
			lineTotal:      lineTotal,
		})
	}

	subtotal = round2(subtotal)
	tax := round2(subtotal * TaxRate)
	total := round2(subtotal + tax)

	var orderID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := decrementDisposables(tx, drinkCount); err != nil {
			return err
		}

		order := models.Order{
			CashierID: req.CashierID,
			Subtotal:  subtotal,
			Tax:       tax,
			Total:     total,
			OrderTime: time.Now().UTC(),
			Status:    models.OrderStatusComplete,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range lines {
			item := models.OrderItem{
				OrderID:        order.ID,
				ProductID:      line.productID,
				Quantity:       line.quantity,
				Customizations: line.customizations,
				LinePrice:      line.lineTotal,
			}
			if err := tx.Omit("Product").Create(&item).Error; err != nil {
				return err
			}
		}

		payment := models.Payment{
			OrderID:       order.ID,
			AmountPaid:    req.Payment.Amount,
			PaymentMethod: req.Payment.Method,
			PaymentTime:   time.Now().UTC(),
			TipAmount:     req.Payment.TipAmount,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Receipt{OrderID: orderID, Subtotal: subtotal, Tax: tax, Total: total}, nil
}

// decrementDisposables takes drinkCount units off Plastic Cups / Cup Lids /
// Straws inside the caller's transaction. Rows are locked so concurrent
// checkouts serialize on the storage engine. All three items must exist and
// cover the count, or nothing is decremented.
func decrementDisposables(tx *gorm.DB, drinkCount int) error {
	if drinkCount <= 0 {
		return nil
	}

	wanted := make([]string, len(DisposableItems))
	for i, n := range DisposableItems {
		wanted[i] = strings.ToLower(n)
	}

	var rows []models.InventoryItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("LOWER(item_name) IN ?", wanted).
		Find(&rows).Error
	if err != nil {
		return err
	}

	found := make(map[string]*models.InventoryItem, len(rows))
	for i := range rows {
		found[strings.ToLower(rows[i].ItemName)] = &rows[i]
	}

	var missing []string
	for _, name := range DisposableItems {
		if _, ok := found[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apierr.BadRequest(
			"Missing required inventory item(s): %s. Add them in Admin → Inventory before checking out.",
			strings.Join(missing, ", "))
	}

	// Validate all three before touching any stock.
	for _, name := range DisposableItems {
		row := found[strings.ToLower(name)]
		if row.CurrentStock < float64(drinkCount) {
			return apierr.BadRequest("Insufficient stock for '%s'. Needed %d, available %g.",
				name, drinkCount, row.CurrentStock)
		}
	}

	for _, name := range DisposableItems {
		row := found[strings.ToLower(name)]
		err := tx.Model(&models.InventoryItem{}).
			Where("id = ?", row.ID).
			Update("current_stock", row.CurrentStock-float64(drinkCount)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Refund appends a negative payment capped at the order's remaining net paid
// amount. When nothing refundable remains afterwards the order flips to
// Refunded. The ledger is additive: prior payments are never edited.
func (s *Service) Refund(orderID uint, req RefundRequest) (*RefundResult, error) {
	var result *RefundResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("order %d not found", orderID)
			}
			return err
		}

		var net float64
		err = tx.Model(&models.Payment{}).
			Where("order_id = ?", orderID).
			Select("COALESCE(SUM(amount_paid), 0)").
			Scan(&net).Error
		if err != nil {
			return err
		}
		net = round2(net)
		if net <= epsilon {
			return apierr.BadRequest("nothing left to refund")
		}

		requested := net
		if req.Amount != nil {
			if *req.Amount <= 0 {
				return apierr.BadRequest("refund amount must be greater than zero")
			}
			requested = *req.Amount
		}
		refund := math.Min(round2(requested), net)

		method := req.Method
		switch method {
		case models.PaymentMethodCash, models.PaymentMethodCard, models.PaymentMethodOther:
		case "":
			method = originalMethod(tx, orderID)
		default:
			return apierr.BadRequest("payment method must be one of cash, card, other")
		}

		row := models.Payment{
			OrderID:       orderID,
			AmountPaid:    -refund,
			PaymentMethod: method,
			PaymentTime:   time.Now().UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		remaining := round2(net - refund)
		status := order.Status
		if remaining <= epsilon {
			remaining = 0
			status = models.OrderStatusRefunded
			err := tx.Model(&models.Order{}).
				Where("id = ?", orderID).
				Update("status", status).Error
			if err != nil {
				return err
			}
		}

		result = &RefundResult{
			OK:                  true,
			Refunded:            refund,
			RemainingRefundable: remaining,
			Status:              status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// originalMethod picks the tender of the order's first payment so a refund
// defaults to going back the way the money came in.
func originalMethod(tx *gorm.DB, orderID uint) string {
	var first models.Payment
	err := tx.Where("order_id = ? AND amount_paid > 0", orderID).
		Order("id asc").First(&first).Error
	if err != nil {
		return models.PaymentMethodOther
	}
	return first.PaymentMethod
}
