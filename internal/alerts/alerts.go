// Package alerts emails the manager when tracked inventory drops under its
// minimum threshold. The scan runs on the cron scheduler; mail stays off
// unless SMTP is configured.
package alerts

import (
	"fmt"
	"log"
	"strings"

	"boba-pos/internal/models"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

type Notifier struct {
	db       *gorm.DB
	smtpHost string
	smtpPort int
	smtpUser string
	smtpPass string
	from     string
	to       []string
}

func NewNotifier(db *gorm.DB, host string, port int, user, pass, from, to string) *Notifier {
	n := &Notifier{
		db:       db,
		smtpHost: host,
		smtpPort: port,
		smtpUser: user,
		smtpPass: pass,
		from:     from,
	}
	for _, addr := range strings.Split(to, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			n.to = append(n.to, addr)
		}
	}
	return n
}

// Enabled reports whether mail can actually go out.
func (n *Notifier) Enabled() bool {
	return n.smtpHost != "" && n.from != "" && len(n.to) > 0
}

// LowStockItems returns every item sitting under its minimum threshold.
func (n *Notifier) LowStockItems() ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := n.db.Where("current_stock < min_threshold").Order("item_name").Find(&items).Error
	return items, err
}

// CheckLowStock scans inventory and mails a summary of anything running low.
// Safe to call with mail disabled; it just logs the count.
func (n *Notifier) CheckLowStock() {
	items, err := n.LowStockItems()
	if err != nil {
		log.Println("low-stock scan failed:", err)
		return
	}
	if len(items) == 0 {
		return
	}

	log.Printf("low-stock scan: %d item(s) under threshold", len(items))
	if !n.Enabled() {
		return
	}

	var b strings.Builder
	b.WriteString("The following inventory items are below their minimum threshold:\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "- %s: %g %s on hand (minimum %g)\n",
			it.ItemName, it.CurrentStock, it.Unit, it.MinThreshold)
	}
	b.WriteString("\nRestock from Admin → Inventory.\n")

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", fmt.Sprintf("Low stock alert: %d item(s)", len(items)))
	m.SetBody("text/plain", b.String())

	d := gomail.NewDialer(n.smtpHost, n.smtpPort, n.smtpUser, n.smtpPass)
	if err := d.DialAndSend(m); err != nil {
		log.Println("failed to send low-stock alert:", err)
	}
}
