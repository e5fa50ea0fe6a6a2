package order

import (
	"fmt"
	"time"
)

type Item struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is the server-owned record of a paid (or failed) checkout attempt,
// keyed by the vendor payment-intent id and reconciled by the webhook. The
// payment processor remains the system of record for money movement; this
// table exists so order lookup survives vendor-side data gaps.
type Order struct {
	ID              string    `json:"orderId"`
	PaymentIntentID string    `json:"paymentIntentId"`
	OrderNumber     string    `json:"orderNumber"`
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	Subtotal        float64   `json:"subtotal"`
	Shipping        float64   `json:"shipping"`
	Tax             float64   `json:"tax"`
	Total           float64   `json:"total"`
	Status          string    `json:"status"`
	Items           []Item    `json:"items"`
	ShipLine1       string    `json:"-"`
	ShipLine2       string    `json:"-"`
	ShipCity        string    `json:"-"`
	ShipState       string    `json:"-"`
	ShipPostalCode  string    `json:"-"`
	ShipCountry     string    `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
}

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// NewOrderNumber returns a human-facing order reference, e.g. ORD-1756600000000.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d", now.UnixMilli())
}
