package events

import "time"

const (
	PaymentSucceededQueue = "payment.succeeded"
	PaymentFailedQueue    = "payment.failed"
)

type OrderItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type ShippingAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type PaymentSucceeded struct {
	EventType       string          `json:"eventType"`
	PaymentIntentID string          `json:"paymentIntentId"`
	OrderNumber     string          `json:"orderNumber"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	Subtotal        float64         `json:"subtotal"`
	Shipping        float64         `json:"shipping"`
	Tax             float64         `json:"tax"`
	Total           float64         `json:"total"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Timestamp       time.Time       `json:"timestamp"`
}

type PaymentFailed struct {
	EventType       string    `json:"eventType"`
	PaymentIntentID string    `json:"paymentIntentId"`
	CustomerEmail   string    `json:"customerEmail"`
	Amount          float64   `json:"amount"`
	Reason          string    `json:"reason"`
	Timestamp       time.Time `json:"timestamp"`
}
