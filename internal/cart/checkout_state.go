package cart

import "sync"

// CheckoutState holds the computed totals for the active checkout. It is
// ephemeral: nothing here survives a restart, and total is re-derived on
// every mutation of subtotal or tax.
type CheckoutState struct {
	mu sync.Mutex

	subtotal        float64
	taxAmount       float64
	total           float64
	isCalculating   bool
	shippingAddress *ShippingAddress
}

// ShippingAddress must be fully populated before tax calculation or
// payment-intent creation is attempted.
type ShippingAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func NewCheckoutState() *CheckoutState {
	return &CheckoutState{}
}

func (c *CheckoutState) SetSubtotal(subtotal float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subtotal = subtotal
	c.total = c.subtotal + c.taxAmount
}

func (c *CheckoutState) SetTaxAmount(amount float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taxAmount = amount
	c.total = c.subtotal + c.taxAmount
}

func (c *CheckoutState) SetCalculatingTax(calculating bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isCalculating = calculating
}

func (c *CheckoutState) SetShippingAddress(addr *ShippingAddress) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shippingAddress = addr
}

func (c *CheckoutState) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subtotal = 0
	c.taxAmount = 0
	c.total = 0
	c.isCalculating = false
	c.shippingAddress = nil
}

type Snapshot struct {
	Subtotal        float64          `json:"subtotal"`
	TaxAmount       float64          `json:"taxAmount"`
	Total           float64          `json:"total"`
	IsCalculating   bool             `json:"isCalculatingTax"`
	ShippingAddress *ShippingAddress `json:"shippingAddress"`
}

func (c *CheckoutState) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Subtotal:        c.subtotal,
		TaxAmount:       c.taxAmount,
		Total:           c.total,
		IsCalculating:   c.isCalculating,
		ShippingAddress: c.shippingAddress,
	}
}
