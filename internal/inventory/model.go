package inventory

// StockLevel is the stored state for one product.
type StockLevel struct {
	ProductID   string `json:"id"`
	Available   int    `json:"available"`
	Reserved    int    `json:"reserved"`
	Incoming    int    `json:"incoming"`
	RestockDate string `json:"restockDate,omitempty"`
}

type Status string

const (
	StatusInStock     Status = "in_stock"
	StatusLowStock    Status = "low_stock"
	StatusOutOfStock  Status = "out_of_stock"
	StatusBackordered Status = "backordered"
)

// ItemStatus is the derived availability view returned to clients.
// Available here is the sellable quantity (available minus reserved).
type ItemStatus struct {
	ID                  string `json:"id"`
	Available           int    `json:"available"`
	Reserved            int    `json:"reserved"`
	Incoming            int    `json:"incoming"`
	Status              Status `json:"status"`
	EstimatedRestockDate string `json:"estimatedRestockDate,omitempty"`
}

type CheckLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type CheckResult struct {
	AllItemsAvailable bool         `json:"allItemsAvailable"`
	HasLowStock       bool         `json:"hasLowStock"`
	Inventory         []ItemStatus `json:"inventory"`
	Summary           Summary      `json:"summary"`
}

type Summary struct {
	TotalItems  int `json:"totalItems"`
	InStock     int `json:"inStock"`
	LowStock    int `json:"lowStock"`
	OutOfStock  int `json:"outOfStock"`
	Backordered int `json:"backordered"`
}

// StatusFor derives availability status from raw stock numbers. Sellable
// stock at or below zero is out of stock; at or below ten is low.
func StatusFor(available, reserved int) Status {
	sellable := available - reserved
	switch {
	case sellable <= 0:
		return StatusOutOfStock
	case sellable <= 10:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
