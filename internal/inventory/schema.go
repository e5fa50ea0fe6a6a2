package inventory

import (
	"context"

	_ "embed"
)

// Schema holds the bootstrap SQL for integration tests and local development.
//
//go:embed schema.sql
var Schema string

// EnsureSchema creates the stock table if it does not exist and inserts any
// seed rows that are missing. Existing stock levels are never overwritten.
func EnsureSchema(ctx context.Context, pool DBPool, seed []StockLevel) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return err
	}
	for _, lvl := range seed {
		_, err := pool.Exec(ctx, `
			INSERT INTO inventory_stock(product_id, available, reserved, incoming, restock_date)
			VALUES($1, $2, $3, $4, NULLIF($5, ''))
			ON CONFLICT (product_id) DO NOTHING
		`, lvl.ProductID, lvl.Available, lvl.Reserved, lvl.Incoming, lvl.RestockDate)
		if err != nil {
			return err
		}
	}
	return nil
}
