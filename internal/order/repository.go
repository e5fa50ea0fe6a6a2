package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Upsert writes the order record, replacing any existing row for the
	// same payment intent. Webhook retries make duplicate deliveries
	// routine, so writes must be idempotent.
	Upsert(ctx context.Context, o *Order) error
	// GetByPaymentIntent returns nil, nil when no order exists.
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*Order, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Upsert(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO orders (id, payment_intent_id, order_number, customer_name, customer_email,
                             subtotal, shipping, tax, total, status, items,
                             ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country,
                             created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
         ON CONFLICT (payment_intent_id) DO UPDATE SET
             order_number = EXCLUDED.order_number,
             customer_name = EXCLUDED.customer_name,
             customer_email = EXCLUDED.customer_email,
             subtotal = EXCLUDED.subtotal,
             shipping = EXCLUDED.shipping,
             tax = EXCLUDED.tax,
             total = EXCLUDED.total,
             status = EXCLUDED.status,
             items = EXCLUDED.items,
             ship_line1 = EXCLUDED.ship_line1,
             ship_line2 = EXCLUDED.ship_line2,
             ship_city = EXCLUDED.ship_city,
             ship_state = EXCLUDED.ship_state,
             ship_postal_code = EXCLUDED.ship_postal_code,
             ship_country = EXCLUDED.ship_country`,
		o.ID, o.PaymentIntentID, o.OrderNumber, o.CustomerName, o.CustomerEmail,
		o.Subtotal, o.Shipping, o.Tax, o.Total, o.Status, items,
		o.ShipLine1, o.ShipLine2, o.ShipCity, o.ShipState, o.ShipPostalCode, o.ShipCountry,
		o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}
	return nil
}

func (r *repo) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*Order, error) {
	var (
		o     Order
		items []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, payment_intent_id, order_number, customer_name, customer_email,
                subtotal, shipping, tax, total, status, items,
                ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country,
                created_at
         FROM orders WHERE payment_intent_id = $1`,
		paymentIntentID,
	).Scan(&o.ID, &o.PaymentIntentID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail,
		&o.Subtotal, &o.Shipping, &o.Tax, &o.Total, &o.Status, &items,
		&o.ShipLine1, &o.ShipLine2, &o.ShipCity, &o.ShipState, &o.ShipPostalCode, &o.ShipCountry,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	return &o, nil
}

// MemoryRepository keeps orders in process memory. It backs deployments
// without a configured database and most of the test suite.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string]Order)}
}

func (m *MemoryRepository) Upsert(_ context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	m.orders[o.PaymentIntentID] = cp
	return nil
}

func (m *MemoryRepository) GetByPaymentIntent(_ context.Context, paymentIntentID string) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[paymentIntentID]
	if !ok {
		return nil, nil
	}
	cp := o
	cp.Items = append([]Item(nil), o.Items...)
	return &cp, nil
}
