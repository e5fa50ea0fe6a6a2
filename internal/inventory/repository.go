package inventory

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("not found")

// Repository is the pluggable stock store. The Postgres implementation is
// authoritative in production; the in-memory one seeds the catalog table and
// doubles as the test fake.
type Repository interface {
	Get(ctx context.Context, productID string) (StockLevel, error)
	SetStock(ctx context.Context, level StockLevel) error
}

// DBPool matches the methods we use from *pgxpool.Pool so the database can
// be mocked in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Get(ctx context.Context, productID string) (StockLevel, error) {
	var lvl StockLevel
	row := r.pool.QueryRow(ctx, `
		SELECT product_id, available, reserved, incoming, COALESCE(restock_date, '')
		FROM inventory_stock WHERE product_id=$1
	`, productID)
	if err := row.Scan(&lvl.ProductID, &lvl.Available, &lvl.Reserved, &lvl.Incoming, &lvl.RestockDate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockLevel{}, ErrNotFound
		}
		return StockLevel{}, err
	}
	return lvl, nil
}

func (r *PostgresRepository) SetStock(ctx context.Context, level StockLevel) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inventory_stock(product_id, available, reserved, incoming, restock_date)
		VALUES($1, $2, $3, $4, NULLIF($5, ''))
		ON CONFLICT (product_id) DO UPDATE
		SET available=EXCLUDED.available, reserved=EXCLUDED.reserved,
		    incoming=EXCLUDED.incoming, restock_date=EXCLUDED.restock_date,
		    updated_at=now()
	`, level.ProductID, level.Available, level.Reserved, level.Incoming, level.RestockDate)
	return err
}

type MemoryRepository struct {
	mu     sync.RWMutex
	levels map[string]StockLevel
}

func NewMemoryRepository(seed []StockLevel) *MemoryRepository {
	levels := make(map[string]StockLevel, len(seed))
	for _, lvl := range seed {
		levels[lvl.ProductID] = lvl
	}
	return &MemoryRepository{levels: levels}
}

func (r *MemoryRepository) Get(ctx context.Context, productID string) (StockLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lvl, ok := r.levels[productID]
	if !ok {
		return StockLevel{}, ErrNotFound
	}
	return lvl, nil
}

func (r *MemoryRepository) SetStock(ctx context.Context, level StockLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[level.ProductID] = level
	return nil
}
