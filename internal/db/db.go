package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func openDB(dsn string) (*sql.DB, error) {
	return sql.Open("postgres", dsn)
}

// Open returns an open and verified database connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}
