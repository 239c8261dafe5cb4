// Package orders keeps a history of simulated checkouts. There is no real
// payment behind an order; the record exists so a session's purchases
// survive restarts and can be listed from the CLI.
package orders

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"menucart/internal/cart"
	"menucart/internal/store"
)

// Order is one simulated checkout.
type Order struct {
	ID        string      `json:"id"`
	Receipt   string      `json:"receipt"`
	Items     []cart.Line `json:"items"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"created_at"`
}

const orderTableSchema = `
    CREATE TABLE IF NOT EXISTS orders (
        id         TEXT PRIMARY KEY,
        receipt    TEXT NOT NULL,
        items_json TEXT NOT NULL DEFAULT '[]',
        total      REAL NOT NULL DEFAULT 0,
        created_at TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);`

// =============================================================================
// ORDER REPOSITORY
// =============================================================================

type Repository struct {
	db *sql.DB
}

// NewRepository creates the orders table when missing and returns the repo.
// The handle is shared with the key/value store, so cart state and order
// history live in the same database file.
func NewRepository(db *sql.DB) (*Repository, error) {
	if _, err := db.Exec(orderTableSchema); err != nil {
		return nil, fmt.Errorf("failed to create orders table: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Insert(o Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	const stmt = `
        INSERT INTO orders (id, receipt, items_json, total, created_at)
        VALUES (?, ?, ?, ?, ?)`

	// Timestamps are normalized to UTC before storage: created_at is TEXT
	// and sorts lexicographically, so mixed offsets would misorder rows.
	_, err = r.db.Exec(stmt, o.ID, o.Receipt, string(itemsJSON), o.Total,
		o.CreatedAt.UTC().Format(store.TimeFormat))
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(id string) (*Order, error) {
	const stmt = `
        SELECT id, receipt, items_json, total, created_at
        FROM orders WHERE id = ?`

	return scanOrder(r.db.QueryRow(stmt, id))
}

// Recent returns the most recent orders, newest first.
func (r *Repository) Recent(limit int) ([]Order, error) {
	const stmt = `
        SELECT id, receipt, items_json, total, created_at
        FROM orders ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.Query(stmt, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	defer rows.Close()

	var result []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		result = append(result, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var itemsJSON, createdAt string

	if err := row.Scan(&o.ID, &o.Receipt, &itemsJSON, &o.Total, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	t, err := time.Parse(store.TimeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order timestamp: %w", err)
	}
	o.CreatedAt = t

	return &o, nil
}
