// Package storage persists an append-only audit trail of order activity
// in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/ShoyebRampure/binance-trading-bot/internal/domain"
)

// Journal records every order lifecycle event (submission, refresh with a
// state change, cancellation). Rows are never updated or deleted.
type Journal struct {
	db *sql.DB
}

// Entry is one journal row.
type Entry struct {
	Seq        int64
	OrderID    string
	Symbol     string
	Side       string
	Type       string
	Event      string
	Status     string
	Quantity   string
	Price      string
	StopPrice  string
	RecordedAt time.Time
}

// NewJournal opens (or creates) the journal database with WAL mode enabled.
func NewJournal(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA cache_size=-2000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS order_events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			side TEXT NOT NULL,
			type TEXT NOT NULL,
			event TEXT NOT NULL,
			status TEXT NOT NULL,
			quantity TEXT NOT NULL,
			price TEXT NOT NULL,
			stop_price TEXT NOT NULL,
			recorded_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create order_events table: %w", err)
	}

	return &Journal{db: db}, nil
}

// Append stores one lifecycle event for an order.
func (j *Journal) Append(ctx context.Context, o domain.Order, event string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO order_events
			(order_id, symbol, side, type, event, status, quantity, price, stop_price, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Symbol, string(o.Side), string(o.Type), event, string(o.Status),
		o.Quantity.String(), o.LimitPrice.String(), o.StopPrice.String(),
		time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order event: %w", err)
	}
	return nil
}

// History returns the most recent events, newest first, up to limit.
func (j *Journal) History(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT seq, order_id, symbol, side, type, event, status, quantity, price, stop_price, recorded_at
		 FROM order_events ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query order events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var recordedAt int64
		if err := rows.Scan(&e.Seq, &e.OrderID, &e.Symbol, &e.Side, &e.Type,
			&e.Event, &e.Status, &e.Quantity, &e.Price, &e.StopPrice, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order event: %w", err)
		}
		e.RecordedAt = time.UnixMilli(recordedAt).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

// EventsForOrder returns the full lifecycle of one order, oldest first.
func (j *Journal) EventsForOrder(ctx context.Context, orderID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT seq, order_id, symbol, side, type, event, status, quantity, price, stop_price, recorded_at
		 FROM order_events WHERE order_id = ? ORDER BY seq ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var recordedAt int64
		if err := rows.Scan(&e.Seq, &e.OrderID, &e.Symbol, &e.Side, &e.Type,
			&e.Event, &e.Status, &e.Quantity, &e.Price, &e.StopPrice, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order event: %w", err)
		}
		e.RecordedAt = time.UnixMilli(recordedAt).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}
