// Package journal provides an append-only record of order submissions and
// cancellations, backed by SQLite. It is a local audit trail only: entries
// are written and never read back for trading decisions, because order
// state is authoritative server-side.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/Michael-Lizzio/AlpacaInterface/pkg/simplealpaca"
)

// Compile-time interface check.
var _ simplealpaca.OrderRecorder = (*SQLiteJournal)(nil)

// SQLiteJournal implements simplealpaca.OrderRecorder backed by a SQLite
// database.
type SQLiteJournal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at dbPath and ensures the
// schema exists.
func Open(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	j := &SQLiteJournal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal schema: %w", err)
	}
	return j, nil
}

// Close closes the underlying database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

func (j *SQLiteJournal) migrate() error {
	_, err := j.db.Exec(`
CREATE TABLE IF NOT EXISTS orders (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at     TEXT NOT NULL,
	client_order_id TEXT NOT NULL,
	order_id        TEXT,
	symbol          TEXT NOT NULL,
	side            TEXT NOT NULL,
	type            TEXT NOT NULL,
	qty             TEXT,
	notional        TEXT,
	time_in_force   TEXT,
	limit_price     TEXT,
	stop_price      TEXT,
	trail_percent   TEXT,
	trail_price     TEXT,
	status          TEXT
);
CREATE TABLE IF NOT EXISTS cancels (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TEXT NOT NULL,
	order_id    TEXT NOT NULL
);`)
	return err
}

// Record appends a submission record.
func (j *SQLiteJournal) Record(r simplealpaca.OrderRecord) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := j.db.Exec(`
INSERT INTO orders (
	recorded_at, client_order_id, order_id, symbol, side, type,
	qty, notional, time_in_force, limit_price, stop_price,
	trail_percent, trail_price, status
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.Format(time.RFC3339Nano),
		r.ClientOrderID,
		r.OrderID,
		r.Symbol,
		r.Side,
		r.Type,
		r.Qty,
		r.Notional,
		r.TimeInForce,
		r.LimitPrice,
		r.StopPrice,
		r.TrailPercent,
		r.TrailPrice,
		r.Status,
	)
	if err != nil {
		return fmt.Errorf("inserting order record: %w", err)
	}
	return nil
}

// RecordCancel appends a cancellation record.
func (j *SQLiteJournal) RecordCancel(orderID string) error {
	_, err := j.db.Exec(
		`INSERT INTO cancels (recorded_at, order_id) VALUES (?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		orderID,
	)
	if err != nil {
		return fmt.Errorf("inserting cancel record: %w", err)
	}
	return nil
}
