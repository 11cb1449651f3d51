package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Michael-Lizzio/AlpacaInterface/pkg/simplealpaca"
)

func openTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecord(t *testing.T) {
	j := openTestJournal(t)

	err := j.Record(simplealpaca.OrderRecord{
		Time:          time.Date(2024, 6, 3, 14, 30, 0, 0, time.UTC),
		ClientOrderID: "client-1",
		OrderID:       "order-1",
		Symbol:        "AAPL",
		Side:          "buy",
		Type:          "market",
		Qty:           "10",
		TimeInForce:   "day",
		Status:        "accepted",
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	var count int
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		t.Fatalf("counting orders: %v", err)
	}
	if count != 1 {
		t.Errorf("orders count = %d, want 1", count)
	}

	var symbol, side, qty string
	err = j.db.QueryRow(`SELECT symbol, side, qty FROM orders`).Scan(&symbol, &side, &qty)
	if err != nil {
		t.Fatalf("reading order row: %v", err)
	}
	if symbol != "AAPL" || side != "buy" || qty != "10" {
		t.Errorf("row = %q/%q/%q", symbol, side, qty)
	}
}

func TestRecordFillsTimestamp(t *testing.T) {
	j := openTestJournal(t)

	if err := j.Record(simplealpaca.OrderRecord{ClientOrderID: "c", Symbol: "SPY", Side: "sell", Type: "market"}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	var recordedAt string
	if err := j.db.QueryRow(`SELECT recorded_at FROM orders`).Scan(&recordedAt); err != nil {
		t.Fatalf("reading recorded_at: %v", err)
	}
	if _, err := time.Parse(time.RFC3339Nano, recordedAt); err != nil {
		t.Errorf("recorded_at %q is not RFC 3339: %v", recordedAt, err)
	}
}

func TestRecordCancel(t *testing.T) {
	j := openTestJournal(t)

	if err := j.RecordCancel("order-9"); err != nil {
		t.Fatalf("RecordCancel returned error: %v", err)
	}
	if err := j.RecordCancel("*"); err != nil {
		t.Fatalf("RecordCancel returned error: %v", err)
	}

	var count int
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM cancels`).Scan(&count); err != nil {
		t.Fatalf("counting cancels: %v", err)
	}
	if count != 2 {
		t.Errorf("cancels count = %d, want 2", count)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")

	j1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open returned error: %v", err)
	}
	if err := j1.Record(simplealpaca.OrderRecord{ClientOrderID: "c", Symbol: "A", Side: "buy", Type: "market"}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	j1.Close()

	// Reopening must keep the existing rows.
	j2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open returned error: %v", err)
	}
	defer j2.Close()

	var count int
	if err := j2.db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		t.Fatalf("counting orders: %v", err)
	}
	if count != 1 {
		t.Errorf("orders count after reopen = %d, want 1", count)
	}
}
