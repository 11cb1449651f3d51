package simplealpaca

import "time"

// OrderRecord is the audit record emitted for each order submission.
// Price and quantity fields are strings, matching the decimal
// representation on the wire.
type OrderRecord struct {
	Time          time.Time
	ClientOrderID string
	OrderID       string
	Symbol        string
	Side          string
	Type          string
	Qty           string
	Notional      string
	TimeInForce   string
	LimitPrice    string
	StopPrice     string
	TrailPercent  string
	TrailPrice    string
	Status        string
}

// OrderRecorder receives audit records for order activity. Implementations
// must not block trading: a failed write is logged by the wrapper and
// otherwise ignored.
type OrderRecorder interface {
	// Record appends a submission record.
	Record(r OrderRecord) error

	// RecordCancel appends a cancellation record for an order ID.
	// The ID "*" denotes a cancel-all.
	RecordCancel(orderID string) error
}
