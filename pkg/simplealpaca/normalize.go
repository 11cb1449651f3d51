package simplealpaca

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata/stream"
	"github.com/shopspring/decimal"
)

// Normalize converts an SDK response value into a JSON-safe structure:
// model objects become map[string]any keyed by their wire field names,
// slices and maps are converted element-wise, primitives pass through
// unchanged. Dispatch is over the closed set of response shapes the
// wrapper actually returns; anything unknown gets a best-effort JSON
// round-trip, and values with no safe conversion are returned unchanged.
// The transform is side-effect free.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return x

	case time.Time:
		return x.Format(time.RFC3339Nano)

	case decimal.Decimal:
		return x.String()

	case *alpaca.Account,
		alpaca.Position, *alpaca.Position,
		alpaca.Order, *alpaca.Order,
		alpaca.Asset, *alpaca.Asset,
		alpaca.CalendarDay, *alpaca.Clock,
		marketdata.Bar, *marketdata.Bar,
		marketdata.Quote, *marketdata.Quote,
		marketdata.Trade, *marketdata.Trade,
		*marketdata.Snapshot,
		stream.Bar, stream.Trade, stream.Quote:
		return jsonRoundTrip(x)

	case map[string]any:
		out := make(map[string]any, len(x))
		for k, v := range x {
			out[k] = Normalize(v)
		}
		return out

	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = Normalize(x[i])
		}
		return out
	}

	return normalizeReflect(v)
}

// normalizeReflect handles shapes outside the closed set: other slices
// and string-keyed maps element-wise, other structs via JSON round-trip.
func normalizeReflect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Normalize(iter.Value().Interface())
		}
		return out

	case reflect.Struct:
		return jsonRoundTrip(v)
	}

	return v
}

// jsonRoundTrip flattens a value through its JSON serialization. The SDK
// models carry json tags for every wire field, so this yields the same
// shape the remote API speaks. Returns the input unchanged if it cannot
// be marshaled.
func jsonRoundTrip(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
