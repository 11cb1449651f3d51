// Package export writes historical bar data fetched through the wrapper
// to Parquet files on disk, one file per symbol, timeframe, and year.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/parquet-go/parquet-go"
)

// BarWriter exports bars to per-symbol Parquet files under DataDir.
type BarWriter struct {
	DataDir string
}

// NewBarWriter creates a BarWriter rooted at the given data directory.
func NewBarWriter(dataDir string) *BarWriter {
	return &BarWriter{DataDir: dataDir}
}

// BarRecord is the Parquet schema for exported bar data.
type BarRecord struct {
	Symbol     string  `parquet:"symbol"`
	Timestamp  int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open       float64 `parquet:"open"`
	High       float64 `parquet:"high"`
	Low        float64 `parquet:"low"`
	Close      float64 `parquet:"close"`
	Volume     int64   `parquet:"volume"`
	TradeCount int64   `parquet:"trade_count"`
	VWAP       float64 `parquet:"vwap"`
}

// WriteBars writes bars for one symbol and timeframe, grouped by year.
// Existing files are merged and deduplicated by timestamp, so re-running
// an export over an overlapping range is idempotent.
func (w *BarWriter) WriteBars(symbol, timeframe string, bars []marketdata.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	symbol = strings.ToUpper(symbol)

	groups := make(map[int][]BarRecord)
	for _, b := range bars {
		year := b.Timestamp.Year()
		groups[year] = append(groups[year], BarRecord{
			Symbol:     symbol,
			Timestamp:  b.Timestamp.UnixMilli(),
			Open:       b.Open,
			High:       b.High,
			Low:        b.Low,
			Close:      b.Close,
			Volume:     int64(b.Volume),
			TradeCount: int64(b.TradeCount),
			VWAP:       b.VWAP,
		})
	}

	for year, records := range groups {
		path := w.barPath(symbol, timeframe, year)

		// Read existing records to merge; a missing file is fine.
		existing, _ := readParquetFile[BarRecord](path)
		merged := mergeBarRecords(existing, records)

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing bars for %s/%d: %w", symbol, year, err)
		}
	}
	return nil
}

// ReadBars reads previously exported bars for the given symbol,
// timeframe, and time range.
func (w *BarWriter) ReadBars(symbol, timeframe string, start, end time.Time) ([]marketdata.Bar, error) {
	symbol = strings.ToUpper(symbol)

	var bars []marketdata.Bar
	for year := start.Year(); year <= end.Year(); year++ {
		records, err := readParquetFile[BarRecord](w.barPath(symbol, timeframe, year))
		if err != nil {
			// No file for this year.
			continue
		}
		for _, r := range records {
			ts := time.UnixMilli(r.Timestamp)
			if ts.Before(start) || ts.After(end) {
				continue
			}
			bars = append(bars, marketdata.Bar{
				Timestamp:  ts,
				Open:       r.Open,
				High:       r.High,
				Low:        r.Low,
				Close:      r.Close,
				Volume:     uint64(r.Volume),
				TradeCount: uint64(r.TradeCount),
				VWAP:       r.VWAP,
			})
		}
	}
	return bars, nil
}

// barPath returns the filesystem path for a bar Parquet file.
// Layout: <dataDir>/<SYMBOL>/<timeframe>/<YYYY>.parquet
func (w *BarWriter) barPath(symbol, timeframe string, year int) string {
	return filepath.Join(w.DataDir, symbol, timeframe, fmt.Sprintf("%d.parquet", year))
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	return parquet.ReadFile[T](path)
}

// mergeBarRecords deduplicates bar records by timestamp, preferring new
// records over existing ones. Results are sorted by timestamp.
func mergeBarRecords(existing, incoming []BarRecord) []BarRecord {
	seen := make(map[int64]BarRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[r.Timestamp] = r
	}
	for _, r := range incoming {
		seen[r.Timestamp] = r
	}

	merged := make([]BarRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
