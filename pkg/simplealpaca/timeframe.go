package simplealpaca

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// ParseTimeFrame parses a compact timeframe string — a digit run followed
// by a unit token ("1Min", "5Min", "2Hour", "1Day") — into the SDK
// timeframe value. Unit matching is case-insensitive on the first three
// letters, so "15min", "1minute", and "1Day" are all accepted.
func ParseTimeFrame(s string) (marketdata.TimeFrame, error) {
	var digits, letters strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letters.WriteRune(r)
		}
	}

	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return marketdata.TimeFrame{}, fmt.Errorf("timeframe %q: missing interval", s)
	}

	unitToken := strings.ToLower(letters.String())
	if len(unitToken) > 3 {
		unitToken = unitToken[:3]
	}

	var unit marketdata.TimeFrameUnit
	switch unitToken {
	case "min":
		unit = marketdata.Min
	case "hou":
		unit = marketdata.Hour
	case "day":
		unit = marketdata.Day
	default:
		return marketdata.TimeFrame{}, fmt.Errorf("timeframe %q: unknown unit %q", s, letters.String())
	}

	return marketdata.NewTimeFrame(n, unit), nil
}

// NewTimeFrame builds a timeframe from a numeric interval and unit enum.
func NewTimeFrame(n int, unit marketdata.TimeFrameUnit) marketdata.TimeFrame {
	return marketdata.NewTimeFrame(n, unit)
}
