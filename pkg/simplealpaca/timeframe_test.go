package simplealpaca

import (
	"testing"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

func TestParseTimeFrame(t *testing.T) {
	tests := []struct {
		in       string
		wantN    int
		wantUnit marketdata.TimeFrameUnit
	}{
		{"1Min", 1, marketdata.Min},
		{"5Min", 5, marketdata.Min},
		{"15min", 15, marketdata.Min},
		{"1minute", 1, marketdata.Min},
		{"1Hour", 1, marketdata.Hour},
		{"2hour", 2, marketdata.Hour},
		{"1Day", 1, marketdata.Day},
		{"1DAY", 1, marketdata.Day},
	}

	for _, tt := range tests {
		tf, err := ParseTimeFrame(tt.in)
		if err != nil {
			t.Errorf("ParseTimeFrame(%q) returned error: %v", tt.in, err)
			continue
		}
		if tf.N != tt.wantN || tf.Unit != tt.wantUnit {
			t.Errorf("ParseTimeFrame(%q) = {%d %s}, want {%d %s}",
				tt.in, tf.N, tf.Unit, tt.wantN, tt.wantUnit)
		}
	}
}

func TestParseTimeFrameRejects(t *testing.T) {
	for _, in := range []string{"", "Min", "1Fortnight", "5sec", "1", "abc"} {
		if _, err := ParseTimeFrame(in); err == nil {
			t.Errorf("ParseTimeFrame(%q) should fail", in)
		}
	}
}

func TestNewTimeFrame(t *testing.T) {
	tf := NewTimeFrame(30, marketdata.Min)
	if tf.N != 30 || tf.Unit != marketdata.Min {
		t.Errorf("NewTimeFrame(30, Min) = {%d %s}", tf.N, tf.Unit)
	}
}
