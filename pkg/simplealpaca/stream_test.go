package simplealpaca

import (
	"context"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata/stream"
)

// fakeStream implements streamClient and replays canned bars to each
// subscribed handler.
type fakeStream struct {
	bars       []stream.Bar
	subscribed []string
	terminated chan error
}

func (f *fakeStream) Connect(context.Context) error { return nil }

func (f *fakeStream) SubscribeToBars(handler func(stream.Bar), symbols ...string) error {
	f.subscribed = append(f.subscribed, symbols...)
	for _, b := range f.bars {
		handler(b)
	}
	return nil
}

func (f *fakeStream) Terminated() <-chan error { return f.terminated }

func TestSubscribePrice(t *testing.T) {
	fs := &fakeStream{
		bars: []stream.Bar{
			{Symbol: "AAPL", Close: 190.5, Timestamp: time.Now()},
			{Symbol: "AAPL", Close: 190.7, Timestamp: time.Now()},
		},
		terminated: make(chan error),
	}
	close(fs.terminated) // stream ends immediately after replay

	c := newTestClient(&fakeTrading{}, &fakeData{})
	c.stream = fs

	var got []map[string]any
	err := c.SubscribePrice(context.Background(), []string{"AAPL"}, func(bar map[string]any) {
		got = append(got, bar)
	})
	if err != nil {
		t.Fatalf("SubscribePrice returned error: %v", err)
	}

	if len(fs.subscribed) != 1 || fs.subscribed[0] != "AAPL" {
		t.Errorf("subscribed = %v", fs.subscribed)
	}
	if len(got) != 2 {
		t.Fatalf("callback ran %d times, want 2", len(got))
	}
	if len(got[0]) == 0 {
		t.Error("callback received an empty bar map")
	}
}

func TestSubscribePriceContextCancel(t *testing.T) {
	fs := &fakeStream{terminated: make(chan error)} // never terminates

	c := newTestClient(&fakeTrading{}, &fakeData{})
	c.stream = fs

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.SubscribePrice(ctx, []string{"SPY"}, func(map[string]any) {})
	if err != context.Canceled {
		t.Errorf("SubscribePrice error = %v, want context.Canceled", err)
	}
}

func TestStreamCreatedOnce(t *testing.T) {
	fs := &fakeStream{terminated: make(chan error)}
	close(fs.terminated)

	c := newTestClient(&fakeTrading{}, &fakeData{})
	c.stream = fs

	if err := c.ensureStream(context.Background()); err != nil {
		t.Fatalf("ensureStream returned error: %v", err)
	}
	if c.stream != streamClient(fs) {
		t.Error("ensureStream replaced an existing stream client")
	}
}
