package simplealpaca

import (
	"context"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata/stream"
)

// streamClient is the subset of the Alpaca stocks stream client used by
// SubscribePrice.
type streamClient interface {
	Connect(ctx context.Context) error
	SubscribeToBars(handler func(stream.Bar), symbols ...string) error
	Terminated() <-chan error
}

// Compile-time interface check.
var _ streamClient = (*stream.StocksClient)(nil)

// ensureStream lazily constructs and connects the streaming client. It is
// created at most once and never torn down by the wrapper.
func (c *Client) ensureStream(ctx context.Context) error {
	if c.stream != nil {
		return nil
	}

	feed := c.opts.Feed
	if feed == "" {
		feed = marketdata.IEX
	}

	sopts := []stream.StockOption{
		stream.WithCredentials(c.opts.APIKey, c.opts.APISecret),
	}
	if c.opts.StreamURL != "" {
		sopts = append(sopts, stream.WithBaseURL(c.opts.StreamURL))
	}

	sc := stream.NewStocksClient(feed, sopts...)
	if err := sc.Connect(ctx); err != nil {
		return err
	}
	c.stream = sc
	return nil
}

// SubscribePrice subscribes callback to live one-minute bar updates for
// the given symbols, then blocks until the stream terminates or ctx is
// done. The callback receives one normalized bar map per update. There
// is no reconnection or backpressure handling; run on a dedicated
// goroutine if non-blocking behaviour is needed.
func (c *Client) SubscribePrice(ctx context.Context, symbols []string, callback func(map[string]any)) error {
	if err := c.ensureStream(ctx); err != nil {
		return err
	}

	handler := func(b stream.Bar) {
		if m, ok := Normalize(b).(map[string]any); ok {
			callback(m)
		}
	}
	for _, symbol := range symbols {
		if err := c.stream.SubscribeToBars(handler, symbol); err != nil {
			return err
		}
	}

	c.log.Info("streaming bars", "symbols", symbols)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-c.stream.Terminated():
		return err
	}
}
