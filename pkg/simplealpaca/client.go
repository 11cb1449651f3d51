// Package simplealpaca is a thin convenience wrapper around the Alpaca
// trading and market-data APIs. It hides the SDK's request/response object
// model behind simplified method calls that return JSON-friendly values:
// account, cash, and position snapshots, market/limit/stop/trailing-stop
// order submission, asset listing, quote/trade/bar retrieval, and optional
// live price streaming.
//
// All authoritative state lives server-side. The wrapper performs single
// blocking calls and propagates remote errors unchanged; the only locally
// raised error is the trailing-stop argument check.
package simplealpaca

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// Default trading endpoints. DataURL and StreamURL fall back to the SDK
// defaults when left empty.
const (
	PaperBaseURL = "https://paper-api.alpaca.markets"
	LiveBaseURL  = "https://api.alpaca.markets"
)

// TradingAPI is the subset of the Alpaca trading client used by the wrapper.
type TradingAPI interface {
	GetAccount() (*alpaca.Account, error)
	GetPositions() ([]alpaca.Position, error)
	GetPosition(symbol string) (*alpaca.Position, error)
	ClosePosition(symbol string, req alpaca.ClosePositionRequest) (*alpaca.Order, error)
	CloseAllPositions(req alpaca.CloseAllPositionsRequest) ([]alpaca.Order, error)
	PlaceOrder(req alpaca.PlaceOrderRequest) (*alpaca.Order, error)
	GetOrders(req alpaca.GetOrdersRequest) ([]alpaca.Order, error)
	GetOrder(orderID string) (*alpaca.Order, error)
	CancelOrder(orderID string) error
	CancelAllOrders() error
	GetAssets(req alpaca.GetAssetsRequest) ([]alpaca.Asset, error)
	GetClock() (*alpaca.Clock, error)
	GetCalendar(req alpaca.GetCalendarRequest) ([]alpaca.CalendarDay, error)
}

// MarketDataAPI is the subset of the Alpaca historical market-data client
// used by the wrapper.
type MarketDataAPI interface {
	GetLatestQuote(symbol string, req marketdata.GetLatestQuoteRequest) (*marketdata.Quote, error)
	GetLatestTrade(symbol string, req marketdata.GetLatestTradeRequest) (*marketdata.Trade, error)
	GetLatestBar(symbol string, req marketdata.GetLatestBarRequest) (*marketdata.Bar, error)
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
	GetMultiBars(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error)
	GetSnapshot(symbol string, req marketdata.GetSnapshotRequest) (*marketdata.Snapshot, error)
}

// Compile-time interface checks against the real SDK clients.
var _ TradingAPI = (*alpaca.Client)(nil)
var _ MarketDataAPI = (*marketdata.Client)(nil)

// Options configures a Client.
type Options struct {
	APIKey    string
	APISecret string

	// Paper selects the paper-trading endpoint (default true in config).
	// Ignored when BaseURL is set.
	Paper bool

	// Endpoint overrides. Empty means SDK defaults (BaseURL is derived
	// from Paper when empty).
	BaseURL   string
	DataURL   string
	StreamURL string

	// Feed is the market-data feed ("iex", "sip"). Empty means the
	// account default.
	Feed marketdata.Feed

	// Raw disables normalization: methods returning any/[]any yield the
	// SDK values unchanged.
	Raw bool

	// Journal, when non-nil, receives an audit record for every order
	// submission and cancellation. Journal failures are logged, never
	// returned.
	Journal OrderRecorder

	Logger *slog.Logger
}

// Client is the simplified trading surface. It holds two long-lived
// delegates (trading, historical market data) and a lazily-created
// streaming client. Methods are synchronous and blocking; the zero
// value is not usable, construct with New.
type Client struct {
	trade TradingAPI
	data  MarketDataAPI

	opts Options
	log  *slog.Logger

	stream streamClient // created at most once by SubscribePrice
}

// New creates a Client from the given options.
func New(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		if opts.Paper {
			baseURL = PaperBaseURL
		} else {
			baseURL = LiveBaseURL
		}
	}

	trade := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    opts.APIKey,
		APISecret: opts.APISecret,
		BaseURL:   baseURL,
	})

	dataOpts := marketdata.ClientOpts{
		APIKey:    opts.APIKey,
		APISecret: opts.APISecret,
	}
	if opts.DataURL != "" {
		dataOpts.BaseURL = opts.DataURL
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		trade: trade,
		data:  marketdata.NewClient(dataOpts),
		opts:  opts,
		log:   logger.With("component", "simplealpaca"),
	}
}

// NewWithClients creates a Client over pre-built delegates. Useful for
// tests and for callers that need custom SDK client options.
func NewWithClients(trade TradingAPI, data MarketDataAPI, opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		trade: trade,
		data:  data,
		opts:  opts,
		log:   logger.With("component", "simplealpaca"),
	}
}

// normalize applies Normalize unless raw mode is enabled.
func (c *Client) normalize(v any) any {
	if c.opts.Raw {
		return v
	}
	return Normalize(v)
}

// normalizeSlice normalizes each element of a slice of SDK values.
func normalizeSlice[T any](c *Client, items []T) []any {
	out := make([]any, len(items))
	for i := range items {
		out[i] = c.normalize(items[i])
	}
	return out
}

// ---------------------------------------------------------------------------
// Account / positions
// ---------------------------------------------------------------------------

// Account returns the account snapshot.
func (c *Client) Account() (any, error) {
	acct, err := c.trade.GetAccount()
	if err != nil {
		return nil, err
	}
	return c.normalize(acct), nil
}

// Cash returns the account cash balance.
func (c *Client) Cash() (float64, error) {
	acct, err := c.trade.GetAccount()
	if err != nil {
		return 0, err
	}
	return acct.Cash.InexactFloat64(), nil
}

// BuyingPower returns the account buying power.
func (c *Client) BuyingPower() (float64, error) {
	acct, err := c.trade.GetAccount()
	if err != nil {
		return 0, err
	}
	return acct.BuyingPower.InexactFloat64(), nil
}

// Positions returns all open positions.
func (c *Client) Positions() ([]any, error) {
	positions, err := c.trade.GetPositions()
	if err != nil {
		return nil, err
	}
	return normalizeSlice(c, positions), nil
}

// Position returns the open position for a symbol.
func (c *Client) Position(symbol string) (any, error) {
	pos, err := c.trade.GetPosition(symbol)
	if err != nil {
		return nil, err
	}
	return c.normalize(pos), nil
}

// PortfolioSummary returns cash, buying power, portfolio value, and all
// open positions in a single map.
func (c *Client) PortfolioSummary() (map[string]any, error) {
	acct, err := c.trade.GetAccount()
	if err != nil {
		return nil, err
	}
	positions, err := c.Positions()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"cash":            acct.Cash.String(),
		"buying_power":    acct.BuyingPower.String(),
		"portfolio_value": acct.PortfolioValue.String(),
		"positions":       positions,
	}, nil
}

// ClosePosition liquidates the position for a symbol at market.
func (c *Client) ClosePosition(symbol string) (any, error) {
	order, err := c.trade.ClosePosition(symbol, alpaca.ClosePositionRequest{})
	if err != nil {
		return nil, err
	}
	return c.normalize(order), nil
}

// CloseAllPositions liquidates every open position at market.
func (c *Client) CloseAllPositions() ([]any, error) {
	orders, err := c.trade.CloseAllPositions(alpaca.CloseAllPositionsRequest{})
	if err != nil {
		return nil, err
	}
	return normalizeSlice(c, orders), nil
}

// ---------------------------------------------------------------------------
// Orders (query / cancel — submission helpers live in orders.go)
// ---------------------------------------------------------------------------

// ListOrders returns orders filtered by status ("open", "closed", "all")
// up to limit. Empty status means "all"; limit <= 0 means 50.
func (c *Client) ListOrders(status string, limit int) ([]any, error) {
	if status == "" {
		status = "all"
	}
	if limit <= 0 {
		limit = 50
	}
	orders, err := c.trade.GetOrders(alpaca.GetOrdersRequest{
		Status: status,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	return normalizeSlice(c, orders), nil
}

// Order returns a single order by its remote ID.
func (c *Client) Order(orderID string) (any, error) {
	order, err := c.trade.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	return c.normalize(order), nil
}

// CancelOrder requests cancellation of an open order by its remote ID.
func (c *Client) CancelOrder(orderID string) error {
	if err := c.trade.CancelOrder(orderID); err != nil {
		return err
	}
	c.journalCancel(orderID)
	return nil
}

// CancelAllOrders cancels every open order.
func (c *Client) CancelAllOrders() error {
	if err := c.trade.CancelAllOrders(); err != nil {
		return err
	}
	c.journalCancel("*")
	return nil
}

// ---------------------------------------------------------------------------
// Assets
// ---------------------------------------------------------------------------

// Assets lists tradable assets. Empty status defaults to "active", empty
// assetClass to "us_equity".
func (c *Client) Assets(status, assetClass string) ([]any, error) {
	if status == "" {
		status = "active"
	}
	if assetClass == "" {
		assetClass = "us_equity"
	}
	assets, err := c.trade.GetAssets(alpaca.GetAssetsRequest{
		Status:     status,
		AssetClass: assetClass,
	})
	if err != nil {
		return nil, err
	}
	return normalizeSlice(c, assets), nil
}

// ---------------------------------------------------------------------------
// Clock / calendar
// ---------------------------------------------------------------------------

// Clock returns the market clock (open state, next open/close).
func (c *Client) Clock() (any, error) {
	clock, err := c.trade.GetClock()
	if err != nil {
		return nil, err
	}
	return c.normalize(clock), nil
}

// Calendar returns the trading calendar between start and end.
func (c *Client) Calendar(start, end time.Time) ([]any, error) {
	days, err := c.trade.GetCalendar(alpaca.GetCalendarRequest{
		Start: start,
		End:   end,
	})
	if err != nil {
		return nil, err
	}
	return normalizeSlice(c, days), nil
}

// ---------------------------------------------------------------------------
// Market data
// ---------------------------------------------------------------------------

// LatestQuote returns the latest NBBO quote for a symbol.
func (c *Client) LatestQuote(symbol string) (any, error) {
	quote, err := c.data.GetLatestQuote(symbol, marketdata.GetLatestQuoteRequest{
		Feed: c.opts.Feed,
	})
	if err != nil {
		return nil, err
	}
	return c.normalize(quote), nil
}

// LatestTrade returns the latest trade for a symbol.
func (c *Client) LatestTrade(symbol string) (any, error) {
	trade, err := c.data.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{
		Feed: c.opts.Feed,
	})
	if err != nil {
		return nil, err
	}
	return c.normalize(trade), nil
}

// LatestBar returns the latest minute bar for a symbol.
func (c *Client) LatestBar(symbol string) (any, error) {
	bar, err := c.data.GetLatestBar(symbol, marketdata.GetLatestBarRequest{
		Feed: c.opts.Feed,
	})
	if err != nil {
		return nil, err
	}
	return c.normalize(bar), nil
}

// Snapshot returns the current snapshot (latest trade/quote, minute and
// daily bars) for a symbol.
func (c *Client) Snapshot(symbol string) (any, error) {
	snap, err := c.data.GetSnapshot(symbol, marketdata.GetSnapshotRequest{
		Feed: c.opts.Feed,
	})
	if err != nil {
		return nil, err
	}
	return c.normalize(snap), nil
}

// Bars returns historical bars for a symbol. The timeframe is the
// compact string form ("1Min", "5Min", "1Day"). limit <= 0 means no
// local cap.
func (c *Client) Bars(symbol, timeframe string, start, end time.Time, limit int) ([]any, error) {
	bars, err := c.RawBars(symbol, timeframe, start, end, limit)
	if err != nil {
		return nil, err
	}
	return normalizeSlice(c, bars), nil
}

// RawBars is Bars without normalization, for callers that need the
// typed SDK values (e.g. the parquet exporter).
func (c *Client) RawBars(symbol, timeframe string, start, end time.Time, limit int) ([]marketdata.Bar, error) {
	tf, err := ParseTimeFrame(timeframe)
	if err != nil {
		return nil, err
	}
	req := marketdata.GetBarsRequest{
		TimeFrame: tf,
		Start:     start,
		End:       end,
		Feed:      c.opts.Feed,
	}
	if limit > 0 {
		req.TotalLimit = limit
	}
	bars, err := c.data.GetBars(symbol, req)
	if err != nil {
		return nil, fmt.Errorf("GetBars %s: %w", symbol, err)
	}
	return bars, nil
}

// MultiBars returns historical bars for several symbols in one call,
// keyed by symbol.
func (c *Client) MultiBars(symbols []string, timeframe string, start, end time.Time, limit int) (map[string][]any, error) {
	tf, err := ParseTimeFrame(timeframe)
	if err != nil {
		return nil, err
	}
	req := marketdata.GetBarsRequest{
		TimeFrame: tf,
		Start:     start,
		End:       end,
		Feed:      c.opts.Feed,
	}
	if limit > 0 {
		req.TotalLimit = limit
	}
	multi, err := c.data.GetMultiBars(symbols, req)
	if err != nil {
		return nil, fmt.Errorf("GetMultiBars: %w", err)
	}
	out := make(map[string][]any, len(multi))
	for symbol, bars := range multi {
		out[symbol] = normalizeSlice(c, bars)
	}
	return out, nil
}
