package simplealpaca

import (
	"errors"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrTrailArgs is returned when a trailing-stop order specifies neither a
// trail percent nor a trail price.
var ErrTrailArgs = errors.New("trailing stop requires trail percent or trail price")

// ParseSide coerces a free-form side string: any string starting with
// "b" (case-insensitive) is buy, everything else is sell.
func ParseSide(side string) alpaca.Side {
	if strings.HasPrefix(strings.ToLower(side), "b") {
		return alpaca.Buy
	}
	return alpaca.Sell
}

// ParseTimeInForce lower-cases a time-in-force string into the SDK value
// ("day", "gtc", "ioc", "fok", ...). Already-canonical values pass
// through unchanged. Empty falls back to def.
func ParseTimeInForce(tif string, def alpaca.TimeInForce) alpaca.TimeInForce {
	if tif == "" {
		return def
	}
	return alpaca.TimeInForce(strings.ToLower(tif))
}

// submit places an order and returns the normalized response. A client
// order ID is generated when the request carries none, and the
// submission is appended to the journal.
func (c *Client) submit(req alpaca.PlaceOrderRequest) (any, error) {
	if req.ClientOrderID == "" {
		req.ClientOrderID = uuid.NewString()
	}

	order, err := c.trade.PlaceOrder(req)
	if err != nil {
		return nil, err
	}

	c.log.Info("order submitted",
		"symbol", req.Symbol,
		"side", req.Side,
		"type", req.Type,
		"client_order_id", req.ClientOrderID,
	)
	c.journalSubmit(req, order)

	return c.normalize(order), nil
}

// MarketBuy submits a market buy for qty shares. Empty tif means "day".
func (c *Client) MarketBuy(symbol string, qty float64, tif string) (any, error) {
	q := decimal.NewFromFloat(qty)
	return c.submit(alpaca.PlaceOrderRequest{
		Symbol:      symbol,
		Qty:         &q,
		Side:        alpaca.Buy,
		Type:        alpaca.Market,
		TimeInForce: ParseTimeInForce(tif, alpaca.Day),
	})
}

// MarketSell submits a market sell for qty shares. Empty tif means "day".
func (c *Client) MarketSell(symbol string, qty float64, tif string) (any, error) {
	q := decimal.NewFromFloat(qty)
	return c.submit(alpaca.PlaceOrderRequest{
		Symbol:      symbol,
		Qty:         &q,
		Side:        alpaca.Sell,
		Type:        alpaca.Market,
		TimeInForce: ParseTimeInForce(tif, alpaca.Day),
	})
}

// MarketBuyNotional submits a market buy sized by dollar amount rather
// than share quantity (fractional orders). Notional orders are day-only.
func (c *Client) MarketBuyNotional(symbol string, dollars float64) (any, error) {
	n := decimal.NewFromFloat(dollars)
	return c.submit(alpaca.PlaceOrderRequest{
		Symbol:      symbol,
		Notional:    &n,
		Side:        alpaca.Buy,
		Type:        alpaca.Market,
		TimeInForce: alpaca.Day,
	})
}

// LimitOrder submits a limit order. Empty side means "buy", empty tif
// means "day".
func (c *Client) LimitOrder(symbol string, qty, limitPrice float64, side, tif string) (any, error) {
	if side == "" {
		side = "buy"
	}
	q := decimal.NewFromFloat(qty)
	lp := decimal.NewFromFloat(limitPrice)
	return c.submit(alpaca.PlaceOrderRequest{
		Symbol:      symbol,
		Qty:         &q,
		Side:        ParseSide(side),
		Type:        alpaca.Limit,
		LimitPrice:  &lp,
		TimeInForce: ParseTimeInForce(tif, alpaca.Day),
	})
}

// StopLoss submits a stop order. Empty side means "sell", empty tif
// means "gtc".
func (c *Client) StopLoss(symbol string, qty, stopPrice float64, side, tif string) (any, error) {
	if side == "" {
		side = "sell"
	}
	q := decimal.NewFromFloat(qty)
	sp := decimal.NewFromFloat(stopPrice)
	return c.submit(alpaca.PlaceOrderRequest{
		Symbol:      symbol,
		Qty:         &q,
		Side:        ParseSide(side),
		Type:        alpaca.Stop,
		StopPrice:   &sp,
		TimeInForce: ParseTimeInForce(tif, alpaca.GTC),
	})
}

// TrailingStop submits a trailing-stop order. At least one of
// trailPercent or trailPrice must be non-zero; a zero value means the
// argument is absent. Empty side means "sell", empty tif means "gtc".
func (c *Client) TrailingStop(symbol string, qty, trailPercent, trailPrice float64, side, tif string) (any, error) {
	if trailPercent == 0 && trailPrice == 0 {
		return nil, ErrTrailArgs
	}
	if side == "" {
		side = "sell"
	}

	q := decimal.NewFromFloat(qty)
	req := alpaca.PlaceOrderRequest{
		Symbol:      symbol,
		Qty:         &q,
		Side:        ParseSide(side),
		Type:        alpaca.TrailingStop,
		TimeInForce: ParseTimeInForce(tif, alpaca.GTC),
	}
	if trailPercent != 0 {
		tp := decimal.NewFromFloat(trailPercent)
		req.TrailPercent = &tp
	}
	if trailPrice != 0 {
		tp := decimal.NewFromFloat(trailPrice)
		req.TrailPrice = &tp
	}
	return c.submit(req)
}

// PlaceOrder submits an arbitrary order request, for anything the
// convenience helpers don't cover (stop-limit, bracket orders, extended
// hours). The request is forwarded as-is apart from client order ID
// generation.
func (c *Client) PlaceOrder(req alpaca.PlaceOrderRequest) (any, error) {
	return c.submit(req)
}

// journalSubmit appends an order submission to the journal, if configured.
func (c *Client) journalSubmit(req alpaca.PlaceOrderRequest, order *alpaca.Order) {
	if c.opts.Journal == nil {
		return
	}

	record := orderRecordFrom(req, order)
	if err := c.opts.Journal.Record(record); err != nil {
		c.log.Warn("journal write failed", "client_order_id", req.ClientOrderID, "err", err)
	}
}

// orderRecordFrom flattens a request/response pair into an audit record.
func orderRecordFrom(req alpaca.PlaceOrderRequest, order *alpaca.Order) OrderRecord {
	decStr := func(d *decimal.Decimal) string {
		if d == nil {
			return ""
		}
		return d.String()
	}

	e := OrderRecord{
		Time:          time.Now().UTC(),
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Side:          string(req.Side),
		Type:          string(req.Type),
		Qty:           decStr(req.Qty),
		Notional:      decStr(req.Notional),
		TimeInForce:   string(req.TimeInForce),
		LimitPrice:    decStr(req.LimitPrice),
		StopPrice:     decStr(req.StopPrice),
		TrailPercent:  decStr(req.TrailPercent),
		TrailPrice:    decStr(req.TrailPrice),
	}
	if order != nil {
		e.OrderID = order.ID
		e.Status = order.Status
	}
	return e
}

// journalCancel appends a cancellation record to the journal, if
// configured. orderID "*" means all open orders.
func (c *Client) journalCancel(orderID string) {
	if c.opts.Journal == nil {
		return
	}
	if err := c.opts.Journal.RecordCancel(orderID); err != nil {
		c.log.Warn("journal write failed", "order_id", orderID, "err", err)
	}
}
