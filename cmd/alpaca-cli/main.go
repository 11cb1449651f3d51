// Command alpaca-cli is a scriptable surface over the simplified Alpaca
// wrapper. Every subcommand maps to one wrapper call and prints the
// normalized result as JSON on stdout.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/Michael-Lizzio/AlpacaInterface/internal/config"
	"github.com/Michael-Lizzio/AlpacaInterface/internal/journal"
	"github.com/Michael-Lizzio/AlpacaInterface/internal/util"
	"github.com/Michael-Lizzio/AlpacaInterface/pkg/simplealpaca"
)

const usage = `usage: alpaca-cli [flags] <command> [args]

account / positions:
  account                      account snapshot
  summary                      cash, buying power, portfolio value, positions
  cash                         cash balance
  buying-power                 buying power
  positions                    all open positions
  position SYMBOL              one position
  close SYMBOL                 liquidate one position at market
  close-all                    liquidate every position at market

orders:
  buy SYMBOL QTY               market buy           [-tif]
  sell SYMBOL QTY              market sell          [-tif]
  notional SYMBOL DOLLARS      market buy by dollar amount
  limit SYMBOL QTY PRICE       limit order          [-side -tif]
  stop SYMBOL QTY PRICE        stop order           [-side -tif]
  trail SYMBOL QTY             trailing stop        [-percent | -price] [-side -tif]
  orders                       list orders          [-status -limit]
  order ID                     one order
  cancel ID                    cancel one order
  cancel-all                   cancel every open order

market data:
  assets                       tradable assets      [-status]
  quote SYMBOL                 latest quote
  trade SYMBOL                 latest trade
  bar SYMBOL                   latest minute bar
  snapshot SYMBOL              full snapshot
  bars SYMBOL TF START END     historical bars (TF like 1Min, 1Day; dates YYYY-MM-DD) [-limit]
  clock                        market clock
  calendar START END           trading calendar
`

func main() {
	var (
		cfgPath = flag.String("config", defaultConfigPath(), "config file path")
		live    = flag.Bool("live", false, "use the live trading endpoint (overrides paper mode)")
		raw     = flag.Bool("raw", false, "skip normalization, print SDK values as-is")
		side    = flag.String("side", "", "order side (buy/sell)")
		tif     = flag.String("tif", "", "time in force (day, gtc, ioc, fok)")
		percent = flag.Float64("percent", 0, "trail percent")
		price   = flag.Float64("price", 0, "trail price")
		status  = flag.String("status", "", "status filter")
		limit   = flag.Int("limit", 0, "result limit")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *live {
		cfg.Alpaca.Paper = false
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	opts := simplealpaca.Options{
		APIKey:    cfg.Alpaca.APIKey,
		APISecret: cfg.Alpaca.APISecret,
		Paper:     cfg.Alpaca.Paper,
		BaseURL:   cfg.Alpaca.BaseURL,
		DataURL:   cfg.Alpaca.DataURL,
		StreamURL: cfg.Alpaca.StreamURL,
		Feed:      marketdata.Feed(cfg.Alpaca.Feed),
		Raw:       *raw,
		Logger:    logger,
	}

	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			log.Fatalf("failed to open journal: %v", err)
		}
		defer j.Close()
		opts.Journal = j
	}

	api := simplealpaca.New(opts)

	cmd, rest := args[0], args[1:]
	result, err := run(api, cmd, rest, cmdFlags{
		side:    *side,
		tif:     *tif,
		percent: *percent,
		price:   *price,
		status:  *status,
		limit:   *limit,
	})
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}

	if result != nil {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("encoding result: %v", err)
		}
		fmt.Println(string(out))
	}
}

type cmdFlags struct {
	side    string
	tif     string
	percent float64
	price   float64
	status  string
	limit   int
}

// run dispatches one subcommand. A nil result with nil error means the
// command has no payload (cancel, close).
func run(api *simplealpaca.Client, cmd string, args []string, f cmdFlags) (any, error) {
	switch cmd {
	case "account":
		return api.Account()
	case "summary":
		return api.PortfolioSummary()
	case "cash":
		return api.Cash()
	case "buying-power":
		return api.BuyingPower()
	case "positions":
		return api.Positions()
	case "position":
		return api.Position(arg(args, 0))
	case "close":
		return api.ClosePosition(arg(args, 0))
	case "close-all":
		return api.CloseAllPositions()

	case "buy":
		qty, err := floatArg(args, 1, "qty")
		if err != nil {
			return nil, err
		}
		return api.MarketBuy(arg(args, 0), qty, f.tif)
	case "sell":
		qty, err := floatArg(args, 1, "qty")
		if err != nil {
			return nil, err
		}
		return api.MarketSell(arg(args, 0), qty, f.tif)
	case "notional":
		dollars, err := floatArg(args, 1, "dollars")
		if err != nil {
			return nil, err
		}
		return api.MarketBuyNotional(arg(args, 0), dollars)
	case "limit":
		qty, err := floatArg(args, 1, "qty")
		if err != nil {
			return nil, err
		}
		px, err := floatArg(args, 2, "price")
		if err != nil {
			return nil, err
		}
		return api.LimitOrder(arg(args, 0), qty, px, f.side, f.tif)
	case "stop":
		qty, err := floatArg(args, 1, "qty")
		if err != nil {
			return nil, err
		}
		px, err := floatArg(args, 2, "price")
		if err != nil {
			return nil, err
		}
		return api.StopLoss(arg(args, 0), qty, px, f.side, f.tif)
	case "trail":
		qty, err := floatArg(args, 1, "qty")
		if err != nil {
			return nil, err
		}
		return api.TrailingStop(arg(args, 0), qty, f.percent, f.price, f.side, f.tif)

	case "orders":
		return api.ListOrders(f.status, f.limit)
	case "order":
		return api.Order(arg(args, 0))
	case "cancel":
		return nil, api.CancelOrder(arg(args, 0))
	case "cancel-all":
		return nil, api.CancelAllOrders()

	case "assets":
		return api.Assets(f.status, "")
	case "quote":
		return api.LatestQuote(arg(args, 0))
	case "trade":
		return api.LatestTrade(arg(args, 0))
	case "bar":
		return api.LatestBar(arg(args, 0))
	case "snapshot":
		return api.Snapshot(arg(args, 0))
	case "bars":
		start, err := dateArg(args, 2, "start")
		if err != nil {
			return nil, err
		}
		end, err := dateArg(args, 3, "end")
		if err != nil {
			return nil, err
		}
		return api.Bars(arg(args, 0), arg(args, 1), start, end, f.limit)
	case "clock":
		return api.Clock()
	case "calendar":
		start, err := dateArg(args, 0, "start")
		if err != nil {
			return nil, err
		}
		end, err := dateArg(args, 1, "end")
		if err != nil {
			return nil, err
		}
		return api.Calendar(start, end)
	}

	return nil, fmt.Errorf("unknown command %q", cmd)
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func floatArg(args []string, i int, name string) (float64, error) {
	s := arg(args, i)
	if s == "" {
		return 0, fmt.Errorf("missing %s argument", name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return v, nil
}

func dateArg(args []string, i int, name string) (time.Time, error) {
	s := arg(args, i)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing %s argument", name)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		// Also accept full RFC 3339 timestamps.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid %s %q (want YYYY-MM-DD)", name, s)
		}
	}
	return t, nil
}

func defaultConfigPath() string {
	if p := os.Getenv("ALPACA_CONFIG"); p != "" {
		return p
	}
	return "config/alpaca.yaml"
}
