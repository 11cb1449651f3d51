// Command alpaca-stream subscribes to live one-minute bar updates for the
// given symbols and prints one JSON line per bar until interrupted.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/Michael-Lizzio/AlpacaInterface/internal/config"
	"github.com/Michael-Lizzio/AlpacaInterface/internal/util"
	"github.com/Michael-Lizzio/AlpacaInterface/pkg/simplealpaca"
)

func main() {
	cfgPath := flag.String("config", defaultConfigPath(), "config file path")
	flag.Parse()

	symbols := flag.Args()
	if len(symbols) == 0 {
		fmt.Fprintln(os.Stderr, "usage: alpaca-stream [flags] SYMBOL [SYMBOL...]")
		os.Exit(2)
	}
	for i := range symbols {
		symbols[i] = strings.ToUpper(symbols[i])
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	api := simplealpaca.New(simplealpaca.Options{
		APIKey:    cfg.Alpaca.APIKey,
		APISecret: cfg.Alpaca.APISecret,
		Paper:     cfg.Alpaca.Paper,
		BaseURL:   cfg.Alpaca.BaseURL,
		DataURL:   cfg.Alpaca.DataURL,
		StreamURL: cfg.Alpaca.StreamURL,
		Feed:      marketdata.Feed(cfg.Alpaca.Feed),
		Logger:    logger,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	enc := json.NewEncoder(os.Stdout)
	err = api.SubscribePrice(ctx, symbols, func(bar map[string]any) {
		if err := enc.Encode(bar); err != nil {
			logger.Error("encoding bar", "err", err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("stream error: %v", err)
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("ALPACA_CONFIG"); p != "" {
		return p
	}
	return "config/alpaca.yaml"
}
