// Command replay loads a persisted event log and replays it against a
// fresh exchange, printing the resulting best bid/ask and trade count.
package main

import (
	"flag"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/abdoElHodaky/nanobook/pkg/matching"
)

type replayParams struct {
	Path string
}

func loadParams() replayParams {
	path := flag.String("events", "events.jsonl", "path to a JSON Lines event log")
	flag.Parse()
	return replayParams{Path: *path}
}

func runReplay(logger *zap.Logger, params replayParams) error {
	exchange, err := matching.Load(params.Path, matching.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	bid, hasBid, ask, hasAsk := exchange.BestBidAsk()
	fmt.Printf("events replayed: %d\n", len(exchange.Events()))
	fmt.Printf("trades: %d\n", len(exchange.Trades()))
	if hasBid {
		fmt.Printf("best bid: %s\n", bid)
	} else {
		fmt.Println("best bid: none")
	}
	if hasAsk {
		fmt.Printf("best ask: %s\n", ask)
	} else {
		fmt.Println("best ask: none")
	}
	return nil
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	app := fx.New(
		fx.Supply(logger),
		fx.Provide(loadParams),
		fx.Invoke(func(logger *zap.Logger, params replayParams, shutdowner fx.Shutdowner) {
			if err := runReplay(logger, params); err != nil {
				logger.Error("replay failed", zap.Error(err))
			}
			_ = shutdowner.Shutdown()
		}),
	)

	app.Run()
}
