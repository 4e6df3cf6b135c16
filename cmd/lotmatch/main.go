// Copyright 2026 Gavelworks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/gavelworks/lotmatch"
	"github.com/gavelworks/lotmatch/core"
	"github.com/gavelworks/lotmatch/index"
	"github.com/gavelworks/lotmatch/index/rest"
	"github.com/gavelworks/lotmatch/ingest"
	"github.com/gavelworks/lotmatch/regen"
)

func main() {
	app := &cli.App{
		Name:  "lotmatch",
		Usage: "Similarity-match regeneration for an auction lot catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "regenerate",
				Usage:  "Regenerate the match snapshots of every embedded item",
				Action: regenerateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "index-url",
						Usage:    "Vector index service base URL",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "index-api-key",
						Usage: "API key sent to the vector index service",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of neighbors to request per item",
						Value: index.DefaultTopK,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent neighbor queries (0 = half the CPUs)",
					},
					&cli.DurationFlag{
						Name:  "query-timeout",
						Usage: "Timeout for a single neighbor query",
						Value: index.DefaultQueryTimeout,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N items",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for the startup connectivity checks",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "load",
				Usage:  "Load a JSON-lines lot feed into the catalog",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the JSON-lines feed ('-' for stdin)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to upsert per store call",
						Value: ingest.DefaultBatchSize,
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Print one item and its flat match fields as JSON",
				ArgsUsage: "<item-key>",
				Action:    showCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func regenerateCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reportInterval := c.Int("report-interval")
	if reportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	maxRetries := c.Int("max-retries")
	if maxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	catalog, err := lotmatch.OpenCatalog(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	var clientOpts []rest.Option
	if key := c.String("index-api-key"); key != "" {
		clientOpts = append(clientOpts, rest.WithAPIKey(key))
	}
	client, err := rest.NewClient(c.String("index-url"), clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create index client: %w", err)
	}

	config := regen.DefaultConfig()
	config.ReportInterval = reportInterval
	config.MaxRetries = maxRetries
	config.RetryDelay = c.Duration("retry-delay")
	if poolSize := c.Int("pool-size"); poolSize > 0 {
		config.PoolSize = poolSize
	}

	regenerator, err := catalog.NewRegenerator(client, config, os.Stderr,
		index.WithTopK(c.Int("top-k")),
		index.WithQueryTimeout(c.Duration("query-timeout")),
	)
	if err != nil {
		return fmt.Errorf("failed to create regenerator: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Index: %s\n", c.String("index-url"))
	fmt.Fprintln(os.Stderr)

	summary, err := regenerator.Run(ctx)
	if err != nil {
		return fmt.Errorf("regeneration failed: %w", err)
	}

	if len(summary.Failed) > 0 {
		fmt.Fprintf(os.Stderr, "Failed keys:\n")
		for _, failed := range summary.Failed {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", failed.Key, failed.Err)
		}
	}

	return nil
}

func loadCommand(c *cli.Context) error {
	ctx := context.Background()

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	input := os.Stdin
	if path := c.String("file"); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open feed: %w", err)
		}
		defer f.Close()
		input = f
	}

	catalog, err := lotmatch.OpenCatalog(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	loader, err := catalog.NewLoader(ingest.WithBatchSize(batchSize))
	if err != nil {
		return fmt.Errorf("failed to create loader: %w", err)
	}

	report, err := loader.Load(ctx, input)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Loaded %d records (%d skipped)\n", report.Loaded, report.Skipped)
	return nil
}

func showCommand(c *cli.Context) error {
	ctx := context.Background()

	key := c.Args().First()
	if key == "" {
		return fmt.Errorf("item key is required")
	}

	catalog, err := lotmatch.OpenCatalog(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	item, err := catalog.ItemRepository().GetItem(ctx, core.NormalizeKey(key))
	if err != nil {
		return err
	}

	out := map[string]any{
		"item_key":      item.Key,
		"title":         item.Title,
		"winning_bid":   item.WinningBid,
		"sale_date":     item.SaleDate,
		"auction_house": item.AuctionHouse,
		"inserted_at":   item.InsertedAt,
		"updated_at":    item.UpdatedAt,
	}
	matches := item.Matches
	if matches == nil {
		matches = &core.MatchSet{}
	}
	for name, value := range matches.Fields() {
		out[name] = value
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
