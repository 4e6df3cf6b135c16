package main

import (
	"flag"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	makeContext := func(level string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("log-level", level, "")
		require.NoError(t, set.Set("log-level", level))
		return cli.NewContext(cli.NewApp(), set, nil)
	}

	t.Run("accepts valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			assert.NoError(t, setupLogger(makeContext(level)), level)
		}
	})

	t.Run("rejects unknown levels", func(t *testing.T) {
		err := setupLogger(makeContext("loud"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestRegenerateCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "lotmatch",
		Commands: []*cli.Command{
			{
				Name:   "regenerate",
				Action: func(c *cli.Context) error { return nil },
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true},
					&cli.StringFlag{Name: "index-url", Required: true},
				},
			},
		},
	}

	t.Run("index-url is required", func(t *testing.T) {
		err := app.Run([]string{"lotmatch", "regenerate", "--db", "/tmp/test"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index-url")
	})

	t.Run("db is required", func(t *testing.T) {
		err := app.Run([]string{"lotmatch", "regenerate", "--index-url", "http://localhost:9000"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})
}

func TestLoadThenShow(t *testing.T) {
	dir := t.TempDir()

	feed := dir + "/feed.jsonl"
	require.NoError(t, os.WriteFile(feed, []byte(
		`{"item_key": "lots/a.jpg", "title": "Georgian silver teapot", "winning_bid": 1200, "sale_date": "2023-05-01", "auction_house": "Halloway & Sons"}`+"\n",
	), 0o644))

	app := &cli.App{
		Name: "lotmatch",
		Commands: []*cli.Command{
			{
				Name:   "load",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true},
					&cli.StringFlag{Name: "file", Required: true},
					&cli.IntFlag{Name: "batch-size", Value: 500},
				},
			},
			{
				Name:   "show",
				Action: showCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true},
				},
			},
		},
	}

	dbPath := dir + "/db"
	require.NoError(t, app.Run([]string{"lotmatch", "load", "--db", dbPath, "--file", feed}))
	require.NoError(t, app.Run([]string{"lotmatch", "show", "--db", dbPath, "lots/a.jpg"}))

	err := app.Run([]string{"lotmatch", "show", "--db", dbPath, "lots/missing.jpg"})
	require.Error(t, err)
}
