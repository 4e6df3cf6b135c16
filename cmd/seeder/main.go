// Seeder populates a throwaway catalog with synthetic auction lots,
// embeds them in an in-process vector index and runs one full match
// regeneration against it. Useful for poking at the pipeline without
// a real index service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/gavelworks/lotmatch"
	"github.com/gavelworks/lotmatch/core"
	"github.com/gavelworks/lotmatch/index/memory"
)

var houses = []string{
	"Halloway & Sons",
	"Bexfield Auctions",
	"Marchetti Fine Art",
	"Northgate Salerooms",
}

var saleDates = []string{
	"2023-03-04",
	"2023-03-04",
	"2023-04-15",
	"2023-05-01",
	"2023-05-20",
	"2023-06-11",
}

var (
	dbPath   = flag.String("db", "./catalog_db", "path to the catalog database")
	numLots  = flag.Int("lots", 200, "number of synthetic lots to seed")
	dim      = flag.Int("dim", 16, "embedding dimension")
	seed     = flag.Int64("seed", 42, "random seed")
	showKey  = flag.String("show", "", "print this item's snapshot after the run")
	inMemory = flag.Bool("mem", false, "keep the catalog in memory")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	rng := rand.New(rand.NewSource(*seed))

	var opts []lotmatch.CatalogOption
	if *inMemory {
		opts = append(opts, lotmatch.WithInMemoryStore())
	}
	catalog, err := lotmatch.OpenCatalog(*dbPath, opts...)
	if err != nil {
		panic(err)
	}
	defer catalog.Close()

	ctx := context.Background()
	ix := memory.New()

	items := make([]*core.Item, 0, *numLots)
	for i := 0; i < *numLots; i++ {
		key := core.ItemKey(fmt.Sprintf("lots/synthetic-%04d.jpg", i))

		item := &core.Item{
			Key:          key,
			Title:        fmt.Sprintf("Synthetic lot %d", i),
			SaleDate:     saleDates[rng.Intn(len(saleDates))],
			AuctionHouse: houses[rng.Intn(len(houses))],
		}
		if rng.Float64() < 0.8 { // some lots go unsold
			bid := float64(rng.Intn(20000)) + 50
			item.WinningBid = &bid
		}
		items = append(items, item)

		vector := make([]float32, *dim)
		for d := range vector {
			vector[d] = rng.Float32()
		}
		if err := ix.Upsert(string(key), vector); err != nil {
			panic(err)
		}
	}

	if _, err := catalog.ItemRepository().PutItems(ctx, items...); err != nil {
		panic(err)
	}
	slog.Info("seeded catalog", "lots", len(items), "vectors", ix.Len())

	regenerator, err := catalog.NewRegenerator(ix, nil, os.Stderr)
	if err != nil {
		panic(err)
	}

	summary, err := regenerator.Run(ctx)
	if err != nil {
		panic(err)
	}
	slog.Info("regeneration finished",
		"total", summary.Total,
		"categorized", summary.Categorized,
		"modified", summary.Modified,
		"failed", len(summary.Failed))

	if *showKey != "" {
		item, err := catalog.ItemRepository().GetItem(ctx, core.NormalizeKey(*showKey))
		if err != nil {
			panic(err)
		}
		for name, value := range item.Matches.Fields() {
			if value != nil {
				fmt.Printf("%s = %v\n", name, value)
			}
		}
	}
}
