package regen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavelworks/lotmatch/core"
)

// fakeQuerier is a function-field test double for NeighborQuerier.
type fakeQuerier struct {
	neighborsFunc func(ctx context.Context, subject core.ItemKey) ([]core.NeighborCandidate, error)
	pingFunc      func(ctx context.Context) error
}

func (f *fakeQuerier) Neighbors(ctx context.Context, subject core.ItemKey) ([]core.NeighborCandidate, error) {
	if f.neighborsFunc != nil {
		return f.neighborsFunc(ctx, subject)
	}
	return nil, nil
}

func (f *fakeQuerier) Ping(ctx context.Context) error {
	if f.pingFunc != nil {
		return f.pingFunc(ctx)
	}
	return nil
}

func testConfig() *Config {
	return &Config{
		PoolSize:       2,
		ReportInterval: 1000,
		MaxRetries:     1,
		RetryDelay:     time.Millisecond,
	}
}

func TestNewRegenerator_RequiresDependencies(t *testing.T) {
	repo := setupRepo(t)

	_, err := NewRegenerator(nil, &fakeQuerier{}, nil, nil, nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewRegenerator(repo, nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNeighborSourceRequired)
}

func TestRegenerator_Run(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	// The subject plus eight ranked neighbors, six pre-dating it, two
	// post-dating it, none at its auction house.
	subject := &core.Item{Key: "lots/subject.jpg", WinningBid: fptr(5000), SaleDate: "2023-06-15", AuctionHouse: "Halloway & Sons"}
	dates := []string{
		"2023-06-01", "2023-06-20", "2023-05-11", "2023-06-02",
		"2023-06-30", "2022-12-24", "2023-06-14", "2023-01-05",
	}
	items := []*core.Item{subject}
	var neighborKeys []core.ItemKey
	for i, date := range dates {
		key := core.ItemKey(fmt.Sprintf("lots/n%d.jpg", i))
		neighborKeys = append(neighborKeys, key)
		items = append(items, &core.Item{Key: key, WinningBid: fptr(float64(1000 + i)), SaleDate: date, AuctionHouse: "Bexfield"})
	}
	_, err := repo.PutItems(ctx, items...)
	require.NoError(t, err)

	querier := &fakeQuerier{
		neighborsFunc: func(ctx context.Context, key core.ItemKey) ([]core.NeighborCandidate, error) {
			if key != subject.Key {
				return nil, nil
			}
			out := make([]core.NeighborCandidate, len(neighborKeys))
			for i, nk := range neighborKeys {
				out[i] = core.NeighborCandidate{Key: nk, Score: float64(99 - i)}
			}
			return out, nil
		},
	}

	var progress bytes.Buffer
	regenerator, err := NewRegenerator(repo, querier, testConfig(), &progress, nil)
	require.NoError(t, err)

	summary, err := regenerator.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 9, summary.Total)
	assert.Equal(t, 9, summary.Categorized)
	assert.Equal(t, 0, summary.QueryFailures)
	assert.Equal(t, 9, summary.Matched)
	assert.Equal(t, 9, summary.Modified)
	assert.Empty(t, summary.Failed)
	assert.Contains(t, progress.String(), "Starting match regeneration for 9 items")

	stored, err := repo.GetItem(ctx, subject.Key)
	require.NoError(t, err)
	require.NotNil(t, stored.Matches)

	require.Len(t, stored.Matches.Overall, 5)
	for i := 0; i < 5; i++ {
		assert.Equal(t, neighborKeys[i], stored.Matches.Overall[i].Key)
	}

	wantBefore := []core.ItemKey{"lots/n0.jpg", "lots/n2.jpg", "lots/n3.jpg", "lots/n5.jpg", "lots/n6.jpg"}
	require.Len(t, stored.Matches.Before, 5)
	for i, want := range wantBefore {
		assert.Equal(t, want, stored.Matches.Before[i].Key)
	}

	assert.Empty(t, stored.Matches.SameDay)

	// Neighbors with no neighbors of their own get all-empty snapshots.
	other, err := repo.GetItem(ctx, "lots/n0.jpg")
	require.NoError(t, err)
	require.NotNil(t, other.Matches)
	assert.Empty(t, other.Matches.Overall)
}

func TestRegenerator_QueryFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	prior := &core.MatchSet{Overall: []core.Match{{Key: "lots/old.jpg", Score: 88.8}}}
	_, err := repo.PutItems(ctx,
		&core.Item{Key: "lots/flaky.jpg", SaleDate: "2023-05-01", Matches: prior},
		&core.Item{Key: "lots/healthy.jpg", SaleDate: "2023-05-01"},
	)
	require.NoError(t, err)

	querier := &fakeQuerier{
		neighborsFunc: func(ctx context.Context, key core.ItemKey) ([]core.NeighborCandidate, error) {
			if key == "lots/flaky.jpg" {
				return nil, errors.New("index timeout")
			}
			return []core.NeighborCandidate{{Key: "lots/flaky.jpg", Score: 70}}, nil
		},
	}

	regenerator, err := NewRegenerator(repo, querier, testConfig(), nil, nil)
	require.NoError(t, err)

	summary, err := regenerator.Run(ctx)
	require.NoError(t, err, "per-item query failures never fail the run")

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Categorized)
	assert.Equal(t, 1, summary.QueryFailures)

	stored, err := repo.GetItem(ctx, "lots/flaky.jpg")
	require.NoError(t, err)
	require.NotNil(t, stored.Matches)
	require.Len(t, stored.Matches.Overall, 1)
	assert.Equal(t, core.ItemKey("lots/old.jpg"), stored.Matches.Overall[0].Key,
		"a transient index error must not clobber the prior snapshot")
}

func TestRegenerator_EmptyNeighborsClearStaleSlots(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	stale := &core.MatchSet{}
	for i := 0; i < core.SlotsPerCategory; i++ {
		stale.Overall = append(stale.Overall, core.Match{Key: core.ItemKey(fmt.Sprintf("lots/old%d.jpg", i)), Score: 90})
	}
	_, err := repo.PutItems(ctx, &core.Item{Key: "lots/shrunk.jpg", SaleDate: "2023-05-01", Matches: stale})
	require.NoError(t, err)

	regenerator, err := NewRegenerator(repo, &fakeQuerier{}, testConfig(), nil, nil)
	require.NoError(t, err)

	summary, err := regenerator.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Modified)

	stored, err := repo.GetItem(ctx, "lots/shrunk.jpg")
	require.NoError(t, err)
	require.NotNil(t, stored.Matches)
	for name, value := range stored.Matches.Fields() {
		assert.Nil(t, value, "field %s should be cleared", name)
	}
}

func TestRegenerator_UnreachableIndexIsFatal(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	prior := &core.MatchSet{Overall: []core.Match{{Key: "lots/old.jpg", Score: 88.8}}}
	_, err := repo.PutItems(ctx, &core.Item{Key: "lots/a.jpg", SaleDate: "2023-05-01", Matches: prior})
	require.NoError(t, err)

	querier := &fakeQuerier{
		pingFunc: func(ctx context.Context) error {
			return errors.New("connection refused")
		},
	}

	regenerator, err := NewRegenerator(repo, querier, testConfig(), nil, nil)
	require.NoError(t, err)

	_, err = regenerator.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")

	// Nothing was written.
	stored, err := repo.GetItem(ctx, "lots/a.jpg")
	require.NoError(t, err)
	require.NotNil(t, stored.Matches)
	assert.Len(t, stored.Matches.Overall, 1)
}

func TestRegenerator_CancelledRunDoesNotWrite(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.PutItems(context.Background(), &core.Item{Key: "lots/a.jpg", SaleDate: "2023-05-01"})
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	regenerator, err := NewRegenerator(repo, &fakeQuerier{}, testConfig(), nil, nil)
	require.NoError(t, err)

	_, err = regenerator.Run(cancelled)
	require.ErrorIs(t, err, context.Canceled)

	stored, err := repo.GetItem(context.Background(), "lots/a.jpg")
	require.NoError(t, err)
	assert.Nil(t, stored.Matches, "cancelled runs must not write")
}

func TestRegenerator_EmptyCatalog(t *testing.T) {
	repo := setupRepo(t)

	var progress bytes.Buffer
	regenerator, err := NewRegenerator(repo, &fakeQuerier{}, testConfig(), &progress, nil)
	require.NoError(t, err)

	summary, err := regenerator.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Summary{}, summary)
	assert.Contains(t, progress.String(), "No embedded items")
}
