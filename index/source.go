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


package index

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/gavelworks/lotmatch/core"
)

const (
	// DefaultTopK is how many neighbors a query requests. 30 leaves
	// headroom to fill three categories of five after filtering.
	DefaultTopK = 30

	// DefaultQueryTimeout bounds a single neighbor query so one
	// unreachable index cannot stall a whole batch.
	DefaultQueryTimeout = 10 * time.Second
)

// NeighborSource adapts raw index hits into categorizer-ready
// neighbor candidates: per-query timeout, key normalization,
// self-match filtering and score scaling.
type NeighborSource struct {
	index   VectorIndex
	topK    int
	timeout time.Duration
	logger  *slog.Logger
}

// SourceOption configures a NeighborSource.
type SourceOption func(*NeighborSource) error

// WithTopK sets how many neighbors each query requests.
// Default is DefaultTopK.
func WithTopK(topK int) SourceOption {
	return func(s *NeighborSource) error {
		if topK > 0 {
			s.topK = topK
		}
		return nil
	}
}

// WithQueryTimeout bounds each individual neighbor query.
// Default is DefaultQueryTimeout.
func WithQueryTimeout(timeout time.Duration) SourceOption {
	return func(s *NeighborSource) error {
		if timeout > 0 {
			s.timeout = timeout
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SourceOption {
	return func(s *NeighborSource) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewNeighborSource creates a new neighbor source over an index.
func NewNeighborSource(index VectorIndex, opts ...SourceOption) (*NeighborSource, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	s := &NeighborSource{
		index:   index,
		topK:    DefaultTopK,
		timeout: DefaultQueryTimeout,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Ping verifies the underlying index is reachable.
func (s *NeighborSource) Ping(ctx context.Context) error {
	return s.index.Ping(ctx)
}

// Neighbors queries the index for the subject's nearest neighbors and
// normalizes the result. The index ordering is preserved; the subject
// itself is filtered out; scores are scaled to [0,100] rounded to two
// decimals. A subject without an embedding yields an empty result and
// no error. Index failures (including timeout) are returned to the
// caller, which treats them as a recoverable per-item condition.
func (s *NeighborSource) Neighbors(ctx context.Context, subject core.ItemKey) ([]core.NeighborCandidate, error) {
	qctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	hits, err := s.index.Query(qctx, string(subject), s.topK)
	if err != nil {
		if errors.Is(err, ErrUnknownKey) {
			s.logger.Debug("subject has no embedding", "key", subject)
			return nil, nil
		}
		return nil, err
	}

	candidates := make([]core.NeighborCandidate, 0, len(hits))
	for _, hit := range hits {
		key := core.NormalizeKey(hit.ID)
		if key == subject {
			continue
		}
		candidates = append(candidates, core.NeighborCandidate{
			Key:      key,
			Score:    scaleScore(hit.Score),
			RawScore: hit.Score,
		})
	}
	return candidates, nil
}

// scaleScore converts a raw [0,1] similarity to the persisted
// percentage form: raw * 100, rounded to two decimals.
func scaleScore(raw float64) float64 {
	return math.Round(raw*100*100) / 100
}
