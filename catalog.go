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


// Package lotmatch regenerates similarity-match snapshots for an
// auction lot catalog backed by an external vector index.
package lotmatch

import (
	"io"
	"log/slog"

	"github.com/gavelworks/lotmatch/index"
	"github.com/gavelworks/lotmatch/ingest"
	"github.com/gavelworks/lotmatch/regen"
	"github.com/gavelworks/lotmatch/storage"
	"github.com/gavelworks/lotmatch/storage/badger"
)

// Catalog is the top-level handle over the item store. It wires the
// storage backend and repository together and hands out the
// higher-level components.
type Catalog struct {
	backend  *badger.Backend
	itemRepo storage.ItemRepository
	logger   *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	inMemory bool
	logger   *slog.Logger
}

// WithInMemoryStore keeps the catalog entirely in memory. Used by
// tests and the seeder.
func WithInMemoryStore() CatalogOption {
	return func(o *catalogOptions) {
		o.inMemory = true
	}
}

// WithCatalogLogger sets a custom logger.
// Default is slog.Default().
func WithCatalogLogger(logger *slog.Logger) CatalogOption {
	return func(o *catalogOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// OpenCatalog opens (creating if needed) the catalog at filePath.
func OpenCatalog(filePath string, opts ...CatalogOption) (*Catalog, error) {
	options := &catalogOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	itemRepo, err := badger.NewItemRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Catalog{
		backend:  backend,
		itemRepo: itemRepo,
		logger:   options.logger,
	}, nil
}

// Close releases the catalog's resources.
func (c *Catalog) Close() error {
	if err := c.itemRepo.Close(); err != nil {
		c.logger.Error("error closing item repository", "err", err)
		return err
	}
	if err := c.backend.Close(); err != nil {
		c.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ItemRepository exposes the underlying item repository.
func (c *Catalog) ItemRepository() storage.ItemRepository {
	return c.itemRepo
}

// NewLoader creates a feed loader over this catalog.
func (c *Catalog) NewLoader(opts ...ingest.Option) (*ingest.Loader, error) {
	opts = append([]ingest.Option{ingest.WithLogger(c.logger)}, opts...)
	return ingest.NewLoader(c.itemRepo, opts...)
}

// NewRegenerator creates a match regenerator over this catalog and a
// vector index. progress is where run progress is written, typically
// os.Stderr.
func (c *Catalog) NewRegenerator(vectorIndex index.VectorIndex, config *regen.Config, progress io.Writer, sourceOpts ...index.SourceOption) (*regen.Regenerator, error) {
	sourceOpts = append([]index.SourceOption{index.WithLogger(c.logger)}, sourceOpts...)
	source, err := index.NewNeighborSource(vectorIndex, sourceOpts...)
	if err != nil {
		return nil, err
	}
	return regen.NewRegenerator(c.itemRepo, source, config, progress, c.logger)
}
