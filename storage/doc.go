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


// Package storage provides the document-store abstraction for lotmatch.
//
// This package defines the repository interface that decouples the match
// regeneration core from the concrete store. It allows different backends
// (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Architecture
//
//   - ItemRepository: read/write operations for catalog items
//   - MatchUpdate / BulkWriteResult: the bulk snapshot-write contract
//
// Bulk snapshot writes are unordered and partial-failure tolerant: a
// rejected update never blocks the remaining updates in the batch, and
// the result names every key that failed.
//
// # Serialization
//
// Items are persisted as msgpack documents. Match snapshots are stored
// in the flat 45-field form (see core.FieldNames) so the on-disk shape
// stays compatible with the reporting tools that consume it.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
