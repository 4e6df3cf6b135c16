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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidItem indicates an Item failed validation.
	ErrInvalidItem = errors.New("invalid item")

	// ErrEmptyItemKey indicates the item key is empty.
	ErrEmptyItemKey = errors.New("item key cannot be empty")

	// ErrUnparseableDate indicates a sale date string matched no known layout.
	ErrUnparseableDate = errors.New("unparseable date")

	// ErrTooManyMatches indicates a category holds more than SlotsPerCategory entries.
	ErrTooManyMatches = errors.New("category holds too many matches")

	// ErrSelfMatch indicates a subject appears among its own matches.
	ErrSelfMatch = errors.New("subject cannot match itself")
)
