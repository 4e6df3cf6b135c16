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


package storage

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gavelworks/lotmatch/core"
)

// storedItem is the persisted shape of a core.Item. The match snapshot
// is flattened to the 45-name field map so the on-disk document keeps
// the wire contract reporting tools consume.
type storedItem struct {
	Key          string         `msgpack:"item_key"`
	Title        string         `msgpack:"title,omitempty"`
	WinningBid   *float64       `msgpack:"winning_bid"`
	SaleDate     string         `msgpack:"sale_date,omitempty"`
	AuctionHouse string         `msgpack:"auction_house,omitempty"`
	Matches      map[string]any `msgpack:"matches,omitempty"`
	InsertedAt   time.Time      `msgpack:"inserted_at"`
	UpdatedAt    time.Time      `msgpack:"updated_at"`
}

// MarshalItem serializes an Item to bytes.
func MarshalItem(item *core.Item) ([]byte, error) {
	stored := storedItem{
		Key:          string(item.Key),
		Title:        item.Title,
		WinningBid:   item.WinningBid,
		SaleDate:     item.SaleDate,
		AuctionHouse: item.AuctionHouse,
		InsertedAt:   item.InsertedAt,
		UpdatedAt:    item.UpdatedAt,
	}
	if item.Matches != nil {
		stored.Matches = item.Matches.Fields()
	}

	data, err := msgpack.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalItem deserializes an Item from bytes.
func UnmarshalItem(data []byte) (*core.Item, error) {
	var stored storedItem
	if err := msgpack.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}

	item := &core.Item{
		Key:          core.ItemKey(stored.Key),
		Title:        stored.Title,
		WinningBid:   stored.WinningBid,
		SaleDate:     stored.SaleDate,
		AuctionHouse: stored.AuctionHouse,
		InsertedAt:   stored.InsertedAt,
		UpdatedAt:    stored.UpdatedAt,
	}
	if stored.Matches != nil {
		item.Matches = core.MatchSetFromFields(stored.Matches)
	}
	return item, nil
}
