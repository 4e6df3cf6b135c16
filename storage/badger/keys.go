package badger

import "github.com/gavelworks/lotmatch/core"

// Key prefixes for different data types
const (
	itemRecordPrefix = "lotrec"
)

// makeItemKey generates a storage key for an item by its catalog key.
func makeItemKey(key core.ItemKey) []byte {
	return []byte(itemRecordPrefix + ":" + string(key))
}
