// Package catalog holds the static game data: the tradable item index and
// the task definitions that reference it. Both are immutable after load and
// safely shared across computation passes.
package catalog

import (
	"encoding/json"

	"clans-optimizer/internal/logger"
)

// Load parses the full game configuration document into the item index and
// task categories. Item loading runs first because tasks join against it.
func Load(raw json.RawMessage) (*Index, []*Category, error) {
	ix, err := LoadItems(raw)
	if err != nil {
		return nil, nil, err
	}
	categories, err := LoadTasks(raw, ix)
	if err != nil {
		return nil, nil, err
	}

	taskCount := 0
	for _, c := range categories {
		taskCount += len(c.Tasks)
	}
	logger.Section("Catalog Statistics")
	logger.Stats("Tradable items", ix.Len())
	logger.Stats("Categories", len(categories))
	logger.Stats("Tasks", taskCount)
	return ix, categories, nil
}
