package catalog

import (
	"encoding/json"
	"fmt"
)

// Item is one tradable item from the static game configuration.
// Immutable after load.
type Item struct {
	ID              int
	Name            string
	BaseValue       int // static sell-to-shop price, fallback when no market data
	AssociatedSkill string
}

// Index is the id → item lookup built once per config load. Items flagged
// non-tradable, discontinued, or non-sellable-to-shop are excluded entirely:
// they must never participate in price-based valuation.
type Index struct {
	items map[int]*Item
}

// Lookup returns the item with the given id. A miss is a normal outcome
// meaning "no pricing basis, fall back or skip".
func (ix *Index) Lookup(id int) (*Item, bool) {
	it, ok := ix.items[id]
	return it, ok
}

// Len returns the number of tradable items in the index.
func (ix *Index) Len() int {
	return len(ix.items)
}

type rawItem struct {
	ItemID                 int    `json:"ItemId"`
	Name                   string `json:"Name"`
	BaseValue              int    `json:"BaseValue"`
	AssociatedSkill        string `json:"AssociatedSkill"`
	CanNotBeTraded         bool   `json:"CanNotBeTraded"`
	Discontinued           bool   `json:"Discontinued"`
	CanNotBeSoldToGameShop bool   `json:"CanNotBeSoldToGameShop"`
}

// LoadItems builds the item index from the raw game configuration document.
// Malformed input is fatal: the caller cannot operate on a partial catalog.
func LoadItems(raw json.RawMessage) (*Index, error) {
	var doc struct {
		Items struct {
			Items []rawItem `json:"Items"`
		} `json:"Items"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse item catalog: %w", err)
	}
	if doc.Items.Items == nil {
		return nil, fmt.Errorf("parse item catalog: no Items section")
	}

	ix := &Index{items: make(map[int]*Item, len(doc.Items.Items))}
	for _, r := range doc.Items.Items {
		if r.CanNotBeTraded || r.Discontinued || r.CanNotBeSoldToGameShop {
			continue
		}
		ix.items[r.ItemID] = &Item{
			ID:              r.ItemID,
			Name:            r.Name,
			BaseValue:       r.BaseValue,
			AssociatedSkill: r.AssociatedSkill,
		}
	}
	return ix, nil
}
