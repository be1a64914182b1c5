// Package market holds the live player-market price data: immutable price
// snapshots swapped in wholesale on refresh, and the strategy-driven price
// resolution used by the efficiency engine.
package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clans-optimizer/internal/idleclans"
)

// PricePoint is the current market state of one item. Average is the
// 24-hour mean trade price and is absent when the item had no trade volume
// in that window.
type PricePoint struct {
	ItemID     int
	LowestSell float64
	HighestBuy float64
	Average    *float64
}

// Snapshot is a point-in-time, read-only copy of all market prices.
// All reads within one ranking pass use the same snapshot, so a concurrent
// refresh can never mix old and new prices inside a single ranking.
type Snapshot struct {
	points  map[int]PricePoint
	TakenAt time.Time
}

// NewSnapshot builds a snapshot from raw price records.
func NewSnapshot(records []idleclans.PriceRecord, takenAt time.Time) *Snapshot {
	points := make(map[int]PricePoint, len(records))
	for _, r := range records {
		points[r.ItemID] = PricePoint{
			ItemID:     r.ItemID,
			LowestSell: r.LowestSellPrice,
			HighestBuy: r.HighestBuyPrice,
			Average:    r.AveragePrice,
		}
	}
	return &Snapshot{points: points, TakenAt: takenAt}
}

// Lookup returns the price point for an item id. A miss is normal: the item
// simply has no market data right now and callers fall back to base value
// or skip.
func (s *Snapshot) Lookup(itemID int) (PricePoint, bool) {
	p, ok := s.points[itemID]
	return p, ok
}

// Len returns the number of items with market data in this snapshot.
func (s *Snapshot) Len() int {
	return len(s.points)
}

// Table publishes the current price snapshot. Snapshots are replaced
// wholesale: readers that grabbed the previous snapshot keep a fully
// consistent view until they drop it.
type Table struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewTable returns an empty table. Current returns nil until the first
// successful refresh.
func NewTable() *Table {
	return &Table{}
}

// Current returns the latest published snapshot, or nil before the first
// refresh completes.
func (t *Table) Current() *Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Publish atomically replaces the current snapshot.
func (t *Table) Publish(s *Snapshot) {
	t.mu.Lock()
	t.current = s
	t.mu.Unlock()
}

// Refresh fetches the latest prices and publishes them as a new snapshot.
// On failure the previous snapshot stays published untouched.
func (t *Table) Refresh(ctx context.Context, client *idleclans.Client) (*Snapshot, error) {
	records, err := client.FetchLatestPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh price table: %w", err)
	}
	snap := NewSnapshot(records, time.Now())
	t.Publish(snap)
	return snap, nil
}
