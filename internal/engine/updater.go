package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clans-optimizer/internal/catalog"
	"clans-optimizer/internal/idleclans"
	"clans-optimizer/internal/logger"
	"clans-optimizer/internal/market"
)

// fetchTimeout bounds the price fetch of a single pass. A pass that cannot
// get prices in this window aborts and leaves the previous result published.
const fetchTimeout = 60 * time.Second

// Updater runs the full recomputation pass: fetch prices, evaluate every
// task, assemble the ranking, publish. There is exactly one writer per pass;
// readers of the published result never block.
type Updater struct {
	client     *idleclans.Client
	categories []*catalog.Category
	table      *market.Table
	store      *ResultStore
	strategies market.StrategyConfig
	mods       Modifiers
	topN       int

	mu sync.Mutex // serializes passes
}

// NewUpdater wires a pass pipeline over an already-loaded catalog.
func NewUpdater(client *idleclans.Client, categories []*catalog.Category, table *market.Table, store *ResultStore, strategies market.StrategyConfig, mods Modifiers, topN int) *Updater {
	return &Updater{
		client:     client,
		categories: categories,
		table:      table,
		store:      store,
		strategies: strategies,
		mods:       mods,
		topN:       topN,
	}
}

// Store returns the result store this updater publishes to.
func (u *Updater) Store() *ResultStore {
	return u.store
}

// Table returns the price table this updater refreshes.
func (u *Updater) Table() *market.Table {
	return u.table
}

// SetStrategies changes the pricing strategies used by later passes.
func (u *Updater) SetStrategies(s market.StrategyConfig) {
	u.mu.Lock()
	u.strategies = s
	u.mu.Unlock()
}

// SetModifiers changes the character modifiers used by later passes.
func (u *Updater) SetModifiers(m Modifiers) {
	u.mu.Lock()
	u.mods = m
	u.mu.Unlock()
}

// SetTopN changes the global top-list length used by later passes.
func (u *Updater) SetTopN(n int) {
	u.mu.Lock()
	u.topN = n
	u.mu.Unlock()
}

// RunOnce executes one full pass. On any failure nothing is published and
// the previous result (if any) keeps serving.
func (u *Updater) RunOnce(ctx context.Context) (*RankedResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	logger.Info("Update", "Fetching market prices...")
	snap, err := u.table.Refresh(fetchCtx, u.client)
	if err != nil {
		return nil, fmt.Errorf("pass aborted: %w", err)
	}

	// Each pass evaluates its own copies of the tasks. The previously
	// published result stays readable while this pass writes, and a result,
	// once published, is never written again.
	categories := clonePass(u.categories)

	logger.Info("Update", fmt.Sprintf("Evaluating %d categories against %d price points...", len(categories), snap.Len()))
	stats := EvaluateAll(categories, snap, u.strategies, u.mods)
	result := Assemble(categories, u.topN, snap.TakenAt)
	u.store.Publish(result)

	logger.Success("Update", fmt.Sprintf("Ranked %d tasks (%d profitable, %d skipped)",
		stats.Evaluated, result.ProfitableTasks, stats.Skipped()))
	if stats.Skipped() > 0 {
		logger.Info("Update", fmt.Sprintf("Skips: %d invalid duration, %d no reward, %d no market data",
			stats.InvalidDuration, stats.NoReward, stats.NoMarketData))
	}
	return result, nil
}

func clonePass(categories []*catalog.Category) []*catalog.Category {
	out := make([]*catalog.Category, len(categories))
	for i, c := range categories {
		out[i] = c.Clone()
	}
	return out
}

// Run executes RunOnce immediately and then on every interval tick until
// ctx is done. Pass failures are logged and the loop keeps going; stale
// data keeps serving until a pass succeeds.
func (u *Updater) Run(ctx context.Context, interval time.Duration) {
	if _, err := u.RunOnce(ctx); err != nil {
		logger.Error("Update", err.Error())
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := u.RunOnce(ctx); err != nil {
				logger.Error("Update", err.Error())
			}
		}
	}
}
