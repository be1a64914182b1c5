// Package engine computes task profitability: it joins the static task
// catalog with a market price snapshot, derives gold-per-second and
// XP-per-second for every task, and assembles the ranked result served to
// the presentation layer.
package engine

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"clans-optimizer/internal/catalog"
	"clans-optimizer/internal/market"
)

// SkipReason explains why a task could not be evaluated in this pass.
// SkipNone means the task was evaluated successfully.
type SkipReason int

const (
	SkipNone SkipReason = iota
	// SkipInvalidDuration marks a task whose base duration is not positive.
	SkipInvalidDuration
	// SkipNoReward marks a task without a resolvable reward item.
	SkipNoReward
	// SkipNoMarketData marks a task whose reward item has no price point in
	// the current snapshot.
	SkipNoMarketData
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "evaluated"
	case SkipInvalidDuration:
		return "invalid duration"
	case SkipNoReward:
		return "no item reward"
	case SkipNoMarketData:
		return "no market data"
	}
	return "unknown"
}

// Modifiers are the per-character multipliers applied during evaluation.
// TimeMultiplier is carried in configuration but not yet applied; task
// durations in the config are already the unboosted base times.
type Modifiers struct {
	XPMultiplier   float64
	TimeMultiplier float64
}

// DefaultModifiers returns neutral modifiers.
func DefaultModifiers() Modifiers {
	return Modifiers{XPMultiplier: 1, TimeMultiplier: 1}
}

// Evaluate computes the efficiency fields of one task against a price
// snapshot, mutating the task in place. Gates are checked in order and the
// first failing gate returns its skip reason with task.Evaluated left false.
//
// Evaluation is a pure function of its inputs (modulo the ComputedAt
// timestamp): the same task and snapshot always produce the same numbers.
func Evaluate(task *catalog.Task, snap *market.Snapshot, strategies market.StrategyConfig, mods Modifiers) SkipReason {
	task.Evaluated = false

	seconds := task.EffectiveSeconds()
	if seconds <= 0 {
		return SkipInvalidDuration
	}
	if task.Reward == nil {
		return SkipNoReward
	}

	task.XPPerSecond = mods.XPMultiplier * task.ExpReward / seconds

	// Revenue requires real market data for the reward. This gate is
	// stricter than the cost fallback below: a reward we cannot price on
	// the market would make the whole ranking a guess, while an unpriced
	// material only shifts one cost line to its shop value.
	point, ok := snap.Lookup(task.Reward.ID)
	if !ok {
		return SkipNoMarketData
	}

	baseValue := float64(task.Reward.BaseValue)
	sellPrice := strategies.Resolve(point, market.RoleSell)
	if sellPrice <= 0 {
		sellPrice = baseValue
	}
	amount := float64(task.RewardAmount)
	revenue := baseValue * amount
	if sellPrice*amount > revenue {
		revenue = sellPrice * amount
	}
	task.SoldAsBasePrice = baseValue >= sellPrice

	totalCost := 0.0
	for _, cost := range task.Costs {
		unit := float64(cost.Item.BaseValue)
		if cp, ok := snap.Lookup(cost.Item.ID); ok {
			if resolved := strategies.Resolve(cp, market.RoleBuy); resolved > 0 {
				unit = resolved
			}
		}
		totalCost += unit * float64(cost.Amount)
	}

	task.Revenue = revenue
	task.TotalCost = totalCost
	task.NetProfit = revenue - totalCost
	task.GoldPerSecond = task.NetProfit / seconds
	task.ComputedAt = time.Now()
	task.Evaluated = true
	return SkipNone
}

// EvalStats counts evaluation outcomes across one pass.
type EvalStats struct {
	Evaluated       int
	InvalidDuration int
	NoReward        int
	NoMarketData    int
}

// Skipped returns the total number of skipped tasks.
func (s EvalStats) Skipped() int {
	return s.InvalidDuration + s.NoReward + s.NoMarketData
}

// EvaluateAll evaluates every task in every category against one snapshot.
// Tasks are independent — each evaluation only reads the shared snapshot
// and writes its own task — so they run on a bounded worker group.
func EvaluateAll(categories []*catalog.Category, snap *market.Snapshot, strategies market.StrategyConfig, mods Modifiers) EvalStats {
	var (
		mu    sync.Mutex
		stats EvalStats
	)
	var g errgroup.Group
	g.SetLimit(8)

	for _, cat := range categories {
		for _, task := range cat.Tasks {
			task := task
			g.Go(func() error {
				reason := Evaluate(task, snap, strategies, mods)
				mu.Lock()
				switch reason {
				case SkipNone:
					stats.Evaluated++
				case SkipInvalidDuration:
					stats.InvalidDuration++
				case SkipNoReward:
					stats.NoReward++
				case SkipNoMarketData:
					stats.NoMarketData++
				}
				mu.Unlock()
				return nil
			})
		}
	}
	g.Wait()
	return stats
}
