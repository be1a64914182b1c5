package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// TaskCost is one material line of a task: an item and a positive amount.
// Immutable.
type TaskCost struct {
	Item   *Item
	Amount int
}

// Task is one repeatable in-game action. Structural fields are read-only
// after load; the efficiency fields are recomputed in place on every refresh
// pass and are only meaningful while Evaluated is true.
type Task struct {
	Name             string
	Reward           *Item // nil = no tradable reward, task is XP-only
	RewardAmount     int
	LevelRequirement int
	BaseTimeMS       float64 // source stores duration in milliseconds
	ExpReward        float64
	Costs            []TaskCost
	CategoryName     string

	// Efficiency fields, owned by the engine's single writer.
	Evaluated       bool
	Revenue         float64
	TotalCost       float64
	NetProfit       float64
	GoldPerSecond   float64
	XPPerSecond     float64
	SoldAsBasePrice bool
	ComputedAt      time.Time
}

// EffectiveSeconds returns the task duration in seconds.
func (t *Task) EffectiveSeconds() float64 {
	return t.BaseTimeMS / 1000.0
}

// Category is an ordered group of tasks sharing a skill.
type Category struct {
	ID      int
	SkillID int
	Name    string
	Tasks   []*Task
}

// Clone returns a copy of the category whose tasks can be evaluated without
// touching the originals. Reward items and cost lines are shared: they are
// immutable after load.
func (c *Category) Clone() *Category {
	clone := *c
	clone.Tasks = make([]*Task, len(c.Tasks))
	for i, t := range c.Tasks {
		tc := *t
		clone.Tasks[i] = &tc
	}
	return &clone
}

type rawCost struct {
	Item   int `json:"Item"`
	Amount int `json:"Amount"`
}

type rawTaskItem struct {
	TaskID           int       `json:"TaskId"`
	Skill            int       `json:"Skill"`
	Name             string    `json:"Name"`
	ItemReward       *int      `json:"ItemReward"` // nil or -1 = no reward
	LevelRequirement int       `json:"LevelRequirement"`
	BaseTime         float64   `json:"BaseTime"` // milliseconds
	ExpReward        float64   `json:"ExpReward"`
	ItemAmount       int       `json:"ItemAmount"`
	Costs            []rawCost `json:"Costs"`
}

type rawGroup struct {
	Items []rawTaskItem `json:"Items"`
}

// LoadTasks builds task categories from the raw game configuration document,
// resolving reward and cost item ids against the index. The config has
// shipped in two shapes over time — a map from skill name to task groups,
// and an older flat list keyed by name — and both are accepted.
//
// The join against the index is deliberately tolerant: the catalog and task
// sections evolve independently, so an unresolvable reward id degrades the
// task to XP-only and an unresolvable cost id drops that cost line. Neither
// fails the batch.
func LoadTasks(raw json.RawMessage, ix *Index) ([]*Category, error) {
	var doc struct {
		Tasks json.RawMessage `json:"Tasks"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse task catalog: %w", err)
	}
	if len(doc.Tasks) == 0 {
		return nil, fmt.Errorf("parse task catalog: no Tasks section")
	}

	var bySkill map[string][]rawGroup
	if err := json.Unmarshal(doc.Tasks, &bySkill); err == nil {
		return loadSkillMap(bySkill, ix), nil
	}

	var legacy []struct {
		Key   string     `json:"Key"`
		Tasks []rawGroup `json:"Tasks"`
	}
	if err := json.Unmarshal(doc.Tasks, &legacy); err != nil {
		return nil, fmt.Errorf("parse task catalog: unrecognized Tasks shape: %w", err)
	}

	categories := make([]*Category, 0, len(legacy))
	for _, entry := range legacy {
		if len(entry.Tasks) == 0 || len(entry.Tasks[0].Items) == 0 {
			continue
		}
		items := entry.Tasks[0].Items
		categories = append(categories, buildCategory(entry.Key, items, ix))
	}
	return categories, nil
}

// loadSkillMap handles the current config shape. Map iteration order is not
// stable in Go, so categories are ordered by skill name to keep catalog
// order (and therefore ranking tie-breaks) deterministic across loads.
func loadSkillMap(bySkill map[string][]rawGroup, ix *Index) []*Category {
	names := make([]string, 0, len(bySkill))
	for name := range bySkill {
		names = append(names, name)
	}
	sort.Strings(names)

	var categories []*Category
	for _, name := range names {
		var items []rawTaskItem
		for _, g := range bySkill[name] {
			items = append(items, g.Items...)
		}
		if len(items) == 0 {
			continue
		}
		categories = append(categories, buildCategory(name, items, ix))
	}
	return categories
}

func buildCategory(name string, items []rawTaskItem, ix *Index) *Category {
	cat := &Category{
		ID:      items[0].TaskID,
		SkillID: items[0].Skill,
		Name:    name,
		Tasks:   make([]*Task, 0, len(items)),
	}
	for _, r := range items {
		t := &Task{
			Name:             r.Name,
			LevelRequirement: r.LevelRequirement,
			BaseTimeMS:       r.BaseTime,
			ExpReward:        r.ExpReward,
			RewardAmount:     r.ItemAmount,
			CategoryName:     name,
		}
		if t.RewardAmount == 0 {
			t.RewardAmount = 1
		}
		if r.ItemReward != nil && *r.ItemReward != -1 {
			if item, ok := ix.Lookup(*r.ItemReward); ok {
				t.Reward = item
			}
		}
		for _, c := range r.Costs {
			item, ok := ix.Lookup(c.Item)
			if !ok {
				continue
			}
			t.Costs = append(t.Costs, TaskCost{Item: item, Amount: c.Amount})
		}
		cat.Tasks = append(cat.Tasks, t)
	}
	return cat
}
