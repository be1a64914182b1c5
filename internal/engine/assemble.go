package engine

import (
	"sort"
	"time"

	"clans-optimizer/internal/catalog"
)

// RankedCategory is one category's evaluated tasks, sorted by profitability.
type RankedCategory struct {
	Name  string          `json:"name"`
	Tasks []*catalog.Task `json:"tasks"`
}

// RankedResult is the aggregate output of one computation pass — the sole
// structure handed to the presentation layer.
type RankedResult struct {
	Categories      []*RankedCategory `json:"categories"`
	AllTasks        []*catalog.Task   `json:"all_tasks"`
	TopTasks        []*catalog.Task   `json:"top_tasks"`
	TotalCategories int               `json:"total_categories"`
	TotalTasks      int               `json:"total_tasks"`
	ProfitableTasks int               `json:"profitable_tasks"`
	Timestamp       time.Time         `json:"timestamp"`
}

// Assemble collects evaluated tasks into per-category and global rankings,
// sorted descending by gold per second. Sorts are stable, so tasks with
// equal profitability keep their catalog order. Unevaluated tasks never
// appear — a task skipped this pass is excluded, not ranked at zero.
func Assemble(categories []*catalog.Category, topN int, timestamp time.Time) *RankedResult {
	result := &RankedResult{
		Categories:      make([]*RankedCategory, 0, len(categories)),
		TotalCategories: len(categories),
		Timestamp:       timestamp,
	}

	for _, cat := range categories {
		ranked := &RankedCategory{Name: cat.Name}
		for _, task := range cat.Tasks {
			if !task.Evaluated {
				continue
			}
			ranked.Tasks = append(ranked.Tasks, task)
			result.AllTasks = append(result.AllTasks, task)
		}
		sortByGold(ranked.Tasks)
		result.Categories = append(result.Categories, ranked)
	}

	sortByGold(result.AllTasks)
	result.TotalTasks = len(result.AllTasks)
	for _, t := range result.AllTasks {
		if t.GoldPerSecond > 0 {
			result.ProfitableTasks++
		}
	}

	if topN > len(result.AllTasks) {
		topN = len(result.AllTasks)
	}
	if topN < 0 {
		topN = 0
	}
	result.TopTasks = result.AllTasks[:topN]
	return result
}

func sortByGold(tasks []*catalog.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].GoldPerSecond > tasks[j].GoldPerSecond
	})
}
