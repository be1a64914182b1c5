package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clans-optimizer/internal/config"
	"clans-optimizer/internal/idleclans"
	"clans-optimizer/internal/ui"
)

func newRankCmd() *cobra.Command {
	var (
		configFile string
		topN       int
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Run a single ranking pass and print the most profitable tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := config.Default()
			cfg.ConfigFile = configFile
			if topN > 0 {
				cfg.TopN = topN
			}

			client := idleclans.NewClient()
			categories, err := loadCatalog(ctx, client, cfg)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			updater := newUpdater(client, categories, cfg)
			result, err := updater.RunOnce(ctx)
			if err != nil {
				return fmt.Errorf("compute rankings: %w", err)
			}

			fmt.Println()
			fmt.Println(ui.Heading("⚒", "Idle Clans — Task Profitability"))
			fmt.Println(ui.Muted.Render(result.Timestamp.Format("2006-01-02 15:04:05 MST")))
			fmt.Println()
			fmt.Println(ui.LabelValue("Categories", result.TotalCategories))
			fmt.Println(ui.LabelValue("Tasks evaluated", result.TotalTasks))
			fmt.Println(ui.LabelValue("Profitable", result.ProfitableTasks))
			fmt.Println()

			fmt.Println(ui.H2.Render(fmt.Sprintf("Top %d by gold/s", len(result.TopTasks))))
			fmt.Printf("  %-4s %-34s %-16s %12s %10s %12s\n",
				ui.Muted.Render("#"), "Task", "Category", "Gold/s", "XP/s", "Profit")
			for i, t := range result.TopTasks {
				name := t.Name
				if t.SoldAsBasePrice {
					name += " *"
				}
				fmt.Printf("  %-4d %-34s %-16s %12s %10.2f %12s\n",
					i+1, truncate(name, 34), truncate(t.CategoryName, 16),
					ui.Gold.Render(fmt.Sprintf("%.2f", t.GoldPerSecond)),
					t.XPPerSecond, ui.Profit(t.NetProfit))
			}
			fmt.Println()
			fmt.Println(ui.Muted.Render("  * reward valued at base price (beats current market)"))
			fmt.Println()

			fmt.Println(ui.H2.Render("Per category"))
			for _, cat := range result.Categories {
				best := ""
				if len(cat.Tasks) > 0 {
					top := cat.Tasks[0]
					best = fmt.Sprintf("best: %s (%s gold/s)",
						top.Name, ui.Gold.Render(fmt.Sprintf("%.2f", top.GoldPerSecond)))
				}
				fmt.Printf("  %s %s — %d tasks  %s\n",
					ui.Key.Render("•"), cat.Name, len(cat.Tasks), best)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config-file", "", "Path to a local game configuration JSON (skips the download)")
	cmd.Flags().IntVarP(&topN, "top", "n", 0, "How many tasks to list in the global ranking")
	return cmd
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return strings.TrimSpace(string(r[:max-1])) + "…"
}
