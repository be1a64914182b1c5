// Package root wires the CLI commands: a long-running server mode and a
// one-shot ranking run.
package root

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"clans-optimizer/internal/catalog"
	"clans-optimizer/internal/config"
	"clans-optimizer/internal/engine"
	"clans-optimizer/internal/idleclans"
	"clans-optimizer/internal/market"
	"clans-optimizer/internal/ui"
)

const Version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:           "clans-optimizer",
	Short:         "Idle Clans task profitability ranker",
	Long:          "clans-optimizer joins the Idle Clans task catalog with live player-market prices and ranks every task by gold per second and XP per second.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newServeCmd(),
		newRankCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("clans-optimizer v%s\n", Version)
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

// loadCatalog fetches (or reads) the game configuration and parses it into
// task categories, with the item index resolved behind them.
func loadCatalog(ctx context.Context, client *idleclans.Client, cfg *config.Config) ([]*catalog.Category, error) {
	var raw json.RawMessage
	if cfg.ConfigFile != "" {
		data, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		raw = data
	} else {
		wd, _ := os.Getwd()
		data, err := client.LoadGameConfig(ctx, filepath.Join(wd, "data"))
		if err != nil {
			return nil, err
		}
		raw = data
	}
	_, categories, err := catalog.Load(raw)
	return categories, err
}

// newUpdater builds the pass pipeline from loaded settings and catalog.
func newUpdater(client *idleclans.Client, categories []*catalog.Category, cfg *config.Config) *engine.Updater {
	strategies := market.DefaultStrategyConfig()
	if s, err := market.ParseStrategy(cfg.SellStrategy); err == nil {
		strategies.Sell = s
	}
	if s, err := market.ParseStrategy(cfg.BuyStrategy); err == nil {
		strategies.Buy = s
	}
	mods := engine.Modifiers{XPMultiplier: cfg.XPMultiplier, TimeMultiplier: cfg.TimeMultiplier}
	return engine.NewUpdater(client, categories, market.NewTable(), engine.NewResultStore(), strategies, mods, cfg.TopN)
}
