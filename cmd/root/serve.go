package root

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"clans-optimizer/internal/api"
	"clans-optimizer/internal/db"
	"clans-optimizer/internal/idleclans"
	"clans-optimizer/internal/logger"
)

func newServeCmd() *cobra.Command {
	var (
		port       int
		interval   time.Duration
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server with periodic background refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Banner(Version)

			database, err := db.Open()
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			cfg := database.LoadConfig()
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("interval") {
				cfg.RefreshInterval = interval
			}
			if configFile != "" {
				cfg.ConfigFile = configFile
			}

			client := idleclans.NewClient()
			ctx := cmd.Context()

			categories, err := loadCatalog(ctx, client, cfg)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			updater := newUpdater(client, categories, cfg)

			bg, cancel := context.WithCancel(ctx)
			defer cancel()
			go updater.Run(bg, cfg.RefreshInterval)
			logger.Info("Update", fmt.Sprintf("Background refresh every %s", cfg.RefreshInterval))

			srv := api.NewServer(cfg, client, updater, updater.Store(), database, database)
			addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
			logger.Server(addr)
			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	cmd.Flags().IntVar(&port, "port", 13380, "HTTP server port")
	cmd.Flags().DurationVar(&interval, "interval", 15*time.Minute, "background refresh interval")
	cmd.Flags().StringVar(&configFile, "config-file", "", "local game config JSON instead of fetching from the API")
	return cmd
}
