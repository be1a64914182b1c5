package config

import "time"

// Config holds application settings (in-memory representation).
// Persistence is handled by internal/db package.
type Config struct {
	Port            int           `json:"port"`
	RefreshInterval time.Duration `json:"refresh_interval"`

	// Pricing strategies per price role. Recognized values: "instant",
	// "average_1d", "average_7d", "average_30d". The 7d/30d windows
	// currently alias to average_1d because the price feed only carries a
	// 24-hour average; the names are accepted so saved settings survive a
	// richer feed later.
	SellStrategy string `json:"sell_strategy"`
	BuyStrategy  string `json:"buy_strategy"`

	// Character modifiers applied during evaluation.
	XPMultiplier   float64 `json:"xp_multiplier"`
	TimeMultiplier float64 `json:"time_multiplier"` // accepted but not yet applied

	// TopN is the length of the global top list in assembled rankings.
	TopN int `json:"top_n"`

	// ConfigFile overrides the remote game-config fetch with a local file.
	ConfigFile string `json:"config_file"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Port:            13380,
		RefreshInterval: 15 * time.Minute,
		SellStrategy:    "instant",
		BuyStrategy:     "instant",
		XPMultiplier:    1,
		TimeMultiplier:  1,
		TopN:            10,
	}
}
