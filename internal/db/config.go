package db

import (
	"strconv"
	"time"

	"clans-optimizer/internal/config"
)

// LoadConfig reads settings from SQLite. Missing keys keep their defaults.
func (d *DB) LoadConfig() *config.Config {
	cfg := config.Default()

	rows, err := d.sql.Query("SELECT key, value FROM config")
	if err != nil {
		return cfg
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		rows.Scan(&k, &v)
		m[k] = v
	}
	if len(m) == 0 {
		return cfg
	}

	if v, ok := m["port"]; ok {
		cfg.Port, _ = strconv.Atoi(v)
	}
	if v, ok := m["refresh_interval"]; ok {
		if dur, err := time.ParseDuration(v); err == nil && dur > 0 {
			cfg.RefreshInterval = dur
		}
	}
	if v, ok := m["sell_strategy"]; ok {
		cfg.SellStrategy = v
	}
	if v, ok := m["buy_strategy"]; ok {
		cfg.BuyStrategy = v
	}
	if v, ok := m["xp_multiplier"]; ok {
		cfg.XPMultiplier, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["time_multiplier"]; ok {
		cfg.TimeMultiplier, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["top_n"]; ok {
		cfg.TopN, _ = strconv.Atoi(v)
	}
	if v, ok := m["config_file"]; ok {
		cfg.ConfigFile = v
	}
	return cfg
}

// SaveConfig writes settings to SQLite as key/value rows.
func (d *DB) SaveConfig(cfg *config.Config) error {
	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	pairs := map[string]string{
		"port":             strconv.Itoa(cfg.Port),
		"refresh_interval": cfg.RefreshInterval.String(),
		"sell_strategy":    cfg.SellStrategy,
		"buy_strategy":     cfg.BuyStrategy,
		"xp_multiplier":    strconv.FormatFloat(cfg.XPMultiplier, 'f', -1, 64),
		"time_multiplier":  strconv.FormatFloat(cfg.TimeMultiplier, 'f', -1, 64),
		"top_n":            strconv.Itoa(cfg.TopN),
		"config_file":      cfg.ConfigFile,
	}
	for k, v := range pairs {
		if _, err := stmt.Exec(k, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}
