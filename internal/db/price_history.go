package db

import (
	"time"

	"clans-optimizer/internal/idleclans"
)

// historyFreshness returns how long cached history for a period stays fresh.
// Short windows move fast; longer windows barely change within a day.
func historyFreshness(period string) time.Duration {
	if period == "1d" {
		return 15 * time.Minute
	}
	return 6 * time.Hour
}

// GetPriceHistory retrieves cached price history for an item/period pair.
// Returns nil, false if not cached or stale.
func (d *DB) GetPriceHistory(itemID int, period string) ([]idleclans.HistoryPoint, bool) {
	var updatedAt string
	err := d.sql.QueryRow(
		"SELECT updated_at FROM price_history_meta WHERE item_id=? AND period=?",
		itemID, period,
	).Scan(&updatedAt)
	if err != nil {
		return nil, false
	}

	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil || time.Since(t) > historyFreshness(period) {
		return nil, false
	}

	rows, err := d.sql.Query(
		"SELECT timestamp, price, volume FROM price_history WHERE item_id=? AND period=? ORDER BY timestamp",
		itemID, period,
	)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var points []idleclans.HistoryPoint
	for rows.Next() {
		var p idleclans.HistoryPoint
		if err := rows.Scan(&p.Timestamp, &p.Price, &p.Volume); err != nil {
			continue
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		return nil, false
	}
	return points, true
}

// SetPriceHistory stores price history points in the cache, replacing any
// previous entries for the same item/period.
func (d *DB) SetPriceHistory(itemID int, period string, points []idleclans.HistoryPoint) {
	tx, err := d.sql.Begin()
	if err != nil {
		return
	}
	defer tx.Rollback()

	tx.Exec("DELETE FROM price_history WHERE item_id=? AND period=?", itemID, period)

	stmt, err := tx.Prepare("INSERT INTO price_history (item_id, period, timestamp, price, volume) VALUES (?,?,?,?,?)")
	if err != nil {
		return
	}
	defer stmt.Close()

	for _, p := range points {
		stmt.Exec(itemID, period, p.Timestamp, p.Price, p.Volume)
	}

	tx.Exec(
		"INSERT OR REPLACE INTO price_history_meta (item_id, period, updated_at) VALUES (?,?,?)",
		itemID, period, time.Now().UTC().Format(time.RFC3339),
	)
	tx.Commit()
}
