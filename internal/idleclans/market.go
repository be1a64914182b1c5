package idleclans

import (
	"context"
	"fmt"
)

// PriceRecord mirrors one entry of the PlayerMarket latest-prices response.
// AveragePrice is the mean trade price over the past 24 hours; it is absent
// when the item had no trade volume in that window.
type PriceRecord struct {
	ItemID          int      `json:"itemId"`
	LowestSellPrice float64  `json:"lowestSellPrice"`
	HighestBuyPrice float64  `json:"highestBuyPrice"`
	AveragePrice    *float64 `json:"averagePrice,omitempty"`
}

// HistoryPoint is one entry of an item's price history.
type HistoryPoint struct {
	Timestamp string  `json:"timestamp"`
	Price     float64 `json:"price"`
	Volume    int64   `json:"volume"`
}

// FetchLatestPrices fetches the current market prices for all items.
// Concurrent calls are coalesced into a single request via singleflight, so
// an HTTP-triggered refresh racing the scheduled one costs one fetch.
func (c *Client) FetchLatestPrices(ctx context.Context) ([]PriceRecord, error) {
	result, err, _ := c.group.Do("latest-prices", func() (interface{}, error) {
		var records []PriceRecord
		if err := c.GetJSON(ctx, "/PlayerMarket/items/prices/latest?includeAveragePrice=true", &records); err != nil {
			return nil, err
		}
		return records, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch latest prices: %w", err)
	}
	return result.([]PriceRecord), nil
}

// FetchPriceHistory fetches the price history of one item.
// Supported periods: 1d, 7d, 30d, 1y.
func (c *Client) FetchPriceHistory(ctx context.Context, itemID int, period string) ([]HistoryPoint, error) {
	var points []HistoryPoint
	path := fmt.Sprintf("/PlayerMarket/items/prices/history/%d?period=%s", itemID, period)
	if err := c.GetJSON(ctx, path, &points); err != nil {
		return nil, fmt.Errorf("fetch price history for item %d: %w", itemID, err)
	}
	return points, nil
}

// ValidHistoryPeriod reports whether p is a period the API accepts.
func ValidHistoryPeriod(p string) bool {
	switch p {
	case "1d", "7d", "30d", "1y":
		return true
	}
	return false
}
