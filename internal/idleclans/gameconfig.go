package idleclans

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FetchGameConfig fetches the full static game configuration (item catalog
// and task definitions) as raw JSON. The document is large and its schema
// partially unstable, so decoding is left to internal/catalog.
func (c *Client) FetchGameConfig(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.GetJSON(ctx, "/Configuration/game-data", &raw); err != nil {
		return nil, fmt.Errorf("fetch game config: %w", err)
	}
	return raw, nil
}

// LoadGameConfig returns the game configuration, preferring a cached copy
// under dataDir and fetching from the API on a miss. The fetched copy is
// written back so later runs start without network access.
func (c *Client) LoadGameConfig(ctx context.Context, dataDir string) (json.RawMessage, error) {
	path := filepath.Join(dataDir, "configData.json")
	if raw, err := os.ReadFile(path); err == nil && len(raw) > 0 {
		return raw, nil
	}

	raw, err := c.FetchGameConfig(ctx)
	if err != nil {
		return nil, err
	}
	// A failed cache write is not fatal; the in-memory copy is intact.
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return raw, nil
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return raw, nil
	}
	return raw, nil
}
