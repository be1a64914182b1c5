// Package api exposes the computed rankings over HTTP: a JSON API in front
// of the result store plus a small server-rendered ranking page.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"clans-optimizer/internal/config"
	"clans-optimizer/internal/engine"
	"clans-optimizer/internal/idleclans"
	"clans-optimizer/internal/logger"
	"clans-optimizer/internal/market"
)

// HistoryCache is a persistent cache for per-item price history responses.
// Implemented by internal/db.
type HistoryCache interface {
	GetPriceHistory(itemID int, period string) ([]idleclans.HistoryPoint, bool)
	SetPriceHistory(itemID int, period string, points []idleclans.HistoryPoint)
}

// ConfigStore persists application settings. Implemented by internal/db.
type ConfigStore interface {
	SaveConfig(cfg *config.Config) error
}

// Server is the HTTP server that connects the updater, the result store,
// and the query-API client.
type Server struct {
	mu       sync.RWMutex // guards cfg
	cfg      *config.Config
	cfgStore ConfigStore
	client   *idleclans.Client
	updater  *engine.Updater
	store    *engine.ResultStore
	history  HistoryCache
	memory   *gocache.Cache // in-memory TTL layer in front of HistoryCache
}

// NewServer creates a Server. cfgStore and history may be nil (settings and
// history caching are then disabled, which tests use).
func NewServer(cfg *config.Config, client *idleclans.Client, updater *engine.Updater, store *engine.ResultStore, cfgStore ConfigStore, history HistoryCache) *Server {
	return &Server{
		cfg:      cfg,
		cfgStore: cfgStore,
		client:   client,
		updater:  updater,
		store:    store,
		history:  history,
		memory:   gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// Handler returns the HTTP handler with all routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/rankings", s.handleRankings)
	mux.HandleFunc("GET /api/rankings/top", s.handleTopRankings)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("POST /api/config", s.handleSetConfig)
	mux.HandleFunc("GET /api/items/{itemID}/history", s.handleItemHistory)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /", s.handleIndex)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// --- Handlers ---

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	result := map[string]interface{}{
		"data_loaded": false,
	}
	if last, ok := s.store.LastUpdated(); ok {
		result["data_loaded"] = true
		result["last_update"] = last.UTC().Format(time.RFC3339)
		result["minutes_since_update"] = int(time.Since(last).Minutes())
		if latest, ok := s.store.Latest(); ok {
			result["total_tasks"] = latest.TotalTasks
			result["profitable_tasks"] = latest.ProfitableTasks
		}
	}
	writeJSON(w, result)
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.store.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "rankings not computed yet")
		return
	}
	writeJSON(w, latest)
}

func (s *Server) handleTopRankings(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.store.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "rankings not computed yet")
		return
	}
	writeJSON(w, map[string]interface{}{
		"top_tasks": latest.TopTasks,
		"timestamp": latest.Timestamp,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.store.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "rankings not computed yet")
		return
	}
	writeJSON(w, latest.Categories)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	cfg := *s.cfg
	s.mu.RUnlock()
	writeJSON(w, cfg)
}

// configPatch is a validated POST /api/config body. Nil fields were absent.
type configPatch struct {
	sellStrategy   *string
	buyStrategy    *string
	xpMultiplier   *float64
	timeMultiplier *float64
	topN           *int
}

func parseConfigPatch(body map[string]json.RawMessage) (configPatch, error) {
	var p configPatch
	if v, ok := body["sell_strategy"]; ok {
		var name string
		if err := json.Unmarshal(v, &name); err != nil {
			return p, fmt.Errorf("sell_strategy must be a string")
		}
		if _, err := market.ParseStrategy(name); err != nil {
			return p, err
		}
		p.sellStrategy = &name
	}
	if v, ok := body["buy_strategy"]; ok {
		var name string
		if err := json.Unmarshal(v, &name); err != nil {
			return p, fmt.Errorf("buy_strategy must be a string")
		}
		if _, err := market.ParseStrategy(name); err != nil {
			return p, err
		}
		p.buyStrategy = &name
	}
	if v, ok := body["xp_multiplier"]; ok {
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return p, fmt.Errorf("xp_multiplier must be a number")
		}
		p.xpMultiplier = &f
	}
	if v, ok := body["time_multiplier"]; ok {
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return p, fmt.Errorf("time_multiplier must be a number")
		}
		p.timeMultiplier = &f
	}
	if v, ok := body["top_n"]; ok {
		var n int
		if err := json.Unmarshal(v, &n); err != nil {
			return p, fmt.Errorf("top_n must be an integer")
		}
		p.topN = &n
	}
	return p, nil
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	patch, err := parseConfigPatch(body)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}

	s.mu.Lock()
	if patch.sellStrategy != nil {
		s.cfg.SellStrategy = *patch.sellStrategy
	}
	if patch.buyStrategy != nil {
		s.cfg.BuyStrategy = *patch.buyStrategy
	}
	if patch.xpMultiplier != nil {
		s.cfg.XPMultiplier = *patch.xpMultiplier
	}
	if patch.timeMultiplier != nil {
		s.cfg.TimeMultiplier = *patch.timeMultiplier
	}
	if patch.topN != nil {
		s.cfg.TopN = *patch.topN
	}

	// Validate bounds
	if s.cfg.XPMultiplier <= 0 {
		s.cfg.XPMultiplier = 1
	}
	if s.cfg.TimeMultiplier <= 0 {
		s.cfg.TimeMultiplier = 1
	}
	if s.cfg.TopN < 1 {
		s.cfg.TopN = 1
	} else if s.cfg.TopN > 100 {
		s.cfg.TopN = 100
	}
	cfg := *s.cfg
	s.mu.Unlock()

	if s.updater != nil {
		s.updater.SetStrategies(strategiesFromConfig(&cfg))
		s.updater.SetModifiers(engine.Modifiers{
			XPMultiplier:   cfg.XPMultiplier,
			TimeMultiplier: cfg.TimeMultiplier,
		})
		s.updater.SetTopN(cfg.TopN)
	}
	if s.cfgStore != nil {
		if err := s.cfgStore.SaveConfig(&cfg); err != nil {
			logger.Warn("API", fmt.Sprintf("Failed to persist config: %v", err))
		}
	}
	writeJSON(w, cfg)
}

func (s *Server) handleItemHistory(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.Atoi(r.PathValue("itemID"))
	if err != nil {
		writeError(w, 400, "invalid item id")
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1d"
	}
	if !idleclans.ValidHistoryPeriod(period) {
		writeError(w, 400, fmt.Sprintf("unsupported period %q", period))
		return
	}

	key := fmt.Sprintf("hist:%d:%s", itemID, period)
	if v, ok := s.memory.Get(key); ok {
		writeJSON(w, v)
		return
	}
	if s.history != nil {
		if points, ok := s.history.GetPriceHistory(itemID, period); ok {
			s.memory.Set(key, points, gocache.DefaultExpiration)
			writeJSON(w, points)
			return
		}
	}

	points, err := s.client.FetchPriceHistory(r.Context(), itemID, period)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if s.history != nil {
		s.history.SetPriceHistory(itemID, period, points)
	}
	s.memory.Set(key, points, gocache.DefaultExpiration)
	writeJSON(w, points)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.updater == nil {
		writeError(w, http.StatusServiceUnavailable, "updater not running")
		return
	}
	result, err := s.updater.RunOnce(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, map[string]interface{}{
		"total_tasks":      result.TotalTasks,
		"profitable_tasks": result.ProfitableTasks,
		"timestamp":        result.Timestamp,
	})
}

// strategiesFromConfig maps the configured strategy names onto a resolver
// config. Names are validated at set time, so parse failures here just fall
// back to instant.
func strategiesFromConfig(cfg *config.Config) market.StrategyConfig {
	sc := market.DefaultStrategyConfig()
	if s, err := market.ParseStrategy(cfg.SellStrategy); err == nil {
		sc.Sell = s
	}
	if s, err := market.ParseStrategy(cfg.BuyStrategy); err == nil {
		sc.Buy = s
	}
	return sc
}
