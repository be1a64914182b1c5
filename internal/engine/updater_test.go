package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"clans-optimizer/internal/catalog"
	"clans-optimizer/internal/idleclans"
	"clans-optimizer/internal/market"
)

// priceServer serves the latest-prices endpoint, optionally failing after
// the first successful response.
func priceServer(t *testing.T, failAfterFirst bool) *httptest.Server {
	t.Helper()
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) > 1 && failAfterFirst {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"itemId": 1, "lowestSellPrice": 120, "highestBuyPrice": 100},
			{"itemId": 2, "lowestSellPrice": 12, "highestBuyPrice": 9, "averagePrice": 10.5}
		]`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testCategories() []*catalog.Category {
	bar := &catalog.Item{ID: 1, Name: "Gold bar", BaseValue: 80}
	ore := &catalog.Item{ID: 2, Name: "Gold ore", BaseValue: 11}
	return []*catalog.Category{
		{
			Name: "Smithing",
			Tasks: []*catalog.Task{
				{
					Name:         "Smelt gold bar",
					CategoryName: "Smithing",
					Reward:       bar,
					RewardAmount: 1,
					BaseTimeMS:   5000,
					ExpReward:    25,
					Costs:        []catalog.TaskCost{{Item: ore, Amount: 2}},
				},
			},
		},
	}
}

func newTestUpdater(baseURL string) *Updater {
	client := idleclans.NewClientWithBaseURL(baseURL)
	return NewUpdater(client, testCategories(), market.NewTable(), NewResultStore(),
		market.DefaultStrategyConfig(), DefaultModifiers(), 10)
}

func TestRunOncePublishes(t *testing.T) {
	srv := priceServer(t, false)
	u := newTestUpdater(srv.URL)

	result, err := u.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if result.TotalTasks != 1 {
		t.Fatalf("TotalTasks = %d, want 1", result.TotalTasks)
	}

	task := result.AllTasks[0]
	// Revenue: market 100 beats base 80. Cost: 2 × lowest sell 12 = 24.
	if task.Revenue != 100 {
		t.Errorf("Revenue = %v, want 100", task.Revenue)
	}
	if task.TotalCost != 24 {
		t.Errorf("TotalCost = %v, want 24", task.TotalCost)
	}
	if task.GoldPerSecond != (100-24)/5.0 {
		t.Errorf("GoldPerSecond = %v, want 15.2", task.GoldPerSecond)
	}

	stored, ok := u.Store().Latest()
	if !ok || stored != result {
		t.Error("RunOnce result not published to the store")
	}
}

func TestFailedPassKeepsPreviousResult(t *testing.T) {
	srv := priceServer(t, true)
	u := newTestUpdater(srv.URL)

	first, err := u.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}

	if _, err := u.RunOnce(context.Background()); err == nil {
		t.Fatal("second pass succeeded, want fetch error")
	}

	stored, ok := u.Store().Latest()
	if !ok || stored != first {
		t.Error("failed pass replaced the previous result")
	}
	snap := u.Table().Current()
	if snap == nil || snap.Len() != 2 {
		t.Error("failed refresh disturbed the previous snapshot")
	}
}

func TestPublishedResultImmutableAcrossPasses(t *testing.T) {
	// The market moves between passes; a result already published must keep
	// the numbers of its own pass, readable concurrently with the next one.
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `[
			{"itemId": 1, "lowestSellPrice": 120, "highestBuyPrice": %d},
			{"itemId": 2, "lowestSellPrice": 12, "highestBuyPrice": 9}
		]`, 100*n)
	}))
	defer srv.Close()
	u := newTestUpdater(srv.URL)

	first, err := u.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if first.AllTasks[0].Revenue != 100 {
		t.Fatalf("first pass Revenue = %v, want 100", first.AllTasks[0].Revenue)
	}

	done := make(chan error, 1)
	go func() {
		for i := 0; i < 50; i++ {
			if _, err := json.Marshal(first); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()
	for i := 0; i < 5; i++ {
		if _, err := u.RunOnce(context.Background()); err != nil {
			t.Fatalf("pass %d: %v", i+2, err)
		}
	}
	if err := <-done; err != nil {
		t.Fatalf("encode published result: %v", err)
	}

	if first.AllTasks[0].Revenue != 100 {
		t.Errorf("later pass rewrote a published result: Revenue = %v, want 100", first.AllTasks[0].Revenue)
	}
	latest, _ := u.Store().Latest()
	if latest.AllTasks[0].Revenue != 600 {
		t.Errorf("latest Revenue = %v, want 600", latest.AllTasks[0].Revenue)
	}
}

func TestRunOnceBeforeAnyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	u := newTestUpdater(srv.URL)

	if _, err := u.RunOnce(context.Background()); err == nil {
		t.Fatal("RunOnce succeeded against a down API")
	}
	if _, ok := u.Store().Latest(); ok {
		t.Error("failed first pass published a result")
	}
}
