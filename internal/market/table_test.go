package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"clans-optimizer/internal/idleclans"
)

func TestSnapshotLookup(t *testing.T) {
	records := []idleclans.PriceRecord{
		{ItemID: 1, LowestSellPrice: 120, HighestBuyPrice: 100},
		{ItemID: 2, LowestSellPrice: 5, HighestBuyPrice: 4, AveragePrice: avg(4.5)},
	}
	snap := NewSnapshot(records, time.Now())

	if snap.Len() != 2 {
		t.Fatalf("Len = %d, want 2", snap.Len())
	}
	p, ok := snap.Lookup(2)
	if !ok {
		t.Fatal("Lookup(2) missed")
	}
	if p.LowestSell != 5 || p.HighestBuy != 4 {
		t.Errorf("point = %+v", p)
	}
	if p.Average == nil || *p.Average != 4.5 {
		t.Errorf("Average = %v, want 4.5", p.Average)
	}
	if _, ok := snap.Lookup(99); ok {
		t.Error("Lookup(99) hit, want miss")
	}
}

func TestSnapshotOmittedAverageIsNil(t *testing.T) {
	snap := NewSnapshot([]idleclans.PriceRecord{{ItemID: 1, LowestSellPrice: 10}}, time.Now())
	p, _ := snap.Lookup(1)
	if p.Average != nil {
		t.Errorf("Average = %v, want nil", *p.Average)
	}
}

func TestTablePublishSwapsWholesale(t *testing.T) {
	table := NewTable()
	if table.Current() != nil {
		t.Fatal("fresh table has a snapshot")
	}

	old := NewSnapshot([]idleclans.PriceRecord{{ItemID: 1, HighestBuyPrice: 100}}, time.Now())
	table.Publish(old)

	// A reader holding the old snapshot keeps its view after a publish.
	held := table.Current()
	table.Publish(NewSnapshot([]idleclans.PriceRecord{{ItemID: 1, HighestBuyPrice: 999}}, time.Now()))

	p, _ := held.Lookup(1)
	if p.HighestBuy != 100 {
		t.Errorf("held snapshot changed: HighestBuy = %v, want 100", p.HighestBuy)
	}
	p, _ = table.Current().Lookup(1)
	if p.HighestBuy != 999 {
		t.Errorf("current snapshot = %v, want 999", p.HighestBuy)
	}
}

func TestTableRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"itemId": 7, "lowestSellPrice": 42, "highestBuyPrice": 40}]`)
	}))
	defer srv.Close()

	table := NewTable()
	client := idleclans.NewClientWithBaseURL(srv.URL)
	snap, err := table.Refresh(context.Background(), client)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if snap != table.Current() {
		t.Error("Refresh did not publish the returned snapshot")
	}
	if p, ok := snap.Lookup(7); !ok || p.LowestSell != 42 {
		t.Errorf("Lookup(7) = %+v, %v", p, ok)
	}
}

func TestTableRefreshFailureKeepsCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	table := NewTable()
	prev := NewSnapshot([]idleclans.PriceRecord{{ItemID: 1}}, time.Now())
	table.Publish(prev)

	client := idleclans.NewClientWithBaseURL(srv.URL)
	if _, err := table.Refresh(context.Background(), client); err == nil {
		t.Fatal("Refresh succeeded against a down API")
	}
	if table.Current() != prev {
		t.Error("failed refresh replaced the current snapshot")
	}
}

func TestTableConcurrentReaders(t *testing.T) {
	table := NewTable()
	table.Publish(NewSnapshot([]idleclans.PriceRecord{{ItemID: 1, HighestBuyPrice: 10}}, time.Now()))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if snap := table.Current(); snap != nil {
					snap.Lookup(1)
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		table.Publish(NewSnapshot([]idleclans.PriceRecord{{ItemID: 1, HighestBuyPrice: float64(i)}}, time.Now()))
	}
	wg.Wait()
}
