package market

import "testing"

func avg(v float64) *float64 { return &v }

func TestParseStrategy(t *testing.T) {
	for _, valid := range []string{"instant", "average_1d", "average_7d", "average_30d"} {
		if _, err := ParseStrategy(valid); err != nil {
			t.Errorf("ParseStrategy(%q) = %v, want nil", valid, err)
		}
	}
	for _, invalid := range []string{"", "median", "INSTANT", "average"} {
		if _, err := ParseStrategy(invalid); err == nil {
			t.Errorf("ParseStrategy(%q) succeeded, want error", invalid)
		}
	}
}

func TestResolveInstant(t *testing.T) {
	// Instant never reads the average, even when present.
	p := PricePoint{ItemID: 1, LowestSell: 120, HighestBuy: 100, Average: avg(111)}
	cfg := DefaultStrategyConfig()

	if got := cfg.Resolve(p, RoleSell); got != 100 {
		t.Errorf("sell = %v, want highest buy 100", got)
	}
	if got := cfg.Resolve(p, RoleBuy); got != 120 {
		t.Errorf("buy = %v, want lowest sell 120", got)
	}
}

func TestResolveAverageUsesAverageWhenPresent(t *testing.T) {
	p := PricePoint{ItemID: 1, LowestSell: 120, HighestBuy: 100, Average: avg(111)}
	cfg := StrategyConfig{Sell: StrategyAverage1d, Buy: StrategyAverage1d}

	if got := cfg.Resolve(p, RoleSell); got != 111 {
		t.Errorf("sell = %v, want average 111", got)
	}
	if got := cfg.Resolve(p, RoleBuy); got != 111 {
		t.Errorf("buy = %v, want average 111", got)
	}
}

func TestResolveAverageFallsBackToInstant(t *testing.T) {
	// No average recorded: the role-appropriate instant price fills in.
	p := PricePoint{ItemID: 1, LowestSell: 120, HighestBuy: 100}
	cfg := StrategyConfig{Sell: StrategyAverage1d, Buy: StrategyAverage1d}

	if got := cfg.Resolve(p, RoleSell); got != 100 {
		t.Errorf("sell = %v, want instant 100", got)
	}
	if got := cfg.Resolve(p, RoleBuy); got != 120 {
		t.Errorf("buy = %v, want instant 120", got)
	}
}

func TestResolveLongWindowsAliasTo1d(t *testing.T) {
	p := PricePoint{ItemID: 1, LowestSell: 120, HighestBuy: 100, Average: avg(111)}
	for _, s := range []Strategy{StrategyAverage7d, StrategyAverage30d} {
		cfg := StrategyConfig{Sell: s, Buy: s}
		if got := cfg.Resolve(p, RoleSell); got != 111 {
			t.Errorf("%s sell = %v, want 111", s, got)
		}
	}
}

func TestResolveZeroIsValid(t *testing.T) {
	// A zero order-book side resolves to zero; callers decide what zero
	// means, the resolver does not invent a price.
	p := PricePoint{ItemID: 1, LowestSell: 0, HighestBuy: 0}
	cfg := DefaultStrategyConfig()
	if got := cfg.Resolve(p, RoleSell); got != 0 {
		t.Errorf("sell = %v, want 0", got)
	}
	if got := cfg.Resolve(p, RoleBuy); got != 0 {
		t.Errorf("buy = %v, want 0", got)
	}
}

func TestResolvePerRoleStrategies(t *testing.T) {
	p := PricePoint{ItemID: 1, LowestSell: 120, HighestBuy: 100, Average: avg(111)}
	cfg := StrategyConfig{Sell: StrategyAverage1d, Buy: StrategyInstant}
	if got := cfg.Resolve(p, RoleSell); got != 111 {
		t.Errorf("sell = %v, want 111", got)
	}
	if got := cfg.Resolve(p, RoleBuy); got != 120 {
		t.Errorf("buy = %v, want 120", got)
	}
}
