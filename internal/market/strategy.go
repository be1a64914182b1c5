package market

import "fmt"

// Role distinguishes which side of the order book a price is resolved for.
type Role int

const (
	// RoleSell prices an item we are selling: what the market will pay us,
	// i.e. the highest active buy offer.
	RoleSell Role = iota
	// RoleBuy prices an item we must purchase: what the market charges us,
	// i.e. the lowest active sell offer.
	RoleBuy
)

// Strategy selects how a single price is derived from a price point.
type Strategy string

const (
	StrategyInstant   Strategy = "instant"
	StrategyAverage1d Strategy = "average_1d"
	// The 7d/30d windows are accepted in configuration but resolve
	// identically to average_1d: the price feed only carries a 24-hour
	// average today. Known limitation, not a bug.
	StrategyAverage7d  Strategy = "average_7d"
	StrategyAverage30d Strategy = "average_30d"
)

// ParseStrategy validates a configured strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyInstant, StrategyAverage1d, StrategyAverage7d, StrategyAverage30d:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown pricing strategy %q", s)
}

// StrategyConfig holds the pricing strategy per price role.
type StrategyConfig struct {
	Sell Strategy
	Buy  Strategy
}

// DefaultStrategyConfig uses instant order-book prices for both roles.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{Sell: StrategyInstant, Buy: StrategyInstant}
}

// Resolve derives a single price for one item from its price point.
// A resolved price of zero is a valid value and propagates as zero; the
// only "no price" case is the caller not having a price point at all.
func (c StrategyConfig) Resolve(p PricePoint, role Role) float64 {
	strategy := c.Sell
	if role == RoleBuy {
		strategy = c.Buy
	}
	switch strategy {
	case StrategyAverage1d, StrategyAverage7d, StrategyAverage30d:
		if p.Average != nil {
			return *p.Average
		}
		return instant(p, role)
	default:
		return instant(p, role)
	}
}

func instant(p PricePoint, role Role) float64 {
	if role == RoleSell {
		return p.HighestBuy
	}
	return p.LowestSell
}
