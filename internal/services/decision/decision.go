// Package decision implements the threshold trading policy. Decide is a
// pure function over the current reference price and spot balances, so the
// business rule is testable without any exchange access.
package decision

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/vigia/internal/domain"
)

// Policy holds the configurable thresholds of the buy/sell rule.
type Policy struct {
	Pair            domain.Pair
	BuyThreshold    decimal.Decimal
	SellThreshold   decimal.Decimal
	MinQuoteBalance decimal.Decimal
	MinBaseBalance  decimal.Decimal
}

// DefaultPolicy returns the policy with the stock thresholds for the pair.
func DefaultPolicy(pair domain.Pair) Policy {
	return Policy{
		Pair:            pair,
		BuyThreshold:    decimal.NewFromInt(100000),
		SellThreshold:   decimal.NewFromInt(120000),
		MinQuoteBalance: decimal.NewFromInt(10),
		MinBaseBalance:  decimal.RequireFromString("0.0001"),
	}
}

// Decide returns a trade intent for the given price and balances, or nil
// when no action is warranted. Thresholds are strict: buy below the low
// threshold, sell above the high one, and the band between them is an
// intentional hold zone.
func (p Policy) Decide(price decimal.Decimal, spot map[string]decimal.Decimal) *domain.TradeIntent {
	if !price.IsPositive() {
		return nil
	}

	if price.LessThan(p.BuyThreshold) {
		quoteBalance := spot[p.Pair.To]
		if quoteBalance.GreaterThan(p.MinQuoteBalance) {
			return &domain.TradeIntent{
				Side:     domain.SideBuy,
				Asset:    p.Pair.From,
				Quantity: quoteBalance.Div(price),
				Price:    price,
			}
		}
		return nil
	}

	if price.GreaterThan(p.SellThreshold) {
		baseBalance := spot[p.Pair.From]
		if baseBalance.GreaterThan(p.MinBaseBalance) {
			return &domain.TradeIntent{
				Side:     domain.SideSell,
				Asset:    p.Pair.From,
				Quantity: baseBalance,
				Price:    price,
			}
		}
	}

	return nil
}
