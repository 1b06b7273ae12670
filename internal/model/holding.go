package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Holding struct {
	ID       string          `json:"id"`
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Shares   decimal.Decimal `json:"shares"`
	Industry string          `json:"industry,omitempty"`
}

// NormalizeSymbol trims and uppercases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// SharesBySymbol sums shares per symbol, so duplicate holdings of one ticker
// count together in every derived view.
func SharesBySymbol(holdings []Holding) map[string]decimal.Decimal {
	res := make(map[string]decimal.Decimal, len(holdings))
	for _, h := range holdings {
		res[h.Symbol] = res[h.Symbol].Add(h.Shares)
	}
	return res
}

// Symbols returns the distinct symbols in first-seen order.
func Symbols(holdings []Holding) []string {
	seen := make(map[string]struct{}, len(holdings))
	res := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if _, ok := seen[h.Symbol]; ok {
			continue
		}
		seen[h.Symbol] = struct{}{}
		res = append(res, h.Symbol)
	}
	return res
}
