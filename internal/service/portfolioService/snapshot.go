package portfolioService

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
)

const unknownIndustry = "Unknown"

var hundred = decimal.NewFromInt(100)

func (s *PortfolioService) Snapshot(ctx context.Context) (model.PortfolioSnapshot, error) {
	holdings, err := s.repo.LoadHoldings(ctx)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}
	quotes, err := s.repo.LoadQuotes(ctx)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}
	return snapshot(holdings, quotes), nil
}

// snapshot values each holding at its cached price. The day change is the
// value difference against the previous close implied by the change percent.
func snapshot(holdings []model.Holding, quotes model.QuoteCache) model.PortfolioSnapshot {
	res := model.PortfolioSnapshot{Positions: make([]model.Position, 0, len(holdings))}

	for _, h := range holdings {
		p := model.Position{Holding: h, Quote: quotes[h.Symbol]}
		if !p.Quote.Available() {
			res.Unpriced++
			res.Positions = append(res.Positions, p)
			continue
		}

		price := decimal.NewFromFloat(p.Quote.Price)
		p.Value = h.Shares.Mul(price)

		pct := decimal.NewFromFloat(p.Quote.ChangePercent)
		if divisor := hundred.Add(pct); !divisor.IsZero() {
			p.DayChange = p.Value.Mul(pct).Div(divisor).Round(4)
		}

		res.TotalValue = res.TotalValue.Add(p.Value)
		res.DayChange = res.DayChange.Add(p.DayChange)
		res.Positions = append(res.Positions, p)
	}

	return res
}

// Industries splits the priced portfolio value by industry, largest first.
func (s *PortfolioService) Industries(ctx context.Context) ([]model.IndustryAllocation, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return industries(snap), nil
}

func industries(snap model.PortfolioSnapshot) []model.IndustryAllocation {
	values := make(map[string]decimal.Decimal)
	for _, p := range snap.Positions {
		if !p.Quote.Available() {
			continue
		}
		industry := p.Industry
		if industry == "" {
			industry = unknownIndustry
		}
		values[industry] = values[industry].Add(p.Value)
	}

	res := make([]model.IndustryAllocation, 0, len(values))
	for industry, value := range values {
		a := model.IndustryAllocation{Industry: industry, Value: value}
		if !snap.TotalValue.IsZero() {
			a.Weight = value.Div(snap.TotalValue).Round(4)
		}
		res = append(res, a)
	}

	sort.Slice(res, func(i, j int) bool {
		if !res[i].Value.Equal(res[j].Value) {
			return res[i].Value.GreaterThan(res[j].Value)
		}
		return res[i].Industry < res[j].Industry
	})

	return res
}
