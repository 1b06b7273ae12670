package portfolioService

import (
	"context"
	"errors"
	"fmt"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/pricelog"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/series"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/service"
)

func (s *PortfolioService) PriceLog(ctx context.Context) (pricelog.Log, error) {
	return s.repo.LoadPriceLog(ctx)
}

// Series returns the logged prices of one symbol within the range preset.
func (s *PortfolioService) Series(ctx context.Context, symbol, rangeName string) ([]model.Point, error) {
	symbol = model.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", service.ErrInvalidInput)
	}
	r, err := series.ParseRange(rangeName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
	}

	log, err := s.repo.LoadPriceLog(ctx)
	if err != nil {
		return nil, err
	}

	return series.For(log, symbol, r, s.now(), s.loc), nil
}

// Chart derives the chart of every held symbol in the requested mode.
func (s *PortfolioService) Chart(ctx context.Context, modeName, rangeName string) (model.Chart, error) {
	mode, err := series.ParseMode(modeName)
	if err != nil {
		return model.Chart{}, fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
	}
	r, err := series.ParseRange(rangeName)
	if err != nil {
		return model.Chart{}, fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
	}

	holdings, err := s.repo.LoadHoldings(ctx)
	if err != nil {
		return model.Chart{}, err
	}
	log, err := s.repo.LoadPriceLog(ctx)
	if err != nil {
		return model.Chart{}, err
	}

	chart := model.Chart{Mode: mode, Range: r.Name}
	now := s.now()

	switch mode {
	case model.ChartNormalized:
		chart.Series, err = series.Normalized(log, model.Symbols(holdings), r, now, s.loc)
	case model.ChartTotal:
		chart.Total, err = series.Total(log, model.SharesBySymbol(holdings), r, now, s.loc)
	default:
		chart.Series, err = series.Overlay(log, model.Symbols(holdings), r, now, s.loc)
	}
	if err != nil {
		if errors.Is(err, series.ErrInsufficientHistory) {
			return model.Chart{}, service.ErrInsufficientHistory
		}
		return model.Chart{}, err
	}

	return chart, nil
}
