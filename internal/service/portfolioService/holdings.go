package portfolioService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/service"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

func validateShares(shares decimal.Decimal) error {
	if shares.IsNegative() {
		return fmt.Errorf("%w: shares must not be negative", service.ErrInvalidInput)
	}
	return nil
}

func (s *PortfolioService) ListHoldings(ctx context.Context) ([]model.Holding, error) {
	return s.repo.LoadHoldings(ctx)
}

// AddHolding appends a new holding. Name and industry are filled from the
// provider profile when available; a failed lookup is not an error.
func (s *PortfolioService) AddHolding(ctx context.Context, symbol, name string, shares decimal.Decimal) (model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.AddHolding"

	symbol = model.NormalizeSymbol(symbol)

	slog.Debug("AddHolding start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("AddHolding finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	if symbol == "" {
		return model.Holding{}, fmt.Errorf("%w: symbol is required", service.ErrInvalidInput)
	}
	if err := validateShares(shares); err != nil {
		return model.Holding{}, err
	}

	holding := model.Holding{
		ID:     uuid.NewString(),
		Symbol: symbol,
		Name:   name,
		Shares: shares,
	}

	if profile, err := s.Profile(ctx, symbol); err == nil {
		holding.Industry = profile.Industry
		if holding.Name == "" {
			holding.Name = profile.Name
		}
	} else {
		slog.Warn("profile enrichment skipped", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}
	if holding.Name == "" {
		holding.Name = symbol
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	holdings, err := s.repo.LoadHoldings(ctx)
	if err != nil {
		slog.Error("got error from repo.LoadHoldings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Holding{}, err
	}

	holdings = append(holdings, holding)
	if err = s.repo.SaveHoldings(ctx, holdings); err != nil {
		slog.Error("got error from repo.SaveHoldings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Holding{}, err
	}

	return holding, nil
}

func (s *PortfolioService) UpdateShares(ctx context.Context, id string, shares decimal.Decimal) (model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.UpdateShares"

	slog.Debug("UpdateShares start", slog.String("rqID", rqID), slog.String("op", op), slog.String("id", id))
	defer func() {
		slog.Debug("UpdateShares finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("id", id))
	}()

	if err := validateShares(shares); err != nil {
		return model.Holding{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	holdings, err := s.repo.LoadHoldings(ctx)
	if err != nil {
		return model.Holding{}, err
	}

	for i := range holdings {
		if holdings[i].ID != id {
			continue
		}
		holdings[i].Shares = shares
		if err = s.repo.SaveHoldings(ctx, holdings); err != nil {
			slog.Error("got error from repo.SaveHoldings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return model.Holding{}, err
		}
		return holdings[i], nil
	}

	return model.Holding{}, service.ErrNotFound
}

func (s *PortfolioService) DeleteHolding(ctx context.Context, id string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.DeleteHolding"

	slog.Debug("DeleteHolding start", slog.String("rqID", rqID), slog.String("op", op), slog.String("id", id))
	defer func() {
		slog.Debug("DeleteHolding finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("id", id))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	holdings, err := s.repo.LoadHoldings(ctx)
	if err != nil {
		return err
	}

	kept := holdings[:0]
	for _, h := range holdings {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(holdings) {
		return service.ErrNotFound
	}

	return s.repo.SaveHoldings(ctx, kept)
}

// FindHolding resolves a holding by id, or by symbol when no id matches.
func (s *PortfolioService) FindHolding(ctx context.Context, idOrSymbol string) (model.Holding, error) {
	holdings, err := s.repo.LoadHoldings(ctx)
	if err != nil {
		return model.Holding{}, err
	}
	for _, h := range holdings {
		if h.ID == idOrSymbol {
			return h, nil
		}
	}
	symbol := model.NormalizeSymbol(idOrSymbol)
	for _, h := range holdings {
		if h.Symbol == symbol {
			return h, nil
		}
	}
	return model.Holding{}, service.ErrNotFound
}

func (s *PortfolioService) ListWatchlist(ctx context.Context) ([]string, error) {
	return s.repo.LoadWatchlist(ctx)
}

// AddToWatchlist is idempotent: a symbol already watched is left in place.
func (s *PortfolioService) AddToWatchlist(ctx context.Context, symbol string) ([]string, error) {
	symbol = model.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", service.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	watchlist, err := s.repo.LoadWatchlist(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range watchlist {
		if w == symbol {
			return watchlist, nil
		}
	}

	watchlist = append(watchlist, symbol)
	if err = s.repo.SaveWatchlist(ctx, watchlist); err != nil {
		return nil, err
	}
	return watchlist, nil
}

func (s *PortfolioService) RemoveFromWatchlist(ctx context.Context, symbol string) ([]string, error) {
	symbol = model.NormalizeSymbol(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	watchlist, err := s.repo.LoadWatchlist(ctx)
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(watchlist))
	for _, w := range watchlist {
		if w != symbol {
			kept = append(kept, w)
		}
	}
	if len(kept) == len(watchlist) {
		return nil, service.ErrNotFound
	}

	if err = s.repo.SaveWatchlist(ctx, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Profile serves the company profile from cache, falling back to the provider.
func (s *PortfolioService) Profile(ctx context.Context, symbol string) (model.Profile, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.Profile"

	symbol = model.NormalizeSymbol(symbol)
	if symbol == "" {
		return model.Profile{}, fmt.Errorf("%w: symbol is required", service.ErrInvalidInput)
	}

	profile, err := s.profiles.GetProfile(ctx, symbol)
	if err == nil {
		return profile, nil
	}

	profile, err = s.provider.GetProfile(ctx, symbol)
	if err != nil {
		return model.Profile{}, err
	}

	if err = s.profiles.SetProfile(ctx, profile); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("can't cache profile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return profile, nil
}
