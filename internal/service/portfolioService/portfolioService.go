// Package portfolioService owns holdings, the watchlist, the quote cache and
// the daily price log, and derives every price based view from them.
package portfolioService

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/pricelog"
)

type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (model.ProviderQuote, error)
	GetProfile(ctx context.Context, symbol string) (model.Profile, error)
}

type ProfileCache interface {
	GetProfile(ctx context.Context, symbol string) (model.Profile, error)
	SetProfile(ctx context.Context, profile model.Profile) error
}

type Repository interface {
	LoadHoldings(ctx context.Context) ([]model.Holding, error)
	SaveHoldings(ctx context.Context, holdings []model.Holding) error
	LoadWatchlist(ctx context.Context) ([]string, error)
	SaveWatchlist(ctx context.Context, symbols []string) error
	LoadQuotes(ctx context.Context) (model.QuoteCache, error)
	SaveQuotes(ctx context.Context, quotes model.QuoteCache) error
	LoadQuotesTimestamp(ctx context.Context) (time.Time, error)
	SaveQuotesTimestamp(ctx context.Context, ts time.Time) error
	LoadPriceLog(ctx context.Context) (pricelog.Log, error)
	SavePriceLog(ctx context.Context, log pricelog.Log) error
}

type PortfolioService struct {
	repo        Repository
	provider    QuoteProvider
	profiles    ProfileCache
	clock       clockwork.Clock
	loc         *time.Location
	staleness   time.Duration
	concurrency int

	// mu serializes read-modify-write cycles on holdings, watchlist and log.
	mu         sync.Mutex
	refreshing atomic.Bool
}

func New(cfg *config.Config, repo Repository, provider QuoteProvider, profiles ProfileCache, clock clockwork.Clock) *PortfolioService {
	concurrency := cfg.Quotes.FetchConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &PortfolioService{
		repo:        repo,
		provider:    provider,
		profiles:    profiles,
		clock:       clock,
		loc:         cfg.Location(),
		staleness:   cfg.Quotes.StalenessWindow,
		concurrency: concurrency,
	}
}

func (s *PortfolioService) now() time.Time {
	return s.clock.Now().In(s.loc)
}
