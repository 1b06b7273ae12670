package portfolioService

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/calendar"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/metrics"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/service"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

const (
	ReasonInFlight = "refresh already in flight"
	ReasonFresh    = "quotes are fresh"
)

func (s *PortfolioService) Quotes(ctx context.Context) (model.QuotesView, error) {
	quotes, err := s.repo.LoadQuotes(ctx)
	if err != nil {
		return model.QuotesView{}, err
	}
	ts, err := s.repo.LoadQuotesTimestamp(ctx)
	if err != nil {
		return model.QuotesView{}, err
	}
	return model.QuotesView{Quotes: quotes, LastRefresh: ts}, nil
}

// RefreshQuotes fetches every held and watched symbol and replaces the quote
// cache. Unless forced, a cache younger than the staleness window is kept. A
// call while another refresh runs returns at once with Skipped set.
//
// Once all fetches are done the cache timestamp moves to now, and if none of
// the held symbols has a price logged today the successful prices are logged.
func (s *PortfolioService) RefreshQuotes(ctx context.Context, force bool) (res model.RefreshResult, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RefreshQuotes"

	if !s.refreshing.CompareAndSwap(false, true) {
		slog.Info("refresh skipped", slog.String("rqID", rqID), slog.String("op", op), slog.String("reason", ReasonInFlight))
		metrics.RecordRefresh("skipped", 0)
		return model.RefreshResult{Skipped: true, Reason: ReasonInFlight}, nil
	}
	defer s.refreshing.Store(false)

	slog.Debug("RefreshQuotes start", slog.String("rqID", rqID), slog.String("op", op), slog.Bool("force", force))
	start := s.clock.Now()
	defer func() {
		switch {
		case err != nil:
			metrics.RecordRefresh("failed", 0)
		case res.Skipped:
			metrics.RecordRefresh("skipped", 0)
		default:
			metrics.RecordRefresh("completed", s.clock.Since(start))
		}
		slog.Debug("RefreshQuotes finished", slog.String("rqID", rqID), slog.String("op", op), slog.Any("result", res))
	}()

	if !force {
		last, err := s.repo.LoadQuotesTimestamp(ctx)
		if err != nil {
			return model.RefreshResult{}, err
		}
		if !last.IsZero() && s.clock.Since(last) < s.staleness {
			return model.RefreshResult{Skipped: true, Reason: ReasonFresh}, nil
		}
	}

	holdings, err := s.repo.LoadHoldings(ctx)
	if err != nil {
		return model.RefreshResult{}, err
	}
	watchlist, err := s.repo.LoadWatchlist(ctx)
	if err != nil {
		return model.RefreshResult{}, err
	}

	held := model.Symbols(holdings)
	quotes := s.fetchQuotes(ctx, mergeSymbols(held, watchlist))

	now := s.now()
	if err = s.repo.SaveQuotes(ctx, quotes); err != nil {
		slog.Error("got error from repo.SaveQuotes", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.RefreshResult{}, err
	}
	if err = s.repo.SaveQuotesTimestamp(ctx, now); err != nil {
		slog.Error("got error from repo.SaveQuotesTimestamp", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.RefreshResult{}, err
	}

	res = model.RefreshResult{RefreshedAt: now}
	for _, q := range quotes {
		if q.Available() {
			res.Fetched++
		} else {
			res.Unavailable++
		}
	}

	res.Logged, err = s.logDailyPrices(ctx, held, quotes, calendar.On(now, s.loc))
	if err != nil {
		return model.RefreshResult{}, err
	}

	return res, nil
}

// fetchQuotes runs one isolated fetch per symbol. A failed fetch marks the
// symbol unavailable and never fails the batch.
func (s *PortfolioService) fetchQuotes(ctx context.Context, symbols []string) model.QuoteCache {
	rqID := utils.GetRequestIDFromCtx(ctx)

	results := make([]model.Quote, len(symbols))

	g := errgroup.Group{}
	g.SetLimit(s.concurrency)
	for i, symbol := range symbols {
		g.Go(func() error {
			q, err := s.provider.GetQuote(ctx, symbol)
			if err != nil {
				slog.Warn("quote unavailable", slog.String("rqID", rqID), slog.String("symbol", symbol), slog.String("err", err.Error()))
				metrics.RecordQuoteFetch(string(model.QuoteUnavailable))
				results[i] = model.Unavailable()
				return nil
			}
			metrics.RecordQuoteFetch(string(model.QuoteFetched))
			results[i] = model.Fetched(q.CurrentPrice, q.DayChangePercent)
			return nil
		})
	}
	_ = g.Wait()

	quotes := make(model.QuoteCache, len(symbols))
	for i, symbol := range symbols {
		quotes[symbol] = results[i]
	}
	return quotes
}

// logDailyPrices writes today's successful prices of held symbols unless one
// of them is already logged today. It returns the number of entries written.
func (s *PortfolioService) logDailyPrices(ctx context.Context, held []string, quotes model.QuoteCache, today calendar.Date) (int, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.logDailyPrices"

	if len(held) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.repo.LoadPriceLog(ctx)
	if err != nil {
		return 0, err
	}
	if log.HasLoggedToday(held, today) {
		return 0, nil
	}

	logged := 0
	for _, symbol := range held {
		q := quotes[symbol]
		if !q.Available() {
			continue
		}
		log.RecordPrice(symbol, q.Price, today)
		logged++
	}
	if logged == 0 {
		return 0, nil
	}

	if err = s.repo.SavePriceLog(ctx, log); err != nil {
		slog.Error("got error from repo.SavePriceLog", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return 0, err
	}
	metrics.RecordPriceLogWrites(logged)

	slog.Info("daily prices logged", slog.String("rqID", rqID), slog.String("op", op), slog.String("day", today.String()), slog.Int("logged", logged))

	return logged, nil
}

// RefreshJob is the periodic trigger: a forced refresh.
func (s *PortfolioService) RefreshJob(ctx context.Context) error {
	_, err := s.RefreshQuotes(ctx, true)
	return err
}

// DailyLogJob forces a refresh only when holdings exist and none of them has
// a price logged today.
func (s *PortfolioService) DailyLogJob(ctx context.Context) error {
	holdings, err := s.repo.LoadHoldings(ctx)
	if err != nil {
		return err
	}
	held := model.Symbols(holdings)
	if len(held) == 0 {
		return nil
	}

	logged, err := s.HasLoggedToday(ctx)
	if err != nil || logged {
		return err
	}

	_, err = s.RefreshQuotes(ctx, true)
	return err
}

func (s *PortfolioService) HasLoggedToday(ctx context.Context) (bool, error) {
	holdings, err := s.repo.LoadHoldings(ctx)
	if err != nil {
		return false, err
	}
	log, err := s.repo.LoadPriceLog(ctx)
	if err != nil {
		return false, err
	}
	return log.HasLoggedToday(model.Symbols(holdings), calendar.On(s.clock.Now(), s.loc)), nil
}

// ResetPriceHistory clears the whole price log. It refuses unless confirmed.
func (s *PortfolioService) ResetPriceHistory(ctx context.Context, confirmed bool) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ResetPriceHistory"

	if !confirmed {
		return fmt.Errorf("%w: resetting price history cannot be undone", service.ErrConfirmationRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.repo.LoadPriceLog(ctx)
	if err != nil {
		return err
	}
	log.Reset()
	if err = s.repo.SavePriceLog(ctx, log); err != nil {
		slog.Error("got error from repo.SavePriceLog", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Info("price history reset", slog.String("rqID", rqID), slog.String("op", op))
	return nil
}

func mergeSymbols(lists ...[]string) []string {
	seen := make(map[string]struct{})
	res := make([]string, 0)
	for _, list := range lists {
		for _, s := range list {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			res = append(res, s)
		}
	}
	return res
}
