package dividendService

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/calendar"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/dividend"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/service"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

type Repository interface {
	LoadHoldings(ctx context.Context) ([]model.Holding, error)
	LoadDividendEvents(ctx context.Context) ([]model.DividendEvent, error)
	SaveDividendEvents(ctx context.Context, events []model.DividendEvent) error
	LoadDividendSettings(ctx context.Context) (model.DividendSettings, error)
	SaveDividendSettings(ctx context.Context, settings model.DividendSettings) error
}

type DividendService struct {
	repo  Repository
	clock clockwork.Clock
	loc   *time.Location

	mu sync.Mutex
}

func New(cfg *config.Config, repo Repository, clock clockwork.Clock) *DividendService {
	return &DividendService{repo: repo, clock: clock, loc: cfg.Location()}
}

func (s *DividendService) today() calendar.Date {
	return calendar.On(s.clock.Now(), s.loc)
}

// ListEvents returns the recorded events, newest first.
func (s *DividendService) ListEvents(ctx context.Context) ([]model.DividendEvent, error) {
	events, err := s.repo.LoadDividendEvents(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.After(events[j].Date) })
	return events, nil
}

func (s *DividendService) AddEvent(ctx context.Context, symbol string, on calendar.Date, amount decimal.Decimal, note string) (model.DividendEvent, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DividendService.AddEvent"

	symbol = model.NormalizeSymbol(symbol)

	slog.Debug("AddEvent start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("AddEvent finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	switch {
	case symbol == "":
		return model.DividendEvent{}, fmt.Errorf("%w: symbol is required", service.ErrInvalidInput)
	case on.IsZero():
		return model.DividendEvent{}, fmt.Errorf("%w: date is required", service.ErrInvalidInput)
	case !amount.IsPositive():
		return model.DividendEvent{}, fmt.Errorf("%w: amount must be positive", service.ErrInvalidInput)
	}

	event := model.DividendEvent{
		ID:     uuid.NewString(),
		Symbol: symbol,
		Date:   on,
		Amount: amount,
		Note:   note,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.repo.LoadDividendEvents(ctx)
	if err != nil {
		return model.DividendEvent{}, err
	}

	events = append(events, event)
	if err = s.repo.SaveDividendEvents(ctx, events); err != nil {
		slog.Error("got error from repo.SaveDividendEvents", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.DividendEvent{}, err
	}

	return event, nil
}

func (s *DividendService) DeleteEvent(ctx context.Context, id string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DividendService.DeleteEvent"

	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.repo.LoadDividendEvents(ctx)
	if err != nil {
		return err
	}

	kept := events[:0]
	for _, e := range events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(events) {
		return service.ErrNotFound
	}

	if err = s.repo.SaveDividendEvents(ctx, kept); err != nil {
		slog.Error("got error from repo.SaveDividendEvents", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}
	return nil
}

func (s *DividendService) Settings(ctx context.Context) (model.DividendSettings, error) {
	return s.repo.LoadDividendSettings(ctx)
}

// SaveSetting replaces the symbol's setting as a whole.
func (s *DividendService) SaveSetting(ctx context.Context, symbol string, setting model.DividendSetting) (model.DividendSetting, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DividendService.SaveSetting"

	symbol = model.NormalizeSymbol(symbol)

	switch {
	case symbol == "":
		return model.DividendSetting{}, fmt.Errorf("%w: symbol is required", service.ErrInvalidInput)
	case !setting.AnnualPerShare.IsPositive():
		return model.DividendSetting{}, fmt.Errorf("%w: annual dividend per share must be positive", service.ErrInvalidInput)
	case setting.Frequency.PaymentsPerYear() == 0:
		return model.DividendSetting{}, fmt.Errorf("%w: unknown frequency %q", service.ErrInvalidInput, setting.Frequency)
	case setting.NextPayDate.IsZero():
		return model.DividendSetting{}, fmt.Errorf("%w: next pay date is required", service.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.repo.LoadDividendSettings(ctx)
	if err != nil {
		return model.DividendSetting{}, err
	}

	settings[symbol] = setting
	if err = s.repo.SaveDividendSettings(ctx, settings); err != nil {
		slog.Error("got error from repo.SaveDividendSettings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.DividendSetting{}, err
	}

	return setting, nil
}

func (s *DividendService) DeleteSetting(ctx context.Context, symbol string) error {
	symbol = model.NormalizeSymbol(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.repo.LoadDividendSettings(ctx)
	if err != nil {
		return err
	}
	if _, ok := settings[symbol]; !ok {
		return service.ErrNotFound
	}

	delete(settings, symbol)
	return s.repo.SaveDividendSettings(ctx, settings)
}

// Summary buckets received dividends over the last 12 months and projects the
// configured ones over the next 12, using the current share counts.
func (s *DividendService) Summary(ctx context.Context) (model.DividendSummary, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DividendService.Summary"

	slog.Debug("Summary start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("Summary finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	holdings, err := s.repo.LoadHoldings(ctx)
	if err != nil {
		return model.DividendSummary{}, err
	}
	events, err := s.repo.LoadDividendEvents(ctx)
	if err != nil {
		return model.DividendSummary{}, err
	}
	settings, err := s.repo.LoadDividendSettings(ctx)
	if err != nil {
		return model.DividendSummary{}, err
	}

	return dividend.Summarize(events, settings, model.SharesBySymbol(holdings), s.today()), nil
}
