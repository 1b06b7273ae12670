// Package repository loads and saves each collection as one JSON blob in the
// key-value store. A blob that is missing or does not decode loads as the
// collection's empty value; only storage failures are returned.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SqueakyMcSqueeze/stocks-pwa/data/kvstore"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/pricelog"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

const (
	KeyHoldings         = "holdings"
	KeyQuotes           = "quotes"
	KeyQuotesTimestamp  = "quotes_timestamp"
	KeyPriceLog         = "price_log"
	KeyDividendEvents   = "dividend_events"
	KeyDividendSettings = "dividend_settings"
	KeyWatchlist        = "watchlist"
)

type Repository struct {
	kv kvstore.Store
}

func New(kv kvstore.Store) *Repository {
	return &Repository{kv: kv}
}

// load decodes key into dst. It reports whether dst was filled.
func (r *Repository) load(ctx context.Context, key string, dst any) (bool, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	raw, err := r.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", key, err)
	}

	if err = json.Unmarshal([]byte(raw), dst); err != nil {
		slog.Warn("stored blob does not decode, using empty value",
			slog.String("rqID", rqID),
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
		return false, nil
	}

	return true, nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err = r.kv.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r *Repository) LoadHoldings(ctx context.Context) ([]model.Holding, error) {
	var holdings []model.Holding
	ok, err := r.load(ctx, KeyHoldings, &holdings)
	if err != nil || !ok {
		return []model.Holding{}, err
	}
	return holdings, nil
}

func (r *Repository) SaveHoldings(ctx context.Context, holdings []model.Holding) error {
	return r.save(ctx, KeyHoldings, holdings)
}

func (r *Repository) LoadWatchlist(ctx context.Context) ([]string, error) {
	var symbols []string
	ok, err := r.load(ctx, KeyWatchlist, &symbols)
	if err != nil || !ok {
		return []string{}, err
	}
	return symbols, nil
}

func (r *Repository) SaveWatchlist(ctx context.Context, symbols []string) error {
	return r.save(ctx, KeyWatchlist, symbols)
}

func (r *Repository) LoadQuotes(ctx context.Context) (model.QuoteCache, error) {
	quotes := model.QuoteCache{}
	ok, err := r.load(ctx, KeyQuotes, &quotes)
	if err != nil || !ok || quotes == nil {
		return model.QuoteCache{}, err
	}
	return quotes, nil
}

func (r *Repository) SaveQuotes(ctx context.Context, quotes model.QuoteCache) error {
	return r.save(ctx, KeyQuotes, quotes)
}

// LoadQuotesTimestamp returns the zero time when no refresh was recorded.
func (r *Repository) LoadQuotesTimestamp(ctx context.Context) (time.Time, error) {
	var ts time.Time
	ok, err := r.load(ctx, KeyQuotesTimestamp, &ts)
	if err != nil || !ok {
		return time.Time{}, err
	}
	return ts, nil
}

func (r *Repository) SaveQuotesTimestamp(ctx context.Context, ts time.Time) error {
	return r.save(ctx, KeyQuotesTimestamp, ts)
}

func (r *Repository) LoadPriceLog(ctx context.Context) (pricelog.Log, error) {
	log := pricelog.New()
	ok, err := r.load(ctx, KeyPriceLog, &log)
	if err != nil || !ok || log == nil {
		return pricelog.New(), err
	}
	for symbol, days := range log {
		if days == nil {
			delete(log, symbol)
		}
	}
	return log, nil
}

func (r *Repository) SavePriceLog(ctx context.Context, log pricelog.Log) error {
	return r.save(ctx, KeyPriceLog, log)
}

func (r *Repository) LoadDividendEvents(ctx context.Context) ([]model.DividendEvent, error) {
	var events []model.DividendEvent
	ok, err := r.load(ctx, KeyDividendEvents, &events)
	if err != nil || !ok {
		return []model.DividendEvent{}, err
	}
	return events, nil
}

func (r *Repository) SaveDividendEvents(ctx context.Context, events []model.DividendEvent) error {
	return r.save(ctx, KeyDividendEvents, events)
}

func (r *Repository) LoadDividendSettings(ctx context.Context) (model.DividendSettings, error) {
	settings := model.DividendSettings{}
	ok, err := r.load(ctx, KeyDividendSettings, &settings)
	if err != nil || !ok || settings == nil {
		return model.DividendSettings{}, err
	}
	return settings, nil
}

func (r *Repository) SaveDividendSettings(ctx context.Context, settings model.DividendSettings) error {
	return r.save(ctx, KeyDividendSettings, settings)
}
