package finnhubApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/externalApi"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model/finnhubModel"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

const tokenHeader = "X-Finnhub-Token"

// Resolutions lists the candle resolutions served; intraday ones are not.
var Resolutions = map[string]bool{"D": true, "W": true, "M": true}

type FinnhubApi struct {
	client *resty.Client
	token  string
}

func New(cfg *config.Config) *FinnhubApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.Finnhub.Url)
	return &FinnhubApi{client: client, token: cfg.API.Finnhub.Token}
}

func (a *FinnhubApi) get(ctx context.Context, url string, params map[string]string, dst any) error {
	rqId := utils.GetRequestIDFromCtx(ctx)

	if a.token == "" {
		return externalApi.ErrNoCredentials
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader(tokenHeader, a.token).
		SetQueryParams(params).
		Get(url)
	if err != nil {
		slog.Error("error while dialing FinnhubApi", slog.String("err", err.Error()), slog.String("rqID", rqId), slog.String("url", url))
		return err
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		slog.Warn("FinnhubApi responded with error status", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqId), slog.String("url", url))
		return &externalApi.UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	if err = json.Unmarshal(resp.Body(), dst); err != nil {
		slog.Error("can't unmarshall FinnhubApi response", slog.String("err", err.Error()), slog.String("rqID", rqId), slog.String("url", url))
		return fmt.Errorf("%w: %s", externalApi.ErrBadResponse, err)
	}

	return nil
}

func (a *FinnhubApi) GetQuote(ctx context.Context, symbol string) (model.ProviderQuote, error) {
	rqId := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("start FinnhubApi.GetQuote request", slog.String("rqID", rqId), slog.String("symbol", symbol))

	raw := finnhubModel.RawQuote{}
	if err := a.get(ctx, "/quote", map[string]string{"symbol": symbol}, &raw); err != nil {
		return model.ProviderQuote{}, err
	}

	if raw.Current == 0 && raw.Timestamp == 0 {
		return model.ProviderQuote{}, externalApi.ErrNotFound
	}

	quote := model.ProviderQuote{
		Symbol:        symbol,
		CurrentPrice:  raw.Current,
		High:          raw.High,
		Low:           raw.Low,
		Open:          raw.Open,
		PreviousClose: raw.PreviousClose,
	}
	if raw.Change != nil {
		quote.Change = *raw.Change
	}
	if raw.ChangePercent != nil {
		quote.DayChangePercent = *raw.ChangePercent
	}
	if raw.Timestamp > 0 {
		quote.Timestamp = time.Unix(raw.Timestamp, 0).UTC()
	}

	slog.Debug("FinnhubApi.GetQuote request complete", slog.String("rqID", rqId), slog.String("symbol", symbol))

	return quote, nil
}

func (a *FinnhubApi) GetProfile(ctx context.Context, symbol string) (model.Profile, error) {
	rqId := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("start FinnhubApi.GetProfile request", slog.String("rqID", rqId), slog.String("symbol", symbol))

	raw := finnhubModel.RawProfile{}
	if err := a.get(ctx, "/stock/profile2", map[string]string{"symbol": symbol}, &raw); err != nil {
		return model.Profile{}, err
	}

	if raw.Ticker == "" && raw.Name == "" {
		return model.Profile{}, externalApi.ErrNotFound
	}

	slog.Debug("FinnhubApi.GetProfile request complete", slog.String("rqID", rqId), slog.String("symbol", symbol))

	return model.Profile{
		Symbol:   symbol,
		Name:     raw.Name,
		Industry: raw.Industry,
		Exchange: raw.Exchange,
		Currency: raw.Currency,
		Country:  raw.Country,
		WebURL:   raw.WebURL,
	}, nil
}

func (a *FinnhubApi) GetCandles(ctx context.Context, symbol, resolution string, from, to time.Time) (model.Candles, error) {
	rqId := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("start FinnhubApi.GetCandles request", slog.String("rqID", rqId), slog.String("symbol", symbol))

	params := map[string]string{
		"symbol":     symbol,
		"resolution": resolution,
		"from":       strconv.FormatInt(from.Unix(), 10),
		"to":         strconv.FormatInt(to.Unix(), 10),
	}

	raw := finnhubModel.RawCandles{}
	if err := a.get(ctx, "/stock/candle", params, &raw); err != nil {
		return model.Candles{}, err
	}

	res, err := a.parseRawCandles(raw)
	if err != nil {
		slog.Error("can't parse raw candles", slog.String("err", err.Error()), slog.String("rqID", rqId))
		return model.Candles{}, err
	}
	res.Symbol = symbol
	res.Resolution = resolution

	slog.Debug("FinnhubApi.GetCandles request complete", slog.String("rqID", rqId), slog.String("symbol", symbol))

	return res, nil
}

func (a *FinnhubApi) parseRawCandles(raw finnhubModel.RawCandles) (model.Candles, error) {
	if raw.Status == "no_data" {
		return model.Candles{Candles: []model.Candle{}}, nil
	}
	if raw.Status != "ok" {
		return model.Candles{}, fmt.Errorf("%w: candle status %q", externalApi.ErrBadResponse, raw.Status)
	}

	n := len(raw.Time)
	if len(raw.Close) != n || len(raw.High) != n || len(raw.Low) != n || len(raw.Open) != n {
		return model.Candles{}, fmt.Errorf("%w: candle columns differ in length", externalApi.ErrBadResponse)
	}

	candles := make([]model.Candle, 0, n)
	for i := 0; i < n; i++ {
		c := model.Candle{
			Time:  time.Unix(raw.Time[i], 0).UTC(),
			Open:  raw.Open[i],
			High:  raw.High[i],
			Low:   raw.Low[i],
			Close: raw.Close[i],
		}
		if i < len(raw.Volume) {
			c.Volume = raw.Volume[i]
		}
		candles = append(candles, c)
	}

	return model.Candles{Candles: candles}, nil
}
