package finnhubApi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/externalApi"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model/finnhubModel"
)

func newTestApi(t *testing.T, token string, handler http.HandlerFunc) *FinnhubApi {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.Timeout = 5 * time.Second
	cfg.API.Finnhub.Url = srv.URL
	cfg.API.Finnhub.Token = token
	return New(cfg)
}

func TestGetQuote(t *testing.T) {
	api := newTestApi(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get(tokenHeader) != "secret" {
			t.Errorf("token header = %q", r.Header.Get(tokenHeader))
		}
		if r.URL.Query().Get("symbol") != "AAPL" {
			t.Errorf("symbol = %q", r.URL.Query().Get("symbol"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"c":190.5,"d":1.5,"dp":0.79,"h":191,"l":188,"o":189,"pc":189,"t":1704067200}`))
	})

	q, err := api.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote() error = %v", err)
	}
	if q.CurrentPrice != 190.5 || q.DayChangePercent != 0.79 || q.Change != 1.5 {
		t.Errorf("GetQuote() = %+v", q)
	}
	if !q.Timestamp.Equal(time.Unix(1704067200, 0)) {
		t.Errorf("Timestamp = %v", q.Timestamp)
	}
}

func TestGetQuoteUnknownSymbol(t *testing.T) {
	api := newTestApi(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"c":0,"d":null,"dp":null,"h":0,"l":0,"o":0,"pc":0,"t":0}`))
	})

	_, err := api.GetQuote(context.Background(), "NOPE")
	if !errors.Is(err, externalApi.ErrNotFound) {
		t.Errorf("GetQuote() error = %v, want ErrNotFound", err)
	}
}

func TestMissingToken(t *testing.T) {
	called := false
	api := newTestApi(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := api.GetQuote(context.Background(), "AAPL")
	if !errors.Is(err, externalApi.ErrNoCredentials) {
		t.Errorf("GetQuote() error = %v, want ErrNoCredentials", err)
	}
	if called {
		t.Error("upstream must not be called without a token")
	}
}

func TestUpstreamStatus(t *testing.T) {
	api := newTestApi(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"limit"}`))
	})

	_, err := api.GetProfile(context.Background(), "AAPL")
	var upErr *externalApi.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("GetProfile() error = %v, want UpstreamError", err)
	}
	if upErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d", upErr.StatusCode)
	}
}

func TestBadBody(t *testing.T) {
	api := newTestApi(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := api.GetQuote(context.Background(), "AAPL")
	if !errors.Is(err, externalApi.ErrBadResponse) {
		t.Errorf("GetQuote() error = %v, want ErrBadResponse", err)
	}
}

func TestGetProfile(t *testing.T) {
	api := newTestApi(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/profile2" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"ticker":"AAPL","name":"Apple Inc","finnhubIndustry":"Technology","currency":"USD"}`))
	})

	p, err := api.GetProfile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if p.Name != "Apple Inc" || p.Industry != "Technology" || p.Symbol != "AAPL" {
		t.Errorf("GetProfile() = %+v", p)
	}
}

func TestGetProfileEmpty(t *testing.T) {
	api := newTestApi(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	if _, err := api.GetProfile(context.Background(), "NOPE"); !errors.Is(err, externalApi.ErrNotFound) {
		t.Errorf("GetProfile() error = %v, want ErrNotFound", err)
	}
}

func TestGetCandles(t *testing.T) {
	api := newTestApi(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("resolution") != "D" || q.Get("from") != "1704067200" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(`{"s":"ok","c":[10,11],"h":[12,13],"l":[9,10],"o":[10,10.5],"t":[1704067200,1704153600],"v":[100,200]}`))
	})

	from := time.Unix(1704067200, 0)
	res, err := api.GetCandles(context.Background(), "AAPL", "D", from, from.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("GetCandles() error = %v", err)
	}
	if len(res.Candles) != 2 {
		t.Fatalf("len = %d, want 2", len(res.Candles))
	}
	if res.Candles[1].Close != 11 || res.Candles[1].Volume != 200 || res.Resolution != "D" {
		t.Errorf("GetCandles() = %+v", res)
	}
}

func TestGetCandlesNoData(t *testing.T) {
	api := newTestApi(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"s":"no_data"}`))
	})

	res, err := api.GetCandles(context.Background(), "AAPL", "W", time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("GetCandles() error = %v", err)
	}
	if len(res.Candles) != 0 {
		t.Errorf("len = %d, want 0", len(res.Candles))
	}
}

func TestParseRawCandlesMismatch(t *testing.T) {
	api := &FinnhubApi{}
	_, err := api.parseRawCandles(finnhubModel.RawCandles{
		Status: "ok",
		Close:  []float64{1, 2},
		High:   []float64{1},
		Low:    []float64{1, 2},
		Open:   []float64{1, 2},
		Time:   []int64{1, 2},
	})
	if !errors.Is(err, externalApi.ErrBadResponse) {
		t.Errorf("parseRawCandles() error = %v, want ErrBadResponse", err)
	}
}
