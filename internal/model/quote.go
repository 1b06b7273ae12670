package model

import "time"

type QuoteStatus string

const (
	QuoteFetched     QuoteStatus = "fetched"
	QuoteUnavailable QuoteStatus = "unavailable"
)

// Quote is the per-symbol outcome of the last refresh cycle. A symbol absent
// from the cache was never fetched.
type Quote struct {
	Status        QuoteStatus `json:"status"`
	Price         float64     `json:"price,omitempty"`
	ChangePercent float64     `json:"changePercent,omitempty"`
}

func Fetched(price, changePercent float64) Quote {
	return Quote{Status: QuoteFetched, Price: price, ChangePercent: changePercent}
}

func Unavailable() Quote {
	return Quote{Status: QuoteUnavailable}
}

func (q Quote) Available() bool { return q.Status == QuoteFetched }

// QuoteCache maps symbol to its last refresh outcome.
type QuoteCache map[string]Quote

type QuotesView struct {
	Quotes      QuoteCache `json:"quotes"`
	LastRefresh time.Time  `json:"lastRefresh"`
}

// ProviderQuote is the upstream quote payload.
type ProviderQuote struct {
	Symbol           string    `json:"symbol"`
	CurrentPrice     float64   `json:"currentPrice"`
	Change           float64   `json:"change"`
	DayChangePercent float64   `json:"dayChangePercent"`
	High             float64   `json:"high"`
	Low              float64   `json:"low"`
	Open             float64   `json:"open"`
	PreviousClose    float64   `json:"previousClose"`
	Timestamp        time.Time `json:"timestamp"`
}

type Profile struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Exchange string `json:"exchange,omitempty"`
	Currency string `json:"currency,omitempty"`
	Country  string `json:"country,omitempty"`
	WebURL   string `json:"webUrl,omitempty"`
}

type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

type Candles struct {
	Symbol     string   `json:"symbol"`
	Resolution string   `json:"resolution"`
	Candles    []Candle `json:"candles"`
}

type RefreshResult struct {
	Skipped     bool      `json:"skipped"`
	Reason      string    `json:"reason,omitempty"`
	Fetched     int       `json:"fetched"`
	Unavailable int       `json:"unavailable"`
	Logged      int       `json:"logged"`
	RefreshedAt time.Time `json:"refreshedAt,omitempty"`
}
