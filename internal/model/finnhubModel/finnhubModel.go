package finnhubModel

// RawQuote is /quote. Change fields are null for symbols without a session.
type RawQuote struct {
	Current       float64  `json:"c"`
	Change        *float64 `json:"d"`
	ChangePercent *float64 `json:"dp"`
	High          float64  `json:"h"`
	Low           float64  `json:"l"`
	Open          float64  `json:"o"`
	PreviousClose float64  `json:"pc"`
	Timestamp     int64    `json:"t"`
}

// RawProfile is /stock/profile2. Unknown symbols answer an empty object.
type RawProfile struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Industry string `json:"finnhubIndustry"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
	Country  string `json:"country"`
	WebURL   string `json:"weburl"`
}

// RawCandles is /stock/candle, column oriented.
type RawCandles struct {
	Status string    `json:"s"`
	Close  []float64 `json:"c"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Open   []float64 `json:"o"`
	Time   []int64   `json:"t"`
	Volume []float64 `json:"v"`
}
