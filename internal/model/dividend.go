package model

import (
	"fmt"
	"strings"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/calendar"
	"github.com/shopspring/decimal"
)

type Frequency string

const (
	Monthly    Frequency = "Monthly"
	Quarterly  Frequency = "Quarterly"
	SemiAnnual Frequency = "Semi-Annual"
	Annual     Frequency = "Annual"
)

// ParseFrequency accepts the canonical names case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly":
		return Monthly, nil
	case "quarterly":
		return Quarterly, nil
	case "semi-annual", "semiannual", "semi_annual":
		return SemiAnnual, nil
	case "annual", "yearly":
		return Annual, nil
	}
	return "", fmt.Errorf("unknown dividend frequency %q", s)
}

// PaymentsPerYear is 12, 4, 2 or 1; zero for an unknown frequency.
func (f Frequency) PaymentsPerYear() int {
	switch f {
	case Monthly:
		return 12
	case Quarterly:
		return 4
	case SemiAnnual:
		return 2
	case Annual:
		return 1
	}
	return 0
}

// MonthStep is the number of months between two payments.
func (f Frequency) MonthStep() int {
	if n := f.PaymentsPerYear(); n > 0 {
		return 12 / n
	}
	return 0
}

type DividendEvent struct {
	ID     string          `json:"id"`
	Symbol string          `json:"symbol"`
	Date   calendar.Date   `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

type DividendSetting struct {
	AnnualPerShare decimal.Decimal `json:"annualPerShare"`
	Frequency      Frequency       `json:"frequency"`
	NextPayDate    calendar.Date   `json:"nextPayDate"`
}

// DividendSettings is keyed by symbol.
type DividendSettings map[string]DividendSetting

type MonthBucket struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type DividendSummary struct {
	Actual        []MonthBucket   `json:"actual"`
	Forecast      []MonthBucket   `json:"forecast"`
	ActualTotal   decimal.Decimal `json:"actualTotal"`
	ForecastTotal decimal.Decimal `json:"forecastTotal"`
}
