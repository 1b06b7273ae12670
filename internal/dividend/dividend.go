// Package dividend buckets received dividends by month and projects the
// recurring ones forward from each symbol's frequency and next pay date.
package dividend

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/calendar"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
)

// Months is the number of buckets on both sides of today.
const Months = 12

// MonthlyActual sums events per calendar month over the 12 months ending with
// today's month. Events before the window are ignored, as are dated events
// beyond the current month.
func MonthlyActual(events []model.DividendEvent, today calendar.Date) []model.MonthBucket {
	start := today.FirstOfMonth().AddMonths(-(Months - 1))
	buckets, index := newBuckets(start)

	for _, e := range events {
		if e.Date.Before(start) {
			continue
		}
		if i, ok := index[e.Date.MonthKey()]; ok {
			buckets[i].Amount = buckets[i].Amount.Add(e.Amount)
		}
	}
	return buckets
}

// MonthlyForecast projects payments over [today, today+12 months) into the 12
// buckets starting with today's month. Symbols without shares project nothing.
func MonthlyForecast(settings model.DividendSettings, shares map[string]decimal.Decimal, today calendar.Date) []model.MonthBucket {
	buckets, index := newBuckets(today)
	end := today.AddMonths(Months)

	symbols := make([]string, 0, len(settings))
	for s := range settings {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		setting := settings[symbol]
		qty := shares[symbol]
		if qty.IsZero() {
			continue
		}
		amount := qty.Mul(PerPayment(setting))
		for _, on := range Occurrences(setting, today, end) {
			if i, ok := index[on.MonthKey()]; ok {
				buckets[i].Amount = buckets[i].Amount.Add(amount)
			}
		}
	}
	return buckets
}

// PerPayment is the per-share amount of one payment.
func PerPayment(setting model.DividendSetting) decimal.Decimal {
	n := setting.Frequency.PaymentsPerYear()
	if n == 0 {
		return decimal.Zero
	}
	return setting.AnnualPerShare.Div(decimal.NewFromInt(int64(n)))
}

// Occurrences lists pay dates in [from, until). A next pay date in the past is
// rolled forward by whole periods to the first one on or after from; skipped
// periods produce nothing.
func Occurrences(setting model.DividendSetting, from, until calendar.Date) []calendar.Date {
	step := setting.Frequency.MonthStep()
	if step == 0 || setting.NextPayDate.IsZero() {
		return nil
	}

	on := setting.NextPayDate
	for on.Before(from) {
		on = on.AddMonths(step)
	}

	var res []calendar.Date
	for on.Before(until) {
		res = append(res, on)
		on = on.AddMonths(step)
	}
	return res
}

// Total sums the buckets.
func Total(buckets []model.MonthBucket) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range buckets {
		sum = sum.Add(b.Amount)
	}
	return sum
}

// Summarize builds both breakdowns and their totals.
func Summarize(events []model.DividendEvent, settings model.DividendSettings, shares map[string]decimal.Decimal, today calendar.Date) model.DividendSummary {
	actual := MonthlyActual(events, today)
	forecast := MonthlyForecast(settings, shares, today)
	return model.DividendSummary{
		Actual:        actual,
		Forecast:      forecast,
		ActualTotal:   Total(actual),
		ForecastTotal: Total(forecast),
	}
}

func newBuckets(from calendar.Date) ([]model.MonthBucket, map[string]int) {
	keys := calendar.MonthKeys(from, Months)
	buckets := make([]model.MonthBucket, len(keys))
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		buckets[i] = model.MonthBucket{Month: k, Amount: decimal.Zero}
		index[k] = i
	}
	return buckets, index
}
