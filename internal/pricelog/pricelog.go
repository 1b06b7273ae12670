// Package pricelog is the per-symbol daily price history: one price per
// (symbol, calendar day), last write of the day wins, days are never removed
// except by Reset.
package pricelog

import (
	"sort"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/calendar"
)

// Log maps symbol -> YYYY-MM-DD -> price. It is the persisted shape.
type Log map[string]map[string]float64

type Entry struct {
	Date  calendar.Date
	Price float64
}

func New() Log { return Log{} }

// RecordPrice writes or overwrites the entry for (symbol, on).
func (l Log) RecordPrice(symbol string, price float64, on calendar.Date) {
	days, ok := l[symbol]
	if !ok {
		days = make(map[string]float64)
		l[symbol] = days
	}
	days[on.String()] = price
}

// HasLoggedToday reports whether any of symbols already has an entry for today.
func (l Log) HasLoggedToday(symbols []string, today calendar.Date) bool {
	key := today.String()
	for _, s := range symbols {
		if _, ok := l[s][key]; ok {
			return true
		}
	}
	return false
}

// Reset removes every entry of every symbol.
func (l Log) Reset() {
	for s := range l {
		delete(l, s)
	}
}

// Entries returns the symbol's entries in ascending date order. Keys that do
// not parse as dates are skipped.
func (l Log) Entries(symbol string) []Entry {
	days := l[symbol]
	res := make([]Entry, 0, len(days))
	for key, price := range days {
		on, err := calendar.Parse(key)
		if err != nil {
			continue
		}
		res = append(res, Entry{Date: on, Price: price})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res
}

// Symbols returns the logged symbols sorted alphabetically.
func (l Log) Symbols() []string {
	res := make([]string, 0, len(l))
	for s := range l {
		res = append(res, s)
	}
	sort.Strings(res)
	return res
}

// Dates returns every logged day across all symbols, ascending and unique.
func (l Log) Dates() []string {
	seen := make(map[string]struct{})
	for _, days := range l {
		for key := range days {
			seen[key] = struct{}{}
		}
	}
	res := make([]string, 0, len(seen))
	for key := range seen {
		res = append(res, key)
	}
	sort.Strings(res)
	return res
}
