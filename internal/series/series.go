// Package series derives chart-ready time series from the daily price log.
package series

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/pricelog"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrUnknownRange        = errors.New("unknown range preset")
	ErrUnknownMode         = errors.New("unknown chart mode")
)

// minPoints is the smallest series worth drawing.
const minPoints = 2

// Range is a lookback preset. Days == 0 keeps everything.
type Range struct {
	Name string
	Days int
}

var (
	Range30D  = Range{"30D", 30}
	Range90D  = Range{"90D", 90}
	Range180D = Range{"180D", 180}
	Range365D = Range{"365D", 365}
	RangeAll  = Range{"ALL", 0}
)

var Ranges = []Range{Range30D, Range90D, Range180D, Range365D, RangeAll}

// ParseRange accepts the preset names case-insensitively; empty means ALL.
func ParseRange(s string) (Range, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return RangeAll, nil
	}
	for _, r := range Ranges {
		if r.Name == s {
			return r, nil
		}
	}
	return Range{}, fmt.Errorf("%w: %q", ErrUnknownRange, s)
}

func ParseMode(s string) (model.ChartMode, error) {
	switch m := model.ChartMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return model.ChartOverlay, nil
	case model.ChartOverlay, model.ChartNormalized, model.ChartTotal:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (r Range) keeps(t, now time.Time) bool {
	if r.Days == 0 {
		return true
	}
	return !t.Before(now.AddDate(0, 0, -r.Days))
}

// For returns the symbol's logged prices at local midnight, ascending, within r.
// Missing days are simply absent.
func For(log pricelog.Log, symbol string, r Range, now time.Time, loc *time.Location) []model.Point {
	entries := log.Entries(symbol)
	res := make([]model.Point, 0, len(entries))
	for _, e := range entries {
		ts := e.Date.Midnight(loc)
		if !r.keeps(ts, now.In(ts.Location())) {
			continue
		}
		res = append(res, model.Point{Time: ts, Value: e.Price})
	}
	return res
}

// Overlay returns the raw series of every symbol. At least one symbol needs
// two points in range.
func Overlay(log pricelog.Log, symbols []string, r Range, now time.Time, loc *time.Location) (map[string][]model.Point, error) {
	res := make(map[string][]model.Point, len(symbols))
	enough := false
	for _, s := range symbols {
		points := For(log, s, r, now, loc)
		if len(points) >= minPoints {
			enough = true
		}
		res[s] = points
	}
	if !enough {
		return nil, ErrInsufficientHistory
	}
	return res, nil
}

// Normalize rescales points so the first one is 100. It reports false when
// the series is too short or starts at zero.
func Normalize(points []model.Point) ([]model.Point, bool) {
	if len(points) < minPoints || points[0].Value == 0 {
		return nil, false
	}
	base := points[0].Value
	res := make([]model.Point, len(points))
	for i, p := range points {
		res[i] = model.Point{Time: p.Time, Value: p.Value / base * 100}
	}
	res[0].Value = 100
	return res, true
}

// Normalized returns the rebased series of the symbols that can be rebased;
// the others are left out rather than drawn flat.
func Normalized(log pricelog.Log, symbols []string, r Range, now time.Time, loc *time.Location) (map[string][]model.Point, error) {
	res := make(map[string][]model.Point, len(symbols))
	for _, s := range symbols {
		if points, ok := Normalize(For(log, s, r, now, loc)); ok {
			res[s] = points
		}
	}
	if len(res) == 0 {
		return nil, ErrInsufficientHistory
	}
	return res, nil
}

// Total sums price x shares per timestamp over the union of the held symbols'
// timestamps. A symbol without a sample at a timestamp contributes nothing
// there; its last price is not carried forward.
func Total(log pricelog.Log, shares map[string]decimal.Decimal, r Range, now time.Time, loc *time.Location) ([]model.Point, error) {
	symbols := make([]string, 0, len(shares))
	for s := range shares {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	sums := make(map[int64]float64)
	times := make(map[int64]time.Time)
	for _, s := range symbols {
		qty := shares[s].InexactFloat64()
		for _, p := range For(log, s, r, now, loc) {
			k := p.Time.UnixNano()
			times[k] = p.Time
			sums[k] += p.Value * qty
		}
	}

	if len(sums) < minPoints {
		return nil, ErrInsufficientHistory
	}

	res := make([]model.Point, 0, len(sums))
	for k, v := range sums {
		res = append(res, model.Point{Time: times[k], Value: v})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Time.Before(res[j].Time) })
	return res, nil
}
