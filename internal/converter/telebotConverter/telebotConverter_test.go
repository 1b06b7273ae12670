package telebotConverter

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/calendar"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model/tg/tgCallback"
)

func TestHoldingsResponse(t *testing.T) {
	if got := HoldingsResponse(model.PortfolioSnapshot{}); !strings.Contains(got, "/add") {
		t.Errorf("empty snapshot = %q", got)
	}

	snap := model.PortfolioSnapshot{
		Positions: []model.Position{
			{
				Holding: model.Holding{ID: "h1", Symbol: "AAPL", Name: "Apple", Shares: decimal.NewFromInt(10)},
				Quote:   model.Fetched(190, 1.5),
				Value:   decimal.NewFromInt(1900),
			},
			{
				Holding: model.Holding{ID: "h2", Symbol: "KO", Name: "Coca-Cola", Shares: decimal.NewFromInt(5)},
				Quote:   model.Unavailable(),
			},
		},
		TotalValue: decimal.NewFromInt(1900),
		DayChange:  decimal.RequireFromString("28.08"),
		Unpriced:   1,
	}

	got := HoldingsResponse(snap)
	for _, want := range []string{"AAPL (Apple)", "190.00 (+1.50%)", "Value: 1900.00", "KO (Coca-Cola)", "Price: n/a", "Total: 1900.00", "Day change: 28.08", "1 holding(s) without a quote"} {
		if !strings.Contains(got, want) {
			t.Errorf("HoldingsResponse() missing %q in\n%s", want, got)
		}
	}
}

func TestQuotesResponse(t *testing.T) {
	view := model.QuotesView{
		Quotes: model.QuoteCache{
			"MSFT": model.Fetched(400, -0.25),
			"AAPL": model.Unavailable(),
		},
		LastRefresh: time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC),
	}

	got := QuotesResponse(view, time.UTC)
	want := "🕒 Updated 2024-03-15 12:30\n\nAAPL: unavailable\nMSFT: 400.00 (-0.25%)"
	if got != want {
		t.Errorf("QuotesResponse() = %q, want %q", got, want)
	}
}

func TestRefreshResponse(t *testing.T) {
	if got := RefreshResponse(model.RefreshResult{Skipped: true, Reason: "fresh"}); !strings.Contains(got, "skipped: fresh") {
		t.Errorf("skipped = %q", got)
	}
	got := RefreshResponse(model.RefreshResult{Fetched: 2, Unavailable: 1, Logged: 2})
	if !strings.Contains(got, "Fetched 2, unavailable 1") || !strings.Contains(got, "2 symbol(s)") {
		t.Errorf("RefreshResponse() = %q", got)
	}
}

func TestIndustriesResponse(t *testing.T) {
	got := IndustriesResponse([]model.IndustryAllocation{
		{Industry: "Technology", Value: decimal.NewFromInt(1500), Weight: decimal.RequireFromString("0.75")},
		{Industry: "Unknown", Value: decimal.NewFromInt(500), Weight: decimal.RequireFromString("0.25")},
	})
	want := "🏭 Industries\n\nTechnology: 1500.00 (75.0%)\nUnknown: 500.00 (25.0%)"
	if got != want {
		t.Errorf("IndustriesResponse() = %q, want %q", got, want)
	}
}

func TestChartResponse(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	total := ChartResponse(model.Chart{
		Mode:  model.ChartTotal,
		Range: "ALL",
		Total: []model.Point{{Time: day(1), Value: 1500}, {Time: day(10), Value: 1600}},
	})
	if !strings.Contains(total, "Total: 1500.00 → 1600.00 (+6.67%), 2 days") {
		t.Errorf("total chart = %q", total)
	}

	overlay := ChartResponse(model.Chart{
		Mode:  model.ChartOverlay,
		Range: "30D",
		Series: map[string][]model.Point{
			"MSFT": {},
			"AAPL": {{Time: day(1), Value: 200}, {Time: day(2), Value: 150}},
		},
	})
	want := "📉 overlay, 30D\n\nAAPL: 200.00 → 150.00 (-25.00%), 2 days\nMSFT: no data"
	if overlay != want {
		t.Errorf("overlay chart = %q, want %q", overlay, want)
	}
}

func TestResetConfirmResponse(t *testing.T) {
	_, markup := ResetConfirmResponse()
	if len(markup.InlineKeyboard) != 1 || len(markup.InlineKeyboard[0]) != 2 {
		t.Fatalf("keyboard = %+v", markup.InlineKeyboard)
	}
	if got := markup.InlineKeyboard[0][0].Unique; got != tgCallback.ResetConfirm {
		t.Errorf("confirm button = %q", got)
	}
	if got := markup.InlineKeyboard[0][1].Unique; got != tgCallback.ResetCancel {
		t.Errorf("cancel button = %q", got)
	}
}

func TestDividendResponses(t *testing.T) {
	summary := model.DividendSummary{
		Actual:        []model.MonthBucket{{Month: "2024-02", Amount: decimal.Zero}, {Month: "2024-03", Amount: decimal.NewFromInt(70)}},
		Forecast:      []model.MonthBucket{{Month: "2024-04", Amount: decimal.RequireFromString("4.85")}},
		ActualTotal:   decimal.NewFromInt(70),
		ForecastTotal: decimal.RequireFromString("4.85"),
	}
	got := DividendSummaryResponse(summary)
	if strings.Contains(got, "2024-02") {
		t.Errorf("empty month listed in %q", got)
	}
	for _, want := range []string{"last 12 months: 70.00", "2024-03: 70.00", "next 12 months: 4.85", "2024-04: 4.85"} {
		if !strings.Contains(got, want) {
			t.Errorf("DividendSummaryResponse() missing %q in\n%s", want, got)
		}
	}

	events := DividendEventsResponse([]model.DividendEvent{
		{ID: "e1", Symbol: "KO", Date: calendar.MustParse("2024-04-01"), Amount: decimal.RequireFromString("48.5"), Note: "Q1"},
	})
	if events != "2024-04-01 KO 48.50 - Q1\n   ID: e1" {
		t.Errorf("DividendEventsResponse() = %q", events)
	}
}
