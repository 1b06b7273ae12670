package dividend

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/calendar"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
)

func d(s string) calendar.Date { return calendar.MustParse(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func bucket(t *testing.T, buckets []model.MonthBucket, month string) decimal.Decimal {
	t.Helper()
	for _, b := range buckets {
		if b.Month == month {
			return b.Amount
		}
	}
	t.Fatalf("no bucket %s", month)
	return decimal.Zero
}

func TestMonthlyActual(t *testing.T) {
	events := []model.DividendEvent{
		{Symbol: "AAPL", Date: d("2024-03-01"), Amount: dec("50")},
		{Symbol: "AAPL", Date: d("2024-03-20"), Amount: dec("20")},
		{Symbol: "MSFT", Date: d("2023-07-01"), Amount: dec("5")},
		{Symbol: "MSFT", Date: d("2023-06-30"), Amount: dec("1000")},
		{Symbol: "MSFT", Date: d("2024-07-01"), Amount: dec("1000")},
	}

	got := MonthlyActual(events, d("2024-06-10"))
	if len(got) != Months {
		t.Fatalf("len = %d, want %d", len(got), Months)
	}
	if got[0].Month != "2023-07" || got[11].Month != "2024-06" {
		t.Errorf("window = %s..%s, want 2023-07..2024-06", got[0].Month, got[11].Month)
	}
	if a := bucket(t, got, "2024-03"); !a.Equal(dec("70")) {
		t.Errorf("2024-03 = %s, want 70", a)
	}
	if a := bucket(t, got, "2023-07"); !a.Equal(dec("5")) {
		t.Errorf("2023-07 = %s, want 5", a)
	}
	if total := Total(got); !total.Equal(dec("75")) {
		t.Errorf("Total = %s, want 75", total)
	}
}

func TestMonthlyActualEmpty(t *testing.T) {
	got := MonthlyActual(nil, d("2024-01-15"))
	if len(got) != Months {
		t.Fatalf("len = %d, want %d", len(got), Months)
	}
	for _, b := range got {
		if !b.Amount.IsZero() {
			t.Errorf("%s = %s, want 0", b.Month, b.Amount)
		}
	}
}

func TestMonthlyForecastMonthly(t *testing.T) {
	settings := model.DividendSettings{
		"AAPL": {AnnualPerShare: dec("12"), Frequency: model.Monthly, NextPayDate: d("2024-06-15")},
	}
	shares := map[string]decimal.Decimal{"AAPL": dec("10")}

	got := MonthlyForecast(settings, shares, d("2024-06-10"))
	if got[0].Month != "2024-06" || got[11].Month != "2025-05" {
		t.Errorf("window = %s..%s", got[0].Month, got[11].Month)
	}
	for _, b := range got {
		if !b.Amount.Equal(dec("10")) {
			t.Errorf("%s = %s, want 10", b.Month, b.Amount)
		}
	}
	if total := Total(got); !total.Equal(dec("120")) {
		t.Errorf("Total = %s, want 120", total)
	}
}

func TestMonthlyForecastRollsStaleDateForward(t *testing.T) {
	settings := model.DividendSettings{
		"KO": {AnnualPerShare: dec("4"), Frequency: model.Quarterly, NextPayDate: d("2023-01-31")},
	}
	shares := map[string]decimal.Decimal{"KO": dec("5")}

	got := MonthlyForecast(settings, shares, d("2024-06-10"))
	for _, m := range []string{"2024-07", "2024-10", "2025-01", "2025-04"} {
		if a := bucket(t, got, m); !a.Equal(dec("5")) {
			t.Errorf("%s = %s, want 5", m, a)
		}
	}
	if total := Total(got); !total.Equal(dec("20")) {
		t.Errorf("Total = %s, want 20 (no payments for skipped periods)", total)
	}
}

func TestMonthlyForecastSkips(t *testing.T) {
	today := d("2024-06-10")
	settings := model.DividendSettings{
		"SOLD":  {AnnualPerShare: dec("10"), Frequency: model.Monthly, NextPayDate: d("2024-06-20")},
		"EDGE":  {AnnualPerShare: dec("10"), Frequency: model.Annual, NextPayDate: d("2025-06-05")},
		"LATER": {AnnualPerShare: dec("10"), Frequency: model.Annual, NextPayDate: d("2025-06-20")},
	}
	shares := map[string]decimal.Decimal{"EDGE": dec("1"), "LATER": dec("1")}

	if total := Total(MonthlyForecast(settings, shares, today)); !total.IsZero() {
		t.Errorf("Total = %s, want 0", total)
	}
}

func TestOccurrencesClampEachStep(t *testing.T) {
	setting := model.DividendSetting{AnnualPerShare: dec("12"), Frequency: model.Monthly, NextPayDate: d("2024-01-31")}
	got := Occurrences(setting, d("2024-01-01"), d("2024-04-01"))
	want := []string{"2024-01-31", "2024-02-29", "2024-03-29"}
	if len(got) != len(want) {
		t.Fatalf("Occurrences() = %v", got)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("occurrence %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPerPayment(t *testing.T) {
	tests := []struct {
		freq model.Frequency
		want string
	}{
		{model.Monthly, "1"},
		{model.Quarterly, "3"},
		{model.SemiAnnual, "6"},
		{model.Annual, "12"},
		{model.Frequency("Weekly"), "0"},
	}
	for _, tt := range tests {
		got := PerPayment(model.DividendSetting{AnnualPerShare: dec("12"), Frequency: tt.freq})
		if !got.Equal(dec(tt.want)) {
			t.Errorf("PerPayment(%s) = %s, want %s", tt.freq, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	today := d("2024-06-10")
	events := []model.DividendEvent{{Symbol: "AAPL", Date: d("2024-05-01"), Amount: dec("7.5")}}
	settings := model.DividendSettings{
		"AAPL": {AnnualPerShare: dec("1"), Frequency: model.Annual, NextPayDate: d("2024-08-01")},
	}
	shares := map[string]decimal.Decimal{"AAPL": dec("3")}

	s := Summarize(events, settings, shares, today)
	if !s.ActualTotal.Equal(dec("7.5")) {
		t.Errorf("ActualTotal = %s", s.ActualTotal)
	}
	if !s.ForecastTotal.Equal(dec("3")) {
		t.Errorf("ForecastTotal = %s", s.ForecastTotal)
	}
}
