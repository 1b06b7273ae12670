package dividendService

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/data/kvstore"
	"github.com/SqueakyMcSqueeze/stocks-pwa/data/repository"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/calendar"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/service"
)

func newService(t *testing.T) (*DividendService, *repository.Repository) {
	t.Helper()
	repo := repository.New(kvstore.NewMemory())
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	return New(&config.Config{Timezone: "UTC"}, repo, clock), repo
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	first, err := svc.AddEvent(ctx, "aapl", calendar.MustParse("2024-03-01"), decimal.NewFromInt(50), "")
	if err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	if first.Symbol != "AAPL" || first.ID == "" {
		t.Errorf("AddEvent() = %+v", first)
	}
	_, _ = svc.AddEvent(ctx, "AAPL", calendar.MustParse("2024-03-20"), decimal.NewFromInt(20), "special")

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	last := summary.Actual[len(summary.Actual)-1]
	if last.Month != "2024-03" || !last.Amount.Equal(decimal.NewFromInt(70)) {
		t.Errorf("last actual bucket = %+v, want 2024-03 = 70", last)
	}

	events, _ := svc.ListEvents(ctx)
	if len(events) != 2 || events[0].Note != "special" {
		t.Errorf("ListEvents() = %+v", events)
	}

	if err = svc.DeleteEvent(ctx, first.ID); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
	if err = svc.DeleteEvent(ctx, first.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("DeleteEvent() twice error = %v", err)
	}
}

func TestAddEventValidation(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	on := calendar.MustParse("2024-03-01")

	cases := []struct {
		name   string
		symbol string
		on     calendar.Date
		amount decimal.Decimal
	}{
		{"empty symbol", " ", on, decimal.NewFromInt(1)},
		{"no date", "AAPL", calendar.Date{}, decimal.NewFromInt(1)},
		{"zero amount", "AAPL", on, decimal.Zero},
		{"negative amount", "AAPL", on, decimal.NewFromInt(-5)},
	}
	for _, tc := range cases {
		if _, err := svc.AddEvent(ctx, tc.symbol, tc.on, tc.amount, ""); !errors.Is(err, service.ErrInvalidInput) {
			t.Errorf("%s: error = %v, want ErrInvalidInput", tc.name, err)
		}
	}

	events, _ := repo.LoadDividendEvents(ctx)
	if len(events) != 0 {
		t.Errorf("rejected input wrote %d events", len(events))
	}
}

func TestSettingsForecast(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)

	_ = repo.SaveHoldings(ctx, []model.Holding{
		{ID: "1", Symbol: "O", Shares: decimal.NewFromInt(6)},
		{ID: "2", Symbol: "O", Shares: decimal.NewFromInt(4)},
	})

	setting := model.DividendSetting{
		AnnualPerShare: decimal.NewFromInt(12),
		Frequency:      model.Monthly,
		NextPayDate:    calendar.MustParse("2024-03-20"),
	}
	if _, err := svc.SaveSetting(ctx, "o", setting); err != nil {
		t.Fatalf("SaveSetting() error = %v", err)
	}

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if !summary.ForecastTotal.Equal(decimal.NewFromInt(120)) {
		t.Errorf("ForecastTotal = %s, want 120", summary.ForecastTotal)
	}
	if len(summary.Forecast) != 12 || summary.Forecast[0].Month != "2024-03" {
		t.Errorf("Forecast buckets = %+v", summary.Forecast)
	}

	if err = svc.DeleteSetting(ctx, "O"); err != nil {
		t.Fatalf("DeleteSetting() error = %v", err)
	}
	if err = svc.DeleteSetting(ctx, "O"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("DeleteSetting() twice error = %v", err)
	}
	summary, _ = svc.Summary(ctx)
	if !summary.ForecastTotal.IsZero() {
		t.Errorf("ForecastTotal after delete = %s", summary.ForecastTotal)
	}
}

func TestSaveSettingValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	valid := model.DividendSetting{
		AnnualPerShare: decimal.NewFromInt(1),
		Frequency:      model.Quarterly,
		NextPayDate:    calendar.MustParse("2024-04-01"),
	}

	noFreq := valid
	noFreq.Frequency = "Weekly"
	noAmount := valid
	noAmount.AnnualPerShare = decimal.Zero
	noDate := valid
	noDate.NextPayDate = calendar.Date{}

	for name, s := range map[string]model.DividendSetting{"frequency": noFreq, "amount": noAmount, "date": noDate} {
		if _, err := svc.SaveSetting(ctx, "KO", s); !errors.Is(err, service.ErrInvalidInput) {
			t.Errorf("%s: error = %v, want ErrInvalidInput", name, err)
		}
	}
	if _, err := svc.SaveSetting(ctx, "", valid); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("empty symbol: error = %v, want ErrInvalidInput", err)
	}
}
