package xslsxGenerator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
)

func TestGenerate(t *testing.T) {
	report := model.Report{
		GeneratedAt: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		Snapshot: model.PortfolioSnapshot{
			Positions: []model.Position{
				{
					Holding:   model.Holding{ID: "1", Symbol: "AAPL", Name: "Apple", Shares: decimal.NewFromInt(10)},
					Quote:     model.Fetched(190, 1.2),
					Value:     decimal.NewFromInt(1900),
					DayChange: decimal.NewFromFloat(22.5),
				},
				{
					Holding: model.Holding{ID: "2", Symbol: "XYZ", Name: "Gone", Shares: decimal.NewFromInt(1)},
					Quote:   model.Unavailable(),
				},
			},
			TotalValue: decimal.NewFromInt(1900),
			Unpriced:   1,
		},
		HistoryDates:   []string{"2024-05-09", "2024-05-10"},
		HistorySymbols: []string{"AAPL"},
		History:        map[string]map[string]float64{"AAPL": {"2024-05-09": 188, "2024-05-10": 190}},
		Dividends: model.DividendSummary{
			Actual:      []model.MonthBucket{{Month: "2024-05", Amount: decimal.NewFromInt(5)}},
			Forecast:    []model.MonthBucket{{Month: "2024-05", Amount: decimal.NewFromInt(7)}},
			ActualTotal: decimal.NewFromInt(5),
		},
	}

	data, ext, err := New().Generate(context.Background(), report)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if ext != ".xlsx" {
		t.Errorf("ext = %q", ext)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != HoldingsSheet || sheets[1] != HistorySheet || sheets[2] != DividendsSheet {
		t.Errorf("sheets = %v", sheets)
	}

	cells := map[[2]string]string{
		{HoldingsSheet, "A3"}:  "AAPL",
		{HoldingsSheet, "E4"}:  "n/a",
		{HoldingsSheet, "G5"}:  "1900",
		{HistorySheet, "B1"}:   "AAPL",
		{HistorySheet, "B3"}:   "190",
		{DividendsSheet, "E3"}: "7",
	}
	for at, want := range cells {
		got, err := f.GetCellValue(at[0], at[1])
		if err != nil {
			t.Fatalf("GetCellValue(%s!%s) error = %v", at[0], at[1], err)
		}
		if got != want {
			t.Errorf("%s!%s = %q, want %q", at[0], at[1], got, want)
		}
	}
}

func TestGenerateEmpty(t *testing.T) {
	if _, _, err := New().Generate(context.Background(), model.Report{}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
}
