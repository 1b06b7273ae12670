package xslsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

const (
	HoldingsSheet  = "Holdings"
	HistorySheet   = "Price history"
	DividendsSheet = "Dividends"
)

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

func (g *XSLSXGenerator) Generate(ctx context.Context, report model.Report) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err = f.SetSheetName("Sheet1", HoldingsSheet); err != nil {
		return nil, "", err
	}
	if err = g.fillHoldings(f, report); err != nil {
		slog.Error("got error while filling holdings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if _, err = f.NewSheet(HistorySheet); err != nil {
		return nil, "", err
	}
	if err = g.fillHistory(f, report); err != nil {
		slog.Error("got error while filling price history", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if _, err = f.NewSheet(DividendsSheet); err != nil {
		return nil, "", err
	}
	if err = g.fillDividends(f, report.Dividends); err != nil {
		slog.Error("got error while filling dividends", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

// title writes a merged, filled header over [from, to] on row.
func (g *XSLSXGenerator) title(f *excelize.File, sheet, from, to, text, color string) error {
	if from != to {
		if err := f.MergeCell(sheet, from, to); err != nil {
			return err
		}
	}
	_ = f.SetCellStr(sheet, from, text)

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, from, from, styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}
	return nil
}

func (g *XSLSXGenerator) fillHoldings(f *excelize.File, report model.Report) error {
	sheet := HoldingsSheet

	if err := g.title(f, sheet, "A1", "G1", "Holdings on "+report.GeneratedAt.Format("2006-01-02 15:04"), "#cfe2f3"); err != nil {
		return err
	}

	_ = f.SetCellStr(sheet, "A2", "symbol")
	_ = f.SetCellStr(sheet, "B2", "name")
	_ = f.SetCellStr(sheet, "C2", "industry")
	_ = f.SetCellStr(sheet, "D2", "shares")
	_ = f.SetCellStr(sheet, "E2", "price")
	_ = f.SetCellStr(sheet, "F2", "day change %")
	_ = f.SetCellStr(sheet, "G2", "value")

	row := 3
	for _, p := range report.Snapshot.Positions {
		_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", row), p.Symbol)
		_ = f.SetCellStr(sheet, fmt.Sprintf("B%d", row), p.Name)
		_ = f.SetCellStr(sheet, fmt.Sprintf("C%d", row), p.Industry)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), p.Shares.InexactFloat64())
		if p.Quote.Available() {
			_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), p.Quote.Price)
			_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), p.Quote.ChangePercent)
			_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), p.Value.InexactFloat64())
		} else {
			_ = f.SetCellStr(sheet, fmt.Sprintf("E%d", row), "n/a")
		}
		row++
	}

	_ = f.SetCellStr(sheet, fmt.Sprintf("F%d", row), "total")
	_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), report.Snapshot.TotalValue.InexactFloat64())

	return nil
}

func (g *XSLSXGenerator) fillHistory(f *excelize.File, report model.Report) error {
	sheet := HistorySheet

	_ = f.SetCellStr(sheet, "A1", "date")
	for i, symbol := range report.HistorySymbols {
		cell, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return err
		}
		_ = f.SetCellStr(sheet, cell, symbol)
	}

	for r, date := range report.HistoryDates {
		row := r + 2
		_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", row), date)
		for i, symbol := range report.HistorySymbols {
			price, ok := report.History[symbol][date]
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+2, row)
			if err != nil {
				return err
			}
			_ = f.SetCellValue(sheet, cell, price)
		}
	}

	return nil
}

func (g *XSLSXGenerator) fillDividends(f *excelize.File, summary model.DividendSummary) error {
	sheet := DividendsSheet

	if err := g.title(f, sheet, "A1", "B1", "Received", "#d9ead3"); err != nil {
		return err
	}
	if err := g.title(f, sheet, "D1", "E1", "Forecast", "#f9cb9c"); err != nil {
		return err
	}

	_ = f.SetCellStr(sheet, "A2", "month")
	_ = f.SetCellStr(sheet, "B2", "amount")
	_ = f.SetCellStr(sheet, "D2", "month")
	_ = f.SetCellStr(sheet, "E2", "amount")

	for i, b := range summary.Actual {
		_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", i+3), b.Month)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", i+3), b.Amount.InexactFloat64())
	}
	for i, b := range summary.Forecast {
		_ = f.SetCellStr(sheet, fmt.Sprintf("D%d", i+3), b.Month)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", i+3), b.Amount.InexactFloat64())
	}

	row := max(len(summary.Actual), len(summary.Forecast)) + 3
	_ = f.SetCellStr(sheet, fmt.Sprintf("A%d", row), "total")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), summary.ActualTotal.InexactFloat64())
	_ = f.SetCellStr(sheet, fmt.Sprintf("D%d", row), "total")
	_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), summary.ForecastTotal.InexactFloat64())

	return nil
}
