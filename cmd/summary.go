package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

func newSummaryCmd(getCfg func() *config.Config) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print holdings, industry split and dividend totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := utils.WithRequestID(cmd.Context(), "")

			a, err := newApp(ctx, getCfg())
			if err != nil {
				return err
			}
			defer a.Close()

			if refresh {
				if _, err = a.portfolio.RefreshQuotes(ctx, true); err != nil {
					return err
				}
			}

			snap, err := a.portfolio.Snapshot(ctx)
			if err != nil {
				return err
			}
			alloc, err := a.portfolio.Industries(ctx)
			if err != nil {
				return err
			}
			div, err := a.dividends.Summary(ctx)
			if err != nil {
				return err
			}

			renderSummary(cmd.OutOrStdout(), snap, alloc, div)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch quotes before printing")

	return cmd
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	return tw
}

func renderSummary(w io.Writer, snap model.PortfolioSnapshot, alloc []model.IndustryAllocation, div model.DividendSummary) {
	holdings := newTable(w)
	holdings.SetTitle("Holdings")
	holdings.AppendHeader(table.Row{"Symbol", "Name", "Shares", "Price", "Day %", "Value"})
	for _, p := range snap.Positions {
		price, pct, value := "n/a", "n/a", "n/a"
		if p.Quote.Available() {
			price = fmt.Sprintf("%.2f", p.Quote.Price)
			pct = fmt.Sprintf("%+.2f", p.Quote.ChangePercent)
			value = p.Value.StringFixed(2)
		}
		holdings.AppendRow(table.Row{p.Symbol, p.Name, p.Shares.String(), price, pct, value})
	}
	holdings.AppendFooter(table.Row{"", "", "", "", "Total", snap.TotalValue.StringFixed(2)})
	holdings.AppendFooter(table.Row{"", "", "", "", "Day", snap.DayChange.StringFixed(2)})
	holdings.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	holdings.Render()

	if len(alloc) > 0 {
		industries := newTable(w)
		industries.SetTitle("Industries")
		industries.AppendHeader(table.Row{"Industry", "Value", "Weight %"})
		for _, a := range alloc {
			industries.AppendRow(table.Row{a.Industry, a.Value.StringFixed(2), a.Weight.Shift(2).StringFixed(1)})
		}
		industries.Render()
	}

	dividends := newTable(w)
	dividends.SetTitle("Dividends")
	dividends.AppendHeader(table.Row{"", "12 months"})
	dividends.AppendRow(table.Row{"Received", div.ActualTotal.StringFixed(2)})
	dividends.AppendRow(table.Row{"Forecast", div.ForecastTotal.StringFixed(2)})
	dividends.Render()
}
