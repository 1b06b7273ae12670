package telebotConverter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model/tg/tgCallback"
)

const HelpText = `📈 Portfolio tracker

/holdings - positions and value
/add SYMBOL SHARES - add a holding
/shares SYMBOL|ID SHARES - change share count
/del SYMBOL|ID - remove a holding
/watch SYMBOL, /unwatch SYMBOL - watchlist
/refresh - fetch quotes now
/quotes - last fetched quotes
/industries - allocation by industry
/chart [overlay|normalized|total] [30D|90D|180D|365D|ALL]
/reset - clear the price history
/dividends - actual and forecast by month
/div_events - recorded payments
/div_add SYMBOL YYYY-MM-DD AMOUNT [note]
/div_del ID
/div_set SYMBOL ANNUAL_PER_SHARE FREQUENCY NEXT_PAY_DATE
/div_unset SYMBOL
/report - spreadsheet export`

func HoldingsResponse(snap model.PortfolioSnapshot) string {
	if len(snap.Positions) == 0 {
		return "No holdings yet. Add one with /add SYMBOL SHARES"
	}

	var sb strings.Builder
	sb.WriteString("📊 Holdings\n\n")

	for i, p := range snap.Positions {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, p.Symbol, p.Name))
		sb.WriteString(fmt.Sprintf("   ▸ Shares: %s\n", p.Shares.String()))
		if p.Quote.Available() {
			sb.WriteString(fmt.Sprintf("   ▸ Price: %.2f (%+.2f%%)\n", p.Quote.Price, p.Quote.ChangePercent))
			sb.WriteString(fmt.Sprintf("   ▸ Value: %s\n", p.Value.StringFixed(2)))
		} else {
			sb.WriteString("   ▸ Price: n/a\n")
		}
		sb.WriteString(fmt.Sprintf("   ▸ ID: %s\n\n", p.ID))
	}

	sb.WriteString(fmt.Sprintf("💰 Total: %s\n", snap.TotalValue.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("📅 Day change: %s", snap.DayChange.StringFixed(2)))
	if snap.Unpriced > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠️ %d holding(s) without a quote", snap.Unpriced))
	}

	return sb.String()
}

func HoldingResponse(h model.Holding) string {
	return fmt.Sprintf("✅ %s (%s): %s shares\nID: %s", h.Symbol, h.Name, h.Shares.String(), h.ID)
}

func QuotesResponse(view model.QuotesView, loc *time.Location) string {
	if len(view.Quotes) == 0 {
		return "No quotes yet. Try /refresh"
	}

	symbols := make([]string, 0, len(view.Quotes))
	for s := range view.Quotes {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🕒 Updated %s\n\n", view.LastRefresh.In(loc).Format("2006-01-02 15:04")))
	for _, s := range symbols {
		q := view.Quotes[s]
		if !q.Available() {
			sb.WriteString(fmt.Sprintf("%s: unavailable\n", s))
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %.2f (%+.2f%%)\n", s, q.Price, q.ChangePercent))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func RefreshResponse(res model.RefreshResult) string {
	if res.Skipped {
		return fmt.Sprintf("⏭ Refresh skipped: %s", res.Reason)
	}
	text := fmt.Sprintf("🔄 Fetched %d, unavailable %d", res.Fetched, res.Unavailable)
	if res.Logged > 0 {
		text += fmt.Sprintf("\n📝 Logged today's price for %d symbol(s)", res.Logged)
	}
	return text
}

func IndustriesResponse(alloc []model.IndustryAllocation) string {
	if len(alloc) == 0 {
		return "Nothing is priced yet"
	}

	var sb strings.Builder
	sb.WriteString("🏭 Industries\n\n")
	for _, a := range alloc {
		sb.WriteString(fmt.Sprintf("%s: %s (%s%%)\n", a.Industry, a.Value.StringFixed(2), a.Weight.Shift(2).StringFixed(1)))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// ChartResponse describes each series by its first and last point, which is
// what fits into a chat message.
func ChartResponse(chart model.Chart) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📉 %s, %s\n\n", chart.Mode, chart.Range))

	if chart.Mode == model.ChartTotal {
		sb.WriteString(seriesLine("Total", chart.Total))
		return strings.TrimSuffix(sb.String(), "\n")
	}

	names := make([]string, 0, len(chart.Series))
	for name := range chart.Series {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sb.WriteString(seriesLine(name, chart.Series[name]))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func seriesLine(name string, points []model.Point) string {
	if len(points) == 0 {
		return fmt.Sprintf("%s: no data\n", name)
	}
	first, last := points[0], points[len(points)-1]
	line := fmt.Sprintf("%s: %.2f → %.2f", name, first.Value, last.Value)
	if first.Value != 0 {
		line += fmt.Sprintf(" (%+.2f%%)", (last.Value-first.Value)/first.Value*100)
	}
	return fmt.Sprintf("%s, %d days\n", line, len(points))
}

func ResetConfirmResponse() (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("🗑 Yes, clear it", tgCallback.ResetConfirm),
		markup.Data("Cancel", tgCallback.ResetCancel),
	))
	return "Clear the whole price history? This can't be undone.", markup
}

func DividendSummaryResponse(summary model.DividendSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("💵 Received, last 12 months: %s\n", summary.ActualTotal.StringFixed(2)))
	for _, b := range summary.Actual {
		if b.Amount.IsZero() {
			continue
		}
		sb.WriteString(fmt.Sprintf("   %s: %s\n", b.Month, b.Amount.StringFixed(2)))
	}

	sb.WriteString(fmt.Sprintf("\n🔮 Forecast, next 12 months: %s\n", summary.ForecastTotal.StringFixed(2)))
	for _, b := range summary.Forecast {
		if b.Amount.IsZero() {
			continue
		}
		sb.WriteString(fmt.Sprintf("   %s: %s\n", b.Month, b.Amount.StringFixed(2)))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func DividendEventsResponse(events []model.DividendEvent) string {
	if len(events) == 0 {
		return "No dividend payments recorded"
	}

	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(fmt.Sprintf("%s %s %s", e.Date, e.Symbol, e.Amount.StringFixed(2)))
		if e.Note != "" {
			sb.WriteString(" - " + e.Note)
		}
		sb.WriteString(fmt.Sprintf("\n   ID: %s\n", e.ID))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func DividendSettingResponse(symbol string, s model.DividendSetting) string {
	return fmt.Sprintf("✅ %s: %s per share a year, %s, next payment %s", symbol, s.AnnualPerShare.String(), s.Frequency, s.NextPayDate)
}

func ReportLinkResponse(file model.ReportFile) string {
	return fmt.Sprintf("📎 The report is too big to send, download it here:\n%s", file.DownloadLink)
}
