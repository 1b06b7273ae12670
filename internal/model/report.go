package model

import "time"

type Report struct {
	GeneratedAt time.Time
	Snapshot    PortfolioSnapshot
	// History rows are dates, columns are symbols.
	HistoryDates   []string
	HistorySymbols []string
	History        map[string]map[string]float64
	Dividends      DividendSummary
}

// ReportFile is a generated report. When the file was too big to hand over
// directly, Data is empty and DownloadLink points to the uploaded copy.
type ReportFile struct {
	Name         string
	Data         []byte
	DownloadLink string
}
