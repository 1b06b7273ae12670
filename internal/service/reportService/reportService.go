package reportService

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/calendar"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/pricelog"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

type Portfolio interface {
	Snapshot(ctx context.Context) (model.PortfolioSnapshot, error)
	PriceLog(ctx context.Context) (pricelog.Log, error)
}

type Dividends interface {
	Summary(ctx context.Context) (model.DividendSummary, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, report model.Report) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
	DeleteOldFiles(ctx context.Context) error
}

type ReportService struct {
	portfolio Portfolio
	dividends Dividends
	generator ReportGenerator
	cloud     CloudStorage
	fileLimit int
	clock     clockwork.Clock
	loc       *time.Location
}

// New builds the report service. cloud may be nil, then oversized reports
// are handed over as they are.
func New(cfg *config.Config, portfolio Portfolio, dividends Dividends, generator ReportGenerator, cloud CloudStorage, clock clockwork.Clock) *ReportService {
	return &ReportService{
		portfolio: portfolio,
		dividends: dividends,
		generator: generator,
		cloud:     cloud,
		fileLimit: cfg.Telegram.FileLimitInBytes,
		clock:     clock,
		loc:       cfg.Location(),
	}
}

// Build collects everything the report shows: the current snapshot, the full
// price log as a date x symbol matrix and the dividend buckets.
func (s *ReportService) Build(ctx context.Context) (model.Report, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ReportService.Build"

	snapshot, err := s.portfolio.Snapshot(ctx)
	if err != nil {
		slog.Error("got error from portfolio.Snapshot", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Report{}, err
	}
	log, err := s.portfolio.PriceLog(ctx)
	if err != nil {
		slog.Error("got error from portfolio.PriceLog", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Report{}, err
	}
	summary, err := s.dividends.Summary(ctx)
	if err != nil {
		slog.Error("got error from dividends.Summary", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Report{}, err
	}

	return model.Report{
		GeneratedAt:    s.clock.Now().In(s.loc),
		Snapshot:       snapshot,
		HistoryDates:   log.Dates(),
		HistorySymbols: log.Symbols(),
		History:        log,
		Dividends:      summary,
	}, nil
}

// Generate renders the report in memory.
func (s *ReportService) Generate(ctx context.Context) (model.ReportFile, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ReportService.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("Generate finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	report, err := s.Build(ctx)
	if err != nil {
		return model.ReportFile{}, err
	}

	data, ext, err := s.generator.Generate(ctx, report)
	if err != nil {
		slog.Error("got error from generator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.ReportFile{}, err
	}

	return model.ReportFile{
		Name: "portfolio-" + calendar.On(report.GeneratedAt, s.loc).String() + ext,
		Data: data,
	}, nil
}

// Export is Generate for chat delivery: a file over the chat size limit is
// uploaded to cloud storage and returned as a link instead.
func (s *ReportService) Export(ctx context.Context) (model.ReportFile, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ReportService.Export"

	file, err := s.Generate(ctx)
	if err != nil {
		return model.ReportFile{}, err
	}

	if s.cloud == nil || s.fileLimit <= 0 || len(file.Data) <= s.fileLimit {
		return file, nil
	}

	slog.Info("report exceeds file limit, uploading", slog.String("rqID", rqID), slog.String("op", op), slog.Int("size", len(file.Data)))

	link, err := s.cloud.UploadFile(ctx, bytes.NewReader(file.Data), file.Name)
	if err != nil {
		slog.Error("got error from cloud.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.ReportFile{}, err
	}

	return model.ReportFile{Name: file.Name, DownloadLink: link}, nil
}

// DeleteOldReports purges expired uploads; a no-op without cloud storage.
func (s *ReportService) DeleteOldReports(ctx context.Context) error {
	if s.cloud == nil {
		return nil
	}
	return s.cloud.DeleteOldFiles(ctx)
}
