package main

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/data"
	"github.com/SqueakyMcSqueeze/stocks-pwa/data/repository"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/externalApi/finnhubApi"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/reportGenerator/xslsxGenerator"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/service/dividendService"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/service/portfolioService"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/service/reportService"
)

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "stocks",
		Short: "Personal portfolio tracker: quotes, daily price log, dividend forecast",
		Long: `Tracks stock holdings against live quotes, keeps one price per symbol per
day and forecasts dividend income over the next twelve months.

Without a subcommand the HTTP API, the scheduler and the Telegram bot start.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.MustLoad()
			setupLogger(cfg)
			slog.Debug("config", slog.Any("cfg", cfg))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	getCfg := func() *config.Config { return cfg }

	rootCmd.AddCommand(
		newServeCmd(getCfg),
		newExportCmd(getCfg),
		newResetHistoryCmd(getCfg),
		newSummaryCmd(getCfg),
	)

	return rootCmd
}

// app is the set of services every subcommand works with.
type app struct {
	clock     clockwork.Clock
	hasCloud  bool
	storage   *data.Storage
	provider  *finnhubApi.FinnhubApi
	portfolio *portfolioService.PortfolioService
	dividends *dividendService.DividendService
	reports   *reportService.ReportService
}

// newApp wires the storage backend and services. Google Drive is only used
// when a credentials file is configured.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	clock := clockwork.NewRealClock()

	var cloud reportService.CloudStorage
	if cfg.GoogleDrive.CredentialsFile != "" {
		cloud = googleDriveApi.New(ctx, cfg, clock)
	}

	storage, err := data.Open(ctx, cfg, clock)
	if err != nil {
		return nil, err
	}

	repo := repository.New(storage.Store)
	provider := finnhubApi.New(cfg)

	portfolio := portfolioService.New(cfg, repo, provider, storage.Profiles, clock)
	dividends := dividendService.New(cfg, repo, clock)
	reports := reportService.New(cfg, portfolio, dividends, xslsxGenerator.New(), cloud, clock)

	return &app{
		clock:     clock,
		hasCloud:  cloud != nil,
		storage:   storage,
		provider:  provider,
		portfolio: portfolio,
		dividends: dividends,
		reports:   reports,
	}, nil
}

func (a *app) Close() {
	a.storage.Close()
}
