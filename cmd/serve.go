package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/data/session"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/scheduler"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/tgbot"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/transport/rest"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/transport/telegram"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(getCfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the quote scheduler and the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), getCfg())
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	sched := scheduler.New(a.clock, cfg.Location())
	sched.NewIntervalJob("refresh quotes", a.portfolio.RefreshJob, cfg.Quotes.RefreshInterval, true)
	sched.NewCrontabJob("daily price log", a.portfolio.DailyLogJob, cfg.Quotes.DailyLogCrontab, false)
	if a.hasCloud {
		sched.NewIntervalJob("delete old reports", a.reports.DeleteOldReports, cfg.GoogleDrive.CleanupInterval, false)
	}
	sched.Start()
	defer sched.Stop()

	server := rest.NewServer(cfg, rest.NewHandler(a.provider, a.portfolio, a.dividends, a.reports, a.clock))
	server.Start()
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stopCancel()
		server.Stop(stopCtx)
	}()

	if cfg.Telegram.Token != "" {
		sessions := session.New(a.storage.Store, cfg.Telegram.ConfirmTimeout, a.clock)
		tgController := telegram.NewController(a.portfolio, a.dividends, a.reports, sessions, cfg.Location())

		tgBot, err := tgbot.New(cfg, tgController, sessions, a.clock)
		if err != nil {
			return err
		}
		tgBot.Start()
		defer tgBot.Stop()
	} else {
		slog.Info("TELEGRAM_TOKEN is empty, bot disabled")
	}

	if cfg.API.Finnhub.Token == "" {
		slog.Warn("FINNHUB_API_KEY is empty, quotes can't be fetched")
	}

	// Waiting interruption signal
	<-ctx.Done()
	slog.Info("shutting down")

	return nil
}
