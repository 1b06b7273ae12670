package rest

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/metrics"
)

type Server struct {
	app  *fiber.App
	addr string
}

func NewServer(cfg *config.Config, h *Handler) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "stocks-pwa",
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(RequestID())
	app.Use(metrics.Middleware("/metrics", "/health"))
	app.Use(Logger())

	setupRoutes(app, h)

	return &Server{app: app, addr: cfg.HTTP.Addr}
}

func setupRoutes(app *fiber.App, h *Handler) {
	app.Get("/health", h.Health)
	app.Get("/metrics", metrics.Handler())

	app.Get("/quote", h.GetQuote)
	app.Get("/profile", h.GetProfile)
	app.Get("/candle", h.GetCandles)

	api := app.Group("/api")

	api.Get("/holdings", h.ListHoldings)
	api.Post("/holdings", h.AddHolding)
	api.Patch("/holdings/:id", h.UpdateHolding)
	api.Delete("/holdings/:id", h.DeleteHolding)

	api.Get("/watchlist", h.ListWatchlist)
	api.Post("/watchlist", h.AddToWatchlist)
	api.Delete("/watchlist/:symbol", h.RemoveFromWatchlist)

	api.Get("/quotes", h.GetQuotes)
	api.Post("/quotes/refresh", h.RefreshQuotes)

	api.Get("/history/series", h.GetSeries)
	api.Get("/history/chart", h.GetChart)
	api.Delete("/history", h.ResetHistory)

	api.Get("/dividends/events", h.ListDividendEvents)
	api.Post("/dividends/events", h.AddDividendEvent)
	api.Delete("/dividends/events/:id", h.DeleteDividendEvent)
	api.Get("/dividends/settings", h.GetDividendSettings)
	api.Put("/dividends/settings/:symbol", h.SaveDividendSetting)
	api.Delete("/dividends/settings/:symbol", h.DeleteDividendSetting)
	api.Get("/dividends/summary", h.GetDividendSummary)

	api.Get("/portfolio/snapshot", h.GetSnapshot)
	api.Get("/portfolio/industries", h.GetIndustries)

	api.Get("/report", h.GetReport)
}

// App exposes the fiber app, e.g. for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() {
	go func() {
		slog.Info("http server started", slog.String("addr", s.addr))
		if err := s.app.Listen(s.addr); err != nil {
			slog.Error("http server stopped with error", slog.String("err", err.Error()))
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	slog.Info("start stopping http server")
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		slog.Error("http server shutdown error", slog.String("err", err.Error()))
	}
	slog.Info("http server stopped")
}
