package rest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/calendar"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/externalApi/finnhubApi"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/service"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/service/portfolioService"
)

type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (model.ProviderQuote, error)
	GetCandles(ctx context.Context, symbol, resolution string, from, to time.Time) (model.Candles, error)
}

type PortfolioService interface {
	ListHoldings(ctx context.Context) ([]model.Holding, error)
	AddHolding(ctx context.Context, symbol, name string, shares decimal.Decimal) (model.Holding, error)
	UpdateShares(ctx context.Context, id string, shares decimal.Decimal) (model.Holding, error)
	DeleteHolding(ctx context.Context, id string) error
	ListWatchlist(ctx context.Context) ([]string, error)
	AddToWatchlist(ctx context.Context, symbol string) ([]string, error)
	RemoveFromWatchlist(ctx context.Context, symbol string) ([]string, error)
	Profile(ctx context.Context, symbol string) (model.Profile, error)
	Quotes(ctx context.Context) (model.QuotesView, error)
	RefreshQuotes(ctx context.Context, force bool) (model.RefreshResult, error)
	ResetPriceHistory(ctx context.Context, confirmed bool) error
	Series(ctx context.Context, symbol, rangeName string) ([]model.Point, error)
	Chart(ctx context.Context, modeName, rangeName string) (model.Chart, error)
	Snapshot(ctx context.Context) (model.PortfolioSnapshot, error)
	Industries(ctx context.Context) ([]model.IndustryAllocation, error)
}

type DividendService interface {
	ListEvents(ctx context.Context) ([]model.DividendEvent, error)
	AddEvent(ctx context.Context, symbol string, on calendar.Date, amount decimal.Decimal, note string) (model.DividendEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	Settings(ctx context.Context) (model.DividendSettings, error)
	SaveSetting(ctx context.Context, symbol string, setting model.DividendSetting) (model.DividendSetting, error)
	DeleteSetting(ctx context.Context, symbol string) error
	Summary(ctx context.Context) (model.DividendSummary, error)
}

type ReportService interface {
	Generate(ctx context.Context) (model.ReportFile, error)
}

type Handler struct {
	provider  QuoteProvider
	portfolio PortfolioService
	dividends DividendService
	reports   ReportService
	clock     clockwork.Clock
}

func NewHandler(provider QuoteProvider, portfolio PortfolioService, dividends DividendService, reports ReportService, clock clockwork.Clock) *Handler {
	return &Handler{
		provider:  provider,
		portfolio: portfolio,
		dividends: dividends,
		reports:   reports,
		clock:     clock,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", service.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func requiredSymbol(c *fiber.Ctx) (string, error) {
	symbol := model.NormalizeSymbol(c.Query("symbol"))
	if symbol == "" {
		return "", invalid("symbol query parameter is required")
	}
	return symbol, nil
}

// GetQuote proxies the provider quote.
// GET /quote?symbol=AAPL
func (h *Handler) GetQuote(c *fiber.Ctx) error {
	symbol, err := requiredSymbol(c)
	if err != nil {
		return err
	}

	quote, err := h.provider.GetQuote(c.UserContext(), symbol)
	if err != nil {
		return proxyError(err)
	}
	return c.JSON(quote)
}

// GetProfile proxies the provider company profile through the profile cache.
// GET /profile?symbol=AAPL
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	symbol, err := requiredSymbol(c)
	if err != nil {
		return err
	}

	profile, err := h.portfolio.Profile(c.UserContext(), symbol)
	if err != nil {
		return proxyError(err)
	}
	return c.JSON(profile)
}

// GetCandles proxies daily or coarser candles. from and to are unix seconds;
// the default window is the last year.
// GET /candle?symbol=AAPL&resolution=D&from=1704067200&to=1706745600
func (h *Handler) GetCandles(c *fiber.Ctx) error {
	symbol, err := requiredSymbol(c)
	if err != nil {
		return err
	}

	resolution := strings.ToUpper(c.Query("resolution", "D"))
	if !finnhubApi.Resolutions[resolution] {
		return invalid("resolution must be one of D, W, M")
	}

	to := h.clock.Now()
	if raw := c.Query("to"); raw != "" {
		sec, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return invalid("to must be unix seconds")
		}
		to = time.Unix(sec, 0)
	}
	from := to.AddDate(-1, 0, 0)
	if raw := c.Query("from"); raw != "" {
		sec, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return invalid("from must be unix seconds")
		}
		from = time.Unix(sec, 0)
	}
	if from.After(to) {
		return invalid("from must not be after to")
	}

	candles, err := h.provider.GetCandles(c.UserContext(), symbol, resolution, from, to)
	if err != nil {
		return proxyError(err)
	}
	return c.JSON(candles)
}

type addHoldingRequest struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Shares decimal.Decimal `json:"shares"`
}

type updateHoldingRequest struct {
	Shares *decimal.Decimal `json:"shares"`
}

func (h *Handler) ListHoldings(c *fiber.Ctx) error {
	holdings, err := h.portfolio.ListHoldings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(holdings)
}

// AddHolding
// POST /api/holdings {"symbol":"AAPL","shares":"10"}
func (h *Handler) AddHolding(c *fiber.Ctx) error {
	req := addHoldingRequest{}
	if err := c.BodyParser(&req); err != nil {
		return invalid("malformed body: %s", err)
	}

	holding, err := h.portfolio.AddHolding(c.UserContext(), req.Symbol, req.Name, req.Shares)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(holding)
}

// UpdateHolding edits the share count in place.
// PATCH /api/holdings/:id {"shares":"12.5"}
func (h *Handler) UpdateHolding(c *fiber.Ctx) error {
	req := updateHoldingRequest{}
	if err := c.BodyParser(&req); err != nil {
		return invalid("malformed body: %s", err)
	}
	if req.Shares == nil {
		return invalid("shares is required")
	}

	holding, err := h.portfolio.UpdateShares(c.UserContext(), c.Params("id"), *req.Shares)
	if err != nil {
		return err
	}
	return c.JSON(holding)
}

func (h *Handler) DeleteHolding(c *fiber.Ctx) error {
	if err := h.portfolio.DeleteHolding(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type watchRequest struct {
	Symbol string `json:"symbol"`
}

func (h *Handler) ListWatchlist(c *fiber.Ctx) error {
	list, err := h.portfolio.ListWatchlist(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) AddToWatchlist(c *fiber.Ctx) error {
	req := watchRequest{}
	if err := c.BodyParser(&req); err != nil {
		return invalid("malformed body: %s", err)
	}

	list, err := h.portfolio.AddToWatchlist(c.UserContext(), req.Symbol)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

func (h *Handler) RemoveFromWatchlist(c *fiber.Ctx) error {
	list, err := h.portfolio.RemoveFromWatchlist(c.UserContext(), c.Params("symbol"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) GetQuotes(c *fiber.Ctx) error {
	view, err := h.portfolio.Quotes(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// RefreshQuotes answers 202 when another refresh is already running.
// POST /api/quotes/refresh?force=true
func (h *Handler) RefreshQuotes(c *fiber.Ctx) error {
	res, err := h.portfolio.RefreshQuotes(c.UserContext(), c.QueryBool("force", false))
	if err != nil {
		return err
	}
	if res.Skipped && res.Reason == portfolioService.ReasonInFlight {
		return c.Status(fiber.StatusAccepted).JSON(res)
	}
	return c.JSON(res)
}

// GetSeries
// GET /api/history/series?symbol=AAPL&range=90D
func (h *Handler) GetSeries(c *fiber.Ctx) error {
	symbol, err := requiredSymbol(c)
	if err != nil {
		return err
	}

	points, err := h.portfolio.Series(c.UserContext(), symbol, c.Query("range"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"symbol": symbol, "points": points})
}

// GetChart
// GET /api/history/chart?mode=normalized&range=ALL
func (h *Handler) GetChart(c *fiber.Ctx) error {
	chart, err := h.portfolio.Chart(c.UserContext(), c.Query("mode"), c.Query("range"))
	if err != nil {
		return err
	}
	return c.JSON(chart)
}

// ResetHistory wipes the whole price log; confirm=yes is mandatory.
// DELETE /api/history?confirm=yes
func (h *Handler) ResetHistory(c *fiber.Ctx) error {
	confirm := strings.ToLower(c.Query("confirm"))
	err := h.portfolio.ResetPriceHistory(c.UserContext(), confirm == "yes" || confirm == "true")
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type addEventRequest struct {
	Symbol string          `json:"symbol"`
	Date   calendar.Date   `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

func (h *Handler) ListDividendEvents(c *fiber.Ctx) error {
	events, err := h.dividends.ListEvents(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(events)
}

// AddDividendEvent
// POST /api/dividends/events {"symbol":"KO","date":"2024-04-01","amount":"48.5"}
func (h *Handler) AddDividendEvent(c *fiber.Ctx) error {
	req := addEventRequest{}
	if err := c.BodyParser(&req); err != nil {
		return invalid("malformed body: %s", err)
	}

	event, err := h.dividends.AddEvent(c.UserContext(), req.Symbol, req.Date, req.Amount, req.Note)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *Handler) DeleteDividendEvent(c *fiber.Ctx) error {
	if err := h.dividends.DeleteEvent(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type settingRequest struct {
	AnnualPerShare decimal.Decimal `json:"annualPerShare"`
	Frequency      string          `json:"frequency"`
	NextPayDate    calendar.Date   `json:"nextPayDate"`
}

func (h *Handler) GetDividendSettings(c *fiber.Ctx) error {
	settings, err := h.dividends.Settings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

// SaveDividendSetting overwrites the symbol's setting.
// PUT /api/dividends/settings/:symbol {"annualPerShare":"1.94","frequency":"Quarterly","nextPayDate":"2024-04-01"}
func (h *Handler) SaveDividendSetting(c *fiber.Ctx) error {
	req := settingRequest{}
	if err := c.BodyParser(&req); err != nil {
		return invalid("malformed body: %s", err)
	}
	freq, err := model.ParseFrequency(req.Frequency)
	if err != nil {
		return invalid("%s", err)
	}

	setting, err := h.dividends.SaveSetting(c.UserContext(), c.Params("symbol"), model.DividendSetting{
		AnnualPerShare: req.AnnualPerShare,
		Frequency:      freq,
		NextPayDate:    req.NextPayDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(setting)
}

func (h *Handler) DeleteDividendSetting(c *fiber.Ctx) error {
	if err := h.dividends.DeleteSetting(c.UserContext(), c.Params("symbol")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) GetDividendSummary(c *fiber.Ctx) error {
	summary, err := h.dividends.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (h *Handler) GetSnapshot(c *fiber.Ctx) error {
	snap, err := h.portfolio.Snapshot(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(snap)
}

func (h *Handler) GetIndustries(c *fiber.Ctx) error {
	alloc, err := h.portfolio.Industries(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(alloc)
}

// GetReport downloads the spreadsheet report.
// GET /api/report
func (h *Handler) GetReport(c *fiber.Ctx) error {
	file, err := h.reports.Generate(c.UserContext())
	if err != nil {
		return err
	}
	c.Attachment(file.Name)
	return c.Send(file.Data)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
