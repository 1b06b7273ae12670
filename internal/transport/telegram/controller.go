package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"

	"github.com/SqueakyMcSqueeze/stocks-pwa/data/session"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/calendar"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/converter/telebotConverter"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/service"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

const (
	internalErrMsg    = "something went wrong..."
	notFoundMsg       = "nothing found, check the symbol or id"
	confirmExpiredMsg = "the confirmation has expired, send /reset again"
	insufficientMsg   = "not enough history yet: at least two logged days are needed"
	resetDoneMsg      = "🗑 Price history cleared"
	resetCancelledMsg = "Reset cancelled"
)

type PortfolioService interface {
	Snapshot(ctx context.Context) (model.PortfolioSnapshot, error)
	AddHolding(ctx context.Context, symbol, name string, shares decimal.Decimal) (model.Holding, error)
	FindHolding(ctx context.Context, idOrSymbol string) (model.Holding, error)
	UpdateShares(ctx context.Context, id string, shares decimal.Decimal) (model.Holding, error)
	DeleteHolding(ctx context.Context, id string) error
	AddToWatchlist(ctx context.Context, symbol string) ([]string, error)
	RemoveFromWatchlist(ctx context.Context, symbol string) ([]string, error)
	RefreshQuotes(ctx context.Context, force bool) (model.RefreshResult, error)
	Quotes(ctx context.Context) (model.QuotesView, error)
	Industries(ctx context.Context) ([]model.IndustryAllocation, error)
	Chart(ctx context.Context, modeName, rangeName string) (model.Chart, error)
	ResetPriceHistory(ctx context.Context, confirmed bool) error
}

type DividendService interface {
	ListEvents(ctx context.Context) ([]model.DividendEvent, error)
	AddEvent(ctx context.Context, symbol string, on calendar.Date, amount decimal.Decimal, note string) (model.DividendEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	SaveSetting(ctx context.Context, symbol string, setting model.DividendSetting) (model.DividendSetting, error)
	DeleteSetting(ctx context.Context, symbol string) error
	Summary(ctx context.Context) (model.DividendSummary, error)
}

type ReportService interface {
	Export(ctx context.Context) (model.ReportFile, error)
}

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, session model.Session) error
}

type Controller struct {
	portfolio PortfolioService
	dividends DividendService
	reports   ReportService
	session   Session
	loc       *time.Location
}

func NewController(portfolio PortfolioService, dividends DividendService, reports ReportService, session Session, loc *time.Location) *Controller {
	return &Controller{
		portfolio: portfolio,
		dividends: dividends,
		reports:   reports,
		session:   session,
		loc:       loc,
	}
}

func (ctrl *Controller) Start(c tele.Context) error {
	return c.Send(telebotConverter.HelpText)
}

// replyErr turns a service error into a chat message; only unexpected
// errors are logged.
func (ctrl *Controller) replyErr(ctx context.Context, c tele.Context, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrConfirmationRequired):
		return c.Send("❗ " + err.Error())
	case errors.Is(err, service.ErrNotFound):
		return c.Send(notFoundMsg)
	case errors.Is(err, service.ErrInsufficientHistory):
		return c.Send(insufficientMsg)
	}

	slog.Error("got error from "+op, slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	return c.Send(internalErrMsg)
}

func usage(c tele.Context, text string) error {
	return c.Send("usage: " + text)
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	return d, err == nil
}

func (ctrl *Controller) Holdings(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	snap, err := ctrl.portfolio.Snapshot(ctx)
	if err != nil {
		return ctrl.replyErr(ctx, c, "portfolio.Snapshot", err)
	}
	return c.Send(telebotConverter.HoldingsResponse(snap))
}

// AddHolding handles /add SYMBOL SHARES
func (ctrl *Controller) AddHolding(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	args := c.Args()
	if len(args) != 2 {
		return usage(c, "/add SYMBOL SHARES")
	}
	shares, ok := parseDecimal(args[1])
	if !ok {
		return usage(c, "/add SYMBOL SHARES, e.g. /add AAPL 10")
	}

	holding, err := ctrl.portfolio.AddHolding(ctx, args[0], "", shares)
	if err != nil {
		return ctrl.replyErr(ctx, c, "portfolio.AddHolding", err)
	}
	return c.Send(telebotConverter.HoldingResponse(holding))
}

// UpdateShares handles /shares SYMBOL|ID SHARES
func (ctrl *Controller) UpdateShares(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	args := c.Args()
	if len(args) != 2 {
		return usage(c, "/shares SYMBOL|ID SHARES")
	}
	shares, ok := parseDecimal(args[1])
	if !ok {
		return usage(c, "/shares SYMBOL|ID SHARES, e.g. /shares AAPL 12.5")
	}

	holding, err := ctrl.portfolio.FindHolding(ctx, args[0])
	if err != nil {
		return ctrl.replyErr(ctx, c, "portfolio.FindHolding", err)
	}
	holding, err = ctrl.portfolio.UpdateShares(ctx, holding.ID, shares)
	if err != nil {
		return ctrl.replyErr(ctx, c, "portfolio.UpdateShares", err)
	}
	return c.Send(telebotConverter.HoldingResponse(holding))
}

// DeleteHolding handles /del SYMBOL|ID
func (ctrl *Controller) DeleteHolding(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	args := c.Args()
	if len(args) != 1 {
		return usage(c, "/del SYMBOL|ID")
	}

	holding, err := ctrl.portfolio.FindHolding(ctx, args[0])
	if err != nil {
		return ctrl.replyErr(ctx, c, "portfolio.FindHolding", err)
	}
	if err = ctrl.portfolio.DeleteHolding(ctx, holding.ID); err != nil {
		return ctrl.replyErr(ctx, c, "portfolio.DeleteHolding", err)
	}
	return c.Send("🗑 Removed " + holding.Symbol)
}

func (ctrl *Controller) Watch(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if len(c.Args()) != 1 {
		return usage(c, "/watch SYMBOL")
	}

	list, err := ctrl.portfolio.AddToWatchlist(ctx, c.Args()[0])
	if err != nil {
		return ctrl.replyErr(ctx, c, "portfolio.AddToWatchlist", err)
	}
	return c.Send("👀 Watching: " + strings.Join(list, ", "))
}

func (ctrl *Controller) Unwatch(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if len(c.Args()) != 1 {
		return usage(c, "/unwatch SYMBOL")
	}

	list, err := ctrl.portfolio.RemoveFromWatchlist(ctx, c.Args()[0])
	if err != nil {
		return ctrl.replyErr(ctx, c, "portfolio.RemoveFromWatchlist", err)
	}
	if len(list) == 0 {
		return c.Send("The watchlist is empty")
	}
	return c.Send("👀 Watching: " + strings.Join(list, ", "))
}

func (ctrl *Controller) Refresh(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	res, err := ctrl.portfolio.RefreshQuotes(ctx, true)
	if err != nil {
		return ctrl.replyErr(ctx, c, "portfolio.RefreshQuotes", err)
	}
	return c.Send(telebotConverter.RefreshResponse(res))
}

func (ctrl *Controller) Quotes(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	view, err := ctrl.portfolio.Quotes(ctx)
	if err != nil {
		return ctrl.replyErr(ctx, c, "portfolio.Quotes", err)
	}
	return c.Send(telebotConverter.QuotesResponse(view, ctrl.loc))
}

func (ctrl *Controller) Industries(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	alloc, err := ctrl.portfolio.Industries(ctx)
	if err != nil {
		return ctrl.replyErr(ctx, c, "portfolio.Industries", err)
	}
	return c.Send(telebotConverter.IndustriesResponse(alloc))
}

// Chart handles /chart [mode] [range]
func (ctrl *Controller) Chart(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	args := c.Args()
	if len(args) > 2 {
		return usage(c, "/chart [overlay|normalized|total] [30D|90D|180D|365D|ALL]")
	}
	var mode, rangeName string
	if len(args) > 0 {
		mode = args[0]
	}
	if len(args) > 1 {
		rangeName = args[1]
	}

	chart, err := ctrl.portfolio.Chart(ctx, mode, rangeName)
	if err != nil {
		return ctrl.replyErr(ctx, c, "portfolio.Chart", err)
	}
	return c.Send(telebotConverter.ChartResponse(chart))
}

// InitReset asks for confirmation and remembers that the chat is expected to
// answer it.
func (ctrl *Controller) InitReset(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	strChatID := strconv.FormatInt(c.Chat().ID, 10)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return c.Send(internalErrMsg)
	}

	chatSession.State = model.ExpectingResetConfirmation
	if err = ctrl.session.SetSession(ctx, strChatID, chatSession); err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.ResetConfirmResponse())
}

// ConfirmReset is the inline confirm button; it only acts while the
// confirmation is still pending.
func (ctrl *Controller) ConfirmReset(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	_ = c.Respond()

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil || chatSession.State != model.ExpectingResetConfirmation {
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			return c.Send(internalErrMsg)
		}
		return c.Edit(confirmExpiredMsg)
	}

	if err = ctrl.clearState(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	if err = ctrl.portfolio.ResetPriceHistory(ctx, true); err != nil {
		return ctrl.replyErr(ctx, c, "portfolio.ResetPriceHistory", err)
	}
	return c.Edit(resetDoneMsg)
}

func (ctrl *Controller) CancelReset(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	_ = c.Respond()

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err == nil {
		_ = ctrl.clearState(ctx, c, chatSession)
	}
	return c.Edit(resetCancelledMsg)
}

// ProcessResetAnswer handles a typed answer to the reset question.
func (ctrl *Controller) ProcessResetAnswer(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}
	if err = ctrl.clearState(ctx, c, chatSession); err != nil {
		return c.Send(internalErrMsg)
	}

	switch strings.ToLower(strings.TrimSpace(c.Text())) {
	case "yes", "y":
		if err = ctrl.portfolio.ResetPriceHistory(ctx, true); err != nil {
			return ctrl.replyErr(ctx, c, "portfolio.ResetPriceHistory", err)
		}
		return c.Send(resetDoneMsg)
	default:
		return c.Send(resetCancelledMsg)
	}
}

func (ctrl *Controller) clearState(ctx context.Context, c tele.Context, chatSession model.Session) error {
	chatSession.State = model.DefaultState
	c.Set("session", chatSession)
	err := ctrl.session.SetSession(ctx, strconv.FormatInt(c.Chat().ID, 10), chatSession)
	if err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	}
	return err
}

func (ctrl *Controller) getSessionFromTeleCtxOrStorage(ctx context.Context, c tele.Context) (model.Session, error) {
	chatSession, ok := c.Get("session").(model.Session)
	if ok {
		return chatSession, nil
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	chatSession, err := ctrl.session.GetSession(ctx, strconv.FormatInt(c.Chat().ID, 10))
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		}
		return model.Session{}, err
	}
	return chatSession, nil
}

func (ctrl *Controller) DividendSummary(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	summary, err := ctrl.dividends.Summary(ctx)
	if err != nil {
		return ctrl.replyErr(ctx, c, "dividends.Summary", err)
	}
	return c.Send(telebotConverter.DividendSummaryResponse(summary))
}

func (ctrl *Controller) DividendEvents(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	events, err := ctrl.dividends.ListEvents(ctx)
	if err != nil {
		return ctrl.replyErr(ctx, c, "dividends.ListEvents", err)
	}
	return c.Send(telebotConverter.DividendEventsResponse(events))
}

// AddDividendEvent handles /div_add SYMBOL YYYY-MM-DD AMOUNT [note]
func (ctrl *Controller) AddDividendEvent(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	const help = "/div_add SYMBOL YYYY-MM-DD AMOUNT [note]"

	args := c.Args()
	if len(args) < 3 {
		return usage(c, help)
	}
	on, err := calendar.Parse(args[1])
	if err != nil {
		return usage(c, help)
	}
	amount, ok := parseDecimal(args[2])
	if !ok {
		return usage(c, help)
	}

	event, err := ctrl.dividends.AddEvent(ctx, args[0], on, amount, strings.Join(args[3:], " "))
	if err != nil {
		return ctrl.replyErr(ctx, c, "dividends.AddEvent", err)
	}
	return c.Send("✅ Recorded\n" + telebotConverter.DividendEventsResponse([]model.DividendEvent{event}))
}

func (ctrl *Controller) DeleteDividendEvent(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if len(c.Args()) != 1 {
		return usage(c, "/div_del ID")
	}

	if err := ctrl.dividends.DeleteEvent(ctx, c.Args()[0]); err != nil {
		return ctrl.replyErr(ctx, c, "dividends.DeleteEvent", err)
	}
	return c.Send("🗑 Payment removed")
}

// SaveDividendSetting handles /div_set SYMBOL ANNUAL FREQUENCY NEXT_PAY_DATE
func (ctrl *Controller) SaveDividendSetting(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	const help = "/div_set SYMBOL ANNUAL_PER_SHARE Monthly|Quarterly|Semi-Annual|Annual YYYY-MM-DD"

	args := c.Args()
	if len(args) != 4 {
		return usage(c, help)
	}
	annual, ok := parseDecimal(args[1])
	if !ok {
		return usage(c, help)
	}
	freq, err := model.ParseFrequency(args[2])
	if err != nil {
		return usage(c, help)
	}
	next, err := calendar.Parse(args[3])
	if err != nil {
		return usage(c, help)
	}

	setting, err := ctrl.dividends.SaveSetting(ctx, args[0], model.DividendSetting{
		AnnualPerShare: annual,
		Frequency:      freq,
		NextPayDate:    next,
	})
	if err != nil {
		return ctrl.replyErr(ctx, c, "dividends.SaveSetting", err)
	}
	return c.Send(telebotConverter.DividendSettingResponse(model.NormalizeSymbol(args[0]), setting))
}

func (ctrl *Controller) DeleteDividendSetting(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	if len(c.Args()) != 1 {
		return usage(c, "/div_unset SYMBOL")
	}

	if err := ctrl.dividends.DeleteSetting(ctx, c.Args()[0]); err != nil {
		return ctrl.replyErr(ctx, c, "dividends.DeleteSetting", err)
	}
	return c.Send("🗑 Forecast removed")
}

// Report sends the spreadsheet, or a link when it was uploaded instead.
func (ctrl *Controller) Report(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	file, err := ctrl.reports.Export(ctx)
	if err != nil {
		return ctrl.replyErr(ctx, c, "reports.Export", err)
	}

	if file.DownloadLink != "" {
		return c.Send(telebotConverter.ReportLinkResponse(file))
	}

	return c.Send(&tele.Document{
		File:     tele.FromReader(bytes.NewReader(file.Data)),
		FileName: file.Name,
	})
}
