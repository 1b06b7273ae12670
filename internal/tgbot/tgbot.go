package tgbot

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/jonboulle/clockwork"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/data/session"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/model/tg/tgCallback"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/transport/telegram"
	customMW "github.com/SqueakyMcSqueeze/stocks-pwa/internal/transport/telegram/middleware"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

var ErrNoAllowedChat = errors.New("telegram allowed chat id is not configured")

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, session model.Session) error
}

type TGBot struct {
	bot           *tele.Bot
	ctrl          *telegram.Controller
	session       Session
	clock         clockwork.Clock
	allowedChatID int64
}

// New builds the bot; it answers only the configured chat.
func New(cfg *config.Config, ctrl *telegram.Controller, session Session, clock clockwork.Clock) (*TGBot, error) {
	if cfg.Telegram.AllowedChatID == 0 {
		return nil, ErrNoAllowedChat
	}

	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
		OnError: func(err error, c tele.Context) {
			slog.Error("tgbot handler error", slog.String("err", err.Error()))
		},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		return nil, err
	}

	return &TGBot{
		bot:           b,
		ctrl:          ctrl,
		session:       session,
		clock:         clock,
		allowedChatID: cfg.Telegram.AllowedChatID,
	}, nil
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), middleware.Whitelist(b.allowedChatID), customMW.Logger(b.clock))

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	b.bot.Handle(tele.OnText, func(c tele.Context) error {
		// free text only means something while a question is pending
		ctx := utils.CreateCtxWithRqID(c)
		rqID := utils.GetRequestIDFromCtx(ctx)
		chatSession, err := b.session.GetSession(ctx, strconv.FormatInt(c.Chat().ID, 10))
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return c.Send("send one of the commands first, see /help")
			}
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
			return c.Send("something went wrong...")
		}

		c.Set("session", chatSession)

		switch chatSession.State {
		case model.ExpectingResetConfirmation:
			return b.ctrl.ProcessResetAnswer(c)
		default:
			return c.Send("send one of the commands first, see /help")
		}
	})

	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/help", b.ctrl.Start)

	b.bot.Handle("/holdings", b.ctrl.Holdings)
	b.bot.Handle("/add", b.ctrl.AddHolding)
	b.bot.Handle("/shares", b.ctrl.UpdateShares)
	b.bot.Handle("/del", b.ctrl.DeleteHolding)
	b.bot.Handle("/watch", b.ctrl.Watch)
	b.bot.Handle("/unwatch", b.ctrl.Unwatch)

	b.bot.Handle("/refresh", b.ctrl.Refresh)
	b.bot.Handle("/quotes", b.ctrl.Quotes)
	b.bot.Handle("/industries", b.ctrl.Industries)
	b.bot.Handle("/chart", b.ctrl.Chart)

	b.bot.Handle("/reset", b.ctrl.InitReset)
	b.bot.Handle("\f"+tgCallback.ResetConfirm, b.ctrl.ConfirmReset)
	b.bot.Handle("\f"+tgCallback.ResetCancel, b.ctrl.CancelReset)

	b.bot.Handle("/dividends", b.ctrl.DividendSummary)
	b.bot.Handle("/div_events", b.ctrl.DividendEvents)
	b.bot.Handle("/div_add", b.ctrl.AddDividendEvent)
	b.bot.Handle("/div_del", b.ctrl.DeleteDividendEvent)
	b.bot.Handle("/div_set", b.ctrl.SaveDividendSetting)
	b.bot.Handle("/div_unset", b.ctrl.DeleteDividendSetting)

	b.bot.Handle("/report", b.ctrl.Report)
}
