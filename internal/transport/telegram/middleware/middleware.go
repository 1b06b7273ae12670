package middleware

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	tele "gopkg.in/telebot.v4"
)

// Logger tags every update with the rqID the handlers read back through
// utils.CreateCtxWithRqID.
func Logger(clock clockwork.Clock) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			now := clock.Now()

			rqID := uuid.NewString()
			c.Set("rqID", rqID)

			var chatID int64
			if c.Chat() != nil {
				chatID = c.Chat().ID
			}

			slog.Info(
				"start request",
				slog.String("rqID", rqID),
				slog.Int64("chatID", chatID),
				slog.String("text", c.Text()),
			)

			err := next(c)

			attrs := []any{
				slog.String("rqID", rqID),
				slog.String("request duration", fmt.Sprintf("%.2fs", clock.Since(now).Seconds())),
			}
			if err != nil {
				attrs = append(attrs, slog.String("err", err.Error()))
				slog.Error("request finished", attrs...)
			} else {
				slog.Info("request finished", attrs...)
			}

			return err
		}
	}
}
