package rest

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

const requestIDHeader = "X-Request-ID"

// RequestID puts the caller's X-Request-ID, or a fresh one, into the user
// context the handlers pass down.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := utils.WithRequestID(c.UserContext(), c.Get(requestIDHeader))
		c.SetUserContext(ctx)
		c.Set(requestIDHeader, utils.GetRequestIDFromCtx(ctx))
		return c.Next()
	}
}

func Logger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rqID := utils.GetRequestIDFromCtx(c.UserContext())

		slog.Debug("start request", slog.String("rqID", rqID), slog.String("method", c.Method()), slog.String("path", c.Path()))

		err := c.Next()
		if err != nil {
			// render now so the logged status is the final one
			_ = c.App().ErrorHandler(c, err)
			err = nil
		}

		slog.Info("request finished",
			slog.String("rqID", rqID),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("latency", time.Since(start)),
		)

		return err
	}
}
