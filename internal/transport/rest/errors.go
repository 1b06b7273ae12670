package rest

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/externalApi"
	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/service"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

// errUpstreamUnavailable marks a proxy call that never got a usable answer.
var errUpstreamUnavailable = errors.New("upstream unavailable")

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func classify(err error) (status int, code, message string) {
	var upErr *externalApi.UpstreamError
	var fiberErr *fiber.Error

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return fiber.StatusBadRequest, "bad_request", err.Error()
	case errors.Is(err, service.ErrConfirmationRequired):
		return fiber.StatusBadRequest, "confirmation_required", err.Error()
	case errors.Is(err, service.ErrNotFound), errors.Is(err, externalApi.ErrNotFound):
		return fiber.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, service.ErrInsufficientHistory):
		return fiber.StatusUnprocessableEntity, "insufficient_history", "at least two logged days are needed"
	case errors.Is(err, externalApi.ErrNoCredentials):
		return fiber.StatusInternalServerError, "missing_credentials", "market data credential is not configured"
	case errors.As(err, &upErr), errors.Is(err, externalApi.ErrBadResponse), errors.Is(err, errUpstreamUnavailable):
		return fiber.StatusBadGateway, "upstream_error", "market data provider is unavailable"
	case errors.As(err, &fiberErr):
		return fiberErr.Code, "request_error", fiberErr.Message
	}
	return fiber.StatusInternalServerError, "internal_error", "internal error"
}

// ErrorHandler renders every handler error as an ErrorResponse.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, code, message := classify(err)

	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("rqID", utils.GetRequestIDFromCtx(c.UserContext())),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.String("err", err.Error()),
		)
	}

	return c.Status(status).JSON(ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
	})
}

// proxyError keeps the provider's own classification and marks everything
// else, such as a refused connection, as an unavailable upstream.
func proxyError(err error) error {
	var upErr *externalApi.UpstreamError
	if errors.Is(err, externalApi.ErrNoCredentials) ||
		errors.Is(err, externalApi.ErrNotFound) ||
		errors.Is(err, externalApi.ErrBadResponse) ||
		errors.Is(err, service.ErrInvalidInput) ||
		errors.As(err, &upErr) {
		return err
	}
	return errors.Join(errUpstreamUnavailable, err)
}
