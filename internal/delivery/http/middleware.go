package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/firehistory/backend/internal/domain"
	"github.com/firehistory/backend/internal/logger"
)

// AccessLog puts the request id into the user context and writes one
// structured line per request. It must run after the requestid middleware.
func AccessLog(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.GetRespHeader(fiber.HeaderXRequestID)
		c.SetUserContext(logger.WithRequestID(c.UserContext(), reqID))

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := logger.FromContext(c.UserContext(), &base).Info()
		if status >= fiber.StatusInternalServerError {
			ev = logger.FromContext(c.UserContext(), &base).Error().Err(chainErr)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}

// ErrorHandler maps typed pipeline failures to HTTP statuses
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var (
			fe *fiber.Error
			pe *domain.ParseError
			ce *domain.ConnectionError
			qe *domain.QueryError
		)
		switch {
		case errors.As(err, &fe):
			code, message = fe.Code, fe.Message
		case errors.As(err, &pe):
			code, message = fiber.StatusBadRequest, pe.Error()
		case errors.Is(err, domain.ErrAssistantDisabled):
			code, message = fiber.StatusServiceUnavailable, err.Error()
		case errors.As(err, &ce):
			code, message = fiber.StatusServiceUnavailable, "Database or completion service unavailable"
		case errors.As(err, &qe):
			code, message = fiber.StatusBadGateway, "Query failed"
		default:
			logger.FromContext(c.UserContext(), &log).Error().Err(err).Msg("unhandled error")
		}

		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": message,
		})
	}
}
