package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"course-search-service/internal/metrics"
)

// quietPaths are polled by orchestrators and scrapers; successful hits are
// not worth a log line even at debug level.
var quietPaths = map[string]struct{}{
	"/livez":   {},
	"/readyz":  {},
	"/metrics": {},
}

// Logger writes one access line per request. Server errors go to Error,
// client errors to Warn and the rest to Debug.
func Logger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := responseStatus(c, err)
		level := levelFor(status)
		if _, quiet := quietPaths[c.Path()]; quiet && level < zapcore.WarnLevel {
			return err
		}

		ce := logger.Check(level, "http request")
		if ce == nil {
			return err
		}

		fields := []zap.Field{
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			zap.String("method", c.Method()),
			zap.String("route", metrics.RoutePath(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if q := c.Request().URI().QueryString(); len(q) > 0 {
			fields = append(fields, zap.ByteString("query", q))
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		ce.Write(fields...)

		return err
	}
}

// responseStatus is the status the client will see. A returned error has
// not been written yet, so it is read from the error itself.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func levelFor(status int) zapcore.Level {
	switch {
	case status >= fiber.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= fiber.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.DebugLevel
	}
}
