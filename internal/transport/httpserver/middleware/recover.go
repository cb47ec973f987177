package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"course-search-service/internal/metrics"
	"course-search-service/internal/transport/httpserver/dto"
)

// Recover turns a handler panic into a 500 PANIC response. The panic value
// is logged with its stack and never sent to the client; the response
// carries the request id so a report can be matched to the log line.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			route := metrics.RoutePath(c)
			requestID := c.GetRespHeader(fiber.HeaderXRequestID)
			metrics.HTTPPanicsTotal.WithLabelValues(route).Inc()

			logger.Error("handler panicked",
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()),
				zap.String("route", route),
				zap.String("method", c.Method()),
				zap.String("uri", string(c.Request().RequestURI())),
				zap.String("request_id", requestID),
			)

			resp := dto.ErrorResponse{Error: "internal server error", Code: dto.CodePanic}
			if requestID != "" {
				resp.Details = map[string]string{"request_id": requestID}
			}
			err = c.Status(fiber.StatusInternalServerError).JSON(resp)
		}()

		return c.Next()
	}
}
