// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"course-search-service/internal/app/service"
	"course-search-service/internal/domain"
	"course-search-service/internal/metrics"
	"course-search-service/internal/transport/httpserver/dto"
	"course-search-service/internal/transport/httpserver/handler"
	"course-search-service/internal/transport/httpserver/middleware"
	"course-search-service/internal/validator"
	"course-search-service/web"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port      int
	BodyLimit int
	Debug     bool
	Engine    string // index engine name shown on the dashboard
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	searchSvc *service.SearchService,
	index domain.CourseIndex,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")
	if cfg.Debug {
		engine.Reload(true)
	}

	app := fiber.New(fiber.Config{
		AppName:               "course-search-service",
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          errorHandler(logger),
		Views:                 engine,
		DisableStartupMessage: true,
	})

	// Probes stay ahead of every other middleware
	app.Use(middleware.NewHealthCheck(index))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(metrics.Middleware())
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS())
	app.Use(compress.New())

	searchHandler := handler.NewSearchHandler(searchSvc, v, logger)
	dashboardHandler := handler.NewDashboardHandler(index, cfg.Engine, logger)

	registerRoutes(app, searchHandler, dashboardHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	searchHandler *handler.SearchHandler,
	dashboardHandler *handler.DashboardHandler,
) {
	// /livez and /readyz are served by the healthcheck middleware
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/dashboard", dashboardHandler.Render)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	api := app.Group("/api")
	api.Get("/health", searchHandler.Health)

	api.Get("/search", searchHandler.Search)
	api.Get("/search/suggest", searchHandler.Suggest)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := dto.CodeInternal

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			errCode = ""
		} else {
			code, errCode = handler.ErrorStatus(err)
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		msg := err.Error()
		if code >= 500 && fe == nil {
			msg = http.StatusText(code)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: msg,
			Code:  errCode,
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
