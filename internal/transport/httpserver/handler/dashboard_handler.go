package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"course-search-service/internal/domain"
	"course-search-service/internal/transport/httpserver/dto"
)

// DashboardHandler handles dashboard-related HTTP requests.
type DashboardHandler struct {
	index  domain.CourseIndex
	engine string
	logger *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(index domain.CourseIndex, engine string, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		index:  index,
		engine: engine,
		logger: logger,
	}
}

// Render handles GET /dashboard
func (h *DashboardHandler) Render(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	view := dto.DashboardView{
		Title:     "Course Search Dashboard",
		Engine:    h.engine,
		Healthy:   true,
		SortModes: []string{string(domain.SortUpcoming), string(domain.SortPriceAsc), string(domain.SortPriceDesc)},
	}
	for _, t := range domain.CourseTypes {
		view.CourseTypes = append(view.CourseTypes, string(t))
	}

	count, err := h.index.Count(ctx)
	if err != nil {
		h.logger.Warn("dashboard count failed", zap.Error(err))
		view.Healthy = false
	}
	view.CourseCount = count

	return c.Render("pages/dashboard", view, "layouts/base")
}
