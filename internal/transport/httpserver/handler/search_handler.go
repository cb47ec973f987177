// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"course-search-service/internal/app/service"
	"course-search-service/internal/domain"
	"course-search-service/internal/transport/httpserver/dto"
	"course-search-service/internal/validator"
)

// HealthMessage is the plain-text body of GET /api/health.
const HealthMessage = "Course Search API is running!"

// SearchHandler handles search-related HTTP requests.
type SearchHandler struct {
	service   *service.SearchService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc *service.SearchService, v *validator.Validator, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Search handles GET /api/search
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  dto.CodeInvalidParams,
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    dto.CodeValidation,
			Details: err,
		})
	}

	params, err := req.ToDomain()
	if err != nil {
		return h.fail(c, "search", err)
	}

	result, err := h.service.Search(c.UserContext(), params)
	if err != nil {
		return h.fail(c, "search", err)
	}

	return c.JSON(result)
}

// Suggest handles GET /api/search/suggest
func (h *SearchHandler) Suggest(c *fiber.Ctx) error {
	var req dto.SuggestRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  dto.CodeInvalidParams,
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    dto.CodeValidation,
			Details: err,
		})
	}

	titles, err := h.service.Suggest(c.UserContext(), req.Query)
	if err != nil {
		return h.fail(c, "suggest", err)
	}

	return c.JSON(titles)
}

// Health handles GET /api/health
func (h *SearchHandler) Health(c *fiber.Ctx) error {
	return c.SendString(HealthMessage)
}

// fail writes the error response for a service error.
func (h *SearchHandler) fail(c *fiber.Ctx, op string, err error) error {
	status, code := ErrorStatus(err)

	resp := dto.ErrorResponse{Code: code}
	switch status {
	case fiber.StatusBadRequest:
		resp.Error = err.Error()
		h.logger.Debug(op+" rejected", zap.Error(err))
	case fiber.StatusInternalServerError:
		resp.Error = op + " failed"
		h.logger.Error(op+" failed", zap.Error(err))
	default:
		resp.Error = op + " failed: " + code
		h.logger.Warn(op+" failed", zap.Int("status", status), zap.Error(err))
	}

	return c.Status(status).JSON(resp)
}

// ErrorStatus maps a service error to its HTTP status and error code.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.CodeInvalidInput
	case errors.Is(err, domain.ErrIndexUnavailable):
		return fiber.StatusServiceUnavailable, dto.CodeIndexUnavailable
	case errors.Is(err, domain.ErrIndexQuery):
		return fiber.StatusBadGateway, dto.CodeIndexQuery
	default:
		return fiber.StatusInternalServerError, dto.CodeInternal
	}
}
