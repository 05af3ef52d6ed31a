package handlers

import (
	"errors"
	"net/http"

	"trainerdesk/internal/common"
	"trainerdesk/internal/models"
	"trainerdesk/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PageHandlers serves the public page every tenant subdomain is rewritten to
type PageHandlers struct {
	trainerService services.TrainerService
	logger         *zap.Logger
}

func NewPageHandlers(trainerService services.TrainerService, logger *zap.Logger) *PageHandlers {
	return &PageHandlers{trainerService: trainerService, logger: logger}
}

// GetPage godoc
// @Summary Public trainer page
// @Description Tenant hosts such as acme-gym.trainerdesk.app are internally rewritten to this route.
// @Tags pages
// @Produce json
// @Param subdomain path string true "Subdomain label"
// @Success 200 {object} models.PublicPage
// @Failure 404 {object} common.ErrorResponse
// @Router /pages/{subdomain} [get]
func (h *PageHandlers) GetPage(c echo.Context) error {
	label := c.Param("subdomain")

	page, err := h.trainerService.GetPublicPage(c.Request().Context(), label)
	if errors.Is(err, models.ErrNotFound) {
		return common.SendNotFoundError(c, "Trainer")
	}
	if err != nil {
		h.logger.Error("Failed to load public page", zap.String("subdomain", label), zap.Error(err))
		return common.SendServerError(c, "Failed to load page")
	}
	return c.JSON(http.StatusOK, page)
}
