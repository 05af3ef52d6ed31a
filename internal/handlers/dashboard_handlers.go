package handlers

import (
	"net/http"

	"trainerdesk/internal/common"
	"trainerdesk/internal/models"
	"trainerdesk/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DashboardHandlers struct {
	dashboardService services.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandlers(dashboardService services.DashboardService, logger *zap.Logger) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService, logger: logger}
}

// GetStats godoc
// @Summary Dashboard summary cards
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardStats
// @Failure 401 {object} common.ErrorResponse
// @Router /api/dashboard/stats [get]
func (h *DashboardHandlers) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	trainerID, ok := common.GetTrainerIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	stats, err := h.dashboardService.GetStats(ctx, trainerID)
	if err != nil {
		h.logger.Error("Dashboard stats failed", zap.String("trainer_id", trainerID.String()), zap.Error(err))
		return common.SendServerError(c, "Failed to fetch dashboard stats")
	}
	return c.JSON(http.StatusOK, stats)
}

// GetUpcomingBookings godoc
// @Summary Next five upcoming bookings
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UpcomingBooking
// @Failure 401 {object} common.ErrorResponse
// @Router /api/dashboard/bookings [get]
func (h *DashboardHandlers) GetUpcomingBookings(c echo.Context) error {
	ctx := c.Request().Context()
	trainerID, ok := common.GetTrainerIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	bookings, err := h.dashboardService.UpcomingBookings(ctx, trainerID)
	if err != nil {
		h.logger.Error("Upcoming bookings failed", zap.String("trainer_id", trainerID.String()), zap.Error(err))
		return common.SendServerError(c, "Failed to fetch upcoming bookings")
	}
	if bookings == nil {
		bookings = []*models.UpcomingBooking{}
	}
	return c.JSON(http.StatusOK, bookings)
}
