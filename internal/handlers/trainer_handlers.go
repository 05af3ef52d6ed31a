package handlers

import (
	"errors"
	"net/http"

	"trainerdesk/internal/common"
	"trainerdesk/internal/models"
	"trainerdesk/internal/services"
	"trainerdesk/internal/timezones"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TrainerHandlers handles trainer profile requests. Access to another trainer
// is rejected by middleware.RequireTrainerAccess before these run.
type TrainerHandlers struct {
	trainerService services.TrainerService
	logger         *zap.Logger
}

func NewTrainerHandlers(trainerService services.TrainerService, logger *zap.Logger) *TrainerHandlers {
	return &TrainerHandlers{trainerService: trainerService, logger: logger}
}

// UpdateTrainerResponse wraps the saved trainer
type UpdateTrainerResponse struct {
	Success bool            `json:"success"`
	Trainer *models.Trainer `json:"trainer"`
}

// GetTrainer godoc
// @Summary Trainer profile
// @Tags trainers
// @Produce json
// @Security BearerAuth
// @Param trainerId path string true "Trainer ID"
// @Success 200 {object} models.Trainer
// @Failure 401 {object} common.ErrorResponse
// @Failure 403 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /api/trainers/{trainerId} [get]
func (h *TrainerHandlers) GetTrainer(c echo.Context) error {
	trainerID, err := common.ValidateUUID(c.Param("trainerId"), "trainerId")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	trainer, err := h.trainerService.GetProfile(c.Request().Context(), trainerID)
	if errors.Is(err, models.ErrNotFound) {
		return common.SendNotFoundError(c, "Trainer")
	}
	if err != nil {
		h.logger.Error("Failed to fetch trainer profile", zap.String("trainer_id", trainerID.String()), zap.Error(err))
		return common.SendServerError(c, "Failed to fetch profile")
	}
	return c.JSON(http.StatusOK, trainer)
}

// UpdateTrainer godoc
// @Summary Update trainer profile settings
// @Description The subdomain is fixed at registration and is not editable.
// @Tags trainers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trainerId path string true "Trainer ID"
// @Param request body services.UpdateProfileRequest true "Profile settings"
// @Success 200 {object} UpdateTrainerResponse
// @Failure 400 {object} common.ErrorResponse
// @Failure 403 {object} common.ErrorResponse
// @Router /api/trainers/{trainerId} [patch]
func (h *TrainerHandlers) UpdateTrainer(c echo.Context) error {
	ctx := c.Request().Context()
	trainerID, err := common.ValidateUUID(c.Param("trainerId"), "trainerId")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid input data", nil)
	}
	req.TrainerID = trainerID
	req.UserID = userID

	trainer, err := h.trainerService.UpdateProfile(ctx, &req)
	if err != nil {
		var verrs common.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			return common.SendValidationError(c, "Invalid input data", verrs)
		case errors.Is(err, models.ErrNotFound):
			return common.SendNotFoundError(c, "Trainer")
		default:
			h.logger.Error("Failed to update trainer profile", zap.String("trainer_id", trainerID.String()), zap.Error(err))
			return common.SendServerError(c, "Failed to update profile")
		}
	}

	return c.JSON(http.StatusOK, UpdateTrainerResponse{Success: true, Trainer: trainer})
}

// ListTimezones godoc
// @Summary Timezones offered in profile settings
// @Tags trainers
// @Produce json
// @Success 200 {array} timezones.Option
// @Router /api/timezones [get]
func (h *TrainerHandlers) ListTimezones(c echo.Context) error {
	return c.JSON(http.StatusOK, timezones.All())
}
