package handlers

import (
	"errors"
	"net/http"

	"trainerdesk/internal/common"
	"trainerdesk/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type UploadHandlers struct {
	storageService services.StorageService
	logger         *zap.Logger
}

func NewUploadHandlers(storageService services.StorageService, logger *zap.Logger) *UploadHandlers {
	return &UploadHandlers{storageService: storageService, logger: logger}
}

// UploadProfileImage godoc
// @Summary Upload a profile photo
// @Description One image file (jpeg, png, gif or webp) of at most 4MB in the multipart field "file".
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} services.UploadResult
// @Failure 400 {object} common.ErrorResponse
// @Failure 413 {object} common.ErrorResponse
// @Failure 415 {object} common.ErrorResponse
// @Router /api/uploads/profile-image [post]
func (h *UploadHandlers) UploadProfileImage(c echo.Context) error {
	ctx := c.Request().Context()
	trainerID, ok := common.GetTrainerIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return common.SendClientError(c, "Expected a multipart form")
	}
	files := form.File["file"]
	switch {
	case len(files) == 0:
		return common.SendClientError(c, "File is required")
	case len(files) > 1:
		return common.SendClientError(c, "Only one file can be uploaded")
	}

	fh := files[0]
	file, err := fh.Open()
	if err != nil {
		return common.SendClientError(c, "Unable to read uploaded file")
	}
	defer file.Close()

	result, err := h.storageService.UploadProfileImage(ctx, trainerID, file, fh.Size)
	switch {
	case errors.Is(err, services.ErrFileTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, common.CreateErrorResponse("FILE_TOO_LARGE", err.Error(), nil))
	case errors.Is(err, services.ErrUnsupportedFile):
		return c.JSON(http.StatusUnsupportedMediaType, common.CreateErrorResponse("UNSUPPORTED_FILE", err.Error(), nil))
	case errors.Is(err, services.ErrEmptyFile):
		return common.SendClientError(c, err.Error())
	case err != nil:
		h.logger.Error("Profile image upload failed", zap.String("trainer_id", trainerID.String()), zap.Error(err))
		return common.SendServerError(c, "Upload failed")
	}
	return c.JSON(http.StatusOK, result)
}
