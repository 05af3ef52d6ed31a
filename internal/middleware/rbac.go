package middleware

import (
	"strings"

	"trainerdesk/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireTrainer rejects sessions that do not belong to a trainer business.
// It must run after JWTMiddleware.
func RequireTrainer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := common.GetTrainerIDFromContext(c.Request().Context()); !ok {
				return common.SendUnauthorizedError(c)
			}
			return next(c)
		}
	}
}

// RequireTrainerAccess lets a trainer session act only on its own trainer,
// named by the route parameter param.
func RequireTrainerAccess(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionTrainer, ok := common.GetTrainerIDFromContext(c.Request().Context())
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if !strings.EqualFold(sessionTrainer.String(), c.Param(param)) {
				return common.SendForbiddenError(c)
			}
			return next(c)
		}
	}
}
