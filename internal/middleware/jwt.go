package middleware

import (
	"trainerdesk/internal/common"
	"trainerdesk/internal/services"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ClaimsContextKey is where the validated *services.SessionClaims are stored.
const ClaimsContextKey = "session"

// sessionTokenLookup reads the bearer header first, then either session cookie.
var sessionTokenLookup = "header:Authorization:Bearer ," +
	"cookie:" + services.SessionCookieName + "," +
	"cookie:" + services.SecureSessionCookieName

// JWTMiddleware validates the session token and puts the user id, trainer id and
// role on the request context. Revoked tokens are rejected.
func JWTMiddleware(authService services.AuthService, logger *zap.Logger) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ClaimsContextKey,
		TokenLookup: sessionTokenLookup,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return authService.ValidateToken(c.Request().Context(), auth)
		},
		SuccessHandler: func(c echo.Context) {
			claims := c.Get(ClaimsContextKey).(*services.SessionClaims)
			userID, _ := claims.UserID()
			ctx := common.WithSession(c.Request().Context(), userID, claims.TrainerUUID(), claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logger.Debug("Session rejected", zap.String("path", c.Path()), zap.Error(err))
			return common.SendUnauthorizedError(c)
		},
	})
}

// SessionClaims returns the claims stored by JWTMiddleware, or nil.
func SessionClaims(c echo.Context) *services.SessionClaims {
	claims, _ := c.Get(ClaimsContextKey).(*services.SessionClaims)
	return claims
}
