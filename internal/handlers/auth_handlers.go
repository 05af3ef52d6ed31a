package handlers

import (
	"errors"
	"net/http"
	"time"

	"trainerdesk/internal/common"
	"trainerdesk/internal/middleware"
	"trainerdesk/internal/models"
	"trainerdesk/internal/services"
	"trainerdesk/internal/subdomain"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandlers handles registration and session endpoints
type AuthHandlers struct {
	registrationService services.RegistrationService
	authService         services.AuthService
	secureCookies       bool
	logger              *zap.Logger
}

// NewAuthHandlers creates a new auth handlers instance. With secureCookies the
// session cookie is marked Secure and uses the __Secure- prefixed name.
func NewAuthHandlers(registrationService services.RegistrationService, authService services.AuthService, secureCookies bool, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		registrationService: registrationService,
		authService:         authService,
		secureCookies:       secureCookies,
		logger:              logger,
	}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned once the account and business exist
type RegisterResponse struct {
	Message string            `json:"message"`
	User    RegisteredUser    `json:"user"`
	Trainer RegisteredTrainer `json:"trainer"`
}

type RegisteredUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type RegisteredTrainer struct {
	ID        uuid.UUID `json:"id"`
	Subdomain string    `json:"subdomain"`
}

// LogoutResponse acknowledges a logout
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Register godoc
// @Summary Create a trainer account
// @Description Creates the trainer business and its owner, deriving a unique subdomain from the business name.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Registration payload"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} common.ErrorResponse
// @Failure 409 {object} common.ErrorResponse
// @Failure 500 {object} common.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandlers) Register(c echo.Context) error {
	var req services.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	result, err := h.registrationService.Register(c.Request().Context(), &req)
	if err != nil {
		var verrs common.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			return common.SendValidationError(c, "Validation failed", verrs)
		case errors.Is(err, models.ErrEmailTaken):
			return common.SendConflictError(c, "EMAIL_TAKEN", "User with this email already exists")
		case errors.Is(err, subdomain.ErrAllocationExhausted):
			return common.SendConflictError(c, "SUBDOMAIN_UNAVAILABLE",
				"Could not generate a unique subdomain for this business name. Please choose a different business name.")
		default:
			h.logger.Error("Registration failed", zap.Error(err))
			return common.SendServerError(c, "An error occurred during registration")
		}
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "Account created successfully",
		User: RegisteredUser{
			ID:    result.User.ID,
			Email: result.User.Email,
			Name:  result.User.Name,
		},
		Trainer: RegisteredTrainer{
			ID:        result.Trainer.ID,
			Subdomain: result.Trainer.Subdomain,
		},
	})
}

// Login godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} common.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	resp, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized,
			common.CreateErrorResponse("INVALID_CREDENTIALS", "Invalid email or password", nil))
	}
	if err != nil {
		h.logger.Error("Login failed", zap.Error(err))
		return common.SendServerError(c, "Failed to sign in")
	}

	c.SetCookie(h.sessionCookie(resp.AccessToken, resp.ExpiresAt))
	return c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary End the current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} LogoutResponse
// @Router /api/auth/logout [post]
func (h *AuthHandlers) Logout(c echo.Context) error {
	if claims := middleware.SessionClaims(c); claims != nil {
		if err := h.authService.RevokeToken(c.Request().Context(), claims); err != nil {
			h.logger.Warn("Failed to revoke session token", zap.String("token_id", claims.ID), zap.Error(err))
		}
	}

	for _, name := range []string{services.SessionCookieName, services.SecureSessionCookieName} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
		})
	}

	return c.JSON(http.StatusOK, LogoutResponse{Success: true, Message: "Logged out successfully"})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} common.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.authService.CurrentUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return common.SendNotFoundError(c, "User")
	}
	if err != nil {
		h.logger.Error("Failed to load current user", zap.String("user_id", userID.String()), zap.Error(err))
		return common.SendServerError(c, "Failed to fetch user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandlers) sessionCookie(token string, expires time.Time) *http.Cookie {
	name := services.SessionCookieName
	if h.secureCookies {
		name = services.SecureSessionCookieName
	}
	return &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
