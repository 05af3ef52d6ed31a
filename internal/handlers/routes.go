package handlers

import (
	"trainerdesk/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// uploadBodyLimit leaves room for multipart framing around a 4MB image.
const uploadBodyLimit = "5M"

// Routes holds every handler group and the middleware the routes depend on.
// A nil limiter disables that limit.
type Routes struct {
	Auth      *AuthHandlers
	Trainers  *TrainerHandlers
	Pages     *PageHandlers
	Dashboard *DashboardHandlers
	Uploads   *UploadHandlers
	Health    *HealthHandlers

	Session     echo.MiddlewareFunc
	AuthLimiter echo.MiddlewareFunc
	PageLimiter echo.MiddlewareFunc
}

// Register mounts the HTTP surface on e.
func (r *Routes) Register(e *echo.Echo) {
	e.GET("/health", r.Health.LivenessCheck)
	e.GET("/health/ready", r.Health.ReadinessCheck)

	e.GET("/pages/:subdomain", r.Pages.GetPage, present(r.PageLimiter)...)

	api := e.Group("/api")
	api.GET("/timezones", r.Trainers.ListTimezones)

	auth := api.Group("/auth")
	auth.POST("/register", r.Auth.Register, present(r.AuthLimiter)...)
	auth.POST("/login", r.Auth.Login, present(r.AuthLimiter)...)
	auth.POST("/logout", r.Auth.Logout, r.Session)
	auth.GET("/me", r.Auth.Me, r.Session)

	trainers := api.Group("/trainers", r.Session)
	trainers.GET("/:trainerId", r.Trainers.GetTrainer, middleware.RequireTrainerAccess("trainerId"))
	trainers.PATCH("/:trainerId", r.Trainers.UpdateTrainer, middleware.RequireTrainerAccess("trainerId"))

	dashboard := api.Group("/dashboard", r.Session, middleware.RequireTrainer())
	dashboard.GET("/stats", r.Dashboard.GetStats)
	dashboard.GET("/bookings", r.Dashboard.GetUpcomingBookings)

	uploads := api.Group("/uploads", r.Session, middleware.RequireTrainer(), echomw.BodyLimit(uploadBodyLimit))
	uploads.POST("/profile-image", r.Uploads.UploadProfileImage)
}

func present(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := mws[:0]
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}
