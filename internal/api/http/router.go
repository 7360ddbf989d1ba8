package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-gateway/internal/api/http/handlers"
	"github.com/spec-kit/booking-gateway/internal/auth"
	apperrors "github.com/spec-kit/booking-gateway/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Schedule       *handlers.ScheduleHandler
	Reservations   *handlers.ReservationsHandler
	Accounts       *handlers.AccountsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The schedule is public; everything that
// acts on behalf of a user requires the bearer token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	schedule := app.Group("/schedule")
	schedule.Get("/week", cfg.Schedule.GetWeek)
	schedule.Get("/week/:resource", cfg.Schedule.GetWeekForResource)
	schedule.Get("/upcoming", cfg.Schedule.GetUpcoming)
	schedule.Post("/refresh", cfg.Schedule.Refresh)

	reservations := app.Group("/reservations", cfg.AuthMiddleware.Handle)
	reservations.Get("/mine", cfg.Reservations.ListMine)
	reservations.Post("/", cfg.Reservations.Create)
	reservations.Post("/:referenceNumber", cfg.Reservations.Update)
	reservations.Delete("/:referenceNumber", cfg.Reservations.Delete)

	accounts := app.Group("/accounts")
	accounts.Post("/", cfg.Accounts.Register)
	accounts.Get("/me", cfg.AuthMiddleware.Handle, cfg.Accounts.Get)
	accounts.Put("/me", cfg.AuthMiddleware.Handle, cfg.Accounts.Update)
	accounts.Put("/me/password", cfg.AuthMiddleware.Handle, cfg.Accounts.ChangePassword)

	dashboard := app.Group("/dashboard", cfg.AuthMiddleware.Handle)
	dashboard.Get("/stats", cfg.Dashboard.Stats)

	app.Use(NotFoundHandler)
}

// NotFoundHandler renders unknown routes through the standard error envelope.
// Registered after every route so it only sees requests nothing else matched.
func NotFoundHandler(c *fiber.Ctx) error {
	return apperrors.NewNotFound("route", map[string]any{
		"path":   c.Path(),
		"method": c.Method(),
	})
}
