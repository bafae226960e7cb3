package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/citizen-voice/feedback-service/internal/api/http/handlers"
	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Directory      *handlers.DirectoryHandler
	Submissions    *handlers.SubmissionsHandler
	Responses      *handlers.ResponsesHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	MetricsPath    string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		app.Get(cfg.MetricsPath, adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)

	authenticate := cfg.AuthMiddleware.Handle

	users := app.Group("/users", authenticate)
	users.Get("/:id", cfg.Users.GetUser)
	users.Patch("/:id", cfg.Users.UpdateUser)

	admin := app.Group("/admin", authenticate, auth.RequireAdmin())
	admin.Post("/users", cfg.Users.CreateUser)
	admin.Patch("/users/:id/role", cfg.Users.UpdateRole)

	agencies := app.Group("/agencies", authenticate)
	agencies.Post("/", cfg.Directory.CreateAgency)
	agencies.Get("/", cfg.Directory.ListAgencies)
	agencies.Get("/:id", cfg.Directory.GetAgency)
	agencies.Patch("/:id", cfg.Directory.UpdateAgency)

	categories := app.Group("/categories", authenticate)
	categories.Post("/", cfg.Directory.CreateCategory)
	categories.Get("/", cfg.Directory.ListCategories)
	categories.Get("/:id", cfg.Directory.GetCategory)
	categories.Patch("/:id", cfg.Directory.UpdateCategory)
	categories.Delete("/:id", cfg.Directory.DeleteCategory)

	submissions := app.Group("/submissions", authenticate)
	submissions.Post("/", cfg.Submissions.Create)
	submissions.Get("/", cfg.Submissions.List)
	submissions.Get("/summary", cfg.Submissions.Summary)
	submissions.Get("/:id", cfg.Submissions.Get)
	submissions.Patch("/:id", cfg.Submissions.Update)
	submissions.Get("/:id/responses", cfg.Submissions.Responses)
	submissions.Get("/:id/history", cfg.Submissions.History)

	responses := app.Group("/responses", authenticate)
	responses.Post("/", cfg.Responses.Create)
	responses.Get("/complaints", auth.RequireRole(domain.RoleAgencyStaff, domain.RoleAdmin), cfg.Responses.ListComplaints)
	responses.Get("/:id", cfg.Responses.Get)
	responses.Patch("/:id", cfg.Responses.Update)
}
