package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Files          *handlers.FilesHandler
	Triage         *handlers.TriageHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)

	users := protected.Group("/users")
	users.Get("/me", cfg.Users.Me)
	users.Get("", auth.RequireRole(domain.RoleAdmin), cfg.Users.List)
	users.Post("", auth.RequireRole(domain.RoleAdmin), cfg.Users.Create)

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Post("/triage", cfg.Tickets.CreateWithTriage)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/search", cfg.Tickets.Search)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Post("/:id/assign", auth.RequireRole(domain.RoleAgent, domain.RoleAdmin), cfg.Tickets.Assign)
	tickets.Post("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/rate", cfg.Tickets.Rate)
	tickets.Get("/:id/rate", cfg.Tickets.GetRating)
	tickets.Post("/:id/comments", cfg.Comments.Add)
	tickets.Get("/:id/comments", cfg.Comments.List)
	tickets.Post("/:id/attachments", cfg.Files.Upload)
	tickets.Get("/:id/attachments", cfg.Files.List)

	protected.Get("/files/:id", cfg.Files.Download)

	triage := protected.Group("/triage")
	triage.Post("/predict", cfg.Triage.Predict)
	triage.Get("/model-info", cfg.Triage.ModelInfo)

	admin := protected.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/stats", cfg.Admin.Stats)
}
