package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/magazine-service/internal/api/http/handlers"
	"github.com/spec-kit/magazine-service/internal/auth"
	"github.com/spec-kit/magazine-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Magazines      *handlers.MagazinesHandler
	Comments       *handlers.CommentsHandler
	Subscriptions  *handlers.SubscriptionsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	v1 := app.Group("/v1")
	v1.Get("/health", cfg.Health.Ready)

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)
	authGroup.Post("/verify-email", cfg.Auth.VerifyEmail)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.Logout)

	magazines := v1.Group("/magazines")
	magazines.Get("/", cfg.Magazines.List)
	magazines.Post("/", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin, domain.RolePublisher), cfg.Magazines.Create)
	magazines.Put("/:id", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin, domain.RolePublisher), cfg.Magazines.Update)
	magazines.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin, domain.RolePublisher), cfg.Magazines.Delete)

	comments := v1.Group("/comments")
	comments.Get("/", cfg.Comments.List)
	comments.Post("/", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin, domain.RoleSubscriber), cfg.Comments.Create)
	comments.Get("/pending", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), cfg.Comments.ListPending)
	comments.Post("/:id/approve", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), cfg.Comments.Approve)

	subscriptions := v1.Group("/subscriptions", cfg.AuthMiddleware.Handle)
	subscriptions.Get("/", auth.RequireRole(domain.RoleAdmin), cfg.Subscriptions.List)
	subscriptions.Post("/", auth.RequireRole(domain.RoleAdmin, domain.RoleSubscriber), cfg.Subscriptions.Subscribe)
	subscriptions.Post("/:id/activate", auth.RequireRole(domain.RoleAdmin, domain.RolePublisher), cfg.Subscriptions.Activate)
	subscriptions.Post("/:id/cancel", auth.RequireRole(domain.RoleAdmin, domain.RoleSubscriber), cfg.Subscriptions.Cancel)

	admin := v1.Group("/admin", cfg.AuthMiddleware.Handle)
	admin.Get("/users", auth.RequireRole(domain.RoleAdmin), cfg.Admin.ListUsers)
	admin.Put("/users/:id/role", auth.RequireRole(domain.RoleAdmin), cfg.Admin.UpdateUserRole)
	admin.Get("/roles", auth.RequireRole(domain.RoleAdmin), cfg.Admin.ListRoles)
	admin.Get("/activities", auth.RequireRole(domain.RoleAdmin), cfg.Admin.ListActivities)
	admin.Get("/me/permissions", auth.RequireAuthenticated(), cfg.Admin.MyPermissions)
}
