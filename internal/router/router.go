package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talentlens/interview-api/internal/config"
	"github.com/talentlens/interview-api/internal/handler"
	"github.com/talentlens/interview-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	InterviewHandler *handler.InterviewHandler
	AdminHandler     *handler.AdminHandler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/questions", handler.Questions())
	app.Get("/metrics", observability.MetricsHandler())

	if deps.InterviewHandler != nil {
		deps.InterviewHandler.Register(api.Group("/interviews"))
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin")
		deps.AdminHandler.RegisterPublic(admin)

		jwtMiddleware := deps.JWTMiddleware
		if jwtMiddleware == nil {
			jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
		}
		deps.AdminHandler.RegisterProtected(admin.Group("", jwtMiddleware))
	}
}
