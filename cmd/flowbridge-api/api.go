// Package main provides the flowbridge API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/consuelo/flowbridge/pkg/services"
	"github.com/consuelo/flowbridge/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger     *slog.Logger
	automation *services.Automation
	validate   *validator.Validate
}

func NewAPI(logger *slog.Logger, automation *services.Automation) *API {
	return &API{
		logger:     logger,
		automation: automation,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.automation, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("flowbridge API")
	})

	f := app.Group("/flows")
	f.Post("/", handlers.CreateFlow)
	f.Get("/", handlers.GetFlows)
	f.Get("/:id", handlers.GetFlow)
	f.Patch("/:id", handlers.UpdateFlow)
	f.Delete("/:id", handlers.DeleteFlow)
	f.Post("/:id/activate", handlers.ActivateFlow)
	f.Post("/:id/deactivate", handlers.DeactivateFlow)
	f.Get("/:id/webhook-url", handlers.GetWebhookURL)

	c := app.Group("/connections")
	c.Post("/", handlers.CreateConnection)
	c.Get("/", handlers.GetConnections)
	c.Delete("/:id", handlers.DeleteConnection)

	d := app.Group("/folders")
	d.Post("/", handlers.CreateFolder)
	d.Get("/", handlers.GetFolders)
	d.Get("/:id", handlers.GetFolder)
	d.Put("/:id", handlers.UpdateFolder)
	d.Delete("/:id", handlers.DeleteFolder)

	r := app.Group("/runs")
	r.Get("/", handlers.GetFlowRuns)
	r.Get("/:id", handlers.GetFlowRun)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
