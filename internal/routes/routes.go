package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/opencivic/civicreport/internal/handlers"
)

func Setup(
	app *fiber.App,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	uploadDir string,
) {
	// Health and static uploads sit outside the rate limiter.
	app.Get("/health", healthHandler.Check)
	app.Static("/uploads", uploadDir)

	// Report API: 60 req/min per IP
	reports := app.Group("/reports", limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	reports.Post("/", reportHandler.Submit)
	reports.Get("/", reportHandler.List)
	reports.Get("/:id", reportHandler.Get)
	reports.Post("/:id/update", reportHandler.Update)
	reports.Post("/:id/assign", reportHandler.Assign)
}
