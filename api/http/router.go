package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/artem13815/resumepay/api/http/handlers"
)

// Handlers groups everything Register mounts. MockCheckout and Metrics are optional.
type Handlers struct {
	Health       *handlers.HealthHandler
	Orders       *handlers.OrderHandler
	Webhooks     *handlers.WebhookHandler
	Objective    *handlers.ObjectiveHandler
	MockCheckout *handlers.MockCheckoutHandler
	Metrics      http.Handler
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, h Handlers) {
	if h.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.Metrics))
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", h.Health.Health)
	v1.Get("/ready", h.Health.Ready)

	o := v1.Group("/orders")
	o.Post("/", h.Orders.Create)
	o.Get("/:id", h.Orders.Get)
	o.Post("/:id/checkout", h.Orders.Checkout)
	o.Get("/:id/download", h.Orders.Download)

	v1.Post("/webhooks/payment", h.Webhooks.Payment)
	v1.Post("/objective/draft", h.Objective.Draft)

	if h.MockCheckout != nil {
		v1.Get("/mock-checkout/:session/complete", h.MockCheckout.Complete)
	}
}
