package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestObserver records served requests; *metrics.Metrics satisfies it.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, took time.Duration)
}

// Observe times every request and reports it under the matched route pattern.
func Observe(obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		obs.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
