// health.go — liveness endpoint.
package handlers

import "github.com/gofiber/fiber/v2"

// HealthCheck handles GET /health. It answers a constant JSON body with no
// database work and no authentication — load balancers and container probes
// hit it to decide whether this instance should receive traffic.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
