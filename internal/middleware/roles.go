// roles.go — role-based access control. The platform has three global roles
// (admin, manager, user); routes that mutate anything are gated on the first
// two. RequireRole must be used AFTER Auth, because Auth is what populates
// "userRole" in the request context.
package middleware

import "github.com/gofiber/fiber/v2"

// RequireRole returns a middleware handler that allows only users whose role
// matches one of the provided roles, answering 403 Forbidden otherwise.
//
// It accepts a variadic list so a route can allow several roles at once:
//
//	api.Post("/games", middleware.RequireRole("admin", "manager"), handlers.CreateGame(db))
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals("userRole").(string)
		if !ok || userRole == "" {
			// No role in the context means Auth wasn't applied or failed —
			// deny rather than guess
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}

		for _, role := range roles {
			if userRole == role {
				return c.Next()
			}
		}

		// Authenticated but not authorized
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
}
