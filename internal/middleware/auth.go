// Package middleware contains HTTP middleware for the Queens Ballers Republiq
// API. Middleware sits between the HTTP server and route handlers — it runs on
// every request that passes through it, which makes it the right home for
// cross-cutting concerns like authentication and role checks.
package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	// jwt parses the JSON Web Tokens Clerk puts in the Authorization header
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/qbrepubliq/ballers-api/internal/config"
	"github.com/qbrepubliq/ballers-api/internal/models"
)

// Claims defines the data we expect inside a Clerk JWT payload. Besides the
// standard fields (Subject = Clerk user ID, expiry, ...), the Clerk JWT
// template is configured to add:
//
//	"role":  "{{user.public_metadata.role}}"
//	"email": "{{user.primary_email_address}}"
//	"name":  "{{user.full_name}}"
//
// If the template hasn't been set up, role defaults to "user" and email/name
// fall back to placeholders.
type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`  // "admin", "manager", or "user"
	Email string `json:"email"` // Primary email address
	Name  string `json:"name"`  // Display name
}

// Auth returns a Fiber middleware handler that:
//  1. Validates the JWT from the "Authorization: Bearer <token>" header
//  2. Finds the matching user in our database (or creates one on first visit)
//  3. Syncs the user's role from the JWT into the database
//  4. Stores the user's internal UUID and role in c.Locals for downstream
//     handlers
func Auth(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		// TODO: replace ParseUnverified with full JWKS signature verification
		// against cfg.ClerkSecretKey before this ships to production.
		token, _, err := jwt.NewParser().ParseUnverified(tokenStr, &Claims{})
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token claims",
			})
		}

		clerkUserID := claims.Subject
		if clerkUserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token missing subject",
			})
		}

		// Lazy user sync: the first authenticated request creates the user
		// row, later requests just look it up.
		role := roleFromClaim(claims.Role)

		email := claims.Email
		if email == "" {
			// Deterministic placeholder until the JWT template supplies the
			// real address
			email = fmt.Sprintf("%s@clerk.local", clerkUserID)
		}

		name := claims.Name
		if name == "" {
			name = "Member"
		}

		var user models.User
		result := db.Where("clerk_id = ?", clerkUserID).First(&user)

		if result.Error != nil {
			if result.Error != gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "database error",
				})
			}

			user = models.User{
				ClerkID:     &clerkUserID,
				DisplayName: name,
				Email:       email,
				Role:        role,
			}
			if err := db.Create(&user).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to create user record",
				})
			}
		} else {
			// Keep the stored role in sync with Clerk in case an admin
			// changed it from the dashboard
			if user.Role != role && claims.Role != "" {
				db.Model(&user).Update("role", role)
				user.Role = role
			}
		}

		c.Locals("userID", user.ID.String())
		c.Locals("userRole", string(user.Role))

		return c.Next()
	}
}

// roleFromClaim converts the raw role string from the JWT into our typed
// UserRole, defaulting to the least-privileged role when the claim is missing
// or unrecognized.
func roleFromClaim(s string) models.UserRole {
	switch s {
	case "admin":
		return models.UserRoleAdmin
	case "manager":
		return models.UserRoleManager
	default:
		return models.UserRoleUser
	}
}
