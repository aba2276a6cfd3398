package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Config holds settings for the API key middleware.
type Config struct {
	// ApiKey is the expected key. Empty disables the check entirely,
	// which is only appropriate for local development.
	ApiKey string
}

// New returns a middleware that validates the API key on every request.
// The key is accepted either as a Bearer token in the Authorization
// header or as a ?token= query parameter (so external cron triggers can
// call the sync endpoints without custom headers).
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}

		provided := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if provided == "" {
			provided = c.Query("token")
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing authentication token",
			})
		}

		return c.Next()
	}
}
