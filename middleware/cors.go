package middleware

import (
	"github.com/gofiber/fiber/v2"
)

type CORSConfig struct {
	AllowOrigins string
	AllowMethods string
	AllowHeaders string
}

var DefaultCORSConfig = CORSConfig{
	AllowOrigins: "*",
	AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	AllowHeaders: "Content-Type, Authorization",
}

// CORS attaches permissive cross-origin headers to every response.
// Pre-flight requests end here with 200 and an empty body.
func CORS(config ...CORSConfig) fiber.Handler {
	cfg := DefaultCORSConfig
	if len(config) > 0 {
		cfg = config[0]
		if cfg.AllowOrigins == "" {
			cfg.AllowOrigins = DefaultCORSConfig.AllowOrigins
		}
		if cfg.AllowMethods == "" {
			cfg.AllowMethods = DefaultCORSConfig.AllowMethods
		}
		if cfg.AllowHeaders == "" {
			cfg.AllowHeaders = DefaultCORSConfig.AllowHeaders
		}
	}

	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, cfg.AllowOrigins)
		c.Set(fiber.HeaderAccessControlAllowMethods, cfg.AllowMethods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, cfg.AllowHeaders)

		if c.Method() == fiber.MethodOptions {
			c.Status(fiber.StatusOK)
			return nil
		}
		return c.Next()
	}
}
