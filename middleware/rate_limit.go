package middleware

import (
	"net"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/lac-hong-legacy/mooc_api/shared"
	log "github.com/sirupsen/logrus"
)

// SessionRateLimit caps session creation per client IP. A max of 0 or less
// disables the limit. A nil storage keeps counters in process memory.
func SessionRateLimit(max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "session_start:" + ClientIP(c)
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.WithFields(log.Fields{
				"ip":   ClientIP(c),
				"path": c.Path(),
			}).Warn("Session creation rate limit reached")
			return shared.ResponseError(c, fiber.StatusTooManyRequests, "Too many requests")
		},
	})
}

// ClientIP prefers proxy headers over the socket address.
func ClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
			return ip
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if cfIP := c.Get("CF-Connecting-IP"); cfIP != "" {
		return cfIP
	}

	addr := c.Context().RemoteAddr().String()
	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return ip
}
