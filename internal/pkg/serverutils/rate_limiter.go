package serverutils

import (
	"fmt"
	"strings"
	"time"

	"techgear-support-be/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// ClientKey identifies the caller for rate limiting: the first
// X-Forwarded-For hop when present, else the remote IP.
func ClientKey(ctx *fiber.Ctx) string {
	if fwd := ctx.Get(fiber.HeaderXForwardedFor); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	return ctx.IP()
}

// RateLimiters returns the per-minute and per-hour limiters. A nil storage
// keeps counters in process memory.
func RateLimiters(cfg config.RateLimitConfig, storage fiber.Storage) []fiber.Handler {
	var handlers []fiber.Handler
	if cfg.PerMinute > 0 {
		handlers = append(handlers, newLimiter(cfg.PerMinute, time.Minute, "minute", storage))
	}
	if cfg.PerHour > 0 {
		handlers = append(handlers, newLimiter(cfg.PerHour, time.Hour, "hour", storage))
	}
	return handlers
}

func newLimiter(max int, window time.Duration, unit string, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Next: func(ctx *fiber.Ctx) bool {
			return ctx.Path() == "/health"
		},
		KeyGenerator: func(ctx *fiber.Ctx) string {
			return unit + ":" + ClientKey(ctx)
		},
		LimitReached: func(ctx *fiber.Ctx) error {
			message := fmt.Sprintf("Rate limit exceeded: %d requests per %s. Retry after %d seconds.", max, unit, int(window.Seconds()))
			return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse(fiber.StatusTooManyRequests, message))
		},
		Storage: storage,
	})
}
