package serverutils

import (
	"fmt"
	"time"

	"techgear-support-be/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
)

// Counter increments a windowed counter and returns its new value. The
// window starts on the first increment.
type Counter interface {
	Incr(key string, window time.Duration) (int, error)
}

type frameWindow struct {
	max  int
	span time.Duration
	unit string
}

// FrameLimiter applies the HTTP rate limits to messages that arrive on an
// already upgraded connection, where the fiber limiter never runs.
type FrameLimiter struct {
	windows  []frameWindow
	counters Counter
}

// NewFrameLimiter shares counters with storage when it can count (Redis),
// otherwise it keeps them in process memory.
func NewFrameLimiter(cfg config.RateLimitConfig, storage fiber.Storage) *FrameLimiter {
	l := &FrameLimiter{}
	if cfg.PerMinute > 0 {
		l.windows = append(l.windows, frameWindow{max: cfg.PerMinute, span: time.Minute, unit: "minute"})
	}
	if cfg.PerHour > 0 {
		l.windows = append(l.windows, frameWindow{max: cfg.PerHour, span: time.Hour, unit: "hour"})
	}

	if counter, ok := storage.(Counter); ok {
		l.counters = counter
	} else {
		l.counters = &memoryCounter{store: cache.New(time.Hour, 10*time.Minute)}
	}
	return l
}

// Allow counts one message for key and returns a 429 fiber.Error once any
// window is exhausted. Counter failures let the message through.
func (l *FrameLimiter) Allow(key string) error {
	for _, w := range l.windows {
		n, err := l.counters.Incr("ws:"+w.unit+":"+key, w.span)
		if err != nil {
			continue
		}
		if n > w.max {
			message := fmt.Sprintf("Rate limit exceeded: %d requests per %s. Retry after %d seconds.", w.max, w.unit, int(w.span.Seconds()))
			return fiber.NewError(fiber.StatusTooManyRequests, message)
		}
	}
	return nil
}

type memoryCounter struct {
	store *cache.Cache
}

func (m *memoryCounter) Incr(key string, window time.Duration) (int, error) {
	// Add fails when the key is live, which keeps the original expiry.
	_ = m.store.Add(key, 0, window)
	return m.store.IncrementInt(key, 1)
}
