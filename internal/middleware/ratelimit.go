package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"trainerdesk/internal/caching"
	"trainerdesk/internal/common"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// AuthRateLimit throttles credential endpoints per client IP with a redis fixed
// window shared by every replica. The request is let through when redis is down.
func AuthRateLimit(cache caching.CacheService, limit int, window time.Duration, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "auth:" + c.RealIP()
			limited, err := cache.IsRateLimited(c.Request().Context(), key, limit, window)
			if err != nil {
				logger.Warn("Rate limiter unavailable", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			if limited {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				return c.JSON(http.StatusTooManyRequests,
					common.CreateErrorResponse("RATE_LIMITED", "Too many requests, please try again later", nil))
			}
			return next(c)
		}
	}
}

// PageRateLimit throttles public page reads per client IP in process.
func PageRateLimit(rps float64, burst int) echo.MiddlewareFunc {
	store := NewVisitorLimiterStore(rate.Limit(rps), burst, 3*time.Minute)
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests,
				common.CreateErrorResponse("RATE_LIMITED", "Too many requests, please try again later", nil))
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return common.SendForbiddenError(c)
		},
	})
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// VisitorLimiterStore keeps one token bucket per identifier and forgets
// identifiers idle for longer than expiresIn.
type VisitorLimiterStore struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	limit       rate.Limit
	burst       int
	expiresIn   time.Duration
	lastCleanup time.Time
	now         func() time.Time
}

func NewVisitorLimiterStore(limit rate.Limit, burst int, expiresIn time.Duration) *VisitorLimiterStore {
	if burst <= 0 {
		burst = int(limit)
		if burst < 1 {
			burst = 1
		}
	}
	return &VisitorLimiterStore{
		visitors:  make(map[string]*visitor),
		limit:     limit,
		burst:     burst,
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

// Allow implements echomw.RateLimiterStore.
func (s *VisitorLimiterStore) Allow(identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.lastCleanup.IsZero() {
		s.lastCleanup = now
	}
	v, ok := s.visitors[identifier]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[identifier] = v
	}
	v.lastSeen = now

	if now.Sub(s.lastCleanup) > s.expiresIn {
		for id, other := range s.visitors {
			if now.Sub(other.lastSeen) > s.expiresIn {
				delete(s.visitors, id)
			}
		}
		s.lastCleanup = now
	}
	return v.limiter.AllowN(now, 1), nil
}
