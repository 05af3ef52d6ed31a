package middleware

import (
	"strings"

	"trainerdesk/internal/common"
	"trainerdesk/internal/metrics"
	"trainerdesk/internal/subdomain"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// TenantResolverConfig configures TenantResolver.
type TenantResolverConfig struct {
	Skipper  echomw.Skipper
	Resolver *subdomain.Resolver
	Metrics  *metrics.Metrics
}

// TenantResolver maps tenant hosts onto their public page. It must run as a Pre
// middleware so the router sees the rewritten path. The rewrite is internal:
// the client never receives a redirect.
func TenantResolver(cfg TenantResolverConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = echomw.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			res := cfg.Resolver.Resolve(req.Host)
			if cfg.Metrics != nil {
				cfg.Metrics.ObserveResolution(res.Rewrite)
			}
			if !res.Rewrite {
				return next(c)
			}

			c.Set(common.OriginalPathKey, req.URL.Path)
			req.URL.Path = res.Path()
			req.URL.RawPath = ""
			return next(c)
		}
	}
}

// SkipInfrastructure exempts probes, metrics and API docs from tenant rewrites,
// which are addressed by IP or bare host inside a cluster.
func SkipInfrastructure(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/health" || strings.HasPrefix(p, "/health/") ||
		p == "/metrics" || strings.HasPrefix(p, "/swagger/")
}
