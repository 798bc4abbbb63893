package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts failed Redis operations by operation name. Incremented
// from the cache layer so dashboards can separate cache failures from
// application errors.
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "portfolio_redis_errors_total",
		Help: "Total number of Redis operation errors",
	},
	[]string{"operation"},
)

// InitMetrics creates the Prometheus HTTP middleware for the given service.
// The caller is responsible for registering the scrape endpoint on the app.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
