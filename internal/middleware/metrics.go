package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipstream_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// MediaDeleteFailures counts best-effort media store deletions that did not succeed.
	MediaDeleteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipstream_media_delete_failures_total",
		Help: "Total number of failed best-effort media object deletions",
	})
)

// InitMetrics initializes the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns a Fiber handler that records request metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
