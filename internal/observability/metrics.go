package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_http_requests_total",
			Help: "Total number of HTTP requests processed by the market API.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "market_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	clientRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_client_requests_total",
			Help: "Total number of requests issued by the market client.",
		},
		[]string{"method", "outcome"},
	)
	clientRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "market_client_request_duration_seconds",
			Help:    "Market client request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	fallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_client_fallbacks_total",
			Help: "Total number of loads served from mock data after a remote failure.",
		},
		[]string{"resource"},
	)
	supersededTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_client_superseded_loads_total",
			Help: "Total number of load results discarded because a newer load was issued.",
		},
		[]string{"resource"},
	)
	mutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_client_mutations_total",
			Help: "Total number of optimistic mutations by outcome.",
		},
		[]string{"mutator", "outcome"},
	)
	unreadTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "market_client_unread_messages",
			Help: "Unread chat messages from the last chat list load.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		clientRequestsTotal,
		clientRequestDuration,
		fallbacksTotal,
		supersededTotal,
		mutationsTotal,
		unreadTotal,
	)
}

func HTTPMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}

			httpRequestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveClientRequest records one Resource Client call; outcome is "ok",
// "transport" or "status".
func ObserveClientRequest(method, outcome string, elapsed time.Duration) {
	clientRequestsTotal.WithLabelValues(method, outcome).Inc()
	clientRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func IncFallback(resource string) {
	fallbacksTotal.WithLabelValues(resource).Inc()
}

func IncSuperseded(resource string) {
	supersededTotal.WithLabelValues(resource).Inc()
}

func IncMutation(mutator, outcome string) {
	mutationsTotal.WithLabelValues(mutator, outcome).Inc()
}

func SetUnread(n int) {
	unreadTotal.Set(float64(n))
}
