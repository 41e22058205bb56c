package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	GatewayCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_gateway_calls_total",
			Help: "Completion gateway calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	GatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "completion_gateway_duration_seconds",
			Help:    "Duration of completion gateway calls",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)
)

var registerOnce sync.Once

// Init 可重复调用，测试中多次构建 App 时不会重复注册
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(GatewayCalls)
		prometheus.MustRegister(GatewayDuration)
	})
}

// ObserveGateway 记录一次网关调用，outcome 为 ok / unavailable / schema_mismatch 等
func ObserveGateway(operation, outcome string, elapsed time.Duration) {
	GatewayCalls.WithLabelValues(operation, outcome).Inc()
	GatewayDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
