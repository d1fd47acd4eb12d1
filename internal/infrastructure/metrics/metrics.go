package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rafabene/avantpro-social/internal/domain/ports"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microblog_http_requests_total",
		Help: "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "microblog_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	domainActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "microblog_domain_actions_total",
		Help: "Committed domain mutations by action",
	}, []string{"action"})
)

// Recorder implementa ports.ActionRecorder com um CounterVec
type Recorder struct{}

var _ ports.ActionRecorder = Recorder{}

// Record incrementa o contador da ação
func (Recorder) Record(action string) {
	domainActions.WithLabelValues(action).Inc()
}

// Middleware mede requisições HTTP pela rota registrada (não pelo path cru)
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
