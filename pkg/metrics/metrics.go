package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/amoylab/npipe-admin/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of both the admin client and the mock backend.
// Every method is safe on a nil receiver so metrics can be switched off.
type Metrics struct {
	registry  *prometheus.Registry
	namespace string

	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
	httpInfl   *prometheus.GaugeVec

	reqSubmitted *prometheus.CounterVec
	reqCompleted *prometheus.CounterVec
	reqDur       *prometheus.HistogramVec
	reqInfl      *prometheus.GaugeVec
	reqOrphaned  *prometheus.CounterVec
	logouts      *prometheus.CounterVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	r := prometheus.NewRegistry()
	// Register standard process and Go collectors
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	// Served HTTP requests, used by the mock backend
	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: cfg.Buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	// Submitted operations, used by the request registry
	reqSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "operation_submitted_total"}, []string{"operation"})
	reqCompleted := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "operation_completed_total"}, []string{"operation", "outcome"})
	reqDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "operation_duration_seconds", Buckets: cfg.Buckets}, []string{"operation", "outcome"})
	reqInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "operation_inflight"}, []string{"operation"})
	reqOrphaned := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "operation_orphaned_total"}, []string{"operation"})
	logouts := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "session_logout_total"}, []string{"reason"})
	r.MustRegister(reqSubmitted, reqCompleted, reqDur, reqInfl, reqOrphaned, logouts)

	return &Metrics{
		registry:     r,
		namespace:    ns,
		httpReqCnt:   httpReqCnt,
		httpDur:      httpDur,
		httpInfl:     httpInfl,
		reqSubmitted: reqSubmitted,
		reqCompleted: reqCompleted,
		reqDur:       reqDur,
		reqInfl:      reqInfl,
		reqOrphaned:  reqOrphaned,
		logouts:      logouts,
	}
}

func (m *Metrics) RequestStart(operation string) {
	if m == nil {
		return
	}
	m.reqSubmitted.WithLabelValues(operation).Inc()
	m.reqInfl.WithLabelValues(operation).Inc()
}

func (m *Metrics) RequestDone(operation, outcome string, since time.Time) {
	if m == nil {
		return
	}
	m.reqCompleted.WithLabelValues(operation, outcome).Inc()
	m.reqDur.WithLabelValues(operation, outcome).Observe(time.Since(since).Seconds())
	m.reqInfl.WithLabelValues(operation).Dec()
}

// RequestOrphaned counts a completion that landed in a replaced or cleared slot
func (m *Metrics) RequestOrphaned(operation string) {
	if m == nil {
		return
	}
	m.reqOrphaned.WithLabelValues(operation).Inc()
}

func (m *Metrics) Logout(reason string) {
	if m == nil {
		return
	}
	m.logouts.WithLabelValues(reason).Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
