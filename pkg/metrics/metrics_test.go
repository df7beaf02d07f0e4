package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amoylab/npipe-admin/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestMetrics() *Metrics {
	return New(config.MetricsConfig{Namespace: "test", Buckets: []float64{0.1, 1}})
}

func TestMetrics_RequestLifecycle(t *testing.T) {
	m := newTestMetrics()
	m.RequestStart("player_list")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reqInfl.WithLabelValues("player_list")))

	m.RequestDone("player_list", "payload", time.Now())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.reqInfl.WithLabelValues("player_list")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reqSubmitted.WithLabelValues("player_list")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reqCompleted.WithLabelValues("player_list", "payload")))

	m.RequestOrphaned("player_list")
	m.Logout("expired")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reqOrphaned.WithLabelValues("player_list")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logouts.WithLabelValues("expired")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RequestStart("x")
		m.RequestDone("x", "ack", time.Now())
		m.RequestOrphaned("x")
		m.Logout("user")
	})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestMetrics()

	r := gin.New()
	r.Use(m.Middleware())
	r.POST("/api/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpReqCnt.WithLabelValues("POST", "/api/login", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "test_http_requests_total"))
}
