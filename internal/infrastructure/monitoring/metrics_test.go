package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsIsolatedRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordFetch(FetchError, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.FetchTotal.WithLabelValues(FetchError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FetchTotal.WithLabelValues(FetchError)))
}

func TestTimer(t *testing.T) {
	m := NewMetrics()

	NewTimer(m).Stop(FetchSuccess)
	NewTimer(m).Stop(FetchSuccess)
	NewTimer(m).Stop(FetchEmpty)
	NewTimer(nil).Stop(FetchError)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FetchTotal.WithLabelValues(FetchSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchTotal.WithLabelValues(FetchEmpty)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FetchTotal.WithLabelValues(FetchError)))
}

func TestMiddlewareRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/styles.css", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/css", []byte("\n\n"))
	})

	for i := 0; i < 3; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/styles.css", nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/styles.css", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordRender(12)
	m.SetBreakerState(2)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "stylesheet_tokens_rendered_count 1"))
	assert.True(t, strings.Contains(body, "stylesheet_upstream_breaker_state 2"))
	assert.True(t, strings.Contains(body, "stylesheet_uptime_seconds"))
}
