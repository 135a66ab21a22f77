package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/stylesheet/internal/infrastructure/logging"
	"github.com/GriffinCanCode/stylesheet/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/stylesheet/internal/styles"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) GetStyles(ctx context.Context) (*styles.ColorTokenMapping, error) {
	args := m.Called(ctx)
	mapping, _ := args.Get(0).(*styles.ColorTokenMapping)
	return mapping, args.Error(1)
}

func setupRouter(fetcher styles.Fetcher) (*gin.Engine, *observer.ObservedLogs, *monitoring.Metrics) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.DebugLevel)
	metrics := monitoring.NewMetrics()
	handler := NewStylesHandler(fetcher, logging.Wrap(zap.New(core)), metrics)

	router := gin.New()
	router.GET("/styles.css", handler.Generate)
	return router, logs, metrics
}

func get(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/styles.css", nil))
	return w
}

func TestGenerateBasic(t *testing.T) {
	mapping := styles.Empty()
	mapping.Add("background", "base", "#FFFFFF")
	mapping.Add("text", "base", "#000000")

	fetcher := new(mockFetcher)
	fetcher.On("GetStyles", mock.Anything).Return(mapping, nil).Once()
	router, _, metrics := setupRouter(fetcher)

	w := get(router)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentTypeCSS, w.Header().Get("Content-Type"))
	assert.Equal(t, ":root {\n"+
		"  --background-base: #FFFFFF;\n"+
		"  --text-base: #000000;\n"+
		"}\n\n"+
		".bg-base {\n  background-color: var(--background-base);\n}\n"+
		"\n"+
		".c-base {\n  color: var(--text-base);\n}\n", w.Body.String())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchTotal.WithLabelValues(monitoring.FetchSuccess)))
	fetcher.AssertExpectations(t)
}

func TestGenerateCustomCategory(t *testing.T) {
	mapping := styles.Empty()
	mapping.Add("custom_group", "accent_1", "red")

	router, _, _ := setupRouter(styles.FetcherFunc(func(context.Context) (*styles.ColorTokenMapping, error) {
		return mapping, nil
	}))

	body := get(router).Body.String()

	assert.Contains(t, body, "--custom-group-accent-1: red;")
	assert.Contains(t, body, ".custom-group-accent-1 {\n  background-color: var(--custom-group-accent-1);\n}")
}

func TestGenerateFetchError(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("GetStyles", mock.Anything).Return(nil, errors.New("upstream down")).Once()
	router, logs, metrics := setupRouter(fetcher)

	w := get(router)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentTypeCSS, w.Header().Get("Content-Type"))
	assert.Equal(t, "\n\n", w.Body.String())

	entries := logs.FilterMessage("failed to fetch styles").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "upstream down", entries[0].ContextMap()["error"])

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchTotal.WithLabelValues(monitoring.FetchError)))
	fetcher.AssertExpectations(t)
}

func TestGenerateFetcherPanics(t *testing.T) {
	router, logs, _ := setupRouter(styles.FetcherFunc(func(context.Context) (*styles.ColorTokenMapping, error) {
		panic("boom")
	}))

	w := get(router)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "\n\n", w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("failed to fetch styles").Len())
}

func TestGenerateNilMapping(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("GetStyles", mock.Anything).Return(nil, nil).Once()
	router, logs, metrics := setupRouter(fetcher)

	w := get(router)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "\n\n", w.Body.String())
	assert.Equal(t, 0, logs.FilterMessage("failed to fetch styles").Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchTotal.WithLabelValues(monitoring.FetchEmpty)))
}

func TestGenerateFetchesOncePerRequest(t *testing.T) {
	mapping := styles.Empty()
	mapping.Add("border", "base", "#ccc")

	fetcher := new(mockFetcher)
	fetcher.On("GetStyles", mock.Anything).Return(mapping, nil).Times(2)
	router, _, metrics := setupRouter(fetcher)

	first := get(router).Body.String()
	second := get(router).Body.String()

	assert.Equal(t, first, second)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.FetchTotal.WithLabelValues(monitoring.FetchSuccess)))
	fetcher.AssertNumberOfCalls(t, "GetStyles", 2)
}

func TestGenerateNilDependencies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStylesHandler(styles.FetcherFunc(func(context.Context) (*styles.ColorTokenMapping, error) {
		return nil, errors.New("nope")
	}), nil, nil)

	router := gin.New()
	router.GET("/styles.css", handler.Generate)

	w := get(router)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "\n\n", w.Body.String())
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		upstream func() string
		expected string
	}{
		{name: "no upstream", expected: `{"status":"ok"}`},
		{name: "with upstream", upstream: func() string { return "open" }, expected: `{"status":"ok","upstream":"open"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", NewHealthHandler(tt.upstream).Health)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.expected, w.Body.String())
		})
	}
}
