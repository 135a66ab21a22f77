package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/stylesheet/internal/infrastructure/logging"
	"github.com/GriffinCanCode/stylesheet/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/stylesheet/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/stylesheet/internal/styles"
)

// ContentTypeCSS is the content type of generated stylesheets
const ContentTypeCSS = "text/css"

// StylesHandler renders the color token stylesheet
type StylesHandler struct {
	fetcher styles.Fetcher
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewStylesHandler creates a stylesheet handler. logger and metrics may be nil.
func NewStylesHandler(fetcher styles.Fetcher, logger *logging.Logger, metrics *monitoring.Metrics) *StylesHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &StylesHandler{fetcher: fetcher, logger: logger, metrics: metrics}
}

// Generate fetches the token mapping and responds with the stylesheet.
// It always answers 200: a failed fetch is logged and renders as an
// empty stylesheet.
func (h *StylesHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	mapping := h.fetch(ctx)
	css, stats := styles.RenderWithStats(mapping)

	if h.metrics != nil {
		h.metrics.RecordRender(mapping.Len())
	}
	h.logger.Debug("stylesheet rendered",
		zap.Int("variables", stats.Variables),
		zap.Int("classes", stats.Classes),
		zap.String("trace_id", tracing.GetTraceID(ctx).String()),
	)

	c.Data(http.StatusOK, ContentTypeCSS, []byte(css))
}

// fetch makes the single upstream attempt, substituting an empty mapping
// for any failure, panic or null result.
func (h *StylesHandler) fetch(ctx context.Context) (mapping *styles.ColorTokenMapping) {
	timer := monitoring.NewTimer(h.metrics)

	defer func() {
		if r := recover(); r != nil {
			timer.Stop(monitoring.FetchError)
			h.logFetchError(ctx, fmt.Errorf("style-data client panicked: %v", r))
			mapping = styles.Empty()
		}
	}()

	mapping, err := h.fetcher.GetStyles(ctx)
	switch {
	case err != nil:
		timer.Stop(monitoring.FetchError)
		h.logFetchError(ctx, err)
		return styles.Empty()
	case mapping == nil:
		timer.Stop(monitoring.FetchEmpty)
		return styles.Empty()
	default:
		timer.Stop(monitoring.FetchSuccess)
		return mapping
	}
}

func (h *StylesHandler) logFetchError(ctx context.Context, err error) {
	h.logger.Error("failed to fetch styles",
		zap.Error(err),
		zap.String("trace_id", tracing.GetTraceID(ctx).String()),
	)
}
