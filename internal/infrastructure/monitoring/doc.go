/*
Package monitoring provides Prometheus metrics for the stylesheet service.

Tracked:
  - HTTP requests (count, latency, response size) by route
  - upstream style-data fetches by outcome (success, empty, error)
  - upstream circuit breaker state
  - tokens rendered per stylesheet

Each Metrics owns its registry so several servers can coexist in one
process (tests do this).

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics)
	mapping, err := fetcher.GetStyles(ctx)
	timer.Stop(monitoring.FetchSuccess)
*/
package monitoring
