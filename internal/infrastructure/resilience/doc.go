/*
Package resilience provides the circuit breaker guarding upstream calls.

A stylesheet request makes exactly one upstream fetch and never retries, so
the breaker only decides whether that single attempt is made at all. When the
style-data service keeps failing the breaker opens and calls fail fast with
ErrCircuitOpen, which callers treat like any other fetch failure.

# Usage

	breaker := resilience.New("styles-upstream", resilience.Settings{
		MaxProbes: 1,
		Window:    time.Minute,
		Cooldown:  15 * time.Second,
		ShouldTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	err := breaker.Do(func() error {
		return fetch(ctx)
	})

# States

	Closed --[trip]-> Open --[cooldown]-> Half-Open --[probes succeed]-> Closed
	                                          |
	                                      [failure]
	                                          v
	                                         Open
*/
package resilience
