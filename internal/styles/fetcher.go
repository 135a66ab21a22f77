package styles

import "context"

// Fetcher retrieves the color token mapping from the style-data service.
// Implementations make one idempotent read per call; a nil mapping with a
// nil error means the service had nothing to return.
type Fetcher interface {
	GetStyles(ctx context.Context) (*ColorTokenMapping, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context) (*ColorTokenMapping, error)

// GetStyles calls f
func (f FetcherFunc) GetStyles(ctx context.Context) (*ColorTokenMapping, error) {
	return f(ctx)
}
