package stylesdata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/stylesheet/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/stylesheet/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/stylesheet/internal/styles"
)

const (
	getStylesOperation = "GetStyles"
	getStylesQuery     = "query GetStyles { getStyles }"
	userAgent          = "stylesheet-service/1.0"
)

var (
	// ErrUpstream reports a non-2xx response from the style-data service
	ErrUpstream = errors.New("style-data service returned an error status")
	// ErrGraphQL reports a response carrying GraphQL errors
	ErrGraphQL = errors.New("style-data query failed")
	// ErrMalformed reports a response that is not a GraphQL JSON envelope
	ErrMalformed = errors.New("malformed style-data response")
)

// Options configures a Client
type Options struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
	// RPS caps outgoing requests per second; 0 means unlimited
	RPS     float64
	Headers map[string]string
	// Breaker guards the upstream; nil gets a default breaker
	Breaker *resilience.Breaker
}

// Client fetches color tokens from the style-data GraphQL service
type Client struct {
	resty    *resty.Client
	limiter  *rate.Limiter
	breaker  *resilience.Breaker
	endpoint string
	mu       sync.RWMutex
}

type graphQLRequest struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName"`
}

// NewClient creates a client making exactly one attempt per fetch
func NewClient(opts Options) *Client {
	// pooled transport only; retries stay disabled
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	restyClient := resty.New().
		SetTransport(retryClient.HTTPClient.Transport).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	for k, v := range opts.Headers {
		restyClient.SetHeader(k, v)
	}
	if opts.Token != "" {
		restyClient.SetAuthToken(opts.Token)
	}

	breaker := opts.Breaker
	if breaker == nil {
		breaker = NewBreaker(nil)
	}

	return &Client{
		resty:    restyClient,
		limiter:  newLimiter(opts.RPS),
		breaker:  breaker,
		endpoint: opts.Endpoint,
	}
}

// NewBreaker builds the breaker used for the style-data service.
// onChange, if set, observes state transitions.
func NewBreaker(onChange func(from, to resilience.State)) *resilience.Breaker {
	settings := resilience.Settings{
		MaxProbes: 1,
		Window:    time.Minute,
		Cooldown:  15 * time.Second,
		ShouldTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5 ||
				(counts.Requests >= 20 && float64(counts.TotalFailures)/float64(counts.Requests) > 0.5)
		},
	}
	if onChange != nil {
		settings.OnStateChange = func(_ string, from, to resilience.State) { onChange(from, to) }
	}
	return resilience.New("styles-upstream", settings)
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// SetRateLimit replaces the outgoing rate limit
func (c *Client) SetRateLimit(rps float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.limiter = newLimiter(rps)
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// GetStyles fetches the color token mapping. A null result returns a nil
// mapping and no error.
func (c *Client) GetStyles(ctx context.Context) (*styles.ColorTokenMapping, error) {
	c.mu.RLock()
	limiter := c.limiter
	c.mu.RUnlock()

	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	var mapping *styles.ColorTokenMapping
	err := c.breaker.Do(func() error {
		m, err := c.fetch(ctx)
		mapping = m
		// an abandoned request says nothing about upstream health
		if err != nil && ctx.Err() != nil {
			return resilience.Ignore(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

func (c *Client) fetch(ctx context.Context) (*styles.ColorTokenMapping, error) {
	req := c.resty.R().
		SetContext(ctx).
		SetBody(graphQLRequest{Query: getStylesQuery, OperationName: getStylesOperation})
	tracing.InjectTraceContext(ctx, req.Header)

	resp, err := req.Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("request styles: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %d", ErrUpstream, resp.StatusCode())
	}

	return decodeResponse(resp.Body())
}

func decodeResponse(body []byte) (*styles.ColorTokenMapping, error) {
	if !sonic.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root, err := sonic.Get(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if root.Type() != ast.V_OBJECT {
		return nil, ErrMalformed
	}

	if msgs, err := graphQLErrors(root.Get("errors")); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	} else if len(msgs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrGraphQL, strings.Join(msgs, "; "))
	}

	result := root.Get("data").Get("getStyles")
	if !result.Exists() || result.Type() == ast.V_NULL {
		return nil, nil
	}

	// some gateways serialize JSON scalars as strings
	if result.Type() == ast.V_STRING {
		raw, err := result.String()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		mapping, err := styles.ParseMapping([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return mapping, nil
	}

	mapping, err := styles.ParseMappingNode(result)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return mapping, nil
}

func graphQLErrors(node *ast.Node) ([]string, error) {
	if !node.Exists() || node.Type() != ast.V_ARRAY {
		return nil, nil
	}

	var msgs []string
	err := node.ForEach(func(_ ast.Sequence, e *ast.Node) bool {
		msg := "unknown error"
		if m := e.Get("message"); m.Exists() && m.Type() == ast.V_STRING {
			if s, err := m.String(); err == nil && s != "" {
				msg = s
			}
		}
		msgs = append(msgs, msg)
		return true
	})
	return msgs, err
}
