// Package api implements the client for the legal Answer Service.
package api

import (
	"fmt"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"

	"github.com/diogo/lawchat/internal/models"
)

// DefaultTimeout is the transport timeout used when none is configured
const DefaultTimeout = 300 * time.Second

// httpDoer is the subset of tls_client.HttpClient the client needs
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts questions to the Answer Service
type Client struct {
	httpClient httpDoer
	endpoint   string
	topK       int
	timeout    time.Duration
	logger     zerolog.Logger
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithTimeout sets the transport timeout. The client itself never cancels a
// request; expiry is reported by the transport.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// withHTTPClient replaces the transport; used by tests
func withHTTPClient(doer httpDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// NewClient creates a new Client bound to the build's fixed endpoint
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		endpoint: models.AnswerEndpoint,
		topK:     models.DefaultTopK,
		timeout:  DefaultTimeout,
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the URL questions are posted to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// TopK returns the result-count parameter sent with each question
func (c *Client) TopK() int {
	return c.topK
}

// Close releases idle connections. Further calls fail with ErrClientClosed.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if idle, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		idle.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
