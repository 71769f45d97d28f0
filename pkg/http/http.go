package http

import (
	"context"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRetryCount = 2
)

// ClientConfig tunes the outbound HTTP client used when talking to
// third-party sites.
type ClientConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" default:"30s"`
	RetryCount int           `mapstructure:"retry_count" default:"2"`

	// HTTPClient overrides the constructed client, used in tests.
	HTTPClient *http.Client `mapstructure:"-"`
}

// Client issues requests against third-party login endpoints with
// retries on transient failures.
type Client struct {
	httpClient *http.Client
}

func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = &ClientConfig{}
	}
	if config.HTTPClient != nil {
		return &Client{httpClient: config.HTTPClient}
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	retryCount := config.RetryCount
	if retryCount == 0 {
		retryCount = defaultRetryCount
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &RetryableTransport{
				Transport:  http.DefaultTransport,
				RetryCount: retryCount,
			},
		},
	}
}

// MakeRequest builds and sends a request, applying the given headers.
func (c *Client) MakeRequest(ctx context.Context, method, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.httpClient.Do(req)
}
