package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// HTTPClientConfig bundles the HTTP client and the optional circuit breaker.
type HTTPClientConfig struct {
	Client  *http.Client
	Breaker *gobreaker.CircuitBreaker // nil disables the breaker
}

// BreakerSettings controls when the optional circuit breaker opens.
type BreakerSettings struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

var (
	errNoHTTPClient = errors.New("http client not configured")
	errCircuitOpen  = errors.New("circuit breaker open")
	errUnexpected   = errors.New("unexpected status code")
)

// NewHTTPClient returns a client that opens a fresh connection per request.
// A zero timeout leaves the platform default (no deadline) in place.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DisableKeepAlives: true,
		},
	}
}

// NewBreaker builds a circuit breaker that trips after n consecutive failures.
func NewBreaker(name string, s BreakerSettings) *gobreaker.CircuitBreaker {
	threshold := s.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
}

// doRequest executes a single GET and returns the body of a 2xx response.
// There are no retries: a failure is reported to the caller as is.
func doRequest(ctx context.Context, cfg HTTPClientConfig, url string) ([]byte, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	call := func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: build request: %v", weather.ErrNetwork, err)
		}

		resp, err := cfg.Client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", weather.ErrNetwork, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("%w: %w: %d %s", weather.ErrNetwork, errUnexpected, resp.StatusCode, string(snippet))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", weather.ErrNetwork, err)
		}
		return body, nil
	}

	if cfg.Breaker == nil {
		result, err := call()
		if err != nil {
			return nil, err
		}
		return result.([]byte), nil
	}

	result, err := cfg.Breaker.Execute(call)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w: %v", weather.ErrNetwork, errCircuitOpen, err)
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return body, nil
}
