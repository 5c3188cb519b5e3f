package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// DefaultOpenWeatherBaseURL is the current-weather endpoint with the city query key left open.
const DefaultOpenWeatherBaseURL = "http://api.openweathermap.org/data/2.5/weather?q="

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
}

// OpenWeatherOption customises an OpenWeatherProvider.
type OpenWeatherOption func(*OpenWeatherProvider)

// BaseURLOption points the provider at a different endpoint, e.g. a test server.
func BaseURLOption(baseURL string) OpenWeatherOption {
	return func(p *OpenWeatherProvider) {
		if baseURL != "" {
			p.baseURL = baseURL
		}
	}
}

// BreakerOption guards every request with cb.
func BreakerOption(cb *gobreaker.CircuitBreaker) OpenWeatherOption {
	return func(p *OpenWeatherProvider) {
		p.httpCfg.Breaker = cb
	}
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...OpenWeatherOption) *OpenWeatherProvider {
	p := &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: DefaultOpenWeatherBaseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// URL returns the request URL for city. City names are embedded verbatim.
func (p *OpenWeatherProvider) URL(city string) string {
	return p.baseURL + city + "&appid=" + p.apiKey
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, city string) (weather.Payload, error) {
	if p.apiKey == "" {
		return weather.Payload{}, fmt.Errorf("openweather api key is not configured")
	}

	body, err := doRequest(ctx, p.httpCfg, p.URL(city))
	if err != nil {
		return weather.Payload{}, err
	}

	var payload weather.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Payload{}, fmt.Errorf("%w: %v", weather.ErrParse, err)
	}
	if err := payload.Validate(); err != nil {
		return weather.Payload{}, err
	}

	return payload, nil
}
