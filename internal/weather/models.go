package weather

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNetwork covers connection failures, timeouts and non-2xx responses.
	ErrNetwork = errors.New("network error")
	// ErrParse is returned when the response body is not valid JSON.
	ErrParse = errors.New("parse error")
	// ErrMissingField is returned when the JSON lacks an expected key.
	ErrMissingField = errors.New("missing field")
)

// DefaultCondition is reported when no readings have been collected.
const DefaultCondition = "Clear"

const absoluteZeroC = 273.15

// KelvinToCelsius converts a Kelvin temperature to degrees Celsius.
func KelvinToCelsius(k float64) float64 {
	return k - absoluteZeroC
}

// Payload is the subset of an OpenWeatherMap current-weather response we read.
// Pointer fields distinguish a missing key from a zero value.
type Payload struct {
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
	} `json:"main"`
	Weather []struct {
		Main *string `json:"main"`
	} `json:"weather"`
}

// Temperature returns main.temp in Celsius.
func (p Payload) Temperature() (float64, error) {
	if p.Main == nil || p.Main.Temp == nil {
		return 0, fmt.Errorf("%w: main.temp", ErrMissingField)
	}
	return KelvinToCelsius(*p.Main.Temp), nil
}

// FeelsLike returns main.feels_like in Celsius.
func (p Payload) FeelsLike() (float64, error) {
	if p.Main == nil || p.Main.FeelsLike == nil {
		return 0, fmt.Errorf("%w: main.feels_like", ErrMissingField)
	}
	return KelvinToCelsius(*p.Main.FeelsLike), nil
}

// Condition returns weather[0].main, e.g. "Rain" or "Clear".
func (p Payload) Condition() (string, error) {
	if len(p.Weather) == 0 || p.Weather[0].Main == nil {
		return "", fmt.Errorf("%w: weather[0].main", ErrMissingField)
	}
	return *p.Weather[0].Main, nil
}

// Validate checks the fields every reading needs.
func (p Payload) Validate() error {
	if _, err := p.Temperature(); err != nil {
		return err
	}
	_, err := p.Condition()
	return err
}

// Reading is one city's parsed, unit-converted weather sample.
type Reading struct {
	ID           string    `json:"id"`
	City         string    `json:"city"`
	TemperatureC float64   `json:"temperatureC"`
	FeelsLikeC   float64   `json:"feelsLikeC"`
	Condition    string    `json:"condition"`
	Timestamp    time.Time `json:"timestamp"` // always UTC
}

// NewReading converts a payload into a Reading stamped with the fetch time.
// A payload without feels_like yields a NaN FeelsLikeC rather than an error.
func NewReading(city string, p Payload, fetchedAt time.Time) (Reading, error) {
	temp, err := p.Temperature()
	if err != nil {
		return Reading{}, err
	}
	cond, err := p.Condition()
	if err != nil {
		return Reading{}, err
	}
	feels, err := p.FeelsLike()
	if err != nil {
		feels = math.NaN()
	}

	return Reading{
		ID:           uuid.NewString(),
		City:         city,
		TemperatureC: temp,
		FeelsLikeC:   feels,
		Condition:    cond,
		Timestamp:    fetchedAt.UTC(),
	}, nil
}
