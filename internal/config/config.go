package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the OpenWeatherMap current-weather endpoint with the city query key left open.
const DefaultBaseURL = "http://api.openweathermap.org/data/2.5/weather?q="

// DefaultCities is the city list used when none is configured.
var DefaultCities = []string{"Mumbai", "Delhi", "Chennai", "Kolkata", "Bangalore", "Hyderabad"}

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("OPENWEATHER_API_KEY is required")

var validate = validator.New()

type AppConfig struct {
	APIKey  string `yaml:"apiKey" validate:"required"`
	BaseURL string `yaml:"baseUrl" validate:"required"`

	// Cities are fetched in this order on every cycle.
	Cities []string `yaml:"cities" validate:"min=1,dive,required"`

	// FetchIntervalSeconds controls how often a cycle runs.
	FetchIntervalSeconds int `yaml:"fetchIntervalSeconds" validate:"gt=0"`

	AlertThresholdCelsius float64 `yaml:"alertThresholdCelsius"`

	// HTTPTimeout bounds each API call; 0 keeps the platform default.
	HTTPTimeout time.Duration `yaml:"httpTimeout" validate:"gte=0"`

	BreakerEnabled bool `yaml:"breakerEnabled"`
	DesktopNotify  bool `yaml:"desktopNotify"`
	SummaryChart   bool `yaml:"summaryChart"`

	// In-memory history retention for the status API.
	StoreMaxHistory int           `yaml:"storeMaxHistory" validate:"gte=0"` // max readings per city (0 = unlimited)
	StoreMaxAge     time.Duration `yaml:"storeMaxAge" validate:"gte=0"`     // max age of readings (0 = unlimited)

	// StatusPort enables the read-only HTTP status API when set.
	StatusPort string `yaml:"statusPort" validate:"omitempty,numeric"`

	LogLevel string `yaml:"logLevel" validate:"omitempty,oneof=debug info warn warning error"`
}

// FetchInterval returns the cycle interval as a duration.
func (c *AppConfig) FetchInterval() time.Duration {
	return time.Duration(c.FetchIntervalSeconds) * time.Second
}

// Default returns the configuration used when nothing overrides it.
func Default() *AppConfig {
	cities := make([]string, len(DefaultCities))
	copy(cities, DefaultCities)
	return &AppConfig{
		BaseURL:               DefaultBaseURL,
		Cities:                cities,
		FetchIntervalSeconds:  300,
		AlertThresholdCelsius: 35,
		StoreMaxHistory:       288, // 24h at 5-minute intervals
		StoreMaxAge:           24 * time.Hour,
		LogLevel:              "info",
	}
}

// Load reads configuration from an optional YAML file (CONFIG_PATH), a .env
// file and the environment, in increasing order of precedence.
func Load() (*AppConfig, error) {
	// A missing .env is normal; variables already set in the environment win.
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and ranges.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func hydrateFromFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *AppConfig) error {
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	cfg.BaseURL = getenvDefault("OPENWEATHER_BASE_URL", cfg.BaseURL)

	if v := os.Getenv("WEATHER_CITIES"); v != "" {
		cfg.Cities = splitCities(v)
	}

	var err error
	if cfg.FetchIntervalSeconds, err = getenvInt("FETCH_INTERVAL_SECONDS", cfg.FetchIntervalSeconds); err != nil {
		return err
	}
	if cfg.AlertThresholdCelsius, err = getenvFloat("ALERT_THRESHOLD_CELSIUS", cfg.AlertThresholdCelsius); err != nil {
		return err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return err
	}
	if cfg.BreakerEnabled, err = getenvBool("BREAKER_ENABLED", cfg.BreakerEnabled); err != nil {
		return err
	}
	if cfg.DesktopNotify, err = getenvBool("DESKTOP_NOTIFY", cfg.DesktopNotify); err != nil {
		return err
	}
	if cfg.SummaryChart, err = getenvBool("SUMMARY_CHART", cfg.SummaryChart); err != nil {
		return err
	}
	if cfg.StoreMaxHistory, err = getenvInt("STORE_MAX_HISTORY", cfg.StoreMaxHistory); err != nil {
		return err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", cfg.StoreMaxAge); err != nil {
		return err
	}
	cfg.StatusPort = getenvDefault("STATUS_PORT", cfg.StatusPort)
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", cfg.LogLevel))

	return nil
}

func splitCities(v string) []string {
	var cities []string
	for _, c := range strings.Split(v, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cities = append(cities, c)
		}
	}
	return cities
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
