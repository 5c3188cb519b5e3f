package weather

import (
	"context"
	"time"
)

// Provider abstracts the weather API (e.g. OpenWeatherMap).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city string) (Payload, error)
}

// Store is the contract the in-memory history store must satisfy.
type Store interface {
	SaveReading(r Reading)
	SaveAlert(a Alert)
	GetLatest(city string) (Reading, error)
	GetRange(city string, from, to time.Time) ([]Reading, error)
	ListAlerts() []Alert
}

// Notifier surfaces an alert somewhere other than the console, e.g. the desktop.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}
