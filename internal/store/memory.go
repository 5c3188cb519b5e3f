package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-monitor/internal/weather"
)

var (
	// ErrNotFound is returned when no readings are available for a given city.
	ErrNotFound = errors.New("no weather data for city")
)

const defaultMaxAlerts = 500

// ReadingHistory holds a time-ordered list of readings for a city.
type ReadingHistory struct {
	Readings []weather.Reading
}

// MemoryStore is a concurrency-safe in-memory history of readings and alerts.
// It backs the status API only; the daily summary never reads from it.
type MemoryStore struct {
	mu sync.RWMutex

	// key: city, value: history
	data   map[string]*ReadingHistory
	alerts []weather.Alert

	// retention configuration
	maxHistory int           // max number of readings per city
	maxAge     time.Duration // optional max age for readings
	maxAlerts  int
	now        func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*ReadingHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		maxAlerts:  defaultMaxAlerts,
		now:        time.Now,
	}
}

// SaveReading appends a reading for its city and enforces retention.
func (s *MemoryStore) SaveReading(r weather.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[r.City]
	if !ok {
		history = &ReadingHistory{}
		s.data[r.City] = history
	}

	history.Readings = append(history.Readings, r)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Readings) > s.maxHistory {
		over := len(history.Readings) - s.maxHistory
		history.Readings = history.Readings[over:]
	}

	// Enforce retention by age, always keeping the newest reading.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Readings)-1; i++ {
			if !history.Readings[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			history.Readings = history.Readings[i:]
		}
	}
}

// SaveAlert records an alert, dropping the oldest beyond the alert cap.
func (s *MemoryStore) SaveAlert(a weather.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts = append(s.alerts, a)
	if len(s.alerts) > s.maxAlerts {
		s.alerts = s.alerts[len(s.alerts)-s.maxAlerts:]
	}
}

// GetLatest returns the most recent reading for a city.
func (s *MemoryStore) GetLatest(city string) (weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[city]
	if !ok || len(history.Readings) == 0 {
		return weather.Reading{}, ErrNotFound
	}
	return history.Readings[len(history.Readings)-1], nil
}

// GetRange returns all readings for a city between from and to (inclusive).
func (s *MemoryStore) GetRange(city string, from, to time.Time) ([]weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[city]
	if !ok || len(history.Readings) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.Reading
	for _, r := range history.Readings {
		if !r.Timestamp.Before(from) && !r.Timestamp.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}

// ListAlerts returns recorded alerts, newest first.
func (s *MemoryStore) ListAlerts() []weather.Alert {
	s.mu.RLock()
	out := make([]weather.Alert, len(s.alerts))
	copy(out, s.alerts)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}
