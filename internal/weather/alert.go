package weather

import (
	"time"

	"github.com/google/uuid"
)

// Alert is raised when a reading exceeds the configured threshold.
type Alert struct {
	ID           string    `json:"id"`
	City         string    `json:"city,omitempty"`
	TemperatureC float64   `json:"temperatureC"`
	ThresholdC   float64   `json:"thresholdC"`
	Timestamp    time.Time `json:"timestamp"`
}

// AlertEvaluator compares temperatures against a fixed threshold. It keeps no state.
type AlertEvaluator struct {
	threshold float64
}

// NewAlertEvaluator creates an evaluator for the given threshold in °C.
func NewAlertEvaluator(thresholdC float64) AlertEvaluator {
	return AlertEvaluator{threshold: thresholdC}
}

// Threshold returns the configured threshold in °C.
func (a AlertEvaluator) Threshold() float64 {
	return a.threshold
}

// Check reports an Alert when temperature is strictly above the threshold.
func (a AlertEvaluator) Check(temperature float64) (Alert, bool) {
	if !(temperature > a.threshold) {
		return Alert{}, false
	}
	return Alert{
		ID:           uuid.NewString(),
		TemperatureC: temperature,
		ThresholdC:   a.threshold,
		Timestamp:    time.Now().UTC(),
	}, true
}
