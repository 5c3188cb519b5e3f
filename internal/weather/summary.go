package weather

import (
	"math"
	"sync"
)

// DailySummary accumulates temperatures and conditions across every fetch cycle.
// It is safe for concurrent use; readers see a consistent view of all completed adds.
type DailySummary struct {
	mu           sync.RWMutex
	temperatures []float64
	conditions   []string
}

// SummarySnapshot is a point-in-time copy of the aggregates.
type SummarySnapshot struct {
	Count        int
	Average      float64
	Max          float64
	Min          float64
	Dominant     string
	Temperatures []float64
}

// NewDailySummary creates an empty summary.
func NewDailySummary() *DailySummary {
	return &DailySummary{}
}

// Add records one reading's temperature and condition.
func (d *DailySummary) Add(temperature float64, condition string) {
	d.mu.Lock()
	d.temperatures = append(d.temperatures, temperature)
	d.conditions = append(d.conditions, condition)
	d.mu.Unlock()
}

// Len returns the number of readings recorded.
func (d *DailySummary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.temperatures)
}

// Average returns the mean temperature, or NaN when empty.
func (d *DailySummary) Average() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return average(d.temperatures)
}

// Max returns the highest temperature, or NaN when empty.
func (d *DailySummary) Max() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return extreme(d.temperatures, math.Max)
}

// Min returns the lowest temperature, or NaN when empty.
func (d *DailySummary) Min() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return extreme(d.temperatures, math.Min)
}

// DominantCondition returns the most frequent condition. On a tie the earliest
// seen condition wins, since a later one must have a strictly greater count to
// replace it. Returns DefaultCondition when empty.
func (d *DailySummary) DominantCondition() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return dominant(d.conditions)
}

// Snapshot returns all aggregates computed under a single lock.
func (d *DailySummary) Snapshot() SummarySnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	temps := make([]float64, len(d.temperatures))
	copy(temps, d.temperatures)

	return SummarySnapshot{
		Count:        len(d.temperatures),
		Average:      average(d.temperatures),
		Max:          extreme(d.temperatures, math.Max),
		Min:          extreme(d.temperatures, math.Min),
		Dominant:     dominant(d.conditions),
		Temperatures: temps,
	}
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func extreme(values []float64, pick func(a, b float64) float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	best := values[0]
	for _, v := range values[1:] {
		best = pick(best, v)
	}
	return best
}

func dominant(conditions []string) string {
	if len(conditions) == 0 {
		return DefaultCondition
	}

	counts := make(map[string]int, len(conditions))
	for _, c := range conditions {
		counts[c]++
	}

	best := conditions[0]
	for _, c := range conditions[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}
