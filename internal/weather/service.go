package weather

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

// WithStore records every reading and alert in s.
func WithStore(s Store) ServiceOption {
	return func(svc *Service) {
		svc.store = s
	}
}

// WithNotifiers forwards every alert to the given notifiers.
func WithNotifiers(n ...Notifier) ServiceOption {
	return func(svc *Service) {
		svc.notifiers = append(svc.notifiers, n...)
	}
}

// WithClock overrides the fetch timestamp source.
func WithClock(now func() time.Time) ServiceOption {
	return func(svc *Service) {
		svc.now = now
	}
}

// Service runs fetch cycles: fetch, convert, accumulate, alert, print.
type Service struct {
	provider  Provider
	summary   *DailySummary
	alerts    AlertEvaluator
	store     Store
	notifiers []Notifier
	out       io.Writer
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// CycleResult counts per-city outcomes of one cycle.
type CycleResult struct {
	Succeeded int
	Failed    int
	Alerts    int
}

// NewService creates a new Service. Report lines go to out.
func NewService(
	provider Provider,
	summary *DailySummary,
	alerts AlertEvaluator,
	out io.Writer,
	logger *zap.SugaredLogger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		provider: provider,
		summary:  summary,
		alerts:   alerts,
		out:      out,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary exposes the accumulator backing this service.
func (s *Service) Summary() *DailySummary {
	return s.summary
}

// FetchReading fetches and converts the current weather for one city.
func (s *Service) FetchReading(ctx context.Context, city string) (Reading, error) {
	payload, err := s.provider.Fetch(ctx, city)
	if err != nil {
		return Reading{}, err
	}
	return NewReading(city, payload, s.now())
}

// RunCycle processes every city in order. A failure for one city is logged and
// skipped; it never affects the remaining cities. Cancelling ctx stops the
// cycle before the next city.
func (s *Service) RunCycle(ctx context.Context, cities []string) CycleResult {
	var res CycleResult

	for _, city := range cities {
		if ctx.Err() != nil {
			s.logger.Infow("cycle interrupted", "remaining_from", city)
			break
		}

		r, err := s.FetchReading(ctx, city)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Infow("fetch abandoned on shutdown", "city", city)
				break
			}
			res.Failed++
			s.logger.Errorw("fetch failed", "city", city, "provider", s.provider.Name(), "error", err)
			continue
		}

		res.Succeeded++
		s.record(ctx, r, &res)
	}

	s.logger.Debugw("cycle completed",
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"alerts", res.Alerts)
	return res
}

func (s *Service) record(ctx context.Context, r Reading, res *CycleResult) {
	s.summary.Add(r.TemperatureC, r.Condition)
	if s.store != nil {
		s.store.SaveReading(r)
	}

	if alert, ok := s.alerts.Check(r.TemperatureC); ok {
		res.Alerts++
		alert.City = r.City
		s.raise(ctx, alert)
	}

	s.println(FormatReadingLine(r))
}

func (s *Service) raise(ctx context.Context, a Alert) {
	s.println(FormatAlertLine(a.ThresholdC))
	s.logger.Warnw("temperature threshold exceeded",
		"city", a.City,
		"temperature_c", a.TemperatureC,
		"threshold_c", a.ThresholdC)

	if s.store != nil {
		s.store.SaveAlert(a)
	}
	for _, n := range s.notifiers {
		if err := n.Notify(ctx, a); err != nil {
			s.logger.Warnw("alert notification failed", "city", a.City, "error", err)
		}
	}
}

func (s *Service) println(line string) {
	if _, err := fmt.Fprintln(s.out, line); err != nil {
		s.logger.Warnw("write report line", "error", err)
	}
}

// FormatReadingLine renders the per-city console line.
func FormatReadingLine(r Reading) string {
	return fmt.Sprintf("City: %s | Temperature: %.2f°C | Condition: %s", r.City, r.TemperatureC, r.Condition)
}

// FormatAlertLine renders the console alert for a threshold in °C.
func FormatAlertLine(thresholdC float64) string {
	return "ALERT: Temperature has exceeded " + strconv.FormatFloat(thresholdC, 'f', -1, 64) + "°C!"
}
