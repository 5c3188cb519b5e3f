package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// State is the scheduler lifecycle state.
type State int

const (
	Idle State = iota
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ErrAlreadyStarted is returned when Run is called more than once.
var ErrAlreadyStarted = errors.New("scheduler already started")

// Cycler runs one pass over a list of cities.
type Cycler interface {
	RunCycle(ctx context.Context, cities []string) weather.CycleResult
}

// Scheduler periodically fetches weather data for the configured cities.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Cycler
	cities    []string
	interval  time.Duration
	onStop    func()
	logger    *zap.SugaredLogger

	mu      sync.Mutex
	state   State
	cycleMu sync.Mutex
	cycles  int

	stopOnce sync.Once
}

// New creates a new Scheduler. onStop runs exactly once after the last cycle
// has returned; it may be nil.
func New(cities []string, interval time.Duration, service Cycler, onStop func(), logger *zap.SugaredLogger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		service:   service,
		cities:    cities,
		interval:  interval,
		onStop:    onStop,
		logger:    logger,
		state:     Idle,
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cycles returns the number of completed cycles.
func (s *Scheduler) Cycles() int {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	return s.cycles
}

// Run executes one cycle immediately and then one every interval until ctx is
// cancelled. It then stops the timer, waits for an in-flight cycle and runs
// the shutdown action.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = Running
	s.mu.Unlock()

	if s.interval <= 0 {
		s.interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		s.runCycle(ctx)
	})
	if err != nil {
		s.mu.Lock()
		s.state = Terminated
		s.mu.Unlock()
		return err
	}

	s.logger.Infow("scheduler started", "cities", len(s.cities), "interval", s.interval.String())
	s.scheduler.StartAsync()

	<-ctx.Done()
	s.Stop()
	return nil
}

// Stop halts future cycles, waits for the current one and runs the shutdown
// action. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.scheduler.Stop()

		// Wait for an in-flight cycle; gocron does not cancel running jobs.
		s.cycleMu.Lock()
		s.mu.Lock()
		s.state = Terminated
		s.mu.Unlock()
		s.cycleMu.Unlock()

		s.logger.Infow("scheduler stopped", "cycles", s.Cycles())
		if s.onStop != nil {
			s.onStop()
		}
	})
}

func (s *Scheduler) runCycle(ctx context.Context) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	if s.State() != Running || ctx.Err() != nil {
		return
	}

	if len(s.cities) == 0 {
		s.logger.Warn("scheduler: no cities configured; nothing to fetch")
		return
	}

	s.logger.Debug("scheduler: running weather fetch cycle")
	res := s.service.RunCycle(ctx, s.cities)
	s.cycles++
	s.logger.Infow("scheduler: completed weather fetch cycle",
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"alerts", res.Alerts)
}

// RunCycle runs a single cycle outside the timer.
func (s *Scheduler) RunCycle(ctx context.Context) weather.CycleResult {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	res := s.service.RunCycle(ctx, s.cities)
	s.cycles++
	return res
}
