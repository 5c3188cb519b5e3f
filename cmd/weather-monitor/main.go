package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-monitor/internal/api/http"
	"github.com/i474232898/weather-monitor/internal/config"
	"github.com/i474232898/weather-monitor/internal/logger"
	"github.com/i474232898/weather-monitor/internal/notify"
	"github.com/i474232898/weather-monitor/internal/report"
	"github.com/i474232898/weather-monitor/internal/scheduler"
	"github.com/i474232898/weather-monitor/internal/store"
	"github.com/i474232898/weather-monitor/internal/weather"
	"github.com/i474232898/weather-monitor/internal/weather/providers"
)

func main() {
	// Load configuration; a bad or missing setting aborts before any fetch.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run(ctx, cfg, log)
}

func run(ctx context.Context, cfg *config.AppConfig, log *zap.SugaredLogger) {
	// One connection per request, no client-side retries.
	httpClient := providers.NewHTTPClient(cfg.HTTPTimeout)

	var opts []providers.OpenWeatherOption
	opts = append(opts, providers.BaseURLOption(cfg.BaseURL))
	if cfg.BreakerEnabled {
		opts = append(opts, providers.BreakerOption(providers.NewBreaker("openweather", providers.BreakerSettings{
			ConsecutiveFailures: 5,
			OpenTimeout:         cfg.FetchInterval(),
		})))
	}
	provider := providers.NewOpenWeatherProvider(httpClient, cfg.APIKey, opts...)

	summary := weather.NewDailySummary()
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	svcOpts := []weather.ServiceOption{weather.WithStore(memStore)}
	if cfg.DesktopNotify {
		svcOpts = append(svcOpts, weather.WithNotifiers(notify.NewDesktop("weather-monitor")))
	}

	service := weather.NewService(
		provider,
		summary,
		weather.NewAlertEvaluator(cfg.AlertThresholdCelsius),
		os.Stdout,
		log,
		svcOpts...,
	)

	printSummary := func() {
		err := report.WriteSummary(os.Stdout, summary.Snapshot(), report.Options{Chart: cfg.SummaryChart})
		if err != nil {
			log.Errorw("failed to print summary", "error", err)
		}
	}

	var app *fiber.App
	if cfg.StatusPort != "" {
		app = newStatusApp(summary, memStore)
		go func() {
			if err := app.Listen(":" + cfg.StatusPort); err != nil {
				log.Warnw("status server stopped", "error", err)
			}
		}()
		log.Infow("status API listening", "port", cfg.StatusPort)
	}

	sched := scheduler.New(cfg.Cities, cfg.FetchInterval(), service, printSummary, log)
	if err := sched.Run(ctx); err != nil {
		log.Errorw("scheduler failed", "error", err)
	}

	if app != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Warnw("error during status server shutdown", "error", err)
		}
	}
}

func newStatusApp(summary *weather.DailySummary, st weather.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weather-monitor",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New(fiberlogger.Config{Output: os.Stderr}))
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, summary, st)
	return app
}
