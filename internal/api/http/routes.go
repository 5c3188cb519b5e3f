package httpapi

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-monitor/internal/store"
	"github.com/i474232898/weather-monitor/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the read-only status handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, summary *weather.DailySummary, st weather.Store) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-monitor",
		})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/summary", func(c *fiber.Ctx) error {
		snap := summary.Snapshot()
		return c.JSON(summaryResponse{
			Count:             snap.Count,
			Average:           finite(snap.Average),
			Max:               finite(snap.Max),
			Min:               finite(snap.Min),
			DominantCondition: snap.Dominant,
		})
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		r, err := st.GetLatest(q.City)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data for requested city")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}

		return c.JSON(toReadingResponse(r))
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		readings, err := st.GetRange(req.City.City, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}

		out := make([]readingResponse, 0, len(readings))
		for _, r := range readings {
			out = append(out, toReadingResponse(r))
		}

		return c.JSON(fiber.Map{
			"city":     req.City.City,
			"from":     req.From,
			"to":       req.To,
			"readings": out,
		})
	})

	v1.Get("/alerts", func(c *fiber.Ctx) error {
		return c.JSON(st.ListAlerts())
	})
}

type summaryResponse struct {
	Count             int      `json:"count"`
	Average           *float64 `json:"averageC"`
	Max               *float64 `json:"maxC"`
	Min               *float64 `json:"minC"`
	DominantCondition string   `json:"dominantCondition"`
}

// readingResponse mirrors weather.Reading with NaN mapped to null, which JSON cannot encode.
type readingResponse struct {
	ID           string    `json:"id"`
	City         string    `json:"city"`
	TemperatureC float64   `json:"temperatureC"`
	FeelsLikeC   *float64  `json:"feelsLikeC"`
	Condition    string    `json:"condition"`
	Timestamp    time.Time `json:"timestamp"`
}

func toReadingResponse(r weather.Reading) readingResponse {
	return readingResponse{
		ID:           r.ID,
		City:         r.City,
		TemperatureC: r.TemperatureC,
		FeelsLikeC:   finite(r.FeelsLikeC),
		Condition:    r.Condition,
		Timestamp:    r.Timestamp,
	}
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// cityQuery holds the query parameter identifying a city.
type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	q := cityQuery{City: c.Query("city")}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	City cityQuery
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	q, err := parseCityQuery(c)
	if err != nil {
		return err
	}
	h.City = q

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
