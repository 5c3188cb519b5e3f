package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-monitor/internal/store"
	"github.com/i474232898/weather-monitor/internal/weather"
)

func newTestApp(t *testing.T) (*fiber.App, *weather.DailySummary, *store.MemoryStore) {
	t.Helper()
	app := fiber.New()
	summary := weather.NewDailySummary()
	memStore := store.NewMemoryStore(10, 0)
	RegisterRoutes(app, summary, memStore)
	return app, summary, memStore
}

func doGet(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

// TestSummaryEmpty verifies that an empty summary reports nulls and the
// default condition instead of failing to encode NaN.
func TestSummaryEmpty(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := doGet(t, app, "/api/v1/summary")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["averageC"] != nil || body["maxC"] != nil || body["minC"] != nil {
		t.Fatalf("expected null aggregates, got %v", body)
	}
	if body["dominantCondition"] != "Clear" {
		t.Fatalf("expected Clear, got %v", body["dominantCondition"])
	}
}

func TestSummaryWithReadings(t *testing.T) {
	app, summary, _ := newTestApp(t)
	summary.Add(20, "Clear")
	summary.Add(40, "Rain")

	resp := doGet(t, app, "/api/v1/summary")
	var body struct {
		Count    int     `json:"count"`
		Average  float64 `json:"averageC"`
		Max      float64 `json:"maxC"`
		Min      float64 `json:"minC"`
		Dominant string  `json:"dominantCondition"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 2 || body.Average != 30 || body.Max != 40 || body.Min != 20 || body.Dominant != "Clear" {
		t.Fatalf("unexpected summary %+v", body)
	}
}

// TestCurrentValidation verifies the city parameter is required and unknown
// cities return 404.
func TestCurrentValidation(t *testing.T) {
	app, _, memStore := newTestApp(t)

	if resp := doGet(t, app, "/api/v1/weather/current"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	if resp := doGet(t, app, "/api/v1/weather/current?city=Delhi"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	memStore.SaveReading(weather.Reading{ID: "r1", City: "Delhi", TemperatureC: 31.5, FeelsLikeC: 33, Condition: "Haze", Timestamp: time.Now().UTC()})

	resp := doGet(t, app, "/api/v1/weather/current?city=Delhi")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var r readingResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.ID != "r1" || r.Condition != "Haze" || r.FeelsLikeC == nil || *r.FeelsLikeC != 33 {
		t.Fatalf("unexpected reading %+v", r)
	}
}

func TestHistoryRange(t *testing.T) {
	app, _, memStore := newTestApp(t)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		memStore.SaveReading(weather.Reading{City: "Pune", TemperatureC: float64(i), Condition: "Clear", Timestamp: base.Add(time.Duration(i) * time.Hour)})
	}

	from := strconv.FormatInt(base.Unix(), 10)
	to := base.Add(90 * time.Minute).Format(time.RFC3339)
	resp := doGet(t, app, "/api/v1/weather/history?city=Pune&from="+from+"&to="+to)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Readings []readingResponse `json:"readings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(body.Readings))
	}
}

// TestHistoryValidation verifies missing and inverted ranges are rejected.
func TestHistoryValidation(t *testing.T) {
	app, _, _ := newTestApp(t)

	targets := []string{
		"/api/v1/weather/history?city=Pune",
		"/api/v1/weather/history?city=Pune&from=yesterday&to=today",
		"/api/v1/weather/history?city=Pune&from=2024-06-02T00:00:00Z&to=2024-06-01T00:00:00Z",
		"/api/v1/weather/history?from=2024-06-01T00:00:00Z&to=2024-06-02T00:00:00Z",
	}
	for _, target := range targets {
		if resp := doGet(t, app, target); resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", target, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestAlertsAndHealth(t *testing.T) {
	app, _, memStore := newTestApp(t)
	memStore.SaveAlert(weather.Alert{ID: "a1", City: "Chennai", TemperatureC: 37, ThresholdC: 35, Timestamp: time.Now().UTC()})

	resp := doGet(t, app, "/api/v1/alerts")
	var alerts []weather.Alert
	if err := json.NewDecoder(resp.Body).Decode(&alerts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(alerts) != 1 || alerts[0].City != "Chennai" {
		t.Fatalf("unexpected alerts %+v", alerts)
	}

	if resp := doGet(t, app, "/health"); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}
