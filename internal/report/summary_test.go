package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-monitor/internal/weather"
)

func TestWriteSummary(t *testing.T) {
	s := weather.NewDailySummary()
	s.Add(20, "Clear")
	s.Add(40, "Rain")

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s.Snapshot(), Options{}))

	require.Equal(t, "\nSummary for the Day:\n"+
		"Average Temperature: 30.00°C\n"+
		"Maximum Temperature: 40.00°C\n"+
		"Minimum Temperature: 20.00°C\n"+
		"Dominant Weather Condition: Clear\n", buf.String())
}

func TestWriteSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	snap := weather.SummarySnapshot{Average: math.NaN(), Max: math.NaN(), Min: math.NaN(), Dominant: weather.DefaultCondition}
	require.NoError(t, WriteSummary(&buf, snap, Options{Chart: true}))

	out := buf.String()
	require.Contains(t, out, "Average Temperature: NaN°C")
	require.Contains(t, out, "Dominant Weather Condition: Clear")
	require.Equal(t, 6, strings.Count(out, "\n"))
}

func TestWriteSummaryChart(t *testing.T) {
	s := weather.NewDailySummary()
	for _, v := range []float64{28, 31, 35, 33, 30} {
		s.Add(v, "Haze")
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s.Snapshot(), Options{Chart: true, ChartHeight: 5, ChartWidth: 30}))
	require.Contains(t, buf.String(), "Temperature (°C) by reading")
}
