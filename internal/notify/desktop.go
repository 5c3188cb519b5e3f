// Package notify delivers temperature alerts outside the console.
package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gen2brain/beeep"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// Desktop raises a native desktop notification for each alert.
type Desktop struct {
	appName string
	send    func(title, message string, icon any) error
}

// NewDesktop creates a desktop notifier using the platform notification service.
func NewDesktop(appName string) *Desktop {
	return &Desktop{
		appName: appName,
		send:    beeep.Notify,
	}
}

// Notify implements weather.Notifier.
func (d *Desktop) Notify(ctx context.Context, a weather.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	title := fmt.Sprintf("%s: %s above %s°C", d.appName, a.City, strconv.FormatFloat(a.ThresholdC, 'f', -1, 64))
	body := fmt.Sprintf("Current temperature in %s is %.2f°C.", a.City, a.TemperatureC)
	if err := d.send(title, body, ""); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}
