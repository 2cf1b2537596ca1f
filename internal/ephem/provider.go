// Package ephem talks to the external chart service that computes natal
// chart positions.
package ephem

import (
	"context"
	"strings"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/form"
)

// ChartRequest is the body of POST /api/chart.
type ChartRequest struct {
	Date    string `json:"date"`
	Time    string `json:"time"` // HH:MM:SS
	Country string `json:"country"`
	City    string `json:"city"`
}

// NewChartRequest converts validated form input into a service request.
// An HH:MM time gains ":00" seconds.
func NewChartRequest(in form.Input) ChartRequest {
	return ChartRequest{
		Date:    strings.TrimSpace(in.Date),
		Time:    NormalizeTime(in.Time),
		Country: strings.TrimSpace(in.Country),
		City:    strings.TrimSpace(in.City),
	}
}

// NormalizeTime turns HH:MM into HH:MM:SS and leaves anything else alone.
func NormalizeTime(t string) string {
	t = strings.TrimSpace(t)
	if len(t) == 5 && t[2] == ':' {
		return t + ":00"
	}
	return t
}

// Provider computes charts.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// GenerateChart requests a chart for one birth moment and place.
	GenerateChart(ctx context.Context, req ChartRequest) (*chart.Payload, error)

	// Health reports whether the service is up. Any decoded JSON body is
	// returned as-is.
	Health(ctx context.Context) (map[string]any, error)
}
