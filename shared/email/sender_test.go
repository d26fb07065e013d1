package email

import (
	"strings"
	"testing"
	"time"

	"renewable-forecast/internal/models"
	"renewable-forecast/shared/config"
)

func testDigest() *models.ForecastDigest {
	return &models.ForecastDigest{
		RunID:     "run-1",
		Generated: time.Date(2026, 5, 4, 6, 0, 0, 0, time.UTC),
		Narrative: "Sunny week ahead.",
		Sites: []*models.SiteReport{
			{
				Name:           "Rooftop A",
				Kind:           models.SiteSolar,
				CapacityKW:     100,
				DataPoints:     168,
				TotalKWh:       2400,
				AverageHourly:  14.2857,
				CapacityFactor: 0.1429,
				BaseYearKWh:    120000,
				Projections: []models.YearlyProjection{
					{Year: 2027, TotalKWh: 119400, DegradationFactor: 0.995, AverageDailyKWh: 327.12, CapacityFactor: 0.1363},
				},
			},
			{Name: "Ridge <Farm>", Kind: models.SiteWind, Error: "weather unavailable"},
		},
	}
}

func TestRenderDigest(t *testing.T) {
	body, err := RenderDigest(testDigest())
	if err != nil {
		t.Fatalf("RenderDigest failed: %v", err)
	}

	for _, want := range []string{
		"1 of 2 sites forecast",
		"Sunny week ahead.",
		"Rooftop A",
		"2400.00",
		"14.3%",
		"2027",
		"0.9950",
		"weather unavailable",
		"Ridge &lt;Farm&gt;",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected rendered digest to contain %q", want)
		}
	}
}

func TestSubject(t *testing.T) {
	got := Subject(testDigest())
	want := "Generation Forecast - 1/2 Sites, 2400 kWh (May 4, 2026)"
	if got != want {
		t.Errorf("Subject() = %q, want %q", got, want)
	}
}

func TestSendDigestSkipsWhenDisabled(t *testing.T) {
	sender := NewSender(&config.EmailConfig{})
	if err := sender.SendDigest(testDigest()); err != nil {
		t.Errorf("Expected disabled sender to skip without error, got %v", err)
	}
	if err := sender.SendDigest(nil); err == nil {
		t.Error("Expected error for nil digest")
	}
}
