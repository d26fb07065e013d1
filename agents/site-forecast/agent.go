package siteforecast

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"renewable-forecast/internal/models"
	"renewable-forecast/shared/ai"
	"renewable-forecast/shared/config"
	"renewable-forecast/shared/email"
	"renewable-forecast/shared/generation"
	"renewable-forecast/shared/scheduler"
	"renewable-forecast/shared/storage"
	"renewable-forecast/shared/weather"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentSites bounds how many sites are forecast at once; the weather
// rate limiter still paces the actual API calls.
const maxConcurrentSites = 4

// ForecastMetrics represents the outcome of one forecast run
type ForecastMetrics struct {
	SitesTotal    int     `json:"sites_total"`
	SitesForecast int     `json:"sites_forecast"`
	TotalKWh      float64 `json:"total_kwh"`
	Archived      bool    `json:"archived"`
	Narrated      bool    `json:"narrated"`
	EmailSent     bool    `json:"email_sent"`
}

// GetSummary implements the scheduler.Metrics interface
func (m ForecastMetrics) GetSummary() string {
	summary := fmt.Sprintf("%d/%d sites forecast, %.0f kWh expected", m.SitesForecast, m.SitesTotal, m.TotalKWh)
	if m.EmailSent {
		summary += ", email sent"
	}
	return summary
}

// SiteForecastAgent implements the scheduler.Agent interface
type SiteForecastAgent struct {
	config   *config.Config
	forecast weather.Source
	archive  *storage.ReportArchive
	narrator *ai.Narrator
	sender   *email.Sender
	now      func() time.Time
}

func NewSiteForecastAgent(cfg *config.Config) *SiteForecastAgent {
	return &SiteForecastAgent{
		config: cfg,
		now:    time.Now,
	}
}

func (a *SiteForecastAgent) Name() string {
	return "Site Forecast Agent"
}

func (a *SiteForecastAgent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if err := a.config.ValidateSiteForecast(); err != nil {
		return fmt.Errorf("invalid site configuration: %w", err)
	}

	if a.forecast == nil {
		w := a.config.Weather
		client := weather.NewOpenMeteoClient(w.ForecastURL, w.ArchiveURL, time.Duration(w.TimeoutSeconds)*time.Second)
		a.forecast = weather.NewRateLimitedSource(client, w.RequestsPerSecond, w.Burst)
		log.Printf("Weather client initialized: %s", a.forecast.Name())
	}

	if a.archive == nil {
		retention := time.Duration(a.config.Report.RetentionDays) * 24 * time.Hour
		archive, err := storage.NewReportArchive(a.config.Report.DataDir, retention)
		if err != nil {
			return fmt.Errorf("failed to open report archive: %w", err)
		}
		a.archive = archive
		log.Printf("Report archive initialized in %s", a.config.Report.DataDir)
	}

	if a.narrator == nil {
		narrator, err := ai.NewNarrator(context.Background(), &a.config.AI)
		if err != nil {
			return fmt.Errorf("failed to initialize narrator: %w", err)
		}
		a.narrator = narrator
	}

	if a.sender == nil {
		a.sender = email.NewSender(&a.config.Email)
	}

	log.Printf("Configured for %d solar and %d wind sites", len(a.config.SolarSites), len(a.config.WindSites))
	return nil
}

func (a *SiteForecastAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	now := a.now()

	digest := &models.ForecastDigest{
		RunID:     scheduler.RunID(ctx),
		Generated: now,
		Sites:     make([]*models.SiteReport, len(a.config.SolarSites)+len(a.config.WindSites)),
	}
	metrics := ForecastMetrics{SitesTotal: len(digest.Sites)}

	// Each goroutine owns one slot of digest.Sites and one of warnings
	warnings := make([][]error, len(digest.Sites))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSites)

	for i, site := range a.config.SolarSites {
		g.Go(func() error {
			digest.Sites[i], warnings[i] = a.forecastSolar(gctx, site, now)
			return nil
		})
	}
	offset := len(a.config.SolarSites)
	for i, site := range a.config.WindSites {
		g.Go(func() error {
			digest.Sites[offset+i] = a.forecastWind(gctx, site)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("forecast run cancelled: %w", err)
	}

	var failures []error
	for i, report := range digest.Sites {
		for _, w := range warnings[i] {
			partial(events, w, startTime)
		}
		if report.Failed() {
			failures = append(failures, fmt.Errorf("%s: %s", report.Name, report.Error))
			continue
		}
		metrics.SitesForecast++
		metrics.TotalKWh += report.TotalKWh
	}

	if metrics.SitesForecast == 0 {
		err := fmt.Errorf("all %d sites failed: %w", metrics.SitesTotal, errors.Join(failures...))
		if events != nil && events.OnCriticalFailure != nil {
			events.OnCriticalFailure(err, time.Since(startTime))
		}
		return err
	}
	for _, err := range failures {
		partial(events, err, startTime)
	}

	narrative, err := a.narrator.Summarize(ctx, digest)
	if err != nil {
		log.Printf("Warning: Failed to generate narrative: %v", err)
		partial(events, fmt.Errorf("failed to generate narrative: %w", err), startTime)
	} else if narrative != "" {
		digest.Narrative = narrative
		metrics.Narrated = true
	}

	if removed, err := a.archive.Cleanup(now); err != nil {
		log.Printf("Warning: Failed to clean up report archive: %v", err)
	} else if removed > 0 {
		log.Printf("Removed %d expired reports", removed)
	}

	path, err := a.archive.Save(digest)
	if err != nil {
		log.Printf("Warning: Failed to archive digest: %v", err)
		partial(events, fmt.Errorf("failed to archive digest: %w", err), startTime)
	} else {
		metrics.Archived = true
		log.Printf("Digest archived to %s", path)
	}

	if a.config.Email.Enabled() {
		if err := a.sender.SendDigest(digest); err != nil {
			if events != nil && events.OnCriticalFailure != nil {
				events.OnCriticalFailure(fmt.Errorf("failed to send digest email: %w", err), time.Since(startTime))
			}
			return fmt.Errorf("failed to send digest email: %w", err)
		}
		metrics.EmailSent = true
	}

	duration := time.Since(startTime)
	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, duration)
	}

	log.Printf("Site forecast complete: %s", metrics.GetSummary())
	return nil
}

func partial(events *scheduler.AgentEvents, err error, startTime time.Time) {
	if events != nil && events.OnPartialFailure != nil {
		events.OnPartialFailure(err, time.Since(startTime))
	}
}

// sourceFor returns the CSV file when one is configured, otherwise the shared weather API
func (a *SiteForecastAgent) sourceFor(loc config.SiteLocation) weather.Source {
	if loc.WeatherCSV != "" {
		return weather.NewCSVSource(loc.WeatherCSV)
	}
	return a.forecast
}

func (a *SiteForecastAgent) fetch(ctx context.Context, loc config.SiteLocation) ([]models.WeatherSample, error) {
	source := a.sourceFor(loc)
	samples, err := source.Samples(ctx, weather.Query{
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		ForecastDays: a.config.Weather.ForecastDays,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather from %s: %w", source.Name(), err)
	}
	if err := generation.RequireSamples(samples); err != nil {
		return nil, fmt.Errorf("%s returned no samples: %w", source.Name(), err)
	}
	return samples, nil
}

// forecastSolar builds the report for a PV site. Projection problems are
// returned as warnings and leave the forecast itself intact.
func (a *SiteForecastAgent) forecastSolar(ctx context.Context, site config.SolarSiteConfig, now time.Time) (*models.SiteReport, []error) {
	report := &models.SiteReport{
		Name:       site.Name,
		Kind:       models.SiteSolar,
		CapacityKW: site.Equipment.CapacityKW,
	}

	samples, err := a.fetch(ctx, site.SiteLocation)
	if err != nil {
		report.Error = err.Error()
		return report, nil
	}

	records, err := generation.HourlySolar(ctx, samples, site.Equipment)
	if err != nil {
		report.Error = fmt.Sprintf("failed to compute solar output: %v", err)
		return report, nil
	}

	stats := generation.SolarStats(records)
	report.WindowStart = records[0].Timestamp
	report.WindowEnd = records[len(records)-1].Timestamp
	report.DataPoints = stats.DataPoints
	report.TotalKWh = stats.TotalKWh
	report.AverageHourly = stats.AverageHourlyKWh
	report.AverageDaily = stats.AverageDailyKWh
	report.CapacityFactor = generation.SolarCapacityFactor(stats, site.Equipment.CapacityKW)

	log.Printf("%s: %.2f kWh over %d hours (capacity factor %.4f)", site.Name, report.TotalKWh, report.DataPoints, report.CapacityFactor)

	if site.ProjectionYears == 0 {
		return report, nil
	}
	if err := a.project(ctx, site, now, report); err != nil {
		log.Printf("Warning: %s projection skipped: %v", site.Name, err)
		return report, []error{fmt.Errorf("%s projection: %w", site.Name, err)}
	}
	return report, nil
}

// project derives a base year from last calendar year's weather, or from the
// baseline CSV when one is configured, and degrades it forward.
func (a *SiteForecastAgent) project(ctx context.Context, site config.SolarSiteConfig, now time.Time, report *models.SiteReport) error {
	var (
		samples []models.WeatherSample
		err     error
	)
	if site.BaselineCSV != "" {
		samples, err = weather.NewCSVSource(site.BaselineCSV).Samples(ctx, weather.Query{})
	} else {
		samples, err = a.forecast.Samples(ctx, weather.PreviousYear(site.Latitude, site.Longitude, now))
	}
	if err != nil {
		return fmt.Errorf("failed to fetch baseline weather: %w", err)
	}
	if err := generation.RequireSamples(samples); err != nil {
		return err
	}

	base, err := generation.BaseYearGeneration(ctx, samples, site.Equipment)
	if err != nil {
		return err
	}

	cfg, err := generation.ResolveSolar(site.Equipment)
	if err != nil {
		return err
	}
	projections, err := generation.ProjectYearly(base, site.ProjectionYears, cfg.CapacityKW, cfg.DegradationRate, now.Year())
	if err != nil {
		return err
	}

	report.BaseYearKWh = generation.Round(base, 2)
	report.Projections = projections
	return nil
}

func (a *SiteForecastAgent) forecastWind(ctx context.Context, site config.WindSiteConfig) *models.SiteReport {
	report := &models.SiteReport{
		Name: site.Name,
		Kind: models.SiteWind,
	}

	cfg, err := generation.ResolveWind(site.Equipment)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.CapacityKW = cfg.RatedCapacityKW * float64(cfg.Turbines)

	samples, err := a.fetch(ctx, site.SiteLocation)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	records, err := generation.HourlyWind(ctx, samples, cfg)
	if err != nil {
		report.Error = fmt.Sprintf("failed to compute wind output: %v", err)
		return report
	}

	summary := generation.SummarizeWind(records)
	cf, err := generation.WindCapacityFactor(summary, cfg)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.WindowStart = records[0].Timestamp
	report.WindowEnd = records[len(records)-1].Timestamp
	report.DataPoints = summary.DataPoints
	report.TotalKWh = summary.TotalKWh
	report.AverageHourly = summary.AverageHourlyKWh
	report.CapacityFactor = cf

	log.Printf("%s: %.2f kWh over %d hours (capacity factor %.4f)", site.Name, report.TotalKWh, report.DataPoints, report.CapacityFactor)
	return report
}
