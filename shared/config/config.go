package config

import (
	"fmt"
	"os"

	"renewable-forecast/internal/models"
	"renewable-forecast/shared/generation"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	SolarSites []SolarSiteConfig `yaml:"solar_sites"`
	WindSites  []WindSiteConfig  `yaml:"wind_sites"`
	Weather    WeatherConfig     `yaml:"weather"`
	Report     ReportConfig      `yaml:"report"`
	AI         AIConfig          `yaml:"ai"`
	Email      EmailConfig       `yaml:"email"`
	Monitoring MonitoringConfig  `yaml:"monitoring"`
	Schedule   string            `yaml:"schedule"`
}

// SiteLocation identifies where a site's weather comes from. When WeatherCSV
// is set the coordinates are not used.
type SiteLocation struct {
	Name       string  `yaml:"name"`
	Latitude   float64 `yaml:"latitude"`
	Longitude  float64 `yaml:"longitude"`
	WeatherCSV string  `yaml:"weather_csv"`
}

type SolarSiteConfig struct {
	SiteLocation `yaml:",inline"`
	Equipment    models.SolarConfig `yaml:"equipment"`

	// Years to project from the previous calendar year's output; 0 disables.
	ProjectionYears int    `yaml:"projection_years"`
	BaselineCSV     string `yaml:"baseline_csv"`
}

type WindSiteConfig struct {
	SiteLocation `yaml:",inline"`
	Equipment    models.WindConfig `yaml:"equipment"`
}

type WeatherConfig struct {
	ForecastURL       string  `yaml:"forecast_url"`
	ArchiveURL        string  `yaml:"archive_url"`
	ForecastDays      int     `yaml:"forecast_days"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
}

type ReportConfig struct {
	DataDir       string `yaml:"data_dir"`
	RetentionDays int    `yaml:"retention_days"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// Enabled reports whether a digest should be mailed at all
func (e EmailConfig) Enabled() bool {
	return e.SMTPServer != ""
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
	}
	return cfg, nil
}

// Parse decodes YAML, applies environment overrides and defaults, and validates the result
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Email.Username == "" {
		cfg.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Weather.ForecastURL == "" {
		c.Weather.ForecastURL = "https://api.open-meteo.com/v1/forecast"
	}
	if c.Weather.ArchiveURL == "" {
		c.Weather.ArchiveURL = "https://archive-api.open-meteo.com/v1/archive"
	}
	if c.Weather.ForecastDays == 0 {
		c.Weather.ForecastDays = 7
	}
	if c.Weather.RequestsPerSecond == 0 {
		c.Weather.RequestsPerSecond = 1 // Open-Meteo free tier is generous, stay polite
	}
	if c.Weather.Burst == 0 {
		c.Weather.Burst = 3
	}
	if c.Weather.TimeoutSeconds == 0 {
		c.Weather.TimeoutSeconds = 30
	}

	if c.Report.DataDir == "" {
		c.Report.DataDir = "data"
	}
	if c.Report.RetentionDays == 0 {
		c.Report.RetentionDays = 30
	}

	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Schedule == "" {
		c.Schedule = "0 0 6 * * *" // Daily at 6 AM, seconds field first
	}
}

func (c *Config) validate() error {
	if c.Weather.ForecastDays < 1 || c.Weather.ForecastDays > 16 {
		return fmt.Errorf("weather.forecast_days must be between 1 and 16, got %d", c.Weather.ForecastDays)
	}
	if c.Weather.RequestsPerSecond < 0 || c.Weather.Burst < 0 {
		return fmt.Errorf("weather rate limit must not be negative")
	}
	if c.Report.RetentionDays < 0 {
		return fmt.Errorf("report.retention_days must not be negative")
	}
	if c.Email.Enabled() {
		if c.Email.Username == "" {
			return fmt.Errorf("Email username is required (set EMAIL_USERNAME or email.username)")
		}
		if c.Email.Password == "" {
			return fmt.Errorf("Email password is required (set EMAIL_PASSWORD or email.password)")
		}
		if c.Email.ToEmail == "" {
			return fmt.Errorf("Email recipient is required when smtp_server is set (email.to_email)")
		}
	}
	return nil
}

// ValidateSiteForecast checks the parts of the config the site forecast agent needs
func (c *Config) ValidateSiteForecast() error {
	if len(c.SolarSites) == 0 && len(c.WindSites) == 0 {
		return fmt.Errorf("at least one solar_sites or wind_sites entry is required")
	}

	seen := make(map[string]bool)
	for i, site := range c.SolarSites {
		if err := site.SiteLocation.validate(seen); err != nil {
			return fmt.Errorf("solar_sites[%d]: %w", i, err)
		}
		if site.Equipment.CapacityKW <= 0 {
			return fmt.Errorf("solar_sites[%d] %s: installed_capacity_kw must be positive", i, site.Name)
		}
		if _, err := generation.ResolveSolar(site.Equipment); err != nil {
			return fmt.Errorf("solar_sites[%d] %s: %w", i, site.Name, err)
		}
		if site.ProjectionYears < 0 {
			return fmt.Errorf("solar_sites[%d] %s: projection_years must not be negative", i, site.Name)
		}
		if site.ProjectionYears > 0 && site.BaselineCSV == "" && site.Latitude == 0 && site.Longitude == 0 {
			return fmt.Errorf("solar_sites[%d] %s: projections need baseline_csv or coordinates for the weather archive", i, site.Name)
		}
	}

	for i, site := range c.WindSites {
		if err := site.SiteLocation.validate(seen); err != nil {
			return fmt.Errorf("wind_sites[%d]: %w", i, err)
		}
		if site.Equipment.RatedCapacityKW <= 0 {
			return fmt.Errorf("wind_sites[%d] %s: rated_capacity_kw must be positive", i, site.Name)
		}
		if site.Equipment.CutOutMS <= 0 {
			return fmt.Errorf("wind_sites[%d] %s: cut_out_ms must be positive", i, site.Name)
		}
		if _, err := generation.ResolveWind(site.Equipment); err != nil {
			return fmt.Errorf("wind_sites[%d] %s: %w", i, site.Name, err)
		}
	}

	return nil
}

func (l SiteLocation) validate(seen map[string]bool) error {
	if l.Name == "" {
		return fmt.Errorf("site name must be configured (name)")
	}
	if seen[l.Name] {
		return fmt.Errorf("duplicate site name %q", l.Name)
	}
	seen[l.Name] = true

	if l.WeatherCSV != "" {
		return nil
	}
	if l.Latitude == 0 && l.Longitude == 0 {
		return fmt.Errorf("site %s: coordinates must be configured (latitude and longitude) unless weather_csv is set", l.Name)
	}
	if l.Latitude < -90 || l.Latitude > 90 || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("site %s: coordinates (%.4f, %.4f) out of range", l.Name, l.Latitude, l.Longitude)
	}
	return nil
}
