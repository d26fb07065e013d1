package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"renewable-forecast/internal/models"
)

const (
	hourlyVariables = "shortwave_radiation,temperature_2m,wind_speed_10m"
	openMeteoLayout = "2006-01-02T15:04"
	dateLayout      = "2006-01-02"
)

// OpenMeteoClient fetches hourly irradiance, temperature and wind speed from
// the Open-Meteo forecast and archive APIs.
type OpenMeteoClient struct {
	forecastURL string
	archiveURL  string
	client      *http.Client
}

// openMeteoResponse mirrors the hourly part of the API response. Missing
// hours come back as JSON null.
type openMeteoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Hourly    struct {
		Time        []string   `json:"time"`
		Radiation   []*float64 `json:"shortwave_radiation"`
		Temperature []*float64 `json:"temperature_2m"`
		WindSpeed   []*float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
}

func NewOpenMeteoClient(forecastURL, archiveURL string, timeout time.Duration) *OpenMeteoClient {
	return &OpenMeteoClient{
		forecastURL: forecastURL,
		archiveURL:  archiveURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (o *OpenMeteoClient) Name() string {
	return "Open-Meteo"
}

// Samples fetches the forecast window or, for historical queries, the archive range
func (o *OpenMeteoClient) Samples(ctx context.Context, q Query) ([]models.WeatherSample, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', 4, 64))
	params.Set("hourly", hourlyVariables)
	params.Set("wind_speed_unit", "ms")
	params.Set("temperature_unit", "celsius")
	params.Set("timezone", "auto")

	base := o.forecastURL
	if q.Historical() {
		base = o.archiveURL
		params.Set("start_date", q.Start.Format(dateLayout))
		params.Set("end_date", q.End.Format(dateLayout))
	} else {
		params.Set("forecast_days", strconv.Itoa(q.ForecastDays))
	}
	endpoint := base + "?" + params.Encode()

	log.Printf("Fetching weather data from: %s", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var apiResp openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	return apiResp.samples()
}

func (r *openMeteoResponse) samples() ([]models.WeatherSample, error) {
	location := time.UTC
	if r.Timezone != "" {
		loc, err := time.LoadLocation(r.Timezone)
		if err != nil {
			log.Printf("Warning: Failed to load timezone %s, using UTC: %v", r.Timezone, err)
		} else {
			location = loc
		}
	}

	samples := make([]models.WeatherSample, 0, len(r.Hourly.Time))
	for i, timeStr := range r.Hourly.Time {
		ts, err := time.ParseInLocation(openMeteoLayout, timeStr, location)
		if err != nil {
			return nil, fmt.Errorf("failed to parse hourly time %q: %w", timeStr, err)
		}
		samples = append(samples, models.WeatherSample{
			Timestamp:   ts,
			Irradiance:  at(r.Hourly.Radiation, i),
			Temperature: at(r.Hourly.Temperature, i),
			WindSpeed:   at(r.Hourly.WindSpeed, i),
		})
	}
	return samples, nil
}

// at tolerates variable arrays shorter than the time axis
func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
