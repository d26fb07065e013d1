package weather

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"renewable-forecast/internal/models"
)

// Column names accepted for each field, lower-cased. The Chinese headers are
// the ones exported by the national meteorological CSV dumps.
var (
	timestampColumns   = []string{"ts", "timestamp", "datetime"}
	dateColumns        = []string{"date", "日期"}
	timeColumns        = []string{"time", "时间"}
	irradianceColumns  = []string{"surface_radiation_wm2", "shortwave_radiation", "irradiance", "地表水平辐射w/m^2"}
	temperatureColumns = []string{"temp_c", "temperature_2m", "temperature", "气温℃"}
	windColumns        = []string{"wind_speed", "wind_speed_ms", "wind_speed_10m", "地面风速m/s"}
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
}

// ErrNoHeader is returned when no line of the file looks like a column header
var ErrNoHeader = errors.New("no header row with a timestamp column found")

// ImportResult counts the rows seen by a CSV read
type ImportResult struct {
	Total   int
	Skipped int
	Errors  []string
}

// CSVSource reads hourly weather observations from a CSV file
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (c *CSVSource) Name() string {
	return fmt.Sprintf("CSV (%s)", c.path)
}

// Samples returns the file's samples, restricted to the query's date range
// when it is historical.
func (c *CSVSource) Samples(ctx context.Context, q Query) ([]models.WeatherSample, error) {
	file, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weather csv: %w", err)
	}
	defer file.Close()

	samples, result, err := ReadCSV(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read weather csv %s: %w", c.path, err)
	}
	if result.Skipped > 0 {
		log.Printf("Warning: skipped %d of %d rows in %s", result.Skipped, result.Total, c.path)
	}

	if !q.Historical() {
		return samples, nil
	}

	end := q.End.AddDate(0, 0, 1)
	filtered := samples[:0]
	for _, s := range samples {
		if !s.Timestamp.Before(q.Start) && s.Timestamp.Before(end) {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

// ReadCSV parses weather rows from r. Lines before the header row are
// ignored. Blank, "nan", "null" and unparsable values become nil fields;
// rows without a usable timestamp are skipped and counted. The samples are
// returned in timestamp order.
func ReadCSV(ctx context.Context, r io.Reader) ([]models.WeatherSample, *ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ImportResult{}

	var cols *columnIndex
	for cols == nil {
		record, err := reader.Read()
		if err == io.EOF {
			return nil, nil, ErrNoHeader
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
		}
		cols = newColumnIndex(record)
	}

	var samples []models.WeatherSample
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		result.Total++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", result.Total+1, err))
			continue
		}

		sample, err := cols.parse(record)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", result.Total+1, err))
			continue
		}
		samples = append(samples, sample)
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})

	return samples, result, nil
}

type columnIndex struct {
	timestamp, date, clock             int
	irradiance, temperature, windSpeed int
}

// newColumnIndex returns nil unless header names a timestamp, or a date and time pair
func newColumnIndex(header []string) *columnIndex {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.ToLower(strings.TrimSpace(h))] = i
	}
	find := func(names []string) int {
		for _, n := range names {
			if i, ok := positions[n]; ok {
				return i
			}
		}
		return -1
	}

	cols := &columnIndex{
		timestamp:   find(timestampColumns),
		date:        find(dateColumns),
		clock:       find(timeColumns),
		irradiance:  find(irradianceColumns),
		temperature: find(temperatureColumns),
		windSpeed:   find(windColumns),
	}

	if cols.timestamp >= 0 {
		return cols
	}
	if cols.date >= 0 && cols.clock >= 0 {
		return cols
	}
	// a lone "time" column holds full timestamps in Open-Meteo exports
	if cols.clock >= 0 && cols.date < 0 {
		cols.timestamp, cols.clock = cols.clock, -1
		return cols
	}
	return nil
}

func (c *columnIndex) parse(record []string) (models.WeatherSample, error) {
	var raw string
	if c.timestamp >= 0 {
		raw = field(record, c.timestamp)
	} else {
		raw = field(record, c.date) + " " + field(record, c.clock)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.WeatherSample{}, fmt.Errorf("missing timestamp")
	}

	ts, err := parseTimestamp(raw)
	if err != nil {
		return models.WeatherSample{}, err
	}

	return models.WeatherSample{
		Timestamp:   ts,
		Irradiance:  numeric(field(record, c.irradiance)),
		Temperature: numeric(field(record, c.temperature)),
		WindSpeed:   numeric(field(record, c.windSpeed)),
	}, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp format: %s", raw)
}

// numeric returns nil for anything that is not a finite number
func numeric(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "nan", "null", "none":
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
