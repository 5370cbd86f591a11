// Command analyze runs the analytics engines over a period,value CSV and
// prints the combined results as JSON, for preparing dashboard data offline.
package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
	"github.com/nara-ocean/marine-analytics/internal/analytics/anomaly"
	"github.com/nara-ocean/marine-analytics/internal/analytics/forecast"
	"github.com/nara-ocean/marine-analytics/internal/analytics/seasonal"
	"github.com/nara-ocean/marine-analytics/internal/analytics/trend"
	"github.com/nara-ocean/marine-analytics/internal/config"
)

// Report is the combined output
type Report struct {
	SeriesID  string           `json:"seriesId"`
	Points    int              `json:"points"`
	Trend     *trend.Result    `json:"trend"`
	Anomalies *anomaly.Result  `json:"anomalies"`
	Seasonal  *seasonal.Result `json:"seasonal"`
	Forecast  *forecast.Result `json:"forecast"`
}

func main() {
	input := flag.String("input", "", "CSV file with period,value rows (default stdin)")
	seriesID := flag.String("series", "", "Series identifier reported in the output")
	configPath := flag.String("config", "", "Path to configuration file")
	period := flag.Int("period", 12, "Seasonal period")
	periodsAhead := flag.Int("periods-ahead", 0, "Forecast horizon (0 uses the configured default)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		cfg = loaded
	}

	var r io.Reader = os.Stdin
	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatalf("Error opening input: %v", err)
		}
		defer f.Close()
		r = f
	}

	points, err := readSeries(r)
	if err != nil {
		log.Fatalf("Error reading series: %v", err)
	}

	report, err := analyze(*seriesID, points, *period, *periodsAhead, &cfg.Analytics)
	if err != nil {
		log.Fatalf("Error analyzing series: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("Error writing output: %v", err)
	}
}

// readSeries parses period,value rows. A first row whose value column is not
// numeric is treated as a header.
func readSeries(r io.Reader) ([]analytics.TimeSeriesPoint, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var points []analytics.TimeSeriesPoint
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: value %q is not a number", line, record[1])
		}
		points = append(points, analytics.TimeSeriesPoint{Period: strings.TrimSpace(record[0]), Value: value})
	}
	return points, nil
}

func analyze(seriesID string, points []analytics.TimeSeriesPoint, period, periodsAhead int, cfg *config.AnalyticsConfig) (*Report, error) {
	values := analytics.TimeSeriesData(points).Values()
	report := &Report{SeriesID: seriesID, Points: len(points)}

	var err error
	if report.Trend, err = trend.Analyze(values, cfg.TrendOptions()); err != nil {
		return nil, fmt.Errorf("trend: %w", err)
	}
	if report.Anomalies, err = anomaly.Detect(values, cfg.AnomalyOptions()); err != nil {
		return nil, fmt.Errorf("anomalies: %w", err)
	}
	if report.Seasonal, err = seasonal.Analyze(values, period, cfg.SeasonalOptions()); err != nil {
		return nil, fmt.Errorf("seasonal: %w", err)
	}

	opts := cfg.ForecastOptions()
	if periodsAhead > 0 {
		opts.PeriodsAhead = periodsAhead
	}
	if report.Forecast, err = forecast.Forecast(seriesID, points, opts); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	return report, nil
}
