package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/huangsam/readiness/core/algo"
	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/schema"
)

// componentDefinitions describes each rules component in display order.
var componentDefinitions = map[schema.BreakdownKey]schema.MetricsComponent{
	schema.BreakdownHRV: {
		Key:    schema.BreakdownHRV,
		Signal: "Heart rate variability (ms)",
		Curve:  "10 at 0ms, 50 at 40ms, 90 at 100ms, 100 at 150ms+",
	},
	schema.BreakdownSleep: {
		Key:    schema.BreakdownSleep,
		Signal: "Sleep duration (hours)",
		Curve:  "10 at 0h, 60 at 6h, 95-100 at 8-9h, floor 70 when oversleeping",
	},
	schema.BreakdownEnergy: {
		Key:    schema.BreakdownEnergy,
		Signal: "Self-reported energy (1-5)",
		Curve:  "level x 20",
	},
	schema.BreakdownRestingHR: {
		Key:    schema.BreakdownRestingHR,
		Signal: "Resting heart rate (bpm)",
		Curve:  "95 at 50bpm, 80 at 60bpm, 50 at 80bpm, floor 10; capped at 85 below 40bpm",
	},
}

// PrintMetricsDefinitions displays how scores and forecasts are computed.
// This is a static display that does not read history.
func PrintMetricsDefinitions(cfg *contract.Config) error {
	renderModel := buildMetricsRenderModel(cfg.Weights, cfg.TransitionDays)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, renderModel)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVMetrics(w, renderModel)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return ErrParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printMetricsText(w, renderModel, cfg)
		}, "Wrote text")
	}
}

// buildMetricsRenderModel constructs the complete render model with all processed data.
func buildMetricsRenderModel(weights map[schema.BreakdownKey]float64, transitionDays int) *schema.MetricsRenderModel {
	if weights == nil {
		weights = schema.GetDefaultWeights()
	}
	if transitionDays <= 0 {
		transitionDays = contract.DefaultTransitionDays
	}

	components := make([]schema.MetricsComponent, 0, len(schema.AllBreakdownKeys))
	for _, key := range schema.AllBreakdownKeys {
		c := componentDefinitions[key]
		c.Weight = weights[key]
		components = append(components, c)
	}

	return &schema.MetricsRenderModel{
		Title:          "Readiness Scoring",
		Description:    "Daily score = weighted mean of available components, renormalized over present signals",
		Components:     components,
		Formula:        formatWeights(components),
		BlendFormula:   fmt.Sprintf("final = (1-w)*rules + w*ml, w = min(days, %d)/%d", transitionDays, transitionDays),
		TransitionDays: transitionDays,
		Forecast:       algo.ForecastWeights(),
	}
}

// formatWeights formats weights for display in formulas.
func formatWeights(components []schema.MetricsComponent) string {
	var parts []string
	for _, c := range components {
		if c.Weight > 0 {
			parts = append(parts, fmt.Sprintf("%.2f*%s", c.Weight, c.Key))
		}
	}
	return strings.Join(parts, "+")
}

// sortedForecastKeys returns forecast signal names by descending weight.
func sortedForecastKeys(forecast map[string]float64) []string {
	keys := make([]string, 0, len(forecast))
	for k := range forecast {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if forecast[keys[i]] == forecast[keys[j]] {
			return keys[i] < keys[j]
		}
		return forecast[keys[i]] > forecast[keys[j]]
	})
	return keys
}

// printMetricsText displays metrics in human-readable text format.
func printMetricsText(w io.Writer, m *schema.MetricsRenderModel, cfg *contract.Config) error {
	title := heading("🔋", m.Title, cfg)
	lines := []string{
		title,
		strings.Repeat("=", len([]rune(title))),
		"",
		m.Description,
		"",
	}
	for _, c := range m.Components {
		lines = append(lines,
			fmt.Sprintf("%s (weight %.2f): %s", strings.ToUpper(string(c.Key)), c.Weight, c.Signal),
			"   Curve: "+c.Curve,
		)
	}
	lines = append(lines,
		"",
		"Formula: Score = "+m.Formula,
		"Blend:   "+m.BlendFormula,
		"",
		heading("🔮", "Next-day forecast", cfg),
		fmt.Sprintf("   forecast = clamp(today + %.1f * weighted adjustment, %d, %d)", algo.DampingFactor, algo.ForecastScoreMin, algo.ForecastScoreMax),
	)
	for _, k := range sortedForecastKeys(m.Forecast) {
		lines = append(lines, fmt.Sprintf("   %s: %.2f", k, m.Forecast[k]))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVMetrics writes the metrics definitions in CSV format.
func writeCSVMetrics(w io.Writer, m *schema.MetricsRenderModel) error {
	return writeCSVWithHeader(w, []string{"Kind", "Key", "Signal", "Curve", "Weight"}, func(cw *csv.Writer) error {
		for _, c := range m.Components {
			if err := cw.Write([]string{"rules", string(c.Key), c.Signal, c.Curve, fmt.Sprintf("%.2f", c.Weight)}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		for _, k := range sortedForecastKeys(m.Forecast) {
			if err := cw.Write([]string{"forecast", k, "", "", fmt.Sprintf("%.2f", m.Forecast[k])}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
