package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/internal/parquet"
	"github.com/huangsam/readiness/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// scoreCSVHeader is shared by single and list score output.
var scoreCSVHeader = []string{
	"date", "score", "label", "confidence", "source", "ml_weight",
	"hrv", "resting_hr", "sleep", "energy", "energy_level",
}

// PrintScore outputs one daily score, dispatching based on the output format configured.
func PrintScore(score *schema.ReadinessScore, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, schema.EnrichScores([]schema.ReadinessScore{*score})[0])
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVScores(w, []schema.ReadinessScore{*score}, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetRows(parquet.ConvertScores([]schema.ReadinessScore{*score}), cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreText(w, score, cfg, fmtFloat)
		}, "Wrote text")
	}
}

// PrintScores outputs a list of daily scores, dispatching based on the output format configured.
func PrintScores(scores []schema.ReadinessScore, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, schema.EnrichScores(scores))
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVScores(w, scores, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetRows(parquet.ConvertScores(scores), cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoresTable(w, scores, cfg, fmtFloat)
		}, "Wrote table")
	}
}

// writeScoreText renders a single score with its component breakdown.
func writeScoreText(w io.Writer, s *schema.ReadinessScore, cfg *contract.Config, fmtFloat func(float64) string) error {
	title := fmt.Sprintf("Readiness for %s: %d (%s)", schema.DayKey(s.Date), s.Score, labelFor(s.Score, cfg))
	if _, err := fmt.Fprintln(w, heading("🔋", title, cfg)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Confidence: %s | Source: %s (ML weight %s)\n", s.Confidence, s.Source, fmtFloat(s.MLWeight)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Component", "Score", "Weight"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	weights := cfg.Weights
	if weights == nil {
		weights = schema.GetDefaultWeights()
	}
	components := s.Breakdown.Components()
	var data [][]string
	for _, key := range schema.AllBreakdownKeys {
		value, ok := components[key]
		if !ok {
			data = append(data, []string{string(key), "-", fmtFloat(weights[key])})
			continue
		}
		data = append(data, []string{string(key), fmt.Sprint(value), fmtFloat(weights[key])})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeScoresTable renders a score history as a table.
func writeScoresTable(w io.Writer, scores []schema.ReadinessScore, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)

	detail := showBreakdownColumns(cfg)
	headers := []string{"Date", "Score", "Label", "Confidence", "Source"}
	if detail {
		headers = append(headers, "HRV", "RHR", "Sleep", "Energy")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	total := 0
	for _, s := range scores {
		row := []string{
			schema.DayKey(s.Date),
			fmt.Sprint(s.Score),
			labelFor(s.Score, cfg),
			string(s.Confidence),
			string(s.Source),
		}
		if detail {
			b := s.Breakdown
			row = append(row,
				formatOptionalInt(b.HRV, "-"),
				formatOptionalInt(b.RestingHeartRate, "-"),
				formatOptionalInt(b.Sleep, "-"),
				formatOptionalInt(b.Energy, "-"),
			)
		}
		data = append(data, row)
		total += s.Score
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	mean := 0.0
	if len(scores) > 0 {
		mean = float64(total) / float64(len(scores))
	}
	_, err := fmt.Fprintf(w, "Showing %d days (mean score: %s)\n", len(scores), fmtFloat(mean))
	return err
}

// writeCSVScores writes scores in CSV format.
func writeCSVScores(w io.Writer, scores []schema.ReadinessScore, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, scoreCSVHeader, func(cw *csv.Writer) error {
		for _, s := range scores {
			b := s.Breakdown
			rec := []string{
				schema.DayKey(s.Date),
				fmt.Sprint(s.Score),
				schema.GetPlainLabel(s.Score),
				string(s.Confidence),
				string(s.Source),
				fmtFloat(s.MLWeight),
				formatOptionalInt(b.HRV, ""),
				formatOptionalInt(b.RestingHeartRate, ""),
				formatOptionalInt(b.Sleep, ""),
				formatOptionalInt(b.Energy, ""),
				formatOptionalInt(s.SourceEnergyLevel, ""),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
