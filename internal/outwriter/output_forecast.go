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

var predictionCSVHeader = []string{
	"id", "created_at", "target_date", "predicted_score", "label",
	"confidence", "source", "actual_score", "absolute_error",
}

// PrintForecast outputs a next-day prediction. created is false when an
// earlier prediction for the same target day was returned instead.
func PrintForecast(p *schema.Prediction, created bool, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				Created bool `json:"created"`
				schema.EnrichedPrediction
			}{created, schema.EnrichPredictions([]schema.Prediction{*p})[0]})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVPredictions(w, []schema.Prediction{*p})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetRows(parquet.ConvertPredictions([]schema.Prediction{*p}), cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastText(w, p, created, cfg)
		}, "Wrote text")
	}
}

// PrintPredictions outputs stored predictions and their accuracy summary.
func PrintPredictions(predictions []schema.Prediction, summary schema.ForecastSummary, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				Predictions []schema.EnrichedPrediction `json:"predictions"`
				Summary     schema.ForecastSummary      `json:"summary"`
			}{schema.EnrichPredictions(predictions), summary})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVPredictions(w, predictions)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetRows(parquet.ConvertPredictions(predictions), cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePredictionsTable(w, predictions, summary, cfg, fmtFloat)
		}, "Wrote table")
	}
}

func writeForecastText(w io.Writer, p *schema.Prediction, created bool, cfg *contract.Config) error {
	title := fmt.Sprintf("Forecast for %s: %d (%s)", schema.DayKey(p.TargetDate), p.PredictedScore, labelFor(p.PredictedScore, cfg))
	if _, err := fmt.Fprintln(w, heading("🔮", title, cfg)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Confidence: %s | Source: %s\n", p.Confidence, p.Source); err != nil {
		return err
	}
	if !created {
		if _, err := fmt.Fprintf(w, "Already forecast at %s\n", p.CreatedAt.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	if diff, ok := p.AbsoluteError(); ok {
		if _, err := fmt.Fprintf(w, "Actual: %d (off by %d)\n", *p.ActualScore, diff); err != nil {
			return err
		}
	}
	return nil
}

func writePredictionsTable(w io.Writer, predictions []schema.Prediction, summary schema.ForecastSummary, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Target", "Predicted", "Label", "Confidence", "Source", "Actual", "Error"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range predictions {
		errCell := "-"
		if diff, ok := p.AbsoluteError(); ok {
			errCell = fmt.Sprint(diff)
		}
		data = append(data, []string{
			schema.DayKey(p.TargetDate),
			fmt.Sprint(p.PredictedScore),
			labelFor(p.PredictedScore, cfg),
			string(p.Confidence),
			string(p.Source),
			formatOptionalInt(p.ActualScore, "-"),
			errCell,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if summary.Resolved == 0 {
		_, err := fmt.Fprintf(w, "Showing %d predictions (none resolved yet)\n", summary.Total)
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d predictions (%d resolved, mean absolute error: %s)\n",
		summary.Total, summary.Resolved, fmtFloat(summary.MeanAbsoluteError))
	return err
}

func writeCSVPredictions(w io.Writer, predictions []schema.Prediction) error {
	return writeCSVWithHeader(w, predictionCSVHeader, func(cw *csv.Writer) error {
		for _, p := range predictions {
			errCell := ""
			if diff, ok := p.AbsoluteError(); ok {
				errCell = fmt.Sprint(diff)
			}
			rec := []string{
				p.ID,
				p.CreatedAt.Format(contract.DateTimeFormat),
				schema.DayKey(p.TargetDate),
				fmt.Sprint(p.PredictedScore),
				schema.GetPlainLabel(p.PredictedScore),
				string(p.Confidence),
				string(p.Source),
				formatOptionalInt(p.ActualScore, ""),
				errCell,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
