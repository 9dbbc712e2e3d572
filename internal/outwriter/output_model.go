package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/internal/parquet"
	"github.com/huangsam/readiness/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ErrParquetUnsupported is returned for outputs that have no tabular row form.
var ErrParquetUnsupported = errors.New("parquet output is not supported for this command")

// weightNames labels the ridge weight vector positions.
var weightNames = [schema.WeightCount]string{"bias", "hrv", "rhr", "sleep", "day_of_week"}

// PrintModelReport outputs the personalization state of the ridge model.
func PrintModelReport(report schema.ModelReport, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVModelReport(w, report, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return ErrParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeModelReportText(w, report, cfg, fmtFloat)
		}, "Wrote text")
	}
}

func writeModelReportText(w io.Writer, r schema.ModelReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintln(w, heading("🧠", "Model: "+r.Status.String(), cfg)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Days of data: %d of %d transition days\n", r.DaysOfData, r.TransitionDays); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "ML weight: %s (rules weight %s)\n", fmtFloat(r.MLWeight), fmtFloat(1-r.MLWeight)); err != nil {
		return err
	}
	if len(r.Weights) != schema.WeightCount {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Term", "Weight"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	data := make([][]string, 0, schema.WeightCount)
	for i, v := range r.Weights {
		data = append(data, []string{weightNames[i], fmt.Sprintf("%.4f", v)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeCSVModelReport(w io.Writer, r schema.ModelReport, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"key", "value"}, func(cw *csv.Writer) error {
		rows := [][]string{
			{"state", string(r.Status.State)},
			{"example_count", fmt.Sprint(r.Status.ExampleCount)},
			{"days_of_data", fmt.Sprint(r.DaysOfData)},
			{"transition_days", fmt.Sprint(r.TransitionDays)},
			{"ml_weight", fmtFloat(r.MLWeight)},
		}
		if !r.Status.LastTrainedAt.IsZero() {
			rows = append(rows, []string{"last_trained_at", r.Status.LastTrainedAt.Format(contract.DateTimeFormat)})
		}
		if r.Status.Reason != "" {
			rows = append(rows, []string{"reason", r.Status.Reason})
		}
		if len(r.Weights) == schema.WeightCount {
			for i, v := range r.Weights {
				rows = append(rows, []string{"weight_" + weightNames[i], fmt.Sprintf("%.6f", v)})
			}
		}
		return cw.WriteAll(rows)
	})
}

// PrintTrainingExamples outputs the labeled days the model trains on.
func PrintTrainingExamples(examples []schema.TrainingExample, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, examples)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"date", "label", "hrv", "rhr", "sleep", "day_of_week"}, func(cw *csv.Writer) error {
				for _, ex := range examples {
					rec := append([]string{schema.DayKey(ex.Date), fmtFloat(ex.Label)}, featureCells(ex.Features, fmtFloat, "")...)
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetRows(parquet.ConvertTrainingExamples(examples), cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Date", "Label", "HRV", "RHR", "Sleep", "Weekday"})
			table.Configure(func(cfg *tablewriter.Config) {
				cfg.Row.Alignment.Global = tw.AlignRight
			})
			var data [][]string
			for _, ex := range examples {
				data = append(data, append([]string{schema.DayKey(ex.Date), fmtFloat(ex.Label)}, featureCells(ex.Features, fmtFloat, "-")...))
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing %d training examples\n", len(examples))
			return err
		}, "Wrote table")
	}
}

func featureCells(fv schema.FeatureVector, fmtFloat func(float64) string, missing string) []string {
	return []string{
		formatOptionalFloat(fv.HRV, fmtFloat, missing),
		formatOptionalFloat(fv.RHR, fmtFloat, missing),
		formatOptionalFloat(fv.Sleep, fmtFloat, missing),
		fmtFloat(fv.DayOfWeek),
	}
}
