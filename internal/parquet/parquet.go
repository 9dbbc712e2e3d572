// Package parquet provides row types and functions for exporting readiness
// history to Parquet files and importing metrics from them, using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/readiness/schema"
	"github.com/parquet-go/parquet-go"
)

// ScoreRow is one daily readiness score.
type ScoreRow struct {
	// Date is the calendar day in YYYY-MM-DD form
	Date string `parquet:"date,snappy"`

	Score      int32   `parquet:"score,snappy"`
	Label      string  `parquet:"label,snappy"`
	Confidence string  `parquet:"confidence,snappy"`
	Source     string  `parquet:"source,snappy"`
	MLWeight   float64 `parquet:"ml_weight,snappy"`

	// Component scores are null when the signal was missing
	HRVComponent       *int32 `parquet:"hrv_component,optional,snappy"`
	RestingHRComponent *int32 `parquet:"resting_hr_component,optional,snappy"`
	SleepComponent     *int32 `parquet:"sleep_component,optional,snappy"`
	EnergyComponent    *int32 `parquet:"energy_component,optional,snappy"`

	EnergyLevel *int32    `parquet:"energy_level,optional,snappy"`
	ComputedAt  time.Time `parquet:"computed_at,snappy"`
}

// PredictionRow is one next-day prediction and its outcome.
type PredictionRow struct {
	ID             string    `parquet:"id,snappy"`
	CreatedAt      time.Time `parquet:"created_at,snappy"`
	TargetDate     string    `parquet:"target_date,snappy"`
	PredictedScore int32     `parquet:"predicted_score,snappy"`
	Confidence     string    `parquet:"confidence,snappy"`
	Source         string    `parquet:"source,snappy"`

	InputEnergyLevel *int32 `parquet:"input_energy_level,optional,snappy"`

	// Outcome fields are null until the target day is scored
	ActualScore      *int32     `parquet:"actual_score,optional,snappy"`
	ActualRecordedAt *time.Time `parquet:"actual_recorded_at,optional,snappy"`
	AbsoluteError    *int32     `parquet:"absolute_error,optional,snappy"`
}

// TrainingExampleRow is one labeled day of model input.
type TrainingExampleRow struct {
	Date      string   `parquet:"date,snappy"`
	Label     float64  `parquet:"label,snappy"`
	HRV       *float64 `parquet:"hrv,optional,snappy"`
	RHR       *float64 `parquet:"rhr,optional,snappy"`
	Sleep     *float64 `parquet:"sleep,optional,snappy"`
	DayOfWeek float64  `parquet:"day_of_week,snappy"`
}

// MetricsRow is one day of raw physiological metrics. It is the shared
// format of `store export` and `import`, so it also carries json and yaml tags.
type MetricsRow struct {
	Date             string   `parquet:"date,snappy" json:"date" yaml:"date"`
	RestingHeartRate *float64 `parquet:"resting_heart_rate,optional,snappy" json:"resting_heart_rate,omitempty" yaml:"resting_heart_rate,omitempty"`
	HRV              *float64 `parquet:"hrv,optional,snappy" json:"hrv,omitempty" yaml:"hrv,omitempty"`
	SleepHours       *float64 `parquet:"sleep_hours,optional,snappy" json:"sleep_hours,omitempty" yaml:"sleep_hours,omitempty"`
	StepCount        *int64   `parquet:"step_count,optional,snappy" json:"step_count,omitempty" yaml:"step_count,omitempty"`
	ActiveEnergy     *float64 `parquet:"active_energy,optional,snappy" json:"active_energy,omitempty" yaml:"active_energy,omitempty"`
}

// ConvertScores maps scores onto parquet rows.
func ConvertScores(scores []schema.ReadinessScore) []ScoreRow {
	rows := make([]ScoreRow, len(scores))
	for i, s := range scores {
		rows[i] = ScoreRow{
			Date:               schema.DayKey(s.Date),
			Score:              int32(s.Score),
			Label:              schema.GetPlainLabel(s.Score),
			Confidence:         string(s.Confidence),
			Source:             string(s.Source),
			MLWeight:           s.MLWeight,
			HRVComponent:       int32Ptr(s.Breakdown.HRV),
			RestingHRComponent: int32Ptr(s.Breakdown.RestingHeartRate),
			SleepComponent:     int32Ptr(s.Breakdown.Sleep),
			EnergyComponent:    int32Ptr(s.Breakdown.Energy),
			EnergyLevel:        int32Ptr(s.SourceEnergyLevel),
			ComputedAt:         s.ComputedAt,
		}
	}
	return rows
}

// ConvertPredictions maps predictions onto parquet rows.
func ConvertPredictions(predictions []schema.Prediction) []PredictionRow {
	rows := make([]PredictionRow, len(predictions))
	for i, p := range predictions {
		row := PredictionRow{
			ID:               p.ID,
			CreatedAt:        p.CreatedAt,
			TargetDate:       schema.DayKey(p.TargetDate),
			PredictedScore:   int32(p.PredictedScore),
			Confidence:       string(p.Confidence),
			Source:           string(p.Source),
			InputEnergyLevel: int32Ptr(p.InputEnergyLevel),
			ActualScore:      int32Ptr(p.ActualScore),
			ActualRecordedAt: p.ActualScoreRecordedAt,
		}
		if diff, ok := p.AbsoluteError(); ok {
			d := int32(diff)
			row.AbsoluteError = &d
		}
		rows[i] = row
	}
	return rows
}

// ConvertTrainingExamples maps examples onto parquet rows.
func ConvertTrainingExamples(examples []schema.TrainingExample) []TrainingExampleRow {
	rows := make([]TrainingExampleRow, len(examples))
	for i, ex := range examples {
		rows[i] = TrainingExampleRow{
			Date:      schema.DayKey(ex.Date),
			Label:     ex.Label,
			HRV:       ex.Features.HRV,
			RHR:       ex.Features.RHR,
			Sleep:     ex.Features.Sleep,
			DayOfWeek: ex.Features.DayOfWeek,
		}
	}
	return rows
}

// ConvertMetrics maps metrics records onto parquet rows.
func ConvertMetrics(records []schema.MetricsRecord) []MetricsRow {
	rows := make([]MetricsRow, len(records))
	for i := range records {
		m := &records[i]
		row := MetricsRow{
			Date:             schema.DayKey(m.Date),
			RestingHeartRate: m.RestingHeartRate,
			HRV:              m.HRV,
			ActiveEnergy:     m.ActiveEnergy,
		}
		if hours, ok := m.SleepHours(); ok {
			row.SleepHours = &hours
		}
		if m.StepCount != nil {
			steps := int64(*m.StepCount)
			row.StepCount = &steps
		}
		rows[i] = row
	}
	return rows
}

// ToMetricsRecord converts a row back into a metrics record.
func (r MetricsRow) ToMetricsRecord() (schema.MetricsRecord, error) {
	day, err := schema.ParseDayKey(r.Date)
	if err != nil {
		return schema.MetricsRecord{}, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	m := schema.MetricsRecord{
		Date:             day,
		RestingHeartRate: r.RestingHeartRate,
		HRV:              r.HRV,
		ActiveEnergy:     r.ActiveEnergy,
	}
	if r.SleepHours != nil {
		m.SleepDuration = schema.Float64Ptr(*r.SleepHours * 3600)
	}
	if r.StepCount != nil {
		m.StepCount = schema.IntPtr(int(*r.StepCount))
	}
	return m, nil
}

// Write encodes rows as a Parquet stream. The schema is derived from T's struct tags.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile writes rows to a new Parquet file at outputPath.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Write(file, rows)
}

// WriteScoresParquet writes score rows to a Parquet file.
func WriteScoresParquet(data []ScoreRow, outputPath string) error {
	return writeFile(data, outputPath)
}

// WritePredictionsParquet writes prediction rows to a Parquet file.
func WritePredictionsParquet(data []PredictionRow, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteTrainingExamplesParquet writes training example rows to a Parquet file.
func WriteTrainingExamplesParquet(data []TrainingExampleRow, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteMetricsParquet writes metrics rows to a Parquet file.
func WriteMetricsParquet(data []MetricsRow, outputPath string) error {
	return writeFile(data, outputPath)
}

// ReadMetricsParquet reads every metrics row of a Parquet file.
func ReadMetricsParquet(path string) ([]MetricsRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[MetricsRow](file)
	defer func() { _ = reader.Close() }()

	rows := make([]MetricsRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read parquet rows: %w", err)
	}
	return rows[:n], nil
}

func int32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	out := int32(*v)
	return &out
}
