// Package importer reads daily metrics exports from disk.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/readiness/internal/parquet"
	"github.com/huangsam/readiness/schema"
	"gopkg.in/yaml.v3"
)

// Column names shared by every supported format.
const (
	ColumnDate             = "date"
	ColumnRestingHeartRate = "resting_heart_rate"
	ColumnHRV              = "hrv"
	ColumnSleepHours       = "sleep_hours"
	ColumnStepCount        = "step_count"
	ColumnActiveEnergy     = "active_energy"
)

// ErrUnsupportedFormat is returned for file extensions Load does not know.
var ErrUnsupportedFormat = errors.New("unsupported import format")

// Load reads metrics records from path. The format is chosen by extension:
// .csv, .json, .yaml/.yml or .parquet. Records are sanitized and their dates
// truncated to the day.
func Load(path string) ([]schema.MetricsRecord, error) {
	var (
		rows []parquet.MetricsRow
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		rows, err = parquet.ReadMetricsParquet(path)
	case ".csv", ".json", ".yaml", ".yml":
		rows, err = decodeFile(path, ext)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	return toRecords(rows)
}

func decodeFile(path, ext string) ([]parquet.MetricsRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = file.Close() }()

	switch ext {
	case ".csv":
		return DecodeCSV(file)
	case ".json":
		return DecodeJSON(file)
	default:
		return DecodeYAML(file)
	}
}

// DecodeJSON reads a JSON array of metrics rows.
func DecodeJSON(r io.Reader) ([]parquet.MetricsRow, error) {
	var rows []parquet.MetricsRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return rows, nil
}

// DecodeYAML reads a YAML sequence of metrics rows.
func DecodeYAML(r io.Reader) ([]parquet.MetricsRow, error) {
	var rows []parquet.MetricsRow
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode YAML: %w", err)
	}
	return rows, nil
}

// DecodeCSV reads a CSV file with a header row. Columns may appear in any
// order, unknown columns are ignored and empty cells are absent values.
func DecodeCSV(r io.Reader) ([]parquet.MetricsRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := index[ColumnDate]; !ok {
		return nil, fmt.Errorf("CSV header is missing the %q column", ColumnDate)
	}

	var rows []parquet.MetricsRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		row, err := csvRow(record, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func csvRow(record []string, index map[string]int) (parquet.MetricsRow, error) {
	cell := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	float := func(name string) (*float64, error) {
		s := cell(name)
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", name, s)
		}
		return &v, nil
	}

	row := parquet.MetricsRow{Date: cell(ColumnDate)}
	var err error
	if row.RestingHeartRate, err = float(ColumnRestingHeartRate); err != nil {
		return row, err
	}
	if row.HRV, err = float(ColumnHRV); err != nil {
		return row, err
	}
	if row.SleepHours, err = float(ColumnSleepHours); err != nil {
		return row, err
	}
	if row.ActiveEnergy, err = float(ColumnActiveEnergy); err != nil {
		return row, err
	}
	if s := cell(ColumnStepCount); s != "" {
		steps, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return row, fmt.Errorf("invalid %s %q", ColumnStepCount, s)
		}
		row.StepCount = &steps
	}
	return row, nil
}

func toRecords(rows []parquet.MetricsRow) ([]schema.MetricsRecord, error) {
	records := make([]schema.MetricsRecord, 0, len(rows))
	for i, row := range rows {
		m, err := row.ToMetricsRecord()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, m.Sanitize())
	}
	return records, nil
}
