package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/internal/parquet"
	"github.com/huangsam/readiness/schema"
)

// ErrParquetNeedsFile is returned when parquet output is requested without --output-file.
var ErrParquetNeedsFile = errors.New("parquet output requires --output-file")

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// writeParquetRows writes rows to cfg.OutputFile. Parquet is binary, so stdout is refused.
func writeParquetRows[T any](rows []T, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return ErrParquetNeedsFile
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return parquet.Write(w, rows)
	}, "Wrote Parquet")
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// labelFor returns the readiness label, colored when the config allows it.
func labelFor(score int, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score)
	}
	return schema.GetPlainLabel(score)
}

// formatOptionalInt renders a missing value as "-" in tables and "" in CSV.
func formatOptionalInt(v *int, missing string) string {
	if v == nil {
		return missing
	}
	return strconv.Itoa(*v)
}

// formatOptionalFloat renders a missing value as "-" in tables and "" in CSV.
func formatOptionalFloat(v *float64, fmtFloat func(float64) string, missing string) string {
	if v == nil {
		return missing
	}
	return fmtFloat(*v)
}

// heading returns title with an optional emoji prefix.
func heading(emoji, title string, cfg *contract.Config) string {
	if cfg.UseEmojis {
		return emoji + " " + title
	}
	return title
}
