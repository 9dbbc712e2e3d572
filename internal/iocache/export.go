package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/internal/parquet"
)

// ExportHistory writes the stored scores, predictions and metrics to Parquet
// files next to outputFile and reports progress to w.
func ExportHistory(ctx context.Context, store contract.HistoryStore, outputFile string, w io.Writer) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("no history store is configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.OldestDay.IsZero() {
		return errors.New("no history found to export")
	}
	_, _ = fmt.Fprintf(w, "Exporting history from %s backend...\n", status.Backend)

	var zero time.Time
	scores, err := store.GetScores(ctx, zero, zero)
	if err != nil {
		return fmt.Errorf("failed to retrieve scores: %w", err)
	}
	predictions, err := store.GetPredictions(ctx, zero, zero)
	if err != nil {
		return fmt.Errorf("failed to retrieve predictions: %w", err)
	}
	metrics, err := store.GetMetricsRange(ctx, zero, zero)
	if err != nil {
		return fmt.Errorf("failed to retrieve metrics: %w", err)
	}

	scoresFile := outputFile + ".scores.parquet"
	if err := parquet.WriteScoresParquet(parquet.ConvertScores(scores), scoresFile); err != nil {
		return fmt.Errorf("failed to write scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d scores to: %s\n", len(scores), scoresFile)

	predictionsFile := outputFile + ".predictions.parquet"
	if err := parquet.WritePredictionsParquet(parquet.ConvertPredictions(predictions), predictionsFile); err != nil {
		return fmt.Errorf("failed to write predictions: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d predictions to: %s\n", len(predictions), predictionsFile)

	metricsFile := outputFile + ".metrics.parquet"
	if err := parquet.WriteMetricsParquet(parquet.ConvertMetrics(metrics), metricsFile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d metrics days to: %s\n", len(metrics), metricsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The metrics file can be loaded back with `readiness import`.")
	return nil
}
