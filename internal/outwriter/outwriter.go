// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteScore prints a single daily score.
func (ow *OutWriter) WriteScore(score *schema.ReadinessScore, cfg *contract.Config) error {
	return PrintScore(score, cfg)
}

// WriteScores prints a list of daily scores.
func (ow *OutWriter) WriteScores(scores []schema.ReadinessScore, cfg *contract.Config) error {
	return PrintScores(scores, cfg)
}

// WriteForecast prints a next-day prediction.
func (ow *OutWriter) WriteForecast(p *schema.Prediction, created bool, cfg *contract.Config) error {
	return PrintForecast(p, created, cfg)
}

// WritePredictions prints stored predictions with their accuracy summary.
func (ow *OutWriter) WritePredictions(predictions []schema.Prediction, summary schema.ForecastSummary, cfg *contract.Config) error {
	return PrintPredictions(predictions, summary, cfg)
}

// WriteModelReport prints the personalization state.
func (ow *OutWriter) WriteModelReport(report schema.ModelReport, cfg *contract.Config) error {
	return PrintModelReport(report, cfg)
}

// WriteTrainingExamples prints the examples the model would be trained on.
func (ow *OutWriter) WriteTrainingExamples(examples []schema.TrainingExample, cfg *contract.Config) error {
	return PrintTrainingExamples(examples, cfg)
}

// WriteMetrics prints the scoring definitions.
func (ow *OutWriter) WriteMetrics(cfg *contract.Config) error {
	return PrintMetricsDefinitions(cfg)
}

// WriteStoreStatus prints the history store status.
func (ow *OutWriter) WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	return PrintStoreStatus(status, cfg)
}

// Table widths at which optional columns are shown.
const (
	defaultTermWidth  = 80 // Conservative default for narrow terminals and CI
	breakdownMinWidth = 90
)

// getTermWidth returns the width override, else the detected terminal width.
func getTermWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return defaultTermWidth
	}
	return detectedWidth
}

// showBreakdownColumns reports whether the score table has room for per-component columns.
func showBreakdownColumns(cfg *contract.Config) bool {
	return getTermWidth(cfg) >= breakdownMinWidth
}
