// Package core has core logic for scoring, forecasting and personalization.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/internal/importer"
	"github.com/huangsam/readiness/internal/outwriter"
	"github.com/huangsam/readiness/schema"
)

// ExecutorFunc defines the function signature for executing the readiness commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// newEngine builds the engine a command runs against.
func newEngine(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) *Engine {
	return NewEngine(cfg, mgr, recorderFrom(ctx))
}

// ExecuteCheckIn records the configured energy self-report.
func ExecuteCheckIn(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.EnergyLevel == nil {
		return errors.New("--energy is required for a check-in")
	}
	c := schema.CheckIn{Date: cfg.Date, Slot: cfg.Slot, EnergyLevel: *cfg.EnergyLevel}
	if err := newEngine(ctx, cfg, mgr).RecordCheckIn(ctx, c); err != nil {
		return err
	}
	fmt.Printf("Recorded %s check-in for %s (energy %d)\n", c.Slot, schema.DayKey(c.Date), c.EnergyLevel)
	return nil
}

// ExecuteRecord stores one day of metrics captured from flags.
func ExecuteRecord(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, m schema.MetricsRecord) error {
	if m.Date.IsZero() {
		m.Date = cfg.Date
	}
	if err := newEngine(ctx, cfg, mgr).RecordMetrics(ctx, m); err != nil {
		return err
	}
	fmt.Printf("Recorded metrics for %s\n", schema.DayKey(m.Date))
	return nil
}

// ExecuteImport loads metrics from a CSV, JSON, YAML or Parquet file and stores them.
func ExecuteImport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, path string) error {
	records, err := importer.Load(path)
	if err != nil {
		return err
	}
	saved, err := newEngine(ctx, cfg, mgr).RecordMetricsBatch(ctx, records)
	if err != nil {
		return fmt.Errorf("import stopped after %d days: %w", saved, err)
	}
	fmt.Printf("Imported %d of %d days from %s\n", saved, len(records), path)
	return nil
}

// ExecuteScore computes, stores and prints the readiness score of the configured day.
func ExecuteScore(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	score, err := newEngine(ctx, cfg, mgr).ScoreDay(ctx, cfg.Date, cfg.EnergyLevel)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteScore(score, cfg)
}

// ExecuteForecast predicts and prints the score of the day after the configured day.
func ExecuteForecast(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	p, created, err := newEngine(ctx, cfg, mgr).Forecast(ctx, cfg.Date, cfg.EnergyLevel)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteForecast(p, created, cfg)
}

// ExecuteTrain retrains the model from the stored history and prints the result.
func ExecuteTrain(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	engine := newEngine(ctx, cfg, mgr)
	if _, err := engine.Retrain(ctx); err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteModelReport(engine.ModelReport(), cfg)
}

// ExecuteModelStatus prints the personalization state.
func ExecuteModelStatus(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	return outwriter.NewOutWriter().WriteModelReport(newEngine(ctx, cfg, mgr).ModelReport(), cfg)
}

// ExecuteModelClear forgets the personalized model.
func ExecuteModelClear(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if err := newEngine(ctx, cfg, mgr).ClearModel(); err != nil {
		return fmt.Errorf("failed to clear model: %w", err)
	}
	fmt.Println("Model cleared. Scores use the rules scorer until the next retrain.")
	return nil
}

// ExecuteHistoryScores prints stored scores within the configured window.
func ExecuteHistoryScores(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	scores, err := newEngine(ctx, cfg, mgr).Scores(ctx, cfg.StartTime, cfg.EndTime, cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteScores(scores, cfg)
}

// ExecuteHistoryPredictions prints stored predictions within the configured window.
func ExecuteHistoryPredictions(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	predictions, summary, err := newEngine(ctx, cfg, mgr).Predictions(ctx, cfg.StartTime, cfg.EndTime, cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WritePredictions(predictions, summary, cfg)
}

// ExecuteHistoryExamples prints the examples the next retrain would use.
func ExecuteHistoryExamples(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	examples, err := newEngine(ctx, cfg, mgr).TrainingExamples(ctx)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTrainingExamples(examples, cfg)
}

// ExecuteMetrics displays the scoring definitions and the active weights.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.NewOutWriter().WriteMetrics(cfg)
}

// ExecuteStoreStatus prints the status of the history store.
func ExecuteStoreStatus(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	var history contract.HistoryStore
	if mgr != nil {
		history = mgr.GetHistoryStore()
	}
	if history == nil {
		return ErrNoHistoryStore
	}
	status, err := history.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if cfg.Backend == schema.NoneBackend {
		_, _ = fmt.Fprintln(os.Stderr, "Note: the none backend keeps history in memory for this run only.")
	}
	return outwriter.NewOutWriter().WriteStoreStatus(status, cfg)
}
