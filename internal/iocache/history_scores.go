package iocache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/readiness/schema"
)

// encodeJSON marshals v, or returns nil for a nil pointer so the column stays NULL.
func encodeJSON[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func decodeJSON[T any](s sql.NullString) (*T, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SaveScore upserts the readiness score of a day.
func (hs *HistoryStoreImpl) SaveScore(ctx context.Context, s schema.ReadinessScore) error {
	breakdown, err := json.Marshal(s.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}
	metrics, err := encodeJSON(s.SourceMetrics)
	if err != nil {
		return fmt.Errorf("failed to marshal source metrics: %w", err)
	}

	query := hs.upsert(scoresTable,
		[]string{"day", "score", "confidence", "source", "ml_weight", "breakdown", "source_metrics", "energy_level", "computed_at"},
		[]string{"day"})
	_, err = hs.exec(ctx, query,
		schema.DayKey(s.Date), s.Score, string(s.Confidence), string(s.Source), s.MLWeight,
		string(breakdown), metrics, s.SourceEnergyLevel, encodeTime(s.ComputedAt))
	if err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}
	return nil
}

const scoreColumns = "day, score, confidence, source, ml_weight, breakdown, source_metrics, energy_level, computed_at"

func scanScore(scanner interface{ Scan(...any) error }) (schema.ReadinessScore, error) {
	var s schema.ReadinessScore
	var day, confidence, source, breakdown string
	var metrics sql.NullString
	var energy sql.NullInt64
	var computedAt int64
	if err := scanner.Scan(&day, &s.Score, &confidence, &source, &s.MLWeight, &breakdown, &metrics, &energy, &computedAt); err != nil {
		return s, err
	}

	var err error
	if s.Date, err = schema.ParseDayKey(day); err != nil {
		return s, fmt.Errorf("failed to parse score day %q: %w", day, err)
	}
	if err := json.Unmarshal([]byte(breakdown), &s.Breakdown); err != nil {
		return s, fmt.Errorf("failed to unmarshal breakdown: %w", err)
	}
	if s.SourceMetrics, err = decodeJSON[schema.MetricsRecord](metrics); err != nil {
		return s, fmt.Errorf("failed to unmarshal source metrics: %w", err)
	}
	if energy.Valid {
		s.SourceEnergyLevel = schema.IntPtr(int(energy.Int64))
	}
	s.Confidence = schema.Confidence(confidence)
	s.Source = schema.ScoreSource(source)
	s.ComputedAt = decodeTime(computedAt)
	return s, nil
}

// GetScore returns the score of a day, or nil when none was computed.
func (hs *HistoryStoreImpl) GetScore(ctx context.Context, day time.Time) (*schema.ReadinessScore, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE day = ?`, scoreColumns, hs.table(scoresTable))
	s, err := scanScore(hs.queryRow(ctx, query, schema.DayKey(day)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}
	return &s, nil
}

// GetScores returns scores between start and end ordered by day.
func (hs *HistoryStoreImpl) GetScores(ctx context.Context, start, end time.Time) ([]schema.ReadinessScore, error) {
	lo, hi := dayRange(start, end)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE day >= ? AND day <= ? ORDER BY day`, scoreColumns, hs.table(scoresTable))
	rows, err := hs.query(ctx, query, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReadinessScore
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}
	return results, nil
}

// SavePrediction stores a prediction unless one exists for its target day.
func (hs *HistoryStoreImpl) SavePrediction(ctx context.Context, p schema.Prediction) (bool, error) {
	metrics, err := encodeJSON(p.InputMetrics)
	if err != nil {
		return false, fmt.Errorf("failed to marshal input metrics: %w", err)
	}

	var verb, suffix string
	switch hs.backend {
	case schema.MySQLBackend:
		verb = "INSERT IGNORE"
	case schema.PostgreSQLBackend:
		verb, suffix = "INSERT", " ON CONFLICT (target_day) DO NOTHING"
	default: // SQLite
		verb = "INSERT OR IGNORE"
	}
	query := fmt.Sprintf(`%s INTO %s (target_day, id, created_at, predicted_score, confidence, source,
		input_metrics, input_energy_level, actual_score, actual_recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)%s`, verb, hs.table(predictionsTable), suffix)

	var recordedAt any
	if p.ActualScoreRecordedAt != nil {
		recordedAt = encodeTime(*p.ActualScoreRecordedAt)
	}
	res, err := hs.exec(ctx, query,
		schema.DayKey(p.TargetDate), p.ID, encodeTime(p.CreatedAt), p.PredictedScore,
		string(p.Confidence), string(p.Source), metrics, p.InputEnergyLevel, p.ActualScore, recordedAt)
	if err != nil {
		return false, fmt.Errorf("failed to save prediction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check saved prediction: %w", err)
	}
	return n > 0, nil
}

const predictionColumns = `target_day, id, created_at, predicted_score, confidence, source,
	input_metrics, input_energy_level, actual_score, actual_recorded_at`

func scanPrediction(scanner interface{ Scan(...any) error }) (schema.Prediction, error) {
	var p schema.Prediction
	var day, confidence, source string
	var createdAt int64
	var metrics sql.NullString
	var energy, actual, recordedAt sql.NullInt64
	if err := scanner.Scan(&day, &p.ID, &createdAt, &p.PredictedScore, &confidence, &source,
		&metrics, &energy, &actual, &recordedAt); err != nil {
		return p, err
	}

	var err error
	if p.TargetDate, err = schema.ParseDayKey(day); err != nil {
		return p, fmt.Errorf("failed to parse target day %q: %w", day, err)
	}
	if p.InputMetrics, err = decodeJSON[schema.MetricsRecord](metrics); err != nil {
		return p, fmt.Errorf("failed to unmarshal input metrics: %w", err)
	}
	if energy.Valid {
		p.InputEnergyLevel = schema.IntPtr(int(energy.Int64))
	}
	if actual.Valid {
		p.ActualScore = schema.IntPtr(int(actual.Int64))
	}
	if recordedAt.Valid {
		t := decodeTime(recordedAt.Int64)
		p.ActualScoreRecordedAt = &t
	}
	p.CreatedAt = decodeTime(createdAt)
	p.Confidence = schema.Confidence(confidence)
	p.Source = schema.ScoreSource(source)
	return p, nil
}

// GetPrediction returns the prediction for a target day, or nil.
func (hs *HistoryStoreImpl) GetPrediction(ctx context.Context, target time.Time) (*schema.Prediction, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE target_day = ?`, predictionColumns, hs.table(predictionsTable))
	p, err := scanPrediction(hs.queryRow(ctx, query, schema.DayKey(target)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return &p, nil
}

// GetPredictions returns predictions with targets between start and end ordered by target day.
func (hs *HistoryStoreImpl) GetPredictions(ctx context.Context, start, end time.Time) ([]schema.Prediction, error) {
	lo, hi := dayRange(start, end)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE target_day >= ? AND target_day <= ? ORDER BY target_day`,
		predictionColumns, hs.table(predictionsTable))
	rows, err := hs.query(ctx, query, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}
	return results, nil
}

// ResolvePrediction attaches the actual score to an unresolved prediction.
func (hs *HistoryStoreImpl) ResolvePrediction(ctx context.Context, target time.Time, actual int, at time.Time) error {
	key := schema.DayKey(target)
	query := fmt.Sprintf(`UPDATE %s SET actual_score = ?, actual_recorded_at = ?
		WHERE target_day = ? AND actual_score IS NULL`, hs.table(predictionsTable))
	res, err := hs.exec(ctx, query, actual, encodeTime(at), key)
	if err != nil {
		return fmt.Errorf("failed to resolve prediction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check resolved prediction: %w", err)
	}
	if n > 0 {
		return nil
	}

	var count int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE target_day = ?`, hs.table(predictionsTable))
	if err := hs.queryRow(ctx, countQuery, key).Scan(&count); err != nil {
		return fmt.Errorf("failed to look up prediction: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", schema.ErrPredictionNotFound, key)
	}
	return fmt.Errorf("%w: %s", schema.ErrPredictionResolved, key)
}
