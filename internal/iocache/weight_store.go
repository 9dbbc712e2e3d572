package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/schema"
)

// ridgeWeightsKey is the model_state row holding the ridge weights.
const ridgeWeightsKey = "ridge_weights"

// WeightStoreImpl keeps the ridge weights as JSON in the model_state table.
// encoding/json writes the shortest decimal that parses back to the same
// float64, so weights survive a round trip bit for bit.
type WeightStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	key     string
}

var _ contract.WeightStore = &WeightStoreImpl{} // Compile-time check

// NewWeightStore creates a WeightStore over an already migrated database.
func NewWeightStore(db *sql.DB, backend schema.DatabaseBackend) *WeightStoreImpl {
	return &WeightStoreImpl{db: db, backend: backend, key: ridgeWeightsKey}
}

// Save replaces the stored weights.
func (ws *WeightStoreImpl) Save(weights []float64, trainedExampleCount int, trainedAt time.Time) error {
	data, err := json.Marshal(schema.ModelWeights{
		Weights:             weights,
		TrainedExampleCount: trainedExampleCount,
		LastTrainedAt:       trainedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}

	quoted := quoteTableName(modelStateTable, ws.backend)
	var query string
	switch ws.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (state_key, state_value, updated_at) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE state_value = new.state_value, updated_at = new.updated_at`, quoted)
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (state_key, state_value, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (state_key) DO UPDATE SET state_value = EXCLUDED.state_value, updated_at = EXCLUDED.updated_at`, quoted)
	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (state_key, state_value, updated_at) VALUES (?, ?, ?)`, quoted)
	}

	if _, err := ws.db.Exec(query, ws.key, string(data), encodeTime(time.Now())); err != nil {
		return fmt.Errorf("failed to save weights: %w", err)
	}
	return nil
}

// Load returns the stored weights, or nil when nothing was saved.
func (ws *WeightStoreImpl) Load() (*schema.ModelWeights, error) {
	query := rebind(fmt.Sprintf(`SELECT state_value FROM %s WHERE state_key = ?`, quoteTableName(modelStateTable, ws.backend)), ws.backend)

	var value string
	if err := ws.db.QueryRow(query, ws.key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}

	var w schema.ModelWeights
	if err := json.Unmarshal([]byte(value), &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
	}
	return &w, nil
}

// Clear removes the stored weights.
func (ws *WeightStoreImpl) Clear() error {
	query := rebind(fmt.Sprintf(`DELETE FROM %s WHERE state_key = ?`, quoteTableName(modelStateTable, ws.backend)), ws.backend)
	if _, err := ws.db.Exec(query, ws.key); err != nil {
		return fmt.Errorf("failed to clear weights: %w", err)
	}
	return nil
}
