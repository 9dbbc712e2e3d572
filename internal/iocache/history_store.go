package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/schema"
)

// HistoryStoreImpl implements the HistoryStore interface on database/sql.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore opens the database for backend and migrates it to the latest schema.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := migrateUp(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return &HistoryStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// DB returns the underlying connection pool.
func (hs *HistoryStoreImpl) DB() *sql.DB {
	return hs.db
}

// table returns the quoted name of a history table.
func (hs *HistoryStoreImpl) table(name string) string {
	return quoteTableName(name, hs.backend)
}

func (hs *HistoryStoreImpl) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return hs.db.ExecContext(ctx, rebind(query, hs.backend), args...)
}

func (hs *HistoryStoreImpl) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return hs.db.QueryContext(ctx, rebind(query, hs.backend), args...)
}

func (hs *HistoryStoreImpl) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return hs.db.QueryRowContext(ctx, rebind(query, hs.backend), args...)
}

// upsert returns the backend-specific INSERT that replaces on key conflict.
func (hs *HistoryStoreImpl) upsert(table string, columns []string, keys []string) string {
	quoted := hs.table(table)
	cols := ""
	marks := ""
	for i, c := range columns {
		if i > 0 {
			cols += ", "
			marks += ", "
		}
		cols += c
		marks += "?"
	}

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}

	switch hs.backend {
	case schema.MySQLBackend:
		set := ""
		for _, c := range columns {
			if isKey[c] {
				continue
			}
			if set != "" {
				set += ", "
			}
			set += fmt.Sprintf("%s = new.%s", c, c)
		}
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) AS new ON DUPLICATE KEY UPDATE %s`, quoted, cols, marks, set)

	case schema.PostgreSQLBackend:
		set := ""
		for _, c := range columns {
			if isKey[c] {
				continue
			}
			if set != "" {
				set += ", "
			}
			set += fmt.Sprintf("%s = EXCLUDED.%s", c, c)
		}
		conflict := ""
		for i, k := range keys {
			if i > 0 {
				conflict += ", "
			}
			conflict += k
		}
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s`, quoted, cols, marks, conflict, set)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s) VALUES (%s)`, quoted, cols, marks)
	}
}

// SaveCheckIn upserts the check-in for its day and slot.
func (hs *HistoryStoreImpl) SaveCheckIn(ctx context.Context, c schema.CheckIn) error {
	query := hs.upsert(checkInsTable, []string{"day", "slot", "energy_level", "recorded_at"}, []string{"day", "slot"})
	if _, err := hs.exec(ctx, query, schema.DayKey(c.Date), string(c.Slot), c.EnergyLevel, encodeTime(c.RecordedAt)); err != nil {
		return fmt.Errorf("failed to save check-in: %w", err)
	}
	return nil
}

// GetCheckIns returns check-ins between start and end ordered by day.
func (hs *HistoryStoreImpl) GetCheckIns(ctx context.Context, start, end time.Time) ([]schema.CheckIn, error) {
	lo, hi := dayRange(start, end)
	query := fmt.Sprintf(`SELECT day, slot, energy_level, recorded_at FROM %s
		WHERE day >= ? AND day <= ? ORDER BY day, recorded_at`, hs.table(checkInsTable))
	rows, err := hs.query(ctx, query, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("failed to query check-ins: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CheckIn
	for rows.Next() {
		var day, slot string
		var c schema.CheckIn
		var recordedAt int64
		if err := rows.Scan(&day, &slot, &c.EnergyLevel, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		if c.Date, err = schema.ParseDayKey(day); err != nil {
			return nil, fmt.Errorf("failed to parse check-in day %q: %w", day, err)
		}
		c.Slot = schema.CheckInSlot(slot)
		c.RecordedAt = decodeTime(recordedAt)
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check-ins: %w", err)
	}
	return results, nil
}

// SaveMetrics upserts the metrics of a day.
func (hs *HistoryStoreImpl) SaveMetrics(ctx context.Context, m schema.MetricsRecord) error {
	query := hs.upsert(metricsTable,
		[]string{"day", "resting_heart_rate", "hrv", "sleep_duration", "step_count", "active_energy", "updated_at"},
		[]string{"day"})
	_, err := hs.exec(ctx, query,
		schema.DayKey(m.Date), m.RestingHeartRate, m.HRV, m.SleepDuration, m.StepCount, m.ActiveEnergy,
		encodeTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to save metrics: %w", err)
	}
	return nil
}

const metricsColumns = "day, resting_heart_rate, hrv, sleep_duration, step_count, active_energy"

func scanMetrics(scanner interface{ Scan(...any) error }) (schema.MetricsRecord, error) {
	var m schema.MetricsRecord
	var day string
	var steps sql.NullInt64
	if err := scanner.Scan(&day, &m.RestingHeartRate, &m.HRV, &m.SleepDuration, &steps, &m.ActiveEnergy); err != nil {
		return m, err
	}
	var err error
	if m.Date, err = schema.ParseDayKey(day); err != nil {
		return m, fmt.Errorf("failed to parse metrics day %q: %w", day, err)
	}
	if steps.Valid {
		m.StepCount = schema.IntPtr(int(steps.Int64))
	}
	return m, nil
}

// GetMetrics returns the metrics of a day, or nil when none were recorded.
func (hs *HistoryStoreImpl) GetMetrics(ctx context.Context, day time.Time) (*schema.MetricsRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE day = ?`, metricsColumns, hs.table(metricsTable))
	m, err := scanMetrics(hs.queryRow(ctx, query, schema.DayKey(day)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics: %w", err)
	}
	return &m, nil
}

// GetMetricsRange returns metrics between start and end ordered by day.
func (hs *HistoryStoreImpl) GetMetricsRange(ctx context.Context, start, end time.Time) ([]schema.MetricsRecord, error) {
	lo, hi := dayRange(start, end)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE day >= ? AND day <= ? ORDER BY day`, metricsColumns, hs.table(metricsTable))
	rows, err := hs.query(ctx, query, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.MetricsRecord
	for rows.Next() {
		m, err := scanMetrics(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metrics: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metrics: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}
