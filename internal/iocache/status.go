package iocache

import (
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/readiness/schema"
)

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.db == nil {
		return status, nil
	}

	for _, table := range historyTables {
		var count int64
		row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", hs.table(table)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	// History span across every day-keyed table
	dayColumns := map[string]string{
		checkInsTable:    "day",
		metricsTable:     "day",
		scoresTable:      "day",
		predictionsTable: "target_day",
	}
	var oldest, latest string
	for table, column := range dayColumns {
		var lo, hi sql.NullString
		row := hs.db.QueryRow(fmt.Sprintf("SELECT MIN(%s), MAX(%s) FROM %s", column, column, hs.table(table)))
		if err := row.Scan(&lo, &hi); err != nil {
			return status, fmt.Errorf("failed to get day range for table %s: %w", table, err)
		}
		if lo.Valid && (oldest == "" || lo.String < oldest) {
			oldest = lo.String
		}
		if hi.Valid && hi.String > latest {
			latest = hi.String
		}
	}
	if oldest != "" {
		status.OldestDay, _ = schema.ParseDayKey(oldest)
		status.LatestDay, _ = schema.ParseDayKey(latest)
	}

	status.TableSizeBytes = hs.estimateSize(status.TableSizes)
	return status, nil
}

// estimateSize asks the backend for the on-disk size, falling back to a rough estimate.
func (hs *HistoryStoreImpl) estimateSize(counts map[string]int64) int64 {
	var rows int64
	for _, n := range counts {
		rows += n
	}
	fallback := rows * 200

	var size int64
	switch hs.backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		// For SQLite, use page_count * page_size
		row := hs.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return fallback
		}
		return size

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(hs.connStr)
		if err != nil || cfg.DBName == "" {
			return fallback
		}
		row := hs.db.QueryRow("SELECT COALESCE(SUM(data_length + index_length), 0) FROM information_schema.tables WHERE table_schema = ?", cfg.DBName)
		if err := row.Scan(&size); err != nil {
			return fallback
		}
		return size

	case schema.PostgreSQLBackend:
		for _, table := range historyTables {
			var n int64
			if err := hs.db.QueryRow("SELECT pg_total_relation_size($1)", table).Scan(&n); err != nil {
				return fallback
			}
			size += n
		}
		return size

	default:
		return fallback
	}
}
