package schema

import "time"

// StoreStatus represents the status of the history store.
type StoreStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	OldestDay      time.Time        `json:"oldest_day"`
	LatestDay      time.Time        `json:"latest_day"`
	TableSizes     map[string]int64 `json:"table_sizes"`
	TableSizeBytes int64            `json:"table_size_bytes"`
}
