package schema

import "time"

// CheckIn is a subjective 1-5 energy self-report.
type CheckIn struct {
	Date        time.Time   `json:"date"`
	Slot        CheckInSlot `json:"slot"`
	EnergyLevel int         `json:"energy_level"`
	RecordedAt  time.Time   `json:"recorded_at"`
}

// DayRecord is a unified per-day history row. Energies are absent until reported.
type DayRecord struct {
	Date         time.Time      `json:"date"`
	FirstEnergy  *int           `json:"first_energy,omitempty"`
	SecondEnergy *int           `json:"second_energy,omitempty"`
	Metrics      *MetricsRecord `json:"metrics,omitempty"`
}

// ObservationKind tags the shape of an ObservationSource.
type ObservationKind int

// Supported observation shapes.
const (
	PairedCheckInObservations ObservationKind = iota
	DayRecordObservations
)

// ObservationSource supplies completed daily observations to the training collector.
// Kind selects which fields are read.
type ObservationSource struct {
	Kind ObservationKind

	// PairedCheckInObservations
	CheckIns []CheckIn
	Metrics  []MetricsRecord

	// DayRecordObservations
	Days []DayRecord
}

// DayObservation is one completed day: both self-reports plus optional metrics.
type DayObservation struct {
	Date         time.Time
	FirstEnergy  int
	SecondEnergy int
	Metrics      *MetricsRecord
}
