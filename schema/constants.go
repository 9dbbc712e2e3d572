package schema

// Custom string types for type safety.
type (
	// BreakdownKey represents keys used in the readiness breakdown.
	BreakdownKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// Confidence represents how many signals contributed to a score.
	Confidence string

	// ScoreSource represents which scorer produced a number.
	ScoreSource string

	// TrainingState represents the lifecycle state of the ridge model.
	TrainingState string

	// CheckInSlot represents the time of day of a self-report.
	CheckInSlot string

	// DatabaseBackend represents the database backend for history storage.
	DatabaseBackend string
)

// Breakdown keys used in the rules scorer.
const (
	BreakdownHRV       BreakdownKey = "hrv"
	BreakdownSleep     BreakdownKey = "sleep"
	BreakdownEnergy    BreakdownKey = "energy"
	BreakdownRestingHR BreakdownKey = "resting_hr"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All confidence tiers.
const (
	FullConfidence    Confidence = "full"
	PartialConfidence Confidence = "partial"
	LimitedConfidence Confidence = "limited"
)

// All score sources.
const (
	RulesSource   ScoreSource = "rules" // default
	BlendedSource ScoreSource = "blended"
	MLSource      ScoreSource = "ml"
)

// All training states.
const (
	NotTrainedState TrainingState = "notTrained"
	TrainingRunning TrainingState = "training"
	TrainedState    TrainingState = "trained"
	FailedState     TrainingState = "failed"
)

// All check-in slots. A completed day has both.
const (
	MorningSlot CheckInSlot = "morning"
	EveningSlot CheckInSlot = "evening"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllBreakdownKeys lists the rules components in display order.
var AllBreakdownKeys = []BreakdownKey{BreakdownHRV, BreakdownSleep, BreakdownEnergy, BreakdownRestingHR}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidCheckInSlots lists all valid check-in slots.
var ValidCheckInSlots = map[CheckInSlot]struct{}{
	MorningSlot: {},
	EveningSlot: {},
}

// ValidDatabaseBackends lists all valid storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// GetDefaultWeights returns the population weights of the rules scorer.
func GetDefaultWeights() map[BreakdownKey]float64 {
	return map[BreakdownKey]float64{
		BreakdownHRV:       0.30,
		BreakdownSleep:     0.25,
		BreakdownEnergy:    0.25,
		BreakdownRestingHR: 0.20,
	}
}
