package schema

// Readiness label constants.
const (
	PeakValue = "Peak"
	GoodValue = "Good"
	FairValue = "Fair"
	LowValue  = "Low"
)

// GetPlainLabel returns a plain text readiness label for a score.
func GetPlainLabel(score int) string {
	switch {
	case score >= 80:
		return PeakValue
	case score >= 65:
		return GoodValue
	case score >= 50:
		return FairValue
	default:
		return LowValue
	}
}

// EnrichedScore adds presentation data to a ReadinessScore.
type EnrichedScore struct {
	Label string `json:"label"`
	ReadinessScore
}

// EnrichScores adds labels to a list of scores.
func EnrichScores(scores []ReadinessScore) []EnrichedScore {
	output := make([]EnrichedScore, len(scores))
	for i, s := range scores {
		output[i] = EnrichedScore{Label: GetPlainLabel(s.Score), ReadinessScore: s}
	}
	return output
}

// EnrichedPrediction adds presentation data to a Prediction.
type EnrichedPrediction struct {
	Label string `json:"label"`
	Prediction
}

// EnrichPredictions adds labels to a list of predictions.
func EnrichPredictions(predictions []Prediction) []EnrichedPrediction {
	output := make([]EnrichedPrediction, len(predictions))
	for i, p := range predictions {
		output[i] = EnrichedPrediction{Label: GetPlainLabel(p.PredictedScore), Prediction: p}
	}
	return output
}

// MetricsComponent describes one rules component for display.
type MetricsComponent struct {
	Key    BreakdownKey `json:"key"`
	Signal string       `json:"signal"`
	Curve  string       `json:"curve"`
	Weight float64      `json:"weight"`
}

// MetricsRenderModel contains all data needed for displaying scoring definitions.
type MetricsRenderModel struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Components     []MetricsComponent `json:"components"`
	Formula        string             `json:"formula"`
	BlendFormula   string             `json:"blend_formula"`
	TransitionDays int                `json:"transition_days"`
	Forecast       map[string]float64 `json:"forecast_weights"`
}
