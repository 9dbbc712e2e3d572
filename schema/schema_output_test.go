package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, PeakValue, GetPlainLabel(92))
	assert.Equal(t, PeakValue, GetPlainLabel(80))
	assert.Equal(t, GoodValue, GetPlainLabel(65))
	assert.Equal(t, FairValue, GetPlainLabel(50))
	assert.Equal(t, LowValue, GetPlainLabel(49))
}

func TestEnrichScores(t *testing.T) {
	enriched := EnrichScores([]ReadinessScore{{Score: 85}, {Score: 40}})
	assert.Len(t, enriched, 2)
	assert.Equal(t, PeakValue, enriched[0].Label)
	assert.Equal(t, 85, enriched[0].Score)
	assert.Equal(t, LowValue, enriched[1].Label)
}

func TestEnrichPredictions(t *testing.T) {
	enriched := EnrichPredictions([]Prediction{{PredictedScore: 66}})
	assert.Equal(t, GoodValue, enriched[0].Label)
}
