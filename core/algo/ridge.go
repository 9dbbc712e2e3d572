package algo

import (
	"fmt"

	"github.com/huangsam/readiness/schema"
)

// Ridge regression parameters.
const (
	RidgeLambda         = 0.1
	MinTrainingExamples = 3
	MinPredictFeatures  = 2
	MLScoreMin          = 20
	MLScoreMax          = 100
)

// designRow returns [1, hrv, rhr, sleep, dayOfWeek].
func designRow(fv schema.FeatureVector) [schema.WeightCount]float64 {
	v := fv.Values()
	return [schema.WeightCount]float64{1, v[0], v[1], v[2], v[3]}
}

// FitRidge solves (XᵗX + λI)w = Xᵗy over the examples.
// The bias term is not regularized.
func FitRidge(examples []schema.TrainingExample) ([]float64, error) {
	if len(examples) < MinTrainingExamples {
		return nil, fmt.Errorf("%w: have %d, need %d", schema.ErrInsufficientExamples, len(examples), MinTrainingExamples)
	}

	xtx := make([][]float64, schema.WeightCount)
	for i := range xtx {
		xtx[i] = make([]float64, schema.WeightCount)
	}
	xty := make([]float64, schema.WeightCount)

	for _, ex := range examples {
		row := designRow(ex.Features)
		for i := range schema.WeightCount {
			xty[i] += row[i] * ex.Label
			for j := range schema.WeightCount {
				xtx[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 1; i < schema.WeightCount; i++ {
		xtx[i][i] += RidgeLambda
	}

	return SolveLinearSystem(xtx, xty)
}

// PredictRidge scores a feature vector with trained weights.
func PredictRidge(weights []float64, fv schema.FeatureVector) (int, error) {
	if len(weights) != schema.WeightCount {
		return 0, schema.ErrModelNotTrained
	}
	if fv.AvailableFeatureCount() < MinPredictFeatures {
		return 0, fmt.Errorf("%w: %d available", schema.ErrInsufficientFeatures, fv.AvailableFeatureCount())
	}
	row := designRow(fv)
	sum := 0.0
	for i, w := range weights {
		sum += w * row[i]
	}
	return schema.RoundClamp(sum, MLScoreMin, MLScoreMax), nil
}
