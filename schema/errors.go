package schema

import "errors"

// Expected outcomes of the scoring engine. Callers check them with errors.Is.
var (
	// ErrInsufficientData means no signal was available to produce a result.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInsufficientExamples means training needs more labeled days.
	ErrInsufficientExamples = errors.New("insufficient training examples")

	// ErrInsufficientFeatures means a feature vector has too few signals for inference.
	ErrInsufficientFeatures = errors.New("insufficient features")

	// ErrModelNotTrained means no weights are available.
	ErrModelNotTrained = errors.New("model not trained")

	// ErrSingularSystem means the normal equations could not be solved.
	ErrSingularSystem = errors.New("singular system")

	// ErrPredictionNotFound means no prediction exists for a target day.
	ErrPredictionNotFound = errors.New("prediction not found")

	// ErrPredictionResolved means the prediction already carries its actual score.
	ErrPredictionResolved = errors.New("prediction already resolved")
)
