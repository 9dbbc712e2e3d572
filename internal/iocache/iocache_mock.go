package iocache

import (
	"context"
	"time"

	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// GetWeightStore implements the StoreManager interface.
func (m *MockStoreManager) GetWeightStore() contract.WeightStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.WeightStore)
	return store
}

// MockWeightStore is a mock implementation of WeightStore for testing.
type MockWeightStore struct {
	mock.Mock
}

var _ contract.WeightStore = &MockWeightStore{} // Compile-time check

// Save implements the WeightStore interface.
func (m *MockWeightStore) Save(weights []float64, trainedExampleCount int, trainedAt time.Time) error {
	args := m.Called(weights, trainedExampleCount, trainedAt)
	return args.Error(0)
}

// Load implements the WeightStore interface.
func (m *MockWeightStore) Load() (*schema.ModelWeights, error) {
	args := m.Called()
	w, _ := args.Get(0).(*schema.ModelWeights)
	return w, args.Error(1)
}

// Clear implements the WeightStore interface.
func (m *MockWeightStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// SaveCheckIn implements the HistoryStore interface.
func (m *MockHistoryStore) SaveCheckIn(ctx context.Context, c schema.CheckIn) error {
	return m.Called(ctx, c).Error(0)
}

// GetCheckIns implements the HistoryStore interface.
func (m *MockHistoryStore) GetCheckIns(ctx context.Context, start, end time.Time) ([]schema.CheckIn, error) {
	args := m.Called(ctx, start, end)
	v, _ := args.Get(0).([]schema.CheckIn)
	return v, args.Error(1)
}

// SaveMetrics implements the HistoryStore interface.
func (m *MockHistoryStore) SaveMetrics(ctx context.Context, r schema.MetricsRecord) error {
	return m.Called(ctx, r).Error(0)
}

// GetMetrics implements the HistoryStore interface.
func (m *MockHistoryStore) GetMetrics(ctx context.Context, day time.Time) (*schema.MetricsRecord, error) {
	args := m.Called(ctx, day)
	v, _ := args.Get(0).(*schema.MetricsRecord)
	return v, args.Error(1)
}

// GetMetricsRange implements the HistoryStore interface.
func (m *MockHistoryStore) GetMetricsRange(ctx context.Context, start, end time.Time) ([]schema.MetricsRecord, error) {
	args := m.Called(ctx, start, end)
	v, _ := args.Get(0).([]schema.MetricsRecord)
	return v, args.Error(1)
}

// SaveScore implements the HistoryStore interface.
func (m *MockHistoryStore) SaveScore(ctx context.Context, s schema.ReadinessScore) error {
	return m.Called(ctx, s).Error(0)
}

// GetScore implements the HistoryStore interface.
func (m *MockHistoryStore) GetScore(ctx context.Context, day time.Time) (*schema.ReadinessScore, error) {
	args := m.Called(ctx, day)
	v, _ := args.Get(0).(*schema.ReadinessScore)
	return v, args.Error(1)
}

// GetScores implements the HistoryStore interface.
func (m *MockHistoryStore) GetScores(ctx context.Context, start, end time.Time) ([]schema.ReadinessScore, error) {
	args := m.Called(ctx, start, end)
	v, _ := args.Get(0).([]schema.ReadinessScore)
	return v, args.Error(1)
}

// SavePrediction implements the HistoryStore interface.
func (m *MockHistoryStore) SavePrediction(ctx context.Context, p schema.Prediction) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

// GetPrediction implements the HistoryStore interface.
func (m *MockHistoryStore) GetPrediction(ctx context.Context, target time.Time) (*schema.Prediction, error) {
	args := m.Called(ctx, target)
	v, _ := args.Get(0).(*schema.Prediction)
	return v, args.Error(1)
}

// GetPredictions implements the HistoryStore interface.
func (m *MockHistoryStore) GetPredictions(ctx context.Context, start, end time.Time) ([]schema.Prediction, error) {
	args := m.Called(ctx, start, end)
	v, _ := args.Get(0).([]schema.Prediction)
	return v, args.Error(1)
}

// ResolvePrediction implements the HistoryStore interface.
func (m *MockHistoryStore) ResolvePrediction(ctx context.Context, target time.Time, actual int, at time.Time) error {
	return m.Called(ctx, target, actual, at).Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	return m.Called().Error(0)
}
