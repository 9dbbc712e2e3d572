// Package iocache persists readiness history and model weights.
package iocache

import (
	"sync"

	"github.com/huangsam/readiness/internal/contract"
)

// StoreManagerImpl manages the history and weight stores.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	history      contract.HistoryStore
	weights      contract.WeightStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// NewStoreManager wraps already opened stores.
func NewStoreManager(history contract.HistoryStore, weights contract.WeightStore) *StoreManagerImpl {
	return &StoreManagerImpl{history: history, weights: weights}
}

// GetHistoryStore returns the HistoryStore.
func (mgr *StoreManagerImpl) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// GetWeightStore returns the WeightStore.
func (mgr *StoreManagerImpl) GetWeightStore() contract.WeightStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.weights
}
