// Package iocache persists loaded datasets and analysis history in SQL backends.
package iocache

import (
	"sync"

	"github.com/huangsam/uptake/internal/contract"
)

// CacheStoreManager manages the dataset cache and the analysis store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	dataset      contract.CacheStore
	analysis     contract.AnalysisStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetDatasetStore returns the dataset CacheStore.
func (mgr *CacheStoreManager) GetDatasetStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.dataset
}

// GetAnalysisStore returns the analysis AnalysisStore.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
