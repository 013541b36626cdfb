// Package iocache caches GitHub workflow run listings in a SQL database.
package iocache

import (
	"sync"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
)

// CacheStoreManager manages the CacheStore instances used by the analyzer.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	runs         contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetRunStore returns the workflow run CacheStore.
func (mgr *CacheStoreManager) GetRunStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
