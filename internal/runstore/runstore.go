// Package runstore tracks onset runs, their fits and retained cells in a SQL database.
package runstore

import (
	"sync"

	"github.com/snowline/s1snow/internal/contract"
)

// RunStoreManager holds the process-wide RunStore.
type RunStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	runs         contract.RunStore
}

var _ contract.StoreManager = &RunStoreManager{} // Compile-time check

// GetRunStore returns the RunStore, or nil when tracking is not initialized.
func (mgr *RunStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
