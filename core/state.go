package core

import (
	"sync"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

// DeriveState computes the launcher state from the manifest fetch outcome and
// the local installation, evaluated once at startup. Phase states
// (Downloading, Validating, Updating, Merging) are not derived here; the
// orchestrator that begins a phase sets them on a StateHolder.
//
// anyResourceMissing is consulted lazily and only when no local version
// marker exists, so a fully-marked installation never pays for a disk scan.
func DeriveState(manifestOK bool, localVersion, manifestVersion string, anyResourceMissing func() bool) contracts.LauncherState {
	if !manifestOK {
		return contracts.StateNetworkError
	}
	if localVersion == "" {
		if anyResourceMissing() {
			return contracts.StateNeedInstall
		}
		return contracts.StateStartGame
	}
	if localVersion != manifestVersion {
		return contracts.StateNeedUpdate
	}
	return contracts.StateStartGame
}

// StateHolder is the single process-wide home of the active launcher state.
type StateHolder struct {
	mutex sync.Mutex
	state contracts.LauncherState
}

func NewStateHolder(initial contracts.LauncherState) *StateHolder {
	return &StateHolder{state: initial}
}

func (this *StateHolder) Set(state contracts.LauncherState) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.state = state
}

func (this *StateHolder) Current() contracts.LauncherState {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.state
}
