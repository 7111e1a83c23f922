// internal/export/statetable.go
//
// Per-record flow state tracking, read by the document component for
// status display.  Records start Idle.

package export

import "sync"

type stateTable struct {
	mu sync.RWMutex
	m  map[string]State
}

func newStateTable() *stateTable {
	return &stateTable{m: make(map[string]State)}
}

func (t *stateTable) get(id string) State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.m[id] // zero value is StateIdle
}

func (t *stateTable) set(id string, s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[id] = s
}
