package atoms

import (
	"sync"
	"sync/atomic"

	"github.com/wippyai/term-encoding/errors"
)

type loaded struct {
	table *Table
	err   error
}

var (
	initOnce sync.Once
	current  atomic.Pointer[loaded]
)

// Init loads the process-wide table. Only the first call runs load; later
// calls return the first result.
func Init(load func() (*Table, error)) error {
	initOnce.Do(func() {
		t, err := load()
		if t == nil && err == nil {
			err = errors.InvalidInput(errors.PhaseAtoms, "atom table loader returned no table")
		}
		current.Store(&loaded{table: t, err: err})
	})
	return current.Load().err
}

// Default returns the table installed by Init.
func Default() (*Table, error) {
	l := current.Load()
	if l == nil {
		return nil, errors.NotInitialized(errors.PhaseAtoms, "atom table")
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.table, nil
}
