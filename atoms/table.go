package atoms

import (
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/wippyai/term-encoding/errors"
	"github.com/wippyai/term-encoding/term"
)

// Entry is one atom of a table.
type Entry struct {
	Name string `cbor:"2,keyasint"`
	ID   uint64 `cbor:"1,keyasint"`
}

// Table is an immutable id <-> name mapping. It is safe for concurrent use.
type Table struct {
	byName  map[string]uint64
	entries []Entry
	buildID uuid.UUID
	dense   bool
}

// NewTable validates entries and builds a table from them. Ids and names must
// be unique, every builtin must be present, and false and true must carry
// their reserved ids.
func NewTable(entries []Entry, buildID uuid.UUID) (*Table, error) {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b Entry) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	t := &Table{
		byName:  make(map[string]uint64, len(sorted)),
		entries: sorted,
		buildID: buildID,
		dense:   true,
	}
	for i, e := range sorted {
		if i > 0 && sorted[i-1].ID == e.ID {
			return nil, errors.InvalidData(errors.PhaseAtoms, fmt.Sprintf("duplicate atom id %d", e.ID))
		}
		if err := ValidateName(e.Name); err != nil {
			return nil, err
		}
		if _, dup := t.byName[e.Name]; dup {
			return nil, errors.InvalidData(errors.PhaseAtoms, fmt.Sprintf("duplicate atom %q", e.Name))
		}
		t.byName[e.Name] = e.ID
		if e.ID != uint64(i) {
			t.dense = false
		}
	}

	for _, name := range builtins {
		if _, ok := t.byName[name]; !ok {
			return nil, errors.InvalidData(errors.PhaseAtoms, fmt.Sprintf("builtin atom %q missing", name))
		}
	}
	if t.byName["false"] != term.AtomFalse || t.byName["true"] != term.AtomTrue {
		return nil, errors.InvalidData(errors.PhaseAtoms, "false and true must have ids 0 and 1")
	}
	return t, nil
}

// Resolve returns the name of the atom with the given id.
func (t *Table) Resolve(id uint64) (string, bool) {
	if t.dense {
		if id < uint64(len(t.entries)) {
			return t.entries[id].Name, true
		}
		return "", false
	}
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].ID >= id })
	if i < len(t.entries) && t.entries[i].ID == id {
		return t.entries[i].Name, true
	}
	return "", false
}

// Lookup returns the id of the named atom.
func (t *Table) Lookup(name string) (uint64, bool) {
	id, ok := t.byName[name]
	return id, ok
}

func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy of the table in id order.
func (t *Table) Entries() []Entry { return slices.Clone(t.entries) }

// BuildID identifies the program the table was generated for.
func (t *Table) BuildID() uuid.UUID { return t.buildID }
