package atoms

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/wippyai/term-encoding/errors"
	"github.com/wippyai/term-encoding/term"
)

// MaxNameLen is the longest atom name, in characters.
const MaxNameLen = 255

var builtins = [...]string{"false", "true", "error", "exit", "throw", "nocatch", "normal"}

// Builtins returns the atoms every table contains, in id order.
func Builtins() []string {
	return slices.Clone(builtins[:])
}

// ValidateName checks that name can be stored NUL-terminated in a table.
func ValidateName(name string) error {
	if !utf8.ValidString(name) {
		return errors.InvalidInput(errors.PhaseAtoms, fmt.Sprintf("atom %q is not valid UTF-8", name))
	}
	if strings.IndexByte(name, 0) >= 0 {
		return errors.InvalidInput(errors.PhaseAtoms, fmt.Sprintf("atom %q contains NUL", name))
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLen {
		return errors.InvalidInput(errors.PhaseAtoms, fmt.Sprintf("atom of %d characters exceeds %d", n, MaxNameLen))
	}
	return nil
}

// Interner hands out dense ids in first-seen order. A new interner already
// holds the builtin atoms.
type Interner struct {
	mu     sync.RWMutex
	byName map[string]uint64
	byID   []string
}

func NewInterner() *Interner {
	in := &Interner{
		byName: make(map[string]uint64, 64),
		byID:   make([]string, 0, 64),
	}
	for _, name := range builtins {
		in.add(name)
	}
	if in.byName["false"] != term.AtomFalse || in.byName["true"] != term.AtomTrue {
		panic("atoms: boolean ids out of order")
	}
	return in
}

func (in *Interner) add(name string) uint64 {
	id := uint64(len(in.byID))
	in.byName[name] = id
	in.byID = append(in.byID, name)
	return id
}

// Intern returns the id for name, assigning the next one if needed.
func (in *Interner) Intern(name string) (uint64, error) {
	if id, ok := in.Lookup(name); ok {
		return id, nil
	}

	if err := ValidateName(name); err != nil {
		return 0, err
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	if id, ok := in.byName[name]; ok {
		return id, nil
	}
	return in.add(name), nil
}

// Lookup returns the id already assigned to name.
func (in *Interner) Lookup(name string) (uint64, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	id, ok := in.byName[name]
	return id, ok
}

func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.byID)
}

// Entries returns a snapshot of the interned atoms in id order.
func (in *Interner) Entries() []Entry {
	in.mu.RLock()
	defer in.mu.RUnlock()

	out := make([]Entry, len(in.byID))
	for i, name := range in.byID {
		out[i] = Entry{ID: uint64(i), Name: name}
	}
	return out
}
