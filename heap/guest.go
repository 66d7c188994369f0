package heap

import (
	"math"

	"github.com/tetratelabs/wazero/api"
	"github.com/wippyai/term-encoding/errors"
)

// Guest adapts a wazero linear memory. Addresses are 32-bit guest offsets.
type Guest struct {
	Mem api.Memory
}

// WrapGuest returns nil for a module without memory.
func WrapGuest(mem api.Memory) *Guest {
	if mem == nil {
		return nil
	}
	return &Guest{Mem: mem}
}

func (g *Guest) offset(addr uint64, size int) (uint32, error) {
	if addr > math.MaxUint32 {
		return 0, errors.OutOfBounds(errors.PhaseDeref, addr, size, int(g.Mem.Size()))
	}
	return uint32(addr), nil
}

func (g *Guest) Load32(addr uint64) (uint32, error) {
	off, err := g.offset(addr, 4)
	if err != nil {
		return 0, err
	}
	v, ok := g.Mem.ReadUint32Le(off)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseDeref, addr, 4, int(g.Mem.Size()))
	}
	return v, nil
}

func (g *Guest) Load64(addr uint64) (uint64, error) {
	off, err := g.offset(addr, 8)
	if err != nil {
		return 0, err
	}
	v, ok := g.Mem.ReadUint64Le(off)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseDeref, addr, 8, int(g.Mem.Size()))
	}
	return v, nil
}
