package heap

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/term-encoding/errors"
)

// arenaBase keeps address zero out of the arena so a null pointer never
// resolves to a live header.
const arenaBase = 8

// Arena is a growable, owned region of memory. Addresses handed out by Alloc
// are offsets into the arena and are aligned to at least 8 bytes, which keeps
// the low pointer bits free for tagging.
type Arena struct {
	buf []byte
}

// NewArena creates an arena with the given initial capacity in bytes.
func NewArena(capacity int) *Arena {
	return &Arena{buf: make([]byte, arenaBase, arenaBase+capacity)}
}

// Len is the number of bytes in use, including the reserved prefix.
func (a *Arena) Len() int { return len(a.buf) }

// Alloc reserves size zeroed bytes and returns their address.
func (a *Arena) Alloc(size, align uint32) (uint64, error) {
	if align < 8 {
		align = 8
	}
	start := (uint64(len(a.buf)) + uint64(align) - 1) &^ (uint64(align) - 1)
	end := start + uint64(size)
	if end > math.MaxInt32 {
		return 0, errors.Overflow(errors.PhaseDeref, "arena_alloc", end, "arena")
	}
	if int(end) > cap(a.buf) {
		grown := make([]byte, len(a.buf), max(int(end), 2*cap(a.buf)))
		copy(grown, a.buf)
		a.buf = grown
	}
	a.buf = a.buf[:end]
	clear(a.buf[start:end])
	return start, nil
}

func (a *Arena) bounds(addr uint64, size int) (int, error) {
	if addr < arenaBase || addr > uint64(len(a.buf)) || uint64(len(a.buf))-addr < uint64(size) {
		return 0, errors.OutOfBounds(errors.PhaseDeref, addr, size, len(a.buf))
	}
	return int(addr), nil
}

func (a *Arena) Load32(addr uint64) (uint32, error) {
	i, err := a.bounds(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(a.buf[i:]), nil
}

func (a *Arena) Load64(addr uint64) (uint64, error) {
	i, err := a.bounds(addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(a.buf[i:]), nil
}

func (a *Arena) Store32(addr uint64, v uint32) error {
	i, err := a.bounds(addr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(a.buf[i:], v)
	return nil
}

func (a *Arena) Store64(addr uint64, v uint64) error {
	i, err := a.bounds(addr, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(a.buf[i:], v)
	return nil
}

// StoreWord writes a word of wordBytes bytes at addr.
func (a *Arena) StoreWord(addr uint64, v uint64, wordBytes int) error {
	if wordBytes == 4 {
		if v > math.MaxUint32 {
			return errors.Overflow(errors.PhaseDeref, "arena_store", v, "u32")
		}
		return a.Store32(addr, uint32(v))
	}
	return a.Store64(addr, v)
}

// Bytes returns the arena contents. The slice aliases the arena until the
// next Alloc.
func (a *Arena) Bytes() []byte { return a.buf }

// StoreBytes copies p into the arena at addr.
func (a *Arena) StoreBytes(addr uint64, p []byte) error {
	i, err := a.bounds(addr, len(p))
	if err != nil {
		return err
	}
	copy(a.buf[i:], p)
	return nil
}
