package heap

import "github.com/wippyai/term-encoding/encoding"

// Memory reads little-endian words at trusted addresses.
type Memory interface {
	Load32(addr uint64) (uint32, error)
	Load64(addr uint64) (uint64, error)
}

// LoadWord reads a word of wordBytes bytes at addr.
func LoadWord[W encoding.Word](m Memory, addr uint64, wordBytes int) (W, error) {
	if wordBytes == 4 {
		v, err := m.Load32(addr)
		return W(v), err
	}
	v, err := m.Load64(addr)
	return W(v), err
}
