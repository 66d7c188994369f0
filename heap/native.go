package heap

import "unsafe"

// Native reads process memory directly. The caller guarantees that every
// address it passes is a live, aligned heap word; nothing is checked.
type Native struct{}

func (Native) Load32(addr uint64) (uint32, error) {
	return *(*uint32)(unsafe.Pointer(uintptr(addr))), nil
}

func (Native) Load64(addr uint64) (uint64, error) {
	return *(*uint64)(unsafe.Pointer(uintptr(addr))), nil
}
