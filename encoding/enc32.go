package encoding

import "github.com/wippyai/term-encoding/term"

// E32 is the 32-bit low-bit tagging scheme.
//
//	bits 1..0  primary: 00 header, 01 list, 10 box, 11 immediate
//	bit  2     literal flag on list/box pointers
//	immediate  subtag bits 4..2, payload bits 31..5
//	header     subtag bits 5..2, arity bits 31..6
//
// Pointers are 8-byte aligned so the low three bits of an address are free.
type E32 struct{}

const (
	e32PrimaryMask  uint32 = 0x3
	e32TagHeader    uint32 = 0x0
	e32TagList      uint32 = 0x1
	e32TagBoxed     uint32 = 0x2
	e32TagImmediate uint32 = 0x3
	e32TagLiteral   uint32 = 0x4
	e32PointerMask  uint32 = ^uint32(0x7)

	e32ImmShift     = 2
	e32ImmMask      = uint32(0x7) << e32ImmShift
	e32PayloadShift = 5

	e32HdrShift   = 2
	e32HdrMask    = uint32(0xF) << e32HdrShift
	e32ArityShift = 6
)

var _ Scheme[uint32] = E32{}

func (E32) ID() ID         { return ID32 }
func (E32) WordBytes() int { return 4 }

func (E32) TypeOf(w uint32) term.Tag {
	switch w & e32PrimaryMask {
	case e32TagHeader:
		return headerTags[(w&e32HdrMask)>>e32HdrShift]
	case e32TagList:
		return term.List
	case e32TagBoxed:
		return term.Box
	}
	return immediateTags[(w&e32ImmMask)>>e32ImmShift]
}

func (s E32) EncodeBool(b bool) uint32 {
	if b {
		return s.EncodeImmediate(uint32(term.AtomTrue), term.Atom)
	}
	return s.EncodeImmediate(uint32(term.AtomFalse), term.Atom)
}

func (s E32) IsBoolean(w uint32) bool {
	return w == s.EncodeBool(false) || w == s.EncodeBool(true)
}

func (s E32) EncodeImmediate(payload uint32, tag term.Tag) uint32 {
	switch tag {
	case term.List, term.Box:
		return s.EncodePointer(payload, tag, false)
	}
	sub, ok := immediateSubtag(tag)
	if !ok {
		sub = 0
		payload = 0
	}
	return payload<<e32PayloadShift | uint32(sub)<<e32ImmShift | e32TagImmediate
}

func (s E32) DecodeImmediate(w uint32) uint32 {
	switch s.TypeOf(w) {
	case term.SmallInteger:
		return uint32(int32(w) >> e32PayloadShift)
	case term.List, term.Box:
		return s.PointerAddress(w)
	}
	if w&e32PrimaryMask == e32TagHeader {
		return s.DecodeHeaderValue(w)
	}
	return w >> e32PayloadShift
}

func (E32) EncodeHeader(arity uint32, tag term.Tag) uint32 {
	sub, _ := headerSubtag(tag)
	return arity<<e32ArityShift | uint32(sub)<<e32HdrShift | e32TagHeader
}

func (E32) DecodeHeaderValue(w uint32) uint32 {
	return w >> e32ArityShift
}

func (E32) IsTuple(w uint32) bool {
	return w&e32PrimaryMask == e32TagHeader && (w&e32HdrMask)>>e32HdrShift == subtagTuple
}

func (E32) IsFunction(w uint32) bool {
	return w&e32PrimaryMask == e32TagHeader && (w&e32HdrMask)>>e32HdrShift == subtagClosure
}

func (E32) EncodePointer(addr uint32, tag term.Tag, literal bool) uint32 {
	w := addr & e32PointerMask
	if tag == term.List {
		w |= e32TagList
	} else {
		w |= e32TagBoxed
	}
	if literal {
		w |= e32TagLiteral
	}
	return w
}

func (E32) PointerAddress(w uint32) uint32 { return w & e32PointerMask }

func (E32) IsLiteral(w uint32) bool {
	p := w & e32PrimaryMask
	return (p == e32TagList || p == e32TagBoxed) && w&e32TagLiteral != 0
}

func (E32) ImmediateMask() MaskInfo {
	return MaskInfo{Mask: uint64(e32ImmMask), Shift: e32ImmShift}
}

func (E32) HeaderMask() MaskInfo {
	return MaskInfo{Mask: uint64(e32HdrMask), Shift: e32HdrShift}
}

func (E32) ListTag() uint32     { return e32TagList }
func (E32) BoxTag() uint32      { return e32TagBoxed }
func (E32) LiteralTag() uint32  { return e32TagLiteral }
func (E32) PrimaryMask() uint32 { return e32PrimaryMask }

func (E32) ImmediateBits() uint   { return 32 - e32PayloadShift }
func (E32) HeaderArityBits() uint { return 32 - e32ArityShift }
