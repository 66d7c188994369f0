package encoding

import "github.com/wippyai/term-encoding/term"

// E64 is the 64-bit scheme that keeps the primary tag in the top two bits.
//
//	bits 63..62  primary: 00 immediate, 01 list, 10 box, 11 header
//	bit  0       literal flag on list/box pointers
//	immediate    subtag bits 61..59, payload bits 58..0
//	header       subtag bits 61..58, arity bits 57..0
//
// Zero is the None immediate.
type E64 struct{}

const (
	e64PrimaryShift        = 62
	e64PrimaryMask  uint64 = 0x3 << e64PrimaryShift
	e64TagImmediate uint64 = 0x0 << e64PrimaryShift
	e64TagList      uint64 = 0x1 << e64PrimaryShift
	e64TagBoxed     uint64 = 0x2 << e64PrimaryShift
	e64TagHeader    uint64 = 0x3 << e64PrimaryShift
	e64TagLiteral   uint64 = 0x1
	e64PointerMask  uint64 = 0x3FFF_FFFF_FFFF_FFF8

	e64ImmShift        = 59
	e64ImmMask         = uint64(0x7) << e64ImmShift
	e64PayloadMask     = uint64(1)<<e64ImmShift - 1
	e64SignExtendShift = 64 - e64ImmShift
	e64HdrShift        = 58
	e64HdrMask         = uint64(0xF) << e64HdrShift
	e64ArityMask       = uint64(1)<<e64HdrShift - 1
)

var _ Scheme[uint64] = E64{}

func (E64) ID() ID         { return ID64 }
func (E64) WordBytes() int { return 8 }

func (E64) TypeOf(w uint64) term.Tag {
	switch w & e64PrimaryMask {
	case e64TagImmediate:
		return immediateTags[(w&e64ImmMask)>>e64ImmShift]
	case e64TagList:
		return term.List
	case e64TagBoxed:
		return term.Box
	}
	return headerTags[(w&e64HdrMask)>>e64HdrShift]
}

func (s E64) EncodeBool(b bool) uint64 {
	if b {
		return s.EncodeImmediate(term.AtomTrue, term.Atom)
	}
	return s.EncodeImmediate(term.AtomFalse, term.Atom)
}

func (s E64) IsBoolean(w uint64) bool {
	return w == s.EncodeBool(false) || w == s.EncodeBool(true)
}

func (s E64) EncodeImmediate(payload uint64, tag term.Tag) uint64 {
	switch tag {
	case term.List, term.Box:
		return s.EncodePointer(payload, tag, false)
	}
	sub, ok := immediateSubtag(tag)
	if !ok {
		return e64TagImmediate
	}
	return e64TagImmediate | sub<<e64ImmShift | payload&e64PayloadMask
}

func (s E64) DecodeImmediate(w uint64) uint64 {
	switch s.TypeOf(w) {
	case term.SmallInteger:
		return uint64(int64(w<<e64SignExtendShift) >> e64SignExtendShift)
	case term.List, term.Box:
		return s.PointerAddress(w)
	}
	if w&e64PrimaryMask == e64TagHeader {
		return s.DecodeHeaderValue(w)
	}
	return w & e64PayloadMask
}

func (E64) EncodeHeader(arity uint64, tag term.Tag) uint64 {
	sub, _ := headerSubtag(tag)
	return e64TagHeader | sub<<e64HdrShift | arity&e64ArityMask
}

func (E64) DecodeHeaderValue(w uint64) uint64 {
	return w & e64ArityMask
}

func (E64) IsTuple(w uint64) bool {
	return w&e64PrimaryMask == e64TagHeader && (w&e64HdrMask)>>e64HdrShift == subtagTuple
}

func (E64) IsFunction(w uint64) bool {
	return w&e64PrimaryMask == e64TagHeader && (w&e64HdrMask)>>e64HdrShift == subtagClosure
}

func (E64) EncodePointer(addr uint64, tag term.Tag, literal bool) uint64 {
	w := addr & e64PointerMask
	if tag == term.List {
		w |= e64TagList
	} else {
		w |= e64TagBoxed
	}
	if literal {
		w |= e64TagLiteral
	}
	return w
}

func (E64) PointerAddress(w uint64) uint64 { return w & e64PointerMask }

func (E64) IsLiteral(w uint64) bool {
	p := w & e64PrimaryMask
	return (p == e64TagList || p == e64TagBoxed) && w&e64TagLiteral != 0
}

func (E64) ImmediateMask() MaskInfo {
	return MaskInfo{Mask: e64ImmMask, Shift: e64ImmShift}
}

func (E64) HeaderMask() MaskInfo {
	return MaskInfo{Mask: e64HdrMask, Shift: e64HdrShift}
}

func (E64) ListTag() uint64     { return e64TagList }
func (E64) BoxTag() uint64      { return e64TagBoxed }
func (E64) LiteralTag() uint64  { return e64TagLiteral }
func (E64) PrimaryMask() uint64 { return e64PrimaryMask }

func (E64) ImmediateBits() uint   { return e64ImmShift }
func (E64) HeaderArityBits() uint { return e64HdrShift }
