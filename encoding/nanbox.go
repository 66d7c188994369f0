package encoding

import (
	"math"

	"github.com/wippyai/term-encoding/term"
)

// E64Nanboxed stores doubles inline and hides every other term in the NaN
// space. The top 16 bits select the tag:
//
//	0x7FF9 box      0x7FFD pid
//	0x7FFA list     0x7FFE port
//	0x7FFB fixnum   0x7FFF nil
//	0x7FFC atom     0xFFF9 none
//	0xFFFA header   0xFFFB..0xFFFF none (reserved)
//
// Any other pattern is a float. Header words keep the subtag in bits 47..44
// and the arity in bits 43..0. Small integers carry 48 signed bits.
type E64Nanboxed struct{}

const (
	nbTagShift          = 48
	nbTagMask    uint64 = 0xFFFF << nbTagShift
	nbPayload    uint64 = 1<<nbTagShift - 1
	nbPointer    uint64 = nbPayload &^ 0x7
	nbLiteral    uint64 = 0x1
	canonicalNaN uint64 = 0x7FF8_0000_0000_0000

	nbBox    uint64 = 0x7FF9
	nbList   uint64 = 0x7FFA
	nbFixnum uint64 = 0x7FFB
	nbAtom   uint64 = 0x7FFC
	nbPid    uint64 = 0x7FFD
	nbPort   uint64 = 0x7FFE
	nbNil    uint64 = 0x7FFF
	nbNone   uint64 = 0xFFF9
	nbHeader uint64 = 0xFFFA

	nbHdrShift  = 44
	nbHdrMask   = uint64(0xF) << nbHdrShift
	nbArityMask = uint64(1)<<nbHdrShift - 1
)

var _ Scheme[uint64] = E64Nanboxed{}

func (E64Nanboxed) ID() ID         { return ID64Nanboxed }
func (E64Nanboxed) WordBytes() int { return 8 }

// tagged reports whether the top 16 bits fall inside the reserved NaN space.
func tagged(w uint64) bool {
	top := w >> nbTagShift
	return (top >= nbBox && top <= nbNil) || top >= nbNone
}

func (E64Nanboxed) TypeOf(w uint64) term.Tag {
	switch w >> nbTagShift {
	case nbBox:
		return term.Box
	case nbList:
		return term.List
	case nbFixnum:
		return term.SmallInteger
	case nbAtom:
		return term.Atom
	case nbPid:
		return term.Pid
	case nbPort:
		return term.Port
	case nbNil:
		return term.Nil
	case nbHeader:
		return headerTags[(w&nbHdrMask)>>nbHdrShift]
	}
	if tagged(w) {
		return term.None
	}
	return term.Float
}

func (s E64Nanboxed) EncodeBool(b bool) uint64 {
	if b {
		return s.EncodeImmediate(term.AtomTrue, term.Atom)
	}
	return s.EncodeImmediate(term.AtomFalse, term.Atom)
}

func (s E64Nanboxed) IsBoolean(w uint64) bool {
	return w == s.EncodeBool(false) || w == s.EncodeBool(true)
}

// EncodeImmediate packs payload under tag. For Float the payload is the raw
// IEEE-754 bit pattern; NaNs that would collide with the tagged space are
// replaced by the canonical quiet NaN.
func (s E64Nanboxed) EncodeImmediate(payload uint64, tag term.Tag) uint64 {
	var top uint64
	switch tag {
	case term.Float:
		if tagged(payload) {
			return canonicalNaN
		}
		return payload
	case term.List, term.Box:
		return s.EncodePointer(payload, tag, false)
	case term.SmallInteger:
		top = nbFixnum
	case term.Atom:
		top = nbAtom
	case term.Pid:
		top = nbPid
	case term.Port:
		top = nbPort
	case term.Nil:
		top = nbNil
	default:
		return nbNone << nbTagShift
	}
	return top<<nbTagShift | payload&nbPayload
}

// EncodeFloat is EncodeImmediate for a float64.
func (s E64Nanboxed) EncodeFloat(f float64) uint64 {
	return s.EncodeImmediate(math.Float64bits(f), term.Float)
}

// DecodeFloat returns the double held in w. The result is meaningless unless
// TypeOf(w) is Float.
func (E64Nanboxed) DecodeFloat(w uint64) float64 {
	return math.Float64frombits(w)
}

func (s E64Nanboxed) DecodeImmediate(w uint64) uint64 {
	switch s.TypeOf(w) {
	case term.Float:
		return w
	case term.SmallInteger:
		return uint64(int64(w<<(64-nbTagShift)) >> (64 - nbTagShift))
	case term.List, term.Box:
		return s.PointerAddress(w)
	}
	if w>>nbTagShift == nbHeader {
		return s.DecodeHeaderValue(w)
	}
	return w & nbPayload
}

func (E64Nanboxed) EncodeHeader(arity uint64, tag term.Tag) uint64 {
	sub, _ := headerSubtag(tag)
	return nbHeader<<nbTagShift | sub<<nbHdrShift | arity&nbArityMask
}

func (E64Nanboxed) DecodeHeaderValue(w uint64) uint64 {
	return w & nbArityMask
}

func (E64Nanboxed) IsTuple(w uint64) bool {
	return w>>nbTagShift == nbHeader && (w&nbHdrMask)>>nbHdrShift == subtagTuple
}

func (E64Nanboxed) IsFunction(w uint64) bool {
	return w>>nbTagShift == nbHeader && (w&nbHdrMask)>>nbHdrShift == subtagClosure
}

func (E64Nanboxed) EncodePointer(addr uint64, tag term.Tag, literal bool) uint64 {
	top := nbBox
	if tag == term.List {
		top = nbList
	}
	w := top<<nbTagShift | addr&nbPointer
	if literal {
		w |= nbLiteral
	}
	return w
}

func (E64Nanboxed) PointerAddress(w uint64) uint64 { return w & nbPointer }

func (E64Nanboxed) IsLiteral(w uint64) bool {
	top := w >> nbTagShift
	return (top == nbBox || top == nbList) && w&nbLiteral != 0
}

func (E64Nanboxed) ImmediateMask() MaskInfo {
	return MaskInfo{Mask: nbTagMask, Shift: nbTagShift}
}

func (E64Nanboxed) HeaderMask() MaskInfo {
	return MaskInfo{Mask: nbHdrMask, Shift: nbHdrShift}
}

func (E64Nanboxed) ListTag() uint64     { return nbList << nbTagShift }
func (E64Nanboxed) BoxTag() uint64      { return nbBox << nbTagShift }
func (E64Nanboxed) LiteralTag() uint64  { return nbLiteral }
func (E64Nanboxed) PrimaryMask() uint64 { return nbTagMask }

func (E64Nanboxed) ImmediateBits() uint   { return nbTagShift }
func (E64Nanboxed) HeaderArityBits() uint { return nbHdrShift }
