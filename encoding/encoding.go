package encoding

import (
	"github.com/wippyai/term-encoding/errors"
	"github.com/wippyai/term-encoding/term"
)

// Word is the native unit of a term under some encoding.
type Word interface {
	~uint32 | ~uint64
}

// MaskInfo describes how to extract a tag field from a word:
// (word & Mask) >> Shift.
type MaskInfo struct {
	Mask  uint64
	Shift uint32
}

// Extract applies the mask to w.
func (m MaskInfo) Extract(w uint64) uint64 {
	return (w & m.Mask) >> m.Shift
}

// Scheme is the capability every concrete encoding provides. All methods are
// pure, total and allocation-free.
type Scheme[W Word] interface {
	ID() ID
	WordBytes() int

	// TypeOf classifies any word, including header words read through a box.
	TypeOf(w W) term.Tag
	// IsBoolean is true only for the two reserved boolean immediates.
	IsBoolean(w W) bool
	EncodeBool(b bool) W

	// EncodeImmediate packs payload with an immediate tag. List and Box
	// treat the payload as an address. Tags that are never immediate under
	// the scheme produce the None word.
	EncodeImmediate(payload W, tag term.Tag) W
	// DecodeImmediate is the inverse of EncodeImmediate; small integers are
	// sign-extended to the full word.
	DecodeImmediate(w W) W

	EncodeHeader(arity W, tag term.Tag) W
	DecodeHeaderValue(w W) W
	IsTuple(header W) bool
	IsFunction(header W) bool

	EncodePointer(addr W, tag term.Tag, literal bool) W
	PointerAddress(w W) W
	IsLiteral(w W) bool

	ImmediateMask() MaskInfo
	HeaderMask() MaskInfo
	ListTag() W
	BoxTag() W
	LiteralTag() W
	PrimaryMask() W

	// ImmediateBits is the payload width of an immediate.
	ImmediateBits() uint
	// HeaderArityBits is the width of the header arity field.
	HeaderArityBits() uint
}

// ID names one of the closed set of encodings.
type ID uint8

const (
	ID32 ID = iota + 1
	ID64
	ID64Nanboxed
)

func (id ID) String() string {
	switch id {
	case ID32:
		return "encoding32"
	case ID64:
		return "encoding64"
	case ID64Nanboxed:
		return "encoding64-nanboxed"
	}
	return "encoding(?)"
}

// IDs returns the supported encodings.
func IDs() []ID {
	return []ID{ID32, ID64, ID64Nanboxed}
}

// ParseID resolves the String form of an ID.
func ParseID(s string) (ID, bool) {
	for _, id := range IDs() {
		if id.String() == s {
			return id, true
		}
	}
	return 0, false
}

// EncodingInfo identifies the encoding that governs a word at runtime. It is
// passed by value across the generic dispatch surface so that a compiler
// running on one host can reason about a different target.
type EncodingInfo struct {
	// PointerSize is the target pointer width in bits.
	PointerSize       uint32
	SupportsNanboxing bool
}

// Select maps the descriptor onto a concrete encoding. The nanboxing flag is
// ignored for 32-bit targets.
func (i EncodingInfo) Select(op string) (ID, error) {
	switch i.PointerSize {
	case 32:
		return ID32, nil
	case 64:
		if i.SupportsNanboxing {
			return ID64Nanboxed, nil
		}
		return ID64, nil
	}
	return 0, errors.InvalidEncoding(op, i.PointerSize, i.SupportsNanboxing)
}

// Info returns the canonical descriptor for id.
func (id ID) Info() EncodingInfo {
	switch id {
	case ID32:
		return EncodingInfo{PointerSize: 32}
	case ID64:
		return EncodingInfo{PointerSize: 64}
	case ID64Nanboxed:
		return EncodingInfo{PointerSize: 64, SupportsNanboxing: true}
	}
	return EncodingInfo{}
}

// Constants is the bit layout of an encoding, widened to 64 bits, for tooling
// that emits equivalent native instructions.
type Constants struct {
	Immediate   MaskInfo
	Header      MaskInfo
	ListTag     uint64
	BoxTag      uint64
	LiteralTag  uint64
	PrimaryMask uint64
	WordBytes   int
}

// Constants returns the layout constants for id.
func (id ID) Constants() (Constants, error) {
	switch id {
	case ID32:
		return constantsOf[uint32](E32{}), nil
	case ID64:
		return constantsOf[uint64](E64{}), nil
	case ID64Nanboxed:
		return constantsOf[uint64](E64Nanboxed{}), nil
	}
	return Constants{}, errors.InvalidInput(errors.PhaseDecode, "unknown encoding "+id.String())
}

func constantsOf[W Word, S Scheme[W]](s S) Constants {
	return Constants{
		Immediate:   s.ImmediateMask(),
		Header:      s.HeaderMask(),
		ListTag:     uint64(s.ListTag()),
		BoxTag:      uint64(s.BoxTag()),
		LiteralTag:  uint64(s.LiteralTag()),
		PrimaryMask: uint64(s.PrimaryMask()),
		WordBytes:   s.WordBytes(),
	}
}

// Subtag assignments shared by all encodings. Unassigned slots classify as
// None so that TypeOf stays total.
var immediateTags = [8]term.Tag{
	0: term.None,
	1: term.Nil,
	2: term.Atom,
	3: term.SmallInteger,
	4: term.Pid,
	5: term.Port,
	6: term.None,
	7: term.None,
}

var headerTags = [16]term.Tag{
	0:  term.None,
	1:  term.Tuple,
	2:  term.BigInteger,
	3:  term.Float,
	4:  term.Map,
	5:  term.Closure,
	6:  term.HeapBinary,
	7:  term.ProcBin,
	8:  term.SubBinary,
	9:  term.MatchContext,
	10: term.Reference,
	11: term.ExternalPid,
	12: term.ExternalPort,
	13: term.ExternalReference,
	14: term.ResourceReference,
	15: term.None,
}

const (
	subtagTuple   = 1
	subtagClosure = 5
)

func immediateSubtag(t term.Tag) (uint64, bool) {
	if t == term.None {
		return 0, true
	}
	for i, tag := range immediateTags {
		if tag == t {
			return uint64(i), true
		}
	}
	return 0, false
}

func headerSubtag(t term.Tag) (uint64, bool) {
	if t == term.None {
		return 0, true
	}
	for i, tag := range headerTags {
		if tag == t {
			return uint64(i), true
		}
	}
	return 0, false
}
