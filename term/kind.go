package term

import "github.com/wippyai/term-encoding/errors"

// Kind is the logical classification requested across the FFI boundary.
//
// The numeric values are part of the ABI shared with the code generator and
// must not be reordered.
type Kind uint32

const (
	KindNone Kind = iota
	KindTerm
	KindList
	KindNumber
	KindInteger
	KindFloat
	KindAtom
	KindBoolean
	KindFixnum
	KindBigInt
	KindNil
	KindCons
	KindTuple
	KindMap
	KindClosure
	KindBinary
	KindHeapBin
	KindProcBin
	KindBox
	KindPid
	KindReference

	numKinds
)

var kindNames = [numKinds]string{
	KindNone:      "none",
	KindTerm:      "term",
	KindList:      "list",
	KindNumber:    "number",
	KindInteger:   "integer",
	KindFloat:     "float",
	KindAtom:      "atom",
	KindBoolean:   "boolean",
	KindFixnum:    "fixnum",
	KindBigInt:    "bigint",
	KindNil:       "nil",
	KindCons:      "cons",
	KindTuple:     "tuple",
	KindMap:       "map",
	KindClosure:   "closure",
	KindBinary:    "binary",
	KindHeapBin:   "heapbin",
	KindProcBin:   "procbin",
	KindBox:       "box",
	KindPid:       "pid",
	KindReference: "reference",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "kind(?)"
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k < numKinds }

// Kinds returns every defined kind in ABI order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind converts a raw FFI value into a Kind.
func ParseKind(op string, raw uint32) (Kind, error) {
	k := Kind(raw)
	if !k.Valid() {
		return 0, errors.InvalidKind(op, raw)
	}
	return k, nil
}

// KindByName looks up a kind by its lower-case name.
func KindByName(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// IsPolymorphic reports whether the kind may be realized by more than one
// physical tag depending on boxing.
func (k Kind) IsPolymorphic() bool {
	switch k {
	case KindTerm, KindPid, KindReference, KindList, KindNumber, KindInteger, KindBinary:
		return true
	}
	return false
}

// Tag maps a kind onto its unique physical tag. Polymorphic kinds and the
// internal Boolean kind have no such tag; callers must route them through the
// two-level classification instead.
func (k Kind) Tag() (Tag, error) {
	switch k {
	case KindNone:
		return None, nil
	case KindAtom:
		return Atom, nil
	case KindFixnum:
		return SmallInteger, nil
	case KindBigInt:
		return BigInteger, nil
	case KindFloat:
		return Float, nil
	case KindNil:
		return Nil, nil
	case KindCons:
		return List, nil
	case KindTuple:
		return Tuple, nil
	case KindMap:
		return Map, nil
	case KindClosure:
		return Closure, nil
	case KindHeapBin:
		return HeapBinary, nil
	case KindProcBin:
		return ProcBin, nil
	case KindBox:
		return Box, nil
	}
	return None, errors.NoPhysicalTag(errors.PhaseClassify, "kind_to_tag", k)
}
