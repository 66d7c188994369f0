package dispatch

import (
	"github.com/wippyai/term-encoding/encoding"
	"github.com/wippyai/term-encoding/errors"
	"github.com/wippyai/term-encoding/heap"
	"github.com/wippyai/term-encoding/layout"
	"github.com/wippyai/term-encoding/term"
)

// deref classifies w, following one level of boxing.
func deref[W encoding.Word, S encoding.Scheme[W]](s S, mem heap.Memory, w W) (term.Tag, W, bool, error) {
	tag := s.TypeOf(w)
	if tag != term.Box {
		return tag, w, false, nil
	}
	header, err := heap.LoadWord[W](mem, uint64(s.PointerAddress(w)), s.WordBytes())
	if err != nil {
		return term.None, 0, true, err
	}
	return s.TypeOf(header), header, true, nil
}

// IsType reports whether w is a term of the given kind.
func IsType[W encoding.Word, S encoding.Scheme[W]](s S, mem heap.Memory, kind term.Kind, w W) (bool, error) {
	if !kind.Valid() {
		return false, errors.InvalidKind("is_type", uint32(kind))
	}

	tag, _, boxed, err := deref[W](s, mem, w)
	if err != nil {
		return false, err
	}

	switch kind {
	case term.KindTerm:
		return boxed || tag.IsTerm(), nil
	case term.KindList:
		return tag.IsList(), nil
	case term.KindNumber:
		if boxed {
			return tag.IsBoxedNumber(), nil
		}
		return tag.IsNumber(), nil
	case term.KindInteger:
		if boxed {
			return tag.IsBigInteger(), nil
		}
		return tag.IsInteger(), nil
	case term.KindBinary:
		return tag.IsBinary(), nil
	case term.KindPid:
		if boxed {
			return tag.IsExternalPid(), nil
		}
		return tag.IsPid(), nil
	case term.KindReference:
		if boxed {
			return tag.IsBoxedReference(), nil
		}
		return tag.IsReference(), nil
	case term.KindBoolean:
		return !boxed && s.IsBoolean(w), nil
	}

	want, err := kind.Tag()
	if err != nil {
		return false, err
	}
	// A boxed word is classified by its header, so Box itself never
	// matches. A header subtag that cannot be boxed means the pointer does
	// not lead to a real header.
	if boxed && !tag.IsBoxable() {
		return false, nil
	}
	return tag == want, nil
}

// IsBoxedType is IsType restricted to boxed words: anything that is not a
// box is rejected before its header is considered.
func IsBoxedType[W encoding.Word, S encoding.Scheme[W]](s S, mem heap.Memory, kind term.Kind, w W) (bool, error) {
	if !kind.Valid() {
		return false, errors.InvalidKind("is_boxed_type", uint32(kind))
	}
	if s.TypeOf(w) != term.Box {
		return false, nil
	}

	tag, _, _, err := deref[W](s, mem, w)
	if err != nil {
		return false, err
	}

	switch kind {
	case term.KindTerm:
		return tag.IsTerm(), nil
	case term.KindList:
		return tag.IsList(), nil
	case term.KindNumber:
		return tag.IsBoxedNumber(), nil
	case term.KindInteger:
		return tag.IsBigInteger(), nil
	case term.KindBinary:
		return tag.IsBinary(), nil
	case term.KindPid:
		return tag.IsExternalPid(), nil
	case term.KindReference:
		return tag.IsBoxedReference(), nil
	case term.KindBoolean:
		return false, nil
	}

	want, err := kind.Tag()
	if err != nil {
		return false, err
	}
	return tag == want, nil
}

// IsTuple reports whether w is a boxed tuple of exactly arity elements.
func IsTuple[W encoding.Word, S encoding.Scheme[W]](s S, mem heap.Memory, arity, w W) (bool, error) {
	if s.TypeOf(w) != term.Box {
		return false, nil
	}
	_, header, _, err := deref[W](s, mem, w)
	if err != nil {
		return false, err
	}
	if !s.IsTuple(header) {
		return false, nil
	}
	return s.DecodeHeaderValue(header) == arity, nil
}

// IsFunction reports whether w is a boxed closure of the given arity. The
// arity is read from the closure body at the offset published by package
// layout.
func IsFunction[W encoding.Word, S encoding.Scheme[W]](s S, mem heap.Memory, arity, w W) (bool, error) {
	if s.TypeOf(w) != term.Box {
		return false, nil
	}
	_, header, _, err := deref[W](s, mem, w)
	if err != nil {
		return false, err
	}
	if !s.IsFunction(header) {
		return false, nil
	}
	addr := uint64(s.PointerAddress(w)) + uint64(layout.ClosureArityOffset(uint32(s.WordBytes())))
	actual, err := mem.Load32(addr)
	if err != nil {
		return false, err
	}
	return uint64(actual) == uint64(arity), nil
}

// EncodeImmediate builds an immediate word. Only kinds with a unique physical
// tag that the scheme can hold in a word are accepted; unsigned payloads
// wider than the scheme allows are rejected rather than truncated.
func EncodeImmediate[W encoding.Word, S encoding.Scheme[W]](s S, kind term.Kind, payload W) (W, error) {
	if !kind.Valid() {
		return 0, errors.InvalidKind("encode_immediate", uint32(kind))
	}
	tag, err := kind.Tag()
	if err != nil {
		return 0, errors.NoPhysicalTag(errors.PhaseEncode, "encode_immediate", kind)
	}
	switch tag {
	case term.Atom, term.Pid, term.Port:
		if uint64(payload)>>s.ImmediateBits() != 0 {
			return 0, errors.Overflow(errors.PhaseEncode, "encode_immediate", uint64(payload), tag.String()+" payload")
		}
	}
	w := s.EncodeImmediate(payload, tag)
	if s.TypeOf(w) != tag {
		return 0, errors.Unrepresentable(errors.PhaseEncode, "encode_immediate", tag, "immediate")
	}
	return w, nil
}

// EncodeHeader builds a header word for a boxable kind.
func EncodeHeader[W encoding.Word, S encoding.Scheme[W]](s S, kind term.Kind, arity W) (W, error) {
	if !kind.Valid() {
		return 0, errors.InvalidKind("encode_header", uint32(kind))
	}
	tag, err := kind.Tag()
	if err != nil {
		return 0, errors.NoPhysicalTag(errors.PhaseEncode, "encode_header", kind)
	}
	if uint64(arity)>>s.HeaderArityBits() != 0 {
		return 0, errors.Overflow(errors.PhaseEncode, "encode_header", uint64(arity), "header arity")
	}
	w := s.EncodeHeader(arity, tag)
	if s.TypeOf(w) != tag {
		return 0, errors.Unrepresentable(errors.PhaseEncode, "encode_header", tag, "header")
	}
	return w, nil
}
