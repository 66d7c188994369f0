package dispatch

import (
	"math"

	"github.com/wippyai/term-encoding/encoding"
	"github.com/wippyai/term-encoding/errors"
	"github.com/wippyai/term-encoding/heap"
	"github.com/wippyai/term-encoding/term"
)

func narrow(op string, v uint64) (uint32, error) {
	if v > math.MaxUint32 {
		return 0, errors.Overflow(errors.PhaseClassify, op, v, "32-bit word")
	}
	return uint32(v), nil
}

// predicate is one of the word-level tests, instantiated per scheme.
type predicate[W encoding.Word, S encoding.Scheme[W]] func(s S, mem heap.Memory, arg, w W) (bool, error)

// runPredicate selects the scheme for info and applies the test to value.
// arg is either a validated kind or an arity depending on the test.
func runPredicate(
	op string,
	info encoding.EncodingInfo,
	p32 predicate[uint32, encoding.E32],
	p64 predicate[uint64, encoding.E64],
	pnb predicate[uint64, encoding.E64Nanboxed],
	mem heap.Memory,
	arg, value uint64,
) (bool, error) {
	id, err := info.Select(op)
	if err != nil {
		return false, err
	}
	switch id {
	case encoding.ID32:
		w, err := narrow(op, value)
		if err != nil {
			return false, err
		}
		// No 32-bit term carries an arity this wide.
		if arg > math.MaxUint32 {
			return false, nil
		}
		return p32(encoding.E32{}, mem, uint32(arg), w)
	case encoding.ID64:
		return p64(encoding.E64{}, mem, arg, value)
	default:
		return pnb(encoding.E64Nanboxed{}, mem, arg, value)
	}
}

func kindTest[W encoding.Word, S encoding.Scheme[W]](
	test func(S, heap.Memory, term.Kind, W) (bool, error),
) predicate[W, S] {
	return func(s S, mem heap.Memory, kind, w W) (bool, error) {
		return test(s, mem, term.Kind(kind), w)
	}
}

// GenericIsType is IsType for the encoding described by info. The raw kind
// is validated against the ABI.
func GenericIsType(info encoding.EncodingInfo, mem heap.Memory, raw uint32, value uint64) (bool, error) {
	kind, err := term.ParseKind("lumen_is_type", raw)
	if err != nil {
		return false, err
	}
	return runPredicate("lumen_is_type", info,
		kindTest(IsType[uint32, encoding.E32]),
		kindTest(IsType[uint64, encoding.E64]),
		kindTest(IsType[uint64, encoding.E64Nanboxed]),
		mem, uint64(kind), value)
}

// GenericIsBoxedType is IsBoxedType for the encoding described by info.
func GenericIsBoxedType(info encoding.EncodingInfo, mem heap.Memory, raw uint32, value uint64) (bool, error) {
	kind, err := term.ParseKind("lumen_is_boxed_type", raw)
	if err != nil {
		return false, err
	}
	return runPredicate("lumen_is_boxed_type", info,
		kindTest(IsBoxedType[uint32, encoding.E32]),
		kindTest(IsBoxedType[uint64, encoding.E64]),
		kindTest(IsBoxedType[uint64, encoding.E64Nanboxed]),
		mem, uint64(kind), value)
}

// GenericIsTuple is IsTuple for the encoding described by info.
func GenericIsTuple(info encoding.EncodingInfo, mem heap.Memory, arity, value uint64) (bool, error) {
	return runPredicate("lumen_is_tuple", info,
		IsTuple[uint32, encoding.E32],
		IsTuple[uint64, encoding.E64],
		IsTuple[uint64, encoding.E64Nanboxed],
		mem, arity, value)
}

// GenericIsFunction is IsFunction for the encoding described by info.
func GenericIsFunction(info encoding.EncodingInfo, mem heap.Memory, arity, value uint64) (bool, error) {
	return runPredicate("lumen_is_function", info,
		IsFunction[uint32, encoding.E32],
		IsFunction[uint64, encoding.E64],
		IsFunction[uint64, encoding.E64Nanboxed],
		mem, arity, value)
}

// GenericEncodeImmediate is EncodeImmediate for the encoding described by
// info. The result is zero-extended to 64 bits.
func GenericEncodeImmediate(info encoding.EncodingInfo, raw uint32, value uint64) (uint64, error) {
	const op = "lumen_encode_immediate"
	kind, err := term.ParseKind(op, raw)
	if err != nil {
		return 0, err
	}
	id, err := info.Select(op)
	if err != nil {
		return 0, err
	}
	switch id {
	case encoding.ID32:
		v, err := narrow(op, value)
		if err != nil {
			return 0, err
		}
		w, err := EncodeImmediate[uint32](encoding.E32{}, kind, v)
		return uint64(w), err
	case encoding.ID64:
		return EncodeImmediate[uint64](encoding.E64{}, kind, value)
	default:
		return EncodeImmediate[uint64](encoding.E64Nanboxed{}, kind, value)
	}
}

// GenericEncodeHeader is EncodeHeader for the encoding described by info.
func GenericEncodeHeader(info encoding.EncodingInfo, raw uint32, arity uint64) (uint64, error) {
	const op = "lumen_encode_header"
	kind, err := term.ParseKind(op, raw)
	if err != nil {
		return 0, err
	}
	id, err := info.Select(op)
	if err != nil {
		return 0, err
	}
	switch id {
	case encoding.ID32:
		a, err := narrow(op, arity)
		if err != nil {
			return 0, err
		}
		w, err := EncodeHeader[uint32](encoding.E32{}, kind, a)
		return uint64(w), err
	case encoding.ID64:
		return EncodeHeader[uint64](encoding.E64{}, kind, arity)
	default:
		return EncodeHeader[uint64](encoding.E64Nanboxed{}, kind, arity)
	}
}

func constants(op string, info encoding.EncodingInfo) (encoding.Constants, error) {
	id, err := info.Select(op)
	if err != nil {
		return encoding.Constants{}, err
	}
	return id.Constants()
}

// ListTag is the tag bits of a list pointer.
func ListTag(info encoding.EncodingInfo) (uint64, error) {
	c, err := constants("lumen_list_tag", info)
	return c.ListTag, err
}

// BoxTag is the tag bits of a box pointer.
func BoxTag(info encoding.EncodingInfo) (uint64, error) {
	c, err := constants("lumen_box_tag", info)
	return c.BoxTag, err
}

// LiteralTag is the flag marking a pointer into constant data.
func LiteralTag(info encoding.EncodingInfo) (uint64, error) {
	c, err := constants("lumen_literal_tag", info)
	return c.LiteralTag, err
}

// ListMask is the mask that isolates the pointer tag of a word.
func ListMask(info encoding.EncodingInfo) (uint64, error) {
	c, err := constants("lumen_list_mask", info)
	return c.PrimaryMask, err
}

// ImmediateMask locates the immediate subtag within a word.
func ImmediateMask(info encoding.EncodingInfo) (encoding.MaskInfo, error) {
	c, err := constants("lumen_immediate_mask", info)
	return c.Immediate, err
}

// HeaderMask locates the header subtag within a header word.
func HeaderMask(info encoding.EncodingInfo) (encoding.MaskInfo, error) {
	c, err := constants("lumen_header_mask", info)
	return c.Header, err
}
