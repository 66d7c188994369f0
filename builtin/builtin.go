package builtin

import (
	"github.com/wippyai/term-encoding/dispatch"
	"github.com/wippyai/term-encoding/encoding"
	"github.com/wippyai/term-encoding/heap"
	"github.com/wippyai/term-encoding/term"
	"go.uber.org/zap"
)

var (
	native scheme
	mem    heap.Native
)

// Encoding identifies the scheme this build uses.
func Encoding() encoding.ID { return native.ID() }

// Info is the descriptor of the native encoding.
func Info() encoding.EncodingInfo { return native.ID().Info() }

func fatal(op string, err error) {
	Logger().Error("contract violation",
		zap.String("op", op),
		zap.Stringer("encoding", native.ID()),
		zap.Error(err))
	panic(err)
}

func kind(op string, raw uint32) term.Kind {
	k, err := term.ParseKind(op, raw)
	if err != nil {
		fatal(op, err)
	}
	return k
}

func check(op string, ok bool, err error) bool {
	if err != nil {
		fatal(op, err)
	}
	return ok
}

// IsType reports whether value is a term of the raw kind.
func IsType(raw uint32, value uintptr) bool {
	const op = "__lumen_builtin_is_type"
	ok, err := dispatch.IsType[word](native, mem, kind(op, raw), word(value))
	return check(op, ok, err)
}

// IsBoxedType reports whether value is a boxed term of the raw kind.
func IsBoxedType(raw uint32, value uintptr) bool {
	const op = "__lumen_builtin_is_boxed_type"
	ok, err := dispatch.IsBoxedType[word](native, mem, kind(op, raw), word(value))
	return check(op, ok, err)
}

// IsTupleType reports whether value is a tuple of the given arity.
func IsTupleType(arity, value uintptr) bool {
	ok, err := dispatch.IsTuple[word](native, mem, word(arity), word(value))
	return check("__lumen_builtin_is_tuple", ok, err)
}

// IsFunctionType reports whether value is a closure of the given arity.
func IsFunctionType(arity, value uintptr) bool {
	ok, err := dispatch.IsFunction[word](native, mem, word(arity), word(value))
	return check("__lumen_builtin_is_function", ok, err)
}

// EncodeImmediate builds an immediate of the raw kind.
func EncodeImmediate(raw uint32, value uintptr) uintptr {
	const op = "__lumen_builtin_encode_immediate"
	w, err := dispatch.EncodeImmediate[word](native, kind(op, raw), word(value))
	if err != nil {
		fatal(op, err)
	}
	return uintptr(w)
}
