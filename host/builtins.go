package host

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"github.com/wippyai/term-encoding/dispatch"
	"github.com/wippyai/term-encoding/encoding"
	"github.com/wippyai/term-encoding/heap"
	"github.com/wippyai/term-encoding/term"
)

// Guests are wasm32, so the specialized builtins always use E32.
var e32 encoding.E32

// emptyHeap backs guests that export no memory; every read fails.
var emptyHeap = heap.NewArena(0)

func memoryOf(mod api.Module) heap.Memory {
	if g := heap.WrapGuest(mod.Memory()); g != nil {
		return g
	}
	return emptyHeap
}

func (h *host) kind(op string, raw uint32) term.Kind {
	k, err := term.ParseKind(op, raw)
	if err != nil {
		h.fatal(op, err)
	}
	return k
}

func (h *host) isType(_ context.Context, mod api.Module, stack []uint64) {
	const op = "__lumen_builtin_is_type"
	k := h.kind(op, api.DecodeU32(stack[0]))
	ok, err := dispatch.IsType[uint32](e32, memoryOf(mod), k, api.DecodeU32(stack[1]))
	stack[0] = h.check(op, ok, err)
}

func (h *host) isBoxedType(_ context.Context, mod api.Module, stack []uint64) {
	const op = "__lumen_builtin_is_boxed_type"
	k := h.kind(op, api.DecodeU32(stack[0]))
	ok, err := dispatch.IsBoxedType[uint32](e32, memoryOf(mod), k, api.DecodeU32(stack[1]))
	stack[0] = h.check(op, ok, err)
}

func (h *host) isTuple(_ context.Context, mod api.Module, stack []uint64) {
	ok, err := dispatch.IsTuple[uint32](e32, memoryOf(mod), api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
	stack[0] = h.check("__lumen_builtin_is_tuple", ok, err)
}

func (h *host) isFunction(_ context.Context, mod api.Module, stack []uint64) {
	ok, err := dispatch.IsFunction[uint32](e32, memoryOf(mod), api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
	stack[0] = h.check("__lumen_builtin_is_function", ok, err)
}

func (h *host) encodeImmediate(_ context.Context, _ api.Module, stack []uint64) {
	const op = "__lumen_builtin_encode_immediate"
	k := h.kind(op, api.DecodeU32(stack[0]))
	w, err := dispatch.EncodeImmediate[uint32](e32, k, api.DecodeU32(stack[1]))
	if err != nil {
		h.fatal(op, err)
	}
	stack[0] = api.EncodeU32(w)
}
