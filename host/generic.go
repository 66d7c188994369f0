package host

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"github.com/wippyai/term-encoding/dispatch"
	"github.com/wippyai/term-encoding/encoding"
	"github.com/wippyai/term-encoding/errors"
	"github.com/wippyai/term-encoding/layout"
)

const (
	opIsType          = "lumen_is_type"
	opIsBoxedType     = "lumen_is_boxed_type"
	opIsTuple         = "lumen_is_tuple"
	opIsFunction      = "lumen_is_function"
	opEncodeImmediate = "lumen_encode_immediate"
	opEncodeHeader    = "lumen_encode_header"
	opListTag         = "lumen_list_tag"
	opBoxTag          = "lumen_box_tag"
	opLiteralTag      = "lumen_literal_tag"
	opListMask        = "lumen_list_mask"
	opImmediateMask   = "lumen_immediate_mask"
	opHeaderMask      = "lumen_header_mask"
)

// Guest-side structures.
var (
	// struct { u32 pointer_size; u8 supports_nanboxing; }
	InfoLayout = layout.Record(
		layout.U32("pointer_size"),
		layout.Field{Name: "supports_nanboxing", Size: 1, Align: 1},
	)
	// struct { u64 mask; u32 shift; }
	MaskLayout = layout.Record(
		layout.Word("mask", 8),
		layout.U32("shift"),
	)
)

func (h *host) info(op string, mod api.Module, ptr uint32) encoding.EncodingInfo {
	sizeOff, _ := InfoLayout.Offset("pointer_size")
	nanOff, _ := InfoLayout.Offset("supports_nanboxing")

	mem := mod.Memory()
	if mem == nil {
		h.fatal(op, errors.OutOfBounds(errors.PhaseHost, uint64(ptr), int(InfoLayout.Size), 0))
	}
	size, ok := mem.ReadUint32Le(ptr + sizeOff)
	if !ok {
		h.fatal(op, errors.OutOfBounds(errors.PhaseHost, uint64(ptr), int(InfoLayout.Size), int(mem.Size())))
	}
	nan, ok := mem.ReadByte(ptr + nanOff)
	if !ok {
		h.fatal(op, errors.OutOfBounds(errors.PhaseHost, uint64(ptr), int(InfoLayout.Size), int(mem.Size())))
	}
	return encoding.EncodingInfo{PointerSize: size, SupportsNanboxing: nan != 0}
}

func (h *host) genericIsType(_ context.Context, mod api.Module, stack []uint64) {
	info := h.info(opIsType, mod, api.DecodeU32(stack[0]))
	ok, err := dispatch.GenericIsType(info, memoryOf(mod), api.DecodeU32(stack[1]), stack[2])
	stack[0] = h.check(opIsType, ok, err)
}

func (h *host) genericIsBoxedType(_ context.Context, mod api.Module, stack []uint64) {
	info := h.info(opIsBoxedType, mod, api.DecodeU32(stack[0]))
	ok, err := dispatch.GenericIsBoxedType(info, memoryOf(mod), api.DecodeU32(stack[1]), stack[2])
	stack[0] = h.check(opIsBoxedType, ok, err)
}

func (h *host) genericIsTuple(_ context.Context, mod api.Module, stack []uint64) {
	info := h.info(opIsTuple, mod, api.DecodeU32(stack[0]))
	ok, err := dispatch.GenericIsTuple(info, memoryOf(mod), stack[1], stack[2])
	stack[0] = h.check(opIsTuple, ok, err)
}

func (h *host) genericIsFunction(_ context.Context, mod api.Module, stack []uint64) {
	info := h.info(opIsFunction, mod, api.DecodeU32(stack[0]))
	ok, err := dispatch.GenericIsFunction(info, memoryOf(mod), stack[1], stack[2])
	stack[0] = h.check(opIsFunction, ok, err)
}

func (h *host) genericEncodeImmediate(_ context.Context, mod api.Module, stack []uint64) {
	info := h.info(opEncodeImmediate, mod, api.DecodeU32(stack[0]))
	w, err := dispatch.GenericEncodeImmediate(info, api.DecodeU32(stack[1]), stack[2])
	if err != nil {
		h.fatal(opEncodeImmediate, err)
	}
	stack[0] = w
}

func (h *host) genericEncodeHeader(_ context.Context, mod api.Module, stack []uint64) {
	info := h.info(opEncodeHeader, mod, api.DecodeU32(stack[0]))
	w, err := dispatch.GenericEncodeHeader(info, api.DecodeU32(stack[1]), stack[2])
	if err != nil {
		h.fatal(opEncodeHeader, err)
	}
	stack[0] = w
}

func (h *host) constant(op string, get func(encoding.EncodingInfo) (uint64, error)) api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		v, err := get(h.info(op, mod, api.DecodeU32(stack[0])))
		if err != nil {
			h.fatal(op, err)
		}
		stack[0] = v
	}
}

// writeMask stores m at the guest return pointer.
func (h *host) writeMask(op string, mod api.Module, ret uint32, m encoding.MaskInfo) {
	maskOff, _ := MaskLayout.Offset("mask")
	shiftOff, _ := MaskLayout.Offset("shift")

	mem := mod.Memory()
	if mem == nil || !mem.WriteUint64Le(ret+maskOff, m.Mask) || !mem.WriteUint32Le(ret+shiftOff, m.Shift) {
		size := 0
		if mem != nil {
			size = int(mem.Size())
		}
		h.fatal(op, errors.OutOfBounds(errors.PhaseHost, uint64(ret), int(MaskLayout.Size), size))
	}
}

func (h *host) mask(op string, get func(encoding.EncodingInfo) (encoding.MaskInfo, error)) api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		ret := api.DecodeU32(stack[0])
		m, err := get(h.info(op, mod, api.DecodeU32(stack[1])))
		if err != nil {
			h.fatal(op, err)
		}
		h.writeMask(op, mod, ret, m)
	}
}
