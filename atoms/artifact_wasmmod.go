package atoms

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tetratelabs/wazero"
	"github.com/wippyai/term-encoding/errors"
	"github.com/wippyai/term-encoding/heap"
	"github.com/wippyai/term-encoding/layout"
	"github.com/wippyai/term-encoding/wasm"
	"go.uber.org/zap"
)

// Names exported by the wasm artifact.
const (
	GlobalTable     = "__LUMEN_ATOM_TABLE"
	GlobalTableSize = "__LUMEN_ATOM_TABLE_SIZE"
	ExportMemory    = "memory"
	BuildIDSection  = "lumen.build-id"
	fieldEntryID    = "id"
	fieldEntryName  = "name"
	nameAlign       = 8
	maxNameBytes    = MaxNameLen * 4
	entryIDBytes    = 8
)

// entryLayout is {u64 id; u32 name; u32 pad} on wasm32.
var entryLayout = layout.Record(
	layout.Word(fieldEntryID, entryIDBytes),
	layout.U32(fieldEntryName),
)

// EncodeWasm serializes t as a core wasm module. Strings and entries live in
// a single active data segment at address 0; the globals point into it.
func EncodeWasm(t *Table) ([]byte, error) {
	idOff, _ := entryLayout.Offset(fieldEntryID)
	nameOff, _ := entryLayout.Offset(fieldEntryName)

	img := heap.NewArena(t.Len() * int(entryLayout.Size+nameAlign*2))
	names := make([]uint64, t.Len())
	for i, e := range t.entries {
		addr, err := img.Alloc(uint32(len(e.Name)+1), nameAlign)
		if err != nil {
			return nil, err
		}
		if err := img.StoreBytes(addr, []byte(e.Name)); err != nil {
			return nil, err
		}
		names[i] = addr
	}

	size, ok := layout.SafeMulU32(entryLayout.Size, uint32(t.Len()))
	if !ok {
		return nil, errors.Overflow(errors.PhaseAtoms, "encode_wasm", t.Len(), "atom table")
	}
	base, err := img.Alloc(size, entryLayout.Align)
	if err != nil {
		return nil, err
	}
	for i, e := range t.entries {
		entry := base + uint64(i)*uint64(entryLayout.Size)
		if err := img.Store64(entry+uint64(idOff), e.ID); err != nil {
			return nil, err
		}
		if err := img.Store32(entry+uint64(nameOff), uint32(names[i])); err != nil {
			return nil, err
		}
	}

	data := img.Bytes()
	pages := uint32((len(data) + wasm.PageSize - 1) / wasm.PageSize)
	buildID := t.buildID

	m := &wasm.Module{
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: pages}}},
		Globals: []wasm.Global{
			{Type: wasm.GlobalType{ValType: wasm.ValI32}, Init: wasm.ConstI32(int32(base))},
			{Type: wasm.GlobalType{ValType: wasm.ValI64}, Init: wasm.ConstI64(int64(t.Len()))},
		},
		Exports: []wasm.Export{
			{Name: ExportMemory, Kind: wasm.KindMemory, Idx: 0},
			{Name: GlobalTable, Kind: wasm.KindGlobal, Idx: 0},
			{Name: GlobalTableSize, Kind: wasm.KindGlobal, Idx: 1},
		},
		Data:           []wasm.DataSegment{{Offset: wasm.ConstI32(0), Init: data}},
		CustomSections: []wasm.CustomSection{{Name: BuildIDSection, Data: buildID[:]}},
	}
	return m.Encode(), nil
}

// LoadWasm instantiates a wasm artifact and reads its table back out of
// linear memory.
func LoadWasm(ctx context.Context, bin []byte) (*Table, error) {
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, bin)
	if err != nil {
		return nil, errors.Load("compile atom table", err)
	}

	sections, err := wasm.ScanSections(bin)
	if err != nil {
		return nil, errors.Load("scan atom table", err)
	}
	raw, ok := wasm.FindCustomSection(sections, BuildIDSection)
	if !ok {
		return nil, errors.NotFound(errors.PhaseLoad, "custom section", BuildIDSection)
	}
	buildID, err := uuid.FromBytes(raw)
	if err != nil {
		return nil, errors.Load("build id section", err)
	}

	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, errors.Instantiation("atom table", err)
	}
	defer mod.Close(ctx)

	tableGlobal := mod.ExportedGlobal(GlobalTable)
	if tableGlobal == nil {
		return nil, errors.NotFound(errors.PhaseLoad, "global", GlobalTable)
	}
	sizeGlobal := mod.ExportedGlobal(GlobalTableSize)
	if sizeGlobal == nil {
		return nil, errors.NotFound(errors.PhaseLoad, "global", GlobalTableSize)
	}
	mem := heap.WrapGuest(mod.ExportedMemory(ExportMemory))
	if mem == nil {
		return nil, errors.NotFound(errors.PhaseLoad, "memory", ExportMemory)
	}

	base := uint64(uint32(tableGlobal.Get()))
	count := sizeGlobal.Get()
	if count > uint64(mem.Mem.Size())/uint64(entryLayout.Size) {
		return nil, errors.Load(fmt.Sprintf("atom count %d exceeds memory", int64(count)), nil)
	}

	idOff, _ := entryLayout.Offset(fieldEntryID)
	nameOff, _ := entryLayout.Offset(fieldEntryName)

	entries := make([]Entry, count)
	for i := range entries {
		entry := base + uint64(i)*uint64(entryLayout.Size)
		id, err := mem.Load64(entry + uint64(idOff))
		if err != nil {
			return nil, err
		}
		ptr, err := mem.Load32(entry + uint64(nameOff))
		if err != nil {
			return nil, err
		}
		name, err := readName(mem, ptr)
		if err != nil {
			return nil, err
		}
		entries[i] = Entry{ID: id, Name: name}
	}

	t, err := NewTable(entries, buildID)
	if err != nil {
		return nil, err
	}
	Logger().Debug("loaded atom table",
		zap.String("artifact", "wasm"),
		zap.Int("atoms", t.Len()),
		zap.Stringer("build_id", buildID),
	)
	return t, nil
}

func readName(mem *heap.Guest, ptr uint32) (string, error) {
	size := mem.Mem.Size()
	if ptr >= size {
		return "", errors.OutOfBounds(errors.PhaseLoad, uint64(ptr), 1, int(size))
	}
	n := min(size-ptr, maxNameBytes+1)
	buf, ok := mem.Mem.Read(ptr, n)
	if !ok {
		return "", errors.OutOfBounds(errors.PhaseLoad, uint64(ptr), int(n), int(size))
	}
	end := bytes.IndexByte(buf, 0)
	if end < 0 {
		return "", errors.Load(fmt.Sprintf("atom name at 0x%x is not terminated", ptr), nil)
	}
	return string(buf[:end]), nil
}
