package wasm

import (
	"github.com/wippyai/term-encoding/wasm/internal/binary"
)

// Encode returns the module in binary format. Sections with no entries are
// left out.
func (m *Module) Encode() []byte {
	w := binary.NewWriter()
	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)

	vector(w, SectionType, len(m.Types), func(s *binary.Writer, i int) {
		ft := m.Types[i]
		s.Byte(FuncTypeByte)
		valTypes(s, ft.Params)
		valTypes(s, ft.Results)
	})

	vector(w, SectionImport, len(m.Imports), func(s *binary.Writer, i int) {
		imp := m.Imports[i]
		s.WriteName(imp.Module)
		s.WriteName(imp.Name)
		s.Byte(imp.Kind)
		switch {
		case imp.Kind == KindFunc:
			s.WriteU32(imp.TypeIdx)
		case imp.Kind == KindMemory && imp.Memory != nil:
			limits(s, imp.Memory.Limits)
		}
	})

	vector(w, SectionFunction, len(m.Funcs), func(s *binary.Writer, i int) {
		s.WriteU32(m.Funcs[i])
	})

	vector(w, SectionMemory, len(m.Memories), func(s *binary.Writer, i int) {
		limits(s, m.Memories[i].Limits)
	})

	vector(w, SectionGlobal, len(m.Globals), func(s *binary.Writer, i int) {
		g := m.Globals[i]
		s.Byte(byte(g.Type.ValType))
		var mut byte
		if g.Type.Mutable {
			mut = 1
		}
		s.Byte(mut)
		s.WriteBytes(g.Init)
	})

	vector(w, SectionExport, len(m.Exports), func(s *binary.Writer, i int) {
		e := m.Exports[i]
		s.WriteName(e.Name)
		s.Byte(e.Kind)
		s.WriteU32(e.Idx)
	})

	vector(w, SectionCode, len(m.Code), func(s *binary.Writer, i int) {
		body := binary.NewWriter()
		body.WriteU32(uint32(len(m.Code[i].Locals)))
		for _, l := range m.Code[i].Locals {
			body.WriteU32(l.Count)
			body.Byte(byte(l.ValType))
		}
		body.WriteBytes(m.Code[i].Code)
		s.WriteU32(uint32(body.Len()))
		s.WriteBytes(body.Bytes())
	})

	vector(w, SectionData, len(m.Data), func(s *binary.Writer, i int) {
		d := m.Data[i]
		s.WriteU32(0) // active segment for memory 0
		s.WriteBytes(d.Offset)
		s.WriteU32(uint32(len(d.Init)))
		s.WriteBytes(d.Init)
	})

	for _, cs := range m.CustomSections {
		s := binary.NewWriter()
		s.WriteName(cs.Name)
		s.WriteBytes(cs.Data)
		section(w, SectionCustom, s)
	}

	return w.Bytes()
}

// vector writes a section holding n entries produced by entry.
func vector(w *binary.Writer, id byte, n int, entry func(s *binary.Writer, i int)) {
	if n == 0 {
		return
	}
	s := binary.NewWriter()
	s.WriteU32(uint32(n))
	for i := 0; i < n; i++ {
		entry(s, i)
	}
	section(w, id, s)
}

func section(w *binary.Writer, id byte, payload *binary.Writer) {
	w.Byte(id)
	w.WriteU32(uint32(payload.Len()))
	w.WriteBytes(payload.Bytes())
}

func valTypes(w *binary.Writer, types []ValType) {
	w.WriteU32(uint32(len(types)))
	for _, t := range types {
		w.Byte(byte(t))
	}
}

func limits(w *binary.Writer, l Limits) {
	if l.Max == nil {
		w.Byte(0)
		w.WriteU32(l.Min)
		return
	}
	w.Byte(LimitsHasMax)
	w.WriteU32(l.Min)
	w.WriteU32(*l.Max)
}
