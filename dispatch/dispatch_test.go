package dispatch

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/wippyai/term-encoding/encoding"
	"github.com/wippyai/term-encoding/errors"
	"github.com/wippyai/term-encoding/heap"
	"github.com/wippyai/term-encoding/layout"
	"github.com/wippyai/term-encoding/term"
)

// fixture builds terms for one scheme inside an arena.
type fixture[W encoding.Word, S encoding.Scheme[W]] struct {
	t     *testing.T
	s     S
	arena *heap.Arena
}

func newFixture[W encoding.Word, S encoding.Scheme[W]](t *testing.T, s S) *fixture[W, S] {
	return &fixture[W, S]{t: t, s: s, arena: heap.NewArena(1024)}
}

func (f *fixture[W, S]) alloc(words int) uint64 {
	f.t.Helper()
	addr, err := f.arena.Alloc(uint32(words*f.s.WordBytes()), 8)
	if err != nil {
		f.t.Fatalf("Alloc: %v", err)
	}
	return addr
}

func (f *fixture[W, S]) store(addr uint64, words ...W) {
	f.t.Helper()
	wb := f.s.WordBytes()
	for i, w := range words {
		if err := f.arena.StoreWord(addr+uint64(i*wb), uint64(w), wb); err != nil {
			f.t.Fatalf("StoreWord: %v", err)
		}
	}
}

func (f *fixture[W, S]) boxed(tag term.Tag, body ...W) W {
	f.t.Helper()
	wb := uint32(f.s.WordBytes())
	size, ok := layout.TupleSize(wb, uint32(len(body)))
	if !ok {
		f.t.Fatalf("TupleSize(%d) overflows", len(body))
	}
	addr, err := f.arena.Alloc(size, 8)
	if err != nil {
		f.t.Fatalf("Alloc: %v", err)
	}
	f.store(addr, f.s.EncodeHeader(W(len(body)), tag))
	for i, w := range body {
		f.store(addr+uint64(layout.TupleElementOffset(wb, uint32(i))), w)
	}
	return f.s.EncodePointer(W(addr), term.Box, false)
}

func (f *fixture[W, S]) cons(head, tail W) W {
	f.t.Helper()
	addr := f.alloc(2)
	f.store(addr, head, tail)
	return f.s.EncodePointer(W(addr), term.List, false)
}

func (f *fixture[W, S]) closure(arity uint32) W {
	f.t.Helper()
	wb := uint32(f.s.WordBytes())
	info := layout.Closure(wb)
	addr, err := f.arena.Alloc(info.Size, 8)
	if err != nil {
		f.t.Fatalf("Alloc: %v", err)
	}
	bodyWords := (info.Size - wb) / wb
	f.store(addr, f.s.EncodeHeader(W(bodyWords), term.Closure), f.s.EncodeImmediate(9, term.Atom))
	if err := f.arena.Store32(addr+uint64(layout.ClosureArityOffset(wb)), arity); err != nil {
		f.t.Fatalf("Store32: %v", err)
	}
	return f.s.EncodePointer(W(addr), term.Box, false)
}

func (f *fixture[W, S]) float() W {
	if f.s.ID() == encoding.ID64Nanboxed {
		return f.s.EncodeImmediate(W(math.Float64bits(1.5)), term.Float)
	}
	bits := math.Float64bits(1.5)
	if f.s.WordBytes() == 4 {
		return f.boxed(term.Float, W(bits), W(bits>>32))
	}
	return f.boxed(term.Float, W(bits))
}

type classifyCase[W encoding.Word] struct {
	name string
	kind term.Kind
	w    W
	want bool
}

func classifyCases[W encoding.Word, S encoding.Scheme[W]](f *fixture[W, S]) []classifyCase[W] {
	s := f.s
	fix := s.EncodeImmediate(5, term.SmallInteger)
	atom := s.EncodeImmediate(7, term.Atom)
	tru := s.EncodeBool(true)
	fls := s.EncodeBool(false)
	nilw := s.EncodeImmediate(0, term.Nil)
	pid := s.EncodeImmediate(3, term.Pid)
	none := s.EncodeImmediate(0, term.None)
	list := f.cons(fix, nilw)
	big := f.boxed(term.BigInteger, 123)
	flt := f.float()
	tup := f.boxed(term.Tuple, fix, atom)
	mp := f.boxed(term.Map)
	hb := f.boxed(term.HeapBinary, 0)
	pb := f.boxed(term.ProcBin, 0)
	sb := f.boxed(term.SubBinary, 0)
	xpid := f.boxed(term.ExternalPid, 0)
	ref := f.boxed(term.Reference, 0)
	xref := f.boxed(term.ExternalReference, 0)
	clo := f.closure(2)
	bogus := f.boxed(term.None)

	return []classifyCase[W]{
		{"term/fixnum", term.KindTerm, fix, true},
		{"term/boxed", term.KindTerm, big, true},
		{"term/none", term.KindTerm, none, false},
		{"term/bogus_header", term.KindTerm, bogus, true},

		{"list/cons", term.KindList, list, true},
		{"list/nil", term.KindList, nilw, false},
		{"list/tuple", term.KindList, tup, false},
		{"cons/cons", term.KindCons, list, true},

		{"number/fixnum", term.KindNumber, fix, true},
		{"number/bigint", term.KindNumber, big, true},
		{"number/float", term.KindNumber, flt, true},
		{"number/atom", term.KindNumber, atom, false},
		{"number/tuple", term.KindNumber, tup, false},

		{"integer/fixnum", term.KindInteger, fix, true},
		{"integer/bigint", term.KindInteger, big, true},
		{"integer/float", term.KindInteger, flt, false},
		{"fixnum/fixnum", term.KindFixnum, fix, true},
		{"fixnum/bigint", term.KindFixnum, big, false},
		{"bigint/bigint", term.KindBigInt, big, true},
		{"bigint/fixnum", term.KindBigInt, fix, false},
		{"float/float", term.KindFloat, flt, true},
		{"float/bigint", term.KindFloat, big, false},

		{"atom/atom", term.KindAtom, atom, true},
		{"atom/true", term.KindAtom, tru, true},
		{"atom/fixnum", term.KindAtom, fix, false},
		{"boolean/true", term.KindBoolean, tru, true},
		{"boolean/false", term.KindBoolean, fls, true},
		{"boolean/atom", term.KindBoolean, atom, false},
		{"boolean/boxed", term.KindBoolean, tup, false},

		{"nil/nil", term.KindNil, nilw, true},
		{"nil/cons", term.KindNil, list, false},
		{"tuple/tuple", term.KindTuple, tup, true},
		{"tuple/map", term.KindTuple, mp, false},
		{"tuple/fixnum", term.KindTuple, fix, false},
		{"map/map", term.KindMap, mp, true},
		{"closure/closure", term.KindClosure, clo, true},
		{"closure/tuple", term.KindClosure, tup, false},

		{"binary/heap", term.KindBinary, hb, true},
		{"binary/proc", term.KindBinary, pb, true},
		{"binary/sub", term.KindBinary, sb, true},
		{"binary/tuple", term.KindBinary, tup, false},
		{"heapbin/heap", term.KindHeapBin, hb, true},
		{"heapbin/proc", term.KindHeapBin, pb, false},
		{"procbin/proc", term.KindProcBin, pb, true},

		{"box/tuple", term.KindBox, tup, false},
		{"box/bigint", term.KindBox, big, false},
		{"box/fixnum", term.KindBox, fix, false},
		{"box/cons", term.KindBox, list, false},

		{"pid/local", term.KindPid, pid, true},
		{"pid/external", term.KindPid, xpid, true},
		{"pid/tuple", term.KindPid, tup, false},
		{"pid/fixnum", term.KindPid, fix, false},
		{"reference/local", term.KindReference, ref, true},
		{"reference/external", term.KindReference, xref, true},
		{"reference/pid", term.KindReference, pid, false},

		{"none/none", term.KindNone, none, true},
		{"none/bogus_header", term.KindNone, bogus, false},
		{"none/fixnum", term.KindNone, fix, false},
	}
}

func checkIsType[W encoding.Word, S encoding.Scheme[W]](t *testing.T, s S) {
	f := newFixture[W](t, s)
	for _, tc := range classifyCases(f) {
		t.Run(tc.name, func(t *testing.T) {
			got, err := IsType[W](s, f.arena, tc.kind, tc.w)
			if err != nil {
				t.Fatalf("IsType error: %v", err)
			}
			if got != tc.want {
				t.Errorf("IsType(%v, %#x) = %v, want %v", tc.kind, uint64(tc.w), got, tc.want)
			}
		})
	}
}

func TestIsType(t *testing.T) {
	t.Run("E32", func(t *testing.T) { checkIsType[uint32](t, encoding.E32{}) })
	t.Run("E64", func(t *testing.T) { checkIsType[uint64](t, encoding.E64{}) })
	t.Run("E64Nanboxed", func(t *testing.T) { checkIsType[uint64](t, encoding.E64Nanboxed{}) })
}

func checkIsBoxedType[W encoding.Word, S encoding.Scheme[W]](t *testing.T, s S) {
	f := newFixture[W](t, s)
	fix := s.EncodeImmediate(5, term.SmallInteger)
	pid := s.EncodeImmediate(3, term.Pid)
	big := f.boxed(term.BigInteger, 1)
	xpid := f.boxed(term.ExternalPid, 0)
	ref := f.boxed(term.Reference, 0)
	tup := f.boxed(term.Tuple, fix)
	hb := f.boxed(term.HeapBinary, 0)
	list := f.cons(fix, s.EncodeImmediate(0, term.Nil))

	tests := []classifyCase[W]{
		{"integer/bigint", term.KindInteger, big, true},
		{"integer/fixnum", term.KindInteger, fix, false},
		{"number/bigint", term.KindNumber, big, true},
		{"pid/external", term.KindPid, xpid, true},
		{"pid/local", term.KindPid, pid, false},
		{"reference/local", term.KindReference, ref, true},
		{"tuple/tuple", term.KindTuple, tup, true},
		{"tuple/bigint", term.KindTuple, big, false},
		{"binary/heap", term.KindBinary, hb, true},
		{"term/tuple", term.KindTerm, tup, true},
		{"term/fixnum", term.KindTerm, fix, false},
		{"list/cons", term.KindList, list, false},
		{"boolean/tuple", term.KindBoolean, tup, false},
		{"fixnum/fixnum", term.KindFixnum, fix, false},
		{"box/tuple", term.KindBox, tup, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := IsBoxedType[W](s, f.arena, tc.kind, tc.w)
			if err != nil {
				t.Fatalf("IsBoxedType error: %v", err)
			}
			if got != tc.want {
				t.Errorf("IsBoxedType(%v) = %v, want %v", tc.kind, got, tc.want)
			}
		})
	}
}

func TestIsBoxedType(t *testing.T) {
	t.Run("E32", func(t *testing.T) { checkIsBoxedType[uint32](t, encoding.E32{}) })
	t.Run("E64", func(t *testing.T) { checkIsBoxedType[uint64](t, encoding.E64{}) })
	t.Run("E64Nanboxed", func(t *testing.T) { checkIsBoxedType[uint64](t, encoding.E64Nanboxed{}) })
}

func checkArity[W encoding.Word, S encoding.Scheme[W]](t *testing.T, s S) {
	f := newFixture[W](t, s)
	fix := s.EncodeImmediate(1, term.SmallInteger)
	tup := f.boxed(term.Tuple, fix, fix)
	mp := f.boxed(term.Map, fix, fix)
	clo := f.closure(2)

	tuple := func(arity, w W) bool {
		t.Helper()
		ok, err := IsTuple[W](s, f.arena, arity, w)
		if err != nil {
			t.Fatalf("IsTuple error: %v", err)
		}
		return ok
	}
	function := func(arity, w W) bool {
		t.Helper()
		ok, err := IsFunction[W](s, f.arena, arity, w)
		if err != nil {
			t.Fatalf("IsFunction error: %v", err)
		}
		return ok
	}

	if !tuple(2, tup) {
		t.Error("tuple of arity 2 not recognized")
	}
	if tuple(3, tup) {
		t.Error("tuple matched wrong arity")
	}
	if tuple(2, mp) {
		t.Error("map of size 2 matched as tuple")
	}
	if tuple(0, fix) {
		t.Error("immediate matched as tuple")
	}

	if !function(2, clo) {
		t.Error("closure of arity 2 not recognized")
	}
	if function(1, clo) {
		t.Error("closure matched wrong arity")
	}
	if function(2, tup) {
		t.Error("tuple matched as function")
	}
	if function(0, fix) {
		t.Error("immediate matched as function")
	}
}

func TestArityMatching(t *testing.T) {
	t.Run("E32", func(t *testing.T) { checkArity[uint32](t, encoding.E32{}) })
	t.Run("E64", func(t *testing.T) { checkArity[uint64](t, encoding.E64{}) })
	t.Run("E64Nanboxed", func(t *testing.T) { checkArity[uint64](t, encoding.E64Nanboxed{}) })
}

func TestEncodeImmediate(t *testing.T) {
	s := encoding.E64{}

	w, err := EncodeImmediate[uint64](s, term.KindFixnum, 42)
	if err != nil {
		t.Fatalf("EncodeImmediate: %v", err)
	}
	if s.TypeOf(w) != term.SmallInteger || s.DecodeImmediate(w) != 42 {
		t.Errorf("fixnum 42 encoded as %#x", w)
	}

	h, err := EncodeHeader[uint64](s, term.KindTuple, 3)
	if err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}
	if !s.IsTuple(h) || s.DecodeHeaderValue(h) != 3 {
		t.Errorf("tuple header encoded as %#x", h)
	}

	if _, err := EncodeImmediate[uint64](s, term.KindFloat, math.Float64bits(1.5)); err == nil {
		t.Error("E64 encoded a float as an immediate")
	}
	if _, err := EncodeHeader[uint64](s, term.KindAtom, 3); err == nil {
		t.Error("E64 encoded an atom header")
	}

	nb := encoding.E64Nanboxed{}
	f, err := EncodeImmediate[uint64](nb, term.KindFloat, math.Float64bits(1.5))
	if err != nil {
		t.Fatalf("nanboxed float: %v", err)
	}
	if nb.DecodeFloat(f) != 1.5 {
		t.Errorf("nanboxed float encoded as %#x", f)
	}
	if _, err := EncodeImmediate[uint64](nb, term.KindNone, 0); err != nil {
		t.Errorf("none immediate: %v", err)
	}
}

func TestEncodeFatal(t *testing.T) {
	s := encoding.E32{}
	noTag := &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindNoPhysicalTag}

	tests := []struct {
		name string
		run  func() error
		want *errors.Error
	}{
		{"immediate_number", func() error {
			_, err := EncodeImmediate[uint32](s, term.KindNumber, 1)
			return err
		}, noTag},
		{"immediate_boolean", func() error {
			_, err := EncodeImmediate[uint32](s, term.KindBoolean, 1)
			return err
		}, noTag},
		{"header_term", func() error {
			_, err := EncodeHeader[uint32](s, term.KindTerm, 1)
			return err
		}, noTag},
		{"immediate_float", func() error {
			_, err := EncodeImmediate[uint32](s, term.KindFloat, 1)
			return err
		}, noTag},
		{"immediate_tuple", func() error {
			_, err := EncodeImmediate[uint32](s, term.KindTuple, 1)
			return err
		}, noTag},
		{"header_atom", func() error {
			_, err := EncodeHeader[uint32](s, term.KindAtom, 3)
			return err
		}, noTag},
		{"invalid_kind", func() error {
			_, err := EncodeImmediate[uint32](s, term.Kind(99), 1)
			return err
		}, &errors.Error{Phase: errors.PhaseClassify, Kind: errors.KindInvalidKind}},
		{"atom_overflow", func() error {
			_, err := EncodeImmediate[uint32](s, term.KindAtom, 1<<27)
			return err
		}, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindOverflow}},
		{"arity_overflow", func() error {
			_, err := EncodeHeader[uint32](s, term.KindTuple, 1<<26)
			return err
		}, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindOverflow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !errors.IsContractViolation(err) {
				t.Fatalf("error = %v, want contract violation", err)
			}
			if !stderrors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s/%s", err, tt.want.Phase, tt.want.Kind)
			}
		})
	}
}

func TestDanglingBox(t *testing.T) {
	s := encoding.E32{}
	arena := heap.NewArena(16)
	w := s.EncodePointer(0x10000, term.Box, false)

	if _, err := IsType[uint32](s, arena, term.KindTuple, w); !errors.IsContractViolation(err) {
		t.Errorf("IsType error = %v, want out of bounds", err)
	}
	if _, err := IsTuple[uint32](s, arena, 1, w); !errors.IsContractViolation(err) {
		t.Errorf("IsTuple error = %v, want out of bounds", err)
	}
	if ok, err := IsType[uint32](s, arena, term.KindTuple, s.EncodeImmediate(1, term.Atom)); ok || err != nil {
		t.Errorf("immediate should not be dereferenced: %v, %v", ok, err)
	}
}
