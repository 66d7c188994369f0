package dispatch

import (
	"context"
	stderrors "errors"
	"math"
	"testing"

	"github.com/wippyai/term-encoding/encoding"
	"github.com/wippyai/term-encoding/errors"
	"github.com/wippyai/term-encoding/heap"
	"github.com/wippyai/term-encoding/term"
	"golang.org/x/sync/errgroup"
)

var (
	info32 = encoding.EncodingInfo{PointerSize: 32}
	info64 = encoding.EncodingInfo{PointerSize: 64}
	infoNB = encoding.EncodingInfo{PointerSize: 64, SupportsNanboxing: true}
)

func TestGenericIsTypeSelectsEncoding(t *testing.T) {
	f32 := newFixture[uint32](t, encoding.E32{})
	f64 := newFixture[uint64](t, encoding.E64{})
	fnb := newFixture[uint64](t, encoding.E64Nanboxed{})

	tup32 := f32.boxed(term.Tuple, 0, 0)
	tup64 := f64.boxed(term.Tuple, 0, 0)
	tupNB := fnb.boxed(term.Tuple, 0, 0)

	tests := []struct {
		name  string
		info  encoding.EncodingInfo
		mem   heap.Memory
		value uint64
	}{
		{"e32", info32, f32.arena, uint64(tup32)},
		{"e64", info64, f64.arena, tup64},
		{"e64_nanboxed", infoNB, fnb.arena, tupNB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := GenericIsType(tt.info, tt.mem, uint32(term.KindTuple), tt.value)
			if err != nil || !ok {
				t.Fatalf("GenericIsType(tuple) = %v, %v", ok, err)
			}
			ok, err = GenericIsBoxedType(tt.info, tt.mem, uint32(term.KindTuple), tt.value)
			if err != nil || !ok {
				t.Fatalf("GenericIsBoxedType(tuple) = %v, %v", ok, err)
			}
			ok, err = GenericIsTuple(tt.info, tt.mem, 2, tt.value)
			if err != nil || !ok {
				t.Fatalf("GenericIsTuple(2) = %v, %v", ok, err)
			}
			ok, err = GenericIsFunction(tt.info, tt.mem, 2, tt.value)
			if err != nil || ok {
				t.Fatalf("GenericIsFunction(2) = %v, %v", ok, err)
			}
		})
	}

	// The same 64-bit word means different things under the two 64-bit
	// encodings, so the nanboxing flag must be honoured.
	fix64 := (encoding.E64{}).EncodeImmediate(5, term.SmallInteger)
	ok, err := GenericIsType(info64, f64.arena, uint32(term.KindFixnum), fix64)
	if err != nil || !ok {
		t.Errorf("E64 fixnum = %v, %v", ok, err)
	}
	ok, err = GenericIsType(infoNB, fnb.arena, uint32(term.KindFixnum), fix64)
	if err != nil || ok {
		t.Errorf("E64 fixnum under nanboxing = %v, %v", ok, err)
	}
}

func TestGenericErrors(t *testing.T) {
	arena := heap.NewArena(8)

	tests := []struct {
		name string
		run  func() error
		kind errors.Kind
	}{
		{"invalid_encoding", func() error {
			_, err := GenericIsType(encoding.EncodingInfo{PointerSize: 16}, arena, uint32(term.KindAtom), 0)
			return err
		}, errors.KindInvalidEncoding},
		{"invalid_kind", func() error {
			_, err := GenericIsType(info64, arena, 99, 0)
			return err
		}, errors.KindInvalidKind},
		{"invalid_boxed_kind", func() error {
			_, err := GenericIsBoxedType(info64, arena, 21, 0)
			return err
		}, errors.KindInvalidKind},
		{"narrow_value", func() error {
			_, err := GenericIsType(info32, arena, uint32(term.KindAtom), math.MaxUint32+1)
			return err
		}, errors.KindOverflow},
		{"encode_polymorphic", func() error {
			_, err := GenericEncodeImmediate(info64, uint32(term.KindNumber), 1)
			return err
		}, errors.KindNoPhysicalTag},
		{"encode_narrow", func() error {
			_, err := GenericEncodeImmediate(info32, uint32(term.KindFixnum), math.MaxUint32+1)
			return err
		}, errors.KindOverflow},
		{"header_polymorphic", func() error {
			_, err := GenericEncodeHeader(infoNB, uint32(term.KindBinary), 1)
			return err
		}, errors.KindNoPhysicalTag},
		{"mask_encoding", func() error {
			_, err := ImmediateMask(encoding.EncodingInfo{PointerSize: 128})
			return err
		}, errors.KindInvalidEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error = %v, want *errors.Error", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", e.Kind, tt.kind)
			}
			if !e.ContractViolation() {
				t.Error("expected a contract violation")
			}
		})
	}
}

func TestGenericWideArity(t *testing.T) {
	f := newFixture[uint32](t, encoding.E32{})
	tup := f.boxed(term.Tuple, 0, 0)
	clo := f.closure(2)

	tests := []struct {
		name  string
		run   func(encoding.EncodingInfo, heap.Memory, uint64, uint64) (bool, error)
		value uint32
	}{
		{"tuple", GenericIsTuple, tup},
		{"function", GenericIsFunction, clo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := tt.run(info32, f.arena, 2, uint64(tt.value))
			if err != nil || !ok {
				t.Fatalf("arity 2 = %v, %v", ok, err)
			}
			ok, err = tt.run(info32, f.arena, 1<<32|2, uint64(tt.value))
			if err != nil {
				t.Fatalf("wide arity error: %v", err)
			}
			if ok {
				t.Error("wide arity matched")
			}
		})
	}
}

func TestGenericEncode(t *testing.T) {
	tests := []struct {
		name   string
		info   encoding.EncodingInfo
		atom   uint64
		header uint64
	}{
		{"e32", info32, uint64((encoding.E32{}).EncodeImmediate(5, term.Atom)), uint64((encoding.E32{}).EncodeHeader(3, term.Tuple))},
		{"e64", info64, (encoding.E64{}).EncodeImmediate(5, term.Atom), (encoding.E64{}).EncodeHeader(3, term.Tuple)},
		{"e64_nanboxed", infoNB, (encoding.E64Nanboxed{}).EncodeImmediate(5, term.Atom), (encoding.E64Nanboxed{}).EncodeHeader(3, term.Tuple)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenericEncodeImmediate(tt.info, uint32(term.KindAtom), 5)
			if err != nil {
				t.Fatalf("GenericEncodeImmediate: %v", err)
			}
			if got != tt.atom {
				t.Errorf("atom = %#x, want %#x", got, tt.atom)
			}
			got, err = GenericEncodeHeader(tt.info, uint32(term.KindTuple), 3)
			if err != nil {
				t.Fatalf("GenericEncodeHeader: %v", err)
			}
			if got != tt.header {
				t.Errorf("header = %#x, want %#x", got, tt.header)
			}
		})
	}
}

func TestGenericConstants(t *testing.T) {
	for _, id := range encoding.IDs() {
		t.Run(id.String(), func(t *testing.T) {
			want, err := id.Constants()
			if err != nil {
				t.Fatalf("Constants: %v", err)
			}
			info := id.Info()

			check := func(name string, got, want uint64, err error) {
				t.Helper()
				if err != nil {
					t.Fatalf("%s: %v", name, err)
				}
				if got != want {
					t.Errorf("%s = %#x, want %#x", name, got, want)
				}
			}

			v, err := ListTag(info)
			check("ListTag", v, want.ListTag, err)
			v, err = BoxTag(info)
			check("BoxTag", v, want.BoxTag, err)
			v, err = LiteralTag(info)
			check("LiteralTag", v, want.LiteralTag, err)
			v, err = ListMask(info)
			check("ListMask", v, want.PrimaryMask, err)

			m, err := ImmediateMask(info)
			if err != nil || m != want.Immediate {
				t.Errorf("ImmediateMask = %+v, %v", m, err)
			}
			m, err = HeaderMask(info)
			if err != nil || m != want.Header {
				t.Errorf("HeaderMask = %+v, %v", m, err)
			}
		})
	}

	tag, _ := ListTag(infoNB)
	if tag != 0x7FFA<<48 {
		t.Errorf("nanboxed list tag = %#x", tag)
	}
}

func TestGenericConcurrent(t *testing.T) {
	f := newFixture[uint64](t, encoding.E64Nanboxed{})
	tup := f.boxed(term.Tuple, 1, 2, 3)
	clo := f.closure(1)

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			for j := 0; j < 1000; j++ {
				ok, err := GenericIsTuple(infoNB, f.arena, 3, tup)
				if err != nil {
					return err
				}
				if !ok {
					return errors.InvalidData(errors.PhaseClassify, "tuple not recognized")
				}
				ok, err = GenericIsFunction(infoNB, f.arena, 1, clo)
				if err != nil {
					return err
				}
				if !ok {
					return errors.InvalidData(errors.PhaseClassify, "closure not recognized")
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}
