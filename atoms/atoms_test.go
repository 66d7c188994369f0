package atoms

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/wippyai/term-encoding/errors"
	"github.com/wippyai/term-encoding/term"
	"golang.org/x/sync/errgroup"
)

func errKind(t *testing.T, err error) errors.Kind {
	t.Helper()
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error = %v, want *errors.Error", err)
	}
	return e.Kind
}

func builtinEntries() []Entry {
	var out []Entry
	for i, name := range Builtins() {
		out = append(out, Entry{ID: uint64(i), Name: name})
	}
	return out
}

func TestInterner(t *testing.T) {
	in := NewInterner()

	if in.Len() != len(Builtins()) {
		t.Fatalf("Len = %d, want %d", in.Len(), len(Builtins()))
	}
	if id, _ := in.Lookup("false"); id != term.AtomFalse {
		t.Errorf("false = %d", id)
	}
	if id, _ := in.Lookup("true"); id != term.AtomTrue {
		t.Errorf("true = %d", id)
	}

	foo, err := in.Intern("foo")
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	if foo != uint64(len(Builtins())) {
		t.Errorf("foo = %d, want first id after builtins", foo)
	}
	again, _ := in.Intern("foo")
	if again != foo {
		t.Errorf("Intern(foo) twice = %d, %d", foo, again)
	}
	if id, _ := in.Intern("normal"); id != 6 {
		t.Errorf("Intern(normal) = %d, want 6", id)
	}

	if entries := in.Entries(); entries[foo].Name != "foo" {
		t.Errorf("Entries()[%d] = %+v", foo, entries[foo])
	}
	if _, ok := in.Lookup("bar"); ok {
		t.Error("Lookup(bar) found before interning")
	}
}

func TestInternerRejectsNames(t *testing.T) {
	tests := []struct {
		name string
		atom string
	}{
		{"nul", "a\x00b"},
		{"too_long", strings.Repeat("x", MaxNameLen+1)},
		{"bad_utf8", "\xff\xfe"},
	}

	in := NewInterner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := in.Intern(tt.atom)
			if errKind(t, err) != errors.KindInvalidInput {
				t.Errorf("kind = %s", errKind(t, err))
			}
		})
	}

	if _, err := in.Intern(strings.Repeat("é", MaxNameLen)); err != nil {
		t.Errorf("255 two-byte characters rejected: %v", err)
	}
	if _, err := in.Intern(""); err != nil {
		t.Errorf("empty atom rejected: %v", err)
	}
}

func TestInternerConcurrent(t *testing.T) {
	in := NewInterner()

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 100; j++ {
				if _, err := in.Intern(fmt.Sprintf("atom_%d", j)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if in.Len() != len(Builtins())+100 {
		t.Errorf("Len = %d, want %d", in.Len(), len(Builtins())+100)
	}
}

func TestGenerate(t *testing.T) {
	tab, err := Generate([]string{"foo", "bar", "foo", "true"}, GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if tab.Len() != 9 {
		t.Fatalf("Len = %d, want 9", tab.Len())
	}
	for i, name := range Builtins() {
		id, ok := tab.Lookup(name)
		if !ok || id != uint64(i) {
			t.Errorf("Lookup(%s) = %d, %v, want %d", name, id, ok, i)
		}
		if got, ok := tab.Resolve(uint64(i)); !ok || got != name {
			t.Errorf("Resolve(%d) = %q, %v", i, got, ok)
		}
	}
	if id, _ := tab.Lookup("bar"); id != 7 {
		t.Errorf("bar = %d, want 7", id)
	}
	if id, _ := tab.Lookup("foo"); id != 8 {
		t.Errorf("foo = %d, want 8", id)
	}
	if _, ok := tab.Resolve(9); ok {
		t.Error("Resolve(9) found")
	}

	same, _ := Generate([]string{"bar", "foo"}, GenerateOptions{})
	if same.BuildID() != tab.BuildID() {
		t.Error("build id depends on input order")
	}
	other, _ := Generate([]string{"baz"}, GenerateOptions{})
	if other.BuildID() == tab.BuildID() {
		t.Error("different tables share a build id")
	}

	want := uuid.New()
	stamped, _ := Generate(nil, GenerateOptions{BuildID: want})
	if stamped.BuildID() != want {
		t.Errorf("BuildID = %s, want %s", stamped.BuildID(), want)
	}
	if stamped.Len() != len(Builtins()) {
		t.Errorf("empty program Len = %d", stamped.Len())
	}

	if _, err := Generate([]string{"ok", "bad\x00"}, GenerateOptions{}); err == nil {
		t.Error("Generate accepted a NUL in a name")
	}
}

func TestNewTable(t *testing.T) {
	withExtra := func(extra ...Entry) []Entry {
		return append(builtinEntries(), extra...)
	}
	swapped := builtinEntries()
	swapped[0].Name, swapped[1].Name = swapped[1].Name, swapped[0].Name

	tests := []struct {
		name    string
		entries []Entry
	}{
		{"duplicate_id", withExtra(Entry{ID: 3, Name: "foo"})},
		{"duplicate_name", withExtra(Entry{ID: 20, Name: "exit"})},
		{"missing_builtin", builtinEntries()[:6]},
		{"booleans_swapped", swapped},
		{"bad_name", withExtra(Entry{ID: 7, Name: "x\x00"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTable(tt.entries, uuid.Nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	t.Run("sparse", func(t *testing.T) {
		tab, err := NewTable(withExtra(Entry{ID: 100, Name: "foo"}, Entry{ID: 40, Name: "bar"}), uuid.Nil)
		if err != nil {
			t.Fatalf("NewTable: %v", err)
		}
		if name, ok := tab.Resolve(100); !ok || name != "foo" {
			t.Errorf("Resolve(100) = %q, %v", name, ok)
		}
		if name, ok := tab.Resolve(40); !ok || name != "bar" {
			t.Errorf("Resolve(40) = %q, %v", name, ok)
		}
		if _, ok := tab.Resolve(50); ok {
			t.Error("Resolve(50) found")
		}
		entries := tab.Entries()
		if entries[len(entries)-1].ID != 100 {
			t.Errorf("entries not sorted: %v", entries)
		}
		entries[0].Name = "mutated"
		if name, _ := tab.Resolve(0); name != "false" {
			t.Error("Entries aliases the table")
		}
	})
}

func TestWasmArtifact(t *testing.T) {
	tab, _ := Generate([]string{"foo", "bar", "a_rather_long_atom_name"}, GenerateOptions{})

	bin, err := EncodeWasm(tab)
	if err != nil {
		t.Fatalf("EncodeWasm: %v", err)
	}
	loaded, err := LoadWasm(context.Background(), bin)
	if err != nil {
		t.Fatalf("LoadWasm: %v", err)
	}
	assertSameTable(t, tab, loaded)
}

func TestLoadWasmErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := LoadWasm(ctx, []byte("\x00asm garbage")); err == nil {
		t.Error("LoadWasm accepted garbage")
	}

	// A valid module with no build id.
	empty := []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}
	_, err := LoadWasm(ctx, empty)
	if errKind(t, err) != errors.KindNotFound {
		t.Errorf("kind = %s, want not_found", errKind(t, err))
	}
}

func TestCBORArtifact(t *testing.T) {
	tab, _ := Generate([]string{"foo", "bar"}, GenerateOptions{})

	first, err := EncodeCBOR(tab)
	if err != nil {
		t.Fatalf("EncodeCBOR: %v", err)
	}
	again, _ := Generate([]string{"bar", "foo"}, GenerateOptions{})
	second, _ := EncodeCBOR(again)
	if string(first) != string(second) {
		t.Error("canonical encoding differs for equal tables")
	}

	loaded, err := DecodeCBOR(first)
	if err != nil {
		t.Fatalf("DecodeCBOR: %v", err)
	}
	assertSameTable(t, tab, loaded)

	if _, err := DecodeCBOR([]byte{0xff, 0x00}); err == nil {
		t.Error("DecodeCBOR accepted garbage")
	}
	future, _ := cborEncMode.Marshal(&cborFile{Version: 99})
	if _, err := DecodeCBOR(future); err == nil {
		t.Error("DecodeCBOR accepted an unknown version")
	}
}

func TestFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	tab, _ := Generate([]string{"foo", "bar"}, GenerateOptions{})

	for _, f := range []Format{FormatWasm, FormatCBOR} {
		t.Run(string(f), func(t *testing.T) {
			path := filepath.Join(dir, "atoms."+string(f))
			if err := WriteFile(path, tab, f); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			loaded, err := LoadFile(ctx, path)
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			assertSameTable(t, tab, loaded)
		})
	}

	_, err := LoadFile(ctx, filepath.Join(dir, "missing"))
	if errKind(t, err) != errors.KindNotFound {
		t.Errorf("missing file kind = %s, want not_found", errKind(t, err))
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error %v does not wrap fs.ErrNotExist", err)
	}
	err = WriteFile(filepath.Join(dir, "no", "such", "dir"), tab, FormatCBOR)
	if errKind(t, err) != errors.KindInvalidInput {
		t.Errorf("unwritable path kind = %s, want invalid_input", errKind(t, err))
	}
	if _, err := Encode(tab, "yaml"); err == nil {
		t.Error("Encode accepted an unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("WASM"); err != nil || f != FormatWasm {
		t.Errorf("ParseFormat(WASM) = %q, %v", f, err)
	}
	if f, err := ParseFormat("cbor"); err != nil || f != FormatCBOR {
		t.Errorf("ParseFormat(cbor) = %q, %v", f, err)
	}
	if _, err := ParseFormat("json"); err == nil {
		t.Error("ParseFormat(json) succeeded")
	}
}

func resetDefault() {
	initOnce = sync.Once{}
	current.Store(nil)
}

func TestDefault(t *testing.T) {
	resetDefault()
	t.Cleanup(resetDefault)

	_, err := Default()
	if errKind(t, err) != errors.KindNotInitialized {
		t.Fatalf("Default before Init: %v", err)
	}

	tab, _ := Generate([]string{"foo"}, GenerateOptions{})
	calls := 0
	load := func() (*Table, error) {
		calls++
		return tab, nil
	}
	if err := Init(load); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := Init(load); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if calls != 1 {
		t.Errorf("loader ran %d times", calls)
	}

	got, err := Default()
	if err != nil || got != tab {
		t.Errorf("Default = %p, %v, want %p", got, err, tab)
	}
}

func TestDefaultLoadError(t *testing.T) {
	resetDefault()
	t.Cleanup(resetDefault)

	boom := stderrors.New("boom")
	if err := Init(func() (*Table, error) { return nil, boom }); err != boom {
		t.Fatalf("Init = %v", err)
	}
	if _, err := Default(); err != boom {
		t.Errorf("Default = %v, want the load error", err)
	}
}

func assertSameTable(t *testing.T, want, got *Table) {
	t.Helper()
	if got.BuildID() != want.BuildID() {
		t.Errorf("build id = %s, want %s", got.BuildID(), want.BuildID())
	}
	we, ge := want.Entries(), got.Entries()
	if len(we) != len(ge) {
		t.Fatalf("entries = %d, want %d", len(ge), len(we))
	}
	for i := range we {
		if we[i] != ge[i] {
			t.Errorf("entry %d = %+v, want %+v", i, ge[i], we[i])
		}
	}
}
