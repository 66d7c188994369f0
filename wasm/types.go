package wasm

// Module is a core WebAssembly module restricted to the sections this
// repository generates.
type Module struct {
	Types          []FuncType
	Imports        []Import
	Funcs          []uint32 // type index per defined function
	Memories       []MemoryType
	Globals        []Global
	Exports        []Export
	Code           []FuncBody
	Data           []DataSegment
	CustomSections []CustomSection
}

type FuncType struct {
	Params  []ValType
	Results []ValType
}

type ValType byte

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	default:
		return "unknown"
	}
}

// Import describes an imported function or memory.
type Import struct {
	Module  string
	Name    string
	Kind    byte
	TypeIdx uint32      // KindFunc
	Memory  *MemoryType // KindMemory
}

type Limits struct {
	Max *uint32
	Min uint32
}

type MemoryType struct {
	Limits Limits
}

type GlobalType struct {
	ValType ValType
	Mutable bool
}

// Global is a global definition with a constant initializer expression
// (including the trailing end opcode).
type Global struct {
	Init []byte
	Type GlobalType
}

type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

type LocalEntry struct {
	Count   uint32
	ValType ValType
}

// FuncBody holds the locals and instructions of a defined function. Code
// must end with OpEnd.
type FuncBody struct {
	Locals []LocalEntry
	Code   []byte
}

// DataSegment is an active segment for memory 0.
type DataSegment struct {
	Offset []byte // constant expression
	Init   []byte
}

type CustomSection struct {
	Name string
	Data []byte
}

// FuncIndex returns the index of the nth defined function, counting past
// imported functions.
func (m *Module) FuncIndex(n int) uint32 {
	imported := 0
	for _, imp := range m.Imports {
		if imp.Kind == KindFunc {
			imported++
		}
	}
	return uint32(imported + n)
}

// AddType appends a function type, reusing an identical existing entry.
func (m *Module) AddType(ft FuncType) uint32 {
	for i, existing := range m.Types {
		if sameTypes(existing.Params, ft.Params) && sameTypes(existing.Results, ft.Results) {
			return uint32(i)
		}
	}
	m.Types = append(m.Types, ft)
	return uint32(len(m.Types) - 1)
}

func sameTypes(a, b []ValType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
