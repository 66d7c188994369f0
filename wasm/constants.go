package wasm

const (
	// Magic is "\0asm" read as a little-endian u32.
	Magic   uint32 = 0x6D736100
	Version uint32 = 0x01
)

// Section IDs. Non-custom sections must appear in increasing order.
const (
	SectionCustom   byte = 0
	SectionType     byte = 1
	SectionImport   byte = 2
	SectionFunction byte = 3
	SectionMemory   byte = 5
	SectionGlobal   byte = 6
	SectionExport   byte = 7
	SectionCode     byte = 10
	SectionData     byte = 11
)

// Import and export kinds.
const (
	KindFunc   byte = 0
	KindMemory byte = 2
	KindGlobal byte = 3
)

const (
	ValI32 ValType = 0x7F
	ValI64 ValType = 0x7E
)

const FuncTypeByte byte = 0x60

const LimitsHasMax byte = 0x01

// PageSize is the size of one linear memory page.
const PageSize = 65536

// Opcodes used by generated code.
const (
	OpEnd           byte = 0x0B
	OpCall          byte = 0x10
	OpLocalGet      byte = 0x20
	OpI32Const      byte = 0x41
	OpI64Const      byte = 0x42
	OpI32WrapI64    byte = 0xA7
	OpI64ExtendI32U byte = 0xAD
)
