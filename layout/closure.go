package layout

// Closure field names.
const (
	FieldHeader     = "header"
	FieldModule     = "module"
	FieldDefinition = "definition"
	FieldArity      = "arity"
)

var (
	closure32 = closureLayout(4)
	closure64 = closureLayout(8)
)

func closureLayout(wordBytes uint32) Info {
	return Record(
		Word(FieldHeader, wordBytes),
		Word(FieldModule, wordBytes),
		Word(FieldDefinition, wordBytes),
		U32(FieldArity),
	)
}

// Closure returns the closure layout for the given word size in bytes.
func Closure(wordBytes uint32) Info {
	switch wordBytes {
	case 4:
		return closure32
	case 8:
		return closure64
	}
	return closureLayout(wordBytes)
}

// ClosureArityOffset is the byte offset of the 32-bit arity field from the
// closure header.
func ClosureArityOffset(wordBytes uint32) uint32 {
	return Closure(wordBytes).FieldOffs[FieldArity]
}

// TupleSize is the size in bytes of a tuple with the given arity, header
// included. The second result is false if the size overflows.
func TupleSize(wordBytes, arity uint32) (uint32, bool) {
	words, ok := SafeAddU32(arity, 1)
	if !ok {
		return 0, false
	}
	return SafeMulU32(words, wordBytes)
}

// TupleElementOffset is the byte offset of element i from the tuple header.
func TupleElementOffset(wordBytes, i uint32) uint32 {
	return (i + 1) * wordBytes
}
