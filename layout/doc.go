// Package layout describes how boxed terms are laid out in memory.
//
// Offsets are computed the same way for every word size: fields are placed
// sequentially, each aligned to its own alignment, and the total size is
// rounded up to the largest alignment.
//
// # Closures
//
// The closure layout is shared by the code that allocates closures and the
// type tests that inspect them. Both sides read offsets from Closure so a
// change to the field order moves them together:
//
//	header      word
//	module      word (atom)
//	definition  word
//	arity       u32
//
// With 4-byte words arity sits at offset 12, with 8-byte words at 24.
package layout
