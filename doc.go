// Package termenc describes how runtime terms are packed into machine words.
//
// A term is either an immediate that fits in one word (small integers, atoms,
// pids, nil) or a pointer to a boxed value whose first word is a header. Three
// encodings are supported: a 32-bit layout for wasm32 and other 32-bit
// targets, a 64-bit layout with the tag in the top bits, and a 64-bit layout
// that stores doubles inline and hides every other term in NaN space.
//
// # Packages
//
//	termenc/
//	├── term/          Tag and Kind, the physical and logical classifications
//	├── encoding/      the three word layouts and EncodingInfo selection
//	├── layout/        field offsets of boxed structures
//	├── heap/          trusted reads from arenas, native memory and guests
//	├── dispatch/      type tests and encoders over any encoding
//	├── builtin/       entry points specialized for the host at build time
//	├── target/        target triples and the encoding each one uses
//	├── atoms/         atom interning and the atom table artifacts
//	├── host/          the builtins as a wazero host module for wasm32 guests
//	├── wasm/          a small core wasm encoder
//	├── errors/        structured errors
//	└── cmd/termenc/   command-line inspector and table generator
//
// # Quick Start
//
// Classify a word produced for another target:
//
//	info := spec.EncodingInfo() // from target.Resolve
//	ok, err := dispatch.GenericIsType(info, mem, uint32(term.KindTuple), word)
//
// Build a word on the host:
//
//	w := builtin.EncodeImmediate(uint32(term.KindAtom), 5)
//
// Ship an atom table with a program:
//
//	tab, _ := atoms.Generate([]string{"foo", "bar"}, atoms.GenerateOptions{})
//	bin, _ := atoms.EncodeWasm(tab)
//
// # Errors
//
// Negative classification is a plain false. Misuse, such as an unknown kind
// or a polymorphic kind passed to an encoder, is a contract violation: the
// library returns an *errors.Error, and the builtin and host boundaries log
// it and panic.
package termenc
