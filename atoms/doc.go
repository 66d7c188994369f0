// Package atoms assigns stable ids to atom names and produces the read-only
// atom table a compiled program ships with.
//
// Ids 0 and 1 are always false and true, followed by the other builtin atoms.
// Program atoms are numbered after the builtins in sorted order, so the same
// set of names always yields the same table and the same build id.
//
// A table is serialized either as a core wasm module that exports its data
// through the __LUMEN_ATOM_TABLE and __LUMEN_ATOM_TABLE_SIZE globals, or as a
// canonical CBOR side file. Both load back into an immutable *Table.
package atoms
