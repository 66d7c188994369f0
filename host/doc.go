// Package host exposes the term builtins to wasm32 guests as a wazero host
// module.
//
// The __lumen_builtin_* functions use the 32-bit encoding and treat the
// calling module's linear memory as the heap, so boxed terms are followed
// through guest addresses. The lumen_* functions take a pointer to an
// EncodingInfo in guest memory and answer for whichever encoding it
// selects; they are meant for compilers that fold encoding constants for a
// different target.
//
// A call that breaks the builtin contract, such as an unknown kind or a
// dangling box, is logged and aborts the guest call with a trap.
package host
