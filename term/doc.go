// Package term defines the tag model shared by every word encoding.
//
// Tag is the closed physical classification recoverable from a word's bit
// pattern. Kind is the coarser, partially overlapping classification that
// compiled code requests across the FFI boundary. Kinds that describe a
// single representation map onto exactly one Tag through Kind.Tag; the
// polymorphic kinds (Term, Pid, Reference, List, Number, Integer, Binary) and
// the internal Boolean kind do not, and the conversion fails with an error
// satisfying errors.IsContractViolation.
package term
