// Package dispatch implements the type tests and constructors the compiler
// and runtime call across the FFI boundary.
//
// The specialized entry points are generic over an encoding.Scheme and are
// instantiated once per target, so the scheme is fixed at compile time and
// no dispatch happens per call:
//
//	ok, err := dispatch.IsType[uint64](encoding.E64{}, mem, term.KindTuple, w)
//
// The Generic* entry points take an encoding.EncodingInfo instead and select
// the scheme with a closed switch. They exist for a compiler that reasons
// about a target whose word size differs from its own.
//
// # Classification
//
// A word whose primary tag is Box is dereferenced once and the header it
// points to supplies the effective tag. Polymorphic kinds are then resolved
// with the boxing taken into account:
//
//	Number     boxed: BigInteger or Float header   unboxed: any number tag
//	Integer    boxed: BigInteger header            unboxed: SmallInteger
//	Pid        boxed: ExternalPid header           unboxed: Pid
//	Reference  boxed: any reference header         unboxed: Reference
//	Binary     any binary header
//	Boolean    unboxed reserved boolean atoms only
//
// # Errors
//
// Negative classification is a plain false. Errors are reserved for contract
// violations: raw kinds outside the ABI, kinds without a physical tag given
// to an encoder, unknown encodings, values too wide for the target word and
// reads outside the backing memory. Callers at the FFI boundary treat them as
// fatal.
package dispatch
