// Package errors provides structured error types for the term-encoding module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the failing operation, the offending value
// and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindNoPhysicalTag).
//		Op("encode_immediate").
//		Value(kind).
//		Detail("term kind %s has no physical tag", kind).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidKind("is_type", raw)
//	err := errors.InvalidEncoding("list_tag", 48, false)
//
// Contract violations (invalid kinds, kinds without a physical tag,
// unsupported encodings, out-of-range trusted reads) are reported by
// IsContractViolation. Only the outermost FFI boundaries turn them into a
// panic.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
