// Package encoding implements the bit-level term representations.
//
// Three schemes are provided, each a zero-size type satisfying Scheme:
//
//	E32          32-bit words, primary tag in the low two bits
//	E64          64-bit words, primary tag in the top two bits
//	E64Nanboxed  64-bit words, doubles inline, other terms in the NaN space
//
// Every scheme assigns the same subtag numbers to immediates and headers, so
// a header written by one encoder is classified identically by another of
// the same width. TypeOf is total: reserved patterns classify as None.
//
// EncodingInfo is the runtime descriptor passed across the generic dispatch
// surface. Select maps it onto an ID; ID.Constants exposes the masks a code
// generator needs to emit the same tests inline.
package encoding
