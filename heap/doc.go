// Package heap provides the trusted word reads needed to inspect boxed terms.
//
// Classification of a boxed word reads the header it points to. Whether that
// address is valid is guaranteed by the garbage collector, not by this
// package; Memory implementations never try to verify it beyond what their
// backing store makes free.
//
// Three implementations are provided:
//
//	Arena   an owned, bounds-checked byte slice; addresses are offsets
//	Guest   a wazero linear memory; addresses are guest offsets
//	Native  raw process memory; addresses are real pointers
//
// Native is the only unsafe boundary in the module.
package heap
