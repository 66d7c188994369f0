// Package builtin exposes the type tests compiled code calls on the native
// target.
//
// The encoding is chosen when the package is built: 32-bit architectures use
// encoding.E32, amd64 uses encoding.E64Nanboxed and every other 64-bit
// architecture uses encoding.E64. Words are uintptr values and boxed words
// are dereferenced as real pointers through heap.Native.
//
// Contract violations cannot be reported to the caller, which expects a
// plain bool or word. They are logged and the function panics with the
// *errors.Error describing the violation.
package builtin
