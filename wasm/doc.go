// Package wasm encodes the small core WebAssembly modules this repository
// generates: the atom table artifact and guest modules that import the term
// builtins.
//
// Only the sections those modules need are modelled. Encoding follows the
// binary format directly:
//
//	m := &wasm.Module{}
//	t := m.AddType(wasm.FuncType{Params: []wasm.ValType{wasm.ValI32}})
//	m.Imports = append(m.Imports, wasm.Import{Module: "env", Name: "f", Kind: wasm.KindFunc, TypeIdx: t})
//	bin := m.Encode()
//
// ScanSections walks an encoded module's section headers, which is enough to
// read custom sections and to print a summary.
package wasm
