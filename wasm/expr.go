package wasm

import "github.com/wippyai/term-encoding/wasm/internal/binary"

// ConstI32 is the constant expression i32.const v; end.
func ConstI32(v int32) []byte {
	w := binary.NewWriter()
	w.Byte(OpI32Const)
	w.WriteS64(int64(v))
	w.Byte(OpEnd)
	return w.Bytes()
}

// ConstI64 is the constant expression i64.const v; end.
func ConstI64(v int64) []byte {
	w := binary.NewWriter()
	w.Byte(OpI64Const)
	w.WriteS64(v)
	w.Byte(OpEnd)
	return w.Bytes()
}

// Forward is the body of a function that passes its first n parameters to
// function fn and returns the result.
func Forward(n int, fn uint32) []byte {
	w := binary.NewWriter()
	for i := 0; i < n; i++ {
		w.Byte(OpLocalGet)
		w.WriteU32(uint32(i))
	}
	w.Byte(OpCall)
	w.WriteU32(fn)
	w.Byte(OpEnd)
	return w.Bytes()
}
