//go:build 386 || arm || mips || mipsle

package builtin

import "github.com/wippyai/term-encoding/encoding"

type (
	scheme = encoding.E32
	word   = uint32
)
