//go:build !(386 || arm || mips || mipsle || amd64)

package builtin

import "github.com/wippyai/term-encoding/encoding"

type (
	scheme = encoding.E64
	word   = uint64
)
