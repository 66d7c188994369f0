//go:build amd64

package builtin

import "github.com/wippyai/term-encoding/encoding"

type (
	scheme = encoding.E64Nanboxed
	word   = uint64
)
