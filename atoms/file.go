package atoms

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/wippyai/term-encoding/errors"
)

// Format selects an artifact encoding.
type Format string

const (
	FormatWasm Format = "wasm"
	FormatCBOR Format = "cbor"
)

// ParseFormat accepts "wasm" or "cbor", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatWasm, FormatCBOR:
		return f, nil
	}
	return "", errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown atom table format %q", s))
}

// Encode serializes t in the given format.
func Encode(t *Table, f Format) ([]byte, error) {
	switch f {
	case FormatWasm:
		return EncodeWasm(t)
	case FormatCBOR:
		return EncodeCBOR(t)
	}
	return nil, errors.InvalidInput(errors.PhaseAtoms, fmt.Sprintf("unknown atom table format %q", f))
}

var wasmMagic = []byte{0x00, 'a', 's', 'm'}

// Decode loads an artifact of either format, detected from its content.
func Decode(ctx context.Context, data []byte) (*Table, error) {
	if bytes.HasPrefix(data, wasmMagic) {
		return LoadWasm(ctx, data)
	}
	return DecodeCBOR(data)
}

// WriteFile encodes t and writes it to path.
func WriteFile(path string, t *Table, f Format) error {
	data, err := Encode(t, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.PhaseAtoms, errors.KindInvalidInput, err, "write atom table "+path)
	}
	return nil
}

// LoadFile reads an artifact from path.
func LoadFile(ctx context.Context, path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		kind := errors.KindInvalidInput
		if stderrors.Is(err, fs.ErrNotExist) {
			kind = errors.KindNotFound
		}
		return nil, errors.Wrap(errors.PhaseLoad, kind, err, "read atom table "+path)
	}
	return Decode(ctx, data)
}
