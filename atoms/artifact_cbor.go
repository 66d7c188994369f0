package atoms

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/wippyai/term-encoding/errors"
	"go.uber.org/zap"
)

// cborVersion is the side file format version.
const cborVersion = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("atoms: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type cborFile struct {
	BuildID []byte  `cbor:"2,keyasint"`
	Atoms   []Entry `cbor:"3,keyasint"`
	Version int     `cbor:"1,keyasint"`
}

// EncodeCBOR serializes t as canonical CBOR. Equal tables encode to equal
// bytes.
func EncodeCBOR(t *Table) ([]byte, error) {
	id := t.buildID
	return cborEncMode.Marshal(&cborFile{
		Version: cborVersion,
		BuildID: id[:],
		Atoms:   t.entries,
	})
}

// DecodeCBOR parses a side file written by EncodeCBOR.
func DecodeCBOR(data []byte) (*Table, error) {
	var f cborFile
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, errors.Load("unmarshal atom table", err)
	}
	if f.Version != cborVersion {
		return nil, errors.Load(fmt.Sprintf("unsupported atom table version %d", f.Version), nil)
	}
	id, err := uuid.FromBytes(f.BuildID)
	if err != nil {
		return nil, errors.Load("build id", err)
	}

	t, err := NewTable(f.Atoms, id)
	if err != nil {
		return nil, err
	}
	Logger().Debug("loaded atom table",
		zap.String("artifact", "cbor"),
		zap.Int("atoms", t.Len()),
		zap.Stringer("build_id", id),
	)
	return t, nil
}
