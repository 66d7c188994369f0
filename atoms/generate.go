package atoms

import (
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// buildNamespace seeds the name-based UUIDs derived from table contents.
var buildNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:lumen:atom-table"))

// GenerateOptions controls table generation.
type GenerateOptions struct {
	// BuildID stamps the table. When zero, an id is derived from the table
	// contents.
	BuildID uuid.UUID
}

// Generate builds the table for a program that uses the given atoms. The
// builtins come first; the remaining names are deduplicated and numbered in
// sorted order.
func Generate(program []string, opts GenerateOptions) (*Table, error) {
	names := slices.Clone(program)
	slices.Sort(names)
	names = slices.Compact(names)

	in := NewInterner()
	for _, name := range names {
		if _, err := in.Intern(name); err != nil {
			return nil, err
		}
	}

	entries := in.Entries()
	id := opts.BuildID
	if id == uuid.Nil {
		id = contentID(entries)
	}

	t, err := NewTable(entries, id)
	if err != nil {
		return nil, err
	}
	Logger().Debug("generated atom table",
		zap.Int("atoms", t.Len()),
		zap.Stringer("build_id", id),
	)
	return t, nil
}

func contentID(entries []Entry) uuid.UUID {
	var buf []byte
	for _, e := range entries {
		buf = append(buf, e.Name...)
		buf = append(buf, 0)
	}
	return uuid.NewSHA1(buildNamespace, buf)
}
