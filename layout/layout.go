package layout

import "math"

// Field is one member of a boxed structure.
type Field struct {
	Name  string
	Size  uint32
	Align uint32
}

// Info is the computed layout of a structure.
type Info struct {
	FieldOffs map[string]uint32
	Size      uint32
	Align     uint32
}

// Offset returns the byte offset of the named field.
func (i Info) Offset(name string) (uint32, bool) {
	off, ok := i.FieldOffs[name]
	return off, ok
}

func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// Record lays out fields in order.
func Record(fields ...Field) Info {
	if len(fields) == 0 {
		return Info{Size: 0, Align: 1}
	}

	fieldOffs := make(map[string]uint32, len(fields))
	maxAlign := uint32(1)
	offset := uint32(0)

	for _, field := range fields {
		offset = AlignTo(offset, field.Align)
		fieldOffs[field.Name] = offset

		if field.Align > maxAlign {
			maxAlign = field.Align
		}

		offset += field.Size
	}

	return Info{
		Size:      AlignTo(offset, maxAlign),
		Align:     maxAlign,
		FieldOffs: fieldOffs,
	}
}

// Word returns a word-sized field.
func Word(name string, wordBytes uint32) Field {
	return Field{Name: name, Size: wordBytes, Align: wordBytes}
}

// U32 returns a 32-bit field.
func U32(name string) Field {
	return Field{Name: name, Size: 4, Align: 4}
}
