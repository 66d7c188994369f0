package wasm

import (
	"fmt"

	"github.com/wippyai/term-encoding/wasm/internal/binary"
)

// Section is a section header found by ScanSections. Data is the section
// payload; for custom sections the name has been stripped from it.
type Section struct {
	Name string
	Data []byte
	ID   byte
	Size uint32
}

// ScanSections walks the top-level sections of a module without decoding
// their contents.
func ScanSections(data []byte) ([]Section, error) {
	r := binary.NewReader(data)

	magic, err := r.ReadU32LE()
	if err != nil || magic != Magic {
		return nil, fmt.Errorf("invalid magic number")
	}
	version, err := r.ReadU32LE()
	if err != nil || version != Version {
		return nil, fmt.Errorf("unsupported version")
	}

	var sections []Section
	for r.Len() > 0 {
		id, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		size, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", id, err)
		}
		payload, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", id, err)
		}

		sec := Section{ID: id, Size: size, Data: payload}
		if id == SectionCustom {
			pr := binary.NewReader(payload)
			name, err := pr.ReadName()
			if err != nil {
				return nil, fmt.Errorf("custom section name: %w", err)
			}
			sec.Name = name
			sec.Data = payload[len(payload)-pr.Len():]
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

// FindCustomSection returns the payload of the first custom section with the
// given name.
func FindCustomSection(sections []Section, name string) ([]byte, bool) {
	for _, s := range sections {
		if s.ID == SectionCustom && s.Name == name {
			return s.Data, true
		}
	}
	return nil, false
}

// SectionName returns a readable name for a section ID.
func SectionName(id byte) string {
	switch id {
	case SectionCustom:
		return "custom"
	case SectionType:
		return "type"
	case SectionImport:
		return "import"
	case SectionFunction:
		return "function"
	case 4:
		return "table"
	case SectionMemory:
		return "memory"
	case SectionGlobal:
		return "global"
	case SectionExport:
		return "export"
	case 8:
		return "start"
	case 9:
		return "element"
	case SectionCode:
		return "code"
	case SectionData:
		return "data"
	case 12:
		return "datacount"
	}
	return fmt.Sprintf("section(%d)", id)
}
