package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/term-encoding/atoms"
	"github.com/wippyai/term-encoding/dispatch"
	"github.com/wippyai/term-encoding/encoding"
	"github.com/wippyai/term-encoding/errors"
	"github.com/wippyai/term-encoding/layout"
	"github.com/wippyai/term-encoding/term"
)

// description is what a single word says about itself under one encoding.
type description struct {
	tag    term.Tag
	detail string
}

func (d description) String() string {
	if d.detail == "" {
		return d.tag.String()
	}
	return d.tag.String() + "  " + d.detail
}

// describe classifies w under id. Atom ids are resolved through tab when one
// is given.
func describe(id encoding.ID, w uint64, tab *atoms.Table) (description, error) {
	switch id {
	case encoding.ID32:
		if w > math.MaxUint32 {
			return description{}, errors.Overflow(errors.PhaseDecode, "describe", w, "32-bit word")
		}
		return describeWith[uint32](encoding.E32{}, uint32(w), tab), nil
	case encoding.ID64:
		return describeWith[uint64](encoding.E64{}, w, tab), nil
	case encoding.ID64Nanboxed:
		nb := encoding.E64Nanboxed{}
		if nb.TypeOf(w) == term.Float {
			return description{tag: term.Float, detail: strconv.FormatFloat(nb.DecodeFloat(w), 'g', -1, 64)}, nil
		}
		return describeWith[uint64](nb, w, tab), nil
	}
	return description{}, errors.InvalidInput(errors.PhaseDecode, "unknown encoding "+id.String())
}

func describeWith[W encoding.Word, S encoding.Scheme[W]](s S, w W, tab *atoms.Table) description {
	tag := s.TypeOf(w)
	d := description{tag: tag}

	switch tag {
	case term.None, term.Nil:
	case term.List, term.Box:
		d.detail = fmt.Sprintf("addr=%#x", uint64(s.PointerAddress(w)))
		if s.IsLiteral(w) {
			d.detail += " literal"
		}
	case term.SmallInteger:
		v := int64(s.DecodeImmediate(w))
		if s.WordBytes() == 4 {
			v = int64(int32(s.DecodeImmediate(w)))
		}
		d.detail = strconv.FormatInt(v, 10)
	case term.Atom:
		id := uint64(s.DecodeImmediate(w))
		d.detail = fmt.Sprintf("id=%d", id)
		if tab != nil {
			if name, ok := tab.Resolve(id); ok {
				d.detail += " " + quoteAtom(name)
			}
		}
		if s.IsBoolean(w) {
			d.detail += " boolean"
		}
	case term.Pid, term.Port:
		d.detail = fmt.Sprintf("#%d", uint64(s.DecodeImmediate(w)))
	default:
		arity := uint64(s.DecodeHeaderValue(w))
		d.detail = fmt.Sprintf("header arity=%d", arity)
		if d.tag == term.Tuple && arity <= math.MaxUint32 {
			if size, ok := layout.TupleSize(uint32(s.WordBytes()), uint32(arity)); ok {
				d.detail += fmt.Sprintf(" size=%d", size)
			}
		}
	}
	return d
}

// quoteAtom renders an atom name the way it would be written in source.
func quoteAtom(name string) string {
	if name != "" && name[0] >= 'a' && name[0] <= 'z' && strings.IndexFunc(name, func(r rune) bool {
		return !(r == '_' || r == '@' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) < 0 {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", `\'`) + "'"
}

// parseWord accepts decimal, 0x, 0o and 0b forms.
func parseWord(s string) (uint64, error) {
	w, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, errors.InvalidInput(errors.PhaseDecode, fmt.Sprintf("invalid word %q", s))
	}
	return w, nil
}

// parsePayload accepts unsigned, negative and floating point literals. Floats
// are passed as their IEEE-754 bits.
func parsePayload(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseUint(s, 0, 64); err == nil {
		return v, nil
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return uint64(v), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return math.Float64bits(f), nil
	}
	return 0, errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("invalid payload %q", s))
}

// encodeWord builds an immediate, or a header when header is set.
func encodeWord(info encoding.EncodingInfo, kindName string, payload uint64, header bool) (uint64, error) {
	k, ok := term.KindByName(kindName)
	if !ok {
		return 0, errors.NotFound(errors.PhaseEncode, "kind", kindName)
	}
	if header {
		return dispatch.GenericEncodeHeader(info, uint32(k), payload)
	}
	return dispatch.GenericEncodeImmediate(info, uint32(k), payload)
}
