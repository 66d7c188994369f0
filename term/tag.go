package term

// Tag is the physical classification recoverable from a single word.
//
// Every bit pattern of a word maps to exactly one Tag under a given encoding.
// Tag field values an encoding leaves unassigned classify as None.
type Tag uint8

const (
	None Tag = iota
	Atom
	SmallInteger
	BigInteger
	Float
	Nil
	List
	Tuple
	Map
	Closure
	HeapBinary
	ProcBin
	Box

	// Subtypes needed to resolve the polymorphic kinds.
	Pid
	Port
	Reference
	ExternalPid
	ExternalPort
	ExternalReference
	ResourceReference
	SubBinary
	MatchContext

	numTags
)

var tagNames = [numTags]string{
	None:              "none",
	Atom:              "atom",
	SmallInteger:      "small_integer",
	BigInteger:        "big_integer",
	Float:             "float",
	Nil:               "nil",
	List:              "list",
	Tuple:             "tuple",
	Map:               "map",
	Closure:           "closure",
	HeapBinary:        "heap_binary",
	ProcBin:           "procbin",
	Box:               "box",
	Pid:               "pid",
	Port:              "port",
	Reference:         "reference",
	ExternalPid:       "external_pid",
	ExternalPort:      "external_port",
	ExternalReference: "external_reference",
	ResourceReference: "resource_reference",
	SubBinary:         "sub_binary",
	MatchContext:      "match_context",
}

func (t Tag) String() string {
	if t < numTags {
		return tagNames[t]
	}
	return "tag(?)"
}

// Tags returns every defined tag in declaration order.
func Tags() []Tag {
	out := make([]Tag, numTags)
	for i := range out {
		out[i] = Tag(i)
	}
	return out
}

// IsTerm reports whether the tag denotes a valid term.
func (t Tag) IsTerm() bool {
	return t != None && t < numTags
}

// IsBox reports whether the tag is a boxed pointer.
func (t Tag) IsBox() bool { return t == Box }

// IsList reports whether the tag denotes a cons cell pointer.
func (t Tag) IsList() bool { return t == List }

// IsImmediate reports whether a word with this tag is self-contained.
// Float is listed because the NaN-boxed encoding stores doubles inline;
// encodings that box floats never produce an immediate Float.
func (t Tag) IsImmediate() bool {
	switch t {
	case None, Atom, SmallInteger, Float, Nil, Pid, Port:
		return true
	}
	return false
}

// IsBoxable reports whether the tag can appear in a header word.
func (t Tag) IsBoxable() bool {
	switch t {
	case BigInteger, Float, Tuple, Map, Closure, HeapBinary, ProcBin, SubBinary,
		MatchContext, Reference, ExternalPid, ExternalPort, ExternalReference, ResourceReference:
		return true
	}
	return false
}

// IsNumber reports whether the tag is a numeric subtype, boxed or immediate.
func (t Tag) IsNumber() bool {
	switch t {
	case SmallInteger, BigInteger, Float:
		return true
	}
	return false
}

// IsBoxedNumber reports whether the tag is a numeric header subtype.
func (t Tag) IsBoxedNumber() bool {
	return t == BigInteger || t == Float
}

func (t Tag) IsInteger() bool    { return t == SmallInteger || t == BigInteger }
func (t Tag) IsBigInteger() bool { return t == BigInteger }

// IsBinary reports whether the tag is any binary representation.
func (t Tag) IsBinary() bool {
	switch t {
	case HeapBinary, ProcBin, SubBinary:
		return true
	}
	return false
}

func (t Tag) IsPid() bool         { return t == Pid }
func (t Tag) IsExternalPid() bool { return t == ExternalPid }

// IsReference reports whether the tag is a local reference.
func (t Tag) IsReference() bool { return t == Reference }

// IsBoxedReference reports whether the tag is any reference header. Local
// references are heap allocated in every encoding, so the boxed branch of the
// Reference kind accepts all three reference headers.
func (t Tag) IsBoxedReference() bool {
	switch t {
	case Reference, ExternalReference, ResourceReference:
		return true
	}
	return false
}
