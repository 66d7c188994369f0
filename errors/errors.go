package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseClassify Phase = "classify" // type tests over words
	PhaseEncode   Phase = "encode"   // immediate/header construction
	PhaseDecode   Phase = "decode"   // header/immediate extraction
	PhaseDeref    Phase = "deref"    // trusted pointer reads
	PhaseAtoms    Phase = "atoms"    // atom interning and table generation
	PhaseLoad     Phase = "load"     // artifact loading
	PhaseHost     Phase = "host"     // host function registration
	PhaseConfig   Phase = "config"   // configuration parsing
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidKind     Kind = "invalid_kind"
	KindNoPhysicalTag   Kind = "no_physical_tag"
	KindInvalidEncoding Kind = "invalid_encoding"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindOverflow        Kind = "overflow"
	KindInvalidData     Kind = "invalid_data"
	KindNotFound        Kind = "not_found"
	KindNotInitialized  Kind = "not_initialized"
	KindInvalidInput    Kind = "invalid_input"
	KindRegistration    Kind = "registration"
	KindInstantiation   Kind = "instantiation"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// ContractViolation reports whether the error indicates a bug in the caller
// (typically the code generator) rather than a runtime condition.
func (e *Error) ContractViolation() bool {
	switch e.Kind {
	case KindInvalidKind, KindNoPhysicalTag, KindInvalidEncoding, KindOutOfBounds, KindOverflow:
		return true
	}
	return false
}

// IsContractViolation reports whether err, or any error it wraps, is a
// contract violation.
func IsContractViolation(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.ContractViolation()
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidKind creates an error for a raw kind value outside the known set
func InvalidKind(op string, raw uint32) *Error {
	return &Error{
		Phase:  PhaseClassify,
		Kind:   KindInvalidKind,
		Op:     op,
		Detail: fmt.Sprintf("use of invalid term kind value: %d", raw),
		Value:  raw,
	}
}

// NoPhysicalTag creates an error for a kind that has no unique tag
func NoPhysicalTag(phase Phase, op string, kind fmt.Stringer) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNoPhysicalTag,
		Op:     op,
		Detail: fmt.Sprintf("term kind %s has no physical tag", kind),
		Value:  kind,
	}
}

// Unrepresentable creates an error for a tag the selected encoding cannot
// express in the requested form ("immediate" or "header")
func Unrepresentable(phase Phase, op string, tag fmt.Stringer, form string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNoPhysicalTag,
		Op:     op,
		Detail: fmt.Sprintf("%s has no %s form in this encoding", tag, form),
		Value:  tag,
	}
}

// InvalidEncoding creates an error for an encoding descriptor that selects
// no known encoding
func InvalidEncoding(op string, pointerSize uint32, nanboxed bool) *Error {
	return &Error{
		Phase:  PhaseClassify,
		Kind:   KindInvalidEncoding,
		Op:     op,
		Detail: fmt.Sprintf("invalid pointer size %d (nanboxing=%t)", pointerSize, nanboxed),
		Value:  pointerSize,
	}
}

// OutOfBounds creates an out of bounds error for a trusted read
func OutOfBounds(phase Phase, addr uint64, size, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("read of %d bytes at 0x%x out of bounds (length %d)", size, addr, length),
		Value:  addr,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, op string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Op:     op,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Registration creates a registration error
func Registration(namespace, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s#%s", namespace, name),
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Detail: fmt.Sprintf("instantiate %s", what),
		Cause:  cause,
	}
}

// Load creates an artifact loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
