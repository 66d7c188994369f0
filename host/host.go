package host

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/wippyai/term-encoding/dispatch"
	"github.com/wippyai/term-encoding/errors"
	"go.uber.org/zap"
)

// DefaultModule is the import module name guests use for the builtins.
const DefaultModule = "env"

// Config configures the host module.
type Config struct {
	// Logger receives contract violations. Defaults to a no-op logger.
	Logger *zap.Logger
	// Module is the import module name. Defaults to DefaultModule.
	Module string
}

// Signature describes one exported host function.
type Signature struct {
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

type function struct {
	fn api.GoModuleFunc
	Signature
}

// Instantiate registers the builtins with r.
func Instantiate(ctx context.Context, r wazero.Runtime, cfg Config) (api.Module, error) {
	name := cfg.Module
	if name == "" {
		name = DefaultModule
	}
	h := &host{log: cfg.Logger}
	if h.log == nil {
		h.log = zap.NewNop()
	}

	fns := h.functions()
	builder := r.NewHostModuleBuilder(name)
	for _, f := range fns {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.fn, f.Params, f.Results).
			WithName(f.Name).
			Export(f.Name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Registration(name, "builtins", err)
	}
	h.log.Debug("registered term builtins",
		zap.String("module", name),
		zap.Int("functions", len(fns)))
	return mod, nil
}

// Signatures lists the exported functions in registration order.
func Signatures() []Signature {
	fns := (&host{log: zap.NewNop()}).functions()
	out := make([]Signature, len(fns))
	for i, f := range fns {
		out[i] = f.Signature
	}
	return out
}

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

func sig(name string, params []api.ValueType, results ...api.ValueType) Signature {
	return Signature{Name: name, Params: params, Results: results}
}

func (h *host) functions() []function {
	return []function{
		{h.isType, sig("__lumen_builtin_is_type", []api.ValueType{i32, i32}, i32)},
		{h.isBoxedType, sig("__lumen_builtin_is_boxed_type", []api.ValueType{i32, i32}, i32)},
		{h.isTuple, sig("__lumen_builtin_is_tuple", []api.ValueType{i32, i32}, i32)},
		{h.isFunction, sig("__lumen_builtin_is_function", []api.ValueType{i32, i32}, i32)},
		{h.encodeImmediate, sig("__lumen_builtin_encode_immediate", []api.ValueType{i32, i32}, i32)},

		{h.genericIsType, sig(opIsType, []api.ValueType{i32, i32, i64}, i32)},
		{h.genericIsBoxedType, sig(opIsBoxedType, []api.ValueType{i32, i32, i64}, i32)},
		{h.genericIsTuple, sig(opIsTuple, []api.ValueType{i32, i64, i64}, i32)},
		{h.genericIsFunction, sig(opIsFunction, []api.ValueType{i32, i64, i64}, i32)},
		{h.genericEncodeImmediate, sig(opEncodeImmediate, []api.ValueType{i32, i32, i64}, i64)},
		{h.genericEncodeHeader, sig(opEncodeHeader, []api.ValueType{i32, i32, i64}, i64)},
		{h.constant(opListTag, dispatch.ListTag), sig(opListTag, []api.ValueType{i32}, i64)},
		{h.constant(opBoxTag, dispatch.BoxTag), sig(opBoxTag, []api.ValueType{i32}, i64)},
		{h.constant(opLiteralTag, dispatch.LiteralTag), sig(opLiteralTag, []api.ValueType{i32}, i64)},
		{h.constant(opListMask, dispatch.ListMask), sig(opListMask, []api.ValueType{i32}, i64)},
		{h.mask(opImmediateMask, dispatch.ImmediateMask), sig(opImmediateMask, []api.ValueType{i32, i32})},
		{h.mask(opHeaderMask, dispatch.HeaderMask), sig(opHeaderMask, []api.ValueType{i32, i32})},
	}
}

type host struct {
	log *zap.Logger
}

func (h *host) fatal(op string, err error) {
	h.log.Error("contract violation",
		zap.String("op", op),
		zap.Error(err))
	panic(err)
}

func (h *host) check(op string, ok bool, err error) uint64 {
	if err != nil {
		h.fatal(op, err)
	}
	if ok {
		return 1
	}
	return 0
}
