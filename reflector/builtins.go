package reflector

import "github.com/mago-php/mago-core/types"

// Seed adds a fixed catalog of PHP standard-library function signatures to
// store, so a project that never declares strlen/array_map/... still gets
// real parameter and return types for them instead of treating every call
// to a builtin as undefined-function. The catalog of names below is the
// same one the teacher's interpreter dispatches at runtime (getBuiltin),
// rewritten here as declarative signatures instead of executable bodies.
func Seed(store *Store) {
	for _, sig := range builtinSignatures {
		store.AddFunction(&FunctionSymbol{
			Name:    sig.name,
			Params:  sig.params,
			Return:  sig.ret,
			Builtin: true,
		})
	}
}

type builtinSig struct {
	name   string
	params []Param
	ret    *types.Type
}

func p(name string, t *types.Type) Param { return Param{Name: name, Type: t} }

func optional(param Param) Param {
	param.Optional = true
	return param
}

func variadic(name string, t *types.Type) Param {
	return Param{Name: name, Type: t, Optional: true, Variadic: true}
}

var (
	mixedArrayT = types.ObjectT("array", types.MixedT, types.MixedT)
	stringT     = types.StringT
	intT        = types.IntT
	floatT      = types.FloatT
	boolT       = types.BoolT
	mixedT      = types.MixedT
	callableT   = &types.Type{Kind: types.Callable, Return: types.MixedT}
)

// builtinSignatures is not exhaustive: it covers the string, array, and
// type-introspection families the analyzer's end-to-end scenarios
// exercise most, grounded on the name catalog in the teacher's
// interpreter/builtins.go getBuiltin dispatcher.
var builtinSignatures = []builtinSig{
	{"strlen", []Param{p("string", stringT)}, intT},
	{"substr", []Param{p("string", stringT), p("offset", intT), optional(p("length", intT))}, stringT},
	{"strpos", []Param{p("haystack", stringT), p("needle", stringT), optional(p("offset", intT))}, types.UnionAll([]*types.Type{intT, types.FalseT})},
	{"stripos", []Param{p("haystack", stringT), p("needle", stringT), optional(p("offset", intT))}, types.UnionAll([]*types.Type{intT, types.FalseT})},
	{"str_replace", []Param{p("search", mixedT), p("replace", mixedT), p("subject", mixedT), optional(p("count", intT))}, mixedT},
	{"strtoupper", []Param{p("string", stringT)}, stringT},
	{"strtolower", []Param{p("string", stringT)}, stringT},
	{"trim", []Param{p("string", stringT), optional(p("characters", stringT))}, stringT},
	{"ltrim", []Param{p("string", stringT), optional(p("characters", stringT))}, stringT},
	{"rtrim", []Param{p("string", stringT), optional(p("characters", stringT))}, stringT},
	{"explode", []Param{p("separator", stringT), p("string", stringT), optional(p("limit", intT))}, types.ObjectT("list", stringT)},
	{"implode", []Param{p("separator", stringT), p("array", mixedArrayT)}, stringT},
	{"sprintf", []Param{p("format", stringT), variadic("values", mixedT)}, stringT},
	{"str_repeat", []Param{p("string", stringT), p("times", intT)}, stringT},
	{"str_pad", []Param{p("string", stringT), p("length", intT), optional(p("pad_string", stringT)), optional(p("pad_type", intT))}, stringT},
	{"str_split", []Param{p("string", stringT), optional(p("length", intT))}, types.ObjectT("list", stringT)},
	{"ucfirst", []Param{p("string", stringT)}, stringT},
	{"lcfirst", []Param{p("string", stringT)}, stringT},
	{"ucwords", []Param{p("string", stringT), optional(p("separators", stringT))}, stringT},
	{"ord", []Param{p("character", stringT)}, intT},
	{"chr", []Param{p("codepoint", intT)}, stringT},

	{"count", []Param{p("value", mixedT), optional(p("mode", intT))}, intT},
	{"sizeof", []Param{p("value", mixedT), optional(p("mode", intT))}, intT},
	{"array_push", []Param{p("array", mixedArrayT), variadic("values", mixedT)}, intT},
	{"array_pop", []Param{p("array", mixedArrayT)}, mixedT},
	{"array_shift", []Param{p("array", mixedArrayT)}, mixedT},
	{"array_unshift", []Param{p("array", mixedArrayT), variadic("values", mixedT)}, intT},
	{"array_merge", []Param{variadic("arrays", mixedArrayT)}, mixedArrayT},
	{"array_keys", []Param{p("array", mixedArrayT), optional(p("filter_value", mixedT)), optional(p("strict", boolT))}, types.ObjectT("list", mixedT)},
	{"array_values", []Param{p("array", mixedArrayT)}, types.ObjectT("list", mixedT)},
	{"array_reverse", []Param{p("array", mixedArrayT), optional(p("preserve_keys", boolT))}, mixedArrayT},
	{"array_slice", []Param{p("array", mixedArrayT), p("offset", intT), optional(p("length", intT)), optional(p("preserve_keys", boolT))}, mixedArrayT},
	{"array_search", []Param{p("needle", mixedT), p("haystack", mixedArrayT), optional(p("strict", boolT))}, types.UnionAll([]*types.Type{intT, stringT, types.FalseT})},
	{"in_array", []Param{p("needle", mixedT), p("haystack", mixedArrayT), optional(p("strict", boolT))}, boolT},
	{"array_key_exists", []Param{p("key", mixedT), p("array", mixedArrayT)}, boolT},
	{"array_key_first", []Param{p("array", mixedArrayT)}, types.UnionAll([]*types.Type{intT, stringT, types.NullT})},
	{"array_key_last", []Param{p("array", mixedArrayT)}, types.UnionAll([]*types.Type{intT, stringT, types.NullT})},
	{"array_is_list", []Param{p("array", mixedArrayT)}, boolT},
	{"array_map", []Param{p("callback", callableT), p("array", mixedArrayT), variadic("arrays", mixedArrayT)}, mixedArrayT},
	{"array_filter", []Param{p("array", mixedArrayT), optional(p("callback", callableT)), optional(p("mode", intT))}, mixedArrayT},
	{"array_reduce", []Param{p("array", mixedArrayT), p("callback", callableT), optional(p("initial", mixedT))}, mixedT},
	{"array_unique", []Param{p("array", mixedArrayT), optional(p("flags", intT))}, mixedArrayT},
	{"array_flip", []Param{p("array", mixedArrayT)}, mixedArrayT},
	{"array_sum", []Param{p("array", mixedArrayT)}, types.Union(intT, floatT)},
	{"array_product", []Param{p("array", mixedArrayT)}, types.Union(intT, floatT)},
	{"range", []Param{p("start", mixedT), p("end", mixedT), optional(p("step", mixedT))}, types.ObjectT("list", mixedT)},

	{"abs", []Param{p("num", mixedT)}, types.Union(intT, floatT)},
	{"ceil", []Param{p("num", floatT)}, floatT},
	{"floor", []Param{p("num", floatT)}, floatT},
	{"round", []Param{p("num", floatT), optional(p("precision", intT))}, floatT},
	{"max", []Param{variadic("values", mixedT)}, mixedT},
	{"min", []Param{variadic("values", mixedT)}, mixedT},
	{"pow", []Param{p("base", mixedT), p("exponent", mixedT)}, types.Union(intT, floatT)},
	{"sqrt", []Param{p("num", floatT)}, floatT},
	{"intdiv", []Param{p("num1", intT), p("num2", intT)}, intT},

	{"gettype", []Param{p("value", mixedT)}, stringT},
	{"is_null", []Param{p("value", mixedT)}, boolT},
	{"is_bool", []Param{p("value", mixedT)}, boolT},
	{"is_int", []Param{p("value", mixedT)}, boolT},
	{"is_integer", []Param{p("value", mixedT)}, boolT},
	{"is_long", []Param{p("value", mixedT)}, boolT},
	{"is_float", []Param{p("value", mixedT)}, boolT},
	{"is_double", []Param{p("value", mixedT)}, boolT},
	{"is_string", []Param{p("value", mixedT)}, boolT},
	{"is_array", []Param{p("value", mixedT)}, boolT},
	{"is_object", []Param{p("value", mixedT)}, boolT},
	{"is_numeric", []Param{p("value", mixedT)}, boolT},
	{"is_callable", []Param{p("value", mixedT)}, boolT},
	{"intval", []Param{p("value", mixedT), optional(p("base", intT))}, intT},
	{"floatval", []Param{p("value", mixedT)}, floatT},
	{"doubleval", []Param{p("value", mixedT)}, floatT},
	{"strval", []Param{p("value", mixedT)}, stringT},
	{"boolval", []Param{p("value", mixedT)}, boolT},

	{"function_exists", []Param{p("function", stringT)}, boolT},
	{"class_exists", []Param{p("class", stringT), optional(p("autoload", boolT))}, boolT},
	{"interface_exists", []Param{p("interface", stringT), optional(p("autoload", boolT))}, boolT},
	{"method_exists", []Param{p("object_or_class", mixedT), p("method", stringT)}, boolT},
	{"property_exists", []Param{p("object_or_class", mixedT), p("property", stringT)}, boolT},
	{"define", []Param{p("constant_name", stringT), p("value", mixedT), optional(p("case_insensitive", boolT))}, boolT},
	{"defined", []Param{p("constant_name", stringT)}, boolT},
	{"constant", []Param{p("name", stringT)}, mixedT},
}
