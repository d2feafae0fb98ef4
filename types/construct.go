package types

import (
	"strconv"
	"strings"

	"github.com/mago-php/mago-core/docblock"
)

// TemplateEnv maps a template parameter name (as declared by @template)
// to the semantic type it's currently bound to, for substitution while
// constructing a signature's parameter/return types.
type TemplateEnv map[string]*Type

// Construct lowers a parsed docblock type expression into a semantic
// type, substituting any template parameter present in env. Names this
// package cannot resolve on its own (class-like references) become
// Object atoms by name; it is the reflector's job to later validate that
// the name exists, not this package's.
func Construct(t *docblock.Type, env TemplateEnv) *Type {
	if t == nil {
		return MixedT
	}
	switch t.Kind {
	case docblock.KindBad:
		return MixedT
	case docblock.KindPrimitive, docblock.KindClassRef:
		return constructNamed(t, env)
	case docblock.KindLiteral:
		return constructLiteral(t)
	case docblock.KindGeneric:
		return constructGeneric(t, env)
	case docblock.KindArrayShape:
		return constructShape(t, env, false)
	case docblock.KindListShape:
		return constructShape(t, env, true)
	case docblock.KindUnion:
		members := make([]*Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = Construct(m, env)
		}
		return UnionAll(members)
	case docblock.KindIntersection:
		members := make([]*Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = Construct(m, env)
		}
		result := members[0]
		for _, m := range members[1:] {
			result = Intersect(result, m)
		}
		return result
	case docblock.KindNullable:
		return Union(NullT, Construct(t.Inner, env))
	case docblock.KindCallable:
		return constructCallable(t, env)
	case docblock.KindKeyOf:
		return constructKeyOf(Construct(t.Inner, env))
	case docblock.KindValueOf:
		return constructValueOf(Construct(t.Inner, env))
	case docblock.KindConditional:
		// The forward-only resolution the spec requires (narrow the
		// result by the actual type of the subject at the call site) is
		// the analyzer's job, since it needs the call-site argument
		// type; here we conservatively union both arms.
		return Union(Construct(t.Then, env), Construct(t.Otherwise, env))
	default:
		return MixedT
	}
}

func constructNamed(t *docblock.Type, env TemplateEnv) *Type {
	name := t.Name
	if bound, ok := env[name]; ok {
		return bound
	}
	switch strings.ToLower(name) {
	case "never", "void":
		return NeverT
	case "null":
		return NullT
	case "true":
		return TrueT
	case "false":
		return FalseT
	case "bool", "boolean":
		return BoolT
	case "int", "integer":
		return IntT
	case "positive-int":
		return PositiveIntT
	case "negative-int":
		max := int64(-1)
		return IntRangeT(nil, &max)
	case "float", "double":
		return FloatT
	case "string":
		return StringT
	case "numeric-string":
		return NumericStringT
	case "non-empty-string":
		return NonEmptyStringT
	case "scalar":
		return UnionAll([]*Type{BoolT, IntT, FloatT, StringT})
	case "mixed":
		return MixedT
	case "object":
		return ObjectT("object")
	case "resource":
		return ResourceT
	case "array":
		return ObjectT("array", MixedT, MixedT)
	case "list":
		return ObjectT("list", MixedT)
	case "iterable":
		return ObjectT("iterable", MixedT, MixedT)
	case "self", "static", "$this":
		return &Type{Kind: Object, Name: "static", IsStaticRef: true}
	case "parent":
		return ObjectT("parent")
	case "class-string":
		return &Type{Kind: ClassString}
	default:
		return ObjectT(name)
	}
}

func constructLiteral(t *docblock.Type) *Type {
	if t.LiteralIsString {
		return LiteralStringT(t.Literal)
	}
	switch strings.ToLower(t.Literal) {
	case "true":
		return TrueT
	case "false":
		return FalseT
	case "null":
		return NullT
	}
	if v, err := strconv.ParseInt(t.Literal, 10, 64); err == nil {
		return LiteralIntT(v)
	}
	return LiteralStringT(t.Literal)
}

func constructGeneric(t *docblock.Type, env TemplateEnv) *Type {
	base := Construct(t.Base, env)
	args := make([]*Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = Construct(a, env)
	}
	if strings.EqualFold(t.Base.Name, "class-string") && len(args) == 1 {
		return &Type{Kind: ClassString, Generics: args}
	}
	cp := *base
	cp.Generics = args
	return &cp
}

func constructShape(t *docblock.Type, env TemplateEnv, isList bool) *Type {
	kind := ArrayShape
	if isList {
		kind = ListShape
	}
	shape := &Type{Kind: kind, Sealed: t.Sealed}
	for _, f := range t.Fields {
		shape.Fields = append(shape.Fields, ShapeField{
			Key:      f.Key,
			KeyIsInt: f.KeyIsInt,
			Optional: f.Optional,
			Value:    Construct(f.Value, env),
		})
	}
	if t.ValueType != nil {
		shape.Rest = Construct(t.ValueType, env)
	} else if !t.Sealed {
		shape.Rest = MixedT
	}
	return shape
}

func constructCallable(t *docblock.Type, env TemplateEnv) *Type {
	c := &Type{Kind: Callable}
	for _, p := range t.Params {
		c.Params = append(c.Params, CallableParam{
			Type:     Construct(p.Type, env),
			Variadic: p.Variadic,
			Optional: p.Optional,
		})
	}
	if t.Return != nil {
		c.Return = Construct(t.Return, env)
	} else {
		c.Return = MixedT
	}
	return c
}

// constructKeyOf/constructValueOf project an already-constructed semantic
// type down to its key or value band. For anything that isn't a
// container-shaped type, key-of/value-of is accepted but lowered to
// mixed, matching the spec's "accepted, may be lowered to mixed" note.
func constructKeyOf(t *Type) *Type {
	switch t.Kind {
	case ArrayShape:
		var keys []*Type
		for _, f := range t.Fields {
			if f.KeyIsInt {
				keys = append(keys, IntT)
			} else {
				keys = append(keys, StringT)
			}
		}
		return UnionAll(keys)
	case ListShape:
		return IntT
	case Object:
		if (t.Name == "array" || t.Name == "iterable") && len(t.Generics) == 2 {
			return t.Generics[0]
		}
		if t.Name == "list" && len(t.Generics) == 1 {
			return IntT
		}
	}
	return MixedT
}

func constructValueOf(t *Type) *Type {
	switch t.Kind {
	case ArrayShape, ListShape:
		var values []*Type
		for _, f := range t.Fields {
			values = append(values, f.Value)
		}
		if t.Rest != nil {
			values = append(values, t.Rest)
		}
		return UnionAll(values)
	case Object:
		if len(t.Generics) > 0 {
			return t.Generics[len(t.Generics)-1]
		}
	}
	return MixedT
}
