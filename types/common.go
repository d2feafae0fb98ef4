package types

// The shared cache of common types (spec §5 "a small shared cache of
// common types ... initialized once and read-only"). Every analyzer
// worker reads these directly instead of constructing fresh atoms for
// the overwhelmingly common cases.
var (
	NeverT          = &Type{Kind: Never}
	NullT           = &Type{Kind: Null}
	TrueT           = &Type{Kind: True}
	FalseT          = &Type{Kind: False}
	IntT            = &Type{Kind: Int}
	PositiveIntT    = &Type{Kind: PositiveInt}
	FloatT          = &Type{Kind: Float}
	NumericStringT  = &Type{Kind: NumericString}
	NonEmptyStringT = &Type{Kind: NonEmptyString}
	ResourceT       = &Type{Kind: Resource}
	MixedT          = &Type{Kind: Mixed}
	BoolT           = &Type{Kind: Union, Members: []*Type{TrueT, FalseT}}
	emptyStringT    = &Type{Kind: LiteralString, StringValue: ""}
	// StringT is plain PHP `string`: every string is either non-empty or
	// the empty string, mirroring how the atom list omits a bare string
	// kind in favor of non-empty-string plus the empty literal.
	StringT = &Type{Kind: Union, Members: []*Type{NonEmptyStringT, emptyStringT}}
)

// LiteralIntT returns the singleton-style literal-int type for v. Callers
// that will hold onto the result across a long analysis should Intern it.
func LiteralIntT(v int64) *Type {
	return &Type{Kind: LiteralInt, IntValue: v}
}

// LiteralStringT returns the literal-string type for v.
func LiteralStringT(v string) *Type {
	return &Type{Kind: LiteralString, StringValue: v}
}

// IntRangeT returns the int type bounded to [min, max]; either bound may
// be nil for unbounded.
func IntRangeT(min, max *int64) *Type {
	return &Type{Kind: IntRange, Min: min, Max: max}
}

// ObjectT returns a named class-like type, optionally generic.
func ObjectT(name string, generics ...*Type) *Type {
	return &Type{Kind: Object, Name: name, Generics: generics}
}
