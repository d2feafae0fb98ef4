// Package types implements the semantic type system the analyzer reasons
// over (spec's "Type Model"): atoms, unions, intersections, array/list
// shapes, callables, and generic object types, plus the construct/union/
// intersect/is_subtype/narrow/widen operations the flow engine calls on
// every expression.
package types

import "github.com/mago-php/mago-core/source"

// Kind tags which shape of semantic type a Type value holds. Unlike the
// AST's closed interface-per-production design, Kind follows the same
// flexible-struct approach as docblock.Type: the type lattice nests
// unions inside shapes inside generics inside unions, and a tagged sum
// would need as many wrapper kinds as Kind already has values.
type Kind int

const (
	Never Kind = iota
	Null
	True
	False
	Int
	IntRange
	PositiveInt
	Float
	NumericString
	NonEmptyString
	LiteralInt
	LiteralString
	ClassString
	Object
	ArrayShape
	ListShape
	Callable
	Resource
	Mixed
	TemplateParam
	Union
	Intersection
)

// Type is the analyzer's value object for a PHP value's possible shape.
// Types are immutable once constructed and structurally hashed via Key();
// Intern canonicalizes equal values to a shared pointer so identity
// comparison is a valid fast path alongside structural comparison.
type Type struct {
	Kind Kind

	// Object / ClassString / TemplateParam: the class-like or template
	// name. For TemplateParam, the name the @template tag bound.
	Name string
	// Object: true when the reference is to "static" rather than the
	// named class itself.
	IsStaticRef bool
	// Object / ClassString: generic type-parameter list (C<A,B>'s A, B).
	Generics []*Type

	// IntRange: inclusive bounds; nil means unbounded on that side.
	Min, Max *int64

	// LiteralInt / LiteralString.
	IntValue    int64
	StringValue string

	// ArrayShape / ListShape: known entries plus the type of any entry
	// not named here. Sealed false means Rest describes additional
	// entries that may exist; Sealed true means no others do.
	Fields []ShapeField
	Rest   *Type
	Sealed bool

	// Callable: parameter list, return type, purity. Params' ByRef and
	// Variadic flags mirror the declaration.
	Params  []CallableParam
	Return  *Type
	Pure    bool

	// TemplateParam: the declared upper bound (nil means unbounded,
	// equivalent to `mixed`) and declared variance.
	Bound    *Type
	Variance string

	// Union / Intersection: member atoms. A union is never nested (its
	// members are never themselves Union); construction flattens.
	Members []*Type

	// Provenance records which expression or assertion produced this
	// type, for diagnostic messages ("here $x was narrowed to int by
	// the is_int() check on line 12"). Optional.
	Provenance source.Span
	HasProvenance bool

	hash string
}

// ShapeField is one key => type entry of an array/list shape.
type ShapeField struct {
	Key      string
	KeyIsInt bool
	Optional bool
	Value    *Type
}

// CallableParam is one parameter of a callable signature.
type CallableParam struct {
	Type     *Type
	ByRef    bool
	Variadic bool
	Optional bool
}

// WithProvenance returns a copy of t carrying the given span as its
// provenance, used when a construct/narrow site wants the result to
// trace back to the expression that produced it.
func (t *Type) WithProvenance(span source.Span) *Type {
	cp := *t
	cp.Provenance = span
	cp.HasProvenance = true
	cp.hash = ""
	return &cp
}

// IsNever reports whether t is the bottom type (no value satisfies it).
func (t *Type) IsNever() bool { return t.Kind == Never }

// IsMixed reports whether t is the unconstrained top type.
func (t *Type) IsMixed() bool { return t.Kind == Mixed }
