// Package docblock parses PHPDoc comments into structured tags and parses
// the type-expression operand of tags like @param, @return, @var, and
// @template (the Psalm/PHPStan common type-syntax superset).
package docblock

import "github.com/mago-php/mago-core/source"

// TypeKind tags which shape of the type AST a Type node holds.
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindLiteral
	KindClassRef
	KindGeneric
	KindArrayShape
	KindListShape
	KindUnion
	KindIntersection
	KindCallable
	KindConditional
	KindNullable
	KindKeyOf
	KindValueOf
	KindBad
)

// Type is a node of the docblock type AST (spec's "Type AST (docblock
// types)"). Every node carries a span relative to the *original source
// file*, not to the docblock's isolated text, so diagnostics can point
// directly at the offending fragment.
type Type struct {
	Kind Kind
	Span source.Span

	// KindPrimitive / KindClassRef: Name holds the keyword ("int",
	// "string", "self", "static", "$this", ...) or the class-like name.
	// The docblock parser emits every name as KindClassRef; KindPrimitive
	// comes only from the reflector's lowering of native type hints.
	Name string

	// KindLiteral: Literal holds the literal's text (42, true), or a
	// quoted string's content without its quotes, in which case
	// LiteralIsString is set.
	Literal         string
	LiteralIsString bool

	// KindGeneric: Base is the applied class-like/alias, Args its
	// template arguments (C<A,B>).
	Base *Type
	Args []*Type

	// KindArrayShape / KindListShape: Fields holds each entry; for a list
	// shape, field keys are positional and Optional/KeyType are unused.
	// Sealed is false when the shape ends in `, ...`.
	Fields []ShapeField
	Sealed bool
	// KeyType/ValueType: the <K, V> trailer of an otherwise-open shape
	// (array{k: T, ...<K, V>}), nil when absent.
	KeyType   *Type
	ValueType *Type

	// KindUnion / KindIntersection: Members holds each operand.
	Members []*Type

	// KindCallable: Params and Return describe callable(T1, T2=, T3...): R.
	Params []CallableParam
	Return *Type

	// KindConditional: ($p is T ? X : Y) narrowed by a conditional return
	// type, forward-only per the configured resolution.
	Subject   string
	Is        *Type
	IsNot     bool
	Then      *Type
	Otherwise *Type

	// KindNullable / KindKeyOf / KindValueOf: Inner is the wrapped type
	// (?T, key-of<T>, value-of<T>).
	Inner *Type
}

// Kind is an alias so call sites read docblock.Kind instead of
// docblock.TypeKind, matching the shorter name used throughout this
// package's own source.
type Kind = TypeKind

// ShapeField is one key: type entry of an array/list shape.
type ShapeField struct {
	Key      string
	KeyIsInt bool
	Optional bool
	Value    *Type
}

// CallableParam is one parameter of a callable(...) signature.
type CallableParam struct {
	Type     *Type
	Optional bool // trailing `=`
	Variadic bool // trailing `...`
}
