// Package reflector builds the project-wide symbol table: a read-only
// second pass over every parsed file (plus stub files) that records what
// each declared class-like, function, and constant actually looks like
// (spec §4.5).
package reflector

import (
	"github.com/mago-php/mago-core/source"
	"github.com/mago-php/mago-core/types"
)

// ClassLikeKind distinguishes the four declaration forms PHP's class-like
// namespace shares.
type ClassLikeKind int

const (
	KindClass ClassLikeKind = iota
	KindInterface
	KindTrait
	KindEnum
)

func (k ClassLikeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindTrait:
		return "trait"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Visibility mirrors PHP's three member-visibility levels.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

// TemplateParam is one @template declaration on a class-like or callable.
type TemplateParam struct {
	Name     string
	Bound    *types.Type // nil for unbounded
	Variance string      // "", "covariant", "contravariant"
}

// Property is one declared (or docblock-virtual) property.
type Property struct {
	Name       string
	Type       *types.Type
	Visibility Visibility
	Static     bool
	Readonly   bool
	// Virtual is true for a property that exists only via a
	// @property/@property-read/@property-write docblock tag, not an
	// actual PropertyDecl.
	Virtual    bool
	ReadOnlyDoc  bool // @property-read: assignable only by the declaring class's own code
	WriteOnlyDoc bool // @property-write
	Span       source.Span
}

// Param is one parameter of a Method or Function symbol.
type Param struct {
	Name     string
	Type     *types.Type
	Optional bool
	Variadic bool
	ByRef    bool
}

// Method is one declared (or docblock-virtual) method.
type Method struct {
	Name       string
	Params     []Param
	Return     *types.Type
	Visibility Visibility
	Static     bool
	Abstract   bool
	Final      bool
	Templates  []TemplateParam
	Throws     []*types.Type
	// Virtual is true for a method declared only via an @method tag.
	Virtual bool
	Span    source.Span
}

// ClassConstant is one declared class constant.
type ClassConstant struct {
	Name       string
	Type       *types.Type
	Visibility Visibility
	Span       source.Span
}

// EnumCase is one declared enum case.
type EnumCase struct {
	Name         string
	BackingValue *types.Type // literal backing value, nil for a pure case
	Span         source.Span
}

// Edge is a dangling-until-resolved inheritance reference: the reflector
// records the canonical name spec §4.4 computed without yet following it,
// since the target's own record may not be built yet (or may never exist).
type Edge struct {
	Name string
	Span source.Span
}

// ClassLike is the reflection record for a class, interface, trait, or
// enum (spec §3 "Reflection entry").
type ClassLike struct {
	Name      string
	Kind      ClassLikeKind
	Span      source.Span
	Abstract  bool
	Final     bool
	Readonly  bool
	Templates []TemplateParam

	Extends    *Edge  // nil for interfaces with no extends, enums, traits
	Implements []Edge // classes/enums "implements", interfaces "extends" (PHP allows multiple)
	Uses       []Edge // trait-use edges

	Properties map[string]*Property
	Methods    map[string]*Method
	Constants  map[string]*ClassConstant
	Cases      map[string]*EnumCase // only populated for KindEnum
	EnumBacking *types.Type

	Attributes []string // fully qualified attribute class names
	Deprecated bool
}

// FunctionSymbol is the reflection record for a free function.
type FunctionSymbol struct {
	Name       string
	Params     []Param
	Return     *types.Type
	Templates  []TemplateParam
	Throws     []*types.Type
	Span       source.Span
	Deprecated bool
	// Builtin is true for a seeded signature with no real declaration
	// span (reflector/builtins.go).
	Builtin bool
}

// ConstantSymbol is the reflection record for a global constant.
type ConstantSymbol struct {
	Name string
	Type *types.Type
	Span source.Span
}
