// Package issue defines the closed enum of diagnostic codes the analyzer
// emits, their categories and default severities, and the Issue record
// itself (spec §3 "Issue", §4.8 "Issue registry").
package issue

import "github.com/mago-php/mago-core/source"

// Severity ranks how seriously a diagnostic should be treated. A run exits
// non-zero iff at least one diagnostic of severity >= Error was emitted
// after baseline filtering (spec §7).
type Severity int

const (
	Help Severity = iota
	Note
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Help:
		return "help"
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Category groups issue codes by the kind of defect they describe (spec
// §4.8).
type Category string

const (
	CategoryRedundancy   Category = "redundancy"
	CategoryImpossibility Category = "impossibility"
	CategoryNullability  Category = "nullability"
	CategoryFalsability  Category = "falsability"
	CategoryMixedness    Category = "mixedness"
	CategoryExistence    Category = "existence"
	CategoryTemplate     Category = "template"
	CategoryArgument     Category = "argument"
	CategoryOperand      Category = "operand"
	CategoryProperty     Category = "property"
	CategoryGenerator    Category = "generator"
	CategoryArray        Category = "array"
	CategoryReturn       Category = "return"
	CategoryMethod       Category = "method"
	CategoryIterator     Category = "iterator"
	CategoryDeprecation  Category = "deprecation"
	CategoryAmbiguity    Category = "ambiguity"
	CategoryReference    Category = "reference"
	CategoryUnreachable  Category = "unreachable"
	// CategoryEngine is not part of the closed diagnostic taxonomy proper;
	// it tags internal invariant violations (spec §7) so they still flow
	// through the same sink as user-facing issues instead of panicking.
	CategoryEngine Category = "engine"
	// CategorySyntax tags parse/tokenize errors (spec §7, "always
	// surfaced" but disjoint from semantic issues).
	CategorySyntax Category = "syntax"
)

// SecondaryLabel is one extra span attached to an Issue, with a short label
// explaining its relevance (e.g. the declared @throws type for
// unhandled-thrown-type).
type SecondaryLabel struct {
	Span  source.Span
	Label string
}

// Issue is a single diagnostic: a code, a severity, a primary span, zero or
// more secondary spans, a formatted message, and an optional fix hint
// (spec §3).
type Issue struct {
	Code       Code
	Severity   Severity
	Primary    source.Span
	Secondary  []SecondaryLabel
	Message    string
	FixHint    string
}

// New builds an Issue using the registry's default severity for code.
func New(code Code, primary source.Span, message string) Issue {
	return Issue{Code: code, Severity: DefaultSeverity(code), Primary: primary, Message: message}
}

// WithSecondary returns a copy of iss with an extra secondary label
// attached — used to point at e.g. the @throws declaration site for
// unhandled-thrown-type (S4).
func (iss Issue) WithSecondary(span source.Span, label string) Issue {
	iss.Secondary = append(append([]SecondaryLabel{}, iss.Secondary...), SecondaryLabel{Span: span, Label: label})
	return iss
}

// WithFixHint attaches a suggested-fix hint string.
func (iss Issue) WithFixHint(hint string) Issue {
	iss.FixHint = hint
	return iss
}

// WithSeverity overrides the issue's severity, used when the host
// configuration remaps a code's default severity (spec §6).
func (iss Issue) WithSeverity(sev Severity) Issue {
	iss.Severity = sev
	return iss
}

// Key compares (file, start-offset, code) — the canonical ordering spec §4.7
// and §5 require for deterministic, thread-count-independent reports.
type Key struct {
	File  source.FileID
	Start int
	Code  Code
}

// SortKey returns iss's canonical ordering key.
func (iss Issue) SortKey() Key {
	return Key{File: iss.Primary.File, Start: iss.Primary.Start, Code: iss.Code}
}

// Less orders two keys by (file, start-offset, code) — ties broken by code
// so the sort is total.
func (k Key) Less(other Key) bool {
	if k.File != other.File {
		return k.File < other.File
	}
	if k.Start != other.Start {
		return k.Start < other.Start
	}
	return k.Code < other.Code
}
