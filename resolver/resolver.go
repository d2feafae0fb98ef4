// Package resolver assigns every name reference in a parsed file a fully
// qualified canonical name, honoring use-imports, the current namespace, and
// (for functions and constants only) the global-namespace fallback.
package resolver

import (
	"strings"

	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/source"
	"github.com/mago-php/mago-core/token"
)

// Kind distinguishes PHP's three separate name spaces; a reference only
// ever resolves within the one its syntactic position implies.
type Kind int

const (
	ClassLike Kind = iota
	Function
	Constant
)

func (k Kind) String() string {
	switch k {
	case ClassLike:
		return "class-like"
	case Function:
		return "function"
	case Constant:
		return "constant"
	default:
		return "unknown"
	}
}

// Origin records which rule of spec §4.4's resolution order produced a
// Resolution, so a caller can explain "resolved via use-import Foo\Bar as
// Baz" in a diagnostic or a hover tooltip.
type Origin int

const (
	// OriginAbsolute: the reference began with a leading backslash and
	// skips use-imports and the current namespace entirely.
	OriginAbsolute Origin = iota
	// OriginUseImport: an unqualified or qualified name's first segment
	// matched a use-import alias.
	OriginUseImport
	// OriginNamespace: no use-import matched; the name was prefixed with
	// the current namespace.
	OriginNamespace
	// OriginGlobalFallback: a function or constant reference, unqualified,
	// with no matching use-import, fell back to the global namespace
	// unchanged (classes never get this fallback).
	OriginGlobalFallback
	// OriginReserved: a reserved identifier (self, static, int, ...) that
	// is never treated as a user name; Resolution.Name holds it lowercased.
	OriginReserved
)

// Resolution is what the resolver records for one name-reference node.
type Resolution struct {
	Name   string // canonical name, without a leading backslash
	Kind   Kind
	Origin Origin
}

// Table is the resolver's output: a side-table from name-reference node to
// its Resolution (spec §4.4, "a side-table mapping each name-reference node
// to (resolved-name, kind, origin-of-resolution)").
type Table struct {
	byIdent      map[*ast.Ident]Resolution
	bySimpleType map[*ast.SimpleType]Resolution
}

func newTable() *Table {
	return &Table{
		byIdent:      make(map[*ast.Ident]Resolution),
		bySimpleType: make(map[*ast.SimpleType]Resolution),
	}
}

// Ident looks up the resolution recorded for an *ast.Ident name reference.
func (t *Table) Ident(n *ast.Ident) (Resolution, bool) {
	r, ok := t.byIdent[n]
	return r, ok
}

// SimpleType looks up the resolution recorded for a type-hint reference.
func (t *Table) SimpleType(n *ast.SimpleType) (Resolution, bool) {
	r, ok := t.bySimpleType[n]
	return r, ok
}

// Len reports how many name references were resolved, for tests and stats.
func (t *Table) Len() int { return len(t.byIdent) + len(t.bySimpleType) }

// Resolve walks file and returns the resolution table and an issue list.
// Resolution raises no issues of its own, so the list is empty; a
// repeated use-import alias is not reported.
// Name resolution itself is total over syntax: every non-reserved
// reference gets a Resolution. Whether the resolved name actually denotes
// a declared symbol is the reflector/analyzer's concern once the
// reflection store exists (spec §4.5).
func Resolve(file *ast.File, fileID source.FileID) (*Table, []issue.Issue) {
	r := &resolveRun{
		table: newTable(),
		file:  fileID,
		scope: newScope(""),
	}
	r.stmts(file.Stmts)
	return r.table, r.issues
}

type resolveRun struct {
	table  *Table
	file   source.FileID
	scope  *scope
	issues []issue.Issue
}

func (r *resolveRun) record(n ast.Node, name string, kind Kind) {
	res := r.resolveName(name, kind)
	switch id := n.(type) {
	case *ast.Ident:
		r.table.byIdent[id] = res
	case *ast.SimpleType:
		r.table.bySimpleType[id] = res
	}
}

// resolveName applies spec §4.4's resolution order to a raw, possibly
// backslash-qualified name string as it was lexed.
func (r *resolveRun) resolveName(name string, kind Kind) Resolution {
	if kind == ClassLike && isReservedClassName(name) {
		return Resolution{Name: strings.ToLower(name), Kind: kind, Origin: OriginReserved}
	}

	if strings.HasPrefix(name, "\\") {
		return Resolution{Name: strings.TrimPrefix(name, "\\"), Kind: kind, Origin: OriginAbsolute}
	}
	if rest, ok := trimNamespaceRelative(name); ok {
		return Resolution{Name: r.scope.qualify(rest), Kind: kind, Origin: OriginNamespace}
	}

	first, rest := splitFirstSegment(name)
	if alias, ok := r.scope.lookupAlias(kind, first); ok {
		qualified := alias
		if rest != "" {
			qualified = alias + "\\" + rest
		}
		return Resolution{Name: qualified, Kind: kind, Origin: OriginUseImport}
	}

	if !strings.Contains(name, "\\") && kind != ClassLike {
		return Resolution{Name: name, Kind: kind, Origin: OriginGlobalFallback}
	}

	return Resolution{Name: r.scope.qualify(name), Kind: kind, Origin: OriginNamespace}
}

func trimNamespaceRelative(name string) (string, bool) {
	const prefix = "namespace\\"
	if len(name) > len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
		return name[len(prefix):], true
	}
	return "", false
}

func splitFirstSegment(name string) (first, rest string) {
	if i := strings.IndexByte(name, '\\'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

var reservedClassNames = map[string]bool{
	"self": true, "static": true, "parent": true,
	"int": true, "integer": true, "float": true, "double": true,
	"string": true, "bool": true, "boolean": true, "array": true,
	"object": true, "mixed": true, "void": true, "never": true,
	"null": true, "false": true, "true": true, "callable": true,
	"iterable": true, "resource": true,
}

func isReservedClassName(name string) bool {
	if strings.Contains(name, "\\") {
		return false
	}
	return reservedClassNames[strings.ToLower(name)]
}

// kindFromUseToken maps a use-clause's token.Token tag (0 for a plain
// class-like use, T_FUNCTION, or T_CONST) to a Kind.
func kindFromUseToken(tok token.Token) Kind {
	switch tok {
	case token.T_FUNCTION:
		return Function
	case token.T_CONST:
		return Constant
	default:
		return ClassLike
	}
}
