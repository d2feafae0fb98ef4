package analyzer

import (
	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/reflector"
	"github.com/mago-php/mago-core/resolver"
	"github.com/mago-php/mago-core/source"
)

// TraceEntry is one expression's settled type, keyed by its source span,
// for the "type-inspection"/`@psalm-trace`-style diagnostic surface IDE
// consumers use to ask "what does the analyzer think this expression is".
type TraceEntry struct {
	Span source.Span
	Type string
}

// Trace accumulates a TraceEntry per expression analyzed, when attached to
// an analysis via AnalyzeFileTraced. Left nil (the AnalyzeFile path), it
// costs nothing: every recording site checks for a nil receiver first.
type Trace struct {
	entries []TraceEntry
}

func NewTrace() *Trace {
	return &Trace{}
}

func (t *Trace) record(span source.Span, rendered string) {
	if t == nil {
		return
	}
	t.entries = append(t.entries, TraceEntry{Span: span, Type: rendered})
}

// Entries returns every recorded (span, type) pair in the order expressions
// were analyzed.
func (t *Trace) Entries() []TraceEntry {
	if t == nil {
		return nil
	}
	return t.entries
}

// AnalyzeFileTraced runs the same analysis as AnalyzeFile, additionally
// recording the inferred type of every expression encountered into the
// returned Trace.
func AnalyzeFileTraced(file *ast.File, fileID source.FileID, table *resolver.Table, store *reflector.Store) ([]issue.Issue, *Trace) {
	a := &analysis{store: store, table: table, fileID: fileID, trace: NewTrace()}
	a.walkStmts(file.Stmts)
	sortIssues(a.issues)
	return a.issues, a.trace
}
