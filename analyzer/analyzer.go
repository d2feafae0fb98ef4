package analyzer

import (
	"sort"

	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/reflector"
	"github.com/mago-php/mago-core/resolver"
	"github.com/mago-php/mago-core/source"
)

// analysis is the read-only environment shared by every expression/
// statement analyzed within one file: the frozen reflection store and the
// name-resolution side table computed during the scan phase (spec's two-
// barrier pipeline, §5). It carries no mutable state of its own; Context
// is what changes as analysis proceeds through a body.
type analysis struct {
	store  *reflector.Store
	table  *resolver.Table
	fileID source.FileID
	issues []issue.Issue
	trace  *Trace
}

func (a *analysis) report(iss issue.Issue) {
	a.issues = append(a.issues, iss)
}

func (a *analysis) reportUnless(ctx *Context, iss issue.Issue) {
	if ctx.isSuppressed(iss.Code.String()) {
		return
	}
	a.issues = append(a.issues, iss)
}

// AnalyzeFile walks every function and method declaration in file and
// runs flow-sensitive analysis on each body, returning every issue found
// sorted by (start offset, code) for deterministic output (spec §4.7
// "deterministic diagnostic ordering").
func AnalyzeFile(file *ast.File, fileID source.FileID, table *resolver.Table, store *reflector.Store) []issue.Issue {
	a := &analysis{store: store, table: table, fileID: fileID}
	a.walkStmts(file.Stmts)
	sortIssues(a.issues)
	return a.issues
}

// sortIssues orders issues by issue.Issue.SortKey so the same file always
// reports diagnostics in the same order regardless of the non-deterministic
// order a concurrent engine scans subexpressions in.
func sortIssues(issues []issue.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].SortKey().Less(issues[j].SortKey())
	})
}

func (a *analysis) walkStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		a.walkStmt(s)
	}
}

func (a *analysis) walkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.NamespaceDecl:
		a.walkStmts(n.Stmts)
	case *ast.FunctionDecl:
		a.analyzeFunctionDecl(n)
	case *ast.ClassDecl:
		a.walkClassMembers(n.Name.Name, n.Members)
	case *ast.InterfaceDecl:
		a.walkClassMembers(n.Name.Name, n.Members)
	case *ast.TraitDecl:
		a.walkClassMembers(n.Name.Name, n.Members)
	case *ast.EnumDecl:
		a.walkClassMembers(n.Name.Name, n.Members)
	case *ast.BlockStmt:
		a.walkStmts(n.Stmts)
	}
}

func (a *analysis) walkClassMembers(className string, members []ast.ClassMember) {
	for _, m := range members {
		if md, ok := m.(*ast.MethodDecl); ok && md.Body != nil {
			a.analyzeMethodDecl(className, md)
		}
	}
}
