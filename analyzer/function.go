package analyzer

import (
	"strings"

	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/docblock"
	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/reflector"
	"github.com/mago-php/mago-core/source"
	"github.com/mago-php/mago-core/types"
)

// analyzeFunctionDecl looks up n's already-reflected signature (built by
// the reflector in the scan phase) instead of re-deriving parameter and
// return types from the AST a second time, then analyzes its body.
func (a *analysis) analyzeFunctionDecl(n *ast.FunctionDecl) {
	if n.Body == nil {
		return
	}
	fn, ok := a.store.Function(n.Name.Name)
	if !ok {
		return
	}
	params := make(map[string]*types.Type, len(fn.Params))
	for _, p := range fn.Params {
		params[p.Name] = paramEntryType(p)
	}
	suppressed := a.parseSuppression(n.Doc)
	ctx := NewFunctionContext(a.store, a.fileID, params, suppressed)
	a.analyzeBody(ctx, n.Body.Stmts, fn.Return, n)
}

func (a *analysis) analyzeMethodDecl(className string, n *ast.MethodDecl) {
	cl, ok := a.store.ClassLike(className)
	if !ok {
		return
	}
	m, ok := cl.Methods[n.Name.Name]
	if !ok {
		return
	}
	params := make(map[string]*types.Type, len(m.Params)+1)
	params["this"] = types.ObjectT(cl.Name)
	for _, p := range m.Params {
		params[p.Name] = paramEntryType(p)
	}
	suppressed := a.parseSuppression(n.Doc)
	ctx := NewFunctionContext(a.store, a.fileID, params, suppressed)
	a.analyzeBody(ctx, n.Body.Stmts, m.Return, n)
}

// paramEntryType is a variadic parameter's element type wrapped back into
// the list shape the parameter actually binds to the variable as; every
// other parameter binds exactly its declared type.
func paramEntryType(p reflector.Param) *types.Type {
	if p.Variadic {
		return types.ObjectT("list", p.Type)
	}
	return p.Type
}

// analyzeBody runs statement analysis over stmts and, once done, checks
// the accumulated return-type union against declared against declaredReturn
// (spec §4.7 "return-type checking").
func (a *analysis) analyzeBody(ctx *Context, stmts []ast.Stmt, declaredReturn *types.Type, span ast.Node) {
	a.walkBlock(ctx, stmts)
	if declaredReturn == nil || declaredReturn.IsMixed() || declaredReturn.IsNever() {
		return
	}
	if !ctx.Returned && !ctx.Unreachable && !canBeVoid(declaredReturn) {
		a.reportUnless(ctx, issue.New(issue.MissingReturnStatement, nodeSpan(a.fileID, span),
			"function declares a return type but does not return on every path"))
		return
	}
	if !ctx.Returned {
		return
	}
	if types.IsSubtype(ctx.ReturnUnion, declaredReturn) == types.No {
		a.reportUnless(ctx, issue.New(issue.InvalidReturnStatement, nodeSpan(a.fileID, span),
			"returned type "+ctx.ReturnUnion.String()+" is not compatible with declared return type "+declaredReturn.String()))
	}
}

func canBeVoid(t *types.Type) bool {
	return types.IsSubtype(types.NullT, t) == types.Yes
}

func nodeSpan(fileID source.FileID, n ast.Node) source.Span {
	return ast.Span(fileID, n)
}

// parseSuppression reads @mago-expect/@mago-ignore tags off doc, returning
// the set of issue-code names they disable for the whole body (spec §6's
// docblock tag surface; spec's Open Question on scoping granularity is
// resolved here to whole-body scope, recorded in the design ledger).
func (a *analysis) parseSuppression(doc *ast.DocComment) map[string]bool {
	if doc == nil {
		return nil
	}
	db, diags := docblock.Parse(doc, a.fileID)
	a.issues = append(a.issues, diags...)
	out := map[string]bool{}
	for _, tag := range db.Tags {
		if tag.Name == "mago-expect" || tag.Name == "mago-ignore" {
			code := strings.TrimSpace(tag.Raw)
			if code != "" {
				out[code] = true
			}
		}
	}
	return out
}
