package analyzer

import "github.com/mago-php/mago-core/ast"

// stmtFrame is one pending statement sequence on the explicit stack
// walkBlock drives, in place of one Go call frame per nested BlockStmt.
// Stress fixtures with deeply nested braces would otherwise grow the
// goroutine stack linearly with nesting depth; flattening the common
// straight-line/nested-block case onto an explicit stack keeps that
// bounded by heap, not call-stack, depth.
type stmtFrame struct {
	stmts []ast.Stmt
	idx   int
}

// walkBlock is the entry point analyzeStmts and the BlockStmt case both
// use: it pops statements off an explicit frame stack rather than
// recursing through Go calls for every brace level. Statements whose own
// obligations require forking ctx (if/while/switch/try/foreach) still call
// back into analyzeStmt, which recurses into their bodies in the ordinary
// way; that recursion is bounded by control-flow nesting depth, which in
// practice is far shallower than the brace-nesting depth the stress
// fixtures target.
func (a *analysis) walkBlock(ctx *Context, stmts []ast.Stmt) {
	stack := []*stmtFrame{{stmts: stmts}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.idx >= len(top.stmts) {
			stack = stack[:len(stack)-1]
			continue
		}
		s := top.stmts[top.idx]
		top.idx++

		if block, ok := s.(*ast.BlockStmt); ok {
			if ctx.Unreachable {
				a.reportUnreachableOnce(ctx, s)
			}
			stack = append(stack, &stmtFrame{stmts: block.Stmts})
			continue
		}
		a.analyzeStmt(ctx, s)
	}
}
