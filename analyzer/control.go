package analyzer

import (
	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/resolver"
	"github.com/mago-php/mago-core/types"
)

// analyzeSwitch models PHP's fall-through case semantics: each case body
// is analyzed against the accumulated context of every case above it that
// doesn't end in an unconditional break/return/throw/continue, since
// control can fall from one case into the next. The merged exit state
// unions every case's reachable end state plus any break exits.
func (a *analysis) analyzeSwitch(ctx *Context, n *ast.SwitchStmt) {
	a.infer(ctx, n.Cond)
	ctx.pushLoop()

	hasDefault := false
	cur := ctx.Clone()
	var exits []*Context
	for _, c := range n.Cases {
		if c.Cond != nil {
			a.infer(cur, c.Cond)
		} else {
			hasDefault = true
		}
		cur.Unreachable = false
		a.analyzeStmts(cur, c.Stmts)
		if cur.Unreachable {
			exits = append(exits, cur)
			cur = cur.Clone()
			cur.Unreachable = false
		}
	}
	exits = append(exits, cur)

	frame := ctx.popLoop()
	for _, state := range frame.BreakStates {
		exits = append(exits, contextFromSnapshot(ctx, state))
	}
	if !hasDefault {
		exits = append(exits, ctx.Clone())
	}
	*ctx = *MergeBranches(exits)
}

func contextFromSnapshot(base *Context, snapshot map[string]*types.Type) *Context {
	c := base.Clone()
	for name, t := range snapshot {
		c.Assign(name, t)
	}
	return c
}

// analyzeTry runs the body, then each catch clause against a context
// seeded from the pre-try bindings (a catch may run after any partial
// prefix of the body executed), and merges the body's normal-completion
// state with every catch's completion state. The finally clause, when
// present, always runs and is analyzed against the merged state.
func (a *analysis) analyzeTry(ctx *Context, n *ast.TryStmt) {
	frame := &TryFrame{CatchTypes: catchTypesOf(a.table, n.Catches)}
	ctx.Tries = append(ctx.Tries, frame)
	bodyCtx := ctx.Clone()
	a.analyzeStmts(bodyCtx, n.Body.Stmts)
	ctx.Tries = ctx.Tries[:len(ctx.Tries)-1]

	branches := []*Context{bodyCtx}
	for _, cc := range n.Catches {
		catchCtx := ctx.Clone()
		if cc.Var != nil {
			if name, ok := variableName(cc.Var); ok {
				catchCtx.Assign(name, catchVarType(a.table, cc.Types))
			}
		}
		a.analyzeStmts(catchCtx, cc.Body.Stmts)
		branches = append(branches, catchCtx)
	}
	*ctx = *MergeBranches(branches)

	if n.Finally != nil {
		a.analyzeStmts(ctx, n.Finally.Body.Stmts)
	}
}

// catchTypesOf lowers a catch clause's (possibly union) type list to
// concrete object types for use as the try frame's catch set, resolved
// through table the same way inferNew resolves a `new` target.
func catchTypesOf(table *resolver.Table, catches []*ast.CatchClause) []*types.Type {
	var out []*types.Type
	for _, cc := range catches {
		for _, texpr := range cc.Types {
			out = append(out, types.ObjectT(resolvedClassName(table, texpr)))
		}
	}
	return out
}

// catchVarType unions the declared catch types into the type bound to
// the catch variable inside the clause body.
func catchVarType(table *resolver.Table, catches []ast.Expr) *types.Type {
	if len(catches) == 0 {
		return types.ObjectT("Throwable")
	}
	members := make([]*types.Type, 0, len(catches))
	for _, texpr := range catches {
		members = append(members, types.ObjectT(resolvedClassName(table, texpr)))
	}
	return types.UnionAll(members)
}
