package analyzer

import (
	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/types"
)

// analyzeStmt runs one statement's obligations against ctx, which it
// mutates in place. Every statement kind that can diverge (return, throw,
// break, continue, an unconditional exit()) sets ctx.Unreachable so
// subsequent sibling statements are flagged by the caller instead of
// re-deriving the same fact independently (spec §4.7's unreachable-code
// family, §9's explicit frame-stack approach to statement analysis).
func (a *analysis) analyzeStmt(ctx *Context, s ast.Stmt) {
	if ctx.Unreachable {
		a.reportUnreachableOnce(ctx, s)
	}
	switch n := s.(type) {
	case *ast.ExprStmt:
		a.infer(ctx, n.Expr)
		if _, isExit := n.Expr.(*ast.ExitExpr); isExit {
			ctx.Unreachable = true
		}
	case *ast.BlockStmt:
		a.walkBlock(ctx, n.Stmts)
	case *ast.IfStmt:
		a.analyzeIf(ctx, n)
	case *ast.WhileStmt:
		a.analyzeWhile(ctx, n)
	case *ast.DoWhileStmt:
		a.analyzeDoWhile(ctx, n)
	case *ast.ForStmt:
		a.analyzeFor(ctx, n)
	case *ast.ForeachStmt:
		a.analyzeForeach(ctx, n)
	case *ast.SwitchStmt:
		a.analyzeSwitch(ctx, n)
	case *ast.TryStmt:
		a.analyzeTry(ctx, n)
	case *ast.ThrowStmt:
		a.inferThrow(ctx, n.Expr)
		ctx.Unreachable = true
	case *ast.ReturnStmt:
		a.analyzeReturn(ctx, n)
	case *ast.BreakStmt:
		ctx.recordBreak(loopDepth(n.Num))
		ctx.Unreachable = true
	case *ast.ContinueStmt:
		ctx.recordContinue(loopDepth(n.Num))
		ctx.Unreachable = true
	case *ast.EchoStmt:
		for _, e := range n.Exprs {
			a.infer(ctx, e)
		}
	case *ast.GlobalStmt:
		for _, v := range n.Vars {
			if name, ok := variableName(v); ok {
				ctx.Assign(name, types.MixedT)
			}
		}
	case *ast.StaticVarStmt:
		for _, sv := range n.Vars {
			name, ok := variableName(sv.Var)
			if !ok {
				continue
			}
			t := types.NullT
			if sv.Default != nil {
				t = a.infer(ctx, sv.Default)
			}
			ctx.Assign(name, t)
		}
	case *ast.UnsetStmt:
		for _, e := range n.Vars {
			if name, ok := variableName(e); ok {
				delete(ctx.Variables, name)
			} else {
				a.infer(ctx, e)
			}
		}
	case *ast.DeclareStmt:
		if n.Body != nil {
			a.analyzeStmt(ctx, n.Body)
		}
	}
}

// analyzeStmts runs every statement in stmts against ctx in order via the
// explicit frame stack in stack.go, rather than recursing through Go calls
// per statement.
func (a *analysis) analyzeStmts(ctx *Context, stmts []ast.Stmt) {
	a.walkBlock(ctx, stmts)
}

func (a *analysis) reportUnreachableOnce(ctx *Context, s ast.Stmt) {
	if _, isEmpty := s.(*ast.EmptyStmt); isEmpty {
		return
	}
	a.reportUnless(ctx, issue.New(issue.UnreachableCode, nodeSpan(a.fileID, s),
		"this statement is never executed").WithSeverity(issue.Warning))
}

func loopDepth(n ast.Expr) int {
	if n == nil {
		return 1
	}
	lit, ok := n.(*ast.Literal)
	if !ok {
		return 1
	}
	t := (&analysis{}).literalType(lit)
	if t.Kind == types.LiteralInt && t.IntValue > 0 {
		return int(t.IntValue)
	}
	return 1
}

func (a *analysis) analyzeReturn(ctx *Context, n *ast.ReturnStmt) {
	t := types.NullT
	if n.Result != nil {
		t = a.infer(ctx, n.Result)
	}
	if ctx.ReturnUnion == nil || ctx.ReturnUnion.IsNever() {
		ctx.ReturnUnion = t
	} else {
		ctx.ReturnUnion = types.Union(ctx.ReturnUnion, t)
	}
	ctx.Returned = true
	ctx.Unreachable = true
}

func (a *analysis) analyzeIf(ctx *Context, n *ast.IfStmt) {
	assertions := a.deriveAssertions(n.Cond)
	a.infer(ctx, n.Cond)

	thenCtx := ctx.Clone()
	applyAssertions(thenCtx, assertions, true)
	a.analyzeStmt(thenCtx, n.Body)

	branches := []*Context{thenCtx}
	elseAssertCtx := ctx.Clone()
	applyAssertions(elseAssertCtx, assertions, false)

	handled := false
	for _, ei := range n.ElseIfs {
		eiAssertions := a.deriveAssertions(ei.Cond)
		a.infer(elseAssertCtx, ei.Cond)
		branchCtx := elseAssertCtx.Clone()
		applyAssertions(branchCtx, eiAssertions, true)
		a.analyzeStmt(branchCtx, ei.Body)
		branches = append(branches, branchCtx)
		applyAssertions(elseAssertCtx, eiAssertions, false)
	}

	if n.Else != nil {
		a.analyzeStmt(elseAssertCtx, n.Else.Body)
		branches = append(branches, elseAssertCtx)
		handled = true
	}
	if !handled {
		branches = append(branches, elseAssertCtx)
	}

	*ctx = *MergeBranches(branches)
}

func (a *analysis) analyzeWhile(ctx *Context, n *ast.WhileStmt) {
	a.runLoop(ctx, func(loopCtx *Context) {
		assertions := a.deriveAssertions(n.Cond)
		a.infer(loopCtx, n.Cond)
		applyAssertions(loopCtx, assertions, true)
		a.analyzeStmt(loopCtx, n.Body)
	})
}

func (a *analysis) analyzeDoWhile(ctx *Context, n *ast.DoWhileStmt) {
	a.runLoop(ctx, func(loopCtx *Context) {
		a.analyzeStmt(loopCtx, n.Body)
		a.infer(loopCtx, n.Cond)
	})
}

func (a *analysis) analyzeFor(ctx *Context, n *ast.ForStmt) {
	for _, e := range n.Init {
		a.infer(ctx, e)
	}
	a.runLoop(ctx, func(loopCtx *Context) {
		for _, e := range n.Cond {
			a.infer(loopCtx, e)
		}
		a.analyzeStmt(loopCtx, n.Body)
		for _, e := range n.Loop {
			a.infer(loopCtx, e)
		}
	})
}

func (a *analysis) analyzeForeach(ctx *Context, n *ast.ForeachStmt) {
	iterType := a.infer(ctx, n.Expr)
	keyType, valueType := elementTypes(iterType)
	if keyType == nil && valueType == nil {
		a.reportUnless(ctx, issue.New(issue.InvalidForeachTarget, nodeSpan(a.fileID, n.Expr),
			"value of type "+iterType.String()+" is not iterable").WithSeverity(issue.Warning))
		valueType = types.MixedT
	}
	a.runLoop(ctx, func(loopCtx *Context) {
		if n.KeyVar != nil {
			if name, ok := variableName(n.KeyVar); ok {
				kt := keyType
				if kt == nil {
					kt = types.MixedT
				}
				loopCtx.Assign(name, kt)
			}
		}
		if name, ok := variableName(n.ValueVar); ok {
			vt := valueType
			if vt == nil {
				vt = types.MixedT
			}
			loopCtx.Assign(name, vt)
		} else if n.ValueVar != nil {
			a.infer(loopCtx, n.ValueVar)
		}
		a.analyzeStmt(loopCtx, n.Body)
	})
}

// elementTypes reports the key and value types a foreach target yields,
// or (nil, nil) when iterType admits no known iterable shape.
func elementTypes(iterType *types.Type) (key, value *types.Type) {
	for _, member := range unionMembers(iterType) {
		switch member.Kind {
		case types.ListShape:
			key = types.IntT
			value = unionShapeValues(member)
			return key, value
		case types.ArrayShape:
			value = unionShapeValues(member)
			if member.Rest != nil {
				if value == nil {
					value = member.Rest
				} else {
					value = types.Union(value, member.Rest)
				}
			}
			return types.UnionAll([]*types.Type{types.IntT, types.StringT}), value
		case types.Object:
			if member.Name == "list" && len(member.Generics) >= 1 {
				return types.IntT, member.Generics[0]
			}
			if member.Name == "array" && len(member.Generics) >= 2 {
				return member.Generics[0], member.Generics[1]
			}
			if member.Name != "" {
				// Traversable/Iterator-shaped object: element type not
				// statically known without generic annotation.
				return types.MixedT, types.MixedT
			}
		case types.Mixed:
			return types.MixedT, types.MixedT
		}
	}
	return nil, nil
}

func unionShapeValues(t *types.Type) *types.Type {
	var result *types.Type
	for _, f := range t.Fields {
		if result == nil {
			result = f.Value
		} else {
			result = types.Union(result, f.Value)
		}
	}
	return result
}

// runLoop analyzes body once to collect break/continue exit states
// (widening against the pre-loop bindings), then re-analyzes it against
// the widened entry state until a fixpoint or a bounded number of
// iterations is reached, grounded on types.WidenForLoopFixpoint's
// "bounded iterations" contract (spec §4.7 loop termination guarantee).
func (a *analysis) runLoop(ctx *Context, body func(loopCtx *Context)) {
	const maxIterations = 4
	entry := ctx.Clone()
	entry.pushLoop()

	var last *Context
	for i := 0; i < maxIterations; i++ {
		iterCtx := entry.Clone()
		iterCtx.Loops = append(iterCtx.Loops[:0:0], entry.Loops...)
		body(iterCtx)

		widened := entry.Clone()
		changed := false
		for name, v := range iterCtx.Variables {
			if !v.Initialized {
				continue
			}
			prevState, existed := entry.Variables[name]
			var prevType *types.Type
			if existed {
				prevType = prevState.Type
			} else {
				prevType = types.NeverT
			}
			w := types.WidenForLoopFixpoint(prevType, v.Type, ctx.Cfg)
			if !existed || w.Key() != prevType.Key() {
				changed = true
			}
			widened.Variables[name] = &VarState{Type: w, Initialized: true}
		}
		last = iterCtx
		entry = widened
		if !changed {
			break
		}
	}

	frame := last.popLoop()
	exitStates := append(append([]map[string]*types.Type{}, frame.BreakStates...), ctx.snapshotVars())
	*ctx = *mergeLoopExit(ctx, entry, exitStates)
}

// mergeLoopExit computes the Context visible after a loop: the widened
// entry bindings (the loop may run zero times) unioned with every break's
// captured state.
func mergeLoopExit(base, widenedEntry *Context, exitStates []map[string]*types.Type) *Context {
	out := widenedEntry.Clone()
	out.Unreachable = false
	for name, v := range out.Variables {
		t := v.Type
		for _, state := range exitStates {
			if et, ok := state[name]; ok {
				t = types.Union(t, et)
			}
		}
		v.Type = t
	}
	return out
}
