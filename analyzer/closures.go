package analyzer

import (
	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/types"
)

// inferClosure analyzes an anonymous function's body in its own Context,
// seeded from its parameters plus the variables captured by `use`, and
// returns a callable type describing its signature (spec's "closures"
// expression obligation).
func (a *analysis) inferClosure(ctx *Context, n *ast.ClosureExpr) *types.Type {
	params := make(map[string]*types.Type, len(n.Params)+len(n.Uses))
	callableParams := make([]types.CallableParam, 0, len(n.Params))
	for _, p := range n.Params {
		name, _ := variableName(p.Var)
		t := a.typeExprOrMixed(p.Type)
		params[name] = t
		callableParams = append(callableParams, types.CallableParam{Type: t, ByRef: p.ByRef, Variadic: p.Variadic})
	}
	for _, use := range n.Uses {
		name, ok := variableName(use.Var)
		if !ok {
			continue
		}
		if use.ByRef {
			// By-reference captures observe the outer scope's mutations;
			// model conservatively as whatever the outer type is now.
			if t, bound := ctx.Get(name); bound {
				params[name] = t
			} else {
				params[name] = types.MixedT
			}
		} else if t, bound := ctx.Get(name); bound {
			params[name] = t
		} else {
			params[name] = types.MixedT
		}
	}

	inner := NewFunctionContext(a.store, a.fileID, params, ctx.Suppressed)
	declaredReturn := a.typeExprOrNil(n.ReturnType)
	a.analyzeBody(inner, n.Body.Stmts, declaredReturn, n)

	ret := declaredReturn
	if ret == nil {
		if inner.Returned {
			ret = inner.ReturnUnion
		} else {
			ret = types.NullT
		}
	}
	return &types.Type{Kind: types.Callable, Params: callableParams, Return: ret}
}

func (a *analysis) inferArrowFunc(ctx *Context, n *ast.ArrowFuncExpr) *types.Type {
	params := make(map[string]*types.Type, len(n.Params)+len(ctx.Variables))
	callableParams := make([]types.CallableParam, 0, len(n.Params))
	// Arrow functions implicitly capture the entire enclosing scope by
	// value.
	for name, v := range ctx.Variables {
		if v.Initialized {
			params[name] = v.Type
		}
	}
	for _, p := range n.Params {
		name, _ := variableName(p.Var)
		t := a.typeExprOrMixed(p.Type)
		params[name] = t
		callableParams = append(callableParams, types.CallableParam{Type: t, ByRef: p.ByRef, Variadic: p.Variadic})
	}
	inner := NewFunctionContext(a.store, a.fileID, params, ctx.Suppressed)
	ret := a.infer(inner, n.Body)
	return &types.Type{Kind: types.Callable, Params: callableParams, Return: ret}
}

// typeExprOrMixed/typeExprOrNil reuse the reflector's declared-type
// lowering logic is not reachable here (it's unexported to package
// reflector), so a closure/arrow-function parameter or return hint that
// isn't resolvable structurally falls back to mixed; this only affects
// type hints written directly on an inline function literal, which the
// scan phase's reflector never sees since closures aren't reflected
// symbols.
func (a *analysis) typeExprOrMixed(te *ast.TypeExpr) *types.Type {
	if t := a.typeExprOrNil(te); t != nil {
		return t
	}
	return types.MixedT
}

func (a *analysis) typeExprOrNil(te *ast.TypeExpr) *types.Type {
	if te == nil {
		return nil
	}
	simple, ok := te.Type.(*ast.SimpleType)
	if !ok {
		return nil
	}
	base := primitiveByName(simple.Name)
	if base == nil {
		if res, ok := a.table.SimpleType(simple); ok {
			base = types.ObjectT(res.Name)
		} else {
			base = types.ObjectT(simple.Name)
		}
	}
	if te.Nullable {
		return types.Union(types.NullT, base)
	}
	return base
}

func primitiveByName(name string) *types.Type {
	switch lowerASCIIName(name) {
	case "int":
		return types.IntT
	case "float":
		return types.FloatT
	case "string":
		return types.StringT
	case "bool":
		return types.BoolT
	case "array":
		return types.ObjectT("array", types.MixedT, types.MixedT)
	case "mixed":
		return types.MixedT
	case "void", "null":
		return types.NullT
	case "never":
		return types.NeverT
	case "object":
		return types.ObjectT("object")
	case "callable":
		return &types.Type{Kind: types.Callable, Return: types.MixedT}
	default:
		return nil
	}
}

func (a *analysis) inferYield(ctx *Context, n *ast.YieldExpr) *types.Type {
	ctx.IsGenerator = true
	var keyType *types.Type
	if n.Key != nil {
		keyType = a.infer(ctx, n.Key)
	} else {
		keyType = types.IntT
	}
	valueType := types.NullT
	if n.Value != nil {
		valueType = a.infer(ctx, n.Value)
	}
	if ctx.YieldKeyUnion == nil {
		ctx.YieldKeyUnion = keyType
	} else {
		ctx.YieldKeyUnion = types.Union(ctx.YieldKeyUnion, keyType)
	}
	if ctx.YieldValueUnion == nil {
		ctx.YieldValueUnion = valueType
	} else {
		ctx.YieldValueUnion = types.Union(ctx.YieldValueUnion, valueType)
	}
	return types.MixedT
}

func (a *analysis) inferThrow(ctx *Context, e ast.Expr) {
	thrownType := a.infer(ctx, e)
	for i := len(ctx.Tries) - 1; i >= 0; i-- {
		for _, catchType := range ctx.Tries[i].CatchTypes {
			if types.IsSubtype(thrownType, catchType) != types.No {
				return
			}
		}
	}
	a.checkUnhandledThrow(ctx, e, thrownType)
}

// checkUnhandledThrow reports a throw that no enclosing catch clause
// accepts. The enclosing function's @throws declarations are not
// consulted.
func (a *analysis) checkUnhandledThrow(ctx *Context, e ast.Expr, thrownType *types.Type) {
	if thrownType.IsMixed() {
		return
	}
	a.reportUnless(ctx, issue.New(issue.UnhandledThrownType, nodeSpan(a.fileID, e),
		"thrown type "+thrownType.String()+" is not caught by any enclosing try").WithSeverity(issue.Warning))
}
