package analyzer

import (
	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/token"
	"github.com/mago-php/mago-core/types"
)

var numericOperand = types.UnionAll([]*types.Type{
	types.IntT, types.FloatT, types.NumericStringT, types.BoolT, types.NullT,
})

func (a *analysis) inferBinary(ctx *Context, n *ast.BinaryExpr) *types.Type {
	switch n.Op {
	case token.T_BOOLEAN_AND, token.T_LOGICAL_AND:
		assertions := a.deriveAssertions(n.Left)
		a.infer(ctx, n.Left)
		rctx := ctx.Clone()
		applyAssertions(rctx, assertions, true)
		a.infer(rctx, n.Right)
		return types.BoolT
	case token.T_BOOLEAN_OR, token.T_LOGICAL_OR:
		assertions := a.deriveAssertions(n.Left)
		a.infer(ctx, n.Left)
		rctx := ctx.Clone()
		applyAssertions(rctx, assertions, false)
		a.infer(rctx, n.Right)
		return types.BoolT
	}

	left := a.infer(ctx, n.Left)
	right := a.infer(ctx, n.Right)

	switch n.Op {
	case token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT, token.T_POW:
		a.checkNumericOperand(ctx, n.Left, left)
		a.checkNumericOperand(ctx, n.Right, right)
		if isFloaty(left) || isFloaty(right) {
			return types.FloatT
		}
		return types.UnionAll([]*types.Type{types.IntT, types.FloatT})
	case token.DOT:
		a.checkStringableOperand(ctx, n.Left, left)
		a.checkStringableOperand(ctx, n.Right, right)
		return types.StringT
	case token.T_IS_EQUAL, token.T_IS_NOT_EQUAL, token.T_IS_IDENTICAL, token.T_IS_NOT_IDENTICAL,
		token.LESS, token.GREATER, token.T_IS_SMALLER_OR_EQUAL, token.T_IS_GREATER_OR_EQUAL,
		token.T_SPACESHIP, token.T_LOGICAL_XOR:
		return types.BoolT
	case token.AMPERSAND, token.PIPE, token.CARET, token.T_SL, token.T_SR:
		return types.IntT
	default:
		return types.MixedT
	}
}

func isFloaty(t *types.Type) bool {
	return types.IsSubtype(t, types.FloatT) == types.Yes
}

func (a *analysis) checkNumericOperand(ctx *Context, e ast.Expr, t *types.Type) {
	if t.IsMixed() {
		a.reportUnless(ctx, issue.New(issue.MixedOperand, nodeSpan(a.fileID, e),
			"operand type could not be narrowed past mixed").WithSeverity(issue.Warning))
		return
	}
	if types.IsSubtype(t, numericOperand) == types.No {
		a.reportUnless(ctx, issue.New(issue.InvalidBinaryOperand, nodeSpan(a.fileID, e),
			"operand of type "+t.String()+" cannot be used in an arithmetic expression"))
	}
}

func (a *analysis) checkStringableOperand(ctx *Context, e ast.Expr, t *types.Type) {
	if t.IsMixed() {
		a.reportUnless(ctx, issue.New(issue.MixedOperand, nodeSpan(a.fileID, e),
			"operand type could not be narrowed past mixed").WithSeverity(issue.Warning))
		return
	}
	if t.Kind == types.Object || (t.Kind == types.ArrayShape || t.Kind == types.ListShape) {
		a.reportUnless(ctx, issue.New(issue.InvalidBinaryOperand, nodeSpan(a.fileID, e),
			"operand of type "+t.String()+" cannot be converted to string"))
	}
}

func (a *analysis) inferUnary(ctx *Context, n *ast.UnaryExpr) *types.Type {
	t := a.infer(ctx, n.X)
	switch n.Op {
	case token.EXCLAMATION:
		return types.BoolT
	case token.TILDE:
		return types.IntT
	case token.MINUS, token.PLUS:
		a.checkNumericOperand(ctx, n.X, t)
		if isFloaty(t) {
			return types.FloatT
		}
		return types.UnionAll([]*types.Type{types.IntT, types.FloatT})
	default:
		return t
	}
}

func (a *analysis) inferPostfix(ctx *Context, n *ast.PostfixExpr) *types.Type {
	t := a.infer(ctx, n.X)
	if name, ok := variableName(n.X); ok {
		result := types.UnionAll([]*types.Type{types.IntT, types.FloatT})
		ctx.Assign(name, result)
		return t
	}
	return t
}

func (a *analysis) inferAssign(ctx *Context, n *ast.AssignExpr) *types.Type {
	var value *types.Type
	if n.Op == token.EQUALS {
		value = a.infer(ctx, n.Value)
	} else {
		value = a.inferCompoundAssign(ctx, n)
	}
	a.bindAssignTarget(ctx, n.Var, value)
	return value
}

// inferCompoundAssign computes the result of `$x op= value` by
// synthesizing the equivalent BinaryExpr and reusing inferBinary, so the
// operator-specific operand checks are never duplicated.
func (a *analysis) inferCompoundAssign(ctx *Context, n *ast.AssignExpr) *types.Type {
	op := compoundBinaryOp(n.Op)
	synthetic := &ast.BinaryExpr{Left: n.Var, Op: op, Right: n.Value}
	return a.inferBinary(ctx, synthetic)
}

func compoundBinaryOp(op token.Token) token.Token {
	switch op {
	case token.T_PLUS_EQUAL:
		return token.PLUS
	case token.T_MINUS_EQUAL:
		return token.MINUS
	case token.T_MUL_EQUAL:
		return token.ASTERISK
	case token.T_DIV_EQUAL:
		return token.SLASH
	case token.T_MOD_EQUAL:
		return token.PERCENT
	case token.T_CONCAT_EQUAL:
		return token.DOT
	case token.T_POW_EQUAL:
		return token.T_POW
	case token.T_SL_EQUAL:
		return token.T_SL
	case token.T_SR_EQUAL:
		return token.T_SR
	default:
		return token.PIPE
	}
}

// bindAssignTarget applies the assignment's effect on ctx: a simple
// variable target rebinds it, a property/array target is analyzed for
// its own diagnostics but does not introduce a new variable binding.
func (a *analysis) bindAssignTarget(ctx *Context, target ast.Expr, value *types.Type) {
	switch t := target.(type) {
	case *ast.Variable:
		if name, ok := variableName(t); ok {
			v, exists := ctx.Variables[name]
			constrained := exists && v.RefTarget != ""
			if constrained && types.IsSubtype(value, v.RefDeclaredType) == types.No {
				a.reportUnless(ctx, issue.New(issue.InvalidReferenceAssignment, nodeSpan(a.fileID, target),
					"assigned value is not compatible with the referenced storage's declared type "+v.RefDeclaredType.String()))
			}
			ctx.Assign(name, value)
			if constrained {
				bound := ctx.Variables[name]
				bound.RefTarget, bound.RefDeclaredType = v.RefTarget, v.RefDeclaredType
			}
		}
	case *ast.ArrayAccessExpr:
		a.infer(ctx, t.Array)
		if t.Index != nil {
			a.infer(ctx, t.Index)
		}
	case *ast.PropertyFetchExpr:
		a.infer(ctx, t.Object)
	case *ast.ListExpr:
		for _, item := range t.Items {
			if item.Value != nil {
				a.bindAssignTarget(ctx, item.Value, types.MixedT)
			}
		}
	default:
		a.infer(ctx, target)
	}
}

func (a *analysis) inferAssignRef(ctx *Context, n *ast.AssignRefExpr) *types.Type {
	valueType := a.infer(ctx, n.Value)
	name, okName := variableName(n.Var)
	target, okTarget := variableName(n.Value)
	if !okName {
		return valueType
	}
	if !okTarget {
		a.reportUnless(ctx, issue.New(issue.ReferenceToNonReferencableExpression, nodeSpan(a.fileID, n.Value),
			"right-hand side of a reference assignment must be a referenceable storage location"))
		ctx.Assign(name, valueType)
		return valueType
	}
	ctx.AssignRef(name, target, valueType)
	return valueType
}

func (a *analysis) inferCoalesce(ctx *Context, n *ast.CoalesceExpr) *types.Type {
	left := a.inferSilencingUndefined(ctx, n.Left)
	right := a.infer(ctx, n.Right)
	nonNullLeft := types.Narrow(left, types.Assertion{Kind: types.AssertIsNotType, Operand: types.NullT})
	return types.Union(nonNullLeft, right)
}

// inferSilencingUndefined infers e the same way infer does, except a bare
// undefined-variable read is expected (`$x ?? default`) and not reported.
func (a *analysis) inferSilencingUndefined(ctx *Context, e ast.Expr) *types.Type {
	if v, ok := e.(*ast.Variable); ok {
		if name, ok := variableName(v); ok {
			if t, bound := ctx.Get(name); bound {
				return t
			}
			return types.MixedT
		}
	}
	return a.infer(ctx, e)
}

func (a *analysis) inferTernary(ctx *Context, n *ast.TernaryExpr) *types.Type {
	assertions := a.deriveAssertions(n.Cond)
	condType := a.infer(ctx, n.Cond)

	if n.Then == nil {
		// Elvis operator: cond ?: else.
		elseCtx := ctx.Clone()
		applyAssertions(elseCtx, assertions, false)
		elseType := a.infer(elseCtx, n.Else)
		truthy := types.Narrow(condType, types.Assertion{Kind: types.AssertTruthy})
		return types.Union(truthy, elseType)
	}

	thenCtx := ctx.Clone()
	applyAssertions(thenCtx, assertions, true)
	thenType := a.infer(thenCtx, n.Then)

	elseCtx := ctx.Clone()
	applyAssertions(elseCtx, assertions, false)
	elseType := a.infer(elseCtx, n.Else)

	merged := MergeBranches([]*Context{thenCtx, elseCtx})
	*ctx = *merged
	return types.Union(thenType, elseType)
}

func (a *analysis) inferMatch(ctx *Context, n *ast.MatchExpr) *types.Type {
	a.infer(ctx, n.Cond)
	var result *types.Type
	branches := make([]*Context, 0, len(n.Arms))
	for _, arm := range n.Arms {
		armCtx := ctx.Clone()
		for _, c := range arm.Conds {
			a.infer(armCtx, c)
		}
		t := a.infer(armCtx, arm.Body)
		branches = append(branches, armCtx)
		if result == nil {
			result = t
		} else {
			result = types.Union(result, t)
		}
	}
	if len(branches) > 0 {
		*ctx = *MergeBranches(branches)
	}
	if result == nil {
		return types.NeverT
	}
	return result
}
