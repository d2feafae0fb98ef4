package analyzer

import (
	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/token"
	"github.com/mago-php/mago-core/types"
)

// branchAssertion is one narrowing to apply to a single variable on a
// condition's true or false outcome (spec's Context "Assertions: pending
// narrowings to apply on the true/false branch of the current condition").
type branchAssertion struct {
	Variable string
	True     *types.Assertion
	False    *types.Assertion
}

// deriveAssertions inspects a condition expression and returns the
// narrowings it implies for each branch. Only a fixed set of recognizable
// shapes produce an assertion (instanceof, is_*() calls, ==/===/!=/!==
// comparisons against null, isset() of one variable, a bare variable's
// truthiness, and `!`/parentheses around any of these); anything else
// yields no narrowing, which is always sound, just imprecise.
func (a *analysis) deriveAssertions(cond ast.Expr) []branchAssertion {
	switch e := cond.(type) {
	case *ast.InstanceofExpr:
		if v, ok := variableName(e.Expr); ok {
			if cls, ok := e.Class.(*ast.Ident); ok {
				t := types.ObjectT(resolvedClassName(a.table, cls))
				return []branchAssertion{{
					Variable: v,
					True:     &types.Assertion{Kind: types.AssertIsType, Operand: t},
					False:    &types.Assertion{Kind: types.AssertIsNotType, Operand: t},
				}}
			}
		}
	case *ast.UnaryExpr:
		if e.Op == token.EXCLAMATION {
			inner := a.deriveAssertions(e.X)
			out := make([]branchAssertion, len(inner))
			for i, ia := range inner {
				out[i] = branchAssertion{Variable: ia.Variable, True: ia.False, False: ia.True}
			}
			return out
		}
	case *ast.ParenExpr:
		return a.deriveAssertions(e.X)
	case *ast.IssetExpr:
		if len(e.Vars) == 1 {
			if v, ok := variableName(e.Vars[0]); ok {
				return []branchAssertion{{
					Variable: v,
					True:     &types.Assertion{Kind: types.AssertIsNotType, Operand: types.NullT},
					False:    &types.Assertion{Kind: types.AssertIsType, Operand: types.NullT},
				}}
			}
		}
	case *ast.BinaryExpr:
		return a.deriveBinaryAssertions(e)
	case *ast.CallExpr:
		return a.deriveCallAssertions(e)
	case *ast.Variable:
		if v, ok := variableName(e); ok {
			return []branchAssertion{{
				Variable: v,
				True:     &types.Assertion{Kind: types.AssertTruthy},
				False:    &types.Assertion{Kind: types.AssertFalsy},
			}}
		}
	}
	return nil
}

func (a *analysis) deriveBinaryAssertions(e *ast.BinaryExpr) []branchAssertion {
	var varSide ast.Expr
	var litSide ast.Expr
	if _, ok := variableName(e.Left); ok {
		varSide, litSide = e.Left, e.Right
	} else if _, ok := variableName(e.Right); ok {
		varSide, litSide = e.Right, e.Left
	} else {
		return nil
	}
	v, _ := variableName(varSide)

	isNullLit := isNullLiteral(litSide)

	switch e.Op {
	case token.T_IS_IDENTICAL, token.T_IS_EQUAL:
		if isNullLit {
			return []branchAssertion{{
				Variable: v,
				True:     &types.Assertion{Kind: types.AssertIsType, Operand: types.NullT},
				False:    &types.Assertion{Kind: types.AssertIsNotType, Operand: types.NullT},
			}}
		}
	case token.T_IS_NOT_IDENTICAL, token.T_IS_NOT_EQUAL:
		if isNullLit {
			return []branchAssertion{{
				Variable: v,
				True:     &types.Assertion{Kind: types.AssertIsNotType, Operand: types.NullT},
				False:    &types.Assertion{Kind: types.AssertIsType, Operand: types.NullT},
			}}
		}
	}
	return nil
}

// deriveCallAssertions recognizes the `is_*($x)` family of builtin type
// guards, grounded on the same builtin name catalog reflector.Seed uses.
func (a *analysis) deriveCallAssertions(e *ast.CallExpr) []branchAssertion {
	id, ok := e.Func.(*ast.Ident)
	if !ok || e.Args == nil || len(e.Args.Args) != 1 {
		return nil
	}
	v, ok := variableName(e.Args.Args[0].Value)
	if !ok {
		return nil
	}
	var target *types.Type
	switch id.Name {
	case "is_null":
		target = types.NullT
	case "is_int", "is_integer", "is_long":
		target = types.IntT
	case "is_float", "is_double":
		target = types.FloatT
	case "is_string":
		target = types.StringT
	case "is_bool":
		target = types.BoolT
	case "is_array":
		target = types.ObjectT("array", types.MixedT, types.MixedT)
	case "is_object":
		target = types.ObjectT("object")
	default:
		return nil
	}
	return []branchAssertion{{
		Variable: v,
		True:     &types.Assertion{Kind: types.AssertIsType, Operand: target},
		False:    &types.Assertion{Kind: types.AssertIsNotType, Operand: target},
	}}
}

func isNullLiteral(e ast.Expr) bool {
	id, ok := e.(*ast.Ident)
	return ok && lowerASCIIName(id.Name) == "null"
}

func lowerASCIIName(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}

// variableName extracts a simple `$name` variable's name, failing for
// ${expr} and every non-variable expression.
func variableName(e ast.Expr) (string, bool) {
	v, ok := e.(*ast.Variable)
	if !ok {
		return "", false
	}
	id, ok := v.Name.(*ast.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}

// applyAssertions narrows every variable named in assertions within ctx,
// using whichever of True/False corresponds to takeTrue.
func applyAssertions(ctx *Context, assertions []branchAssertion, takeTrue bool) {
	for _, ba := range assertions {
		var want *types.Assertion
		if takeTrue {
			want = ba.True
		} else {
			want = ba.False
		}
		if want == nil {
			continue
		}
		cur, ok := ctx.Get(ba.Variable)
		if !ok {
			continue
		}
		ctx.Assign(ba.Variable, types.Narrow(cur, *want))
	}
}
