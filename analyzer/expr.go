package analyzer

import (
	"strconv"

	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/resolver"
	"github.com/mago-php/mago-core/token"
	"github.com/mago-php/mago-core/types"
)

// infer computes the semantic type of e, mutating ctx for every
// expression kind that has a side effect on variable bindings (spec
// §4.7's per-expression-kind obligations). It always returns a non-nil
// type; expressions whose shape isn't modeled precisely fall back to
// mixed rather than panicking or reporting a spurious diagnostic.
func (a *analysis) infer(ctx *Context, e ast.Expr) *types.Type {
	t := a.inferExpr(ctx, e)
	if a.trace != nil {
		a.trace.record(nodeSpan(a.fileID, e), t.String())
	}
	return t
}

func (a *analysis) inferExpr(ctx *Context, e ast.Expr) *types.Type {
	switch n := e.(type) {
	case *ast.Literal:
		return a.literalType(n)
	case *ast.Ident:
		return a.identConstType(n)
	case *ast.Variable:
		return a.inferVariable(ctx, n)
	case *ast.ParenExpr:
		return a.infer(ctx, n.X)
	case *ast.ArrayExpr:
		return a.inferArrayExpr(ctx, n)
	case *ast.BinaryExpr:
		return a.inferBinary(ctx, n)
	case *ast.UnaryExpr:
		return a.inferUnary(ctx, n)
	case *ast.PostfixExpr:
		return a.inferPostfix(ctx, n)
	case *ast.AssignExpr:
		return a.inferAssign(ctx, n)
	case *ast.AssignRefExpr:
		return a.inferAssignRef(ctx, n)
	case *ast.CoalesceExpr:
		return a.inferCoalesce(ctx, n)
	case *ast.TernaryExpr:
		return a.inferTernary(ctx, n)
	case *ast.InstanceofExpr:
		a.infer(ctx, n.Expr)
		return types.BoolT
	case *ast.CastExpr:
		a.infer(ctx, n.X)
		return castResultType(n.Type)
	case *ast.CloneExpr:
		return a.infer(ctx, n.Expr)
	case *ast.NewExpr:
		return a.inferNew(ctx, n)
	case *ast.CallExpr:
		return a.inferCall(ctx, n)
	case *ast.MethodCallExpr:
		return a.inferMethodCall(ctx, n)
	case *ast.StaticCallExpr:
		return a.inferStaticCall(ctx, n)
	case *ast.PropertyFetchExpr:
		return a.inferPropertyFetch(ctx, n)
	case *ast.StaticPropertyFetchExpr:
		a.infer(ctx, n.Class)
		return types.MixedT
	case *ast.ClassConstFetchExpr:
		return a.inferClassConstFetch(ctx, n)
	case *ast.ArrayAccessExpr:
		return a.inferArrayAccess(ctx, n)
	case *ast.EncapsedStringExpr:
		for _, p := range n.Parts {
			a.infer(ctx, p)
		}
		return types.StringT
	case *ast.HeredocExpr:
		for _, p := range n.Parts {
			a.infer(ctx, p)
		}
		return types.StringT
	case *ast.ClosureExpr:
		return a.inferClosure(ctx, n)
	case *ast.ArrowFuncExpr:
		return a.inferArrowFunc(ctx, n)
	case *ast.YieldExpr:
		return a.inferYield(ctx, n)
	case *ast.YieldFromExpr:
		ctx.IsGenerator = true
		a.infer(ctx, n.Expr)
		return types.MixedT
	case *ast.ThrowExpr:
		a.inferThrow(ctx, n.Expr)
		return types.NeverT
	case *ast.MatchExpr:
		return a.inferMatch(ctx, n)
	case *ast.IssetExpr:
		for _, v := range n.Vars {
			a.infer(ctx, v)
		}
		return types.BoolT
	case *ast.EmptyExpr:
		a.infer(ctx, n.Expr)
		return types.BoolT
	case *ast.ErrorSuppressExpr:
		return a.infer(ctx, n.Expr)
	case *ast.ListExpr:
		return types.MixedT
	case *ast.PrintExpr:
		a.infer(ctx, n.Expr)
		return types.LiteralIntT(1)
	case *ast.MagicConstExpr:
		return types.StringT
	case *ast.ExitExpr:
		if n.Expr != nil {
			a.infer(ctx, n.Expr)
		}
		return types.NeverT
	default:
		return types.MixedT
	}
}

func (a *analysis) literalType(lit *ast.Literal) *types.Type {
	switch lit.Kind {
	case token.T_LNUMBER:
		if v, err := strconv.ParseInt(lit.Value, 0, 64); err == nil {
			return types.LiteralIntT(v)
		}
		return types.IntT
	case token.T_DNUMBER:
		return types.FloatT
	case token.T_CONSTANT_ENCAPSED_STRING:
		return types.LiteralStringT(unquoteLit(lit.Value))
	default:
		return types.MixedT
	}
}

func unquoteLit(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// identConstType handles bare identifiers used as expressions: the
// true/false/null literals and global constant references.
func (a *analysis) identConstType(id *ast.Ident) *types.Type {
	switch lowerASCIIName(id.Name) {
	case "true":
		return types.TrueT
	case "false":
		return types.FalseT
	case "null":
		return types.NullT
	}
	name := id.Name
	if res, ok := a.table.Ident(id); ok {
		name = res.Name
	}
	if c, ok := a.store.Constant(name); ok {
		return c.Type
	}
	return types.MixedT
}

func (a *analysis) inferVariable(ctx *Context, v *ast.Variable) *types.Type {
	name, ok := variableName(v)
	if !ok {
		if e, isExpr := v.Name.(ast.Expr); isExpr {
			a.infer(ctx, e)
		}
		return types.MixedT
	}
	if name == "this" {
		if t, ok := ctx.Get("this"); ok {
			return t
		}
		return types.MixedT
	}
	t, ok := ctx.Get(name)
	if !ok {
		a.reportUnless(ctx, issue.New(issue.UndefinedVariable, nodeSpan(a.fileID, v),
			"variable $"+name+" is possibly undefined").WithSeverity(issue.Warning))
		return types.MixedT
	}
	return t
}

func (a *analysis) inferArrayExpr(ctx *Context, n *ast.ArrayExpr) *types.Type {
	fields := make([]types.ShapeField, 0, len(n.Items))
	allSequential := true
	nextIdx := int64(0)
	for _, item := range n.Items {
		valType := types.MixedT
		if item.Value != nil {
			valType = a.infer(ctx, item.Value)
		}
		if item.Key == nil {
			fields = append(fields, types.ShapeField{Key: strconv.FormatInt(nextIdx, 10), KeyIsInt: true, Value: valType})
			nextIdx++
			continue
		}
		allSequential = false
		a.infer(ctx, item.Key)
		fields = append(fields, types.ShapeField{Key: "", KeyIsInt: false, Value: valType})
	}
	if allSequential && len(fields) <= ctx.Cfg.ShapeSizeCap {
		kind := types.ListShape
		return &types.Type{Kind: kind, Fields: fields, Sealed: true}
	}
	return &types.Type{Kind: types.ArrayShape, Fields: fields, Rest: types.MixedT, Sealed: false}
}

func castResultType(tok token.Token) *types.Type {
	switch tok {
	case token.T_INT_CAST:
		return types.IntT
	case token.T_DOUBLE_CAST:
		return types.FloatT
	case token.T_STRING_CAST:
		return types.StringT
	case token.T_BOOL_CAST:
		return types.BoolT
	case token.T_ARRAY_CAST:
		return types.ObjectT("array", types.MixedT, types.MixedT)
	case token.T_OBJECT_CAST:
		return types.ObjectT("object")
	default:
		return types.MixedT
	}
}

// resolvedClassName resolves e (expected to be an *ast.Ident naming a
// class-like) through table, falling back to the raw written name when
// the reference wasn't recorded (e.g. `static`/`self`/`parent`).
func resolvedClassName(table *resolver.Table, e ast.Expr) string {
	id, ok := e.(*ast.Ident)
	if !ok {
		return ""
	}
	if res, ok := table.Ident(id); ok {
		return res.Name
	}
	return id.Name
}
