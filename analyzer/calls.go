package analyzer

import (
	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/reflector"
	"github.com/mago-php/mago-core/source"
	"github.com/mago-php/mago-core/types"
)

func (a *analysis) inferNew(ctx *Context, n *ast.NewExpr) *types.Type {
	argTypes := a.inferArgs(ctx, n.Args)
	id, ok := n.Class.(*ast.Ident)
	if !ok {
		a.infer(ctx, n.Class)
		return types.MixedT
	}
	name := resolvedClassName(a.table, id)
	cl, ok := a.store.ClassLike(name)
	if !ok {
		a.reportUnless(ctx, issue.New(issue.UndefinedClass, nodeSpan(a.fileID, id),
			"class "+name+" is not defined"))
		return types.ObjectT(name)
	}
	if cl.Deprecated {
		a.reportUnless(ctx, issue.New(issue.DeprecatedClass, nodeSpan(a.fileID, id),
			"class "+name+" is deprecated").WithSeverity(issue.Warning))
	}
	if ctor, ok := cl.Methods["__construct"]; ok {
		a.checkArgs(ctx, ctor.Params, n.Args, argTypes, nodeSpan(a.fileID, n))
	}
	return types.ObjectT(name)
}

func (a *analysis) inferArgs(ctx *Context, args *ast.ArgumentList) []*types.Type {
	if args == nil {
		return nil
	}
	out := make([]*types.Type, 0, len(args.Args))
	for _, arg := range args.Args {
		out = append(out, a.infer(ctx, arg.Value))
	}
	return out
}

// checkArgs compares inferred positional argument types against params'
// declared types (spec's argument-list-shape obligations): too few/too
// many non-variadic, non-optional parameters, and a type mismatch per
// position. Named arguments and unpacking make positional correspondence
// undecidable without evaluating the call, so a call using either is only
// checked up to the point both lists still line up positionally.
func (a *analysis) checkArgs(ctx *Context, params []reflector.Param, args *ast.ArgumentList, argTypes []*types.Type, span source.Span) {
	positional := len(argTypes)
	if args != nil {
		for i, arg := range args.Args {
			if arg.Name != nil || arg.Unpack {
				positional = i
				break
			}
		}
	}
	variadic := len(params) > 0 && params[len(params)-1].Variadic
	required := 0
	for _, p := range params {
		if !p.Optional {
			required++
		}
	}
	if positional == len(argTypes) && len(argTypes) < required {
		a.reportUnless(ctx, issue.New(issue.TooFewArguments, span,
			"call is missing required arguments"))
	}
	if !variadic && positional > len(params) {
		a.reportUnless(ctx, issue.New(issue.TooManyArguments, span,
			"call passes more arguments than the signature accepts"))
	}
	for i, at := range argTypes[:positional] {
		var p *reflector.Param
		switch {
		case i < len(params) && !params[i].Variadic:
			p = &params[i]
		case variadic:
			p = &params[len(params)-1]
		default:
			continue
		}
		if p.Type == nil || p.Type.IsMixed() {
			continue
		}
		if at.IsMixed() {
			a.reportUnless(ctx, issue.New(issue.MixedArgument, span,
				"argument "+ordinal(i+1)+" could not be narrowed past mixed").WithSeverity(issue.Warning))
			continue
		}
		if types.IsSubtype(at, p.Type) == types.No {
			a.reportUnless(ctx, issue.New(issue.InvalidArgument, span,
				"argument "+ordinal(i+1)+" of type "+at.String()+" is not compatible with declared parameter type "+p.Type.String()))
		}
	}
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "#1"
	case 2:
		return "#2"
	case 3:
		return "#3"
	default:
		return "#" + itoa(n)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func (a *analysis) inferCall(ctx *Context, n *ast.CallExpr) *types.Type {
	argTypes := a.inferArgs(ctx, n.Args)
	id, ok := n.Func.(*ast.Ident)
	if !ok {
		a.infer(ctx, n.Func)
		return types.MixedT
	}
	name := id.Name
	if res, ok := a.table.Ident(id); ok {
		name = res.Name
	}
	fn, ok := a.store.Function(name)
	if !ok {
		a.reportUnless(ctx, issue.New(issue.UndefinedFunction, nodeSpan(a.fileID, id),
			"function "+name+" is not defined"))
		return types.MixedT
	}
	if fn.Deprecated {
		a.reportUnless(ctx, issue.New(issue.DeprecatedFunction, nodeSpan(a.fileID, id),
			"function "+name+" is deprecated").WithSeverity(issue.Warning))
	}
	a.checkArgs(ctx, fn.Params, n.Args, argTypes, nodeSpan(a.fileID, n))
	if fn.Return == nil {
		return types.MixedT
	}
	return fn.Return
}

// resolveObjectClass reports the concrete class-like a receiver
// expression's inferred type refers to, and whether the receiver's type
// admits null (for the possibly-null-access family of diagnostics).
func (a *analysis) resolveObjectClass(ctx *Context, receiver ast.Expr) (cl *reflector.ClassLike, maybeNull bool, recvType *types.Type) {
	recvType = a.infer(ctx, receiver)
	maybeNull = types.IsSubtype(types.NullT, recvType) == types.Yes
	for _, member := range unionMembers(recvType) {
		if member.Kind == types.Object {
			if c, ok := a.store.ClassLike(member.Name); ok {
				cl = c
			}
		}
	}
	return cl, maybeNull, recvType
}

func unionMembers(t *types.Type) []*types.Type {
	if t.Kind == types.Union {
		return t.Members
	}
	return []*types.Type{t}
}

func (a *analysis) inferMethodCall(ctx *Context, n *ast.MethodCallExpr) *types.Type {
	cl, maybeNull, recvType := a.resolveObjectClass(ctx, n.Object)
	argTypes := a.inferArgs(ctx, n.Args)
	methodID, _ := n.Method.(*ast.Ident)

	if maybeNull && !n.NullSafe {
		a.reportUnless(ctx, issue.New(issue.PossiblyNullMethodCall, nodeSpan(a.fileID, n.Object),
			"receiver of type "+recvType.String()+" may be null"))
	}
	if cl == nil || methodID == nil {
		return types.MixedT
	}
	_, method, ok := a.store.ResolveMember(cl, methodID.Name)
	if !ok || method == nil {
		a.reportUnless(ctx, issue.New(issue.UndefinedMethod, nodeSpan(a.fileID, methodID),
			"method "+cl.Name+"::"+methodID.Name+" is not defined"))
		return types.MixedT
	}
	a.checkArgs(ctx, method.Params, n.Args, argTypes, nodeSpan(a.fileID, n))
	if method.Return == nil {
		return types.MixedT
	}
	return method.Return
}

func (a *analysis) inferStaticCall(ctx *Context, n *ast.StaticCallExpr) *types.Type {
	argTypes := a.inferArgs(ctx, n.Args)
	className := resolvedClassName(a.table, n.Class)
	methodID, _ := n.Method.(*ast.Ident)
	cl, ok := a.store.ClassLike(className)
	if !ok || methodID == nil {
		return types.MixedT
	}
	_, method, ok := a.store.ResolveMember(cl, methodID.Name)
	if !ok || method == nil {
		a.reportUnless(ctx, issue.New(issue.UndefinedMethod, nodeSpan(a.fileID, methodID),
			"method "+cl.Name+"::"+methodID.Name+" is not defined"))
		return types.MixedT
	}
	a.checkArgs(ctx, method.Params, n.Args, argTypes, nodeSpan(a.fileID, n))
	if method.Return == nil {
		return types.MixedT
	}
	return method.Return
}

func (a *analysis) inferPropertyFetch(ctx *Context, n *ast.PropertyFetchExpr) *types.Type {
	cl, maybeNull, recvType := a.resolveObjectClass(ctx, n.Object)
	propID, _ := n.Property.(*ast.Ident)

	if maybeNull && !n.NullSafe {
		a.reportUnless(ctx, issue.New(issue.PossiblyNullPropertyAccess, nodeSpan(a.fileID, n.Object),
			"receiver of type "+recvType.String()+" may be null"))
	}
	if cl == nil || propID == nil {
		return types.MixedT
	}
	prop, _, ok := a.store.ResolveMember(cl, propID.Name)
	if !ok || prop == nil {
		a.reportUnless(ctx, issue.New(issue.UndefinedProperty, nodeSpan(a.fileID, propID),
			"property "+cl.Name+"::$"+propID.Name+" is not defined"))
		return types.MixedT
	}
	if prop.Type == nil {
		return types.MixedT
	}
	return prop.Type
}

func (a *analysis) inferClassConstFetch(ctx *Context, n *ast.ClassConstFetchExpr) *types.Type {
	className := resolvedClassName(a.table, n.Class)
	cl, ok := a.store.ClassLike(className)
	if !ok {
		return types.MixedT
	}
	if n.Const != nil && n.Const.Name == "class" {
		return types.LiteralStringT(cl.Name)
	}
	if cl.Kind == reflector.KindEnum && n.Const != nil {
		if _, hasCase := cl.Cases[n.Const.Name]; hasCase {
			return types.ObjectT(cl.Name)
		}
	}
	if n.Const == nil {
		return types.MixedT
	}
	cc, ok := cl.Constants[n.Const.Name]
	if !ok {
		a.reportUnless(ctx, issue.New(issue.UndefinedConstant, nodeSpan(a.fileID, n.Const),
			"constant "+cl.Name+"::"+n.Const.Name+" is not defined"))
		return types.MixedT
	}
	if cc.Type == nil {
		return types.MixedT
	}
	return cc.Type
}

func (a *analysis) inferArrayAccess(ctx *Context, n *ast.ArrayAccessExpr) *types.Type {
	base := a.infer(ctx, n.Array)
	var indexType *types.Type
	if n.Index != nil {
		indexType = a.infer(ctx, n.Index)
	}
	for _, member := range unionMembers(base) {
		switch member.Kind {
		case types.ArrayShape, types.ListShape:
			if lit, ok := literalKey(n.Index, indexType); ok {
				for _, f := range member.Fields {
					if f.Key == lit {
						return f.Value
					}
				}
			}
			if member.Rest != nil {
				return member.Rest
			}
			return types.MixedT
		case types.Object:
			if member.Name == "array" || member.Name == "list" {
				if len(member.Generics) > 0 {
					return member.Generics[len(member.Generics)-1]
				}
			}
		}
	}
	a.reportUnless(ctx, issue.New(issue.InvalidArrayAccess, nodeSpan(a.fileID, n.Array),
		"value of type "+base.String()+" cannot be accessed as an array").WithSeverity(issue.Warning))
	return types.MixedT
}

func literalKey(indexExpr ast.Expr, indexType *types.Type) (string, bool) {
	if indexType == nil {
		return "", false
	}
	switch indexType.Kind {
	case types.LiteralString:
		return indexType.StringValue, true
	case types.LiteralInt:
		return itoa(int(indexType.IntValue)), true
	}
	return "", false
}
