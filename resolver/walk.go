package resolver

import (
	"strings"

	"github.com/mago-php/mago-core/ast"
)

func (r *resolveRun) stmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.stmt(s)
	}
}

func (r *resolveRun) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case nil, *ast.BadStmt, *ast.EmptyStmt, *ast.LabelStmt, *ast.GotoStmt,
		*ast.InlineHTMLStmt, *ast.HaltCompilerStmt:
		return
	case *ast.ExprStmt:
		r.expr(n.Expr)
	case *ast.BlockStmt:
		r.stmts(n.Stmts)
	case *ast.IfStmt:
		r.expr(n.Cond)
		r.stmt(n.Body)
		for _, ei := range n.ElseIfs {
			r.expr(ei.Cond)
			r.stmt(ei.Body)
		}
		if n.Else != nil {
			r.stmt(n.Else.Body)
		}
	case *ast.SwitchStmt:
		r.expr(n.Cond)
		for _, c := range n.Cases {
			r.expr(c.Cond)
			r.stmts(c.Stmts)
		}
	case *ast.WhileStmt:
		r.expr(n.Cond)
		r.stmt(n.Body)
	case *ast.DoWhileStmt:
		r.stmt(n.Body)
		r.expr(n.Cond)
	case *ast.ForStmt:
		r.exprs(n.Init)
		r.exprs(n.Cond)
		r.exprs(n.Loop)
		r.stmt(n.Body)
	case *ast.ForeachStmt:
		r.expr(n.Expr)
		r.expr(n.KeyVar)
		r.expr(n.ValueVar)
		r.stmt(n.Body)
	case *ast.BreakStmt:
		r.expr(n.Num)
	case *ast.ContinueStmt:
		r.expr(n.Num)
	case *ast.ReturnStmt:
		r.expr(n.Result)
	case *ast.TryStmt:
		r.stmt(n.Body)
		for _, c := range n.Catches {
			for _, t := range c.Types {
				r.classLikeRef(t)
			}
			r.stmt(c.Body)
		}
		if n.Finally != nil {
			r.stmt(n.Finally.Body)
		}
	case *ast.ThrowStmt:
		r.expr(n.Expr)
	case *ast.EchoStmt:
		r.exprs(n.Exprs)
	case *ast.GlobalStmt:
		for _, v := range n.Vars {
			r.expr(v)
		}
	case *ast.StaticVarStmt:
		for _, v := range n.Vars {
			r.expr(v.Default)
		}
	case *ast.UnsetStmt:
		r.exprs(n.Vars)
	case *ast.DeclareStmt:
		for _, d := range n.Directives {
			r.expr(d.Value)
		}
		r.stmt(n.Body)

	case *ast.NamespaceDecl:
		name := ""
		if n.Name != nil {
			if id, ok := n.Name.(*ast.Ident); ok {
				name = id.Name
			}
		}
		r.scope.enterNamespace(name)
		if n.Bracketed {
			r.stmts(n.Stmts)
		}
	case *ast.UseDecl:
		r.useDecl(n)
	case *ast.ConstDecl:
		for _, c := range n.Consts {
			r.expr(c.Value)
		}
	case *ast.FunctionDecl:
		r.params(n.Params)
		r.typeExpr(n.ReturnType)
		if n.Body != nil {
			r.stmt(n.Body)
		}
	case *ast.ClassDecl:
		if n.Extends != nil {
			r.classLikeRef(n.Extends)
		}
		for _, i := range n.Implements {
			r.classLikeRef(i)
		}
		r.classMembers(n.Members)
	case *ast.InterfaceDecl:
		for _, e := range n.Extends {
			r.classLikeRef(e)
		}
		r.classMembers(n.Members)
	case *ast.TraitDecl:
		r.classMembers(n.Members)
	case *ast.EnumDecl:
		r.typeExpr(n.BackingType)
		for _, i := range n.Implements {
			r.classLikeRef(i)
		}
		r.classMembers(n.Members)
	}
}

func (r *resolveRun) useDecl(n *ast.UseDecl) {
	groupKind := kindFromUseToken(n.Type)
	for _, clause := range n.Uses {
		kind := groupKind
		if clause.Type != 0 {
			kind = kindFromUseToken(clause.Type)
		}
		id, ok := clause.Name.(*ast.Ident)
		if !ok {
			continue
		}
		target := strings.TrimPrefix(id.Name, "\\")
		alias := lastSegment(target)
		if clause.Alias != nil {
			alias = clause.Alias.Name
		}
		r.scope.addAlias(kind, alias, target)
	}
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (r *resolveRun) classMembers(members []ast.ClassMember) {
	for _, m := range members {
		switch mem := m.(type) {
		case *ast.PropertyDecl:
			r.typeExpr(mem.Type)
			for _, p := range mem.Props {
				r.expr(p.Default)
			}
		case *ast.MethodDecl:
			r.params(mem.Params)
			r.typeExpr(mem.ReturnType)
			if mem.Body != nil {
				r.stmt(mem.Body)
			}
		case *ast.ClassConstDecl:
			for _, c := range mem.Consts {
				r.expr(c.Value)
			}
		case *ast.TraitUseDecl:
			for _, t := range mem.Traits {
				r.classLikeRef(t)
			}
			for _, a := range mem.Adaptations {
				if a.Trait != nil {
					r.classLikeRef(a.Trait)
				}
				for _, i := range a.Insteadof {
					r.classLikeRef(i)
				}
			}
		case *ast.EnumCaseDecl:
			r.expr(mem.Value)
		}
	}
}

func (r *resolveRun) params(params []*ast.Parameter) {
	for _, p := range params {
		r.typeExpr(p.Type)
		r.expr(p.Default)
	}
}

// classLikeRef records e as a ClassLike name reference when it's a plain
// name (the common case); anything else (e.g. a dynamic `new ($expr)`) is
// not a static name reference and is instead walked as an expression.
func (r *resolveRun) classLikeRef(e ast.Expr) {
	if e == nil {
		return
	}
	if id, ok := e.(*ast.Ident); ok {
		r.record(id, id.Name, ClassLike)
		return
	}
	r.expr(e)
}

func (r *resolveRun) typeExpr(t *ast.TypeExpr) {
	if t == nil {
		return
	}
	r.typeNode(t.Type)
}

func (r *resolveRun) typeNode(t ast.Type) {
	switch n := t.(type) {
	case nil:
		return
	case *ast.SimpleType:
		if isReservedClassName(n.Name) {
			return
		}
		r.record(n, n.Name, ClassLike)
	case *ast.UnionType:
		for _, sub := range n.Types {
			r.typeNode(sub)
		}
	case *ast.IntersectionType:
		for _, sub := range n.Types {
			r.typeNode(sub)
		}
	}
}

func (r *resolveRun) exprs(exprs []ast.Expr) {
	for _, e := range exprs {
		r.expr(e)
	}
}

// expr walks an expression subtree, recording every class/function/constant
// name reference it finds. A bare *ast.Ident reached here (not consumed by
// one of the special-cased parents below) denotes a constant fetch — PHP
// has no other expression-position use for a lone identifier.
func (r *resolveRun) expr(e ast.Expr) {
	switch n := e.(type) {
	case nil, *ast.BadExpr, *ast.Literal, *ast.Variable, *ast.MagicConstExpr:
		return
	case *ast.Ident:
		r.record(n, n.Name, Constant)
	case *ast.ArrayExpr:
		for _, item := range n.Items {
			r.expr(item.Key)
			r.expr(item.Value)
		}
	case *ast.BinaryExpr:
		r.expr(n.Left)
		r.expr(n.Right)
	case *ast.UnaryExpr:
		r.expr(n.X)
	case *ast.PostfixExpr:
		r.expr(n.X)
	case *ast.TernaryExpr:
		r.expr(n.Cond)
		r.expr(n.Then)
		r.expr(n.Else)
	case *ast.CoalesceExpr:
		r.expr(n.Left)
		r.expr(n.Right)
	case *ast.InstanceofExpr:
		r.expr(n.Expr)
		r.classLikeRef(n.Class)
	case *ast.CastExpr:
		r.expr(n.X)
	case *ast.CloneExpr:
		r.expr(n.Expr)
	case *ast.NewExpr:
		r.classLikeRef(n.Class)
		r.args(n.Args)
	case *ast.CallExpr:
		if id, ok := n.Func.(*ast.Ident); ok {
			r.record(id, id.Name, Function)
		} else {
			r.expr(n.Func)
		}
		r.args(n.Args)
	case *ast.MethodCallExpr:
		r.expr(n.Object)
		if _, ok := n.Method.(*ast.Ident); !ok {
			r.expr(n.Method)
		}
		r.args(n.Args)
	case *ast.StaticCallExpr:
		r.classLikeRef(n.Class)
		if _, ok := n.Method.(*ast.Ident); !ok {
			r.expr(n.Method)
		}
		r.args(n.Args)
	case *ast.PropertyFetchExpr:
		r.expr(n.Object)
		if _, ok := n.Property.(*ast.Ident); !ok {
			r.expr(n.Property)
		}
	case *ast.StaticPropertyFetchExpr:
		r.classLikeRef(n.Class)
		r.expr(n.Property)
	case *ast.ClassConstFetchExpr:
		r.classLikeRef(n.Class)
	case *ast.ArrayAccessExpr:
		r.expr(n.Array)
		r.expr(n.Index)
	case *ast.EncapsedStringExpr:
		r.exprs(n.Parts)
	case *ast.HeredocExpr:
		r.exprs(n.Parts)
	case *ast.ClosureExpr:
		r.params(n.Params)
		r.typeExpr(n.ReturnType)
		r.stmt(n.Body)
	case *ast.ArrowFuncExpr:
		r.params(n.Params)
		r.typeExpr(n.ReturnType)
		r.expr(n.Body)
	case *ast.YieldExpr:
		r.expr(n.Key)
		r.expr(n.Value)
	case *ast.YieldFromExpr:
		r.expr(n.Expr)
	case *ast.ThrowExpr:
		r.expr(n.Expr)
	case *ast.PrintExpr:
		r.expr(n.Expr)
	case *ast.IncludeExpr:
		r.expr(n.Expr)
	case *ast.IssetExpr:
		r.exprs(n.Vars)
	case *ast.EmptyExpr:
		r.expr(n.Expr)
	case *ast.EvalExpr:
		r.expr(n.Expr)
	case *ast.ExitExpr:
		r.expr(n.Expr)
	case *ast.ListExpr:
		for _, item := range n.Items {
			r.expr(item.Key)
			r.expr(item.Value)
		}
	case *ast.MatchExpr:
		r.expr(n.Cond)
		for _, arm := range n.Arms {
			r.exprs(arm.Conds)
			r.expr(arm.Body)
		}
	case *ast.AssignExpr:
		r.expr(n.Var)
		r.expr(n.Value)
	case *ast.AssignRefExpr:
		r.expr(n.Var)
		r.expr(n.Value)
	case *ast.ErrorSuppressExpr:
		r.expr(n.Expr)
	case *ast.ShellExecExpr:
		r.exprs(n.Parts)
	case *ast.ParenExpr:
		r.expr(n.X)
	}
}

func (r *resolveRun) args(args *ast.ArgumentList) {
	if args == nil {
		return
	}
	for _, a := range args.Args {
		r.expr(a.Value)
	}
}
