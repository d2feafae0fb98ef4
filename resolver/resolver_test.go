package resolver

import (
	"testing"

	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/parser"
)

func resolveSource(t *testing.T, src string) (*ast.File, *Table) {
	t.Helper()
	file := parser.ParseString(src)
	table, issues := Resolve(file, 0)
	if len(issues) != 0 {
		t.Fatalf("unexpected resolver issues: %+v", issues)
	}
	return file, table
}

func findClassDecl(t *testing.T, file *ast.File) *ast.ClassDecl {
	t.Helper()
	for _, s := range file.Stmts {
		if c, ok := s.(*ast.ClassDecl); ok {
			return c
		}
	}
	t.Fatalf("no class declaration found")
	return nil
}

func TestResolveUnqualifiedClassFallsBackToNamespace(t *testing.T) {
	src := `<?php
namespace App;
class Widget extends Base {}
`
	file, table := resolveSource(t, src)
	class := findClassDecl(t, file)
	id, ok := class.Extends.(*ast.Ident)
	if !ok {
		t.Fatalf("expected Ident extends clause, got %T", class.Extends)
	}
	res, ok := table.Ident(id)
	if !ok {
		t.Fatalf("expected a resolution for Base")
	}
	if res.Name != "App\\Base" || res.Origin != OriginNamespace {
		t.Fatalf("got %+v, want App\\Base via OriginNamespace", res)
	}
}

func TestResolveUseImportAlias(t *testing.T) {
	src := `<?php
namespace App;
use Vendor\Lib\Thing as Alias;
class Widget extends Alias {}
`
	file, table := resolveSource(t, src)
	class := findClassDecl(t, file)
	id := class.Extends.(*ast.Ident)
	res, ok := table.Ident(id)
	if !ok {
		t.Fatalf("expected a resolution for Alias")
	}
	if res.Name != "Vendor\\Lib\\Thing" || res.Origin != OriginUseImport {
		t.Fatalf("got %+v, want Vendor\\Lib\\Thing via OriginUseImport", res)
	}
}

func TestResolveAbsoluteNameSkipsNamespaceAndUse(t *testing.T) {
	src := `<?php
namespace App;
use Vendor\Lib\Thing;
class Widget extends \Vendor\Lib\Thing {}
`
	file, table := resolveSource(t, src)
	class := findClassDecl(t, file)
	id := class.Extends.(*ast.Ident)
	res, ok := table.Ident(id)
	if !ok {
		t.Fatalf("expected a resolution")
	}
	if res.Name != "Vendor\\Lib\\Thing" || res.Origin != OriginAbsolute {
		t.Fatalf("got %+v, want Vendor\\Lib\\Thing via OriginAbsolute", res)
	}
}

func TestResolveFunctionCallGlobalFallback(t *testing.T) {
	src := `<?php
namespace App;
strlen($x);
`
	file, table := resolveSource(t, src)
	stmt := file.Stmts[len(file.Stmts)-1].(*ast.ExprStmt)
	call := stmt.Expr.(*ast.CallExpr)
	id := call.Func.(*ast.Ident)
	res, ok := table.Ident(id)
	if !ok {
		t.Fatalf("expected a resolution for strlen")
	}
	if res.Name != "strlen" || res.Origin != OriginGlobalFallback {
		t.Fatalf("got %+v, want strlen via OriginGlobalFallback", res)
	}
}

func TestResolveConstantFetchIsNotMistakenForFunctionCall(t *testing.T) {
	src := `<?php
namespace App;
echo PHP_EOL;
`
	file, table := resolveSource(t, src)
	echo := file.Stmts[len(file.Stmts)-1].(*ast.EchoStmt)
	id := echo.Exprs[0].(*ast.Ident)
	res, ok := table.Ident(id)
	if !ok {
		t.Fatalf("expected a resolution for PHP_EOL")
	}
	if res.Kind != Constant || res.Origin != OriginGlobalFallback {
		t.Fatalf("got %+v, want a Constant via OriginGlobalFallback", res)
	}
}

func TestResolveReservedNameNeverResolvedAsUserName(t *testing.T) {
	src := `<?php
class Widget {
    public function make(): self { return $this; }
}
`
	file, table := resolveSource(t, src)
	class := findClassDecl(t, file)
	method := class.Members[0].(*ast.MethodDecl)
	simple, ok := method.ReturnType.Type.(*ast.SimpleType)
	if !ok {
		t.Fatalf("expected SimpleType return type, got %T", method.ReturnType.Type)
	}
	if _, ok := table.SimpleType(simple); ok {
		t.Fatalf("self should never be recorded as a user-name resolution")
	}
}

func TestResolveUseFunctionAndUseConstAreSeparateNamespaces(t *testing.T) {
	src := `<?php
namespace App;
use function Vendor\helper;
use const Vendor\MAX;
helper();
echo MAX;
`
	file, table := resolveSource(t, src)
	call := file.Stmts[len(file.Stmts)-2].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	fnID := call.Func.(*ast.Ident)
	fnRes, ok := table.Ident(fnID)
	if !ok || fnRes.Name != "Vendor\\helper" || fnRes.Kind != Function {
		t.Fatalf("got %+v, want Vendor\\helper as Function", fnRes)
	}

	echo := file.Stmts[len(file.Stmts)-1].(*ast.EchoStmt)
	constID := echo.Exprs[0].(*ast.Ident)
	constRes, ok := table.Ident(constID)
	if !ok || constRes.Name != "Vendor\\MAX" || constRes.Kind != Constant {
		t.Fatalf("got %+v, want Vendor\\MAX as Constant", constRes)
	}
}

func TestResolveQualifiedNameUsesFirstSegmentAlias(t *testing.T) {
	src := `<?php
namespace App;
use Vendor\Lib;
class Widget extends Lib\SubClass {}
`
	file, table := resolveSource(t, src)
	class := findClassDecl(t, file)
	id := class.Extends.(*ast.Ident)
	res, ok := table.Ident(id)
	if !ok {
		t.Fatalf("expected a resolution")
	}
	if res.Name != "Vendor\\Lib\\SubClass" {
		t.Fatalf("got %+v, want Vendor\\Lib\\SubClass", res)
	}
}
