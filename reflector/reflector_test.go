package reflector

import (
	"testing"

	"github.com/mago-php/mago-core/parser"
	"github.com/mago-php/mago-core/resolver"
	"github.com/mago-php/mago-core/types"
)

func buildSource(t *testing.T, src string) *Store {
	t.Helper()
	file := parser.ParseString(src)
	table, resolveIssues := resolver.Resolve(file, 0)
	if len(resolveIssues) != 0 {
		t.Fatalf("unexpected resolver issues: %+v", resolveIssues)
	}
	store := NewStore()
	if issues := BuildFile(file, 0, table, store); len(issues) != 0 {
		t.Fatalf("unexpected build issues: %+v", issues)
	}
	return store
}

func TestBuildClassWithPropertyAndMethodTypes(t *testing.T) {
	src := `<?php
class Widget {
    public int $count = 0;
    public function rename(string $name): bool {
        return true;
    }
}
`
	store := buildSource(t, src)
	class, ok := store.ClassLike("Widget")
	if !ok {
		t.Fatalf("expected Widget to be reflected")
	}
	prop, ok := class.Properties["count"]
	if !ok {
		t.Fatalf("expected count property")
	}
	if prop.Type.String() != "int" {
		t.Fatalf("count type = %s, want int", prop.Type.String())
	}
	method, ok := class.Methods["rename"]
	if !ok {
		t.Fatalf("expected rename method")
	}
	if method.Return.String() != "bool" {
		t.Fatalf("rename return = %s, want bool", method.Return.String())
	}
	if len(method.Params) != 1 || method.Params[0].Type.String() != "string" {
		t.Fatalf("rename params = %+v", method.Params)
	}
}

func TestBuildExtendsAndImplementsEdges(t *testing.T) {
	src := `<?php
namespace App;
class Base {}
interface Greets {}
class Widget extends Base implements Greets {}
`
	store := buildSource(t, src)
	class, ok := store.ClassLike("App\\Widget")
	if !ok {
		t.Fatalf("expected App\\Widget to be reflected")
	}
	if class.Extends == nil || class.Extends.Name != "App\\Base" {
		t.Fatalf("extends = %+v", class.Extends)
	}
	if len(class.Implements) != 1 || class.Implements[0].Name != "App\\Greets" {
		t.Fatalf("implements = %+v", class.Implements)
	}
}

func TestBuildDocblockVirtualPropertyAndMethod(t *testing.T) {
	src := `<?php
/**
 * @property int $id
 * @method string describe(int $verbosity)
 */
class Widget {}
`
	store := buildSource(t, src)
	class, _ := store.ClassLike("Widget")
	prop, ok := class.Properties["id"]
	if !ok || !prop.Virtual || prop.Type.String() != "int" {
		t.Fatalf("id property = %+v", prop)
	}
	method, ok := class.Methods["describe"]
	if !ok || !method.Virtual || method.Return.String() != "string" {
		t.Fatalf("describe method = %+v", method)
	}
	if len(method.Params) != 1 || method.Params[0].Type.String() != "int" {
		t.Fatalf("describe params = %+v", method.Params)
	}
}

func TestBuildDocblockVirtualPropertyDoesNotOverrideRealDeclaration(t *testing.T) {
	src := `<?php
/**
 * @property string $id
 */
class Widget {
    public int $id = 0;
}
`
	store := buildSource(t, src)
	class, _ := store.ClassLike("Widget")
	prop := class.Properties["id"]
	if prop.Virtual {
		t.Fatalf("real declaration should win over docblock virtual property")
	}
	if prop.Type.String() != "int" {
		t.Fatalf("id type = %s, want int (the real declaration)", prop.Type.String())
	}
}

func TestBuildNullableParamType(t *testing.T) {
	src := `<?php
class Widget {
    public function find(?string $key): mixed {
        return null;
    }
}
`
	store := buildSource(t, src)
	class, _ := store.ClassLike("Widget")
	method := class.Methods["find"]
	got := method.Params[0].Type
	if types.IsSubtype(types.NullT, got) != types.Yes {
		t.Fatalf("find($key) type should admit null: %s", got.String())
	}
	if types.IsSubtype(types.NonEmptyStringT, got) != types.Yes {
		t.Fatalf("find($key) type should admit non-empty-string: %s", got.String())
	}
}

func TestBuildEnumBackingAndCases(t *testing.T) {
	src := `<?php
enum Status: string {
    case Active = 'active';
    case Done = 'done';
}
`
	store := buildSource(t, src)
	class, ok := store.ClassLike("Status")
	if !ok || class.Kind != KindEnum {
		t.Fatalf("expected Status enum, got %+v", class)
	}
	if len(class.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(class.Cases))
	}
	active, ok := class.Cases["Active"]
	if !ok || active.BackingValue == nil || active.BackingValue.String() != "'active'" {
		t.Fatalf("Active case = %+v", active)
	}
}

func TestDuplicateClassDeclarationBecomesDiagnosticNotAbort(t *testing.T) {
	src := `<?php
class Widget {}
class Widget {}
`
	store := buildSource(t, src)
	if _, ok := store.ClassLike("Widget"); !ok {
		t.Fatalf("first declaration should still be reflected")
	}
	dupes := store.Duplicates()
	if len(dupes) != 1 {
		t.Fatalf("expected 1 duplicate diagnostic, got %d", len(dupes))
	}
}

func TestResolveMemberWalksTraitThenExtendsChain(t *testing.T) {
	src := `<?php
trait Greetable {
    public function greet(): string { return "hi"; }
}
class Base {
    public int $id = 0;
}
class Widget extends Base {
    use Greetable;
}
`
	store := buildSource(t, src)
	widget, _ := store.ClassLike("Widget")

	_, method, ok := store.ResolveMember(widget, "greet")
	if !ok || method == nil {
		t.Fatalf("expected greet to resolve via trait use")
	}
	prop, _, ok := store.ResolveMember(widget, "id")
	if !ok || prop == nil {
		t.Fatalf("expected id to resolve via extends chain")
	}
}

func TestResolveMemberToleratesDanglingParent(t *testing.T) {
	src := `<?php
class Widget extends MissingBase {}
`
	store := buildSource(t, src)
	widget, _ := store.ClassLike("Widget")
	_, _, ok := store.ResolveMember(widget, "anything")
	if ok {
		t.Fatalf("expected no member to resolve through a dangling parent")
	}
}

func TestSeedRegistersBuiltinFunctionSignatures(t *testing.T) {
	store := NewStore()
	Seed(store)
	fn, ok := store.Function("strlen")
	if !ok || !fn.Builtin {
		t.Fatalf("expected strlen to be seeded as a builtin")
	}
	if len(fn.Params) != 1 || fn.Params[0].Type.String() != "string" {
		t.Fatalf("strlen params = %+v", fn.Params)
	}
	if fn.Return.String() != "int" {
		t.Fatalf("strlen return = %s, want int", fn.Return.String())
	}
}

func TestExportSnapshotIncludesClassAndFunction(t *testing.T) {
	store := buildSource(t, `<?php
class Widget {
    public int $count = 0;
}
`)
	store.Freeze()
	snap := Export(store)
	if len(snap.Classes) != 1 || snap.Classes[0].Name != "Widget" {
		t.Fatalf("snapshot classes = %+v", snap.Classes)
	}
	if len(snap.Classes[0].Properties) != 1 || snap.Classes[0].Properties[0].Type != "int" {
		t.Fatalf("snapshot properties = %+v", snap.Classes[0].Properties)
	}
}
