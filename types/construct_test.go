package types

import (
	"testing"

	"github.com/mago-php/mago-core/docblock"
)

func parseDocType(t *testing.T, text string) *docblock.Type {
	t.Helper()
	typ, diags := docblock.ParseType(text, 0, 0)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics parsing %q: %+v", text, diags)
	}
	return typ
}

func TestConstructPrimitive(t *testing.T) {
	got := Construct(parseDocType(t, "int"), nil)
	if got.Key() != IntT.Key() {
		t.Fatalf("construct(int) = %s, want int", got.String())
	}
}

func TestConstructUnionFlattensAndSubsumes(t *testing.T) {
	got := Construct(parseDocType(t, "int|positive-int|string"), nil)
	if IsSubtype(PositiveIntT, got) != Yes {
		t.Fatalf("constructed union should admit positive-int: %s", got.String())
	}
}

func TestConstructNullableAddsNull(t *testing.T) {
	got := Construct(parseDocType(t, "?string"), nil)
	if IsSubtype(NullT, got) != Yes {
		t.Fatalf("nullable construct should admit null: %s", got.String())
	}
}

func TestConstructArrayShape(t *testing.T) {
	got := Construct(parseDocType(t, "array{name: string, age?: int}"), nil)
	if got.Kind != ArrayShape || len(got.Fields) != 2 {
		t.Fatalf("construct(shape) = %+v", got)
	}
	if !got.Sealed {
		t.Fatalf("shape without ... should stay sealed")
	}
}

func TestConstructGenericApplication(t *testing.T) {
	got := Construct(parseDocType(t, "array<int, string>"), nil)
	if got.Kind != Object || got.Name != "array" || len(got.Generics) != 2 {
		t.Fatalf("construct(array<int,string>) = %+v", got)
	}
	if got.Generics[0].Key() != IntT.Key() || got.Generics[1].Key() != StringT.Key() {
		t.Fatalf("wrong generic args: %s, %s", got.Generics[0].String(), got.Generics[1].String())
	}
}

func TestConstructTemplateSubstitution(t *testing.T) {
	env := TemplateEnv{"T": IntT}
	got := Construct(parseDocType(t, "T"), env)
	if got.Key() != IntT.Key() {
		t.Fatalf("construct(T) with env T=int should be int, got %s", got.String())
	}
}

func TestConstructCallableSignature(t *testing.T) {
	got := Construct(parseDocType(t, "callable(int, string=): bool"), nil)
	if got.Kind != Callable || len(got.Params) != 2 {
		t.Fatalf("construct(callable) = %+v", got)
	}
	if !got.Params[1].Optional {
		t.Fatalf("second param should be optional")
	}
}

func TestConstructLiteralTypes(t *testing.T) {
	got := Construct(parseDocType(t, "42"), nil)
	if got.Kind != LiteralInt || got.IntValue != 42 {
		t.Fatalf("construct(42) = %+v", got)
	}
}
