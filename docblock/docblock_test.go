package docblock

import (
	"testing"

	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/source"
)

func mustParse(t *testing.T, text string) *Docblock {
	t.Helper()
	doc := &ast.DocComment{Start: ast.Pos(100), Text: text}
	db, diags := Parse(doc, source.FileID(1))
	for _, d := range diags {
		t.Logf("diagnostic: %s", d.Message)
	}
	return db
}

func TestParseSummaryAndDescription(t *testing.T) {
	db := mustParse(t, "/**\n * Computes a thing.\n *\n * Longer explanation here.\n */")
	if db.Summary != "Computes a thing." {
		t.Fatalf("summary = %q", db.Summary)
	}
	if db.Description != "Longer explanation here." {
		t.Fatalf("description = %q", db.Description)
	}
}

func TestParseParamTag(t *testing.T) {
	db := mustParse(t, "/**\n * @param int $x the count\n */")
	if len(db.Tags) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(db.Tags))
	}
	tag := db.Tags[0]
	if tag.Name != "param" {
		t.Fatalf("name = %q", tag.Name)
	}
	if tag.SubjectName != "x" {
		t.Fatalf("subject = %q", tag.SubjectName)
	}
	if tag.Type == nil || tag.Type.Kind != KindClassRef || tag.Type.Name != "int" {
		t.Fatalf("type = %+v", tag.Type)
	}
	if tag.Description != "the count" {
		t.Fatalf("description = %q", tag.Description)
	}
}

func TestParseVariadicByRefParam(t *testing.T) {
	db := mustParse(t, "/**\n * @param string &...$parts\n */")
	tag := db.Tags[0]
	if !tag.ByRef || !tag.Variadic {
		t.Fatalf("expected byref+variadic, got %+v", tag)
	}
	if tag.SubjectName != "parts" {
		t.Fatalf("subject = %q", tag.SubjectName)
	}
}

func TestParseUnionReturnType(t *testing.T) {
	db := mustParse(t, "/**\n * @return int|string\n */")
	typ := db.Tags[0].Type
	if typ.Kind != KindUnion || len(typ.Members) != 2 {
		t.Fatalf("type = %+v", typ)
	}
}

func TestParseNullableIntersectionType(t *testing.T) {
	db := mustParse(t, "/**\n * @var ?(Countable&Iterable)\n */")
	typ := db.Tags[0].Type
	if typ.Kind != KindNullable {
		t.Fatalf("expected nullable, got %+v", typ)
	}
	if typ.Inner.Kind != KindIntersection || len(typ.Inner.Members) != 2 {
		t.Fatalf("inner = %+v", typ.Inner)
	}
}

func TestParseArrayShape(t *testing.T) {
	db := mustParse(t, "/**\n * @var array{name: string, age?: int, ...}\n */")
	typ := db.Tags[0].Type
	if typ.Kind != KindArrayShape {
		t.Fatalf("kind = %v", typ.Kind)
	}
	if typ.Sealed {
		t.Fatalf("expected unsealed shape")
	}
	if len(typ.Fields) != 2 {
		t.Fatalf("fields = %+v", typ.Fields)
	}
	if typ.Fields[0].Key != "name" || typ.Fields[0].Optional {
		t.Fatalf("field0 = %+v", typ.Fields[0])
	}
	if typ.Fields[1].Key != "age" || !typ.Fields[1].Optional {
		t.Fatalf("field1 = %+v", typ.Fields[1])
	}
}

func TestParseGenericApplication(t *testing.T) {
	db := mustParse(t, "/**\n * @var array<int, string>\n */")
	typ := db.Tags[0].Type
	if typ.Kind != KindGeneric || typ.Base.Name != "array" || len(typ.Args) != 2 {
		t.Fatalf("type = %+v", typ)
	}
}

func TestParseArraySuffixDesugarsToList(t *testing.T) {
	db := mustParse(t, "/**\n * @var int[]\n */")
	typ := db.Tags[0].Type
	if typ.Kind != KindGeneric || typ.Base.Name != "list" {
		t.Fatalf("type = %+v", typ)
	}
}

func TestParseCallableSignature(t *testing.T) {
	db := mustParse(t, "/**\n * @var callable(int, string=, mixed...): bool\n */")
	typ := db.Tags[0].Type
	if typ.Kind != KindCallable {
		t.Fatalf("kind = %v", typ.Kind)
	}
	if len(typ.Params) != 3 {
		t.Fatalf("params = %+v", typ.Params)
	}
	if !typ.Params[1].Optional {
		t.Fatalf("param1 should be optional: %+v", typ.Params[1])
	}
	if !typ.Params[2].Variadic {
		t.Fatalf("param2 should be variadic: %+v", typ.Params[2])
	}
	if typ.Return == nil || typ.Return.Name != "bool" {
		t.Fatalf("return = %+v", typ.Return)
	}
}

func TestParseKeyOfValueOf(t *testing.T) {
	db := mustParse(t, "/**\n * @var key-of<Config>\n */")
	typ := db.Tags[0].Type
	if typ.Kind != KindKeyOf {
		t.Fatalf("kind = %v", typ.Kind)
	}
}

func TestParseConditionalReturnType(t *testing.T) {
	db := mustParse(t, "/**\n * @return ($p is string ? int : bool)\n */")
	typ := db.Tags[0].Type
	if typ.Kind != KindConditional {
		t.Fatalf("kind = %v, typ = %+v", typ.Kind, typ)
	}
	if typ.Then.Name != "int" || typ.Otherwise.Name != "bool" {
		t.Fatalf("then/otherwise = %+v / %+v", typ.Then, typ.Otherwise)
	}
}

func TestParseTemplateWithBound(t *testing.T) {
	db := mustParse(t, "/**\n * @template T of Countable\n */")
	tag := db.Tags[0]
	if tag.TemplateName != "T" {
		t.Fatalf("template name = %q", tag.TemplateName)
	}
	if tag.Type == nil || tag.Type.Name != "Countable" {
		t.Fatalf("bound = %+v", tag.Type)
	}
}

func TestParseMethodSignature(t *testing.T) {
	db := mustParse(t, "/**\n * @method static self create(int $id, string $name = 'x'): self\n */")
	tag := db.Tags[0]
	if tag.SubjectName != "create" {
		t.Fatalf("subject = %q", tag.SubjectName)
	}
	if len(tag.MethodParams) != 2 {
		t.Fatalf("params = %+v", tag.MethodParams)
	}
}

func TestSpansAreFileRelative(t *testing.T) {
	// The doc comment starts at file offset 100; the @var tag's type
	// text begins a handful of bytes into the comment, so its span
	// must land well past 100, never at a small offset relative to
	// the isolated comment text.
	db := mustParse(t, "/**\n * @var int\n */")
	typ := db.Tags[0].Type
	if typ.Span.Start < 100 {
		t.Fatalf("span not file-relative: %+v", typ.Span)
	}
	if typ.Span.File != source.FileID(1) {
		t.Fatalf("wrong file id: %+v", typ.Span)
	}
}

func TestMalformedTypeProducesBadNodeNotPanic(t *testing.T) {
	db := mustParse(t, "/**\n * @var |||\n */")
	if db.Tags[0].Type == nil {
		t.Fatalf("expected a (possibly bad) type node, got nil")
	}
}
