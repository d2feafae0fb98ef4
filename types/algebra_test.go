package types

import "testing"

func TestUnionIdempotent(t *testing.T) {
	a := IntT
	if got := Union(a, a).Key(); got != a.Key() {
		t.Fatalf("union(a,a) = %s, want %s", got, a.Key())
	}
}

func TestUnionCommutative(t *testing.T) {
	a, b := IntT, StringT
	if Union(a, b).Key() != Union(b, a).Key() {
		t.Fatalf("union not commutative: %s vs %s", Union(a, b).Key(), Union(b, a).Key())
	}
}

func TestUnionSubsumesPositiveIntIntoInt(t *testing.T) {
	u := Union(IntT, PositiveIntT)
	if u.Key() != IntT.Key() {
		t.Fatalf("union(int,positive-int) = %s, want int", u.String())
	}
}

func TestUnionSubsumesLiteralIntoBand(t *testing.T) {
	u := Union(IntT, LiteralIntT(5))
	if u.Key() != IntT.Key() {
		t.Fatalf("union(int, 5) = %s, want int", u.String())
	}
}

func TestIsSubtypeReflexiveForUnionMember(t *testing.T) {
	u := Union(IntT, StringT)
	if IsSubtype(IntT, u) != Yes {
		t.Fatalf("is_subtype(int, union(int,string)) should be Yes")
	}
}

func TestIsSubtypeMixedIsMaybe(t *testing.T) {
	if IsSubtype(MixedT, IntT) != MaybeMixed {
		t.Fatalf("is_subtype(mixed, int) should be MaybeMixed")
	}
	if IsSubtype(IntT, MixedT) != Yes {
		t.Fatalf("is_subtype(int, mixed) should be Yes")
	}
}

func TestIsSubtypeLiteralIntoBand(t *testing.T) {
	if IsSubtype(LiteralIntT(5), IntT) != Yes {
		t.Fatalf("is_subtype(5, int) should be Yes")
	}
	if IsSubtype(LiteralIntT(5), PositiveIntT) != Yes {
		t.Fatalf("is_subtype(5, positive-int) should be Yes")
	}
	if IsSubtype(LiteralIntT(-5), PositiveIntT) != No {
		t.Fatalf("is_subtype(-5, positive-int) should be No")
	}
}

func TestNarrowIsTypeThenIsNotTypeReconstitutes(t *testing.T) {
	base := Union(IntT, StringT)
	pos := Narrow(base, Assertion{Kind: AssertIsType, Operand: IntT})
	neg := Narrow(base, Assertion{Kind: AssertIsNotType, Operand: IntT})
	rejoined := Union(pos, neg)
	if IsSubtype(rejoined, base) != Yes || IsSubtype(base, rejoined) != Yes {
		t.Fatalf("narrow(t,is)∪narrow(t,is-not) = %s, want %s", rejoined.String(), base.String())
	}
}

func TestNarrowTruthyDropsNullAndFalse(t *testing.T) {
	base := Union(Union(IntT, NullT), FalseT)
	narrowed := Narrow(base, Assertion{Kind: AssertTruthy})
	if IsSubtype(NullT, narrowed) != No {
		t.Fatalf("truthy-narrowed type should not admit null: %s", narrowed.String())
	}
	if IsSubtype(FalseT, narrowed) != No {
		t.Fatalf("truthy-narrowed type should not admit false: %s", narrowed.String())
	}
}

func TestNarrowUnsatisfiableYieldsNever(t *testing.T) {
	got := Narrow(IntT, Assertion{Kind: AssertEqualsLiteral, Operand: LiteralStringT("x")})
	if !got.IsNever() {
		t.Fatalf("narrow(int, ==\"x\") should be never, got %s", got.String())
	}
}

func TestWidenForLoopFixpointCollapsesLiteralSet(t *testing.T) {
	cfg := Config{LiteralSetCap: 2, ShapeSizeCap: 10}
	acc := NeverT
	for i := int64(0); i < 5; i++ {
		acc = WidenForLoopFixpoint(acc, LiteralIntT(i), cfg)
	}
	if IsSubtype(LiteralIntT(0), acc) != Yes {
		t.Fatalf("widened type should still admit earlier literals: %s", acc.String())
	}
	if acc.Kind == Union && len(acc.Members) > cfg.LiteralSetCap+1 {
		t.Fatalf("widen did not collapse literal set: %s", acc.String())
	}
}

func TestWidenShapeCollapsesOversizedShape(t *testing.T) {
	shape := &Type{Kind: ArrayShape, Sealed: true}
	for i := 0; i < 5; i++ {
		shape.Fields = append(shape.Fields, ShapeField{Key: string(rune('a' + i)), Value: IntT})
	}
	cfg := Config{LiteralSetCap: 8, ShapeSizeCap: 3}
	widened := widenType(shape, cfg)
	if widened.Kind != Object || widened.Name != "array" {
		t.Fatalf("oversized shape should widen to array<K,V>, got %s", widened.String())
	}
}

func TestIntersectRestrictedToObjects(t *testing.T) {
	a := ObjectT("Countable")
	b := ObjectT("Iterator")
	inter := Intersect(a, b)
	if inter.Kind != Intersection {
		t.Fatalf("intersect of two distinct objects should stay an Intersection, got %s", inter.String())
	}
}

func TestTemplateInstantiateBindsFromArgument(t *testing.T) {
	tparam := &Type{Kind: TemplateParam, Name: "T"}
	sig := []TemplateParamDecl{{Name: "T", Bound: nil}}
	result := TemplateInstantiate(sig, []*Type{tparam}, []*Type{IntT})
	if result.Env["T"].Key() != IntT.Key() {
		t.Fatalf("T should bind to int, got %s", result.Env["T"].String())
	}
	if len(result.Violations) != 0 {
		t.Fatalf("unexpected violations: %+v", result.Violations)
	}
}

func TestTemplateInstantiateReportsBoundViolation(t *testing.T) {
	tparam := &Type{Kind: TemplateParam, Name: "T"}
	sig := []TemplateParamDecl{{Name: "T", Bound: IntT}}
	result := TemplateInstantiate(sig, []*Type{tparam}, []*Type{StringT})
	if len(result.Violations) != 1 {
		t.Fatalf("expected one violation, got %d", len(result.Violations))
	}
}

func TestInternReturnsSharedPointerForEqualStructure(t *testing.T) {
	a := Intern(&Type{Kind: Object, Name: "Foo"})
	b := Intern(&Type{Kind: Object, Name: "Foo"})
	if a != b {
		t.Fatalf("interned equal types should share a pointer")
	}
}

func TestRenderShapeAndCallable(t *testing.T) {
	shape := &Type{Kind: ArrayShape, Sealed: true, Fields: []ShapeField{
		{Key: "name", Value: StringT},
		{Key: "age", Optional: true, Value: IntT},
	}}
	if got, want := shape.String(), "array{name: string, age?: int}"; got != want {
		t.Fatalf("shape.String() = %q, want %q", got, want)
	}

	callable := &Type{Kind: Callable, Params: []CallableParam{{Type: IntT}, {Type: StringT, Optional: true}}, Return: BoolT}
	if got, want := callable.String(), "callable(int, string=): bool"; got != want {
		t.Fatalf("callable.String() = %q, want %q", got, want)
	}
}
