package types

// AssertionKind is the closed set of narrowing operations the analyzer
// applies after a conditional check or an `@assert` tag fires.
type AssertionKind int

const (
	AssertIsType AssertionKind = iota
	AssertIsNotType
	AssertEqualsLiteral
	AssertTruthy
	AssertFalsy
	AssertHasKey
	AssertNonEmpty
)

// Assertion pairs an AssertionKind with its operand type (the right-hand
// side of `is`/`instanceof`, or the literal being compared against).
type Assertion struct {
	Kind    AssertionKind
	Operand *Type
	Key     string // AssertHasKey
}

// Narrow applies assertion to t, returning the refined type. Returns
// NeverT when the assertion is unsatisfiable by any value t describes;
// the caller (the analyzer) is responsible for reporting that as an
// impossible-condition diagnostic, this function only computes the type.
func Narrow(t *Type, a Assertion) *Type {
	switch a.Kind {
	case AssertIsType:
		return narrowIsType(t, a.Operand)
	case AssertIsNotType:
		return narrowIsNotType(t, a.Operand)
	case AssertEqualsLiteral:
		if IsSubtype(a.Operand, t) == No {
			return NeverT
		}
		return a.Operand
	case AssertTruthy:
		return narrowTruthy(t)
	case AssertFalsy:
		return narrowFalsy(t)
	case AssertNonEmpty:
		return narrowNonEmpty(t)
	case AssertHasKey:
		return narrowHasKey(t, a.Key)
	default:
		return t
	}
}

// narrowIsType keeps only the members of t compatible with target.
func narrowIsType(t *Type, target *Type) *Type {
	members := flattenUnion(t)
	var kept []*Type
	for _, m := range members {
		switch IsSubtype(m, target) {
		case Yes:
			kept = append(kept, m)
		case MaybeMixed:
			kept = append(kept, Intersect(m, target))
		case No:
			if IsSubtype(target, m) != No {
				kept = append(kept, target)
			}
		}
	}
	return buildUnion(kept)
}

// narrowIsNotType drops every member of t that is wholly covered by
// target, leaving the rest untouched.
func narrowIsNotType(t *Type, target *Type) *Type {
	members := flattenUnion(t)
	var kept []*Type
	for _, m := range members {
		if IsSubtype(m, target) == Yes {
			continue
		}
		kept = append(kept, m)
	}
	return buildUnion(kept)
}

// narrowTruthy drops null, false, the literal 0 / "0" / "" and empty
// array/list shapes — every PHP falsy value — from t.
func narrowTruthy(t *Type) *Type {
	members := flattenUnion(t)
	var kept []*Type
	for _, m := range members {
		if isFalsyAtom(m) {
			continue
		}
		kept = append(kept, m)
	}
	return buildUnion(kept)
}

// narrowFalsy keeps only members of t that can hold a falsy value.
func narrowFalsy(t *Type) *Type {
	members := flattenUnion(t)
	var kept []*Type
	for _, m := range members {
		if mayBeFalsy(m) {
			kept = append(kept, falsyProjection(m))
		}
	}
	return buildUnion(kept)
}

func isFalsyAtom(t *Type) bool {
	switch t.Kind {
	case Null, False:
		return true
	case LiteralInt:
		return t.IntValue == 0
	case LiteralString:
		return t.StringValue == "" || t.StringValue == "0"
	case ArrayShape, ListShape:
		return len(t.Fields) == 0 && t.Rest == nil
	}
	return false
}

func mayBeFalsy(t *Type) bool {
	switch t.Kind {
	case Null, False, Mixed:
		return true
	case Int, IntRange, NonEmptyString, NumericString:
		return true
	case LiteralInt:
		return t.IntValue == 0
	case LiteralString:
		return t.StringValue == "" || t.StringValue == "0"
	case ArrayShape, ListShape:
		return len(t.Fields) == 0
	}
	return false
}

// falsyProjection narrows a band atom down to just its falsy values,
// where that is expressible (an int band becomes the literal 0).
func falsyProjection(t *Type) *Type {
	switch t.Kind {
	case Int, IntRange:
		return LiteralIntT(0)
	case NonEmptyString, NumericString:
		return LiteralStringT("0")
	default:
		return t
	}
}

// narrowNonEmpty is AssertTruthy restricted to container types: keeps
// non-empty-string over string, and drops the empty-shape possibility
// from array/list shapes without forcing scalars through isFalsyAtom.
func narrowNonEmpty(t *Type) *Type {
	members := flattenUnion(t)
	var kept []*Type
	for _, m := range members {
		switch m.Kind {
		case LiteralString:
			if m.StringValue == "" {
				continue
			}
		case ArrayShape, ListShape:
			if len(m.Fields) == 0 && m.Rest == nil {
				continue
			}
		}
		kept = append(kept, m)
	}
	return buildUnion(kept)
}

// narrowHasKey keeps only shape members that might carry key, and marks
// it non-optional on the survivors we can prove it on.
func narrowHasKey(t *Type, key string) *Type {
	members := flattenUnion(t)
	var kept []*Type
	for _, m := range members {
		if m.Kind != ArrayShape && m.Kind != ListShape {
			continue
		}
		field := findField(m, key)
		if field == nil && m.Sealed {
			continue
		}
		cp := *m
		if field != nil {
			fields := append([]ShapeField(nil), m.Fields...)
			for i := range fields {
				if fields[i].Key == key {
					fields[i].Optional = false
				}
			}
			cp.Fields = fields
		} else if m.Rest != nil {
			cp.Fields = append(append([]ShapeField(nil), m.Fields...), ShapeField{Key: key, Value: m.Rest})
		}
		kept = append(kept, &cp)
	}
	return buildUnion(kept)
}
