package types

// Config bounds the two thresholds spec's "Open Questions" leaves to the
// implementer: how many literal alternatives a union keeps precise
// before collapsing to its band, and how many shape fields survive
// before a shape collapses to array<K,V>. Both default to values chosen
// to keep loop fixpoints shallow without losing useful precision on
// ordinary code.
type Config struct {
	LiteralSetCap int
	ShapeSizeCap  int
}

// DefaultConfig is used wherever the analyzer does not thread an explicit
// Config through (every call site in this package takes one, but package
// consumers that haven't wired configuration yet can start here).
var DefaultConfig = Config{LiteralSetCap: 8, ShapeSizeCap: 24}

// WidenForLoopFixpoint joins prev and the loop body's next-iteration
// result, applying both caps so repeated loop-body analysis reaches a
// fixpoint in bounded iterations: literal sets wider than
// cfg.LiteralSetCap collapse to their band, and shapes with more than
// cfg.ShapeSizeCap fields collapse to array<K,V>.
func WidenForLoopFixpoint(prev, next *Type, cfg Config) *Type {
	joined := Union(prev, next)
	return widenType(joined, cfg)
}

func widenType(t *Type, cfg Config) *Type {
	switch t.Kind {
	case Union:
		literalInts := 0
		literalStrings := 0
		for _, m := range t.Members {
			switch m.Kind {
			case LiteralInt:
				literalInts++
			case LiteralString:
				literalStrings++
			}
		}
		var out []*Type
		sawBroadInt, sawBroadString := false, false
		for _, m := range t.Members {
			switch m.Kind {
			case LiteralInt:
				if literalInts > cfg.LiteralSetCap {
					if !sawBroadInt {
						out = append(out, IntT)
						sawBroadInt = true
					}
					continue
				}
			case LiteralString:
				if literalStrings > cfg.LiteralSetCap {
					if !sawBroadString {
						out = append(out, StringT)
						sawBroadString = true
					}
					continue
				}
			}
			out = append(out, widenType(m, cfg))
		}
		return buildUnion(out)
	case ArrayShape, ListShape:
		if len(t.Fields) > cfg.ShapeSizeCap {
			return widenShapeToGeneric(t, cfg)
		}
		cp := *t
		fields := make([]ShapeField, len(t.Fields))
		for i, f := range t.Fields {
			f.Value = widenType(f.Value, cfg)
			fields[i] = f
		}
		cp.Fields = fields
		if cp.Rest != nil {
			cp.Rest = widenType(cp.Rest, cfg)
		}
		return &cp
	default:
		return t
	}
}

// widenShapeToGeneric collapses an oversized shape into array<K,V> (a
// generic Object("array", K, V)) or list<V> for list shapes, unioning
// every field's value type (and Rest, if any) into V.
func widenShapeToGeneric(t *Type, cfg Config) *Type {
	var values []*Type
	var keys []*Type
	for _, f := range t.Fields {
		values = append(values, widenType(f.Value, cfg))
		if f.KeyIsInt {
			keys = append(keys, IntT)
		} else {
			keys = append(keys, StringT)
		}
	}
	if t.Rest != nil {
		values = append(values, widenType(t.Rest, cfg))
	}
	valueType := UnionAll(values)
	if t.Kind == ListShape {
		return ObjectT("list", valueType)
	}
	keyType := UnionAll(keys)
	if keyType.IsNever() {
		keyType = IntT
	}
	return ObjectT("array", keyType, valueType)
}
