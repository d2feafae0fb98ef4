package types

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Key returns t's structural hash key: two types with the same Key are
// interchangeable for every algebra operation in this package. Provenance
// is deliberately excluded so a type narrowed at two different call sites
// still interns to one value.
func (t *Type) Key() string {
	if t == nil {
		return "<nil>"
	}
	if t.hash != "" {
		return t.hash
	}
	t.hash = buildKey(t)
	return t.hash
}

func buildKey(t *Type) string {
	var b strings.Builder
	writeKey(&b, t)
	return b.String()
}

func writeKey(b *strings.Builder, t *Type) {
	if t == nil {
		b.WriteString("_")
		return
	}
	switch t.Kind {
	case Never, Null, True, False, Int, Float, NumericString, NonEmptyString, Resource, Mixed:
		fmt.Fprintf(b, "%d", t.Kind)
	case IntRange:
		fmt.Fprintf(b, "%d[", t.Kind)
		writeIntBound(b, t.Min)
		b.WriteString(",")
		writeIntBound(b, t.Max)
		b.WriteString("]")
	case PositiveInt:
		fmt.Fprintf(b, "%d", t.Kind)
	case LiteralInt:
		fmt.Fprintf(b, "%d(%d)", t.Kind, t.IntValue)
	case LiteralString:
		fmt.Fprintf(b, "%d(%q)", t.Kind, t.StringValue)
	case ClassString:
		fmt.Fprintf(b, "%d(%s)<", t.Kind, t.Name)
		writeKeyList(b, t.Generics)
		b.WriteString(">")
	case Object:
		fmt.Fprintf(b, "%d(%s,static=%v)<", t.Kind, t.Name, t.IsStaticRef)
		writeKeyList(b, t.Generics)
		b.WriteString(">")
	case ArrayShape, ListShape:
		fmt.Fprintf(b, "%d{sealed=%v;", t.Kind, t.Sealed)
		fields := append([]ShapeField(nil), t.Fields...)
		sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
		for _, f := range fields {
			fmt.Fprintf(b, "%s?%v:", f.Key, f.Optional)
			writeKey(b, f.Value)
			b.WriteString(";")
		}
		b.WriteString("rest:")
		writeKey(b, t.Rest)
		b.WriteString("}")
	case Callable:
		fmt.Fprintf(b, "%d(pure=%v)(", t.Kind, t.Pure)
		for _, p := range t.Params {
			writeKey(b, p.Type)
			fmt.Fprintf(b, "[ref=%v,var=%v,opt=%v]", p.ByRef, p.Variadic, p.Optional)
			b.WriteString(",")
		}
		b.WriteString(")->")
		writeKey(b, t.Return)
	case TemplateParam:
		fmt.Fprintf(b, "%d(%s,%s,", t.Kind, t.Name, t.Variance)
		writeKey(b, t.Bound)
		b.WriteString(")")
	case Union, Intersection:
		members := make([]string, len(t.Members))
		for i, m := range t.Members {
			members[i] = m.Key()
		}
		sort.Strings(members)
		fmt.Fprintf(b, "%d[%s]", t.Kind, strings.Join(members, "|"))
	default:
		fmt.Fprintf(b, "%d?", t.Kind)
	}
}

func writeIntBound(b *strings.Builder, v *int64) {
	if v == nil {
		b.WriteString("-inf")
		return
	}
	fmt.Fprintf(b, "%d", *v)
}

func writeKeyList(b *strings.Builder, ts []*Type) {
	for i, m := range ts {
		if i > 0 {
			b.WriteString(",")
		}
		writeKey(b, m)
	}
}

// internTable canonicalizes equal-Key types to a shared pointer. Every
// lookup takes the read lock and an insert takes the write lock; unlike
// the reflection store, the table is never frozen, since new literal
// types are synthesized continuously during analysis.
var internTable = struct {
	mu sync.RWMutex
	m  map[string]*Type
}{m: make(map[string]*Type)}

// Intern returns the canonical pointer for a type with t's structure. Two
// types with the same Key() always return the same pointer after Intern,
// making pointer equality a valid fast path for IsSubtype/Union callers
// that already interned their operands.
func Intern(t *Type) *Type {
	if t == nil {
		return nil
	}
	key := t.Key()
	internTable.mu.RLock()
	if existing, ok := internTable.m[key]; ok {
		internTable.mu.RUnlock()
		return existing
	}
	internTable.mu.RUnlock()

	internTable.mu.Lock()
	defer internTable.mu.Unlock()
	if existing, ok := internTable.m[key]; ok {
		return existing
	}
	internTable.m[key] = t
	return t
}
