package types

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders t the way a diagnostic message does: "int", "string",
// "array{name: string, age: int}", "T of Countable", and so on. This is
// a display form, not a parseable one — Key() is for structural identity.
func (t *Type) String() string {
	if t == nil {
		return "mixed"
	}
	switch t.Kind {
	case Never:
		return "never"
	case Null:
		return "null"
	case True:
		return "true"
	case False:
		return "false"
	case Int:
		return "int"
	case PositiveInt:
		return "positive-int"
	case IntRange:
		return fmt.Sprintf("int<%s, %s>", boundString(t.Min), boundString(t.Max))
	case Float:
		return "float"
	case NumericString:
		return "numeric-string"
	case NonEmptyString:
		return "non-empty-string"
	case LiteralInt:
		return strconv.FormatInt(t.IntValue, 10)
	case LiteralString:
		return "'" + t.StringValue + "'"
	case ClassString:
		if len(t.Generics) == 1 {
			return "class-string<" + t.Generics[0].String() + ">"
		}
		return "class-string"
	case Object:
		name := t.Name
		if t.IsStaticRef {
			name = "static"
		}
		if len(t.Generics) == 0 {
			return name
		}
		parts := make([]string, len(t.Generics))
		for i, g := range t.Generics {
			parts[i] = g.String()
		}
		return name + "<" + strings.Join(parts, ", ") + ">"
	case ArrayShape, ListShape:
		return shapeString(t)
	case Callable:
		return callableString(t)
	case Resource:
		return "resource"
	case Mixed:
		return "mixed"
	case TemplateParam:
		if t.Bound == nil {
			return t.Name
		}
		return t.Name + " of " + t.Bound.String()
	case Union:
		if t.Key() == StringT.Key() {
			return "string"
		}
		if t.Key() == BoolT.Key() {
			return "bool"
		}
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, "|")
	case Intersection:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, "&")
	default:
		return "mixed"
	}
}

func boundString(v *int64) string {
	if v == nil {
		return "min"
	}
	return strconv.FormatInt(*v, 10)
}

func shapeString(t *Type) string {
	kind := "array"
	if t.Kind == ListShape {
		kind = "list"
	}
	if len(t.Fields) == 0 && t.Rest == nil {
		return kind
	}
	parts := make([]string, 0, len(t.Fields)+1)
	for _, f := range t.Fields {
		mark := ""
		if f.Optional {
			mark = "?"
		}
		if t.Kind == ListShape {
			parts = append(parts, f.Value.String())
		} else {
			parts = append(parts, fmt.Sprintf("%s%s: %s", f.Key, mark, f.Value.String()))
		}
	}
	if !t.Sealed {
		parts = append(parts, "...")
	}
	return kind + "{" + strings.Join(parts, ", ") + "}"
}

func callableString(t *Type) string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		s := p.Type.String()
		if p.Variadic {
			s += "..."
		} else if p.Optional {
			s += "="
		}
		parts[i] = s
	}
	ret := "mixed"
	if t.Return != nil {
		ret = t.Return.String()
	}
	return "callable(" + strings.Join(parts, ", ") + "): " + ret
}
