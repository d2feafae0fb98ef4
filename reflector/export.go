package reflector

import "github.com/mago-php/mago-core/types"

// Snapshot is the JSON-serializable view of a frozen Store, for the
// optional reflection-store dump IDE consumers read (spec's external
// interfaces section: "dump of the resolved reflection store").
type Snapshot struct {
	Classes   []ClassLikeView   `json:"classes"`
	Functions []FunctionView    `json:"functions"`
	Constants []ConstantView    `json:"constants"`
}

type ClassLikeView struct {
	Name       string             `json:"name"`
	Kind       string             `json:"kind"`
	Abstract   bool               `json:"abstract,omitempty"`
	Final      bool               `json:"final,omitempty"`
	Readonly   bool               `json:"readonly,omitempty"`
	Extends    string             `json:"extends,omitempty"`
	Implements []string           `json:"implements,omitempty"`
	Uses       []string           `json:"uses,omitempty"`
	Properties []PropertyView     `json:"properties,omitempty"`
	Methods    []MethodView       `json:"methods,omitempty"`
	Constants  []ClassConstView   `json:"constants,omitempty"`
	Cases      []string           `json:"cases,omitempty"`
	Deprecated bool               `json:"deprecated,omitempty"`
}

type PropertyView struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Visibility string `json:"visibility"`
	Static     bool   `json:"static,omitempty"`
	Virtual    bool   `json:"virtual,omitempty"`
}

type ParamView struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
	Variadic bool   `json:"variadic,omitempty"`
	ByRef    bool   `json:"byRef,omitempty"`
}

type MethodView struct {
	Name       string      `json:"name"`
	Params     []ParamView `json:"params"`
	Return     string      `json:"return"`
	Visibility string      `json:"visibility"`
	Static     bool        `json:"static,omitempty"`
	Abstract   bool        `json:"abstract,omitempty"`
	Virtual    bool        `json:"virtual,omitempty"`
}

type ClassConstView struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type FunctionView struct {
	Name    string      `json:"name"`
	Params  []ParamView `json:"params"`
	Return  string      `json:"return"`
	Builtin bool        `json:"builtin,omitempty"`
}

type ConstantView struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Export renders a frozen store into its JSON-serializable snapshot. The
// caller is expected to have called Freeze first; Export itself doesn't
// check, since a snapshot of an in-progress scan is still well-formed,
// just possibly incomplete.
func Export(store *Store) Snapshot {
	store.mu.RLock()
	defer store.mu.RUnlock()

	snap := Snapshot{}
	for _, c := range store.classes {
		snap.Classes = append(snap.Classes, classLikeView(c))
	}
	for _, fn := range store.functions {
		snap.Functions = append(snap.Functions, functionView(fn))
	}
	for _, c := range store.constants {
		snap.Constants = append(snap.Constants, ConstantView{Name: c.Name, Type: typeString(c.Type)})
	}
	return snap
}

func classLikeView(c *ClassLike) ClassLikeView {
	v := ClassLikeView{
		Name:       c.Name,
		Kind:       c.Kind.String(),
		Abstract:   c.Abstract,
		Final:      c.Final,
		Readonly:   c.Readonly,
		Deprecated: c.Deprecated,
	}
	if c.Extends != nil {
		v.Extends = c.Extends.Name
	}
	for _, e := range c.Implements {
		v.Implements = append(v.Implements, e.Name)
	}
	for _, e := range c.Uses {
		v.Uses = append(v.Uses, e.Name)
	}
	for _, prop := range c.Properties {
		v.Properties = append(v.Properties, PropertyView{
			Name:       prop.Name,
			Type:       typeString(prop.Type),
			Visibility: visibilityString(prop.Visibility),
			Static:     prop.Static,
			Virtual:    prop.Virtual,
		})
	}
	for _, m := range c.Methods {
		v.Methods = append(v.Methods, methodView(m))
	}
	for _, cc := range c.Constants {
		v.Constants = append(v.Constants, ClassConstView{Name: cc.Name, Type: typeString(cc.Type)})
	}
	for _, ec := range c.Cases {
		v.Cases = append(v.Cases, ec.Name)
	}
	return v
}

func methodView(m *Method) MethodView {
	return MethodView{
		Name:       m.Name,
		Params:     paramViews(m.Params),
		Return:     typeString(m.Return),
		Visibility: visibilityString(m.Visibility),
		Static:     m.Static,
		Abstract:   m.Abstract,
		Virtual:    m.Virtual,
	}
}

func functionView(fn *FunctionSymbol) FunctionView {
	return FunctionView{
		Name:    fn.Name,
		Params:  paramViews(fn.Params),
		Return:  typeString(fn.Return),
		Builtin: fn.Builtin,
	}
}

func paramViews(params []Param) []ParamView {
	out := make([]ParamView, 0, len(params))
	for _, p := range params {
		out = append(out, ParamView{
			Name:     p.Name,
			Type:     typeString(p.Type),
			Optional: p.Optional,
			Variadic: p.Variadic,
			ByRef:    p.ByRef,
		})
	}
	return out
}

func typeString(t *types.Type) string {
	if t == nil {
		return "mixed"
	}
	return t.String()
}

func visibilityString(v Visibility) string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}
