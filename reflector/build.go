package reflector

import (
	"strconv"
	"strings"

	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/docblock"
	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/resolver"
	"github.com/mago-php/mago-core/source"
	"github.com/mago-php/mago-core/token"
	"github.com/mago-php/mago-core/types"
)

// BuildFile runs the scan phase (spec §4.5) over one already-parsed,
// already-resolved file: every class-like, function, and constant
// declaration becomes a reflection record and is added to store. Docblock
// parsing happens here too, since a declaration's docblock is only
// meaningful in the context of building its record.
func BuildFile(file *ast.File, fileID source.FileID, table *resolver.Table, store *Store) []issue.Issue {
	b := &builder{fileID: fileID, table: table, store: store}
	b.stmts(file.Stmts)
	return b.issues
}

type builder struct {
	fileID source.FileID
	table  *resolver.Table
	store  *Store
	issues []issue.Issue
}

func (b *builder) stmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		b.stmt(s)
	}
}

func (b *builder) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.NamespaceDecl:
		if n.Bracketed {
			b.stmts(n.Stmts)
		}
	case *ast.ClassDecl:
		b.store.AddClassLike(b.classLike(n.Name, KindClass, n.Doc, n.Attrs, classModifiers(n.Modifiers), n.Extends, n.Implements, n.Members, span(b.fileID, n)))
	case *ast.InterfaceDecl:
		b.store.AddClassLike(b.classLike(n.Name, KindInterface, n.Doc, n.Attrs, modifiers{}, nil, n.Extends, n.Members, span(b.fileID, n)))
	case *ast.TraitDecl:
		b.store.AddClassLike(b.classLike(n.Name, KindTrait, n.Doc, n.Attrs, modifiers{}, nil, nil, n.Members, span(b.fileID, n)))
	case *ast.EnumDecl:
		cl := b.classLike(n.Name, KindEnum, n.Doc, n.Attrs, modifiers{}, nil, n.Implements, n.Members, span(b.fileID, n))
		if n.BackingType != nil {
			cl.EnumBacking = b.typeExpr(n.BackingType)
		}
		b.store.AddClassLike(cl)
	case *ast.FunctionDecl:
		b.store.AddFunction(b.function(n))
	case *ast.ConstDecl:
		for _, c := range n.Consts {
			b.store.AddConstant(&ConstantSymbol{
				Name: b.canonicalConstName(c.Name.Name),
				Type: types.MixedT,
				Span: span(b.fileID, c.Name),
			})
		}
	}
}

type modifiers struct {
	Abstract, Final, Readonly bool
}

func classModifiers(m *ast.ClassModifiers) modifiers {
	if m == nil {
		return modifiers{}
	}
	return modifiers{Abstract: m.Abstract, Final: m.Final, Readonly: m.Readonly}
}

func (b *builder) classLike(name *ast.Ident, kind ClassLikeKind, doc *ast.DocComment, attrs []*ast.AttributeGroup, mods modifiers, extendsClass ast.Expr, extendsOrImplements []ast.Expr, members []ast.ClassMember, sp source.Span) *ClassLike {
	db, dbIssues := b.parseDoc(doc)
	b.issues = append(b.issues, dbIssues...)

	env := templateEnv(db)
	cl := &ClassLike{
		Name:       b.identName(name),
		Kind:       kind,
		Span:       sp,
		Abstract:   mods.Abstract,
		Final:      mods.Final,
		Readonly:   mods.Readonly,
		Templates:  templateParams(db, env),
		Properties: make(map[string]*Property),
		Methods:    make(map[string]*Method),
		Constants:  make(map[string]*ClassConstant),
		Cases:      make(map[string]*EnumCase),
		Attributes: attributeNames(attrs),
		Deprecated: hasTag(db, "deprecated"),
	}

	if extendsClass != nil {
		cl.Extends = b.edge(extendsClass)
	}
	for _, i := range extendsOrImplements {
		if e := b.edge(i); e != nil {
			cl.Implements = append(cl.Implements, *e)
		}
	}

	for _, m := range members {
		switch mem := m.(type) {
		case *ast.PropertyDecl:
			b.property(cl, mem, env)
		case *ast.MethodDecl:
			b.method(cl, mem, env)
		case *ast.ClassConstDecl:
			b.classConst(cl, mem, env)
		case *ast.TraitUseDecl:
			for _, t := range mem.Traits {
				if e := b.edge(t); e != nil {
					cl.Uses = append(cl.Uses, *e)
				}
			}
		case *ast.EnumCaseDecl:
			b.enumCase(cl, mem)
		}
	}

	b.virtualMembers(cl, db, env)
	return cl
}

func (b *builder) edge(e ast.Expr) *Edge {
	id, ok := e.(*ast.Ident)
	if !ok {
		return nil
	}
	name := id.Name
	if res, ok := b.table.Ident(id); ok {
		name = res.Name
	}
	return &Edge{Name: name, Span: span(b.fileID, id)}
}

func (b *builder) property(cl *ClassLike, mem *ast.PropertyDecl, env types.TemplateEnv) {
	doc, dbIssues := b.parseDoc(mem.Doc)
	b.issues = append(b.issues, dbIssues...)

	declared := b.typeExpr(mem.Type)
	if declared == nil {
		declared = docVarType(doc, env)
	}
	if declared == nil {
		declared = types.MixedT
	}

	vis, static, readonly := Public, false, false
	if mem.Modifiers != nil {
		vis = visibilityOf(mem.Modifiers.Public, mem.Modifiers.Protected, mem.Modifiers.Private)
		static = mem.Modifiers.Static
		readonly = mem.Modifiers.Readonly
	}

	for _, item := range mem.Props {
		name := variableName(item.Var)
		if name == "" {
			continue
		}
		cl.Properties[name] = &Property{
			Name:       name,
			Type:       declared,
			Visibility: vis,
			Static:     static,
			Readonly:   readonly,
			Span:       span(b.fileID, mem),
		}
	}
}

func (b *builder) method(cl *ClassLike, mem *ast.MethodDecl, env types.TemplateEnv) {
	doc, dbIssues := b.parseDoc(mem.Doc)
	b.issues = append(b.issues, dbIssues...)

	methodEnv := mergeEnv(env, templateEnv(doc))

	vis, static, abstract, final := Public, false, false, false
	if mem.Modifiers != nil {
		vis = visibilityOf(mem.Modifiers.Public, mem.Modifiers.Protected, mem.Modifiers.Private)
		static = mem.Modifiers.Static
		abstract = mem.Modifiers.Abstract
		final = mem.Modifiers.Final
	}

	cl.Methods[b.identName(mem.Name)] = &Method{
		Name:       b.identName(mem.Name),
		Params:     b.params(mem.Params, doc, methodEnv),
		Return:     b.returnType(mem.ReturnType, doc, methodEnv),
		Visibility: vis,
		Static:     static,
		Abstract:   abstract || mem.Body == nil,
		Final:      final,
		Templates:  templateParams(doc, methodEnv),
		Throws:     throwsTypes(doc, methodEnv),
		Span:       span(b.fileID, mem),
	}
}

func (b *builder) classConst(cl *ClassLike, mem *ast.ClassConstDecl, env types.TemplateEnv) {
	doc, dbIssues := b.parseDoc(mem.Doc)
	b.issues = append(b.issues, dbIssues...)

	vis := Public
	if mem.Modifiers != nil {
		vis = visibilityOf(mem.Modifiers.Public, mem.Modifiers.Protected, mem.Modifiers.Private)
	}
	declared := docVarType(doc, env)
	if declared == nil {
		declared = types.MixedT
	}
	for _, c := range mem.Consts {
		cl.Constants[c.Name.Name] = &ClassConstant{
			Name:       c.Name.Name,
			Type:       declared,
			Visibility: vis,
			Span:       span(b.fileID, c.Name),
		}
	}
}

func (b *builder) enumCase(cl *ClassLike, mem *ast.EnumCaseDecl) {
	var backing *types.Type
	if lit, ok := mem.Value.(*ast.Literal); ok {
		backing = literalType(lit)
	}
	cl.Cases[mem.Name.Name] = &EnumCase{
		Name:         mem.Name.Name,
		BackingValue: backing,
		Span:         span(b.fileID, mem.Name),
	}
}

func literalType(lit *ast.Literal) *types.Type {
	switch lit.Kind {
	case token.T_LNUMBER:
		if v, err := strconv.ParseInt(lit.Value, 10, 64); err == nil {
			return types.LiteralIntT(v)
		}
		return nil
	case token.T_CONSTANT_ENCAPSED_STRING:
		return types.LiteralStringT(unquote(lit.Value))
	default:
		return nil
	}
}

// unquote strips the single or double quote delimiters a string literal's
// raw token text still carries.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func (b *builder) function(n *ast.FunctionDecl) *FunctionSymbol {
	doc, dbIssues := b.parseDoc(n.Doc)
	b.issues = append(b.issues, dbIssues...)
	env := templateEnv(doc)

	return &FunctionSymbol{
		Name:       b.identName(n.Name),
		Params:     b.params(n.Params, doc, env),
		Return:     b.returnType(n.ReturnType, doc, env),
		Templates:  templateParams(doc, env),
		Throws:     throwsTypes(doc, env),
		Span:       span(b.fileID, n),
		Deprecated: hasTag(doc, "deprecated"),
	}
}

func (b *builder) params(params []*ast.Parameter, doc *docblock.Docblock, env types.TemplateEnv) []Param {
	out := make([]Param, 0, len(params))
	for _, p := range params {
		name := variableName(p.Var)
		declared := b.typeExpr(p.Type)
		if declared == nil {
			declared = docParamType(doc, name, env)
		}
		if declared == nil {
			declared = types.MixedT
		}
		out = append(out, Param{
			Name:     name,
			Type:     declared,
			Optional: p.Default != nil || p.Variadic,
			Variadic: p.Variadic,
			ByRef:    p.ByRef,
		})
	}
	return out
}

func (b *builder) returnType(te *ast.TypeExpr, doc *docblock.Docblock, env types.TemplateEnv) *types.Type {
	if t := b.typeExpr(te); t != nil {
		return t
	}
	if doc != nil {
		for _, tag := range doc.Tags {
			if (tag.Name == "return" || tag.Name == "psalm-return" || tag.Name == "phpstan-return") && tag.Type != nil {
				return types.Construct(tag.Type, env)
			}
		}
	}
	return types.MixedT
}

// typeExpr lowers a declared (non-docblock) PHP type hint by reusing the
// docblock lowering rules: the hint syntax is a strict subset of the
// docblock type grammar, so a SimpleType/UnionType/IntersectionType is
// translated into the equivalent docblock.Type shape and handed to
// types.Construct instead of duplicating its primitive/class-name table.
func (b *builder) typeExpr(te *ast.TypeExpr) *types.Type {
	if te == nil {
		return nil
	}
	t := b.typeNode(te.Type)
	if t == nil {
		return nil
	}
	base := types.Construct(t, nil)
	if te.Nullable {
		return types.Union(types.NullT, base)
	}
	return base
}

func (b *builder) typeNode(t ast.Type) *docblock.Type {
	switch n := t.(type) {
	case nil:
		return nil
	case *ast.SimpleType:
		name := n.Name
		if res, ok := b.table.SimpleType(n); ok {
			name = res.Name
		}
		return &docblock.Type{Kind: docblock.KindPrimitive, Name: name}
	case *ast.UnionType:
		members := make([]*docblock.Type, 0, len(n.Types))
		for _, sub := range n.Types {
			if dt := b.typeNode(sub); dt != nil {
				members = append(members, dt)
			}
		}
		return &docblock.Type{Kind: docblock.KindUnion, Members: members}
	case *ast.IntersectionType:
		members := make([]*docblock.Type, 0, len(n.Types))
		for _, sub := range n.Types {
			if dt := b.typeNode(sub); dt != nil {
				members = append(members, dt)
			}
		}
		return &docblock.Type{Kind: docblock.KindIntersection, Members: members}
	default:
		return nil
	}
}

func (b *builder) parseDoc(doc *ast.DocComment) (*docblock.Docblock, []issue.Issue) {
	if doc == nil {
		return nil, nil
	}
	return docblock.Parse(doc, b.fileID)
}

func (b *builder) identName(id *ast.Ident) string {
	if id == nil {
		return ""
	}
	return id.Name
}

// canonicalConstName leaves a global constant's name untouched: unlike
// class-like and function names, PHP constants are case-sensitive, so the
// store's case-insensitive key is only ever a lookup convenience here,
// never a normalization of the declared name itself.
func (b *builder) canonicalConstName(name string) string {
	return name
}

func variableName(v *ast.Variable) string {
	if v == nil {
		return ""
	}
	if id, ok := v.Name.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func visibilityOf(public, protected, private bool) Visibility {
	switch {
	case private:
		return Private
	case protected:
		return Protected
	default:
		return Public
	}
}

func attributeNames(attrs []*ast.AttributeGroup) []string {
	var names []string
	for _, g := range attrs {
		for _, a := range g.Attrs {
			names = append(names, a.Name.Name)
		}
	}
	return names
}

func hasTag(doc *docblock.Docblock, name string) bool {
	if doc == nil {
		return false
	}
	for _, t := range doc.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// templateEnv maps each of doc's @template names to a bare TemplateParam
// placeholder, so a signature referencing its own template inside a
// param/return type constructs to that placeholder rather than being
// mistaken for an unresolved class-like name. The upper-bound constraint
// itself is recorded separately, in TemplateParam.Bound.
func templateEnv(doc *docblock.Docblock) types.TemplateEnv {
	if doc == nil {
		return nil
	}
	env := make(types.TemplateEnv)
	for _, t := range doc.Tags {
		if !strings.HasPrefix(t.Name, "template") {
			continue
		}
		env[t.TemplateName] = &types.Type{Kind: types.TemplateParam, Name: t.TemplateName}
	}
	return env
}

func mergeEnv(a, b types.TemplateEnv) types.TemplateEnv {
	if len(a) == 0 {
		return b
	}
	out := make(types.TemplateEnv, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func templateParams(doc *docblock.Docblock, env types.TemplateEnv) []TemplateParam {
	if doc == nil {
		return nil
	}
	var out []TemplateParam
	for _, t := range doc.Tags {
		if !strings.HasPrefix(t.Name, "template") {
			continue
		}
		var bound *types.Type
		if t.Type != nil {
			bound = types.Construct(t.Type, env)
		}
		out = append(out, TemplateParam{Name: t.TemplateName, Bound: bound, Variance: t.Variance})
	}
	return out
}

func throwsTypes(doc *docblock.Docblock, env types.TemplateEnv) []*types.Type {
	if doc == nil {
		return nil
	}
	var out []*types.Type
	for _, t := range doc.Tags {
		if t.Name == "throws" && t.Type != nil {
			out = append(out, types.Construct(t.Type, env))
		}
	}
	return out
}

func docVarType(doc *docblock.Docblock, env types.TemplateEnv) *types.Type {
	if doc == nil {
		return nil
	}
	for _, t := range doc.Tags {
		switch t.Name {
		case "var", "psalm-var", "phpstan-var":
			if t.Type != nil {
				return types.Construct(t.Type, env)
			}
		}
	}
	return nil
}

func docParamType(doc *docblock.Docblock, name string, env types.TemplateEnv) *types.Type {
	if doc == nil || name == "" {
		return nil
	}
	for _, t := range doc.Tags {
		if t.Name == "param" && t.SubjectName == name && t.Type != nil {
			return types.Construct(t.Type, env)
		}
	}
	return nil
}

// virtualMembers folds @property/@property-read/@property-write/@method
// docblock tags into cl's member maps as Virtual entries, without
// overwriting a real declaration of the same name (spec §4.5: "record the
// set of docblock-declared virtual members").
func (b *builder) virtualMembers(cl *ClassLike, doc *docblock.Docblock, env types.TemplateEnv) {
	if doc == nil {
		return
	}
	for _, t := range doc.Tags {
		switch t.Name {
		case "property", "property-read", "property-write":
			if _, exists := cl.Properties[t.SubjectName]; exists {
				continue
			}
			typ := types.MixedT
			if t.Type != nil {
				typ = types.Construct(t.Type, env)
			}
			cl.Properties[t.SubjectName] = &Property{
				Name:         t.SubjectName,
				Type:         typ,
				Visibility:   Public,
				Virtual:      true,
				ReadOnlyDoc:  t.Name == "property-read",
				WriteOnlyDoc: t.Name == "property-write",
				Span:         t.Span,
			}
		case "method":
			if _, exists := cl.Methods[t.SubjectName]; exists {
				continue
			}
			ret := types.MixedT
			if t.Type != nil {
				ret = types.Construct(t.Type, env)
			}
			params := make([]Param, 0, len(t.MethodParams))
			for _, p := range t.MethodParams {
				pt := types.MixedT
				if p.Type != nil {
					pt = types.Construct(p.Type, env)
				}
				params = append(params, Param{Type: pt, Variadic: p.Variadic, Optional: p.Optional})
			}
			cl.Methods[t.SubjectName] = &Method{
				Name:       t.SubjectName,
				Params:     params,
				Return:     ret,
				Visibility: Public,
				Static:     t.MethodStatic,
				Virtual:    true,
				Span:       t.Span,
			}
		}
	}
}

func span(fileID source.FileID, n ast.Node) source.Span {
	return ast.Span(fileID, n)
}
