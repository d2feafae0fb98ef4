package ast

import "github.com/mago-php/mago-core/token"

// ----------------------------------------------------------------------------
// Declarations

// BadDecl represents a syntactically invalid declaration.
type BadDecl struct {
	From, To Pos
}

// NamespaceDecl represents a namespace declaration.
type NamespaceDecl struct {
	NamespacePos Pos
	Name         Expr // nil for global namespace
	Lbrace       Pos // For bracketed namespace
	Stmts        []Stmt
	Rbrace       Pos
	Bracketed    bool
}

// UseDecl represents a use declaration.
type UseDecl struct {
	UsePos Pos
	Type   token.Token // T_USE, T_FUNCTION, T_CONST or 0 for class
	Uses   []*UseClause
}

// UseClause represents a single use clause.
type UseClause struct {
	Type  token.Token // For grouped imports
	Name  Expr
	Alias *Ident
}

// ConstDecl represents a constant declaration.
type ConstDecl struct {
	ConstPos  Pos
	Consts    []*ConstSpec
	Semicolon Pos
}

// ConstSpec represents a single constant.
type ConstSpec struct {
	Name  *Ident
	Value Expr
}

// FunctionDecl represents a function declaration.
type FunctionDecl struct {
	Doc        *DocComment
	Attrs      []*AttributeGroup
	FuncPos    Pos
	ByRef      bool
	Name       *Ident
	Params     []*Parameter
	ReturnType *TypeExpr
	Body       *BlockStmt
}

// ClassDecl represents a class declaration.
type ClassDecl struct {
	Doc        *DocComment
	Attrs      []*AttributeGroup
	Modifiers  *ClassModifiers
	ClassPos   Pos
	Name       *Ident
	Extends    Expr
	Implements []Expr
	Lbrace     Pos
	Members    []ClassMember
	Rbrace     Pos
}

// ClassModifiers represents class modifiers (abstract, final, readonly).
type ClassModifiers struct {
	Abstract bool
	Final    bool
	Readonly bool
}

// InterfaceDecl represents an interface declaration.
type InterfaceDecl struct {
	Doc          *DocComment
	Attrs        []*AttributeGroup
	InterfacePos Pos
	Name         *Ident
	Extends      []Expr
	Lbrace       Pos
	Members      []ClassMember
	Rbrace       Pos
}

// TraitDecl represents a trait declaration.
type TraitDecl struct {
	Doc      *DocComment
	Attrs    []*AttributeGroup
	TraitPos Pos
	Name     *Ident
	Lbrace   Pos
	Members  []ClassMember
	Rbrace   Pos
}

// EnumDecl represents an enum declaration.
type EnumDecl struct {
	Doc        *DocComment
	Attrs      []*AttributeGroup
	EnumPos    Pos
	Name       *Ident
	BackingType *TypeExpr
	Implements []Expr
	Lbrace     Pos
	Members    []ClassMember
	Rbrace     Pos
}

// ClassMember is the interface for class members.
type ClassMember interface {
	Node
	classMemberNode()
}

// PropertyDecl represents a property declaration.
type PropertyDecl struct {
	Doc        *DocComment
	Attrs      []*AttributeGroup
	Modifiers  *PropertyModifiers
	Type       *TypeExpr
	Props      []*PropertyItem
	Semicolon  Pos
}

// PropertyModifiers represents property modifiers.
type PropertyModifiers struct {
	Public    bool
	Protected bool
	Private   bool
	Static    bool
	Readonly  bool
	PublicSet    bool // public(set)
	ProtectedSet bool // protected(set)
	PrivateSet   bool // private(set)
}

// PropertyItem represents a single property.
type PropertyItem struct {
	Var     *Variable
	Default Expr
	Hooks   *PropertyHooks
}

// PropertyHooks represents property hooks (get/set).
type PropertyHooks struct {
	Lbrace Pos
	Get    *PropertyHook
	Set    *PropertyHook
	Rbrace Pos
}

// PropertyHook represents a single property hook.
type PropertyHook struct {
	Attrs  []*AttributeGroup
	ByRef  bool
	Name   *Ident
	Params []*Parameter // For set hook
	Body   Stmt         // BlockStmt or ExprStmt (=> expr;)
}

// MethodDecl represents a method declaration.
type MethodDecl struct {
	Doc        *DocComment
	Attrs      []*AttributeGroup
	Modifiers  *MethodModifiers
	FuncPos    Pos
	ByRef      bool
	Name       *Ident
	Params     []*Parameter
	ReturnType *TypeExpr
	Body       *BlockStmt // nil for abstract/interface methods
}

// MethodModifiers represents method modifiers.
type MethodModifiers struct {
	Public    bool
	Protected bool
	Private   bool
	Static    bool
	Abstract  bool
	Final     bool
}

// ClassConstDecl represents a class constant declaration.
type ClassConstDecl struct {
	Doc       *DocComment
	Attrs     []*AttributeGroup
	Modifiers *ConstModifiers
	ConstPos  Pos
	Consts    []*ConstSpec
	Semicolon Pos
}

// ConstModifiers represents constant modifiers.
type ConstModifiers struct {
	Public    bool
	Protected bool
	Private   bool
	Final     bool
}

// TraitUseDecl represents a trait use declaration in a class.
type TraitUseDecl struct {
	UsePos      Pos
	Traits      []Expr
	Adaptations []*TraitAdaptation
}

// TraitAdaptation represents a trait adaptation.
type TraitAdaptation struct {
	Trait      Expr
	Method     *Ident
	Insteadof  []Expr // For insteadof
	Alias      *Ident // For as
	Visibility token.Token
}

// EnumCaseDecl represents an enum case declaration.
type EnumCaseDecl struct {
	Attrs    []*AttributeGroup
	CasePos  Pos
	Name     *Ident
	Value    Expr
	Semicolon Pos
}

// Class member implementations
func (*PropertyDecl) classMemberNode()   {}
func (*MethodDecl) classMemberNode()     {}
func (*ClassConstDecl) classMemberNode() {}
func (*TraitUseDecl) classMemberNode()   {}
func (*EnumCaseDecl) classMemberNode()   {}

// Declaration implementations
func (*BadDecl) declNode()       {}
func (*NamespaceDecl) declNode() {}
func (*UseDecl) declNode()       {}
func (*ConstDecl) declNode()     {}
func (*FunctionDecl) declNode()  {}
func (*ClassDecl) declNode()     {}
func (*InterfaceDecl) declNode() {}
func (*TraitDecl) declNode()     {}
func (*EnumDecl) declNode()      {}

// Statement implementations for declarations
func (*NamespaceDecl) stmtNode() {}
func (*UseDecl) stmtNode()       {}
func (*ConstDecl) stmtNode()     {}
func (*FunctionDecl) stmtNode()  {}
func (*ClassDecl) stmtNode()     {}
func (*InterfaceDecl) stmtNode() {}
func (*TraitDecl) stmtNode()     {}
func (*EnumDecl) stmtNode()      {}

// Pos implementations for declarations
func (d *BadDecl) Pos() Pos       { return d.From }
func (d *NamespaceDecl) Pos() Pos { return d.NamespacePos }
func (d *UseDecl) Pos() Pos       { return d.UsePos }
func (d *ConstDecl) Pos() Pos     { return d.ConstPos }
func (d *FunctionDecl) Pos() Pos  { return d.FuncPos }
func (d *ClassDecl) Pos() Pos     { return d.ClassPos }
func (d *InterfaceDecl) Pos() Pos { return d.InterfacePos }
func (d *TraitDecl) Pos() Pos     { return d.TraitPos }
func (d *EnumDecl) Pos() Pos      { return d.EnumPos }

// Pos implementations for class members
func (m *PropertyDecl) Pos() Pos   { return m.Props[0].Var.Pos() }
func (m *MethodDecl) Pos() Pos     { return m.FuncPos }
func (m *ClassConstDecl) Pos() Pos { return m.ConstPos }
func (m *TraitUseDecl) Pos() Pos   { return m.UsePos }
func (m *EnumCaseDecl) Pos() Pos   { return m.CasePos }

// End implementations for declarations
func (d *BadDecl) End() Pos       { return d.To }
func (d *NamespaceDecl) End() Pos { if d.Bracketed { return d.Rbrace }; return d.NamespacePos }
func (d *UseDecl) End() Pos       { return d.UsePos }
func (d *ConstDecl) End() Pos     { return d.Semicolon }
func (d *FunctionDecl) End() Pos  { return d.Body.End() }
func (d *ClassDecl) End() Pos     { return d.Rbrace }
func (d *InterfaceDecl) End() Pos { return d.Rbrace }
func (d *TraitDecl) End() Pos     { return d.Rbrace }
func (d *EnumDecl) End() Pos      { return d.Rbrace }

// End implementations for class members
func (m *PropertyDecl) End() Pos   { return m.Semicolon }
func (m *MethodDecl) End() Pos     { if m.Body != nil { return m.Body.End() }; return m.FuncPos }
func (m *ClassConstDecl) End() Pos { return m.Semicolon }
func (m *TraitUseDecl) End() Pos   { return m.UsePos }
func (m *EnumCaseDecl) End() Pos   { return m.Semicolon }

// ----------------------------------------------------------------------------
// File

// File represents a PHP source file.
type File struct {
	Name    string
	Stmts   []Stmt
	OpenTag Pos
}

func (f *File) Pos() Pos { return f.OpenTag }
func (f *File) End() Pos {
	if len(f.Stmts) > 0 {
		return f.Stmts[len(f.Stmts)-1].End()
	}
	return f.OpenTag
}
