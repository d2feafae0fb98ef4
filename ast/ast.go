// Package ast defines the Abstract Syntax Tree nodes for PHP.
package ast

import (
	"github.com/mago-php/mago-core/source"
	"github.com/mago-php/mago-core/token"
)

// Pos is a byte offset into one file's text. Unlike the teacher's
// interpreter, nothing downstream of parsing needs a live line/column: the
// analyzer and every diagnostic it emits address source through a
// source.Span (file id + byte range, §3), and source.File recomputes
// line/column from an offset on demand only when rendering a position for a
// human. Carrying Line/Column on every node as well would just be a second,
// driftable copy of what source.File already derives.
type Pos int

// Node is the base interface for all AST nodes.
type Node interface {
	Pos() Pos
	End() Pos
}

// Span resolves n's extent to a source.Span against file, the single choke
// point every package uses to turn an AST node into the source-id span an
// issue.Issue or analyzer.Trace entry carries.
func Span(file source.FileID, n Node) source.Span {
	return source.NewSpan(file, int(n.Pos()), int(n.End()))
}

// DocComment holds the raw text of a /** ... */ block attached to the
// declaration immediately following it. The docblock package parses Text
// into tags and type expressions; the AST itself only records where the
// comment was and what it said verbatim.
type DocComment struct {
	Start  Pos
	Text   string
	Finish Pos
}

func (d *DocComment) Pos() Pos { return d.Start }
func (d *DocComment) End() Pos { return d.Finish }

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is the interface for all declaration nodes.
type Decl interface {
	Node
	declNode()
}

// ----------------------------------------------------------------------------
// Expressions

// BadExpr represents a syntactically invalid expression.
type BadExpr struct {
	From, To Pos
}

// Ident represents an identifier.
type Ident struct {
	NamePos Pos
	Name    string
}

// Variable represents a PHP variable ($name).
type Variable struct {
	DollarPos Pos
	Name      Expr // Can be Ident for simple vars, or Expr for ${expr}
}

// Literal represents a literal value (int, float, string).
type Literal struct {
	ValuePos Pos
	Kind     token.Token // T_LNUMBER, T_DNUMBER, T_CONSTANT_ENCAPSED_STRING
	Value    string
}

// ArrayExpr represents an array literal.
type ArrayExpr struct {
	Lbrack   Pos
	Items    []*ArrayItem
	Rbrack   Pos
	IsShort  bool // [] vs array()
}

// ArrayItem represents a single array element.
type ArrayItem struct {
	Key      Expr // nil for value-only items
	Value    Expr
	ByRef    bool // &$value
	Unpack   bool // ...$arr
}

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	Left  Expr
	OpPos Pos
	Op    token.Token
	Right Expr
}

// UnaryExpr represents a unary expression.
type UnaryExpr struct {
	OpPos Pos
	Op    token.Token
	X     Expr
}

// PostfixExpr represents a postfix expression (++, --).
type PostfixExpr struct {
	X     Expr
	OpPos Pos
	Op    token.Token
}

// TernaryExpr represents a ternary expression (cond ? then : else).
type TernaryExpr struct {
	Cond      Expr
	Question  Pos
	Then      Expr // nil for Elvis operator (?:)
	Colon     Pos
	Else      Expr
}

// CoalesceExpr represents a null coalescing expression (??).
type CoalesceExpr struct {
	Left  Expr
	OpPos Pos
	Right Expr
}

// InstanceofExpr represents an instanceof expression.
type InstanceofExpr struct {
	Expr   Expr
	OpPos  Pos
	Class  Expr
}

// CastExpr represents a type cast expression.
type CastExpr struct {
	CastPos Pos
	Type    token.Token // T_INT_CAST, T_DOUBLE_CAST, etc.
	X       Expr
}

// CloneExpr represents a clone expression.
type CloneExpr struct {
	ClonePos Pos
	Expr     Expr
}

// NewExpr represents a new expression.
type NewExpr struct {
	NewPos Pos
	Class  Expr
	Args   *ArgumentList
}

// CallExpr represents a function or method call.
type CallExpr struct {
	Func Expr
	Args *ArgumentList
}

// ArgumentList represents a list of arguments.
type ArgumentList struct {
	Lparen Pos
	Args   []*Argument
	Rparen Pos
}

// Argument represents a single argument.
type Argument struct {
	Name   *Ident // Named argument (nil for positional)
	Value  Expr
	Unpack bool // ...$args
}

// MethodCallExpr represents a method call ($obj->method()).
type MethodCallExpr struct {
	Object   Expr
	Arrow    Pos
	NullSafe bool // ?->
	Method   Expr
	Args     *ArgumentList
}

// StaticCallExpr represents a static method call (Class::method()).
type StaticCallExpr struct {
	Class       Expr
	DoubleColon Pos
	Method      Expr
	Args        *ArgumentList
}

// PropertyFetchExpr represents property access ($obj->prop).
type PropertyFetchExpr struct {
	Object   Expr
	Arrow    Pos
	NullSafe bool // ?->
	Property Expr
}

// StaticPropertyFetchExpr represents static property access (Class::$prop).
type StaticPropertyFetchExpr struct {
	Class       Expr
	DoubleColon Pos
	Property    Expr
}

// ClassConstFetchExpr represents class constant access (Class::CONST).
type ClassConstFetchExpr struct {
	Class       Expr
	DoubleColon Pos
	Const       *Ident
}

// ArrayAccessExpr represents array access ($arr[key]).
type ArrayAccessExpr struct {
	Array  Expr
	Lbrack Pos
	Index  Expr // nil for $arr[]
	Rbrack Pos
}

// EncapsedStringExpr represents a double-quoted string with interpolation.
type EncapsedStringExpr struct {
	OpenQuote  Pos
	Parts      []Expr
	CloseQuote Pos
}

// HeredocExpr represents a heredoc/nowdoc string.
type HeredocExpr struct {
	StartPos Pos
	Label    string
	IsNowdoc bool
	Parts    []Expr
	EndPos   Pos
}

// ClosureExpr represents an anonymous function.
type ClosureExpr struct {
	Static     bool
	FuncPos    Pos
	ByRef      bool
	Params     []*Parameter
	Uses       []*ClosureUse
	ReturnType *TypeExpr
	Body       *BlockStmt
}

// ClosureUse represents a use clause variable.
type ClosureUse struct {
	ByRef bool
	Var   *Variable
}

// ArrowFuncExpr represents an arrow function (fn($x) => $x).
type ArrowFuncExpr struct {
	Static     bool
	FnPos      Pos
	ByRef      bool
	Params     []*Parameter
	ReturnType *TypeExpr
	Arrow      Pos
	Body       Expr
}

// YieldExpr represents a yield expression.
type YieldExpr struct {
	YieldPos Pos
	Key      Expr // nil for yield without key
	Value    Expr
}

// YieldFromExpr represents a yield from expression.
type YieldFromExpr struct {
	YieldPos Pos
	Expr     Expr
}

// ThrowExpr represents a throw expression.
type ThrowExpr struct {
	ThrowPos Pos
	Expr     Expr
}

// PrintExpr represents a print expression.
type PrintExpr struct {
	PrintPos Pos
	Expr     Expr
}

// IncludeExpr represents include/require expressions.
type IncludeExpr struct {
	IncludePos Pos
	Type       token.Token // T_INCLUDE, T_INCLUDE_ONCE, T_REQUIRE, T_REQUIRE_ONCE
	Expr       Expr
}

// IssetExpr represents an isset() expression.
type IssetExpr struct {
	IssetPos Pos
	Vars     []Expr
	Rparen   Pos
}

// EmptyExpr represents an empty() expression.
type EmptyExpr struct {
	EmptyPos Pos
	Expr     Expr
	Rparen   Pos
}

// EvalExpr represents an eval() expression.
type EvalExpr struct {
	EvalPos Pos
	Expr    Expr
	Rparen  Pos
}

// ExitExpr represents exit/die expressions.
type ExitExpr struct {
	ExitPos Pos
	Expr    Expr // nil for exit without argument
}

// ListExpr represents a list() expression.
type ListExpr struct {
	ListPos Pos
	Items   []*ArrayItem
	Rparen  Pos
	IsShort bool // [] vs list()
}

// MatchExpr represents a match expression.
type MatchExpr struct {
	MatchPos Pos
	Cond     Expr
	Lbrace   Pos
	Arms     []*MatchArm
	Rbrace   Pos
}

// MatchArm represents a single match arm.
type MatchArm struct {
	Conds   []Expr // nil for default
	Arrow   Pos
	Body    Expr
}

// AssignExpr represents an assignment expression.
type AssignExpr struct {
	Var   Expr
	OpPos Pos
	Op    token.Token // =, +=, -=, etc.
	Value Expr
}

// AssignRefExpr represents a reference assignment ($a = &$b).
type AssignRefExpr struct {
	Var      Expr
	Equals   Pos
	AmpPos   Pos
	Value    Expr
}

// ErrorSuppressExpr represents the error suppression operator (@).
type ErrorSuppressExpr struct {
	AtPos Pos
	Expr  Expr
}

// ShellExecExpr represents backtick string execution.
type ShellExecExpr struct {
	OpenTick  Pos
	Parts     []Expr
	CloseTick Pos
}

// MagicConstExpr represents magic constants (__LINE__, etc.).
type MagicConstExpr struct {
	ConstPos Pos
	Kind     token.Token
}

// ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	Lparen Pos
	X      Expr
	Rparen Pos
}

// Expression node implementations
func (*BadExpr) exprNode()               {}
func (*Ident) exprNode()                 {}
func (*Variable) exprNode()              {}
func (*Literal) exprNode()               {}
func (*ArrayExpr) exprNode()             {}
func (*BinaryExpr) exprNode()            {}
func (*UnaryExpr) exprNode()             {}
func (*PostfixExpr) exprNode()           {}
func (*TernaryExpr) exprNode()           {}
func (*CoalesceExpr) exprNode()          {}
func (*InstanceofExpr) exprNode()        {}
func (*CastExpr) exprNode()              {}
func (*CloneExpr) exprNode()             {}
func (*NewExpr) exprNode()               {}
func (*CallExpr) exprNode()              {}
func (*MethodCallExpr) exprNode()        {}
func (*StaticCallExpr) exprNode()        {}
func (*PropertyFetchExpr) exprNode()     {}
func (*StaticPropertyFetchExpr) exprNode() {}
func (*ClassConstFetchExpr) exprNode()   {}
func (*ArrayAccessExpr) exprNode()       {}
func (*EncapsedStringExpr) exprNode()    {}
func (*HeredocExpr) exprNode()           {}
func (*ClosureExpr) exprNode()           {}
func (*ArrowFuncExpr) exprNode()         {}
func (*YieldExpr) exprNode()             {}
func (*YieldFromExpr) exprNode()         {}
func (*ThrowExpr) exprNode()             {}
func (*PrintExpr) exprNode()             {}
func (*IncludeExpr) exprNode()           {}
func (*IssetExpr) exprNode()             {}
func (*EmptyExpr) exprNode()             {}
func (*EvalExpr) exprNode()              {}
func (*ExitExpr) exprNode()              {}
func (*ListExpr) exprNode()              {}
func (*MatchExpr) exprNode()             {}
func (*AssignExpr) exprNode()            {}
func (*AssignRefExpr) exprNode()         {}
func (*ErrorSuppressExpr) exprNode()     {}
func (*ShellExecExpr) exprNode()         {}
func (*MagicConstExpr) exprNode()        {}
func (*ParenExpr) exprNode()             {}

// Pos implementations for expressions
func (x *BadExpr) Pos() Pos               { return x.From }
func (x *Ident) Pos() Pos                 { return x.NamePos }
func (x *Variable) Pos() Pos              { return x.DollarPos }
func (x *Literal) Pos() Pos               { return x.ValuePos }
func (x *ArrayExpr) Pos() Pos             { return x.Lbrack }
func (x *BinaryExpr) Pos() Pos            { return x.Left.Pos() }
func (x *UnaryExpr) Pos() Pos             { return x.OpPos }
func (x *PostfixExpr) Pos() Pos           { return x.X.Pos() }
func (x *TernaryExpr) Pos() Pos           { return x.Cond.Pos() }
func (x *CoalesceExpr) Pos() Pos          { return x.Left.Pos() }
func (x *InstanceofExpr) Pos() Pos        { return x.Expr.Pos() }
func (x *CastExpr) Pos() Pos              { return x.CastPos }
func (x *CloneExpr) Pos() Pos             { return x.ClonePos }
func (x *NewExpr) Pos() Pos               { return x.NewPos }
func (x *CallExpr) Pos() Pos              { return x.Func.Pos() }
func (x *MethodCallExpr) Pos() Pos        { return x.Object.Pos() }
func (x *StaticCallExpr) Pos() Pos        { return x.Class.Pos() }
func (x *PropertyFetchExpr) Pos() Pos     { return x.Object.Pos() }
func (x *StaticPropertyFetchExpr) Pos() Pos { return x.Class.Pos() }
func (x *ClassConstFetchExpr) Pos() Pos   { return x.Class.Pos() }
func (x *ArrayAccessExpr) Pos() Pos       { return x.Array.Pos() }
func (x *EncapsedStringExpr) Pos() Pos    { return x.OpenQuote }
func (x *HeredocExpr) Pos() Pos           { return x.StartPos }
func (x *ClosureExpr) Pos() Pos           { return x.FuncPos }
func (x *ArrowFuncExpr) Pos() Pos         { return x.FnPos }
func (x *YieldExpr) Pos() Pos             { return x.YieldPos }
func (x *YieldFromExpr) Pos() Pos         { return x.YieldPos }
func (x *ThrowExpr) Pos() Pos             { return x.ThrowPos }
func (x *PrintExpr) Pos() Pos             { return x.PrintPos }
func (x *IncludeExpr) Pos() Pos           { return x.IncludePos }
func (x *IssetExpr) Pos() Pos             { return x.IssetPos }
func (x *EmptyExpr) Pos() Pos             { return x.EmptyPos }
func (x *EvalExpr) Pos() Pos              { return x.EvalPos }
func (x *ExitExpr) Pos() Pos              { return x.ExitPos }
func (x *ListExpr) Pos() Pos              { return x.ListPos }
func (x *MatchExpr) Pos() Pos             { return x.MatchPos }
func (x *AssignExpr) Pos() Pos            { return x.Var.Pos() }
func (x *AssignRefExpr) Pos() Pos         { return x.Var.Pos() }
func (x *ErrorSuppressExpr) Pos() Pos     { return x.AtPos }
func (x *ShellExecExpr) Pos() Pos         { return x.OpenTick }
func (x *MagicConstExpr) Pos() Pos        { return x.ConstPos }
func (x *ParenExpr) Pos() Pos             { return x.Lparen }

// End implementations for expressions
func (x *BadExpr) End() Pos               { return x.To }
func (x *Ident) End() Pos                 { return x.NamePos + Pos(len(x.Name)) }
func (x *Variable) End() Pos              { return x.Name.End() }
func (x *Literal) End() Pos               { return x.ValuePos + Pos(len(x.Value)) }
func (x *ArrayExpr) End() Pos             { return x.Rbrack }
func (x *BinaryExpr) End() Pos            { return x.Right.End() }
func (x *UnaryExpr) End() Pos             { return x.X.End() }
func (x *PostfixExpr) End() Pos           { return x.OpPos }
func (x *TernaryExpr) End() Pos           { return x.Else.End() }
func (x *CoalesceExpr) End() Pos          { return x.Right.End() }
func (x *InstanceofExpr) End() Pos        { return x.Class.End() }
func (x *CastExpr) End() Pos              { return x.X.End() }
func (x *CloneExpr) End() Pos             { return x.Expr.End() }
func (x *NewExpr) End() Pos               { if x.Args != nil { return x.Args.Rparen }; return x.Class.End() }
func (x *CallExpr) End() Pos              { return x.Args.Rparen }
func (x *MethodCallExpr) End() Pos        { return x.Args.Rparen }
func (x *StaticCallExpr) End() Pos        { return x.Args.Rparen }
func (x *PropertyFetchExpr) End() Pos     { return x.Property.End() }
func (x *StaticPropertyFetchExpr) End() Pos { return x.Property.End() }
func (x *ClassConstFetchExpr) End() Pos   { return x.Const.End() }
func (x *ArrayAccessExpr) End() Pos       { return x.Rbrack }
func (x *EncapsedStringExpr) End() Pos    { return x.CloseQuote }
func (x *HeredocExpr) End() Pos           { return x.EndPos }
func (x *ClosureExpr) End() Pos           { return x.Body.End() }
func (x *ArrowFuncExpr) End() Pos         { return x.Body.End() }
func (x *YieldExpr) End() Pos             { if x.Value != nil { return x.Value.End() }; return x.YieldPos }
func (x *YieldFromExpr) End() Pos         { return x.Expr.End() }
func (x *ThrowExpr) End() Pos             { return x.Expr.End() }
func (x *PrintExpr) End() Pos             { return x.Expr.End() }
func (x *IncludeExpr) End() Pos           { return x.Expr.End() }
func (x *IssetExpr) End() Pos             { return x.Rparen }
func (x *EmptyExpr) End() Pos             { return x.Rparen }
func (x *EvalExpr) End() Pos              { return x.Rparen }
func (x *ExitExpr) End() Pos              { if x.Expr != nil { return x.Expr.End() }; return x.ExitPos }
func (x *ListExpr) End() Pos              { return x.Rparen }
func (x *MatchExpr) End() Pos             { return x.Rbrace }
func (x *AssignExpr) End() Pos            { return x.Value.End() }
func (x *AssignRefExpr) End() Pos         { return x.Value.End() }
func (x *ErrorSuppressExpr) End() Pos     { return x.Expr.End() }
func (x *ShellExecExpr) End() Pos         { return x.CloseTick }
func (x *MagicConstExpr) End() Pos        { return x.ConstPos }
func (x *ParenExpr) End() Pos             { return x.Rparen }
