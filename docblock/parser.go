package docblock

import (
	"strconv"
	"strings"

	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/source"
)

// tparser is a small recursive-descent parser over the type-expression
// sub-grammar, built the same way parser.Parser is built: two-token
// lookahead, a prefix/infix split by precedence, bad nodes instead of nils
// on error so a malformed fragment never aborts the whole docblock.
type tparser struct {
	lex  *tlexer
	cur  ttok
	peek ttok

	file source.FileID
	base int // byte offset of the type text's start within the file
	errs []issue.Issue
}

// ParseType parses a single type expression (the operand of @param,
// @return, @var, @template, and similar tags). base is the byte offset of
// text's first byte within the original source file, so every Span on the
// resulting tree points at the real file rather than at the isolated
// docblock string.
func ParseType(text string, file source.FileID, base int) (*Type, []issue.Issue) {
	p := &tparser{lex: newTLexer(text), file: file, base: base}
	p.advance()
	p.advance()
	t := p.parseUnion()
	return t, p.errs
}

func (p *tparser) advance() {
	p.cur = p.peek
	p.peek = p.lex.next()
}

func (p *tparser) span(start, end int) source.Span {
	return source.Span{File: p.file, Start: p.base + start, End: p.base + end}
}

func (p *tparser) errorf(start, end int, msg string) {
	p.errs = append(p.errs, issue.New(issue.InvalidDocblockType, p.span(start, end), msg))
}

func (p *tparser) bad(start int) *Type {
	end := p.cur.start
	if end <= start {
		end = start + 1
	}
	p.errorf(start, end, "could not parse type fragment")
	return &Type{Kind: KindBad, Span: p.span(start, end)}
}

// parseUnion handles `A|B|C`, the loosest-binding operator.
func (p *tparser) parseUnion() *Type {
	start := p.cur.start
	first := p.parseIntersection()
	if p.cur.kind != tPipe {
		return first
	}
	members := []*Type{first}
	for p.cur.kind == tPipe {
		p.advance()
		members = append(members, p.parseIntersection())
	}
	return &Type{Kind: KindUnion, Members: members, Span: p.span(start, p.cur.start)}
}

// parseIntersection handles `A&B`, binding tighter than union. An `&`
// followed by `...` or a variable marks a by-reference parameter
// (`T &...$xs`, `T &$x`) and is left for the caller.
func (p *tparser) parseIntersection() *Type {
	start := p.cur.start
	first := p.parseNullable()
	if p.cur.kind != tAmp || p.peek.kind == tEllipsis || p.peek.kind == tVariable {
		return first
	}
	members := []*Type{first}
	for p.cur.kind == tAmp && p.peek.kind != tEllipsis && p.peek.kind != tVariable {
		p.advance()
		members = append(members, p.parseNullable())
	}
	return &Type{Kind: KindIntersection, Members: members, Span: p.span(start, p.cur.start)}
}

// parseNullable handles the prefix `?T` shorthand for `T|null`.
func (p *tparser) parseNullable() *Type {
	if p.cur.kind == tQuestion {
		start := p.cur.start
		p.advance()
		inner := p.parsePostfix()
		return &Type{Kind: KindNullable, Inner: inner, Span: p.span(start, p.cur.start)}
	}
	return p.parsePostfix()
}

// parsePostfix handles suffixes applied to an atom: generic application
// `C<A,B>` and the array shorthand `T[]` (desugared to list<T>).
func (p *tparser) parsePostfix() *Type {
	start := p.cur.start
	t := p.parseAtom()
	for {
		switch p.cur.kind {
		case tLt:
			p.advance()
			var args []*Type
			for {
				args = append(args, p.parseUnion())
				if p.cur.kind == tComma {
					p.advance()
					continue
				}
				break
			}
			if p.cur.kind == tGt {
				p.advance()
			} else {
				p.errorf(start, p.cur.start, "expected '>' to close generic argument list")
			}
			t = &Type{Kind: KindGeneric, Base: t, Args: args, Span: p.span(start, p.cur.start)}
		case tLBracket:
			p.advance()
			if p.cur.kind == tRBracket {
				p.advance()
			} else {
				p.errorf(start, p.cur.start, "expected ']' after '[' in array-suffix type")
			}
			t = &Type{Kind: KindGeneric, Base: &Type{Kind: KindClassRef, Name: "list", Span: t.Span}, Args: []*Type{t}, Span: p.span(start, p.cur.start)}
		case tDoubleColon:
			// Foo::CONST or Foo::class style class-constant reference used
			// inside literal/key-of contexts; treated as a qualified name.
			p.advance()
			name := t.Name
			if p.cur.kind == tIdent {
				name = name + "::" + p.cur.text
				p.advance()
			} else {
				p.errorf(start, p.cur.start, "expected identifier after '::'")
			}
			t = &Type{Kind: KindClassRef, Name: name, Span: p.span(start, p.cur.start)}
		default:
			return t
		}
	}
}

// parseAtom parses a single non-compound type term: a primitive/class
// name, a literal, an array/list shape, a callable signature, a key-of
// or value-of wrapper, or a parenthesized group (including conditional
// return types).
func (p *tparser) parseAtom() *Type {
	start := p.cur.start
	switch p.cur.kind {
	case tVariable:
		name := p.cur.text
		p.advance()
		return &Type{Kind: KindClassRef, Name: name, Span: p.span(start, p.cur.start)}

	case tInt:
		lit := p.cur.text
		p.advance()
		return &Type{Kind: KindLiteral, Literal: lit, Span: p.span(start, p.cur.start)}

	case tString:
		lit := p.cur.text
		if unquoted, err := strconv.Unquote(normalizeQuote(lit)); err == nil {
			lit = unquoted
		} else {
			lit = strings.Trim(lit, `'"`)
		}
		p.advance()
		return &Type{Kind: KindLiteral, Literal: lit, LiteralIsString: true, Span: p.span(start, p.cur.start)}

	case tLParen:
		p.advance()
		inner := p.parseUnion()
		if p.cur.kind == tIdent && p.cur.text == "is" {
			return p.parseConditionalFrom(start, inner)
		}
		if p.cur.kind == tRParen {
			p.advance()
		} else {
			p.errorf(start, p.cur.start, "expected ')' to close grouped type")
		}
		return inner

	case tIdent:
		return p.parseIdentAtom(start)

	default:
		p.advance()
		return p.bad(start)
	}
}

// parseIdentAtom dispatches on the identifier's text: array/list shapes,
// callable signatures, key-of/value-of, or a plain name (primitive,
// class-like, self/static/parent).
func (p *tparser) parseIdentAtom(start int) *Type {
	name := p.cur.text
	lower := strings.ToLower(name)
	p.advance()

	switch lower {
	case "array", "list":
		if p.cur.kind == tLBrace {
			return p.parseShape(start, lower == "list")
		}
		return &Type{Kind: KindClassRef, Name: name, Span: p.span(start, p.cur.start)}

	case "callable", "closure", "pure-callable", "pure-closure":
		if p.cur.kind == tLParen {
			return p.parseCallable(start)
		}
		return &Type{Kind: KindClassRef, Name: name, Span: p.span(start, p.cur.start)}

	case "key-of", "keyof":
		return &Type{Kind: KindKeyOf, Inner: p.parseKeyValueOfArgument(start), Span: p.span(start, p.cur.start)}

	case "value-of", "valueof":
		return &Type{Kind: KindValueOf, Inner: p.parseKeyValueOfArgument(start), Span: p.span(start, p.cur.start)}

	case "true", "false", "null":
		return &Type{Kind: KindLiteral, Literal: lower, Span: p.span(start, p.cur.start)}

	default:
		full := name
		for p.cur.kind == tDoubleColon {
			p.advance()
			if p.cur.kind == tIdent {
				full = full + "::" + p.cur.text
				p.advance()
			}
		}
		return &Type{Kind: KindClassRef, Name: full, Span: p.span(start, p.cur.start)}
	}
}

// parseKeyValueOfArgument parses the `<T>` argument of key-of<T>/value-of<T>,
// falling back to a bare postfix type for the rarer `key-of T` spelling.
func (p *tparser) parseKeyValueOfArgument(start int) *Type {
	if p.cur.kind == tLt {
		p.advance()
		inner := p.parseUnion()
		if p.cur.kind == tGt {
			p.advance()
		} else {
			p.errorf(start, p.cur.start, "expected '>' to close key-of/value-of argument")
		}
		return inner
	}
	return p.parsePostfix()
}

// parseShape parses `array{k: T, k2?: T2, ...}` and `list{T, T2}`.
func (p *tparser) parseShape(start int, isList bool) *Type {
	p.advance() // consume '{'
	kind := KindArrayShape
	if isList {
		kind = KindListShape
	}
	t := &Type{Kind: kind, Sealed: true}

	for p.cur.kind != tRBrace && p.cur.kind != tEOF {
		if p.cur.kind == tEllipsis {
			p.advance()
			t.Sealed = false
			if p.cur.kind == tLt {
				p.advance()
				t.KeyType = p.parseUnion()
				if p.cur.kind == tComma {
					p.advance()
					t.ValueType = p.parseUnion()
				}
				if p.cur.kind == tGt {
					p.advance()
				}
			}
			break
		}

		field := ShapeField{}
		if !isList && (p.cur.kind == tIdent || p.cur.kind == tString || p.cur.kind == tInt) {
			key := p.cur.text
			keyIsInt := p.cur.kind == tInt
			keyStart := p.cur.start
			keyPeekKind := p.peek.kind
			if keyPeekKind == tQuestion || keyPeekKind == tColon {
				p.advance()
				if p.cur.kind == tQuestion {
					field.Optional = true
					p.advance()
				}
				if p.cur.kind == tColon {
					p.advance()
				} else {
					p.errorf(keyStart, p.cur.start, "expected ':' after array-shape key")
				}
				field.Key = key
				field.KeyIsInt = keyIsInt
			}
		}
		field.Value = p.parseUnion()
		t.Fields = append(t.Fields, field)

		if p.cur.kind == tComma {
			p.advance()
			continue
		}
		break
	}

	if p.cur.kind == tRBrace {
		p.advance()
	} else {
		p.errorf(start, p.cur.start, "expected '}' to close array/list shape")
	}
	t.Span = p.span(start, p.cur.start)
	return t
}

// parseCallable parses `callable(T1, T2=, T3...): R`.
func (p *tparser) parseCallable(start int) *Type {
	p.advance() // consume '('
	t := &Type{Kind: KindCallable}

	for p.cur.kind != tRParen && p.cur.kind != tEOF {
		param := CallableParam{Type: p.parseUnion()}
		if p.cur.kind == tEllipsis {
			param.Variadic = true
			p.advance()
		}
		if p.cur.kind == tEquals {
			param.Optional = true
			p.advance()
		}
		t.Params = append(t.Params, param)
		if p.cur.kind == tComma {
			p.advance()
			continue
		}
		break
	}

	if p.cur.kind == tRParen {
		p.advance()
	} else {
		p.errorf(start, p.cur.start, "expected ')' to close callable parameter list")
	}

	if p.cur.kind == tColon {
		p.advance()
		t.Return = p.parseUnion()
	}
	t.Span = p.span(start, p.cur.start)
	return t
}

// parseConditionalFrom finishes `(Subject is Type ? Then : Otherwise)`
// after the leading `(Subject` has already been parsed as inner and the
// `is` keyword has just been recognised in p.cur.
func (p *tparser) parseConditionalFrom(start int, subject *Type) *Type {
	p.advance() // consume 'is'
	negated := false
	if p.cur.kind == tIdent && strings.EqualFold(p.cur.text, "not") {
		negated = true
		p.advance()
	}
	isType := p.parseUnion()

	subjectName := subject.Name
	if p.cur.kind == tQuestion {
		p.advance()
	} else {
		p.errorf(start, p.cur.start, "expected '?' in conditional return type")
	}
	then := p.parseUnion()
	var otherwise *Type
	if p.cur.kind == tColon {
		p.advance()
		otherwise = p.parseUnion()
	}
	if p.cur.kind == tRParen {
		p.advance()
	} else {
		p.errorf(start, p.cur.start, "expected ')' to close conditional return type")
	}
	return &Type{
		Kind:      KindConditional,
		Subject:   subjectName,
		Is:        isType,
		IsNot:     negated,
		Then:      then,
		Otherwise: otherwise,
		Span:      p.span(start, p.cur.start),
	}
}

func normalizeQuote(lit string) string {
	if len(lit) >= 2 && lit[0] == '\'' && lit[len(lit)-1] == '\'' {
		return `"` + strings.ReplaceAll(lit[1:len(lit)-1], `"`, `\"`) + `"`
	}
	return lit
}
