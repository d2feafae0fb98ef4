package docblock

import (
	"strings"

	"github.com/mago-php/mago-core/ast"
	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/source"
)

// Docblock is a parsed /** ... */ comment: the free-form summary and
// description text, plus every @tag line it carries.
type Docblock struct {
	Span        source.Span
	Summary     string
	Description string
	Tags        []Tag
}

// Tag is one @tag line. Which fields are populated depends on Name; see
// the parse* helpers below for the shape each tag kind fills in.
type Tag struct {
	Name string
	Span source.Span

	// Type-bearing tags (@param, @return, @var, @property*, @param-out,
	// @throws, @template's constraint, the assert tags).
	Type *Type

	// @param, @property*, @method: the subject's name, without the
	// leading '$' for variables.
	SubjectName string
	Variadic    bool
	ByRef       bool

	// @template: the bound name (the "T" in @template T of Foo).
	TemplateName string
	// @template: variance, "" unless declared covariant/contravariant.
	Variance string

	// @method: the declared return type and parameter list, when the
	// signature form `@method ReturnType name(Type $p, ...)` is used, and
	// whether the `static` modifier preceded the return type.
	MethodParams []CallableParam
	MethodStatic bool

	// @assert / @assert-if-true / @assert-if-false / @psalm-assert(-if-*)
	// and the phpstan- forms: true for the -if-false variants. The
	// asserted-on parameter's name is in SubjectName.
	AssertNegated bool

	Description string
	Raw         string
}

// Parse parses the raw text of a /** ... */ comment (doc.Text, including
// the delimiters) into a Docblock. Every Type and Span produced is
// relative to file, using doc.Start as the comment's base offset, so a
// downstream diagnostic can point straight at the PHP source that carries
// the malformed docblock, not at an isolated string.
func Parse(doc *ast.DocComment, file source.FileID) (*Docblock, []issue.Issue) {
	var diags []issue.Issue
	base := int(doc.Start)
	text := doc.Text

	db := &Docblock{
		Span: source.NewSpan(file, base, base+len(text)),
	}

	lines := splitLinesWithOffsets(text)
	var summary, description strings.Builder
	var currentTag *Tag
	inTags := false

	flushTag := func() {
		if currentTag == nil {
			return
		}
		finishTag(currentTag)
		db.Tags = append(db.Tags, *currentTag)
		currentTag = nil
	}

	for _, ln := range lines {
		body, bodyOffset := stripLinePrefix(ln.text, base+ln.offset)
		trimmed := strings.TrimSpace(body)
		if trimmed == "" {
			if currentTag == nil && !inTags {
				if summary.Len() > 0 {
					description.WriteString("\n")
				}
			}
			continue
		}

		if strings.HasPrefix(trimmed, "@") {
			flushTag()
			inTags = true
			leading := len(body) - len(strings.TrimLeft(body, " \t"))
			name, rest, restOffset := splitTagName(body[leading:], bodyOffset+leading)
			tagStart := restOffset - len(name) - 1
			currentTag = &Tag{
				Name: name,
				Span: source.NewSpan(file, tagStart, tagStart+len(name)+1),
				Raw:  rest,
			}
			parseTagBody(currentTag, rest, file, restOffset, &diags)
			continue
		}

		if currentTag != nil {
			currentTag.Description = strings.TrimSpace(currentTag.Description + " " + trimmed)
			continue
		}

		if !inTags {
			if summary.Len() == 0 {
				summary.WriteString(trimmed)
			} else {
				if description.Len() > 0 {
					description.WriteString(" ")
				}
				description.WriteString(trimmed)
			}
		}
	}
	flushTag()

	db.Summary = strings.TrimSpace(summary.String())
	db.Description = strings.TrimSpace(description.String())
	return db, diags
}

// finishTag trims any trailing whitespace accumulated while folding
// continuation lines into a tag's description.
func finishTag(t *Tag) {
	t.Description = strings.TrimSpace(t.Description)
}

type rawLine struct {
	text   string
	offset int
}

// splitLinesWithOffsets splits text into lines, recording each line's
// starting byte offset within text so later offsets can be translated
// into file-relative spans via base+offset.
func splitLinesWithOffsets(text string) []rawLine {
	var lines []rawLine
	offset := 0
	for {
		idx := strings.IndexByte(text[offset:], '\n')
		if idx < 0 {
			lines = append(lines, rawLine{text: text[offset:], offset: offset})
			break
		}
		lines = append(lines, rawLine{text: text[offset : offset+idx], offset: offset})
		offset += idx + 1
	}
	return lines
}

// stripLinePrefix removes the comment delimiters (`/**`, ` * `, `*/`) from
// one physical line, returning the remaining body text and the byte
// offset (within the original comment text) of that body's first byte.
func stripLinePrefix(line string, lineOffset int) (string, int) {
	s := line
	off := lineOffset
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
		off++
	}
	switch {
	case strings.HasPrefix(s, "/**"):
		s = s[3:]
		off += 3
	case strings.HasPrefix(s, "/*"):
		s = s[2:]
		off += 2
	case strings.HasPrefix(s, "*/"):
		s = s[:len(s)-2]
	case strings.HasPrefix(s, "*"):
		s = s[1:]
		off++
		if strings.HasPrefix(s, " ") {
			s = s[1:]
			off++
		}
	}
	s = strings.TrimSuffix(s, "*/")
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
		off++
	}
	return s, off
}

// splitTagName splits "@param int $x description" into name="param" and
// the remainder "int $x description", plus the byte offset of that
// remainder's first byte.
func splitTagName(body string, bodyOffset int) (name, rest string, restOffset int) {
	body = body[1:] // consume '@'
	i := 0
	for i < len(body) && !isSpace(body[i]) {
		i++
	}
	name = body[:i]
	rest = strings.TrimLeft(body[i:], " \t")
	restOffset = bodyOffset + 1 + len(body[:i]) + (len(body[i:]) - len(rest))
	return name, rest, restOffset
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

// parseTagBody fills in t's structured fields from its tag-specific
// grammar. Unknown tags are left with only Raw/Description populated.
func parseTagBody(t *Tag, rest string, file source.FileID, offset int, diags *[]issue.Issue) {
	switch t.Name {
	case "param", "param-out":
		consumeTypeAndVariable(t, rest, file, offset, diags)
	case "return", "var", "psalm-return", "phpstan-return", "psalm-var", "phpstan-var":
		typ, d, consumed := parseLeadingType(rest, file, offset)
		t.Type = typ
		*diags = append(*diags, d...)
		t.Description = strings.TrimSpace(rest[consumed:])
	case "throws":
		typ, d, consumed := parseLeadingType(rest, file, offset)
		t.Type = typ
		*diags = append(*diags, d...)
		t.Description = strings.TrimSpace(rest[consumed:])
	case "template", "template-covariant", "template-contravariant":
		parseTemplateBody(t, rest, file, offset, diags)
	case "property", "property-read", "property-write":
		consumeTypeAndVariable(t, rest, file, offset, diags)
	case "method":
		parseMethodBody(t, rest, file, offset, diags)
	case "assert", "assert-if-true", "assert-if-false",
		"psalm-assert", "psalm-assert-if-true", "psalm-assert-if-false",
		"phpstan-assert", "phpstan-assert-if-true", "phpstan-assert-if-false":
		t.AssertNegated = strings.Contains(t.Name, "if-false")
		consumeTypeAndVariable(t, rest, file, offset, diags)
	default:
		t.Description = strings.TrimSpace(rest)
	}
}

// consumeTypeAndVariable parses "Type $name rest..." (the common shape
// of @param/@property/@assert), tolerating the variable coming first as
// some PHPDoc dialects write `@property $name Type`.
func consumeTypeAndVariable(t *Tag, rest string, file source.FileID, offset int, diags *[]issue.Issue) {
	typ, d, consumed := parseLeadingType(rest, file, offset)
	*diags = append(*diags, d...)
	remainder := strings.TrimLeft(rest[consumed:], " \t")

	markers := true
	for markers {
		switch {
		case strings.HasPrefix(remainder, "..."):
			t.Variadic = true
			remainder = remainder[3:]
		case strings.HasPrefix(remainder, "&"):
			t.ByRef = true
			remainder = remainder[1:]
		default:
			markers = false
		}
	}
	if strings.HasPrefix(remainder, "$") {
		end := 1
		for end < len(remainder) && isIdentPart(remainder[end]) {
			end++
		}
		t.SubjectName = remainder[1:end]
		remainder = remainder[end:]
	}
	t.Type = typ
	t.Description = strings.TrimSpace(remainder)
}

// parseTemplateBody parses "T of Bound description" / "T description".
func parseTemplateBody(t *Tag, rest string, file source.FileID, offset int, diags *[]issue.Issue) {
	fields := splitFirstWord(rest)
	if fields.word == "" {
		return
	}
	t.TemplateName = fields.word
	remainder := strings.TrimSpace(fields.remainder)
	if strings.HasPrefix(remainder, "of ") || strings.HasPrefix(remainder, "as ") {
		remainder = remainder[3:]
		consumedOffset := offset + (len(rest) - len(remainder))
		typ, d, consumed := parseLeadingType(remainder, file, consumedOffset)
		*diags = append(*diags, d...)
		t.Type = typ
		remainder = strings.TrimSpace(remainder[consumed:])
	}
	if strings.HasSuffix(t.Name, "covariant") {
		t.Variance = "covariant"
	} else if strings.HasSuffix(t.Name, "contravariant") {
		t.Variance = "contravariant"
	}
	t.Description = remainder
}

// parseMethodBody parses the `@method` signature form:
// `ReturnType name(Type $p, Type2 $q = default): ReturnType description`.
// Many real docblocks omit the parameter types/return type entirely
// (`@method void reset()`); both forms are accepted.
func parseMethodBody(t *Tag, rest string, file source.FileID, offset int, diags *[]issue.Issue) {
	if word := splitFirstWord(rest); word.word == "static" {
		t.MethodStatic = true
		skipped := len(rest) - len(word.remainder)
		rest = strings.TrimLeft(word.remainder, " \t")
		offset += skipped + (len(word.remainder) - len(rest))
	}

	typ, d, consumed := parseLeadingType(rest, file, offset)
	remainder := strings.TrimLeft(rest[consumed:], " \t")
	if strings.Contains(remainder, "(") {
		t.Type = typ
		*diags = append(*diags, d...)
	} else {
		// No return type was actually present; what we parsed as a type
		// was really the method name.
		remainder = rest
	}

	nameEnd := strings.IndexByte(remainder, '(')
	if nameEnd < 0 {
		t.SubjectName = strings.TrimSpace(remainder)
		return
	}
	t.SubjectName = strings.TrimSpace(remainder[:nameEnd])
	closeParen := matchingParen(remainder, nameEnd)
	if closeParen < 0 {
		t.Description = strings.TrimSpace(remainder[nameEnd+1:])
		return
	}
	paramsText := remainder[nameEnd+1 : closeParen]
	paramOffset := offset + (len(rest) - len(remainder)) + nameEnd + 1
	for _, raw := range strings.Split(paramsText, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		pt, pd, _ := parseLeadingType(raw, file, paramOffset)
		*diags = append(*diags, pd...)
		t.MethodParams = append(t.MethodParams, CallableParam{Type: pt})
	}
	t.Description = strings.TrimSpace(remainder[closeParen+1:])
}

func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

type firstWord struct {
	word      string
	remainder string
}

func splitFirstWord(s string) firstWord {
	s = strings.TrimLeft(s, " \t")
	i := 0
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return firstWord{word: s[:i], remainder: s[i:]}
}

// parseLeadingType parses the type expression at the start of s, relative
// to file at byte offset, and returns how many bytes of s it consumed so
// the caller can continue parsing whatever follows (a variable name, a
// description, ...).
func parseLeadingType(s string, file source.FileID, offset int) (*Type, []issue.Issue, int) {
	trimmed := strings.TrimLeft(s, " \t")
	skip := len(s) - len(trimmed)
	if trimmed == "" {
		return nil, nil, skip
	}

	lex := newTLexer(trimmed)
	p := &tparser{lex: lex, file: file, base: offset + skip}
	p.advance()
	p.advance()
	typ := p.parseUnion()
	consumed := skip + p.cur.start
	return typ, p.errs, consumed
}
