package lexer

import (
	"testing"

	"github.com/mago-php/mago-core/token"
)

// tokenizeCode lexes body behind a "<?php " prefix and drops the open tag
// and whitespace tokens, so a test lists only the tokens of body itself.
func tokenizeCode(body string) []TokenInfo {
	var out []TokenInfo
	for _, tk := range TokenizeAll("<?php " + body) {
		if tk.Type == token.T_OPEN_TAG || tk.Type == token.WHITESPACE {
			continue
		}
		out = append(out, tk)
	}
	return out
}

// typesOf strips position/literal and keeps just the token kinds, so a test
// can assert on shape without hardcoding every literal.
func typesOf(toks []TokenInfo) []token.Token {
	out := make([]token.Token, len(toks))
	for i, tk := range toks {
		out[i] = tk.Type
	}
	return out
}

func assertTypes(t *testing.T, toks []TokenInfo, want ...token.Token) {
	t.Helper()
	got := typesOf(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("token[%d] = %s, want %s (full: %v)", i, got[i], w, got)
		}
	}
}

func TestOpenAndCloseTags(t *testing.T) {
	toks := TokenizeAll("<?php $x = 1; ?>")
	if toks[0].Type != token.T_OPEN_TAG {
		t.Fatalf("first token = %s, want T_OPEN_TAG", toks[0].Type)
	}
	foundClose := false
	for _, tk := range toks {
		if tk.Type == token.T_CLOSE_TAG {
			foundClose = true
		}
	}
	if !foundClose {
		t.Fatal("expected a T_CLOSE_TAG token")
	}
}

func TestShortEchoTag(t *testing.T) {
	toks := TokenizeAll("<?= $x ?>")
	if toks[0].Type != token.T_OPEN_TAG_WITH_ECHO {
		t.Fatalf("first token = %s, want T_OPEN_TAG_WITH_ECHO", toks[0].Type)
	}
}

func TestInlineHTMLOutsideTags(t *testing.T) {
	toks := TokenizeAll("before<?php $x = 1; ?>after")
	if toks[0].Type != token.T_INLINE_HTML || toks[0].Literal != "before" {
		t.Fatalf("leading HTML = %+v", toks[0])
	}
	last := toks[len(toks)-2] // before EOF
	if last.Type != token.T_INLINE_HTML || last.Literal != "after" {
		t.Fatalf("trailing HTML = %+v", last)
	}
}

func TestKeywordsResolveToDistinctTokens(t *testing.T) {
	cases := map[string]token.Token{
		"if": token.T_IF, "else": token.T_ELSE, "while": token.T_WHILE,
		"function": token.T_FUNCTION, "class": token.T_CLASS, "return": token.T_RETURN,
		"match": token.T_MATCH, "enum": token.T_ENUM, "readonly": token.T_READONLY,
		"true": token.T_STRING, // booleans lex as plain identifiers, resolved semantically later
	}
	for word, want := range cases {
		toks := tokenizeCode(word + ";")
		if toks[0].Type != want {
			t.Errorf("keyword %q lexed as %s, want %s", word, toks[0].Type, want)
		}
	}
}

func TestVariableTokens(t *testing.T) {
	toks := tokenizeCode("$foo = $bar;")
	var vars []string
	for _, tk := range toks {
		if tk.Type == token.T_VARIABLE {
			vars = append(vars, tk.Literal)
		}
	}
	if len(vars) != 2 || vars[0] != "$foo" || vars[1] != "$bar" {
		t.Fatalf("variables = %v", vars)
	}
}

func TestIntegerLiteralBases(t *testing.T) {
	for _, src := range []string{"42", "0x2A", "0b101010", "042", "0o52", "1_000_000"} {
		toks := tokenizeCode(src + ";")
		if toks[0].Type != token.T_LNUMBER {
			t.Errorf("%q lexed as %s, want T_LNUMBER", src, toks[0].Type)
		}
	}
}

func TestFloatLiterals(t *testing.T) {
	for _, src := range []string{"1.5", "1.5e10", ".5", "1e-3"} {
		toks := tokenizeCode(src + ";")
		if toks[0].Type != token.T_DNUMBER {
			t.Errorf("%q lexed as %s, want T_DNUMBER", src, toks[0].Type)
		}
	}
}

func TestSingleQuotedString(t *testing.T) {
	toks := tokenizeCode(`'hello \'world\''`)
	if toks[0].Type != token.T_CONSTANT_ENCAPSED_STRING {
		t.Fatalf("type = %s", toks[0].Type)
	}
	if toks[0].Literal != `'hello \'world\''` {
		t.Fatalf("literal = %q", toks[0].Literal)
	}
}

func TestDoubleQuotedStringWithoutInterpolation(t *testing.T) {
	toks := tokenizeCode(`"plain string"`)
	assertTypes(t, toks[:1], token.T_CONSTANT_ENCAPSED_STRING)
}

func TestDoubleQuotedStringWithInterpolation(t *testing.T) {
	toks := tokenizeCode(`"hello $name!"`)
	assertTypes(t, toks[:5],
		token.DOUBLE_QUOTE,
		token.T_ENCAPSED_AND_WHITESPACE,
		token.T_VARIABLE,
		token.T_ENCAPSED_AND_WHITESPACE,
		token.DOUBLE_QUOTE,
	)
}

func TestHeredocAndNowdoc(t *testing.T) {
	heredoc := tokenizeCode("<<<EOT\nhello $x\nEOT;\n")
	if heredoc[0].Type != token.T_START_HEREDOC {
		t.Fatalf("heredoc start = %s", heredoc[0].Type)
	}
	nowdoc := tokenizeCode("<<<'EOT'\nhello $x\nEOT;\n")
	if nowdoc[0].Type != token.T_START_HEREDOC {
		t.Fatalf("nowdoc start = %s", nowdoc[0].Type)
	}
	foundEnd := false
	for _, tk := range nowdoc {
		if tk.Type == token.T_END_HEREDOC {
			foundEnd = true
		}
	}
	if !foundEnd {
		t.Fatal("expected T_END_HEREDOC for nowdoc")
	}
}

func TestBacktickString(t *testing.T) {
	toks := tokenizeCode("`ls -la`;")
	if toks[0].Type != token.BACKTICK {
		t.Fatalf("first token = %s, want BACKTICK", toks[0].Type)
	}
}

func TestLineAndBlockComments(t *testing.T) {
	line := TokenizeAll("<?php // a comment\n$x = 1;")
	foundLine := false
	for _, tk := range line {
		if tk.Type == token.T_COMMENT {
			foundLine = true
		}
	}
	if !foundLine {
		t.Fatal("expected T_COMMENT")
	}

	doc := TokenizeAll("<?php /** doc */\nfunction f() {}")
	foundDoc := false
	for _, tk := range doc {
		if tk.Type == token.T_DOC_COMMENT {
			foundDoc = true
		}
	}
	if !foundDoc {
		t.Fatal("expected T_DOC_COMMENT")
	}
}

func TestTypeCasts(t *testing.T) {
	cases := map[string]token.Token{
		"(int)":    token.T_INT_CAST,
		"(float)":  token.T_DOUBLE_CAST,
		"(string)": token.T_STRING_CAST,
		"(bool)":   token.T_BOOL_CAST,
		"(array)":  token.T_ARRAY_CAST,
		"(object)": token.T_OBJECT_CAST,
	}
	for src, want := range cases {
		toks := tokenizeCode(src + "$x;")
		if toks[0].Type != want {
			t.Errorf("%q lexed as %s, want %s", src, toks[0].Type, want)
		}
	}
}

func TestMultiCharOperators(t *testing.T) {
	cases := map[string]token.Token{
		"===": token.T_IS_IDENTICAL,
		"!==": token.T_IS_NOT_IDENTICAL,
		"<=>": token.T_SPACESHIP,
		"??":  token.T_COALESCE,
		"??=": token.T_COALESCE_EQUAL,
		"?->": token.T_NULLSAFE_OBJECT_OPERATOR,
		"->":  token.T_OBJECT_OPERATOR,
		"::":  token.T_PAAMAYIM_NEKUDOTAYIM,
		"...": token.T_ELLIPSIS,
		"**":  token.T_POW,
	}
	for src, want := range cases {
		toks := tokenizeCode("$a " + src + " $b;")
		if toks[1].Type != want {
			t.Errorf("%q lexed as %s, want %s", src, toks[1].Type, want)
		}
	}
}

func TestNamespacedNames(t *testing.T) {
	toks := tokenizeCode(`new \Foo\Bar\Baz();`)
	if toks[1].Type != token.T_NAME_FULLY_QUALIFIED {
		t.Fatalf("type = %s, literal = %q", toks[1].Type, toks[1].Literal)
	}
}

func TestAttributeOpenToken(t *testing.T) {
	toks := tokenizeCode(`#[Attr] class C {}`)
	if toks[0].Type != token.T_ATTRIBUTE {
		t.Fatalf("first token = %s, want T_ATTRIBUTE", toks[0].Type)
	}
}

func TestUnterminatedSingleQuotedStringRecordsDiagnostic(t *testing.T) {
	l := NewForFile(`<?php $x = 'oops`, 0)
	for {
		if tk := l.NextToken(); tk.Type == token.EOF {
			break
		}
	}
	diags := l.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v, want exactly 1", diags)
	}
}

func TestUnterminatedBlockCommentRecordsDiagnostic(t *testing.T) {
	l := NewForFile("<?php /* never closed", 0)
	for {
		if tk := l.NextToken(); tk.Type == token.EOF {
			break
		}
	}
	if len(l.Diagnostics()) != 1 {
		t.Fatalf("diagnostics = %v, want exactly 1", l.Diagnostics())
	}
}

func TestUnterminatedHeredocRecordsDiagnostic(t *testing.T) {
	l := NewForFile("<?php $x = <<<EOT\nbody never ends\n", 0)
	for {
		if tk := l.NextToken(); tk.Type == token.EOF {
			break
		}
	}
	if len(l.Diagnostics()) == 0 {
		t.Fatal("expected a diagnostic for the unterminated heredoc")
	}
}

func TestWellFormedInputHasNoDiagnostics(t *testing.T) {
	l := NewForFile(`<?php $x = 'fine'; echo "also $x fine";`, 0)
	for {
		if tk := l.NextToken(); tk.Type == token.EOF {
			break
		}
	}
	if diags := l.Diagnostics(); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
}
