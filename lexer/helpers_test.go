package lexer

import (
	"testing"

	"github.com/mago-php/mago-core/token"
)

func TestTokenizeAll(t *testing.T) {
	input := `<?php $x = 1;`
	tokens := TokenizeAll(input)

	if len(tokens) == 0 {
		t.Fatal("expected tokens")
	}
	if tokens[len(tokens)-1].Type != token.EOF {
		t.Errorf("expected last token to be EOF, got %s", tokens[len(tokens)-1].Type)
	}
}

// TestReconstructRoundTrips is the §8.1 round-trip property: lexing a
// source string and concatenating every token literal, trivia included,
// must reproduce the original text exactly.
func TestReconstructRoundTrips(t *testing.T) {
	sources := []string{
		`<?php $x = 1;`,
		"<?php\n// a line comment\n$x = 1; /* block */\n",
		"<?php\n/**\n * A docblock.\n */\nfunction f(int $x): int { return $x; }\n",
		`<?php $s = "hello $name world"; $t = 'raw \'string\'';`,
		"<?php\n$h = <<<EOT\nheredoc body with $x\nEOT;\n",
		"<?php echo 1 + 2 * (3 - 4) ?>trailing html",
	}
	for _, src := range sources {
		out, ok := Reconstruct(src)
		if !ok {
			t.Errorf("Reconstruct(%q) = %q, want exact round-trip", src, out)
		}
	}
}

// TestReconstructSurvivesTokenizeErrors checks that even a source the lexer
// can't fully make sense of (unterminated string) still reconstructs byte
// for byte: an ILLEGAL or unterminated token kind still carries the literal
// text it consumed.
func TestReconstructSurvivesTokenizeErrors(t *testing.T) {
	src := `<?php $s = 'unterminated`
	out, ok := Reconstruct(src)
	if !ok {
		t.Fatalf("Reconstruct(%q) = %q, want exact round-trip", src, out)
	}
}

func TestLexerRecordsUnterminatedStringDiagnostic(t *testing.T) {
	l := New(`<?php $s = 'unterminated`)
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	if len(l.Diagnostics()) == 0 {
		t.Fatal("expected a diagnostic for the unterminated string")
	}
}

func TestLexerRecordsUnknownCharacterDiagnostic(t *testing.T) {
	l := New("<?php $x = 1; \x01")
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	if len(l.Diagnostics()) == 0 {
		t.Fatal("expected a diagnostic for the unexpected character")
	}
}
