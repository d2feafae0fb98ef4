package token

import "testing"

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok      Token
		expected string
	}{
		{T_IF, "T_IF"},
		{T_FUNCTION, "T_FUNCTION"},
		{T_VARIABLE, "T_VARIABLE"},
		{SEMICOLON, ";"},
		{LPAREN, "("},
		{EOF, "EOF"},
	}

	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.expected {
			t.Errorf("Token(%d).String() = %q, want %q", tt.tok, got, tt.expected)
		}
	}
}

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident    string
		expected Token
	}{
		{"if", T_IF},
		{"function", T_FUNCTION},
		{"exit", T_EXIT},
		{"die", T_EXIT}, // die is an alias resolved to the same token as exit
		{"__CLASS__", T_CLASS_C},
		// Non-keywords fall back to a plain name.
		{"myFunction", T_STRING},
		{"variable123", T_STRING},
	}

	for _, tt := range tests {
		if got := LookupIdent(tt.ident); got != tt.expected {
			t.Errorf("LookupIdent(%q) = %s, want %s", tt.ident, got, tt.expected)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	for _, tok := range []Token{T_IF, T_FUNCTION, T_RETURN} {
		if !tok.IsKeyword() {
			t.Errorf("expected %s to be a keyword", tok)
		}
	}
	for _, tok := range []Token{T_VARIABLE, SEMICOLON, T_CONSTANT_ENCAPSED_STRING} {
		if tok.IsKeyword() {
			t.Errorf("expected %s to NOT be a keyword", tok)
		}
	}
}

func TestIsLiteral(t *testing.T) {
	for _, tok := range []Token{T_LNUMBER, T_DNUMBER, T_CONSTANT_ENCAPSED_STRING} {
		if !tok.IsLiteral() {
			t.Errorf("expected %s to be a literal", tok)
		}
	}
	for _, tok := range []Token{T_IF, SEMICOLON, T_PLUS_EQUAL} {
		if tok.IsLiteral() {
			t.Errorf("expected %s to NOT be a literal", tok)
		}
	}
}

func TestIsOperator(t *testing.T) {
	for _, tok := range []Token{T_PLUS_EQUAL, T_IS_IDENTICAL, T_DOUBLE_ARROW, T_ELLIPSIS} {
		if !tok.IsOperator() {
			t.Errorf("expected %s to be an operator", tok)
		}
	}
	for _, tok := range []Token{T_IF, T_VARIABLE, SEMICOLON} {
		if tok.IsOperator() {
			t.Errorf("expected %s to NOT be an operator", tok)
		}
	}
}

// TestIsTrivia pins down the trivia contract a §8.1 source round-trip
// depends on: whitespace and both comment kinds carry no syntax of their
// own, and nothing else is trivia.
func TestIsTrivia(t *testing.T) {
	for _, tok := range []Token{WHITESPACE, T_COMMENT, T_DOC_COMMENT} {
		if !tok.IsTrivia() {
			t.Errorf("expected %s to be trivia", tok)
		}
	}
	for _, tok := range []Token{T_IF, T_VARIABLE, SEMICOLON, T_CONSTANT_ENCAPSED_STRING, EOF} {
		if tok.IsTrivia() {
			t.Errorf("expected %s to NOT be trivia", tok)
		}
	}
}
