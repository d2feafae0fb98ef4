package lexer

import (
	"strings"

	"github.com/mago-php/mago-core/token"
)

// TokenizeAll tokenizes the entire input and returns every token, trivia
// included, up to and including EOF.
func TokenizeAll(input string) []TokenInfo {
	l := New(input)
	tokens := []TokenInfo{}
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}

// Reconstruct concatenates every token literal lexed from input, trivia
// included, and reports whether the result reproduces input byte for byte.
// This is the trivia contract a §8.1 round-trip test checks: nothing the
// lexer consumes may vanish from the reconstructed text, even a token kind
// the parser itself skips over.
func Reconstruct(input string) (string, bool) {
	var b strings.Builder
	for _, tok := range TokenizeAll(input) {
		if tok.Type == token.EOF {
			continue
		}
		b.WriteString(tok.Literal)
	}
	out := b.String()
	return out, out == input
}
