package lexer

import "testing"

func TestNextTokenBasic(t *testing.T) {
	l := NewLexer("add r0, r1, #4 ; comment\n", "t.s")
	types := []TokenType{
		TokenIdentifier, TokenIdentifier, TokenComma, TokenIdentifier, TokenComma,
		TokenHash, TokenNumber, TokenComment, TokenNewline, TokenEOF,
	}
	for i, want := range types {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: got %v, want %v (literal %q)", i, tok.Type, want, tok.Literal)
		}
	}
}

func TestNumberForms(t *testing.T) {
	cases := []string{"0x1F", "0b101", "0o17", "1234"}
	for _, c := range cases {
		l := NewLexer(c, "t.s")
		tok := l.NextToken()
		if tok.Type != TokenNumber || tok.Literal != c {
			t.Fatalf("input %q: got %v %q", c, tok.Type, tok.Literal)
		}
	}
}

func TestDirectiveToken(t *testing.T) {
	l := NewLexer(".word 5", "t.s")
	tok := l.NextToken()
	if tok.Type != TokenDirective || tok.Literal != ".word" {
		t.Fatalf("got %v %q", tok.Type, tok.Literal)
	}
}

func TestUnterminatedStringRecordsError(t *testing.T) {
	l := NewLexer(`"unterminated`, "t.s")
	l.NextToken()
	if !l.Errors().HasErrors() {
		t.Fatalf("expected an error for unterminated string")
	}
}

func TestTokenizeAllEndsWithEOF(t *testing.T) {
	l := NewLexer("nop", "t.s")
	toks := l.TokenizeAll()
	if toks[len(toks)-1].Type != TokenEOF {
		t.Fatalf("last token = %v", toks[len(toks)-1].Type)
	}
}
