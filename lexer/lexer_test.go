package lexer

import (
	"testing"

	"osfl/token"
)

func scanKinds(t *testing.T, src string) []token.TokenType {
	t.Helper()
	l := New(src, DefaultConfig("test.osfl"))
	toks, err := l.Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	kinds := make([]token.TokenType, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.TokenType)
	}
	return kinds
}

func assertKinds(t *testing.T, got, want []token.TokenType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v tokens, want %v (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestOperators(t *testing.T) {
	got := scanKinds(t, "==*+>-<!=<=>=!!")
	want := []token.TokenType{
		token.EQUAL_EQUAL, token.MULT, token.ADD, token.LARGER, token.SUB,
		token.LESS, token.NOT_EQUAL, token.LESS_EQUAL, token.LARGER_EQUAL,
		token.BANG, token.BANG, token.EOF,
	}
	assertKinds(t, got, want)
}

func TestDelimiters(t *testing.T) {
	got := scanKinds(t, "(){}**;+!=<=")
	want := []token.TokenType{
		token.LPA, token.RPA, token.LCUR, token.RCUR, token.POW,
		token.SEMICOLON, token.ADD, token.NOT_EQUAL, token.LESS_EQUAL, token.EOF,
	}
	assertKinds(t, got, want)
}

func TestCompoundAssignAndArrows(t *testing.T) {
	got := scanKinds(t, "+= -= *= %= -> => :: ++ --")
	want := []token.TokenType{
		token.ADD_ASSIGN, token.SUB_ASSIGN, token.MULT_ASSIGN, token.MOD_ASSIGN,
		token.ARROW, token.DOUBLE_ARROW, token.DOUBLE_COLON, token.INCR, token.DECR,
		token.EOF,
	}
	assertKinds(t, got, want)
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	got := scanKinds(t, "frame Main { var x = true; }")
	want := []token.TokenType{
		token.FRAME, token.IDENTIFIER, token.LCUR, token.VAR, token.IDENTIFIER,
		token.ASSIGN, token.BOOL, token.SEMICOLON, token.RCUR, token.EOF,
	}
	assertKinds(t, got, want)
}

func TestMultiRadixIntegers(t *testing.T) {
	l := New("0x1F 0b101 0o17 1_000", DefaultConfig("test.osfl"))
	toks, err := l.Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	want := []int64{31, 5, 15, 1000}
	for i, w := range want {
		got, ok := toks[i].Literal.(int64)
		if !ok || got != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Literal, w)
		}
	}
}

func TestScientificFloat(t *testing.T) {
	l := New("1.5e3", DefaultConfig("test.osfl"))
	toks, err := l.Scan()
	if err != nil {
		t.Fatalf("Scan() raised an error: %v", err)
	}
	if toks[0].TokenType != token.FLOAT {
		t.Fatalf("got %s, want FLOAT", toks[0].TokenType)
	}
	if got := toks[0].Literal.(float64); got != 1500 {
		t.Errorf("got %v, want 1500", got)
	}
}

func TestStringInterpolation(t *testing.T) {
	got := scanKinds(t, `"val=${1+2}"`)
	want := []token.TokenType{
		token.STRING, token.INTERPOLATION_START, token.INT, token.ADD, token.INT,
		token.INTERPOLATION_END, token.STRING, token.EOF,
	}
	assertKinds(t, got, want)
}

func TestDocstring(t *testing.T) {
	got := scanKinds(t, `""" hello """`)
	want := []token.TokenType{token.DOCSTRING, token.EOF}
	assertKinds(t, got, want)
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"abc`, DefaultConfig("test.osfl"))
	if _, err := l.Scan(); err == nil {
		t.Fatal("expected an unterminated string error")
	}
	lexErr, ok := l.LastError().(*LexError)
	if !ok {
		t.Fatalf("expected *LexError, got %T", l.LastError())
	}
	if lexErr.Kind != UnterminatedString {
		t.Errorf("got kind %s, want UnterminatedString", lexErr.Kind)
	}
}

func TestBufferOverflow(t *testing.T) {
	long := `"` + string(make([]byte, 64)) + `"`
	l := New(long, DefaultConfig("test.osfl"))
	if _, err := l.Scan(); err == nil {
		t.Fatal("expected a buffer overflow error")
	}
}

func TestPeekTokenIdempotent(t *testing.T) {
	l := New("+ -", DefaultConfig("test.osfl"))
	first := l.PeekToken()
	second := l.PeekToken()
	if first != second {
		t.Fatalf("repeated PeekToken() diverged: %v vs %v", first, second)
	}
	next := l.NextToken()
	if next != first {
		t.Fatalf("NextToken() after PeekToken() = %v, want %v", next, first)
	}
}

func TestReset(t *testing.T) {
	l := New("+ -", DefaultConfig("test.osfl"))
	l.NextToken()
	l.Reset("* /")
	tok := l.NextToken()
	if tok.TokenType != token.MULT {
		t.Fatalf("got %s after Reset, want MULT", tok.TokenType)
	}
}

func TestSequentialInterpolations(t *testing.T) {
	got := scanKinds(t, `"a${1}b${2}c"`)
	want := []token.TokenType{
		token.STRING, token.INTERPOLATION_START, token.INT, token.INTERPOLATION_END,
		token.STRING, token.INTERPOLATION_START, token.INT, token.INTERPOLATION_END,
		token.STRING, token.EOF,
	}
	assertKinds(t, got, want)
}

func TestLineCommentDoubleSlash(t *testing.T) {
	got := scanKinds(t, "1 + 2 // trailing comment\n3")
	want := []token.TokenType{token.INT, token.ADD, token.INT, token.INT, token.EOF}
	assertKinds(t, got, want)
}

func TestBlockComment(t *testing.T) {
	got := scanKinds(t, "1 /* a block\ncomment */ + 2")
	want := []token.TokenType{token.INT, token.ADD, token.INT, token.EOF}
	assertKinds(t, got, want)
}

func TestUnterminatedBlockComment(t *testing.T) {
	l := New("1 /* never closed", DefaultConfig("test.osfl"))
	if _, err := l.Scan(); err == nil {
		t.Fatal("expected an unterminated comment error")
	}
	lexErr, ok := l.LastError().(*LexError)
	if !ok {
		t.Fatalf("expected *LexError, got %T", l.LastError())
	}
	if lexErr.Kind != UnterminatedComment {
		t.Errorf("got kind %s, want UnterminatedComment", lexErr.Kind)
	}
}

func TestRegexLiteralWithEscapedSlash(t *testing.T) {
	got := scanKinds(t, `/ab\/c/`)
	want := []token.TokenType{token.REGEX, token.EOF}
	assertKinds(t, got, want)
}
