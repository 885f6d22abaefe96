package jack_test

import (
	"testing"

	"n2tc.dev/toolchain/internal/jack"
)

func TestTokenizeKeywordsAndSymbols(t *testing.T) {
	tokens, err := jack.Tokenize([]byte(`class Main { field int x; }`))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := []jack.Token{
		{Kind: jack.KeywordToken, Value: "class"},
		{Kind: jack.IdentifierToken, Value: "Main"},
		{Kind: jack.SymbolToken, Value: "{"},
		{Kind: jack.KeywordToken, Value: "field"},
		{Kind: jack.KeywordToken, Value: "int"},
		{Kind: jack.IdentifierToken, Value: "x"},
		{Kind: jack.SymbolToken, Value: ";"},
		{Kind: jack.SymbolToken, Value: "}"},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %#v", len(tokens), len(want), tokens)
	}
	for i, tok := range tokens {
		if tok != want[i] {
			t.Fatalf("token %d: got %#v, want %#v", i, tok, want[i])
		}
	}
}

func TestTokenizeStripsComments(t *testing.T) {
	src := []byte(`
		// a line comment
		let x = 1; /* a block
		comment spanning lines */ let y = 2;
	`)
	tokens, err := jack.Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(tokens) != 10 { // 2x (let id = int ;)
		t.Fatalf("got %d tokens, want 10: %#v", len(tokens), tokens)
	}
}

func TestTokenizeUnterminatedBlockComment(t *testing.T) {
	if _, err := jack.Tokenize([]byte(`/* never closed`)); err == nil {
		t.Fatal("expected an error for an unterminated block comment")
	}
}

func TestTokenizeUnterminatedBlockCommentAfterAClosedOne(t *testing.T) {
	src := []byte(`/* ok */ class Foo { /* oops`)
	if _, err := jack.Tokenize(src); err == nil {
		t.Fatal("expected an error for a second, unterminated block comment following a closed one")
	}
}

func TestTokenizeUnterminatedStringConstant(t *testing.T) {
	if _, err := jack.Tokenize([]byte(`"never closed`)); err == nil {
		t.Fatal("expected an error for an unterminated string constant")
	}
}

func TestTokenizeStringConstantCannotSpanLines(t *testing.T) {
	if _, err := jack.Tokenize([]byte("\"line one\nline two\"")); err == nil {
		t.Fatal("expected an error for a string constant spanning multiple lines")
	}
}

func TestTokenizeIntegerConstantOutOfRange(t *testing.T) {
	if _, err := jack.Tokenize([]byte(`32768`)); err == nil {
		t.Fatal("expected an error for an out-of-range integer constant")
	}
}

func TestTokenizeMaxIntegerConstantIsAccepted(t *testing.T) {
	tokens, err := jack.Tokenize([]byte(`32767`))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(tokens) != 1 || tokens[0].Kind != jack.IntegerConstantToken || tokens[0].Value != "32767" {
		t.Fatalf("got %#v, want a single integerConstant '32767'", tokens)
	}
}

func TestTokenizeIdentifierVsKeyword(t *testing.T) {
	tokens, err := jack.Tokenize([]byte(`classic`))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(tokens) != 1 || tokens[0].Kind != jack.IdentifierToken {
		t.Fatalf("expected 'classic' to tokenize as a single identifier, got %#v", tokens)
	}
}

func TestTokenizeUnrecognizedCharacter(t *testing.T) {
	if _, err := jack.Tokenize([]byte(`@`)); err == nil {
		t.Fatal("expected an error for an unrecognized character")
	}
}
