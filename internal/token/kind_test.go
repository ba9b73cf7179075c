package token_test

import (
	"testing"

	"drift/internal/source"
	"drift/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind token.Kind
		want string
	}{
		{token.Invalid, "Invalid"},
		{token.EOF, "EOF"},
		{token.Newline, "Newline"},
		{token.Indent, "Indent"},
		{token.Word, "Word"},
		{token.Int, "Int"},
		{token.Float, "Float"},
		{token.String, "String"},
		{token.Path, "Path"},
		{token.Punct, "Punct"},
		{token.Unstructured, "Unstructured"},
		{token.Kind(200), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestIsValue(t *testing.T) {
	values := []token.Kind{token.Int, token.Float, token.String}
	for _, k := range values {
		if !tok(k).IsValue() {
			t.Fatalf("%v should be a value", k)
		}
	}
	non := []token.Kind{token.Word, token.Path, token.Punct, token.Newline, token.Unstructured}
	for _, k := range non {
		if tok(k).IsValue() {
			t.Fatalf("%v must NOT be a value", k)
		}
	}
}

func TestIsLineBreak(t *testing.T) {
	if !tok(token.Newline).IsLineBreak() {
		t.Fatal("Newline should break a line")
	}
	if !tok(token.EOF).IsLineBreak() {
		t.Fatal("EOF should break a line")
	}
	if tok(token.Word).IsLineBreak() {
		t.Fatal("Word must not break a line")
	}
}
