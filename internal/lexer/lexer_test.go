package lexer

import "testing"

func tokenTypes(t *testing.T, src string) []TokenType {
	t.Helper()
	toks, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestLexKeywordsAndIdents(t *testing.T) {
	got := tokenTypes(t, "fn main")
	want := []TokenType{FN, IDENT, EOF}
	assertTypes(t, got, want)
}

func TestLexIntegersAndFloats(t *testing.T) {
	toks, err := Lex("1 2.5 0xFF 0x1_0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Type != INT || toks[0].IntValue != 1 {
		t.Fatalf("token 0 = %+v", toks[0])
	}
	if toks[1].Type != FLOAT || toks[1].FloatValue != 2.5 {
		t.Fatalf("token 1 = %+v", toks[1])
	}
	if toks[2].Type != INT || toks[2].IntValue != 255 {
		t.Fatalf("token 2 = %+v", toks[2])
	}
	if toks[3].Type != INT || toks[3].IntValue != 16 {
		t.Fatalf("token 3 = %+v", toks[3])
	}
}

func TestLexRejectsEmptyHex(t *testing.T) {
	if _, err := Lex("0x"); err == nil {
		t.Fatal("expected error for empty hex literal")
	}
}

func TestLexRejectsTrailingUnderscoreHex(t *testing.T) {
	if _, err := Lex("0xFF_"); err == nil {
		t.Fatal("expected error for trailing underscore")
	}
}

func TestLexRejectsDoubleDotAfterFloat(t *testing.T) {
	if _, err := Lex("1.2.3"); err == nil {
		t.Fatal("expected error for 1.2.3")
	}
}

func TestLexOverflowInteger(t *testing.T) {
	if _, err := Lex("99999999999999999999"); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestLexOperatorsGreedy(t *testing.T) {
	got := tokenTypes(t, "== != <= >= && || -> => ..= ..")
	want := []TokenType{EQ, NOT_EQ, LT_EQ, GT_EQ, AMP_AMP, PIPE_PIPE, ARROW, FAT_ARROW, DOT_DOT_EQ, DOT_DOT, EOF}
	assertTypes(t, got, want)
}

func TestLexNewlinesSignificant(t *testing.T) {
	got := tokenTypes(t, "let x = 1\nlet y = 2")
	count := 0
	for _, ty := range got {
		if ty == NEWLINE {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected 1 newline token, got %d (%v)", count, got)
	}
}

func TestLexStringInterpolation(t *testing.T) {
	got := tokenTypes(t, `"hello {name}!"`)
	want := []TokenType{STRING_START, IDENT, STRING_END, EOF}
	assertTypes(t, got, want)
}

func TestLexPlainString(t *testing.T) {
	toks, err := Lex(`"hello\nworld"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Type != STRING || toks[0].Literal != "hello\nworld" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexBOMSkipped(t *testing.T) {
	got := tokenTypes(t, "﻿fn main")
	want := []TokenType{FN, IDENT, EOF}
	assertTypes(t, got, want)
}

func TestLexUnicodeIdentifierRejected(t *testing.T) {
	// identifiers are ASCII-only; a bare non-ASCII rune is ILLEGAL.
	if _, err := Lex("Δ"); err == nil {
		t.Fatal("expected error for non-ASCII identifier start")
	}
}

func assertTypes(t *testing.T, got, want []TokenType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s want %s (full: %v)", i, got[i], want[i], got)
		}
	}
}
