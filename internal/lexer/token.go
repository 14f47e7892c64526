// Package lexer turns Pluto source text into a stream of spanned tokens.
package lexer

import "fmt"

// TokenType identifies the lexical category of a Token.
type TokenType int

// Token categories, grouped the way the grammar groups them.
const (
	ILLEGAL TokenType = iota
	EOF
	NEWLINE
	COMMENT

	IDENT
	INT
	FLOAT
	STRING
	STRING_START // opening half of an interpolated string: `"foo {`
	STRING_MID   // `} bar {` between interpolation holes
	STRING_END   // closing half: `} baz"`

	literalEnd

	// Keywords
	FN
	LET
	MUT
	IF
	ELSE
	WHILE
	FOR
	IN
	RETURN
	BREAK
	CONTINUE
	CLASS
	ENUM
	TRAIT
	IMPL
	APP
	SCOPE
	IMPORT
	PUB
	ERROR
	RAISE
	CATCH
	MATCH
	SPAWN
	STREAM
	YIELD
	INVARIANT
	REQUIRES
	SELF
	NONE
	TRUE
	FALSE
	EXTERN
	RUST
	AS
	CHAN

	keywordEnd

	// Operators and punctuation
	ASSIGN    // =
	DECLARE   // :=
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	BANG      // !
	QUESTION  // ?
	AMP_AMP   // &&
	PIPE_PIPE // ||
	EQ        // ==
	NOT_EQ    // !=
	LT        // <
	GT        // >
	LT_EQ     // <=
	GT_EQ     // >=
	ARROW     // ->
	FAT_ARROW // =>
	DOT_DOT   // ..
	DOT_DOT_EQ // ..=
	DOT       // .
	COMMA     // ,
	COLON     // :
	SEMICOLON // ;
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	AT // @ — reserved for future attribute syntax, tokenized but unused by the parser
)

var keywords = map[string]TokenType{
	"fn": FN, "let": LET, "mut": MUT, "if": IF, "else": ELSE,
	"while": WHILE, "for": FOR, "in": IN, "return": RETURN,
	"break": BREAK, "continue": CONTINUE, "class": CLASS, "enum": ENUM,
	"trait": TRAIT, "impl": IMPL, "app": APP, "scope": SCOPE,
	"import": IMPORT, "pub": PUB, "error": ERROR, "raise": RAISE,
	"catch": CATCH, "match": MATCH, "spawn": SPAWN, "stream": STREAM,
	"yield": YIELD, "invariant": INVARIANT, "requires": REQUIRES,
	"self": SELF, "none": NONE, "true": TRUE, "false": FALSE,
	"extern": EXTERN, "rust": RUST, "as": AS, "chan": CHAN,
}

// LookupIdent maps an identifier's literal text to a keyword TokenType, or
// IDENT if it names no keyword.
func LookupIdent(literal string) TokenType {
	if tok, ok := keywords[literal]; ok {
		return tok
	}
	return IDENT
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", NEWLINE: "NEWLINE", COMMENT: "COMMENT",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING",
	STRING_START: "STRING_START", STRING_MID: "STRING_MID", STRING_END: "STRING_END",
	ASSIGN: "=", DECLARE: ":=", PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/",
	PERCENT: "%", BANG: "!", QUESTION: "?", AMP_AMP: "&&", PIPE_PIPE: "||",
	EQ: "==", NOT_EQ: "!=", LT: "<", GT: ">", LT_EQ: "<=", GT_EQ: ">=",
	ARROW: "->", FAT_ARROW: "=>", DOT_DOT: "..", DOT_DOT_EQ: "..=", DOT: ".",
	COMMA: ",", COLON: ":", SEMICOLON: ";", LPAREN: "(", RPAREN: ")",
	LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]", AT: "@",
}

// Position is the human-facing (line, column) location of a byte offset,
// 1-indexed, counted in runes so multi-byte UTF-8 sequences count once.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) into the source buffer.
type Span struct {
	Start Position
	End   Position
}

// Token is a single lexical unit: its type, literal text, and source span.
type Token struct {
	Type    TokenType
	Literal string
	Span    Span

	// Decoded values, populated only for the matching literal TokenType.
	IntValue   int64
	FloatValue float64
}

// Pos returns the token's starting position, the common case callers need.
func (t Token) Pos() Position { return t.Span.Start }

// IsKeyword reports whether t names a reserved word.
func (t TokenType) IsKeyword() bool { return t > literalEnd && t < keywordEnd }
