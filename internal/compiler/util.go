package compiler

import (
	"fmt"

	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/lexer"
)

func spanOf(n ast.Node) lexer.Span {
	pos := n.Pos()
	return lexer.Span{Start: pos, End: pos}
}

func sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
