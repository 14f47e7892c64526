// Package diag formats compiler diagnostics with source context, line and
// column information, and caret indicators pointing at the offending span.
package diag

import (
	"fmt"
	"strings"

	"github.com/pluto-lang/pluto/internal/lexer"
)

// Phase identifies which stage of the pipeline raised a diagnostic.
type Phase int

const (
	Syntax Phase = iota
	NameResolution
	Type
	ErrorInference
	Contract
	DI
	Codegen
)

func (p Phase) String() string {
	switch p {
	case Syntax:
		return "syntax"
	case NameResolution:
		return "name resolution"
	case Type:
		return "type"
	case ErrorInference:
		return "error inference"
	case Contract:
		return "contract"
	case DI:
		return "dependency injection"
	case Codegen:
		return "codegen"
	default:
		return "unknown"
	}
}

// Severity distinguishes a hard failure from an advisory diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// CompilerError is a single diagnostic with enough context to render a
// caret-annotated source excerpt.
type CompilerError struct {
	Phase    Phase
	Severity Severity
	Message  string
	Source   string
	File     string
	Span     lexer.Span
}

// New constructs an error-severity diagnostic.
func New(phase Phase, span lexer.Span, message, source, file string) *CompilerError {
	return &CompilerError{Phase: phase, Severity: SeverityError, Message: message, Source: source, File: file, Span: span}
}

// NewWarning constructs a warning-severity diagnostic.
func NewWarning(phase Phase, span lexer.Span, message, source, file string) *CompilerError {
	return &CompilerError{Phase: phase, Severity: SeverityWarning, Message: message, Source: source, File: file, Span: span}
}

func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders a single-line header, the offending source line, and a
// caret under the column the error starts at.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	pos := e.Span.Start
	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d [%s]\n", strings.ToUpper(e.Severity.String()[:1])+e.Severity.String()[1:], e.File, pos.Line, pos.Column, e.Phase))
	} else {
		sb.WriteString(fmt.Sprintf("%s at %d:%d [%s]\n", strings.ToUpper(e.Severity.String()[:1])+e.Severity.String()[1:], pos.Line, pos.Column, e.Phase))
	}

	if line := e.sourceLine(pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func (e *CompilerError) sourceContext(lineNum, before, after int) (int, []string) {
	lines := strings.Split(e.Source, "\n")
	if e.Source == "" || lineNum < 1 || lineNum > len(lines) {
		return 0, nil
	}
	start := lineNum - before
	if start < 1 {
		start = 1
	}
	end := lineNum + after
	if end > len(lines) {
		end = len(lines)
	}
	return start, lines[start-1 : end]
}

// FormatWithContext renders contextLines of source before and after the
// offending line, with the error line marked by a `>` gutter.
func (e *CompilerError) FormatWithContext(contextLines int, color bool) string {
	pos := e.Span.Start
	startLine, ctx := e.sourceContext(pos.Line, contextLines, contextLines)
	if len(ctx) == 0 {
		return e.Format(color)
	}

	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d [%s]\n", strings.ToUpper(e.Severity.String()[:1])+e.Severity.String()[1:], e.File, pos.Line, pos.Column, e.Phase))
	} else {
		sb.WriteString(fmt.Sprintf("%s at %d:%d [%s]\n", strings.ToUpper(e.Severity.String()[:1])+e.Severity.String()[1:], pos.Line, pos.Column, e.Phase))
	}

	for i, line := range ctx {
		lineNum := startLine + i
		marker := "   "
		if lineNum == pos.Line {
			marker = " > "
		}
		lineNumStr := fmt.Sprintf("%4d%s| ", lineNum, marker)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		if lineNum == pos.Line {
			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+pos.Column-1))
			sb.WriteString("^\n")
		}
	}

	sb.WriteString(e.Message)
	return sb.String()
}

// FormatAll renders a batch of diagnostics, numbering them when there is
// more than one.
func FormatAll(errs []*CompilerError, contextLines int, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].FormatWithContext(contextLines, color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("compilation failed with %d diagnostic(s):\n\n", len(errs)))
	for i, e := range errs {
		sb.WriteString(fmt.Sprintf("[%d of %d]\n", i+1, len(errs)))
		sb.WriteString(e.FormatWithContext(contextLines, color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// HasErrors reports whether any diagnostic in errs is error-severity.
func HasErrors(errs []*CompilerError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Sink collects diagnostics during a pipeline run instead of failing fast,
// so a single compile invocation can surface multiple independent errors.
type Sink struct {
	Diagnostics []*CompilerError
}

func (s *Sink) Add(e *CompilerError) { s.Diagnostics = append(s.Diagnostics, e) }

func (s *Sink) HasErrors() bool { return HasErrors(s.Diagnostics) }
