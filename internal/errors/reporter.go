// Package errors renders compiler diagnostics as caret-annotated source
// snippets, Rust-style: a one-line header naming the stage and code, the
// offending line with a line number gutter, an underline marker under the
// bad span, and any suggestions/notes/help trailing it.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"mastermindc/internal/ast"
)

// ErrorLevel is the severity of a diagnostic.
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// levelColors maps a severity to the color its header and marker render
// in; FormatError looks the color up once (via colorFor) and hands it to
// both header and marker, so the two never drift out of sync.
var levelColors = map[ErrorLevel]func(...interface{}) string{
	Error:   color.New(color.FgRed, color.Bold).SprintFunc(),
	Warning: color.New(color.FgYellow, color.Bold).SprintFunc(),
	Note:    color.New(color.FgBlue, color.Bold).SprintFunc(),
	Help:    color.New(color.FgGreen, color.Bold).SprintFunc(),
}

func colorFor(level ErrorLevel) func(...interface{}) string {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return levelColors[Error]
}

// CompilerError is one positioned diagnostic from any pipeline stage
// (scanner, parser, IR builder, backend). Code names which stage raised
// it — see codes.go — and Position/Length locate the offending span.
type CompilerError struct {
	Level       ErrorLevel
	Code        string
	Message     string
	Position    ast.Position
	Length      int
	Suggestions []Suggestion
	Notes       []string
	HelpText    string
}

// Suggestion is one proposed fix, optionally with replacement text to
// splice in at a position of its own (e.g. a quick-fix elsewhere in the
// same file).
type Suggestion struct {
	Message     string
	Replacement string
	Position    ast.Position
	Length      int
}

// ErrorReporter formats diagnostics against one source file's lines.
type ErrorReporter struct {
	filename string
	lines    []string
}

func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{filename: filename, lines: strings.Split(source, "\n")}
}

// FormatError renders one diagnostic as a multi-line caret-annotated
// snippet.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var result strings.Builder

	levelColor := colorFor(err.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	result.WriteString(er.header(err, levelColor))

	width := er.lineNumberWidth(err.Position.Line)
	indent := strings.Repeat(" ", width)

	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n", indent, dim("-->"), er.filename, err.Position.Line, err.Position.Column))
	result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if err.Position.Line > 1 && err.Position.Line-1 < len(er.lines) {
		result.WriteString(er.gutterLine(width, err.Position.Line-1, dim, dim(er.lines[err.Position.Line-2])))
	}

	if err.Position.Line > 0 && err.Position.Line <= len(er.lines) {
		lineContent := er.lines[err.Position.Line-1]
		result.WriteString(er.gutterLine(width, err.Position.Line, bold, lineContent))
		marker := er.marker(err.Position.Column, err.Length, levelColor)
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), marker))
	}

	if err.Position.Line < len(er.lines) {
		result.WriteString(er.gutterLine(width, err.Position.Line+1, dim, dim(er.lines[err.Position.Line])))
	}

	er.writeSuggestions(&result, err, indent, dim)
	er.writeNotesAndHelp(&result, err, indent, dim)

	result.WriteString("\n")
	return result.String()
}

func (er *ErrorReporter) header(err CompilerError, levelColor func(...interface{}) string) string {
	if err.Code == "" {
		return fmt.Sprintf("%s: %s\n", levelColor(string(err.Level)), err.Message)
	}
	if category := GetErrorCategory(err.Code); category != "" {
		return fmt.Sprintf("%s[%s] (%s): %s\n", levelColor(string(err.Level)), err.Code, category, err.Message)
	}
	return fmt.Sprintf("%s[%s]: %s\n", levelColor(string(err.Level)), err.Code, err.Message)
}

func (er *ErrorReporter) gutterLine(width, lineNum int, numColor func(...interface{}) string, content string) string {
	dim := color.New(color.Faint).SprintFunc()
	return fmt.Sprintf("%s %s %s\n", numColor(fmt.Sprintf("%*d", width, lineNum)), dim("│"), content)
}

func (er *ErrorReporter) marker(column, length int, levelColor func(...interface{}) string) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", max(0, column-1))
	return spaces + levelColor(strings.Repeat("^", length))
}

func (er *ErrorReporter) writeSuggestions(result *strings.Builder, err CompilerError, indent string, dim func(...interface{}) string) {
	if len(err.Suggestions) == 0 {
		return
	}
	suggestionColor := color.New(color.FgCyan).SprintFunc()
	result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
	for i, s := range err.Suggestions {
		if i == 0 {
			result.WriteString(fmt.Sprintf("%s %s %s: %s\n", indent, suggestionColor("help"), suggestionColor("try"), s.Message))
		} else {
			result.WriteString(fmt.Sprintf("%s %s %s\n", indent, suggestionColor("    "), s.Message))
		}
		if s.Replacement != "" {
			result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
			replacement := strings.ReplaceAll(s.Replacement, "\n", fmt.Sprintf("\n%s %s ", indent, dim("│")))
			result.WriteString(fmt.Sprintf("%s %s %s\n", indent, suggestionColor("│"), suggestionColor(replacement)))
		}
	}
}

func (er *ErrorReporter) writeNotesAndHelp(result *strings.Builder, err CompilerError, indent string, dim func(...interface{}) string) {
	noteColor := color.New(color.FgBlue).SprintFunc()
	for _, note := range err.Notes {
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), noteColor("note:"), note))
	}
	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), helpColor("help:"), err.HelpText))
	}
}

func (er *ErrorReporter) lineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3
	}
	return width
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
