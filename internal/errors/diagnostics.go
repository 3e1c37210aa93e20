package errors

import (
	"fmt"

	"mastermindc/internal/ast"
)

// Builder provides a fluent interface for assembling a CompilerError one
// piece at a time, mirroring the shape a caller builds up a diagnostic in:
// a code and message up front, then whatever suggestions/notes/help apply.
type Builder struct {
	err CompilerError
}

// NewDiagnostic starts a Builder for an error-level diagnostic at pos.
func NewDiagnostic(code, message string, pos ast.Position) *Builder {
	return &Builder{err: CompilerError{
		Level:    Error,
		Code:     code,
		Message:  message,
		Position: pos,
		Length:   1,
	}}
}

func (b *Builder) WithLength(length int) *Builder {
	b.err.Length = length
	return b
}

func (b *Builder) WithSuggestion(message string) *Builder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

func (b *Builder) WithNote(note string) *Builder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *Builder) WithHelp(help string) *Builder {
	b.err.HelpText = help
	return b
}

func (b *Builder) Build() CompilerError {
	if b.err.HelpText == "" {
		b.err.HelpText = GetErrorDescription(b.err.Code)
	}
	return b.err
}

// LexicalError wraps a scanner failure with its stage code.
func LexicalError(message string, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorLexical, message, pos).Build()
}

// SyntaxError wraps a parser failure with its stage code.
func SyntaxError(message string, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorSyntax, message, pos).Build()
}

// UndefinedVariable reports a reference to a name with no visible
// declaration, optionally suggesting the closest declared name.
func UndefinedVariable(name string, pos ast.Position, closest string) CompilerError {
	b := NewDiagnostic(ErrorUndefinedVariable, fmt.Sprintf("undefined variable %q", name), pos)
	if closest != "" {
		b.WithSuggestion(fmt.Sprintf("did you mean %q?", closest))
	}
	return b.Build()
}

// DuplicateDeclaration reports a redeclaration of name in the same scope.
func DuplicateDeclaration(name string, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorDuplicateDeclaration, fmt.Sprintf("%q is already declared in this scope", name), pos).Build()
}
