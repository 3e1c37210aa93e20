// Package compiler wires the tokeniser, parser, IR builder, backend and
// peephole stages into the single entry point a caller (CLI, tests,
// embedded-block compilation) actually needs.
package compiler

import (
	"fmt"
	"strings"

	"mastermindc/internal/ast"
	"mastermindc/internal/backend"
	ierrors "mastermindc/internal/errors"
	"mastermindc/internal/ir"
	"mastermindc/internal/parser"
	"mastermindc/internal/peephole"
	"mastermindc/internal/tape"
)

// Config bundles every compile-time switch the external interface
// enumerates. The zero value is usable: one-dimensional, unoptimised
// code generation with the linear allocator.
type Config struct {
	Enable2DGrid           bool
	MemoryAllocationMethod tape.AllocPolicy

	OptimiseGeneratedCode            bool
	OptimiseGeneratedAllPermutations bool
	OptimiseCellClearing             bool
	OptimiseUnreachableLoops         bool
	OptimiseConstants                bool
}

func (c Config) backendConfig() backend.Config {
	return backend.Config{
		OptimiseConstants:        c.OptimiseConstants,
		OptimiseCellClearing:     c.OptimiseCellClearing,
		OptimiseUnreachableLoops: c.OptimiseUnreachableLoops,
	}
}

// FrontendError carries one or more lex/parse diagnostics with full
// source position, surviving as a typed error until a caller (the CLI)
// chooses to render them with an ierrors.ErrorReporter.
type FrontendError struct {
	Diagnostics []ierrors.CompilerError
}

func (e *FrontendError) Error() string {
	parts := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		parts[i] = fmt.Sprintf("%d:%d: %s", d.Position.Line, d.Position.Column, d.Message)
	}
	return strings.Join(parts, "; ")
}

// Compile runs the full pipeline over source and renders the resulting
// BF program. filename is used only for diagnostics.
func Compile(filename, source string, cfg Config) (string, error) {
	clauses, scanErrs, parseErrs := parser.ParseSource(filename, source)
	if len(scanErrs) > 0 || len(parseErrs) > 0 {
		return "", frontendError(scanErrs, parseErrs)
	}

	if cfg.Enable2DGrid {
		return compile2D(clauses, cfg)
	}
	return compile1D(clauses, cfg)
}

func frontendError(scanErrs []parser.ScanError, parseErrs []parser.ParseError) error {
	var diags []ierrors.CompilerError
	for _, e := range scanErrs {
		diags = append(diags, ierrors.LexicalError(e.Message, ast.Position{Line: e.Line, Column: e.Column}))
	}
	for _, e := range parseErrs {
		diags = append(diags, ierrors.SyntaxError(e.Message, ast.Position{Line: e.Line, Column: e.Column}))
	}
	return &FrontendError{Diagnostics: diags}
}

func compile1D(clauses []ast.Clause, cfg Config) (string, error) {
	bk := backend.New1D(cfg.backendConfig())

	locate := func(loc ast.LocationSpecifier, lookupFixed func(string) (tape.Coord1D, bool)) (tape.Coord1D, error) {
		switch v := loc.(type) {
		case ast.LiteralLocation:
			return tape.Coord1D{X: int(v.Value)}, nil
		case ast.VariableLocation:
			c, ok := lookupFixed(v.Name)
			if !ok {
				return tape.Coord1D{}, fmt.Errorf("@%s does not name a variable with a fixed location", v.Name)
			}
			return c, nil
		case ast.CoordLocation:
			return tape.Coord1D{}, fmt.Errorf("an (x, y) location requires enable_2d_grid")
		default:
			return tape.Coord1D{}, fmt.Errorf("unsupported location specifier %T", loc)
		}
	}

	compileEmbedded := func(inner *ir.Scope) ([]tape.Opcode, error) {
		var origin tape.Coord1D
		return bk.Run(inner.Instructions, &origin)
	}

	builder := ir.NewBuilder[tape.Coord1D](locate, compileEmbedded)
	top, err := builder.Build(clauses, nil, true)
	if err != nil {
		return "", err
	}

	ops, err := bk.Run(top.Instructions, nil)
	if err != nil {
		return "", err
	}

	if cfg.OptimiseGeneratedCode {
		ops = peephole.Optimise1D(ops)
	}
	return tape.Render(ops), nil
}

func compile2D(clauses []ast.Clause, cfg Config) (string, error) {
	bk := backend.New2D(cfg.backendConfig(), cfg.MemoryAllocationMethod)

	locate := func(loc ast.LocationSpecifier, lookupFixed func(string) (tape.Coord2D, bool)) (tape.Coord2D, error) {
		switch v := loc.(type) {
		case ast.CoordLocation:
			return tape.Coord2D{X: int(v.X), Y: int(v.Y)}, nil
		case ast.VariableLocation:
			c, ok := lookupFixed(v.Name)
			if !ok {
				return tape.Coord2D{}, fmt.Errorf("@%s does not name a variable with a fixed location", v.Name)
			}
			return c, nil
		case ast.LiteralLocation:
			return tape.Coord2D{}, fmt.Errorf("a bare literal location requires an (x, y) pair in 2-D mode")
		default:
			return tape.Coord2D{}, fmt.Errorf("unsupported location specifier %T", loc)
		}
	}

	compileEmbedded := func(inner *ir.Scope) ([]tape.Opcode, error) {
		var origin tape.Coord2D
		return bk.Run(inner.Instructions, &origin)
	}

	builder := ir.NewBuilder[tape.Coord2D](locate, compileEmbedded)
	top, err := builder.Build(clauses, nil, true)
	if err != nil {
		return "", err
	}

	ops, err := bk.Run(top.Instructions, nil)
	if err != nil {
		return "", err
	}

	if cfg.OptimiseGeneratedCode {
		ops = peephole.Optimise2D(ops, cfg.OptimiseGeneratedAllPermutations)
	}
	return tape.Render(ops), nil
}
