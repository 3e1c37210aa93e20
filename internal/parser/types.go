package parser

import (
	"mastermindc/internal/ast"
	"mastermindc/token"
)

// parseType parses an absolute type: "cell" or "struct Name", followed by
// zero or more "[n]" array-dimension suffixes. Each suffix wraps the type
// parsed so far as the element of a new outer array.
func (p *Parser) parseType() (ast.TypeExpr, error) {
	pos := p.pos()
	var t ast.TypeExpr
	switch {
	case p.match(token.CELL):
		t = &ast.CellType{Pos_: pos}
	case p.match(token.STRUCT):
		name, err := p.consumeIdentName("expected struct name after 'struct'")
		if err != nil {
			return nil, err
		}
		t = &ast.StructType{Pos_: pos, Name: name}
	default:
		return nil, p.errorAtCurrent("expected a type ('cell' or 'struct Name')")
	}

	for p.check(token.LBRACKET) {
		bracketPos := p.pos()
		p.advance()
		lenTok, err := p.consume(token.INT, "expected array length")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RBRACKET, "expected ']' after array length"); err != nil {
			return nil, err
		}
		n, convErr := parseNatural(lenTok.Literal)
		if convErr != nil {
			return nil, p.errorAtCurrent("array length out of range")
		}
		t = &ast.ArrayType{Pos_: bracketPos, Len: n, Elem: t}
	}
	return t, nil
}

// isStructDefinitionAhead reports whether the clause beginning at the
// current token is a struct *definition* (`struct Name { ... }`), as
// opposed to a variable declaration/definition of a struct type. Only
// called when the current token is STRUCT.
func (p *Parser) isStructDefinitionAhead() bool {
	return p.check(token.STRUCT) && p.checkAt(1, token.IDENT) && p.checkAt(2, token.LBRACE)
}
