package parser

import (
	"mastermindc/internal/ast"
	"mastermindc/token"
)

// parseInlineBF parses "bf [@loc] [clobbers a b ...] { segments }". The
// body is not tokenised through the ordinary token stream: once the
// opening '{' is consumed, the scanner is switched into raw opcode mode
// and handed back to normal tokenising only at each embedded '{ ... }'
// source block.
func (p *Parser) parseInlineBF() (ast.Clause, error) {
	pos := p.pos()
	p.advance() // 'bf'

	var loc ast.LocationSpecifier
	if p.match(token.AT) {
		var err error
		loc, err = p.parseLocation()
		if err != nil {
			return nil, err
		}
	}

	var clobbers []string
	if p.match(token.CLOBBERS) {
		for p.check(token.IDENT) {
			name, err := p.consumeIdentName("expected variable name in clobbers list")
			if err != nil {
				return nil, err
			}
			clobbers = append(clobbers, name)
		}
	}

	if _, err := p.consume(token.LBRACE, "expected '{' to start inline brainfuck block"); err != nil {
		return nil, err
	}

	var segments []ast.BFSegment
	for {
		ops, stop, err := p.scanner.ScanBFRun()
		if err != nil {
			return nil, p.errorAtCurrent(err.Error())
		}
		if ops != "" {
			segments = append(segments, ast.RawBFSegment{Ops: ops})
		}
		if stop == '}' {
			if _, err := p.consume(token.RBRACE, "expected '}' to close inline brainfuck block"); err != nil {
				return nil, err
			}
			break
		}
		body, err := p.parseClauseList()
		if err != nil {
			return nil, err
		}
		segments = append(segments, ast.EmbeddedBlockSegment{Body: body})
	}

	return &ast.InlineBF{Pos_: pos, Location: loc, Clobbers: clobbers, Segments: segments}, nil
}
