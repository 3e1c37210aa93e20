package parser

import (
	"mastermindc/internal/ast"
	"mastermindc/token"
)

// ParseProgram parses a whole source file into a top-level clause list.
func (p *Parser) ParseProgram() []ast.Clause {
	var clauses []ast.Clause
	for !p.isAtEnd() {
		c, err := p.parseClause()
		if err != nil {
			p.synchronize()
			continue
		}
		clauses = append(clauses, c)
	}
	return clauses
}

// parseClauseList parses clauses until (and consuming) a closing '}'.
func (p *Parser) parseClauseList() ([]ast.Clause, error) {
	if _, err := p.consume(token.LBRACE, "expected '{'"); err != nil {
		return nil, err
	}
	var clauses []ast.Clause
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		c, err := p.parseClause()
		if err != nil {
			p.synchronize()
			continue
		}
		clauses = append(clauses, c)
	}
	if _, err := p.consume(token.RBRACE, "expected '}'"); err != nil {
		return nil, err
	}
	return clauses, nil
}

func (p *Parser) parseClause() (ast.Clause, error) {
	switch {
	case p.check(token.STRUCT) && p.isStructDefinitionAhead():
		return p.parseStructDef()
	case p.check(token.CELL), p.check(token.STRUCT):
		return p.parseDeclOrDefine()
	case p.check(token.FN):
		return p.parseFunctionDef()
	case p.check(token.WHILE):
		return p.parseWhileLoop()
	case p.check(token.IF):
		return p.parseIfStatement()
	case p.check(token.COPY), p.check(token.DRAIN):
		return p.parseDrainLoop()
	case p.check(token.ASSERT):
		return p.parseAssert()
	case p.check(token.INPUT):
		return p.parseInput()
	case p.check(token.OUTPUT):
		return p.parseOutput()
	case p.check(token.BF):
		return p.parseInlineBF()
	case p.check(token.LBRACE):
		return p.parseBlock()
	case p.check(token.IDENT), p.check(token.STAR):
		return p.parseIdentStartedClause()
	default:
		err := p.errorAtCurrent("unexpected token at start of clause")
		p.advance()
		return nil, err
	}
}

func (p *Parser) parseBlock() (ast.Clause, error) {
	pos := p.pos()
	body, err := p.parseClauseList()
	if err != nil {
		return nil, err
	}
	return &ast.Block{Pos_: pos, Body: body}, nil
}

// parseDeclOrDefine parses "type name [@loc] (';' | '= expr ;')".
func (p *Parser) parseDeclOrDefine() (ast.Clause, error) {
	pos := p.pos()
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.consumeIdentName("expected variable name")
	if err != nil {
		return nil, err
	}
	var loc ast.LocationSpecifier
	if p.match(token.AT) {
		loc, err = p.parseLocation()
		if err != nil {
			return nil, err
		}
	}
	if p.match(token.ASSIGN) {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.SEMICOLON, "expected ';' after variable definition"); err != nil {
			return nil, err
		}
		return &ast.DefineVariable{Pos_: pos, Name: name, Type: typ, Location: loc, Value: value}, nil
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.DeclareVariable{Pos_: pos, Name: name, Type: typ, Location: loc}, nil
}

func (p *Parser) parseLocation() (ast.LocationSpecifier, error) {
	if p.match(token.LPAREN) {
		xt, err := p.consume(token.INT, "expected x coordinate")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COMMA, "expected ',' in coordinate"); err != nil {
			return nil, err
		}
		yt, err := p.consume(token.INT, "expected y coordinate")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPAREN, "expected ')' after coordinate"); err != nil {
			return nil, err
		}
		x, _ := parseNatural(xt.Literal)
		y, _ := parseNatural(yt.Literal)
		return ast.CoordLocation{X: x, Y: y}, nil
	}
	if p.check(token.INT) {
		t := p.advance()
		n, err := parseNatural(t.Literal)
		if err != nil {
			return nil, p.errorAtCurrent("location literal out of range")
		}
		return ast.LiteralLocation{Value: n}, nil
	}
	name, err := p.consumeIdentName("expected a location literal or variable name")
	if err != nil {
		return nil, err
	}
	return ast.VariableLocation{Name: name}, nil
}

// parseIdentStartedClause handles assignment and function-call statements,
// the two clause kinds that start with an identifier or '*'.
func (p *Parser) parseIdentStartedClause() (ast.Clause, error) {
	pos := p.pos()
	if p.check(token.IDENT) && p.checkAt(1, token.LPAREN) {
		call, err := p.parseCallExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.SEMICOLON, "expected ';' after function call"); err != nil {
			return nil, err
		}
		return &ast.CallClause{Call: call}, nil
	}

	target, err := p.parseVariableTarget()
	if err != nil {
		return nil, err
	}

	switch {
	case p.match(token.INCREMENT):
		if _, err := p.consume(token.SEMICOLON, "expected ';' after '++'"); err != nil {
			return nil, err
		}
		one := &ast.SumExpression{Pos_: pos, Terms: []ast.Summand{{Term: &ast.NumberLiteral{Pos_: pos, Value: 1}}}}
		return &ast.AssignVariable{Pos_: pos, Target: target, AddOnly: true, Value: one}, nil
	case p.match(token.DECREMENT):
		if _, err := p.consume(token.SEMICOLON, "expected ';' after '--'"); err != nil {
			return nil, err
		}
		negOne := &ast.SumExpression{Pos_: pos, Terms: []ast.Summand{{Negative: true, Term: &ast.NumberLiteral{Pos_: pos, Value: 1}}}}
		return &ast.AssignVariable{Pos_: pos, Target: target, AddOnly: true, Value: negOne}, nil
	case p.match(token.PLUS_ASSIGN):
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.SEMICOLON, "expected ';' after assignment"); err != nil {
			return nil, err
		}
		return &ast.AssignVariable{Pos_: pos, Target: target, AddOnly: true, Value: value}, nil
	case p.match(token.MINUS_ASSIGN):
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.SEMICOLON, "expected ';' after assignment"); err != nil {
			return nil, err
		}
		neg, err := negateExpression(value)
		if err != nil {
			return nil, err
		}
		return &ast.AssignVariable{Pos_: pos, Target: target, AddOnly: true, Value: neg}, nil
	case p.match(token.ASSIGN):
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.SEMICOLON, "expected ';' after assignment"); err != nil {
			return nil, err
		}
		return &ast.AssignVariable{Pos_: pos, Target: target, AddOnly: false, Value: value}, nil
	default:
		return nil, p.errorAtCurrent("expected '=', '+=', '-=', '++' or '--'")
	}
}

func negateExpression(e ast.Expression) (ast.Expression, error) {
	sum, ok := e.(*ast.SumExpression)
	if !ok {
		return nil, ParseError{Message: "'-=' requires a summable expression"}
	}
	terms := make([]ast.Summand, len(sum.Terms))
	for i, t := range sum.Terms {
		terms[i] = ast.Summand{Negative: !t.Negative, Term: t.Term}
	}
	return &ast.SumExpression{Pos_: sum.Pos_, Terms: terms}, nil
}

func (p *Parser) parseCallExpr() (*ast.CallExpr, error) {
	pos := p.pos()
	name, err := p.consumeIdentName("expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPAREN, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var args []*ast.VariableTarget
	if !p.check(token.RPAREN) {
		for {
			arg, err := p.parseVariableTarget()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after call arguments"); err != nil {
		return nil, err
	}
	return &ast.CallExpr{Pos_: pos, Name: name, Args: args}, nil
}

func (p *Parser) parseVariableTarget() (*ast.VariableTarget, error) {
	pos := p.pos()
	spread := p.match(token.STAR)
	name, err := p.consumeIdentName("expected variable name")
	if err != nil {
		return nil, err
	}
	var subs []ast.Subscript
	for {
		if p.match(token.DOT) {
			field, err := p.consumeIdentName("expected field name after '.'")
			if err != nil {
				return nil, err
			}
			subs = append(subs, ast.FieldSubscript{Name: field})
			continue
		}
		if p.check(token.LBRACKET) {
			p.advance()
			idxTok, err := p.consume(token.INT, "array index must be a compile-time natural number literal")
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RBRACKET, "expected ']' after array index"); err != nil {
				return nil, err
			}
			n, convErr := parseNatural(idxTok.Literal)
			if convErr != nil {
				return nil, p.errorAtCurrent("array index out of range")
			}
			subs = append(subs, ast.IndexSubscript{Index: n})
			continue
		}
		break
	}
	return &ast.VariableTarget{Pos_: pos, Spread: spread, Name: name, Subscripts: subs}, nil
}

// parseExpression parses one of the three standalone expression forms.
func (p *Parser) parseExpression() (ast.Expression, error) {
	if p.check(token.LBRACKET) {
		return p.parseArrayLiteral()
	}
	if p.check(token.STRING) {
		t := p.advance()
		return &ast.StringLiteralExpression{Pos_: p.pos(), Value: t.Literal}, nil
	}
	return p.parseSumExpression()
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	pos := p.pos()
	p.advance() // consume '['
	var elems []ast.Expression
	if !p.check(token.RBRACKET) {
		for {
			e, err := p.parseSumExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RBRACKET, "expected ']' after array literal"); err != nil {
		return nil, err
	}
	return &ast.ArrayLiteralExpression{Pos_: pos, Elements: elems}, nil
}

func (p *Parser) parseSumExpression() (ast.Expression, error) {
	pos := p.pos()
	var terms []ast.Summand
	first := true
	for {
		negative := false
		if first {
			if p.match(token.MINUS) {
				negative = true
			} else {
				p.match(token.PLUS)
			}
		} else {
			if p.match(token.MINUS) {
				negative = true
			} else if p.match(token.PLUS) {
				negative = false
			} else {
				break
			}
		}
		term, err := p.parseSummandTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, ast.Summand{Negative: negative, Term: term})
		first = false
	}
	if len(terms) == 0 {
		return nil, p.errorAtCurrent("expected an expression")
	}
	return &ast.SumExpression{Pos_: pos, Terms: terms}, nil
}

func (p *Parser) parseSummandTerm() (ast.SummandTerm, error) {
	pos := p.pos()
	switch {
	case p.check(token.INT):
		t := p.advance()
		n, err := parseNatural(t.Literal)
		if err != nil {
			return nil, p.errorAtCurrent("integer literal out of range")
		}
		return &ast.NumberLiteral{Pos_: pos, Value: n}, nil
	case p.check(token.CHAR):
		t := p.advance()
		return &ast.CharLiteral{Pos_: pos, Value: t.Literal[0]}, nil
	case p.match(token.TRUE):
		return &ast.BoolLiteral{Pos_: pos, Value: true}, nil
	case p.match(token.FALSE):
		return &ast.BoolLiteral{Pos_: pos, Value: false}, nil
	case p.check(token.LPAREN):
		p.advance()
		inner, err := p.parseSumExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPAREN, "expected ')' after parenthesised expression"); err != nil {
			return nil, err
		}
		return &ast.ParenTerm{Inner: inner}, nil
	case p.check(token.IDENT), p.check(token.STAR):
		target, err := p.parseVariableTarget()
		if err != nil {
			return nil, err
		}
		return &ast.TargetTerm{Target: target}, nil
	default:
		return nil, p.errorAtCurrent("expected a number, character, boolean, variable, or '('")
	}
}

func (p *Parser) parseWhileLoop() (ast.Clause, error) {
	pos := p.pos()
	p.advance() // 'while'
	cond, err := p.parseVariableTarget()
	if err != nil {
		return nil, err
	}
	body, err := p.parseClauseList()
	if err != nil {
		return nil, err
	}
	return &ast.WhileLoop{Pos_: pos, Cond: cond, Body: body}, nil
}

func (p *Parser) parseIfStatement() (ast.Clause, error) {
	pos := p.pos()
	p.advance() // 'if'
	negate := p.match(token.NOT)
	cond, err := p.parseVariableTarget()
	if err != nil {
		return nil, err
	}
	then, err := p.parseClauseList()
	if err != nil {
		return nil, err
	}
	var elseBody []ast.Clause
	if p.match(token.ELSE) {
		elseBody, err = p.parseClauseList()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStatement{Pos_: pos, Cond: cond, Negate: negate, Then: then, Else: elseBody}, nil
}

func (p *Parser) parseDrainLoop() (ast.Clause, error) {
	pos := p.pos()
	copyStyle := p.match(token.COPY)
	if _, err := p.consume(token.DRAIN, "expected 'drain'"); err != nil {
		return nil, err
	}
	sourceExpr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	drain := &ast.DrainLoop{Pos_: pos, Copy: copyStyle}
	if sum, ok := sourceExpr.(*ast.SumExpression); ok && len(sum.Terms) == 1 && !sum.Terms[0].Negative {
		if tt, ok := sum.Terms[0].Term.(*ast.TargetTerm); ok {
			drain.SourceVar = tt.Target
		}
	}
	if drain.SourceVar == nil {
		drain.SourceExpr = sourceExpr
	}
	if p.match(token.INTO) {
		for {
			target, err := p.parseVariableTarget()
			if err != nil {
				return nil, err
			}
			drain.Targets = append(drain.Targets, target)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	body, err := p.parseClauseList()
	if err != nil {
		return nil, err
	}
	drain.Body = body
	return drain, nil
}

func (p *Parser) parseAssert() (ast.Clause, error) {
	pos := p.pos()
	p.advance() // 'assert'
	target, err := p.parseVariableTarget()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.EQUALS, "expected 'equals'"); err != nil {
		return nil, err
	}
	assertClause := &ast.AssertVariable{Pos_: pos, Target: target}
	if p.match(token.UNKNOWN) {
		assertClause.ExpectUnknown = true
	} else {
		t, err := p.consume(token.INT, "expected an integer or 'unknown'")
		if err != nil {
			return nil, err
		}
		n, convErr := parseNatural(t.Literal)
		if convErr != nil {
			return nil, p.errorAtCurrent("asserted value out of range")
		}
		assertClause.Expected = &n
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after assertion"); err != nil {
		return nil, err
	}
	return assertClause, nil
}

func (p *Parser) parseInput() (ast.Clause, error) {
	pos := p.pos()
	p.advance() // 'input'
	target, err := p.parseVariableTarget()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after input"); err != nil {
		return nil, err
	}
	return &ast.InputVariable{Pos_: pos, Target: target}, nil
}

func (p *Parser) parseOutput() (ast.Clause, error) {
	pos := p.pos()
	p.advance() // 'output'
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after output"); err != nil {
		return nil, err
	}
	if sum, ok := value.(*ast.SumExpression); ok && len(sum.Terms) == 1 && !sum.Terms[0].Negative {
		if tt, ok := sum.Terms[0].Term.(*ast.TargetTerm); ok {
			return &ast.OutputVariable{Pos_: pos, Target: tt.Target}, nil
		}
	}
	return &ast.OutputValue{Pos_: pos, Value: value}, nil
}

func (p *Parser) parseStructDef() (ast.Clause, error) {
	pos := p.pos()
	p.advance() // 'struct'
	name, err := p.consumeIdentName("expected struct name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LBRACE, "expected '{' after struct name"); err != nil {
		return nil, err
	}
	var fields []ast.StructFieldDef
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		fieldPos := p.pos()
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fieldName, err := p.consumeIdentName("expected field name")
		if err != nil {
			return nil, err
		}
		var offset *int64
		if p.match(token.AT) {
			t, err := p.consume(token.INT, "expected a fixed cell offset")
			if err != nil {
				return nil, err
			}
			n, convErr := parseNatural(t.Literal)
			if convErr != nil {
				return nil, p.errorAtCurrent("field offset out of range")
			}
			offset = &n
		}
		fields = append(fields, ast.StructFieldDef{Pos_: fieldPos, Name: fieldName, Type: typ, Offset: offset})
		if !p.match(token.COMMA) {
			if !p.check(token.RBRACE) {
				if _, err := p.consume(token.SEMICOLON, "expected ',' or ';' between struct fields"); err != nil {
					return nil, err
				}
			}
		}
	}
	if _, err := p.consume(token.RBRACE, "expected '}' after struct fields"); err != nil {
		return nil, err
	}
	return &ast.StructDefClause{Def: &ast.StructDef{Pos_: pos, Name: name, Fields: fields}}, nil
}

func (p *Parser) parseFunctionDef() (ast.Clause, error) {
	pos := p.pos()
	p.advance() // 'fn'
	name, err := p.consumeIdentName("expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPAREN, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []ast.FunctionParam
	if !p.check(token.RPAREN) {
		for {
			paramPos := p.pos()
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			paramName, err := p.consumeIdentName("expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, ast.FunctionParam{Pos_: paramPos, Name: paramName, Type: typ})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	body, err := p.parseClauseList()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDefClause{Def: &ast.FunctionDef{Pos_: pos, Name: name, Params: params, Body: body}}, nil
}
