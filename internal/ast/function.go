package ast

// FunctionParam is one positional parameter of a function definition; only
// its type participates in overload resolution.
type FunctionParam struct {
	Pos_ Position
	Name string
	Type TypeExpr
}

func (p *FunctionParam) Pos() Position { return p.Pos_ }

// FunctionDef is a named function with its parameter list and body. Bodies
// are hoisted so that functions within one scope may forward-reference
// each other.
type FunctionDef struct {
	Pos_   Position
	Name   string
	Params []FunctionParam
	Body   []Clause
}

func (f *FunctionDef) Pos() Position { return f.Pos_ }
