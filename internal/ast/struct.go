package ast

// StructFieldDef is one field of a struct definition, with an optional
// fixed cell offset.
type StructFieldDef struct {
	Pos_   Position
	Name   string
	Type   TypeExpr
	Offset *int64
}

func (f *StructFieldDef) Pos() Position { return f.Pos_ }

// StructDef is a named struct with its field list.
type StructDef struct {
	Pos_   Position
	Name   string
	Fields []StructFieldDef
}

func (s *StructDef) Pos() Position { return s.Pos_ }
