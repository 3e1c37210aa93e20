package parser

import "mastermindc/internal/ast"

// ParseSource tokenises and parses a source file, returning the top-level
// clause list plus any lexical and syntax errors encountered. Parsing
// continues past an error (resynchronising at the next likely clause
// boundary) so a single file can report more than one problem at once.
func ParseSource(filename, source string) ([]ast.Clause, []ScanError, []ParseError) {
	scanner := NewScanner(filename, source)
	p := NewParser(filename, source, scanner)
	clauses := p.ParseProgram()
	return clauses, scanner.Errors(), p.errors
}
