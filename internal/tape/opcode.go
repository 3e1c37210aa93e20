package tape

import (
	"fmt"
	"strings"
)

// Opcode is the BF opcode alphabet. Up/Down only appear in 2-D programs;
// a 1-D pipeline simply never emits them.
type Opcode int

const (
	Add Opcode = iota
	Subtract
	Right
	Left
	Up
	Down
	OpenLoop
	CloseLoop
	Output
	Input
	Clear
)

func (o Opcode) String() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Right:
		return ">"
	case Left:
		return "<"
	case Up:
		return "^"
	case Down:
		return "v"
	case OpenLoop:
		return "["
	case CloseLoop:
		return "]"
	case Output:
		return "."
	case Input:
		return ","
	case Clear:
		return "[-]"
	default:
		return "?"
	}
}

// Render renders an opcode sequence as a BF string, writing Clear as the
// literal three characters "[-]".
func Render(ops []Opcode) string {
	var b strings.Builder
	for _, op := range ops {
		b.WriteString(op.String())
	}
	return b.String()
}

// Parse parses a BF string into an opcode sequence, recognising the
// three-character run "[-]" as a single Clear opcode.
func Parse(s string) ([]Opcode, error) {
	var ops []Opcode
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '[' && i+2 < len(s) && s[i+1] == '-' && s[i+2] == ']' {
			ops = append(ops, Clear)
			i += 2
			continue
		}
		switch c {
		case '+':
			ops = append(ops, Add)
		case '-':
			ops = append(ops, Subtract)
		case '>':
			ops = append(ops, Right)
		case '<':
			ops = append(ops, Left)
		case '^':
			ops = append(ops, Up)
		case 'v':
			ops = append(ops, Down)
		case '[':
			ops = append(ops, OpenLoop)
		case ']':
			ops = append(ops, CloseLoop)
		case '.':
			ops = append(ops, Output)
		case ',':
			ops = append(ops, Input)
		default:
			return nil, fmt.Errorf("unrecognised brainfuck character %q at offset %d", c, i)
		}
	}
	return ops, nil
}
