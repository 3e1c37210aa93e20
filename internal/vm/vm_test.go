package vm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCode(t *testing.T, program, input string) string {
	t.Helper()
	m := New(program)
	var out strings.Builder
	err := m.Run(strings.NewReader(input), &out)
	require.NoError(t, err)
	return out.String()
}

func TestEmptyProgram(t *testing.T) {
	assert.Equal(t, "", runCode(t, "", ""))
}

func TestHelloWorld1(t *testing.T) {
	program := "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."
	assert.Equal(t, "Hello World!\n", runCode(t, program, ""))
}

func TestHelloWorld2(t *testing.T) {
	program := "+[-->-[>>+>-----<<]<--<---]>-.>>>+.>>..+++[.>]<<<<.+++.------.<<-.>>>>+."
	assert.Equal(t, "Hello, World!", runCode(t, program, ""))
}

func TestRandomMess(t *testing.T) {
	program := "+++++[>+++++[>++>++>+++>+++>++++>++++<<<<<<-]<-]+++++[>>[>]<[+.<<]>[++.>>>]<[+.<]>[-.>>]<[-.<<<]>[.>]<[+.<]<-]++++++++++."
	expected := "eL34NfeOL454KdeJ44JOdefePK55gQ67ShfTL787KegJ77JTeghfUK88iV9:XjgYL:;:KfiJ::JYfijgZK;;k[<=]lh^L=>=KgkJ==J^gklh_K>>m`?@bnicL@A@KhmJ@@JchmnidKAA\n"
	assert.Equal(t, expected, runCode(t, program, ""))
}

func TestEchoInput(t *testing.T) {
	assert.Equal(t, "a", runCode(t, ",.", "a"))
}

func TestUnknownCharactersSkipped(t *testing.T) {
	assert.Equal(t, "a", runCode(t, "hello ,. world", "a"))
}

func TestUnbalancedLoopIsAnError(t *testing.T) {
	m := New("[+")
	var out strings.Builder
	err := m.Run(strings.NewReader(""), &out)
	assert.Error(t, err)
}

func TestUnmatchedCloseIsAnError(t *testing.T) {
	m := New("+]")
	var out strings.Builder
	err := m.Run(strings.NewReader(""), &out)
	assert.Error(t, err)
}

func TestInstructionBudgetExhaustion(t *testing.T) {
	m := New("+[+]")
	m.MaxOps = 10
	var out strings.Builder
	err := m.Run(strings.NewReader(""), &out)
	assert.Error(t, err)
}

func Test2DAxes(t *testing.T) {
	// ^ moves to a distinct row; a separate '.' output proves +/- act on
	// a different cell than the one at the origin row.
	program := "+^++.v."
	assert.Equal(t, "\x02\x01", runCode(t, program, ""))
}
