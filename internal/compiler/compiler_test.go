package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mastermindc/internal/vm"
)

func runSource(t *testing.T, source string, cfg Config) string {
	t.Helper()
	program, err := Compile("t.mm", source, cfg)
	require.NoError(t, err)

	var out strings.Builder
	m := vm.New(program)
	require.NoError(t, m.Run(strings.NewReader(""), &out))
	return out.String()
}

func TestHelloOutput(t *testing.T) {
	src := `output 'h'; output 'e'; output 'l'; output 'l'; output 'o'; output 10;`
	assert.Equal(t, "hello\n", runSource(t, src, Config{}))
}

func TestDrainCountsUp(t *testing.T) {
	src := `
cell a = 10; cell b = 1;
drain a { output '0' + b; output 10; b += 1; };
`
	expected := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n"
	assert.Equal(t, expected, runSource(t, src, Config{}))
}

func TestIfElseFiresOnNonZero(t *testing.T) {
	src := `cell x = 7; cell y = 9; cell z = x - y; if z { output 'A'; } else { output 'B'; }`
	assert.Equal(t, "B", runSource(t, src, Config{}))
}

func TestHelloOutputWithPeephole(t *testing.T) {
	src := `output 'h'; output 'e'; output 'l'; output 'l'; output 'o'; output 10;`
	assert.Equal(t, "hello\n", runSource(t, src, Config{OptimiseGeneratedCode: true}))
}

func TestConstantsOptimiserStillProducesCorrectValue(t *testing.T) {
	src := `cell a = 100; output a;`
	assert.Equal(t, string(rune(100)), runSource(t, src, Config{OptimiseConstants: true}))
}

func TestUnreachableLoopsStillProduceCorrectValue(t *testing.T) {
	src := `cell a = 0; if a { output 'A'; } else { output 'B'; }`
	assert.Equal(t, "B", runSource(t, src, Config{OptimiseUnreachableLoops: true}))
}

func TestParseErrorIsAFrontendError(t *testing.T) {
	_, err := Compile("t.mm", `cell a = ;`, Config{})
	require.Error(t, err)
	var fe *FrontendError
	require.ErrorAs(t, err, &fe)
	assert.NotEmpty(t, fe.Diagnostics)
}

func Test2DCompilesAndRuns(t *testing.T) {
	src := `output 'h'; output 'i';`
	assert.Equal(t, "hi", runSource(t, src, Config{Enable2DGrid: true}))
}
