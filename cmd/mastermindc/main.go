package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"mastermindc/internal/compiler"
	ierrors "mastermindc/internal/errors"
	"mastermindc/internal/tape"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mastermindc [flags] <file.mm>\n")
		flag.PrintDefaults()
	}

	enable2D := flag.Bool("2d", false, "target the 2-D tape")
	allocMethod := flag.Int("alloc", 0, "memory allocation method in 2-D mode (0=linear, 1=zigzag, 2=spiral, 3=tiles)")
	optimise := flag.Bool("O", false, "run the peephole BF optimiser")
	exhaustive := flag.Bool("O-exhaustive", false, "use the exhaustive 2-D peephole optimiser instead of greedy")
	optimiseConstants := flag.Bool("O-constants", false, "invoke the constants optimiser on cell additions")
	optimiseClearing := flag.Bool("O-clearing", false, "prefer +/- over [-] when a cell's value is known and small")
	optimiseUnreachable := flag.Bool("O-unreachable", false, "statically skip loops whose condition is a known zero")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	cfg := compiler.Config{
		Enable2DGrid:                     *enable2D,
		MemoryAllocationMethod:           tape.AllocPolicy(*allocMethod),
		OptimiseGeneratedCode:            *optimise,
		OptimiseGeneratedAllPermutations: *exhaustive,
		OptimiseConstants:                *optimiseConstants,
		OptimiseCellClearing:             *optimiseClearing,
		OptimiseUnreachableLoops:         *optimiseUnreachable,
	}

	program, err := compiler.Compile(path, string(source), cfg)
	if err != nil {
		reportError(string(source), err)
		os.Exit(1)
	}

	fmt.Println(program)
	color.Green("compiled %s", path)
}

// reportError prints a friendly caret-style diagnostic for a FrontendError,
// falling back to a plain message for every other stage's errors.
func reportError(source string, err error) {
	fe, ok := err.(*compiler.FrontendError)
	if !ok {
		color.Red("error: %s", err)
		return
	}

	reporter := ierrors.NewErrorReporter("source", source)
	for _, d := range fe.Diagnostics {
		fmt.Print(reporter.FormatError(d))
	}
}
