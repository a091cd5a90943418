// Command zero compiles and runs a Brainfuck program, either by JIT-
// compiling it to native AArch64 and executing it in place, or (with
// -interp) by walking the source directly with a portable interpreter.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phuebner/zero/internal/compile"
	"github.com/phuebner/zero/internal/interp"
	"github.com/phuebner/zero/internal/jit"
	"github.com/phuebner/zero/pkg/arm64"
)

func main() {
	fs := flag.NewFlagSet("zero", flag.ExitOnError)
	useInterp := fs.Bool("interp", false, "run with the tree-walking interpreter instead of the JIT")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: zero [-interp] <file>")
		fs.PrintDefaults()
		os.Exit(1)
	}
	fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "zero: please provide the input file")
		fs.Usage()
	}

	file := filepath.Clean(fs.Arg(0))
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "zero:", err)
		os.Exit(1)
	}

	if *useInterp {
		runInterp(src)
		return
	}
	runJIT(src)
}

func runInterp(src []byte) {
	if err := interp.New().Run(src); err != nil {
		fmt.Fprintln(os.Stderr, "zero:", err)
		os.Exit(1)
	}
}

func runJIT(src []byte) {
	enc := arm64.NewEncoder(len(src))
	enc.Prelude()

	c := compile.New(enc)
	for i := 0; i < len(src); i++ {
		if err := c.Feed(src[i]); err != nil {
			fmt.Fprintln(os.Stderr, "zero:", err)
			os.Exit(1)
		}
	}
	if err := c.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "zero:", err)
		os.Exit(1)
	}

	prog, err := jit.Load(enc.Bytes())
	if err != nil {
		fmt.Fprintln(os.Stderr, "zero:", err)
		os.Exit(1)
	}
	defer prog.Close()

	tape := make([]byte, interp.MemorySize)
	os.Exit(int(prog.Run(tape)))
}
