// Package interp provides a tree-walking Brainfuck interpreter: a
// reference execution path alongside the AArch64 JIT, useful on
// platforms the JIT doesn't target and for validating its output.
package interp

import (
	"io"
	"os"
)

// MemorySize is the fixed tape length. The legacy implementation this
// interpreter is modeled on declared a 30000-cell stack array but never
// initialized its data pointer before use, so its effective behavior was
// undefined from the first instruction. This interpreter instead commits
// to a single, always-zeroed, non-wrapping 50000-byte tape starting at
// cell 0 — the same contract the JIT compiler targets.
const MemorySize = 50000

// EOFBehavior specifies how Run handles a ',' read past the end of input.
type EOFBehavior int

const (
	EOFZero     EOFBehavior = iota // Set cell to 0 (default)
	EOFMinusOne                    // Set cell to 255
	EOFNoChange                    // Leave cell unchanged
)

// Interp is a tree-walking interpreter over raw Brainfuck source.
type Interp struct {
	memSize     int
	input       io.Reader
	output      io.Writer
	eofBehavior EOFBehavior
	memory      []byte
	dp          int
	pc          int
	ioBuf       [1]byte
}

// Option configures an Interp.
type Option func(*Interp)

// WithMemorySize overrides the tape length (default MemorySize).
func WithMemorySize(size int) Option {
	return func(in *Interp) {
		in.memSize = size
	}
}

// WithInput sets the input reader (default os.Stdin).
func WithInput(r io.Reader) Option {
	return func(in *Interp) {
		in.input = r
	}
}

// WithOutput sets the output writer (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(in *Interp) {
		in.output = w
	}
}

// WithEOFBehavior sets the EOF handling behavior (default EOFZero).
func WithEOFBehavior(b EOFBehavior) Option {
	return func(in *Interp) {
		in.eofBehavior = b
	}
}

// New creates an Interp with the given options applied over the defaults.
func New(opts ...Option) *Interp {
	in := &Interp{
		memSize:     MemorySize,
		input:       os.Stdin,
		output:      os.Stdout,
		eofBehavior: EOFZero,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run parses and executes src in one pass, returning a *ParseError for
// unbalanced brackets or a *RuntimeError if the data pointer runs off
// either end of the tape. Bytes outside `+-<>[].,` are ignored, matching
// the JIT compiler's comment handling.
func (in *Interp) Run(src []byte) error {
	jump, err := buildJumpTable(src)
	if err != nil {
		return err
	}

	in.memory = make([]byte, in.memSize)
	in.dp = 0
	in.pc = 0

	memory := in.memory
	memSize := in.memSize
	n := len(src)

	for in.pc < n {
		switch src[in.pc] {
		case '+':
			memory[in.dp]++
		case '-':
			memory[in.dp]--
		case '>':
			in.dp++
			if in.dp >= memSize {
				return &RuntimeError{Msg: "data pointer out of bounds (ran off the high end of the tape)", PC: in.pc}
			}
		case '<':
			in.dp--
			if in.dp < 0 {
				return &RuntimeError{Msg: "data pointer out of bounds (ran off the low end of the tape)", PC: in.pc}
			}
		case '.':
			in.ioBuf[0] = memory[in.dp]
			if _, err := in.output.Write(in.ioBuf[:]); err != nil {
				return &RuntimeError{Msg: "output error: " + err.Error(), PC: in.pc}
			}
		case ',':
			nr, err := in.input.Read(in.ioBuf[:])
			switch {
			case err == io.EOF || nr == 0:
				switch in.eofBehavior {
				case EOFZero:
					memory[in.dp] = 0
				case EOFMinusOne:
					memory[in.dp] = 255
				case EOFNoChange:
				}
			case err != nil:
				return &RuntimeError{Msg: "input error: " + err.Error(), PC: in.pc}
			default:
				memory[in.dp] = in.ioBuf[0]
			}
		case '[':
			if memory[in.dp] == 0 {
				in.pc = jump[in.pc]
				continue
			}
		case ']':
			if memory[in.dp] != 0 {
				in.pc = jump[in.pc]
				continue
			}
		}
		in.pc++
	}
	return nil
}

// buildJumpTable scans src for matching bracket pairs, recording each
// bracket's partner offset in both directions. It returns a *ParseError
// the moment a ']' has no open '[' to match, or once scanning finishes
// with unmatched '[' left on the stack — the same two conditions, worded
// identically, that the streaming compiler detects.
func buildJumpTable(src []byte) (map[int]int, error) {
	jump := make(map[int]int)
	var stack []int

	for i, b := range src {
		switch b {
		case '[':
			stack = append(stack, i)
		case ']':
			if len(stack) == 0 {
				return nil, &ParseError{Msg: "program parse error: expected [", Offset: i}
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jump[start] = i
			jump[i] = start
		}
	}
	if len(stack) > 0 {
		return nil, &ParseError{Msg: "program parse error: expected ]", Offset: len(src)}
	}
	return jump, nil
}
